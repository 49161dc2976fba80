package cmd

import (
	"context"
	"fmt"

	"plcsync/core/diffset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var diffCmd = &cobra.Command{
	Use:   "diff <base> <target> <outDir>",
	Short: "Diff two snapshots and write the diff artifacts",
	Long: `Compare a base snapshot against a target snapshot and write the
classified diff (per-entry artifacts plus diff_summary.txt) into the
output directory.

Examples:
  plcsync diff ./before ./after ./changes
  plcsync diff s3://snapshots/line-a ./working ./changes`,
	Args: cobra.ExactArgs(3),
	RunE: runDiff,
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	baseRef, targetRef, outDir := args[0], args[1], args[2]

	r, err := newRuntime()
	if err != nil {
		return err
	}
	ctx := context.Background()

	base, err := r.snapshot(ctx, baseRef)
	if err != nil {
		return fmt.Errorf("failed to extract base %s: %w", baseRef, err)
	}
	target, err := r.snapshot(ctx, targetRef)
	if err != nil {
		return fmt.Errorf("failed to extract target %s: %w", targetRef, err)
	}

	ds, err := diffset.Diff(base, target)
	if err != nil {
		return err
	}

	if err := diffset.WriteDir(ds, outDir); err != nil {
		return err
	}

	r.log.Info("Diff written",
		zap.String("out", outDir),
		zap.Int("added", ds.Summary.Added),
		zap.Int("removed", ds.Summary.Removed),
		zap.Int("modified", ds.Summary.Modified))
	return nil
}
