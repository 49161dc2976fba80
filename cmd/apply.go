package cmd

import (
	"fmt"

	"plcsync/core/diffset"
	"plcsync/core/extract"
	"plcsync/core/patch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var applyCmd = &cobra.Command{
	Use:   "apply <diffDir> <targetDir> <outDir>",
	Short: "Apply a written diff onto a target snapshot",
	Long: `Apply the diff artifacts in diffDir onto the snapshot in targetDir and
write the merged snapshot into outDir.

Every entry is applied independently; conflicting entries leave the
target's unit untouched. The merged snapshot and the report are always
written, and any conflict yields a distinct exit code.`,
	Args: cobra.ExactArgs(3),
	RunE: runApply,
}

func init() {
	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	diffDir, targetDir, outDir := args[0], args[1], args[2]

	r, err := newRuntime()
	if err != nil {
		return err
	}

	ds, err := diffset.ReadDir(diffDir)
	if err != nil {
		return fmt.Errorf("failed to read diff %s: %w", diffDir, err)
	}

	target, err := extract.FromDir(targetDir)
	if err != nil {
		return fmt.Errorf("failed to extract target %s: %w", targetDir, err)
	}

	merged, report, err := patch.Apply(ds, target)
	if err != nil {
		return err
	}

	if err := extract.WriteDir(merged, outDir); err != nil {
		return err
	}

	r.log.Info("Apply finished",
		zap.String("out", outDir),
		zap.Int("applied", report.Applied),
		zap.Int("conflicts", report.Conflicts))

	if !report.Clean() {
		for _, res := range report.Results {
			if res.Outcome == patch.OutcomeConflict {
				r.log.Warn("Conflict", zap.String("qualified_name", res.QualifiedName), zap.String("detail", res.Detail))
			}
		}
		return &partialError{msg: fmt.Sprintf("completed with %d conflict(s)", report.Conflicts)}
	}
	return nil
}
