package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"plcsync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	dryRunReconcile bool
	yesConfirm      bool
)

// reconcileCmd drives a target store toward the desired snapshot.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <desired> <target>",
	Short: "Reconcile a target toward an authoritative desired snapshot",
	Long: `Reconcile plans and applies the creates, updates, and deletes needed to
make the target match the desired snapshot exactly. Units absent from the
desired snapshot are deleted from the target.

Examples:
  # Report only
  plcsync reconcile project.xml ./deployed --dry-run

  # Apply with interactive confirmation
  plcsync reconcile project.xml s3://snapshots/line-a

  # Apply non-interactively
  plcsync reconcile project.xml db://line-a --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Plan and report only, no mutations")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	desiredRef, targetRef := args[0], args[1]
	ctx := context.Background()

	r, err := newRuntime()
	if err != nil {
		return err
	}

	r.log.Info("Starting reconciliation",
		zap.String("desired", desiredRef),
		zap.String("target", targetRef))

	desired, err := r.snapshot(ctx, desiredRef)
	if err != nil {
		return fmt.Errorf("failed to extract desired %s: %w", desiredRef, err)
	}
	target, err := r.snapshot(ctx, targetRef)
	if err != nil {
		return fmt.Errorf("failed to extract target %s: %w", targetRef, err)
	}

	plan := reconcile.BuildPlan(desired, target)

	fmt.Println(reconcile.RenderPlan(plan))

	if len(plan.Ops) == 0 {
		return nil
	}

	if dryRunReconcile {
		r.log.Info("Dry-run mode: no changes were made.")
		return nil
	}

	if !confirmDestructiveAction() {
		r.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	exec, err := r.executor(targetRef)
	if err != nil {
		return err
	}

	opts := reconcile.Options{
		Confirmed: true,
		OpTimeout: r.cfg.Reconcile.OpTimeout(),
	}

	report := reconcile.Execute(ctx, plan, exec, opts, r.log)
	fmt.Println(reconcile.RenderReport(report))

	if report.Failed > 0 {
		return &partialError{msg: fmt.Sprintf("reconciliation finished with %d failed op(s)", report.Failed)}
	}
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
