package reconcile

import (
	"fmt"
	"strings"
)

var opSymbols = map[OpType]string{
	OpCreate: "+",
	OpUpdate: "~",
	OpDelete: "-",
}

// RenderPlan formats a plan for dry-run output. GVL updates that drop
// variables get an explicit warning line, since a full replacement is the
// one operation that can silently lose data.
func RenderPlan(plan *Plan) string {
	var b strings.Builder

	if plan.Empty() {
		b.WriteString("Nothing to reconcile: current state matches desired state.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Reconciliation plan: %d create(s), %d update(s), %d delete(s)\n\n",
		plan.Summary.Creates, plan.Summary.Updates, plan.Summary.Deletes)

	for _, op := range plan.Ops {
		fmt.Fprintf(&b, "  %s %s %s (%s)\n", opSymbols[op.Type], op.Type, op.QualifiedName, op.Kind)
		if len(op.LostVars) > 0 {
			fmt.Fprintf(&b, "    !! full GVL replacement drops variable(s): %s\n",
				strings.Join(op.LostVars, ", "))
		}
	}

	if plan.Summary.DataLossRisks > 0 {
		fmt.Fprintf(&b, "\n%d update(s) carry data-loss risk, review the !! lines above.\n",
			plan.Summary.DataLossRisks)
	}
	return b.String()
}

// RenderReport formats an execution report for CLI output.
func RenderReport(report *ExecutionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s: %d applied, %d failed, %d skipped\n",
		report.RunID, report.Applied, report.Failed, report.Skipped)

	for _, res := range report.Results {
		if res.Outcome == OutcomeApplied {
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s: %s\n", res.Outcome, res.Op.Type, res.Op.QualifiedName, res.Detail)
	}
	return b.String()
}
