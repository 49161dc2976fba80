package reconcile

import (
	"sort"

	"plcsync/core/entity"
)

// kindRank orders kinds so declaration-carrying artifacts come before
// their consumers and methods come after their owning POUs.
func kindRank(k entity.Kind) int {
	switch k {
	case entity.KindGlobalVariableList, entity.KindUserDefinedType:
		return 0
	case entity.KindMethod:
		return 2
	default:
		return 1
	}
}

// BuildPlan derives the mutation plan that makes the current state match
// the desired snapshot. Desired is authoritative: units present only in
// current are deleted. A unit whose kind changed is replanned as a delete
// plus a create, since an in-place update cannot change kind.
//
// Ordering: creates and updates form one group in ascending kind rank,
// then deletes run in descending rank, ties broken by qualified name, so
// the plan is deterministic and dependency-shaped. An updated declaration
// therefore precedes any created consumer of the same rank order.
func BuildPlan(desired, current *entity.EntitySet) *Plan {
	var changes, deletes []PlanOp

	for _, name := range desired.Names() {
		want, _ := desired.Get(name)
		have, exists := current.Get(name)

		switch {
		case !exists:
			changes = append(changes, PlanOp{
				Type:          OpCreate,
				QualifiedName: name,
				Kind:          want.Kind,
				NewBody:       want.Body,
			})
		case want.Kind != have.Kind:
			deletes = append(deletes, PlanOp{
				Type:          OpDelete,
				QualifiedName: name,
				Kind:          have.Kind,
			})
			changes = append(changes, PlanOp{
				Type:          OpCreate,
				QualifiedName: name,
				Kind:          want.Kind,
				NewBody:       want.Body,
			})
		case want.Body != have.Body:
			op := PlanOp{
				Type:          OpUpdate,
				QualifiedName: name,
				Kind:          want.Kind,
				NewBody:       want.Body,
			}
			if want.Kind == entity.KindGlobalVariableList {
				op.LostVars = lostVariables(have.Body, want.Body)
			}
			changes = append(changes, op)
		}
	}

	for _, name := range current.Names() {
		if desired.Has(name) {
			continue
		}
		have, _ := current.Get(name)
		deletes = append(deletes, PlanOp{
			Type:          OpDelete,
			QualifiedName: name,
			Kind:          have.Kind,
		})
	}

	sortOps(changes, false)
	sortOps(deletes, true)

	plan := &Plan{}
	plan.Ops = append(plan.Ops, changes...)
	plan.Ops = append(plan.Ops, deletes...)

	plan.Summary = PlanSummary{Deletes: len(deletes)}
	for _, op := range changes {
		switch op.Type {
		case OpCreate:
			plan.Summary.Creates++
		case OpUpdate:
			plan.Summary.Updates++
		}
		if len(op.LostVars) > 0 {
			plan.Summary.DataLossRisks++
		}
	}
	return plan
}

// sortOps orders operations by kind rank then qualified name. Deletes use
// descending rank so consumers go away before their declarations.
func sortOps(ops []PlanOp, descending bool) {
	sort.Slice(ops, func(i, j int) bool {
		ri, rj := kindRank(ops[i].Kind), kindRank(ops[j].Kind)
		if ri != rj {
			if descending {
				return ri > rj
			}
			return ri < rj
		}
		return ops[i].QualifiedName < ops[j].QualifiedName
	})
}

// lostVariables lists variable names declared in the current GVL body but
// absent from the desired one. A full-replacement update drops them.
func lostVariables(currentBody, desiredBody string) []string {
	desired := make(map[string]bool)
	for _, name := range entity.GVLVariableNames(desiredBody) {
		desired[name] = true
	}

	var lost []string
	for _, name := range entity.GVLVariableNames(currentBody) {
		if !desired[name] {
			lost = append(lost, name)
		}
	}
	sort.Strings(lost)
	return lost
}
