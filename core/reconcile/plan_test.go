package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plcsync/core/entity"
)

func mustSet(t *testing.T, units ...entity.CodeUnit) *entity.EntitySet {
	t.Helper()
	set, err := entity.FromUnits(units)
	require.NoError(t, err)
	return set
}

func opNames(ops []PlanOp) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op.Type) + " " + op.QualifiedName
	}
	return names
}

func TestBuildPlan(t *testing.T) {
	t.Run("matching states produce an empty plan", func(t *testing.T) {
		desired := mustSet(t, entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := 1;\n"})
		current := mustSet(t, entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := 1;\n"})

		plan := BuildPlan(desired, current)
		assert.True(t, plan.Empty())
	})

	t.Run("update and authoritative delete", func(t *testing.T) {
		desired := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "VAR_GLOBAL\n\tSEVEN: INT;\nEND_VAR\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := i + 2;\n"},
		)
		current := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "VAR_GLOBAL\n\tSEVEN: INT;\nEND_VAR\n"},
			entity.CodeUnit{QualifiedName: "OldFB", Kind: entity.KindFunctionBlock, Body: "x;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := i + 1;\n"},
		)

		plan := BuildPlan(desired, current)
		assert.Equal(t, []string{"update PLC_PRG", "delete OldFB"}, opNames(plan.Ops))
		assert.Equal(t, PlanSummary{Updates: 1, Deletes: 1}, plan.Summary)
		assert.Equal(t, "i := i + 2;\n", plan.Ops[0].NewBody)
	})

	t.Run("everything in current but not desired is deleted", func(t *testing.T) {
		current := mustSet(t,
			entity.CodeUnit{QualifiedName: "A", Kind: entity.KindProgram, Body: "a;\n"},
			entity.CodeUnit{QualifiedName: "B", Kind: entity.KindFunction, Body: "b;\n"},
		)

		plan := BuildPlan(mustSet(t), current)
		require.Len(t, plan.Ops, 2)
		for _, op := range plan.Ops {
			assert.Equal(t, OpDelete, op.Type)
		}
	})

	t.Run("creates order declarations before consumers before methods", func(t *testing.T) {
		desired := mustSet(t,
			entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindFunctionBlock, Body: "m;\n"},
			entity.CodeUnit{QualifiedName: "Motor/Start", Kind: entity.KindMethod, Body: "s;\n"},
			entity.CodeUnit{QualifiedName: "Speeds", Kind: entity.KindUserDefinedType, Body: "t;\n"},
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "g;\n"},
		)

		plan := BuildPlan(desired, mustSet(t))
		assert.Equal(t, []string{
			"create GVL",
			"create Speeds",
			"create Motor",
			"create Motor/Start",
		}, opNames(plan.Ops))
	})

	t.Run("updated declarations precede created consumers", func(t *testing.T) {
		desired := mustSet(t,
			entity.CodeUnit{QualifiedName: "Consumer", Kind: entity.KindFunctionBlock, Body: "c;\n"},
			entity.CodeUnit{QualifiedName: "Consumer/Run", Kind: entity.KindMethod, Body: "r;\n"},
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "g2;\n"},
		)
		current := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "g1;\n"},
		)

		plan := BuildPlan(desired, current)
		assert.Equal(t, []string{
			"update GVL",
			"create Consumer",
			"create Consumer/Run",
		}, opNames(plan.Ops))
		assert.Equal(t, PlanSummary{Creates: 2, Updates: 1}, plan.Summary)
	})

	t.Run("deletes run in reverse dependency order", func(t *testing.T) {
		current := mustSet(t,
			entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindFunctionBlock, Body: "m;\n"},
			entity.CodeUnit{QualifiedName: "Motor/Start", Kind: entity.KindMethod, Body: "s;\n"},
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "g;\n"},
		)

		plan := BuildPlan(mustSet(t), current)
		assert.Equal(t, []string{
			"delete Motor/Start",
			"delete Motor",
			"delete GVL",
		}, opNames(plan.Ops))
	})

	t.Run("kind change becomes delete plus create", func(t *testing.T) {
		desired := mustSet(t, entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindProgram, Body: "a;\n"})
		current := mustSet(t, entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindFunctionBlock, Body: "a;\n"})

		plan := BuildPlan(desired, current)
		assert.Equal(t, []string{"create Motor", "delete Motor"}, opNames(plan.Ops))
		assert.Equal(t, entity.KindProgram, plan.Ops[0].Kind)
		assert.Equal(t, entity.KindFunctionBlock, plan.Ops[1].Kind)
	})

	t.Run("gvl update surfaces dropped variables", func(t *testing.T) {
		desired := mustSet(t, entity.CodeUnit{
			QualifiedName: "GVL",
			Kind:          entity.KindGlobalVariableList,
			Body:          "VAR_GLOBAL\n\tKEEP: INT;\nEND_VAR\n",
		})
		current := mustSet(t, entity.CodeUnit{
			QualifiedName: "GVL",
			Kind:          entity.KindGlobalVariableList,
			Body:          "VAR_GLOBAL\n\tKEEP: INT;\n\tLEGACY: BOOL;\n\tOLD_LIMIT: REAL;\nEND_VAR\n",
		})

		plan := BuildPlan(desired, current)
		require.Len(t, plan.Ops, 1)
		op := plan.Ops[0]
		assert.Equal(t, OpUpdate, op.Type)
		assert.Equal(t, []string{"LEGACY", "OLD_LIMIT"}, op.LostVars)
		assert.Equal(t, "VAR_GLOBAL\n\tKEEP: INT;\nEND_VAR\n", op.NewBody, "full replacement, no member merge")
		assert.Equal(t, 1, plan.Summary.DataLossRisks)
	})

	t.Run("kind change reconciliation is idempotent", func(t *testing.T) {
		desired := mustSet(t, entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindProgram, Body: "a;\n"})
		current := mustSet(t, entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindFunctionBlock, Body: "a;\n"})

		plan := BuildPlan(desired, current)
		applied := applyPlanToState(t, plan, current)

		unit, ok := applied.Get("Motor")
		require.True(t, ok, "the replacement unit must survive the paired delete")
		assert.Equal(t, entity.KindProgram, unit.Kind)
		assert.True(t, BuildPlan(desired, applied).Empty())
	})

	t.Run("reconciliation is idempotent", func(t *testing.T) {
		desired := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "g2;\n"},
			entity.CodeUnit{QualifiedName: "New", Kind: entity.KindFunction, Body: "n;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "p2;\n"},
		)
		current := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "g1;\n"},
			entity.CodeUnit{QualifiedName: "Old", Kind: entity.KindFunction, Body: "o;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "p1;\n"},
		)

		plan := BuildPlan(desired, current)
		require.False(t, plan.Empty())

		applied := applyPlanToState(t, plan, current)
		second := BuildPlan(desired, applied)
		assert.True(t, second.Empty())
	})
}

// applyPlanToState simulates a fully successful executor run against an
// in-memory state.
func applyPlanToState(t *testing.T, plan *Plan, current *entity.EntitySet) *entity.EntitySet {
	t.Helper()
	state := make(map[string]entity.CodeUnit)
	for _, name := range current.Names() {
		unit, _ := current.Get(name)
		state[name] = unit
	}
	for _, op := range plan.Ops {
		switch op.Type {
		case OpCreate, OpUpdate:
			state[op.QualifiedName] = entity.CodeUnit{
				QualifiedName: op.QualifiedName,
				Kind:          op.Kind,
				Body:          op.NewBody,
			}
		case OpDelete:
			// Executors scope deletes by kind, so a kind-change's trailing
			// delete leaves the freshly created unit alone.
			if unit, ok := state[op.QualifiedName]; ok && unit.Kind == op.Kind {
				delete(state, op.QualifiedName)
			}
		}
	}
	units := make([]entity.CodeUnit, 0, len(state))
	for _, unit := range state {
		units = append(units, unit)
	}
	set, err := entity.FromUnits(units)
	require.NoError(t, err)
	return set
}

func TestRenderPlan(t *testing.T) {
	t.Run("empty plan", func(t *testing.T) {
		out := RenderPlan(&Plan{})
		assert.Contains(t, out, "Nothing to reconcile")
	})

	t.Run("data loss warning is distinct", func(t *testing.T) {
		desired := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "VAR_GLOBAL\n\tA: INT;\nEND_VAR\n"},
		)
		current := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "VAR_GLOBAL\n\tA: INT;\n\tB: INT;\nEND_VAR\n"},
		)

		out := RenderPlan(BuildPlan(desired, current))
		assert.Contains(t, out, "~ update GVL (gvl)")
		assert.Contains(t, out, "!! full GVL replacement drops variable(s): B")
		assert.Contains(t, out, "data-loss risk")
	})
}
