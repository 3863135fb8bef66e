package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/types"
)

func TestSuggest_MaxBudget_NumericStep(t *testing.T) {
	member := types.TestableConstraint{
		ID: "maxBudget", Kind: types.ConstraintKindProperty, FieldType: types.FieldNumeric,
		Cypher: types.CypherFragment{Clause: "engineer.salary <= $maxBudget", ParamName: "maxBudget", ParamValue: 100000.0},
	}
	full := []types.TestableConstraint{member}
	conflict := types.ConflictSet{Members: full, ResultCount: 1}

	count := func(ctx context.Context, active []types.TestableConstraint) (int, error) {
		for _, c := range active {
			if c.ID == "maxBudget" {
				if v, _ := c.Cypher.ParamValue.(float64); v > 100000 {
					return 5, nil
				}
			}
		}
		return 1, nil
	}

	suggestions, err := Suggest(context.Background(), conflict, full, count)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, types.RelaxNumericStep, suggestions[0].Kind)
	assert.Equal(t, "maxBudget", suggestions[0].Field)
	assert.Equal(t, 5, suggestions[0].ResultingMatches)
}

func TestSuggest_UserSkill_IncludesLowerProficiencyRemoveAndMoveToPreferred(t *testing.T) {
	member := types.TestableConstraint{
		ID: "user_skill_go", Kind: types.ConstraintKindSkillTraversal, Origin: types.OriginUser,
		SkillIDs: []string{"skill_go"}, MinProficiency: types.ProficiencyExpert,
	}
	full := []types.TestableConstraint{member}
	conflict := types.ConflictSet{Members: full, ResultCount: 1}

	count := func(ctx context.Context, active []types.TestableConstraint) (int, error) {
		if len(active) == 0 {
			return 10, nil
		}
		c := active[0]
		if c.ID == "user_skill_go" && c.MinProficiency == types.ProficiencyProficient {
			return 4, nil
		}
		return 1, nil
	}

	suggestions, err := Suggest(context.Background(), conflict, full, count)
	require.NoError(t, err)

	var kinds []types.RelaxationKind
	for _, s := range suggestions {
		kinds = append(kinds, s.Kind)
	}
	assert.Contains(t, kinds, types.RelaxLowerProficiency)
	assert.Contains(t, kinds, types.RelaxRemove)
	assert.Contains(t, kinds, types.RelaxMoveToPreferred)
}

func TestSuggest_DroppedWhenNotBetterThanBaseline(t *testing.T) {
	member := types.TestableConstraint{
		ID: "maxBudget", Kind: types.ConstraintKindProperty, FieldType: types.FieldNumeric,
		Cypher: types.CypherFragment{Clause: "engineer.salary <= $maxBudget", ParamName: "maxBudget", ParamValue: 100000.0},
	}
	full := []types.TestableConstraint{member}
	conflict := types.ConflictSet{Members: full, ResultCount: 5}

	count := func(ctx context.Context, active []types.TestableConstraint) (int, error) {
		return 5, nil // relaxing never helps
	}

	suggestions, err := Suggest(context.Background(), conflict, full, count)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestOneStepDown(t *testing.T) {
	lower, ok := oneStepDown(types.ProficiencyExpert)
	require.True(t, ok)
	assert.Equal(t, types.ProficiencyProficient, lower)

	lower, ok = oneStepDown(types.ProficiencyProficient)
	require.True(t, ok)
	assert.Equal(t, types.ProficiencyLearning, lower)

	_, ok = oneStepDown(types.ProficiencyLearning)
	assert.False(t, ok)
}

func TestSuggest_DerivedConstraint_YieldsOverrideSuggestion(t *testing.T) {
	member := types.TestableConstraint{
		ID: "derived_rule1", Kind: types.ConstraintKindSkillTraversal, Origin: types.OriginDerived,
		SkillIDs: []string{"skill_kube"}, RuleID: "rule1",
	}
	full := []types.TestableConstraint{member}
	conflict := types.ConflictSet{Members: full, ResultCount: 1}

	count := func(ctx context.Context, active []types.TestableConstraint) (int, error) {
		if len(active) == 0 {
			return 8, nil
		}
		return 1, nil
	}

	suggestions, err := Suggest(context.Background(), conflict, full, count)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, types.RelaxDerivedOverride, suggestions[0].Kind)
	assert.Equal(t, "rule1", suggestions[0].RuleIDToOverride)
}
