package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/types"
)

func propertyConstraint(id string) types.TestableConstraint {
	return types.TestableConstraint{ID: id, Kind: types.ConstraintKindProperty, FieldType: types.FieldNumeric}
}

// fakeCounter simulates a population where each constraint in `restrictive`
// subtracts its cost from the total (floored at 0); constraints not in that
// set are free.
func fakeCounter(total int, restrictive map[string]int) CountFunc {
	return func(ctx context.Context, active []types.TestableConstraint) (int, error) {
		n := total
		for _, c := range active {
			if cost, ok := restrictive[c.ID]; ok {
				n -= cost
			}
		}
		if n < 0 {
			n = 0
		}
		return n, nil
	}
}

func TestFindConflictSets_ConsistentFullSetReturnsEmpty(t *testing.T) {
	all := []types.TestableConstraint{propertyConstraint("a"), propertyConstraint("b")}
	count := fakeCounter(100, map[string]int{})

	sets, queryCount, err := FindConflictSets(context.Background(), all, 3, 5, count)
	require.NoError(t, err)
	assert.Empty(t, sets)
	assert.Equal(t, 1, queryCount)
}

func TestFindConflictSets_FindsSingleOffendingConstraint(t *testing.T) {
	all := []types.TestableConstraint{propertyConstraint("a"), propertyConstraint("b"), propertyConstraint("c")}
	// "b" alone drops the count below the threshold.
	count := fakeCounter(10, map[string]int{"b": 9})

	sets, _, err := FindConflictSets(context.Background(), all, 3, 5, count)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Members, 1)
	assert.Equal(t, "b", sets[0].Members[0].ID)
}

func TestFindConflictSets_RespectsMaxSets(t *testing.T) {
	all := []types.TestableConstraint{propertyConstraint("a"), propertyConstraint("b"), propertyConstraint("c")}
	count := fakeCounter(10, map[string]int{"a": 9, "b": 9, "c": 9})

	sets, _, err := FindConflictSets(context.Background(), all, 3, 2, count)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(sets), 2)
}

func TestMemberKey_IsOrderIndependent(t *testing.T) {
	a := []types.TestableConstraint{propertyConstraint("x"), propertyConstraint("y")}
	b := []types.TestableConstraint{propertyConstraint("y"), propertyConstraint("x")}
	assert.Equal(t, memberKey(a), memberKey(b))
}

func TestSubtract_RemovesMatchingIDs(t *testing.T) {
	set := []types.TestableConstraint{propertyConstraint("x"), propertyConstraint("y"), propertyConstraint("z")}
	remove := []types.TestableConstraint{propertyConstraint("y")}
	out := subtract(set, remove)
	require.Len(t, out, 2)
	for _, c := range out {
		assert.NotEqual(t, "y", c.ID)
	}
}
