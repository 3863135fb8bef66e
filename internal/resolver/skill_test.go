package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/types"
)

type fakeSkillGraph struct {
	nodes map[string]string // lowercase identifier -> id
	names map[string]string // id -> name
	edges map[string][]SkillLeaf
}

func (f *fakeSkillGraph) FindSkillNode(ctx context.Context, identifier string) (string, string, bool, error) {
	id, ok := f.nodes[identifier]
	if !ok {
		return "", "", false, nil
	}
	return id, f.names[id], true, nil
}

func (f *fakeSkillGraph) ExpandSkillLeaves(ctx context.Context, nodeID string) ([]SkillLeaf, error) {
	return f.edges[nodeID], nil
}

func newBackendFixture() *fakeSkillGraph {
	return &fakeSkillGraph{
		nodes: map[string]string{
			"backend": "skill_backend",
			"node":    "skill_node",
		},
		names: map[string]string{
			"skill_backend": "Backend",
			"skill_node":    "Node",
		},
		edges: map[string][]SkillLeaf{
			"skill_backend": {
				{SkillID: "skill_node", SkillName: "Node"},
				{SkillID: "skill_python", SkillName: "Python"},
				{SkillID: "skill_java", SkillName: "Java"},
			},
			"skill_node": {
				{SkillID: "skill_node", SkillName: "Node"},
			},
		},
	}
}

func TestSkillResolver_ExpandsCategoryToLeaves(t *testing.T) {
	r := NewSkillResolver(newBackendFixture())

	result, err := r.Resolve(context.Background(), []types.SkillRequirement{
		{Skill: "Backend", MinProficiency: types.ProficiencyProficient},
	}, types.ProficiencyLearning)

	require.NoError(t, err)
	require.Len(t, result.Resolved, 1)
	assert.Empty(t, result.UnresolvedIdentifiers)

	resolved := result.Resolved[0]
	assert.Equal(t, "skill_backend", resolved.OriginalSkillID)
	assert.ElementsMatch(t, []string{"skill_node", "skill_python", "skill_java"}, resolved.ExpandedSkillIDs)
	assert.Equal(t, types.ProficiencyProficient, resolved.MinProficiency)
}

func TestSkillResolver_LeafResolvesToItself(t *testing.T) {
	r := NewSkillResolver(newBackendFixture())

	result, err := r.Resolve(context.Background(), []types.SkillRequirement{
		{Skill: "node"},
	}, types.ProficiencyLearning)

	require.NoError(t, err)
	require.Len(t, result.Resolved, 1)
	assert.Equal(t, []string{"skill_node"}, result.Resolved[0].ExpandedSkillIDs)
	assert.Equal(t, types.ProficiencyLearning, result.Resolved[0].MinProficiency, "falls back to the default proficiency")
}

func TestSkillResolver_UnresolvedIdentifierReported(t *testing.T) {
	r := NewSkillResolver(newBackendFixture())

	result, err := r.Resolve(context.Background(), []types.SkillRequirement{
		{Skill: "Quantum Computing"},
	}, types.ProficiencyLearning)

	require.NoError(t, err)
	assert.Empty(t, result.Resolved)
	assert.Equal(t, []string{"Quantum Computing"}, result.UnresolvedIdentifiers)
}

func TestMergeLeafProficiency_KeepsStrictest(t *testing.T) {
	min, preferred := MergeLeafProficiency(types.ProficiencyLearning, types.ProficiencyExpert, types.ProficiencyProficient, types.ProficiencyLearning)
	assert.Equal(t, types.ProficiencyExpert, min)
	assert.Equal(t, types.ProficiencyProficient, preferred)
}

func TestIsDirectMatch(t *testing.T) {
	originals := []types.ResolvedSkillRequirement{
		{OriginalSkillID: "skill_backend", OriginalSkillName: "Backend"},
	}

	assert.True(t, IsDirectMatch("skill_backend", "Anything", originals))
	assert.True(t, IsDirectMatch("skill_other", "Backend", originals))
	assert.False(t, IsDirectMatch("skill_node", "Node", originals))
}
