// Package resolver implements the skill resolver (C1) and domain resolver
// (C2): dual BELONGS_TO/CHILD_OF graph traversals that expand a user-supplied
// identifier into the flat, deduplicated leaf set the query builder filters on.
package resolver

import (
	"context"
	"sort"
	"strings"

	"unified-thinking/internal/types"
)

// SkillLeaf is one non-category skill node reached while expanding an identifier.
type SkillLeaf struct {
	SkillID   string
	SkillName string
}

// SkillGraphReader is the graph-facing contract C1 depends on. A concrete
// implementation issues the BELONGS_TO*1.. / CHILD_OF*0.. traversals against
// Neo4j; tests substitute a fake.
type SkillGraphReader interface {
	// FindSkillNode locates a skill by id or case-insensitive name.
	FindSkillNode(ctx context.Context, identifier string) (id, name string, found bool, err error)
	// ExpandSkillLeaves returns every non-category skill reachable from nodeID
	// via BELONGS_TO (depth 1..) unioned with CHILD_OF (depth 0.., includes self).
	ExpandSkillLeaves(ctx context.Context, nodeID string) ([]SkillLeaf, error)
}

// SkillResolver implements C1.
type SkillResolver struct {
	graph SkillGraphReader
}

func NewSkillResolver(graph SkillGraphReader) *SkillResolver {
	return &SkillResolver{graph: graph}
}

// ResolveResult is C1's output.
type ResolveResult struct {
	Resolved              []types.ResolvedSkillRequirement
	UnresolvedIdentifiers []string
}

// Resolve expands every requirement's identifier into its leaf skill set.
// Each requirement is resolved on its own and keeps its own proficiency: a
// leaf reached by more than one requirement appears in each of their
// ExpandedSkillIDs, and no stricter-proficiency merge across requirements is
// done here or by the orchestrator.
func (r *SkillResolver) Resolve(ctx context.Context, reqs []types.SkillRequirement, defaultMinProficiency types.ProficiencyLevel) (*ResolveResult, error) {
	result := &ResolveResult{}

	for _, req := range reqs {
		id, name, found, err := r.graph.FindSkillNode(ctx, req.Skill)
		if err != nil {
			return nil, err
		}
		if !found {
			result.UnresolvedIdentifiers = append(result.UnresolvedIdentifiers, req.Skill)
			continue
		}

		leaves, err := r.graph.ExpandSkillLeaves(ctx, id)
		if err != nil {
			return nil, err
		}

		minProf := req.MinProficiency
		if minProf == "" {
			minProf = defaultMinProficiency
		}

		resolved := types.ResolvedSkillRequirement{
			OriginalIdentifier:      req.Skill,
			OriginalSkillID:         id,
			OriginalSkillName:       name,
			MinProficiency:          minProf,
			PreferredMinProficiency: req.PreferredMinProficiency,
			SkillIDToName:           map[string]string{},
		}

		seen := map[string]bool{}
		for _, leaf := range leaves {
			if seen[leaf.SkillID] {
				continue
			}
			seen[leaf.SkillID] = true
			resolved.ExpandedSkillIDs = append(resolved.ExpandedSkillIDs, leaf.SkillID)
			resolved.SkillIDToName[leaf.SkillID] = leaf.SkillName
		}
		sort.Strings(resolved.ExpandedSkillIDs)

		result.Resolved = append(result.Resolved, resolved)
	}

	return result, nil
}

// MergeLeafProficiency folds a newly-seen (minProficiency, preferredMinProficiency)
// pair for the same leaf skill into the strictest values observed so far.
func MergeLeafProficiency(existingMin, newMin, existingPreferred, newPreferred types.ProficiencyLevel) (min, preferred types.ProficiencyLevel) {
	min = types.StricterProficiency(existingMin, newMin)
	preferred = types.StricterProficiency(existingPreferred, newPreferred)
	return min, preferred
}

// IsDirectMatch reports whether a collected skill is a direct hit against any
// of the user's original identifiers (case-sensitive id, case-sensitive
// stored name).
func IsDirectMatch(skillID, skillName string, originals []types.ResolvedSkillRequirement) bool {
	for _, o := range originals {
		if skillID == o.OriginalSkillID {
			return true
		}
		if strings.EqualFold(skillName, o.OriginalSkillName) && skillName == o.OriginalSkillName {
			return true
		}
	}
	return false
}
