package resolver

import (
	"context"
	"sort"

	"unified-thinking/internal/types"
)

// DomainLeaf is one domain node reached while expanding an identifier.
type DomainLeaf struct {
	DomainID string
}

// DomainGraphReader is the graph-facing contract C2 depends on, structurally
// identical to SkillGraphReader but over the business/technical domain hierarchy.
type DomainGraphReader interface {
	FindDomainNode(ctx context.Context, identifier string) (id string, found bool, err error)
	// ExpandDomainIDs returns every domain reachable from nodeID via
	// BELONGS_TO (depth 1..) unioned with CHILD_OF (depth 0.., includes self).
	ExpandDomainIDs(ctx context.Context, nodeID string) ([]DomainLeaf, error)
}

// DomainResolver implements C2 for one domain kind (business or technical).
type DomainResolver struct {
	graph DomainGraphReader
}

func NewDomainResolver(graph DomainGraphReader) *DomainResolver {
	return &DomainResolver{graph: graph}
}

// ResolveBusinessResult is C2's output for business domains.
type ResolveBusinessResult struct {
	Resolved              []types.ResolvedBusinessDomain
	UnresolvedIdentifiers []string
}

func (r *DomainResolver) ResolveBusiness(ctx context.Context, reqs []types.DomainRequirement) (*ResolveBusinessResult, error) {
	result := &ResolveBusinessResult{}
	for _, req := range reqs {
		id, found, err := r.graph.FindDomainNode(ctx, req.Domain)
		if err != nil {
			return nil, err
		}
		if !found {
			result.UnresolvedIdentifiers = append(result.UnresolvedIdentifiers, req.Domain)
			continue
		}
		leaves, err := r.graph.ExpandDomainIDs(ctx, id)
		if err != nil {
			return nil, err
		}

		resolved := types.ResolvedBusinessDomain{DomainID: id, Required: req.Required}
		if req.MinYears > 0 {
			v := req.MinYears
			resolved.MinYears = &v
		}
		if req.PreferredMinYears > 0 {
			v := req.PreferredMinYears
			resolved.PreferredMinYears = &v
		}
		resolved.ExpandedDomainIDs = expandedIDs(leaves)
		result.Resolved = append(result.Resolved, resolved)
	}
	return result, nil
}

// ResolveTechnicalResult is C2's output for technical domains.
type ResolveTechnicalResult struct {
	Resolved              []types.ResolvedTechnicalDomain
	UnresolvedIdentifiers []string
}

func (r *DomainResolver) ResolveTechnical(ctx context.Context, reqs []types.DomainRequirement) (*ResolveTechnicalResult, error) {
	result := &ResolveTechnicalResult{}
	for _, req := range reqs {
		id, found, err := r.graph.FindDomainNode(ctx, req.Domain)
		if err != nil {
			return nil, err
		}
		if !found {
			result.UnresolvedIdentifiers = append(result.UnresolvedIdentifiers, req.Domain)
			continue
		}
		leaves, err := r.graph.ExpandDomainIDs(ctx, id)
		if err != nil {
			return nil, err
		}

		resolved := types.ResolvedTechnicalDomain{DomainID: id, Required: req.Required}
		if req.MinYears > 0 {
			v := req.MinYears
			resolved.MinYears = &v
		}
		if req.PreferredMinYears > 0 {
			v := req.PreferredMinYears
			resolved.PreferredMinYears = &v
		}
		resolved.ExpandedDomainIDs = expandedIDs(leaves)
		result.Resolved = append(result.Resolved, resolved)
	}
	return result, nil
}

func expandedIDs(leaves []DomainLeaf) []string {
	seen := map[string]bool{}
	ids := make([]string, 0, len(leaves))
	for _, l := range leaves {
		if seen[l.DomainID] {
			continue
		}
		seen[l.DomainID] = true
		ids = append(ids, l.DomainID)
	}
	sort.Strings(ids)
	return ids
}
