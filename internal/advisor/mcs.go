package advisor

import (
	"context"
	"sort"
	"strings"

	"unified-thinking/internal/types"
)

// CountFunc re-runs buildSkillFilterCountQuery for one active constraint set.
type CountFunc func(ctx context.Context, active []types.TestableConstraint) (int, error)

// mcsSearcher runs QuickXPlain with memoised consistency checks and tracks
// queryCount for observability.
type mcsSearcher struct {
	ctx                   context.Context
	count                 CountFunc
	insufficientThreshold int
	queryCount            int
	cache                 map[string]bool
}

func newMCSSearcher(ctx context.Context, count CountFunc, insufficientThreshold int) *mcsSearcher {
	return &mcsSearcher{ctx: ctx, count: count, insufficientThreshold: insufficientThreshold, cache: map[string]bool{}}
}

// consistent reports whether a constraint set yields >= insufficientThreshold
// results, memoised by sorted member-id key.
func (s *mcsSearcher) consistent(set []types.TestableConstraint) (bool, error) {
	key := memberKey(set)
	if v, ok := s.cache[key]; ok {
		return v, nil
	}
	s.queryCount++
	n, err := s.count(s.ctx, set)
	if err != nil {
		return false, err
	}
	ok := n >= s.insufficientThreshold
	s.cache[key] = ok
	return ok, nil
}

// FindConflictSets runs a QuickXPlain-with-hitting-set-diversification loop,
// finding up to maxSets minimal conflict sets.
func FindConflictSets(ctx context.Context, all []types.TestableConstraint, insufficientThreshold, maxSets int, count CountFunc) ([]types.ConflictSet, int, error) {
	all = append([]types.TestableConstraint(nil), all...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	searcher := newMCSSearcher(ctx, count, insufficientThreshold)

	ok, err := searcher.consistent(all)
	if err != nil {
		return nil, searcher.queryCount, err
	}
	if ok {
		return nil, searcher.queryCount, nil
	}

	var sets []types.ConflictSet
	seen := map[string]bool{}
	remaining := append([]types.TestableConstraint(nil), all...)

	for len(sets) < maxSets && len(remaining) > 0 {
		ok, err := searcher.consistent(remaining)
		if err != nil {
			return nil, searcher.queryCount, err
		}
		if ok {
			break
		}
		mcs, err := searcher.quickXPlain(nil, remaining)
		if err != nil {
			return nil, searcher.queryCount, err
		}
		if len(mcs) == 0 {
			break
		}

		key := memberKey(mcs)
		if !seen[key] {
			seen[key] = true
			resultCount, err := searcher.count(ctx, mcs)
			if err != nil {
				return nil, searcher.queryCount, err
			}
			searcher.queryCount++
			sets = append(sets, types.ConflictSet{Members: mcs, ResultCount: resultCount})
		}

		remaining = subtract(remaining, mcs)
	}

	return sets, searcher.queryCount, nil
}

// quickXPlain is Junker's QX' procedure: B is the always-included background
// (here, constraints already confirmed part of the conflict), C the
// remaining candidates to search over.
func (s *mcsSearcher) quickXPlain(b, c []types.TestableConstraint) ([]types.TestableConstraint, error) {
	if len(c) == 0 {
		return nil, nil
	}
	if len(b) > 0 {
		ok, err := s.consistent(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
	if len(c) == 1 {
		return c, nil
	}

	mid := len(c) / 2
	c1, c2 := c[:mid], c[mid:]

	delta2, err := s.quickXPlain(append(append([]types.TestableConstraint(nil), b...), c1...), c2)
	if err != nil {
		return nil, err
	}
	delta1, err := s.quickXPlain(append(append([]types.TestableConstraint(nil), b...), delta2...), c1)
	if err != nil {
		return nil, err
	}

	return append(delta1, delta2...), nil
}

func memberKey(set []types.TestableConstraint) string {
	ids := make([]string, len(set))
	for i, c := range set {
		ids[i] = c.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func subtract(set, remove []types.TestableConstraint) []types.TestableConstraint {
	blocked := map[string]bool{}
	for _, c := range remove {
		blocked[c.ID] = true
	}
	var out []types.TestableConstraint
	for _, c := range set {
		if !blocked[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
