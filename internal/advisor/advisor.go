// Package advisor implements the constraint advisor (C9): when a search
// returns fewer than advisorThreshold results, it decomposes the active
// constraints, searches for minimal conflict sets, and proposes relaxations.
package advisor

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"unified-thinking/internal/config"
	"unified-thinking/internal/graphdb"
	"unified-thinking/internal/llm"
	"unified-thinking/internal/querybuilder"
	"unified-thinking/internal/types"
)

// Advisor wires decomposition, MCS search, relaxation, and explanation into
// the single Advise call the search orchestrator (C8) invokes. It satisfies
// search.Advisor without importing that package, per the dependency
// direction the orchestrator already establishes.
type Advisor struct {
	client    *graphdb.Client
	builder   *querybuilder.Builder
	cfg       config.AdvisorConfig
	seniority config.SeniorityConfig
	llm       llm.Client
}

// New builds an Advisor. llmClient may be llm.Unavailable{} or nil; both
// degrade explanations to data-aware-only.
func New(client *graphdb.Client, builder *querybuilder.Builder, cfg config.AdvisorConfig, seniority config.SeniorityConfig, llmClient llm.Client) *Advisor {
	return &Advisor{client: client, builder: builder, cfg: cfg, seniority: seniority, llm: llmClient}
}

// Advise runs the full C9 pipeline over the currently active constraints.
func (a *Advisor) Advise(ctx context.Context, criteria *types.ExpandedCriteria, totalCount int) (*types.Advice, error) {
	all := Decompose(criteria)
	all = CombineTimezoneConstraints(all)

	threshold := criteria.AdvisorThreshold
	if threshold <= 0 {
		threshold = a.cfg.InsufficientThreshold
	}

	count := a.countFunc()

	sets, queryCount, err := FindConflictSets(ctx, all, threshold, a.cfg.MaxConflictSets, count)
	if err != nil {
		return nil, err
	}

	advice := &types.Advice{
		ConflictSets: sets,
		QueryCount:   queryCount,
	}

	if len(sets) == a.cfg.MaxConflictSets {
		advice.Degraded = true
	}

	if len(sets) == 0 {
		return advice, nil
	}

	seen := map[string]bool{}
	querier := newStatsQuerier(a.client, a.seniority)

	for _, conflict := range sets {
		suggestions, err := Suggest(ctx, conflict, all, count)
		if err != nil {
			return nil, err
		}
		for _, s := range suggestions {
			key := s.ConstraintID + "|" + string(s.Kind)
			if seen[key] {
				continue
			}
			seen[key] = true
			advice.Suggestions = append(advice.Suggestions, s)
		}

		stats, err := querier.collect(ctx, conflict, count)
		if err != nil {
			return nil, err
		}
		dataAware := dataAwareExplanation(conflict, stats)
		llmAssisted := llmAssistedExplanation(ctx, a.llm, conflict, stats)
		if advice.Explanation.DataAware == "" {
			advice.Explanation.DataAware = dataAware
			advice.Explanation.LLMAssisted = llmAssisted
		}
	}

	return advice, nil
}

// countFunc adapts FindConflictSets'/Suggest's CountFunc shape to
// BuildSkillFilterCountQuery, bucketing each active skill constraint by its
// own MinProficiency and forwarding every active property constraint's
// pre-built Cypher fragment.
func (a *Advisor) countFunc() CountFunc {
	return func(ctx context.Context, active []types.TestableConstraint) (int, error) {
		var buckets []querybuilder.ProficiencyBuckets
		var properties []types.CypherFragment

		for _, c := range active {
			switch c.Kind {
			case types.ConstraintKindSkillTraversal:
				buckets = append(buckets, bucketForConstraint(c))
			case types.ConstraintKindProperty:
				properties = append(properties, c.Cypher)
			}
		}

		built, err := a.builder.BuildSkillFilterCountQuery(buckets, properties)
		if err != nil {
			return 0, err
		}

		res, err := a.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
			result, err := tx.Run(ctx, built.Query, built.Params)
			if err != nil {
				return 0, err
			}
			if !result.Next(ctx) {
				return 0, result.Err()
			}
			raw, _ := result.Record().Get("resultCount")
			n, _ := graphdb.NormalizeInt64(raw)
			return int(n), nil
		})
		if err != nil {
			return 0, err
		}
		n, _ := res.(int)
		return n, nil
	}
}

// bucketForConstraint mirrors querybuilder.BucketForRequirement for a
// TestableConstraint: a single minimum proficiency applies to the whole
// expanded skill id set. An empty MinProficiency (derived constraints, which
// are present-at-any-proficiency) falls into the Learning bucket, which the
// count query treats as "any proficiency accepted".
func bucketForConstraint(c types.TestableConstraint) querybuilder.ProficiencyBuckets {
	b := querybuilder.ProficiencyBuckets{}
	switch c.MinProficiency {
	case types.ProficiencyExpert:
		b.Expert = c.SkillIDs
	case types.ProficiencyProficient:
		b.Proficient = c.SkillIDs
	default:
		b.Learning = c.SkillIDs
	}
	return b
}
