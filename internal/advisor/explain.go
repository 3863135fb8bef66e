package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"unified-thinking/internal/config"
	"unified-thinking/internal/graphdb"
	"unified-thinking/internal/llm"
	"unified-thinking/internal/types"
)

// aggregateStats is the data-aware explanation's raw material: distributions
// queried over the whole engineer population, not just the active result set.
type aggregateStats struct {
	SalaryMin, SalaryMax  float64
	ExperienceBySeniority map[types.SeniorityLevel]int
	TimezoneCounts        map[string]int
	TimelineCounts        map[types.StartTimeline]int
	PerConstraintCounts   map[string]int
}

// statsQuerier runs the aggregate queries an explanation is templated from.
type statsQuerier struct {
	client    *graphdb.Client
	seniority config.SeniorityConfig
}

func newStatsQuerier(client *graphdb.Client, seniority config.SeniorityConfig) *statsQuerier {
	return &statsQuerier{client: client, seniority: seniority}
}

func (q *statsQuerier) collect(ctx context.Context, conflict types.ConflictSet, count CountFunc) (aggregateStats, error) {
	stats := aggregateStats{
		ExperienceBySeniority: map[types.SeniorityLevel]int{},
		TimezoneCounts:        map[string]int{},
		TimelineCounts:        map[types.StartTimeline]int{},
		PerConstraintCounts:   map[string]int{},
	}

	record, err := q.runDistributionQuery(ctx)
	if err != nil {
		return stats, err
	}
	stats.SalaryMin, stats.SalaryMax = record.salaryMin, record.salaryMax
	stats.TimezoneCounts = record.timezoneCounts
	stats.TimelineCounts = record.timelineCounts

	for level, yr := range q.seniority.Ranges {
		n, err := q.countInYearRange(ctx, yr)
		if err != nil {
			return stats, err
		}
		stats.ExperienceBySeniority[level] = n
	}

	for _, member := range conflict.Members {
		n, err := count(ctx, []types.TestableConstraint{member})
		if err != nil {
			return stats, err
		}
		stats.PerConstraintCounts[member.ID] = n
	}

	return stats, nil
}

type distributionRecord struct {
	salaryMin, salaryMax float64
	timezoneCounts       map[string]int
	timelineCounts       map[types.StartTimeline]int
}

func (q *statsQuerier) runDistributionQuery(ctx context.Context) (distributionRecord, error) {
	out := distributionRecord{timezoneCounts: map[string]int{}, timelineCounts: map[types.StartTimeline]int{}}

	res, err := q.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, `
			MATCH (engineer:Engineer)
			RETURN min(engineer.salary) AS salaryMin, max(engineer.salary) AS salaryMax,
				collect(engineer.timezone) AS timezones, collect(engineer.startTimeline) AS timelines
		`, nil)
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, result.Err()
		}
		return result.Record(), nil
	})
	if err != nil {
		return out, err
	}

	record, ok := res.(*neo4j.Record)
	if !ok || record == nil {
		return out, nil
	}
	if v, err := graphdb.NormalizeNumber(valueOr(record, "salaryMin")); err == nil {
		out.salaryMin = v
	}
	if v, err := graphdb.NormalizeNumber(valueOr(record, "salaryMax")); err == nil {
		out.salaryMax = v
	}
	if tzs, ok := valueOr(record, "timezones").([]interface{}); ok {
		for _, v := range tzs {
			if s, ok := v.(string); ok && s != "" {
				out.timezoneCounts[s]++
			}
		}
	}
	if tls, ok := valueOr(record, "timelines").([]interface{}); ok {
		for _, v := range tls {
			if s, ok := v.(string); ok && s != "" {
				out.timelineCounts[types.StartTimeline(s)]++
			}
		}
	}
	return out, nil
}

func (q *statsQuerier) countInYearRange(ctx context.Context, yr types.YearRange) (int, error) {
	res, err := q.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		params := map[string]interface{}{"min": yr.Min}
		clause := "engineer.yearsExperience >= $min"
		if yr.Max > 0 {
			clause += " AND engineer.yearsExperience < $max"
			params["max"] = yr.Max
		}
		result, err := tx.Run(ctx, fmt.Sprintf(`
			MATCH (engineer:Engineer)
			WHERE %s
			RETURN count(engineer) AS n
		`, clause), params)
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return 0, result.Err()
		}
		raw, _ := result.Record().Get("n")
		n, _ := graphdb.NormalizeInt64(raw)
		return int(n), nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

func valueOr(record *neo4j.Record, key string) interface{} {
	v, ok := record.Get(key)
	if !ok {
		return nil
	}
	return v
}

// dataAwareExplanation templates the required narrative directly from the
// aggregate statistics, always present regardless of LLM availability.
func dataAwareExplanation(conflict types.ConflictSet, stats aggregateStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d constraints together leave only %d matching engineers.\n", len(conflict.Members), conflict.ResultCount)

	ids := make([]string, 0, len(stats.PerConstraintCounts))
	for id := range stats.PerConstraintCounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "- %s alone matches %d engineers.\n", id, stats.PerConstraintCounts[id])
	}

	fmt.Fprintf(&b, "Salary across all engineers ranges from %.0f to %.0f.\n", stats.SalaryMin, stats.SalaryMax)

	levels := make([]string, 0, len(stats.ExperienceBySeniority))
	for level := range stats.ExperienceBySeniority {
		levels = append(levels, string(level))
	}
	sort.Strings(levels)
	for _, level := range levels {
		fmt.Fprintf(&b, "%s engineers: %d.\n", level, stats.ExperienceBySeniority[types.SeniorityLevel(level)])
	}

	return b.String()
}

// llmAssistedExplanation is the optional second narrative, sharing the same
// statistics as context. Returns nil whenever the LLM is unavailable.
func llmAssistedExplanation(ctx context.Context, client llm.Client, conflict types.ConflictSet, stats aggregateStats) *string {
	if client == nil {
		return nil
	}
	prompt := dataAwareExplanation(conflict, stats) +
		"\nExplain in one or two sentences why this search is returning few results and what the user could relax."
	text, err := client.GenerateCompletion(ctx, prompt, llm.Options{
		SystemPrompt: "You help a recruiter understand why a search has few matches.",
		MaxTokens:    200,
	})
	if err != nil || text == nil {
		return nil
	}
	return text
}
