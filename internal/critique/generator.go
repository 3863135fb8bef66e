// Package critique implements the critique engine (C11): it proposes
// refinement suggestions derived from a completed result set, and applies
// suggested adjustments back onto a search request.
package critique

import (
	"fmt"
	"sort"
	"strings"

	"unified-thinking/internal/config"
	"unified-thinking/internal/types"
)

// Property names the generator and applier both understand. These are the
// only properties named in the configured pairs.
const (
	PropertySeniority = "seniorityLevel"
	PropertyTimezone  = "requiredTimezone"
	PropertySkills    = "requiredSkills"
)

// Generate sweeps every configured 2-property pair over the current result
// set and proposes one suggestion per candidate-value combination that
// narrows (but doesn't eliminate) the results.
func Generate(cfg config.CritiqueConfig, seniority config.SeniorityConfig, matches []types.EngineerMatch) []types.CritiqueSuggestion {
	total := len(matches)
	if total == 0 {
		return nil
	}

	var suggestions []types.CritiqueSuggestion
	for _, pair := range cfg.PropertyPairs {
		valuesA := distinctValues(pair.PropertyA, matches, seniority)
		valuesB := distinctValues(pair.PropertyB, matches, seniority)

		for _, va := range valuesA {
			for _, vb := range valuesB {
				matching := countMatching(matches, pair, va, vb, seniority)
				if matching == 0 || matching == total {
					continue // no refinement power: eliminates everything or nothing
				}
				suggestions = append(suggestions, types.CritiqueSuggestion{
					Description: describe(pair, va, vb, matching, total),
					Support:     float64(matching) / float64(total),
					Adjustments: []types.CritiqueAdjustment{
						adjustmentFor(pair.PropertyA, va),
						adjustmentFor(pair.PropertyB, vb),
					},
				})
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Support > suggestions[j].Support
	})
	if cfg.MaxSuggestions > 0 && len(suggestions) > cfg.MaxSuggestions {
		suggestions = suggestions[:cfg.MaxSuggestions]
	}
	return suggestions
}

func countMatching(matches []types.EngineerMatch, pair types.CritiquePropertyPair, va, vb string, seniority config.SeniorityConfig) int {
	n := 0
	for _, m := range matches {
		if matchHasValue(pair.PropertyA, m, va, seniority) && matchHasValue(pair.PropertyB, m, vb, seniority) {
			n++
		}
	}
	return n
}

// distinctValues collects the set of candidate values observed for a
// property across the current result set, e.g. every seniority level an
// engineer in the results actually falls into.
func distinctValues(property string, matches []types.EngineerMatch, seniority config.SeniorityConfig) []string {
	seen := map[string]bool{}
	var values []string
	for _, m := range matches {
		for _, v := range valuesFor(property, m, seniority) {
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	sort.Strings(values)
	return values
}

func valuesFor(property string, m types.EngineerMatch, seniority config.SeniorityConfig) []string {
	switch property {
	case PropertySeniority:
		if level, ok := seniorityLevel(m.Engineer.YearsExperience, seniority); ok {
			return []string{string(level)}
		}
		return nil
	case PropertyTimezone:
		if prefix := timezonePrefix(m.Engineer.Timezone); prefix != "" {
			return []string{prefix}
		}
		return nil
	case PropertySkills:
		ids := make([]string, 0, len(m.MatchedSkills))
		for _, s := range m.MatchedSkills {
			ids = append(ids, s.SkillID)
		}
		return ids
	default:
		return nil
	}
}

func matchHasValue(property string, m types.EngineerMatch, value string, seniority config.SeniorityConfig) bool {
	for _, v := range valuesFor(property, m, seniority) {
		if v == value {
			return true
		}
	}
	return false
}

func seniorityLevel(years int, seniority config.SeniorityConfig) (types.SeniorityLevel, bool) {
	for level, yr := range seniority.Ranges {
		if years >= yr.Min && (yr.Max == 0 || years < yr.Max) {
			return level, true
		}
	}
	return "", false
}

// timezonePrefix returns the wildcard region form ("America/*") that
// RequiredTimezone entries already accept, so a suggestion's adjustment can
// be applied directly without a separate wildcard-expansion step.
func timezonePrefix(timezone string) string {
	idx := strings.Index(timezone, "/")
	if idx < 0 {
		return ""
	}
	return timezone[:idx] + "/*"
}

func describe(pair types.CritiquePropertyPair, va, vb string, matching, total int) string {
	return fmt.Sprintf("restrict to %s=%s and %s=%s: keeps %d of %d current results", pair.PropertyA, va, pair.PropertyB, vb, matching, total)
}

func adjustmentFor(property, value string) types.CritiqueAdjustment {
	switch property {
	case PropertySeniority:
		return types.CritiqueAdjustment{Property: PropertySeniority, Op: types.AdjustSet, Value: value}
	case PropertyTimezone:
		return types.CritiqueAdjustment{Property: PropertyTimezone, Op: types.AdjustAdd, Value: value}
	case PropertySkills:
		return types.CritiqueAdjustment{Property: PropertySkills, Op: types.AdjustAdd, Value: value}
	default:
		return types.CritiqueAdjustment{Property: property, Op: types.AdjustSet, Value: value}
	}
}
