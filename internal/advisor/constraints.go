// Package advisor implements the constraint advisor (C9): when a search
// returns fewer than advisorThreshold results, it decomposes the active
// constraints, searches for minimal conflict sets, and proposes relaxations.
package advisor

import (
	"fmt"

	"unified-thinking/internal/types"
)

// Decompose maps one ExpandedCriteria into the full set of independently
// droppable TestableConstraints. Reading
// directly off ExpandedCriteria (rather than re-parsing the AppliedFilter
// audit strings) keeps this in lockstep with what the query builder actually
// enforces, since both are built from the same struct.
func Decompose(criteria *types.ExpandedCriteria) []types.TestableConstraint {
	var out []types.TestableConstraint

	if criteria.YearRange.Min != 0 || criteria.YearRange.Max != 0 {
		out = append(out, types.TestableConstraint{
			ID:        "yearsExperience_gte",
			Kind:      types.ConstraintKindProperty,
			FieldType: types.FieldNumeric,
			Cypher: types.CypherFragment{
				Clause:     "engineer.yearsExperience >= $yearsExperience_gte",
				ParamName:  "yearsExperience_gte",
				ParamValue: criteria.YearRange.Min,
			},
		})
		if criteria.YearRange.Max > 0 {
			out = append(out, types.TestableConstraint{
				ID:        "yearsExperience_lt",
				Kind:      types.ConstraintKindProperty,
				FieldType: types.FieldNumeric,
				Cypher: types.CypherFragment{
					Clause:     "engineer.yearsExperience < $yearsExperience_lt",
					ParamName:  "yearsExperience_lt",
					ParamValue: criteria.YearRange.Max,
				},
			})
		}
	}

	if len(criteria.StartTimelineEnum) > 0 {
		values := make([]string, len(criteria.StartTimelineEnum))
		for i, v := range criteria.StartTimelineEnum {
			values[i] = string(v)
		}
		out = append(out, types.TestableConstraint{
			ID:        "startTimeline_in",
			Kind:      types.ConstraintKindProperty,
			FieldType: types.FieldStringArray,
			Cypher: types.CypherFragment{
				Clause:     "engineer.startTimeline IN $startTimeline_in",
				ParamName:  "startTimeline_in",
				ParamValue: values,
			},
		})
	}

	for i, prefix := range criteria.TimezonePrefixes {
		paramName := fmt.Sprintf("timezonePrefix_%d", i)
		out = append(out, types.TestableConstraint{
			ID:        fmt.Sprintf("timezone_prefix_%d", i),
			Kind:      types.ConstraintKindProperty,
			FieldType: types.FieldString,
			Cypher: types.CypherFragment{
				Clause:     fmt.Sprintf("engineer.timezone STARTS WITH $%s", paramName),
				ParamName:  paramName,
				ParamValue: prefix,
			},
		})
	}

	if criteria.MaxBudgetCeiling != nil {
		out = append(out, types.TestableConstraint{
			ID:        "maxBudget",
			Kind:      types.ConstraintKindProperty,
			FieldType: types.FieldNumeric,
			Cypher: types.CypherFragment{
				Clause:     "engineer.salary <= $maxBudget",
				ParamName:  "maxBudget",
				ParamValue: *criteria.MaxBudgetCeiling,
			},
		})
	}

	for _, req := range criteria.RequiredSkills {
		out = append(out, types.TestableConstraint{
			ID:             "user_skill_" + req.OriginalIdentifier,
			Kind:           types.ConstraintKindSkillTraversal,
			Origin:         types.OriginUser,
			SkillIDs:       req.ExpandedSkillIDs,
			MinProficiency: req.MinProficiency,
		})
	}

	for _, dc := range criteria.DerivedConstraints {
		if dc.Override != nil || dc.Action.Effect != types.EffectFilter {
			continue
		}
		out = append(out, types.TestableConstraint{
			ID:       "derived_" + dc.RuleID,
			Kind:     types.ConstraintKindSkillTraversal,
			Origin:   types.OriginDerived,
			SkillIDs: []string{dc.Action.TargetValue},
			RuleID:   dc.RuleID,
		})
	}

	return out
}

// CombineTimezoneConstraints ORs together any co-active constraints that came
// from a single STARTS-WITH-any-of predicate: the individual
// per-prefix constraints decomposition produces are re-joined here whenever
// more than one survives into the same active set, as one ANY(...) predicate
// over a list parameter holding their prefixes.
func CombineTimezoneConstraints(active []types.TestableConstraint) []types.TestableConstraint {
	var prefixes []string
	var tzParams []types.TestableConstraint
	var rest []types.TestableConstraint

	for _, c := range active {
		if c.Kind == types.ConstraintKindProperty && c.FieldType == types.FieldString && isTimezonePrefix(c.ID) {
			if p, ok := c.Cypher.ParamValue.(string); ok {
				prefixes = append(prefixes, p)
			}
			tzParams = append(tzParams, c)
			continue
		}
		rest = append(rest, c)
	}

	if len(tzParams) <= 1 {
		return active
	}

	combined := types.TestableConstraint{
		ID:        "timezone_combined",
		Kind:      types.ConstraintKindProperty,
		FieldType: types.FieldString,
	}
	combined.Cypher = types.CypherFragment{
		Clause:     "ANY(tzPrefix IN $timezonePrefixes WHERE engineer.timezone STARTS WITH tzPrefix)",
		ParamName:  "timezonePrefixes",
		ParamValue: prefixes,
	}
	return append(rest, combined)
}

func isTimezonePrefix(id string) bool {
	return len(id) >= len("timezone_prefix_") && id[:len("timezone_prefix_")] == "timezone_prefix_"
}

func joinOr(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += " OR "
		}
		out += c
	}
	return out
}
