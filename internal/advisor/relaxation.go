package advisor

import (
	"context"
	"sort"

	"unified-thinking/internal/types"
)

// fieldOf maps a property constraint id back to the API field it came from.
func fieldOf(id string) string {
	switch {
	case id == "maxBudget":
		return "maxBudget"
	case id == "startTimeline_in":
		return "requiredMaxStartTime"
	case isTimezonePrefix(id) || id == "timezone_combined":
		return "requiredTimezone"
	case id == "yearsExperience_gte" || id == "yearsExperience_lt":
		return "" // no corresponding API field; skipped
	default:
		return ""
	}
}

// Suggest generates relaxation suggestions for one conflict set. full is the
// full active constraint set so
// a suggestion can be evaluated by re-running the count with one member
// relaxed while the rest of the active set stays in place.
func Suggest(ctx context.Context, conflict types.ConflictSet, full []types.TestableConstraint, count CountFunc) ([]types.RelaxationSuggestion, error) {
	var out []types.RelaxationSuggestion

	for _, member := range conflict.Members {
		var suggestions []types.RelaxationSuggestion
		var err error

		switch member.Kind {
		case types.ConstraintKindProperty:
			suggestions, err = suggestProperty(ctx, member, full, count)
		case types.ConstraintKindSkillTraversal:
			suggestions, err = suggestSkill(ctx, member, full, count)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, suggestions...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ResultingMatches > out[j].ResultingMatches })

	baseline, err := count(ctx, full)
	if err != nil {
		return nil, err
	}
	var filtered []types.RelaxationSuggestion
	for _, s := range out {
		if s.ResultingMatches > baseline {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func suggestProperty(ctx context.Context, member types.TestableConstraint, full []types.TestableConstraint, count CountFunc) ([]types.RelaxationSuggestion, error) {
	field := fieldOf(member.ID)
	if field == "" {
		return nil, nil
	}

	switch member.ID {
	case "maxBudget":
		current, _ := member.Cypher.ParamValue.(float64)
		looser := current * 1.2
		n, err := count(ctx, replaceParam(full, member.ID, looser))
		if err != nil {
			return nil, err
		}
		return []types.RelaxationSuggestion{{
			Kind: types.RelaxNumericStep, ConstraintID: member.ID, Field: field,
			SuggestedValue: looser, ResultingMatches: n, AffectedConstraints: []string{member.ID},
			Description: "raise the salary ceiling by 20%",
		}}, nil

	case "startTimeline_in":
		values, _ := member.Cypher.ParamValue.([]string)
		included := map[string]bool{}
		for _, v := range values {
			included[v] = true
		}
		var suggestions []types.RelaxationSuggestion
		for _, v := range types.TimelineOrder {
			if included[string(v)] {
				continue
			}
			expanded := append(append([]string(nil), values...), string(v))
			n, err := count(ctx, replaceParam(full, member.ID, expanded))
			if err != nil {
				return nil, err
			}
			suggestions = append(suggestions, types.RelaxationSuggestion{
				Kind: types.RelaxEnumExpansion, ConstraintID: member.ID, Field: field,
				SuggestedValue: v, ResultingMatches: n, AffectedConstraints: []string{member.ID},
				Description: "allow start timeline up to " + string(v),
			})
		}
		return suggestions, nil

	default: // timezone prefix / combined
		n, err := count(ctx, subtract(full, []types.TestableConstraint{member}))
		if err != nil {
			return nil, err
		}
		return []types.RelaxationSuggestion{{
			Kind: types.RelaxRemovePredicate, ConstraintID: member.ID, Field: field,
			SuggestedValue: nil, ResultingMatches: n, AffectedConstraints: []string{member.ID},
			Description: "remove the timezone restriction",
		}}, nil
	}
}

func suggestSkill(ctx context.Context, member types.TestableConstraint, full []types.TestableConstraint, count CountFunc) ([]types.RelaxationSuggestion, error) {
	if member.Origin == types.OriginDerived {
		n, err := count(ctx, subtract(full, []types.TestableConstraint{member}))
		if err != nil {
			return nil, err
		}
		return []types.RelaxationSuggestion{{
			Kind: types.RelaxDerivedOverride, ConstraintID: member.ID, Field: "overriddenRuleIds",
			SuggestedValue: member.RuleID, ResultingMatches: n, AffectedConstraints: []string{member.ID},
			RuleIDToOverride: member.RuleID,
			Description:      "override the derived rule " + member.RuleID,
		}}, nil
	}

	var out []types.RelaxationSuggestion

	if lower, ok := oneStepDown(member.MinProficiency); ok {
		lowered := member
		lowered.MinProficiency = lower
		n, err := count(ctx, replaceConstraint(full, member.ID, lowered))
		if err != nil {
			return nil, err
		}
		out = append(out, types.RelaxationSuggestion{
			Kind: types.RelaxLowerProficiency, ConstraintID: member.ID, Field: "requiredSkills",
			SuggestedValue: string(lower), ResultingMatches: n, AffectedConstraints: []string{member.ID},
			Description: "lower the required proficiency to " + string(lower),
		})
	}

	removed, err := count(ctx, subtract(full, []types.TestableConstraint{member}))
	if err != nil {
		return nil, err
	}
	out = append(out, types.RelaxationSuggestion{
		Kind: types.RelaxRemove, ConstraintID: member.ID, Field: "requiredSkills",
		SuggestedValue: nil, ResultingMatches: removed, AffectedConstraints: []string{member.ID},
		Description: "remove this skill requirement entirely",
	})

	out = append(out, types.RelaxationSuggestion{
		Kind: types.RelaxMoveToPreferred, ConstraintID: member.ID, Field: "requiredSkills",
		SuggestedValue: nil, ResultingMatches: removed, AffectedConstraints: []string{member.ID},
		Description: "move this skill requirement to preferredSkills",
	})

	return out, nil
}

func replaceParam(full []types.TestableConstraint, id string, newValue interface{}) []types.TestableConstraint {
	out := make([]types.TestableConstraint, len(full))
	for i, c := range full {
		if c.ID == id {
			c.Cypher.ParamValue = newValue
		}
		out[i] = c
	}
	return out
}

// replaceConstraint swaps one member of full (matched by ID) for replacement,
// leaving every other constraint untouched.
func replaceConstraint(full []types.TestableConstraint, id string, replacement types.TestableConstraint) []types.TestableConstraint {
	out := make([]types.TestableConstraint, len(full))
	for i, c := range full {
		if c.ID == id {
			out[i] = replacement
			continue
		}
		out[i] = c
	}
	return out
}

// oneStepDown returns the next-looser proficiency bucket, if any (expert ->
// proficient -> learning). learning has no looser bucket to fall back to.
func oneStepDown(level types.ProficiencyLevel) (types.ProficiencyLevel, bool) {
	switch level {
	case types.ProficiencyExpert:
		return types.ProficiencyProficient, true
	case types.ProficiencyProficient:
		return types.ProficiencyLearning, true
	default:
		return "", false
	}
}
