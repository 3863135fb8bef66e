package critique

import (
	"fmt"

	"unified-thinking/internal/types"
)

// defaultBudgetStep is the magnitude an adjust+/adjust- applies to a budget
// field when the adjustment doesn't carry its own numeric value.
const defaultBudgetStep = 10000.0

// Apply maps a set of adjustments over a base request using the fixed
// per-property operation table, returning the mutated
// request plus per-adjustment bookkeeping. base is never mutated.
func Apply(base *types.SearchRequest, adjustments []types.CritiqueAdjustment) *types.CritiqueApplyResult {
	req := cloneRequest(base)
	result := &types.CritiqueApplyResult{Request: req}

	for _, adj := range adjustments {
		warning, err := applyOne(req, adj)
		if err != nil {
			result.Failed = append(result.Failed, types.FailedAdjustment{Adjustment: adj, Reason: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, types.AppliedAdjustment{Adjustment: adj, Warning: warning})
	}
	return result
}

func cloneRequest(base *types.SearchRequest) *types.SearchRequest {
	clone := *base
	clone.RequiredSkills = append([]types.SkillRequirement(nil), base.RequiredSkills...)
	clone.PreferredSkills = append([]types.SkillRequirement(nil), base.PreferredSkills...)
	clone.RequiredBusinessDomains = append([]types.DomainRequirement(nil), base.RequiredBusinessDomains...)
	clone.PreferredBusinessDomains = append([]types.DomainRequirement(nil), base.PreferredBusinessDomains...)
	clone.RequiredTechnicalDomains = append([]types.DomainRequirement(nil), base.RequiredTechnicalDomains...)
	clone.PreferredTechnicalDomains = append([]types.DomainRequirement(nil), base.PreferredTechnicalDomains...)
	clone.RequiredTimezone = append([]string(nil), base.RequiredTimezone...)
	clone.PreferredTimezone = append([]string(nil), base.PreferredTimezone...)
	clone.OverriddenRuleIds = append([]string(nil), base.OverriddenRuleIds...)
	return &clone
}

func applyOne(req *types.SearchRequest, adj types.CritiqueAdjustment) (string, error) {
	switch adj.Property {
	case PropertySeniority:
		return applySeniority(req, adj)
	case PropertyTimezone:
		return applyTimezone(req, adj)
	case PropertySkills:
		return applySkills(req, adj)
	case "maxBudget":
		return applyNumeric(&req.MaxBudget, adj)
	case "stretchBudget":
		return applyNumeric(&req.StretchBudget, adj)
	default:
		return "", fmt.Errorf("unknown property %q", adj.Property)
	}
}

func applySeniority(req *types.SearchRequest, adj types.CritiqueAdjustment) (string, error) {
	if adj.Op != types.AdjustSet {
		return "", fmt.Errorf("unsupported op %q for %s", adj.Op, PropertySeniority)
	}
	level, ok := adj.Value.(string)
	if !ok {
		return "", fmt.Errorf("%s value must be a string", PropertySeniority)
	}
	req.SeniorityLevel = types.SeniorityLevel(level)
	return "", nil
}

func applyTimezone(req *types.SearchRequest, adj types.CritiqueAdjustment) (string, error) {
	tz, ok := adj.Value.(string)
	if !ok {
		return "", fmt.Errorf("%s value must be a string", PropertyTimezone)
	}
	switch adj.Op {
	case types.AdjustAdd:
		if !containsString(req.RequiredTimezone, tz) {
			req.RequiredTimezone = append(req.RequiredTimezone, tz)
		}
		return "", nil
	case types.AdjustRemove:
		req.RequiredTimezone = removeString(req.RequiredTimezone, tz)
		return "", nil
	default:
		return "", fmt.Errorf("unsupported op %q for %s", adj.Op, PropertyTimezone)
	}
}

func applySkills(req *types.SearchRequest, adj types.CritiqueAdjustment) (string, error) {
	skill, ok := adj.Value.(string)
	if !ok {
		return "", fmt.Errorf("%s value must be a string", PropertySkills)
	}
	switch adj.Op {
	case types.AdjustAdd:
		if !containsSkill(req.RequiredSkills, skill) {
			req.RequiredSkills = append(req.RequiredSkills, types.SkillRequirement{Skill: skill, MinProficiency: types.ProficiencyLearning})
		}
		return "", nil
	case types.AdjustRemove:
		req.RequiredSkills = removeSkill(req.RequiredSkills, skill)
		return "", nil
	default:
		return "", fmt.Errorf("unsupported op %q for %s", adj.Op, PropertySkills)
	}
}

func applyNumeric(field **float64, adj types.CritiqueAdjustment) (string, error) {
	current := 0.0
	if *field != nil {
		current = **field
	}

	switch adj.Op {
	case types.AdjustSet:
		v, ok := toFloat(adj.Value)
		if !ok {
			return "", fmt.Errorf("%s value must be numeric", adj.Property)
		}
		*field = &v
		return "", nil
	case types.AdjustIncrease, types.AdjustDecrease:
		step, ok := toFloat(adj.Value)
		if !ok {
			step = defaultBudgetStep
		}
		delta := step
		if adj.Op == types.AdjustDecrease {
			delta = -step
		}
		newValue := current + delta
		warning := ""
		if newValue < 0 {
			newValue = 0
			warning = "clamped to 0"
		}
		*field = &newValue
		return warning, nil
	default:
		return "", fmt.Errorf("unsupported op %q for %s", adj.Op, adj.Property)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func containsSkill(requirements []types.SkillRequirement, skill string) bool {
	for _, r := range requirements {
		if r.Skill == skill {
			return true
		}
	}
	return false
}

func removeSkill(requirements []types.SkillRequirement, skill string) []types.SkillRequirement {
	out := requirements[:0]
	for _, r := range requirements {
		if r.Skill != skill {
			out = append(out, r)
		}
	}
	return out
}
