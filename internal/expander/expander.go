// Package expander implements the constraint expander (C3): a deterministic
// transformation from a SearchRequest into ExpandedCriteria, folding in the
// inference engine's (C4) derived constraints.
package expander

import (
	"context"
	"sort"
	"strings"

	"unified-thinking/internal/config"
	"unified-thinking/internal/inference"
	"unified-thinking/internal/types"
)

// Expander implements C3.
type Expander struct {
	cfg    *config.Config
	engine *inference.Engine
}

func New(cfg *config.Config, engine *inference.Engine) *Expander {
	return &Expander{cfg: cfg, engine: engine}
}

// Expand turns a SearchRequest into ExpandedCriteria. Resolver output
// (ResolvedSkillRequirement / ResolvedBusinessDomain / ResolvedTechnicalDomain)
// is threaded in afterward by the orchestrator since those resolutions run in
// parallel with, not before, this step.
func (e *Expander) Expand(ctx context.Context, req *types.SearchRequest) (*types.ExpandedCriteria, error) {
	criteria := &types.ExpandedCriteria{
		Original:          req,
		DerivedSkillBoosts: map[string]float64{},
		OverriddenRuleIDs: map[string]bool{},
	}

	for _, id := range req.OverriddenRuleIds {
		criteria.OverriddenRuleIDs[id] = true
	}

	e.expandSeniority(req, criteria)
	e.expandStartTimeline(req, criteria)
	e.expandTimezone(req, criteria)
	e.expandBudget(req, criteria)
	e.expandTeamFocus(req, criteria)
	e.expandPagination(req, criteria)

	if err := e.runInference(ctx, req, criteria); err != nil {
		return nil, err
	}

	threshold := e.cfg.Advisor.InsufficientThreshold
	if req.AdvisorThresholdOverride != nil {
		threshold = *req.AdvisorThresholdOverride
	}
	criteria.AdvisorThreshold = threshold

	return criteria, nil
}

func (e *Expander) expandSeniority(req *types.SearchRequest, criteria *types.ExpandedCriteria) {
	if req.SeniorityLevel == "" {
		return
	}
	rng, ok := e.cfg.Seniority.Ranges[req.SeniorityLevel]
	if !ok {
		return
	}
	criteria.YearRange = rng
	criteria.AppliedFilters = append(criteria.AppliedFilters, types.AppliedFilter{
		Kind:     types.KindPropertyFilter,
		Field:    "yearsExperience",
		Operator: types.OpBetween,
		Value:    []int{rng.Min, rng.Max},
		Source:   types.SourceKnowledgeBase,
	})
}

func (e *Expander) expandStartTimeline(req *types.SearchRequest, criteria *types.ExpandedCriteria) {
	maxTimeline := req.RequiredMaxStartTime
	if maxTimeline == "" {
		maxTimeline = types.TimelineOneYear
		criteria.DefaultsApplied = append(criteria.DefaultsApplied, "requiredMaxStartTime")
	}

	idx := types.TimelineIndex(maxTimeline)
	if idx < 0 {
		idx = len(types.TimelineOrder) - 1
	}
	criteria.StartTimelineEnum = append([]types.StartTimeline(nil), types.TimelineOrder[:idx+1]...)

	source := types.SourceUser
	if req.RequiredMaxStartTime == "" {
		source = types.SourceKnowledgeBase
	}
	criteria.AppliedFilters = append(criteria.AppliedFilters, types.AppliedFilter{
		Kind:     types.KindPropertyFilter,
		Field:    "startTimeline",
		Operator: types.OpIN,
		Value:    criteria.StartTimelineEnum,
		Source:   source,
	})
}

func (e *Expander) expandTimezone(req *types.SearchRequest, criteria *types.ExpandedCriteria) {
	if len(req.RequiredTimezone) == 0 {
		return
	}
	prefixes := make([]string, 0, len(req.RequiredTimezone))
	for _, tz := range req.RequiredTimezone {
		if strings.HasSuffix(tz, "*") {
			prefixes = append(prefixes, strings.TrimSuffix(tz, "*"))
		} else {
			prefixes = append(prefixes, tz)
		}
	}
	criteria.TimezonePrefixes = prefixes
	criteria.AppliedFilters = append(criteria.AppliedFilters, types.AppliedFilter{
		Kind:     types.KindPropertyFilter,
		Field:    "timezone",
		Operator: types.OpStartsWith,
		Value:    prefixes,
		Source:   types.SourceUser,
	})
}

func (e *Expander) expandBudget(req *types.SearchRequest, criteria *types.ExpandedCriteria) {
	criteria.MaxBudget = req.MaxBudget
	criteria.StretchBudget = req.StretchBudget

	ceiling := req.MaxBudget
	if req.StretchBudget != nil {
		ceiling = req.StretchBudget
	}
	criteria.MaxBudgetCeiling = ceiling

	if ceiling == nil {
		return
	}
	criteria.AppliedFilters = append(criteria.AppliedFilters, types.AppliedFilter{
		Kind:     types.KindPropertyFilter,
		Field:    "salary",
		Operator: types.OpLTE,
		Value:    *ceiling,
		Source:   types.SourceUser,
	})
}

func (e *Expander) expandTeamFocus(req *types.SearchRequest, criteria *types.ExpandedCriteria) {
	if req.TeamFocus == "" {
		return
	}
	aligned, ok := e.cfg.TeamFocus.Alignments[req.TeamFocus]
	if !ok {
		return
	}
	criteria.AlignedSkillIDs = aligned
	criteria.AppliedPreferences = append(criteria.AppliedPreferences, types.AppliedFilter{
		Kind:         types.KindSkillFilter,
		Field:        "teamFocus",
		Skills:       aligned,
		DisplayValue: string(req.TeamFocus),
		Source:       types.SourceKnowledgeBase,
	})
}

func (e *Expander) expandPagination(req *types.SearchRequest, criteria *types.ExpandedCriteria) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
		criteria.DefaultsApplied = append(criteria.DefaultsApplied, "limit")
	}
	if limit > 100 {
		limit = 100
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	criteria.Limit = limit
	criteria.Offset = offset
}

func (e *Expander) runInference(ctx context.Context, req *types.SearchRequest, criteria *types.ExpandedCriteria) error {
	seed := map[string]interface{}{
		"teamFocus":      string(req.TeamFocus),
		"seniorityLevel": string(req.SeniorityLevel),
	}
	seed["requiredSkills"] = skillIdentifiers(req.RequiredSkills)
	seed["preferredSkills"] = skillIdentifiers(req.PreferredSkills)

	result, err := e.engine.Run(ctx, seed, criteria.OverriddenRuleIDs)
	if err != nil {
		return err
	}

	criteria.DerivedConstraints = result.DerivedConstraints
	criteria.InferenceWarning = result.Warning

	requiredSet := map[string]bool{}
	for _, dc := range result.DerivedConstraints {
		if dc.Override != nil {
			continue
		}
		switch dc.Action.Effect {
		case types.EffectFilter:
			if !requiredSet[dc.Action.TargetValue] {
				requiredSet[dc.Action.TargetValue] = true
				criteria.DerivedRequiredSkillIDs = append(criteria.DerivedRequiredSkillIDs, dc.Action.TargetValue)
				criteria.AppliedFilters = append(criteria.AppliedFilters, types.AppliedFilter{
					Kind:         types.KindSkillFilter,
					Skills:       []string{dc.Action.TargetValue},
					DisplayValue: dc.Action.TargetValue,
					RuleID:       dc.RuleID,
					Source:       types.SourceInference,
				})
			}
		case types.EffectBoost:
			if existing, ok := criteria.DerivedSkillBoosts[dc.Action.TargetValue]; !ok || dc.Action.BoostStrength > existing {
				criteria.DerivedSkillBoosts[dc.Action.TargetValue] = dc.Action.BoostStrength
			}
			criteria.AppliedPreferences = append(criteria.AppliedPreferences, types.AppliedFilter{
				Kind:         types.KindSkillFilter,
				Skills:       []string{dc.Action.TargetValue},
				DisplayValue: dc.Action.TargetValue,
				RuleID:       dc.RuleID,
				Source:       types.SourceInference,
			})
		}
	}

	sort.Strings(criteria.DerivedRequiredSkillIDs)
	return nil
}

func skillIdentifiers(reqs []types.SkillRequirement) []string {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.Skill)
	}
	return ids
}
