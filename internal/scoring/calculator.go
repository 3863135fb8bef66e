// Package scoring implements the utility calculator (C7): it turns one
// engineer's collected evidence plus the expanded criteria into a weighted
// utility score and a fully explainable ScoreBreakdown.
package scoring

import (
	"math"
	"sort"

	"unified-thinking/internal/config"
	"unified-thinking/internal/types"
)

// Calculator implements C7.
type Calculator struct {
	weights   config.WeightsConfig
	seniority config.SeniorityConfig
}

func New(weights config.WeightsConfig, seniority config.SeniorityConfig) *Calculator {
	return &Calculator{weights: weights, seniority: seniority}
}

// component is one named, normalised [0,1] score plus its weight and whether
// it belongs to the preference (non-hard-filtered) side of the breakdown.
type component struct {
	name        string
	raw         float64
	weight      float64
	included    bool // false means "neutral/absent", never enters Scores or Total
	preference  bool
}

// Score computes U(match) = Σ w_j · f_j(v_j) for one engineer against the
// expanded criteria, returning the populated UtilityScore and ScoreBreakdown.
func (c *Calculator) Score(criteria *types.ExpandedCriteria, match *types.EngineerMatch) (float64, types.ScoreBreakdown) {
	var components []component

	components = append(components, c.skillMatch(criteria, match))
	components = append(components, c.confidenceMatch(criteria, match))
	components = append(components, c.experienceMatch(match))
	components = append(components, c.preferredSkillsMatch(criteria, match))
	components = append(components, c.teamFocusMatch(criteria, match))
	components = append(components, c.relatedSkillsMatch(criteria, match))
	components = append(components, c.preferredDomainMatch("preferredBusinessDomainMatch", c.weights.PreferredBusinessDomainWeight, criteria.PreferredBusinessDomains, match.MatchedBusinessDomains))
	components = append(components, c.preferredDomainMatch("preferredTechnicalDomainMatch", c.weights.PreferredTechnicalDomainWeight, criteria.PreferredTechnicalDomains, match.MatchedTechnicalDomains))
	components = append(components, c.startTimelineMatch(criteria, match))
	components = append(components, c.preferredTimezoneMatch(criteria, match))
	components = append(components, c.preferredSeniorityMatch(criteria, match))
	components = append(components, c.budgetMatch(criteria, match))

	breakdown := types.ScoreBreakdown{
		Scores:            map[string]float64{},
		RawScores:         map[string]float64{},
		PreferenceMatches: map[string]float64{},
	}

	var total float64
	for _, comp := range components {
		if !comp.included {
			continue
		}
		breakdown.RawScores[comp.name] = comp.raw
		weighted := comp.raw * comp.weight
		if weighted != 0 {
			breakdown.Scores[comp.name] = weighted
			if comp.preference {
				breakdown.PreferenceMatches[comp.name] = weighted
			}
		}
		total += weighted
	}
	breakdown.Total = total

	return total, breakdown
}

// SortMatches orders matches by utilityScore desc, then yearsExperience desc,
// then name.
func SortMatches(matches []types.EngineerMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.UtilityScore != b.UtilityScore {
			return a.UtilityScore > b.UtilityScore
		}
		if a.Engineer.YearsExperience != b.Engineer.YearsExperience {
			return a.Engineer.YearsExperience > b.Engineer.YearsExperience
		}
		return a.Engineer.Name < b.Engineer.Name
	})
}

// skillMatch: coverage + mean proficiency bonus, capped at 1. Neutral 0.5
// when no skills were requested.
func (c *Calculator) skillMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	requested := len(criteria.RequiredSkills)
	if requested == 0 {
		return component{name: "skillMatch", raw: 0.5, weight: c.weights.SkillMatchWeight, included: true}
	}

	matchedCount := match.MatchedSkillCount
	coverage := math.Min(float64(matchedCount)/float64(requested), 1)

	var bonusSum float64
	for _, s := range match.MatchedSkills {
		switch s.ProficiencyLevel {
		case types.ProficiencyExpert:
			bonusSum += c.weights.ExpertProficiencyBonus
		case types.ProficiencyProficient:
			bonusSum += c.weights.ProficientProficiencyBonus
		}
	}
	var meanBonus float64
	if len(match.MatchedSkills) > 0 {
		meanBonus = bonusSum / float64(len(match.MatchedSkills))
	}

	raw := math.Min(coverage+meanBonus, 1)
	return component{name: "skillMatch", raw: raw, weight: c.weights.SkillMatchWeight, included: true}
}

// confidenceMatch: linear clamp of avgConfidence into [confidenceMin, confidenceMax].
// Neutral 0.5 when no skills were requested (avgConfidence is meaningless then).
func (c *Calculator) confidenceMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	if len(criteria.RequiredSkills) == 0 {
		return component{name: "confidence", raw: 0.5, weight: c.weights.ConfidenceWeight, included: true}
	}
	span := c.weights.ConfidenceMax - c.weights.ConfidenceMin
	var raw float64
	if span > 0 {
		raw = clamp((match.AvgConfidence-c.weights.ConfidenceMin)/span, 0, 1)
	}
	return component{name: "confidence", raw: raw, weight: c.weights.ConfidenceWeight, included: true}
}

// experienceMatch: logarithmic, capped at 1.
func (c *Calculator) experienceMatch(match *types.EngineerMatch) component {
	maxYears := c.weights.MaxYearsExperience
	if maxYears <= 0 {
		maxYears = 1
	}
	raw := math.Log(1+float64(match.Engineer.YearsExperience)) / math.Log(1+maxYears)
	raw = math.Min(raw, 1)
	return component{name: "experienceMatch", raw: raw, weight: c.weights.ExperienceWeight, included: true}
}

// preferredSkillsMatch: ratio of matched preferred skills to requested, capped,
// scaled by maxMatch. Excluded entirely when nothing was requested.
func (c *Calculator) preferredSkillsMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	requested := len(criteria.PreferredSkills)
	if requested == 0 {
		return component{name: "preferredSkillsMatch", included: false}
	}

	matchedIDs := map[string]bool{}
	for _, s := range match.MatchedSkills {
		matchedIDs[s.SkillID] = true
	}
	var matched int
	for _, req := range criteria.PreferredSkills {
		for _, id := range req.ExpandedSkillIDs {
			if matchedIDs[id] {
				matched++
				break
			}
		}
	}

	raw := math.Min(float64(matched)/float64(requested), 1) * c.weights.PreferredSkillsMaxMatch
	return component{name: "preferredSkillsMatch", raw: raw, weight: c.weights.PreferredSkillsWeight, included: true, preference: true}
}

// teamFocusMatch: ratio of matched aligned skills to the configured alignment
// set's total, capped, scaled by maxMatch. Excluded when no team focus was set.
func (c *Calculator) teamFocusMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	alignedTotal := len(criteria.AlignedSkillIDs)
	if alignedTotal == 0 {
		return component{name: "teamFocusMatch", included: false}
	}

	aligned := toSet(criteria.AlignedSkillIDs)
	var matchedAligned int
	for _, s := range match.MatchedSkills {
		if aligned[s.SkillID] {
			matchedAligned++
		}
	}

	raw := math.Min(float64(matchedAligned)/float64(alignedTotal), 1) * c.weights.TeamFocusMaxMatch
	return component{name: "teamFocusMatch", raw: raw, weight: c.weights.TeamFocusWeight, included: true, preference: true}
}

// relatedSkillsMatch: diminishing returns over the count of unmatched-related
// (descendant) skills an engineer carries. Excluded when there was no skill
// filter in effect at all (nothing to be "related" to).
func (c *Calculator) relatedSkillsMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	if len(criteria.RequiredSkills) == 0 && len(criteria.PreferredSkills) == 0 {
		return component{name: "relatedSkillsMatch", included: false}
	}
	maxMatch := c.weights.RelatedSkillsMaxMatch
	if maxMatch <= 0 {
		return component{name: "relatedSkillsMatch", included: false}
	}

	count := float64(len(match.UnmatchedRelatedSkills))
	raw := (1 - math.Exp(-count/maxMatch)) * maxMatch
	return component{name: "relatedSkillsMatch", raw: raw, weight: c.weights.RelatedSkillsWeight, included: true, preference: true}
}

// preferredDomainMatch is shared by the business and technical variants: ratio
// of domains meeting the preferred bar to the number of preferred domains
// requested, capped, scaled by maxMatch.
func (c *Calculator) preferredDomainMatch(name string, weight float64, requested interface{}, matched []types.MatchedDomain) component {
	requestedCount := domainRequirementCount(requested)
	if requestedCount == 0 {
		return component{name: name, included: false}
	}

	var meetsPreferred int
	for _, d := range matched {
		if d.MeetsPreferred {
			meetsPreferred++
		}
	}

	raw := math.Min(float64(meetsPreferred)/float64(requestedCount), 1) * c.weights.DomainMaxMatch
	return component{name: name, raw: raw, weight: weight, included: true, preference: true}
}

func domainRequirementCount(requested interface{}) int {
	switch r := requested.(type) {
	case []types.ResolvedBusinessDomain:
		return len(r)
	case []types.ResolvedTechnicalDomain:
		return len(r)
	default:
		return 0
	}
}

// startTimelineMatch: threshold + linear decay between preferred and required
// start times. Excluded when only required was configured (no preference to score).
func (c *Calculator) startTimelineMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	original := criteria.Original
	if original == nil || original.PreferredMaxStartTime == "" {
		return component{name: "startTimelineMatch", included: false}
	}

	preferredIdx := types.TimelineIndex(original.PreferredMaxStartTime)
	requiredIdx := types.TimelineIndex(original.RequiredMaxStartTime)
	engineerIdx := types.TimelineIndex(match.Engineer.StartTimeline)
	if preferredIdx < 0 || engineerIdx < 0 {
		return component{name: "startTimelineMatch", included: false}
	}

	var raw float64
	switch {
	case engineerIdx <= preferredIdx:
		raw = 1
	case requiredIdx <= preferredIdx:
		raw = 0
	default:
		span := float64(requiredIdx - preferredIdx)
		raw = 1 - float64(engineerIdx-preferredIdx)/span
		raw = clamp(raw, 0, 1)
	}

	return component{name: "startTimelineMatch", raw: raw, weight: c.weights.StartTimelineWeight, included: true, preference: true}
}

// preferredTimezoneMatch: position-based score over the ordered preference
// list, prefix-matched against the engineer's timezone.
func (c *Calculator) preferredTimezoneMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	original := criteria.Original
	if original == nil || len(original.PreferredTimezone) == 0 {
		return component{name: "preferredTimezoneMatch", included: false}
	}

	length := len(original.PreferredTimezone)
	index := -1
	for i, pref := range original.PreferredTimezone {
		prefix := pref
		if len(prefix) > 0 && prefix[len(prefix)-1] == '*' {
			prefix = prefix[:len(prefix)-1]
		}
		if len(match.Engineer.Timezone) >= len(prefix) && match.Engineer.Timezone[:len(prefix)] == prefix {
			index = i
			break
		}
	}
	if index < 0 {
		return component{name: "preferredTimezoneMatch", raw: 0, weight: c.weights.PreferredTimezoneWeight, included: true, preference: true}
	}

	raw := (1 - float64(index)/float64(length)) * c.weights.TimezoneMaxMatch
	return component{name: "preferredTimezoneMatch", raw: raw, weight: c.weights.PreferredTimezoneWeight, included: true, preference: true}
}

// preferredSeniorityMatch: binary, maxMatch iff years >= minYears[level].
func (c *Calculator) preferredSeniorityMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	original := criteria.Original
	if original == nil || original.PreferredSeniorityLevel == "" {
		return component{name: "preferredSeniorityMatch", included: false}
	}

	yearRange, ok := c.seniority.Ranges[original.PreferredSeniorityLevel]
	if !ok {
		return component{name: "preferredSeniorityMatch", included: false}
	}

	var raw float64
	if float64(match.Engineer.YearsExperience) >= float64(yearRange.Min) {
		raw = c.weights.SeniorityMaxMatch
	}
	return component{name: "preferredSeniorityMatch", raw: raw, weight: c.weights.PreferredSeniorityWeight, included: true, preference: true}
}

// budgetMatch: full when within maxBudget, partial linear decay through the
// stretch band, excluded from the breakdown entirely when full.
func (c *Calculator) budgetMatch(criteria *types.ExpandedCriteria, match *types.EngineerMatch) component {
	if criteria.MaxBudget == nil {
		return component{name: "budgetMatch", included: false}
	}
	salary := match.Engineer.Salary
	if salary <= *criteria.MaxBudget {
		return component{name: "budgetMatch", included: false}
	}
	if criteria.StretchBudget == nil || salary > *criteria.StretchBudget {
		return component{name: "budgetMatch", raw: 0, weight: c.weights.BudgetWeight, included: true}
	}

	span := *criteria.StretchBudget - *criteria.MaxBudget
	var raw float64
	if span > 0 {
		raw = 1 - (salary-*criteria.MaxBudget)/span
		raw = clamp(raw, 0, 1)
	}
	return component{name: "budgetMatch", raw: raw, weight: c.weights.BudgetWeight, included: true}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
