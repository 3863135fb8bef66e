package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unified-thinking/internal/config"
	"unified-thinking/internal/types"
)

func newTestCalculator() *Calculator {
	cfg := config.Default()
	return New(cfg.Weights, cfg.Seniority)
}

func ptr(f float64) *float64 { return &f }

func TestSkillMatch_NeutralWhenNoSkillsRequested(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{}
	match := &types.EngineerMatch{Engineer: types.Engineer{YearsExperience: 5}}

	_, breakdown := c.Score(criteria, match)
	assert.Equal(t, 0.5, breakdown.RawScores["skillMatch"])
}

func TestSkillMatch_CoveragePlusProficiencyBonus(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{
		RequiredSkills: []types.ResolvedSkillRequirement{
			{ExpandedSkillIDs: []string{"skill_node"}},
			{ExpandedSkillIDs: []string{"skill_python"}},
		},
	}
	match := &types.EngineerMatch{
		Engineer:          types.Engineer{YearsExperience: 5},
		MatchedSkillCount: 1,
		MatchedSkills: []types.CollectedSkill{
			{SkillID: "skill_node", ProficiencyLevel: types.ProficiencyExpert},
		},
	}

	_, breakdown := c.Score(criteria, match)
	assert.InDelta(t, 0.6, breakdown.RawScores["skillMatch"], 0.0001)
}

func TestConfidenceMatch_LinearClamp(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{
		RequiredSkills: []types.ResolvedSkillRequirement{{ExpandedSkillIDs: []string{"skill_node"}}},
	}
	match := &types.EngineerMatch{Engineer: types.Engineer{YearsExperience: 5}, AvgConfidence: 1.0}

	_, breakdown := c.Score(criteria, match)
	assert.Equal(t, 1.0, breakdown.RawScores["confidence"])
}

func TestExperienceMatch_LogarithmicCapsAtOne(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{}
	match := &types.EngineerMatch{Engineer: types.Engineer{YearsExperience: 1000}}

	_, breakdown := c.Score(criteria, match)
	assert.Equal(t, 1.0, breakdown.RawScores["experienceMatch"])
}

func TestPreferredSkillsMatch_ExcludedWhenNoneRequested(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{}
	match := &types.EngineerMatch{Engineer: types.Engineer{YearsExperience: 1}}

	_, breakdown := c.Score(criteria, match)
	_, ok := breakdown.RawScores["preferredSkillsMatch"]
	assert.False(t, ok)
}

func TestPreferredSkillsMatch_RatioCapped(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{
		PreferredSkills: []types.ResolvedSkillRequirement{
			{ExpandedSkillIDs: []string{"skill_node"}},
			{ExpandedSkillIDs: []string{"skill_go"}},
		},
	}
	match := &types.EngineerMatch{
		Engineer: types.Engineer{YearsExperience: 1},
		MatchedSkills: []types.CollectedSkill{
			{SkillID: "skill_node"},
		},
	}

	_, breakdown := c.Score(criteria, match)
	assert.Contains(t, breakdown.PreferenceMatches, "preferredSkillsMatch")
}

func TestBudgetMatch_FullWithinBudgetIsExcludedFromBreakdown(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{MaxBudget: ptr(100000)}
	match := &types.EngineerMatch{Engineer: types.Engineer{Salary: 90000}}

	_, breakdown := c.Score(criteria, match)
	_, ok := breakdown.RawScores["budgetMatch"]
	assert.False(t, ok, "within-budget salary should not appear in the breakdown at all")
}

func TestBudgetMatch_PartialWithinStretchBand(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{MaxBudget: ptr(100000), StretchBudget: ptr(120000)}
	match := &types.EngineerMatch{Engineer: types.Engineer{Salary: 110000}}

	_, breakdown := c.Score(criteria, match)
	assert.InDelta(t, 0.5, breakdown.RawScores["budgetMatch"], 0.0001)
}

func TestBudgetMatch_ZeroBeyondStretch(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{MaxBudget: ptr(100000), StretchBudget: ptr(120000)}
	match := &types.EngineerMatch{Engineer: types.Engineer{Salary: 150000}}

	_, breakdown := c.Score(criteria, match)
	assert.Equal(t, 0.0, breakdown.RawScores["budgetMatch"])
}

func TestStartTimelineMatch_ExcludedWithoutPreference(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{Original: &types.SearchRequest{}}
	match := &types.EngineerMatch{Engineer: types.Engineer{StartTimeline: types.TimelineOneMonth}}

	_, breakdown := c.Score(criteria, match)
	_, ok := breakdown.RawScores["startTimelineMatch"]
	assert.False(t, ok)
}

func TestStartTimelineMatch_FullWithinPreferred(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{Original: &types.SearchRequest{
		PreferredMaxStartTime: types.TimelineOneMonth,
		RequiredMaxStartTime:  types.TimelineSixMonths,
	}}
	match := &types.EngineerMatch{Engineer: types.Engineer{StartTimeline: types.TimelineTwoWeeks}}

	_, breakdown := c.Score(criteria, match)
	assert.Equal(t, 1.0, breakdown.RawScores["startTimelineMatch"])
}

func TestStartTimelineMatch_LinearDecayTowardRequired(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{Original: &types.SearchRequest{
		PreferredMaxStartTime: types.TimelineImmediate,
		RequiredMaxStartTime:  types.TimelineOneMonth,
	}}
	match := &types.EngineerMatch{Engineer: types.Engineer{StartTimeline: types.TimelineTwoWeeks}}

	_, breakdown := c.Score(criteria, match)
	raw := breakdown.RawScores["startTimelineMatch"]
	assert.True(t, raw > 0 && raw < 1)
}

func TestPreferredTimezoneMatch_PositionBased(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{Original: &types.SearchRequest{
		PreferredTimezone: []string{"America/*", "Europe/*"},
	}}
	match := &types.EngineerMatch{Engineer: types.Engineer{Timezone: "Europe/Berlin"}}

	_, breakdown := c.Score(criteria, match)
	assert.True(t, breakdown.RawScores["preferredTimezoneMatch"] > 0)
	assert.True(t, breakdown.RawScores["preferredTimezoneMatch"] < c.weights.TimezoneMaxMatch)
}

func TestPreferredSeniorityMatch_Binary(t *testing.T) {
	c := newTestCalculator()
	criteria := &types.ExpandedCriteria{Original: &types.SearchRequest{
		PreferredSeniorityLevel: types.SenioritySenior,
	}}
	senior := &types.EngineerMatch{Engineer: types.Engineer{YearsExperience: 8}}
	junior := &types.EngineerMatch{Engineer: types.Engineer{YearsExperience: 1}}

	_, seniorBreakdown := c.Score(criteria, senior)
	_, juniorBreakdown := c.Score(criteria, junior)
	assert.Equal(t, c.weights.SeniorityMaxMatch, seniorBreakdown.RawScores["preferredSeniorityMatch"])
	assert.Equal(t, 0.0, juniorBreakdown.RawScores["preferredSeniorityMatch"])
}

func TestSortMatches_OrdersByScoreThenYearsThenName(t *testing.T) {
	matches := []types.EngineerMatch{
		{Engineer: types.Engineer{Name: "Bob", YearsExperience: 5}, UtilityScore: 0.5},
		{Engineer: types.Engineer{Name: "Alice", YearsExperience: 10}, UtilityScore: 0.9},
		{Engineer: types.Engineer{Name: "Carl", YearsExperience: 5}, UtilityScore: 0.5},
	}
	SortMatches(matches)

	assert.Equal(t, "Alice", matches[0].Engineer.Name)
	assert.Equal(t, "Bob", matches[1].Engineer.Name)
	assert.Equal(t, "Carl", matches[2].Engineer.Name)
}
