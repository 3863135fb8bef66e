// Package types defines the core data model shared by every search-core component:
// requests, resolved constraints, derived constraints, matches, and advisor output.
package types

// ProficiencyLevel orders an engineer's command of a skill.
type ProficiencyLevel string

const (
	ProficiencyLearning   ProficiencyLevel = "learning"
	ProficiencyProficient ProficiencyLevel = "proficient"
	ProficiencyExpert     ProficiencyLevel = "expert"
)

var proficiencyRank = map[ProficiencyLevel]int{
	ProficiencyLearning:   0,
	ProficiencyProficient: 1,
	ProficiencyExpert:     2,
}

// AtLeast reports whether p meets or exceeds min. An unknown level never meets anything.
func (p ProficiencyLevel) AtLeast(min ProficiencyLevel) bool {
	pr, ok := proficiencyRank[p]
	if !ok {
		return false
	}
	mr, ok := proficiencyRank[min]
	if !ok {
		return true
	}
	return pr >= mr
}

// Stricter returns whichever of a, b ranks higher (empty treated as the loosest).
func StricterProficiency(a, b ProficiencyLevel) ProficiencyLevel {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if proficiencyRank[a] >= proficiencyRank[b] {
		return a
	}
	return b
}

// Valid reports whether p is one of the three known levels.
func (p ProficiencyLevel) Valid() bool {
	_, ok := proficiencyRank[p]
	return ok
}

// SeniorityLevel is the closed enum accepted by SearchRequest.SeniorityLevel.
type SeniorityLevel string

const (
	SeniorityJunior    SeniorityLevel = "junior"
	SeniorityMid       SeniorityLevel = "mid"
	SeniorityStaff     SeniorityLevel = "staff"
	SenioritySenior    SeniorityLevel = "senior"
	SeniorityPrincipal SeniorityLevel = "principal"
)

// YearRange is a half-open [Min, Max) range of years of experience; Max == 0 means unbounded.
type YearRange struct {
	Min int
	Max int // 0 = unbounded
}

// StartTimeline is the closed enum of how soon an engineer can start.
type StartTimeline string

const (
	TimelineImmediate   StartTimeline = "immediate"
	TimelineTwoWeeks    StartTimeline = "two_weeks"
	TimelineOneMonth    StartTimeline = "one_month"
	TimelineThreeMonths StartTimeline = "three_months"
	TimelineSixMonths   StartTimeline = "six_months"
	TimelineOneYear     StartTimeline = "one_year"
)

// TimelineOrder is the canonical ordering used to build prefix enum lists and to
// compute the threshold+linear-decay startTimelineMatch utility.
var TimelineOrder = []StartTimeline{
	TimelineImmediate,
	TimelineTwoWeeks,
	TimelineOneMonth,
	TimelineThreeMonths,
	TimelineSixMonths,
	TimelineOneYear,
}

func TimelineIndex(t StartTimeline) int {
	for i, v := range TimelineOrder {
		if v == t {
			return i
		}
	}
	return -1
}
