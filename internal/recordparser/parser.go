// Package recordparser implements the record parser (C6): it classifies the
// raw skill and domain evidence collected per engineer into the matched /
// unmatched-related partition (or the browse / team-focus-only shortcuts)
// the response surfaces.
package recordparser

import (
	"unified-thinking/internal/resolver"
	"unified-thinking/internal/types"
)

// Mode is which of the three evidence-collection shapes applies to the
// current request.
type Mode string

const (
	ModeBrowse         Mode = "browse"          // no skill filter at all
	ModeTeamFocusOnly  Mode = "team_focus_only" // no requirement skills, aligned skills configured
	ModeSkillFiltered  Mode = "skill_filtered"
)

// RawSkillRow is one (engineer, skill) edge as returned by the graph query,
// before matchType/meetsProficiency/meetsConfidence classification.
type RawSkillRow struct {
	SkillID          string
	SkillName        string
	ProficiencyLevel types.ProficiencyLevel
	ConfidenceScore  float64
	YearsUsed        float64
}

// RawDomainRow is one (engineer, domain) edge as returned by the graph query.
type RawDomainRow struct {
	DomainID   string
	DomainName string
	Years      float64
	Source     types.DomainSource // zero value for business domains
}

// Parser implements C6.
type Parser struct {
	confidenceMin float64
}

func New(confidenceMin float64) *Parser {
	return &Parser{confidenceMin: confidenceMin}
}

// DetermineMode picks the evidence-collection shape for a single search.
func DetermineMode(requirementCount int, alignedSkillIDs []string) Mode {
	if requirementCount > 0 {
		return ModeSkillFiltered
	}
	if len(alignedSkillIDs) > 0 {
		return ModeTeamFocusOnly
	}
	return ModeBrowse
}

// ParseEngineerSkills partitions raw skill rows for one engineer according to
// mode, computing matchedSkillCount and avgConfidence.
func (p *Parser) ParseEngineerSkills(mode Mode, requirements []types.ResolvedSkillRequirement, alignedSkillIDs []string, rows []RawSkillRow) (matched, unmatchedRelated []types.CollectedSkill, matchedSkillCount int, avgConfidence float64) {
	switch mode {
	case ModeBrowse:
		return nil, nil, 0, 0

	case ModeTeamFocusOnly:
		alignedSet := toSet(alignedSkillIDs)
		for _, row := range rows {
			if !alignedSet[row.SkillID] {
				continue
			}
			skill := types.CollectedSkill{
				SkillID:          row.SkillID,
				SkillName:        row.SkillName,
				ProficiencyLevel: row.ProficiencyLevel,
				ConfidenceScore:  row.ConfidenceScore,
				YearsUsed:        row.YearsUsed,
				MatchType:        types.MatchNone,
				MeetsConfidence:  row.ConfidenceScore >= p.confidenceMin,
				MeetsProficiency: true,
			}
			matched = append(matched, skill)
		}
		return matched, nil, len(matched), meanConfidence(matched)

	default: // ModeSkillFiltered
		originals := requirements
		for _, row := range rows {
			requirement, ok := requirementFor(row.SkillID, requirements)
			if !ok {
				continue
			}
			isDirect := resolver.IsDirectMatch(row.SkillID, row.SkillName, originals)
			meetsProficiency := row.ProficiencyLevel.AtLeast(requirement.MinProficiency)
			meetsConfidence := row.ConfidenceScore >= p.confidenceMin

			skill := types.CollectedSkill{
				SkillID:          row.SkillID,
				SkillName:        row.SkillName,
				ProficiencyLevel: row.ProficiencyLevel,
				ConfidenceScore:  row.ConfidenceScore,
				YearsUsed:        row.YearsUsed,
				MeetsConfidence:  meetsConfidence,
				MeetsProficiency: meetsProficiency,
			}

			if isDirect {
				skill.MatchType = types.MatchDirect
			} else {
				skill.MatchType = types.MatchDescendant
			}

			if isDirect && meetsProficiency && meetsConfidence {
				matched = append(matched, skill)
				continue
			}

			var violations []types.ConstraintViolation
			if !meetsProficiency {
				violations = append(violations, types.ViolationProficiencyBelowMinimum)
			}
			if !meetsConfidence {
				violations = append(violations, types.ViolationConfidenceBelowMinimum)
			}
			skill.ConstraintViolations = violations
			unmatchedRelated = append(unmatchedRelated, skill)
		}
		return matched, unmatchedRelated, len(matched), meanConfidence(matched)
	}
}

func requirementFor(skillID string, requirements []types.ResolvedSkillRequirement) (types.ResolvedSkillRequirement, bool) {
	for _, r := range requirements {
		for _, id := range r.ExpandedSkillIDs {
			if id == skillID {
				return r, true
			}
		}
	}
	return types.ResolvedSkillRequirement{}, false
}

func meanConfidence(skills []types.CollectedSkill) float64 {
	if len(skills) == 0 {
		return 0
	}
	var sum float64
	for _, s := range skills {
		sum += s.ConfidenceScore
	}
	return sum / float64(len(skills))
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ParseDomains maps raw domain rows to MatchedDomain, precomputing
// meetsRequired/meetsPreferred from the resolvers' flattened id sets so the
// utility calculator never recomputes a domain traversal per row.
func ParseDomains(rows []RawDomainRow, required, preferred domainSpec) []types.MatchedDomain {
	out := make([]types.MatchedDomain, 0, len(rows))
	for _, row := range rows {
		md := types.MatchedDomain{
			DomainID:   row.DomainID,
			DomainName: row.DomainName,
			Years:      row.Years,
			Source:     row.Source,
		}
		md.MeetsRequired = required.satisfiedBy(row.DomainID, row.Years)
		md.MeetsPreferred = preferred.satisfiedBy(row.DomainID, row.Years)
		out = append(out, md)
	}
	return out
}

// domainSpec is the flattened id->minYears view ParseDomains needs; built by
// the orchestrator from []ResolvedBusinessDomain or []ResolvedTechnicalDomain.
type domainSpec struct {
	MinYearsByID map[string]*float64
}

// NewDomainSpecFromBusiness builds a domainSpec for the required-side check
// when preferred is false, or the preferred-side check when preferred is true.
func NewDomainSpecFromBusiness(resolved []types.ResolvedBusinessDomain, preferred bool) domainSpec {
	spec := domainSpec{MinYearsByID: map[string]*float64{}}
	for _, r := range resolved {
		years := r.MinYears
		if preferred {
			years = r.PreferredMinYears
		}
		for _, id := range r.ExpandedDomainIDs {
			spec.MinYearsByID[id] = years
		}
	}
	return spec
}

func NewDomainSpecFromTechnical(resolved []types.ResolvedTechnicalDomain, preferred bool) domainSpec {
	spec := domainSpec{MinYearsByID: map[string]*float64{}}
	for _, r := range resolved {
		years := r.MinYears
		if preferred {
			years = r.PreferredMinYears
		}
		for _, id := range r.ExpandedDomainIDs {
			spec.MinYearsByID[id] = years
		}
	}
	return spec
}

func (s domainSpec) satisfiedBy(domainID string, years float64) bool {
	minYears, known := s.MinYearsByID[domainID]
	if !known {
		return false
	}
	if minYears == nil {
		return true
	}
	return years >= *minYears
}
