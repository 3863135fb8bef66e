// Package querybuilder implements the query builder (C5): it turns
// ExpandedCriteria into a parameterised Cypher search query that filters,
// orders and paginates engineers, a separate per-page evidence query
// (BuildEvidenceQuery), and the auxiliary count queries the advisor (C9)
// needs. Filtering and evidence collection take two round-trips; they are
// not combined into one query.
package querybuilder

import (
	"fmt"
	"strings"

	"unified-thinking/internal/types"
)

// Built is a ready-to-run query: text plus its parameter map. Builder methods
// never mutate a query string based on untrusted input — every value flows
// through Params, never string concatenation, aside from fixed clause shapes.
type Built struct {
	Query  string
	Params map[string]interface{}
}

// Builder implements C5.
type Builder struct{}

func New() *Builder { return &Builder{} }

// basePredicates assembles the property predicates shared by every query
// variant: year range, startTimeline enum, timezone prefixes, salary ceiling.
func (b *Builder) basePredicates(criteria *types.ExpandedCriteria) ([]string, map[string]interface{}) {
	var clauses []string
	params := map[string]interface{}{}

	if criteria.YearRange.Min != 0 || criteria.YearRange.Max != 0 {
		params["minYears"] = criteria.YearRange.Min
		clauses = append(clauses, "engineer.yearsExperience >= $minYears")
		if criteria.YearRange.Max > 0 {
			params["maxYears"] = criteria.YearRange.Max
			clauses = append(clauses, "engineer.yearsExperience < $maxYears")
		}
	}

	if len(criteria.StartTimelineEnum) > 0 {
		enumValues := make([]string, len(criteria.StartTimelineEnum))
		for i, t := range criteria.StartTimelineEnum {
			enumValues[i] = string(t)
		}
		params["startTimelineEnum"] = enumValues
		clauses = append(clauses, "engineer.startTimeline IN $startTimelineEnum")
	}

	if len(criteria.TimezonePrefixes) > 0 {
		var tzClauses []string
		for i, prefix := range criteria.TimezonePrefixes {
			paramName := fmt.Sprintf("timezonePrefix%d", i)
			params[paramName] = prefix
			tzClauses = append(tzClauses, fmt.Sprintf("engineer.timezone STARTS WITH $%s", paramName))
		}
		clauses = append(clauses, "("+strings.Join(tzClauses, " OR ")+")")
	}

	if criteria.MaxBudgetCeiling != nil {
		params["salaryCeiling"] = *criteria.MaxBudgetCeiling
		clauses = append(clauses, "engineer.salary <= $salaryCeiling")
	}

	return clauses, params
}

// skillRequirementClause builds the EXISTS{} subquery for one resolved
// requirement's HAS_ANY-with-proficiency predicate.
func skillRequirementClause(index int, req types.ResolvedSkillRequirement, params map[string]interface{}) string {
	buckets := BucketForRequirement(req)
	allParam := fmt.Sprintf("req%dSkillIds", index)
	expertParam := fmt.Sprintf("req%dExpertIds", index)
	proficientParam := fmt.Sprintf("req%dProficientIds", index)

	params[allParam] = buckets.AllIDs()
	params[expertParam] = buckets.Expert
	params[proficientParam] = buckets.Proficient

	return fmt.Sprintf(`EXISTS {
		MATCH (engineer)-[:HAS]->(us%d:UserSkill)-[:FOR]->(s%d:Skill)
		WHERE s%d.id IN $%s AND
			CASE
				WHEN s%d.id IN $%s THEN us%d.proficiencyLevel = 'expert'
				WHEN s%d.id IN $%s THEN us%d.proficiencyLevel IN ['proficient', 'expert']
				ELSE true
			END
	}`, index, index, index, allParam, index, expertParam, index, index, proficientParam, index)
}

// derivedSkillsClause builds the existence-only check for rule-derived
// required skills: present at any proficiency, never
// counted toward the qualifying-skill ordering score.
func derivedSkillsClause(criteria *types.ExpandedCriteria, params map[string]interface{}) string {
	if len(criteria.DerivedRequiredSkillIDs) == 0 {
		return ""
	}
	params["derivedSkillIds"] = criteria.DerivedRequiredSkillIDs
	return `ALL(derivedId IN $derivedSkillIds WHERE EXISTS {
		MATCH (engineer)-[:HAS]->(:UserSkill)-[:FOR]->(ds:Skill {id: derivedId})
	})`
}

func domainClause(index int, paramPrefix string, label string, dom domainLike, params map[string]interface{}) string {
	idsParam := fmt.Sprintf("%s%dIds", paramPrefix, index)
	params[idsParam] = dom.ExpandedIDs()

	clause := fmt.Sprintf(`EXISTS {
		MATCH (engineer)-[ed%s%d:HAS_DOMAIN]->(d%s%d:%s)
		WHERE d%s%d.id IN $%s`, paramPrefix, index, paramPrefix, index, label, paramPrefix, index, idsParam)

	if minYears := dom.MinYearsValue(); minYears != nil {
		yearsParam := fmt.Sprintf("%s%dMinYears", paramPrefix, index)
		params[yearsParam] = *minYears
		clause += fmt.Sprintf(" AND ed%s%d.years >= $%s", paramPrefix, index, yearsParam)
	}
	clause += "\n\t}"
	return clause
}

// domainLike lets domainClause treat business and technical resolved domains
// uniformly without duplicating the builder logic per kind.
type domainLike interface {
	ExpandedIDs() []string
	MinYearsValue() *float64
}

type businessDomainAdapter struct{ d types.ResolvedBusinessDomain }

func (a businessDomainAdapter) ExpandedIDs() []string   { return a.d.ExpandedDomainIDs }
func (a businessDomainAdapter) MinYearsValue() *float64 { return a.d.MinYears }

type technicalDomainAdapter struct{ d types.ResolvedTechnicalDomain }

func (a technicalDomainAdapter) ExpandedIDs() []string   { return a.d.ExpandedDomainIDs }
func (a technicalDomainAdapter) MinYearsValue() *float64 { return a.d.MinYears }

// BuildSearchQuery assembles the main query: filtering, ordering, then
// count-and-paginate-early. It returns only the page's engineer nodes and the
// unpaginated totalCount; it collects no evidence (see BuildEvidenceQuery).
func (b *Builder) BuildSearchQuery(criteria *types.ExpandedCriteria) (Built, error) {
	clauses, params := b.basePredicates(criteria)

	for i, req := range criteria.RequiredSkills {
		clauses = append(clauses, skillRequirementClause(i, req, params))
	}
	if clause := derivedSkillsClause(criteria, params); clause != "" {
		clauses = append(clauses, clause)
	}
	for i, dom := range criteria.RequiredBusinessDomains {
		if !dom.Required {
			continue
		}
		clauses = append(clauses, domainClause(i, "reqBizDomain", "BusinessDomain", businessDomainAdapter{dom}, params))
	}
	for i, dom := range criteria.RequiredTechnicalDomains {
		if !dom.Required {
			continue
		}
		clauses = append(clauses, domainClause(i, "reqTechDomain", "TechnicalDomain", technicalDomainAdapter{dom}, params))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, "\n\t\tAND ")
	}

	orderBy := "engineer.yearsExperience DESC"
	if len(criteria.RequiredSkills) > 0 {
		orderBy = "qualifyingSkillCount DESC, engineer.yearsExperience DESC"
	}

	params["limit"] = criteria.Limit
	params["offset"] = criteria.Offset

	query := fmt.Sprintf(`
		MATCH (engineer:Engineer)
		%s
		WITH engineer, %s AS qualifyingSkillCount
		ORDER BY %s
		WITH collect(engineer) AS candidates, count(engineer) AS totalCount
		UNWIND candidates[$offset..$offset + $limit] AS engineer
		RETURN engineer, totalCount
	`, where, qualifyingSkillCountExpr(criteria), orderBy)

	return Built{Query: query, Params: params}, nil
}

// qualifyingSkillCountExpr counts how many required-requirement predicates a
// page candidate actually satisfies, used only for ordering, never filtering.
func qualifyingSkillCountExpr(criteria *types.ExpandedCriteria) string {
	if len(criteria.RequiredSkills) == 0 {
		return "0"
	}
	var terms []string
	for i := range criteria.RequiredSkills {
		terms = append(terms, fmt.Sprintf("CASE WHEN %s THEN 1 ELSE 0 END",
			skillRequirementClause(i, criteria.RequiredSkills[i], map[string]interface{}{})))
	}
	return "(" + strings.Join(terms, " + ") + ")"
}

// BuildSearchCountQuery mirrors the main query's filter structure but returns
// only a count, for the advisor's consistency check baseline.
func (b *Builder) BuildSearchCountQuery(criteria *types.ExpandedCriteria) (Built, error) {
	clauses, params := b.basePredicates(criteria)
	for i, req := range criteria.RequiredSkills {
		clauses = append(clauses, skillRequirementClause(i, req, params))
	}
	if clause := derivedSkillsClause(criteria, params); clause != "" {
		clauses = append(clauses, clause)
	}
	for i, dom := range criteria.RequiredBusinessDomains {
		if !dom.Required {
			continue
		}
		clauses = append(clauses, domainClause(i, "reqBizDomain", "BusinessDomain", businessDomainAdapter{dom}, params))
	}
	for i, dom := range criteria.RequiredTechnicalDomains {
		if !dom.Required {
			continue
		}
		clauses = append(clauses, domainClause(i, "reqTechDomain", "TechnicalDomain", technicalDomainAdapter{dom}, params))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, "\n\t\tAND ")
	}

	query := fmt.Sprintf(`
		MATCH (engineer:Engineer)
		%s
		RETURN count(DISTINCT engineer) AS resultCount
	`, where)

	return Built{Query: query, Params: params}, nil
}

// BuildSkillFilterCountQuery is the advisor's workhorse: given an arbitrary
// active subset of proficiency-bucketed skill requirements plus pre-built
// property where-clauses (extracted from TestableConstraint.Cypher), return
// a single count. This must equal the page-1 totalCount of the main query
// when given the same full set of constraints.
func (b *Builder) BuildSkillFilterCountQuery(requirementBuckets []ProficiencyBuckets, propertyClauses []types.CypherFragment) (Built, error) {
	params := map[string]interface{}{}
	var clauses []string

	for i, buckets := range requirementBuckets {
		allParam := fmt.Sprintf("activeReq%dSkillIds", i)
		expertParam := fmt.Sprintf("activeReq%dExpertIds", i)
		proficientParam := fmt.Sprintf("activeReq%dProficientIds", i)
		params[allParam] = buckets.AllIDs()
		params[expertParam] = buckets.Expert
		params[proficientParam] = buckets.Proficient

		clauses = append(clauses, fmt.Sprintf(`EXISTS {
			MATCH (engineer)-[:HAS]->(us%d:UserSkill)-[:FOR]->(s%d:Skill)
			WHERE s%d.id IN $%s AND
				CASE
					WHEN s%d.id IN $%s THEN us%d.proficiencyLevel = 'expert'
					WHEN s%d.id IN $%s THEN us%d.proficiencyLevel IN ['proficient', 'expert']
					ELSE true
				END
		}`, i, i, i, allParam, i, expertParam, i, i, proficientParam, i))
	}

	for _, pc := range propertyClauses {
		clauses = append(clauses, pc.Clause)
		if pc.ParamName != "" {
			params[pc.ParamName] = pc.ParamValue
		}
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, "\n\t\tAND ")
	}

	query := fmt.Sprintf(`
		MATCH (engineer:Engineer)
		%s
		RETURN count(DISTINCT engineer) AS resultCount
	`, where)

	return Built{Query: query, Params: params}, nil
}
