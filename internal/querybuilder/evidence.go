package querybuilder

import "fmt"

// BuildEvidenceQuery builds the per-page evidence collection query: given
// the already-paginated engineer ids, re-traverse the
// user-requested skill and domain edges only, never the full unpaginated set.
func (b *Builder) BuildEvidenceQuery(engineerIDs []string, relevantSkillIDs []string, businessDomainIDs []string, technicalDomainIDs []string) Built {
	params := map[string]interface{}{
		"engineerIds":       engineerIDs,
		"relevantSkillIds":  relevantSkillIDs,
		"businessDomainIds": businessDomainIDs,
		"technicalDomainIds": technicalDomainIDs,
	}

	query := fmt.Sprintf(`
		MATCH (engineer:Engineer)
		WHERE engineer.id IN $engineerIds
		OPTIONAL MATCH (engineer)-[:HAS]->(relevantUS:UserSkill)-[:FOR]->(relevantSkill:Skill)
		WHERE size($relevantSkillIds) = 0 OR relevantSkill.id IN $relevantSkillIds
		WITH engineer, collect(DISTINCT CASE WHEN relevantSkill IS NULL THEN NULL ELSE {
			skillId: relevantSkill.id, skillName: relevantSkill.name,
			proficiencyLevel: relevantUS.proficiencyLevel,
			confidenceScore: relevantUS.confidenceScore, yearsUsed: relevantUS.yearsUsed
		} END) AS rawSkillRows
		OPTIONAL MATCH (engineer)-[edBiz:HAS_DOMAIN]->(bizDomain:BusinessDomain)
		WHERE size($businessDomainIds) = 0 OR bizDomain.id IN $businessDomainIds
		WITH engineer, rawSkillRows, collect(DISTINCT CASE WHEN bizDomain IS NULL THEN NULL ELSE {
			domainId: bizDomain.id, domainName: bizDomain.name, years: edBiz.years
		} END) AS rawBusinessDomainRows
		OPTIONAL MATCH (engineer)-[edTech:HAS_DOMAIN]->(techDomain:TechnicalDomain)
		WHERE size($technicalDomainIds) = 0 OR techDomain.id IN $technicalDomainIds
		WITH engineer, rawSkillRows, rawBusinessDomainRows, collect(DISTINCT CASE WHEN techDomain IS NULL THEN NULL ELSE {
			domainId: techDomain.id, domainName: techDomain.name, years: edTech.years, source: techDomain.source
		} END) AS rawTechnicalDomainRows
		RETURN engineer.id AS engineerId, rawSkillRows, rawBusinessDomainRows, rawTechnicalDomainRows
	`)

	return Built{Query: query, Params: params}
}
