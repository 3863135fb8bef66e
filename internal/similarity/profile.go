package similarity

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"unified-thinking/internal/graphdb"
	"unified-thinking/internal/types"
)

// EngineerProfile is the subset of one engineer's graph state the similarity
// scoring functions need: skill ids, domain ids, years, and timezone.
type EngineerProfile struct {
	Engineer           types.Engineer
	SkillIDs           []string
	BusinessDomainIDs  []string
	TechnicalDomainIDs []string
}

// ProfileReader fetches the engineer profiles the similarity engine scores
// over: one target plus a bounded candidate pool.
type ProfileReader interface {
	LoadProfile(ctx context.Context, engineerID string) (*EngineerProfile, bool, error)
	LoadCandidatePool(ctx context.Context, excludeID string, poolSize int) ([]EngineerProfile, error)
}

// Neo4jProfileReader implements ProfileReader against the shared graphdb.Client.
type Neo4jProfileReader struct {
	client *graphdb.Client
}

func NewNeo4jProfileReader(client *graphdb.Client) *Neo4jProfileReader {
	return &Neo4jProfileReader{client: client}
}

const profileReturnClause = `
	OPTIONAL MATCH (engineer)-[:HAS]->(:UserSkill)-[:FOR]->(skill:Skill)
	OPTIONAL MATCH (engineer)-[:HAS_DOMAIN]->(bizDomain:BusinessDomain)
	OPTIONAL MATCH (engineer)-[:HAS_DOMAIN]->(techDomain:TechnicalDomain)
	WITH engineer, collect(DISTINCT skill.id) AS skillIds,
		collect(DISTINCT bizDomain.id) AS bizDomainIds, collect(DISTINCT techDomain.id) AS techDomainIds
	RETURN engineer, skillIds, bizDomainIds, techDomainIds
`

func (r *Neo4jProfileReader) LoadProfile(ctx context.Context, engineerID string) (*EngineerProfile, bool, error) {
	query := `
		MATCH (engineer:Engineer {id: $id})
	` + profileReturnClause

	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"id": engineerID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, result.Err()
		}
		return profileFromRecord(result.Record()), nil
	})
	if err != nil {
		return nil, false, err
	}
	if res == nil {
		return nil, false, nil
	}
	return res.(*EngineerProfile), true, nil
}

func (r *Neo4jProfileReader) LoadCandidatePool(ctx context.Context, excludeID string, poolSize int) ([]EngineerProfile, error) {
	query := `
		MATCH (engineer:Engineer)
		WHERE engineer.id <> $excludeId
	` + profileReturnClause + `
	LIMIT $poolSize
	`

	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"excludeId": excludeID, "poolSize": poolSize})
		if err != nil {
			return nil, err
		}
		var profiles []EngineerProfile
		for result.Next(ctx) {
			profiles = append(profiles, *profileFromRecord(result.Record()))
		}
		return profiles, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return res.([]EngineerProfile), nil
}

func profileFromRecord(rec *neo4j.Record) *EngineerProfile {
	profile := &EngineerProfile{
		SkillIDs:           graphdb.GetStringSlice(rec, "skillIds"),
		BusinessDomainIDs:  graphdb.GetStringSlice(rec, "bizDomainIds"),
		TechnicalDomainIDs: graphdb.GetStringSlice(rec, "techDomainIds"),
	}

	raw, ok := rec.Get("engineer")
	if !ok {
		return profile
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return profile
	}
	props := node.Props

	var e types.Engineer
	if v, ok := props["id"].(string); ok {
		e.ID = v
	}
	if v, ok := props["name"].(string); ok {
		e.Name = v
	}
	if v, ok := props["headline"].(string); ok {
		e.Headline = v
	}
	if v, ok := props["timezone"].(string); ok {
		e.Timezone = v
	}
	if v, ok := props["startTimeline"].(string); ok {
		e.StartTimeline = types.StartTimeline(v)
	}
	if years, err := graphdb.NormalizeNumber(props["yearsExperience"]); err == nil {
		e.YearsExperience = int(years)
	}
	if salary, err := graphdb.NormalizeNumber(props["salary"]); err == nil {
		e.Salary = salary
	}
	profile.Engineer = e
	return profile
}
