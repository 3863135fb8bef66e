package resolver

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"unified-thinking/internal/graphdb"
)

// Neo4jSkillGraph implements SkillGraphReader against the shared graphdb.Client.
type Neo4jSkillGraph struct {
	client *graphdb.Client
}

func NewNeo4jSkillGraph(client *graphdb.Client) *Neo4jSkillGraph {
	return &Neo4jSkillGraph{client: client}
}

func (g *Neo4jSkillGraph) FindSkillNode(ctx context.Context, identifier string) (string, string, bool, error) {
	query := `
		MATCH (s:Skill)
		WHERE s.id = $identifier OR toLower(s.name) = toLower($identifier)
		RETURN s.id AS id, s.name AS name
		LIMIT 1
	`
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"identifier": identifier})
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			rec := result.Record()
			return []string{graphdb.GetString(rec, "id"), graphdb.GetString(rec, "name")}, nil
		}
		return nil, result.Err()
	})
	if err != nil {
		return "", "", false, err
	}
	if res == nil {
		return "", "", false, nil
	}
	pair := res.([]string)
	return pair[0], pair[1], true, nil
}

func (g *Neo4jSkillGraph) ExpandSkillLeaves(ctx context.Context, nodeID string) ([]SkillLeaf, error) {
	query := `
		MATCH (root:Skill {id: $id})
		CALL {
			WITH root
			MATCH (root)<-[:BELONGS_TO*1..]-(leaf:Skill)
			RETURN leaf
			UNION
			WITH root
			MATCH (root)-[:CHILD_OF*0..]->(leaf:Skill)
			RETURN leaf
		}
		WITH DISTINCT leaf
		WHERE leaf.isCategory = false OR leaf.isCategory IS NULL
		RETURN leaf.id AS id, leaf.name AS name
	`
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"id": nodeID})
		if err != nil {
			return nil, err
		}
		var leaves []SkillLeaf
		for result.Next(ctx) {
			rec := result.Record()
			leaves = append(leaves, SkillLeaf{
				SkillID:   graphdb.GetString(rec, "id"),
				SkillName: graphdb.GetString(rec, "name"),
			})
		}
		return leaves, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return res.([]SkillLeaf), nil
}

// Neo4jDomainGraph implements DomainGraphReader against a single domain label
// ("BusinessDomain" or "TechnicalDomain").
type Neo4jDomainGraph struct {
	client *graphdb.Client
	label  string
}

func NewNeo4jDomainGraph(client *graphdb.Client, label string) *Neo4jDomainGraph {
	return &Neo4jDomainGraph{client: client, label: label}
}

func (g *Neo4jDomainGraph) FindDomainNode(ctx context.Context, identifier string) (string, bool, error) {
	query := `MATCH (d:` + sanitizeLabel(g.label) + `)
		WHERE d.id = $identifier OR toLower(d.name) = toLower($identifier)
		RETURN d.id AS id
		LIMIT 1`
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"identifier": identifier})
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			return graphdb.GetString(result.Record(), "id"), nil
		}
		return nil, result.Err()
	})
	if err != nil {
		return "", false, err
	}
	if res == nil {
		return "", false, nil
	}
	id := res.(string)
	return id, id != "", nil
}

func (g *Neo4jDomainGraph) ExpandDomainIDs(ctx context.Context, nodeID string) ([]DomainLeaf, error) {
	label := sanitizeLabel(g.label)
	query := `
		MATCH (root:` + label + ` {id: $id})
		CALL {
			WITH root
			MATCH (root)<-[:BELONGS_TO*1..]-(leaf:` + label + `)
			RETURN leaf
			UNION
			WITH root
			MATCH (root)-[:CHILD_OF*0..]->(leaf:` + label + `)
			RETURN leaf
		}
		WITH DISTINCT leaf
		RETURN leaf.id AS id
	`
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"id": nodeID})
		if err != nil {
			return nil, err
		}
		var leaves []DomainLeaf
		for result.Next(ctx) {
			leaves = append(leaves, DomainLeaf{DomainID: graphdb.GetString(result.Record(), "id")})
		}
		return leaves, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return res.([]DomainLeaf), nil
}

// sanitizeLabel restricts a Cypher node label to the fixed set this package
// ever passes in; labels cannot be parameterised in Cypher so this is the
// boundary check that keeps query text build-time constant in practice.
func sanitizeLabel(label string) string {
	switch label {
	case "BusinessDomain", "TechnicalDomain":
		return label
	default:
		return strings.ReplaceAll(label, "`", "")
	}
}
