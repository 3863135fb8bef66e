package similarity

import (
	"context"

	"github.com/dominikbraun/graph"
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

// skillRow is one Neo4j record: a skill and the other skills it correlates
// with at or above the configured threshold.
type skillRow struct {
	skillID      string
	correlations []SkillCorrelation
}

// LoadSkillGraph reads the correlation edges from Neo4j and assembles them
// into a weighted, directed graph.Graph before flattening it into the
// SkillGraph snapshot the rest of the similarity engine consumes. The
// library's own adjacency map does the edge bookkeeping (dedup, both-way
// lookups) rather than this package reimplementing it by hand.
func (g *Neo4jSkillGraph) LoadSkillGraph(ctx context.Context, correlationThreshold float64) (SkillGraph, error) {
	query := `
		MATCH (s:Skill)
		OPTIONAL MATCH (s)-[r:CORRELATES_WITH]-(other:Skill)
		WHERE r.strength >= $threshold
		RETURN s.id AS skillId, collect(CASE WHEN other IS NULL THEN NULL ELSE {otherSkillId: other.id, strength: r.strength} END) AS correlations
	`
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"threshold": correlationThreshold})
		if err != nil {
			return nil, err
		}

		var rows []skillRow
		for result.Next(ctx) {
			rec := result.Record()
			skillID := graphdb.GetString(rec, "skillId")
			if skillID == "" {
				continue
			}
			row := skillRow{skillID: skillID}
			if raw, ok := rec.Get("correlations"); ok {
				if list, ok := raw.([]interface{}); ok {
					for _, item := range list {
						m, ok := item.(map[string]interface{})
						if !ok {
							continue
						}
						otherID, _ := m["otherSkillId"].(string)
						if otherID == "" {
							continue
						}
						strength, _ := graphdb.NormalizeNumber(m["strength"])
						row.correlations = append(row.correlations, SkillCorrelation{OtherSkillID: otherID, Strength: strength})
					}
				}
			}
			rows = append(rows, row)
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		return buildSkillGraph(rows), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(SkillGraph), nil
}

// correlationWeightScale converts a [0,1] correlation strength into the
// integer weight graph.EdgeWeight requires, and back.
const correlationWeightScale = 1000

// buildSkillGraph assembles rows into a directed, weighted graph.Graph keyed
// by skill id, then flattens its adjacency map into the SkillGraph shape the
// rest of the package consumes. Vertices are added in a first pass so that an
// edge can always reference a skill that appears only as someone else's
// correlation target, never as its own row.
func buildSkillGraph(rows []skillRow) SkillGraph {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Weighted())

	for _, row := range rows {
		addVertexIfAbsent(g, row.skillID)
	}
	for _, row := range rows {
		for _, corr := range row.correlations {
			addVertexIfAbsent(g, corr.OtherSkillID)
		}
	}
	for _, row := range rows {
		for _, corr := range row.correlations {
			weight := int(corr.Strength * correlationWeightScale)
			_ = g.AddEdge(row.skillID, corr.OtherSkillID, graph.EdgeWeight(weight))
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		adjacency = nil
	}

	skillGraph := SkillGraph{}
	for _, row := range rows {
		node := SkillNode{SkillID: row.skillID}
		for target, edge := range adjacency[row.skillID] {
			node.Correlations = append(node.Correlations, SkillCorrelation{
				OtherSkillID: target,
				Strength:     float64(edge.Properties.Weight) / correlationWeightScale,
			})
		}
		skillGraph[row.skillID] = node
	}
	return skillGraph
}

// addVertexIfAbsent adds id as a vertex, tolerating the duplicate-vertex
// error that's expected whenever a skill shows up both as its own row and as
// another skill's correlation target.
func addVertexIfAbsent(g graph.Graph[string, string], id string) {
	_ = g.AddVertex(id)
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

func (g *Neo4jDomainGraph) LoadDomainGraph(ctx context.Context) (DomainGraph, error) {
	query := `
		MATCH (d:` + g.label + `)
		OPTIONAL MATCH (d)-[:CHILD_OF]->(parent:` + g.label + `)
		RETURN d.id AS domainId, parent.id AS parentId, d.encompassedBy AS encompassedBy
	`
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		domains := DomainGraph{}
		for result.Next(ctx) {
			rec := result.Record()
			domainID := graphdb.GetString(rec, "domainId")
			if domainID == "" {
				continue
			}
			domains[domainID] = DomainNode{
				DomainID:      domainID,
				ParentID:      graphdb.GetString(rec, "parentId"),
				EncompassedBy: graphdb.GetString(rec, "encompassedBy"),
			}
		}
		return domains, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return res.(DomainGraph), nil
}
