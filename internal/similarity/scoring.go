package similarity

import "strings"

// regionAdjacency is a fixed table of timezone regions treated as "adjacent"
// for the 0.33 similarity tier ("adjacent region"): regions
// whose business hours overlap partially without being the same region.
var regionAdjacency = map[string]map[string]bool{
	"America":   {"Europe": true, "Pacific": true},
	"Europe":    {"America": true, "Africa": true, "Asia": true},
	"Africa":    {"Europe": true},
	"Asia":      {"Europe": true, "Australia": true},
	"Australia": {"Asia": true, "Pacific": true},
	"Pacific":   {"America": true, "Australia": true},
}

// skillsSimilarity is the "Symmetric set-overlap augmented by correlation"
// formula: shared skills count fully; skills held only by the
// reference engineer contribute the strongest correlation they have to any
// skill the candidate holds. Normalised by the larger of the two skill counts.
func skillsSimilarity(refSkills, candSkills []string, graph SkillGraph) float64 {
	if len(refSkills) == 0 && len(candSkills) == 0 {
		return 1.0
	}
	if len(refSkills) == 0 || len(candSkills) == 0 {
		return 0.0
	}

	candSet := toSet(candSkills)
	refSet := toSet(refSkills)

	shared := 0.0
	var refOnly []string
	for _, s := range refSkills {
		if candSet[s] {
			shared++
		} else {
			refOnly = append(refOnly, s)
		}
	}

	score := shared
	for _, r := range refOnly {
		best := 0.0
		for _, corr := range graph[r].Correlations {
			if candSet[corr.OtherSkillID] && corr.Strength > best {
				best = corr.Strength
			}
		}
		if best == 0 {
			// correlation edges may only be recorded on one side of the pair
			for _, c := range candSkills {
				if refSet[c] {
					continue
				}
				for _, corr := range graph[c].Correlations {
					if corr.OtherSkillID == r && corr.Strength > best {
						best = corr.Strength
					}
				}
			}
		}
		score += best
	}

	maxCount := float64(len(refSkills))
	if len(candSkills) > len(refSkills) {
		maxCount = float64(len(candSkills))
	}
	if maxCount == 0 {
		return 0
	}
	result := score / maxCount
	if result > 1 {
		result = 1
	}
	return result
}

// experienceSimilarity computes 1 - |Ry - Cy| / max(Ry, Cy, 1).
func experienceSimilarity(refYears, candYears int) float64 {
	denom := float64(refYears)
	if candYears > refYears {
		denom = float64(candYears)
	}
	if denom < 1 {
		denom = 1
	}
	diff := refYears - candYears
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/denom
}

// domainSimilarity averages hierarchy-aware similarity across business and
// technical domain sets.
func domainSimilarity(refBiz, candBiz, refTech, candTech []string, business, technical DomainGraph) float64 {
	bizScore := domainSetSimilarity(refBiz, candBiz, business)
	techScore := domainSetSimilarity(refTech, candTech, technical)
	return (bizScore + techScore) / 2
}

func domainSetSimilarity(refIDs, candIDs []string, graph DomainGraph) float64 {
	if len(refIDs) == 0 && len(candIDs) == 0 {
		return 1.0
	}
	if len(refIDs) == 0 || len(candIDs) == 0 {
		return 0.0
	}

	var total float64
	for _, r := range refIDs {
		best := 0.0
		for _, c := range candIDs {
			if s := domainPairScore(r, c, graph); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(refIDs))
}

// domainPairScore implements hierarchy-aware tiers: exact
// match 1.0, shared parent 0.7, shared ancestor 0.4, shared encompassedBy 0.3,
// else 0.
func domainPairScore(a, b string, graph DomainGraph) float64 {
	if a == b {
		return 1.0
	}
	nodeA, okA := graph[a]
	nodeB, okB := graph[b]
	if !okA || !okB {
		return 0
	}
	if nodeA.ParentID != "" && nodeA.ParentID == nodeB.ParentID {
		return 0.7
	}
	ancestorsA := ancestorChain(a, graph)
	ancestorsB := ancestorChain(b, graph)
	ancestorSetB := toSet(ancestorsB)
	for _, anc := range ancestorsA {
		if ancestorSetB[anc] {
			return 0.4
		}
	}
	if nodeA.EncompassedBy != "" && nodeA.EncompassedBy == nodeB.EncompassedBy {
		return 0.3
	}
	return 0
}

// ancestorChain walks ParentID links up to the root, guarding against cycles.
func ancestorChain(id string, graph DomainGraph) []string {
	var chain []string
	seen := map[string]bool{id: true}
	current := id
	for {
		node, ok := graph[current]
		if !ok || node.ParentID == "" || seen[node.ParentID] {
			break
		}
		chain = append(chain, node.ParentID)
		seen[node.ParentID] = true
		current = node.ParentID
	}
	return chain
}

// timezoneSimilarity implements a four-tier timezone scoring scheme.
func timezoneSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	regionA := region(a)
	regionB := region(b)
	if regionA == regionB {
		return 0.67
	}
	if regionAdjacency[regionA][regionB] {
		return 0.33
	}
	return 0
}

func region(timezone string) string {
	if idx := strings.Index(timezone, "/"); idx >= 0 {
		return timezone[:idx]
	}
	return timezone
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
