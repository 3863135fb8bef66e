package similarity

import "unified-thinking/internal/types"

// scoredCandidate pairs a loaded profile with its raw similarity score and
// subscore breakdown against the reference engineer.
type scoredCandidate struct {
	profile   EngineerProfile
	score     float64
	breakdown types.SimilaritySubscores
}

// diversify implements a maximal-marginal-relevance-style selection: the
// top-scoring candidate is always kept first; each later slot
// goes to the highest-scoring remaining candidate after subtracting a
// penalty proportional to its similarity to whichever already-selected
// candidate it resembles most. candidates must already be sorted descending
// by score.
func diversify(candidates []scoredCandidate, skills SkillGraph, business, technical DomainGraph, penalty float64, limit int) []scoredCandidate {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	selected := []scoredCandidate{candidates[0]}
	remaining := candidates[1:]

	for len(selected) < limit && len(remaining) > 0 {
		bestIdx := 0
		bestAdjusted := adjustedScore(remaining[0], selected, skills, business, technical, penalty)
		for i := 1; i < len(remaining); i++ {
			adjusted := adjustedScore(remaining[i], selected, skills, business, technical, penalty)
			if adjusted > bestAdjusted {
				bestAdjusted = adjusted
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

func adjustedScore(cand scoredCandidate, selected []scoredCandidate, skills SkillGraph, business, technical DomainGraph, penalty float64) float64 {
	maxSim := 0.0
	for _, sel := range selected {
		sim := redundancy(cand.profile, sel.profile, skills, business, technical)
		if sim > maxSim {
			maxSim = sim
		}
	}
	return cand.score - penalty*maxSim
}

// redundancy measures how similar two candidates already are to each other,
// using the same skill/domain graphs the reference-vs-candidate scoring
// uses, so a diverse pick doesn't just restate an already-selected profile.
func redundancy(a, b EngineerProfile, skills SkillGraph, business, technical DomainGraph) float64 {
	skillSim := skillsSimilarity(a.SkillIDs, b.SkillIDs, skills)
	domainSim := domainSimilarity(a.BusinessDomainIDs, b.BusinessDomainIDs, a.TechnicalDomainIDs, b.TechnicalDomainIDs, business, technical)
	return (skillSim + domainSim) / 2
}
