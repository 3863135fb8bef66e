package similarity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"unified-thinking/internal/apierrors"
	"unified-thinking/internal/config"
	"unified-thinking/internal/types"
)

// defaultPoolSize bounds how many candidate profiles are pulled from the
// graph before scoring; a full table scan doesn't scale once the engineer
// population grows past a few thousand.
const defaultPoolSize = 500

// Engine is the C10 similarity engine: it combines the cached skill/domain
// graphs, a candidate profile pool, the four-subscore calculation, and
// diversity selection into one FindSimilar call.
type Engine struct {
	graphs  *GraphCache
	reader  ProfileReader
	cfg     config.SimilarityConfig
	poolSize int
}

func New(graphs *GraphCache, reader ProfileReader, cfg config.SimilarityConfig) *Engine {
	return &Engine{graphs: graphs, reader: reader, cfg: cfg, poolSize: defaultPoolSize}
}

// FindSimilar ranks engineers by similarity to engineerID and returns the
// top `limit` after diversity selection.
func (e *Engine) FindSimilar(ctx context.Context, engineerID string, limit int) (*types.SimilarityResponse, error) {
	start := time.Now()

	target, found, err := e.reader.LoadProfile(ctx, engineerID)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}
	if !found {
		return nil, apierrors.NewNotFoundError(apierrors.CodeEngineerNotFound, "engineer not found: "+engineerID)
	}

	pool, err := e.reader.LoadCandidatePool(ctx, engineerID, e.poolSize)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}

	skills, err := e.graphs.Skills(ctx)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}
	business, err := e.graphs.Business(ctx)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}
	technical, err := e.graphs.Technical(ctx)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}

	candidates := make([]scoredCandidate, 0, len(pool))
	for _, cand := range pool {
		breakdown := types.SimilaritySubscores{
			Skills:     skillsSimilarity(target.SkillIDs, cand.SkillIDs, skills),
			Experience: experienceSimilarity(target.Engineer.YearsExperience, cand.Engineer.YearsExperience),
			Domain:     domainSimilarity(target.BusinessDomainIDs, cand.BusinessDomainIDs, target.TechnicalDomainIDs, cand.TechnicalDomainIDs, business, technical),
			Timezone:   timezoneSimilarity(target.Engineer.Timezone, cand.Engineer.Timezone),
		}
		score := e.cfg.SkillsWeight*breakdown.Skills +
			e.cfg.ExperienceWeight*breakdown.Experience +
			e.cfg.DomainWeight*breakdown.Domain +
			e.cfg.TimezoneWeight*breakdown.Timezone
		candidates = append(candidates, scoredCandidate{profile: cand, score: score, breakdown: breakdown})
	}

	sortCandidatesDesc(candidates)

	selected := diversify(candidates, skills, business, technical, e.cfg.DiversityPenalty, limit)

	results := make([]types.SimilarEngineer, 0, len(selected))
	for _, c := range selected {
		shared, correlatedOnly := skillOverlap(target.SkillIDs, c.profile.SkillIDs, skills)
		results = append(results, types.SimilarEngineer{
			Engineer:         c.profile.Engineer,
			SimilarityScore:  c.score,
			Breakdown:        c.breakdown,
			SharedSkills:     shared,
			CorrelatedSkills: correlatedOnly,
		})
	}

	return &types.SimilarityResponse{
		Target:  target.Engineer,
		Similar: results,
		QueryMetadata: types.QueryMetadata{
			QueryID:         uuid.New().String(),
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		},
	}, nil
}

func sortCandidatesDesc(candidates []scoredCandidate) {
	// insertion sort: candidate pools are bounded by poolSize, not request size
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}

// skillOverlap splits a candidate's shared skills from skills related to the
// reference only via the correlation graph, for the response's evidence
// fields.
func skillOverlap(refSkills, candSkills []string, graph SkillGraph) (shared, correlatedOnly []string) {
	candSet := toSet(candSkills)
	refSet := toSet(refSkills)
	for _, s := range refSkills {
		if candSet[s] {
			shared = append(shared, s)
		}
	}
	seen := map[string]bool{}
	for _, r := range refSkills {
		if candSet[r] {
			continue
		}
		for _, corr := range graph[r].Correlations {
			if candSet[corr.OtherSkillID] && !seen[r] {
				correlatedOnly = append(correlatedOnly, r)
				seen[r] = true
			}
		}
	}
	for _, c := range candSkills {
		if refSet[c] || seen[c] {
			continue
		}
		for _, corr := range graph[c].Correlations {
			if refSet[corr.OtherSkillID] && !seen[c] {
				correlatedOnly = append(correlatedOnly, c)
				seen[c] = true
			}
		}
	}
	return shared, correlatedOnly
}
