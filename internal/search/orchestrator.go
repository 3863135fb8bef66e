// Package search implements the search orchestrator (C8): it sequences the
// constraint expander, the skill/domain resolvers, the query builder, the
// graph execution, the record parser, and the utility calculator into one
// filter-search operation, falling back to the constraint advisor when
// results are sparse.
package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/errgroup"

	"unified-thinking/internal/apierrors"
	"unified-thinking/internal/config"
	"unified-thinking/internal/expander"
	"unified-thinking/internal/graphdb"
	"unified-thinking/internal/querybuilder"
	"unified-thinking/internal/recordparser"
	"unified-thinking/internal/resolver"
	"unified-thinking/internal/scoring"
	"unified-thinking/internal/types"
)

// Advisor is the constraint advisor's contract, kept as a local interface so
// this package does not depend on the advisor's concrete implementation or
// its own LLM/graph dependencies.
type Advisor interface {
	Advise(ctx context.Context, criteria *types.ExpandedCriteria, totalCount int) (*types.Advice, error)
}

// Service implements C8.
type Service struct {
	cfg                *config.Config
	client             *graphdb.Client
	expander           *expander.Expander
	skillResolver      *resolver.SkillResolver
	businessDomainResolver *resolver.DomainResolver
	technicalDomainResolver *resolver.DomainResolver
	builder            *querybuilder.Builder
	parser             *recordparser.Parser
	calculator         *scoring.Calculator
	advisor            Advisor
}

func NewService(
	cfg *config.Config,
	client *graphdb.Client,
	exp *expander.Expander,
	skillResolver *resolver.SkillResolver,
	businessDomainResolver *resolver.DomainResolver,
	technicalDomainResolver *resolver.DomainResolver,
	advisor Advisor,
) *Service {
	return &Service{
		cfg:                     cfg,
		client:                  client,
		expander:                exp,
		skillResolver:           skillResolver,
		businessDomainResolver:  businessDomainResolver,
		technicalDomainResolver: technicalDomainResolver,
		builder:                 querybuilder.New(),
		parser:                  recordparser.New(cfg.Weights.ConfidenceMin),
		calculator:              scoring.New(cfg.Weights, cfg.Seniority),
		advisor:                 advisor,
	}
}

// Search runs one filter-search request end to end.
func (s *Service) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	start := time.Now()

	if err := expander.Validate(req); err != nil {
		return nil, err
	}

	criteria, err := s.expander.Expand(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.resolveConstraints(ctx, criteria); err != nil {
		return nil, err
	}

	built, err := s.builder.BuildSearchQuery(criteria)
	if err != nil {
		return nil, apierrors.NewValidationError(apierrors.CodeValidationFailed, "failed to build search query", apierrors.Issue{Message: err.Error()})
	}

	page, totalCount, err := s.runSearchQuery(ctx, built)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}

	matches, err := s.collectEvidence(ctx, criteria, page)
	if err != nil {
		return nil, apierrors.NewSearchError(err)
	}

	for i := range matches {
		matches[i].UtilityScore, matches[i].ScoreBreakdown = s.calculator.Score(criteria, &matches[i])
	}
	scoring.SortMatches(matches)

	resp := &types.SearchResponse{
		Matches:            matches,
		TotalCount:         totalCount,
		AppliedFilters:     criteria.AppliedFilters,
		AppliedPreferences: criteria.AppliedPreferences,
		DefaultsApplied:    criteria.DefaultsApplied,
		DerivedConstraints: criteria.DerivedConstraints,
		OverriddenRuleIDs:  keysOf(criteria.OverriddenRuleIDs),
		QueryMetadata: types.QueryMetadata{
			QueryID:         uuid.New().String(),
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		},
	}
	if criteria.InferenceWarning {
		resp.QueryMetadata.Warnings = append(resp.QueryMetadata.Warnings, "inference did not converge before maxIterations")
	}

	if totalCount < criteria.AdvisorThreshold && s.advisor != nil {
		advice, err := s.advisor.Advise(ctx, criteria, totalCount)
		if err != nil {
			resp.QueryMetadata.Warnings = append(resp.QueryMetadata.Warnings, "advisor error: "+err.Error())
		} else {
			resp.Advice = advice
			if advice.Degraded {
				resp.QueryMetadata.Warnings = append(resp.QueryMetadata.Warnings, "advisor degraded: maximum conflict sets reached before the constraint space was exhausted")
			}
		}
	}

	return resp, nil
}

// resolveConstraints runs the skill and domain resolvers concurrently and
// writes their results back into criteria.
func (s *Service) resolveConstraints(ctx context.Context, criteria *types.ExpandedCriteria) error {
	req := criteria.Original
	g, gctx := errgroup.WithContext(ctx)

	var requiredSkills, preferredSkills *resolver.ResolveResult
	var reqBizDomains, prefBizDomains *resolver.ResolveBusinessResult
	var reqTechDomains, prefTechDomains *resolver.ResolveTechnicalResult

	g.Go(func() (err error) {
		requiredSkills, err = s.skillResolver.Resolve(gctx, req.RequiredSkills, types.ProficiencyLearning)
		return err
	})
	g.Go(func() (err error) {
		preferredSkills, err = s.skillResolver.Resolve(gctx, req.PreferredSkills, types.ProficiencyLearning)
		return err
	})
	g.Go(func() (err error) {
		reqBizDomains, err = s.businessDomainResolver.ResolveBusiness(gctx, req.RequiredBusinessDomains)
		return err
	})
	g.Go(func() (err error) {
		prefBizDomains, err = s.businessDomainResolver.ResolveBusiness(gctx, req.PreferredBusinessDomains)
		return err
	})
	g.Go(func() (err error) {
		reqTechDomains, err = s.technicalDomainResolver.ResolveTechnical(gctx, req.RequiredTechnicalDomains)
		return err
	})
	g.Go(func() (err error) {
		prefTechDomains, err = s.technicalDomainResolver.ResolveTechnical(gctx, req.PreferredTechnicalDomains)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	criteria.RequiredSkills = requiredSkills.Resolved
	criteria.PreferredSkills = preferredSkills.Resolved
	criteria.RequiredBusinessDomains = reqBizDomains.Resolved
	criteria.PreferredBusinessDomains = prefBizDomains.Resolved
	criteria.RequiredTechnicalDomains = reqTechDomains.Resolved
	criteria.PreferredTechnicalDomains = prefTechDomains.Resolved
	return nil
}

type pageRow struct {
	Engineer types.Engineer
}

type searchQueryResult struct {
	Rows       []pageRow
	TotalCount int
}

// runSearchQuery executes the paginated main query and returns the page of
// engineers plus the unpaginated total.
func (s *Service) runSearchQuery(ctx context.Context, built querybuilder.Built) ([]pageRow, int, error) {
	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, built.Query, built.Params)
		if err != nil {
			return nil, err
		}

		out := searchQueryResult{}
		for result.Next(ctx) {
			rec := result.Record()
			if tc, ok := rec.Get("totalCount"); ok {
				if n, err := graphdb.NormalizeInt64(tc); err == nil {
					out.TotalCount = int(n)
				}
			}
			node, ok := rec.Get("engineer")
			if !ok || node == nil {
				continue
			}
			out.Rows = append(out.Rows, pageRow{Engineer: engineerFromNode(node)})
		}
		return out, result.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	out, _ := res.(searchQueryResult)
	return out.Rows, out.TotalCount, nil
}

func engineerFromNode(raw interface{}) types.Engineer {
	node, ok := raw.(neo4j.Node)
	if !ok {
		return types.Engineer{}
	}
	props := node.Props
	e := types.Engineer{}
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
	return e
}

// collectEvidence runs the per-page evidence query and builds one
// EngineerMatch per page row.
func (s *Service) collectEvidence(ctx context.Context, criteria *types.ExpandedCriteria, page []pageRow) ([]types.EngineerMatch, error) {
	if len(page) == 0 {
		return nil, nil
	}

	engineerIDs := make([]string, len(page))
	for i, row := range page {
		engineerIDs[i] = row.Engineer.ID
	}

	relevantSkillIDs := unionSkillIDs(criteria.RequiredSkills, criteria.PreferredSkills)
	bizDomainIDs := unionBusinessDomainIDs(criteria.RequiredBusinessDomains, criteria.PreferredBusinessDomains)
	techDomainIDs := unionTechnicalDomainIDs(criteria.RequiredTechnicalDomains, criteria.PreferredTechnicalDomains)

	built := s.builder.BuildEvidenceQuery(engineerIDs, relevantSkillIDs, bizDomainIDs, techDomainIDs)

	type evidenceRow struct {
		EngineerID    string
		SkillRows     []recordparser.RawSkillRow
		BizDomainRows []recordparser.RawDomainRow
		TechDomainRows []recordparser.RawDomainRow
	}

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, built.Query, built.Params)
		if err != nil {
			return nil, err
		}

		byID := map[string]evidenceRow{}
		for result.Next(ctx) {
			rec := result.Record()
			id := graphdb.GetString(rec, "engineerId")

			row := evidenceRow{EngineerID: id}
			if raw, ok := rec.Get("rawSkillRows"); ok {
				row.SkillRows = parseSkillRows(raw)
			}
			if raw, ok := rec.Get("rawBusinessDomainRows"); ok {
				row.BizDomainRows = parseDomainRows(raw, types.DomainSource(""))
			}
			if raw, ok := rec.Get("rawTechnicalDomainRows"); ok {
				row.TechDomainRows = parseDomainRows(raw, types.DomainSourceExplicit)
			}
			byID[id] = row
		}
		return byID, result.Err()
	})
	if err != nil {
		return nil, err
	}
	byID, _ := res.(map[string]evidenceRow)

	mode := recordparser.DetermineMode(len(criteria.RequiredSkills), criteria.AlignedSkillIDs)

	reqBizSpec := recordparser.NewDomainSpecFromBusiness(criteria.RequiredBusinessDomains, false)
	prefBizSpec := recordparser.NewDomainSpecFromBusiness(criteria.PreferredBusinessDomains, true)
	reqTechSpec := recordparser.NewDomainSpecFromTechnical(criteria.RequiredTechnicalDomains, false)
	prefTechSpec := recordparser.NewDomainSpecFromTechnical(criteria.PreferredTechnicalDomains, true)

	matches := make([]types.EngineerMatch, 0, len(page))
	for _, row := range page {
		ev := byID[row.Engineer.ID]

		matched, unmatched, matchedCount, avgConfidence := s.parser.ParseEngineerSkills(mode, criteria.RequiredSkills, criteria.AlignedSkillIDs, ev.SkillRows)

		match := types.EngineerMatch{
			Engineer:               row.Engineer,
			MatchedSkills:          matched,
			UnmatchedRelatedSkills: unmatched,
			MatchedSkillCount:      matchedCount,
			AvgConfidence:          avgConfidence,
			MatchedBusinessDomains:  recordparser.ParseDomains(ev.BizDomainRows, reqBizSpec, prefBizSpec),
			MatchedTechnicalDomains: recordparser.ParseDomains(ev.TechDomainRows, reqTechSpec, prefTechSpec),
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func parseSkillRows(raw interface{}) []recordparser.RawSkillRow {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []recordparser.RawSkillRow
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok || m == nil {
			continue
		}
		row := recordparser.RawSkillRow{}
		if v, ok := m["skillId"].(string); ok {
			row.SkillID = v
		}
		if v, ok := m["skillName"].(string); ok {
			row.SkillName = v
		}
		if v, ok := m["proficiencyLevel"].(string); ok {
			row.ProficiencyLevel = types.ProficiencyLevel(v)
		}
		if v, err := graphdb.NormalizeNumber(m["confidenceScore"]); err == nil {
			row.ConfidenceScore = v
		}
		if v, err := graphdb.NormalizeNumber(m["yearsUsed"]); err == nil {
			row.YearsUsed = v
		}
		if row.SkillID == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func parseDomainRows(raw interface{}, defaultSource types.DomainSource) []recordparser.RawDomainRow {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []recordparser.RawDomainRow
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok || m == nil {
			continue
		}
		row := recordparser.RawDomainRow{Source: defaultSource}
		if v, ok := m["domainId"].(string); ok {
			row.DomainID = v
		}
		if v, ok := m["domainName"].(string); ok {
			row.DomainName = v
		}
		if v, err := graphdb.NormalizeNumber(m["years"]); err == nil {
			row.Years = v
		}
		if v, ok := m["source"].(string); ok && v != "" {
			row.Source = types.DomainSource(v)
		}
		if row.DomainID == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func unionSkillIDs(groups ...[]types.ResolvedSkillRequirement) []string {
	seen := map[string]bool{}
	var out []string
	for _, group := range groups {
		for _, req := range group {
			for _, id := range req.ExpandedSkillIDs {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func unionBusinessDomainIDs(groups ...[]types.ResolvedBusinessDomain) []string {
	seen := map[string]bool{}
	var out []string
	for _, group := range groups {
		for _, d := range group {
			for _, id := range d.ExpandedDomainIDs {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func unionTechnicalDomainIDs(groups ...[]types.ResolvedTechnicalDomain) []string {
	seen := map[string]bool{}
	var out []string
	for _, group := range groups {
		for _, d := range group {
			for _, id := range d.ExpandedDomainIDs {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func keysOf(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
