// Package httpapi exposes the search orchestrator (C8), the similarity
// engine (C10), and the critique engine (C11) as a plain HTTP surface.
// Routing is a bare http.ServeMux: the transport is an external interface,
// not a component worth its own router abstraction.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"unified-thinking/internal/apierrors"
	"unified-thinking/internal/config"
	"unified-thinking/internal/critique"
	"unified-thinking/internal/graphdb"
	"unified-thinking/internal/similarity"
	"unified-thinking/internal/types"
)

// SearchService is the search orchestrator's contract (C8).
type SearchService interface {
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)
}

// SimilarityService is the similarity engine's contract (C10).
type SimilarityService interface {
	FindSimilar(ctx context.Context, engineerID string, limit int) (*types.SimilarityResponse, error)
}

// Server wires every external interface this package exposes onto one mux.
type Server struct {
	search     SearchService
	similarity SimilarityService
	graph      *graphdb.Client
	critique   config.CritiqueConfig
	seniority  config.SeniorityConfig
	logger     *zap.Logger
}

func NewServer(search SearchService, sim SimilarityService, graph *graphdb.Client, critiqueCfg config.CritiqueConfig, seniority config.SeniorityConfig, logger *zap.Logger) *Server {
	return &Server{search: search, similarity: sim, graph: graph, critique: critiqueCfg, seniority: seniority, logger: logger}
}

// Handler builds the mux for every route this server answers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /db-health", s.handleDBHealth)
	mux.HandleFunc("POST /search/filter", s.handleSearchFilter)
	mux.HandleFunc("GET /engineers/{id}/similar", s.handleSimilar)
	mux.HandleFunc("POST /search/filter-similarity", s.handleFilterSimilarity)
	mux.HandleFunc("POST /search/critique", s.handleCritique)
	mux.HandleFunc("POST /search/critique/apply", s.handleCritiqueApply)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.graph.Ping(r.Context()); err != nil {
		s.logger.Warn("db-health ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearchFilter(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "malformed request body", apierrors.Issue{Message: err.Error()}))
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.logError("search/filter", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "engineer id is required"))
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}

	resp, err := s.similarity.FindSimilar(r.Context(), id, limit)
	if err != nil {
		s.logError("engineers/similar", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// filterSimilarityRequest composes a filter search with a similarity seed:
// run the filter search, then re-rank its matches by similarity to a
// reference engineer instead of by utility score alone.
type filterSimilarityRequest struct {
	types.SearchRequest
	SimilarToEngineerID string `json:"similarToEngineerId"`
}

func (s *Server) handleFilterSimilarity(w http.ResponseWriter, r *http.Request) {
	var req filterSimilarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "malformed request body", apierrors.Issue{Message: err.Error()}))
		return
	}
	if req.SimilarToEngineerID == "" {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "similarToEngineerId is required"))
		return
	}

	searchResp, err := s.search.Search(r.Context(), &req.SearchRequest)
	if err != nil {
		s.logError("search/filter-similarity", err)
		writeAPIError(w, err)
		return
	}

	simResp, err := s.similarity.FindSimilar(r.Context(), req.SimilarToEngineerID, len(searchResp.Matches))
	if err != nil {
		s.logError("search/filter-similarity", err)
		writeAPIError(w, err)
		return
	}

	rank := make(map[string]int, len(simResp.Similar))
	for i, sim := range simResp.Similar {
		rank[sim.Engineer.ID] = i
	}
	reranked := rerankBySimilarity(searchResp.Matches, rank)
	searchResp.Matches = reranked

	writeJSON(w, http.StatusOK, searchResp)
}

func rerankBySimilarity(matches []types.EngineerMatch, rank map[string]int) []types.EngineerMatch {
	out := make([]types.EngineerMatch, len(matches))
	copy(out, matches)
	unranked := len(rank) + len(out)
	for i := range out {
		if _, ok := rank[out[i].Engineer.ID]; !ok {
			rank[out[i].Engineer.ID] = unranked
			unranked++
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rank[out[j].Engineer.ID] < rank[out[j-1].Engineer.ID]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Server) handleCritique(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Matches []types.EngineerMatch `json:"matches"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "malformed request body", apierrors.Issue{Message: err.Error()}))
		return
	}
	suggestions := critique.Generate(s.critique, s.seniority, body.Matches)
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *Server) handleCritiqueApply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Request     *types.SearchRequest        `json:"request"`
		Adjustments []types.CritiqueAdjustment `json:"adjustments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "malformed request body", apierrors.Issue{Message: err.Error()}))
		return
	}
	if body.Request == nil {
		writeAPIError(w, apierrors.NewValidationError(apierrors.CodeValidationFailed, "request is required"))
		return
	}
	result := critique.Apply(body.Request, body.Adjustments)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) logError(route string, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		s.logger.Warn("request failed", zap.String("route", route), zap.String("code", string(apiErr.Code)), zap.String("kind", string(apiErr.Kind)))
		return
	}
	s.logger.Error("request failed", zap.String("route", route), zap.Error(err))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Kind.HTTPStatus(), apiErr)
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}

func parsePositiveInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	var n int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a positive integer")
		}
		n = n*10 + int(r-'0')
	}
	if s == "" {
		return 0, errors.New("empty")
	}
	return n, nil
}

// WithTimeout wraps a handler so it never blocks the HTTP server past d.
func WithTimeout(h http.Handler, d time.Duration) http.Handler {
	return http.TimeoutHandler(h, d, `{"message":"request timed out"}`)
}
