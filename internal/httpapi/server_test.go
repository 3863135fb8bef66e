package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unified-thinking/internal/apierrors"
	"unified-thinking/internal/config"
	"unified-thinking/internal/types"
)

type fakeSearch struct {
	resp *types.SearchResponse
	err  error
}

func (f *fakeSearch) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	return f.resp, f.err
}

type fakeSimilarity struct {
	resp *types.SimilarityResponse
	err  error
}

func (f *fakeSimilarity) FindSimilar(ctx context.Context, engineerID string, limit int) (*types.SimilarityResponse, error) {
	return f.resp, f.err
}

func newTestServer(search SearchService, sim SimilarityService) *Server {
	return NewServer(search, sim, nil, config.CritiqueConfig{}, config.SeniorityConfig{}, zap.NewNop())
}

func TestHandleSearchFilter_Success(t *testing.T) {
	resp := &types.SearchResponse{TotalCount: 2}
	srv := newTestServer(&fakeSearch{resp: resp}, &fakeSimilarity{})

	req := httptest.NewRequest(http.MethodPost, "/search/filter", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got types.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.TotalCount)
}

func TestHandleSearchFilter_ValidationErrorMapsTo400(t *testing.T) {
	err := apierrors.NewValidationError(apierrors.CodePaginationInvalid, "bad pagination")
	srv := newTestServer(&fakeSearch{err: err}, &fakeSimilarity{})

	req := httptest.NewRequest(http.MethodPost, "/search/filter", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearchFilter_MalformedBody(t *testing.T) {
	srv := newTestServer(&fakeSearch{}, &fakeSimilarity{})

	req := httptest.NewRequest(http.MethodPost, "/search/filter", bytes.NewBufferString(`not json`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSimilar_NotFoundMapsTo404(t *testing.T) {
	err := apierrors.NewNotFoundError(apierrors.CodeEngineerNotFound, "not found")
	srv := newTestServer(&fakeSearch{}, &fakeSimilarity{err: err})

	req := httptest.NewRequest(http.MethodGet, "/engineers/e1/similar", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSimilar_Success(t *testing.T) {
	resp := &types.SimilarityResponse{Target: types.Engineer{ID: "e1"}}
	srv := newTestServer(&fakeSearch{}, &fakeSimilarity{resp: resp})

	req := httptest.NewRequest(http.MethodGet, "/engineers/e1/similar?limit=5", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got types.SimilarityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "e1", got.Target.ID)
}

func TestHandleFilterSimilarity_RequiresReferenceEngineer(t *testing.T) {
	srv := newTestServer(&fakeSearch{}, &fakeSimilarity{})

	req := httptest.NewRequest(http.MethodPost, "/search/filter-similarity", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRerankBySimilarity_UnrankedMatchesKeepOriginalOrderAtEnd(t *testing.T) {
	matches := []types.EngineerMatch{
		{Engineer: types.Engineer{ID: "a"}},
		{Engineer: types.Engineer{ID: "b"}},
		{Engineer: types.Engineer{ID: "c"}},
	}
	rank := map[string]int{"b": 0, "c": 1}

	out := rerankBySimilarity(matches, rank)

	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].Engineer.ID)
	assert.Equal(t, "c", out[1].Engineer.ID)
	assert.Equal(t, "a", out[2].Engineer.ID)
}
