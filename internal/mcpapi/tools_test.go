package mcpapi

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	resp     *types.SimilarityResponse
	err      error
	gotLimit int
}

func (f *fakeSimilarity) FindSimilar(ctx context.Context, engineerID string, limit int) (*types.SimilarityResponse, error) {
	f.gotLimit = limit
	return f.resp, f.err
}

func TestHandleSearchEngineers_ReturnsTypedResponse(t *testing.T) {
	srv := NewServer(&fakeSearch{resp: &types.SearchResponse{TotalCount: 3}}, &fakeSimilarity{})

	result, resp, err := srv.handleSearchEngineers(context.Background(), &mcp.CallToolRequest{}, types.SearchRequest{})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Len(t, result.Content, 1)
}

func TestHandleSearchEngineers_PropagatesError(t *testing.T) {
	boom := assertError("boom")
	srv := NewServer(&fakeSearch{err: boom}, &fakeSimilarity{})

	_, _, err := srv.handleSearchEngineers(context.Background(), &mcp.CallToolRequest{}, types.SearchRequest{})

	assert.ErrorIs(t, err, boom)
}

func TestHandleSimilarEngineers_DefaultsLimit(t *testing.T) {
	sim := &fakeSimilarity{resp: &types.SimilarityResponse{Target: types.Engineer{ID: "e1"}}}
	srv := NewServer(&fakeSearch{}, sim)

	_, resp, err := srv.handleSimilarEngineers(context.Background(), &mcp.CallToolRequest{}, similarEngineersInput{EngineerID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, "e1", resp.Target.ID)
	assert.Equal(t, 10, sim.gotLimit)
}

type assertError string

func (e assertError) Error() string { return string(e) }
