package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/types"
)

type countingProfileReader struct {
	calls   int
	profile *EngineerProfile
}

func (r *countingProfileReader) LoadProfile(ctx context.Context, engineerID string) (*EngineerProfile, bool, error) {
	r.calls++
	return r.profile, true, nil
}

func (r *countingProfileReader) LoadCandidatePool(ctx context.Context, excludeID string, poolSize int) ([]EngineerProfile, error) {
	return nil, nil
}

func TestCachedProfileReader_CachesRepeatLookups(t *testing.T) {
	inner := &countingProfileReader{profile: &EngineerProfile{Engineer: types.Engineer{ID: "e1"}}}
	reader := NewCachedProfileReader(inner, 10)

	p1, found, err := reader.LoadProfile(context.Background(), "e1")
	require.NoError(t, err)
	require.True(t, found)
	p2, found, err := reader.LoadProfile(context.Background(), "e1")
	require.NoError(t, err)
	require.True(t, found)

	assert.Same(t, p1, p2)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedProfileReader_MissesDifferentKeys(t *testing.T) {
	inner := &countingProfileReader{profile: &EngineerProfile{Engineer: types.Engineer{ID: "e1"}}}
	reader := NewCachedProfileReader(inner, 10)

	_, _, err := reader.LoadProfile(context.Background(), "e1")
	require.NoError(t, err)
	_, _, err = reader.LoadProfile(context.Background(), "e2")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
