package graphdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    float64
		wantErr bool
	}{
		{"int64", int64(42), 42, false},
		{"int", 7, 7, false},
		{"float64", 3.14, 3.14, false},
		{"wideInt", wideInt{Low: 100, High: 0}, 100, false},
		{"nil", nil, 0, true},
		{"unsupported", "not-a-number", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeInt64(t *testing.T) {
	got, err := NormalizeInt64(int64(17))
	require.NoError(t, err)
	assert.Equal(t, int64(17), got)

	got, err = NormalizeInt64(4.9)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got, "truncates rather than rounds")
}

func TestWideIntToInt64(t *testing.T) {
	w := wideInt{Low: 1, High: 0}
	assert.Equal(t, int64(1), w.toInt64())

	// High bits combine with low bits into the full 64-bit value.
	w = wideInt{Low: 0, High: 1}
	assert.Equal(t, int64(1)<<32, w.toInt64())
}
