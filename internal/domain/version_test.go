package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionScore(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    int64
	}{
		{name: "major only", version: "30", want: 30_000_000},
		{name: "major minor", version: "30.1", want: 30_001_000},
		{name: "full triple", version: "0.25.1", want: 25_001},
		{name: "zero", version: "0", want: 0},
		{name: "large patch", version: "1.2.345", want: 1_002_345},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersionScore(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersionScore_Invalid(t *testing.T) {
	for _, version := range []string{"", "v30", "1.2.3.4", "1..2", "-1.0", "1.x"} {
		t.Run(version, func(t *testing.T) {
			_, err := ParseVersionScore(version)
			assert.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}

func TestParseVersionScore_OrderPreserving(t *testing.T) {
	// Numeric scores must sort the same way the versions do.
	low, err := ParseVersionScore("0.25.1")
	require.NoError(t, err)
	mid, err := ParseVersionScore("0.26.0")
	require.NoError(t, err)
	high, err := ParseVersionScore("30.0")
	require.NoError(t, err)

	assert.Less(t, low, mid)
	assert.Less(t, mid, high)
}
