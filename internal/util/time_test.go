package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logsieve/internal/util"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		wantLossy bool
	}{
		{
			name:      "Space Separated With Millis",
			input:     "2025-01-15 10:30:45.123",
			expected:  "2025-01-15T10:30:45",
			wantLossy: true,
		},
		{
			name:      "ISO With Zone",
			input:     "2025-01-15T10:30:45.123Z",
			expected:  "2025-01-15T10:30:45",
			wantLossy: true,
		},
		{
			name:      "Comma Fraction",
			input:     "2025-01-15 10:30:45,999",
			expected:  "2025-01-15T10:30:45",
			wantLossy: true,
		},
		{
			name:      "Already Canonical",
			input:     "2025-01-15T10:30:45",
			expected:  "2025-01-15T10:30:45",
			wantLossy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lossy := util.NormalizeTimestamp(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.wantLossy, lossy)
		})
	}
}

func TestSimplifyTimestamp(t *testing.T) {
	assert.Equal(t, "10:30:45", util.SimplifyTimestamp("2025-01-15T10:30:45"))
	assert.Equal(t, "10:30:45", util.SimplifyTimestamp("2025-01-15 10:30:45.123"))
	assert.Equal(t, "10:30:45", util.SimplifyTimestamp("2025-01-15T10:30:45.123Z"))
	assert.Equal(t, "0.123s", util.SimplifyTimestamp("0.123s"))
}

func TestParseTimeFlexible(t *testing.T) {
	parsed, err := util.ParseTimeFlexible("2025-01-15T10:30:45.123Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15T10:30:45", parsed.UTC().Format(util.CanonicalTimeLayout))

	_, err = util.ParseTimeFlexible("not a timestamp")
	assert.Error(t, err)
}
