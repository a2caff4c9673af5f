package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomID(t *testing.T) {
	result := GenerateRandomID()

	assert.Equal(t, len(result), 8)
}

func TestParseDurationDays(t *testing.T) {
	result := ParseDuration("19d", "1d")

	assert.Equal(t, result, time.Duration(19)*24*time.Hour)
}

func TestParseDurationMinutes(t *testing.T) {
	result := ParseDuration("19m", "1m")

	assert.Equal(t, result, time.Duration(19)*time.Minute)
}

func TestParseDurationCombined(t *testing.T) {
	result := ParseDuration("1m30s", "1m")

	assert.Equal(t, result, 90*time.Second)
}

func TestParseDurationDefault(t *testing.T) {
	result := ParseDuration("", "19s")

	assert.Equal(t, result, time.Duration(19)*time.Second)
}

func TestParseSeconds(t *testing.T) {
	testCases := []struct {
		input     string
		expected  time.Duration
		expectErr bool
	}{
		{input: "10", expected: 10 * time.Second},
		{input: " 3 ", expected: 3 * time.Second},
		{input: "1500ms", expected: 1500 * time.Millisecond},
		{input: "2m", expected: 2 * time.Minute},
		{input: "", expectErr: true},
		{input: "abc", expectErr: true},
		{input: "0", expectErr: true},
		{input: "-5", expectErr: true},
		{input: "-1s", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result, err := ParseSeconds(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}
