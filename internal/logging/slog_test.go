package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{
			name:     "empty token",
			token:    "",
			expected: "<empty>",
		},
		{
			name:     "short token",
			token:    "abc",
			expected: "[token:3 chars]",
		},
		{
			name:     "long opaque token",
			token:    "ya29.a0AfH6SMBx7-4nDu2qlEXAMPLEEXAMPLEEXAMPLE",
			expected: "[token:45 chars]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeToken(tt.token)
			assert.Equal(t, tt.expected, got)
			if tt.token != "" {
				assert.NotContains(t, got, tt.token[:3])
			}
		})
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	// A nil error must produce an empty group slog omits entirely.
	assert.Equal(t, "", attr.Key)
}

func TestErrNonNil(t *testing.T) {
	attr := Err(assert.AnError)
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, assert.AnError.Error(), attr.Value.String())
}
