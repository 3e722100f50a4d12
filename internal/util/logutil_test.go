package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"non-positive limit", "hello world", 0, ""},
		{"shorter than limit", "hello", 10, "hello"},
		{"trims whitespace", "  hello  ", 10, "hello"},
		{"cuts on runes", "Bengaluru – Remote", 9, "Bengaluru..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.input, tt.limit))
		})
	}
}
