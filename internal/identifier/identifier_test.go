package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "projects", "projects"},
		{"uppercase folded", "Projects", "projects"},
		{"spaces become underscores", "sales pipeline", "sales_pipeline"},
		{"dashes become underscores", "point-of-contact", "point_of_contact"},
		{"punctuation dropped", "p.o.c!", "poc"},
		{"digits kept", "q3_targets", "q3_targets"},
		{"mixed", "My Projects (2024)", "my_projects_2024"},
		{"only invalid characters", "!!!", ""},
		{"empty input", "", ""},
		{"unicode dropped", "café", "caf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("projects"))
	assert.True(t, Valid("attr_0193e4b2"))
	assert.False(t, Valid(""), "empty is never a usable identifier")
	assert.False(t, Valid("Projects"), "needs sanitization")
	assert.False(t, Valid("my projects"))
	assert.False(t, Valid("drop table;--"))
}
