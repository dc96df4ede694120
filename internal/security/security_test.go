package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDocument(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	valid := strings.Repeat("a pitch deck paragraph ", 10)

	t.Run("accepts a normal document", func(t *testing.T) {
		assert.NoError(t, sm.ValidateDocument(valid))
	})

	t.Run("rejects short documents", func(t *testing.T) {
		err := sm.ValidateDocument("too short")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "minimum")
	})

	t.Run("rejects oversized documents", func(t *testing.T) {
		err := sm.ValidateDocument(strings.Repeat("x", 500_001))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "maximum")
	})

	t.Run("rejects null bytes", func(t *testing.T) {
		assert.Error(t, sm.ValidateDocument(valid+"\x00"))
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		assert.Error(t, sm.ValidateDocument(valid+string([]byte{0xff, 0xfe})))
	})
}

func TestSanitizeDocument(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips script blocks", "before <script>alert(1)</script> after", "before after"},
		{"strips html tags", "<b>bold</b> claim", "bold claim"},
		{"collapses runs of spaces and tabs", "a  \t  b", "a b"},
		{"decodes entities", "&lt;10% churn &amp; growing&gt;", "<10% churn & growing>"},
		{"trims surrounding whitespace", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sm.SanitizeDocument(tt.input))
		})
	}

	t.Run("newlines survive for metric extraction", func(t *testing.T) {
		got := sm.SanitizeDocument("ARR: $2M\ngrowing 150%")
		assert.Contains(t, got, "\n")
	})
}
