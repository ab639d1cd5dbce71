package parsing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{
			name:     "bare object",
			input:    `{"fullName":"A"}`,
			expected: `{"fullName":"A"}`,
			found:    true,
		},
		{
			name:     "prose and code fence",
			input:    "Sure! ```json\n{\"fullName\":\"A\"}\n```",
			expected: `{"fullName":"A"}`,
			found:    true,
		},
		{
			name:     "braces inside strings",
			input:    `Here: {"summary":"uses {curly} braces and \"quotes\"","skills":["C}"]} thanks`,
			expected: `{"summary":"uses {curly} braces and \"quotes\"","skills":["C}"]}`,
			found:    true,
		},
		{
			name:     "sibling objects are not merged",
			input:    `{"a":1} and then {"b":2}`,
			expected: `{"a":1}`,
			found:    true,
		},
		{
			name:     "nested object",
			input:    `x {"outer":{"inner":[1,2,{"deep":true}]}} y`,
			expected: `{"outer":{"inner":[1,2,{"deep":true}]}}`,
			found:    true,
		},
		{
			name:     "invalid first span falls through to next",
			input:    `{not json} {"ok":true}`,
			expected: `{"ok":true}`,
			found:    true,
		},
		{
			name:  "no brace at all",
			input: "I could not read this CV, sorry.",
		},
		{
			name:  "unbalanced",
			input: `{"fullName":"A"`,
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFirstJSONObject(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractFirstJSONObject_UnbalancedInputIsBounded(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "only open braces", input: strings.Repeat("{", 200000)},
		{name: "open braces in prose", input: strings.Repeat("see {section ", 50000)},
		{name: "nested invalid", input: strings.Repeat("{", 50000) + "x" + strings.Repeat("}", 50000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			got, ok := ExtractFirstJSONObject(tt.input)
			assert.False(t, ok)
			assert.Empty(t, got)
			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}

func TestExtractFirstJSONObject_FewStrayBracesBeforeObject(t *testing.T) {
	input := strings.Repeat("{ ", 10) + `Here it is: {"fullName":"A"}`

	got, ok := ExtractFirstJSONObject(input)
	assert.True(t, ok)
	assert.Equal(t, `{"fullName":"A"}`, got)
}
