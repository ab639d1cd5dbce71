package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeFold(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "keeps first spelling", input: []string{"golang", "Go", "GOLANG", "go"}, expected: []string{"golang", "Go"}},
		{name: "trims and drops blanks", input: []string{" SQL ", "", "  ", "sql"}, expected: []string{"SQL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeFold(tt.input))
		})
	}
}

func TestSubtractFold(t *testing.T) {
	existing := []string{"Go", "Kubernetes"}
	suggested := []string{"go", "Rust", "KUBERNETES", "rust", "Terraform"}

	assert.Equal(t, []string{"Rust", "Terraform"}, SubtractFold(suggested, existing))
	assert.Equal(t, []string{}, SubtractFold(nil, existing))
	assert.Equal(t, []string{"A"}, SubtractFold([]string{"A", "a"}, nil))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "fullname", normalizeKey("fullName"))
	assert.Equal(t, "fullname", normalizeKey("full_name"))
	assert.Equal(t, "fullname", normalizeKey("Full-Name"))
}
