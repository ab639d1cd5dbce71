package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name     string
		number   string
		country  string
		expected string
	}{
		{name: "danish number for Denmark", number: "+45 20123456", country: "DK", expected: "20 12 34 56"},
		{name: "lowercase country", number: "+4520123456", country: "dk", expected: "20 12 34 56"},
		{name: "national digits for Denmark", number: "20123456", country: "DK", expected: "20 12 34 56"},
		{name: "foreign number stays international", number: "+45 20123456", country: "US", expected: "+45 20 12 34 56"},
		{name: "garbage is returned unchanged", number: "call me maybe", country: "DK", expected: "call me maybe"},
		{name: "too short is returned unchanged", number: "123", country: "DK", expected: "123"},
		{name: "empty", number: "", country: "DK", expected: ""},
		{name: "unknown region without prefix", number: "20123456", country: "", expected: "20123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(tt.number, tt.country))
		})
	}
}
