package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPosting_IsFresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		fresh     bool
	}{
		{"zero expires_at", time.Time{}, false},
		{"expired", now.Add(-time.Hour), false},
		{"not expired", now.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &JobPosting{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.fresh, p.IsFresh())
			assert.Equal(t, !tt.fresh, p.IsExpired())
		})
	}
}

func TestHashJobContent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HashJobContent(tt.text))
		})
	}
}

func TestJobPostingInput_Normalize(t *testing.T) {
	in := &JobPostingInput{URL: "  https://jobs.example.com/1  "}
	require.NoError(t, in.normalize())
	assert.Equal(t, "https://jobs.example.com/1", in.URL)
	assert.Equal(t, "unknown", in.Platform)
	assert.Equal(t, DefaultJobPostingCacheTTL, in.TTL)

	in = &JobPostingInput{URL: "https://jobs.example.com/2", Platform: "lever", TTL: time.Hour}
	require.NoError(t, in.normalize())
	assert.Equal(t, "lever", in.Platform)
	assert.Equal(t, time.Hour, in.TTL)

	assert.Error(t, (&JobPostingInput{URL: " "}).normalize())
}

func TestSchemaSQL(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS job_postings")
	assert.Contains(t, schemaSQL, "url              TEXT NOT NULL UNIQUE")
}
