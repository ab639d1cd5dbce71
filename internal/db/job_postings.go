package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultJobPostingCacheTTL is how long before a job posting is considered stale
const DefaultJobPostingCacheTTL = 24 * time.Hour

// JobPosting is a cached, already-extracted job posting
type JobPosting struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	Platform     string    `json:"platform"`
	RoleTitle    string    `json:"role_title"`
	CompanyName  string    `json:"company_name"`
	Description  string    `json:"description"`
	ContentHash  string    `json:"content_hash"`
	FetchedAt    time.Time `json:"fetched_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastAccessed time.Time `json:"last_accessed_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JobPostingInput holds the fields for UpsertJobPosting
type JobPostingInput struct {
	URL         string
	Platform    string
	RoleTitle   string
	CompanyName string
	Description string
	// TTL overrides DefaultJobPostingCacheTTL when positive
	TTL time.Duration
}

// IsFresh returns true if the posting hasn't expired
func (p *JobPosting) IsFresh() bool {
	return time.Now().Before(p.ExpiresAt)
}

// IsExpired returns true if the posting has expired
func (p *JobPosting) IsExpired() bool {
	return !p.IsFresh()
}

// HashJobContent generates a SHA-256 hash of the posting text
func HashJobContent(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// normalize fills defaults and trims the input
func (in *JobPostingInput) normalize() error {
	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		return errors.New("job posting URL is required")
	}
	if in.Platform == "" {
		in.Platform = "unknown"
	}
	if in.TTL <= 0 {
		in.TTL = DefaultJobPostingCacheTTL
	}
	return nil
}

const jobPostingColumns = `id, url, platform, role_title, company_name, description, content_hash,
	fetched_at, expires_at, last_accessed_at, created_at, updated_at`

func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	err := row.Scan(&p.ID, &p.URL, &p.Platform, &p.RoleTitle, &p.CompanyName, &p.Description,
		&p.ContentHash, &p.FetchedAt, &p.ExpiresAt, &p.LastAccessed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetJobPostingByURL retrieves a job posting by its URL, or nil if there is none
func (db *DB) GetJobPostingByURL(ctx context.Context, url string) (*JobPosting, error) {
	p, err := scanJobPosting(db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE url = $1`, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// GetFreshJobPosting retrieves a posting only if it's not expired
func (db *DB) GetFreshJobPosting(ctx context.Context, url string) (*JobPosting, error) {
	posting, err := db.GetJobPostingByURL(ctx, url)
	if err != nil || posting == nil {
		return nil, err
	}
	if posting.IsExpired() {
		return nil, nil
	}

	_, _ = db.pool.Exec(ctx,
		"UPDATE job_postings SET last_accessed_at = NOW() WHERE id = $1",
		posting.ID)

	return posting, nil
}

// UpsertJobPosting creates or refreshes the cached posting for a URL
func (db *DB) UpsertJobPosting(ctx context.Context, input *JobPostingInput) (*JobPosting, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	p, err := scanJobPosting(db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (id, url, platform, role_title, company_name, description,
		                           content_hash, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)
		 ON CONFLICT (url) DO UPDATE SET
		     platform = $3,
		     role_title = $4,
		     company_name = $5,
		     description = $6,
		     content_hash = $7,
		     fetched_at = NOW(),
		     expires_at = $8,
		     updated_at = NOW()
		 RETURNING `+jobPostingColumns,
		uuid.New(), input.URL, input.Platform, input.RoleTitle, input.CompanyName,
		input.Description, HashJobContent(input.Description), time.Now().Add(input.TTL),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return p, nil
}

// DeleteExpiredJobPostings removes postings past their expiry and returns how many were removed
func (db *DB) DeleteExpiredJobPostings(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired job postings: %w", err)
	}
	return result.RowsAffected(), nil
}
