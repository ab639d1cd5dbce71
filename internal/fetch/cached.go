package fetch

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jonathan/resume-refiner/internal/db"
	"github.com/jonathan/resume-refiner/internal/types"
)

// DBCache keeps fetched postings in the job_postings table
type DBCache struct {
	db  *db.DB
	ttl time.Duration
}

// NewDBCache creates a database-backed cache; a zero ttl uses db.DefaultJobPostingCacheTTL
func NewDBCache(database *db.DB, ttl time.Duration) *DBCache {
	if ttl <= 0 {
		ttl = db.DefaultJobPostingCacheTTL
	}
	return &DBCache{db: database, ttl: ttl}
}

// Lookup returns the cached posting if it has not expired
func (c *DBCache) Lookup(ctx context.Context, url string) (*types.JobPostingResult, error) {
	posting, err := c.db.GetFreshJobPosting(ctx, url)
	if err != nil || posting == nil {
		return nil, err
	}
	result := types.JobPostingFound(posting.RoleTitle, posting.CompanyName, posting.Description)
	return &result, nil
}

// Store upserts a successful posting
func (c *DBCache) Store(ctx context.Context, url string, result types.JobPostingResult) error {
	_, err := c.db.UpsertJobPosting(ctx, &db.JobPostingInput{
		URL:         url,
		Platform:    string(DetectPlatform(url)),
		RoleTitle:   result.JobTitle,
		CompanyName: result.CompanyName,
		Description: result.Description,
		TTL:         c.ttl,
	})
	return err
}

// MemoryCache is an in-process cache used when no database is configured
type MemoryCache struct {
	lru *expirable.LRU[string, types.JobPostingResult]
}

// NewMemoryCache creates an in-process cache holding up to size postings for ttl
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = db.DefaultJobPostingCacheTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, types.JobPostingResult](size, nil, ttl)}
}

// Lookup returns the cached posting, or nil
func (c *MemoryCache) Lookup(_ context.Context, url string) (*types.JobPostingResult, error) {
	result, ok := c.lru.Get(url)
	if !ok {
		return nil, nil
	}
	return &result, nil
}

// Store caches a posting
func (c *MemoryCache) Store(_ context.Context, url string, result types.JobPostingResult) error {
	c.lru.Add(url, result)
	return nil
}
