package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-refiner/internal/types"
)

// Messages returned to the user when a posting cannot be fetched
const (
	MsgInvalidURL    = "Invalid URL format"
	MsgTimeout       = "Request timed out. Please try again or enter details manually."
	MsgConnectFailed = "Could not connect to the website. Please check the URL and try again."
	MsgNoDetails     = "Could not extract job details from this page. Please enter details manually."
	MsgRenderFailed  = "Could not extract job details. Please enter details manually."
)

var errNoDetails = errors.New("no job details found")

// Renderer returns the HTML of a page after client-side scripts have run
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Cache stores successful fetch results by URL. Lookup returns nil on a miss.
type Cache interface {
	Lookup(ctx context.Context, url string) (*types.JobPostingResult, error)
	Store(ctx context.Context, url string, result types.JobPostingResult) error
}

// Config configures a JobFetcher. Renderer and Cache are optional.
type Config struct {
	Options  *Options
	Renderer Renderer
	Cache    Cache
}

// JobFetcher fetches job postings: a static fetch first, then a headless render when
// the static description is too thin. Concurrent requests for one URL share a fetch.
type JobFetcher struct {
	opts     *Options
	renderer Renderer
	cache    Cache
	group    singleflight.Group
}

// NewJobFetcher creates a JobFetcher
func NewJobFetcher(cfg Config) *JobFetcher {
	opts := cfg.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JobFetcher{opts: opts, renderer: cfg.Renderer, cache: cfg.Cache}
}

// FetchJobPosting never fails: problems are reported in the result's ErrorMessage
func (f *JobFetcher) FetchJobPosting(ctx context.Context, rawURL string) types.JobPostingResult {
	parsed, err := ValidateURL(strings.TrimSpace(rawURL))
	if err != nil {
		return types.JobPostingFailed(MsgInvalidURL)
	}
	key := parsed.String()

	if f.cache != nil {
		cached, err := f.cache.Lookup(ctx, key)
		if err != nil {
			log.Printf("[fetch] cache lookup failed for %s: %v", key, err)
		} else if cached != nil {
			log.Printf("[fetch] cache hit for %s", key)
			return *cached
		}
	}

	// The shared fetch outlives any single caller; each caller only waits on its own ctx.
	ch := f.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.maxDuration())
		defer cancel()

		result := f.fetch(sharedCtx, key)
		if result.IsSuccess && f.cache != nil {
			if err := f.cache.Store(sharedCtx, key, result); err != nil {
				log.Printf("[fetch] failed to cache %s: %v", key, err)
			}
		}
		return result, nil
	})

	select {
	case res := <-ch:
		return res.Val.(types.JobPostingResult)
	case <-ctx.Done():
		log.Printf("[fetch] caller stopped waiting for %s: %v", key, ctx.Err())
		return types.JobPostingFailed(userMessage(ctx.Err()))
	}
}

// maxDuration bounds one shared fetch: the static request plus an optional render
func (f *JobFetcher) maxDuration() time.Duration {
	d := f.opts.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	switch r := f.renderer.(type) {
	case nil:
	case *BrowserRenderer:
		d += r.Timeout
	default:
		d += DefaultRenderTimeout
	}
	return d
}

func (f *JobFetcher) fetch(ctx context.Context, url string) types.JobPostingResult {
	platform := DetectPlatform(url)
	log.Printf("[fetch] fetching job posting %s (platform: %s)", url, platform)

	static, staticErr := f.fetchStatic(ctx, url, platform)
	if staticErr == nil && utf8.RuneCountInString(static.Description) > MinContentLength {
		log.Printf("[fetch] static extraction got %d chars", utf8.RuneCountInString(static.Description))
		return found(static)
	}
	if staticErr != nil {
		log.Printf("[fetch] static extraction failed for %s: %v", url, staticErr)
	}

	if f.renderer == nil {
		if staticErr != nil {
			return types.JobPostingFailed(userMessage(staticErr))
		}
		return found(static)
	}

	rendered, renderErr := f.fetchRendered(ctx, url, platform)
	if renderErr == nil {
		log.Printf("[fetch] rendered extraction got %q at %q, %d chars",
			rendered.Title, rendered.Company, utf8.RuneCountInString(rendered.Description))
		return found(rendered)
	}
	log.Printf("[fetch] rendered extraction failed for %s: %v", url, renderErr)

	switch {
	case staticErr == nil:
		return found(static)
	case errors.Is(renderErr, errNoDetails):
		return types.JobPostingFailed(MsgNoDetails)
	case ctx.Err() != nil:
		return types.JobPostingFailed(userMessage(staticErr))
	default:
		return types.JobPostingFailed(MsgRenderFailed)
	}
}

func (f *JobFetcher) fetchStatic(ctx context.Context, url string, platform Platform) (Posting, error) {
	res, err := URL(ctx, url, f.opts)
	if err != nil {
		return Posting{}, err
	}
	posting, err := ParsePosting(res.HTML, platform)
	if err != nil {
		return Posting{}, err
	}
	if posting.Empty() {
		return Posting{}, errNoDetails
	}
	return posting, nil
}

func (f *JobFetcher) fetchRendered(ctx context.Context, url string, platform Platform) (Posting, error) {
	html, err := f.renderer.Render(ctx, url)
	if err != nil {
		return Posting{}, err
	}
	posting, err := ParseRenderedPosting(html, platform)
	if err != nil {
		return Posting{}, err
	}
	if posting.Empty() {
		return Posting{}, errNoDetails
	}
	return posting, nil
}

func found(p Posting) types.JobPostingResult {
	return types.JobPostingFound(p.Title, p.Company, p.Description)
}

// userMessage maps a static fetch failure to a message the user can act on
func userMessage(err error) string {
	if errors.Is(err, errNoDetails) {
		return MsgNoDetails
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}

	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		if fetchErr.Timeout() {
			return MsgTimeout
		}
		if fetchErr.StatusCode != 0 {
			return fmt.Sprintf("Failed to fetch page: %d %s", fetchErr.StatusCode, http.StatusText(fetchErr.StatusCode))
		}
	}
	return MsgConnectFailed
}
