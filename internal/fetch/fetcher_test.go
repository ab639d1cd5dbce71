package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

type stubRenderer struct {
	html  string
	err   error
	calls atomic.Int32
}

func (r *stubRenderer) Render(_ context.Context, _ string) (string, error) {
	r.calls.Add(1)
	return r.html, r.err
}

var richDescription = strings.TrimSpace(strings.Repeat("You will design, build and operate distributed systems. ", 12))

func serveHTML(t *testing.T, status int, html string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestFetchJobPosting_InvalidURL(t *testing.T) {
	fetcher := NewJobFetcher(Config{})

	for _, raw := range []string{"", "not a url", "ftp://example.com/job", "/jobs/1", "https://"} {
		t.Run(raw, func(t *testing.T) {
			result := fetcher.FetchJobPosting(context.Background(), raw)
			assert.Equal(t, types.JobPostingFailed(MsgInvalidURL), result)
		})
	}
}

func TestFetchJobPosting_StaticSuccessSkipsBrowser(t *testing.T) {
	server, _ := serveHTML(t, http.StatusOK, page(
		`<meta property="og:title" content="Backend Engineer"><meta property="og:site_name" content="Acme">`,
		`<div class="job-description">`+richDescription+`</div>`))
	renderer := &stubRenderer{err: errors.New("should not be called")}
	fetcher := NewJobFetcher(Config{Renderer: renderer})

	result := fetcher.FetchJobPosting(context.Background(), server.URL+"/jobs/1")

	assert.Equal(t, types.JobPostingFound("Backend Engineer", "Acme", richDescription), result)
	assert.Equal(t, int32(0), renderer.calls.Load())
}

func TestFetchJobPosting_ThinPageUsesBrowser(t *testing.T) {
	server, _ := serveHTML(t, http.StatusOK, page(`<title>Loading...</title>`, `<div id="root"></div>`))
	renderer := &stubRenderer{html: page(
		`<meta property="og:title" content="Frontend Engineer"><meta property="og:site_name" content="Initech">`,
		`<main>`+richDescription+`</main>`)}
	fetcher := NewJobFetcher(Config{Renderer: renderer})

	result := fetcher.FetchJobPosting(context.Background(), server.URL)

	assert.Equal(t, types.JobPostingFound("Frontend Engineer", "Initech", richDescription), result)
	assert.Equal(t, int32(1), renderer.calls.Load())
}

func TestFetchJobPosting_BrowserFailureKeepsStaticResult(t *testing.T) {
	short := strings.Repeat("Short but usable description text. ", 4)
	server, _ := serveHTML(t, http.StatusOK, page(`<title>Data Analyst - Globex</title>`,
		`<main>`+short+`</main>`))
	fetcher := NewJobFetcher(Config{Renderer: &stubRenderer{err: errors.New("chrome not installed")}})

	result := fetcher.FetchJobPosting(context.Background(), server.URL)

	assert.True(t, result.IsSuccess)
	assert.Equal(t, "Data Analyst", result.JobTitle)
	assert.Equal(t, cleanText(short), result.Description)
}

func TestFetchJobPosting_Failures(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	notFound, _ := serveHTML(t, http.StatusNotFound, "gone")
	empty, _ := serveHTML(t, http.StatusOK, page("", "<p>Hi</p>"))
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	tests := []struct {
		name     string
		url      string
		renderer Renderer
		expected string
	}{
		{"connection refused", closedURL, nil, MsgConnectFailed},
		{"not found", notFound.URL, nil, "Failed to fetch page: 404 Not Found"},
		{"timeout", slow.URL, nil, MsgTimeout},
		{"no details", empty.URL, nil, MsgNoDetails},
		{"no details after render", empty.URL, &stubRenderer{html: page("", "<p>Hi</p>")}, MsgNoDetails},
		{"render failed", notFound.URL, &stubRenderer{err: errors.New("crashed")}, MsgRenderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := NewJobFetcher(Config{
				Options:  &Options{Timeout: 100 * time.Millisecond},
				Renderer: tt.renderer,
			})
			result := fetcher.FetchJobPosting(context.Background(), tt.url)
			assert.Equal(t, types.JobPostingFailed(tt.expected), result)
		})
	}
}

func TestFetchJobPosting_CachesSuccess(t *testing.T) {
	server, hits := serveHTML(t, http.StatusOK, page(
		`<meta property="og:title" content="Backend Engineer">`,
		`<div class="job-description">`+richDescription+`</div>`))
	cache := NewMemoryCache(10, time.Minute)
	fetcher := NewJobFetcher(Config{Cache: cache})

	first := fetcher.FetchJobPosting(context.Background(), server.URL)
	second := fetcher.FetchJobPosting(context.Background(), server.URL)

	assert.True(t, first.IsSuccess)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchJobPosting_FailuresAreNotCached(t *testing.T) {
	server, hits := serveHTML(t, http.StatusServiceUnavailable, "busy")
	fetcher := NewJobFetcher(Config{Cache: NewMemoryCache(10, time.Minute)})

	fetcher.FetchJobPosting(context.Background(), server.URL)
	fetcher.FetchJobPosting(context.Background(), server.URL)

	assert.Equal(t, int32(2), hits.Load())
}

func TestURL(t *testing.T) {
	server, _ := serveHTML(t, http.StatusOK, "<html></html>")

	res, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<html></html>", res.HTML)
	assert.Contains(t, res.ContentType, "text/html")

	_, err = URL(context.Background(), "mailto:someone@example.com", nil)
	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "invalid URL", fetchErr.Message)
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(1, time.Minute)
	ctx := context.Background()

	miss, err := cache.Lookup(ctx, "https://a.example.com")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.Store(ctx, "https://a.example.com", types.JobPostingFound("A", "", "")))
	require.NoError(t, cache.Store(ctx, "https://b.example.com", types.JobPostingFound("B", "", "")))

	evicted, err := cache.Lookup(ctx, "https://a.example.com")
	require.NoError(t, err)
	assert.Nil(t, evicted)

	hit, err := cache.Lookup(ctx, "https://b.example.com")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "B", hit.JobTitle)
}

func TestFetchJobPosting_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		started <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, page(
			`<meta property="og:title" content="Backend Engineer"><meta property="og:site_name" content="Acme">`,
			`<div class="job-description">`+richDescription+`</div>`))
	}))
	t.Cleanup(server.Close)

	cache := NewMemoryCache(0, time.Hour)
	fetcher := NewJobFetcher(Config{Cache: cache})
	url := server.URL + "/jobs/slow"

	ctxA, cancelA := context.WithCancel(context.Background())
	resultA := make(chan types.JobPostingResult, 1)
	go func() { resultA <- fetcher.FetchJobPosting(ctxA, url) }()
	<-started

	resultB := make(chan types.JobPostingResult, 1)
	go func() { resultB <- fetcher.FetchJobPosting(context.Background(), url) }()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case got := <-resultA:
		assert.False(t, got.IsSuccess)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case got := <-resultB:
		assert.Equal(t, types.JobPostingFound("Backend Engineer", "Acme", richDescription), got)
	case <-time.After(5 * time.Second):
		t.Fatal("waiting caller did not return")
	}
	assert.Equal(t, int32(1), hits.Load())

	again := fetcher.FetchJobPosting(context.Background(), url)
	assert.True(t, again.IsSuccess)
	assert.Equal(t, int32(1), hits.Load())
}
