package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ErrUpstreamUnavailable matches every failure to obtain a reply from the model:
// timeouts, refused connections and non-2xx responses.
var ErrUpstreamUnavailable = errors.New("language model unavailable")

// UpstreamError describes a failed model call
type UpstreamError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrUpstreamUnavailable
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// classify turns a provider SDK error into an UpstreamError carrying the HTTP status
func classify(provider Provider, err error) error {
	upstream := &UpstreamError{Provider: provider, Message: "request failed", Cause: err}

	var openaiErr *openai.APIError
	var openaiReqErr *openai.RequestError
	var anthropicErr *anthropic.Error
	var googleErr *googleapi.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		upstream.Message = "request timed out"
	case errors.As(err, &openaiErr):
		upstream.StatusCode = openaiErr.HTTPStatusCode
	case errors.As(err, &openaiReqErr):
		upstream.StatusCode = openaiReqErr.HTTPStatusCode
	case errors.As(err, &anthropicErr):
		upstream.StatusCode = anthropicErr.StatusCode
	case errors.As(err, &googleErr):
		upstream.StatusCode = googleErr.Code
	}

	if upstream.StatusCode != 0 {
		upstream.Message = http.StatusText(upstream.StatusCode)
	}
	return upstream
}
