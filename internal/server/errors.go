// Package server provides the HTTP REST API for the résumé refinement service.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/resume-refiner/internal/ingestion"
	"github.com/jonathan/resume-refiner/internal/refine"
	"github.com/jonathan/resume-refiner/internal/types"
)

// Client-facing messages for errors whose detail stays in the log
const (
	MsgExtractionFailed    = "Could not extract text from the file. It may be corrupt or image-based."
	MsgUnsupportedFormat   = "Only PDF and DOCX files are supported"
	MsgSessionNotFound     = "Session not found. Please upload your CV again."
	MsgUpstreamUnavailable = "The AI service is temporarily unavailable. Please try again."
	MsgInternal            = "An unexpected error occurred"
)

// HTTPStatus returns the HTTP status code and client message for an error
func HTTPStatus(err error) (int, string) {
	var invalid *types.InvalidRequestError
	var extraction *ingestion.ExtractionError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Message
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusBadRequest, MsgUnsupportedFormat
	case errors.As(err, &extraction):
		return http.StatusBadRequest, MsgExtractionFailed
	case errors.Is(err, refine.ErrSessionNotFound):
		return http.StatusBadRequest, MsgSessionNotFound
	case errors.Is(err, refine.ErrUpstreamUnavailable):
		return http.StatusBadGateway, MsgUpstreamUnavailable
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// writeError logs err and answers with its mapped status. A request the client abandoned
// gets no body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		log.Printf("[server] %s %s cancelled by client", r.Method, r.URL.Path)
		return
	}

	status, message := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.errorResponse(w, status, message)
}
