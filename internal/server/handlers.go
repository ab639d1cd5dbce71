package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/resume-refiner/internal/ingestion"
	"github.com/jonathan/resume-refiner/internal/refine"
	"github.com/jonathan/resume-refiner/internal/types"
)

type validator interface {
	Validate() error
}

// decodeRequest reads a JSON body into req and validates it. It writes the error response
// and returns false on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req validator) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return false
	}
	return true
}

// handleUpload extracts text from an uploaded PDF or DOCX and starts a session
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close() //nolint:errcheck

	format, err := ingestion.FormatFromFilename(header.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	text, err := ingestion.ExtractBytes(r.Context(), data, format)
	if err != nil {
		log.Printf("[server] extraction of %q failed: %v", header.Filename, err)
		s.writeError(w, r, err)
		return
	}

	resp, err := s.refiner.Upload(r.Context(), refine.UploadInput{
		Text:        text,
		Language:    r.URL.Query().Get("language"),
		CountryCode: r.URL.Query().Get("countryCode"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleUploadText starts a session from pasted text
func (s *Server) handleUploadText(w http.ResponseWriter, r *http.Request) {
	var req types.UploadTextRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.Upload(r.Context(), refine.UploadInput{
		Text:        req.Text,
		Language:    req.Language,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.Chat(r.Context(), refine.ChatInput{
		SessionID:            req.SessionID,
		Message:              req.Message,
		TargetJobTitle:       req.TargetJobTitle,
		TargetJobDescription: req.TargetJobDescription,
		Language:             req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerate produces the enhanced résumé. The request's countryCode is accepted and
// ignored; phone numbers are formatted at upload and by normalize-phone.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.GenerateResume(r.Context(), refine.GenerateInput{
		SessionID:              req.SessionID,
		TargetJobTitle:         req.TargetJobTitle,
		TargetJobDescription:   req.TargetJobDescription,
		AdditionalInstructions: req.AdditionalInstructions,
		Language:               req.Language,
		Template:               req.Template,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req types.CoverLetterRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.GenerateCoverLetter(r.Context(), refine.CoverLetterInput{
		SessionID:      req.SessionID,
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		JobDescription: req.JobDescription,
		Language:       req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCoverLetterRevise(w http.ResponseWriter, r *http.Request) {
	var req types.CoverLetterReviseRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.ProposeCoverLetterRevision(r.Context(), refine.CoverLetterRevisionInput{
		SessionID:   req.SessionID,
		Instruction: req.Instruction,
		Current:     req.Current,
		Language:    req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleRevise(w http.ResponseWriter, r *http.Request) {
	var req types.ReviseRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.ProposeRevision(r.Context(), refine.RevisionInput{
		SessionID:   req.SessionID,
		Instruction: req.Instruction,
		Language:    req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleNormalizePhone(w http.ResponseWriter, r *http.Request) {
	var req types.NormalizePhoneRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	data, err := s.refiner.NormalizePhone(req.SessionID, req.CountryCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}

// handleFetchJob scrapes a job posting. Scraping failures are reported in the body with a
// 200 status so the client can fall back to manual entry.
func (s *Server) handleFetchJob(w http.ResponseWriter, r *http.Request) {
	var req types.FetchJobRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	result := s.fetcher.FetchJobPosting(r.Context(), req.URL)
	if r.Context().Err() != nil {
		log.Printf("[server] %s %s cancelled by client", r.Method, r.URL.Path)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetSession returns a session snapshot, or 404 when the id is unknown or expired
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.refiner.GetSession(r.PathValue("id"))
	if errors.Is(err, refine.ErrSessionNotFound) {
		s.errorResponse(w, http.StatusNotFound, MsgSessionNotFound)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

// handleResumeGenerate enhances a résumé supplied in full, without a session
func (s *Server) handleResumeGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.ResumeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.refiner.GenerateStandalone(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleResumeHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "Healthy",
		"timestamp": time.Now().UTC(),
	})
}
