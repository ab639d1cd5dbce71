// Package refine implements the session-scoped résumé refinement flow: upload, chat,
// structured revisions, and generation of the enhanced résumé and cover letter.
package refine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/session"
	"github.com/jonathan/resume-refiner/internal/types"
)

// ErrSessionNotFound is returned by every session operation given an unknown id.
// No model call is made in that case.
var ErrSessionNotFound = errors.New("session not found")

// ErrUpstreamUnavailable matches failures to reach the language model
var ErrUpstreamUnavailable = llm.ErrUpstreamUnavailable

// Fallback texts used when a model reply cannot be parsed
const (
	FallbackAiSummary       = "Could not analyze CV"
	RevisionAppliedMessage  = "Your CV has been updated."
	RevisionRejectedMessage = "I could not apply that change, so your CV is unchanged. Try rephrasing the request."
)

// PhoneFormatter formats a phone number for a country and returns the input unchanged
// when it cannot.
type PhoneFormatter interface {
	Format(number, countryCode string) string
}

// Config tunes the orchestrator. Zero values take the defaults below.
type Config struct {
	// ChatWindow is how many recent transcript turns a chat prompt carries
	ChatWindow int
	// GenerationWindow is how many recent turns a résumé prompt carries as discussed improvements
	GenerationWindow int
	DefaultLanguage  string
	DefaultCountry   string
	DefaultTemplate  string
}

// Defaults
const (
	DefaultChatWindow       = 10
	DefaultGenerationWindow = 6
	DefaultLanguage         = "en"
	DefaultCountry          = "DK"
)

// Service coordinates sessions, prompts, the model and the response parser
type Service struct {
	llm      llm.Client
	sessions *session.Store
	phones   PhoneFormatter
	cfg      Config
}

// New creates a Service
func New(client llm.Client, sessions *session.Store, phones PhoneFormatter, cfg Config) *Service {
	if cfg.ChatWindow <= 0 {
		cfg.ChatWindow = DefaultChatWindow
	}
	if cfg.GenerationWindow <= 0 {
		cfg.GenerationWindow = DefaultGenerationWindow
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguage
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = DefaultCountry
	}
	if cfg.DefaultTemplate == "" {
		cfg.DefaultTemplate = types.DefaultTemplate
	}
	return &Service{llm: client, sessions: sessions, phones: phones, cfg: cfg}
}

// GetSession returns a snapshot of the session
func (s *Service) GetSession(id string) (types.Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return types.Session{}, notFound(id, err)
	}
	return sess, nil
}

func (s *Service) language(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return s.cfg.DefaultLanguage
	}
	return lang
}

func (s *Service) country(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.cfg.DefaultCountry
	}
	return code
}

func (s *Service) template(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.cfg.DefaultTemplate
	}
	return name
}

func notFound(id string, err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return err
}

func invalid(message string) error {
	return &types.InvalidRequestError{Message: message}
}
