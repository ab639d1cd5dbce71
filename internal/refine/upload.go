package refine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-refiner/internal/parsing"
	"github.com/jonathan/resume-refiner/internal/prompts"
	"github.com/jonathan/resume-refiner/internal/types"
)

// UploadInput is extracted or pasted résumé text plus the user's locale
type UploadInput struct {
	Text        string
	Language    string
	CountryCode string
}

// Upload asks the model to extract structured data from the text and creates a session.
// An unparseable reply still creates a session, with empty data and a fallback summary,
// so the user can continue through chat.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*types.UploadResponse, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid("No text provided")
	}
	lang := s.language(in.Language)
	country := s.country(in.CountryCode)

	system, err := render("extract-cv-system", map[string]string{
		"Language": prompts.LanguageInstruction("extract", lang),
	})
	if err != nil {
		return nil, err
	}
	user, err := render("extract-cv-user", map[string]string{"Text": text})
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze CV: %w", err)
	}

	analysis, err := parsing.ParseCvAnalysis(reply)
	if err != nil {
		log.Printf("[refine] CV analysis not parseable, storing empty data: %v", err)
		analysis = &parsing.CvAnalysis{
			Data:                  types.EmptyCvData(),
			AiSummary:             FallbackAiSummary,
			SuggestedImprovements: []string{},
		}
	}

	data := analysis.Data
	data.Phone = s.phones.Format(data.Phone, country)

	sess := s.sessions.Create(in.Text, data)
	if _, err := s.sessions.SetCountryCode(sess.ID, country); err != nil {
		return nil, notFound(sess.ID, err)
	}
	log.Printf("[refine] created session %s (%d chars, %d positions, %d skills)",
		sess.ID, len(text), len(data.WorkExperiences), len(data.Skills))

	return &types.UploadResponse{
		SessionID:             sess.ID,
		ExtractedText:         in.Text,
		ParsedData:            sess.Data,
		AiSummary:             analysis.AiSummary,
		SuggestedImprovements: analysis.SuggestedImprovements,
	}, nil
}
