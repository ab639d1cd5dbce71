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

// CoverLetterInput requests a cover letter for one job
type CoverLetterInput struct {
	SessionID      string
	JobTitle       string
	CompanyName    string
	JobDescription string
	Language       string
}

// CoverLetterRevisionInput requests a structured edit of an existing letter
type CoverLetterRevisionInput struct {
	SessionID   string
	Instruction string
	Current     types.CoverLetter
	Language    string
}

// GenerateCoverLetter writes a cover letter from the session's data. An unparseable
// reply becomes the letter body with a generic salutation and closing.
func (s *Service) GenerateCoverLetter(ctx context.Context, in CoverLetterInput) (*types.CoverLetter, error) {
	if strings.TrimSpace(in.SessionID) == "" || strings.TrimSpace(in.JobTitle) == "" || strings.TrimSpace(in.CompanyName) == "" {
		return nil, invalid("Session ID, job title, and company name are required")
	}

	sess, err := s.sessions.Touch(in.SessionID)
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	system, err := render("cover-letter-system", map[string]string{
		"Language": prompts.LanguageInstruction("cover-letter", s.language(in.Language)),
	})
	if err != nil {
		return nil, err
	}
	user, err := render("cover-letter-user", map[string]string{
		"CvData":         cvJSON(sess.Data),
		"JobTitle":       strings.TrimSpace(in.JobTitle),
		"CompanyName":    strings.TrimSpace(in.CompanyName),
		"JobDescription": orDefault(in.JobDescription, "Not provided"),
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("cover letter generation failed: %w", err)
	}

	letter, err := parsing.ParseCoverLetter(reply)
	if err != nil {
		log.Printf("[refine] cover letter not parseable, returning raw text: %v", err)
		return &types.CoverLetter{
			Salutation: types.DefaultSalutation,
			Content:    strings.TrimSpace(reply),
			Closing:    types.DefaultClosing,
		}, nil
	}
	return letter, nil
}

// ProposeCoverLetterRevision asks the model to apply an instruction to a letter and
// return it as structured JSON. When the reply cannot be parsed the current letter is
// returned unchanged with applied set to false.
func (s *Service) ProposeCoverLetterRevision(ctx context.Context, in CoverLetterRevisionInput) (*types.CoverLetterReviseResponse, error) {
	instruction := strings.TrimSpace(in.Instruction)
	if strings.TrimSpace(in.SessionID) == "" || instruction == "" || strings.TrimSpace(in.Current.Content) == "" {
		return nil, invalid("Session ID, instruction, and the current cover letter are required")
	}

	sess, err := s.sessions.Touch(in.SessionID)
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	system, err := render("revise-cover-letter-system", map[string]string{
		"Language": prompts.LanguageInstruction("cover-letter", s.language(in.Language)),
		"CvData":   cvJSON(sess.Data),
	})
	if err != nil {
		return nil, err
	}
	user, err := render("revise-cover-letter-user", map[string]string{
		"Letter":      formatLetter(in.Current),
		"Instruction": instruction,
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("cover letter revision failed: %w", err)
	}

	letter, err := parsing.ParseCoverLetter(reply)
	if err != nil {
		log.Printf("[refine] cover letter revision not parseable, keeping current letter: %v", err)
		return &types.CoverLetterReviseResponse{CoverLetter: in.Current, Applied: false}, nil
	}
	return &types.CoverLetterReviseResponse{CoverLetter: *letter, Applied: true}, nil
}
