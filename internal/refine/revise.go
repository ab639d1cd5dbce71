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

// RevisionInput requests a structured change to the session's CV data
type RevisionInput struct {
	SessionID   string
	Instruction string
	Language    string
}

// ProposeRevision asks the model for a complete updated CV record. The record replaces the
// session's data only if it parses and conforms to the CV schema; otherwise the data is
// left untouched and Applied is false. Both turns are recorded in the transcript.
func (s *Service) ProposeRevision(ctx context.Context, in RevisionInput) (*types.ReviseResponse, error) {
	instruction := strings.TrimSpace(in.Instruction)
	if strings.TrimSpace(in.SessionID) == "" || instruction == "" {
		return nil, invalid("Session ID and instruction are required")
	}

	sess, err := s.sessions.AppendMessage(in.SessionID, types.ChatMessage{Role: types.RoleUser, Content: instruction})
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	system, err := render("revise-cv-system", map[string]string{
		"Language": prompts.LanguageInstruction("revise", s.language(in.Language)),
		"CvData":   cvJSON(sess.Data),
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, system, instruction)
	if err != nil {
		return nil, fmt.Errorf("revision failed: %w", err)
	}

	applied := true
	message := RevisionAppliedMessage
	revision, err := parsing.ParseCvRevision(reply)
	if err != nil {
		log.Printf("[refine] revision for %s rejected: %v", in.SessionID, err)
		applied = false
		message = RevisionRejectedMessage
	} else {
		if revision.Message != "" {
			message = revision.Message
		}
		data := revision.Data
		if sess.CountryCode != "" {
			data.Phone = s.phones.Format(data.Phone, sess.CountryCode)
		}
		if _, err := s.sessions.ReplaceData(in.SessionID, data); err != nil {
			return nil, notFound(in.SessionID, err)
		}
	}

	sess, err = s.sessions.AppendMessage(in.SessionID, types.ChatMessage{Role: types.RoleAssistant, Content: message})
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	return &types.ReviseResponse{
		Message:       message,
		UpdatedCvData: sess.Data,
		Applied:       applied,
	}, nil
}
