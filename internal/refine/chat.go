package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-refiner/internal/prompts"
	"github.com/jonathan/resume-refiner/internal/types"
)

// ChatInput is one user turn
type ChatInput struct {
	SessionID            string
	Message              string
	TargetJobTitle       string
	TargetJobDescription string
	Language             string
}

// Chat appends the user's message, asks the model for a conversational reply with the
// current CV data as context, and appends the reply. The user's message is kept even when
// the model call fails. The reply is free text and never changes the CV data.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*types.ChatResponse, error) {
	message := strings.TrimSpace(in.Message)
	if strings.TrimSpace(in.SessionID) == "" || message == "" {
		return nil, invalid("Session ID and message are required")
	}

	sess, err := s.sessions.AppendMessage(in.SessionID, types.ChatMessage{Role: types.RoleUser, Content: message})
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	system, err := render("chat-system", map[string]string{
		"Language":   prompts.LanguageInstruction("chat", s.language(in.Language)),
		"CvData":     cvJSON(sess.Data),
		"JobContext": jobContext(in.TargetJobTitle, in.TargetJobDescription),
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, system, formatTurns(sess.RecentTurns(s.cfg.ChatWindow)))
	if err != nil {
		return nil, fmt.Errorf("chat failed: %w", err)
	}
	reply = strings.TrimSpace(reply)

	sess, err = s.sessions.AppendMessage(in.SessionID, types.ChatMessage{Role: types.RoleAssistant, Content: reply})
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	data := sess.Data
	return &types.ChatResponse{
		Message:       reply,
		UpdatedCvData: &data,
		IsComplete:    false,
	}, nil
}
