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

// GenerateInput requests an enhanced résumé from a session
type GenerateInput struct {
	SessionID              string
	TargetJobTitle         string
	TargetJobDescription   string
	AdditionalInstructions string
	Language               string
	Template               string
}

// resumeRequest is everything a résumé prompt is built from
type resumeRequest struct {
	data         types.ParsedCvData
	turns        []types.ChatMessage
	targetJob    string
	description  string
	instructions string
	language     string
	template     string
}

// GenerateResume produces the enhanced résumé from the session's data and recent
// conversation. The session is only touched; its data and transcript are not changed.
func (s *Service) GenerateResume(ctx context.Context, in GenerateInput) (*types.GeneratedResume, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return nil, invalid("Session ID is required")
	}

	sess, err := s.sessions.Touch(in.SessionID)
	if err != nil {
		return nil, notFound(in.SessionID, err)
	}

	return s.composeResume(ctx, resumeRequest{
		data:         sess.Data,
		turns:        sess.RecentTurns(s.cfg.GenerationWindow),
		targetJob:    in.TargetJobTitle,
		description:  in.TargetJobDescription,
		instructions: in.AdditionalInstructions,
		language:     in.Language,
		template:     s.template(in.Template),
	})
}

func (s *Service) composeResume(ctx context.Context, req resumeRequest) (*types.GeneratedResume, error) {
	system, err := render("generate-resume-system", map[string]string{
		"Language": prompts.LanguageInstruction("resume", s.language(req.language)),
	})
	if err != nil {
		return nil, err
	}

	conversation := ""
	if len(req.turns) > 0 {
		conversation, err = render("conversation-context", map[string]string{"Turns": formatTurns(req.turns)})
		if err != nil {
			return nil, err
		}
	}

	user, err := render("generate-resume-user", map[string]string{
		"CvData":         cvJSON(req.data),
		"Conversation":   conversation,
		"TargetJob":      orDefault(req.targetJob, "General professional role"),
		"JobDescription": orDefault(req.description, "Not provided"),
		"Instructions":   orDefault(req.instructions, "None"),
		"Template":       req.template,
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("resume generation failed: %w", err)
	}

	resume, err := parsing.ParseResume(reply)
	if err != nil {
		log.Printf("[refine] generated resume not parseable, returning raw text: %v", err)
		resume = &types.GeneratedResume{GeneratedSummary: strings.TrimSpace(reply)}
	}

	finalizeResume(resume, req.data.Skills, req.template)
	return resume, nil
}

// finalizeResume enforces the résumé invariants regardless of what the model returned:
// existing skills default to the CV's skills, suggested skills never repeat an existing
// one, and the requested template wins.
func finalizeResume(resume *types.GeneratedResume, cvSkills []string, template string) {
	existing := parsing.DedupeFold(resume.ExistingSkills)
	if len(existing) == 0 {
		existing = parsing.DedupeFold(cvSkills)
	}
	resume.ExistingSkills = existing
	resume.SuggestedSkills = parsing.SubtractFold(resume.SuggestedSkills, existing)
	resume.Keywords = parsing.DedupeFold(resume.Keywords)
	resume.Template = template

	if resume.EnhancedExperiences == nil {
		resume.EnhancedExperiences = []types.EnhancedWorkExperience{}
	}
	for i := range resume.EnhancedExperiences {
		if resume.EnhancedExperiences[i].EnhancedResponsibilities == nil {
			resume.EnhancedExperiences[i].EnhancedResponsibilities = []string{}
		}
	}
}
