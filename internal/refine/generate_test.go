package refine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/llm/llmtest"
	"github.com/jonathan/resume-refiner/internal/types"
)

const overlappingResume = `{"generatedSummary":"Seasoned backend engineer",
"enhancedExperiences":[{"jobTitle":"Engineer","company":"Acme","startDate":"2019","endDate":"","enhancedResponsibilities":["Cut latency 40%"]}],
"existingSkills":["Go","SQL"],
"suggestedSkills":["go","Kubernetes","sql","Terraform","kubernetes"],
"keywords":["backend"],
"template":"classic"}`

func TestGenerateResume_SkillsAreDisjoint(t *testing.T) {
	svc, _ := newTestService(t, llmtest.NewFake(janeReply, overlappingResume))
	id := uploadJane(t, svc)

	resume, err := svc.GenerateResume(context.Background(), GenerateInput{SessionID: id})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "SQL"}, resume.ExistingSkills)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, resume.SuggestedSkills)

	existing := map[string]bool{}
	for _, s := range resume.ExistingSkills {
		existing[strings.ToLower(s)] = true
	}
	for _, s := range resume.SuggestedSkills {
		assert.False(t, existing[strings.ToLower(s)], "suggested skill %q is already listed", s)
	}
}

func TestGenerateResume_TemplateOverridesModel(t *testing.T) {
	svc, _ := newTestService(t, llmtest.NewFake(janeReply, overlappingResume))
	id := uploadJane(t, svc)

	resume, err := svc.GenerateResume(context.Background(), GenerateInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTemplate, resume.Template)

	resume, err = svc.GenerateResume(context.Background(), GenerateInput{SessionID: id, Template: "minimal"})
	require.NoError(t, err)
	assert.Equal(t, "minimal", resume.Template)
}

func TestGenerateResume_MissingExistingSkillsUseSession(t *testing.T) {
	reply := `{"generatedSummary":"x","suggestedSkills":["SQL","Rust"]}`
	svc, _ := newTestService(t, llmtest.NewFake(janeReply, reply))
	id := uploadJane(t, svc)

	resume, err := svc.GenerateResume(context.Background(), GenerateInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, resume.ExistingSkills)
	assert.Equal(t, []string{"Rust"}, resume.SuggestedSkills)
	assert.NotNil(t, resume.EnhancedExperiences)
}

func TestGenerateResume_IsIdempotentForIdenticalReplies(t *testing.T) {
	svc, _ := newTestService(t, llmtest.NewFake(janeReply, overlappingResume))
	id := uploadJane(t, svc)
	in := GenerateInput{SessionID: id, TargetJobTitle: "Staff Engineer", Template: "modern"}

	first, err := svc.GenerateResume(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.GenerateResume(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateResume_PromptCarriesContext(t *testing.T) {
	fake := llmtest.NewFake(janeReply, "ok", "ok", "ok", "ok", overlappingResume)
	svc, _ := newTestService(t, fake)
	id := uploadJane(t, svc)

	for i := 0; i < 4; i++ {
		_, err := svc.Chat(context.Background(), ChatInput{SessionID: id, Message: "improve bullet " + string(rune('A'+i))})
		require.NoError(t, err)
	}

	_, err := svc.GenerateResume(context.Background(), GenerateInput{
		SessionID:              id,
		TargetJobTitle:         "Staff Engineer",
		AdditionalInstructions: "Keep it to one page",
		Language:               "da",
	})
	require.NoError(t, err)

	call := fake.LastCall()
	assert.Contains(t, call.System, "Danish")
	assert.Contains(t, call.User, "Conversation context (improvements discussed):")
	assert.NotContains(t, call.User, "improve bullet A")
	assert.Contains(t, call.User, "user: improve bullet B")
	assert.Contains(t, call.User, "user: improve bullet D")
	assert.Contains(t, call.User, "Target Job: Staff Engineer")
	assert.Contains(t, call.User, "Job Description: Not provided")
	assert.Contains(t, call.User, "Additional Instructions: Keep it to one page")
	assert.Contains(t, call.User, "Template Style: modern")
}

func TestGenerateResume_DefaultsWithoutConversation(t *testing.T) {
	fake := llmtest.NewFake(janeReply, overlappingResume)
	svc, _ := newTestService(t, fake)
	id := uploadJane(t, svc)

	_, err := svc.GenerateResume(context.Background(), GenerateInput{SessionID: id})
	require.NoError(t, err)

	user := fake.LastCall().User
	assert.NotContains(t, user, "Conversation context")
	assert.Contains(t, user, "Target Job: General professional role")
	assert.Contains(t, user, "Additional Instructions: None")
}

func TestGenerateResume_UnparseableReplyFallsBack(t *testing.T) {
	svc, store := newTestService(t, llmtest.NewFake(janeReply, "Here is a great summary of you."))
	id := uploadJane(t, svc)

	resume, err := svc.GenerateResume(context.Background(), GenerateInput{SessionID: id, Template: "classic"})
	require.NoError(t, err)
	assert.Equal(t, "Here is a great summary of you.", resume.GeneratedSummary)
	assert.Equal(t, []string{"Go", "SQL"}, resume.ExistingSkills)
	assert.Empty(t, resume.SuggestedSkills)
	assert.Equal(t, "classic", resume.Template)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Empty(t, sess.Transcript)
	assert.Equal(t, "20 12 34 56", sess.Data.Phone)
}

func TestGenerateCoverLetter(t *testing.T) {
	reply := `{"salutation":"Dear Hiring Team","content":"First.\n\nSecond.","closing":"Kind regards"}`
	fake := llmtest.NewFake(janeReply, reply)
	svc, _ := newTestService(t, fake)
	id := uploadJane(t, svc)

	letter, err := svc.GenerateCoverLetter(context.Background(), CoverLetterInput{
		SessionID: id, JobTitle: "Backend Engineer", CompanyName: "Acme", JobDescription: "Go services",
	})
	require.NoError(t, err)
	assert.Equal(t, types.CoverLetter{Salutation: "Dear Hiring Team", Content: "First.\n\nSecond.", Closing: "Kind regards"}, *letter)

	call := fake.LastCall()
	assert.Contains(t, call.User, "Job Title: Backend Engineer")
	assert.Contains(t, call.User, "Company: Acme")
	assert.Contains(t, call.User, "Job Description: Go services")
	assert.Contains(t, call.User, `"fullName": "Jane Doe"`)
}

func TestGenerateCoverLetter_FallbackOnUnparseableReply(t *testing.T) {
	svc, _ := newTestService(t, llmtest.NewFake(janeReply, "  I am excited to apply.\n\nThanks.  "))
	id := uploadJane(t, svc)

	letter, err := svc.GenerateCoverLetter(context.Background(), CoverLetterInput{SessionID: id, JobTitle: "Dev", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSalutation, letter.Salutation)
	assert.Equal(t, "I am excited to apply.\n\nThanks.", letter.Content)
	assert.Equal(t, types.DefaultClosing, letter.Closing)
}

func TestGenerateCoverLetter_Validation(t *testing.T) {
	fake := llmtest.NewFake(janeReply)
	svc, _ := newTestService(t, fake)
	id := uploadJane(t, svc)

	_, err := svc.GenerateCoverLetter(context.Background(), CoverLetterInput{SessionID: id, JobTitle: " ", CompanyName: "Acme"})
	var invalidErr *types.InvalidRequestError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, 1, fake.CallCount())
}

func TestGenerateStandalone(t *testing.T) {
	fake := llmtest.NewFake(overlappingResume)
	svc, store := newTestService(t, fake)

	resume, err := svc.GenerateStandalone(context.Background(), types.ResumeRequest{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Skills:   []string{"Go", "go", "SQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, resume.SuggestedSkills)
	assert.Equal(t, types.DefaultTemplate, resume.Template)
	assert.Equal(t, 0, store.Len())
	assert.Contains(t, fake.LastCall().User, `"fullName": "Jane Doe"`)

	_, err = svc.GenerateStandalone(context.Background(), types.ResumeRequest{FullName: "Jane"})
	var invalidErr *types.InvalidRequestError
	assert.True(t, errors.As(err, &invalidErr))
}
