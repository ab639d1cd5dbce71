package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyCvData_SerializesEmptyLists(t *testing.T) {
	jsonBytes, err := json.Marshal(EmptyCvData())
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"workExperiences":[]`)
	assert.Contains(t, string(jsonBytes), `"educations":[]`)
	assert.Contains(t, string(jsonBytes), `"skills":[]`)
}

func TestParsedCvData_CloneIsDeep(t *testing.T) {
	original := ParsedCvData{
		FullName: "Jane Doe",
		Skills:   []string{"Go"},
		WorkExperiences: []WorkExperience{
			{JobTitle: "Engineer", Responsibilities: []string{"Built things"}},
		},
	}

	clone := original.Clone()
	clone.Skills[0] = "Rust"
	clone.WorkExperiences[0].Responsibilities[0] = "Broke things"

	assert.Equal(t, "Go", original.Skills[0])
	assert.Equal(t, "Built things", original.WorkExperiences[0].Responsibilities[0])
}

func TestWorkExperience_DisplayEndDate(t *testing.T) {
	tests := []struct {
		name     string
		exp      WorkExperience
		expected string
	}{
		{name: "current wins over end date", exp: WorkExperience{EndDate: "2020", IsCurrent: true}, expected: "Present"},
		{name: "missing end date", exp: WorkExperience{}, expected: "Present"},
		{name: "ended", exp: WorkExperience{EndDate: "2020"}, expected: "2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.exp.DisplayEndDate())
		})
	}
}

func TestSession_StateAndRecentTurns(t *testing.T) {
	s := Session{ID: "abc"}
	assert.Equal(t, StateCreated, s.State())
	assert.Nil(t, s.RecentTurns(10))

	for i := 0; i < 12; i++ {
		s.Transcript = append(s.Transcript, ChatMessage{Role: RoleUser, Content: string(rune('a' + i))})
	}
	assert.Equal(t, StateRefining, s.State())

	recent := s.RecentTurns(10)
	require.Len(t, recent, 10)
	assert.Equal(t, "c", recent[0].Content)
	assert.Equal(t, "l", recent[9].Content)

	assert.Len(t, s.RecentTurns(50), 12)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantMsg string
	}{
		{name: "blank upload text", req: &UploadTextRequest{Text: "   "}, wantMsg: "No text provided"},
		{name: "chat without message", req: &ChatRequest{SessionID: "s"}, wantMsg: "Session ID and message are required"},
		{name: "generate without session", req: &GenerateRequest{}, wantMsg: "Session ID is required"},
		{name: "cover letter without company", req: &CoverLetterRequest{SessionID: "s", JobTitle: "Dev"}, wantMsg: "Session ID, job title, and company name are required"},
		{name: "revise without instruction", req: &ReviseRequest{SessionID: "s"}, wantMsg: "Session ID and instruction are required"},
		{name: "cover letter revise without letter", req: &CoverLetterReviseRequest{SessionID: "s", Instruction: "shorter"}, wantMsg: "Session ID, instruction, and the current cover letter are required"},
		{name: "bad country code", req: &NormalizePhoneRequest{SessionID: "s", CountryCode: "DNK"}, wantMsg: "Session ID and a two-letter country code are required"},
		{name: "fetch without url", req: &FetchJobRequest{}, wantMsg: "URL is required"},
		{name: "resume without email", req: &ResumeRequest{FullName: "Jane"}, wantMsg: "Full name and email are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			var invalid *InvalidRequestError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.wantMsg, invalid.Message)
		})
	}
}

func TestRequestValidation_Valid(t *testing.T) {
	assert.NoError(t, (&ChatRequest{SessionID: "s", Message: "hi"}).Validate())
	assert.NoError(t, (&CoverLetterRequest{SessionID: "s", JobTitle: "Dev", CompanyName: "Acme"}).Validate())
	assert.NoError(t, (&NormalizePhoneRequest{SessionID: "s", CountryCode: "DK"}).Validate())
	assert.NoError(t, (&CoverLetterReviseRequest{SessionID: "s", Instruction: "x", Current: CoverLetter{Content: "body"}}).Validate())
}

func TestResumeRequest_CvData(t *testing.T) {
	req := &ResumeRequest{FullName: "Jane", Email: "jane@x.com", Skills: []string{"Go"}}
	data := req.CvData()
	assert.Equal(t, "Jane", data.FullName)
	assert.Equal(t, []string{"Go"}, data.Skills)
	assert.NotNil(t, data.Educations)
}
