package types

// GeneratedResume is the AI-enhanced résumé produced from a session or a standalone request.
// SuggestedSkills never shares an entry with ExistingSkills under case-insensitive comparison.
type GeneratedResume struct {
	GeneratedSummary    string                   `json:"generatedSummary"`
	EnhancedExperiences []EnhancedWorkExperience `json:"enhancedExperiences"`
	ExistingSkills      []string                 `json:"existingSkills"`
	SuggestedSkills     []string                 `json:"suggestedSkills"`
	Keywords            []string                 `json:"keywords"`
	Template            string                   `json:"template"`
}

// EnhancedWorkExperience is a position with rewritten responsibility bullets
type EnhancedWorkExperience struct {
	JobTitle                 string   `json:"jobTitle"`
	Company                  string   `json:"company"`
	StartDate                string   `json:"startDate"`
	EndDate                  string   `json:"endDate"`
	EnhancedResponsibilities []string `json:"enhancedResponsibilities"`
}

// CoverLetter is a generated cover letter. Content holds paragraphs separated by a blank line.
type CoverLetter struct {
	Salutation string `json:"salutation"`
	Content    string `json:"content"`
	Closing    string `json:"closing"`
}

// Fallback cover letter parts used when the model reply cannot be parsed
const (
	DefaultSalutation = "Dear Hiring Manager"
	DefaultClosing    = "Sincerely"
)

// DefaultTemplate is the résumé template used when none is requested
const DefaultTemplate = "modern"
