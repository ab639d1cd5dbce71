package types

// JobPostingResult is the outcome of fetching a job posting URL. Failures are reported
// through IsSuccess and ErrorMessage rather than as errors, so the client can fall back
// to manual entry.
type JobPostingResult struct {
	IsSuccess    bool   `json:"isSuccess"`
	JobTitle     string `json:"jobTitle"`
	CompanyName  string `json:"companyName"`
	Description  string `json:"description"`
	ErrorMessage string `json:"errorMessage"`
}

// JobPostingFound returns a successful result
func JobPostingFound(jobTitle, companyName, description string) JobPostingResult {
	return JobPostingResult{
		IsSuccess:   true,
		JobTitle:    jobTitle,
		CompanyName: companyName,
		Description: description,
	}
}

// JobPostingFailed returns a failed result carrying a message for the user
func JobPostingFailed(message string) JobPostingResult {
	return JobPostingResult{ErrorMessage: message}
}
