package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// InvalidRequestError is returned by request validation. Message is safe to show to the client.
type InvalidRequestError struct {
	Message string
	Cause   error
}

func (e *InvalidRequestError) Error() string {
	return e.Message
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Cause
}

func check(req any, message string) error {
	if err := validate.Struct(req); err != nil {
		return &InvalidRequestError{Message: message, Cause: err}
	}
	return nil
}

// UploadTextRequest carries pasted résumé text
type UploadTextRequest struct {
	Text        string `json:"text" validate:"notblank"`
	Language    string `json:"language,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Validate validates the UploadTextRequest
func (r *UploadTextRequest) Validate() error {
	return check(r, "No text provided")
}

// ChatRequest is one user turn in a refinement conversation
type ChatRequest struct {
	SessionID            string `json:"sessionId" validate:"notblank"`
	Message              string `json:"message" validate:"notblank"`
	TargetJobTitle       string `json:"targetJobTitle,omitempty"`
	TargetJobDescription string `json:"targetJobDescription,omitempty"`
	Language             string `json:"language,omitempty"`
}

// Validate validates the ChatRequest
func (r *ChatRequest) Validate() error {
	return check(r, "Session ID and message are required")
}

// ChatResponse is the assistant's free-text reply plus the session's current data
type ChatResponse struct {
	Message       string        `json:"message"`
	UpdatedCvData *ParsedCvData `json:"updatedCvData,omitempty"`
	IsComplete    bool          `json:"isComplete"`
}

// GenerateRequest asks for an enhanced résumé from a session
type GenerateRequest struct {
	SessionID              string `json:"sessionId" validate:"notblank"`
	TargetJobTitle         string `json:"targetJobTitle,omitempty"`
	TargetJobDescription   string `json:"targetJobDescription,omitempty"`
	AdditionalInstructions string `json:"additionalInstructions,omitempty"`
	Language               string `json:"language,omitempty"`
	CountryCode            string `json:"countryCode,omitempty"`
	Template               string `json:"template,omitempty"`
}

// Validate validates the GenerateRequest
func (r *GenerateRequest) Validate() error {
	return check(r, "Session ID is required")
}

// CoverLetterRequest asks for a cover letter targeting one job
type CoverLetterRequest struct {
	SessionID      string `json:"sessionId" validate:"notblank"`
	JobTitle       string `json:"jobTitle" validate:"notblank"`
	CompanyName    string `json:"companyName" validate:"notblank"`
	JobDescription string `json:"jobDescription"`
	Language       string `json:"language,omitempty"`
}

// Validate validates the CoverLetterRequest
func (r *CoverLetterRequest) Validate() error {
	return check(r, "Session ID, job title, and company name are required")
}

// ReviseRequest asks the model for a structured revision of the session's CV data
type ReviseRequest struct {
	SessionID   string `json:"sessionId" validate:"notblank"`
	Instruction string `json:"instruction" validate:"notblank"`
	Language    string `json:"language,omitempty"`
}

// Validate validates the ReviseRequest
func (r *ReviseRequest) Validate() error {
	return check(r, "Session ID and instruction are required")
}

// ReviseResponse reports the outcome of a structured revision. Applied is false when the
// model's proposal could not be parsed or did not conform, in which case the data is unchanged.
type ReviseResponse struct {
	Message       string       `json:"message"`
	UpdatedCvData ParsedCvData `json:"updatedCvData"`
	Applied       bool         `json:"applied"`
}

// CoverLetterReviseRequest asks for a structured revision of an existing cover letter
type CoverLetterReviseRequest struct {
	SessionID   string      `json:"sessionId" validate:"notblank"`
	Instruction string      `json:"instruction" validate:"notblank"`
	Current     CoverLetter `json:"current"`
	Language    string      `json:"language,omitempty"`
}

// Validate validates the CoverLetterReviseRequest
func (r *CoverLetterReviseRequest) Validate() error {
	if err := check(r, "Session ID, instruction, and the current cover letter are required"); err != nil {
		return err
	}
	if strings.TrimSpace(r.Current.Content) == "" {
		return &InvalidRequestError{Message: "Session ID, instruction, and the current cover letter are required"}
	}
	return nil
}

// CoverLetterReviseResponse carries the revised letter. Applied is false when the previous
// letter was kept.
type CoverLetterReviseResponse struct {
	CoverLetter
	Applied bool `json:"applied"`
}

// NormalizePhoneRequest re-formats the session's phone number for a country
type NormalizePhoneRequest struct {
	SessionID   string `json:"sessionId" validate:"notblank"`
	CountryCode string `json:"countryCode" validate:"required,len=2,alpha"`
}

// Validate validates the NormalizePhoneRequest
func (r *NormalizePhoneRequest) Validate() error {
	return check(r, "Session ID and a two-letter country code are required")
}

// FetchJobRequest asks for a job posting to be scraped from a URL
type FetchJobRequest struct {
	URL string `json:"url" validate:"notblank"`
}

// Validate validates the FetchJobRequest
func (r *FetchJobRequest) Validate() error {
	return check(r, "URL is required")
}

// ResumeRequest is a complete résumé submitted for stateless enhancement
type ResumeRequest struct {
	FullName             string           `json:"fullName" validate:"notblank,max=200"`
	Email                string           `json:"email" validate:"notblank,max=320"`
	Phone                string           `json:"phone,omitempty"`
	LinkedIn             string           `json:"linkedIn,omitempty"`
	Summary              string           `json:"summary,omitempty"`
	WorkExperiences      []WorkExperience `json:"workExperiences,omitempty"`
	Educations           []Education      `json:"educations,omitempty"`
	Skills               []string         `json:"skills,omitempty"`
	TargetJobTitle       string           `json:"targetJobTitle,omitempty"`
	TargetJobDescription string           `json:"targetJobDescription,omitempty"`
	Template             string           `json:"template,omitempty"`
	Language             string           `json:"language,omitempty"`
}

// Validate validates the ResumeRequest
func (r *ResumeRequest) Validate() error {
	return check(r, "Full name and email are required")
}

// CvData returns the résumé part of the request as structured CV data
func (r *ResumeRequest) CvData() ParsedCvData {
	data := EmptyCvData()
	data.FullName = r.FullName
	data.Email = r.Email
	data.Phone = r.Phone
	data.LinkedIn = r.LinkedIn
	data.Summary = r.Summary
	data.WorkExperiences = append(data.WorkExperiences, r.WorkExperiences...)
	data.Educations = append(data.Educations, r.Educations...)
	data.Skills = append(data.Skills, r.Skills...)
	return data
}

// UploadResponse is returned by both upload routes
type UploadResponse struct {
	SessionID             string       `json:"sessionId"`
	ExtractedText         string       `json:"extractedText"`
	ParsedData            ParsedCvData `json:"parsedData"`
	AiSummary             string       `json:"aiSummary"`
	SuggestedImprovements []string     `json:"suggestedImprovements"`
}
