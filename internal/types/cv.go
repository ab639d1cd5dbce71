// Package types provides type definitions for structured data used throughout the resume-refiner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ParsedCvData is the structured decomposition of a résumé
type ParsedCvData struct {
	FullName        string           `json:"fullName"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	LinkedIn        string           `json:"linkedIn"`
	Summary         string           `json:"summary"`
	WorkExperiences []WorkExperience `json:"workExperiences"`
	Educations      []Education      `json:"educations"`
	Skills          []string         `json:"skills"`
}

// WorkExperience is one position held. An absent EndDate means the position is current;
// when both are set, IsCurrent wins.
type WorkExperience struct {
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Responsibilities []string `json:"responsibilities"`
}

// Education is one completed or ongoing degree
type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationYear string `json:"graduationYear"`
	FieldOfStudy   string `json:"fieldOfStudy,omitempty"`
}

// DisplayEndDate returns the end date to show for the position
func (w WorkExperience) DisplayEndDate() string {
	if w.IsCurrent || w.EndDate == "" {
		return "Present"
	}
	return w.EndDate
}

// EmptyCvData returns a record with every field at its default and every list non-nil,
// so it serializes as [] rather than null.
func EmptyCvData() ParsedCvData {
	return ParsedCvData{
		WorkExperiences: []WorkExperience{},
		Educations:      []Education{},
		Skills:          []string{},
	}
}

// Clone returns a deep copy of the data
func (d ParsedCvData) Clone() ParsedCvData {
	out := d
	out.Skills = append([]string{}, d.Skills...)
	out.Educations = append([]Education{}, d.Educations...)
	out.WorkExperiences = make([]WorkExperience, len(d.WorkExperiences))
	for i, w := range d.WorkExperiences {
		w.Responsibilities = append([]string{}, w.Responsibilities...)
		out.WorkExperiences[i] = w
	}
	return out
}
