package parsing

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/resume-refiner/internal/schemas"
	"github.com/jonathan/resume-refiner/internal/types"
)

// CvAnalysis is the upload extraction reply: the CV record plus the model's assessment
type CvAnalysis struct {
	Data                  types.ParsedCvData
	AiSummary             string
	SuggestedImprovements []string
}

// CvRevision is a structured revision proposed by the model
type CvRevision struct {
	Data    types.ParsedCvData
	Message string
}

var cvKeys = []string{"fullName", "email", "phone", "linkedIn", "summary", "workExperiences", "educations", "skills"}

// ParseCvData decodes the first JSON object in a reply into a CV record
func ParseCvData(text string) (types.ParsedCvData, error) {
	obj, err := firstObject(text)
	if err != nil {
		return types.EmptyCvData(), err
	}
	obj = obj.unwrap("cvData", "parsedData", "data")
	if !obj.hasAny(cvKeys...) {
		return types.EmptyCvData(), &ParseError{Message: "reply object has no CV fields"}
	}
	return decodeCvData(obj), nil
}

// ParseCvAnalysis decodes an upload extraction reply
func ParseCvAnalysis(text string) (*CvAnalysis, error) {
	obj, err := firstObject(text)
	if err != nil {
		return nil, err
	}

	data := obj.unwrap("cvData", "parsedData")
	if !data.hasAny(cvKeys...) && !obj.hasAny("aiSummary", "suggestedImprovements") {
		return nil, &ParseError{Message: "reply object has no CV fields"}
	}

	return &CvAnalysis{
		Data:                  decodeCvData(data),
		AiSummary:             obj.str("aiSummary", "analysis", "assessment"),
		SuggestedImprovements: obj.list("suggestedImprovements", "improvements", "suggestions"),
	}, nil
}

// ParseCvRevision decodes a proposed revision. The proposed record must conform to the
// cv_data schema, otherwise the revision is rejected as a whole.
func ParseCvRevision(text string) (*CvRevision, error) {
	obj, err := firstObject(text)
	if err != nil {
		return nil, err
	}

	data := obj.unwrap("cvData", "updatedCvData", "parsedData")
	if err := schemas.Validate(schemas.CvData, data.raw); err != nil {
		return nil, &ParseError{Message: "proposed CV data does not match the schema", Cause: err}
	}

	rev := &CvRevision{Data: decodeCvData(data)}
	if data.raw != obj.raw {
		rev.Message = obj.str("message", "summaryOfChanges", "explanation")
	}
	return rev, nil
}

// ParseResume decodes a generated résumé reply
func ParseResume(text string) (*types.GeneratedResume, error) {
	obj, err := firstObject(text)
	if err != nil {
		return nil, err
	}
	obj = obj.unwrap("resume", "generatedResume")
	if !obj.hasAny("generatedSummary", "enhancedExperiences", "existingSkills", "suggestedSkills", "keywords") {
		return nil, &ParseError{Message: "reply object has no résumé fields"}
	}

	resume := &types.GeneratedResume{
		GeneratedSummary:    obj.str("generatedSummary", "summary"),
		EnhancedExperiences: []types.EnhancedWorkExperience{},
		ExistingSkills:      DedupeFold(obj.list("existingSkills")),
		SuggestedSkills:     DedupeFold(obj.list("suggestedSkills")),
		Keywords:            DedupeFold(obj.list("keywords", "atsKeywords")),
		Template:            obj.str("template"),
	}
	for _, exp := range obj.objects("enhancedExperiences", "workExperiences", "experiences") {
		resume.EnhancedExperiences = append(resume.EnhancedExperiences, types.EnhancedWorkExperience{
			JobTitle:                 exp.str("jobTitle", "title", "position"),
			Company:                  exp.str("company", "employer"),
			StartDate:                exp.str("startDate"),
			EndDate:                  exp.str("endDate"),
			EnhancedResponsibilities: exp.list("enhancedResponsibilities", "responsibilities", "bullets"),
		})
	}
	return resume, nil
}

// ParseCoverLetter decodes a cover letter reply. Missing salutation or closing fall back to
// generic ones; missing content makes the reply unparseable.
func ParseCoverLetter(text string) (*types.CoverLetter, error) {
	obj, err := firstObject(text)
	if err != nil {
		return nil, err
	}
	obj = obj.unwrap("coverLetter")

	content := obj.str("content", "body")
	if content == "" {
		if paragraphs := obj.list("paragraphs"); len(paragraphs) > 0 {
			content = strings.Join(paragraphs, "\n\n")
		}
	}
	if content == "" {
		return nil, &ParseError{Message: "cover letter has no content"}
	}

	letter := &types.CoverLetter{
		Salutation: obj.str("salutation", "greeting"),
		Content:    content,
		Closing:    obj.str("closing", "signOff"),
	}
	if letter.Salutation == "" {
		letter.Salutation = types.DefaultSalutation
	}
	if letter.Closing == "" {
		letter.Closing = types.DefaultClosing
	}
	return letter, nil
}

func decodeCvData(obj object) types.ParsedCvData {
	data := types.EmptyCvData()
	data.FullName = obj.str("fullName", "name")
	data.Email = obj.str("email")
	data.Phone = obj.str("phone", "phoneNumber")
	data.LinkedIn = obj.str("linkedIn", "linkedInUrl", "linkedInProfile")
	data.Summary = obj.str("summary", "profile")
	data.Skills = DedupeFold(obj.list("skills"))

	for _, exp := range obj.objects("workExperiences", "workExperience", "experiences") {
		w := types.WorkExperience{
			JobTitle:         exp.str("jobTitle", "title", "position"),
			Company:          exp.str("company", "employer"),
			StartDate:        exp.str("startDate"),
			EndDate:          exp.str("endDate"),
			IsCurrent:        exp.boolean("isCurrent", "current"),
			Responsibilities: exp.list("responsibilities", "duties", "bullets"),
		}
		if w.JobTitle == "" && w.Company == "" && len(w.Responsibilities) == 0 {
			continue
		}
		data.WorkExperiences = append(data.WorkExperiences, w)
	}

	for _, edu := range obj.objects("educations", "education") {
		e := types.Education{
			Degree:         edu.str("degree"),
			Institution:    edu.str("institution", "school", "university"),
			GraduationYear: edu.str("graduationYear", "year"),
			FieldOfStudy:   edu.str("fieldOfStudy", "field", "major"),
		}
		if e.Degree == "" && e.Institution == "" {
			continue
		}
		data.Educations = append(data.Educations, e)
	}
	return data
}

func firstObject(text string) (object, error) {
	raw, ok := ExtractFirstJSONObject(text)
	if !ok {
		return object{}, &ParseError{Message: "reply is not parseable", Cause: ErrNoObject}
	}
	return newObject(gjson.Parse(raw)), nil
}

// object is a JSON object with keys matched case- and separator-insensitively
type object struct {
	raw    string
	fields map[string]gjson.Result
}

func newObject(r gjson.Result) object {
	obj := object{raw: r.Raw, fields: make(map[string]gjson.Result)}
	if !r.IsObject() {
		return obj
	}
	r.ForEach(func(key, value gjson.Result) bool {
		k := normalizeKey(key.String())
		if _, ok := obj.fields[k]; !ok {
			obj.fields[k] = value
		}
		return true
	})
	return obj
}

func (o object) get(names ...string) (gjson.Result, bool) {
	for _, name := range names {
		if v, ok := o.fields[normalizeKey(name)]; ok && v.Type != gjson.Null {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func (o object) hasAny(names ...string) bool {
	_, ok := o.get(names...)
	return ok
}

// unwrap returns the nested object under the first matching key, or o itself
func (o object) unwrap(names ...string) object {
	if v, ok := o.get(names...); ok && v.IsObject() {
		return newObject(v)
	}
	return o
}

func (o object) str(names ...string) string {
	v, ok := o.get(names...)
	if !ok {
		return ""
	}
	return scalar(v)
}

func (o object) list(names ...string) []string {
	out := []string{}
	v, ok := o.get(names...)
	if !ok {
		return out
	}

	if !v.IsArray() {
		if s := scalar(v); s != "" {
			out = append(out, s)
		}
		return out
	}

	for _, item := range v.Array() {
		s := scalar(item)
		if s == "" && item.IsObject() {
			s = newObject(item).str("name", "skill", "text", "value")
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (o object) boolean(names ...string) bool {
	v, ok := o.get(names...)
	if !ok {
		return false
	}
	switch v.Type {
	case gjson.True:
		return true
	case gjson.String:
		s := strings.ToLower(strings.TrimSpace(v.Str))
		return s == "true" || s == "yes"
	case gjson.Number:
		return v.Num != 0
	default:
		return false
	}
}

func (o object) objects(names ...string) []object {
	v, ok := o.get(names...)
	if !ok {
		return nil
	}
	if v.IsObject() {
		return []object{newObject(v)}
	}
	if !v.IsArray() {
		return nil
	}

	var out []object
	for _, item := range v.Array() {
		if item.IsObject() {
			out = append(out, newObject(item))
		}
	}
	return out
}

// scalar coerces strings and numbers to trimmed text; other types become ""
func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}
