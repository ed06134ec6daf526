package types

// ParsedResume is the structured view of a LaTeX resume.
// It is regenerated on every upload and never edited in place.
type ParsedResume struct {
	Sections           map[string]string `json:"sections"`
	TechnicalSkills    []Skill           `json:"technicalSkills"`
	RelevantCoursework []CourseworkItem  `json:"relevantCoursework"`
}

// NewParsedResume returns a ParsedResume with empty, non-nil collections.
func NewParsedResume() ParsedResume {
	return ParsedResume{
		Sections:           map[string]string{},
		TechnicalSkills:    []Skill{},
		RelevantCoursework: []CourseworkItem{},
	}
}

// Selection is the set of skills and coursework chosen for a tailored resume variant.
type Selection struct {
	Skills     []Skill          `json:"skills" validate:"dive"`
	Coursework []CourseworkItem `json:"coursework" validate:"dive"`
}
