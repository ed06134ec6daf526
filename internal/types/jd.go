package types

// Span is a half-open [start, end) range of character (code point) offsets.
// It serializes as a two-element JSON array.
type Span [2]int

// Start returns the inclusive start offset.
func (s Span) Start() int { return s[0] }

// End returns the exclusive end offset.
func (s Span) End() int { return s[1] }

// Len returns the span length, or 0 for inverted spans.
func (s Span) Len() int {
	if s[1] < s[0] {
		return 0
	}
	return s[1] - s[0]
}

// JDSpan holds the labeled regions of a job description.
// Spans may overlap and are not deduplicated.
type JDSpan struct {
	Requirements     []Span `json:"requirements"`
	Responsibilities []Span `json:"responsibilities"`
	NiceToHaves      []Span `json:"nice_to_haves"`
}

// NewJDSpan returns a JDSpan with empty, non-nil lists so it serializes as [] rather than null.
func NewJDSpan() JDSpan {
	return JDSpan{
		Requirements:     []Span{},
		Responsibilities: []Span{},
		NiceToHaves:      []Span{},
	}
}

// For returns the span list for a job description source.
func (j JDSpan) For(source SkillSource) []Span {
	switch source {
	case SourceRequirement:
		return j.Requirements
	case SourceResponsibility:
		return j.Responsibilities
	case SourceNiceToHave:
		return j.NiceToHaves
	default:
		return nil
	}
}

// Add appends a span to the list for source. Static and unknown sources are ignored.
func (j *JDSpan) Add(source SkillSource, span Span) {
	switch source {
	case SourceRequirement:
		j.Requirements = append(j.Requirements, span)
	case SourceResponsibility:
		j.Responsibilities = append(j.Responsibilities, span)
	case SourceNiceToHave:
		j.NiceToHaves = append(j.NiceToHaves, span)
	}
}

// All returns every span across the three labels.
func (j JDSpan) All() []Span {
	all := make([]Span, 0, len(j.Requirements)+len(j.Responsibilities)+len(j.NiceToHaves))
	all = append(all, j.Requirements...)
	all = append(all, j.Responsibilities...)
	return append(all, j.NiceToHaves...)
}

// Empty reports whether no label has any span.
func (j JDSpan) Empty() bool {
	return len(j.Requirements) == 0 && len(j.Responsibilities) == 0 && len(j.NiceToHaves) == 0
}

// Analysis is the output of the job description pipeline.
type Analysis struct {
	Spans      JDSpan           `json:"spans"`
	Skills     []Skill          `json:"skills"`
	Coursework []CourseworkItem `json:"coursework"`
}
