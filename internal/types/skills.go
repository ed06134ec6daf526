// Package types provides type definitions for structured data used throughout the job assistant.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillSource records which part of a job description (or the resume itself) a skill came from.
type SkillSource string

// Skill sources, from strongest to weakest.
const (
	SourceRequirement    SkillSource = "requirement"
	SourceResponsibility SkillSource = "responsibility"
	SourceNiceToHave     SkillSource = "nice_to_have"
	SourceStatic         SkillSource = "static"
)

// JDSources lists the job description sources in the order they are scanned.
var JDSources = []SkillSource{SourceRequirement, SourceResponsibility, SourceNiceToHave}

// Rank orders sources for upgrades: requirement > responsibility > nice_to_have > static.
// Unknown sources rank below static.
func (s SkillSource) Rank() int {
	switch s {
	case SourceRequirement:
		return 3
	case SourceResponsibility:
		return 2
	case SourceNiceToHave:
		return 1
	case SourceStatic:
		return 0
	default:
		return -1
	}
}

// BaseScore is the score a skill starts from before occurrence bonuses.
func (s SkillSource) BaseScore() float64 {
	if r := s.Rank(); r > 0 {
		return float64(r)
	}
	return 0
}

// Valid reports whether s is one of the known sources.
func (s SkillSource) Valid() bool {
	return s.Rank() >= 0
}

// Skill is a named technical skill with provenance.
type Skill struct {
	Name   string      `json:"name" validate:"required"`
	Source SkillSource `json:"source" validate:"omitempty,oneof=requirement responsibility nice_to_have static"`
	Locked bool        `json:"locked"`
	Score  *float64    `json:"score,omitempty"`
}

// ScoreValue returns the score, treating an unset score as 0.
func (s Skill) ScoreValue() float64 {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}

// CourseworkItem is a named course. Duplicates are kept.
type CourseworkItem struct {
	Name  string   `json:"name" validate:"required"`
	Score *float64 `json:"score,omitempty"`
}

// ScoreValue returns the score, treating an unset score as 0.
func (c CourseworkItem) ScoreValue() float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
