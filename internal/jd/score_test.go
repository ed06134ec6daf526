package jd

import (
	"testing"

	"github.com/jonathan/job-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAndRank_SampleJD(t *testing.T) {
	skills := []types.Skill{
		{Name: "Docker", Source: types.SourceNiceToHave},
		{Name: "Python", Source: types.SourceRequirement},
	}

	ranked := ScoreAndRank(skills, sampleJD)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Python", ranked[0].Name)
	assert.InDelta(t, 3.2, ranked[0].ScoreValue(), 1e-9)
	assert.Equal(t, "Docker", ranked[1].Name)
	assert.InDelta(t, 1.1, ranked[1].ScoreValue(), 1e-9)

	assert.Nil(t, skills[0].Score, "input is not modified")
}

func TestScoreAndRank_TiesBreakByNameDescending(t *testing.T) {
	skills := []types.Skill{
		{Name: "Go", Source: types.SourceStatic},
		{Name: "Rust", Source: types.SourceStatic},
		{Name: "Java", Source: types.SourceStatic},
	}

	ranked := ScoreAndRank(skills, "")
	assert.Equal(t, []string{"Rust", "Java", "Go"}, names(ranked))
	for _, s := range ranked {
		assert.Equal(t, 0.0, s.ScoreValue())
	}
}

func TestScoreAndRank_OccurrencesAreCaseInsensitive(t *testing.T) {
	ranked := ScoreAndRank([]types.Skill{{Name: "AWS", Source: types.SourceResponsibility}}, "aws, AWS and Aws")
	require.Len(t, ranked, 1)
	assert.InDelta(t, 2.3, ranked[0].ScoreValue(), 1e-9)
}

func TestScoreAndRank_Idempotent(t *testing.T) {
	skills := []types.Skill{
		{Name: "Docker", Source: types.SourceNiceToHave},
		{Name: "Kubernetes", Source: types.SourceResponsibility},
		{Name: "Python", Source: types.SourceRequirement},
		{Name: "Go", Source: types.SourceRequirement},
	}
	text := "Python, Go, Kubernetes, Docker and more Python"

	once := ScoreAndRank(skills, text)
	twice := ScoreAndRank(once, text)
	assert.Equal(t, once, twice)
}

func TestScoreAndRank_Empty(t *testing.T) {
	assert.Empty(t, ScoreAndRank(nil, "anything"))
}

func TestTopCoursework(t *testing.T) {
	items := []types.CourseworkItem{
		{Name: "A", Score: types.Float(1)},
		{Name: "B", Score: types.Float(5)},
		{Name: "C", Score: types.Float(3)},
		{Name: "D", Score: types.Float(3)},
		{Name: "E"},
		{Name: "F", Score: types.Float(4)},
		{Name: "G", Score: types.Float(2)},
		{Name: "H", Score: types.Float(6)},
	}

	top := TopCoursework(items, MaxCoursework)
	assert.Equal(t, []string{"H", "B", "F", "C", "D", "G"}, courseNames(top))
	assert.Equal(t, "A", items[0].Name, "input is not reordered")
}

func TestTopCoursework_Short(t *testing.T) {
	items := []types.CourseworkItem{{Name: "Only", Score: types.Float(1)}}
	assert.Equal(t, items, TopCoursework(items, MaxCoursework))
	assert.Empty(t, TopCoursework(nil, MaxCoursework))
	assert.Empty(t, TopCoursework(items, 0))
}
