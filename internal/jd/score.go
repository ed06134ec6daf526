package jd

import (
	"sort"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// MaxCoursework is the number of coursework entries kept after ranking.
const MaxCoursework = 6

const occurrenceWeight = 0.1

// ScoreAndRank scores each skill as its source's base score plus 0.1 per
// case-insensitive occurrence of its name in text, then sorts by score and
// name, both descending. The input slice is not modified.
func ScoreAndRank(skills []types.Skill, text string) []types.Skill {
	lower := strings.ToLower(text)
	out := make([]types.Skill, len(skills))
	for i, s := range skills {
		occurrences := strings.Count(lower, strings.ToLower(s.Name))
		s.Score = types.Float(s.Source.BaseScore() + float64(occurrences)*occurrenceWeight)
		out[i] = s
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].ScoreValue(), out[j].ScoreValue()
		if si != sj {
			return si > sj
		}
		return out[i].Name > out[j].Name
	})

	return out
}

// TopCoursework sorts items by score, descending and stable, and keeps the first limit.
func TopCoursework(items []types.CourseworkItem, limit int) []types.CourseworkItem {
	out := make([]types.CourseworkItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreValue() > out[j].ScoreValue()
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
