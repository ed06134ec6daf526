package jd

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-assistant/internal/textmatch"
	"github.com/jonathan/job-assistant/internal/types"
)

const (
	minCourseNameLen   = 4
	defaultCourseScore = 1.0
)

// Course keywords match in any case; the course name must be a run of
// capitalized words.
var courseworkRules = []struct {
	name    string
	pattern *textmatch.Pattern
}{
	{
		name:    "keyword-in-name",
		pattern: textmatch.MustCompile(`(?i:\b(?:coursework|course|class)[ \t]+in)[ \t]+([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)`, textmatch.None),
	},
	{
		name:    "name-then-keyword",
		pattern: textmatch.MustCompile(`([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)[ \t]+(?i:course|class)\b`, textmatch.None),
	},
}

// ExtractCoursework returns every course name mentioned in text, in order of
// position. Names shorter than four characters are dropped; duplicates are kept.
func ExtractCoursework(text string) []types.CourseworkItem {
	type found struct {
		pos  int
		name string
	}

	t := textmatch.NewText(text)
	var hits []found
	for _, rule := range courseworkRules {
		for _, m := range rule.pattern.FindAll(text) {
			g, ok := m.Group(1)
			if !ok {
				continue
			}
			name := strings.TrimSpace(t.Slice(g))
			if utf8.RuneCountInString(name) < minCourseNameLen {
				continue
			}
			hits = append(hits, found{pos: g.Start, name: name})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	items := make([]types.CourseworkItem, 0, len(hits))
	for _, h := range hits {
		items = append(items, types.CourseworkItem{Name: h.name, Score: types.Float(defaultCourseScore)})
	}
	return items
}
