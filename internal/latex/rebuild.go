package latex

import (
	"strings"

	"github.com/jonathan/job-assistant/internal/textmatch"
	"github.com/jonathan/job-assistant/internal/types"
)

// MaxCoursework is the number of leading coursework entries considered on rebuild.
const MaxCoursework = 6

var listEnvPattern = textmatch.MustCompile(
	`\\begin\{(itemize|enumerate|description)\}(?:\[[^\]]*\])?(.*?)\\end\{\1\}`,
	textmatch.DotAll,
)

// Rebuilder rewrites the skills and coursework blocks of a master resume.
type Rebuilder struct {
	// Escape escapes unescaped # % & $ _ in names before writing them.
	Escape bool
}

// Rebuild rewrites master with the default Rebuilder.
func Rebuild(master string, parsed types.ParsedResume, skills []types.Skill, coursework []types.CourseworkItem) string {
	return Rebuilder{}.Rebuild(master, parsed, skills, coursework)
}

// Rebuild replaces the skills block body with bold names joined by ", " and the
// coursework block body with one \item per name. Both blocks are located in
// master itself, skills first and then coursework in the already rewritten
// text; the parsed structure is not consulted. A block that cannot be found,
// or a selection with no usable names, leaves that part of master unchanged.
// Names are written in the order given.
func (b Rebuilder) Rebuild(master string, _ types.ParsedResume, skills []types.Skill, coursework []types.CourseworkItem) string {
	result := master

	var skillNames []string
	for _, s := range skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			skillNames = append(skillNames, `\textbf{`+b.name(name)+`}`)
		}
	}
	if len(skillNames) > 0 {
		result = replaceBlock(result, skillsBlockPattern, strings.Join(skillNames, ", "), " ")
	}

	var courseLines []string
	for _, c := range coursework[:min(len(coursework), MaxCoursework)] {
		if name := strings.TrimSpace(c.Name); name != "" {
			courseLines = append(courseLines, `\item `+b.name(name))
		}
	}
	if len(courseLines) > 0 {
		result = replaceBlock(result, courseworkBlockPattern, strings.Join(courseLines, "\n"), "\n")
	}

	return result
}

func (b Rebuilder) name(s string) string {
	if b.Escape {
		return EscapeText(s)
	}
	return s
}

// replaceBlock swaps the content region of the first block matched by pattern.
// When the region is empty the content is inserted, preceded by emptyPrefix.
func replaceBlock(source string, pattern *textmatch.Pattern, content, emptyPrefix string) string {
	body, ok := blockRange(pattern, source)
	if !ok {
		return source
	}

	t := textmatch.NewText(source)
	region := contentRegion(t.Slice(body))
	region.Start += body.Start
	region.End += body.Start

	if region.Len() == 0 {
		return t.Replace(region, emptyPrefix+content)
	}
	return t.Replace(region, content)
}

// contentRegion returns the part of a block body that holds its items, relative
// to the body: the inside of a list environment if the body has one, otherwise
// the whole body. Surrounding whitespace, a leading colon and a trailing line
// break are left in place.
func contentRegion(body string) textmatch.Range {
	runes := []rune(body)
	r := textmatch.Range{Start: 0, End: len(runes)}
	if m, ok := listEnvPattern.FindFirst(body); ok {
		if inner, ok := m.Group(2); ok {
			r = inner
		}
	}

	start, end := r.Start, r.End
	for start < end && strings.ContainsRune(" \t\r\n:", runes[start]) {
		start++
	}
	if start == end {
		return textmatch.Range{Start: r.Start, End: r.Start}
	}
	for end > start && strings.ContainsRune(" \t\r\n\\", runes[end-1]) {
		end--
	}
	return textmatch.Range{Start: start, End: end}
}
