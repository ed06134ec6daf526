// Package latex provides functionality to read and rewrite the structural
// parts of a LaTeX resume: sections, the skills block and the coursework block.
//
// Parsing never fails. Markup that is missing or malformed yields empty results
// for that construct, and rebuilding silently leaves such regions alone.
package latex

import (
	"strings"

	"github.com/jonathan/job-assistant/internal/taxonomy"
	"github.com/jonathan/job-assistant/internal/textmatch"
	"github.com/jonathan/job-assistant/internal/types"
)

// Block bodies end at the next \section, at a \textbf that starts a line, at a
// bold heading on the same line (\textbf{Title}: with any spacing commands in
// front of it), or at the end of the source. A bold item not followed by a
// colon stays inside the body.
const blockEnd = `(?=` + inlineSpacing + `[ \t]*\\textbf\{[^}]*\}[ \t]*:|\\section|\n[ \t]*\\textbf|$)`

// inlineSpacing matches horizontal spacing commands that separate a block body
// from a bold heading on the same line.
const inlineSpacing = `(?:[ \t]*(?:\\q?quad(?![a-zA-Z])|\\hfill(?![a-zA-Z])|\\hspace\*?\{[^}]*\}|~|\\\\))*`

var (
	sectionPattern = textmatch.MustCompile(
		`\\section\*?\{([^}]+)\}(.*?)(?=\\section|$)`,
		textmatch.DotAll,
	)
	skillsBlockPattern = textmatch.MustCompile(
		`\\textbf\{[^}]*skill[^}]*\}(.*?)`+blockEnd,
		textmatch.IgnoreCaseDotAll,
	)
	courseworkBlockPattern = textmatch.MustCompile(
		`(?:\\textbf\{|\\section\*?\{)[^}]*coursework[^}]*\}(.*?)`+blockEnd,
		textmatch.IgnoreCaseDotAll,
	)

	boldItemPattern = textmatch.MustCompile(`\\textbf\{([^}]+)\}`, textmatch.None)
	listItemPattern = textmatch.MustCompile(`(?:\\item(?![a-zA-Z])|^[ \t]*[-•])[ \t]*([^\n]+)`, textmatch.Multiline)
)

// projectSections are the section names scanned for locking keywords.
var projectSections = []string{"Projects", "PROJECTS"}

// itemStrategy pulls candidate names out of a block body. Strategies are tried
// in order and the first that yields any candidate wins.
type itemStrategy struct {
	name    string
	extract func(body string) []string
}

var skillStrategies = []itemStrategy{
	{name: "bold-items", extract: boldItems},
	{name: "delimited", extract: delimitedItems},
}

var courseworkStrategies = []itemStrategy{
	{name: "list-markers", extract: listItems},
	{name: "plain-lines", extract: plainLines},
}

// Parser extracts a ParsedResume from LaTeX source.
type Parser struct {
	keywords []string
}

// NewParser creates a parser that locks skills named by tax's project keywords.
// A nil taxonomy uses taxonomy.Default.
func NewParser(tax *taxonomy.Taxonomy) *Parser {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Parser{keywords: tax.ProjectKeywords()}
}

// Parse parses source with the default taxonomy.
func Parse(source string) types.ParsedResume {
	return NewParser(nil).Parse(source)
}

// Parse returns the sections, technical skills and relevant coursework of source.
// Skills start as static, unlocked and scored 0; a skill is locked when the
// Projects section mentions it as a project keyword.
func (p *Parser) Parse(source string) types.ParsedResume {
	parsed := types.NewParsedResume()
	parsed.Sections = Sections(source)

	if body, ok := blockBody(skillsBlockPattern, source); ok {
		for _, name := range cleanItems(firstSuccess(skillStrategies, body)) {
			parsed.TechnicalSkills = append(parsed.TechnicalSkills, types.Skill{
				Name:   name,
				Source: types.SourceStatic,
				Score:  types.Float(0),
			})
		}
	}

	if body, ok := blockBody(courseworkBlockPattern, source); ok {
		for _, name := range cleanItems(firstSuccess(courseworkStrategies, body)) {
			parsed.RelevantCoursework = append(parsed.RelevantCoursework, types.CourseworkItem{
				Name:  name,
				Score: types.Float(0),
			})
		}
	}

	p.lockProjectSkills(parsed.Sections, parsed.TechnicalSkills)
	return parsed
}

// Sections maps each \section title to its trimmed body. A repeated title keeps
// the body of its last occurrence.
func Sections(source string) map[string]string {
	t := textmatch.NewText(source)
	sections := make(map[string]string)
	for _, m := range sectionPattern.FindAll(source) {
		title, _ := m.Group(1)
		body, _ := m.Group(2)
		sections[strings.TrimSpace(t.Slice(title))] = strings.TrimSpace(t.Slice(body))
	}
	return sections
}

func (p *Parser) lockProjectSkills(sections map[string]string, skills []types.Skill) {
	var projects string
	for _, name := range projectSections {
		if body := sections[name]; body != "" {
			projects = body
			break
		}
	}
	if projects == "" {
		return
	}

	lower := strings.ToLower(projects)
	mentioned := make(map[string]bool)
	for _, kw := range p.keywords {
		if k := strings.ToLower(kw); strings.Contains(lower, k) {
			mentioned[k] = true
		}
	}

	for i := range skills {
		if mentioned[strings.ToLower(skills[i].Name)] {
			skills[i].Locked = true
		}
	}
}

// blockBody returns the body of the first match of pattern.
func blockBody(pattern *textmatch.Pattern, source string) (string, bool) {
	r, ok := blockRange(pattern, source)
	if !ok {
		return "", false
	}
	return textmatch.NewText(source).Slice(r), true
}

func blockRange(pattern *textmatch.Pattern, source string) (textmatch.Range, bool) {
	m, ok := pattern.FindFirst(source)
	if !ok {
		return textmatch.Range{}, false
	}
	return m.Group(1)
}

func firstSuccess(strategies []itemStrategy, body string) []string {
	for _, s := range strategies {
		if items := s.extract(body); len(items) > 0 {
			return items
		}
	}
	return nil
}

func boldItems(body string) []string {
	return captures(boldItemPattern, body)
}

func delimitedItems(body string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == '\n' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func listItems(body string) []string {
	return captures(listItemPattern, body)
}

func plainLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, `\`) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func captures(pattern *textmatch.Pattern, body string) []string {
	t := textmatch.NewText(body)
	var out []string
	for _, m := range pattern.FindAll(body) {
		if g, ok := m.Group(1); ok {
			out = append(out, t.Slice(g))
		}
	}
	return out
}

// cleanItems strips surrounding markup residue and drops names of one
// character or less.
func cleanItems(items []string) []string {
	var out []string
	for _, item := range items {
		name := strings.TrimSpace(item)
		name = strings.TrimLeft(name, "{}: \t")
		name = strings.TrimRight(name, `{}\ `+"\t")
		name = strings.TrimSpace(name)
		if len([]rune(name)) <= 1 {
			continue
		}
		out = append(out, name)
	}
	return out
}
