// Package textmatch runs backtracking regular expressions over text and reports
// match positions as code point offsets.
//
// The job description and LaTeX patterns need look-ahead, which RE2 does not
// support, so matching is done with regexp2. regexp2 indexes runes rather than
// bytes, which is also the offset unit spans are persisted in.
package textmatch

import (
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single match attempt.
const MatchTimeout = 2 * time.Second

// Options used by the section patterns: case-insensitive, '.' matches newline.
const (
	IgnoreCaseDotAll = regexp2.IgnoreCase | regexp2.Singleline
	DotAll           = regexp2.Singleline
	IgnoreCase       = regexp2.IgnoreCase
	Multiline        = regexp2.Multiline
	None             = regexp2.None
)

// Range is a half-open [Start, End) range of rune offsets.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Match is one regex match. Groups[0] is the whole match.
type Match struct {
	Groups []Range
	has    []bool
}

// Group returns the range of capture group i and whether it participated.
func (m Match) Group(i int) (Range, bool) {
	if i < 0 || i >= len(m.Groups) {
		return Range{}, false
	}
	return m.Groups[i], m.has[i]
}

// Pattern is a compiled expression.
type Pattern struct {
	re *regexp2.Regexp
}

// MustCompile compiles expr or panics. Patterns are package-level constants,
// so a failure is a programming error.
func MustCompile(expr string, opts regexp2.RegexOptions) *Pattern {
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = MatchTimeout
	return &Pattern{re: re}
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// FindAll returns every non-overlapping match in text, scanning left to right.
// A match timeout ends the scan early; matches found so far are returned.
func (p *Pattern) FindAll(text string) []Match {
	var out []Match
	m, err := p.re.FindStringMatch(text)
	for err == nil && m != nil {
		out = append(out, convert(m))
		m, err = p.re.FindNextMatch(m)
	}
	return out
}

// FindFirst returns the leftmost match in text.
func (p *Pattern) FindFirst(text string) (Match, bool) {
	m, err := p.re.FindStringMatch(text)
	if err != nil || m == nil {
		return Match{}, false
	}
	return convert(m), true
}

// MatchString reports whether text contains a match.
func (p *Pattern) MatchString(text string) bool {
	ok, err := p.re.MatchString(text)
	return err == nil && ok
}

func convert(m *regexp2.Match) Match {
	groups := m.Groups()
	out := Match{
		Groups: make([]Range, len(groups)),
		has:    make([]bool, len(groups)),
	}
	for i, g := range groups {
		if len(g.Captures) == 0 {
			continue
		}
		out.Groups[i] = Range{Start: g.Index, End: g.Index + g.Length}
		out.has[i] = true
	}
	return out
}

// Text is a string indexed by rune offset.
type Text struct {
	runes []rune
}

// NewText converts s for rune-offset slicing.
func NewText(s string) Text {
	return Text{runes: []rune(s)}
}

// Len returns the length in runes.
func (t Text) Len() int {
	return len(t.runes)
}

// Slice returns the substring for r, clamped to the text bounds.
func (t Text) Slice(r Range) string {
	r = t.Clamp(r)
	return string(t.runes[r.Start:r.End])
}

// Clamp restricts r to [0, Len()] and makes it non-inverted.
func (t Text) Clamp(r Range) Range {
	n := len(t.runes)
	r.Start = min(max(r.Start, 0), n)
	r.End = min(max(r.End, 0), n)
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// Replace returns the text with r replaced by repl.
func (t Text) Replace(r Range, repl string) string {
	r = t.Clamp(r)
	return string(t.runes[:r.Start]) + repl + string(t.runes[r.End:])
}

// String returns the full text.
func (t Text) String() string {
	return string(t.runes)
}
