package latex

import (
	"strings"
	"testing"

	"github.com/jonathan/job-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skills(names ...string) []types.Skill {
	out := make([]types.Skill, len(names))
	for i, n := range names {
		out[i] = types.Skill{Name: n, Source: types.SourceStatic}
	}
	return out
}

func courses(names ...string) []types.CourseworkItem {
	out := make([]types.CourseworkItem, len(names))
	for i, n := range names {
		out[i] = types.CourseworkItem{Name: n}
	}
	return out
}

func TestRebuild_ReplacesBothBlocks(t *testing.T) {
	parsed := Parse(masterResume)
	out := Rebuild(masterResume, parsed, skills("Go", "", "Kubernetes"), courses("Distributed Systems"))

	want := strings.Replace(masterResume,
		`\textbf{Skills}: Python, Go, Docker, PostgreSQL`,
		`\textbf{Skills}: \textbf{Go}, \textbf{Kubernetes}`, 1)
	want = strings.Replace(want,
		"\\item Algorithms\n\\item Operating Systems",
		"\\item Distributed Systems", 1)
	assert.Equal(t, want, out)

	reparsed := Parse(out)
	assert.Equal(t, []string{"Go", "Kubernetes"}, skillNames(reparsed.TechnicalSkills))
	assert.Equal(t, []string{"Distributed Systems"}, courseNames(reparsed.RelevantCoursework))
}

func TestRebuild_RoundTrip(t *testing.T) {
	sources := []string{
		masterResume,
		"\\textbf{Technical Skills}: \\textbf{Go}, \\textbf{Rust}\n\\textbf{Coursework}\n- Algorithms\n- Databases\n",
		"\\section{Coursework}\nAlgorithms\nCompilers\n\\section{Skills}\n\\textbf{Skills} Java, C\\#\n",
	}

	for _, src := range sources {
		parsed := Parse(src)
		out := Rebuild(src, parsed, parsed.TechnicalSkills, parsed.RelevantCoursework)
		again := Parse(out)

		assert.Equal(t, skillNames(parsed.TechnicalSkills), skillNames(again.TechnicalSkills), src)
		assert.Equal(t, courseNames(parsed.RelevantCoursework), courseNames(again.RelevantCoursework), src)
		assert.Equal(t, parsed.Sections["Projects"], again.Sections["Projects"], src)
	}
}

func TestRebuild_NoBlocksIsIdentity(t *testing.T) {
	src := "\\section{Experience}\nBuilt things.\n\\textbf{Awards}: none\n"
	out := Rebuild(src, Parse(src), skills("Go"), courses("Algorithms"))
	assert.Equal(t, src, out)
}

func TestRebuild_EmptySelectionLeavesBlocks(t *testing.T) {
	out := Rebuild(masterResume, Parse(masterResume), skills("", "  "), nil)
	assert.Equal(t, masterResume, out)
}

func TestRebuild_CourseworkLimitedToFirstSix(t *testing.T) {
	src := "\\section{Coursework}\n\\begin{itemize}\n\\item Old\n\\end{itemize}\n"
	out := Rebuild(src, Parse(src), nil, courses("A1", "A2", "", "A4", "A5", "A6", "A7"))

	assert.Equal(t, []string{"A1", "A2", "A4", "A5", "A6"}, courseNames(Parse(out).RelevantCoursework))
	assert.Contains(t, out, "\\begin{itemize}\n\\item A1\n")
	assert.Contains(t, out, "\\item A6\n\\end{itemize}")
}

func TestRebuild_EmptyBodies(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		skills     []types.Skill
		coursework []types.CourseworkItem
		want       string
	}{
		{
			name:   "skills heading with no body",
			src:    "\\textbf{Technical Skills}\n\\section{Next}",
			skills: skills("Go"),
			want:   "\\textbf{Technical Skills} \\textbf{Go}\n\\section{Next}",
		},
		{
			name:       "empty list environment",
			src:        "\\section{Coursework}\n\\begin{itemize}\n\\end{itemize}\n",
			coursework: courses("Algorithms"),
			want:       "\\section{Coursework}\n\\begin{itemize}\n\\item Algorithms\n\\end{itemize}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebuild(tt.src, types.ParsedResume{}, tt.skills, tt.coursework))
		})
	}
}

func TestRebuild_KeepsSurroundingMarkup(t *testing.T) {
	src := "\\textbf{Skills}: Python, Go \\\\\n\\section{Next}"
	out := Rebuild(src, Parse(src), skills("Rust"), nil)
	assert.Equal(t, "\\textbf{Skills}: \\textbf{Rust} \\\\\n\\section{Next}", out)
}

func TestRebuild_SameLineBoldHeadingSurvives(t *testing.T) {
	src := "\\textbf{Skills}: Python, Go \\quad \\textbf{Honors}: Dean's List\n\\section{Projects}\nx\n"

	out := Rebuild(src, Parse(src), skills("Rust"), nil)
	assert.Equal(t, "\\textbf{Skills}: \\textbf{Rust} \\quad \\textbf{Honors}: Dean's List\n\\section{Projects}\nx\n", out)
	assert.Equal(t, []string{"Rust"}, skillNames(Parse(out).TechnicalSkills))
}

func TestRebuild_OnlyBlockContentChanges(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		content    string
		skills     []types.Skill
		coursework []types.CourseworkItem
		want       string
	}{
		{
			name:    "master resume skills",
			src:     masterResume,
			content: "Python, Go, Docker, PostgreSQL",
			skills:  skills("Rust"),
			want:    `\textbf{Rust}`,
		},
		{
			name:    "skills before hfill heading",
			src:     "\\textbf{Skills}: Go, Rust \\hfill \\textbf{Languages}: English\nEnd\n",
			content: "Go, Rust",
			skills:  skills("Zig", "Odin"),
			want:    `\textbf{Zig}, \textbf{Odin}`,
		},
		{
			name:    "bold items before line break heading",
			src:     "\\textbf{Skills}: \\textbf{Go}, \\textbf{Rust} \\\\ \\textbf{Tools}: Vim\n",
			content: `\textbf{Go}, \textbf{Rust}`,
			skills:  skills("C"),
			want:    `\textbf{C}`,
		},
		{
			name:       "coursework before quad heading",
			src:        "\\section{Coursework}\nAlgorithms \\quad \\textbf{GPA}: 3.9\n\\section{Next}\n",
			content:    "Algorithms",
			coursework: courses("Compilers"),
			want:       `\item Compilers`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := strings.Index(tt.src, tt.content)
			require.GreaterOrEqual(t, at, 0)
			prefix, suffix := tt.src[:at], tt.src[at+len(tt.content):]

			out := Rebuild(tt.src, Parse(tt.src), tt.skills, tt.coursework)
			assert.Equal(t, prefix+tt.want+suffix, out)
		})
	}
}

func TestRebuild_UsesLiveSource(t *testing.T) {
	stale := Parse("\\textbf{Skills}: Cobol\n")
	src := "\\section{Intro}\nhi\n\\textbf{Skills}: Go\n"

	out := Rebuild(src, stale, skills("Rust"), nil)
	assert.Equal(t, "\\section{Intro}\nhi\n\\textbf{Skills}: \\textbf{Rust}\n", out)
}

func TestRebuilder_Escape(t *testing.T) {
	src := "\\textbf{Skills}: Go\n"

	plain := Rebuild(src, Parse(src), skills("C#", "R&D"), nil)
	assert.Contains(t, plain, `\textbf{C#}`)

	escaped := Rebuilder{Escape: true}.Rebuild(src, Parse(src), skills("C#", `R\&D`), nil)
	assert.Contains(t, escaped, `\textbf{C\#}, \textbf{R\&D}`)
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Go", "Go"},
		{"C#", `C\#`},
		{`C\#`, `C\#`},
		{"100% & $5 snake_case", `100\% \& \$5 snake\_case`},
		{"résumé", "résumé"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := EscapeText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, EscapeText(got))
		})
	}
}
