package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/job-assistant/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `\documentclass{article}
\begin{document}
\section{Education}
\textbf{Relevant Coursework}
\begin{itemize}
\item Algorithms
\item Operating Systems
\end{itemize}
\section{Technical Skills}
\textbf{Skills}: Python, Go, Docker
\end{document}
`

const sampleJD = `Senior Backend Engineer

Requirements:
- 5+ years of experience with Python and PostgreSQL
- Familiarity with Docker and Kubernetes

Nice to have:
- Coursework in Distributed Systems or Machine Learning
`

// execute runs the root command in-process and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeFull(t, stdin, args...)
	return stdout, err
}

func executeFull(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzeJD(t *testing.T) {
	path := writeTemp(t, "jd.txt", sampleJD)

	out, err := execute(t, "", "analyze-jd", "--file", path, "--no-llm")
	require.NoError(t, err)

	var analysis types.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.NotEmpty(t, analysis.Spans.Requirements)

	names := map[string]bool{}
	for _, s := range analysis.Skills {
		names[s.Name] = true
	}
	assert.True(t, names["Python"], "skills: %v", analysis.Skills)
	assert.True(t, names["PostgreSQL"], "skills: %v", analysis.Skills)
}

func TestAnalyzeJD_VerboseSummary(t *testing.T) {
	path := writeTemp(t, "jd.txt", sampleJD)

	stdout, stderr, err := executeFull(t, "", "analyze-jd", "--file", path, "--no-llm", "--verbose")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stderr, "JOB DESCRIPTION ANALYSIS")
}

func TestAnalyzeJD_Stdin(t *testing.T) {
	out, err := execute(t, sampleJD, "analyze-jd", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"spans"`)
}

func TestAnalyzeJD_RequiresFile(t *testing.T) {
	_, err := execute(t, "", "analyze-jd")
	assert.ErrorContains(t, err, "--file is required")

	_, err = execute(t, "", "analyze-jd", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read input file")
}

func TestParseResume(t *testing.T) {
	path := writeTemp(t, "resume.tex", sampleResume)
	outPath := filepath.Join(t.TempDir(), "parsed.json")

	stdout, err := execute(t, "", "parse-resume", "--file", path, "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var parsed types.ParsedResume
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Len(t, parsed.TechnicalSkills, 3)
	assert.Len(t, parsed.RelevantCoursework, 2)
	assert.Contains(t, parsed.Sections, "Technical Skills")
}

func TestParseResume_VerboseSummary(t *testing.T) {
	path := writeTemp(t, "resume.tex", sampleResume)

	_, stderr, err := executeFull(t, "", "parse-resume", "--file", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "PARSED RESUME")
	assert.Contains(t, stderr, "Technical skills (3)")
}

func TestRebuildResume(t *testing.T) {
	path := writeTemp(t, "resume.tex", sampleResume)
	selection := writeTemp(t, "selection.json", `{"skills": [{"name": "Go"}, {"name": "C#"}], "coursework": [{"name": "Compilers"}]}`)

	out, err := execute(t, "", "rebuild-resume", "--file", path, "--selection", selection, "--escape")
	require.NoError(t, err)
	assert.Contains(t, out, `\textbf{Skills}: \textbf{Go}, \textbf{C\#}`)
	assert.Contains(t, out, `\item Compilers`)
	assert.NotContains(t, out, "Operating Systems")
	assert.Contains(t, out, `\section{Education}`)
}

func TestRebuildResume_InvalidSelection(t *testing.T) {
	path := writeTemp(t, "resume.tex", sampleResume)
	selection := writeTemp(t, "selection.json", `{"skills": [{"name": ""}]}`)

	_, err := execute(t, "", "rebuild-resume", "--file", path, "--selection", selection)
	assert.ErrorContains(t, err, "invalid selection")

	_, err = execute(t, "", "rebuild-resume", "--file", path)
	assert.ErrorContains(t, err, "selection")
}

func TestCompileResume_UnknownEngine(t *testing.T) {
	path := writeTemp(t, "resume.tex", sampleResume)
	_, err := execute(t, "", "compile-resume", "--file", path, "--engine", "lualatex")
	assert.ErrorContains(t, err, "unsupported typesetter")
}

func TestServe_RequiresConfiguration(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_JWT_SECRET", "")

	_, err := execute(t, "", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "SUPABASE_JWT_SECRET")
}

func TestWorker_RequiresConfiguration(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_KEY", "")
	t.Setenv("SUPABASE_JWT_SECRET", "")

	_, err := execute(t, "", "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}
