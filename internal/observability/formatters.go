// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// PrintAnalysis outputs span coverage, the top ranked skills and coursework.
func (p *Printer) PrintAnalysis(analysis *types.Analysis, text string) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	spans := analysis.Spans
	sb.WriteString(fmt.Sprintf("Requirements:     %d span(s)\n", len(spans.Requirements)))
	sb.WriteString(fmt.Sprintf("Responsibilities: %d span(s)\n", len(spans.Responsibilities)))
	sb.WriteString(fmt.Sprintf("Nice-to-haves:    %d span(s)\n", len(spans.NiceToHaves)))

	runes := []rune(text)
	for _, s := range spans.Requirements {
		if s.Start() >= 0 && s.End() <= len(runes) && s.Start() < s.End() {
			first := strings.TrimSpace(strings.SplitN(string(runes[s.Start():s.End()]), "\n", 2)[0])
			sb.WriteString(fmt.Sprintf("First requirement: %q\n", first))
			break
		}
	}
	sb.WriteString("\n")

	if len(analysis.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(analysis.Skills)))
		count := min(len(analysis.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := analysis.Skills[i]
			sb.WriteString(fmt.Sprintf("  #%d %s  %.2f  [%s]\n", i+1, s.Name, s.ScoreValue(), s.Source))
		}
		if len(analysis.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Skills)-maxItemsToShow))
		}
	} else {
		sb.WriteString("Skills: none found\n")
	}

	if len(analysis.Coursework) > 0 {
		sb.WriteString("\nCoursework:\n")
		for _, c := range analysis.Coursework {
			sb.WriteString(fmt.Sprintf("  • %s  %.2f\n", c.Name, c.ScoreValue()))
		}
	}

	p.printBox("JOB DESCRIPTION ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintParsedResume outputs the sections found and the skills and coursework lists.
func (p *Printer) PrintParsedResume(parsed *types.ParsedResume) {
	if parsed == nil {
		return
	}

	var sb strings.Builder
	if len(parsed.Sections) > 0 {
		names := make([]string, 0, len(parsed.Sections))
		for name := range parsed.Sections {
			names = append(names, name)
		}
		slices.Sort(names)
		sb.WriteString(fmt.Sprintf("Sections: %s\n\n", strings.Join(names, ", ")))
	} else {
		sb.WriteString("Sections: none found\n\n")
	}

	sb.WriteString(fmt.Sprintf("Technical skills (%d):\n", len(parsed.TechnicalSkills)))
	for _, s := range parsed.TechnicalSkills {
		marker := ""
		if s.Locked {
			marker = "  (locked)"
		}
		sb.WriteString(fmt.Sprintf("  • %s%s\n", s.Name, marker))
	}

	sb.WriteString(fmt.Sprintf("\nCoursework (%d):\n", len(parsed.RelevantCoursework)))
	for _, c := range parsed.RelevantCoursework {
		sb.WriteString(fmt.Sprintf("  • %s\n", c.Name))
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMessage outputs a simple status message
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintMessage(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
