package main

import (
	"fmt"

	"github.com/jonathan/job-assistant/internal/latex"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/spf13/cobra"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Parse a LaTeX resume into sections, skills and coursework",
	Long:  "Parse a LaTeX master resume and print the ParsedResume JSON that the API stores for it.",
	RunE:  runParseResume,
}

var (
	parseResumeInputFile  string
	parseResumeOutputFile string
	parseResumeVerbose    bool
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumeInputFile, "file", "f", "", "Path to resume .tex file (- for stdin)")
	parseResumeCmd.Flags().StringVarP(&parseResumeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	parseResumeCmd.Flags().BoolVarP(&parseResumeVerbose, "verbose", "v", false, "Print a summary to stderr")
	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	source, err := readInput(cmd.InOrStdin(), parseResumeInputFile)
	if err != nil {
		return err
	}

	parsed := latex.NewParser(nil).Parse(source)
	if parseResumeVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintParsedResume(&parsed)
	}

	out, err := marshalIndent(parsed)
	if err != nil {
		return err
	}
	if err := schemas.Validate(schemas.ParsedResume, string(out)); err != nil {
		return fmt.Errorf("parsed resume does not validate against schema: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), parseResumeOutputFile, out)
}
