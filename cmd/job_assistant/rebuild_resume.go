package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-assistant/internal/latex"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
	"github.com/spf13/cobra"
)

var rebuildResumeCmd = &cobra.Command{
	Use:   "rebuild-resume",
	Short: "Rewrite a resume's skills and coursework from a selection",
	Long: `Rewrite the skills and coursework blocks of a LaTeX resume.

The selection file holds {"skills": [{"name": ...}], "coursework": [{"name": ...}]},
the same shape as the analyze-jd output.`,
	RunE: runRebuildResume,
}

var (
	rebuildInputFile     string
	rebuildSelectionFile string
	rebuildOutputFile    string
	rebuildEscape        bool
)

func init() {
	rebuildResumeCmd.Flags().StringVarP(&rebuildInputFile, "file", "f", "", "Path to master resume .tex file (- for stdin)")
	rebuildResumeCmd.Flags().StringVarP(&rebuildSelectionFile, "selection", "s", "", "Path to selection JSON file")
	rebuildResumeCmd.Flags().StringVarP(&rebuildOutputFile, "out", "o", "", "Path to output .tex file (default stdout)")
	rebuildResumeCmd.Flags().BoolVar(&rebuildEscape, "escape", false, "Escape LaTeX special characters in names")
	_ = rebuildResumeCmd.MarkFlagRequired("selection")
	rootCmd.AddCommand(rebuildResumeCmd)
}

func runRebuildResume(cmd *cobra.Command, _ []string) error {
	master, err := readInput(cmd.InOrStdin(), rebuildInputFile)
	if err != nil {
		return err
	}

	selectionJSON, err := os.ReadFile(rebuildSelectionFile)
	if err != nil {
		return fmt.Errorf("failed to read selection file: %w", err)
	}
	if err := schemas.Validate(schemas.Selection, string(selectionJSON)); err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}

	var selection types.Selection
	if err := json.Unmarshal(selectionJSON, &selection); err != nil {
		return fmt.Errorf("failed to parse selection: %w", err)
	}

	parsed := latex.NewParser(nil).Parse(master)
	rebuilt := latex.Rebuilder{Escape: rebuildEscape}.Rebuild(master, parsed, selection.Skills, selection.Coursework)

	return writeOutput(cmd.OutOrStdout(), rebuildOutputFile, []byte(rebuilt))
}
