package main

import (
	"fmt"
	"os"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/typeset"
	"github.com/spf13/cobra"
)

var compileResumeCmd = &cobra.Command{
	Use:   "compile-resume",
	Short: "Typeset a LaTeX resume to PDF locally",
	RunE:  runCompileResume,
}

var (
	compileInputFile  string
	compileOutputFile string
	compileEngine     string
)

func init() {
	compileResumeCmd.Flags().StringVarP(&compileInputFile, "file", "f", "", "Path to resume .tex file (- for stdin)")
	compileResumeCmd.Flags().StringVarP(&compileOutputFile, "out", "o", "resume.pdf", "Path to output PDF")
	compileResumeCmd.Flags().StringVar(&compileEngine, "engine", "", "tectonic or pdflatex (default TYPESETTER)")
	rootCmd.AddCommand(compileResumeCmd)
}

func runCompileResume(cmd *cobra.Command, _ []string) error {
	source, err := readInput(cmd.InOrStdin(), compileInputFile)
	if err != nil {
		return err
	}

	engine := compileEngine
	if engine == "" {
		engine = os.Getenv("TYPESETTER")
	}
	if engine == "" {
		engine = config.TypesetterTectonic
	}

	compiler, err := typeset.New(engine, 0)
	if err != nil {
		return err
	}

	pdf, err := compiler.Compile(cmd.Context(), source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(compileOutputFile, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", compileOutputFile, len(pdf))
	return nil
}
