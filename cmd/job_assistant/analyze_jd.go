package main

import (
	"fmt"
	"os"

	"github.com/jonathan/job-assistant/internal/jd"
	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/spf13/cobra"
)

var analyzeJDCmd = &cobra.Command{
	Use:   "analyze-jd",
	Short: "Extract spans, skills and coursework from a job description",
	Long:  "Run the job description pipeline on a text file and print the analysis as JSON. The LLM segmenter is used when GEMINI_API_KEY is set unless --no-llm is given.",
	RunE:  runAnalyzeJD,
}

var (
	analyzeInputFile  string
	analyzeOutputFile string
	analyzeNoLLM      bool
	analyzeVerbose    bool
)

func init() {
	analyzeJDCmd.Flags().StringVarP(&analyzeInputFile, "file", "f", "", "Path to job description text (- for stdin)")
	analyzeJDCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	analyzeJDCmd.Flags().BoolVar(&analyzeNoLLM, "no-llm", false, "Use rule-based segmentation only")
	analyzeJDCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print pipeline details and a summary to stderr")
	rootCmd.AddCommand(analyzeJDCmd)
}

func runAnalyzeJD(cmd *cobra.Command, _ []string) error {
	text, err := readInput(cmd.InOrStdin(), analyzeInputFile)
	if err != nil {
		return err
	}

	logger := logging.Nop()
	if analyzeVerbose {
		logger = logging.NewDevelopment("debug")
	}

	var oracle jd.SpanOracle
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" && !analyzeNoLLM {
		client, err := llm.NewClient(cmd.Context(), llm.DefaultConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		oracle = jd.NewLLMOracle(client)
	}

	analysis := jd.NewAnalyzer(oracle, logger).Analyze(cmd.Context(), text)
	if analyzeVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintAnalysis(&analysis, text)
	}

	out, err := marshalIndent(analysis)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), analyzeOutputFile, out)
}
