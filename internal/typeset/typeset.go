// Package typeset turns LaTeX source into a PDF with an external TeX engine.
package typeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Engines.
const (
	EngineTectonic = "tectonic"
	EnginePDFLaTeX = "pdflatex"
)

// DefaultTimeout is used when a Compiler has no timeout.
const DefaultTimeout = 60 * time.Second

const sourceName = "resume.tex"

// CompileError is returned when the engine fails or produces no PDF.
type CompileError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compile error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("compile error: %s", e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Compiler runs a TeX engine in a scratch directory.
type Compiler struct {
	Engine  string
	Timeout time.Duration
	// Binary overrides the executable looked up in PATH.
	Binary string
}

// New returns a Compiler for engine. An empty engine selects tectonic.
func New(engine string, timeout time.Duration) (*Compiler, error) {
	switch engine {
	case "":
		engine = EngineTectonic
	case EngineTectonic, EnginePDFLaTeX:
	default:
		return nil, fmt.Errorf("unsupported typesetter: %q", engine)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Compiler{Engine: engine, Timeout: timeout}, nil
}

func (c *Compiler) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return c.Engine
}

func (c *Compiler) args(workDir, texPath string) []string {
	if c.Engine == EnginePDFLaTeX {
		return []string{"-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, texPath}
	}
	return []string{"--outdir", workDir, texPath}
}

// Compile typesets latex and returns the PDF bytes.
func (c *Compiler) Compile(ctx context.Context, latex string) ([]byte, error) {
	bin, err := exec.LookPath(c.binary())
	if err != nil {
		return nil, &CompileError{
			Message: fmt.Sprintf("%s not found in PATH", c.binary()),
			Cause:   err,
		}
	}

	workDir, err := os.MkdirTemp("", "typeset-*")
	if err != nil {
		return nil, &CompileError{Message: "failed to create working directory", Cause: err}
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	texPath := filepath.Join(workDir, sourceName)
	if err := os.WriteFile(texPath, []byte(latex), 0o644); err != nil {
		return nil, &CompileError{Message: "failed to write LaTeX source", Cause: err}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, c.args(workDir, texPath)...)
	cmd.Dir = workDir
	cmd.WaitDelay = 2 * time.Second
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &CompileError{
			Message:   fmt.Sprintf("%s timed out after %s", c.Engine, timeout),
			LogOutput: output.String(),
			Cause:     ctx.Err(),
		}
	}
	if runErr != nil {
		return nil, &CompileError{
			Message:   fmt.Sprintf("%s failed", c.Engine),
			LogOutput: output.String(),
			Cause:     runErr,
		}
	}

	pdf, err := os.ReadFile(filepath.Join(workDir, "resume.pdf"))
	if err != nil {
		return nil, &CompileError{
			Message:   "PDF was not generated",
			LogOutput: output.String(),
			Cause:     err,
		}
	}
	return pdf, nil
}
