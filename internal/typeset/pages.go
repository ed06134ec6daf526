package typeset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoPageCounter is returned when neither pdfinfo nor ghostscript is installed.
var ErrNoPageCounter = errors.New("neither pdfinfo nor ghostscript available")

// PageCounter counts pages with pdfinfo, falling back to ghostscript.
type PageCounter struct {
	// Pdfinfo and Ghostscript override the executables looked up in PATH.
	Pdfinfo     string
	Ghostscript string
}

// CountPages returns the number of pages in pdf.
func (pc PageCounter) CountPages(ctx context.Context, pdf []byte) (int, error) {
	dir, err := os.MkdirTemp("", "pages-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write PDF: %w", err)
	}

	pdfinfoErr := errNotFound
	if bin, err := exec.LookPath(firstNonEmpty(pc.Pdfinfo, "pdfinfo")); err == nil {
		count, err := countWithPdfinfo(ctx, bin, path)
		if err == nil {
			return count, nil
		}
		pdfinfoErr = err
	}

	if bin, err := exec.LookPath(firstNonEmpty(pc.Ghostscript, "gs")); err == nil {
		return countWithGhostscript(ctx, bin, path)
	}

	if errors.Is(pdfinfoErr, errNotFound) {
		return 0, ErrNoPageCounter
	}
	return 0, pdfinfoErr
}

var errNotFound = errors.New("not found")

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// countWithPdfinfo parses the "Pages: N" line of pdfinfo output.
func countWithPdfinfo(ctx context.Context, bin, path string) (int, error) {
	output, err := exec.CommandContext(ctx, bin, path).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo command failed: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			if count, err := strconv.Atoi(fields[1]); err == nil {
				return count, nil
			}
		}
	}
	return 0, fmt.Errorf("could not parse page count from pdfinfo output")
}

func countWithGhostscript(ctx context.Context, bin, path string) (int, error) {
	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", path)
	output, err := exec.CommandContext(ctx, bin, "-q", "-dNODISPLAY", "-dNOSAFER", "-c", script).Output()
	if err != nil {
		return 0, fmt.Errorf("ghostscript command failed: %w", err)
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("could not parse page count from ghostscript output: %q", strings.TrimSpace(string(output)))
	}
	return count, nil
}
