// Package pdf extracts page-indexed text from PDF files using pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// pdfToolName is the poppler command used for extraction.
const pdfToolName = "pdftotext"

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor turns a PDF into pages.
// It implements the driven.PageExtractor interface.
type Extractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates an extractor that shells out to pdftotext.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{
		runner:   runner,
		lookPath: exec.LookPath,
	}
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdfToolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext.
func InstallInstructions() string {
	return "pdftotext is required to read PDF files.\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils"
}

// Extract returns the pages of the PDF at path, numbered from 1.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty pdf path", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	if _, err := e.lookPath(pdfToolName); err != nil {
		return nil, ErrPDFToolNotFound
	}

	out, err := e.runner.Run(ctx, pdfToolName, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output at form feeds.
// pdftotext terminates every page, including the last, with a form feed.
func splitPages(text string) []domain.Page {
	parts := strings.Split(text, pageBreak)
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]domain.Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, domain.Page{Number: i + 1, Text: part})
	}
	return pages
}
