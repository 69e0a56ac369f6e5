package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

func foundTool(string) (string, error) { return "/usr/bin/pdftotext", nil }

func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0600))
	return path
}

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.IsType(t, execRunner{}, e.runner)
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("test output")}
	e := NewWithRunner(runner)
	require.NotNil(t, e)
	assert.Equal(t, runner, e.runner)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.PageExtractor = (*Extractor)(nil)
}

func TestExtract_SplitsPages(t *testing.T) {
	runner := &mockRunner{output: []byte("cover\f<SG1> rule one\f<SG2> rule two\f")}
	e := NewWithRunner(runner)
	e.lookPath = foundTool
	path := writeFakePDF(t)

	pages, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	expected := []domain.Page{
		{Number: 1, Text: "cover"},
		{Number: 2, Text: "<SG1> rule one"},
		{Number: 3, Text: "<SG2> rule two"},
	}
	assert.Equal(t, expected, pages)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, []string{"-enc", "UTF-8", path, "-"}, runner.args)
}

func TestExtract_KeepsEmptyInnerPages(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("a\f\fc\f")})
	e.lookPath = foundTool

	pages, err := e.Extract(context.Background(), writeFakePDF(t))
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 3, pages[2].Number)
	assert.Empty(t, pages[1].Text)
}

func TestExtract_RunnerError(t *testing.T) {
	e := NewWithRunner(&mockRunner{err: errors.New("pdftotext crashed")})
	e.lookPath = foundTool

	pages, err := e.Extract(context.Background(), writeFakePDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, pages)
}

func TestExtract_ToolMissing(t *testing.T) {
	e := NewWithRunner(&mockRunner{})
	e.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := e.Extract(context.Background(), writeFakePDF(t))
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewWithRunner(&mockRunner{})
	e.lookPath = foundTool

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_EmptyPath(t *testing.T) {
	_, err := New().Extract(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

// Integration test - only runs if pdftotext is available.
func TestExtract_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not available, skipping integration test")
	}
	t.Skip("integration test requires sample PDF file")
}
