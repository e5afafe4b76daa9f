// Package extract converts uploaded PDFs and images into page text using
// the poppler (pdftotext, pdftoppm) and tesseract command-line tools.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// External tools.
const (
	ToolPDFToText = "pdftotext"
	ToolPDFToPPM  = "pdftoppm"
	ToolTesseract = "tesseract"
)

// Diagnostic page texts returned when tools are missing or find nothing.
const (
	PDFUnavailableText = "[PDF text extraction not available - install poppler-utils (pdftotext).]"
	OCRUnavailableText = "[OCR not available - Tesseract not installed. PDF text extraction still works.]"
	NoTextInImageText  = "[No text detected in image]"
)

// ErrToolFailed wraps a failing external command.
var ErrToolFailed = errors.New("extraction tool failed")

// Availability reports which external tools were found on PATH.
type Availability struct {
	PDFText bool
	PDFOCR  bool
	OCR     bool
}

// CheckAvailable looks up the extraction tools on PATH.
func CheckAvailable() Availability {
	return checkWith(exec.LookPath)
}

func checkWith(lookPath func(string) (string, error)) Availability {
	has := func(tool string) bool {
		_, err := lookPath(tool)
		return err == nil
	}
	ocr := has(ToolTesseract)
	return Availability{
		PDFText: has(ToolPDFToText),
		PDFOCR:  ocr && has(ToolPDFToPPM),
		OCR:     ocr,
	}
}

// InstallInstructions returns a human-readable hint for installing the tools.
func InstallInstructions() string {
	return `Text extraction uses poppler (pdftotext, pdftoppm) and tesseract.

  macOS:          brew install poppler tesseract
  Debian/Ubuntu:  apt install poppler-utils tesseract-ocr
  Fedora:         dnf install poppler-utils tesseract`
}

// Extractor runs the external tools against a temporary copy of the upload.
type Extractor struct {
	runner CommandRunner
	tools  Availability
	tmpDir string
}

// New creates an extractor using os/exec and the tools found on PATH.
func New() *Extractor {
	return NewWithRunner(ExecRunner{}, CheckAvailable())
}

// NewWithRunner creates an extractor with an injected runner and tool set.
func NewWithRunner(runner CommandRunner, tools Availability) *Extractor {
	return &Extractor{runner: runner, tools: tools}
}

// Tools returns the tool availability the extractor was built with.
func (e *Extractor) Tools() Availability {
	return e.tools
}

// Extract returns page text for content of the given type.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileType domain.FileType) ([]domain.PageResult, error) {
	switch fileType {
	case domain.FileTypePDF:
		return e.extractPDF(ctx, content)
	case domain.FileTypeImage:
		return e.extractImage(ctx, content)
	default:
		return []domain.PageResult{domain.PageOK(1, "Unsupported file type: "+string(fileType))}, nil
	}
}

func (e *Extractor) extractPDF(ctx context.Context, content []byte) ([]domain.PageResult, error) {
	if !e.tools.PDFText {
		return []domain.PageResult{domain.PageOK(1, PDFUnavailableText)}, nil
	}

	dir, path, err := e.stage(content, "upload.pdf")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out, err := e.runner.Run(ctx, ToolPDFToText, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed: %w", ErrToolFailed, err)
	}

	var results []domain.PageResult
	for i, raw := range splitPages(string(out)) {
		number := i + 1
		text := strings.TrimSpace(raw)
		if text == "" {
			if !e.tools.PDFOCR {
				continue
			}
			ocrText, err := e.ocrPDFPage(ctx, dir, path, number)
			if err != nil {
				results = append(results, domain.PageErr(number, err))
				continue
			}
			if ocrText == "" {
				continue
			}
			text = ocrText
		}
		results = append(results, domain.PageOK(number, text))
	}

	logger.Debug("Extracted %d pages from PDF", len(results))
	return results, nil
}

// ocrPDFPage renders one page to PNG and reads it with tesseract.
func (e *Extractor) ocrPDFPage(ctx context.Context, dir, pdfPath string, page int) (string, error) {
	prefix := filepath.Join(dir, fmt.Sprintf("page-%d", page))
	n := fmt.Sprint(page)
	if _, err := e.runner.Run(ctx, ToolPDFToPPM, "-f", n, "-l", n, "-r", "150", "-png", "-singlefile", pdfPath, prefix); err != nil {
		return "", fmt.Errorf("%w: pdftoppm page %d: %w", ErrToolFailed, page, err)
	}

	out, err := e.runner.Run(ctx, ToolTesseract, prefix+".png", "stdout")
	if err != nil {
		return "", fmt.Errorf("%w: tesseract page %d: %w", ErrToolFailed, page, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Extractor) extractImage(ctx context.Context, content []byte) ([]domain.PageResult, error) {
	if !e.tools.OCR {
		return []domain.PageResult{domain.PageOK(1, OCRUnavailableText)}, nil
	}

	dir, path, err := e.stage(content, "upload.img")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out, err := e.runner.Run(ctx, ToolTesseract, path, "stdout")
	if err != nil {
		return []domain.PageResult{domain.PageErr(1, fmt.Errorf("%w: tesseract: %w", ErrToolFailed, err))}, nil
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		text = NoTextInImageText
	}
	return []domain.PageResult{domain.PageOK(1, text)}, nil
}

// stage writes content to a fresh temporary directory.
func (e *Extractor) stage(content []byte, name string) (dir, path string, err error) {
	dir, err = os.MkdirTemp(e.tmpDir, "ragbot-extract-*")
	if err != nil {
		return "", "", fmt.Errorf("create temp dir: %w", err)
	}
	path = filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		os.RemoveAll(dir)
		return "", "", fmt.Errorf("write temp file: %w", err)
	}
	return dir, path, nil
}

// splitPages splits pdftotext output on form feeds. The piece after the
// final form feed is not a page.
func splitPages(out string) []string {
	pages := strings.Split(out, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
