package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// SupportedExtensions lists the file extensions Load understands.
var SupportedExtensions = []string{".pdf", ".txt", ".md"}

// IsSupported reports whether path has a recognized document extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Loader reads documents from disk into pages of raw text.
type Loader struct {
	markdown *MarkdownExtractor
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{markdown: NewMarkdownExtractor()}
}

// Load reads the file at path. PDFs yield one page per PDF page; text and
// markdown files yield a single unnumbered page.
func (l *Loader) Load(path string) ([]Page, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return []Page{{Text: l.markdown.Extract(content)}}, nil
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return []Page{{Text: string(content)}}, nil
	}
}

func loadPDF(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	pages := make([]Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}
