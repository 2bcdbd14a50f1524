package indexer

import "errors"

var (
	// ErrEmptyContent is returned when a document has no usable text after normalization.
	ErrEmptyContent = errors.New("document has no usable text content")
	// ErrUnsupportedFileType is returned for inputs that are not a recognized document format.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// SectionType is the structural role a chunk plays in a paper.
type SectionType string

const (
	SectionAbstract     SectionType = "abstract"
	SectionIntroduction SectionType = "introduction"
	SectionMethodology  SectionType = "methodology"
	SectionResults      SectionType = "results"
	SectionConclusion   SectionType = "conclusion"
	SectionRelatedWork  SectionType = "related_work"
	SectionContent      SectionType = "content"
)

// Title returns the display form used in prompts and source labels ("Related Work").
func (s SectionType) Title() string {
	words := []rune(string(s))
	upper := true
	for i, r := range words {
		switch {
		case r == '_':
			words[i] = ' '
			upper = true
		case upper && r >= 'a' && r <= 'z':
			words[i] = r - 'a' + 'A'
			upper = false
		default:
			upper = false
		}
	}
	return string(words)
}

// Page is the raw text of one page of a source document.
type Page struct {
	Number int // 1-based page number, 0 when the format has no pages
	Text   string
}

// Chunk is a bounded span of a document's normalized text plus its derived metadata.
type Chunk struct {
	ID           string // "{document_id}_chunk_{index}"
	DocumentID   string
	Index        int // Global chunk index within the document (starts at 0)
	Text         string
	Source       string
	Page         int
	WordCount    int
	CharCount    int
	HasMath      bool
	HasFigureRef bool
	Section      SectionType
	Start        int // Byte offset of Text within the page's normalized text
	End          int
}
