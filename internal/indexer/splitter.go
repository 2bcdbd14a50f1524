package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the target maximum chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the number of characters shared between adjacent chunks.
	DefaultChunkOverlap = 250
)

// DefaultSeparators lists split points from most to least preferred.
// The empty separator splits between characters and is only reached when no
// other separator occurs in an oversized piece.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// Span is a half-open byte range [Start, End) of the text passed to Split.
type Span struct {
	Start int
	End   int
}

// Splitter recursively splits text on a prioritized separator list and merges
// the pieces into overlapping windows of at most ChunkSize characters.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) SplitterOption {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) SplitterOption {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator priority list.
func WithSeparators(separators []string) SplitterOption {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// NewSplitter creates a splitter with the default size, overlap and separators.
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize - 1
	}
	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunk spans of text in order. Every span is non-empty and
// free of leading or trailing whitespace. Adjacent spans may overlap.
func (s *Splitter) Split(text string) []Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, Span{Start: 0, End: len(text)}, s.separators)
}

func (s *Splitter) split(text string, sp Span, separators []string) []Span {
	segment := text[sp.Start:sp.End]

	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(segment, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var (
		chunks []Span
		good   []Span
	)
	for _, piece := range splitKeepSeparator(text, sp, separator) {
		if s.length(text, piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(text, good)...)
			good = nil
		}
		if len(remaining) == 0 {
			if trimmed, ok := trimSpan(text, piece); ok {
				chunks = append(chunks, trimmed)
			}
			continue
		}
		chunks = append(chunks, s.split(text, piece, remaining)...)
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(text, good)...)
	}
	return chunks
}

// merge greedily packs consecutive pieces into windows of at most chunkSize
// characters, carrying up to overlap characters of trailing pieces forward.
func (s *Splitter) merge(text string, pieces []Span) []Span {
	var (
		chunks  []Span
		current []Span
		total   int
	)
	for _, piece := range pieces {
		n := s.length(text, piece)
		if total+n > s.chunkSize && len(current) > 0 {
			if joined, ok := trimSpan(text, Span{Start: current[0].Start, End: current[len(current)-1].End}); ok {
				chunks = append(chunks, joined)
			}
			for len(current) > 0 && (total > s.overlap || total+n > s.chunkSize) {
				total -= s.length(text, current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if len(current) > 0 {
		if joined, ok := trimSpan(text, Span{Start: current[0].Start, End: current[len(current)-1].End}); ok {
			chunks = append(chunks, joined)
		}
	}
	return chunks
}

func (s *Splitter) length(text string, sp Span) int {
	return utf8.RuneCountInString(text[sp.Start:sp.End])
}

// splitKeepSeparator cuts sp after every occurrence of sep, so each separator
// stays attached to the end of the piece it terminates.
func splitKeepSeparator(text string, sp Span, sep string) []Span {
	var pieces []Span
	if sep == "" {
		for i := sp.Start; i < sp.End; {
			_, size := utf8.DecodeRuneInString(text[i:sp.End])
			pieces = append(pieces, Span{Start: i, End: i + size})
			i += size
		}
		return pieces
	}

	start := sp.Start
	for start < sp.End {
		idx := strings.Index(text[start:sp.End], sep)
		if idx < 0 {
			break
		}
		cut := start + idx + len(sep)
		pieces = append(pieces, Span{Start: start, End: cut})
		start = cut
	}
	if start < sp.End {
		pieces = append(pieces, Span{Start: start, End: sp.End})
	}
	return pieces
}

// trimSpan shrinks sp to exclude surrounding whitespace. ok is false when nothing remains.
func trimSpan(text string, sp Span) (Span, bool) {
	start, end := sp.Start, sp.End
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return Span{Start: start, End: end}, end > start
}
