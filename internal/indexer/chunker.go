package indexer

import (
	"fmt"
)

// Chunker turns the pages of a document into classified chunks.
type Chunker struct {
	splitter *Splitter
}

// NewChunker creates a chunker backed by splitter. A nil splitter uses the defaults.
func NewChunker(splitter *Splitter) *Chunker {
	if splitter == nil {
		splitter = NewSplitter()
	}
	return &Chunker{splitter: splitter}
}

// ChunkID returns the stable id of the chunk at index within a document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// Chunk normalizes and splits every page, then classifies each piece.
// Chunk indices run across pages in page order. It returns ErrEmptyContent
// when no page yields any text.
func (c *Chunker) Chunk(documentID, source string, pages []Page) ([]Chunk, error) {
	var chunks []Chunk
	for _, page := range pages {
		text := Normalize(page.Text)
		if text == "" {
			continue
		}
		for _, sp := range c.splitter.Split(text) {
			piece := text[sp.Start:sp.End]
			info := Classify(piece)
			index := len(chunks)
			chunks = append(chunks, Chunk{
				ID:           ChunkID(documentID, index),
				DocumentID:   documentID,
				Index:        index,
				Text:         piece,
				Source:       source,
				Page:         page.Number,
				WordCount:    info.WordCount,
				CharCount:    info.CharCount,
				HasMath:      info.HasMath,
				HasFigureRef: info.HasFigureRef,
				Section:      info.Section,
				Start:        sp.Start,
				End:          sp.End,
			})
		}
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyContent
	}
	return chunks, nil
}

// ChunkText is a convenience for single-page plain text.
func (c *Chunker) ChunkText(documentID, source, text string) ([]Chunk, error) {
	return c.Chunk(documentID, source, []Page{{Text: text}})
}
