package indexer

import (
	"strconv"
)

// Metadata keys stored alongside each chunk in the vector store.
const (
	MetaDocumentID   = "document_id"
	MetaChunkIndex   = "chunk_index"
	MetaSource       = "source"
	MetaPage         = "page"
	MetaWordCount    = "word_count"
	MetaCharCount    = "char_count"
	MetaHasMath      = "has_math"
	MetaHasFigureRef = "has_figure_ref"
	MetaSectionType  = "section_type"
	MetaStart        = "start"
	MetaEnd          = "end"
)

// Metadata returns the chunk attributes as a flat map suitable for vector store payloads.
func (c Chunk) Metadata() map[string]any {
	return map[string]any{
		MetaDocumentID:   c.DocumentID,
		MetaChunkIndex:   c.Index,
		MetaSource:       c.Source,
		MetaPage:         c.Page,
		MetaWordCount:    c.WordCount,
		MetaCharCount:    c.CharCount,
		MetaHasMath:      c.HasMath,
		MetaHasFigureRef: c.HasFigureRef,
		MetaSectionType:  string(c.Section),
		MetaStart:        c.Start,
		MetaEnd:          c.End,
	}
}

// ChunkFromMetadata rebuilds a chunk from a stored record. Numeric values may
// arrive as any integer or float type depending on the store.
func ChunkFromMetadata(id, text string, meta map[string]any) Chunk {
	c := Chunk{
		ID:           id,
		Text:         text,
		DocumentID:   metaString(meta, MetaDocumentID),
		Index:        metaInt(meta, MetaChunkIndex),
		Source:       metaString(meta, MetaSource),
		Page:         metaInt(meta, MetaPage),
		WordCount:    metaInt(meta, MetaWordCount),
		CharCount:    metaInt(meta, MetaCharCount),
		HasMath:      metaBool(meta, MetaHasMath),
		HasFigureRef: metaBool(meta, MetaHasFigureRef),
		Section:      SectionType(metaString(meta, MetaSectionType)),
		Start:        metaInt(meta, MetaStart),
		End:          metaInt(meta, MetaEnd),
	}
	if c.Section == "" {
		c.Section = SectionContent
	}
	return c
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

func metaBool(meta map[string]any, key string) bool {
	switch v := meta[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}
