package rag

import (
	"strings"

	"paperqa/internal/indexer"
)

const shortChunkWords = 20

// boostRule multiplies the score of chunks matching both a question keyword
// and a chunk property.
type boostRule struct {
	keywords []string
	factor   float64
	applies  func(indexer.Chunk) bool
}

var boostRules = []boostRule{
	{
		keywords: []string{"algorithm", "method", "equation", "formula"},
		factor:   1.3,
		applies:  func(c indexer.Chunk) bool { return c.HasMath },
	},
	{
		keywords: []string{"result", "example", "figure", "table"},
		factor:   1.2,
		applies:  func(c indexer.Chunk) bool { return c.HasFigureRef },
	},
	{
		keywords: []string{"method"},
		factor:   1.4,
		applies:  func(c indexer.Chunk) bool { return c.Section == indexer.SectionMethodology },
	},
	{
		keywords: []string{"result", "performance"},
		factor:   1.4,
		applies:  func(c indexer.Chunk) bool { return c.Section == indexer.SectionResults },
	},
	{
		keywords: []string{"background", "related"},
		factor:   1.3,
		applies:  func(c indexer.Chunk) bool { return c.Section == indexer.SectionRelatedWork },
	},
}

// Boost returns the multiplicative boost for chunk given question. Every
// matching rule applies; short chunks are penalized.
func Boost(question string, chunk indexer.Chunk) float64 {
	q := strings.ToLower(question)

	boost := 1.0
	for _, rule := range boostRules {
		if containsAny(q, rule.keywords) && rule.applies(chunk) {
			boost *= rule.factor
		}
	}
	if chunk.WordCount < shortChunkWords {
		boost *= 0.8
	}
	return boost
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
