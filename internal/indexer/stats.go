package indexer

import (
	"math"
	"sort"
)

// ChunkStats summarizes the chunks produced for one document.
type ChunkStats struct {
	Chunks      int                 `json:"chunks"`
	Pages       int                 `json:"pages"`
	MinChars    int                 `json:"min_chars"`
	MaxChars    int                 `json:"max_chars"`
	MeanChars   float64             `json:"mean_chars"`
	P95Chars    int                 `json:"p95_chars"`
	WithMath    int                 `json:"with_math"`
	WithFigures int                 `json:"with_figures"`
	BySection   map[SectionType]int `json:"by_section"`
}

// ComputeChunkStats computes size distribution and content signal counts.
func ComputeChunkStats(chunks []Chunk) ChunkStats {
	stats := ChunkStats{
		Chunks:    len(chunks),
		BySection: make(map[SectionType]int),
	}
	if len(chunks) == 0 {
		return stats
	}

	pages := make(map[int]struct{})
	sizes := make([]int, 0, len(chunks))
	for _, c := range chunks {
		sizes = append(sizes, c.CharCount)
		pages[c.Page] = struct{}{}
		if c.HasMath {
			stats.WithMath++
		}
		if c.HasFigureRef {
			stats.WithFigures++
		}
		stats.BySection[c.Section]++
	}
	stats.Pages = len(pages)

	sort.Ints(sizes)
	stats.MinChars = sizes[0]
	stats.MaxChars = sizes[len(sizes)-1]

	sum := 0
	for _, n := range sizes {
		sum += n
	}
	stats.MeanChars = math.Round(float64(sum)/float64(len(sizes))*100) / 100

	p95Index := int(math.Ceil(float64(len(sizes)) * 0.95))
	if p95Index >= len(sizes) {
		p95Index = len(sizes) - 1
	}
	stats.P95Chars = sizes[p95Index]

	return stats
}
