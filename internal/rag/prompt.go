package rag

import (
	"fmt"
	"strconv"
	"strings"
)

const promptInstructions = `You are an expert research assistant analyzing academic papers. Your task is to provide accurate, comprehensive, and well-structured answers based on the given context.

Instructions:
1. Answer the question accurately using ONLY the information provided in the context
2. Be comprehensive but concise - aim for 2-4 sentences for simple questions, more for complex ones
3. Use technical terminology appropriately
4. If the context contains specific numbers, methods, or findings, include them in your answer
5. If the question cannot be fully answered from the context, clearly state what information is missing
6. Structure your answer logically with clear explanations`

// BuildPrompt renders the generation prompt: instructions, one labeled context
// block per candidate in ranking order, then the question.
func BuildPrompt(question string, candidates []Candidate) string {
	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\n\nContext from research paper:\n")

	for i, c := range candidates {
		fmt.Fprintf(&b, "Context %d (Page %s, Section: %s):\n%s\n\n", i+1, pageLabel(c.Chunk.Page), c.Chunk.Section.Title(), c.Chunk.Text)
	}

	fmt.Fprintf(&b, "Question: %s\n\nResearch Assistant Answer:", question)
	return b.String()
}

func pageLabel(page int) string {
	if page <= 0 {
		return "N/A"
	}
	return strconv.Itoa(page)
}
