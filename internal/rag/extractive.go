package rag

import (
	"strings"
)

const (
	extractiveChunks       = 3
	sentencesPerChunk      = 2
	minSentenceLength      = 20
	extractiveFallbackSize = 300
)

// ExtractiveAnswer assembles an answer from the top candidates' own sentences
// without calling a generation backend.
func ExtractiveAnswer(question string, candidates []Candidate) string {
	if len(candidates) == 0 {
		return NoRelevantInfoAnswer
	}

	q := strings.ToLower(question)
	questionTokens := make(map[string]struct{})
	for _, tok := range tokenize(q) {
		questionTokens[tok] = struct{}{}
	}

	var parts []string
	for _, c := range candidates[:min(len(candidates), extractiveChunks)] {
		var kept []string
		for _, sentence := range splitSentences(c.Chunk.Text) {
			if sharesToken(sentence, questionTokens) || len(kept) < sentencesPerChunk {
				kept = append(kept, sentence)
				if len(kept) >= sentencesPerChunk {
					break
				}
			}
		}
		if len(kept) == 0 {
			continue
		}
		content := strings.Join(kept, ". ")
		if !strings.HasSuffix(content, ".") {
			content += "."
		}
		parts = append(parts, content)
	}

	body := strings.Join(parts, " ")
	if body == "" {
		body = truncate(candidates[0].Chunk.Text, extractiveFallbackSize)
	}
	return leadIn(q) + " " + body
}

// leadIn picks the opening phrase from the kind of question asked.
func leadIn(lowerQuestion string) string {
	switch {
	case containsAny(lowerQuestion, []string{"what is", "define", "definition"}):
		return "Based on the research paper:"
	case containsAny(lowerQuestion, []string{"how", "method", "approach"}):
		return "The paper describes the following approach:"
	case containsAny(lowerQuestion, []string{"why", "reason", "advantage"}):
		return "According to the research:"
	default:
		return "From the academic paper, here are the key findings:"
	}
}

// splitSentences splits on sentence-terminal punctuation and drops fragments
// of minSentenceLength characters or fewer.
func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(fields))
	for _, f := range fields {
		s := strings.TrimSpace(f)
		if len([]rune(s)) > minSentenceLength {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func sharesToken(sentence string, tokens map[string]struct{}) bool {
	for _, tok := range tokenize(sentence) {
		if _, ok := tokens[tok]; ok {
			return true
		}
	}
	return false
}
