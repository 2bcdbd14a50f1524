package rag

import (
	"strings"
	"testing"

	"paperqa/internal/indexer"
)

func candidate(text string) Candidate {
	return Candidate{Chunk: indexer.Chunk{Text: text}}
}

func TestExtractiveAnswer_LeadIn(t *testing.T) {
	cands := []Candidate{candidate("The transformer architecture replaces recurrence entirely.")}

	tests := []struct {
		question string
		want     string
	}{
		{question: "What is a transformer?", want: "Based on the research paper:"},
		{question: "Define attention", want: "Based on the research paper:"},
		{question: "How does it train?", want: "The paper describes the following approach:"},
		{question: "Which approach is used?", want: "The paper describes the following approach:"},
		{question: "Why does it work?", want: "According to the research:"},
		{question: "What is the main advantage?", want: "Based on the research paper:"},
		{question: "List the contributions", want: "From the academic paper, here are the key findings:"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := ExtractiveAnswer(tt.question, cands)
			if !strings.HasPrefix(got, tt.want+" ") {
				t.Errorf("ExtractiveAnswer() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestExtractiveAnswer_SentenceSelection(t *testing.T) {
	cands := []Candidate{
		candidate("Short one. The first long sentence explains the setup in detail. A second long sentence covers the data used! A third long sentence is never reached?"),
		candidate("Tiny. Also tiny."),
		candidate("The encoder uses stacked attention layers for context. The decoder mirrors that structure closely."),
		candidate("A fourth candidate is ignored because only three are used."),
	}

	got := ExtractiveAnswer("Summarize the paper", cands)

	for _, want := range []string{
		"The first long sentence explains the setup in detail. A second long sentence covers the data used.",
		"The encoder uses stacked attention layers for context. The decoder mirrors that structure closely.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ExtractiveAnswer() = %q, missing %q", got, want)
		}
	}
	for _, unwanted := range []string{"Short one", "third long sentence", "Tiny", "fourth candidate"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("ExtractiveAnswer() = %q, should not contain %q", got, unwanted)
		}
	}
}

func TestExtractiveAnswer_FallsBackToFirstChunk(t *testing.T) {
	// No fragment is long enough to count as a sentence.
	text := strings.Repeat("Tiny bit. ", 40)
	got := ExtractiveAnswer("anything", []Candidate{candidate(text)})

	want := "From the academic paper, here are the key findings: " + text[:300] + "..."
	if got != want {
		t.Errorf("ExtractiveAnswer() = %q, want %q", got, want)
	}
}

func TestExtractiveAnswer_NoCandidates(t *testing.T) {
	if got := ExtractiveAnswer("anything", nil); got != NoRelevantInfoAnswer {
		t.Errorf("ExtractiveAnswer() = %q, want %q", got, NoRelevantInfoAnswer)
	}
}

func TestCleanQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  What is attention?  ", want: "What is attention?"},
		{in: "Question: What is attention?", want: "What is attention?"},
		{in: "Please answer: why?", want: "why?"},
		{in: "Can you tell me about self-attention", want: "self-attention"},
		{in: "Tell me about the dataset", want: "the dataset"},
		{in: "You are a research assistant. What is BLEU?", want: "What is BLEU?"},
		{in: "tell me about", want: "tell me about"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanQuestion(tt.in); got != tt.want {
				t.Errorf("CleanQuestion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
