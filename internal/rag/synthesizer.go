package rag

import (
	"context"

	"paperqa/internal/contextutil"
	"paperqa/internal/llm"
)

// Answer is a synthesized answer and the model that produced it.
type Answer struct {
	Text  string
	Model string
}

// Synthesizer turns ranked candidates into an answer, either through the
// generation chain or extractively.
type Synthesizer struct {
	chain  *llm.Chain
	params llm.GenerateParams
}

// NewSynthesizer creates a synthesizer. A nil or empty chain always answers extractively.
func NewSynthesizer(chain *llm.Chain, params llm.GenerateParams) *Synthesizer {
	return &Synthesizer{chain: chain, params: params}
}

// Generative reports whether any generation provider is configured.
func (s *Synthesizer) Generative() bool {
	return s.chain != nil && s.chain.Len() > 0
}

// Synthesize answers question from candidates. With no candidates it returns
// NoRelevantInfoAnswer without calling any backend. When the chain is exhausted
// the *llm.GenerationError is returned.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, candidates []Candidate, extractive bool) (Answer, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(candidates) == 0 {
		return Answer{Text: NoRelevantInfoAnswer, Model: ModelNone}, nil
	}

	if extractive || !s.Generative() {
		logger.DebugContext(ctx, "answering extractively", "requested", extractive)
		return Answer{Text: ExtractiveAnswer(question, candidates), Model: ModelExtractive}, nil
	}

	prompt := BuildPrompt(question, candidates)
	logger.DebugContext(ctx, "sending prompt to generation chain", "prompt_length", len(prompt), "providers", s.chain.Providers())

	text, provider, err := s.chain.Generate(ctx, prompt, s.params)
	if err != nil {
		logger.ErrorContext(ctx, "generation chain exhausted", "error", err)
		return Answer{}, err
	}

	logger.InfoContext(ctx, "received generated answer", "provider", provider, "answer_length", len(text))
	return Answer{Text: text, Model: provider}, nil
}
