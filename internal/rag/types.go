package rag

import "paperqa/internal/indexer"

// NoRelevantInfoAnswer is returned when retrieval finds nothing to answer from.
const NoRelevantInfoAnswer = "I couldn't find relevant information in the document to answer your question. " +
	"Please try rephrasing your question or check if the document contains information about this topic."

// ModelExtractive is the model name reported for answers assembled from the
// retrieved text without a generation backend.
const ModelExtractive = "extractive"

// ModelNone is reported when no answer had to be generated.
const ModelNone = "none"

// Candidate is one retrieved chunk with its scores. Candidates live for a single query.
type Candidate struct {
	Chunk indexer.Chunk
	// Distance is the vector store distance in [0, 1].
	Distance float64
	// Relevance is 1 - Distance.
	Relevance float64
	// Boost is the product of the applicable heuristic multipliers.
	Boost float64
	// FinalScore is Relevance * Boost and orders the candidates.
	FinalScore float64
}

// AskRequest represents a question about one document.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// DocumentID selects the document to search.
	DocumentID string `json:"document_id"`
	// TopK optionally specifies how many chunks to use. Zero uses the configured default.
	TopK int `json:"top_k,omitempty"`
	// Extractive skips the generation backends and answers from the retrieved text.
	Extractive bool `json:"extractive,omitempty"`
}

// Source describes a chunk that was used for the answer.
type Source struct {
	// Text is a preview of the chunk text.
	Text string `json:"text"`
	// Metadata is a human readable location label ("Page 3, Results Section").
	Metadata string `json:"metadata"`
	// RelevanceScore is the candidate's final score.
	RelevanceScore float64 `json:"relevance_score"`
	// SectionType is the chunk's section classification.
	SectionType string `json:"section_type"`
	ChunkID     string `json:"chunk_id"`
	Page        int    `json:"page,omitempty"`
}

// ProcessingInfo summarizes how an answer was produced.
type ProcessingInfo struct {
	ChunksUsed        int    `json:"chunks_used"`
	QuestionProcessed bool   `json:"question_processed"`
	ModelUsed         string `json:"model_used"`
}

// AskResponse represents the answer to an AskRequest.
type AskResponse struct {
	Answer         string          `json:"answer"`
	Sources        []Source        `json:"sources"`
	Success        bool            `json:"success"`
	ProcessingInfo *ProcessingInfo `json:"processing_info,omitempty"`
}
