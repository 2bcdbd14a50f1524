package handlers

import (
	"encoding/json"
	"net/http"

	"paperqa/internal/contextutil"
	"paperqa/internal/rag"
	"paperqa/internal/service"
)

// AskHandler handles HTTP requests for document questions.
type AskHandler struct {
	qaService service.QAService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(qaService service.QAService) *AskHandler {
	return &AskHandler{
		qaService: qaService,
	}
}

// AskRequest represents the HTTP request payload for questions.
//
// swagger:model AskRequest
type AskRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id"`
	// Number of chunks to answer from; 0 uses the server default
	TopK int `json:"top_k,omitempty"`
	// Answer from the retrieved text without calling a generation model
	Extractive bool `json:"extractive,omitempty"`
}

// AskResponse represents the HTTP response payload for questions.
//
// swagger:model AskResponse
type AskResponse struct {
	Answer         string                  `json:"answer"`
	Sources        []SourceResponse        `json:"sources"`
	Success        bool                    `json:"success"`
	ProcessingInfo *ProcessingInfoResponse `json:"processing_info,omitempty"`
}

// SourceResponse describes one chunk an answer was drawn from.
//
// swagger:model SourceResponse
type SourceResponse struct {
	Text           string  `json:"text"`
	Metadata       string  `json:"metadata"`
	RelevanceScore float64 `json:"relevance_score"`
	SectionType    string  `json:"section_type"`
	ChunkID        string  `json:"chunk_id"`
	Page           int     `json:"page,omitempty"`
}

// ProcessingInfoResponse reports how an answer was produced.
//
// swagger:model ProcessingInfoResponse
type ProcessingInfoResponse struct {
	ChunksUsed        int    `json:"chunks_used"`
	QuestionProcessed bool   `json:"question_processed"`
	ModelUsed         string `json:"model_used"`
}

// ServeHTTP handles HTTP requests for questions.
//
// swagger:route POST /api/v1/ask askQuestion
//
// Answers a question about one ingested document.
//
// responses:
//
//	'200': AskResponse
//	'400': ErrorResponse
//	'404': ErrorResponse
//	'502': ErrorResponse
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx = contextutil.WithAttrs(ctx, "document_id", req.DocumentID)
	resp, err := h.qaService.Ask(ctx, rag.AskRequest{
		Question:   req.Question,
		DocumentID: req.DocumentID,
		TopK:       req.TopK,
		Extractive: req.Extractive,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to answer question")
		return
	}

	sources := make([]SourceResponse, len(resp.Sources))
	for i, s := range resp.Sources {
		sources[i] = SourceResponse{
			Text:           s.Text,
			Metadata:       s.Metadata,
			RelevanceScore: s.RelevanceScore,
			SectionType:    s.SectionType,
			ChunkID:        s.ChunkID,
			Page:           s.Page,
		}
	}

	out := AskResponse{
		Answer:  resp.Answer,
		Sources: sources,
		Success: resp.Success,
	}
	if resp.ProcessingInfo != nil {
		out.ProcessingInfo = &ProcessingInfoResponse{
			ChunksUsed:        resp.ProcessingInfo.ChunksUsed,
			QuestionProcessed: resp.ProcessingInfo.QuestionProcessed,
			ModelUsed:         resp.ProcessingInfo.ModelUsed,
		}
	}

	writeJSON(ctx, w, http.StatusOK, out)
}
