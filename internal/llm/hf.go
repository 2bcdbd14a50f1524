package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// HFClient calls the Hugging Face text-generation inference API.
type HFClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHFClient creates a Hugging Face inference client. ratePerSecond <= 0 disables limiting.
func NewHFClient(baseURL, apiKey, model string, ratePerSecond float64) *HFClient {
	c := &HFClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  newHTTPClient(),
	}
	if ratePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return c
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float32 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Name implements Generator.
func (c *HFClient) Name() string {
	return "hf"
}

// Generate implements Generator. MaxTokens defaults to 500 and Temperature to 0.7.
func (c *HFClient) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	payload := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: params.MaxTokens,
			Temperature:  params.Temperature,
		},
	}
	if payload.Parameters.MaxNewTokens <= 0 {
		payload.Parameters.MaxNewTokens = 500
	}
	if payload.Parameters.Temperature <= 0 {
		payload.Parameters.Temperature = 0.7
	}

	var generations []hfGeneration
	url := fmt.Sprintf("%s/models/%s", c.BaseURL, c.Model)
	if err := postJSON(ctx, c.client, url, c.APIKey, payload, &generations); err != nil {
		return "", err
	}

	if len(generations) == 0 {
		return "", fmt.Errorf("no generations returned")
	}

	text := strings.TrimSpace(generations[0].GeneratedText)
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}
	return text, nil
}
