package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// Client is a client for OpenAI-compatible chat completion APIs such as
// OpenRouter or a llama.cpp server.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	name    string
	client  *http.Client
	limiter *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithName sets the provider name reported by Name.
func WithName(name string) ClientOption {
	return func(c *Client) { c.name = name }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a new chat completions client.
func NewClient(baseURL, apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		name:    "chat",
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float32  `json:"temperature,omitempty"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// Name implements Generator.
func (c *Client) Name() string {
	return c.name
}

// Generate sends prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	return c.Chat(ctx, []Message{{Role: "user", Content: prompt}}, params)
}

// Chat sends a chat completion request and returns the first choice.
func (c *Client) Chat(ctx context.Context, messages []Message, params GenerateParams) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	payload := ChatRequest{
		Model:     c.Model,
		Messages:  messages,
		MaxTokens: params.MaxTokens,
	}
	if params.Temperature > 0 {
		t := params.Temperature
		payload.Temperature = &t
	}

	var chatResp ChatResponse
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)
	if err := postJSON(ctx, c.client, url, c.APIKey, payload, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return content, nil
}
