package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"srh-intent/pkg/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultTimeout = 2 * time.Minute

	maxResponseBytes = 10 * 1024 * 1024
)

// APIError is a non-2xx answer or an error object in the body. Status is 0
// when the error came inside a 200 response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("openrouter api returned error: %s", e.Message)
	}
	return fmt.Sprintf("openrouter api error (status %d): %s", e.Status, e.Message)
}

// Provider talks to any OpenAI-compatible /chat/completions endpoint.
// OpenRouter is the default; its ranking headers are sent when set.
type Provider struct {
	apiKey   string
	baseURL  string
	model    string
	siteURL  string
	siteName string
	client   *http.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

// Request Payload Structure (OpenAI Compatible)
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type ProviderOption func(*Provider)

// WithHTTPClient replaces the default client (timeout DefaultTimeout).
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *Provider) { p.client = c }
}

// WithAttribution sets the HTTP-Referer and X-Title headers OpenRouter uses for app rankings.
func WithAttribution(siteURL, siteName string) ProviderOption {
	return func(p *Provider) {
		p.siteURL = siteURL
		p.siteName = siteName
	}
}

func NewOpenRouterProvider(apiKey, baseURL, model string, opts ...ProviderOption) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model}, options...)
	if opts.Model == "" {
		return "", fmt.Errorf("openrouter: model not configured")
	}

	reqBody := chatRequest{
		Model:       opts.Model,
		Messages:    history,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	if p.siteURL != "" {
		req.Header.Set("HTTP-Referer", p.siteURL)
	}
	if p.siteName != "" {
		req.Header.Set("X-Title", p.siteName)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(bodyBytes))}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", &APIError{Message: chatResp.Error.Message}
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: no choices: %w", llm.ErrEmptyResponse)
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openrouter: blank content: %w", llm.ErrEmptyResponse)
	}
	return content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	// Wrap single prompt into a user message
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}
	return p.Chat(ctx, messages, options...)
}

// Model returns the default model name.
func (p *Provider) Model() string {
	return p.model
}
