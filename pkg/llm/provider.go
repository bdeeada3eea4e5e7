package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the backend answered without any content.
var ErrEmptyResponse = errors.New("llm: empty response")

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Apply folds opts over a copy of the defaults.
func Apply(defaults Options, opts ...Option) Options {
	for _, o := range opts {
		o(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// SystemAndUser builds the two-message history used for instruction-style calls.
func SystemAndUser(system, user string) []Message {
	history := make([]Message, 0, 2)
	if system != "" {
		history = append(history, Message{Role: RoleSystem, Content: system})
	}
	return append(history, Message{Role: RoleUser, Content: user})
}

// ProviderFunc adapts a plain function to LLMProvider. Tests use it to stub the backend.
type ProviderFunc func(ctx context.Context, history []Message, options ...Option) (string, error)

func (f ProviderFunc) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return f(ctx, history, options...)
}

func (f ProviderFunc) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return f(ctx, []Message{{Role: RoleUser, Content: prompt}}, options...)
}
