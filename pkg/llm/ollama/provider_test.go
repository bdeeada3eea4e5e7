package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"srh-intent/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaChat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"gemma:2b","message":{"role":"assistant","content":"{\"Topic\":\"HIV\"}"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "gemma:2b")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: "model", Content: "earlier"},
	}, llm.WithTemperature(0))
	require.NoError(t, err)

	assert.Equal(t, `{"Topic":"HIV"}`, out)
	assert.Equal(t, "gemma:2b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, llm.RoleAssistant, got.Messages[1].Role)
	require.NotNil(t, got.Options)
	require.NotNil(t, got.Options.Temperature)
	assert.Zero(t, *got.Options.Temperature)
}

func TestOllamaErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantEmpty bool
	}{
		{name: "status", status: http.StatusInternalServerError, body: "boom"},
		{name: "error field", status: http.StatusOK, body: `{"error":"model not found"}`},
		{name: "empty message", status: http.StatusOK, body: `{"message":{"role":"assistant","content":""}}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "m").Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tt.wantEmpty, errors.Is(err, llm.ErrEmptyResponse))
		})
	}
}

func TestNewOllamaProviderDefaults(t *testing.T) {
	p := NewOllamaProvider("", "m")
	assert.Equal(t, DefaultBaseURL, p.BaseURL)
}
