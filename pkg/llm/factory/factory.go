package factory

import (
	"fmt"
	"strings"

	"srh-intent/pkg/llm"
	"srh-intent/pkg/llm/ollama"
	"srh-intent/pkg/llm/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// NewLLMProvider builds the backend named by providerType. An empty baseURL
// selects the provider's default endpoint.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch strings.ToLower(providerType) {
	case ProviderOpenRouter, "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("%s provider requires an API key", providerType)
		}
		return openrouter.NewOpenRouterProvider(apiKey, baseURL, modelName,
			openrouter.WithAttribution("", "srh-intent"),
		), nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
