package providers

import (
	"fmt"
	"net/http"

	"github.com/llmgate/promptbrew/claude"
	"github.com/llmgate/promptbrew/gemini"
	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/mockllm"
	"github.com/llmgate/promptbrew/openai"
)

// NewBackend is the single place that picks a provider variant. For OpenAI,
// a configured Azure endpoint selects the gateway client.
func NewBackend(llmConfig config.LLMConfig) (llm.Backend, error) {
	httpClient := &http.Client{Timeout: llmConfig.Timeout}

	switch llmConfig.Provider {
	case config.ProviderOpenAI, "":
		if llmConfig.OpenAI.AzureEndpoint != "" {
			return openai.NewAzureOpenAIClient(llmConfig.OpenAI, httpClient), nil
		}
		return openai.NewOpenAIClient(llmConfig.OpenAI, httpClient), nil
	case config.ProviderAnthropic:
		return claude.NewClaudeClient(llmConfig.Anthropic, httpClient), nil
	case config.ProviderGemini:
		return gemini.NewGeminiClient(llmConfig.Gemini, httpClient), nil
	case config.ProviderMock:
		return mockllm.NewMockLLMClient(""), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", llmConfig.Provider)
	}
}
