package mockllm

import (
	"context"
	"fmt"
	"strings"

	"github.com/llmgate/promptbrew/internal/llm"
)

const (
	providerName = "mock"

	// Markers that force a finish reason, for exercising error paths locally.
	LengthMarker        = "[mock:length]"
	ContentFilterMarker = "[mock:content_filter]"
)

const (
	nominalResponse = `{"Genre": ["Comedy", "Drama", "Mystery", "Romance", "Horror"], "Audience": ["Children", "Teenagers", "Adults", "Experts", "General public"]}`
	ordinalResponse = `{"Formality": ["Most", "Least"], "Detail": ["Most", "Least"]}`
)

// MockLLMClient returns canned, deterministic completions without any
// network access.
type MockLLMClient struct {
	model string
}

func NewMockLLMClient(model string) *MockLLMClient {
	if model == "" {
		model = "mock-model"
	}
	return &MockLLMClient{model: model}
}

func (c *MockLLMClient) Name() string  { return providerName }
func (c *MockLLMClient) Model() string { return c.model }

func (c *MockLLMClient) Complete(ctx context.Context, messages []llm.Message, temperature float32) (*llm.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := lastUserContent(messages)
	choice := llm.Choice{FinishReason: llm.FinishReasonStop}
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(content, LengthMarker):
		choice.FinishReason = llm.FinishReasonLength
	case strings.Contains(content, ContentFilterMarker):
		choice.FinishReason = llm.FinishReasonContentFilter
	case strings.Contains(lower, "nominal dimensions"):
		choice.Text = nominalResponse
	case strings.Contains(lower, "ordinal dimensions"):
		choice.Text = ordinalResponse
	default:
		choice.Text = fmt.Sprintf("Mock response for: %s", firstLine(content))
	}

	return &llm.Completion{Model: c.model, Choices: []llm.Choice{choice}}, nil
}

func lastUserContent(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
