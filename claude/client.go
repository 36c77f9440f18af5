package claude

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/llm"
)

const providerName = "anthropic"

// statusByErrorType follows the error types documented for the Messages API.
var statusByErrorType = map[string]int{
	"invalid_request_error": http.StatusBadRequest,
	"authentication_error":  http.StatusUnauthorized,
	"permission_error":      http.StatusForbidden,
	"not_found_error":       http.StatusNotFound,
	"request_too_large":     http.StatusRequestEntityTooLarge,
	"rate_limit_error":      http.StatusTooManyRequests,
	"api_error":             http.StatusInternalServerError,
	"overloaded_error":      529,
}

type ClaudeClient struct {
	model     string
	maxTokens int
	client    *anthropic.Client
}

func NewClaudeClient(anthropicConfig config.AnthropicConfig, httpClient *http.Client) *ClaudeClient {
	var opts []anthropic.ClientOption
	if httpClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(httpClient))
	}
	return &ClaudeClient{
		model:     anthropicConfig.Model,
		maxTokens: anthropicConfig.MaxTokens,
		client:    anthropic.NewClient(anthropicConfig.Key, opts...),
	}
}

func (c *ClaudeClient) Name() string  { return providerName }
func (c *ClaudeClient) Model() string { return c.model }

func (c *ClaudeClient) Complete(ctx context.Context, messages []llm.Message, temperature float32) (*llm.Completion, error) {
	request := anthropic.MessagesRequest{
		Model:       c.model,
		System:      getSystemPrompt(messages),
		Messages:    convertMessages(messages),
		MaxTokens:   c.maxTokens,
		Temperature: &temperature,
	}

	resp, err := c.client.CreateMessages(ctx, request)
	if err != nil {
		return nil, translateError(err)
	}

	var text strings.Builder
	for _, content := range resp.Content {
		text.WriteString(content.GetText())
	}

	return &llm.Completion{
		Model: c.model,
		Choices: []llm.Choice{{
			Text:         text.String(),
			FinishReason: mapStopReason(resp.StopReason),
		}},
	}, nil
}

// claude supports the system role only as a separate top-level param
func getSystemPrompt(messages []llm.Message) string {
	var parts []string
	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

func convertMessages(messages []llm.Message) []anthropic.Message {
	claudeMessages := make([]anthropic.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleUser:
			claudeMessages = append(claudeMessages, anthropic.NewUserTextMessage(msg.Content))
		case llm.RoleAssistant:
			claudeMessages = append(claudeMessages, anthropic.NewAssistantTextMessage(msg.Content))
		}
	}
	return claudeMessages
}

func mapStopReason(reason anthropic.MessagesStopReason) llm.FinishReason {
	switch reason {
	case anthropic.MessagesStopReasonMaxTokens:
		return llm.FinishReasonLength
	case anthropic.MessagesStopReasonEndTurn, anthropic.MessagesStopReasonStopSequence:
		return llm.FinishReasonStop
	default:
		return llm.FinishReasonOther
	}
}

func translateError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if status, ok := statusByErrorType[string(apiErr.Type)]; ok {
			return &llm.HTTPError{Provider: providerName, StatusCode: status, Body: apiErr.Message}
		}
	}
	return err
}
