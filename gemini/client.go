package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"

	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/llm"
)

const providerName = "gemini"

type GeminiClient struct {
	geminiConfig config.GeminiConfig
	timeout      time.Duration
}

// NewGeminiClient takes only the timeout from httpClient: the SDK speaks gRPC
// and rejects a custom HTTP client.
func NewGeminiClient(geminiConfig config.GeminiConfig, httpClient *http.Client) *GeminiClient {
	c := &GeminiClient{geminiConfig: geminiConfig}
	if httpClient != nil {
		c.timeout = httpClient.Timeout
	}
	return c
}

func (c *GeminiClient) Name() string  { return providerName }
func (c *GeminiClient) Model() string { return c.geminiConfig.Model }

// Complete calls the Gemini GenerateContent API. A client is built per call.
func (c *GeminiClient) Complete(ctx context.Context, messages []llm.Message, temperature float32) (*llm.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.geminiConfig.Key))
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(c.geminiConfig.Model)
	genModel.SetTemperature(temperature)
	if system := systemInstruction(messages); system != "" {
		genModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	geminiResponse, err := genModel.GenerateContent(ctx, userParts(messages)...)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return &llm.Completion{
				Model:   c.geminiConfig.Model,
				Choices: []llm.Choice{{FinishReason: llm.FinishReasonContentFilter}},
			}, nil
		}
		return nil, translateError(err)
	}

	return convertResponse(c.geminiConfig.Model, geminiResponse), nil
}

func systemInstruction(messages []llm.Message) string {
	var parts []string
	for _, message := range messages {
		if message.Role == llm.RoleSystem {
			parts = append(parts, message.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

func userParts(messages []llm.Message) []genai.Part {
	parts := make([]genai.Part, 0, len(messages))
	for _, message := range messages {
		if message.Role != llm.RoleSystem {
			parts = append(parts, genai.Text(message.Content))
		}
	}
	return parts
}

func convertResponse(model string, geminiResp *genai.GenerateContentResponse) *llm.Completion {
	completion := &llm.Completion{Model: model}
	if geminiResp == nil {
		return completion
	}
	for _, candidate := range geminiResp.Candidates {
		var text strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
		completion.Choices = append(completion.Choices, llm.Choice{
			Text:         text.String(),
			FinishReason: mapFinishReason(candidate.FinishReason),
		})
	}
	return completion
}

func mapFinishReason(reason genai.FinishReason) llm.FinishReason {
	switch reason {
	case genai.FinishReasonStop, genai.FinishReasonUnspecified:
		return llm.FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return llm.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return llm.FinishReasonContentFilter
	default:
		return llm.FinishReasonOther
	}
}

func translateError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &llm.HTTPError{Provider: providerName, StatusCode: apiErr.HTTPCode(), Body: apiErr.Error()}
	}
	return err
}
