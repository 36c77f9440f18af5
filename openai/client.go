package openai

import (
	"context"
	"errors"
	"math"
	"net/http"

	openaigo "github.com/sashabaranov/go-openai"

	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/llm"
)

const (
	directName  = "openai"
	gatewayName = "azure-openai"
)

// OpenAIClient talks to the chat completions endpoint, either directly or
// through an Azure OpenAI gateway. Both variants share this implementation
// and differ only in client configuration.
type OpenAIClient struct {
	name   string
	model  string
	client *openaigo.Client
}

func NewOpenAIClient(openaiConfig config.OpenAIConfig, httpClient *http.Client) *OpenAIClient {
	clientConfig := openaigo.DefaultConfig(openaiConfig.Key)
	if openaiConfig.BaseURL != "" {
		clientConfig.BaseURL = openaiConfig.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	return &OpenAIClient{
		name:   directName,
		model:  openaiConfig.Model,
		client: openaigo.NewClientWithConfig(clientConfig),
	}
}

func NewAzureOpenAIClient(openaiConfig config.OpenAIConfig, httpClient *http.Client) *OpenAIClient {
	clientConfig := openaigo.DefaultAzureConfig(openaiConfig.Key, openaiConfig.AzureEndpoint)
	if openaiConfig.APIVersion != "" {
		clientConfig.APIVersion = openaiConfig.APIVersion
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	return &OpenAIClient{
		name:   gatewayName,
		model:  openaiConfig.Model,
		client: openaigo.NewClientWithConfig(clientConfig),
	}
}

func (c *OpenAIClient) Name() string  { return c.name }
func (c *OpenAIClient) Model() string { return c.model }

// Complete calls the OpenAI Chat Completions API
func (c *OpenAIClient) Complete(ctx context.Context, messages []llm.Message, temperature float32) (*llm.Completion, error) {
	response, err := c.client.CreateChatCompletion(ctx, ToChatCompletionRequest(c.model, messages, temperature))
	if err != nil {
		return nil, c.translateError(err)
	}
	return ToCompletion(response), nil
}

// ToChatCompletionRequest builds the wire request. go-openai drops a zero
// temperature (omitempty), so 0 is sent as the smallest positive float32.
func ToChatCompletionRequest(model string, messages []llm.Message, temperature float32) openaigo.ChatCompletionRequest {
	chatMessages := make([]openaigo.ChatCompletionMessage, 0, len(messages))
	for _, message := range messages {
		chatMessages = append(chatMessages, openaigo.ChatCompletionMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}
	return openaigo.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: temperature,
	}
}

func ToCompletion(response openaigo.ChatCompletionResponse) *llm.Completion {
	completion := &llm.Completion{
		Model:   response.Model,
		Choices: make([]llm.Choice, 0, len(response.Choices)),
	}
	for _, choice := range response.Choices {
		completion.Choices = append(completion.Choices, llm.Choice{
			Text:         choice.Message.Content,
			FinishReason: mapFinishReason(choice.FinishReason),
		})
	}
	return completion
}

func mapFinishReason(reason openaigo.FinishReason) llm.FinishReason {
	switch reason {
	case openaigo.FinishReasonLength:
		return llm.FinishReasonLength
	case openaigo.FinishReasonContentFilter:
		return llm.FinishReasonContentFilter
	case openaigo.FinishReasonStop:
		return llm.FinishReasonStop
	default:
		return llm.FinishReasonOther
	}
}

func (c *OpenAIClient) translateError(err error) error {
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &llm.HTTPError{Provider: c.name, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var requestErr *openaigo.RequestError
	if errors.As(err, &requestErr) && requestErr.HTTPStatusCode > 0 {
		body := http.StatusText(requestErr.HTTPStatusCode)
		if requestErr.Err != nil {
			body = requestErr.Err.Error()
		}
		return &llm.HTTPError{Provider: c.name, StatusCode: requestErr.HTTPStatusCode, Body: body}
	}
	return err
}
