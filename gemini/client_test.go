package gemini

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/llm"
)

func TestNewGeminiClientUsesHTTPTimeout(t *testing.T) {
	client := NewGeminiClient(config.GeminiConfig{Model: "gemini-1.5-flash"}, &http.Client{Timeout: 30 * time.Second})
	assert.Equal(t, 30*time.Second, client.timeout)
	assert.Equal(t, "gemini-1.5-flash", client.Model())

	assert.Zero(t, NewGeminiClient(config.GeminiConfig{}, nil).timeout)
}

func TestConvertResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:      &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world")}},
				FinishReason: genai.FinishReasonStop,
			},
			{
				Content:      &genai.Content{Parts: []genai.Part{genai.Text("cut")}},
				FinishReason: genai.FinishReasonMaxTokens,
			},
		},
	}

	completion := convertResponse("gemini-1.5-flash", resp)
	require.Len(t, completion.Choices, 2)
	assert.Equal(t, "Hello world", completion.Choices[0].Text)
	assert.Equal(t, llm.FinishReasonStop, completion.Choices[0].FinishReason)
	assert.Equal(t, llm.FinishReasonLength, completion.Choices[1].FinishReason)
}

func TestConvertResponseWithoutCandidates(t *testing.T) {
	completion := convertResponse("gemini-1.5-flash", &genai.GenerateContentResponse{})
	assert.Empty(t, completion.Choices)
}

func TestMapFinishReason(t *testing.T) {
	assert.Equal(t, llm.FinishReasonContentFilter, mapFinishReason(genai.FinishReasonSafety))
	assert.Equal(t, llm.FinishReasonContentFilter, mapFinishReason(genai.FinishReasonRecitation))
	assert.Equal(t, llm.FinishReasonOther, mapFinishReason(genai.FinishReasonOther))
}

func TestSystemMessagesBecomeInstruction(t *testing.T) {
	messages := []llm.Message{
		llm.SystemMessage("You are an expert."),
		llm.UserMessage("Write a story"),
	}

	assert.Equal(t, "You are an expert.", systemInstruction(messages))
	parts := userParts(messages)
	require.Len(t, parts, 1)
	assert.Equal(t, genai.Text("Write a story"), parts[0])
}
