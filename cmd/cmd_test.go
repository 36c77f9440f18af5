package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMockProvider(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("LOGGING_MODE", "production")
	t.Setenv("SERVER_MODE", "test")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		refineRequirements, refineVariables, testVariables = nil, nil, nil
		RootCmd.SetArgs(nil)
	})
	err := RootCmd.Execute()
	return out.String(), err
}

func TestParsePairsKeepsOrder(t *testing.T) {
	pairs, err := parsePairs("var", []string{"topic=a dog's adventure", "length=short", "topic=a cat"})
	require.NoError(t, err)

	var keys []string
	for pair := pairs.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key+"="+pair.Value)
	}
	assert.Equal(t, []string{"topic=a cat", "length=short"}, keys)

	_, err = parsePairs("var", []string{"novalue"})
	assert.EqualError(t, err, `invalid --var "novalue", expected name=value`)

	_, err = parsePairs("var", []string{"=x"})
	assert.Error(t, err)
}

func TestDimensionsCommand(t *testing.T) {
	useMockProvider(t)

	out, err := execute(t, "dimensions", "Write a story")
	require.NoError(t, err)

	var response struct {
		Prompt     string              `json:"prompt"`
		Dimensions map[string][]string `json:"dimensions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "Write a story", response.Prompt)
	assert.Contains(t, response.Dimensions, "Genre")
	assert.Equal(t, []string{"Most", "Least"}, response.Dimensions["Formality"])
}

func TestRefineCommand(t *testing.T) {
	useMockProvider(t)

	out, err := execute(t, "refine", "Write a story", "-r", "Genre=Comedy", "-i", "topic=what the story is about", "-s", "assumed_expertise")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Mock response for: Rewrite the draft prompt"))
}

func TestRefineCommandRejectsUnknownStyle(t *testing.T) {
	useMockProvider(t)

	_, err := execute(t, "refine", "Write a story", "--style", "socratic")
	assert.EqualError(t, err, `unknown prompt style "socratic"`)
}

func TestTestCommandRendersVariables(t *testing.T) {
	useMockProvider(t)

	out, err := execute(t, "test", "Tell me about {{ topic }}", "-i", "topic=a dog's adventure")
	require.NoError(t, err)
	assert.Equal(t, "Mock response for: Tell me about a dog's adventure\n", out)
}

func TestTestCommandSurfacesTruncation(t *testing.T) {
	useMockProvider(t)

	_, err := execute(t, "test", "Hello [mock:length]")
	assert.EqualError(t, err, `incomplete model output for model "mock-model" due to token limit`)
}

func TestRouter(t *testing.T) {
	useMockProvider(t)

	a, err := newApp(context.Background(), "default")
	require.NoError(t, err)
	defer a.Close()
	router := a.router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok", "provider": "mock", "model": "mock-model"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/promptbrew/test-prompt", strings.NewReader(`{"prompt": "Hi {{name}}", "input_variables": {"name": "Ada"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"Mock response for: Hi Ada"`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `promptbrew_llm_requests_total{model="mock-model",provider="mock",result="success"} 1`)
	assert.Contains(t, rec.Body.String(), `promptbrew_http_requests_total{method="POST",route="/promptbrew/test-prompt",status="200"} 1`)
}
