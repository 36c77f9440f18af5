package llm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/internal/llm/llmtest"
)

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `"Hello"`, want: "Hello"},
		{in: `Hello`, want: "Hello"},
		{in: `"Hello`, want: "Hello"},
		{in: `Hello"`, want: "Hello"},
		{in: `""Hello""`, want: `"Hello"`},
		{in: `"`, want: ""},
		{in: `Say "hi" now`, want: `Say "hi" now`},
		{in: ``, want: ``},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, llm.StripQuotes(tt.in), "input %q", tt.in)
	}
}

func TestStripQuotesIsIdempotentForOneLayer(t *testing.T) {
	for _, in := range []string{`"a"`, `a`, `"a`, `a"`, `"multi word text"`, `{"k": ["v"]}`} {
		once := llm.StripQuotes(in)
		assert.Equal(t, once, llm.StripQuotes(once), "input %q", in)
	}
}

func TestSendReturnsFirstChoiceText(t *testing.T) {
	backend := &llmtest.Backend{Replies: []llmtest.Reply{{Completion: &llm.Completion{Choices: []llm.Choice{
		{Text: `"first"`, FinishReason: llm.FinishReasonStop},
		{Text: "second", FinishReason: llm.FinishReasonStop},
	}}}}}
	client := llm.NewClient(backend, nil)

	text, err := client.Send(context.Background(), []llm.Message{llm.UserMessage("Hello")}, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []llm.Message{llm.UserMessage("Hello")}, calls[0].Messages)
	assert.InDelta(t, 0.3, calls[0].Temperature, 1e-6)
}

func TestSendClassifiesFinishReasons(t *testing.T) {
	tests := []struct {
		name    string
		reason  llm.FinishReason
		want    error
		message string
	}{
		{
			name:    "length",
			reason:  llm.FinishReasonLength,
			want:    llm.ErrTruncated,
			message: `incomplete model output for model "gpt-4o" due to token limit`,
		},
		{
			name:    "content filter",
			reason:  llm.FinishReasonContentFilter,
			want:    llm.ErrFiltered,
			message: `omitted content due to content filter from model "gpt-4o"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &llmtest.Backend{
				ModelName: "gpt-4o",
				Replies:   []llmtest.Reply{{Completion: llmtest.Finished("partial text", tt.reason)}},
			}
			text, err := llm.NewClient(backend, nil).Send(context.Background(), []llm.Message{llm.UserMessage("x")}, 0.3)

			assert.Empty(t, text)
			assert.ErrorIs(t, err, tt.want)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestSendTreatsOtherFinishReasonsAsSuccess(t *testing.T) {
	backend := &llmtest.Backend{Replies: []llmtest.Reply{{Completion: llmtest.Finished("done", llm.FinishReasonOther)}}}

	text, err := llm.NewClient(backend, nil).Send(context.Background(), []llm.Message{llm.UserMessage("x")}, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "done", text)
}

func TestSendMalformedWithoutChoices(t *testing.T) {
	backend := &llmtest.Backend{Replies: []llmtest.Reply{{Completion: &llm.Completion{}}}}

	_, err := llm.NewClient(backend, nil).Send(context.Background(), []llm.Message{llm.UserMessage("x")}, 0.3)
	assert.ErrorIs(t, err, llm.ErrMalformed)
}

func TestSendPropagatesBackendErrorUnchanged(t *testing.T) {
	httpErr := &llm.HTTPError{Provider: "openai", StatusCode: http.StatusUnauthorized, Body: "invalid api key"}
	backend := &llmtest.Backend{Replies: []llmtest.Reply{{Err: httpErr}}}

	_, err := llm.NewClient(backend, nil).Send(context.Background(), []llm.Message{llm.UserMessage("x")}, 0.3)

	var got *llm.HTTPError
	require.True(t, errors.As(err, &got))
	assert.Same(t, httpErr, got)
	assert.Len(t, backend.Calls(), 1)
}

type recorded struct {
	name   string
	labels map[string]string
}

type fakeRecorder struct {
	counters []recorded
	timers   []recorded
}

func (r *fakeRecorder) RecordCounter(name string, labels map[string]string, value float64) {
	r.counters = append(r.counters, recorded{name: name, labels: labels})
}

func (r *fakeRecorder) RecordTimer(name string, labels map[string]string, duration time.Duration) {
	r.timers = append(r.timers, recorded{name: name, labels: labels})
}

func TestSendRecordsOutcome(t *testing.T) {
	recorder := &fakeRecorder{}
	backend := &llmtest.Backend{Replies: []llmtest.Reply{{Completion: llmtest.Finished("", llm.FinishReasonLength)}}}

	_, _ = llm.NewClient(backend, nil, llm.WithRecorder(recorder)).Send(context.Background(), nil, 0.3)

	require.Len(t, recorder.counters, 1)
	assert.Equal(t, "truncated", recorder.counters[0].labels["result"])
	assert.Equal(t, "test", recorder.counters[0].labels["provider"])
	require.Len(t, recorder.timers, 1)
}
