package llm

import (
	"context"
	"strings"
	"time"

	"github.com/llmgate/promptbrew/internal/logger"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of a chat request. Order is significant:
// a system message, if any, comes first.
type Message struct {
	Role    Role
	Content string
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonOther         FinishReason = "other"
)

type Choice struct {
	Text         string
	FinishReason FinishReason
}

// Completion is a backend's raw answer, before classification.
type Completion struct {
	Model   string
	Choices []Choice
}

// Backend is one provider variant. Implementations make exactly one outbound
// call per Complete and translate provider HTTP failures into *HTTPError.
type Backend interface {
	Name() string
	Model() string
	Complete(ctx context.Context, messages []Message, temperature float32) (*Completion, error)
}

// Recorder receives per-call metrics. *googlemonitoring.MonitoringClient
// satisfies it.
type Recorder interface {
	RecordCounter(metricName string, labels map[string]string, value float64)
	RecordTimer(metricName string, labels map[string]string, duration time.Duration)
}

// Client is the adapter every brew component talks to.
type Client struct {
	backend  Backend
	log      *logger.Logger
	recorder Recorder
}

type Option func(*Client)

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func NewClient(backend Backend, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{backend: backend, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string {
	return c.backend.Model()
}

// Send issues one completion call and returns the validated text of the
// first choice. No retries.
func (c *Client) Send(ctx context.Context, messages []Message, temperature float32) (string, error) {
	model := c.backend.Model()
	log := c.log.With("provider", c.backend.Name(), "model", model)
	log.Debug("Calling LLM", "messages", messages, "temperature", temperature)
	start := time.Now()

	completion, err := c.backend.Complete(ctx, messages, temperature)
	if err != nil {
		c.record(model, "error", time.Since(start))
		return "", err
	}

	text, err := classify(model, completion)
	if err != nil {
		c.record(model, outcome(err), time.Since(start))
		return "", err
	}

	c.record(model, "success", time.Since(start))
	log.Debug("LLM response", "text", text, "duration_ms", time.Since(start).Milliseconds())
	return StripQuotes(text), nil
}

func classify(model string, completion *Completion) (string, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", &MalformedError{Model: model, Reason: "no choices in response"}
	}
	choice := completion.Choices[0]
	switch choice.FinishReason {
	case FinishReasonLength, FinishReasonContentFilter:
		return "", &FinishError{Model: model, Reason: choice.FinishReason}
	}
	return choice.Text, nil
}

// StripQuotes removes at most one leading and one trailing double quote when
// the text starts or ends with one.
func StripQuotes(text string) string {
	if !strings.HasPrefix(text, `"`) && !strings.HasSuffix(text, `"`) {
		return text
	}
	text = strings.TrimPrefix(text, `"`)
	return strings.TrimSuffix(text, `"`)
}

func (c *Client) record(model, result string, duration time.Duration) {
	if c.recorder == nil {
		return
	}
	labels := map[string]string{
		"provider": c.backend.Name(),
		"model":    model,
		"result":   result,
	}
	c.recorder.RecordCounter("promptbrew_llm_requests_total", labels, 1)
	c.recorder.RecordTimer("promptbrew_llm_request_duration_seconds", labels, duration)
}
