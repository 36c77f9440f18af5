// Package llmtest provides a scripted llm.Backend for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/llmgate/promptbrew/internal/llm"
)

type Call struct {
	Messages    []llm.Message
	Temperature float32
}

type Reply struct {
	Completion *llm.Completion
	Err        error
}

// Backend replays Replies in order and records every call. Once the script
// runs out, the last reply repeats.
type Backend struct {
	ModelName string
	Replies   []Reply

	mu    sync.Mutex
	calls []Call
}

func (b *Backend) Name() string { return "test" }

func (b *Backend) Model() string {
	if b.ModelName == "" {
		return "test-model"
	}
	return b.ModelName
}

func (b *Backend) Complete(ctx context.Context, messages []llm.Message, temperature float32) (*llm.Completion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Messages: append([]llm.Message(nil), messages...), Temperature: temperature})
	if len(b.Replies) == 0 {
		return Text(""), nil
	}
	i := len(b.calls) - 1
	if i >= len(b.Replies) {
		i = len(b.Replies) - 1
	}
	return b.Replies[i].Completion, b.Replies[i].Err
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Text is a single-choice completion that stopped normally.
func Text(text string) *llm.Completion {
	return Finished(text, llm.FinishReasonStop)
}

func Finished(text string, reason llm.FinishReason) *llm.Completion {
	return &llm.Completion{
		Model:   "test-model",
		Choices: []llm.Choice{{Text: text, FinishReason: reason}},
	}
}

// Script builds a Backend returning the given texts in order.
func Script(texts ...string) *Backend {
	b := &Backend{}
	for _, text := range texts {
		b.Replies = append(b.Replies, Reply{Completion: Text(text)})
	}
	return b
}
