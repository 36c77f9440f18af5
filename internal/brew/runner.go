package brew

import (
	"context"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/models"
)

const runTemperature float32 = 0.3

type Runner struct {
	sender Sender
}

func NewRunner(sender Sender) *Runner {
	return &Runner{sender: sender}
}

// Run sends an already rendered prompt as a single user message.
func (r *Runner) Run(ctx context.Context, prompt string) (string, error) {
	return r.sender.Send(ctx, []llm.Message{llm.UserMessage(prompt)}, runTemperature)
}

// RenderPrompt substitutes {{ name }} placeholders with values from
// variables. Whitespace inside the braces is ignored; placeholders without a
// value are left untouched.
func RenderPrompt(prompt string, variables *models.StringMap) (string, error) {
	return fasttemplate.ExecuteFuncStringWithErr(prompt, "{{", "}}", func(w io.Writer, tag string) (int, error) {
		if variables != nil {
			if value, ok := variables.Get(strings.TrimSpace(tag)); ok {
				return w.Write([]byte(value))
			}
		}
		return w.Write([]byte("{{" + tag + "}}"))
	})
}
