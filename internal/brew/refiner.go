package brew

import (
	"context"
	"strings"

	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/internal/logger"
	"github.com/llmgate/promptbrew/models"
)

type Refiner struct {
	sender Sender
	log    *logger.Logger
}

func NewRefiner(sender Sender, log *logger.Logger) *Refiner {
	if log == nil {
		log = logger.Nop()
	}
	return &Refiner{sender: sender, log: log}
}

// Refine merges a draft prompt, the chosen dimension values, and the declared
// input variables into one refined prompt. An unknown style fails before any
// call is made.
func (r *Refiner) Refine(
	ctx context.Context,
	prompt string,
	requirements *models.StringMap,
	inputVariables *models.StringMap,
	style models.PromptStyle,
	temperature float32,
) (string, error) {
	r.log.Info("Generating refined prompt", "style", style)

	examples, err := examplesFor(style)
	if err != nil {
		return "", err
	}

	content, err := render(refinePromptTemplate, refineData{
		Prompt:         prompt,
		Requirements:   JoinPairs(requirements),
		InputVariables: JoinPairs(inputVariables),
		Examples:       examples,
	})
	if err != nil {
		return "", err
	}

	return r.sender.Send(ctx, []llm.Message{
		llm.SystemMessage(refineSystemMessage),
		llm.UserMessage(content),
	}, temperature)
}

// JoinPairs writes one "name: value" line per entry in insertion order,
// preceded by a newline. An empty or nil map yields just the newline.
func JoinPairs(pairs *models.StringMap) string {
	var lines []string
	if pairs != nil {
		for pair := pairs.Oldest(); pair != nil; pair = pair.Next() {
			lines = append(lines, pair.Key+": "+pair.Value)
		}
	}
	return "\n" + strings.Join(lines, "\n")
}
