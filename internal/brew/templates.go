package brew

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/llmgate/promptbrew/models"
)

// Metaprompts use [[ ]] delimiters so that literal {{variable}} placeholders
// can appear in the instruction text and examples.
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

const refineSystemMessage = "You are an expert at creating instructional prompts for LLMs."

const nominalDimensionsText = `You are helping a user tune a prompt for a large language model.
Suggest [[.CatNum]] nominal dimensions for the prompt below. A nominal dimension is a categorical property of the desired output whose values have no natural order, such as the genre of a story or the cuisine of a recipe.
For each dimension, suggest [[.ValNum]] distinct candidate values.

Respond only with a JSON object that maps each dimension name to a list of its candidate values, for example:
{"Genre": ["Comedy", "Drama", "Mystery"], "Setting": ["City", "Countryside", "Space"]}
Do not include any explanation or any text outside the JSON object.

Prompt:
[[.Prompt]]`

const ordinalDimensionsText = `You are helping a user tune a prompt for a large language model.
Suggest [[.CatNum]] ordinal dimensions for the prompt below. An ordinal dimension is a property of the desired output that can be turned up or down, such as how formal the language is or how healthy a recipe is.
Describe each dimension with a short name and use exactly the two values "Most" and "Least" to mark its extremes.

Respond only with a JSON object that maps each dimension name to its list of values, for example:
{"Formality": ["Most", "Least"], "Humor": ["Most", "Least"]}
Do not include any explanation or any text outside the JSON object.

Prompt:
[[.Prompt]]`

const refinePromptText = `Rewrite the draft prompt below into a clear, complete instructional prompt for a large language model.

Draft prompt:
[[.Prompt]]

The refined prompt must satisfy these requirements, given as "dimension: value" pairs:[[.Requirements]]

The refined prompt must contain a placeholder for each of these input variables, given as "name: description" pairs. Write each placeholder as the variable name wrapped in double curly braces, for example {{topic}}, and leave it unfilled:[[.InputVariables]]

Follow the style shown in these examples:
[[.Examples]]

Respond only with the refined prompt. Do not explain your changes and do not wrap the prompt in quotes.`

var (
	nominalDimensionsTemplate = mustParse("nominal-dimensions", nominalDimensionsText)
	ordinalDimensionsTemplate = mustParse("ordinal-dimensions", ordinalDimensionsText)
	refinePromptTemplate      = mustParse("refine-prompt", refinePromptText)
)

type dimensionsData struct {
	CatNum int
	ValNum int
	Prompt string
}

type refineData struct {
	Prompt         string
	Requirements   string
	InputVariables string
	Examples       string
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Delims(leftDelim, rightDelim).Option("missingkey=error").Parse(text))
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("error rendering %s metaprompt: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

const simpleExamples = `Draft prompt: Write a story
Requirements:
Genre: Comedy
Input variables:
topic: what the story is about
Refined prompt: Write a short comedic story about {{topic}}. Keep the tone light and playful, build toward a funny twist, and end on a punchline.

Draft prompt: Give me a recipe
Requirements:
Healthiness: Most
Input variables:
ingredient: the main ingredient
Refined prompt: Create a very healthy recipe that uses {{ingredient}} as the main ingredient. List the ingredients with quantities, then give numbered preparation steps.`

const zeroShotChainOfThoughtExamples = `Draft prompt: Solve this word problem
Requirements:
Detail: Most
Input variables:
problem: the word problem to solve
Refined prompt: Solve the following word problem: {{problem}}
Let's think step by step. Explain each step of your reasoning in detail before stating the final answer on its own line.

Draft prompt: Decide whether this review is positive
Requirements:
Formality: Least
Input variables:
review: a product review
Refined prompt: Read this product review: {{review}}
Let's think step by step about the tone and the particular comments it makes, then say in plain, casual words whether the review is positive or negative.`

const fewShotChainOfThoughtExamples = `Draft prompt: Classify the sentiment of a tweet
Requirements:
Format: Single word
Input variables:
tweet: the tweet to classify
Refined prompt: Classify the sentiment of a tweet as Positive, Negative, or Neutral. Reason step by step before answering.

Tweet: "Just got my new bike and it rides like a dream!"
Reasoning: The author is excited about a purchase and praises it. The sentiment is favorable.
Answer: Positive

Tweet: "My train is late again. Third time this week."
Reasoning: The author complains about a repeated inconvenience. The sentiment is unfavorable.
Answer: Negative

Tweet: {{tweet}}
Reasoning:

Draft prompt: Convert a sentence to passive voice
Requirements:
Formality: Most
Input variables:
sentence: the sentence to convert
Refined prompt: Rewrite a sentence in the passive voice using formal language. Work through the subject, verb, and object first.

Sentence: "The committee approved the budget."
Reasoning: The subject is "the committee", the verb is "approved", the object is "the budget". The object becomes the subject.
Answer: The budget was approved by the committee.

Sentence: {{sentence}}
Reasoning:`

const assumedExpertiseExamples = `Draft prompt: Explain how vaccines work
Requirements:
Audience: Children
Input variables:
vaccine: the vaccine to explain
Refined prompt: You are a pediatric immunologist who is skilled at explaining science to children. Explain how the {{vaccine}} vaccine helps the body fight germs, using simple words and a friendly example a child can picture.

Draft prompt: Review my code
Requirements:
Strictness: Most
Input variables:
code: the code to review
language: the programming language
Refined prompt: You are a senior {{language}} engineer performing a strict code review. Review the following code for bugs, security problems, and readability issues, and give a prioritized list of concrete fixes:
{{code}}`

// examplesFor returns the worked examples for a style. Every member of
// models.PromptStyles must have a case here.
func examplesFor(style models.PromptStyle) (string, error) {
	switch style {
	case models.PromptStyleSimple:
		return simpleExamples, nil
	case models.PromptStyleZeroShotChainOfThought:
		return zeroShotChainOfThoughtExamples, nil
	case models.PromptStyleFewShotChainOfThought:
		return fewShotChainOfThoughtExamples, nil
	case models.PromptStyleAssumedExpertise:
		return assumedExpertiseExamples, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
}
