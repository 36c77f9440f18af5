package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StringMap keeps JSON key order, which is the order requirements and
// variables are written into the refinement metaprompt.
type StringMap = orderedmap.OrderedMap[string, string]

// Dimensions maps a dimension name to its candidate values, in the order the
// model proposed them.
type Dimensions = orderedmap.OrderedMap[string, []string]

func NewStringMap() *StringMap {
	return orderedmap.New[string, string]()
}

func NewDimensions() *Dimensions {
	return orderedmap.New[string, []string]()
}

// Prompt fields are pointers so that "required" only rejects a missing
// prompt. An empty prompt is passed through to the model.
type GenerateDimensionsRequest struct {
	Prompt *string `json:"prompt" binding:"required"`
}

type GenerateDimensionsResponse struct {
	Prompt     string      `json:"prompt"`
	Dimensions *Dimensions `json:"dimensions"`
}

type GenerateRefinedPromptRequest struct {
	Prompt         *string     `json:"prompt" binding:"required"`
	Dimensions     *StringMap  `json:"dimensions"`
	InputVariables *StringMap  `json:"input_variables"`
	PromptStyle    PromptStyle `json:"prompt_style"`
}

// Normalize fills the defaults for omitted optional fields.
func (r *GenerateRefinedPromptRequest) Normalize() {
	if r.Dimensions == nil {
		r.Dimensions = NewStringMap()
	}
	if r.InputVariables == nil {
		r.InputVariables = NewStringMap()
	}
	if r.PromptStyle == "" {
		r.PromptStyle = PromptStyleSimple
	}
}

type GenerateRefinedPromptResponse struct {
	RefinedPrompt  string      `json:"refined_prompt"`
	InputVariables *StringMap  `json:"input_variables"`
	PromptStyle    PromptStyle `json:"prompt_style"`
}

type TestPromptRequest struct {
	Prompt         *string    `json:"prompt" binding:"required"`
	InputVariables *StringMap `json:"input_variables"`
}

func (r *TestPromptRequest) Normalize() {
	if r.InputVariables == nil {
		r.InputVariables = NewStringMap()
	}
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
