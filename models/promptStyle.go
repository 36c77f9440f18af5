package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PromptStyle selects the refinement strategy and its worked examples.
type PromptStyle string

const (
	PromptStyleSimple                 PromptStyle = "SIMPLE"
	PromptStyleZeroShotChainOfThought PromptStyle = "ZERO_SHOT_CHAIN_OF_THOUGHT"
	PromptStyleFewShotChainOfThought  PromptStyle = "FEW_SHOT_CHAIN_OF_THOUGHT"
	PromptStyleAssumedExpertise       PromptStyle = "ASSUMED_EXPERTISE"
)

// PromptStyles lists every supported style in display order.
var PromptStyles = []PromptStyle{
	PromptStyleSimple,
	PromptStyleZeroShotChainOfThought,
	PromptStyleFewShotChainOfThought,
	PromptStyleAssumedExpertise,
}

// ParsePromptStyle accepts any casing of a known style name.
func ParsePromptStyle(s string) (PromptStyle, error) {
	candidate := PromptStyle(strings.ToUpper(strings.TrimSpace(s)))
	for _, style := range PromptStyles {
		if style == candidate {
			return style, nil
		}
	}
	return "", fmt.Errorf("unknown prompt style %q", s)
}

func (s *PromptStyle) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("prompt_style must be a string: %w", err)
	}
	style, err := ParsePromptStyle(raw)
	if err != nil {
		return err
	}
	*s = style
	return nil
}
