package llm

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated = errors.New("llm: output truncated")
	ErrFiltered  = errors.New("llm: output filtered")
	ErrMalformed = errors.New("llm: malformed response")
)

// FinishError reports a completion that ended for a reason other than a
// normal stop.
type FinishError struct {
	Model  string
	Reason FinishReason
}

func (e *FinishError) Error() string {
	if e.Reason == FinishReasonContentFilter {
		return fmt.Sprintf("omitted content due to content filter from model %q", e.Model)
	}
	return fmt.Sprintf("incomplete model output for model %q due to token limit", e.Model)
}

func (e *FinishError) Is(target error) bool {
	switch target {
	case ErrTruncated:
		return e.Reason == FinishReasonLength
	case ErrFiltered:
		return e.Reason == FinishReasonContentFilter
	}
	return false
}

type MalformedError struct {
	Model  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("unexpected response from model %q: %s", e.Model, e.Reason)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// HTTPError is a provider transport failure. The status and body are
// forwarded to the caller unchanged.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, e.Body)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrFiltered):
		return "filtered"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	}
	return "error"
}
