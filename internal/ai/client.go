package ai

import (
	"context"
	"errors"
)

// Kind identifies one analysis backend.
type Kind string

const (
	KindHeuristic Kind = "heuristic"
	KindOpenAI    Kind = "openai"
	KindOllama    Kind = "ollama"
)

// ParseKind maps a user-supplied override token to a backend kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindHeuristic, KindOpenAI, KindOllama:
		return Kind(s), true
	default:
		return "", false
	}
}

// Fields is the partial analysis a backend managed to extract. A nil
// Score or an empty list means the backend could not produce that field;
// the orchestrator fills the gaps from the heuristic analyzer.
type Fields struct {
	Score           *int           `json:"score,omitempty"`
	Strengths       []string       `json:"strengths,omitempty"`
	Weaknesses      []string       `json:"weaknesses,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Categories      map[string]int `json:"categories,omitempty"`
	Summary         string         `json:"summary,omitempty"`
}

// Provider is one analysis backend. Analyze performs exactly one attempt:
// no retries, no internal fallback. Any transport error, non-success
// status, empty response, or response without an extractable score is
// reported as an error and handled by the caller.
type Provider interface {
	Kind() Kind
	// Available reports whether the backend is worth invoking at all
	// (credential present, endpoint answering). It must be cheap.
	Available(ctx context.Context) bool
	Analyze(ctx context.Context, content string) (Fields, error)
}

var (
	// ErrEmptyResponse means the backend answered with no usable text.
	ErrEmptyResponse = errors.New("empty response from backend")
	// ErrNoScore means no overall score could be extracted from the
	// response, strictly or loosely. The whole response is discarded.
	ErrNoScore = errors.New("no score in backend response")
)
