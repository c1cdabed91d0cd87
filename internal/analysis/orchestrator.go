package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/obinkytt/analyzer/internal/ai"
	"github.com/obinkytt/analyzer/internal/observability"
)

// Orchestrator selects a backend, invokes it once, and coerces whatever
// comes back into a schema-valid Result. Backend problems never reach the
// caller: any invocation failure falls back to the heuristic analyzer in
// a single hop, and partially extracted responses are completed per field
// from heuristic values. The only surfaced error is ErrEmptyInput.
//
// Safe for concurrent use; all state is set at construction.
type Orchestrator struct {
	timeout   time.Duration
	heuristic *Heuristic
	providers []ai.Provider
}

// NewOrchestrator wires the fallback chain. providers are tried in the
// given priority order; the heuristic is always the terminal fallback.
func NewOrchestrator(timeout time.Duration, heuristic *Heuristic, providers ...ai.Provider) *Orchestrator {
	if heuristic == nil {
		heuristic = NewHeuristic(nil)
	}
	return &Orchestrator{
		timeout:   timeout,
		heuristic: heuristic,
		providers: providers,
	}
}

// Analyze runs one analysis end to end. It returns an error only for
// empty input; every other condition degrades to a valid result.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}
	observability.IncAnalyses()

	// Heuristic fields are computed at most once, and only when needed:
	// a fully parseable backend response never blends heuristic values.
	var heuristicFields *ai.Fields
	baseline := func() ai.Fields {
		if heuristicFields == nil {
			f := o.heuristic.Analyze(req)
			heuristicFields = &f
		}
		return *heuristicFields
	}

	provider := o.selectProvider(ctx, req.Override)
	if provider == nil {
		observability.IncProviderCall(string(ai.KindHeuristic))
		return o.finalize(req, baseline(), ai.KindHeuristic), nil
	}

	observability.IncProviderCall(string(provider.Kind()))
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	fields, err := provider.Analyze(callCtx, req.Text)
	cancel()
	if err != nil {
		observability.IncFallback()
		observability.IncError(observability.ClassifyProviderError(err))
		slog.Warn("backend failed, falling back to heuristic",
			"provider", provider.Kind(), "source", req.Source, "error", err)
		return o.finalize(req, baseline(), ai.KindHeuristic), nil
	}

	merged := mergeFields(fields, baseline)
	return o.finalize(req, merged, provider.Kind()), nil
}

// selectProvider applies the priority rule: a valid override naming a
// configured backend wins, then the configured providers in order, then
// nil (meaning heuristic). Selection itself never errors.
func (o *Orchestrator) selectProvider(ctx context.Context, override ai.Kind) ai.Provider {
	if override == ai.KindHeuristic {
		return nil
	}
	if override != "" {
		for _, p := range o.providers {
			if p.Kind() == override && p.Available(ctx) {
				return p
			}
		}
		// Unconfigured override degrades to the normal priority order.
	}
	for _, p := range o.providers {
		if p.Available(ctx) {
			return p
		}
	}
	return nil
}

// mergeFields completes a partial backend response. Each field the
// backend failed to extract is taken from the heuristic; fields it did
// produce are kept untouched. Sub-scores merge per category.
func mergeFields(got ai.Fields, baseline func() ai.Fields) ai.Fields {
	if got.Score == nil {
		score := *baseline().Score
		got.Score = &score
	}
	if len(got.Strengths) == 0 {
		got.Strengths = baseline().Strengths
	}
	if len(got.Weaknesses) == 0 {
		got.Weaknesses = baseline().Weaknesses
	}
	if len(got.Recommendations) == 0 {
		got.Recommendations = baseline().Recommendations
	}
	if got.Summary == "" {
		got.Summary = baseline().Summary
	}
	if len(got.Categories) == 0 {
		got.Categories = baseline().Categories
	} else {
		for name, value := range baseline().Categories {
			if _, ok := got.Categories[name]; !ok {
				got.Categories[name] = value
			}
		}
	}
	return got
}

// finalize stamps identity and guarantees the schema invariants: bounded
// scores, non-empty lists, provider naming the actual producer.
func (o *Orchestrator) finalize(req Request, fields ai.Fields, kind ai.Kind) *Result {
	score := 0
	if fields.Score != nil {
		score = ai.Clamp(*fields.Score)
	}

	categories := make(map[string]int, len(fields.Categories))
	for name, value := range fields.Categories {
		categories[name] = ai.Clamp(value)
	}

	source := req.Source
	if source == "" {
		source = SourceManual
	}

	return &Result{
		ID:              uuid.New().String(),
		Source:          source,
		Score:           score,
		Strengths:       orPlaceholder(fields.Strengths, "No standout strengths identified yet"),
		Weaknesses:      orPlaceholder(fields.Weaknesses, "Not enough content to identify weaknesses"),
		Recommendations: orPlaceholder(fields.Recommendations, "Provide more content for a deeper analysis"),
		Categories:      categories,
		Summary:         fields.Summary,
		Readiness:       readinessFor(score),
		Provider:        kind,
		GeneratedAt:     time.Now().UTC(),
	}
}

func orPlaceholder(items []string, placeholder string) []string {
	if len(items) == 0 {
		return []string{placeholder}
	}
	return items
}
