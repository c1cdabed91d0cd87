package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinkytt/analyzer/internal/ai"
)

type fakeProvider struct {
	kind      ai.Kind
	available bool
	fields    ai.Fields
	err       error
	delay     time.Duration
	calls     int
}

func (f *fakeProvider) Kind() ai.Kind { return f.kind }

func (f *fakeProvider) Available(ctx context.Context) bool { return f.available }
func (f *fakeProvider) Analyze(ctx context.Context, content string) (ai.Fields, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return ai.Fields{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.fields, f.err
}

func intPtr(n int) *int { return &n }

const sampleText = "Our SaaS platform offers pricing plans and a free trial. Contact sales@acme.io."

func newTestOrchestrator(providers ...ai.Provider) *Orchestrator {
	return NewOrchestrator(200*time.Millisecond, NewHeuristic(nil), providers...)
}

func assertValidResult(t *testing.T, result *Result) {
	t.Helper()
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ID)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.NotEmpty(t, result.Strengths)
	assert.NotEmpty(t, result.Weaknesses)
	assert.NotEmpty(t, result.Recommendations)
	assert.NotEmpty(t, result.Readiness)
	assert.False(t, result.GeneratedAt.IsZero())
	for name, score := range result.Categories {
		assert.GreaterOrEqualf(t, score, 0, "category %s", name)
		assert.LessOrEqualf(t, score, 100, "category %s", name)
	}
}

func TestOrchestratorRejectsEmptyInput(t *testing.T) {
	o := newTestOrchestrator()
	_, err := o.Analyze(context.Background(), Request{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestOrchestratorNoBackendsUsesHeuristic(t *testing.T) {
	o := newTestOrchestrator()

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assertValidResult(t, result)
	assert.Equal(t, ai.KindHeuristic, result.Provider)
}

func TestOrchestratorUnavailableBackendsUseHeuristic(t *testing.T) {
	remote := &fakeProvider{kind: ai.KindOpenAI, available: false}
	local := &fakeProvider{kind: ai.KindOllama, available: false}
	o := newTestOrchestrator(remote, local)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assert.Equal(t, ai.KindHeuristic, result.Provider)
	assert.Zero(t, remote.calls)
	assert.Zero(t, local.calls)
}

func TestOrchestratorFullBackendResponseIsNotBlended(t *testing.T) {
	remote := &fakeProvider{
		kind:      ai.KindOpenAI,
		available: true,
		fields: ai.Fields{
			Score:           intPtr(88),
			Strengths:       []string{"remote strength"},
			Weaknesses:      []string{"remote weakness"},
			Recommendations: []string{"remote recommendation"},
			Categories:      map[string]int{CategoryTrust: 90, CategoryContent: 80, CategoryConversion: 85, CategoryPresence: 70},
			Summary:         "remote summary",
		},
	}
	o := newTestOrchestrator(remote)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assertValidResult(t, result)
	assert.Equal(t, ai.KindOpenAI, result.Provider)
	assert.Equal(t, 88, result.Score)
	assert.Equal(t, []string{"remote strength"}, result.Strengths)
	assert.Equal(t, []string{"remote weakness"}, result.Weaknesses)
	assert.Equal(t, []string{"remote recommendation"}, result.Recommendations)
	assert.Equal(t, "remote summary", result.Summary)
	assert.Equal(t, 90, result.Categories[CategoryTrust])
}

func TestOrchestratorPartialResponseMergesPerField(t *testing.T) {
	// Score and strengths from the backend; everything else missing.
	remote := &fakeProvider{
		kind:      ai.KindOpenAI,
		available: true,
		fields: ai.Fields{
			Score:      intPtr(77),
			Strengths:  []string{"remote strength"},
			Categories: map[string]int{CategoryTrust: 95},
		},
	}
	o := newTestOrchestrator(remote)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assertValidResult(t, result)

	// Provider reflects the backend that produced the score.
	assert.Equal(t, ai.KindOpenAI, result.Provider)
	assert.Equal(t, 77, result.Score)
	assert.Equal(t, []string{"remote strength"}, result.Strengths)

	// The gaps are filled from the heuristic path.
	assert.NotEmpty(t, result.Weaknesses)
	assert.NotEmpty(t, result.Recommendations)
	assert.NotEmpty(t, result.Summary)

	// Sub-scores merge per category: the backend's trust survives,
	// the missing categories come from the heuristic.
	assert.Equal(t, 95, result.Categories[CategoryTrust])
	assert.Contains(t, result.Categories, CategoryContent)
	assert.Contains(t, result.Categories, CategoryConversion)
	assert.Contains(t, result.Categories, CategoryPresence)
}

func TestOrchestratorBackendFailureFallsBackToHeuristic(t *testing.T) {
	remote := &fakeProvider{kind: ai.KindOpenAI, available: true, err: errors.New("boom")}
	o := newTestOrchestrator(remote)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err, "backend failures never surface")
	assertValidResult(t, result)
	assert.Equal(t, ai.KindHeuristic, result.Provider)
	assert.Equal(t, 1, remote.calls, "exactly one attempt, no retry")
}

func TestOrchestratorTimeoutMatchesHeuristicShape(t *testing.T) {
	slow := &fakeProvider{kind: ai.KindOpenAI, available: true, delay: time.Second}
	o := newTestOrchestrator(slow)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assertValidResult(t, result)
	assert.Equal(t, ai.KindHeuristic, result.Provider)

	heuristicOnly, err := newTestOrchestrator().Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assert.Equal(t, heuristicOnly.Score, result.Score)
	assert.Equal(t, heuristicOnly.Strengths, result.Strengths)
	assert.Equal(t, heuristicOnly.Categories, result.Categories)
}

func TestOrchestratorSingleFallbackHop(t *testing.T) {
	// When the first backend fails, fallback goes straight to the
	// heuristic, never to a second backend.
	remote := &fakeProvider{kind: ai.KindOpenAI, available: true, err: errors.New("down")}
	local := &fakeProvider{kind: ai.KindOllama, available: true, fields: ai.Fields{Score: intPtr(50)}}
	o := newTestOrchestrator(remote, local)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assert.Equal(t, ai.KindHeuristic, result.Provider)
	assert.Zero(t, local.calls)
}

func TestOrchestratorOverridePicksRequestedBackend(t *testing.T) {
	remote := &fakeProvider{kind: ai.KindOpenAI, available: true, fields: ai.Fields{Score: intPtr(60)}}
	local := &fakeProvider{kind: ai.KindOllama, available: true, fields: ai.Fields{Score: intPtr(40)}}
	o := newTestOrchestrator(remote, local)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText, Override: ai.KindOllama})
	require.NoError(t, err)
	assert.Equal(t, ai.KindOllama, result.Provider)
	assert.Equal(t, 40, result.Score)
	assert.Zero(t, remote.calls)
}

func TestOrchestratorHeuristicOverrideSkipsBackends(t *testing.T) {
	remote := &fakeProvider{kind: ai.KindOpenAI, available: true, fields: ai.Fields{Score: intPtr(60)}}
	o := newTestOrchestrator(remote)

	result, err := o.Analyze(context.Background(), Request{Text: sampleText, Override: ai.KindHeuristic})
	require.NoError(t, err)
	assert.Equal(t, ai.KindHeuristic, result.Provider)
	assert.Zero(t, remote.calls)
}

func TestOrchestratorUnconfiguredOverrideDegradesToPriority(t *testing.T) {
	local := &fakeProvider{kind: ai.KindOllama, available: true, fields: ai.Fields{Score: intPtr(52)}}
	o := newTestOrchestrator(local)

	// openai requested but not configured: normal priority applies.
	result, err := o.Analyze(context.Background(), Request{Text: sampleText, Override: ai.KindOpenAI})
	require.NoError(t, err)
	assert.Equal(t, ai.KindOllama, result.Provider)
}

func TestOrchestratorDefaultsSource(t *testing.T) {
	o := newTestOrchestrator()

	result, err := o.Analyze(context.Background(), Request{Text: sampleText})
	require.NoError(t, err)
	assert.Equal(t, SourceManual, result.Source)

	result, err = o.Analyze(context.Background(), Request{Text: sampleText, Source: "https://acme.io"})
	require.NoError(t, err)
	assert.Equal(t, "https://acme.io", result.Source)
}
