package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesScraped  uint64            `json:"pages_scraped"`
	Analyses      uint64            `json:"analyses"`
	Fallbacks     uint64            `json:"fallbacks"`
	ErrorsTotal   uint64            `json:"errors_total"`
	ProviderCalls map[string]uint64 `json:"provider_calls,omitempty"`
	ErrorsByType  map[string]uint64 `json:"errors_by_type,omitempty"`
}

var (
	pagesScraped uint64
	analyses     uint64
	fallbacks    uint64
	errorsTotal  uint64

	statsMu       sync.Mutex
	providerCalls = map[string]uint64{}
	errorsByType  = map[string]uint64{}
)

func IncPagesScraped() {
	atomic.AddUint64(&pagesScraped, 1)
}

func IncAnalyses() {
	atomic.AddUint64(&analyses, 1)
}

// IncFallback counts analyses where a configured backend failed and the
// heuristic produced the whole result instead.
func IncFallback() {
	atomic.AddUint64(&fallbacks, 1)
}

func IncProviderCall(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	statsMu.Lock()
	providerCalls[kind]++
	statsMu.Unlock()
}

func IncError(errType string) {
	if errType == "" {
		errType = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	callsCopy := copyMap(providerCalls)
	errorsCopy := copyMap(errorsByType)
	statsMu.Unlock()

	return StatsSnapshot{
		PagesScraped:  atomic.LoadUint64(&pagesScraped),
		Analyses:      atomic.LoadUint64(&analyses),
		Fallbacks:     atomic.LoadUint64(&fallbacks),
		ErrorsTotal:   atomic.LoadUint64(&errorsTotal),
		ProviderCalls: callsCopy,
		ErrorsByType:  errorsCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
