package analysis

import (
	"time"

	"github.com/obinkytt/analyzer/internal/ai"
)

// SourceManual marks results produced from typed-in text rather than a URL.
const SourceManual = "manual"

// Category names used for sub-scores. The heuristic always produces all
// four; backend responses may cover any subset.
const (
	CategoryTrust      = "trust"
	CategoryContent    = "content"
	CategoryConversion = "conversion"
	CategoryPresence   = "presence"
)

// Request is one analysis call: normalized text plus whatever page
// metadata the scraping collaborator managed to collect. Constructed per
// call, consumed once.
type Request struct {
	Text     string
	Source   string
	Override ai.Kind
	Meta     Meta
}

// Meta is the page-level metadata extracted alongside the body text.
// All fields are optional; free-text analysis leaves it zero.
type Meta struct {
	Title       string
	Description string
	Keywords    string
	OpenGraph   map[string]string
	Headings    []string
}

// Result is the fully populated analysis. Every score sits in [0,100],
// the three list fields are never empty, and Provider names the backend
// that actually produced the bulk of the result.
type Result struct {
	ID              string         `json:"id"`
	Source          string         `json:"source"`
	Score           int            `json:"score"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
	Categories      map[string]int `json:"categories"`
	Summary         string         `json:"summary"`
	Readiness       string         `json:"readiness"`
	Provider        ai.Kind        `json:"provider"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// readinessFor buckets the overall score into a growth-readiness label.
func readinessFor(score int) string {
	switch {
	case score >= 80:
		return "High - ready for aggressive growth"
	case score >= 60:
		return "Medium - good foundation for growth"
	case score >= 40:
		return "Basic - needs improvement before scaling"
	default:
		return "Low - requires significant development"
	}
}
