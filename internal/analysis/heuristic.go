package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/obinkytt/analyzer/internal/ai"
)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	titleCaser = cases.Title(language.English)
)

// Heuristic is the deterministic, rule-based analyzer: a pure function
// over the request text and metadata, no external calls, no failure mode.
// The orchestrator relies on it as the terminal fallback.
type Heuristic struct {
	lex *Lexicon
}

func NewHeuristic(lex *Lexicon) *Heuristic {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Heuristic{lex: lex}
}

// Analyze computes a fully populated field set from observable textual
// features. Same input, same output.
func (h *Heuristic) Analyze(req Request) ai.Fields {
	combined := strings.ToLower(strings.Join([]string{
		req.Text,
		req.Meta.Title,
		req.Meta.Description,
		req.Meta.Keywords,
		strings.Join(req.Meta.Headings, " "),
	}, " "))

	trustHits := h.hits(combined, "trust")
	contactHits := h.hits(combined, "contact")
	pricingHits := h.hits(combined, "pricing")
	ctaHits := h.hits(combined, "cta")
	contentHits := h.hits(combined, "content")
	hasEmail := emailRe.MatchString(req.Text)
	textLen := len(req.Text)

	categories := map[string]int{
		CategoryTrust:      trustScore(trustHits, pricingHits, hasEmail),
		CategoryConversion: conversionScore(ctaHits, pricingHits, contactHits),
		CategoryContent:    contentScore(textLen, len(req.Meta.Headings), contentHits),
		CategoryPresence:   presenceScore(req.Meta, textLen),
	}
	overall := overallScore(categories)

	industry := h.detectBucket(combined, h.lex.Industries, "general business")
	audience := h.detectBucket(combined, h.lex.Audiences, "a general audience")

	fields := ai.Fields{
		Score:           &overall,
		Categories:      categories,
		Strengths:       strengths(trustHits, ctaHits, contentHits, textLen, req.Meta),
		Weaknesses:      weaknesses(trustHits, contactHits, pricingHits, hasEmail, textLen),
		Recommendations: recommendations(trustHits, ctaHits, pricingHits, contactHits, contentHits, req.Meta),
		Summary: fmt.Sprintf("Looks like a %s site aimed at %s. Overall readiness score: %d/100.",
			titleCaser.String(industry), audience, overall),
	}
	return fields
}

func (h *Heuristic) hits(text, bucket string) int {
	count := 0
	for _, term := range h.lex.Signals[bucket] {
		if strings.Contains(text, strings.ToLower(term)) {
			count++
		}
	}
	return count
}

// detectBucket picks the bucket with the most keyword hits. Keys are
// visited in sorted order so ties break the same way every time.
func (h *Heuristic) detectBucket(text string, buckets map[string][]string, fallback string) string {
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	best, bestHits := fallback, 0
	for _, name := range names {
		count := 0
		for _, term := range buckets[name] {
			if strings.Contains(text, strings.ToLower(term)) {
				count++
			}
		}
		if count > bestHits {
			best, bestHits = name, count
		}
	}
	return best
}

func trustScore(trustHits, pricingHits int, hasEmail bool) int {
	score := 40 + 8*capAt(trustHits, 4) + 4*capAt(pricingHits, 3)
	if hasEmail {
		score += 10
	}
	return ai.Clamp(score)
}

func conversionScore(ctaHits, pricingHits, contactHits int) int {
	score := 40 + 10*capAt(ctaHits, 4) + 5*capAt(pricingHits, 2)
	if contactHits > 0 {
		score += 5
	}
	return ai.Clamp(score)
}

func contentScore(textLen, headingCount, contentHits int) int {
	score := 0
	switch {
	case textLen < 300:
		score = 30
	case textLen < 800:
		score = 45
	case textLen < 2000:
		score = 60
	case textLen < 5000:
		score = 75
	default:
		score = 85
	}
	score += 3*capAt(headingCount, 4) + 2*capAt(contentHits, 2)
	return ai.Clamp(score)
}

func presenceScore(meta Meta, textLen int) int {
	score := 40
	if len(meta.Title) > 10 {
		score += 10
	}
	if len(meta.Description) > 50 {
		score += 10
	}
	if len(meta.OpenGraph) > 0 {
		score += 10
	}
	if meta.Keywords != "" {
		score += 5
	}
	if textLen > 1000 {
		score += 5
	}
	return ai.Clamp(score)
}

func overallScore(categories map[string]int) int {
	weighted := 30*categories[CategoryTrust] +
		25*categories[CategoryConversion] +
		25*categories[CategoryContent] +
		20*categories[CategoryPresence]
	return ai.Clamp(weighted / 100)
}

func strengths(trustHits, ctaHits, contentHits, textLen int, meta Meta) []string {
	var out []string
	if trustHits >= 2 {
		out = append(out, "Visible trust signals (testimonials, certifications or guarantees)")
	}
	if ctaHits >= 2 {
		out = append(out, "Clear calls to action guiding visitors forward")
	}
	if len(meta.Headings) >= 2 {
		out = append(out, "Structured information hierarchy with distinct sections")
	}
	if textLen > 2000 {
		out = append(out, "Rich content depth across the page")
	}
	if contentHits >= 2 {
		out = append(out, "Ongoing content channels (blog, guides or resources)")
	}
	if len(out) == 0 {
		out = append(out, "Established online presence to build on")
	}
	return out
}

func weaknesses(trustHits, contactHits, pricingHits int, hasEmail bool, textLen int) []string {
	var out []string
	if trustHits == 0 {
		out = append(out, "No visible trust signals such as testimonials or certifications")
	}
	if contactHits == 0 && !hasEmail {
		out = append(out, "Contact details are hard to find")
	}
	if pricingHits == 0 {
		out = append(out, "Pricing information is missing or unclear")
	}
	if textLen < 800 {
		out = append(out, "Thin on-page copy limits search visibility")
	}
	if len(out) == 0 {
		out = append(out, "No significant weaknesses detected from page content alone")
	}
	return out
}

func recommendations(trustHits, ctaHits, pricingHits, contactHits, contentHits int, meta Meta) []string {
	var out []string
	if trustHits < 2 {
		out = append(out, "Add customer testimonials, reviews or certifications near key decisions")
	}
	if ctaHits < 2 {
		out = append(out, "Place a prominent call to action above the fold")
	}
	if pricingHits == 0 {
		out = append(out, "Publish pricing or offer an easy way to request a quote")
	}
	if contactHits == 0 {
		out = append(out, "Surface contact information on every page")
	}
	if contentHits == 0 {
		out = append(out, "Start a blog or resource section to grow organic traffic")
	}
	if meta.Description == "" {
		out = append(out, "Write a meta description to improve search snippets")
	}
	if len(out) == 0 {
		out = append(out, "Keep iterating on conversion copy and measure the results")
	}
	return out
}

func capAt(n, limit int) int {
	if n > limit {
		return limit
	}
	return n
}
