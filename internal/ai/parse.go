package ai

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

const (
	minScore = 0
	maxScore = 100
)

// wireFields tolerates the shapes models actually emit: float scores,
// missing keys, category values as floats.
type wireFields struct {
	Score           *float64           `json:"score"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	Recommendations []string           `json:"recommendations"`
	Categories      map[string]float64 `json:"categories"`
	Summary         string             `json:"summary"`
}

var (
	jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)
	// Only a number explicitly labeled as a score counts. When a response
	// contains several numbers, the first labeled one wins; bare numbers
	// are never mistaken for the score.
	labeledScoreRe = regexp.MustCompile(`(?i)\bscore\b[^0-9\n]{0,20}(\d{1,3})`)
	bulletRe       = regexp.MustCompile(`^\s*(?:[-*•]|\d{1,2}[.)])\s+(.+)$`)
)

// ParseFields normalizes a raw backend response into Fields. It tries a
// strict JSON decode first, then falls back to line-oriented extraction
// from free text. Fields it cannot confidently extract are left empty
// rather than invented. A response without any extractable score is
// rejected with ErrNoScore.
func ParseFields(raw string) (Fields, error) {
	if strings.TrimSpace(raw) == "" {
		return Fields{}, ErrEmptyResponse
	}

	fields, ok := parseStrict(raw)
	if !ok {
		fields = parseLoose(raw)
	}

	if fields.Score == nil {
		// A structured response may still omit the score; the labeled
		// pattern is the last chance before discarding everything.
		if score, found := extractLabeledScore(raw); found {
			fields.Score = &score
		} else {
			return Fields{}, ErrNoScore
		}
	}

	return fields, nil
}

func parseStrict(raw string) (Fields, bool) {
	block := jsonObjectRe.FindString(cleanJSON(raw))
	if block == "" {
		return Fields{}, false
	}

	var wire wireFields
	if err := json.Unmarshal([]byte(block), &wire); err != nil {
		return Fields{}, false
	}

	fields := Fields{
		Strengths:       cleanList(wire.Strengths),
		Weaknesses:      cleanList(wire.Weaknesses),
		Recommendations: cleanList(wire.Recommendations),
		Summary:         strings.TrimSpace(wire.Summary),
	}
	if wire.Score != nil {
		score := Clamp(int(math.Round(*wire.Score)))
		fields.Score = &score
	}
	if len(wire.Categories) > 0 {
		fields.Categories = make(map[string]int, len(wire.Categories))
		for name, value := range wire.Categories {
			fields.Categories[strings.ToLower(strings.TrimSpace(name))] = Clamp(int(math.Round(value)))
		}
	}
	return fields, true
}

// parseLoose scrapes individual fields out of free-form prose: the score
// via its label, the three lists via bullet lines under their headings.
func parseLoose(raw string) Fields {
	var fields Fields
	if score, found := extractLabeledScore(raw); found {
		fields.Score = &score
	}

	section := ""
	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)
		switch {
		case isHeading(lower, "strength"):
			section = "strengths"
			continue
		case isHeading(lower, "weakness"):
			section = "weaknesses"
			continue
		case isHeading(lower, "recommend"):
			section = "recommendations"
			continue
		}

		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.TrimSpace(m[1])
		if item == "" {
			continue
		}
		switch section {
		case "strengths":
			fields.Strengths = append(fields.Strengths, item)
		case "weaknesses":
			fields.Weaknesses = append(fields.Weaknesses, item)
		case "recommendations":
			fields.Recommendations = append(fields.Recommendations, item)
		}
	}

	return fields
}

func extractLabeledScore(raw string) (int, bool) {
	m := labeledScoreRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n := 0
	for _, r := range m[1] {
		n = n*10 + int(r-'0')
	}
	return Clamp(n), true
}

// isHeading treats short lines mentioning the keyword as section markers,
// so prose that merely contains the word does not flip the section.
func isHeading(lower, keyword string) bool {
	return strings.Contains(lower, keyword) && len(lower) < 60 && bulletRe.FindStringSubmatch(lower) == nil
}

// cleanJSON removes markdown code fences if present.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clamp bounds a score into the declared [0,100] range.
func Clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
