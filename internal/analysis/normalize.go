package analysis

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ErrEmptyInput means there is nothing to analyze after normalization.
// This is the only error the analysis core surfaces to callers.
var ErrEmptyInput = errors.New("nothing to analyze")

// How far back from the cut point we look for a space before giving up
// and truncating mid-word.
const wordBoundaryWindow = 40

var markupRe = regexp.MustCompile(`<\s*(?:!doctype|html|head|body|div|p|a|span|h[1-6]|meta|title|br|li|ul|table)\b`)

// Normalize collapses raw input into cleaned text bounded to maxLen runes.
// Markup is stripped, whitespace runs become single spaces, and the cut
// lands on a word boundary when one exists nearby. Empty or whitespace-only
// input is rejected with ErrEmptyInput.
func Normalize(raw string, maxLen int) (string, error) {
	text := raw
	if looksLikeHTML(raw) {
		if stripped, err := stripMarkup(raw); err == nil {
			text = stripped
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyInput
	}

	if maxLen > 0 {
		text = truncateAtWord(text, maxLen)
	}
	return text, nil
}

func looksLikeHTML(s string) bool {
	return markupRe.MatchString(strings.ToLower(s))
}

// stripMarkup parses the input as HTML and walks the tree collecting text
// nodes, skipping script/style subtrees.
func stripMarkup(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return sb.String(), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head":
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func truncateAtWord(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	cut := maxLen
	for i := maxLen; i > maxLen-wordBoundaryWindow && i > 0; i-- {
		if runes[i-1] == ' ' {
			cut = i - 1
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ")
}
