package scraper

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"

	"github.com/obinkytt/analyzer/internal/httpx"
	"github.com/obinkytt/analyzer/internal/observability"
)

const maxBodyText = 20000

// Page is the content of a single fetched page: visible body text plus
// the metadata the heuristic and the prompt both feed on.
type Page struct {
	URL         string
	Title       string
	Description string
	Keywords    string
	OpenGraph   map[string]string
	Headings    []string
	Text        string
}

// Scraper fetches exactly one page. No link following, no crawling.
type Scraper struct {
	fetcher *httpx.Fetcher
}

func New(fetcher *httpx.Fetcher) *Scraper {
	if fetcher == nil {
		fetcher = httpx.NewFetcher("")
	}
	return &Scraper{fetcher: fetcher}
}

// Scrape fetches rawURL and extracts title, meta description/keywords,
// OpenGraph tags, h1/h2 headings and visible body text.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (Page, error) {
	target, err := httpx.NormalizeURL(rawURL)
	if err != nil {
		return Page{}, err
	}

	page := Page{URL: target, OpenGraph: map[string]string{}}

	err = s.fetcher.Fetch(ctx, target, func(c *colly.Collector) {
		c.OnHTML("title", func(e *colly.HTMLElement) {
			if page.Title == "" {
				page.Title = strings.TrimSpace(e.Text)
			}
		})
		c.OnHTML("meta", func(e *colly.HTMLElement) {
			content := strings.TrimSpace(e.Attr("content"))
			if content == "" {
				return
			}
			name := strings.ToLower(e.Attr("name"))
			property := strings.ToLower(e.Attr("property"))
			switch {
			case name == "description" && page.Description == "":
				page.Description = content
			case name == "keywords" && page.Keywords == "":
				page.Keywords = content
			case strings.HasPrefix(property, "og:"):
				page.OpenGraph[property] = content
			}
		})
		c.OnHTML("h1, h2", func(e *colly.HTMLElement) {
			if heading := strings.TrimSpace(e.Text); heading != "" {
				page.Headings = append(page.Headings, heading)
			}
		})
		c.OnHTML("body", func(e *colly.HTMLElement) {
			if page.Text == "" {
				page.Text = limitText(e.Text)
			}
		})
	})
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err))
		return Page{}, err
	}

	observability.IncPagesScraped()
	return page, nil
}

// PromptText flattens the page into the text blob handed to analysis:
// metadata first, body after, so a tight length budget keeps the parts
// that say the most about the business.
func (p Page) PromptText() string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, "Title: "+p.Title)
	}
	if p.Description != "" {
		parts = append(parts, "Description: "+p.Description)
	}
	if len(p.Headings) > 0 {
		parts = append(parts, "Headings: "+strings.Join(p.Headings, " | "))
	}
	if p.Text != "" {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

func limitText(text string) string {
	clean := strings.TrimSpace(text)
	if len(clean) <= maxBodyText {
		return clean
	}
	// Back up to a rune boundary so the cut never leaves invalid UTF-8.
	cut := maxBodyText
	for cut > 0 && !utf8.RuneStart(clean[cut]) {
		cut--
	}
	return clean[:cut]
}
