package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Widgets</title>
  <meta name="description" content="Reliable widgets for industry leaders.">
  <meta name="keywords" content="widgets, industrial">
  <meta property="og:title" content="Acme Widgets">
  <meta property="og:type" content="website">
</head>
<body>
  <h1>Quality Widgets</h1>
  <h2>Trusted Since 1990</h2>
  <p>We build reliable widgets. Contact sales@acme.example for pricing.</p>
</body>
</html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeExtractsContentAndMetadata(t *testing.T) {
	srv := newTestServer(t)

	page, err := New(nil).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Acme Widgets", page.Title)
	assert.Equal(t, "Reliable widgets for industry leaders.", page.Description)
	assert.Equal(t, "widgets, industrial", page.Keywords)
	assert.Equal(t, "Acme Widgets", page.OpenGraph["og:title"])
	assert.Contains(t, page.Headings, "Quality Widgets")
	assert.Contains(t, page.Headings, "Trusted Since 1990")
	assert.Contains(t, page.Text, "We build reliable widgets")
}

func TestScrapeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(nil).Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestScrapeInvalidURL(t *testing.T) {
	_, err := New(nil).Scrape(context.Background(), "")
	assert.Error(t, err)
}

func TestPromptTextOrdersMetadataFirst(t *testing.T) {
	page := Page{
		Title:       "Acme",
		Description: "Widget maker",
		Headings:    []string{"Products", "Contact"},
		Text:        "body copy here",
	}

	got := page.PromptText()
	assert.Equal(t, "Title: Acme\nDescription: Widget maker\nHeadings: Products | Contact\nbody copy here", got)
}

func TestPromptTextEmptyPage(t *testing.T) {
	assert.Empty(t, Page{}.PromptText())
}

func TestLimitTextKeepsValidUTF8(t *testing.T) {
	// 3-byte runes put the byte cap mid-rune; the cut must back up to a
	// rune boundary instead of leaving a broken tail.
	long := strings.Repeat("好", maxBodyText/3+100)

	got := limitText(long)
	assert.LessOrEqual(t, len(got), maxBodyText)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "short", limitText("  short  "))
}
