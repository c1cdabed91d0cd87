package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

// Fetcher wraps Colly for polite single-page fetching with CSS-based
// parsing. Each host gets its own rate limiter; a fetch is exactly one
// attempt, bounded by the request timeout.
type Fetcher struct {
	userAgent    string
	timeout      time.Duration
	defaultRate  rate.Limit
	defaultBurst int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error (status %d)", e.Status)
	}
	return fmt.Sprintf("fetch error (status %d): %v", e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetcher(userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = "site-analyzer-bot/1.0"
	}
	return &Fetcher{
		userAgent:    userAgent,
		timeout:      15 * time.Second,
		defaultRate:  rate.Every(time.Second),
		defaultBurst: 2,
		hosts:        make(map[string]*rate.Limiter),
	}
}

// Fetch GETs rawURL once and runs the registered OnHTML callbacks.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, register func(*colly.Collector)) error {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return err
	}
	if err := f.waitForHost(ctx, hostKey(target)); err != nil {
		return err
	}

	c := f.newCollector()
	if register != nil {
		register(c)
	}

	status := 0
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, nil); err != nil {
		return &FetchError{Status: status, Err: err}
	}
	if reqErr != nil {
		return &FetchError{Status: status, Err: reqErr}
	}
	if status >= 400 {
		return &FetchError{Status: status, Err: fmt.Errorf("status %d", status)}
	}
	return nil
}

func (f *Fetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.IgnoreRobotsTxt = false
	c.SetRequestTimeout(f.timeout)

	// Colly has no native context plumbing; the caller's context rides
	// along in the request context and aborts before the wire call.
	c.OnRequest(func(r *colly.Request) {
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if reqCtx, ok := v.(context.Context); ok && reqCtx.Err() != nil {
				r.Abort()
			}
		}
	})

	return c
}

func (f *Fetcher) waitForHost(ctx context.Context, host string) error {
	f.mu.Lock()
	limiter, ok := f.hosts[host]
	if !ok {
		limiter = rate.NewLimiter(f.defaultRate, f.defaultBurst)
		f.hosts[host] = limiter
	}
	f.mu.Unlock()
	return limiter.Wait(ctx)
}

// NormalizeURL defaults the scheme to https so bare hostnames work.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	return u.String(), nil
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "default"
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
