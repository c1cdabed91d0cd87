package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/obinkytt/analyzer/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorTimeout   = "timeout"
	ErrorParsing   = "parsing"
	ErrorRateLimit = "rate_limit"
	ErrorUnknown   = "unknown"
)

// ClassifyFetchError buckets scraping failures for the stats endpoint.
func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	return ErrorUnknown
}

// ClassifyProviderError buckets backend invocation failures.
func ClassifyProviderError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no score") ||
		strings.Contains(msg, "empty response") ||
		strings.Contains(msg, "decode") ||
		strings.Contains(msg, "unmarshal") {
		return ErrorParsing
	}
	if strings.Contains(msg, "status 429") {
		return ErrorRateLimit
	}
	return ErrorNetwork
}
