package validate

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (compatible; ProspectorBot/1.0)"

// ambiguousStatuses commonly mean a server rejecting header-only probes,
// not a dead link. These trigger the full-body fallback probe.
var ambiguousStatuses = map[int]bool{
	400: true,
	401: true,
	403: true,
	405: true,
	500: true,
}

// LiveResult is the outcome of a liveness probe. FinalURL is the
// post-redirect destination so callers store the real target, not the
// original guess.
type LiveResult struct {
	Live       bool
	FinalURL   string
	StatusCode int
}

// Checker performs HEAD-then-GET liveness probes.
type Checker struct {
	http *http.Client
}

// NewChecker creates a Checker. Redirects are followed; transport errors
// are treated as dead, never surfaced.
func NewChecker() *Checker {
	return &Checker{
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// CheckLive probes the URL within the given timeout. A 2xx-3xx final
// status on the header probe is live; the ambiguous statuses fall back to
// a streamed GET before the link is declared dead.
func (c *Checker) CheckLive(ctx context.Context, url string, timeout time.Duration) LiveResult {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := LiveResult{FinalURL: url}

	status, finalURL, ok := c.probe(probeCtx, http.MethodHead, url)
	if ok {
		result.StatusCode = status
		result.FinalURL = finalURL
		if status >= 200 && status < 400 {
			result.Live = true
			return result
		}
		if !ambiguousStatuses[status] {
			return result
		}
		zap.L().Debug("validate: ambiguous head status, retrying with get",
			zap.String("url", url),
			zap.Int("status", status),
		)
	}

	status, finalURL, ok = c.probe(probeCtx, http.MethodGet, url)
	if !ok {
		return result
	}
	result.StatusCode = status
	result.FinalURL = finalURL
	result.Live = status >= 200 && status < 400
	return result
}

// probe issues one request and reports the final status and URL. The body
// is never materialized; the GET fallback only needs the status line.
func (c *Checker) probe(ctx context.Context, method, url string) (int, string, bool) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", false
	}
	_ = resp.Body.Close()

	return resp.StatusCode, resp.Request.URL.String(), true
}
