package httpclient

import (
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request UUID so backend logs can be matched
// with client logs.
const RequestIDHeader = "X-Request-ID"

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "cnnct-cli/1.0"

// Config holds settings for the HTTP client.
type Config struct {
	// Timeout bounds a whole request. Zero means no client-side limit.
	Timeout   time.Duration
	Headers   http.Header
	UserAgent string
	// Insecure skips TLS verification of the backend certificate.
	Insecure bool
}

// headerRoundTripper wraps a base RoundTripper to inject headers and a
// request ID. It never retries.
type headerRoundTripper struct {
	base      http.RoundTripper
	headers   http.Header
	userAgent string
	newID     func() string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if h.base == nil {
		h.base = http.DefaultTransport
	}

	// Clone the request; RoundTrippers must not mutate the caller's copy.
	r := req.Clone(req.Context())
	for k, vs := range h.headers {
		r.Header.Del(k)
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", h.userAgent)
	}
	if r.Header.Get(RequestIDHeader) == "" {
		r.Header.Set(RequestIDHeader, h.newID())
	}

	start := time.Now()
	resp, err := h.base.RoundTrip(r)
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("url", r.URL.String()),
		slog.String("request_id", r.Header.Get(RequestIDHeader)),
		slog.Duration("took", time.Since(start)),
	}
	if err != nil {
		slog.Debug("round trip failed", append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}
	slog.Debug("round trip done", append(attrs, slog.Int("status", resp.StatusCode))...)
	return resp, nil
}

// New returns a configured HTTP client.
func New(cfg Config) *http.Client {
	dialTimeout := cfg.Timeout
	if dialTimeout <= 0 {
		dialTimeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure, MinVersion: tls.VersionTLS12},
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
		IdleConnTimeout:   90 * time.Second,
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &http.Client{
		Transport: &headerRoundTripper{
			base:      transport,
			headers:   cfg.Headers,
			userAgent: ua,
			newID:     func() string { return uuid.New().String() },
		},
		Timeout: cfg.Timeout,
	}
}
