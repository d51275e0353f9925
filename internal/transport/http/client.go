// Package httptransport delivers request envelopes to the admissions authority
// over HTTP. It knows nothing about envelopes or status codes: it moves bytes
// and reports whether a usable body arrived.
package httptransport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tcubridge/internal/admissions/failure"
	"tcubridge/internal/admissions/ports"
	dErrors "tcubridge/pkg/domain-errors"
)

const (
	contentTypeXML      = "application/xml; charset=utf-8"
	defaultMaxBodyBytes = 8 << 20
	defaultUserAgent    = "tcubridge/1"
)

// Client implements ports.Transport.
type Client struct {
	baseURL      *url.URL
	client       *http.Client
	logger       *slog.Logger
	userAgent    string
	maxBodyBytes int64
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Per-request timeouts still
// come from ports.Request.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Client) {
		t.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Client) {
		t.logger = logger
	}
}

func WithUserAgent(ua string) Option {
	return func(t *Client) {
		t.userAgent = ua
	}
}

// WithMaxBodyBytes caps how much of a response is read.
func WithMaxBodyBytes(n int64) Option {
	return func(t *Client) {
		if n > 0 {
			t.maxBodyBytes = n
		}
	}
}

// New returns a transport rooted at baseURL, which must be an absolute http(s)
// URL. Operation paths are appended to its path.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid authority base URL %q", baseURL))
	}
	t := &Client{
		baseURL:      u,
		client:       &http.Client{},
		logger:       slog.Default(),
		userAgent:    defaultUserAgent,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Send posts req.Body and returns the response body. Network errors and
// HTTP 5xx are returned as plain errors, which the dispatcher retries. Any
// other status hands back the body for envelope parsing.
func (t *Client) Send(ctx context.Context, req ports.Request) ([]byte, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	target := t.resolve(req.Path)
	httpReq, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(req.Body))
	if err != nil {
		return nil, failure.New(failure.KindInternal, req.Operation, "build http request", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeXML)
	httpReq.Header.Set("Accept", "application/xml")
	httpReq.Header.Set("User-Agent", t.userAgent)

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", req.Path, err)
	}

	t.logger.DebugContext(ctx, "authority responded",
		"operation", req.Operation,
		"path", req.Path,
		"http_status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("authority returned HTTP %d for %s", resp.StatusCode, req.Path)
	}
	if int64(len(body)) > t.maxBodyBytes {
		return nil, failure.New(failure.KindMalformedResponse, req.Operation,
			fmt.Sprintf("response exceeds %d bytes", t.maxBodyBytes), nil)
	}
	return body, nil
}

func (t *Client) resolve(path string) string {
	u := *t.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	return u.String()
}
