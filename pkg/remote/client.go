package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/matzehuels/storyboard/pkg/buildinfo"
	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/httputil"
	"github.com/matzehuels/storyboard/pkg/ingest"
	"github.com/matzehuels/storyboard/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// MaxBodySize caps fetched bodies.
	MaxBodySize = 32 << 20
)

var (
	// ErrNotFound is returned when the resource doesn't exist.
	ErrNotFound = stderrors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = stderrors.New("network error")
)

// Client provides cached, retried GET requests.
type Client struct {
	http     *http.Client
	cache    *httputil.Cache
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithHeaders sets headers applied to every request.
func WithHeaders(h map[string]string) Option { return func(c *Client) { c.headers = h } }

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient creates a Client caching bodies in backend for ttl. A nil
// backend disables caching.
func NewClient(backend cache.Cache, keyer cache.Keyer, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    httputil.NewCache(backend, keyer, ttl),
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body at rawURL, from cache unless refresh is set.
// Errors carry the FETCH_FAILED code, or NETWORK_ERROR once retries are
// exhausted.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	body, _, err := c.fetch(ctx, c.cache.Namespace("body"), rawURL, refresh)
	return body, err
}

// Schedule fetches and ingests a schedule. The format comes from the
// response Content-Type, falling back to the URL extension.
func (c *Client) Schedule(ctx context.Context, rawURL string, refresh bool) (ingest.ScheduleResult, error) {
	body, contentType, err := c.fetch(ctx, c.cache.Namespace("schedule"), rawURL, refresh)
	if err != nil {
		return ingest.ScheduleResult{}, err
	}
	return ingest.Schedule(body, formatFor(rawURL, contentType))
}

func (c *Client) fetch(ctx context.Context, bodies *httputil.Cache, rawURL string, refresh bool) ([]byte, string, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, "", err
	}
	if !refresh {
		if body, ok := bodies.Get(ctx, rawURL); ok {
			return body, "", nil
		}
	}

	var body []byte
	var contentType string
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, contentType, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		code := errors.ErrCodeFetch
		if stderrors.Is(err, ErrNetwork) {
			code = errors.ErrCodeNetwork
		}
		return nil, "", errors.Wrap(code, err, "fetch %s", rawURL)
	}
	_ = bodies.Set(ctx, rawURL, body)
	return body, contentType, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, p := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, p)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, p, err)
		return nil, "", &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, host, p, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, "", &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

func formatFor(rawURL, contentType string) ingest.Format {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			return ingest.FormatYAML
		case "application/json":
			return ingest.FormatJSON
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		return ingest.FormatFromPath(path.Base(u.Path))
	}
	return ingest.FormatJSON
}
