package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultRequestTimeout  = 15 * time.Second
	defaultDownloadTimeout = 20 * time.Second

	requestIDHeader = "X-Request-Id"
)

// TokenSource yields the current bearer token, or "" when the session is
// anonymous. Token ownership stays with the token store; the transport only
// reads through this hook.
type TokenSource func(ctx context.Context) (string, error)

// Unauthorized is delivered to the registered handler whenever the backend
// answers 401 or 403, regardless of which call triggered it.
type Unauthorized struct {
	Status int
	Body   json.RawMessage
}

// Config assembles a transport [Client]. Zero-value timeouts fall back to
// the 15s request / 20s download defaults.
type Config struct {
	BaseURL         string
	HTTPClient      *http.Client
	Tokens          TokenSource
	Logger          zerolog.Logger
	RequestTimeout  time.Duration
	DownloadTimeout time.Duration
}

// Client is a backend-bound HTTP client. It is safe for concurrent use.
type Client struct {
	baseURL         string
	http            *http.Client
	tokens          TokenSource
	log             zerolog.Logger
	requestTimeout  time.Duration
	downloadTimeout time.Duration

	mu           sync.Mutex
	unauthorized func(Unauthorized)
}

// New builds a Client for cfg. A nil HTTPClient uses http.DefaultClient;
// per-request deadlines come from contexts, not from http.Client.Timeout.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	downloadTimeout := cfg.DownloadTimeout
	if downloadTimeout <= 0 {
		downloadTimeout = defaultDownloadTimeout
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            httpClient,
		tokens:          cfg.Tokens,
		log:             cfg.Logger,
		requestTimeout:  requestTimeout,
		downloadTimeout: downloadTimeout,
	}
}

// SetUnauthorizedHandler registers fn as the process-wide 401/403 observer.
// Only one handler is active at a time; the last registration wins and nil
// clears it.
func (c *Client) SetUnauthorizedHandler(fn func(Unauthorized)) {
	c.mu.Lock()
	c.unauthorized = fn
	c.mu.Unlock()
}

// Options controls a single exchange.
type Options struct {
	// Method defaults to GET (POST for Upload).
	Method string
	// Body, when non-nil, is JSON-serialized and sets the content type.
	Body any
	// RequiresAuth attaches the bearer token when one exists.
	RequiresAuth bool
	// Header entries are added after the standard headers and may override them.
	Header http.Header
	// Timeout overrides the intrinsic default for this call only.
	Timeout time.Duration
}

// Do performs a JSON exchange and returns the parsed response body, or nil
// for an empty or non-JSON body.
func (c *Client) Do(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	var (
		body        io.Reader
		contentType string
	)
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, &NetworkError{cause: err}
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	status, data, _, err := c.roundTrip(ctx, path, opts, c.requestTimeout, body, contentType)
	if err != nil {
		return nil, err
	}
	raw := parseJSONSafe(data)
	if status < 200 || status > 299 {
		return nil, newRequestError(status, raw)
	}
	return raw, nil
}

// JSON performs Do and decodes the response into out when both are non-nil.
func (c *Client) JSON(ctx context.Context, path string, opts Options, out any) error {
	raw, err := c.Do(ctx, path, opts)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &NetworkError{cause: err}
	}
	return nil
}

// roundTrip runs one HTTP exchange under the OR-combined deadline and
// returns the status, raw body, and response content type. The derived
// context's cancel runs on every exit path, releasing the timer regardless
// of outcome.
func (c *Client) roundTrip(ctx context.Context, path string, opts Options, fallbackTimeout time.Duration, body io.Reader, contentType string) (int, []byte, string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return 0, nil, "", &NetworkError{cause: err}
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts.RequiresAuth && c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return 0, nil, "", &NetworkError{cause: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, values := range opts.Header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := classify(err)
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Dur("elapsed", time.Since(started)).
			Err(classified).
			Msg("request failed")
		return 0, nil, "", classified
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, "", classify(err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request completed")

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.notifyUnauthorized(resp.StatusCode, parseJSONSafe(data))
	}

	return resp.StatusCode, data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) notifyUnauthorized(status int, body json.RawMessage) {
	c.mu.Lock()
	fn := c.unauthorized
	c.mu.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn().Interface("panic", r).Msg("unauthorized handler panicked")
		}
	}()
	fn(Unauthorized{Status: status, Body: body})
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// parseJSONSafe returns body when it is valid JSON and nil otherwise, so an
// HTML error page or empty body never surfaces as a decode failure.
func parseJSONSafe(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}
