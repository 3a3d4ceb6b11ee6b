// Package httpclient provides a fluent, retry-aware HTTP client for all
// outgoing Bazario API traffic.
//
// Usage:
//
//	resp, err := httpclient.Get(base + "/products").
//	    Bearer(token).
//	    Timeout(5 * time.Second).
//	    Retry(3, time.Second).
//	    Send()
//
//	var page models.ProductPage
//	err = resp.JSON(&page)
//
// Every request passes a client-side rate limiter, and a 401 response to a
// request that carried a bearer token invokes the package-level unauthorized
// hook — that is where "session became invalid" is detected globally.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/metrics"
)

// defaultTransport is the connection-pooled transport used in production.
// Tests replace DefaultClient.Transport to inject mocks.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared HTTP client for all outgoing requests.
// Tests can swap DefaultClient.Transport to intercept calls:
//
//	httpclient.DefaultClient.Transport = myMockTransport
//	defer httpclient.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
// Call via defer after injecting a test transport.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// limiter throttles outgoing calls so rapid-fire cart edits cannot hammer the
// backend: 10 requests per second sustained, bursts of 20.
var limiter = rate.NewLimiter(rate.Limit(10), 20)

// SetRateLimit replaces the client-side rate limit.
func SetRateLimit(perSecond float64, burst int) {
	limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// onUnauthorized fires when an authenticated request receives a 401.
var onUnauthorized func()

// SetUnauthorizedHook installs the global 401 handler. The hook fires only
// for requests that carried an Authorization header: a failed login attempt
// is not a session invalidation.
func SetUnauthorizedHook(fn func()) { onUnauthorized = fn }

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	method    string
	url       string
	headers   map[string]string
	body      interface{}
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(gohttp.MethodPost, url) }

// Put starts a PUT request.
func Put(url string) *Request { return newRequest(gohttp.MethodPut, url) }

// Patch starts a PATCH request.
func Patch(url string) *Request { return newRequest(gohttp.MethodPatch, url) }

// Delete starts a DELETE request.
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

func newRequest(method, url string) *Request {
	return &Request{
		method:    method,
		url:       url,
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   30 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets the Authorization: Bearer <token> header.
// An empty token is a no-op, so callers can pass the session token
// unconditionally and guests simply send unauthenticated requests.
func (r *Request) Bearer(token string) *Request {
	if token == "" {
		return r
	}
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets the request body. v is marshalled to JSON automatically.
// Pass a string or []byte to send raw bodies.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry configures automatic retries on transport failure.
// n is total attempts (1 = no retry), wait is the initial backoff (doubles
// each attempt). HTTP error statuses are never retried here; only failures
// to obtain a response are.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = n
	r.retryWait = wait
	return r
}

// WithContext sets a custom context.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// ------------------- Send -------------------

// Send executes the request and returns a Response.
func (r *Request) Send() (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt < r.retries {
			// Exponential backoff: wait * 2^(attempt-1)
			backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
			logger.Warn("httpclient: request failed, retrying",
				"url", r.url, "attempt", attempt, "backoff", backoff, "error", err)
			select {
			case <-time.After(backoff):
			case <-r.ctx.Done():
				return nil, r.ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("httpclient: all %d attempts failed for %s %s: %w", r.retries, r.method, r.url, lastErr)
}

func (r *Request) do() (*Response, error) {
	if err := limiter.Wait(r.ctx); err != nil {
		return nil, fmt.Errorf("httpclient: rate limit: %w", err)
	}

	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	start := time.Now()
	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: send: %w", err)
	}
	metrics.ObserveAPIRequest(r.method, strconv.Itoa(resp.StatusCode), start)

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == gohttp.StatusUnauthorized &&
		r.headers["Authorization"] != "" && onUnauthorized != nil {
		onUnauthorized()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// ------------------- Response -------------------

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Unauthorized reports whether the status code is 401.
func (r *Response) Unauthorized() bool {
	return r.StatusCode == gohttp.StatusUnauthorized
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("httpclient: decode JSON: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}

// Header returns a single response header value.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

// Throw returns an error if the response status is not 2xx, using the
// backend's {"message": ...} body when present.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	var apiErr struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(r.Raw, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("httpclient: status %d: %s", r.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("httpclient: request failed with status %d: %s", r.StatusCode, string(r.Raw))
}
