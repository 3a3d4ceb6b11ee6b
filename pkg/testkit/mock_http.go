// Package testkit provides test doubles for the outgoing HTTP surface.
//
// MockTransport implements http.RoundTripper: tests describe the backend
// responses they expect with Stub, install the transport on the shared
// client, exercise the code, then assert every stub was hit.
//
//	mt := testkit.NewMockTransport()
//	mt.Stub(http.MethodGet, "/cart", 200, cartPayload)
//	restore := testkit.Install(mt)
//	defer restore()
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/shashiranjanraj/bazario/pkg/httpclient"
)

// Stub is one canned backend response.
type Stub struct {
	Method string
	Path   string // matched as a prefix against the request URL path
	Status int
	Body   interface{} // marshalled to JSON; []byte and string pass through

	mu       sync.Mutex
	calls    int
	requests []recordedRequest
}

type recordedRequest struct {
	URL  string
	Body []byte
}

// Calls returns how many times the stub matched.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastBody returns the request body of the most recent matching call.
func (s *Stub) LastBody() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1].Body
}

// MockTransport matches outgoing requests against registered stubs and
// returns synthetic responses instead of touching the network.
type MockTransport struct {
	mu    sync.Mutex
	stubs []*Stub
}

// NewMockTransport creates an empty transport. Unmatched requests get a 404
// so a missing stub fails loudly in the code under test.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a canned response and returns it for later assertions.
func (mt *MockTransport) Stub(method, pathPrefix string, status int, body interface{}) *Stub {
	s := &Stub{Method: method, Path: pathPrefix, Status: status, Body: body}
	mt.mu.Lock()
	mt.stubs = append(mt.stubs, s)
	mt.mu.Unlock()
	return s
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if s.Method != "" && s.Method != req.Method {
			continue
		}
		if !strings.HasPrefix(req.URL.Path, s.Path) {
			continue
		}

		s.mu.Lock()
		s.calls++
		s.requests = append(s.requests, recordedRequest{URL: req.URL.String(), Body: reqBody})
		s.mu.Unlock()

		return buildResponse(req, s.Status, s.Body)
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"message":"no stub configured"}`)),
		Request:    req,
	}, nil
}

// AllCalled returns an error per stub that was never matched.
func (mt *MockTransport) AllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, s := range mt.stubs {
		if s.Calls() == 0 {
			errs = append(errs, fmt.Errorf("testkit: stub %s %s was never called", s.Method, s.Path))
		}
	}
	return errs
}

// Install puts mt on the shared HTTP client and returns a restore function.
func Install(mt *MockTransport) func() {
	httpclient.DefaultClient.Transport = mt
	return httpclient.ResetTransport
}

func buildResponse(req *http.Request, status int, body interface{}) (*http.Response, error) {
	if status == 0 {
		status = http.StatusOK
	}

	var raw []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("testkit: marshal stub body: %w", err)
		}
		raw = b
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(raw)),
		Request:    req,
	}, nil
}
