// Package testutil provides testing utilities for the content client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockResponse defines the behavior for a mock content API endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockContentAPI is a configurable mock content API server.
type MockContentAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	requestCount int
	pathCounts   map[string]int
	lastHeader   http.Header
}

// NewMockContentAPI creates a new mock content API server.
func NewMockContentAPI() *MockContentAPI {
	mock := &MockContentAPI{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastHeader = r.Header.Clone()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockContentAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockContentAPI) Close() {
	m.server.Close()
}

// Reset clears all handlers and tracking counters.
func (m *MockContentAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = make(map[string]func(w http.ResponseWriter, r *http.Request))
	m.pathCounts = make(map[string]int)
	m.requestCount = 0
	m.lastHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockContentAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockContentAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetJSONResponse configures a 200 OK JSON response for a path.
func (m *MockContentAPI) SetJSONResponse(path, body string) {
	m.SetResponse(path, NewJSONResponse(body))
}

// RequestCount returns the total number of requests served.
func (m *MockContentAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// CountFor returns the number of requests served for one path.
func (m *MockContentAPI) CountFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockContentAPI) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

// defaultHandler answers unconfigured paths with a content API 404.
func (m *MockContentAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(ErrorBody("not_found", "no route for "+r.URL.Path)))
}

// ListBody builds a list envelope with the items under the given field.
func ListBody(field string, items any, count int) string {
	body, _ := json.Marshal(map[string]any{
		field:            items,
		"count":          count,
		"correlation_id": uuid.NewString(),
	})
	return string(body)
}

// ItemBody builds a single-item envelope with the item under the given
// field.
func ItemBody(field string, item any) string {
	body, _ := json.Marshal(map[string]any{
		field:            item,
		"correlation_id": uuid.NewString(),
	})
	return string(body)
}

// ErrorBody builds a content API error envelope.
func ErrorBody(code, message string) string {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]string{
			"code":           code,
			"message":        message,
			"correlation_id": uuid.NewString(),
		},
	})
	return string(body)
}

// NewJSONResponse creates a 200 OK response with a JSON body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	}
}

// NewNotFoundResponse creates a 404 response with an error envelope.
func NewNotFoundResponse(message string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       ErrorBody("not_found", message),
	}
}

// NewRateLimitResponse creates a 429 response with an error envelope.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       ErrorBody("rate_limit_exceeded", "too many requests"),
	}
}

// NewServerErrorResponse creates a 500 response with an error envelope.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       ErrorBody("internal_error", "internal server error"),
	}
}
