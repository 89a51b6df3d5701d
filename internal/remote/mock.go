package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// MockResponse is a canned response for the MockCaller. A zero Status
// means 200 and an empty ContentType means application/json.
type MockResponse struct {
	Status      int
	ContentType string
	Body        string
	Err         error
}

// JSON returns a 200 response carrying body.
func JSON(body string) MockResponse {
	return MockResponse{Body: body}
}

// HTTPError returns an error response with a {"detail": ...} body.
func HTTPError(status int, detail string) MockResponse {
	b, _ := json.Marshal(map[string]string{"detail": detail})
	return MockResponse{Status: status, Body: string(b)}
}

// TransportError returns a response that fails before reaching the server.
func TransportError(err error) MockResponse {
	return MockResponse{Err: err}
}

var errNoCannedResponse = errors.New("no canned response")

// MockCaller is a deterministic Caller for testing. Canned responses are
// queued per endpoint and served in FIFO order, and every request is
// recorded. Responses go through Classify, so contracts apply.
type MockCaller struct {
	mu        sync.Mutex
	responses map[Endpoint][]MockResponse
	Calls     []Request

	// OnCall, when set, is invoked with every request before it is served.
	OnCall func(Request)
}

// NewMockCaller creates an empty MockCaller.
func NewMockCaller() *MockCaller {
	return &MockCaller{responses: make(map[Endpoint][]MockResponse)}
}

// On queues responses for ep and returns the caller for chaining.
func (m *MockCaller) On(ep Endpoint, resps ...MockResponse) *MockCaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[ep] = append(m.responses[ep], resps...)
	return m
}

func (m *MockCaller) Call(_ context.Context, req Request) (json.RawMessage, error) {
	if m.OnCall != nil {
		m.OnCall(req)
	}
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	queue := m.responses[req.Endpoint]
	if len(queue) == 0 {
		m.mu.Unlock()
		_, f := Classify(Attempt{
			Endpoint: req.Endpoint,
			Err:      fmt.Errorf("%s: %w", req.Endpoint, errNoCannedResponse),
		})
		return nil, f
	}
	resp := queue[0]
	m.responses[req.Endpoint] = queue[1:]
	m.mu.Unlock()

	status := resp.Status
	if status == 0 {
		status = 200
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}

	raw, f := Classify(Attempt{
		Endpoint:    req.Endpoint,
		Err:         resp.Err,
		Status:      status,
		ContentType: contentType,
		Body:        []byte(resp.Body),
	})
	if f != nil {
		return nil, f
	}
	return raw, nil
}

// CallCount returns the number of calls made to ep.
func (m *MockCaller) CallCount(ep Endpoint) int {
	return len(m.CallsTo(ep))
}

// CallsTo returns the recorded requests for ep.
func (m *MockCaller) CallsTo(ep Endpoint) []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Request
	for _, c := range m.Calls {
		if c.Endpoint == ep {
			out = append(out, c)
		}
	}
	return out
}

// Pending returns the number of queued responses not yet served.
func (m *MockCaller) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.responses {
		n += len(q)
	}
	return n
}
