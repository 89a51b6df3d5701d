package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// IdempotencyHeader carries the per-submission token.
const IdempotencyHeader = "Idempotency-Key"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// Request describes one remote call.
type Request struct {
	Endpoint Endpoint
	// Param is the path parameter for phoneme-scoped endpoints.
	Param  string
	Body   any
	Header map[string]string
}

// Caller performs remote calls. On failure the returned error is a *Failure.
type Caller interface {
	Call(ctx context.Context, req Request) (json.RawMessage, error)
}

// HTTPCaller calls the scoring service over HTTP.
type HTTPCaller struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPCaller creates a Caller for the configured base URL.
func NewHTTPCaller(cfg Config) *HTTPCaller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &HTTPCaller{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
	}
}

func (c *HTTPCaller) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			f := newFailure(KindUnknown, 0, "encode request body", err)
			f.Endpoint = req.Endpoint
			return nil, f
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Endpoint.Method(), c.baseURL+req.Endpoint.Path(req.Param), body)
	if err != nil {
		f := newFailure(KindUnknown, 0, "build request", err)
		f.Endpoint = req.Endpoint
		return nil, f
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		_, f := Classify(Attempt{Endpoint: req.Endpoint, Err: err})
		return nil, f
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		_, f := Classify(Attempt{Endpoint: req.Endpoint, Err: fmt.Errorf("read body: %w", err)})
		return nil, f
	}

	raw, f := Classify(Attempt{
		Endpoint:    req.Endpoint,
		Status:      resp.StatusCode,
		StatusText:  statusText(resp),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	})
	if f != nil {
		return nil, f
	}
	return raw, nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
