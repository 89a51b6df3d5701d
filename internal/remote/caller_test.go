package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCallerGet(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"homoph":"/ɔ:/","test_id":"h1","amount":4}]`))
	}))
	defer srv.Close()

	svc := NewService(NewHTTPCaller(Config{BaseURL: srv.URL + "/", Timeout: time.Second}))
	items, err := svc.Homophones(context.Background(), "ɔ:")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/ɔ:/", items[0].Homophone)
	assert.Equal(t, TestID("h1"), items[0].TestID)
	assert.Equal(t, 4, items[0].Amount)
	assert.Equal(t, "/homophones/%C9%94:", gotPath)
}

func TestHTTPCallerPostSendsHeadersAndBody(t *testing.T) {
	var gotKey, gotMethod string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.Header.Get(IdempotencyHeader)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answered":"correct"}`))
	}))
	defer srv.Close()

	sub := NewSubmitter(NewHTTPCaller(Config{BaseURL: srv.URL, Timeout: time.Second}))
	out := sub.Submit(context.Background(), "t9", "cat", EndpointSpellingCheck)
	require.True(t, out.OK())
	assert.Equal(t, AnsweredCorrect, out.Verdict.Answered)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, out.Token, gotKey)
	assert.Equal(t, map[string]string{"test_id": "t9", "answer": "cat"}, gotBody)
}

func TestHTTPCallerTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPCaller(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Call(context.Background(), Request{Endpoint: EndpointReviewStatus})
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, f.Kind)
	assert.True(t, f.Retryable)
}

func TestHTTPCallerNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPCaller(Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Call(context.Background(), Request{Endpoint: EndpointLearn})
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, f.Kind)
	assert.True(t, f.Retryable)
}

func TestHTTPCallerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Word not found"}`))
	}))
	defer srv.Close()

	sub := NewSubmitter(NewHTTPCaller(Config{BaseURL: srv.URL, Timeout: time.Second}))
	out := sub.Submit(context.Background(), "gone", "cat", EndpointSpellingCheck)
	require.False(t, out.OK())
	assert.Equal(t, KindHTTP, out.Failure.Kind)
	assert.Equal(t, 404, out.Failure.Status)
	assert.Equal(t, "Word not found", out.Failure.Detail)
	assert.False(t, out.Failure.Retryable)
}
