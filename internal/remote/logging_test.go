package remote

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phonix/internal/store"
)

type fakeEventRepo struct {
	mu    sync.Mutex
	calls []store.RemoteCallEventData
}

func (f *fakeEventRepo) AppendRemoteCall(_ context.Context, data store.RemoteCallEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, data)
	return nil
}

func (f *fakeEventRepo) AppendSessionEvent(context.Context, store.SessionEventData) error {
	return nil
}

func TestLoggingCallerRecordsEvents(t *testing.T) {
	repo := &fakeEventRepo{}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mock := NewMockCaller().On(EndpointSpellingCheck,
		HTTPError(503, "overloaded"),
		JSON(`{"answered":"correct"}`),
	)
	sub := NewSubmitter(WithLogging(mock, repo, logger))
	ctx := context.Background()

	first := sub.Submit(ctx, "t1", "cat", EndpointSpellingCheck)
	second := sub.Submit(ctx, "t1", "cat", EndpointSpellingCheck)
	require.False(t, first.OK())
	require.True(t, second.OK())

	require.Len(t, repo.calls, 2)
	failed := repo.calls[0]
	assert.False(t, failed.Success)
	assert.Equal(t, "http", failed.Kind)
	assert.True(t, failed.Retryable)
	assert.Equal(t, 503, failed.Status)
	assert.Equal(t, "overloaded", failed.Detail)
	assert.Equal(t, first.Token, failed.IdempotencyKey)
	assert.Equal(t, "POST", failed.Method)

	assert.True(t, repo.calls[1].Success)
	assert.Equal(t, second.Token, repo.calls[1].IdempotencyKey)

	out := buf.String()
	assert.Contains(t, out, "remote call failed")
	assert.Contains(t, out, "kind=http")
	assert.Contains(t, out, "retryable=true")
}

func TestLoggingCallerCountsOutcomes(t *testing.T) {
	okBefore := testutil.ToFloat64(CallsTotal.WithLabelValues(string(EndpointLearn), "ok"))
	timeoutBefore := testutil.ToFloat64(CallsTotal.WithLabelValues(string(EndpointLearn), string(KindTimeout)))

	mock := NewMockCaller().On(EndpointLearn,
		TransportError(context.DeadlineExceeded),
		JSON(`{"phoneme":"i:","patterns":{}}`),
	)
	c := WithLogging(mock, nil, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	_, err := c.Call(ctx, Request{Endpoint: EndpointLearn})
	require.Error(t, err)
	_, err = c.Call(ctx, Request{Endpoint: EndpointLearn})
	require.NoError(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(CallsTotal.WithLabelValues(string(EndpointLearn), "ok")))
	assert.Equal(t, timeoutBefore+1, testutil.ToFloat64(CallsTotal.WithLabelValues(string(EndpointLearn), string(KindTimeout))))
}
