package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/abhisek/phonix/internal/store"
)

// LoggingCaller is a decorator that logs every remote call and records it
// as an event. Failures are logged with their classification before any
// caller gets to react to them.
type LoggingCaller struct {
	inner     Caller
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Caller with logging. repo may be nil.
func WithLogging(c Caller, repo store.EventRepo, logger *slog.Logger) Caller {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingCaller{inner: c, eventRepo: repo, logger: logger}
}

func (l *LoggingCaller) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	start := time.Now()
	raw, err := l.inner.Call(ctx, req)
	latency := time.Since(start)

	data := store.RemoteCallEventData{
		Endpoint:       string(req.Endpoint),
		Method:         req.Endpoint.Method(),
		Param:          req.Param,
		IdempotencyKey: req.Header[IdempotencyHeader],
		LatencyMs:      latency.Milliseconds(),
		Success:        err == nil,
	}

	if err != nil {
		f, ok := AsFailure(err)
		if !ok {
			f = &Failure{Kind: KindUnknown, Detail: err.Error(), Endpoint: req.Endpoint, Err: err}
		}
		data.Kind = string(f.Kind)
		data.Retryable = f.Retryable
		data.Status = f.Status
		data.Detail = f.Detail
		l.logger.Warn("remote call failed", append(f.LogAttrs(), "latency", latency)...)
	} else {
		l.logger.Debug("remote call", "endpoint", string(req.Endpoint), "latency", latency)
	}

	outcome := "ok"
	if data.Kind != "" {
		outcome = data.Kind
	}
	CallsTotal.WithLabelValues(data.Endpoint, outcome).Inc()
	CallLatency.WithLabelValues(data.Endpoint).Observe(latency.Seconds())

	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendRemoteCall(ctx, data); logErr != nil {
			l.logger.Warn("failed to record remote call event", "error", logErr)
		}
	}

	return raw, err
}
