package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the ent SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendRemoteCall(ctx context.Context, data RemoteCallEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("remote_call_events").
		Columns("sequence", "timestamp", "endpoint", "method", "param", "idempotency_key",
			"latency_ms", "success", "kind", "retryable", "status", "detail").
		Values(seqNum, time.Now().UnixNano(), data.Endpoint, data.Method, data.Param, data.IdempotencyKey,
			data.LatencyMs, boolInt(data.Success), data.Kind, boolInt(data.Retryable), data.Status, data.Detail).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save remote call event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("session_events").
		Columns("sequence", "timestamp", "session_id", "action", "stage", "detail").
		Values(seqNum, time.Now().UnixNano(), data.SessionID, data.Action, data.Stage, data.Detail).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
