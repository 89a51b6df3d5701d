package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type statsRepo struct {
	drv *entsql.Driver
}

func (r *statsRepo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		FailuresByKind: make(map[string]int),
		SessionActions: make(map[string]int),
	}

	err := r.groupCount(ctx, "remote_call_events", "endpoint", nil, func(key string, n int) {
		stats.Endpoints = append(stats.Endpoints, EndpointStats{Endpoint: key, Calls: n})
	})
	if err != nil {
		return nil, fmt.Errorf("count calls: %w", err)
	}

	failures := make(map[string]int)
	err = r.groupCount(ctx, "remote_call_events", "endpoint", entsql.EQ("success", 0), func(key string, n int) {
		failures[key] = n
	})
	if err != nil {
		return nil, fmt.Errorf("count failures: %w", err)
	}
	for i := range stats.Endpoints {
		stats.Endpoints[i].Failures = failures[stats.Endpoints[i].Endpoint]
	}

	err = r.groupCount(ctx, "remote_call_events", "kind", entsql.EQ("success", 0), func(key string, n int) {
		stats.FailuresByKind[key] = n
	})
	if err != nil {
		return nil, fmt.Errorf("count failure kinds: %w", err)
	}

	err = r.groupCount(ctx, "session_events", "action", nil, func(key string, n int) {
		stats.SessionActions[key] = n
	})
	if err != nil {
		return nil, fmt.Errorf("count session actions: %w", err)
	}

	return stats, nil
}

// groupCount runs SELECT col, COUNT(*) ... GROUP BY col ordered by col.
func (r *statsRepo) groupCount(ctx context.Context, table, col string, where *entsql.Predicate, fn func(string, int)) error {
	sel := entsql.Dialect(dialect.SQLite).
		Select(col, entsql.Count("*")).
		From(entsql.Table(table)).
		GroupBy(col).
		OrderBy(col)
	if where != nil {
		sel = sel.Where(where)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		fn(key, n)
	}
	return rows.Err()
}

func (r *statsRepo) RecentRemoteCalls(ctx context.Context, opts QueryOpts) ([]RemoteCallEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "endpoint", "method", "param", "idempotency_key",
			"latency_ms", "success", "kind", "retryable", "status", "detail").
		From(entsql.Table("remote_call_events")).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Endpoint != "" {
		preds = append(preds, entsql.EQ("endpoint", opts.Endpoint))
	}
	if opts.Failed {
		preds = append(preds, entsql.EQ("success", 0))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query remote calls: %w", err)
	}
	defer rows.Close()

	var out []RemoteCallEvent
	for rows.Next() {
		var ev RemoteCallEvent
		var ts int64
		var success, retryable int
		if err := rows.Scan(&ev.Sequence, &ts, &ev.Endpoint, &ev.Method, &ev.Param, &ev.IdempotencyKey,
			&ev.LatencyMs, &success, &ev.Kind, &retryable, &ev.Status, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan remote call: %w", err)
		}
		ev.Timestamp = time.Unix(0, ts)
		ev.Success = success != 0
		ev.Retryable = retryable != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *statsRepo) Reset(ctx context.Context) error {
	for _, table := range []string{"remote_call_events", "session_events"} {
		query, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		if err := r.drv.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
