package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "phonix.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"remote_call_events", "session_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAppendAndQueryRemoteCalls(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	calls := []RemoteCallEventData{
		{Endpoint: "reviewstatus", Method: "GET", LatencyMs: 12, Success: true},
		{Endpoint: "checkspellanswer", Method: "POST", IdempotencyKey: "k1", LatencyMs: 40,
			Kind: "http", Retryable: true, Status: 503, Detail: "Service Unavailable"},
		{Endpoint: "checkspellanswer", Method: "POST", IdempotencyKey: "k2", LatencyMs: 30, Success: true},
	}
	for _, c := range calls {
		if err := events.AppendRemoteCall(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := s.StatsRepo().RecentRemoteCalls(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(recent))
	}
	if recent[0].IdempotencyKey != "k2" || !recent[0].Success {
		t.Errorf("newest = %+v, want successful k2", recent[0])
	}
	if recent[1].Status != 503 || !recent[1].Retryable || recent[1].Kind != "http" {
		t.Errorf("second = %+v, want retryable http 503", recent[1])
	}

	failed, err := s.StatsRepo().RecentRemoteCalls(ctx, QueryOpts{Failed: true})
	if err != nil {
		t.Fatalf("failed: %v", err)
	}
	if len(failed) != 1 || failed[0].IdempotencyKey != "k1" {
		t.Errorf("failed = %+v, want only k1", failed)
	}
}

func TestStatsAndReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	for _, c := range []RemoteCallEventData{
		{Endpoint: "learn", Method: "GET", Success: true},
		{Endpoint: "learn", Method: "GET", Kind: "timeout", Retryable: true},
		{Endpoint: "spell", Method: "GET", Kind: "schema"},
	} {
		if err := events.AppendRemoteCall(ctx, c); err != nil {
			t.Fatalf("append call: %v", err)
		}
	}
	for _, a := range []string{"start", "restart", "start"} {
		if err := events.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: a}); err != nil {
			t.Fatalf("append session: %v", err)
		}
	}

	stats, err := s.StatsRepo().Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats.Endpoints) != 2 {
		t.Fatalf("endpoints = %+v, want 2 entries", stats.Endpoints)
	}
	if got := stats.Endpoints[0]; got.Endpoint != "learn" || got.Calls != 2 || got.Failures != 1 {
		t.Errorf("learn stats = %+v", got)
	}
	if got := stats.Endpoints[1]; got.Endpoint != "spell" || got.Calls != 1 || got.Failures != 1 {
		t.Errorf("spell stats = %+v", got)
	}
	if stats.FailuresByKind["timeout"] != 1 || stats.FailuresByKind["schema"] != 1 {
		t.Errorf("failures by kind = %v", stats.FailuresByKind)
	}
	if stats.SessionActions["start"] != 2 || stats.SessionActions["restart"] != 1 {
		t.Errorf("session actions = %v", stats.SessionActions)
	}

	if err := s.StatsRepo().Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	stats, err = s.StatsRepo().Stats(ctx)
	if err != nil {
		t.Fatalf("stats after reset: %v", err)
	}
	if len(stats.Endpoints) != 0 || len(stats.SessionActions) != 0 {
		t.Errorf("stats after reset = %+v, want empty", stats)
	}
}
