package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phonix/internal/router"
	"github.com/abhisek/phonix/internal/store"
)

type fakeStatsRepo struct {
	calls   []store.RemoteCallEvent
	err     error
	queries []store.QueryOpts
}

func (f *fakeStatsRepo) Stats(context.Context) (*store.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &store.Stats{
		Endpoints:      []store.EndpointStats{{Endpoint: "learn", Calls: 2, Failures: 1}},
		FailuresByKind: map[string]int{"timeout": 1},
	}, nil
}

func (f *fakeStatsRepo) RecentRemoteCalls(_ context.Context, opts store.QueryOpts) ([]store.RemoteCallEvent, error) {
	f.queries = append(f.queries, opts)
	return f.calls, nil
}

func (f *fakeStatsRepo) Reset(context.Context) error { return nil }

func loaded(t *testing.T, s *HistoryScreen) *HistoryScreen {
	t.Helper()
	s.Update(s.Init()())
	return s
}

func TestHistoryShowsCalls(t *testing.T) {
	repo := &fakeStatsRepo{calls: []store.RemoteCallEvent{
		{RemoteCallEventData: store.RemoteCallEventData{Endpoint: "learn", Success: true, LatencyMs: 12}, Timestamp: time.Now()},
		{RemoteCallEventData: store.RemoteCallEventData{Endpoint: "learn", Kind: "timeout", Detail: "deadline"}, Timestamp: time.Now()},
	}}
	s := loaded(t, New(repo))

	view := s.View(100, 30)
	for _, want := range []string{"2 calls, 1 failed", "timeout 1", "deadline"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHistoryFailureFilter(t *testing.T) {
	repo := &fakeStatsRepo{}
	s := loaded(t, New(repo))

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	s.Update(cmd())

	if len(repo.queries) != 2 || !repo.queries[1].Failed {
		t.Errorf("expected second query to filter failures, got %+v", repo.queries)
	}
	if !strings.Contains(s.View(80, 24), "No calls recorded yet.") {
		t.Error("expected empty state")
	}
}

func TestHistoryError(t *testing.T) {
	s := loaded(t, New(&fakeStatsRepo{err: errors.New("db locked")}))
	if !strings.Contains(s.View(80, 24), "db locked") {
		t.Error("expected error in view")
	}
}

func TestHistoryEscPops(t *testing.T) {
	s := New(&fakeStatsRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
