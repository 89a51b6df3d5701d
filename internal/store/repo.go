package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int    // max results (0 = unlimited)
	After    int64  // sequence > After
	Endpoint string // only this endpoint when set
	Failed   bool   // only failed calls
}

// RemoteCallEventData captures one call to the scoring service.
type RemoteCallEventData struct {
	Endpoint       string
	Method         string
	Param          string
	IdempotencyKey string
	LatencyMs      int64
	Success        bool
	Kind           string
	Retryable      bool
	Status         int
	Detail         string
}

// RemoteCallEvent is a stored RemoteCallEventData.
type RemoteCallEvent struct {
	RemoteCallEventData
	Sequence  int64
	Timestamp time.Time
}

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID string
	Action    string // "start", "stage", "restart", "unhealthy", "end"
	Stage     string
	Detail    string
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendRemoteCall records a scoring service call.
	AppendRemoteCall(ctx context.Context, data RemoteCallEventData) error

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
}

// EndpointStats summarises calls made to one endpoint.
type EndpointStats struct {
	Endpoint string
	Calls    int
	Failures int
}

// Stats summarises the event log.
type Stats struct {
	Endpoints      []EndpointStats
	FailuresByKind map[string]int
	SessionActions map[string]int
}

// StatsRepo reads and clears the event log.
type StatsRepo interface {
	// Stats aggregates the event log.
	Stats(ctx context.Context) (*Stats, error)

	// RecentRemoteCalls returns calls newest first.
	RecentRemoteCalls(ctx context.Context, opts QueryOpts) ([]RemoteCallEvent, error)

	// Reset deletes every recorded event.
	Reset(ctx context.Context) error
}
