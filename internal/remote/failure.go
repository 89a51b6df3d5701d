package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a failed remote call.
type Kind string

const (
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
	KindParse   Kind = "parse"
	KindSchema  Kind = "schema"
	KindHTTP    Kind = "http"
	KindUnknown Kind = "unknown"
)

// Failure is the classified outcome of a remote call that did not produce
// usable data. Retryable is derived from Kind and Status only.
type Failure struct {
	Kind      Kind
	Retryable bool
	// Status is the HTTP status code, 0 when no response was received.
	Status   int
	Detail   string
	Endpoint Endpoint
	Err      error
}

func newFailure(kind Kind, status int, detail string, err error) *Failure {
	return &Failure{
		Kind:      kind,
		Retryable: retryable(kind, status),
		Status:    status,
		Detail:    detail,
		Err:       err,
	}
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s failure", f.Kind)
	if f.Endpoint != "" {
		msg = fmt.Sprintf("%s on %s", msg, f.Endpoint)
	}
	if f.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, f.Status)
	}
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// LogAttrs returns the slog key/value pairs describing the failure.
func (f *Failure) LogAttrs() []any {
	return []any{
		"endpoint", string(f.Endpoint),
		"kind", string(f.Kind),
		"retryable", f.Retryable,
		"status", f.Status,
		"detail", f.Detail,
	}
}

// RetryableStatus reports whether an HTTP status is worth retrying:
// request timeout, rate limiting and every server error.
func RetryableStatus(status int) bool {
	return status == 408 || status == 429 || status >= 500
}

func retryable(kind Kind, status int) bool {
	switch kind {
	case KindNetwork, KindTimeout, KindParse:
		return true
	case KindHTTP:
		return RetryableStatus(status)
	default:
		return false
	}
}

// AsFailure extracts the *Failure carried by err, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsRetryable reports whether err carries a retryable Failure.
func IsRetryable(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Retryable
}
