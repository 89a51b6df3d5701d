package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Attempt is everything observed about one remote call: either the
// transport error, or the response status, headers and body.
type Attempt struct {
	Endpoint    Endpoint
	Err         error
	Status      int
	StatusText  string
	ContentType string
	Body        []byte
}

// Classify turns an Attempt into either the validated JSON payload or a
// Failure. Checks run in order: transport, status, JSON decoding, top-level
// shape, then the endpoint contract.
func Classify(a Attempt) (json.RawMessage, *Failure) {
	f := classify(a)
	if f != nil {
		f.Endpoint = a.Endpoint
		return nil, f
	}
	return json.RawMessage(bytes.TrimSpace(a.Body)), nil
}

func classify(a Attempt) *Failure {
	if a.Err != nil {
		return classifyTransport(a.Err)
	}

	body := bytes.TrimSpace(a.Body)
	isJSON := strings.Contains(strings.ToLower(a.ContentType), "json") && len(body) > 0

	var parsed any
	var decodeErr error
	if isJSON {
		decodeErr = json.Unmarshal(body, &parsed)
	}

	if a.Status < 200 || a.Status > 299 {
		detail := a.StatusText
		if isJSON && decodeErr == nil {
			if d := detailOf(parsed); d != "" {
				detail = d
			}
		}
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", a.Status)
		}
		return newFailure(KindHTTP, a.Status, detail, nil)
	}

	if !isJSON {
		return newFailure(KindParse, a.Status, "expected JSON from server", nil)
	}
	if decodeErr != nil {
		return newFailure(KindParse, a.Status, "invalid JSON from server", decodeErr)
	}

	if err := checkShape(a.Endpoint.Shape(), parsed); err != nil {
		return newFailure(KindSchema, a.Status, err.Error(), nil)
	}
	if err := a.Endpoint.contract().Validate(parsed); err != nil {
		return newFailure(KindSchema, a.Status, "response does not match contract", err)
	}
	return nil
}

func classifyTransport(err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return newFailure(KindTimeout, 0, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return newFailure(KindUnknown, 0, "request cancelled", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newFailure(KindTimeout, 0, "request timed out", err)
	}
	return newFailure(KindNetwork, 0, "network error", err)
}

// detailOf reads the server-provided error text from a decoded error body.
func detailOf(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	switch d := obj["detail"].(type) {
	case string:
		return d
	case nil:
		return ""
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func checkShape(want Shape, v any) error {
	switch want {
	case ShapeList:
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("expected a list, got %s", jsonType(v))
		}
	case ShapeRecord:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("expected a record, got %s", jsonType(v))
		}
	}
	return nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case map[string]any:
		return "record"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
