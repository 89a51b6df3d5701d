package remote

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Outcome is the result of one answer submission: exactly one of Verdict
// and Failure is set. Token is the idempotency key that was sent.
type Outcome struct {
	Verdict *Verdict
	Failure *Failure
	Token   string
}

// OK reports whether the submission produced a verdict.
func (o Outcome) OK() bool { return o.Failure == nil && o.Verdict != nil }

type answerBody struct {
	TestID TestID `json:"test_id"`
	Answer string `json:"answer"`
}

// Submitter sends answers to the check endpoints. Every call gets a fresh
// idempotency token, so a retried submission is a new submission.
type Submitter struct {
	caller   Caller
	newToken func() (string, error)
}

// NewSubmitter creates a Submitter over c.
func NewSubmitter(c Caller) *Submitter {
	return &Submitter{caller: c, newToken: randomToken}
}

func randomToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Submit posts one answer. It never returns an error: failures are
// classified and carried in the Outcome.
func (s *Submitter) Submit(ctx context.Context, testID TestID, answer string, ep Endpoint) Outcome {
	token, err := s.newToken()
	if err != nil {
		f := newFailure(KindUnknown, 0, "generate idempotency key", err)
		f.Endpoint = ep
		return Outcome{Failure: f}
	}

	raw, err := s.caller.Call(ctx, Request{
		Endpoint: ep,
		Body:     answerBody{TestID: testID, Answer: answer},
		Header:   map[string]string{IdempotencyHeader: token},
	})
	if err != nil {
		f, ok := AsFailure(err)
		if !ok {
			f = newFailure(KindUnknown, 0, err.Error(), err)
			f.Endpoint = ep
		}
		return Outcome{Failure: f, Token: token}
	}

	var v Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		f := newFailure(KindSchema, 0, "decode verdict", err)
		f.Endpoint = ep
		return Outcome{Failure: f, Token: token}
	}
	return Outcome{Verdict: &v, Token: token}
}
