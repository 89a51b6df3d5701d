// Package question runs a single exercise question: it validates answers
// locally, submits them, and turns verdicts into feedback and outcomes.
package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/phonix/internal/remote"
)

// Mode selects how a question is asked and checked.
type Mode int

const (
	ModeSpelling Mode = iota
	ModeHelp
	ModeHomophone
)

func (m Mode) String() string {
	switch m {
	case ModeSpelling:
		return "spelling"
	case ModeHelp:
		return "help"
	case ModeHomophone:
		return "homophone"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Endpoint returns the check endpoint answers are submitted to.
func (m Mode) Endpoint() remote.Endpoint {
	if m == ModeHomophone {
		return remote.EndpointHomophoneCheck
	}
	return remote.EndpointSpellingCheck
}

// InitialAttempts is the attempt count shown before the first answer.
func (m Mode) InitialAttempts() int {
	if m == ModeHelp {
		return 2
	}
	return 5
}

// Question is one item presented to the learner.
type Question struct {
	TestID remote.TestID
	Mode   Mode
	// Prompt is the IPA word or homophone transcription.
	Prompt  string
	Options []string
	Amount  int
	// Index is the 1-based position in its set; 0 hides it.
	Index int
}

// FromSpelling builds a spelling question.
func FromSpelling(item remote.SpellingItem, index int) Question {
	return Question{TestID: item.TestID, Mode: ModeSpelling, Prompt: item.Word, Options: item.Options, Index: index}
}

// FromHelp re-asks a spelling item with its options visible.
func FromHelp(item remote.SpellingItem) Question {
	return Question{TestID: item.TestID, Mode: ModeHelp, Prompt: item.Word, Options: item.Options}
}

// FromHomophone builds a homophone question.
func FromHomophone(item remote.HomophoneItem, index int) Question {
	return Question{TestID: item.TestID, Mode: ModeHomophone, Prompt: item.Homophone, Amount: item.Amount, Index: index}
}

// Normalize canonicalises an answer before comparison and submission.
func Normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// State is the lifecycle of a question session.
type State int

const (
	StateAwaiting State = iota
	StateSubmitting
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateSubmitting:
		return "submitting"
	default:
		return "resolved"
	}
}

// OutcomeKind is the result class of a verdict.
type OutcomeKind int

const (
	OutcomeCorrect OutcomeKind = iota
	OutcomeIncorrect
	OutcomeExhausted
	OutcomePartialExhausted
	OutcomeDone
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomePartialExhausted:
		return "partial-exhausted"
	default:
		return "done"
	}
}

// Outcome is the interpreted result of one verdict.
type Outcome struct {
	Kind         OutcomeKind
	AttemptsLeft int
	Solution     string
	Solutions    []string
}

// ErrAbandoned marks a question given up after a submission failure.
var ErrAbandoned = errors.New("question abandoned")

// AbandonedError carries the failure that ended a question.
type AbandonedError struct {
	Question Question
	Failure  *remote.Failure
	// Exhausted is set when the post-submit retry budget ran out.
	Exhausted bool
}

func (e *AbandonedError) Error() string {
	reason := "not retryable"
	if e.Exhausted {
		reason = "retries exhausted"
	}
	return fmt.Sprintf("%s question %s abandoned (%s): %v", e.Question.Mode, e.Question.TestID, reason, e.Failure)
}

func (e *AbandonedError) Unwrap() []error {
	return []error{ErrAbandoned, e.Failure}
}

// Submitter sends answers for checking.
type Submitter interface {
	Submit(ctx context.Context, testID remote.TestID, answer string, ep remote.Endpoint) remote.Outcome
}

// Config holds the question pacing delays.
type Config struct {
	// ResolveDelay is how long a final verdict stays on screen.
	ResolveDelay time.Duration
	// HelpSolutionDelay is how long the help-mode solution stays on screen.
	HelpSolutionDelay time.Duration
	// RetryDelay is the pause before input is re-enabled after a failed
	// submission.
	RetryDelay time.Duration
}

// DefaultConfig returns the standard pacing.
func DefaultConfig() Config {
	return Config{
		ResolveDelay:      1500 * time.Millisecond,
		HelpSolutionDelay: 2500 * time.Millisecond,
		RetryDelay:        1000 * time.Millisecond,
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
