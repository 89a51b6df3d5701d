// Package render is the boundary between the trainer's flows and whatever
// draws them. Flows call a Renderer and read user events from an Input.
package render

import "context"

// Tone colours feedback.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneWarning
	ToneError
)

// Prompt is the main content of the screen.
type Prompt struct {
	Heading string
	// Target is the emphasised item (a word, an IPA transcription).
	Target  string
	Trailer string
	Body    []string
	// Placeholder is shown in the answer field when input is enabled.
	Placeholder string
}

// Feedback is a short message under the prompt.
type Feedback struct {
	Tone  Tone
	Text  string
	Items []string
}

// ActionID identifies an action button.
type ActionID string

const (
	ActionStart         ActionID = "start"
	ActionStartReview   ActionID = "start-review"
	ActionLearn         ActionID = "learn"
	ActionStartExercise ActionID = "start-exercises"
	ActionNextExercise  ActionID = "next-exercise"
	ActionRetry         ActionID = "retry"
	ActionRestart       ActionID = "restart"
	ActionNewSession    ActionID = "new-session"
	ActionQuit          ActionID = "quit"
)

// Action is a button the user can press.
type Action struct {
	ID    ActionID
	Label string
}

// Renderer displays flow state. Implementations must not block for long:
// calls are made from the flow goroutine.
type Renderer interface {
	Clear()
	ShowPrompt(p Prompt)
	ShowFeedback(f Feedback)
	SetInputEnabled(enabled bool)
	// OfferActions replaces the visible actions; no arguments hides them.
	OfferActions(actions ...Action)
}

// EventKind distinguishes user events.
type EventKind int

const (
	EventAnswer EventKind = iota
	EventAction
)

// Event is one user interaction.
type Event struct {
	Kind   EventKind
	Text   string
	Action ActionID
}

// Answer builds an answer event.
func Answer(text string) Event { return Event{Kind: EventAnswer, Text: text} }

// Invoke builds an action event.
func Invoke(id ActionID) Event { return Event{Kind: EventAction, Action: id} }

// Input delivers user events to a flow. Next blocks until an event arrives.
type Input interface {
	Next(ctx context.Context) (Event, error)
}

// AwaitAction reads events until one of ids is invoked. Other events are
// discarded.
func AwaitAction(ctx context.Context, in Input, ids ...ActionID) (ActionID, error) {
	for {
		ev, err := in.Next(ctx)
		if err != nil {
			return "", err
		}
		if ev.Kind != EventAction {
			continue
		}
		for _, id := range ids {
			if ev.Action == id {
				return id, nil
			}
		}
	}
}
