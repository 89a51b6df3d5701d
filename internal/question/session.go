package question

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/abhisek/phonix/internal/budget"
	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
)

// Deps are the collaborators shared by every question of a flow.
type Deps struct {
	Submitter Submitter
	UI        render.Renderer
	Input     render.Input
	Config    Config
	Logger    *slog.Logger
}

// Session runs one Question to resolution. Submissions are strictly
// sequential: no event is read while a submission is in flight.
type Session struct {
	q    Question
	deps Deps
	post *budget.Budget

	state        State
	attemptsLeft int
	accepted     []string
	last         Outcome
}

// New creates a Session. post is the question's own post-submit budget.
func New(q Question, deps Deps, post *budget.Budget) *Session {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Session{q: q, deps: deps, post: post, attemptsLeft: q.Mode.InitialAttempts()}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Accepted returns the homophones accepted so far, in order.
func (s *Session) Accepted() []string { return slices.Clone(s.accepted) }

// Last returns the most recent outcome, including non-terminal ones.
func (s *Session) Last() Outcome { return s.last }

// Run presents the question and loops until it resolves. A submission
// failure that cannot be retried returns an *AbandonedError.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	s.present()

	for {
		ev, err := s.deps.Input.Next(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if ev.Kind != render.EventAnswer || s.state != StateAwaiting {
			continue
		}

		answer, ok := s.validate(ev.Text)
		if !ok {
			continue
		}

		out, resolved, err := s.submit(ctx, answer)
		if err != nil {
			return out, err
		}
		if resolved {
			return out, nil
		}
	}
}

func (s *Session) present() {
	ui := s.deps.UI
	ui.Clear()
	ui.ShowPrompt(s.prompt())
	ui.ShowFeedback(render.Feedback{Tone: render.ToneInfo, Text: attemptsText(s.attemptsLeft)})
	ui.OfferActions()
	ui.SetInputEnabled(true)
	s.state = StateAwaiting
}

func (s *Session) prompt() render.Prompt {
	q := s.q
	switch q.Mode {
	case ModeHelp:
		return render.Prompt{
			Heading:     "Choose the correct spelling out of these three options",
			Target:      q.Prompt,
			Body:        []string{strings.Join(q.Options, " - ")},
			Placeholder: "Type one of the options",
		}
	case ModeHomophone:
		return render.Prompt{
			Heading:     numbered(q.Index, ""),
			Target:      q.Prompt,
			Trailer:     fmt.Sprintf(" has %d homophones", q.Amount),
			Body:        []string{homophoneHint},
			Placeholder: "Enter a homophone",
		}
	default:
		return render.Prompt{
			Heading:     numbered(q.Index, "How do you spell"),
			Target:      q.Prompt,
			Trailer:     "?",
			Placeholder: "Enter spelling here",
		}
	}
}

const homophoneHint = "Find the homophones of these phoneme combinations (example: /raɪt/ => write, right, rite, wright)"

func numbered(index int, text string) string {
	if index <= 0 {
		return text
	}
	return strings.TrimSpace(fmt.Sprintf("%d. %s", index, text))
}

// validate applies the local checks that never reach the server.
func (s *Session) validate(raw string) (string, bool) {
	answer := Normalize(raw)
	if answer == "" {
		return "", false
	}
	switch s.q.Mode {
	case ModeHelp:
		if !slices.ContainsFunc(s.q.Options, func(o string) bool { return Normalize(o) == answer }) {
			s.deps.UI.ShowFeedback(render.Feedback{Tone: render.ToneWarning, Text: "Choose only from the given options"})
			return "", false
		}
	case ModeHomophone:
		if slices.Contains(s.accepted, answer) {
			return "", false
		}
	}
	return answer, true
}

func (s *Session) submit(ctx context.Context, answer string) (Outcome, bool, error) {
	s.state = StateSubmitting
	s.deps.UI.SetInputEnabled(false)

	res := s.deps.Submitter.Submit(ctx, s.q.TestID, answer, s.q.Mode.Endpoint())
	if !res.OK() {
		f := res.Failure
		if f == nil {
			f = &remote.Failure{Kind: remote.KindUnknown, Detail: "submission returned no verdict", Endpoint: s.q.Mode.Endpoint()}
		}
		return s.handleFailure(ctx, f)
	}

	var out Outcome
	var resolved bool
	if s.q.Mode == ModeHomophone {
		out, resolved = s.applyHomophone(answer, res.Verdict)
	} else {
		out, resolved = s.applySpelling(res.Verdict)
	}
	s.last = out

	if resolved {
		s.state = StateResolved
		if err := sleep(ctx, s.resolveDelay(out)); err != nil {
			return out, true, err
		}
		return out, true, nil
	}

	s.state = StateAwaiting
	s.deps.UI.SetInputEnabled(true)
	return out, false, nil
}
