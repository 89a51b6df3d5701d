package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
)

func (s *Session) applySpelling(v *remote.Verdict) (Outcome, bool) {
	ui := s.deps.UI
	switch {
	case v.Answered == remote.AnsweredCorrect:
		ui.ShowFeedback(render.Feedback{Tone: render.ToneSuccess, Text: "Correct! ✅"})
		return Outcome{Kind: OutcomeCorrect}, true

	case v.Answered == remote.AnsweredIncorrect && v.AttemptsLeft > 0:
		s.attemptsLeft = v.AttemptsLeft
		ui.ShowFeedback(render.Feedback{Tone: render.ToneWarning, Text: "Try again. " + attemptsText(v.AttemptsLeft)})
		return Outcome{Kind: OutcomeIncorrect, AttemptsLeft: v.AttemptsLeft}, false
	}

	s.attemptsLeft = 0
	out := Outcome{Kind: OutcomeExhausted, Solution: v.Solution}
	if s.q.Mode == ModeHelp {
		ui.ShowFeedback(render.Feedback{
			Tone: render.ToneError,
			Text: fmt.Sprintf("Careful: the spelling of %s is %s", s.q.Prompt, v.Solution),
		})
		return out, true
	}
	ui.ShowFeedback(render.Feedback{Tone: render.ToneError, Text: "Incorrect. We will practise this word again later"})
	return out, true
}

func (s *Session) applyHomophone(answer string, v *remote.Verdict) (Outcome, bool) {
	ui := s.deps.UI
	switch v.Answered {
	case remote.AnsweredCorrect:
		s.accepted = append(s.accepted, answer)
		s.attemptsLeft = v.AttemptsLeft
		ui.ShowFeedback(render.Feedback{
			Tone:  render.ToneSuccess,
			Text:  "Correct! ✅ " + attemptsText(v.AttemptsLeft),
			Items: s.Accepted(),
		})
		return Outcome{Kind: OutcomeCorrect, AttemptsLeft: v.AttemptsLeft}, false

	case remote.AnsweredDone:
		s.accepted = append(s.accepted, answer)
		ui.ShowFeedback(render.Feedback{Tone: render.ToneSuccess, Text: "Correct! ✅", Items: s.Accepted()})
		return Outcome{Kind: OutcomeDone}, true

	case remote.AnsweredIncorrect:
		if v.AttemptsLeft > 0 {
			s.attemptsLeft = v.AttemptsLeft
			ui.ShowFeedback(render.Feedback{
				Tone:  render.ToneWarning,
				Text:  "Try again. " + attemptsText(v.AttemptsLeft),
				Items: s.Accepted(),
			})
			return Outcome{Kind: OutcomeIncorrect, AttemptsLeft: v.AttemptsLeft}, false
		}
	}

	s.attemptsLeft = 0
	if v.Answered == remote.AnsweredFailedAll {
		ui.ShowFeedback(render.Feedback{
			Tone:  render.ToneError,
			Text:  fmt.Sprintf("All the homophones of %s: %s", s.q.Prompt, strings.Join(v.Solutions, ", ")),
			Items: v.Solutions,
		})
		return Outcome{Kind: OutcomeExhausted, Solutions: v.Solutions}, true
	}
	ui.ShowFeedback(render.Feedback{
		Tone:  render.ToneError,
		Text:  fmt.Sprintf("The remaining homophones of %s: %s", s.q.Prompt, strings.Join(v.Solutions, ", ")),
		Items: v.Solutions,
	})
	return Outcome{Kind: OutcomePartialExhausted, Solutions: v.Solutions}, true
}

func (s *Session) resolveDelay(out Outcome) time.Duration {
	switch {
	case out.Kind == OutcomeDone:
		return 0
	case out.Kind == OutcomeExhausted && s.q.Mode == ModeHelp:
		return s.deps.Config.HelpSolutionDelay
	default:
		return s.deps.Config.ResolveDelay
	}
}

// handleFailure logs the failure and either re-enables input after the
// retry delay or abandons the question.
func (s *Session) handleFailure(ctx context.Context, f *remote.Failure) (Outcome, bool, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, true, err
	}

	attrs := append(f.LogAttrs(), "test_id", string(s.q.TestID), "mode", s.q.Mode.String())
	s.deps.Logger.Warn("answer submission failed", attrs...)

	consumed := s.post.Consume()
	if !f.Retryable || !consumed || !s.post.HasBudget() {
		s.state = StateResolved
		s.deps.UI.ShowFeedback(render.Feedback{
			Tone: render.ToneError,
			Text: "We can't process your answer (not your fault). Please RESTART the exercise",
		})
		return Outcome{}, true, &AbandonedError{Question: s.q, Failure: f, Exhausted: f.Retryable}
	}

	s.deps.UI.ShowFeedback(render.Feedback{
		Tone: render.ToneWarning,
		Text: "We can't process your answer (not your fault). Click CHECK again in 1 second",
	})
	if err := sleep(ctx, s.deps.Config.RetryDelay); err != nil {
		return Outcome{}, true, err
	}
	s.state = StateAwaiting
	s.deps.UI.SetInputEnabled(true)
	return Outcome{}, false, nil
}

func attemptsText(n int) string {
	if n == 1 {
		return "1 attempt left"
	}
	return fmt.Sprintf("%d attempts left", n)
}
