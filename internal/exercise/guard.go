package exercise

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abhisek/phonix/internal/budget"
	"github.com/abhisek/phonix/internal/question"
	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
)

var (
	// ErrRestart asks the session to start again from the beginning.
	ErrRestart = errors.New("restart requested")

	// ErrUnhealthy means every budget for a failure is spent and the
	// session cannot continue.
	ErrUnhealthy = errors.New("service unhealthy")
)

const (
	msgSomethingWrong = "Something went wrong"
	msgUnhealthy      = "The app is not responding correctly. Please exit and try again later"
)

// Guard runs flow steps and routes their failures through a budget scope.
type Guard struct {
	UI     render.Renderer
	Input  render.Input
	Logger *slog.Logger
}

// Run invokes step until it succeeds. After a failure the scope decides:
// a retry re-invokes the same step once the user asks for it, a restart
// returns ErrRestart, and an exhausted scope returns ErrUnhealthy. Errors
// that are not remote failures, including ErrRestart and ErrUnhealthy from
// nested guards, pass through untouched.
func (g *Guard) Run(ctx context.Context, scope *budget.Pair, step func(context.Context) error) error {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for {
		err := step(ctx)
		if err == nil {
			scope.Succeeded()
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		f, ok := remote.AsFailure(err)
		if !ok {
			return err
		}

		retryable := f.Retryable && !errors.Is(err, question.ErrAbandoned)
		decision := scope.Decide(retryable)
		logger.Warn("flow step failed",
			append(f.LogAttrs(),
				"scope", string(scope.Retry.Scope()),
				"decision", decision.String(),
				"retries_left", scope.Retry.Remaining(),
				"restarts_left", scope.Restart.Remaining(),
			)...)

		switch decision {
		case budget.DecisionRetry:
			g.offer(render.Action{ID: render.ActionRetry, Label: "Retry"})
			if _, err := render.AwaitAction(ctx, g.Input, render.ActionRetry); err != nil {
				return err
			}
			g.UI.OfferActions()
		case budget.DecisionRestart:
			g.offer(render.Action{ID: render.ActionRestart, Label: "Restart"})
			if _, err := render.AwaitAction(ctx, g.Input, render.ActionRestart); err != nil {
				return err
			}
			return ErrRestart
		default:
			g.UI.SetInputEnabled(false)
			g.UI.OfferActions()
			g.UI.ShowFeedback(render.Feedback{Tone: render.ToneError, Text: msgUnhealthy})
			return ErrUnhealthy
		}
	}
}

func (g *Guard) offer(a render.Action) {
	g.UI.SetInputEnabled(false)
	g.UI.ShowFeedback(render.Feedback{Tone: render.ToneError, Text: msgSomethingWrong})
	g.UI.OfferActions(a)
}
