// Package session drives a whole trainer session: it decides between
// review and learning, sequences the exercise sets, and routes failures
// that reach the top through the global budgets.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/phonix/internal/budget"
	"github.com/abhisek/phonix/internal/exercise"
	"github.com/abhisek/phonix/internal/question"
	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
	"github.com/abhisek/phonix/internal/store"
)

// Service is the read side of the scoring service used by a session.
type Service interface {
	exercise.Source
	ReviewStatus(ctx context.Context) (remote.ReviewStatus, error)
	PhonemesCovered(ctx context.Context) ([]remote.CoveredPhoneme, error)
	ReviewSpelling(ctx context.Context) ([]remote.SpellingItem, error)
	Learn(ctx context.Context) (*remote.Phoneme, error)
	Spelling(ctx context.Context, phoneme string) ([]remote.SpellingItem, error)
}

// Deps are the Orchestrator's collaborators.
type Deps struct {
	Service   Service
	Submitter question.Submitter
	UI        render.Renderer
	Input     render.Input
	// Events records session lifecycle events. May be nil.
	Events store.EventRepo
	Logger *slog.Logger
	Config Config
	// OnStage is called on every stage change. May be nil.
	OnStage func(Stage)
}

// errNewSession ends the current session so Run starts a fresh one.
var errNewSession = errors.New("new session requested")

// Orchestrator owns the session lifecycle.
type Orchestrator struct {
	deps    Deps
	budgets *budget.Manager
	guard   *exercise.Guard
	ctrl    *exercise.Controller

	mu        sync.Mutex
	stage     Stage
	sessionID string
}

// New creates an Orchestrator with full global budgets.
func New(d Deps) *Orchestrator {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	o := &Orchestrator{
		deps:    d,
		budgets: budget.NewManager(d.Config.Budgets),
		guard:   &exercise.Guard{UI: d.UI, Input: d.Input, Logger: d.Logger},
	}
	o.ctrl = exercise.NewController(exercise.Deps{
		Source: d.Service,
		Question: question.Deps{
			Submitter: d.Submitter,
			UI:        d.UI,
			Input:     d.Input,
			Config:    d.Config.Question,
			Logger:    d.Logger,
		},
		Budgets: o.budgets,
		Observe: o.observePhase,
	})
	return o
}

// Stage returns the current stage.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

// Budgets exposes the budget manager.
func (o *Orchestrator) Budgets() *budget.Manager { return o.budgets }

// Run plays sessions until the learner quits, the service is declared
// unhealthy (exercise.ErrUnhealthy), or ctx ends. A restart begins a new
// session from StageBegin with the global budgets carried over.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		err := o.runOnce(ctx)
		switch {
		case errors.Is(err, exercise.ErrRestart):
			o.record(ctx, "restart", "")
		case errors.Is(err, errNewSession):
			o.record(ctx, "end", "new session")
		case errors.Is(err, exercise.ErrUnhealthy):
			o.record(ctx, "unhealthy", "")
			return err
		case err == nil:
			o.record(ctx, "end", "quit")
			return nil
		default:
			return err
		}
	}
}

func (o *Orchestrator) runOnce(ctx context.Context) error {
	o.mu.Lock()
	o.sessionID = uuid.NewString()
	o.mu.Unlock()
	o.setStage(StageBegin)
	o.record(ctx, "start", "")

	ui := o.deps.UI
	ui.Clear()
	ui.SetInputEnabled(false)
	ui.ShowPrompt(render.Prompt{Heading: "Welcome to the English Pronunciation Trainer"})
	ui.OfferActions(render.Action{ID: render.ActionStart, Label: "Click to start"})
	if _, err := render.AwaitAction(ctx, o.deps.Input, render.ActionStart); err != nil {
		return err
	}
	ui.OfferActions()

	var status remote.ReviewStatus
	err := o.guarded(ctx, func(ctx context.Context) error {
		o.setStage(StageDecide)
		s, err := o.deps.Service.ReviewStatus(ctx)
		status = s
		return err
	})
	if err != nil {
		return err
	}
	o.deps.Logger.Info("review status", "status", string(status))

	switch status {
	case remote.StatusReviewOnly:
		if err := o.review(ctx, "No new sounds to learn. Let's review what you have covered!"); err != nil {
			return err
		}
		o.setStage(StageComplete)
		return o.offerNewSession(ctx)

	case remote.StatusNoProgress:
		ui.Clear()
		ui.ShowPrompt(render.Prompt{Heading: "Enjoy your first lesson!"})
		if err := sleep(ctx, o.deps.Config.AutoLearnDelay); err != nil {
			return err
		}
		return o.learnLoop(ctx)

	default:
		if err := o.review(ctx, "Ready to start the review?"); err != nil {
			return err
		}
		ui.OfferActions(render.Action{ID: render.ActionLearn, Label: "Learn new phoneme"})
		if _, err := render.AwaitAction(ctx, o.deps.Input, render.ActionLearn); err != nil {
			return err
		}
		ui.OfferActions()
		return o.learnLoop(ctx)
	}
}

// offerNewSession ends a completed session. It returns errNewSession when
// the learner asks for another one and nil when they quit.
func (o *Orchestrator) offerNewSession(ctx context.Context) error {
	o.deps.UI.OfferActions(
		render.Action{ID: render.ActionNewSession, Label: "Start a new session"},
		render.Action{ID: render.ActionQuit, Label: "Quit"},
	)
	id, err := render.AwaitAction(ctx, o.deps.Input, render.ActionNewSession, render.ActionQuit)
	if err != nil {
		return err
	}
	o.deps.UI.OfferActions()
	if id == render.ActionNewSession {
		return errNewSession
	}
	return nil
}

func (o *Orchestrator) guarded(ctx context.Context, step func(context.Context) error) error {
	return o.guard.Run(ctx, o.budgets.Global(), step)
}

func (o *Orchestrator) setStage(s Stage) {
	o.mu.Lock()
	changed := o.stage != s
	o.stage = s
	o.mu.Unlock()

	if changed {
		o.deps.Logger.Debug("stage", "stage", s.String())
	}
	if o.deps.OnStage != nil {
		o.deps.OnStage(s)
	}
}

func (o *Orchestrator) observePhase(p exercise.Phase) {
	switch p {
	case exercise.PhasePrimary:
		o.setStage(StageSpell)
	case exercise.PhaseRemediation:
		o.setStage(StageRemediate)
	case exercise.PhaseHomophones:
		o.setStage(StageHomophones)
	case exercise.PhaseFinished:
		o.setStage(StageComplete)
	}
}

func (o *Orchestrator) record(ctx context.Context, action, detail string) {
	if o.deps.Events == nil {
		return
	}
	o.mu.Lock()
	data := store.SessionEventData{
		SessionID: o.sessionID,
		Action:    action,
		Stage:     o.stage.String(),
		Detail:    detail,
	}
	o.mu.Unlock()

	// Recording must not depend on a context that may already be done.
	ctx = context.WithoutCancel(ctx)
	if err := o.deps.Events.AppendSessionEvent(ctx, data); err != nil {
		o.deps.Logger.Warn("failed to record session event", "action", action, "error", err)
	}
}

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
