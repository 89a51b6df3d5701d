// Package exercise runs a full exercise set: spelling questions, a help
// pass over the words the learner could not spell, then homophones.
package exercise

import (
	"context"

	"github.com/abhisek/phonix/internal/budget"
	"github.com/abhisek/phonix/internal/question"
	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
)

// Source fetches the homophone part of a set and records progress.
type Source interface {
	ReviewHomophones(ctx context.Context) ([]remote.HomophoneItem, error)
	Homophones(ctx context.Context, phoneme string) ([]remote.HomophoneItem, error)
	SaveProgress(ctx context.Context, p remote.Progress) error
}

// Phase is the part of a set currently running.
type Phase int

const (
	PhasePrimary Phase = iota
	PhaseRemediation
	PhaseHomophones
	PhaseFinished
)

// Set describes one exercise run. A nil Phoneme means a review.
type Set struct {
	Words   []remote.SpellingItem
	Phoneme *remote.Phoneme
}

// Review reports whether the set reviews covered phonemes.
func (s Set) Review() bool { return s.Phoneme == nil }

// Result summarises a finished set.
type Result struct {
	// Remediated lists the words re-asked in help mode, in order.
	Remediated []remote.SpellingItem
	Spelling   []question.Outcome
	Help       []question.Outcome
	Homophones []question.Outcome
}

// Deps are the Controller's collaborators.
type Deps struct {
	Source   Source
	Question question.Deps
	Budgets  *budget.Manager
	// Observe is told about every phase change. May be nil.
	Observe func(Phase)
}

// Controller sequences the phases of a set.
type Controller struct {
	deps  Deps
	guard *Guard
}

// NewController creates a Controller.
func NewController(d Deps) *Controller {
	return &Controller{
		deps: d,
		guard: &Guard{
			UI:     d.Question.UI,
			Input:  d.Question.Input,
			Logger: d.Question.Logger,
		},
	}
}

func (c *Controller) phase(p Phase) {
	if c.deps.Observe != nil {
		c.deps.Observe(p)
	}
}

// Run plays a whole set. Spelling failures are returned to the caller;
// the homophone part and the progress save run under a local budget
// scope of their own.
func (c *Controller) Run(ctx context.Context, set Set) (Result, error) {
	var res Result
	if err := c.runSpelling(ctx, set.Words, &res); err != nil {
		return res, err
	}

	ui := c.deps.Question.UI
	ui.SetInputEnabled(false)
	ui.OfferActions(render.Action{ID: render.ActionNextExercise, Label: "Click for the next exercise"})
	if _, err := render.AwaitAction(ctx, c.deps.Question.Input, render.ActionNextExercise); err != nil {
		return res, err
	}
	ui.OfferActions()

	local := c.deps.Budgets.NewLocal()
	err := c.guard.Run(ctx, local, func(ctx context.Context) error {
		outcomes, err := c.runHomophones(ctx, set)
		res.Homophones = outcomes
		return err
	})
	if err != nil {
		return res, err
	}

	if !set.Review() {
		err := c.guard.Run(ctx, local, func(ctx context.Context) error {
			return c.deps.Source.SaveProgress(ctx, remote.Progress{
				NewPhoneme: set.Phoneme.Phoneme,
				AudioPath:  set.Phoneme.AudioURL,
			})
		})
		if err != nil {
			return res, err
		}
	}

	c.phase(PhaseFinished)
	ui.Clear()
	if set.Review() {
		ui.ShowPrompt(render.Prompt{Heading: "Review completed!", Body: []string{"See you soon for another review!"}})
	} else {
		ui.ShowPrompt(render.Prompt{Heading: "Well done! Your progress has been saved. See you soon!"})
	}
	return res, nil
}

// RunSpelling asks every word once, then re-asks the exhausted ones in
// help mode in their original order. It returns the remediated words.
func (c *Controller) RunSpelling(ctx context.Context, words []remote.SpellingItem) ([]remote.SpellingItem, error) {
	var res Result
	err := c.runSpelling(ctx, words, &res)
	return res.Remediated, err
}

func (c *Controller) runSpelling(ctx context.Context, words []remote.SpellingItem, res *Result) error {
	c.phase(PhasePrimary)
	for i, w := range words {
		out, err := c.ask(ctx, question.FromSpelling(w, i+1))
		if err != nil {
			return err
		}
		res.Spelling = append(res.Spelling, out)
		if out.Kind == question.OutcomeExhausted {
			res.Remediated = append(res.Remediated, w)
		}
	}

	if len(res.Remediated) == 0 {
		return nil
	}
	c.phase(PhaseRemediation)
	for _, w := range res.Remediated {
		out, err := c.ask(ctx, question.FromHelp(w))
		if err != nil {
			return err
		}
		res.Help = append(res.Help, out)
	}
	return nil
}

func (c *Controller) runHomophones(ctx context.Context, set Set) ([]question.Outcome, error) {
	c.phase(PhaseHomophones)

	var items []remote.HomophoneItem
	var err error
	if set.Review() {
		items, err = c.deps.Source.ReviewHomophones(ctx)
	} else {
		items, err = c.deps.Source.Homophones(ctx, set.Phoneme.Phoneme)
	}
	if err != nil {
		return nil, err
	}

	outcomes := make([]question.Outcome, 0, len(items))
	for i, item := range items {
		out, err := c.ask(ctx, question.FromHomophone(item, i+1))
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (c *Controller) ask(ctx context.Context, q question.Question) (question.Outcome, error) {
	return question.New(q, c.deps.Question, c.deps.Budgets.NewPost()).Run(ctx)
}
