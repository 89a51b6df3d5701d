package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/phonix/internal/exercise"
	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
)

const msgAllLearned = "You have learned every sound we have. Start a new session to review them."

// review shows the covered phonemes, waits for the learner, then plays a
// review set.
func (o *Orchestrator) review(ctx context.Context, heading string) error {
	o.setStage(StageReview)
	ui := o.deps.UI

	var covered []remote.CoveredPhoneme
	err := o.guarded(ctx, func(ctx context.Context) error {
		c, err := o.deps.Service.PhonemesCovered(ctx)
		covered = c
		return err
	})
	if err != nil {
		return err
	}

	ui.Clear()
	ui.SetInputEnabled(false)
	ui.ShowPrompt(render.Prompt{Heading: heading, Body: coveredLines(covered)})
	ui.OfferActions(render.Action{ID: render.ActionStartReview, Label: "Start the review"})
	if _, err := render.AwaitAction(ctx, o.deps.Input, render.ActionStartReview); err != nil {
		return err
	}
	ui.OfferActions()

	return o.guarded(ctx, func(ctx context.Context) error {
		words, err := o.deps.Service.ReviewSpelling(ctx)
		if err != nil {
			return err
		}
		_, err = o.ctrl.Run(ctx, exercise.Set{Words: words})
		return err
	})
}

// learnLoop teaches one new phoneme per iteration until the learner quits.
func (o *Orchestrator) learnLoop(ctx context.Context) error {
	ui := o.deps.UI
	for {
		o.setStage(StageLearn)

		var ph *remote.Phoneme
		err := o.guarded(ctx, func(ctx context.Context) error {
			p, err := o.deps.Service.Learn(ctx)
			if err != nil {
				return err
			}
			ph = p
			return nil
		})
		if err != nil {
			return err
		}

		ui.Clear()
		ui.SetInputEnabled(false)
		ui.ShowPrompt(phonemePrompt(ph))
		ui.OfferActions(render.Action{ID: render.ActionStartExercise, Label: "Start exercises"})
		if _, err := render.AwaitAction(ctx, o.deps.Input, render.ActionStartExercise); err != nil {
			return err
		}
		ui.OfferActions()

		err = o.guarded(ctx, func(ctx context.Context) error {
			words, err := o.deps.Service.Spelling(ctx, ph.Phoneme)
			if err != nil {
				return err
			}
			_, err = o.ctrl.Run(ctx, exercise.Set{Words: words, Phoneme: ph})
			return err
		})
		if err != nil {
			return err
		}

		o.setStage(StageComplete)

		var status remote.ReviewStatus
		err = o.guarded(ctx, func(ctx context.Context) error {
			s, err := o.deps.Service.ReviewStatus(ctx)
			status = s
			return err
		})
		if err != nil {
			return err
		}
		if status == remote.StatusReviewOnly {
			ui.ShowFeedback(render.Feedback{Tone: render.ToneInfo, Text: msgAllLearned})
			return o.offerNewSession(ctx)
		}

		ui.OfferActions(
			render.Action{ID: render.ActionLearn, Label: "Learn another phoneme"},
			render.Action{ID: render.ActionQuit, Label: "Quit"},
		)
		id, err := render.AwaitAction(ctx, o.deps.Input, render.ActionLearn, render.ActionQuit)
		if err != nil {
			return err
		}
		ui.OfferActions()
		if id == render.ActionQuit {
			return nil
		}
	}
}

func phonemePrompt(ph *remote.Phoneme) render.Prompt {
	sound := ph.IPA
	if sound == "" {
		sound = "/" + ph.Phoneme + "/"
	}

	var body []string
	for _, name := range ph.PatternNames() {
		body = append(body, fmt.Sprintf("%s: %s", name, strings.Join(ph.Patterns[name], ", ")))
	}
	body = append(body, "", "Some of the following words may not be spelt with the common patterns above")
	if ph.AudioURL != "" {
		body = append(body, "Listen: "+ph.AudioURL)
	}

	return render.Prompt{
		Heading: "Learn new phoneme",
		Target:  sound,
		Trailer: " is spelt with these common patterns",
		Body:    body,
	}
}

// coveredLines lists each covered phoneme on its own line, followed by
// its recording when the service has one.
func coveredLines(covered []remote.CoveredPhoneme) []string {
	if len(covered) == 0 {
		return nil
	}
	lines := []string{"Sounds covered so far:"}
	for _, c := range covered {
		line := "  /" + c.Phoneme + "/"
		if c.AudioURL != "" {
			line += "  Listen: " + c.AudioURL
		}
		lines = append(lines, line)
	}
	return lines
}
