package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitUntilWaiting(t *testing.T, in *Inbox) {
	t.Helper()
	require.Eventually(t, in.Waiting, time.Second, time.Millisecond)
}

func TestInboxDropsEventsWhileBusy(t *testing.T) {
	in := NewInbox()
	assert.False(t, in.Post(Answer("early")), "nothing is waiting yet")

	got := make(chan Event, 1)
	go func() {
		ev, err := in.Next(context.Background())
		if err == nil {
			got <- ev
		}
	}()
	waitUntilWaiting(t, in)

	assert.True(t, in.Post(Answer("cat")))
	assert.False(t, in.Post(Answer("dog")), "second event while busy is dropped")

	select {
	case ev := <-got:
		assert.Equal(t, "cat", ev.Text)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	assert.False(t, in.Waiting())
}

func TestInboxNextCancelled(t *testing.T) {
	in := NewInbox()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := in.Next(ctx)
		done <- err
	}()
	waitUntilWaiting(t, in)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Next did not return after cancel")
	}
	assert.False(t, in.Post(Invoke(ActionStart)))
}

func TestAwaitActionSkipsOtherEvents(t *testing.T) {
	s := NewScript(Answer("cat"), Invoke(ActionRetry), Invoke(ActionStart))
	id, err := AwaitAction(context.Background(), s, ActionStart, ActionQuit)
	require.NoError(t, err)
	assert.Equal(t, ActionStart, id)
	assert.Zero(t, s.Remaining())

	_, err = AwaitAction(context.Background(), s, ActionStart)
	assert.ErrorIs(t, err, ErrScriptExhausted)
}
