package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SpellingCorrect(t *testing.T) {
	r := NewRegistry()
	id := r.NewSpelling("Order")

	v, err := r.CheckSpelling(id, "  order ")
	require.NoError(t, err)
	assert.Equal(t, "correct", v.Answered)
	assert.Equal(t, 0, r.Len())

	_, err = r.CheckSpelling(id, "order")
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestRegistry_SpellingSwitchesToHelp(t *testing.T) {
	r := NewRegistry()
	id := r.NewSpelling("order")

	for want := 4; want > 0; want-- {
		v, err := r.CheckSpelling(id, "awder")
		require.NoError(t, err)
		assert.Equal(t, "incorrect", v.Answered)
		assert.Equal(t, want, v.AttemptsLeft)
	}

	v, err := r.CheckSpelling(id, "awder")
	require.NoError(t, err)
	assert.Equal(t, "failed", v.Answered)
	assert.Nil(t, v.Solution)

	v, err = r.CheckSpelling(id, "aurder")
	require.NoError(t, err)
	assert.Equal(t, "incorrect", v.Answered)
	assert.Equal(t, 1, v.AttemptsLeft)

	v, err = r.CheckSpelling(id, "aurder")
	require.NoError(t, err)
	assert.Equal(t, "failed_all", v.Answered)
	assert.Equal(t, "order", v.Solution)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_HomophoneCorrectRefillsAttempts(t *testing.T) {
	r := NewRegistry()
	id := r.NewHomophone([]string{"pour", "poor", "pore"})

	v, err := r.CheckHomophone(id, "paw")
	require.NoError(t, err)
	assert.Equal(t, "incorrect", v.Answered)
	assert.Equal(t, 4, v.AttemptsLeft)

	v, err = r.CheckHomophone(id, "POUR")
	require.NoError(t, err)
	assert.Equal(t, "correct", v.Answered)
	assert.Equal(t, 5, v.AttemptsLeft)

	v, err = r.CheckHomophone(id, "poor")
	require.NoError(t, err)
	assert.Equal(t, "correct", v.Answered)

	v, err = r.CheckHomophone(id, "pore")
	require.NoError(t, err)
	assert.Equal(t, "done", v.Answered)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_HomophoneOutOfAttempts(t *testing.T) {
	t.Run("none found", func(t *testing.T) {
		r := NewRegistry()
		id := r.NewHomophone([]string{"saw", "sore"})
		var v Verdict
		var err error
		for range homophoneAttempts {
			v, err = r.CheckHomophone(id, "x")
			require.NoError(t, err)
		}
		assert.Equal(t, "failed_all", v.Answered)
		assert.Equal(t, []string{"saw", "sore"}, v.Solution)
	})

	t.Run("some found", func(t *testing.T) {
		r := NewRegistry()
		id := r.NewHomophone([]string{"saw", "sore"})
		_, err := r.CheckHomophone(id, "saw")
		require.NoError(t, err)
		var v Verdict
		for range homophoneAttempts {
			v, err = r.CheckHomophone(id, "x")
			require.NoError(t, err)
		}
		assert.Equal(t, "failed", v.Answered)
		assert.Equal(t, []string{"sore"}, v.Solution)
	})
}
