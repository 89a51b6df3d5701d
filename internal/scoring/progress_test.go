package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	p := NewProgressStore(path)

	seen, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, seen)

	require.NoError(t, p.Add("ɔ:", "http://audio/or.mp3"))
	require.NoError(t, p.Add("i:", ""))
	require.NoError(t, p.Add("ɔ:", "other"))

	seen, err = NewProgressStore(path).Load()
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, SeenPhoneme{Phoneme: "ɔ:", AudioURL: "http://audio/or.mp3"}, seen[0])
	assert.Equal(t, "i:", seen[1].Phoneme)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phonemes_seen"`)
}

func TestProgressStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := NewProgressStore(path).Load()
	assert.Error(t, err)
}
