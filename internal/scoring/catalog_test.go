package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, c.Phonemes)

	e, ok := c.Lookup("ɔ:")
	require.True(t, ok)
	assert.Equal(t, "or", e.Audio)
	assert.NotEmpty(t, e.Patterns)
	assert.NotEmpty(t, e.Spelling)
	assert.NotEmpty(t, e.Homophones)

	_, ok = c.Lookup("zz")
	assert.False(t, ok)
}

func TestParseCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":          "phonemes: []",
		"missing symbol": "phonemes:\n  - audio: x\n",
		"duplicate":      "phonemes:\n  - symbol: a\n  - symbol: a\n",
		"no options":     "phonemes:\n  - symbol: a\n    spelling:\n      - word: x\n",
		"no words":       "phonemes:\n  - symbol: a\n    homophones:\n      - sound: x\n",
		"bad yaml":       "phonemes: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "phonemes:\n  - symbol: \"i:\"\n    spelling:\n      - word: \"/si:/\"\n        options: [see, sea]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Phonemes, 1)
	assert.Equal(t, []string{"see", "sea"}, c.Phonemes[0].Spelling[0].Options)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
