package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWordListPlain(t *testing.T) {
	set, err := ReadWordList(strings.NewReader("Parser\n\n# comment\ncache\n  queue  \n"))
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.IsWord("parser"))
	assert.True(t, set.IsWord("queue"))
	assert.False(t, set.IsWord("comment"))
}

func TestReadWordListHunspell(t *testing.T) {
	set, err := ReadWordList(strings.NewReader("3\nfast/RTY\nparser/MS\nqueue\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.IsWord("fast"))
	assert.True(t, set.IsWord("parser"))
	assert.False(t, set.IsWord("3"))
}

func TestLoadWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte("graph\ndatabase\n"), 0o644))

	set, err := LoadWordList(path)
	require.NoError(t, err)
	assert.True(t, set.IsWord("graph"))

	_, err = LoadWordList(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDefaultNoise(t *testing.T) {
	noise, err := DefaultNoise()
	require.NoError(t, err)

	for _, w := range []string{"the", "and", "python", "javascript", "rust", "awesome", "repository"} {
		assert.True(t, noise.IsNoise(w), w)
	}
	for _, w := range []string{"parser", "graph", "queue"} {
		assert.False(t, noise.IsNoise(w), w)
	}
}

func TestBundledUnknown(t *testing.T) {
	_, err := Bundled("klingon")
	assert.Error(t, err)
}

func TestAcceptAll(t *testing.T) {
	assert.True(t, AcceptAll{}.IsWord("zzz"))
}
