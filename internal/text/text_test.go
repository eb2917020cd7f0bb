package text

import (
	"strings"
	"testing"

	"github.com/kevinmichaelchen/star-suggest/internal/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestTokenizeDropsNonAlphabetic(t *testing.T) {
	assert.Equal(t, []string{"fast", "v", "parser"}, Tokenize("Fast! v2.0 🚀 parser"))
	assert.Equal(t, []string{"caf", "au", "lait"}, Tokenize("Café-au_lait"))
	assert.Empty(t, Tokenize("123 !!! 🚀"))
}

func TestIsSpamBoundary(t *testing.T) {
	assert.True(t, IsSpam(nil))
	assert.False(t, IsSpam(ptr("")))
	assert.False(t, IsSpam(ptr(strings.Repeat("a", 300))))
	assert.True(t, IsSpam(ptr(strings.Repeat("a", 301))))
	// Length counts characters, not bytes.
	assert.False(t, IsSpam(ptr(strings.Repeat("é", 300))))
}

func newTestPreprocessor() *Preprocessor {
	dict := lexicon.NewWordSet("fast", "parser", "graph", "database", "the", "python", "for", "queue")
	noise := lexicon.NewWordSet("the", "for", "python")
	return NewPreprocessor(dict, noise)
}

func TestProcessFiltersWords(t *testing.T) {
	p := newTestPreprocessor()

	corpus := p.Process([]*string{
		ptr("Fast! v2.0 🚀 parser"),
		ptr("The graph database for Python"),
	})

	require.Len(t, corpus, 2)
	assert.Equal(t, []string{"fast", "parser"}, corpus[0])
	assert.Equal(t, []string{"graph", "database"}, corpus[1])
	assert.Equal(t, 4, corpus.TokenCount())
}

func TestProcessKeepsEmptyDocuments(t *testing.T) {
	p := newTestPreprocessor()

	corpus := p.Process([]*string{ptr("the python for"), ptr("queue")})

	require.Len(t, corpus, 2)
	assert.Empty(t, corpus[0])
	assert.NotNil(t, corpus[0])
	assert.Equal(t, []string{"queue"}, corpus[1])
}

func TestProcessDropsSpam(t *testing.T) {
	p := newTestPreprocessor()

	exact := strings.TrimSpace(strings.Repeat("graph ", 50))
	exact += strings.Repeat("x", 300-len(exact))
	over := exact + "y"

	corpus := p.Process([]*string{nil, ptr(exact), ptr(over)})

	require.Len(t, corpus, 1)
	assert.Len(t, corpus[0], 49)
}

func TestProcessStrings(t *testing.T) {
	p := newTestPreprocessor()

	corpus := p.ProcessStrings([]string{"graph queue", "database"})

	assert.Equal(t, Corpus{{"graph", "queue"}, {"database"}}, corpus)
}
