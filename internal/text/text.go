package text

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kevinmichaelchen/star-suggest/internal/lexicon"
)

// MaxDescriptionLen is the longest description, in characters, still taken
// as a genuine summary. Longer ones are usually whole READMEs pasted in.
const MaxDescriptionLen = 300

// IsSpam reports whether a description is absent or too long to use.
func IsSpam(description *string) bool {
	return description == nil || utf8.RuneCountInString(*description) > MaxDescriptionLen
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// Tokenize lowercases s and returns its maximal runs of ASCII letters.
// Digits, punctuation and any other characters only separate tokens.
func Tokenize(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// Corpus holds one token list per document.
type Corpus [][]string

// TokenCount is the total number of tokens across all documents.
func (c Corpus) TokenCount() int {
	n := 0
	for _, doc := range c {
		n += len(doc)
	}
	return n
}

// Preprocessor turns raw descriptions into a Corpus.
type Preprocessor struct {
	dict  lexicon.Dictionary
	noise lexicon.Noise
}

func NewPreprocessor(dict lexicon.Dictionary, noise lexicon.Noise) *Preprocessor {
	return &Preprocessor{dict: dict, noise: noise}
}

// Process drops spam descriptions and tokenizes the rest, keeping dictionary
// words that are not noise. Every surviving description yields one entry,
// even when no token is left.
func (p *Preprocessor) Process(descriptions []*string) Corpus {
	corpus := make(Corpus, 0, len(descriptions))
	for _, d := range descriptions {
		if IsSpam(d) {
			continue
		}
		tokens := []string{}
		for _, tok := range Tokenize(*d) {
			if !p.dict.IsWord(tok) || p.noise.IsNoise(tok) {
				continue
			}
			tokens = append(tokens, tok)
		}
		corpus = append(corpus, tokens)
	}
	return corpus
}

// ProcessStrings is Process for descriptions already known to be present.
func (p *Preprocessor) ProcessStrings(descriptions []string) Corpus {
	ptrs := make([]*string, len(descriptions))
	for i := range descriptions {
		ptrs[i] = &descriptions[i]
	}
	return p.Process(ptrs)
}
