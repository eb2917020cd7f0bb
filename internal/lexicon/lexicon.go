// Package lexicon decides which tokens carry meaning: a dictionary of
// recognised English words and a noise list of stopwords, programming
// language names and repository boilerplate.
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dictionary reports whether a lowercase token is a real word.
type Dictionary interface {
	IsWord(token string) bool
}

// Noise reports whether a token should be ignored even though it is a word.
type Noise interface {
	IsNoise(token string) bool
}

// WordSet is a set of lowercase words. It satisfies both Dictionary and Noise.
type WordSet map[string]struct{}

// NewWordSet builds a set from words, lowercasing each one.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s.add(w)
	}
	return s
}

func (s WordSet) add(w string) {
	w = strings.ToLower(strings.TrimSpace(w))
	if w != "" {
		s[w] = struct{}{}
	}
}

func (s WordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

func (s WordSet) IsWord(token string) bool  { return s.Contains(token) }
func (s WordSet) IsNoise(token string) bool { return s.Contains(token) }

// Len returns the number of words in the set.
func (s WordSet) Len() int { return len(s) }

// AcceptAll is a Dictionary that knows every token. Used when no word list
// is installed.
type AcceptAll struct{}

func (AcceptAll) IsWord(string) bool { return true }

// ReadWordList reads one word per line. Hunspell .dic files are accepted:
// a leading entry count is skipped and "/FLAGS" suffixes are stripped.
func ReadWordList(r io.Reader) (WordSet, error) {
	set := WordSet{}
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '/'); i >= 0 {
			line = line[:i]
		}
		set.add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return set, nil
}

func isCount(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LoadWordList reads a word list from disk.
func LoadWordList(path string) (WordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	set, err := ReadWordList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

//go:embed data/*.txt
var data embed.FS

// Bundled noise list names.
const (
	Stopwords = "stopwords"
	Languages = "languages"
	Others    = "others"
)

// Bundled returns one of the embedded noise lists.
func Bundled(name string) (WordSet, error) {
	f, err := data.Open("data/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("bundled list %q: %w", name, err)
	}
	defer func() { _ = f.Close() }()
	return ReadWordList(f)
}

// DefaultNoise is the union of English stopwords, programming language names
// and common repository filler words.
func DefaultNoise() (WordSet, error) {
	all := WordSet{}
	for _, name := range []string{Stopwords, Languages, Others} {
		set, err := Bundled(name)
		if err != nil {
			return nil, err
		}
		for w := range set {
			all[w] = struct{}{}
		}
	}
	return all, nil
}
