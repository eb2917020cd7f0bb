// Package topic fits topic models over tokenized descriptions and ranks the
// terms of the inferred topic.
package topic

import (
	"context"
	"errors"

	"github.com/kevinmichaelchen/star-suggest/internal/text"
)

// ErrEmptyCorpus is returned when there is no token to learn from, e.g. a
// user without stars or whose descriptions were all filtered out.
var ErrEmptyCorpus = errors.New("interest corpus has no usable terms")

// Model is a fitted topic model.
type Model interface {
	// TopTerms returns up to count terms of the model's first topic, most
	// probable first. It never refits.
	TopTerms(count int) []string
}

// Modeler fits a Model over a corpus.
type Modeler interface {
	Fit(ctx context.Context, corpus text.Corpus) (Model, error)
}

// Term is a vocabulary entry with its weight in a topic.
type Term struct {
	Word   string
	Weight float64
}

// Ranked is a Model backed by a precomputed, descending term ranking.
type Ranked []Term

func (r Ranked) TopTerms(count int) []string {
	if count > len(r) {
		count = len(r)
	}
	if count <= 0 {
		return nil
	}
	out := make([]string, count)
	for i := range out {
		out[i] = r[i].Word
	}
	return out
}
