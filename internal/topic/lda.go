package topic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"github.com/kevinmichaelchen/star-suggest/internal/text"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// Topics is the number of latent topics inferred.
	Topics = 1
	// Passes is the number of training passes over the corpus.
	Passes = 10
	// Seed fixes the model's random start so a corpus always yields the
	// same terms.
	Seed = 42
)

// LDA fits a latent Dirichlet allocation model.
type LDA struct{}

func (LDA) Fit(ctx context.Context, corpus text.Corpus) (Model, error) {
	if corpus.TokenCount() == 0 {
		return nil, ErrEmptyCorpus
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Tokens are already clean lowercase words, so joining them with spaces
	// lets the vectoriser recover exactly the same tokens.
	docs := make([]string, len(corpus))
	for i, tokens := range corpus {
		docs[i] = strings.Join(tokens, " ")
	}

	vectoriser := nlp.NewCountVectoriser()
	lda := nlp.NewLatentDirichletAllocation(Topics)
	lda.Iterations = Passes
	lda.TransformationPasses = Passes
	// One document per update, so every pass revisits each description.
	lda.BatchSize = 1
	lda.Rnd = rand.New(rand.NewSource(Seed))
	// Parallel batches finish in arbitrary order.
	lda.Processes = 1

	pipeline := nlp.NewPipeline(vectoriser, lda)
	if _, err := pipeline.FitTransform(docs...); err != nil {
		return nil, fmt.Errorf("fitting topic model: %w", err)
	}

	return rankTopic(lda.Components(), vectoriser.Vocabulary, firstSeen(corpus), 0), nil
}

// rankTopic orders the vocabulary by weight in the given topic. Equal weights
// keep the order in which the words first appeared in the corpus.
func rankTopic(topicsOverWords mat.Matrix, vocabulary map[string]int, order map[string]int, topic int) Ranked {
	ranked := make(Ranked, 0, len(vocabulary))
	for word, col := range vocabulary {
		ranked = append(ranked, Term{Word: word, Weight: topicsOverWords.At(topic, col)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return order[ranked[i].Word] < order[ranked[j].Word]
	})
	return ranked
}

func firstSeen(corpus text.Corpus) map[string]int {
	order := make(map[string]int)
	for _, doc := range corpus {
		for _, tok := range doc {
			if _, ok := order[tok]; !ok {
				order[tok] = len(order)
			}
		}
	}
	return order
}
