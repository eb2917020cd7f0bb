// Package suggest turns a user's interest profile into a ranked list of
// repositories they have not starred yet.
//
// A Session memoizes each expensive step: the topic model is fitted on the
// first query, and the suggestion list is computed on the first request and
// served from cache afterwards. A failed computation caches nothing, so the
// next call starts over.
package suggest

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"

	"github.com/kevinmichaelchen/star-suggest/internal/logging"
	"github.com/kevinmichaelchen/star-suggest/internal/models"
	"github.com/kevinmichaelchen/star-suggest/internal/query"
	"github.com/kevinmichaelchen/star-suggest/internal/text"
	"github.com/kevinmichaelchen/star-suggest/internal/topic"
	"github.com/rs/zerolog"
)

// Interests is the user's interest signal.
type Interests interface {
	Descriptions() []string
	OwnStarred() []models.Repo
}

// Searcher runs a repository search, most starred first.
type Searcher interface {
	Search(ctx context.Context, q string) ([]models.Repo, error)
}

type State int

const (
	NotStarted State = iota
	Computing
	Ready
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Computing:
		return "computing"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session holds the cached state of one suggestion run. Sessions are not
// shared between users.
type Session struct {
	interests Interests
	pre       *text.Preprocessor
	modeler   topic.Modeler
	searcher  Searcher
	log       zerolog.Logger

	mu          sync.Mutex
	state       State
	model       topic.Model
	suggestions []models.Repo
}

func NewSession(interests Interests, pre *text.Preprocessor, modeler topic.Modeler, searcher Searcher) *Session {
	return &Session{
		interests: interests,
		pre:       pre,
		modeler:   modeler,
		searcher:  searcher,
		log:       logging.With("suggest"),
	}
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TopTerms returns the top count terms of the user's interest topic,
// fitting the model if needed.
func (s *Session) TopTerms(ctx context.Context, count int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, err := s.topicModel(ctx)
	if err != nil {
		return nil, err
	}
	return model.TopTerms(count), nil
}

// topicModel must be called with mu held.
func (s *Session) topicModel(ctx context.Context) (topic.Model, error) {
	if s.model != nil {
		return s.model, nil
	}

	corpus := s.pre.ProcessStrings(s.interests.Descriptions())
	s.log.Debug().Int("documents", len(corpus)).Int("tokens", corpus.TokenCount()).Msg("fitting topic model")

	model, err := s.modeler.Fit(ctx, corpus)
	if err != nil {
		return nil, fmt.Errorf("building topic model: %w", err)
	}
	s.model = model
	return model, nil
}

// Suggestions returns the ranked suggestions, computing them on first use.
// The returned slice is a copy; callers may modify it.
func (s *Session) Suggestions(ctx context.Context) ([]models.Repo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready {
		s.state = Computing
		repos, err := s.compute(ctx)
		if err != nil {
			s.state = NotStarted
			return nil, err
		}
		s.suggestions = repos
		s.state = Ready
	}
	return slices.Clone(s.suggestions), nil
}

// All ranges over the suggestions from the start on every iteration. The
// first iteration triggers the computation; an error is yielded once.
func (s *Session) All(ctx context.Context) iter.Seq2[models.Repo, error] {
	return func(yield func(models.Repo, error) bool) {
		repos, err := s.Suggestions(ctx)
		if err != nil {
			yield(models.Repo{}, err)
			return
		}
		for _, r := range repos {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (s *Session) compute(ctx context.Context) ([]models.Repo, error) {
	model, err := s.topicModel(ctx)
	if err != nil {
		return nil, err
	}
	planner := query.NewPlanner(model)

	var found []models.Repo
	for _, n := range query.TermCounts {
		q := planner.Build(n)
		hits, err := s.searcher.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("searching for %q: %w", q, err)
		}
		s.log.Info().Str("query", q).Int("terms", n).Int("hits", len(hits)).Msg("searched")
		found = append(found, hits...)
	}

	candidates := Minus(found, s.interests.OwnStarred())
	candidates = FilterSpam(candidates)
	RankByStars(candidates)
	result := Unique(candidates)

	s.log.Info().Int("found", len(found)).Int("suggested", len(result)).Msg("suggestions ready")
	return result, nil
}

// Unique keeps the first repository for each full name, in order.
func Unique(repos []models.Repo) []models.Repo {
	seen := make(map[string]bool, len(repos))
	out := make([]models.Repo, 0, len(repos))
	for _, r := range repos {
		if seen[r.FullName] {
			continue
		}
		seen[r.FullName] = true
		out = append(out, r)
	}
	return out
}

// Minus returns the repositories of a whose full name is not in b, keeping
// a's order. No other field is compared.
func Minus(a, b []models.Repo) []models.Repo {
	exclude := make(map[string]bool, len(b))
	for _, r := range b {
		exclude[r.FullName] = true
	}
	out := make([]models.Repo, 0, len(a))
	for _, r := range a {
		if !exclude[r.FullName] {
			out = append(out, r)
		}
	}
	return out
}

// FilterSpam drops repositories without a description or with one longer
// than text.MaxDescriptionLen.
func FilterSpam(repos []models.Repo) []models.Repo {
	out := make([]models.Repo, 0, len(repos))
	for _, r := range repos {
		if !text.IsSpam(r.Description) {
			out = append(out, r)
		}
	}
	return out
}

// RankByStars sorts in place by stars, highest first. Ties keep their order.
func RankByStars(repos []models.Repo) {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Stars > repos[j].Stars
	})
}
