package pipeline

import (
	"context"
	"fmt"

	"github.com/kevinmichaelchen/star-suggest/internal/config"
	"github.com/kevinmichaelchen/star-suggest/internal/github"
	"github.com/kevinmichaelchen/star-suggest/internal/interest"
	"github.com/kevinmichaelchen/star-suggest/internal/lexicon"
	"github.com/kevinmichaelchen/star-suggest/internal/llm"
	"github.com/kevinmichaelchen/star-suggest/internal/logging"
	"github.com/kevinmichaelchen/star-suggest/internal/models"
	"github.com/kevinmichaelchen/star-suggest/internal/render"
	"github.com/kevinmichaelchen/star-suggest/internal/suggest"
	"github.com/kevinmichaelchen/star-suggest/internal/surrealdb"
	"github.com/kevinmichaelchen/star-suggest/internal/text"
	"github.com/kevinmichaelchen/star-suggest/internal/topic"
	"github.com/pkg/browser"
)

const DefaultOutput = "/tmp/gitresults.html"

type Options struct {
	Deep  bool
	Out   string
	Store bool
	// Open shows the written page in the default browser.
	Open bool
}

var openPage = browser.OpenFile

// Result is what a run produced.
type Result struct {
	User        models.User
	Suggestions []models.Repo
	Output      string
	RunID       string
}

// Run builds suggestions for username, writes them as HTML and optionally
// records them in SurrealDB.
func Run(ctx context.Context, cfg *config.Config, username string, opts Options) (*Result, error) {
	log := logging.With("pipeline")

	sess, profile, err := NewSession(ctx, cfg, username, opts.Deep)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user", profile.User().Login).Msg("generating suggestions")
	repos, err := sess.Suggestions(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{User: profile.User(), Suggestions: repos, Output: opts.Out}
	if res.Output == "" {
		res.Output = DefaultOutput
	}
	if err := render.WriteFile(res.Output, res.User.Login, repos); err != nil {
		return nil, err
	}
	log.Info().Str("path", res.Output).Int("suggestions", len(repos)).Msg("wrote results page")

	if opts.Open {
		if err := openPage(res.Output); err != nil {
			log.Warn().Err(err).Str("path", res.Output).Msg("could not open results page")
		}
	}

	if !opts.Store {
		return res, nil
	}
	if !cfg.StoreEnabled() {
		return nil, fmt.Errorf("--store needs SURREAL_URL")
	}

	db, err := surrealdb.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close(ctx) }()

	if err := db.InitSchema(ctx); err != nil {
		return nil, err
	}
	res.RunID, err = db.SaveSuggestions(ctx, res.User.Login, repos)
	if err != nil {
		return nil, err
	}
	log.Info().Str("run_id", res.RunID).Msg("stored suggestions")
	return res, nil
}

// NewSession wires a suggestion session for username from configuration.
func NewSession(ctx context.Context, cfg *config.Config, username string, deep bool) (*suggest.Session, *interest.Profile, error) {
	gh := github.NewClient(cfg.GitHubToken,
		github.WithEndpoint(cfg.GitHubURL),
		github.WithRateLimit(cfg.GitHubRPS),
		github.WithSearchPageSize(cfg.SearchPageSize),
	)

	profile, err := interest.New(ctx, gh, username, interest.Options{
		Deep:         deep,
		MaxFollowing: cfg.MaxFollowing,
		Concurrency:  cfg.DeepConcurrency,
	})
	if err != nil {
		return nil, nil, err
	}

	pre, err := NewPreprocessor(cfg)
	if err != nil {
		return nil, nil, err
	}

	modeler, err := NewModeler(cfg)
	if err != nil {
		return nil, nil, err
	}

	return suggest.NewSession(profile, pre, modeler, gh), profile, nil
}

// NewPreprocessor loads the dictionary and noise lists. An explicitly
// configured dictionary must load; without the default word list every token
// counts as a word.
func NewPreprocessor(cfg *config.Config) (*text.Preprocessor, error) {
	noise, err := lexicon.DefaultNoise()
	if err != nil {
		return nil, err
	}

	var dict lexicon.Dictionary
	words, err := lexicon.LoadWordList(cfg.DictionaryPath)
	switch {
	case err != nil && cfg.DictionaryRequired:
		return nil, fmt.Errorf("loading DICTIONARY_PATH: %w", err)
	case err != nil:
		log := logging.With("pipeline")
		log.Warn().Err(err).Msg("no dictionary available, accepting all words")
		dict = lexicon.AcceptAll{}
	default:
		dict = words
	}

	return text.NewPreprocessor(dict, noise), nil
}

// NewModeler picks the topic modeler named by TOPIC_MODELER.
func NewModeler(cfg *config.Config) (topic.Modeler, error) {
	switch cfg.TopicModeler {
	case "", "lda":
		return topic.LDA{}, nil
	case "llm":
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("TOPIC_MODELER=llm needs LLM_API_KEY")
		}
		return llm.NewModeler(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unknown TOPIC_MODELER %q (want lda or llm)", cfg.TopicModeler)
	}
}
