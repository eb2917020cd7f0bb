package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	GitHubToken    string
	GitHubURL      string
	SearchPageSize int
	GitHubRPS      float64

	MaxFollowing    int
	DeepConcurrency int

	DictionaryPath string
	// DictionaryRequired is set when DICTIONARY_PATH was given explicitly.
	DictionaryRequired bool
	TopicModeler       string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	SurrealURL  string
	SurrealNS   string
	SurrealDB   string
	SurrealUser string
	SurrealPass string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubURL:      os.Getenv("GITHUB_GRAPHQL_URL"),
		SearchPageSize: envInt("SEARCH_PAGE_SIZE", 30),
		GitHubRPS:      envFloat("GITHUB_RPS", 5),

		MaxFollowing:    envInt("MAX_FOLLOWING", 50),
		DeepConcurrency: envInt("DEEP_CONCURRENCY", 4),

		DictionaryPath: os.Getenv("DICTIONARY_PATH"),
		TopicModeler:   strings.ToLower(os.Getenv("TOPIC_MODELER")),

		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   os.Getenv("LLM_MODEL"),

		SurrealURL:  os.Getenv("SURREAL_URL"),
		SurrealNS:   os.Getenv("SURREAL_NS"),
		SurrealDB:   os.Getenv("SURREAL_DB"),
		SurrealUser: os.Getenv("SURREAL_USER"),
		SurrealPass: os.Getenv("SURREAL_PASS"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: os.Getenv("LOG_FORMAT"),
	}

	// The SDK appends /rpc automatically
	cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/rpc")
	cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/")

	if cfg.GitHubURL == "" {
		cfg.GitHubURL = "https://api.github.com/graphql"
	}
	if cfg.DictionaryPath == "" {
		cfg.DictionaryPath = "/usr/share/dict/words"
	} else {
		cfg.DictionaryRequired = true
	}
	if cfg.TopicModeler == "" {
		cfg.TopicModeler = "lda"
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	return cfg
}

// StoreEnabled reports whether a SurrealDB endpoint is configured.
func (c *Config) StoreEnabled() bool {
	return c.SurrealURL != ""
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
