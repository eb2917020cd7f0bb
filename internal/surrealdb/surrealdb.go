package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kevinmichaelchen/star-suggest/internal/config"
	"github.com/kevinmichaelchen/star-suggest/internal/models"
	sdk "github.com/surrealdb/surrealdb.go"
)

// Client records suggestion runs so earlier results can be listed later.
type Client struct {
	db *sdk.DB
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := sdk.FromEndpointURLString(ctx, cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, sdk.Auth{
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		Username:  cfg.SurrealUser,
		Password:  cfg.SurrealPass,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if err := db.Use(ctx, cfg.SurrealNS, cfg.SurrealDB); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

func (c *Client) InitSchema(ctx context.Context) error {
	schema := `
DEFINE TABLE IF NOT EXISTS suggestion SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS user         ON TABLE suggestion TYPE string;
DEFINE FIELD IF NOT EXISTS run_id       ON TABLE suggestion TYPE string;
DEFINE FIELD IF NOT EXISTS rank         ON TABLE suggestion TYPE int;
DEFINE FIELD IF NOT EXISTS full_name    ON TABLE suggestion TYPE string;
DEFINE FIELD IF NOT EXISTS description  ON TABLE suggestion TYPE option<string>;
DEFINE FIELD IF NOT EXISTS url          ON TABLE suggestion TYPE string;
DEFINE FIELD IF NOT EXISTS stars        ON TABLE suggestion TYPE int;
DEFINE FIELD IF NOT EXISTS language     ON TABLE suggestion TYPE option<string>;
DEFINE FIELD IF NOT EXISTS suggested_at ON TABLE suggestion TYPE datetime;

DEFINE INDEX IF NOT EXISTS idx_user_run ON TABLE suggestion FIELDS user, run_id;
`
	_, err := sdk.Query[any](ctx, c.db, schema, nil)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Stored is one suggestion as recorded in a run.
type Stored struct {
	RunID       string    `json:"run_id"`
	Rank        int       `json:"rank"`
	FullName    string    `json:"full_name"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	Stars       int       `json:"stars"`
	SuggestedAt time.Time `json:"suggested_at"`
}

// SaveSuggestions records repos, in order, as a new run for user and returns
// the run ID. The run is written by a single statement, so it is stored whole
// or not at all.
func (c *Client) SaveSuggestions(ctx context.Context, user string, repos []models.Repo) (string, error) {
	now := time.Now().UTC()
	runID := now.Format("20060102T150405.000000000")

	rows := suggestionRows(user, runID, now, repos)
	if len(rows) == 0 {
		return runID, nil
	}

	_, err := sdk.Query[any](ctx, c.db, `INSERT INTO suggestion $rows`, map[string]any{"rows": rows})
	if err != nil {
		return "", fmt.Errorf("storing run %s: %w", runID, err)
	}
	return runID, nil
}

func suggestionRows(user, runID string, now time.Time, repos []models.Repo) []map[string]any {
	rows := make([]map[string]any, 0, len(repos))
	for i, r := range repos {
		// Only non-nil optional fields are sent to avoid CBOR NULL vs
		// SurrealDB NONE mismatch.
		row := map[string]any{
			"id":           recordID(user, runID, r.FullName),
			"user":         user,
			"run_id":       runID,
			"rank":         i + 1,
			"full_name":    r.FullName,
			"url":          r.URL,
			"stars":        r.Stars,
			"suggested_at": now,
		}
		if r.Description != nil {
			row["description"] = *r.Description
		}
		if r.Language != nil {
			row["language"] = *r.Language
		}
		rows = append(rows, row)
	}
	return rows
}

// LatestSuggestions returns the most recent run for user, best ranked first.
func (c *Client) LatestSuggestions(ctx context.Context, user string) ([]Stored, error) {
	results, err := sdk.Query[[]Stored](ctx, c.db,
		`LET $latest = (SELECT VALUE run_id FROM suggestion WHERE user = $user ORDER BY run_id DESC LIMIT 1)[0];
		SELECT run_id, rank, full_name, description, url, stars, suggested_at
		FROM suggestion WHERE user = $user AND run_id = $latest ORDER BY rank ASC`,
		map[string]any{"user": user})
	if err != nil {
		return nil, fmt.Errorf("querying suggestions for %s: %w", user, err)
	}
	// The LET statement yields its own (empty) result first.
	if len(*results) < 2 {
		return nil, nil
	}
	return (*results)[len(*results)-1].Result, nil
}

func recordID(user, runID, fullName string) string {
	return user + "__" + runID + "__" + strings.ReplaceAll(fullName, "/", "__")
}
