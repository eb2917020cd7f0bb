package surrealdb

import (
	"testing"
	"time"

	"github.com/kevinmichaelchen/star-suggest/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	id := recordID("octocat", "20261015T120000.000000000", "owner/repo")

	assert.Equal(t, "octocat__20261015T120000.000000000__owner__repo", id)
	assert.NotContains(t, id, "/")
}

func TestSuggestionRows(t *testing.T) {
	desc := "graph database"
	lang := "Go"
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	repos := []models.Repo{
		{FullName: "dgraph/dgraph", URL: "https://github.com/dgraph/dgraph", Stars: 20000, Description: &desc, Language: &lang},
		{FullName: "neo/graph", URL: "https://github.com/neo/graph", Stars: 9000},
	}

	rows := suggestionRows("octocat", "run1", now, repos)

	require.Len(t, rows, 2)
	assert.Equal(t, "octocat__run1__dgraph__dgraph", rows[0]["id"])
	assert.Equal(t, 1, rows[0]["rank"])
	assert.Equal(t, "graph database", rows[0]["description"])
	assert.Equal(t, "Go", rows[0]["language"])
	assert.Equal(t, now, rows[0]["suggested_at"])

	assert.Equal(t, 2, rows[1]["rank"])
	assert.Equal(t, "run1", rows[1]["run_id"])
	assert.NotContains(t, rows[1], "description")
	assert.NotContains(t, rows[1], "language")
}

func TestSuggestionRowsEmpty(t *testing.T) {
	assert.Empty(t, suggestionRows("octocat", "run1", time.Now(), nil))
}
