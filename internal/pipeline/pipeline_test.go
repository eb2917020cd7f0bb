package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kevinmichaelchen/star-suggest/internal/config"
	"github.com/kevinmichaelchen/star-suggest/internal/interest"
	"github.com/kevinmichaelchen/star-suggest/internal/llm"
	"github.com/kevinmichaelchen/star-suggest/internal/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModeler(t *testing.T) {
	m, err := NewModeler(&config.Config{TopicModeler: "lda"})
	require.NoError(t, err)
	assert.IsType(t, topic.LDA{}, m)

	m, err = NewModeler(&config.Config{TopicModeler: "llm", LLMAPIKey: "k", LLMModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &llm.Modeler{}, m)

	_, err = NewModeler(&config.Config{TopicModeler: "llm"})
	assert.Error(t, err)

	_, err = NewModeler(&config.Config{TopicModeler: "nmf"})
	assert.Error(t, err)
}

func TestNewPreprocessorFallsBackWithoutDictionary(t *testing.T) {
	pre, err := NewPreprocessor(&config.Config{DictionaryPath: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)

	corpus := pre.ProcessStrings([]string{"The zorblax graph for Python"})
	assert.Equal(t, []string{"zorblax", "graph"}, corpus[0])
}

func TestNewPreprocessorRequiresConfiguredDictionary(t *testing.T) {
	_, err := NewPreprocessor(&config.Config{
		DictionaryPath:     filepath.Join(t.TempDir(), "missing"),
		DictionaryRequired: true,
	})
	assert.ErrorContains(t, err, "DICTIONARY_PATH")
}

func TestNewPreprocessorUsesDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte("graph\nthe\n"), 0o644))

	pre, err := NewPreprocessor(&config.Config{DictionaryPath: path})
	require.NoError(t, err)

	corpus := pre.ProcessStrings([]string{"The zorblax graph"})
	assert.Equal(t, []string{"graph"}, corpus[0])
}

// fakeGitHub serves the GraphQL operations the pipeline issues.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	repo := func(owner, name, desc string, stars int) map[string]any {
		return map[string]any{
			"owner": map[string]any{"login": owner}, "name": name, "description": desc,
			"url": "https://github.com/" + owner + "/" + name, "stargazerCount": stars,
		}
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var data any
		switch {
		case strings.Contains(req.Query, "starredRepositories"):
			data = map[string]any{"user": map[string]any{"starredRepositories": map[string]any{
				"totalCount": 3,
				"pageInfo":   map[string]any{"hasNextPage": false},
				"nodes": []any{
					repo("me", "graphdb", "graph database engine", 10),
					repo("me", "graphq", "graph query engine", 20),
					repo("me", "store", "graph storage engine", 30),
				},
			}}}
		case strings.Contains(req.Query, "search("):
			data = map[string]any{"search": map[string]any{"repositoryCount": 3, "nodes": []any{
				repo("me", "graphdb", "graph database engine", 10),
				repo("neo", "graph", "native graph database", 9000),
				repo("dgraph", "dgraph", "distributed graph database", 20000),
			}}}
		case strings.Contains(req.Query, "user(login"):
			data = map[string]any{"user": map[string]any{"login": "me"}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestRunEndToEnd(t *testing.T) {
	srv := fakeGitHub(t)
	defer srv.Close()

	cfg := &config.Config{
		GitHubToken:    "secret",
		GitHubURL:      srv.URL,
		SearchPageSize: 30,
		GitHubRPS:      1000,
		DictionaryPath: filepath.Join(t.TempDir(), "missing"),
		TopicModeler:   "lda",
	}
	out := filepath.Join(t.TempDir(), "out.html")

	res, err := Run(context.Background(), cfg, "me", Options{Out: out})
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, "dgraph/dgraph", res.Suggestions[0].FullName)
	assert.Equal(t, "neo/graph", res.Suggestions[1].FullName)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "dgraph/dgraph")
	assert.NotContains(t, string(page), "me/graphdb")
}

func TestRunOpensPage(t *testing.T) {
	srv := fakeGitHub(t)
	defer srv.Close()

	var opened []string
	orig := openPage
	openPage = func(path string) error {
		opened = append(opened, path)
		return errors.New("no browser")
	}
	t.Cleanup(func() { openPage = orig })

	cfg := &config.Config{
		GitHubToken:    "secret",
		GitHubURL:      srv.URL,
		GitHubRPS:      1000,
		DictionaryPath: filepath.Join(t.TempDir(), "missing"),
	}
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := Run(context.Background(), cfg, "me", Options{Out: out})
	require.NoError(t, err)
	assert.Empty(t, opened)

	// A browser failure does not fail the run.
	res, err := Run(context.Background(), cfg, "me", Options{Out: out, Open: true})
	require.NoError(t, err)
	assert.Equal(t, []string{out}, opened)
	assert.Len(t, res.Suggestions, 2)
}

func TestRunUnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve"}]}`))
	}))
	defer srv.Close()

	cfg := &config.Config{GitHubToken: "secret", GitHubURL: srv.URL, GitHubRPS: 1000}

	_, err := Run(context.Background(), cfg, "ghost", Options{})
	assert.ErrorIs(t, err, interest.ErrUnresolvableUser)
}

func TestRunStoreNeedsSurreal(t *testing.T) {
	srv := fakeGitHub(t)
	defer srv.Close()

	cfg := &config.Config{
		GitHubToken:    "secret",
		GitHubURL:      srv.URL,
		GitHubRPS:      1000,
		DictionaryPath: filepath.Join(t.TempDir(), "missing"),
	}

	_, err := Run(context.Background(), cfg, "me", Options{Out: filepath.Join(t.TempDir(), "o.html"), Store: true})
	assert.ErrorContains(t, err, "SURREAL_URL")
}
