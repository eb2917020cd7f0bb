package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kevinmichaelchen/star-suggest/internal/logging"
	"github.com/kevinmichaelchen/star-suggest/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultEndpoint = "https://api.github.com/graphql"

var (
	// ErrUnauthorized means the token is missing or was rejected.
	ErrUnauthorized = errors.New("github: authentication failed")
	// ErrNotFound means the requested user does not exist.
	ErrNotFound = errors.New("github: not found")
	// ErrRateLimited means GitHub refused the request for quota reasons.
	ErrRateLimited = errors.New("github: rate limited")
)

// Client is a thin wrapper around the GitHub GraphQL API.
type Client struct {
	token          string
	endpoint       string
	httpClient     *http.Client
	limiter        *rate.Limiter
	searchPageSize int
	log            zerolog.Logger
}

type Option func(*Client)

func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit paces requests to at most rps per second. Zero or less
// disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSearchPageSize sets how many hits a search returns (max 100).
func WithSearchPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= 100 {
			c.searchPageSize = n
		}
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:          token,
		endpoint:       DefaultEndpoint,
		httpClient:     http.DefaultClient,
		limiter:        rate.NewLimiter(rate.Inf, 1),
		searchPageSize: 30,
		log:            logging.With("github"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const repoFields = `
  owner { login }
  name
  description
  url
  stargazerCount
  primaryLanguage { name }
`

const userQuery = `
query($login: String!) {
  user(login: $login) { login name }
}
`

const starredQuery = `
query($login: String!, $first: Int!, $after: String) {
  user(login: $login) {
    starredRepositories(first: $first, after: $after) {
      totalCount
      pageInfo { hasNextPage endCursor }
      nodes {` + repoFields + `}
    }
  }
}
`

const followingQuery = `
query($login: String!, $first: Int!, $after: String) {
  user(login: $login) {
    following(first: $first, after: $after) {
      totalCount
      pageInfo { hasNextPage endCursor }
      nodes { login name }
    }
  }
}
`

const searchQuery = `
query($q: String!, $first: Int!) {
  search(query: $q, type: REPOSITORY, first: $first) {
    repositoryCount
    nodes {
      ... on Repository {` + repoFields + `}
    }
  }
}
`

// ResolveUser looks up an account by login.
func (c *Client) ResolveUser(ctx context.Context, login string) (*models.User, error) {
	body, err := c.doGraphQL(ctx, userQuery, map[string]any{"login": login})
	if err != nil {
		return nil, err
	}

	var data struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if data.User == nil {
		return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
	}
	return data.User, nil
}

// StarredBy returns every repository starred by login.
func (c *Client) StarredBy(ctx context.Context, login string) ([]models.Repo, error) {
	nodes, err := collectForward(ctx, 0, func(ctx context.Context, after *string) (*Page[repoNode], error) {
		var data struct {
			User *struct {
				StarredRepositories Page[repoNode] `json:"starredRepositories"`
			} `json:"user"`
		}
		if err := c.fetchPage(ctx, starredQuery, login, after, &data); err != nil {
			return nil, err
		}
		if data.User == nil {
			return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return &data.User.StarredRepositories, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching stars of %s: %w", login, err)
	}

	repos := make([]models.Repo, 0, len(nodes))
	for _, n := range nodes {
		repos = append(repos, nodeToRepo(n))
	}
	c.log.Debug().Str("user", login).Int("stars", len(repos)).Msg("fetched starred repositories")
	return repos, nil
}

// Following returns up to limit accounts followed by login. A limit of 0
// means no limit.
func (c *Client) Following(ctx context.Context, login string, limit int) ([]models.User, error) {
	users, err := collectForward(ctx, limit, func(ctx context.Context, after *string) (*Page[models.User], error) {
		var data struct {
			User *struct {
				Following Page[models.User] `json:"following"`
			} `json:"user"`
		}
		if err := c.fetchPage(ctx, followingQuery, login, after, &data); err != nil {
			return nil, err
		}
		if data.User == nil {
			return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return &data.User.Following, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching accounts followed by %s: %w", login, err)
	}
	return users, nil
}

// Search returns the first page of repositories matching q, most starred first.
func (c *Client) Search(ctx context.Context, q string) ([]models.Repo, error) {
	body, err := c.doGraphQL(ctx, searchQuery, map[string]any{
		"q":     q + " sort:stars-desc",
		"first": c.searchPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", q, err)
	}

	var data struct {
		Search struct {
			RepositoryCount int        `json:"repositoryCount"`
			Nodes           []repoNode `json:"nodes"`
		} `json:"search"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	repos := make([]models.Repo, 0, len(data.Search.Nodes))
	for _, n := range data.Search.Nodes {
		// Non-repository nodes decode as empty objects.
		if n.Name == "" {
			continue
		}
		repos = append(repos, nodeToRepo(n))
	}
	c.log.Debug().Str("query", q).Int("total", data.Search.RepositoryCount).Int("returned", len(repos)).Msg("search complete")
	return repos, nil
}

// --- internal ---

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

type repoNode struct {
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	URL             string  `json:"url"`
	StargazerCount  int     `json:"stargazerCount"`
	PrimaryLanguage *struct {
		Name string `json:"name"`
	} `json:"primaryLanguage"`
}

func (c *Client) fetchPage(ctx context.Context, query, login string, after *string, out any) error {
	vars := map[string]any{
		"login": login,
		"first": pageSize,
	}
	if after != nil {
		vars["after"] = *after
	}
	body, err := c.doGraphQL(ctx, query, vars)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *Client) doGraphQL(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%w: no token configured", ErrUnauthorized)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	reqBody, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, string(respBody))
	default:
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("parsing GraphQL response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		e := gqlResp.Errors[0]
		switch e.Type {
		case "NOT_FOUND":
			return nil, fmt.Errorf("%w: %s", ErrNotFound, e.Message)
		case "RATE_LIMITED":
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, e.Message)
		}
		return nil, fmt.Errorf("GraphQL error: %s", e.Message)
	}

	return gqlResp.Data, nil
}

func nodeToRepo(n repoNode) models.Repo {
	r := models.Repo{
		Owner:       n.Owner.Login,
		Name:        n.Name,
		FullName:    n.Owner.Login + "/" + n.Name,
		Description: n.Description,
		URL:         n.URL,
		Stars:       n.StargazerCount,
	}
	if n.PrimaryLanguage != nil {
		r.Language = &n.PrimaryLanguage.Name
	}
	return r
}
