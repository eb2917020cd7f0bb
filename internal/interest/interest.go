// Package interest collects the repositories that describe what a user cares
// about: their own stars and, in deep mode, the stars of accounts they follow.
package interest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kevinmichaelchen/star-suggest/internal/github"
	"github.com/kevinmichaelchen/star-suggest/internal/logging"
	"github.com/kevinmichaelchen/star-suggest/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrUnresolvableUser means the username does not name a GitHub account.
var ErrUnresolvableUser = errors.New("user cannot be resolved")

// Source is the part of the GitHub client this package needs.
type Source interface {
	ResolveUser(ctx context.Context, login string) (*models.User, error)
	StarredBy(ctx context.Context, login string) ([]models.Repo, error)
	Following(ctx context.Context, login string, limit int) ([]models.User, error)
}

type Options struct {
	// Deep also gathers stars of the accounts the user follows.
	Deep bool
	// MaxFollowing caps how many followed accounts are visited. Default 50.
	MaxFollowing int
	// Concurrency bounds parallel star listings in deep mode. Default 4.
	Concurrency int
}

// Profile is a user's interest signal. It is immutable once built.
type Profile struct {
	user       models.User
	ownStarred []models.Repo
	followed   []models.Repo

	once         sync.Once
	descriptions []string
}

// New resolves username and fetches the repositories of interest. Failures
// are returned here rather than deferred to first use.
func New(ctx context.Context, src Source, username string, opts Options) (*Profile, error) {
	if opts.MaxFollowing <= 0 {
		opts.MaxFollowing = 50
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	log := logging.With("interest")

	user, err := src.ResolveUser(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvableUser, username)
		}
		return nil, fmt.Errorf("resolving %s: %w", username, err)
	}

	own, err := src.StarredBy(ctx, user.Login)
	if err != nil {
		return nil, err
	}
	p := &Profile{user: *user, ownStarred: own}
	log.Info().Str("user", user.Login).Int("starred", len(own)).Msg("loaded own stars")

	if !opts.Deep {
		return p, nil
	}

	following, err := src.Following(ctx, user.Login, opts.MaxFollowing)
	if err != nil {
		return nil, err
	}

	// Each followed account writes to its own slot so the merged result keeps
	// following-list order regardless of completion order.
	perUser := make([][]models.Repo, len(following))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, f := range following {
		g.Go(func() error {
			repos, err := src.StarredBy(gCtx, f.Login)
			if err != nil {
				return err
			}
			perUser[i] = repos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, repos := range perUser {
		p.followed = append(p.followed, repos...)
	}
	log.Info().Str("user", user.Login).Int("following", len(following)).Int("starred", len(p.followed)).Msg("loaded stars of followed accounts")
	return p, nil
}

// User is the resolved account.
func (p *Profile) User() models.User { return p.user }

// OwnStarred returns the user's own starred repositories, the set suggestions
// must exclude.
func (p *Profile) OwnStarred() []models.Repo { return p.ownStarred }

// Repositories returns every repository of interest, own stars first.
func (p *Profile) Repositories() []models.Repo {
	all := make([]models.Repo, 0, len(p.ownStarred)+len(p.followed))
	all = append(all, p.ownStarred...)
	return append(all, p.followed...)
}

// Descriptions returns the distinct, present descriptions of all repositories
// of interest in first-seen order. Computed on first call and cached.
func (p *Profile) Descriptions() []string {
	p.once.Do(func() {
		seen := make(map[string]bool)
		descs := []string{}
		for _, r := range p.Repositories() {
			if r.Description == nil || seen[*r.Description] {
				continue
			}
			seen[*r.Description] = true
			descs = append(descs, *r.Description)
		}
		p.descriptions = descs
	})
	return p.descriptions
}
