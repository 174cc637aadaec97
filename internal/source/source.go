// Package source fetches published releases from source-control hosts.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/release-notifier/internal/types"
)

// DefaultTimeout is the HTTP request timeout for release listing calls.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent identifies the notifier to the APIs it polls.
const DefaultUserAgent = "release-notifier/1.0"

// ErrNoReleases signals that a repository has no published releases (or
// does not exist), as distinct from a transport failure. Callers skip the
// repository instead of treating the run as degraded.
var ErrNoReleases = errors.New("no releases found")

// Fetcher yields the most recent releases of one repository, newest
// first. Draft releases are never returned; prereleases only when
// includePrereleases is set.
type Fetcher interface {
	LatestReleases(ctx context.Context, repo types.WatchedRepository, limit int, includePrereleases bool) ([]types.Release, error)
}

// Fetchers routes each repository to the fetcher registered for its host.
type Fetchers map[types.Host]Fetcher

// LatestReleases dispatches to the fetcher for the repository's host.
func (f Fetchers) LatestReleases(ctx context.Context, repo types.WatchedRepository, limit int, includePrereleases bool) ([]types.Release, error) {
	fetcher, ok := f[repo.SourceHost()]
	if !ok {
		return nil, &Error{Repo: repo.Identifier, Message: fmt.Sprintf("no fetcher registered for host %s", repo.SourceHost())}
	}
	return fetcher.LatestReleases(ctx, repo, limit, includePrereleases)
}

// Error describes a failure talking to a source-control host.
type Error struct {
	Repo    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("release fetch error for %s: %s: %v", e.Repo, e.Message, e.Cause)
	}
	return fmt.Sprintf("release fetch error for %s: %s", e.Repo, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
