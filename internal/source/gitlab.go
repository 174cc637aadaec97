package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/release-notifier/internal/types"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabOptions configures the GitLab fetcher.
type GitLabOptions struct {
	BaseURL string // self-hosted instance root, e.g. https://gitlab.example.com
	Token   string // optional personal access token
}

// GitLabFetcher lists releases through the official GitLab API client.
type GitLabFetcher struct {
	client *gitlab.Client
}

// NewGitLabFetcher creates a GitLab release fetcher. A nil opts targets
// gitlab.com anonymously.
func NewGitLabFetcher(opts *GitLabOptions) (*GitLabFetcher, error) {
	if opts == nil {
		opts = &GitLabOptions{}
	}

	var (
		client *gitlab.Client
		err    error
	)
	if opts.BaseURL == "" {
		client, err = gitlab.NewClient(opts.Token)
	} else {
		apiURL := strings.TrimSuffix(opts.BaseURL, "/") + "/api/v4"
		client, err = gitlab.NewClient(opts.Token, gitlab.WithBaseURL(apiURL))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return &GitLabFetcher{client: client}, nil
}

// LatestReleases lists up to limit releases, newest first. GitLab's
// upcoming_release flag maps to the prerelease flag; upcoming releases
// are dropped unless prereleases are included.
func (f *GitLabFetcher) LatestReleases(ctx context.Context, repo types.WatchedRepository, limit int, includePrereleases bool) ([]types.Release, error) {
	if limit <= 0 {
		limit = 1
	}

	opts := &gitlab.ListReleasesOptions{
		ListOptions: gitlab.ListOptions{PerPage: limit},
	}
	items, resp, err := f.client.Releases.ListReleases(repo.Identifier, opts, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", repo.Identifier, ErrNoReleases)
		}
		return nil, &Error{Repo: repo.Identifier, Message: "failed to list releases", Cause: err}
	}

	releases := make([]types.Release, 0, len(items))
	for _, item := range items {
		if item == nil || item.TagName == "" {
			continue
		}
		if item.UpcomingRelease && !includePrereleases {
			continue
		}
		rel := types.Release{
			RepoIdentifier: repo.Identifier,
			Tag:            item.TagName,
			Title:          item.Name,
			Body:           item.Description,
			URL:            item.Links.Self,
			Prerelease:     item.UpcomingRelease,
		}
		if rel.Title == "" {
			rel.Title = item.TagName
		}
		if item.ReleasedAt != nil {
			rel.PublishedAt = *item.ReleasedAt
		}
		releases = append(releases, rel)
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("%s: %w", repo.Identifier, ErrNoReleases)
	}
	return releases, nil
}
