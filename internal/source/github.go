package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/release-notifier/internal/types"
)

// DefaultGitHubBaseURL is the public GitHub REST API endpoint.
const DefaultGitHubBaseURL = "https://api.github.com"

// GitHubOptions configures the GitHub fetcher.
type GitHubOptions struct {
	BaseURL string        // API base, defaults to DefaultGitHubBaseURL
	Token   string        // optional bearer token for higher rate limits
	Timeout time.Duration // per-request timeout, defaults to DefaultTimeout
}

// GitHubFetcher lists releases through the GitHub REST API
// (GET /repos/{owner}/{repo}/releases).
type GitHubFetcher struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGitHubFetcher creates a GitHub release fetcher. A nil opts uses the
// public API anonymously.
func NewGitHubFetcher(opts *GitHubOptions) *GitHubFetcher {
	if opts == nil {
		opts = &GitHubOptions{}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultGitHubBaseURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &GitHubFetcher{
		baseURL: baseURL,
		token:   opts.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// githubRelease mirrors the fields of the GitHub release resource the
// notifier consumes.
type githubRelease struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// LatestReleases lists up to limit releases, newest first. Draft releases
// are always dropped; prereleases are dropped unless included. A 404 (or
// a release list that filters down to nothing) is reported as
// ErrNoReleases.
func (f *GitHubFetcher) LatestReleases(ctx context.Context, repo types.WatchedRepository, limit int, includePrereleases bool) ([]types.Release, error) {
	if limit <= 0 {
		limit = 1
	}

	url := fmt.Sprintf("%s/repos/%s/releases?per_page=%d", f.baseURL, repo.Identifier, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Repo: repo.Identifier, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Repo: repo.Identifier, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", repo.Identifier, ErrNoReleases)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Repo: repo.Identifier, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	var items []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &Error{Repo: repo.Identifier, Message: "failed to decode release list", Cause: err}
	}

	releases := make([]types.Release, 0, len(items))
	for _, item := range items {
		if item.Draft || item.TagName == "" {
			continue
		}
		if item.Prerelease && !includePrereleases {
			continue
		}
		title := item.Name
		if title == "" {
			title = item.TagName
		}
		releases = append(releases, types.Release{
			RepoIdentifier: repo.Identifier,
			Tag:            item.TagName,
			Title:          title,
			Body:           item.Body,
			URL:            item.HTMLURL,
			PublishedAt:    item.PublishedAt,
			Prerelease:     item.Prerelease,
		})
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("%s: %w", repo.Identifier, ErrNoReleases)
	}
	return releases, nil
}
