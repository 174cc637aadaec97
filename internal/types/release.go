// Package types provides type definitions for structured data used throughout the release-notifier system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Host identifies the source-control platform a repository lives on.
type Host string

// Supported source-control hosts.
const (
	HostGitHub Host = "github"
	HostGitLab Host = "gitlab"
)

// WatchedRepository is one repository the notifier polls for new releases.
// The list of watched repositories is static configuration, immutable at runtime.
type WatchedRepository struct {
	Identifier string `json:"identifier" validate:"required"`
	Name       string `json:"name,omitempty"`
	Host       Host   `json:"host,omitempty" validate:"omitempty,oneof=github gitlab"`
}

// DisplayName returns the configured display name, falling back to the identifier.
func (r WatchedRepository) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Identifier
}

// SourceHost returns the configured host, defaulting to GitHub.
func (r WatchedRepository) SourceHost() Host {
	if r.Host == "" {
		return HostGitHub
	}
	return r.Host
}

// Validate validates the WatchedRepository using the validator.
func (r *WatchedRepository) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Release is a published release fetched from a source-control host.
// Releases are read-only downstream of the fetcher.
type Release struct {
	RepoIdentifier string    `json:"repo_identifier"`
	Tag            string    `json:"tag"`
	Title          string    `json:"title,omitempty"`
	Body           string    `json:"body,omitempty"`
	URL            string    `json:"url,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	Prerelease     bool      `json:"prerelease"`
}
