// Package main provides the entry point for the release notifier CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/release-notifier/internal/config"
	"github.com/jonathan/release-notifier/internal/logging"
	"github.com/jonathan/release-notifier/internal/source"
	"github.com/jonathan/release-notifier/internal/state"
	"github.com/jonathan/release-notifier/internal/summary"
	"github.com/jonathan/release-notifier/internal/types"
)

var rootCmd = &cobra.Command{
	Use:   "release_notifier",
	Short: "Watch repositories for new releases and post the notes to Slack",
	Long:  "release_notifier polls a configured set of GitHub and GitLab repositories for newly published releases, classifies the release notes into sections, optionally adds a short AI summary, and posts the result to a Slack incoming webhook.",
}

var rootVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	cobra.OnInitialize(func() {
		logging.Setup(rootVerbose, os.Getenv("LOG_FORMAT"))
	})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads a config file and prepares it the way every command
// expects: environment fallback applied, defaults filled, validated.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildFetchers wires one release fetcher per supported host. Both are
// always built; an empty token just means anonymous access.
func buildFetchers(cfg *config.Config) (source.Fetchers, error) {
	gitlabFetcher, err := source.NewGitLabFetcher(&source.GitLabOptions{
		BaseURL: cfg.GitLabBaseURL,
		Token:   cfg.GitLabToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return source.Fetchers{
		types.HostGitHub: source.NewGitHubFetcher(&source.GitHubOptions{Token: cfg.GitHubToken}),
		types.HostGitLab: gitlabFetcher,
	}, nil
}

// openStateStore opens the cursor store selected by the config.
func openStateStore(ctx context.Context, cfg *config.Config) (state.Store, error) {
	store, err := state.Open(ctx, state.Config{
		Backend:     cfg.State.Backend,
		Path:        cfg.State.Path,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

// summaryOptions maps the config to summarizer options. The config file's
// model name wins over the per-provider environment variables.
func summaryOptions(cfg *config.Config) summary.Options {
	geminiModel := cfg.Summary.Model
	if geminiModel == "" {
		geminiModel = cfg.GeminiModel
	}
	openaiModel := cfg.Summary.Model
	if openaiModel == "" {
		openaiModel = cfg.OpenAIModel
	}
	return summary.Options{
		Provider:     cfg.Summary.Provider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  geminiModel,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  openaiModel,
	}
}
