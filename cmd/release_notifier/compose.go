package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/release-notifier/internal/classify"
	"github.com/jonathan/release-notifier/internal/compose"
	"github.com/jonathan/release-notifier/internal/source"
	"github.com/jonathan/release-notifier/internal/summary"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Preview the webhook message for the latest releases",
	Long: `Fetches the latest release of every watched repository, classifies the
notes and prints the composed webhook payload as JSON without delivering
anything or touching the cursor. The preview ignores the last-seen state,
so it always renders the most recent release.`,
	RunE: runComposePreview,
}

var (
	composeConfigPath  string
	composeRepo        string
	composeWithSummary bool
)

func init() {
	composeCmd.Flags().StringVar(&composeConfigPath, "config", "config.json", "Path to config.json")
	composeCmd.Flags().StringVar(&composeRepo, "repo", "", "Preview a single watched repository identifier instead of all of them")
	composeCmd.Flags().BoolVar(&composeWithSummary, "with-summary", false, "Also request the AI summary (uses API quota)")

	rootCmd.AddCommand(composeCmd)
}

func runComposePreview(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(composeConfigPath)
	if err != nil {
		return err
	}

	repos, err := selectRepos(cfg.Repos, composeRepo)
	if err != nil {
		return err
	}

	fetchers, err := buildFetchers(cfg)
	if err != nil {
		return err
	}

	classifier, err := classify.New(cfg.Sections, cfg.MaxBullets)
	if err != nil {
		return fmt.Errorf("failed to compile section rules: %w", err)
	}

	generator := summary.NewGenerator(nil)
	if composeWithSummary {
		provider, err := summary.NewProvider(ctx, summaryOptions(cfg))
		if err != nil {
			return fmt.Errorf("failed to configure summarizer: %w", err)
		}
		generator = summary.NewGenerator(provider)
	}
	defer func() { _ = generator.Close() }()

	var entries []compose.Entry
	for _, repo := range repos {
		releases, err := fetchers.LatestReleases(ctx, repo, 1, cfg.IncludePrereleases)
		if errors.Is(err, source.ErrNoReleases) {
			continue
		}
		if err != nil {
			return err
		}
		rel := releases[0]
		entries = append(entries, compose.Entry{
			Repo:    repo,
			Release: rel,
			Note:    classifier.Classify(rel.Body),
			Summary: generator.Generate(ctx, repo.DisplayName(), rel),
		})
	}

	messages := compose.New(cfg.Sections, cfg.MaxBullets).Compose(entries, cfg.Mode())
	if len(messages) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No releases to compose.")
		return nil
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	return nil
}
