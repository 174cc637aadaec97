package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/release-notifier/internal/observability"
	"github.com/jonathan/release-notifier/internal/source"
	"github.com/jonathan/release-notifier/internal/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List the most recent releases of the watched repositories",
	Long:  "Fetches the most recent releases for every watched repository without classifying, posting or touching the cursor. Useful for verifying tokens and repository identifiers.",
	RunE:  runFetch,
}

var (
	fetchConfigPath string
	fetchRepo       string
	fetchJSON       bool
)

func init() {
	fetchCmd.Flags().StringVar(&fetchConfigPath, "config", "config.json", "Path to config.json")
	fetchCmd.Flags().StringVar(&fetchRepo, "repo", "", "Fetch a single watched repository identifier instead of all of them")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print raw JSON instead of formatted boxes")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(fetchConfigPath)
	if err != nil {
		return err
	}

	repos, err := selectRepos(cfg.Repos, fetchRepo)
	if err != nil {
		return err
	}

	fetchers, err := buildFetchers(cfg)
	if err != nil {
		return err
	}

	// Listings are independent reads, so unlike the notification pass
	// they can run concurrently.
	results := make([][]types.Release, len(repos))
	g, gCtx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		i, repo := i, repo // per-iteration copies; go directive is below 1.22
		g.Go(func() error {
			releases, err := fetchers.LatestReleases(gCtx, repo, cfg.FetchCount, cfg.IncludePrereleases)
			if err != nil && !errors.Is(err, source.ErrNoReleases) {
				return err
			}
			results[i] = releases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if fetchJSON {
		payload := make(map[string][]types.Release, len(repos))
		for i, repo := range repos {
			payload[repo.Identifier] = results[i]
		}
		jsonBytes, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	for i, repo := range repos {
		printer.PrintReleases(repo.DisplayName(), results[i])
	}
	return nil
}

// selectRepos narrows the watched list to a single identifier when one was
// requested.
func selectRepos(watched []types.WatchedRepository, identifier string) ([]types.WatchedRepository, error) {
	if identifier == "" {
		return watched, nil
	}
	for _, repo := range watched {
		if repo.Identifier == identifier {
			return []types.WatchedRepository{repo}, nil
		}
	}
	return nil, fmt.Errorf("repository %q is not in the watched list", identifier)
}
