package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/release-notifier/internal/classify"
	"github.com/jonathan/release-notifier/internal/compose"
	"github.com/jonathan/release-notifier/internal/config"
	"github.com/jonathan/release-notifier/internal/history"
	"github.com/jonathan/release-notifier/internal/notifier"
	"github.com/jonathan/release-notifier/internal/notify"
	"github.com/jonathan/release-notifier/internal/observability"
	"github.com/jonathan/release-notifier/internal/summary"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one notification pass over the watched repositories",
	Long: `Fetches the most recent releases for every watched repository, filters out
the ones already notified, classifies the release notes into sections,
optionally asks a generative model for a short summary, posts the result to
the Slack webhook, and persists the advanced cursor.

Configuration is loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runNotifier,
}

var (
	runConfigPath   string
	runWebhookURL   string
	runSendMode     string
	runPrereleases  bool
	runFetchCount   int
	runStateBackend string
	runStatePath    string
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "config.json", "Path to config.json (values can be overridden by other flags)")
	runCommand.Flags().StringVar(&runWebhookURL, "webhook-url", "", "Slack incoming webhook URL (overrides config and SLACK_WEBHOOK_URL)")
	runCommand.Flags().StringVar(&runSendMode, "send-mode", "", "Message layout: combined or per_repo")
	runCommand.Flags().BoolVar(&runPrereleases, "include-prereleases", false, "Include prereleases and release candidates")
	runCommand.Flags().IntVar(&runFetchCount, "fetch-count", 0, "How many recent releases to list per repository")
	runCommand.Flags().StringVar(&runStateBackend, "state-backend", "", "Cursor store backend: file, postgres or redis")
	runCommand.Flags().StringVar(&runStatePath, "state-path", "", "Cursor file path (file backend only)")

	rootCmd.AddCommand(runCommand)
}

func runNotifier(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireWebhook(); err != nil {
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

	store, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := summary.NewProvider(ctx, summaryOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to configure summarizer: %w", err)
	}
	generator := summary.NewGenerator(provider)
	defer func() { _ = generator.Close() }()
	if name := generator.ProviderName(); name != "" {
		slog.Info("AI summaries enabled", "provider", name)
	}

	opts := notifier.Options{
		Repos:              cfg.Repos,
		Fetchers:           fetchers,
		Classifier:         classifier,
		Summarizer:         generator,
		Composer:           compose.New(cfg.Sections, cfg.MaxBullets),
		Sender:             notify.NewClient(cfg.WebhookURL, 0),
		Store:              store,
		Mode:               cfg.Mode(),
		FetchCount:         cfg.FetchCount,
		IncludePrereleases: cfg.IncludePrereleases,
	}

	// The delivery history is supplemental: a missing or unreachable
	// database never blocks notifications.
	if cfg.DatabaseURL != "" {
		deliveryLog, err := history.NewLog(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Warn("delivery history disabled", "error", err)
		} else {
			defer deliveryLog.Close()
			opts.History = deliveryLog
		}
	}

	report, runErr := notifier.Run(ctx, opts)

	if rootVerbose {
		observability.NewPrinter(os.Stdout).PrintRunReport(report)
	}
	if runErr != nil {
		return runErr
	}

	_, _ = fmt.Fprintf(os.Stdout, "Run %s: %d repos checked, %d new releases, %d messages delivered\n",
		report.RunID, report.ReposChecked, report.NewReleases, report.MessagesDelivered)

	return nil
}

// loadRunConfig loads the config file, applies the environment fallback
// and then the run command's flag overrides, so an explicitly set flag
// always wins. Only flags that were explicitly set override config values.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if cmd.Flags().Changed("webhook-url") {
		cfg.WebhookURL = runWebhookURL
	}
	if cmd.Flags().Changed("send-mode") {
		cfg.SendMode = runSendMode
	}
	if cmd.Flags().Changed("include-prereleases") {
		cfg.IncludePrereleases = runPrereleases
	}
	if cmd.Flags().Changed("fetch-count") {
		cfg.FetchCount = runFetchCount
	}
	if cmd.Flags().Changed("state-backend") {
		cfg.State.Backend = runStateBackend
	}
	if cmd.Flags().Changed("state-path") {
		cfg.State.Path = runStatePath
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
