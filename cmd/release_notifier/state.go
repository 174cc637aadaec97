package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/release-notifier/internal/state"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or edit the last-seen release cursor",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored last-seen tag per repository",
	RunE:  runStateShow,
}

var stateSetCmd = &cobra.Command{
	Use:   "set <repository> <tag>",
	Short: "Record a last-seen tag without notifying",
	Long:  "Overwrites the stored cursor for one repository, e.g. to skip a release or to backfill state before the first scheduled run.",
	Args:  cobra.ExactArgs(2),
	RunE:  runStateSet,
}

var stateConfigPath string

func init() {
	stateCmd.PersistentFlags().StringVar(&stateConfigPath, "config", "config.json", "Path to config.json")
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateSetCmd)

	rootCmd.AddCommand(stateCmd)
}

func runStateShow(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(stateConfigPath)
	if err != nil {
		return err
	}

	store, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if len(rec) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No state recorded yet.")
		return nil
	}

	jsonBytes, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	return nil
}

func runStateSet(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(stateConfigPath)
	if err != nil {
		return err
	}

	store, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if rec == nil {
		rec = state.Record{}
	}

	rec.Set(args[0], args[1])
	if err := store.Persist(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Recorded %s at %s\n", args[0], args[1])
	return nil
}
