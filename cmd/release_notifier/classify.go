package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/release-notifier/internal/classify"
	"github.com/jonathan/release-notifier/internal/observability"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify release-note text into sections",
	Long:  "Reads release-note markdown from a file (or stdin with -) and prints the classified sections as JSON, using the section rules from the config file.",
	RunE:  runClassify,
}

var (
	classifyConfigPath string
	classifyInputFile  string
	classifyOutputFile string
)

func init() {
	classifyCmd.Flags().StringVar(&classifyConfigPath, "config", "config.json", "Path to config.json")
	classifyCmd.Flags().StringVarP(&classifyInputFile, "in", "i", "", "Path to a release notes file, or - for stdin")
	classifyCmd.Flags().StringVarP(&classifyOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	_ = classifyCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(classifyConfigPath)
	if err != nil {
		return err
	}

	var body []byte
	if classifyInputFile == "-" {
		body, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		body, err = os.ReadFile(classifyInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	}

	classifier, err := classify.New(cfg.Sections, cfg.MaxBullets)
	if err != nil {
		return fmt.Errorf("failed to compile section rules: %w", err)
	}
	note := classifier.Classify(string(body))

	if rootVerbose {
		observability.NewPrinter(os.Stdout).PrintClassifiedNote(note)
	}

	jsonBytes, err := json.MarshalIndent(note, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if classifyOutputFile != "" {
		if err := os.WriteFile(classifyOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Classified %d sections\n", len(note.Sections))
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", classifyOutputFile)
		return nil
	}

	_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	return nil
}
