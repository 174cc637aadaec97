package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/release-notifier/internal/config"
	"github.com/jonathan/release-notifier/internal/types"
)

func getBinaryPath(t *testing.T) string {
	binaryName := "release_notifier"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/release_notifier ./cmd/release_notifier'", binaryPath)
	}

	return binaryPath
}

// writeTestConfig writes a minimal valid config into dir, pointing the
// cursor file into the same temp dir, and returns the config path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	statePath := filepath.Join(dir, "state.json")
	content := fmt.Sprintf(`{
  "repos": [{"identifier": "acme/widget", "name": "Widget"}],
  "state": {"backend": "file", "path": %q}
}`, statePath)

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSelectRepos_All(t *testing.T) {
	watched := []types.WatchedRepository{
		{Identifier: "acme/widget"},
		{Identifier: "acme/gadget"},
	}

	repos, err := selectRepos(watched, "")
	require.NoError(t, err)
	assert.Equal(t, watched, repos)
}

func TestSelectRepos_Single(t *testing.T) {
	watched := []types.WatchedRepository{
		{Identifier: "acme/widget"},
		{Identifier: "acme/gadget", Name: "Gadget"},
	}

	repos, err := selectRepos(watched, "acme/gadget")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "Gadget", repos[0].Name)
}

func TestSelectRepos_Unknown(t *testing.T) {
	watched := []types.WatchedRepository{{Identifier: "acme/widget"}}

	_, err := selectRepos(watched, "acme/unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the watched list")
}

func TestSummaryOptions_ConfigModelWins(t *testing.T) {
	cfg := &config.Config{
		GeminiAPIKey: "gm_key",
		GeminiModel:  "gemini-from-env",
		OpenAIModel:  "openai-from-env",
	}
	cfg.Summary.Provider = "gemini"
	cfg.Summary.Model = "gemini-2.0-pro"

	opts := summaryOptions(cfg)
	assert.Equal(t, "gemini", opts.Provider)
	assert.Equal(t, "gemini-2.0-pro", opts.GeminiModel)
	assert.Equal(t, "gemini-2.0-pro", opts.OpenAIModel)
}

func TestSummaryOptions_EnvModelFallback(t *testing.T) {
	cfg := &config.Config{
		GeminiModel: "gemini-from-env",
		OpenAIModel: "openai-from-env",
	}

	opts := summaryOptions(cfg)
	assert.Equal(t, "gemini-from-env", opts.GeminiModel)
	assert.Equal(t, "openai-from-env", opts.OpenAIModel)
}
