package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/release-notifier/internal/types"
)

func TestClassifyCommand_MissingInputFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	configPath := writeTestConfig(t, t.TempDir())

	cmd := exec.Command(binaryPath, "classify", "--config", configPath)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}

func TestClassifyCommand_WritesSectionsJSON(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tmpDir := t.TempDir()
	configPath := writeTestConfig(t, tmpDir)

	notes := `## Breaking Changes
- removed the legacy widget API

## Fixes
- fixed a crash on empty input
- fixed a memory leak

Some closing remarks.
`
	notesPath := filepath.Join(tmpDir, "notes.md")
	require.NoError(t, os.WriteFile(notesPath, []byte(notes), 0644))

	outPath := filepath.Join(tmpDir, "sections.json")
	cmd := exec.Command(binaryPath, "classify", "--config", configPath, "--in", notesPath, "--out", outPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "classify failed: %s", string(output))
	assert.Contains(t, string(output), "Classified")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var note types.ClassifiedNote
	require.NoError(t, json.Unmarshal(raw, &note))

	assert.Equal(t, []string{"• removed the legacy widget API"}, note.Section("Breaking"))
	assert.Len(t, note.Section("BugFixes"), 2)
}

func TestClassifyCommand_MissingInputFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	configPath := writeTestConfig(t, t.TempDir())

	cmd := exec.Command(binaryPath, "classify", "--config", configPath, "--in", "no-such-notes.md")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read input file")
}
