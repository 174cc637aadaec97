package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_VerboseEnablesDebug(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	Setup(true, "")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	Setup(false, "")
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
}

func TestSetup_FormatSelection(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	Setup(false, "JSON")
	_, isJSON := slog.Default().Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	Setup(false, "text")
	_, isText := slog.Default().Handler().(*slog.TextHandler)
	assert.True(t, isText)
}
