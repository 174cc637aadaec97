package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/release-notifier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	text     string
	err      error
	calls    int
	lastBody string
}

func (f *fakeProvider) Summarize(_ context.Context, _ string, rel types.Release) (string, error) {
	f.calls++
	f.lastBody = rel.Body
	return f.text, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Close() error { return nil }

func TestGenerate_NoProvider(t *testing.T) {
	gen := NewGenerator(nil)

	res := gen.Generate(context.Background(), "Widget", types.Release{Body: "## Fixes\n- things"})
	assert.Empty(t, res.Text)
	assert.Equal(t, "summarizer not configured", res.Reason)
}

func TestGenerate_EmptyBodySkipsProvider(t *testing.T) {
	provider := &fakeProvider{text: "• something"}
	gen := NewGenerator(provider)

	res := gen.Generate(context.Background(), "Widget", types.Release{Body: "   \n  "})
	assert.Empty(t, res.Text)
	assert.Equal(t, "empty release body", res.Reason)
	assert.Zero(t, provider.calls)
}

func TestGenerate_ProviderErrorDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	gen := NewGenerator(provider)

	res := gen.Generate(context.Background(), "Widget", types.Release{Body: "## Fixes\n- leak"})
	assert.Empty(t, res.Text)
	assert.Contains(t, res.Reason, "failed")
	assert.Equal(t, 1, provider.calls)
}

func TestGenerate_TrimsProviderText(t *testing.T) {
	provider := &fakeProvider{text: "\n• fixed a leak\n\n"}
	gen := NewGenerator(provider)

	res := gen.Generate(context.Background(), "Widget", types.Release{Body: "## Fixes\n- leak"})
	assert.Equal(t, "• fixed a leak", res.Text)
	assert.Empty(t, res.Reason)
}

func TestGenerate_EmptyProviderTextIsUnavailable(t *testing.T) {
	provider := &fakeProvider{text: "  \n "}
	gen := NewGenerator(provider)

	res := gen.Generate(context.Background(), "Widget", types.Release{Body: "## Fixes\n- leak"})
	assert.Empty(t, res.Text)
	assert.Equal(t, "provider returned empty summary", res.Reason)
}

func TestGenerate_TruncatesLongBody(t *testing.T) {
	provider := &fakeProvider{text: "• summary"}
	gen := NewGenerator(provider)

	rel := types.Release{Body: strings.Repeat("a", MaxReleaseBodyChars+1000)}
	res := gen.Generate(context.Background(), "Widget", rel)
	require.Empty(t, res.Reason)
	assert.Len(t, provider.lastBody, MaxReleaseBodyChars)
}

func TestProviderName(t *testing.T) {
	assert.Empty(t, NewGenerator(nil).ProviderName())
	assert.Equal(t, "fake", NewGenerator(&fakeProvider{}).ProviderName())
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Options{Provider: "bard"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown summary provider")
}

func TestNewProvider_NothingConfigured(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{})
	require.NoError(t, err)
	assert.Nil(t, provider)
}

func TestNewProvider_ExplicitProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Options{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), Options{Provider: "gemini"})
	assert.Error(t, err)
}

func TestNewProvider_AutoPrefersGemini(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{
		GeminiAPIKey: "test-gemini-key",
		OpenAIAPIKey: "test-openai-key",
	})
	require.NoError(t, err)
	require.NotNil(t, provider)
	defer func() { _ = provider.Close() }()

	assert.Equal(t, "gemini", provider.Name())
}

func TestNewProvider_AutoFallsBackToOpenAI(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{
		OpenAIAPIKey: "test-openai-key",
	})
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.Equal(t, "openai", provider.Name())
}
