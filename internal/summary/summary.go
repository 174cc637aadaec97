// Package summary generates short Slack-ready summaries of release notes
// through pluggable LLM providers. Summaries are best-effort: a failure
// never aborts a notification run.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/release-notifier/internal/prompts"
	"github.com/jonathan/release-notifier/internal/types"
)

// MaxReleaseBodyChars caps how much of a release body is sent to a provider.
const MaxReleaseBodyChars = 6000

// Provider is an abstraction over LLM summarization backends.
type Provider interface {
	// Summarize produces a short Slack-ready summary of the release notes.
	Summarize(ctx context.Context, product string, rel types.Release) (string, error)
	// Name returns the provider identifier used in logs.
	Name() string
	// Close releases any resources held by the provider.
	Close() error
}

// Options selects and configures a summary provider.
type Options struct {
	// Provider is "gemini", "openai", or empty for auto-detection.
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
}

// NewProvider builds the configured provider. With an empty Provider it
// auto-detects from the available API keys, preferring Gemini. Returns
// (nil, nil) when nothing is configured: summaries are optional.
func NewProvider(ctx context.Context, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "gemini":
		return NewGeminiProvider(ctx, opts.GeminiAPIKey, opts.GeminiModel)
	case "openai":
		return NewOpenAIProvider(opts.OpenAIAPIKey, opts.OpenAIModel)
	case "", "auto":
		if opts.GeminiAPIKey != "" {
			return NewGeminiProvider(ctx, opts.GeminiAPIKey, opts.GeminiModel)
		}
		if opts.OpenAIAPIKey != "" {
			return NewOpenAIProvider(opts.OpenAIAPIKey, opts.OpenAIModel)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown summary provider: %s", opts.Provider)
	}
}

// Result is the outcome of a summary attempt. An empty Text means no
// summary is available; Reason says why.
type Result struct {
	Text   string
	Reason string
}

// Generator wraps a Provider with the policies shared by all backends:
// body truncation, empty-body short-circuit, and error degradation.
type Generator struct {
	provider Provider
}

// NewGenerator returns a Generator over the given provider. A nil
// provider is valid and yields "summarizer not configured" results.
func NewGenerator(p Provider) *Generator {
	return &Generator{provider: p}
}

// ProviderName returns the underlying provider identifier, or empty when
// no provider is configured.
func (g *Generator) ProviderName() string {
	if g == nil || g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

// Generate attempts a summary of the release. It never returns an error:
// failures are logged and reported through Result.Reason so the caller
// can deliver the notification without a summary.
func (g *Generator) Generate(ctx context.Context, product string, rel types.Release) Result {
	if g == nil || g.provider == nil {
		return Result{Reason: "summarizer not configured"}
	}

	body := strings.TrimSpace(rel.Body)
	if body == "" {
		return Result{Reason: "empty release body"}
	}
	if len(body) > MaxReleaseBodyChars {
		body = body[:MaxReleaseBodyChars]
	}
	rel.Body = body

	text, err := g.provider.Summarize(ctx, product, rel)
	if err != nil {
		slog.Warn("release summary failed",
			"provider", g.provider.Name(),
			"repo", rel.RepoIdentifier,
			"tag", rel.Tag,
			"err", err)
		return Result{Reason: fmt.Sprintf("%s summarizer failed", g.provider.Name())}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Reason: "provider returned empty summary"}
	}
	return Result{Text: text}
}

// Close releases the underlying provider, if any.
func (g *Generator) Close() error {
	if g == nil || g.provider == nil {
		return nil
	}
	return g.provider.Close()
}

// buildPrompt renders the system and user prompts for a release.
func buildPrompt(product string, rel types.Release) (system, user string) {
	system = prompts.MustGet("summarize.json", "release-summary-system")
	user = prompts.Format(prompts.MustGet("summarize.json", "release-summary-user"), map[string]string{
		"Product": product,
		"Tag":     rel.Tag,
		"Body":    rel.Body,
	})
	return system, user
}
