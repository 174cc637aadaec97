// Package compose assembles classified release notes into Slack Block Kit
// messages, one per repository or one combined message per run.
package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/release-notifier/internal/summary"
	"github.com/jonathan/release-notifier/internal/types"
)

const (
	// maxSummaryChars caps the AI summary section.
	maxSummaryChars = 2700
	// maxExcerptLines and maxExcerptChars cap the raw-body fallback shown
	// when no classification rule matched.
	maxExcerptLines = 8
	maxExcerptChars = 1200
)

// Entry is one new release ready for composition.
type Entry struct {
	Repo    types.WatchedRepository
	Release types.Release
	Note    types.ClassifiedNote
	Summary summary.Result
}

// RepoTag identifies the release a message covers, for state advancement
// after delivery.
type RepoTag struct {
	Repo string
	Tag  string
}

// Message is a webhook-ready payload. Repos carries the releases covered
// by the message and is not part of the wire format.
type Message struct {
	Text   string    `json:"text"`
	Blocks []Block   `json:"blocks"`
	Repos  []RepoTag `json:"-"`
}

// Composer renders classified notes using a fixed, configuration-driven
// section order.
type Composer struct {
	rules      []types.SectionRule
	defaultMax int
}

// New returns a Composer over the given section rules. Sections render in
// rule order regardless of where they appeared in the source text.
func New(rules []types.SectionRule, defaultMaxBullets int) *Composer {
	if defaultMaxBullets <= 0 {
		defaultMaxBullets = types.DefaultMaxBullets
	}
	return &Composer{rules: rules, defaultMax: defaultMaxBullets}
}

// Compose assembles the final messages for a run. Combined mode produces a
// single message covering every entry; per-repo mode produces one message
// per entry. No entries yields no messages.
func (c *Composer) Compose(entries []Entry, mode types.SendMode) []Message {
	if len(entries) == 0 {
		return nil
	}

	if mode == types.SendPerRepo {
		messages := make([]Message, 0, len(entries))
		for _, entry := range entries {
			messages = append(messages, Message{
				Text:   fmt.Sprintf("%s %s released", entry.Repo.DisplayName(), entry.Release.Tag),
				Blocks: c.BuildReleaseBlocks(entry),
				Repos:  []RepoTag{{Repo: entry.Repo.Identifier, Tag: entry.Release.Tag}},
			})
		}
		return messages
	}

	var blocks []Block
	repos := make([]RepoTag, 0, len(entries))
	for _, entry := range entries {
		blocks = append(blocks, c.BuildReleaseBlocks(entry)...)
		repos = append(repos, RepoTag{Repo: entry.Repo.Identifier, Tag: entry.Release.Tag})
	}
	return []Message{{Text: "Release updates", Blocks: blocks, Repos: repos}}
}

// BuildReleaseBlocks renders one release as a block sequence: header, link,
// publication context, optional AI summary, classified sections in rule
// order, and a raw-body excerpt when nothing matched.
func (c *Composer) BuildReleaseBlocks(entry Entry) []Block {
	rel := entry.Release

	title := fmt.Sprintf("%s update: %s", entry.Repo.DisplayName(), rel.Tag)
	blocks := []Block{HeaderBlock(title)}

	if rel.URL != "" {
		blocks = append(blocks, SectionBlock(fmt.Sprintf("<%s|Release notes>", rel.URL)))
	}
	if subtitle := releaseSubtitle(rel); subtitle != "" {
		blocks = append(blocks, ContextBlock(subtitle))
	}
	if text := strings.TrimSpace(entry.Summary.Text); text != "" {
		blocks = append(blocks, SectionBlock("*AI Summary*\n"+truncate(text, maxSummaryChars)))
	}

	for _, rule := range c.rules {
		bullets := entry.Note.Section(rule.Name)
		if len(bullets) == 0 {
			continue
		}
		if max := c.maxFor(rule); len(bullets) > max {
			bullets = bullets[:max]
		}
		blocks = append(blocks, SectionBlock(fmt.Sprintf("*%s*\n%s", rule.DisplayLabel(), strings.Join(bullets, "\n"))))
	}

	if !entry.Note.HasNamed() {
		if excerpt := bodyExcerpt(rel.Body); excerpt != "" {
			blocks = append(blocks, SectionBlock("*Excerpt*\n```"+excerpt+"```"))
		}
	}

	blocks = append(blocks, DividerBlock())
	return blocks
}

func (c *Composer) maxFor(rule types.SectionRule) int {
	if rule.MaxBullets > 0 {
		return rule.MaxBullets
	}
	return c.defaultMax
}

func releaseSubtitle(rel types.Release) string {
	var bits []string
	if !rel.PublishedAt.IsZero() {
		bits = append(bits, "Published: "+rel.PublishedAt.Format(time.RFC3339))
	}
	if rel.Prerelease {
		bits = append(bits, "Prerelease")
	}
	return strings.Join(bits, " · ")
}

// bodyExcerpt keeps the first non-blank lines of the raw body as a preview.
func bodyExcerpt(body string) string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxExcerptLines {
			break
		}
	}
	return truncate(strings.TrimSpace(strings.Join(lines, "\n")), maxExcerptChars)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
