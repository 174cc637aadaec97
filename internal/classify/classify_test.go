package classify

import (
	"strings"
	"testing"

	"github.com/jonathan/release-notifier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() []types.SectionRule {
	return []types.SectionRule{
		{Name: "Breaking", Patterns: []string{`^#+\s*Breaking\s+Changes\b`, `^#+\s*Breaking\b`}},
		{Name: "Features", Patterns: []string{`^#+\s*New\s+Features\b`, `^#+\s*Features\b`}},
		{Name: "BugFixes", Patterns: []string{`^#+\s*Bug\s+Fixes\b`, `^#+\s*Fixes\b`}},
	}
}

func mustClassifier(t *testing.T, rules []types.SectionRule, maxBullets int) *Classifier {
	t.Helper()
	c, err := New(rules, maxBullets)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]types.SectionRule{
		{Name: "Broken", Patterns: []string{`^#+\s*(unclosed`}},
	}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}

func TestClassify_EmptyBody(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	note := c.Classify("")
	assert.True(t, note.Empty())
	assert.Empty(t, note.Sections)
}

func TestClassify_NoHeadings_OnlyOtherBucket(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := "- first change\n- second change\nSee the docs: https://example.com\n"
	note := c.Classify(body)

	require.Len(t, note.Sections, 1)
	assert.Equal(t, types.OtherSection, note.Sections[0].Name)
	assert.Equal(t, []string{
		"• first change",
		"• second change",
		"• See the docs: https://example.com",
	}, note.Sections[0].Bullets)
	assert.False(t, note.HasNamed())
}

func TestClassify_HeadingMatchingIsCaseInsensitive(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	note := c.Classify("## BREAKING CHANGES\n- dropped legacy flag\n")
	assert.Equal(t, []string{"• dropped legacy flag"}, note.Section("Breaking"))
}

func TestClassify_FirstMatchingRuleWins(t *testing.T) {
	// Both rules match "## Fixes"; the earlier rule must claim it.
	rules := []types.SectionRule{
		{Name: "First", Patterns: []string{`^#+\s*Fixes\b`}},
		{Name: "Second", Patterns: []string{`^#+\s*Fixes\b`}},
	}
	c := mustClassifier(t, rules, 0)

	note := c.Classify("## Fixes\n- fixed a panic\n")
	assert.True(t, note.Has("First"))
	assert.False(t, note.Has("Second"))
}

func TestClassify_BulletMarkerNormalization(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := strings.Join([]string{
		"## Features",
		"- dash bullet",
		"* star bullet",
		"+ plus bullet",
		"1. numbered bullet",
		"12. double digit bullet",
	}, "\n")

	note := c.Classify(body)
	assert.Equal(t, []string{
		"• dash bullet",
		"• star bullet",
		"• plus bullet",
		"• numbered bullet",
		"• double digit bullet",
	}, note.Section("Features"))
}

func TestClassify_LooseLinePromotion(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := strings.Join([]string{
		"## Breaking Changes",
		"The legacy indexer was removed",
		"spring.config.import: now resolves relative paths",
		"Plain prose without markers that should be ignored",
		"This extremely long line contains a colon : but runs on far past the limit " + strings.Repeat("x", 120),
	}, "\n")

	note := c.Classify(body)
	assert.Equal(t, []string{
		"• The legacy indexer was removed",
		"• spring.config.import: now resolves relative paths",
	}, note.Section("Breaking"))
}

func TestClassify_SectionCapNeverExceeded(t *testing.T) {
	c := mustClassifier(t, testRules(), 3)

	var sb strings.Builder
	sb.WriteString("## Features\n")
	for i := 0; i < 20; i++ {
		sb.WriteString("- feature\n")
	}

	note := c.Classify(sb.String())
	assert.Len(t, note.Section("Features"), 3)
}

func TestClassify_PerRuleCapOverridesDefault(t *testing.T) {
	rules := []types.SectionRule{
		{Name: "Breaking", Patterns: []string{`^#+\s*Breaking\b`}, MaxBullets: 2},
		{Name: "Features", Patterns: []string{`^#+\s*Features\b`}},
	}
	c := mustClassifier(t, rules, 4)

	body := "## Breaking\n- a\n- b\n- c\n## Features\n- a\n- b\n- c\n- d\n- e\n"
	note := c.Classify(body)
	assert.Len(t, note.Section("Breaking"), 2)
	assert.Len(t, note.Section("Features"), 4)
}

func TestClassify_NestedSubHeadingsStayInSection(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := strings.Join([]string{
		"## Features",
		"- top level feature",
		"### Web",
		"- web feature",
		"## Bug Fixes",
		"- a fix",
	}, "\n")

	note := c.Classify(body)
	assert.Equal(t, []string{"• top level feature", "• web feature"}, note.Section("Features"))
	assert.Equal(t, []string{"• a fix"}, note.Section("BugFixes"))
}

func TestClassify_UnmatchedHeadingEndsSection(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := strings.Join([]string{
		"## Breaking Changes",
		"- real breaking change",
		"## Community Shoutouts",
		"- not a breaking change",
	}, "\n")

	note := c.Classify(body)
	assert.Equal(t, []string{"• real breaking change"}, note.Section("Breaking"))
	assert.Equal(t, []string{"• not a breaking change"}, note.Section(types.OtherSection))
}

func TestClassify_ContentBeforeFirstHeadingGoesToOther(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := "- stray intro bullet\n## Features\n- real feature\n"
	note := c.Classify(body)
	assert.Equal(t, []string{"• stray intro bullet"}, note.Section(types.OtherSection))
	assert.Equal(t, []string{"• real feature"}, note.Section("Features"))
}

func TestClassify_RepeatedHeadingsAppendInOrder(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	body := strings.Join([]string{
		"## Features",
		"- first batch",
		"## Bug Fixes",
		"- a fix",
		"## Features",
		"- second batch",
	}, "\n")

	note := c.Classify(body)
	assert.Equal(t, []string{"• first batch", "• second batch"}, note.Section("Features"))
}

func TestClassify_SectionOrderFollowsRuleOrder(t *testing.T) {
	c := mustClassifier(t, testRules(), 0)

	// Source order is Fixes before Breaking; output must follow rule order.
	body := "## Fixes\n- a fix\n## Breaking Changes\n- a break\n"
	note := c.Classify(body)

	require.Len(t, note.Sections, 2)
	assert.Equal(t, "Breaking", note.Sections[0].Name)
	assert.Equal(t, "BugFixes", note.Sections[1].Name)
}

func TestClassify_SevenBreakingTwoFixesWithCapFive(t *testing.T) {
	c := mustClassifier(t, testRules(), 5)

	body := strings.Join([]string{
		"### Breaking Changes",
		"- break one",
		"- break two",
		"- break three",
		"- break four",
		"- break five",
		"- break six",
		"- break seven",
		"### Bug Fixes",
		"- fix one",
		"- fix two",
	}, "\n")

	note := c.Classify(body)
	assert.Len(t, note.Section("Breaking"), 5)
	assert.Len(t, note.Section("BugFixes"), 2)
}
