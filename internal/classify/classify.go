// Package classify partitions raw release-note text into named sections
// using configurable heading rules.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/release-notifier/internal/types"
)

// looseLineMaxLen is the longest non-bullet line the loose-line heuristic
// will still promote to a bullet.
const looseLineMaxLen = 120

var (
	headingRe = regexp.MustCompile(`^#+\s`)
	bulletRe  = regexp.MustCompile(`^([-*+]\s+|\d+\.\s+)`)
)

// compiledRule is a SectionRule with its patterns compiled for matching.
type compiledRule struct {
	name       string
	maxBullets int
	patterns   []*regexp.Regexp
}

// Classifier assigns release-note content to the configured sections.
// Rule order is match precedence: the first rule with a matching pattern
// claims a heading, so specific patterns must be listed before general
// fallbacks. That ordering is part of the configuration contract.
type Classifier struct {
	rules      []compiledRule
	defaultMax int
}

// New compiles the rule set. Patterns are matched case-insensitively
// against trimmed heading lines. Returns an error if any pattern does not
// compile.
func New(rules []types.SectionRule, defaultMaxBullets int) (*Classifier, error) {
	if defaultMaxBullets <= 0 {
		defaultMaxBullets = types.DefaultMaxBullets
	}

	c := &Classifier{defaultMax: defaultMaxBullets}
	for _, rule := range rules {
		cr := compiledRule{name: rule.Name, maxBullets: rule.MaxBullets}
		if cr.maxBullets <= 0 {
			cr.maxBullets = defaultMaxBullets
		}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for section %s: %w", pattern, rule.Name, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// Classify splits a release body into classified sections.
//
// The body is scanned line by line. A heading that matches a rule opens
// that rule's section; the section extends until the next heading at the
// same or a shallower markdown level, so nested sub-headings and their
// bullets stay inside the open section. Headings that match no rule (and
// any content before the first heading) divert collection to the implicit
// Other section.
//
// Empty or unparseable input yields an empty note; Classify never fails.
func (c *Classifier) Classify(body string) types.ClassifiedNote {
	collected := make(map[string][]string)

	current := types.OtherSection
	currentLevel := 0

	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}

		if rule := c.match(t); rule != nil {
			current = rule.name
			currentLevel = headingLevel(t)
			continue
		}

		if headingRe.MatchString(t) {
			// An unmatched heading ends the open section unless it is
			// nested below the section's own level.
			if current == types.OtherSection || headingLevel(t) <= currentLevel {
				current = types.OtherSection
				currentLevel = 0
			}
			continue
		}

		bullet, ok := normalizeBullet(t)
		if !ok {
			continue
		}
		if len(collected[current]) >= c.maxFor(current) {
			// Over the cap: dropped silently as noise reduction.
			continue
		}
		collected[current] = append(collected[current], bullet)
	}

	return c.assemble(collected)
}

// match returns the first rule with a pattern matching the line, or nil.
func (c *Classifier) match(line string) *compiledRule {
	for i := range c.rules {
		for _, re := range c.rules[i].patterns {
			if re.MatchString(line) {
				return &c.rules[i]
			}
		}
	}
	return nil
}

// maxFor returns the bullet cap for a section name. The Other section
// always uses the default cap.
func (c *Classifier) maxFor(name string) int {
	for i := range c.rules {
		if c.rules[i].name == name {
			return c.rules[i].maxBullets
		}
	}
	return c.defaultMax
}

// assemble orders the collected sections by rule order, with the Other
// section last. Sections with no bullets are omitted.
func (c *Classifier) assemble(collected map[string][]string) types.ClassifiedNote {
	var note types.ClassifiedNote
	seen := make(map[string]bool, len(c.rules))
	for _, rule := range c.rules {
		if seen[rule.name] {
			continue
		}
		seen[rule.name] = true
		if bullets := collected[rule.name]; len(bullets) > 0 {
			note.Sections = append(note.Sections, types.Section{Name: rule.name, Bullets: bullets})
		}
	}
	if bullets := collected[types.OtherSection]; len(bullets) > 0 {
		note.Sections = append(note.Sections, types.Section{Name: types.OtherSection, Bullets: bullets})
	}
	return note
}

// normalizeBullet converts markdown bullet markers (-, *, +, "1.") to a
// uniform "• " prefix. Short non-bullet lines that look like change notes
// (contain ":" or mention removals/deprecations) are promoted to bullets;
// everything else is dropped.
func normalizeBullet(t string) (string, bool) {
	if bulletRe.MatchString(t) {
		return bulletRe.ReplaceAllString(t, "• "), true
	}
	if len(t) <= looseLineMaxLen {
		lower := strings.ToLower(t)
		if strings.Contains(t, ":") || strings.Contains(lower, "removed") || strings.Contains(lower, "deprecated") {
			return "• " + t, true
		}
	}
	return "", false
}

// headingLevel counts the leading '#' characters of a trimmed line.
func headingLevel(t string) int {
	n := 0
	for n < len(t) && t[n] == '#' {
		n++
	}
	return n
}
