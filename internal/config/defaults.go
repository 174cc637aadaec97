package config

import "github.com/jonathan/release-notifier/internal/types"

const (
	// DefaultFetchCount is how many releases are listed per repository.
	DefaultFetchCount = 5
	// MaxFetchCount bounds fetch_count; the hosts cap page sizes anyway.
	MaxFetchCount = 20
)

// DefaultSectionRules returns the built-in classification rules, used when
// the config file does not define its own. The list is in render order and
// also sets match precedence, so the breaking/deprecation patterns come
// before the feature catch-alls.
func DefaultSectionRules() []types.SectionRule {
	return []types.SectionRule{
		{
			Name: "Breaking",
			Patterns: []string{
				`^#+\s*Breaking\s+Changes\b`,
				`^#+\s*Breaking\b`,
				`^#+\s*Incompatible\s+Changes\b`,
				`^#+\s*Changes\s+in\s+Behavior\b`,
			},
		},
		{
			Name: "Deprecated",
			Patterns: []string{
				`^#+\s*Deprecations?\b`,
				`^#+\s*Deprecated\b`,
			},
		},
		{
			Name:  "Features",
			Label: "New Features",
			Patterns: []string{
				`^#+\s*:?\w*:\s*New\s+Features\b`,
				`^#+\s*Features\b`,
				`^#+\s*Enhancements?\b`,
				`^#+\s*What'?s\s+New\b`,
			},
		},
		{
			Name:  "BugFixes",
			Label: "Bug Fixes",
			Patterns: []string{
				`^#+\s*:?\w*:\s*Bug\s+Fixes\b`,
				`^#+\s*Fixes\b`,
				`^#+\s*Bugs\b`,
				`^#+\s*Bugfix(es)?\b`,
			},
		},
		{
			Name:  "Dependency",
			Label: "Dependency Upgrades",
			Patterns: []string{
				`^#+\s*:?\w*:\s*Dependency\s+Upgrades?\b`,
				`^#+\s*Dependencies\b`,
				`^#+\s*Upgrades?\b`,
				`^#+\s*BOM\s+Updates\b`,
			},
		},
		{
			Name:  "Docs",
			Label: "Documentation",
			Patterns: []string{
				`^#+\s*:?\w*:\s*Documentation\b`,
				`^#+\s*Docs\b`,
			},
		},
		{
			Name: "Contributors",
			Patterns: []string{
				`^#+\s*:?\w*:\s*Contributors\b`,
				`^#+\s*Thanks\b`,
			},
		},
	}
}
