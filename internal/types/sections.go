package types

// OtherSection is the implicit bucket for release-note content that
// matches no configured section rule.
const OtherSection = "Other"

// DefaultMaxBullets caps a section's bullet list when neither the rule
// nor the configuration sets its own limit.
const DefaultMaxBullets = 8

// SectionRule maps release-note heading patterns to a named section.
// Rules form an ordered list; the first rule whose pattern matches a
// heading wins, so more specific patterns must precede general ones.
type SectionRule struct {
	Name       string   `json:"name" validate:"required"`
	Label      string   `json:"label,omitempty"`
	Patterns   []string `json:"patterns" validate:"required,min=1"`
	MaxBullets int      `json:"max_bullets,omitempty" validate:"omitempty,min=1"`
}

// DisplayLabel returns the label rendered in messages, falling back to the rule name.
func (r SectionRule) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Name
}

// Section is one named bucket of classified bullets. Bullet order is
// appearance order in the source text, capped at the rule's maximum.
type Section struct {
	Name    string   `json:"name"`
	Bullets []string `json:"bullets"`
}

// ClassifiedNote is the result of classifying one release body.
// Sections is ordered (a JSON object would lose ordering), keyed lookups
// go through Section/Has.
type ClassifiedNote struct {
	Sections []Section `json:"sections"`
}

// Section returns the bullets collected for a section name, or nil.
func (n ClassifiedNote) Section(name string) []string {
	for _, s := range n.Sections {
		if s.Name == name {
			return s.Bullets
		}
	}
	return nil
}

// Has reports whether the note has any bullets under the given section name.
func (n ClassifiedNote) Has(name string) bool {
	return len(n.Section(name)) > 0
}

// Empty reports whether nothing at all was classified.
func (n ClassifiedNote) Empty() bool {
	for _, s := range n.Sections {
		if len(s.Bullets) > 0 {
			return false
		}
	}
	return true
}

// HasNamed reports whether any section other than the implicit Other
// bucket collected bullets.
func (n ClassifiedNote) HasNamed() bool {
	for _, s := range n.Sections {
		if s.Name != OtherSection && len(s.Bullets) > 0 {
			return true
		}
	}
	return false
}
