// Package observability provides formatted output utilities for the CLI
// diagnostic commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/release-notifier/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the diagnostic commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReleases outputs the fetched releases for one repository.
func (p *Printer) PrintReleases(product string, releases []types.Release) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Repository: %s\n", product))

	if len(releases) == 0 {
		sb.WriteString("\nNo releases found.")
		p.printBox("FETCHED RELEASES", sb.String())
		return
	}
	sb.WriteString("\n")

	count := min(len(releases), maxItemsToShow)
	for i := 0; i < count; i++ {
		rel := releases[i]
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, rel.Tag))
		if rel.Prerelease {
			sb.WriteString(" (prerelease)")
		}
		sb.WriteString("\n")
		if !rel.PublishedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("    Published: %s\n", rel.PublishedAt.Format("2006-01-02")))
		}
		if rel.Title != "" && rel.Title != rel.Tag {
			title := rel.Title
			if len(title) > 45 {
				title = title[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", title))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(releases) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more releases", len(releases)-maxItemsToShow))
	}

	p.printBox("FETCHED RELEASES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClassifiedNote outputs the sections extracted from a release body.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintClassifiedNote(note types.ClassifiedNote) {
	if note.Empty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO SECTIONS MATCHED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for si, section := range note.Sections {
		sb.WriteString(fmt.Sprintf("%s (%d):\n", section.Name, len(section.Bullets)))

		count := min(len(section.Bullets), 3)
		for i := 0; i < count; i++ {
			bullet := section.Bullets[i]
			if len(bullet) > 50 {
				bullet = bullet[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s\n", bullet))
		}
		if len(section.Bullets) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(section.Bullets)-3))
		}
		if si < len(note.Sections)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CLASSIFIED SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunReport outputs the end-of-run summary.
func (p *Printer) PrintRunReport(report types.RunReport) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run ID:     %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Repos:      %d checked\n", report.ReposChecked))
	sb.WriteString(fmt.Sprintf("Releases:   %d new\n", report.NewReleases))
	sb.WriteString(fmt.Sprintf("Delivered:  %d messages", report.MessagesDelivered))
	if report.DeliveryFailures > 0 {
		sb.WriteString(fmt.Sprintf(" (%d failed)", report.DeliveryFailures))
	}
	sb.WriteString("\n")
	if report.StateUpdated {
		sb.WriteString("State:      updated")
	} else {
		sb.WriteString("State:      unchanged")
	}

	p.printBox("RUN SUMMARY", sb.String())
}
