// Package notifier provides the high-level orchestration for one scheduled
// notification pass.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jonathan/release-notifier/internal/classify"
	"github.com/jonathan/release-notifier/internal/compose"
	"github.com/jonathan/release-notifier/internal/source"
	"github.com/jonathan/release-notifier/internal/state"
	"github.com/jonathan/release-notifier/internal/summary"
	"github.com/jonathan/release-notifier/internal/types"
)

// Sender delivers one composed message. *notify.Client implements it.
type Sender interface {
	Send(ctx context.Context, msg compose.Message) error
}

// DeliveryRecorder appends delivered releases to an audit log.
// *history.Log implements it.
type DeliveryRecorder interface {
	Record(ctx context.Context, runID uuid.UUID, repo, tag string) error
}

// Options holds the collaborators and settings for one notifier pass.
type Options struct {
	Repos              []types.WatchedRepository
	Fetchers           source.Fetchers
	Classifier         *classify.Classifier
	Summarizer         *summary.Generator // optional
	Composer           *compose.Composer
	Sender             Sender
	Store              state.Store
	History            DeliveryRecorder // optional
	Mode               types.SendMode
	FetchCount         int
	IncludePrereleases bool
}

// Run executes one pass: load the cursor, list releases per repository,
// filter to the ones not yet notified, classify and summarize them, deliver
// per the send mode, and persist the advanced cursor.
//
// A repository whose listing fails is skipped and never blocks the others.
// The cursor only advances for releases that were actually delivered, so a
// failed delivery is picked up again on the next scheduled run.
func Run(ctx context.Context, opts Options) (types.RunReport, error) {
	runID := uuid.New()
	report := types.RunReport{RunID: runID.String()}
	log := slog.With("run_id", runID.String())

	rec, err := opts.Store.Load(ctx)
	if err != nil {
		// A duplicate notification beats a silent miss.
		log.Warn("state load failed, starting from an empty cursor", "error", err)
		rec = state.Record{}
	}
	if rec == nil {
		rec = state.Record{}
	}

	var entries []compose.Entry
	for _, repo := range opts.Repos {
		report.ReposChecked++

		releases, err := opts.Fetchers.LatestReleases(ctx, repo, opts.FetchCount, opts.IncludePrereleases)
		if errors.Is(err, source.ErrNoReleases) {
			log.Debug("no releases published", "repo", repo.Identifier)
			continue
		}
		if err != nil {
			log.Warn("release listing failed", "repo", repo.Identifier, "error", err)
			continue
		}

		fresh := filterNew(rec, repo.Identifier, releases)
		if len(fresh) == 0 {
			log.Info("no new releases", "repo", repo.Identifier, "last_seen", rec[repo.Identifier])
			continue
		}
		report.NewReleases += len(fresh)
		log.Info("new releases found", "repo", repo.Identifier, "count", len(fresh), "newest", fresh[0].Tag)

		// Hosts list newest first; walk backwards so a catch-up digest
		// reads in publication order and the cursor lands on the newest tag.
		for i := len(fresh) - 1; i >= 0; i-- {
			rel := fresh[i]
			entry := compose.Entry{
				Repo:    repo,
				Release: rel,
				Note:    opts.Classifier.Classify(rel.Body),
			}
			if opts.Summarizer != nil {
				entry.Summary = opts.Summarizer.Generate(ctx, repo.DisplayName(), rel)
			}
			entries = append(entries, entry)
		}
	}

	stateDirty := false
	for _, msg := range opts.Composer.Compose(entries, opts.Mode) {
		if err := opts.Sender.Send(ctx, msg); err != nil {
			report.DeliveryFailures++
			log.Error("message delivery failed", "message", msg.Text, "error", err)
			continue
		}
		report.MessagesDelivered++

		for _, rt := range msg.Repos {
			rec.Set(rt.Repo, rt.Tag)
			stateDirty = true
			if opts.History != nil {
				if err := opts.History.Record(ctx, runID, rt.Repo, rt.Tag); err != nil {
					log.Warn("failed to record delivery history", "repo", rt.Repo, "tag", rt.Tag, "error", err)
				}
			}
		}
	}

	if stateDirty {
		if err := opts.Store.Persist(ctx, rec); err != nil {
			return report, fmt.Errorf("failed to persist state: %w", err)
		}
		report.StateUpdated = true
	}

	if report.DeliveryFailures > 0 && report.MessagesDelivered == 0 {
		return report, fmt.Errorf("all %d message deliveries failed", report.DeliveryFailures)
	}

	return report, nil
}

// filterNew returns the leading run of releases not yet notified,
// preserving the host's newest-first order. The walk stops at the stored
// cursor tag: everything listed before it is new, everything after was
// seen on an earlier run. Comparison is exact string difference, so a tag
// the host lists as newer is taken even when it sorts lower. A cursor tag
// that has fallen out of the window makes the whole window new; after a
// long gap a duplicate beats a silent miss.
func filterNew(rec state.Record, repo string, releases []types.Release) []types.Release {
	var fresh []types.Release
	for _, rel := range releases {
		if !rec.IsNew(repo, rel.Tag) {
			break
		}
		fresh = append(fresh, rel)
	}
	return fresh
}
