// Package state persists the last-seen release cursor between scheduled runs.
package state

import "context"

// Record maps repository identifiers to the last release tag already
// notified. It is single-owner for the duration of one run: loaded at the
// run boundary, mutated in memory while releases are processed, and
// persisted at the boundary. Entries for repositories no longer watched
// are harmless and never pruned.
type Record map[string]string

// IsNew reports whether the tag differs from the stored cursor for the
// repository. Comparison is exact string equality, never version
// ordering: the source host's own release ordering is trusted, so a tag
// that sorts "lower" is still new if it differs from the last-seen value.
func (r Record) IsNew(repo, tag string) bool {
	last, ok := r[repo]
	return !ok || last != tag
}

// Set records the last notified tag for a repository.
func (r Record) Set(repo, tag string) {
	r[repo] = tag
}

// Merge folds other into r. On conflicting repositories the entry from
// other wins, giving last-writer-wins reconciliation per key.
func (r Record) Merge(other Record) {
	for repo, tag := range other {
		r[repo] = tag
	}
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for repo, tag := range r {
		out[repo] = tag
	}
	return out
}

// Store loads and persists the cursor record.
//
// The file store degrades to an empty record itself when the backing file
// is missing or malformed; network-backed stores surface load errors and
// leave the degradation decision to the caller, which treats any load
// failure as empty state (a duplicate notification beats a silent miss).
type Store interface {
	Load(ctx context.Context) (Record, error)
	Persist(ctx context.Context, rec Record) error
	Close()
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config selects and parameterizes a cursor store backend.
type Config struct {
	Backend     string
	Path        string // file backend
	DatabaseURL string // postgres backend
	RedisURL    string // redis backend
	RedisKey    string // redis backend, optional
}

// Open builds the Store described by cfg. An empty backend selects the
// file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path), nil
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.RedisKey)
	default:
		return nil, &UnknownBackendError{Backend: cfg.Backend}
	}
}

// UnknownBackendError reports a state backend name Open does not support.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return "unknown state backend: " + e.Backend
}
