// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

// Mode selects which reconciliation a run performs.
type Mode int

const (
	// ModeDelete removes stale objects from the source bucket.
	ModeDelete Mode = iota

	// ModeCopy transfers recent objects from source to target, skipping
	// unchanged ones.
	ModeCopy

	// ModeSyncMetadata re-applies source metadata onto already-copied
	// target objects in place.
	ModeSyncMetadata
)

// String returns the mode name for log output.
func (m Mode) String() string {
	switch m {
	case ModeDelete:
		return "delete"
	case ModeCopy:
		return "copy"
	case ModeSyncMetadata:
		return "sync-metadata"
	default:
		return "unknown"
	}
}

// Options configures a Reconciler.
type Options struct {
	Mode   Mode
	Source common.FolderScope
	Target common.FolderScope

	// MaxAge is the age threshold. Objects modified strictly before
	// now-MaxAge are stale (deletion candidates); objects modified
	// strictly after it are recent (copy/sync candidates).
	MaxAge time.Duration

	// CopyIfModified re-copies existing target objects whose ETag or size
	// differ from the source. When false, existing targets are never
	// overwritten.
	CopyIfModified bool

	// DryRun logs intended deletes/copies/syncs and counts them without
	// writing to or deleting from storage. Read-only probes still run so
	// the report reflects the decisions a real run would take.
	DryRun bool

	// PageSize is the listing page size. 0 means backend default.
	PageSize int

	// Workers bounds per-object parallelism. Values <= 1 process objects
	// sequentially.
	Workers int

	// Clock overrides the time source for the threshold computation.
	// Nil means time.Now.
	Clock func() time.Time

	Logger adapters.Logger
}

// RunSummary is the value returned from one reconciliation pass. Nothing
// about a run is kept in package or process state; callers own the
// summary.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Mode      string        `json:"mode"`
	Threshold time.Time     `json:"threshold"`
	DryRun    bool          `json:"dry_run,omitempty"`
	Pages     int           `json:"pages"`
	Seen      int           `json:"seen"`
	Deleted   int           `json:"deleted"`
	Copied    int           `json:"copied"`
	Synced    int           `json:"synced"`
	Skipped   int           `json:"skipped"`
	Errored   int           `json:"errored"`
	Bytes     int64         `json:"bytes"`
	Errors    []string      `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration"`

	// TruncatedEarly distinguishes a run whose pagination stopped on a
	// later-page listing failure from a clean completion.
	TruncatedEarly bool `json:"truncated_early,omitempty"`
}

// outcome classifies what happened to one dispatched object.
type outcome struct {
	key    string
	kind   outcomeKind
	reason string
	bytes  int64
	err    error
}

type outcomeKind int

const (
	outcomeDeleted outcomeKind = iota
	outcomeCopied
	outcomeSynced
	outcomeSkipped
	outcomeErrored
)

// Reconciler runs one of the three reconciliation modes over a source
// (and, for copy/sync, target) bucket scope.
type Reconciler struct {
	opts     Options
	source   common.Storage
	target   common.Storage
	detector *changeDetector
	executor *transferExecutor
	syncer   *metadataSyncer
	logger   adapters.Logger
	now      func() time.Time
}

// New validates the options and builds a Reconciler. target may be nil
// for ModeDelete; source and target may be the same Storage when
// reconciling a bucket against itself.
func New(source, target common.Storage, opts Options) (*Reconciler, error) {
	if source == nil {
		return nil, errors.New("source storage is required")
	}
	if opts.MaxAge < 0 {
		return nil, fmt.Errorf("max age must be non-negative, got %s", opts.MaxAge)
	}
	if opts.Mode != ModeDelete && target == nil {
		return nil, fmt.Errorf("%s mode requires a target storage", opts.Mode)
	}
	logger := opts.Logger
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	r := &Reconciler{
		opts:   opts,
		source: source,
		target: target,
		logger: logger,
		now:    now,
	}
	if opts.Mode == ModeCopy {
		r.detector = &changeDetector{
			source:         source,
			target:         target,
			copyIfModified: opts.CopyIfModified,
			logger:         logger,
		}
		r.executor = &transferExecutor{source: source, target: target, logger: logger}
	}
	if opts.Mode == ModeSyncMetadata {
		r.syncer = &metadataSyncer{source: source, target: target, logger: logger}
	}
	return r, nil
}

// Run performs one reconciliation pass. A first-page listing failure
// aborts the run with an error and an otherwise-empty summary; every
// other failure is absorbed into the summary's error counters.
func (r *Reconciler) Run(ctx context.Context) (*RunSummary, error) {
	start := r.now()
	threshold := NewThreshold(start, r.opts.MaxAge)

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Mode:      r.opts.Mode.String(),
		Threshold: threshold.Cutoff(),
		DryRun:    r.opts.DryRun,
	}
	logger := r.logger.WithFields(adapters.Field{Key: "run_id", Value: summary.RunID})

	logger.Info(ctx, "Starting reconciliation",
		adapters.Field{Key: "mode", Value: summary.Mode},
		adapters.Field{Key: "source", Value: r.opts.Source.String()},
		adapters.Field{Key: "threshold", Value: threshold.Cutoff()},
		adapters.Field{Key: "dry_run", Value: r.opts.DryRun})

	keep := threshold.Recent
	if r.opts.Mode == ModeDelete {
		keep = threshold.Stale
	}

	l := &lister{
		storage:  r.source,
		prefix:   r.opts.Source.Prefix,
		pageSize: r.opts.PageSize,
		logger:   logger,
	}

	apply := func(o outcome) { r.apply(ctx, logger, summary, o) }

	var handlePage func(objects []*common.ObjectInfo)
	if r.opts.Workers > 1 {
		pool := newWorkerPool(r.opts.Workers, r.opts.PageSize, logger)
		pool.start(ctx, r.processObject)
		defer pool.shutdown()

		handlePage = func(objects []*common.ObjectInfo) {
			selected := make([]*common.ObjectInfo, 0, len(objects))
			for _, obj := range objects {
				if r.selects(ctx, logger, keep, obj) {
					selected = append(selected, obj)
				}
			}
			pool.processPage(selected, apply)
		}
	} else {
		handlePage = func(objects []*common.ObjectInfo) {
			for _, obj := range objects {
				if !r.selects(ctx, logger, keep, obj) {
					continue
				}
				apply(r.processObject(ctx, obj))
			}
		}
	}

	stats, err := l.eachPage(ctx, handlePage)
	summary.Pages = stats.pages
	summary.Seen = stats.seen
	summary.TruncatedEarly = stats.truncatedEarly
	summary.Duration = time.Since(start)

	if err != nil {
		logger.Error(ctx, "Run aborted",
			adapters.Field{Key: "error", Value: err.Error()})
		return summary, err
	}

	logger.Info(ctx, "Reconciliation finished",
		adapters.Field{Key: "pages", Value: summary.Pages},
		adapters.Field{Key: "seen", Value: summary.Seen},
		adapters.Field{Key: "deleted", Value: summary.Deleted},
		adapters.Field{Key: "copied", Value: summary.Copied},
		adapters.Field{Key: "synced", Value: summary.Synced},
		adapters.Field{Key: "skipped", Value: summary.Skipped},
		adapters.Field{Key: "errored", Value: summary.Errored},
		adapters.Field{Key: "bytes", Value: summary.Bytes},
		adapters.Field{Key: "truncated_early", Value: summary.TruncatedEarly},
		adapters.Field{Key: "duration", Value: summary.Duration.String()})

	return summary, nil
}

// selects applies the structural and age filters to one listing entry.
// Folder markers (keys ending in "/", including the scope prefix itself)
// are never candidates in any mode.
func (r *Reconciler) selects(ctx context.Context, logger adapters.Logger, keep func(time.Time) bool, obj *common.ObjectInfo) bool {
	if strings.HasSuffix(obj.Key, "/") {
		logger.Debug(ctx, "Skipping folder marker", adapters.Field{Key: "key", Value: obj.Key})
		return false
	}
	if obj.Metadata == nil {
		logger.Warn(ctx, "Listing entry without metadata, ignoring",
			adapters.Field{Key: "key", Value: obj.Key})
		return false
	}
	return keep(obj.Metadata.LastModified)
}

// processObject performs the per-object action for the active mode. It is
// safe for concurrent use.
func (r *Reconciler) processObject(ctx context.Context, obj *common.ObjectInfo) outcome {
	switch r.opts.Mode {
	case ModeDelete:
		return r.deleteObject(ctx, obj)
	case ModeCopy:
		return r.copyObject(ctx, obj)
	case ModeSyncMetadata:
		return r.syncMetadata(ctx, obj)
	default:
		return outcome{key: obj.Key, kind: outcomeErrored, err: fmt.Errorf("unknown mode %d", r.opts.Mode)}
	}
}

func (r *Reconciler) deleteObject(ctx context.Context, obj *common.ObjectInfo) outcome {
	if r.opts.DryRun {
		return outcome{key: obj.Key, kind: outcomeDeleted, reason: "stale (dry-run)"}
	}
	if err := r.source.DeleteWithContext(ctx, obj.Key); err != nil {
		return outcome{key: obj.Key, kind: outcomeErrored, err: fmt.Errorf("deleting %s: %w", obj.Key, err)}
	}
	return outcome{key: obj.Key, kind: outcomeDeleted, reason: "stale"}
}

func (r *Reconciler) copyObject(ctx context.Context, obj *common.ObjectInfo) outcome {
	targetKey, err := common.MapKey(r.opts.Source, r.opts.Target, obj.Key)
	if err != nil {
		return outcome{key: obj.Key, kind: outcomeErrored, err: err}
	}

	decision, reason := r.detector.decide(ctx, obj.Key, targetKey)
	if decision == DecisionSkip {
		return outcome{key: obj.Key, kind: outcomeSkipped, reason: reason}
	}
	if r.opts.DryRun {
		return outcome{key: obj.Key, kind: outcomeCopied, reason: reason + " (dry-run)"}
	}

	bytes, err := r.executor.copyObject(ctx, obj.Key, targetKey)
	if err != nil {
		return outcome{key: obj.Key, kind: outcomeErrored, err: err}
	}
	return outcome{key: obj.Key, kind: outcomeCopied, reason: reason, bytes: bytes}
}

func (r *Reconciler) syncMetadata(ctx context.Context, obj *common.ObjectInfo) outcome {
	targetKey, err := common.MapKey(r.opts.Source, r.opts.Target, obj.Key)
	if err != nil {
		return outcome{key: obj.Key, kind: outcomeErrored, err: err}
	}

	if r.opts.DryRun {
		exists, err := r.target.Exists(ctx, targetKey)
		if err != nil {
			return outcome{key: obj.Key, kind: outcomeErrored, err: fmt.Errorf("probing target %s: %w", targetKey, err)}
		}
		if !exists {
			return outcome{key: obj.Key, kind: outcomeSkipped, reason: "target absent"}
		}
		return outcome{key: obj.Key, kind: outcomeSynced, reason: "dry-run"}
	}

	synced, err := r.syncer.syncObject(ctx, obj.Key, targetKey)
	if err != nil {
		return outcome{key: obj.Key, kind: outcomeErrored, err: err}
	}
	if !synced {
		return outcome{key: obj.Key, kind: outcomeSkipped, reason: "target absent"}
	}
	return outcome{key: obj.Key, kind: outcomeSynced, reason: "metadata replaced"}
}

// apply folds one outcome into the summary. It runs on a single
// goroutine (the page loop or the pool's drain loop), which keeps the
// counters race-free.
func (r *Reconciler) apply(ctx context.Context, logger adapters.Logger, summary *RunSummary, o outcome) {
	switch o.kind {
	case outcomeDeleted:
		summary.Deleted++
		logger.Info(ctx, "Deleted object",
			adapters.Field{Key: "key", Value: o.key},
			adapters.Field{Key: "reason", Value: o.reason})
	case outcomeCopied:
		summary.Copied++
		summary.Bytes += o.bytes
		logger.Info(ctx, "Copied object",
			adapters.Field{Key: "key", Value: o.key},
			adapters.Field{Key: "reason", Value: o.reason},
			adapters.Field{Key: "bytes", Value: o.bytes})
	case outcomeSynced:
		summary.Synced++
		logger.Info(ctx, "Synced metadata",
			adapters.Field{Key: "key", Value: o.key},
			adapters.Field{Key: "reason", Value: o.reason})
	case outcomeSkipped:
		summary.Skipped++
		logger.Debug(ctx, "Skipped object",
			adapters.Field{Key: "key", Value: o.key},
			adapters.Field{Key: "reason", Value: o.reason})
	case outcomeErrored:
		summary.Errored++
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", o.key, o.err))
		logger.Error(ctx, "Object action failed",
			adapters.Field{Key: "key", Value: o.key},
			adapters.Field{Key: "error", Value: o.err.Error()})
	}
}
