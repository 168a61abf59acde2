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

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

// Decision is the outcome of the skip heuristic for one object.
type Decision int

const (
	// DecisionCopy means the object must be transferred: the target is
	// absent, differs from the source, or the heuristic was inconclusive.
	DecisionCopy Decision = iota

	// DecisionSkip means the target already holds an acceptable copy.
	DecisionSkip
)

// String returns the decision name for log output.
func (d Decision) String() string {
	if d == DecisionSkip {
		return "skip"
	}
	return "copy"
}

// changeDetector decides whether an object that may already exist at the
// target can be skipped.
//
// With copyIfModified disabled, an existing target object is never
// overwritten. With it enabled, the source and target metadata are
// compared and the object is skipped only when ETag and size both match:
// a false skip silently drops a real change, while a false copy is merely
// wasteful, so the strict both-must-match policy is used.
//
// Probe failures other than a clean not-found fail open to copy for the
// same asymmetry: skipping on error risks permanently missing an update.
type changeDetector struct {
	source         common.Storage
	target         common.Storage
	copyIfModified bool
	logger         adapters.Logger
}

// decide probes the target (and, when needed, the source) and returns the
// decision together with a reason for the log line.
func (cd *changeDetector) decide(ctx context.Context, sourceKey, targetKey string) (Decision, string) {
	targetMeta, err := cd.target.GetMetadata(ctx, targetKey)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return DecisionCopy, "target absent"
		}
		cd.logger.Warn(ctx, "Target existence probe failed, copying anyway",
			adapters.Field{Key: "key", Value: targetKey},
			adapters.Field{Key: "error", Value: err.Error()})
		return DecisionCopy, "target probe failed"
	}

	if !cd.copyIfModified {
		return DecisionSkip, "target exists"
	}

	sourceMeta, err := cd.source.GetMetadata(ctx, sourceKey)
	if err != nil {
		cd.logger.Warn(ctx, "Source metadata probe failed, copying anyway",
			adapters.Field{Key: "key", Value: sourceKey},
			adapters.Field{Key: "error", Value: err.Error()})
		return DecisionCopy, "source probe failed"
	}

	if unchanged(sourceMeta, targetMeta) {
		return DecisionSkip, "target unchanged"
	}
	return DecisionCopy, "target differs"
}

// unchanged reports whether the target still matches the source. Both the
// ETag and the size must match; missing ETags disqualify the ETag check
// and therefore the skip.
func unchanged(src, dst *common.Metadata) bool {
	if src.ETag == "" || dst.ETag == "" || src.ETag != dst.ETag {
		return false
	}
	return src.Size == dst.Size
}
