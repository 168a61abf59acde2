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
	"time"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

// metadataSyncer re-applies source metadata onto an already-copied target
// object in place, without re-transferring the payload. It never creates
// objects: a missing target is a no-op.
type metadataSyncer struct {
	source common.Storage
	target common.Storage
	logger adapters.Logger
}

// syncObject returns true when the target's metadata was replaced, false
// when the target does not exist.
func (ms *metadataSyncer) syncObject(ctx context.Context, sourceKey, targetKey string) (bool, error) {
	_, err := ms.target.GetMetadata(ctx, targetKey)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			ms.logger.Debug(ctx, "Target does not exist, skipping metadata sync",
				adapters.Field{Key: "key", Value: targetKey})
			return false, nil
		}
		return false, fmt.Errorf("probing target %s: %w", targetKey, err)
	}

	sourceMeta, err := ms.source.GetMetadata(ctx, sourceKey)
	if err != nil {
		return false, fmt.Errorf("reading source metadata %s: %w", sourceKey, err)
	}

	meta := sourceMeta.Clone()
	if meta.Custom == nil {
		meta.Custom = make(map[string]string)
	}
	if !sourceMeta.LastModified.IsZero() {
		meta.Custom[lastModifiedKey] = sourceMeta.LastModified.UTC().Format(time.RFC3339Nano)
	}

	if err := ms.target.UpdateMetadata(ctx, targetKey, meta); err != nil {
		return false, fmt.Errorf("replacing metadata on %s: %w", targetKey, err)
	}
	return true, nil
}
