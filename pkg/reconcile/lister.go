// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package reconcile

import (
	"context"
	"fmt"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

// lister paginates a bucket prefix, following continuation tokens until
// the backend reports no more data. It has no checkpoint state; a run is
// restarted only by re-invoking it.
type lister struct {
	storage  common.Storage
	prefix   string
	pageSize int
	logger   adapters.Logger
}

// listStats is what pagination saw, independent of what was done per object.
type listStats struct {
	pages int
	seen  int

	// truncatedEarly is set when a page after the first failed to list and
	// pagination stopped while keeping all work already dispatched.
	truncatedEarly bool
}

// eachPage lists pages and hands each page's entries to fn, draining one
// page completely before requesting the next.
//
// Failure policy: an error on the first page aborts the run before any
// side effects, so it is returned. An error on a later page must not
// discard completed work; it stops pagination, marks the stats truncated,
// and returns nil.
func (l *lister) eachPage(ctx context.Context, fn func(objects []*common.ObjectInfo)) (listStats, error) {
	var stats listStats

	opts := &common.ListOptions{
		Prefix:     l.prefix,
		MaxResults: l.pageSize,
	}

	for {
		result, err := l.storage.ListWithOptions(ctx, opts)
		if err != nil {
			if stats.pages == 0 {
				return stats, fmt.Errorf("listing first page of %q: %w", l.prefix, err)
			}
			l.logger.Error(ctx, "Listing page failed, stopping pagination",
				adapters.Field{Key: "prefix", Value: l.prefix},
				adapters.Field{Key: "pages_completed", Value: stats.pages},
				adapters.Field{Key: "error", Value: err.Error()})
			stats.truncatedEarly = true
			return stats, nil
		}

		stats.pages++
		stats.seen += len(result.Objects)
		l.logger.Debug(ctx, "Listed page",
			adapters.Field{Key: "page", Value: stats.pages},
			adapters.Field{Key: "objects", Value: len(result.Objects)})

		fn(result.Objects)

		if !result.Truncated {
			return stats, nil
		}
		opts.ContinueFrom = result.NextToken
	}
}
