// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package reconcile implements the object reconciliation engine: paginated
// listing of a bucket prefix, an age-threshold filter, a change-detection
// heuristic, and the per-object delete/copy/metadata-sync actions with
// their error policy.
package reconcile

import "time"

// Threshold is the cutoff instant for one reconciliation pass, computed
// once per run as now minus the configured maximum age.
type Threshold struct {
	cutoff time.Time
}

// NewThreshold computes the cutoff from the given clock reading.
func NewThreshold(now time.Time, maxAge time.Duration) Threshold {
	return Threshold{cutoff: now.Add(-maxAge)}
}

// Cutoff returns the threshold instant.
func (t Threshold) Cutoff() time.Time {
	return t.cutoff
}

// Stale reports whether an object is old enough for deletion. The
// comparison is strict: an object modified exactly at the cutoff is not
// stale.
func (t Threshold) Stale(lastModified time.Time) bool {
	return lastModified.Before(t.cutoff)
}

// Recent reports whether an object is new enough for copy or metadata
// sync. The comparison is strict: an object modified exactly at the
// cutoff is not recent, so the boundary instant is selected by neither
// mode.
func (t Threshold) Recent(lastModified time.Time) bool {
	return lastModified.After(t.cutoff)
}
