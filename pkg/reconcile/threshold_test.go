// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThresholdPartition(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	threshold := NewThreshold(now, time.Hour)

	assert.Equal(t, now.Add(-time.Hour), threshold.Cutoff())

	older := now.Add(-2 * time.Hour)
	newer := now.Add(-time.Minute)

	assert.True(t, threshold.Stale(older))
	assert.False(t, threshold.Recent(older))

	assert.False(t, threshold.Stale(newer))
	assert.True(t, threshold.Recent(newer))
}

func TestThresholdBoundaryExcludedByBothSides(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	threshold := NewThreshold(now, time.Hour)

	boundary := threshold.Cutoff()
	assert.False(t, threshold.Stale(boundary), "object at the cutoff must not be stale")
	assert.False(t, threshold.Recent(boundary), "object at the cutoff must not be recent")
}

func TestThresholdZeroMaxAge(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	threshold := NewThreshold(now, 0)

	// Everything modified before the run instant is stale; nothing already
	// stored can be recent.
	assert.Equal(t, now, threshold.Cutoff())
	assert.True(t, threshold.Stale(now.Add(-time.Nanosecond)))
	assert.False(t, threshold.Recent(now.Add(-time.Nanosecond)))
}
