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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
	"github.com/objsweep/go-objsweep/pkg/memory"
)

func TestEachPageVisitsEveryObjectOnce(t *testing.T) {
	storage := memory.New()
	staged := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		putAged(t, storage, fmt.Sprintf("logs/entry-%02d", i), "x", staged)
	}
	putAged(t, storage, "other/entry", "x", staged)

	l := &lister{
		storage:  storage,
		prefix:   "logs/",
		pageSize: 10,
		logger:   adapters.NewNoOpLogger(),
	}

	seen := map[string]int{}
	stats, err := l.eachPage(context.Background(), func(objects []*common.ObjectInfo) {
		for _, obj := range objects {
			seen[obj.Key]++
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.pages)
	assert.Equal(t, 23, stats.seen)
	assert.False(t, stats.truncatedEarly)
	assert.Len(t, seen, 23)
	for key, count := range seen {
		assert.Equalf(t, 1, count, "key %s visited %d times", key, count)
	}
}

func TestEachPageFirstPageFailureIsFatal(t *testing.T) {
	listErr := errors.New("endpoint unreachable")
	faulty := &faultyStorage{
		Storage:        memory.New(),
		failListOnPage: 1,
		listErr:        listErr,
	}

	l := &lister{storage: faulty, prefix: "logs/", logger: adapters.NewNoOpLogger()}

	called := false
	stats, err := l.eachPage(context.Background(), func([]*common.ObjectInfo) { called = true })

	require.ErrorIs(t, err, listErr)
	assert.False(t, called, "no page must be dispatched when the first listing fails")
	assert.Equal(t, 0, stats.pages)
}

func TestEachPageLaterPageFailureKeepsCompletedWork(t *testing.T) {
	storage := memory.New()
	staged := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		putAged(t, storage, fmt.Sprintf("logs/entry-%02d", i), "x", staged)
	}

	faulty := &faultyStorage{
		Storage:        storage,
		failListOnPage: 2,
		listErr:        errors.New("throttled"),
	}

	l := &lister{storage: faulty, prefix: "logs/", pageSize: 10, logger: adapters.NewNoOpLogger()}

	dispatched := 0
	stats, err := l.eachPage(context.Background(), func(objects []*common.ObjectInfo) {
		dispatched += len(objects)
	})

	require.NoError(t, err, "a later-page failure must not surface as a run error")
	assert.True(t, stats.truncatedEarly)
	assert.Equal(t, 1, stats.pages)
	assert.Equal(t, 10, dispatched, "the completed first page stays dispatched")
}
