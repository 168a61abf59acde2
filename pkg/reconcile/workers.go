// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package reconcile

import (
	"context"
	"sync"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

// workerPool runs per-object actions on a bounded set of goroutines. The
// reconciler processes one page at a time and folds every result before
// requesting the next page, so the pool never lists ahead of what is
// being processed and each object has at most one in-flight action.
type workerPool struct {
	workers int
	work    chan *common.ObjectInfo
	results chan outcome
	wg      sync.WaitGroup
	logger  adapters.Logger
}

func newWorkerPool(workers, queueSize int, logger adapters.Logger) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	return &workerPool{
		workers: workers,
		work:    make(chan *common.ObjectInfo, queueSize),
		results: make(chan outcome, queueSize),
		logger:  logger,
	}
}

// start launches the workers. process must be safe for concurrent use.
func (p *workerPool) start(ctx context.Context, process func(context.Context, *common.ObjectInfo) outcome) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.logger.Debug(ctx, "Worker started", adapters.Field{Key: "worker_id", Value: id})
			for obj := range p.work {
				p.results <- process(ctx, obj)
			}
		}(i)
	}
}

// processPage submits one page's objects and folds results as they
// arrive. Submission runs on its own goroutine so a page larger than the
// queue capacity cannot block against unread results; apply stays on the
// caller's goroutine, which keeps summary folding race-free.
func (p *workerPool) processPage(objects []*common.ObjectInfo, apply func(outcome)) {
	go func() {
		for _, obj := range objects {
			p.work <- obj
		}
	}()
	for i := 0; i < len(objects); i++ {
		apply(<-p.results)
	}
}

// shutdown stops the workers after queued work finishes.
func (p *workerPool) shutdown() {
	close(p.work)
	p.wg.Wait()
	close(p.results)
}
