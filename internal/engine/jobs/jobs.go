// Package jobs runs background work on a bounded, reusable set of goroutines.
package jobs

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/logger"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("pool closed")

// Pool wraps a dynamic worker pool. Workers are reused across frames and
// exit after sitting idle.
type Pool struct {
	pool   worker.DynamicWorkerPool
	nextID atomic.Int64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	submitted atomic.Int64
	panics    atomic.Int64

	log *zap.Logger
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS; queue <= 0 uses 256.
func NewPool(workers, queue int, idle time.Duration) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queue <= 0 {
		queue = 256
	}
	if idle <= 0 {
		idle = time.Second
	}

	p := &Pool{
		pool: worker.NewDynamicWorkerPool(workers, queue, idle),
		log:  logger.Named("jobs"),
	}
	p.log.Debug("pool started", zap.Int("workers", workers), zap.Int("queue", queue), zap.Duration("idle", idle))
	return p
}

// Submit queues fn. A panic in fn is logged and swallowed so one bad task
// cannot take down a worker.
func (p *Pool) Submit(fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	p.wg.Add(1)
	p.submitted.Add(1)
	id := int(p.nextID.Add(1))

	p.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.panics.Add(1)
					p.log.Error("task panicked", zap.Int("task", id), zap.Any("panic", r))
				}
			}()
			fn()
			return nil, nil
		},
	})
	return nil
}

// Stats returns the number of submitted tasks and recovered panics.
func (p *Pool) Stats() (submitted, panics int64) {
	return p.submitted.Load(), p.panics.Load()
}

// Close rejects new tasks, waits for queued ones to finish and stops the
// workers.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	p.pool.Stop()
	p.log.Debug("pool stopped", zap.Int64("submitted", p.submitted.Load()))
}
