// Package workerpool wraps a fixed-size goroutine pool behind a small
// submit/wait interface: pairwise distance sweeps and sinqd inner products
// are submitted as tasks and awaited at batch
// boundaries, with the caller's own goroutine blocking until the batch
// drains.
//
// The underlying pool is github.com/panjf2000/ants/v2. The
// submit-then-WaitGroup.Wait() dispatch shape mirrors the channel-worker
// pattern used elsewhere in the wider codebase for fan-out/fan-in stages.
package workerpool

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Pool runs submitted tasks on a bounded set of goroutines and lets callers
// block until a batch drains.
type Pool struct {
	inner *ants.Pool
}

// New creates a pool with the given capacity. size <= 0 means hardware
// concurrency.
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	inner, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &Pool{inner: inner}, nil
}

// Release tears down the pool's goroutines. Safe to call once, after all
// batches have drained.
func (p *Pool) Release() { p.inner.Release() }

// Batch groups tasks submitted together so the caller can wait for exactly
// this group to finish, independent of other concurrent batches sharing
// the same pool.
type Batch struct {
	pool *Pool
	wg   sync.WaitGroup
}

// NewBatch starts a new batch of tasks against this pool.
func (p *Pool) NewBatch() *Batch {
	return &Batch{pool: p}
}

// Go submits a task to the batch. The pool blocks the submitter once at
// capacity. A Batch with no backing pool (the zero value) runs the task
// synchronously on the caller's goroutine instead, so single-threaded
// callers don't need to spin up a pool just to use the batch API.
func (b *Batch) Go(task func()) {
	if b.pool == nil {
		task()
		return
	}
	b.wg.Add(1)
	_ = b.pool.inner.Submit(func() {
		defer b.wg.Done()
		task()
	})
}

// Wait blocks until every task submitted to this batch has completed.
func (b *Batch) Wait() {
	b.wg.Wait()
}
