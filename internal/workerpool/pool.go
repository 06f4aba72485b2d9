// Package workerpool provides a bounded pool for blocking work.
//
// Model inference and other slow calls are submitted here so they never
// stall request handling. A caller awaits completion under its own
// context; if the context expires first the caller gets the deadline
// error while the task drains in the background and its result is
// discarded.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when work is submitted to a closed pool.
var ErrClosed = errors.New("worker pool closed")

// Default sizing.
const (
	DefaultWorkers = 4
	DefaultQueue   = 64
)

// Task is a unit of work executed on a pool worker.
type Task func(ctx context.Context) (any, error)

type result struct {
	value any
	err   error
}

type job struct {
	fn   Task
	done chan result
}

// Pool is a fixed-size worker pool with a bounded queue.
type Pool struct {
	jobs   chan job
	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates and starts a pool with the given worker count and queue
// depth. Non-positive values fall back to the defaults.
func New(workers, queue int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queue <= 0 {
		queue = DefaultQueue
	}

	root, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:   make(chan job, queue),
		root:   root,
		cancel: cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		value, err := j.fn(p.root)
		// Buffered channel: never blocks even if the caller gave up.
		j.done <- result{value: value, err: err}
	}
}

// Do submits fn and waits for its result or the caller's context.
// On context expiry the task keeps running on the pool; its eventual
// result is discarded.
func (p *Pool) Do(ctx context.Context, fn Task) (any, error) {
	j := job{fn: fn, done: make(chan result, 1)}

	// The read lock spans the closed check and the send, so Close cannot
	// close the jobs channel in between.
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrClosed
	}
	select {
	case p.jobs <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case r := <-j.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting work, cancels the pool context, and waits for
// in-flight tasks to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}

// Do submits a typed task to the pool and waits for its result.
func Do[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := p.Do(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}
