// Package executors holds small future.Executor / future.DelayedExecutor
// implementations that don't need a full worker pool.
package executors

import "time"

// GoExecutor runs every task on its own goroutine — no pooling, no limit on
// concurrency.
type GoExecutor struct{}

func (GoExecutor) Submit(f func()) {
	go f()
}

// SubmitAfter runs f on its own goroutine once delay has elapsed.
func (GoExecutor) SubmitAfter(delay time.Duration, f func()) {
	time.AfterFunc(delay, func() { go f() })
}

// PoolExecutor bounds concurrency to maxWorkers via a semaphore, still
// spawning a fresh goroutine per task (no goroutine reuse — use pool.Pool
// for that).
type PoolExecutor struct {
	sem chan struct{}
}

func NewPoolExecutor(maxWorkers int) *PoolExecutor {
	return &PoolExecutor{
		sem: make(chan struct{}, maxWorkers),
	}
}

func (p *PoolExecutor) Submit(f func()) {
	p.sem <- struct{}{}
	go func() {
		defer func() { <-p.sem }()
		f()
	}()
}

// SubmitAfter runs f on the bounded pool once delay has elapsed.
func (p *PoolExecutor) SubmitAfter(delay time.Duration, f func()) {
	time.AfterFunc(delay, func() { p.Submit(f) })
}
