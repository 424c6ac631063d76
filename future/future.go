// Package future provides a composable future/promise abstraction: a shared
// completion state, one-shot continuation chaining (Then), flattening of
// nested futures (Unwrap), synchronous waiting with a deadline (Wait), and
// timeout binding (OnTimeout). It is inspired by both
// https://github.com/jizhuozhi/go-future and the Quokka C++ library this
// module's domain (package pool, package timer) is distilled from.
package future

import (
	"sync/atomic"
	"time"

	"github.com/saltfishpr/quokka/routine"
)

// runSafely runs fn, swallowing any panic. It is used for callbacks that run
// on a scheduler's own goroutine (the timeout path) where there is no
// Outcome to stash the panic into.
func runSafely(fn func()) {
	routine.RunSafe(fn)
}

// DefaultWaitTimeout is the deadline Future.Wait uses when none is supplied,
// matching spec.md §4.5's wait(timeout = 24h) default.
const DefaultWaitTimeout = 24 * time.Hour

// Promise provides a facility to store a value or an error that is later
// acquired asynchronously via a Future created by the Promise. A Promise
// must not be copied after first use, and its Future may be retrieved at
// most once — a second call to Future fails with ErrAlreadyRetrieved.
//
// The operation that stores a value in the shared state synchronizes-with
// (as defined in Go's memory model) the successful return of any function
// that is waiting on the shared state, such as Future.Get or Future.Wait.
type Promise[T any] struct {
	state     *state[T]
	retrieved atomic.Bool
}

// NewPromise creates a new Promise object.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{state: newState[T]()}
}

// Set sets the value and error of the Promise. It panics if the Promise is
// already satisfied (Done or Timeout) — use SetSafety to avoid the panic.
func (p *Promise[T]) Set(val T, err error) {
	if !p.state.set(val, err) {
		panic("promise already satisfied")
	}
}

// SetSafety sets the value and error of the Promise, returning false if it
// was already satisfied instead of panicking.
func (p *Promise[T]) SetSafety(val T, err error) bool {
	return p.state.set(val, err)
}

// Future returns the Future associated with the Promise. It may be called
// at most once; subsequent calls return ErrAlreadyRetrieved, per spec.md
// §4.5's get_future contract.
func (p *Promise[T]) Future() (*Future[T], error) {
	if !p.retrieved.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRetrieved
	}
	return &Future[T]{state: p.state}, nil
}

// MustFuture is Future without the at-most-once error, for callers (such as
// this package's own free functions) that already know they are the sole
// retriever.
func (p *Promise[T]) MustFuture() *Future[T] {
	f, err := p.Future()
	if err != nil {
		panic(err)
	}
	return f
}

// IsReady reports whether the Promise has left the None state (Done or
// Timeout), per spec.md §4.5's is_ready.
func (p *Promise[T]) IsReady() bool {
	return !p.state.isFree()
}

// IsFree reports whether the Promise has not yet been set. Kept for
// compatibility with callers migrating from the teacher's original API.
func (p *Promise[T]) IsFree() bool {
	return p.state.isFree()
}

// Future provides a mechanism to access the result of an asynchronous
// operation:
//
//  1. An asynchronous operation (Async, Submit, or a hand-rolled Promise)
//     provides a Future to the creator of that operation.
//  2. The creator queries, waits for, or extracts a value from the Future.
//     These methods may block if the operation has not yet completed.
//  3. When the operation is ready to deliver a result, it modifies the
//     shared state (Promise.Set), which either stashes the outcome for a
//     later Get/Wait or invokes an already-registered continuation.
//
// A Future is not safe to copy after first use: only one consumer should
// call Wait (which transitions the state to Retrieved).
type Future[T any] struct {
	state *state[T]
}

// Valid reports whether the Future is associated with a shared state.
func (f *Future[T]) Valid() bool {
	return f != nil && f.state != nil
}

// Get returns the value and error of the Future, blocking until the
// asynchronous operation completes, or ErrWrongStateTimeout if the state
// transitioned to Timeout instead. Unlike Wait, Get never transitions the
// state to Retrieved and may be called more than once — it is the
// permissive accessor kept for compatibility with pipelines (dag, AllOf)
// that observe a Future's result from several places.
func (f *Future[T]) Get() (T, error) {
	return f.state.get()
}

// Wait blocks until the Future's state becomes Done or the timeout elapses,
// implementing spec.md §4.5's wait(timeout):
//
//   - Done: transitions to Retrieved and returns the outcome.
//   - Timeout: fails ErrWrongStateTimeout.
//   - Retrieved: fails ErrAlreadyRetrieved (a second Wait call).
//   - None: blocks up to timeout; on completion returns the outcome, on
//     deadline elapsing fails ErrWaitTimeout.
func (f *Future[T]) Wait(timeout time.Duration) (Outcome[T], error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	switch f.state.progress() {
	case progressTimeout:
		var zero Outcome[T]
		return zero, ErrWrongStateTimeout
	case progressRetrieved:
		var zero Outcome[T]
		return zero, ErrAlreadyRetrieved
	case progressDone:
		if f.state.retrieve() {
			return outcomeFromPair(f.state.val, f.state.err), nil
		}
		// Someone else raced us onto Retrieved/Timeout between the Load
		// above and here; fall through to re-check below.
	}

	f.state.lazyInit()
	select {
	case <-f.state.done:
		switch f.state.progress() {
		case progressTimeout:
			var zero Outcome[T]
			return zero, ErrWrongStateTimeout
		default:
			if f.state.retrieve() {
				return outcomeFromPair(f.state.val, f.state.err), nil
			}
			var zero Outcome[T]
			return zero, ErrAlreadyRetrieved
		}
	case <-time.After(timeout):
		var zero Outcome[T]
		return zero, ErrWaitTimeout
	}
}

// Subscribe registers a callback to be called when the Future is done.
//
// NOTE: the callback runs on whatever goroutine transitions the state to
// Done — often the producer's own goroutine, or the scheduler a Then call
// bound it to. The callback should not block.
func (f *Future[T]) Subscribe(cb func(val T, err error)) {
	f.state.subscribe(cb)
}

// IsDone reports whether the Future's state is Done (or already Retrieved).
func (f *Future[T]) IsDone() bool {
	return f.state.isDone()
}

// OnTimeout schedules fn to run on sched after duration. If the Future's
// state is still None when that task runs, the state transitions to
// Timeout and fn is invoked (panic-safe). If the state has already left
// None by then, the timeout task is a no-op.
//
// Per spec.md §4.5's caveat, OnTimeout should be attached directly to the
// future whose completion it should race — this implementation operates on
// the Future it is called on, not on some upstream root of a Then chain.
func (f *Future[T]) OnTimeout(duration time.Duration, fn func(), sched Executor) {
	st := f.state
	runFn := func() {
		if st.fireTimeout() {
			runSafely(fn)
		}
	}
	if de, ok := sched.(DelayedExecutor); ok {
		de.SubmitAfter(duration, runFn)
		return
	}
	time.AfterFunc(duration, func() {
		sched.Submit(runFn)
	})
}
