package future

import (
	"context"
	"sync/atomic"
	"time"
)

// Async runs f on the package default Executor (executors.GoExecutor unless
// SetExecutor was called) and returns a Future for its result.
func Async[T any](f func() (T, error)) *Future[T] {
	return Submit(executor, f)
}

// CtxAsync is Async for a context-accepting callable, run on the package
// default Executor.
func CtxAsync[T any](ctx context.Context, f func(ctx context.Context) (T, error)) *Future[T] {
	return CtxSubmit(ctx, executor, f)
}

// Submit runs f on e and returns a Future for its result. A panic inside f
// is recovered and delivered as an ErrPanic-tagged error rather than
// crashing e's goroutine.
func Submit[T any](e Executor, f func() (T, error)) *Future[T] {
	s := newState[T]()
	e.Submit(func() {
		var val T
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = WrapPanic(r)
			}
			s.set(val, err)
		}()
		val, err = f()
	})
	return &Future[T]{state: s}
}

// CtxSubmit is Submit for a context-accepting callable.
func CtxSubmit[T any](ctx context.Context, e Executor, f func(ctx context.Context) (T, error)) *Future[T] {
	s := newState[T]()
	e.Submit(func() {
		var val T
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = WrapPanic(r)
			}
			s.set(val, err)
		}()
		val, err = f(ctx)
	})
	return &Future[T]{state: s}
}

// Done returns an already-Done Future holding val.
func Done[T any](val T) *Future[T] {
	return Done2(val, nil)
}

// Done2 returns an already-Done Future holding val and err.
func Done2[T any](val T, err error) *Future[T] {
	s := newState[T]()
	s.set(val, err)
	return &Future[T]{state: s}
}

// Await blocks on f.Get(), a thin spelling matching the free-function
// await(future) convention.
func Await[T any](f *Future[T]) (T, error) {
	return f.Get()
}

// Then chains cb onto f's completion, passing f's outcome as a (T, error)
// pair (the "by Outcome" call signature) — cb always runs, whether f
// succeeded or failed, and may itself recover from the upstream error.
func Then[T any, R any](f *Future[T], cb func(T, error) (R, error)) *Future[R] {
	s := newState[R]()
	f.state.subscribe(func(val T, err error) {
		rval, rerr := cb(val, err)
		s.set(rval, rerr)
	})
	return &Future[R]{state: s}
}

// ThenValue chains cb onto f's completion, but only when f succeeded — the
// "by value" call signature. An upstream exception is routed directly to
// the downstream Future without invoking cb.
func ThenValue[T any, R any](f *Future[T], cb func(T) (R, error)) *Future[R] {
	s := newState[R]()
	f.state.subscribe(func(val T, err error) {
		if err != nil {
			var zero R
			s.set(zero, err)
			return
		}
		rval, rerr := cb(val)
		s.set(rval, rerr)
	})
	return &Future[R]{state: s}
}

// ThenCompose chains cb onto f's completion the same way as Then, but cb
// itself returns a *Future[R] rather than an (R, error) pair. The returned
// Future only completes once that inner future does — the two-stage
// binding a continuation that resumes more async work needs.
func ThenCompose[T any, R any](f *Future[T], cb func(T, error) *Future[R]) *Future[R] {
	s := newState[R]()
	f.state.subscribe(func(val T, err error) {
		inner := cb(val, err)
		if inner == nil || !inner.Valid() {
			var zero R
			s.set(zero, ErrUninitializedOutcome)
			return
		}
		inner.state.subscribe(func(rval R, rerr error) {
			s.set(rval, rerr)
		})
	})
	return &Future[R]{state: s}
}

// Unwrap flattens a Future of a Future into a single Future that completes
// once the inner future does.
func Unwrap[T any](f *Future[*Future[T]]) *Future[T] {
	return ThenCompose(f, func(inner *Future[T], err error) *Future[T] {
		if err != nil {
			return Done2(*new(T), err)
		}
		return inner
	})
}

// AllOf returns a Future that completes once every future in fs has
// completed successfully, holding their results in argument order, or
// completes with the first error observed from any of them.
func AllOf[T any](fs ...*Future[T]) *Future[[]T] {
	if len(fs) == 0 {
		return Done[[]T](nil)
	}

	var failed uint32
	s := newState[[]T]()
	remaining := int32(len(fs))
	results := make([]T, len(fs))
	for i, f := range fs {
		i := i
		f.state.subscribe(func(val T, err error) {
			if err != nil {
				if atomic.CompareAndSwapUint32(&failed, 0, 1) {
					s.set(nil, err)
				}
				return
			}
			results[i] = val
			if atomic.AddInt32(&remaining, -1) == 0 {
				s.set(results, nil)
			}
		})
	}
	return &Future[[]T]{state: s}
}

// Timeout returns a Future that mirrors f's outcome if f completes within
// d, or fails with ErrWaitTimeout once d elapses first. Unlike
// Future.OnTimeout, this never touches f's own state — f keeps running and
// any other observer still sees its real outcome.
func Timeout[T any](f *Future[T], d time.Duration) *Future[T] {
	return Until(f, time.Now().Add(d))
}

// Until is Timeout against an absolute deadline instead of a relative
// duration.
func Until[T any](f *Future[T], deadline time.Time) *Future[T] {
	s := newState[T]()
	var settled uint32

	f.state.subscribe(func(val T, err error) {
		if atomic.CompareAndSwapUint32(&settled, 0, 1) {
			s.set(val, err)
		}
	})

	d := time.Until(deadline)
	if d <= 0 {
		if atomic.CompareAndSwapUint32(&settled, 0, 1) {
			var zero T
			s.set(zero, ErrWaitTimeout)
		}
		return &Future[T]{state: s}
	}
	time.AfterFunc(d, func() {
		if atomic.CompareAndSwapUint32(&settled, 0, 1) {
			var zero T
			s.set(zero, ErrWaitTimeout)
		}
	})
	return &Future[T]{state: s}
}

// WithContext returns a Future that mirrors f's outcome, or fails with
// ctx.Err() once ctx is cancelled first, whichever happens first.
func WithContext[T any](ctx context.Context, f *Future[T]) *Future[T] {
	s := newState[T]()
	if ctx.Done() == nil {
		f.state.subscribe(func(val T, err error) {
			s.set(val, err)
		})
		return &Future[T]{state: s}
	}

	var settled uint32
	done := make(chan struct{})
	f.state.subscribe(func(val T, err error) {
		if atomic.CompareAndSwapUint32(&settled, 0, 1) {
			s.set(val, err)
		}
		close(done)
	})
	go func() {
		select {
		case <-ctx.Done():
			if atomic.CompareAndSwapUint32(&settled, 0, 1) {
				var zero T
				s.set(zero, ctx.Err())
			}
		case <-done:
		}
	}()
	return &Future[T]{state: s}
}
