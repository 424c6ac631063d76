// Package pool implements the worker-thread pool: an elastic collection of
// goroutines draining a shared task queue, growing on demand and shrinking
// back down via a periodic supervisor. Pool is a future.Executor and
// future.DelayedExecutor; Execute/ExecuteCtx return a *future.Future for a
// task's eventual outcome, while the bare Submit/SubmitAfter return nothing.
package pool

import (
	"context"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saltfishpr/quokka/daemon"
	"github.com/saltfishpr/quokka/future"
	"github.com/saltfishpr/quokka/routine"
	"github.com/saltfishpr/quokka/timer"
)

// DefaultMaxThreads is the ceiling on live worker goroutines, matching
// spec.md §4.4's default.
const DefaultMaxThreads = 1024

// supervisorInterval is how often the supervisor audits idle worker count.
const supervisorInterval = 300 * time.Millisecond

// task is a queued unit of work. onAbort, when set, resolves whatever
// promise run would have fulfilled — invoked instead of run if the task is
// still queued (not yet claimed by a worker) when the pool shuts down.
// A task with run == nil is a poison pill: the worker that pops it exits.
type task struct {
	run     func()
	onAbort func()
}

// Pool is the worker pool. Zero value is not usable — construct with New.
type Pool struct {
	daemon.BaseDaemon

	// Logger receives a line for every panic recovered from a task, and
	// from Update errors surfaced by the internal timer manager.
	Logger *log.Logger

	maxThreads         atomic.Int32
	maxIdleThreads     atomic.Int32
	currentThreads     atomic.Int32
	pendingStopSignals atomic.Int32

	mu       sync.Mutex
	cond     *sync.Cond
	tasks    []task
	waiters  int
	shutdown bool

	workersWg      sync.WaitGroup
	supervisorWg   sync.WaitGroup
	supervisorStop chan struct{}

	timers *timer.Manager
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithMaxThreads sets the ceiling on live workers; values outside (0, 1024]
// are ignored.
func WithMaxThreads(n int) Option {
	return func(p *Pool) { p.SetMaxThreads(n) }
}

// WithMaxIdleThreads sets the target idle-worker count; values outside
// (0, 1024] are ignored. Default is runtime.NumCPU(), or 1 if that reports 0.
func WithMaxIdleThreads(n int) Option {
	return func(p *Pool) { p.SetMaxIdleThreads(n) }
}

// WithLogger overrides the default logger (log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(p *Pool) { p.Logger = l }
}

// New constructs a Pool. Call Start before submitting any work.
func New(opts ...Option) *Pool {
	p := &Pool{
		Logger:         log.Default(),
		supervisorStop: make(chan struct{}),
		timers:         timer.NewManager(),
	}
	p.cond = sync.NewCond(&p.mu)
	p.maxThreads.Store(DefaultMaxThreads)

	idle := runtime.NumCPU()
	if idle < 1 {
		idle = 1
	}
	p.maxIdleThreads.Store(int32(idle))

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetMaxThreads updates the worker ceiling, ignoring values outside
// (0, DefaultMaxThreads].
func (p *Pool) SetMaxThreads(n int) {
	if n > 0 && n <= DefaultMaxThreads {
		p.maxThreads.Store(int32(n))
	}
}

// SetMaxIdleThreads updates the supervisor's idle-worker target, ignoring
// values outside (0, DefaultMaxThreads].
func (p *Pool) SetMaxIdleThreads(n int) {
	if n > 0 && n <= DefaultMaxThreads {
		p.maxIdleThreads.Store(int32(n))
	}
}

// Start begins the supervisor goroutine and the internal timer manager
// that backs SubmitAfter. Workers themselves are spawned lazily, on first
// submission, per spec.md §4.4.
func (p *Pool) Start() error {
	if err := p.BaseDaemon.Start(); err != nil {
		return err
	}
	p.timers.Logger = p.Logger
	if err := p.timers.Start(); err != nil {
		return err
	}
	p.supervisorWg.Add(1)
	go p.supervise()
	return nil
}

// Submit implements future.Executor. It has no visibility into any promise
// f might close over, so a task still queued (never claimed by a worker)
// when the pool shuts down is simply dropped — callers that need the
// ErrShutdownAborted resolution should use Execute/ExecuteCtx instead.
func (p *Pool) Submit(f func()) {
	p.enqueue(task{run: f})
}

// SubmitAfter implements future.DelayedExecutor, scheduling f onto the
// pool's internal timer.Manager rather than a bare time.AfterFunc per call.
func (p *Pool) SubmitAfter(delay time.Duration, f func()) {
	p.timers.ScheduleAfter(delay, func() { p.Submit(f) })
}

// Execute runs f on p and returns a Future for its result. If p has
// already shut down, the returned Future fails immediately with
// future.ErrShutdownAborted instead of being enqueued.
func Execute[T any](p *Pool, f func() (T, error)) *future.Future[T] {
	promise := future.NewPromise[T]()
	fut := promise.MustFuture()

	p.enqueue(task{
		run: func() {
			var val T
			var err error
			defer func() {
				if r := recover(); r != nil {
					err = future.WrapPanic(r)
				}
				promise.SetSafety(val, err)
			}()
			val, err = f()
		},
		onAbort: func() {
			var zero T
			promise.SetSafety(zero, future.ErrShutdownAborted)
		},
	})
	return fut
}

// ExecuteCtx is Execute for a context-accepting callable.
func ExecuteCtx[T any](ctx context.Context, p *Pool, f func(context.Context) (T, error)) *future.Future[T] {
	return Execute(p, func() (T, error) { return f(ctx) })
}

// enqueue appends t to the task queue, spawning a worker if none are idle
// and there is still room under maxThreads. Reports false (invoking
// t.onAbort, if any, immediately) if the pool has already shut down.
func (p *Pool) enqueue(t task) bool {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		if t.onAbort != nil {
			t.onAbort()
		}
		return false
	}

	p.tasks = append(p.tasks, t)
	if p.waiters == 0 && p.currentThreads.Load() < p.maxThreads.Load() {
		p.spawnWorkerLocked()
	}
	p.cond.Signal()
	p.mu.Unlock()
	return true
}

// spawnWorkerLocked must be called with p.mu held.
func (p *Pool) spawnWorkerLocked() {
	p.currentThreads.Add(1)
	p.workersWg.Add(1)
	go p.workerLoop()
}

func (p *Pool) workerLoop() {
	defer p.workersWg.Done()

	for {
		p.mu.Lock()
		p.waiters++
		for !p.shutdown && len(p.tasks) == 0 {
			p.cond.Wait()
		}
		p.waiters--

		if p.shutdown && len(p.tasks) == 0 {
			p.currentThreads.Add(-1)
			p.mu.Unlock()
			return
		}

		t := p.tasks[0]
		p.tasks = p.tasks[1:]
		p.mu.Unlock()

		if t.run == nil {
			// Poison pill from the supervisor: this worker is surplus.
			// Decrement both counters under the pool mutex, the
			// conservative accounting spec.md §9 recommends to avoid
			// racing a concurrent supervisor audit.
			p.mu.Lock()
			p.pendingStopSignals.Add(-1)
			p.currentThreads.Add(-1)
			p.mu.Unlock()
			return
		}

		routine.RunSafe(t.run, func(r interface{}) {
			p.Logger.Printf("pool: recovered panic from task: %v", r)
		})
	}
}

func (p *Pool) supervise() {
	defer p.supervisorWg.Done()

	ticker := time.NewTicker(supervisorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.supervisorStop:
			return
		case <-ticker.C:
			p.reclaimIdle()
		}
	}
}

// reclaimIdle issues one poison pill per surplus idle worker, net of stop
// signals already in flight — the conservative accounting spec.md §9's
// open question recommends, to avoid oversubscribing pills relative to
// the workers actually still idle.
func (p *Pool) reclaimIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return
	}

	idle := int32(p.waiters) - p.pendingStopSignals.Load()
	target := p.maxIdleThreads.Load()
	for idle > target {
		p.tasks = append(p.tasks, task{})
		p.cond.Signal()
		p.pendingStopSignals.Add(1)
		idle--
	}
}

// Shutdown stops accepting new work: queued-but-not-yet-claimed tasks are
// resolved with future.ErrShutdownAborted (via their onAbort, where
// present); tasks a worker already popped off the queue run to completion,
// per spec.md §5's "in-flight work runs regardless of consumer interest."
// It does not block — call Join to wait for workers to fully drain.
func (p *Pool) Shutdown() error {
	if err := p.BaseDaemon.Stop(); err != nil {
		return err
	}

	p.mu.Lock()
	p.shutdown = true
	pending := p.tasks
	p.tasks = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, t := range pending {
		if t.onAbort != nil {
			t.onAbort()
		}
	}

	close(p.supervisorStop)
	_ = p.timers.Stop()
	return nil
}

// Join blocks until every worker and the supervisor have exited, or ctx is
// done first. Call Shutdown first — Join does not itself stop the pool.
func (p *Pool) Join(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.workersWg.Wait()
		p.supervisorWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
