// Package timer provides an ordered-by-trigger-time store of scheduled
// callbacks: one-shot, periodic, and bounded-repeat timers, plus
// cancellation — the driver behind Executor.SubmitAfter / Scheduler's
// schedule_after.
//
// Go has no ordered multimap, so Manager keeps pending timers in a
// container/heap min-heap keyed by trigger time, with a monotonic sequence
// number breaking ties between timers due at the same instant.
package timer

import (
	"container/heap"
	"log"
	"math"
	"sync"
	"time"

	"github.com/saltfishpr/quokka/daemon"
	"github.com/saltfishpr/quokka/routine"
)

// ID identifies a scheduled timer for later cancellation.
type ID uint64

// Forever marks a repeat count as unbounded.
const Forever = -1

// Infinite is the duration NearestTimer returns when no timer is pending.
const Infinite = time.Duration(math.MaxInt64)

// minPeriod is the minimum clamp applied to a repeat interval, preventing a
// misconfigured period from degenerating into a tight loop.
const minPeriod = time.Millisecond

// Manager maintains the heap of pending timers and, once Start is called,
// a background goroutine that wakes for the nearest one and drives Update
// itself — the Go-native counterpart to a caller manually ticking update()
// from its own event loop.
type Manager struct {
	daemon.BaseDaemon

	Logger *log.Logger

	mu      sync.Mutex
	items   timerHeap
	byID    map[ID]*timerItem
	nextID  ID
	nextSeq uint64

	wake   chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithLogger sets the logger used to report recovered panics from the
// background loop. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.Logger = l }
}

// NewManager creates a Manager. Call Start to begin the background
// driving loop; Update may also be called directly without Start, for
// callers that prefer to drive expirations themselves.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		byID:   make(map[ID]*timerItem),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		Logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ScheduleAt schedules a one-shot callback at the absolute time t.
func (m *Manager) ScheduleAt(t time.Time, fn func()) ID {
	return m.scheduleAtWithRepeat(t, 0, 1, fn)
}

// ScheduleAfter schedules a one-shot callback after delay.
func (m *Manager) ScheduleAfter(delay time.Duration, fn func()) ID {
	return m.ScheduleAt(time.Now().Add(delay), fn)
}

// ScheduleAtWithRepeat fires first at t, then every period, up to count
// times total. count <= 0 means Forever.
func (m *Manager) ScheduleAtWithRepeat(t time.Time, period time.Duration, count int, fn func()) ID {
	return m.scheduleAtWithRepeat(t, period, count, fn)
}

// ScheduleAfterWithRepeat fires first at now+period, then every period, up
// to count times total. count <= 0 means Forever.
func (m *Manager) ScheduleAfterWithRepeat(period time.Duration, count int, fn func()) ID {
	return m.scheduleAtWithRepeat(time.Now().Add(period), period, count, fn)
}

func (m *Manager) scheduleAtWithRepeat(t time.Time, period time.Duration, count int, fn func()) ID {
	if period > 0 && period < minPeriod {
		period = minPeriod
	}
	remaining := count
	if count <= 0 {
		remaining = Forever
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.nextSeq++
	item := &timerItem{
		id:        id,
		seq:       m.nextSeq,
		trigger:   t,
		period:    period,
		remaining: remaining,
		fn:        fn,
	}
	m.byID[id] = item
	heap.Push(&m.items, item)
	m.mu.Unlock()

	m.notify()
	return id
}

// Cancel marks id's remaining fire count to 0. Safe to call after the
// timer has already fired or expired — it simply reports false.
func (m *Manager) Cancel(id ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.byID[id]
	if !ok {
		return false
	}
	item.remaining = 0
	delete(m.byID, id)
	return true
}

// NearestTimer reports how long until the next timer is due, Infinite if
// none are pending, or 0 if one is already due.
func (m *Manager) NearestTimer(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return Infinite
	}
	d := m.items[0].trigger.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Update fires every timer whose trigger time is at or before now,
// re-inserting those with fires remaining. A panic from any callback is
// recovered so the remaining due timers in this pass still get a chance to
// fire, then re-raised to the caller of Update once the pass completes.
func (m *Manager) Update(now time.Time) {
	var firstPanic *routine.Recovered

	for {
		item, ok := m.popDue(now)
		if !ok {
			break
		}

		routine.RunSafe(item.fn, func(r interface{}) {
			if firstPanic == nil {
				firstPanic = routine.NewRecovered(2, r)
			}
		})

		m.requeueOrDrop(item)
	}

	if firstPanic != nil {
		panic(firstPanic.Value)
	}
}

// popDue removes and returns the next due, live timer, skipping over any
// that were cancelled (remaining == 0) while sitting in the heap.
func (m *Manager) popDue(now time.Time) (*timerItem, bool) {
	for {
		m.mu.Lock()
		if len(m.items) == 0 || m.items[0].trigger.After(now) {
			m.mu.Unlock()
			return nil, false
		}
		item := heap.Pop(&m.items).(*timerItem)
		cancelled := item.remaining == 0
		m.mu.Unlock()

		if cancelled {
			continue
		}
		return item, true
	}
}

func (m *Manager) requeueOrDrop(item *timerItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.remaining != Forever {
		item.remaining--
	}
	if item.remaining == 0 {
		delete(m.byID, item.id)
		return
	}
	item.trigger = item.trigger.Add(item.period)
	heap.Push(&m.items, item)
}

func (m *Manager) notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Start begins the background loop that drives Update automatically,
// waking whenever the nearest timer is due or a new timer is scheduled
// earlier than the current wakeup.
func (m *Manager) Start() error {
	if err := m.BaseDaemon.Start(); err != nil {
		return err
	}
	m.wg.Add(1)
	go m.loop()
	return nil
}

// Stop halts the background loop and waits for it to exit. Timers still
// pending are simply abandoned — Manager carries no persistence.
func (m *Manager) Stop() error {
	if err := m.BaseDaemon.Stop(); err != nil {
		return err
	}
	close(m.stopCh)
	m.wg.Wait()
	return nil
}

func (m *Manager) loop() {
	defer m.wg.Done()

	t := time.NewTimer(m.NearestTimer(time.Now()))
	defer t.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-m.wake:
			drainTimer(t)
			t.Reset(m.NearestTimer(time.Now()))
		case <-t.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						m.Logger.Printf("timer: recovered panic from Update: %v", r)
					}
				}()
				m.Update(time.Now())
			}()
			t.Reset(m.NearestTimer(time.Now()))
		}
	}
}

func drainTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
