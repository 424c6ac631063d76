package future

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// progress mirrors spec.md §3's state machine:
//
//	None --set_value/set_exception--> Done --wait()--> Retrieved
//	 |                                  |
//	 '--timeout fires----------------> Timeout
//
// progressDoing is a transient value held only for the instant between
// claiming the None->Done transition and finishing the write of val/err, so
// a second concurrent Set sees a non-None state and backs off instead of
// racing on the write.
type progress uint32

const (
	progressNone progress = iota
	progressDoing
	progressDone
	progressTimeout
	progressRetrieved
)

type state[T any] struct {
	noCopy noCopy

	prog atomic.Uint32
	done chan struct{}
	once sync.Once

	val T
	err error

	stack unsafe.Pointer // *callback[T]
}

func newState[T any]() *state[T] {
	return &state[T]{}
}

func (s *state[T]) lazyInit() {
	s.once.Do(func() {
		s.done = make(chan struct{})
	})
}

func (s *state[T]) progress() progress {
	return progress(s.prog.Load())
}

// set implements Promise.Set/SetSafety. Returns false if the state had
// already left None (Done or Timeout).
func (s *state[T]) set(val T, err error) bool {
	if !s.prog.CompareAndSwap(uint32(progressNone), uint32(progressDoing)) {
		return false
	}
	s.val = val
	s.err = err
	s.prog.Store(uint32(progressDone))

	s.lazyInit()
	close(s.done)

	s.runCallbacks(val, err)
	return true
}

// fireTimeout implements the on_timeout transition: None->Timeout. Returns
// false if the state had already left None — the timeout task is then a
// no-op, per spec.md §4.5.
func (s *state[T]) fireTimeout() bool {
	if !s.prog.CompareAndSwap(uint32(progressNone), uint32(progressTimeout)) {
		return false
	}
	s.lazyInit()
	close(s.done)
	s.runTimeoutCallbacks()
	return true
}

// retrieve implements the Done->Retrieved transition used by Future.Wait.
func (s *state[T]) retrieve() bool {
	return s.prog.CompareAndSwap(uint32(progressDone), uint32(progressRetrieved))
}

// get blocks until the state is Done (or already Retrieved) and returns the
// outcome, or fails ErrWrongStateTimeout if the state transitioned to
// Timeout instead. It never transitions to Retrieved — it is the permissive,
// repeat-call-safe accessor kept for compatibility with the teacher's
// original Future.Get. Future.Wait implements the stricter, spec-mandated
// single-consumption semantics.
func (s *state[T]) get() (T, error) {
	if p := s.progress(); p == progressDone || p == progressRetrieved {
		return s.val, s.err
	}
	s.lazyInit()
	<-s.done
	if s.progress() == progressTimeout {
		var zero T
		return zero, ErrWrongStateTimeout
	}
	return s.val, s.err
}

func (s *state[T]) subscribe(cb func(T, error)) {
	newCb := &callback[T]{f: cb}
	for {
		oldCb := (*callback[T])(atomic.LoadPointer(&s.stack))

		switch s.progress() {
		case progressDone, progressRetrieved:
			cb(s.val, s.err)
			return
		case progressTimeout:
			var zero T
			cb(zero, ErrWrongStateTimeout)
			return
		}

		newCb.next = oldCb
		if atomic.CompareAndSwapPointer(&s.stack, unsafe.Pointer(oldCb), unsafe.Pointer(newCb)) {
			switch s.progress() {
			case progressDone, progressRetrieved:
				newCb.execOnce(s.val, s.err)
			case progressTimeout:
				var zero T
				newCb.execOnce(zero, ErrWrongStateTimeout)
			}
			return
		}
	}
}

func (s *state[T]) runCallbacks(val T, err error) {
	for {
		head := (*callback[T])(atomic.LoadPointer(&s.stack))
		if head == nil {
			break
		}
		if atomic.CompareAndSwapPointer(&s.stack, unsafe.Pointer(head), unsafe.Pointer(head.next)) {
			head.execOnce(val, err)
			head.next = nil
		}
	}
}

// runTimeoutCallbacks drains any callbacks queued by subscribe between its
// progress check and its stack push racing against this timeout, delivering
// ErrWrongStateTimeout to each rather than leaving them stranded forever —
// fireTimeout never produces a val/err pair of its own to hand them.
func (s *state[T]) runTimeoutCallbacks() {
	var zero T
	for {
		head := (*callback[T])(atomic.LoadPointer(&s.stack))
		if head == nil {
			break
		}
		if atomic.CompareAndSwapPointer(&s.stack, unsafe.Pointer(head), unsafe.Pointer(head.next)) {
			head.execOnce(zero, ErrWrongStateTimeout)
			head.next = nil
		}
	}
}

func (s *state[T]) isDone() bool {
	p := s.progress()
	return p == progressDone || p == progressRetrieved
}

func (s *state[T]) isFree() bool {
	return s.progress() == progressNone
}

type callback[T any] struct {
	once sync.Once

	f    func(T, error)
	next *callback[T]
}

func (cb *callback[T]) execOnce(val T, err error) {
	cb.once.Do(func() {
		cb.f(val, err)
	})
}

// noCopy can be added to a struct that must not be copied after first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527.
//
// It must not be embedded by pointer, because of the Lock/Unlock methods.
type noCopy struct{}

// Lock is a no-op used by go vet's -copylocks checker.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
