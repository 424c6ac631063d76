package future

import (
	"fmt"

	"github.com/saltfishpr/quokka/bizerrors"
)

// Error taxonomy carried as data inside Outcome.Exception, per the
// propagation policy: API misuse is raised to the caller directly, failures
// inside user callables are captured into the Outcome and never thrown
// across a scheduling boundary.
//
// Each sentinel also carries a bizerrors.Code so a caller bridging this
// toolkit to an RPC layer can map a failure to a wire code without matching
// on error text.
const (
	CodeAlreadyRetrieved     int32 = iota + 1000
	CodeWrongStateTimeout
	CodeWaitTimeout
	CodeUninitializedOutcome
	CodeNotExceptionState
	CodePanic
	CodeShutdownAborted
)

var (
	// ErrAlreadyRetrieved is returned by Promise.Future on its second call,
	// and by Future.Wait when the state already transitioned Done->Retrieved.
	ErrAlreadyRetrieved = bizerrors.New(CodeAlreadyRetrieved, "future already retrieved")

	// ErrWrongStateTimeout is returned when installing a continuation on, or
	// waiting/extracting from, a Future whose state already transitioned to
	// Timeout.
	ErrWrongStateTimeout = bizerrors.New(CodeWrongStateTimeout, "wrong state: timeout")

	// ErrWaitTimeout is returned by Future.Wait when its deadline elapses
	// before the state becomes Done.
	ErrWaitTimeout = bizerrors.New(CodeWaitTimeout, "wait timeout")

	// ErrUninitializedOutcome is returned by Outcome.Value on an Outcome that
	// was never assigned a value or an exception.
	ErrUninitializedOutcome = bizerrors.New(CodeUninitializedOutcome, "uninitialized outcome")

	// ErrNotExceptionState is returned by Outcome.Exception on an Outcome
	// that holds a value rather than an exception.
	ErrNotExceptionState = bizerrors.New(CodeNotExceptionState, "not exception state")

	// ErrPanic wraps a recovered panic from a user callable running on a
	// worker or scheduler thread. The original panic value is preserved in
	// the error message (no stack trace of the panic is kept), the Go
	// analogue of capturing a std::exception_ptr.
	ErrPanic = bizerrors.New(CodePanic, "async panic")

	// ErrShutdownAborted resolves promises for tasks still queued, but not
	// yet started, when a Pool is shut down (spec.md §9's recommended
	// resolution of the abandoned-task Open Question).
	ErrShutdownAborted = bizerrors.New(CodeShutdownAborted, "task aborted: pool shut down")
)

// WrapPanic converts a recover()ed value into an ErrPanic-tagged error,
// preserving the original panic's message.
func WrapPanic(r interface{}) error {
	return fmt.Errorf("%w: %v", ErrPanic, r)
}
