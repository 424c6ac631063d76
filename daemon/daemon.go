package daemon

import (
	"sync/atomic"

	"github.com/saltfishpr/quokka/errors"
)

var (
	ErrDaemonStartFailed = errors.New("daemon already started or stopped")
	ErrDaemonStopFailed  = errors.New("daemon not started or already stopped")
)

const (
	DaemonStateInitialized int32 = iota
	DaemonStateStarted
	DaemonStateStopped
)

type BaseDaemon struct {
	state atomic.Int32
}

func (d *BaseDaemon) Start() error {
	if d.state.CompareAndSwap(DaemonStateInitialized, DaemonStateStarted) {
		return nil
	}
	return ErrDaemonStartFailed
}

func (d *BaseDaemon) Stop() error {
	if d.state.CompareAndSwap(DaemonStateStarted, DaemonStateStopped) {
		return nil
	}
	return ErrDaemonStopFailed
}

// State returns the current lifecycle state (DaemonStateInitialized,
// DaemonStateStarted, or DaemonStateStopped).
func (d *BaseDaemon) State() int32 {
	return d.state.Load()
}

// Started reports whether Start has succeeded and Stop has not yet.
func (d *BaseDaemon) Started() bool {
	return d.state.Load() == DaemonStateStarted
}
