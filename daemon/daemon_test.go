package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseDaemon_StartStopLifecycle(t *testing.T) {
	var d BaseDaemon
	assert.Equal(t, DaemonStateInitialized, d.State())
	assert.False(t, d.Started())

	assert.NoError(t, d.Start())
	assert.True(t, d.Started())
	assert.Equal(t, DaemonStateStarted, d.State())

	assert.NoError(t, d.Stop())
	assert.False(t, d.Started())
	assert.Equal(t, DaemonStateStopped, d.State())
}

func TestBaseDaemon_DoubleStartFails(t *testing.T) {
	var d BaseDaemon
	assert.NoError(t, d.Start())
	assert.ErrorIs(t, d.Start(), ErrDaemonStartFailed)
}

func TestBaseDaemon_StopWithoutStartFails(t *testing.T) {
	var d BaseDaemon
	assert.ErrorIs(t, d.Stop(), ErrDaemonStopFailed)
}

func TestBaseDaemon_DoubleStopFails(t *testing.T) {
	var d BaseDaemon
	assert.NoError(t, d.Start())
	assert.NoError(t, d.Stop())
	assert.ErrorIs(t, d.Stop(), ErrDaemonStopFailed)
}
