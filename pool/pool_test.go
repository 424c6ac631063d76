package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/saltfishpr/quokka/future"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStartedPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p := New(opts...)
	require.NoError(t, p.Start())
	t.Cleanup(func() {
		_ = p.Shutdown()
		_ = p.Join(context.Background())
	})
	return p
}

func TestExecute_Success(t *testing.T) {
	p := newStartedPool(t)

	f := Execute(p, func() (int, error) { return 42, nil })
	val, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestExecute_Error(t *testing.T) {
	p := newStartedPool(t)

	f := Execute(p, func() (int, error) { return 0, errors.New("boom") })
	_, err := f.Get()
	assert.EqualError(t, err, "boom")
}

func TestExecute_PanicRecovered(t *testing.T) {
	p := newStartedPool(t)

	f := Execute(p, func() (int, error) { panic("kaboom") })
	_, err := f.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, future.ErrPanic))
}

func TestExecuteCtx(t *testing.T) {
	p := newStartedPool(t)

	ctx := context.WithValue(context.Background(), ctxKey{}, "hi")
	f := ExecuteCtx(ctx, p, func(ctx context.Context) (string, error) {
		return ctx.Value(ctxKey{}).(string), nil
	})
	val, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, "hi", val)
}

type ctxKey struct{}

func TestPool_Elasticity(t *testing.T) {
	p := New(WithMaxThreads(4), WithMaxIdleThreads(1))
	require.NoError(t, p.Start())
	defer func() {
		_ = p.Shutdown()
		_ = p.Join(context.Background())
	}()

	var running atomic.Int32
	var peak atomic.Int32

	futures := make([]*future.Future[struct{}], 4)
	for i := range futures {
		futures[i] = Execute(p, func() (struct{}, error) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		})
	}
	for _, f := range futures {
		_, err := f.Get()
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), peak.Load())

	assert.Eventually(t, func() bool {
		return p.currentThreads.Load() <= 1
	}, time.Second, 20*time.Millisecond, "idle workers should decay toward maxIdleThreads")
}

func TestPool_ShutdownAbortsQueuedTasks(t *testing.T) {
	p := New(WithMaxThreads(1))
	require.NoError(t, p.Start())

	block := make(chan struct{})
	started := make(chan struct{})
	first := Execute(p, func() (int, error) {
		close(started)
		<-block
		return 1, nil
	})
	<-started
	queued := Execute(p, func() (int, error) { return 2, nil })

	require.NoError(t, p.Shutdown())
	close(block)

	_, err := first.Get()
	assert.NoError(t, err)

	_, err = queued.Get()
	assert.ErrorIs(t, err, future.ErrShutdownAborted)

	require.NoError(t, p.Join(context.Background()))
}

func TestPool_SubmitViaFutureExecutor(t *testing.T) {
	p := newStartedPool(t)

	f := future.Submit(p, func() (int, error) { return 7, nil })
	val, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, val)
}

func TestPool_SubmitAfter(t *testing.T) {
	p := newStartedPool(t)

	done := make(chan struct{})
	p.SubmitAfter(20*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("delayed task never ran")
	}
}
