package unlock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockingSweeper lets a test control exactly when a sweep finishes, to
// exercise the Scheduler's max_instances=1 drop-on-overlap behavior.
type blockingSweeper struct {
	calls   atomic.Int32
	release chan struct{}
}

func newBlockingSweeper() *blockingSweeper {
	return &blockingSweeper{release: make(chan struct{})}
}

func (s *blockingSweeper) Sweep(ctx context.Context) Stats {
	s.calls.Add(1)
	<-s.release
	return Stats{Checked: 1}
}

func TestScheduler_DropsOverlappingTick(t *testing.T) {
	sweeper := newBlockingSweeper()
	sched := NewScheduler(sweeper, zaptest.NewLogger(t), WithInterval(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	defer sched.Stop()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	// Let at least one more tick land while the first sweep is still blocked.
	time.Sleep(60 * time.Millisecond)
	require.EqualValues(t, 1, sweeper.calls.Load(), "overlapping ticks must be dropped, not queued")

	close(sweeper.release)
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	sweeper := newBlockingSweeper()
	close(sweeper.release) // sweeps return immediately
	sched := NewScheduler(sweeper, zaptest.NewLogger(t), WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	sched.Start(ctx) // second call must be a no-op, not a second ticker goroutine

	defer sched.Stop()
	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopWaitsForInFlightSweep(t *testing.T) {
	sweeper := newBlockingSweeper()
	sched := NewScheduler(sweeper, zaptest.NewLogger(t), WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		sched.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before the in-flight sweep finished")
	case <-time.After(30 * time.Millisecond):
	}

	close(sweeper.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the sweep finished")
	}
}

func TestScheduler_StopOnNeverStartedIsSafe(t *testing.T) {
	sched := NewScheduler(newBlockingSweeper(), zaptest.NewLogger(t))
	sched.Stop()
}
