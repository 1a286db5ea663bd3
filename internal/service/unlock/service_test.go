package unlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	dclock "github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/obs"
	"github.com/webitel/timecapsule/internal/service/notifier"
	"github.com/webitel/timecapsule/internal/store/storetest"
)

func newTestService(t *testing.T, now time.Time) (*Service, *storetest.FakeCapsuleRepository, *dclock.Manual) {
	t.Helper()
	repo := storetest.NewFakeCapsuleRepository()
	clk := dclock.NewManual(now)
	sm := capsule.NewStateMachine(capsule.DefaultParams())
	svc := New(repo, sm, clk, notifier.Noop{}, zaptest.NewLogger(t), obs.NewTracer())
	return svc, repo, clk
}

func TestSweep_AdvancesSealedToUnfoldingWithinEarlyWindow(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(t, t0)

	unlock := t0.Add(2 * 24 * time.Hour) // inside the 3-day early-view window
	sealedAt := t0.Add(-time.Hour)
	c := repo.Seed(capsule.Capsule{
		ID: uuid.New(), SenderID: uuid.New(), ReceiverID: uuid.New(),
		State: capsule.StateSealed, SealedAt: &sealedAt, ScheduledUnlockAt: &unlock,
	})

	stats := svc.Sweep(context.Background())
	require.Equal(t, 1, stats.Checked)
	require.Equal(t, 1, stats.SealedToUnfold)
	require.Equal(t, 0, stats.Errors)

	got, err := repo.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, capsule.StateUnfolding, got.State)
}

func TestSweep_DoesNotMultiHopInOneSweep(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(t, t0)

	// Overdue by a year: a single sweep must land on unfolding only, never
	// jump straight to ready, preserving the observable unfolding phase.
	unlock := t0.Add(-365 * 24 * time.Hour)
	sealedAt := t0.Add(-366 * 24 * time.Hour)
	c := repo.Seed(capsule.Capsule{
		ID: uuid.New(), SenderID: uuid.New(), ReceiverID: uuid.New(),
		State: capsule.StateSealed, SealedAt: &sealedAt, ScheduledUnlockAt: &unlock,
	})

	stats := svc.Sweep(context.Background())
	require.Equal(t, 1, stats.SealedToUnfold)
	require.Equal(t, 0, stats.UnfoldingToReady)

	got, _ := repo.Get(context.Background(), c.ID)
	require.Equal(t, capsule.StateUnfolding, got.State)

	// A second sweep, same "now" reading, catches up the rest.
	stats2 := svc.Sweep(context.Background())
	require.Equal(t, 1, stats2.UnfoldingToReady)

	got2, _ := repo.Get(context.Background(), c.ID)
	require.Equal(t, capsule.StateReady, got2.State)
}

func TestSweep_IgnoresDraftAndOpenedAndNotYetDue(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(t, t0)

	farUnlock := t0.Add(30 * 24 * time.Hour)
	sealedAt := t0
	repo.Seed(capsule.Capsule{ID: uuid.New(), State: capsule.StateDraft})
	repo.Seed(capsule.Capsule{ID: uuid.New(), State: capsule.StateOpened})
	repo.Seed(capsule.Capsule{ID: uuid.New(), State: capsule.StateSealed, SealedAt: &sealedAt, ScheduledUnlockAt: &farUnlock})

	stats := svc.Sweep(context.Background())
	require.Equal(t, 1, stats.Checked, "only the sealed-with-unlock-time capsule is due")
	require.Equal(t, 0, stats.SealedToUnfold, "unlock is still outside the early-view window")
}

func TestSweep_PerCapsuleFailureIsIsolated(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(t, t0)

	unlock := t0
	sealedAt := t0.Add(-time.Hour)
	ok := repo.Seed(capsule.Capsule{
		ID: uuid.New(), State: capsule.StateUnfolding, SealedAt: &sealedAt, ScheduledUnlockAt: &unlock,
	})
	broken := repo.Seed(capsule.Capsule{
		ID: uuid.New(), State: capsule.StateUnfolding, SealedAt: &sealedAt, ScheduledUnlockAt: &unlock,
	})
	repo.FailOn = map[uuid.UUID]error{broken.ID: errors.New("simulated write failure")}

	stats := svc.Sweep(context.Background())
	require.Equal(t, 2, stats.Checked)
	require.Equal(t, 1, stats.UnfoldingToReady)
	require.Equal(t, 1, stats.Errors)

	gotOK, _ := repo.Get(context.Background(), ok.ID)
	require.Equal(t, capsule.StateReady, gotOK.State)
}
