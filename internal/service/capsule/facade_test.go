package capsule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domaincapsule "github.com/webitel/timecapsule/internal/domain/capsule"
	dclock "github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/obs"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
	"github.com/webitel/timecapsule/internal/store/storetest"
)

func newTestFacade(now time.Time) (*Facade, *storetest.FakeCapsuleRepository, *dclock.Manual) {
	repo := storetest.NewFakeCapsuleRepository()
	clk := dclock.NewManual(now)
	sm := domaincapsule.NewStateMachine(domaincapsule.DefaultParams())
	return New(repo, sm, clk, obs.NewTracer()), repo, clk
}

// TestEndToEndScenario follows the spec's literal numbered scenario:
// create, seal, two sweeps advancing the lifecycle, then open.
func TestEndToEndScenario(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	f, repo, clk := newTestFacade(t0)
	ctx := context.Background()

	// Step 1: u_A creates and seals with unlock = t0 + 10 days.
	c, err := f.CreateCapsule(ctx, uA, CreatePayload{ReceiverID: uB.ID, Title: "hello", Body: "hi"})
	require.NoError(t, err)

	sealed, err := f.SealCapsule(ctx, uA, c.ID, t0.Add(10*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, domaincapsule.StateSealed, sealed.State)
	require.Equal(t, t0, sealed.SealedAt.UTC())
	require.Equal(t, t0.Add(10*24*time.Hour), sealed.ScheduledUnlockAt.UTC())

	// Step 2: at t0+7d+1min a sweep moves it to unfolding.
	sm := domaincapsule.NewStateMachine(domaincapsule.DefaultParams())
	clk.Set(t0.Add(7*24*time.Hour + time.Minute))
	advanceOnce(t, repo, sm, clk.Now())

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domaincapsule.StateUnfolding, got.State)

	// Step 3: at t0+10d a sweep moves it to ready.
	clk.Set(t0.Add(10 * 24 * time.Hour))
	advanceOnce(t, repo, sm, clk.Now())

	got, err = repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domaincapsule.StateReady, got.State)

	// Step 4: u_B opens at t0+10d+5min.
	clk.Set(t0.Add(10*24*time.Hour + 5*time.Minute))
	opened, err := f.OpenCapsule(ctx, uB, c.ID)
	require.NoError(t, err)
	require.Equal(t, domaincapsule.StateOpened, opened.State)
	require.Equal(t, clk.Now(), opened.OpenedAt.UTC())
}

// advanceOnce mimics a single UnlockService sweep step directly against the
// repository, without pulling in the unlock package, to keep this test
// scoped to the facade + state machine boundary.
func advanceOnce(t *testing.T, repo *storetest.FakeCapsuleRepository, sm domaincapsule.StateMachine, now time.Time) {
	t.Helper()
	due, err := repo.Due(context.Background())
	require.NoError(t, err)
	for _, c := range due {
		next, ok := sm.NextState(c, now)
		if !ok {
			continue
		}
		require.NoError(t, sm.ValidateTransition(c.State, next))
		_, err := repo.TransitionState(context.Background(), c.ID, next, store.CapsuleFields{})
		require.NoError(t, err)
	}
}

func TestOpen_BeforeUnlockIsIllegalTransition(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	f, _, _ := newTestFacade(t0)
	ctx := context.Background()

	c, err := f.CreateCapsule(ctx, uA, CreatePayload{ReceiverID: uB.ID, Title: "hello", Body: "hi"})
	require.NoError(t, err)
	_, err = f.SealCapsule(ctx, uA, c.ID, t0.Add(10*24*time.Hour))
	require.NoError(t, err)

	_, err = f.OpenCapsule(ctx, uB, c.ID)
	require.Error(t, err)
	require.Equal(t, domainerr.KindIllegalTransition, domainerr.KindOf(err))
}

// TestOpen_AlreadyOpenedIsIllegalTransition follows spec.md §8 scenario 5:
// re-opening an already-opened capsule is a 400 IllegalTransition, distinct
// from the 403 Forbidden a wrong principal gets.
func TestOpen_AlreadyOpenedIsIllegalTransition(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	f, repo, clk := newTestFacade(t0)
	ctx := context.Background()

	c, err := f.CreateCapsule(ctx, uA, CreatePayload{ReceiverID: uB.ID, Title: "hello", Body: "hi"})
	require.NoError(t, err)
	_, err = f.SealCapsule(ctx, uA, c.ID, t0.Add(time.Hour))
	require.NoError(t, err)

	// Drive straight to ready without waiting out the real sweep cadence;
	// only the resulting state matters for this test.
	_, err = repo.TransitionState(ctx, c.ID, domaincapsule.StateUnfolding, store.CapsuleFields{})
	require.NoError(t, err)
	_, err = repo.TransitionState(ctx, c.ID, domaincapsule.StateReady, store.CapsuleFields{})
	require.NoError(t, err)
	clk.Set(t0.Add(time.Hour))

	_, err = f.OpenCapsule(ctx, uB, c.ID)
	require.NoError(t, err, "first open succeeds once ready")

	_, err = f.OpenCapsule(ctx, uB, c.ID)
	require.Error(t, err, "re-opening must be rejected")
	require.Equal(t, domainerr.KindIllegalTransition, domainerr.KindOf(err))

	_, err = f.OpenCapsule(ctx, uA, c.ID)
	require.Error(t, err, "wrong principal must be rejected")
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))
}

func TestSeal_BoundaryBehaviors(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	cases := []struct {
		name    string
		unlock  time.Time
		wantErr bool
	}{
		{"below min lead", t0.Add(time.Minute - time.Second), true},
		{"above min lead", t0.Add(time.Minute + time.Second), false},
		{"exactly max horizon", t0.Add(5 * 365 * 24 * time.Hour), false},
		{"above max horizon", t0.Add(5*365*24*time.Hour + time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, _, _ := newTestFacade(t0)
			c, err := f.CreateCapsule(context.Background(), uA, CreatePayload{ReceiverID: uB.ID, Title: "t", Body: "b"})
			require.NoError(t, err)

			_, err = f.SealCapsule(context.Background(), uA, c.ID, tc.unlock)
			if tc.wantErr {
				require.Error(t, err)
				require.Equal(t, domainerr.KindInvalidUnlockTime, domainerr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetCapsule_ViewGatingHidesBodyUntilVisible(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	f, _, _ := newTestFacade(t0)
	ctx := context.Background()

	c, err := f.CreateCapsule(ctx, uA, CreatePayload{ReceiverID: uB.ID, Title: "t", Body: "secret body"})
	require.NoError(t, err)
	_, err = f.SealCapsule(ctx, uA, c.ID, t0.Add(10*24*time.Hour))
	require.NoError(t, err)

	view, err := f.GetCapsule(ctx, uB, c.ID)
	require.NoError(t, err)
	require.Nil(t, view.Body)
	require.Nil(t, view.MediaURLs)

	senderView, err := f.GetCapsule(ctx, uA, c.ID)
	require.NoError(t, err)
	require.NotNil(t, senderView.Body)
	require.Equal(t, "secret body", *senderView.Body)
}

func TestUpdateCapsule_OnlySenderWhileDraft(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	f, _, _ := newTestFacade(t0)
	ctx := context.Background()

	c, err := f.CreateCapsule(ctx, uA, CreatePayload{ReceiverID: uB.ID, Title: "t", Body: "b"})
	require.NoError(t, err)

	newTitle := "new title"
	_, err = f.UpdateCapsule(ctx, uB, c.ID, UpdatePayload{Title: &newTitle})
	require.Error(t, err)
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))

	updated, err := f.UpdateCapsule(ctx, uA, c.ID, UpdatePayload{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)

	_, err = f.SealCapsule(ctx, uA, c.ID, t0.Add(10*24*time.Hour))
	require.NoError(t, err)

	_, err = f.UpdateCapsule(ctx, uA, c.ID, UpdatePayload{Title: &newTitle})
	require.Error(t, err, "cannot edit after seal")
}

func TestDeleteCapsule_OnlySenderWhileDraft(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}
	uB := user.Principal{ID: uuid.New(), IsActive: true}

	f, _, _ := newTestFacade(t0)
	ctx := context.Background()

	c, err := f.CreateCapsule(ctx, uA, CreatePayload{ReceiverID: uB.ID, Title: "t", Body: "b"})
	require.NoError(t, err)

	require.Error(t, f.DeleteCapsule(ctx, uB, c.ID))
	require.NoError(t, f.DeleteCapsule(ctx, uA, c.ID))

	_, err = f.GetCapsule(ctx, uA, c.ID)
	require.Error(t, err)
	require.Equal(t, domainerr.KindNotFound, domainerr.KindOf(err))
}

func TestList_PageSizeBounds(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uA := user.Principal{ID: uuid.New(), IsActive: true}

	f, _, _ := newTestFacade(t0)
	_, err := f.List(context.Background(), uA, BoxOutbox, nil, 1, 0)
	require.Error(t, err)
	require.Equal(t, domainerr.KindInvalidInput, domainerr.KindOf(err))

	_, err = f.List(context.Background(), uA, BoxOutbox, nil, 1, 101)
	require.Error(t, err)
}
