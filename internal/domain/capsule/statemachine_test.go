package capsule_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newCapsule(sender, receiver uuid.UUID) capsule.Capsule {
	return capsule.Capsule{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Title:      "hi",
		Body:       "hi",
		State:      capsule.StateDraft,
		CreatedAt:  t0,
	}
}

func TestSeal_BoundaryBehaviors(t *testing.T) {
	sm := capsule.NewStateMachine(capsule.DefaultParams())

	cases := []struct {
		name    string
		unlock  time.Time
		wantErr bool
	}{
		{"below min minus epsilon", t0.Add(1*time.Minute - time.Second), true},
		{"above min plus epsilon", t0.Add(1*time.Minute + time.Second), false},
		{"exactly max", t0.Add(5 * 365 * 24 * time.Hour), false},
		{"above max plus epsilon", t0.Add(5*365*24*time.Hour + time.Second), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sm.Seal(tc.unlock, t0)
			if tc.wantErr {
				require.Error(t, err)
				require.Equal(t, domainerr.KindInvalidUnlockTime, domainerr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNextState_SweepPhases(t *testing.T) {
	sm := capsule.NewStateMachine(capsule.DefaultParams())
	sender, receiver := uuid.New(), uuid.New()
	c := newCapsule(sender, receiver)
	c.State = capsule.StateSealed
	unlock := t0.Add(10 * 24 * time.Hour)
	c.ScheduledUnlockAt = &unlock
	sealedAt := t0
	c.SealedAt = &sealedAt

	// Before the early-view window: no transition.
	_, ok := sm.NextState(c, t0.Add(6*24*time.Hour))
	require.False(t, ok)

	// Inside the early-view window: sealed -> unfolding.
	next, ok := sm.NextState(c, t0.Add(7*24*time.Hour+time.Minute))
	require.True(t, ok)
	require.Equal(t, capsule.StateUnfolding, next)

	// Still unfolding before unlock instant: no further transition.
	c.State = capsule.StateUnfolding
	_, ok = sm.NextState(c, t0.Add(9*24*time.Hour))
	require.False(t, ok)

	// At/after unlock instant: unfolding -> ready.
	next, ok = sm.NextState(c, t0.Add(10*24*time.Hour))
	require.True(t, ok)
	require.Equal(t, capsule.StateReady, next)

	// Terminal states never advance.
	c.State = capsule.StateOpened
	_, ok = sm.NextState(c, t0.Add(100*24*time.Hour))
	require.False(t, ok)
}

func TestNextState_CatchUpAfterDowntime(t *testing.T) {
	sm := capsule.NewStateMachine(capsule.DefaultParams())
	sender, receiver := uuid.New(), uuid.New()
	c := newCapsule(sender, receiver)
	c.State = capsule.StateSealed
	unlock := t0.Add(1 * time.Hour)
	c.ScheduledUnlockAt = &unlock

	// A sweep running long after unlock still moves one hop only: sealed ->
	// unfolding, then unfolding -> ready on the next evaluation.
	next, ok := sm.NextState(c, t0.Add(365*24*time.Hour))
	require.True(t, ok)
	require.Equal(t, capsule.StateUnfolding, next)

	c.State = capsule.StateUnfolding
	next, ok = sm.NextState(c, t0.Add(365*24*time.Hour))
	require.True(t, ok)
	require.Equal(t, capsule.StateReady, next)
}

func TestValidateTransition(t *testing.T) {
	require.NoError(t, capsule.ValidateTransition(capsule.StateSealed, capsule.StateUnfolding))
	require.NoError(t, capsule.ValidateTransition(capsule.StateUnfolding, capsule.StateReady))
	err := capsule.ValidateTransition(capsule.StateSealed, capsule.StateReady)
	require.Error(t, err)
	require.Equal(t, domainerr.KindIllegalTransition, domainerr.KindOf(err))
}

func TestGates(t *testing.T) {
	sm := capsule.NewStateMachine(capsule.DefaultParams())
	sender, receiver := uuid.New(), uuid.New()
	stranger := uuid.New()

	t.Run("can_edit only sender in draft", func(t *testing.T) {
		c := newCapsule(sender, receiver)
		ok, _ := sm.CanEdit(c, sender)
		require.True(t, ok)
		ok, _ = sm.CanEdit(c, receiver)
		require.False(t, ok)

		c.State = capsule.StateSealed
		ok, reason := sm.CanEdit(c, sender)
		require.False(t, ok)
		require.Contains(t, reason, "sealed")
	})

	t.Run("can_open only receiver when ready", func(t *testing.T) {
		c := newCapsule(sender, receiver)
		c.State = capsule.StateReady
		ok, _, _ := sm.CanOpen(c, receiver)
		require.True(t, ok)

		ok, _, kind := sm.CanOpen(c, sender)
		require.False(t, ok)
		require.Equal(t, domainerr.KindForbidden, kind, "wrong principal is a permission failure")

		c.State = capsule.StateOpened
		ok, reason, kind := sm.CanOpen(c, receiver)
		require.False(t, ok)
		require.Contains(t, reason, "already opened")
		require.Equal(t, domainerr.KindIllegalTransition, kind, "re-opening is a state failure, not a permission failure")
	})

	t.Run("can_view rules", func(t *testing.T) {
		c := newCapsule(sender, receiver)
		c.State = capsule.StateUnfolding
		c.AllowEarlyView = false

		ok, _ := sm.CanView(c, sender)
		require.True(t, ok, "sender can always view")

		ok, _ = sm.CanView(c, receiver)
		require.False(t, ok, "receiver without early view and not opened")

		ok, _ = sm.CanView(c, stranger)
		require.False(t, ok)

		c.AllowEarlyView = true
		ok, _ = sm.CanView(c, receiver)
		require.True(t, ok)

		c.State = capsule.StateOpened
		c.AllowEarlyView = false
		ok, _ = sm.CanView(c, receiver)
		require.True(t, ok, "opened is always viewable by receiver")
	})
}
