package capsule

import (
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

// Params carries the thresholds the StateMachine is parameterized on. All
// three have defaults matching spec: EarlyView=3 days, MinUnlock=1 minute,
// MaxUnlock=5 years.
type Params struct {
	EarlyView time.Duration
	MinUnlock time.Duration
	MaxUnlock time.Duration
}

// DefaultParams returns the configuration defaults named in the spec.
func DefaultParams() Params {
	return Params{
		EarlyView: 3 * 24 * time.Hour,
		MinUnlock: 1 * time.Minute,
		MaxUnlock: 5 * 365 * 24 * time.Hour,
	}
}

// StateMachine is pure and stateless: every method takes its inputs
// explicitly (capsule snapshot, principal, "now") and returns a decision. It
// never suspends and never reads a clock itself.
type StateMachine struct {
	Params Params
}

func NewStateMachine(p Params) StateMachine {
	return StateMachine{Params: p}
}

// NextState implements spec §4.1.2's next_state: the sole time-driven
// transition decision, expressed only in terms of (state, unlock, now) —
// there is no "elapsed since last tick" term. It returns at most one hop: an
// overdue sealed capsule moves to unfolding, and reaches ready only on a
// later evaluation.
func (sm StateMachine) NextState(c Capsule, now time.Time) (State, bool) {
	if c.State == StateDraft || c.State == StateOpened {
		return "", false
	}
	if c.ScheduledUnlockAt == nil {
		return "", false
	}
	unlock := *c.ScheduledUnlockAt

	switch c.State {
	case StateSealed:
		if !unlock.After(now.Add(sm.Params.EarlyView)) {
			return StateUnfolding, true
		}
	case StateUnfolding:
		if !now.Before(unlock) {
			return StateReady, true
		}
	}
	return "", false
}

// ValidateTransition rejects any edge absent from the lifecycle DAG.
func ValidateTransition(from, to State) error {
	legal := map[State]State{
		StateDraft:     StateSealed,
		StateSealed:    StateUnfolding,
		StateUnfolding: StateReady,
		StateReady:     StateOpened,
	}
	if want, ok := legal[from]; !ok || want != to {
		return domainerr.IllegalTransition("no such edge: " + string(from) + " -> " + string(to))
	}
	return nil
}

// ValidateTransition is the method form, used by callers already holding a
// StateMachine value.
func (sm StateMachine) ValidateTransition(from, to State) error {
	return ValidateTransition(from, to)
}

// SealResult is the write the facade commits on a successful seal.
type SealResult struct {
	State             State
	SealedAt          time.Time
	ScheduledUnlockAt time.Time
}

// Seal validates and computes the draft -> sealed transition.
func (sm StateMachine) Seal(unlockTime, now time.Time) (SealResult, error) {
	if !unlockTime.After(now.Add(sm.Params.MinUnlock)) {
		return SealResult{}, domainerr.InvalidUnlockTime("unlock time must be at least the minimum lead time in the future")
	}
	if unlockTime.After(now.Add(sm.Params.MaxUnlock)) {
		return SealResult{}, domainerr.InvalidUnlockTime("unlock time exceeds the maximum allowed horizon")
	}
	return SealResult{
		State:             StateSealed,
		SealedAt:          now,
		ScheduledUnlockAt: unlockTime,
	}, nil
}

// CanEdit: true iff principal is the sender and the capsule is still a draft.
func (sm StateMachine) CanEdit(c Capsule, principal uuid.UUID) (bool, string) {
	if c.SenderID != principal {
		return false, "only the sender may edit this capsule"
	}
	if c.State != StateDraft {
		return false, "cannot edit capsule in " + string(c.State) + " state"
	}
	return true, ""
}

// CanSeal: true iff principal is the sender and the capsule is still a draft.
func (sm StateMachine) CanSeal(c Capsule, principal uuid.UUID) (bool, string) {
	if c.SenderID != principal {
		return false, "only the sender may seal this capsule"
	}
	if c.State != StateDraft {
		return false, "cannot seal capsule in " + string(c.State) + " state"
	}
	return true, ""
}

// CanOpen: true iff principal is the receiver and the capsule is ready. The
// returned Kind tells the caller which domainerr category the rejection
// belongs to: Forbidden for a wrong principal, IllegalTransition for the
// right principal hitting a capsule that isn't in the ready state.
func (sm StateMachine) CanOpen(c Capsule, principal uuid.UUID) (bool, string, domainerr.Kind) {
	if c.ReceiverID != principal {
		return false, "only the receiver may open this capsule", domainerr.KindForbidden
	}
	if c.State == StateOpened {
		return false, "capsule is already opened", domainerr.KindIllegalTransition
	}
	if c.State != StateReady {
		return false, "capsule is not ready to be opened", domainerr.KindIllegalTransition
	}
	return true, "", ""
}

// CanView decides whether the caller's projection includes the body.
func (sm StateMachine) CanView(c Capsule, principal uuid.UUID) (bool, string) {
	if c.SenderID == principal {
		return true, ""
	}
	if c.ReceiverID == principal {
		if c.State == StateOpened {
			return true, ""
		}
		if c.AllowEarlyView && (c.State == StateUnfolding || c.State == StateReady) {
			return true, ""
		}
		return false, "capsule is not yet open"
	}
	return false, "not a participant in this capsule"
}
