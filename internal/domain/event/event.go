// Package event defines the lifecycle-transition signals the UnlockService
// emits. A single Eventer value flows to both delivery transports the
// Notifier uses — the AMQP publisher and the websocket presence push —
// exactly as the teacher's Eventer served both its gRPC and AMQP paths.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/capsule"
)

// Kind distinguishes the two notification-worthy transitions.
type Kind int16

const (
	CapsuleUnfolding Kind = iota + 1 // sealed -> unfolding, the early-warning
	CapsuleReady                     // unfolding -> ready, the ready-to-open signal
)

func (k Kind) String() string {
	switch k {
	case CapsuleUnfolding:
		return "capsule.unfolding"
	case CapsuleReady:
		return "capsule.ready"
	default:
		return "capsule.unknown"
	}
}

// Eventer is the contract every transition signal satisfies.
type Eventer interface {
	GetID() string
	GetKind() Kind
	GetCapsuleID() uuid.UUID
	GetReceiverID() uuid.UUID
	GetOccurredAt() time.Time
	GetRoutingKey() string
}

var _ Eventer = (*TransitionEvent)(nil)

// TransitionEvent is the sole Eventer implementation: one capsule, one
// transition, one instant.
type TransitionEvent struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	CapsuleID  uuid.UUID `json:"capsule_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *TransitionEvent) GetID() string                { return e.ID }
func (e *TransitionEvent) GetKind() Kind                 { return e.Kind }
func (e *TransitionEvent) GetCapsuleID() uuid.UUID       { return e.CapsuleID }
func (e *TransitionEvent) GetReceiverID() uuid.UUID      { return e.ReceiverID }
func (e *TransitionEvent) GetOccurredAt() time.Time      { return e.OccurredAt }
func (e *TransitionEvent) GetRoutingKey() string         { return e.Kind.String() }

// NewTransitionEvent builds the event for a capsule that just landed in to.
func NewTransitionEvent(c capsule.Capsule, to capsule.State, now time.Time) *TransitionEvent {
	var kind Kind
	switch to {
	case capsule.StateUnfolding:
		kind = CapsuleUnfolding
	case capsule.StateReady:
		kind = CapsuleReady
	}
	return &TransitionEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		CapsuleID:  c.ID,
		ReceiverID: c.ReceiverID,
		OccurredAt: now,
	}
}
