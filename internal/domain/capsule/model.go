// Package capsule holds the capsule entity and the pure state machine that
// governs its lifecycle. Nothing in this package performs I/O.
package capsule

import (
	"time"

	"github.com/google/uuid"
)

// State is the closed enumeration a Capsule.State must always be drawn from.
type State string

const (
	StateDraft     State = "draft"
	StateSealed    State = "sealed"
	StateUnfolding State = "unfolding"
	StateReady     State = "ready"
	StateOpened    State = "opened"
)

// Capsule is the persistent time-locked message from a sender to a receiver.
type Capsule struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID

	Title     string
	Body      string
	MediaURLs []string
	Theme     string

	State State

	CreatedAt         time.Time
	SealedAt          *time.Time
	ScheduledUnlockAt *time.Time
	OpenedAt          *time.Time

	AllowEarlyView     bool
	AllowReceiverReply bool
}

// View is the projection returned to a caller after a can_view gate decision:
// either the full capsule, or metadata only with Body/MediaURLs stripped.
type View struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Title      string
	State      State

	CreatedAt         time.Time
	SealedAt          *time.Time
	ScheduledUnlockAt *time.Time
	OpenedAt          *time.Time

	// Body and MediaURLs are populated only when the view gate allows it.
	Body      *string
	MediaURLs []string
}

// Page is a single page of capsules plus the total row count for pagination.
type Page struct {
	Items []Capsule
	Total int
}
