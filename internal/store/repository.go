// Package store defines the persistence contracts the capsule core depends
// on. Concrete implementations (internal/store/postgres, the in-memory fake
// used by tests) satisfy these interfaces; nothing above this package knows
// about SQL, Postgres, or any other storage detail.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/draft"
	"github.com/webitel/timecapsule/internal/domain/recipient"
	"github.com/webitel/timecapsule/internal/domain/user"
)

// Pagination is a 1-indexed page request, bounds-checked by the facade
// before it ever reaches a repository.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

// CapsuleFields is the set of mutable fields a repository write may touch;
// nil/zero-value pointers mean "leave unchanged". Using a fields struct
// instead of passing a full Capsule keeps partial updates (a single-field
// state transition) from clobbering concurrent writes to other columns.
type CapsuleFields struct {
	Title              *string
	Body               *string
	MediaURLs          *[]string
	Theme              *string
	AllowEarlyView     *bool
	AllowReceiverReply *bool

	State             *capsule.State
	SealedAt          *time.Time
	ScheduledUnlockAt *time.Time
	OpenedAt          *time.Time
}

// CapsuleRepository is the persistence contract from spec §4.5.
type CapsuleRepository interface {
	Get(ctx context.Context, id uuid.UUID) (capsule.Capsule, error)
	Create(ctx context.Context, c capsule.Capsule) (capsule.Capsule, error)
	Update(ctx context.Context, id uuid.UUID, fields CapsuleFields) (capsule.Capsule, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListBySender(ctx context.Context, senderID uuid.UUID, state *capsule.State, page Pagination) (capsule.Page, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, state *capsule.State, page Pagination) (capsule.Page, error)

	// Due returns every capsule in {sealed, unfolding} with a non-null
	// scheduled_unlock_at — the UnlockService's sweep input.
	Due(ctx context.Context) ([]capsule.Capsule, error)

	// TransitionState is a single-row write of state plus whichever
	// timestamp fields the transition sets.
	TransitionState(ctx context.Context, id uuid.UUID, to capsule.State, timestamps CapsuleFields) (capsule.Capsule, error)
}

type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

type DraftRepository interface {
	Get(ctx context.Context, id uuid.UUID) (draft.Draft, error)
	Create(ctx context.Context, d draft.Draft) (draft.Draft, error)
	Update(ctx context.Context, id uuid.UUID, d draft.Draft) (draft.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]draft.Draft, error)
}

type RecipientRepository interface {
	Get(ctx context.Context, id uuid.UUID) (recipient.Recipient, error)
	Create(ctx context.Context, r recipient.Recipient) (recipient.Recipient, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]recipient.Recipient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
