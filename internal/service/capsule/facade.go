// Package capsule implements the CapsuleFacade: the synchronous
// request-handling surface the HTTP layer calls into. It enforces
// principal-based authorization through the state machine and delegates all
// persistence to the store interfaces; it never talks SQL directly.
package capsule

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	domaincapsule "github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/obs"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

const (
	maxTitleLen = 255
	maxTheme    = 50
)

// Facade is the CapsuleFacade of spec §4.4.
type Facade struct {
	repo   store.CapsuleRepository
	sm     domaincapsule.StateMachine
	clock  clock.Clock
	tracer *obs.Tracer
}

func New(repo store.CapsuleRepository, sm domaincapsule.StateMachine, clk clock.Clock, tracer *obs.Tracer) *Facade {
	return &Facade{repo: repo, sm: sm, clock: clk, tracer: tracer}
}

// CreatePayload is the create_capsule input.
type CreatePayload struct {
	ReceiverID         uuid.UUID
	Title              string
	Body               string
	MediaURLs          []string
	Theme              string
	AllowEarlyView     bool
	AllowReceiverReply bool
}

func sanitizeText(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

func validateCreate(p CreatePayload) error {
	if p.ReceiverID == uuid.Nil {
		return domainerr.InvalidInput("receiver_id is required")
	}
	title := sanitizeText(p.Title, maxTitleLen)
	if title == "" {
		return domainerr.InvalidInput("title must not be empty")
	}
	if strings.TrimSpace(p.Body) == "" {
		return domainerr.InvalidInput("body must not be empty")
	}
	if len(p.Theme) > maxTheme {
		return domainerr.InvalidInput("theme exceeds maximum length")
	}
	return nil
}

// CreateCapsule persists a new draft owned by principal.
func (f *Facade) CreateCapsule(ctx context.Context, principal user.Principal, p CreatePayload) (domaincapsule.Capsule, error) {
	if err := requireActive(principal); err != nil {
		return domaincapsule.Capsule{}, err
	}
	if err := validateCreate(p); err != nil {
		return domaincapsule.Capsule{}, err
	}

	var created domaincapsule.Capsule
	err := f.tracer.Span(ctx, "capsule.create", func(ctx context.Context) error {
		now := f.clock.Now()
		c := domaincapsule.Capsule{
			SenderID:           principal.ID,
			ReceiverID:         p.ReceiverID,
			Title:              sanitizeText(p.Title, maxTitleLen),
			Body:               sanitizeText(p.Body, 1<<20),
			MediaURLs:          p.MediaURLs,
			Theme:              sanitizeText(p.Theme, maxTheme),
			State:              domaincapsule.StateDraft,
			CreatedAt:          now,
			AllowEarlyView:     p.AllowEarlyView,
			AllowReceiverReply: p.AllowReceiverReply,
		}
		var err error
		created, err = f.repo.Create(ctx, c)
		return err
	})
	return created, err
}

// UpdatePayload carries only the fields the caller declared; nil means
// "leave unchanged", matching store.CapsuleFields' partial-update contract.
type UpdatePayload struct {
	Title              *string
	Body               *string
	MediaURLs          *[]string
	Theme              *string
	AllowEarlyView     *bool
	AllowReceiverReply *bool
}

// UpdateCapsule applies patch after the can_edit gate and sanitization.
func (f *Facade) UpdateCapsule(ctx context.Context, principal user.Principal, id uuid.UUID, patch UpdatePayload) (domaincapsule.Capsule, error) {
	if err := requireActive(principal); err != nil {
		return domaincapsule.Capsule{}, err
	}

	var updated domaincapsule.Capsule
	err := f.tracer.Span(ctx, "capsule.update", func(ctx context.Context) error {
		c, err := f.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if ok, reason := f.sm.CanEdit(c, principal.ID); !ok {
			return domainerr.Forbidden(reason)
		}

		fields := store.CapsuleFields{}
		if patch.Title != nil {
			t := sanitizeText(*patch.Title, maxTitleLen)
			if t == "" {
				return domainerr.InvalidInput("title must not be empty")
			}
			fields.Title = &t
		}
		if patch.Body != nil {
			b := sanitizeText(*patch.Body, 1<<20)
			if b == "" {
				return domainerr.InvalidInput("body must not be empty")
			}
			fields.Body = &b
		}
		if patch.MediaURLs != nil {
			fields.MediaURLs = patch.MediaURLs
		}
		if patch.Theme != nil {
			th := sanitizeText(*patch.Theme, maxTheme)
			fields.Theme = &th
		}
		fields.AllowEarlyView = patch.AllowEarlyView
		fields.AllowReceiverReply = patch.AllowReceiverReply

		updated, err = f.repo.Update(ctx, id, fields)
		return err
	})
	return updated, err
}

// SealCapsule normalizes unlockTime to UTC, runs the state machine's seal
// computation, and commits state/sealed_at/scheduled_unlock_at as a single
// write.
func (f *Facade) SealCapsule(ctx context.Context, principal user.Principal, id uuid.UUID, unlockTime time.Time) (domaincapsule.Capsule, error) {
	if err := requireActive(principal); err != nil {
		return domaincapsule.Capsule{}, err
	}

	var sealed domaincapsule.Capsule
	err := f.tracer.Span(ctx, "capsule.seal", func(ctx context.Context) error {
		c, err := f.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if ok, reason := f.sm.CanSeal(c, principal.ID); !ok {
			return domainerr.Forbidden(reason)
		}

		now := f.clock.Now()
		result, err := f.sm.Seal(unlockTime.UTC(), now)
		if err != nil {
			return err
		}

		sealed, err = f.repo.Update(ctx, id, store.CapsuleFields{
			State:             &result.State,
			SealedAt:          &result.SealedAt,
			ScheduledUnlockAt: &result.ScheduledUnlockAt,
		})
		return err
	})
	return sealed, err
}

// OpenCapsule transitions ready -> opened for the receiver.
func (f *Facade) OpenCapsule(ctx context.Context, principal user.Principal, id uuid.UUID) (domaincapsule.Capsule, error) {
	if err := requireActive(principal); err != nil {
		return domaincapsule.Capsule{}, err
	}

	var opened domaincapsule.Capsule
	err := f.tracer.Span(ctx, "capsule.open", func(ctx context.Context) error {
		c, err := f.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if ok, reason, kind := f.sm.CanOpen(c, principal.ID); !ok {
			return domainerr.New(kind, reason)
		}

		now := f.clock.Now()
		opened, err = f.repo.TransitionState(ctx, id, domaincapsule.StateOpened, store.CapsuleFields{OpenedAt: &now})
		return err
	})
	return opened, err
}

// GetCapsule fetches and projects through the can_view gate: a false verdict
// strips Body and MediaURLs from the returned View.
func (f *Facade) GetCapsule(ctx context.Context, principal user.Principal, id uuid.UUID) (domaincapsule.View, error) {
	if err := requireActive(principal); err != nil {
		return domaincapsule.View{}, err
	}

	var view domaincapsule.View
	err := f.tracer.Span(ctx, "capsule.get", func(ctx context.Context) error {
		c, err := f.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		view = domaincapsule.View{
			ID: c.ID, SenderID: c.SenderID, ReceiverID: c.ReceiverID,
			Title: c.Title, State: c.State,
			CreatedAt: c.CreatedAt, SealedAt: c.SealedAt,
			ScheduledUnlockAt: c.ScheduledUnlockAt, OpenedAt: c.OpenedAt,
		}

		if ok, _ := f.sm.CanView(c, principal.ID); ok {
			body := c.Body
			view.Body = &body
			view.MediaURLs = c.MediaURLs
		}
		return nil
	})
	return view, err
}

// Box selects which side of a capsule relationship List queries.
type Box string

const (
	BoxInbox  Box = "inbox"
	BoxOutbox Box = "outbox"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1
)

// List pages through a principal's inbox or outbox, optionally filtered by state.
func (f *Facade) List(ctx context.Context, principal user.Principal, box Box, stateFilter *domaincapsule.State, page, pageSize int) (domaincapsule.Page, error) {
	if err := requireActive(principal); err != nil {
		return domaincapsule.Page{}, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return domaincapsule.Page{}, domainerr.InvalidInput("page_size out of range")
	}

	pg := store.Pagination{Page: page, PageSize: pageSize}
	var result domaincapsule.Page
	err := f.tracer.Span(ctx, "capsule.list", func(ctx context.Context) error {
		var err error
		switch box {
		case BoxInbox:
			result, err = f.repo.ListByReceiver(ctx, principal.ID, stateFilter, pg)
		case BoxOutbox:
			result, err = f.repo.ListBySender(ctx, principal.ID, stateFilter, pg)
		default:
			err = domainerr.InvalidInput("box must be inbox or outbox")
		}
		return err
	})
	return result, err
}

// DeleteCapsule removes a draft capsule the caller sent.
func (f *Facade) DeleteCapsule(ctx context.Context, principal user.Principal, id uuid.UUID) error {
	if err := requireActive(principal); err != nil {
		return err
	}

	return f.tracer.Span(ctx, "capsule.delete", func(ctx context.Context) error {
		c, err := f.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if c.SenderID != principal.ID || c.State != domaincapsule.StateDraft {
			return domainerr.Forbidden("only the sender may delete a draft capsule")
		}
		return f.repo.Delete(ctx, id)
	})
}

func requireActive(p user.Principal) error {
	if !p.IsActive {
		return domainerr.Forbidden("principal is not active")
	}
	return nil
}
