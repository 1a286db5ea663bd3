// Package personal implements the two self-contained extras a sender uses
// before a capsule exists: draft autosave and the saved-recipients address
// book. Both sit beside the capsule facade rather than inside it — neither
// has a state machine or an unlock concept of its own.
package personal

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/domain/draft"
	"github.com/webitel/timecapsule/internal/domain/recipient"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

// Service is the draft-autosave and saved-recipients facade.
type Service struct {
	drafts     store.DraftRepository
	recipients store.RecipientRepository
	clock      clock.Clock
}

func New(drafts store.DraftRepository, recipients store.RecipientRepository, clk clock.Clock) *Service {
	return &Service{drafts: drafts, recipients: recipients, clock: clk}
}

// DraftPayload carries a draft's full current value; autosave always
// overwrites rather than patching a subset of fields.
type DraftPayload struct {
	Title       string
	Body        string
	MediaURLs   []string
	Theme       string
	RecipientID *uuid.UUID
}

// SaveDraft creates a new draft when id is nil, or overwrites an existing
// one the caller owns.
func (s *Service) SaveDraft(ctx context.Context, principal user.Principal, id *uuid.UUID, p DraftPayload) (draft.Draft, error) {
	if err := requireActive(principal); err != nil {
		return draft.Draft{}, err
	}

	now := s.clock.Now()
	d := draft.Draft{
		OwnerID:     principal.ID,
		Title:       strings.TrimSpace(p.Title),
		Body:        p.Body,
		MediaURLs:   p.MediaURLs,
		Theme:       p.Theme,
		RecipientID: p.RecipientID,
		UpdatedAt:   now,
	}

	if id == nil {
		d.ID = uuid.New()
		d.CreatedAt = now
		return s.drafts.Create(ctx, d)
	}

	existing, err := s.drafts.Get(ctx, *id)
	if err != nil {
		return draft.Draft{}, err
	}
	if existing.OwnerID != principal.ID {
		return draft.Draft{}, domainerr.Forbidden("only the owner may update this draft")
	}
	return s.drafts.Update(ctx, *id, d)
}

func (s *Service) GetDraft(ctx context.Context, principal user.Principal, id uuid.UUID) (draft.Draft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return draft.Draft{}, err
	}
	if d.OwnerID != principal.ID {
		return draft.Draft{}, domainerr.Forbidden("only the owner may view this draft")
	}
	return d, nil
}

func (s *Service) ListDrafts(ctx context.Context, principal user.Principal) ([]draft.Draft, error) {
	return s.drafts.ListByOwner(ctx, principal.ID)
}

func (s *Service) DeleteDraft(ctx context.Context, principal user.Principal, id uuid.UUID) error {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.OwnerID != principal.ID {
		return domainerr.Forbidden("only the owner may delete this draft")
	}
	return s.drafts.Delete(ctx, id)
}

// RecipientPayload is add_recipient's input.
type RecipientPayload struct {
	Name   string
	Email  *string
	UserID *uuid.UUID
}

func (s *Service) AddRecipient(ctx context.Context, principal user.Principal, p RecipientPayload) (recipient.Recipient, error) {
	if err := requireActive(principal); err != nil {
		return recipient.Recipient{}, err
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return recipient.Recipient{}, domainerr.InvalidInput("name is required")
	}
	return s.recipients.Create(ctx, recipient.Recipient{
		OwnerID: principal.ID, Name: name, Email: p.Email, UserID: p.UserID,
	})
}

func (s *Service) ListRecipients(ctx context.Context, principal user.Principal) ([]recipient.Recipient, error) {
	return s.recipients.ListByOwner(ctx, principal.ID)
}

func (s *Service) DeleteRecipient(ctx context.Context, principal user.Principal, id uuid.UUID) error {
	r, err := s.recipients.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.OwnerID != principal.ID {
		return domainerr.Forbidden("only the owner may delete this recipient")
	}
	return s.recipients.Delete(ctx, id)
}

func requireActive(p user.Principal) error {
	if !p.IsActive {
		return domainerr.Forbidden("principal is not active")
	}
	return nil
}
