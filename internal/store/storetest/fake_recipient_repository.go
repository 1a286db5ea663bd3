package storetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/recipient"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

// FakeRecipientRepository is an in-memory store.RecipientRepository.
type FakeRecipientRepository struct {
	mu   sync.Mutex
	data map[uuid.UUID]recipient.Recipient
}

func NewFakeRecipientRepository() *FakeRecipientRepository {
	return &FakeRecipientRepository{data: make(map[uuid.UUID]recipient.Recipient)}
}

func (f *FakeRecipientRepository) Get(_ context.Context, id uuid.UUID) (recipient.Recipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.data[id]
	if !ok {
		return recipient.Recipient{}, domainerr.NotFound("recipient not found")
	}
	return r, nil
}

func (f *FakeRecipientRepository) Create(_ context.Context, r recipient.Recipient) (recipient.Recipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.data[r.ID] = r
	return r, nil
}

func (f *FakeRecipientRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]recipient.Recipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recipient.Recipient
	for _, r := range f.data {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeRecipientRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[id]; !ok {
		return domainerr.NotFound("recipient not found")
	}
	delete(f.data, id)
	return nil
}

var _ store.RecipientRepository = (*FakeRecipientRepository)(nil)
