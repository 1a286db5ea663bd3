package storetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/draft"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

// FakeDraftRepository is an in-memory store.DraftRepository.
type FakeDraftRepository struct {
	mu   sync.Mutex
	data map[uuid.UUID]draft.Draft
}

func NewFakeDraftRepository() *FakeDraftRepository {
	return &FakeDraftRepository{data: make(map[uuid.UUID]draft.Draft)}
}

func (f *FakeDraftRepository) Get(_ context.Context, id uuid.UUID) (draft.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.data[id]
	if !ok {
		return draft.Draft{}, domainerr.NotFound("draft not found")
	}
	return d, nil
}

func (f *FakeDraftRepository) Create(_ context.Context, d draft.Draft) (draft.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.data[d.ID] = d
	return d, nil
}

func (f *FakeDraftRepository) Update(_ context.Context, id uuid.UUID, d draft.Draft) (draft.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.data[id]
	if !ok {
		return draft.Draft{}, domainerr.NotFound("draft not found")
	}
	d.ID = id
	d.CreatedAt = existing.CreatedAt
	f.data[id] = d
	return d, nil
}

func (f *FakeDraftRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[id]; !ok {
		return domainerr.NotFound("draft not found")
	}
	delete(f.data, id)
	return nil
}

func (f *FakeDraftRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]draft.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []draft.Draft
	for _, d := range f.data {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

var _ store.DraftRepository = (*FakeDraftRepository)(nil)
