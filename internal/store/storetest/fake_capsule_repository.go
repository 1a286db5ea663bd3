// Package storetest provides in-memory fakes of the store interfaces for use
// in service-layer tests, so unlock/facade tests never need a live Postgres.
package storetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

// FakeCapsuleRepository is a mutex-guarded, map-backed store.CapsuleRepository.
type FakeCapsuleRepository struct {
	mu   sync.Mutex
	data map[uuid.UUID]capsule.Capsule

	// FailOn maps a capsule ID to the error every Update (and so every
	// TransitionState) of that capsule returns — used to exercise the
	// UnlockService's per-capsule error isolation.
	FailOn map[uuid.UUID]error
}

func NewFakeCapsuleRepository() *FakeCapsuleRepository {
	return &FakeCapsuleRepository{data: make(map[uuid.UUID]capsule.Capsule)}
}

func (f *FakeCapsuleRepository) Seed(c capsule.Capsule) capsule.Capsule {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.data[c.ID] = c
	return c
}

func (f *FakeCapsuleRepository) Get(_ context.Context, id uuid.UUID) (capsule.Capsule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.data[id]
	if !ok {
		return capsule.Capsule{}, domainerr.NotFound("capsule not found")
	}
	return c, nil
}

func (f *FakeCapsuleRepository) Create(_ context.Context, c capsule.Capsule) (capsule.Capsule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.data[c.ID] = c
	return c, nil
}

func applyFields(c capsule.Capsule, f store.CapsuleFields) capsule.Capsule {
	if f.Title != nil {
		c.Title = *f.Title
	}
	if f.Body != nil {
		c.Body = *f.Body
	}
	if f.MediaURLs != nil {
		c.MediaURLs = *f.MediaURLs
	}
	if f.Theme != nil {
		c.Theme = *f.Theme
	}
	if f.AllowEarlyView != nil {
		c.AllowEarlyView = *f.AllowEarlyView
	}
	if f.AllowReceiverReply != nil {
		c.AllowReceiverReply = *f.AllowReceiverReply
	}
	if f.State != nil {
		c.State = *f.State
	}
	if f.SealedAt != nil {
		c.SealedAt = f.SealedAt
	}
	if f.ScheduledUnlockAt != nil {
		c.ScheduledUnlockAt = f.ScheduledUnlockAt
	}
	if f.OpenedAt != nil {
		c.OpenedAt = f.OpenedAt
	}
	return c
}

func (f *FakeCapsuleRepository) Update(_ context.Context, id uuid.UUID, fields store.CapsuleFields) (capsule.Capsule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.data[id]
	if !ok {
		return capsule.Capsule{}, domainerr.NotFound("capsule not found")
	}
	if err, fail := f.FailOn[id]; fail {
		return capsule.Capsule{}, err
	}
	c = applyFields(c, fields)
	f.data[id] = c
	return c, nil
}

func (f *FakeCapsuleRepository) TransitionState(ctx context.Context, id uuid.UUID, to capsule.State, timestamps store.CapsuleFields) (capsule.Capsule, error) {
	timestamps.State = &to
	return f.Update(ctx, id, timestamps)
}

func (f *FakeCapsuleRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[id]; !ok {
		return domainerr.NotFound("capsule not found")
	}
	delete(f.data, id)
	return nil
}

func (f *FakeCapsuleRepository) ListBySender(_ context.Context, senderID uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	return f.listBy(func(c capsule.Capsule) bool { return c.SenderID == senderID }, state, page)
}

func (f *FakeCapsuleRepository) ListByReceiver(_ context.Context, receiverID uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	return f.listBy(func(c capsule.Capsule) bool { return c.ReceiverID == receiverID }, state, page)
}

func (f *FakeCapsuleRepository) listBy(match func(capsule.Capsule) bool, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []capsule.Capsule
	for _, c := range f.data {
		if !match(c) {
			continue
		}
		if state != nil && c.State != *state {
			continue
		}
		all = append(all, c)
	}

	total := len(all)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return capsule.Page{Items: all[start:end], Total: total}, nil
}

func (f *FakeCapsuleRepository) Due(_ context.Context) ([]capsule.Capsule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []capsule.Capsule
	for _, c := range f.data {
		if c.ScheduledUnlockAt == nil {
			continue
		}
		if c.State == capsule.StateSealed || c.State == capsule.StateUnfolding {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ store.CapsuleRepository = (*FakeCapsuleRepository)(nil)
