// Package cache decorates a store.CapsuleRepository with a bounded read-through
// LRU cache, following the teacher's decorator pattern for cross-cutting
// concerns (internal/service/enricher_middleware.go in the teacher repo)
// applied to the persistence boundary instead of the service boundary.
package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/store"
)

// CapsuleCache wraps a store.CapsuleRepository, serving Get from an in-memory
// LRU and invalidating on every write. It does not cache List/Due results:
// those are range queries that change shape on every sweep and are not worth
// the invalidation bookkeeping.
type CapsuleCache struct {
	next store.CapsuleRepository
	lru  *lru.Cache[uuid.UUID, capsule.Capsule]
	mu   sync.Mutex
}

// NewCapsuleCache builds a read-through cache over next holding up to size entries.
func NewCapsuleCache(next store.CapsuleRepository, size int) (*CapsuleCache, error) {
	l, err := lru.New[uuid.UUID, capsule.Capsule](size)
	if err != nil {
		return nil, err
	}
	return &CapsuleCache{next: next, lru: l}, nil
}

func (c *CapsuleCache) Get(ctx context.Context, id uuid.UUID) (capsule.Capsule, error) {
	c.mu.Lock()
	if cached, ok := c.lru.Get(id); ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	cp, err := c.next.Get(ctx, id)
	if err != nil {
		return capsule.Capsule{}, err
	}

	c.mu.Lock()
	c.lru.Add(id, cp)
	c.mu.Unlock()
	return cp, nil
}

func (c *CapsuleCache) invalidate(id uuid.UUID) {
	c.mu.Lock()
	c.lru.Remove(id)
	c.mu.Unlock()
}

func (c *CapsuleCache) Create(ctx context.Context, cp capsule.Capsule) (capsule.Capsule, error) {
	created, err := c.next.Create(ctx, cp)
	if err != nil {
		return capsule.Capsule{}, err
	}
	c.invalidate(created.ID)
	return created, nil
}

func (c *CapsuleCache) Update(ctx context.Context, id uuid.UUID, fields store.CapsuleFields) (capsule.Capsule, error) {
	updated, err := c.next.Update(ctx, id, fields)
	c.invalidate(id)
	if err != nil {
		return capsule.Capsule{}, err
	}
	return updated, nil
}

func (c *CapsuleCache) TransitionState(ctx context.Context, id uuid.UUID, to capsule.State, timestamps store.CapsuleFields) (capsule.Capsule, error) {
	updated, err := c.next.TransitionState(ctx, id, to, timestamps)
	c.invalidate(id)
	if err != nil {
		return capsule.Capsule{}, err
	}
	return updated, nil
}

func (c *CapsuleCache) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.next.Delete(ctx, id)
	c.invalidate(id)
	return err
}

func (c *CapsuleCache) ListBySender(ctx context.Context, senderID uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	return c.next.ListBySender(ctx, senderID, state, page)
}

func (c *CapsuleCache) ListByReceiver(ctx context.Context, receiverID uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	return c.next.ListByReceiver(ctx, receiverID, state, page)
}

func (c *CapsuleCache) Due(ctx context.Context) ([]capsule.Capsule, error) {
	return c.next.Due(ctx)
}

var _ store.CapsuleRepository = (*CapsuleCache)(nil)
