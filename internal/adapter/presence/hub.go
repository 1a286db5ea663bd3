package presence

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// Hub is the registry of connected users' Cells. It implements the push
// half of the Notifier boundary: when the UnlockService emits a
// capsule.ready event for a receiver who happens to be connected, the
// websocket delivers it immediately instead of waiting on the next poll.
type Hub struct {
	cells sync.Map // uuid.UUID -> Celler

	evictionInterval time.Duration
	idleTimeout      time.Duration
	mailboxSize      int

	stopCh chan struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger, opts ...Option) *Hub {
	h := &Hub{
		evictionInterval: time.Minute,
		idleTimeout:      5 * time.Minute,
		mailboxSize:      256,
		stopCh:           make(chan struct{}),
		logger:           logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.runEvictor()
	return h
}

func (h *Hub) IsConnected(userID uuid.UUID) bool {
	_, ok := h.cells.Load(userID)
	return ok
}

// Push delivers ev to the receiver's cell if one exists. It returns false
// when the user has no open connection or their mailbox is full; either way
// the caller (the Notifier) treats this as best-effort and does not retry.
func (h *Hub) Push(userID uuid.UUID, ev event.Eventer) bool {
	val, ok := h.cells.Load(userID)
	if !ok {
		return false
	}
	return val.(Celler).Push(ev)
}

// Register attaches a new websocket connection to (or creates) the user's cell.
func (h *Hub) Register(userID uuid.UUID, conn Connection) {
	val, _ := h.cells.LoadOrStore(userID, NewCell(userID, h.mailboxSize))
	val.(Celler).Attach(conn)
}

// Unregister detaches a connection; the cell itself is reclaimed later by
// the evictor, not synchronously here.
func (h *Hub) Unregister(userID, connID uuid.UUID) {
	if val, ok := h.cells.Load(userID); ok {
		val.(Celler).Detach(connID)
	}
}

func (h *Hub) runEvictor() {
	ticker := time.NewTicker(h.evictionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.evict()
		}
	}
}

func (h *Hub) evict() {
	reaped := 0
	h.cells.Range(func(key, value any) bool {
		cell := value.(Celler)
		if cell.IsIdle(h.idleTimeout) {
			cell.Stop()
			h.cells.Delete(key)
			reaped++
		}
		return true
	})
	if reaped > 0 {
		h.logger.Info("PRESENCE_EVICTION", zap.Int("reclaimed", reaped))
	}
}

// Shutdown stops the evictor and every managed cell.
func (h *Hub) Shutdown() {
	close(h.stopCh)
	h.cells.Range(func(key, value any) bool {
		value.(Celler).Stop()
		return true
	})
}
