// Package presence adapts the teacher's Virtual Cell actor model (one
// mailbox goroutine per connected user, buffered and batch-draining) to push
// capsule-ready notifications over websocket instead of gRPC streams. Each
// connected user gets one Cell; multiple browser tabs/devices multiplex onto
// the same Cell through distinct Connections.
package presence

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// Connection is one websocket session attached to a user's Cell.
type Connection interface {
	GetID() uuid.UUID
	Send(ev event.Eventer, timeout time.Duration) error
	Close() error
}

// Celler is the internal API for a per-user delivery unit.
type Celler interface {
	Push(ev event.Eventer) bool
	Attach(conn Connection)
	Detach(connID uuid.UUID) bool
	IsIdle(timeout time.Duration) bool
	Stop()
}

// Cell owns every websocket connection open for one user and the mailbox
// that decouples notification producers (the UnlockService) from however
// slow or fast that user's sockets happen to be.
type Cell struct {
	userID uuid.UUID

	mailbox chan event.Eventer

	sessions map[uuid.UUID]Connection
	mu       sync.RWMutex

	doneCh chan struct{}

	lastActivityUnix int64
}

func NewCell(userID uuid.UUID, bufferSize int) *Cell {
	c := &Cell{
		userID:           userID,
		mailbox:          make(chan event.Eventer, bufferSize),
		sessions:         make(map[uuid.UUID]Connection),
		doneCh:           make(chan struct{}),
		lastActivityUnix: time.Now().Unix(),
	}
	go c.loop()
	return c
}

func (c *Cell) touch() {
	atomic.StoreInt64(&c.lastActivityUnix, time.Now().Unix())
}

// IsIdle reports whether the cell has no open sessions and has been silent
// longer than timeout; the Hub's evictor reclaims such cells.
func (c *Cell) IsIdle(timeout time.Duration) bool {
	c.mu.RLock()
	hasSessions := len(c.sessions) > 0
	c.mu.RUnlock()
	if hasSessions {
		return false
	}
	lastActivity := time.Unix(atomic.LoadInt64(&c.lastActivityUnix), 0)
	return time.Since(lastActivity) > timeout
}

// Push enqueues ev for delivery; it never blocks. A full mailbox drops the
// event rather than stall the caller — notification is explicitly
// best-effort (spec §7's Notifier contract).
func (c *Cell) Push(ev event.Eventer) bool {
	c.touch()
	select {
	case c.mailbox <- ev:
		return true
	default:
		return false
	}
}

func (c *Cell) Attach(conn Connection) {
	c.mu.Lock()
	c.sessions[conn.GetID()] = conn
	c.mu.Unlock()
	c.touch()
}

// Detach removes a session and reports whether the cell is now empty.
func (c *Cell) Detach(connID uuid.UUID) bool {
	c.mu.Lock()
	delete(c.sessions, connID)
	empty := len(c.sessions) == 0
	c.mu.Unlock()
	c.touch()
	return empty
}

const drainBatch = 64

func (c *Cell) loop() {
	for {
		select {
		case <-c.doneCh:
			return
		case ev := <-c.mailbox:
			c.deliver(ev)
			for i := 0; i < drainBatch; i++ {
				select {
				case next := <-c.mailbox:
					c.deliver(next)
				default:
					goto wait
				}
			}
		wait:
		}
	}
}

func (c *Cell) deliver(ev event.Eventer) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, conn := range c.sessions {
		_ = conn.Send(ev, 250*time.Millisecond)
	}
}

func (c *Cell) Stop() {
	close(c.doneCh)
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, conn := range c.sessions {
		conn.Close()
		delete(c.sessions, id)
	}
}

var _ Celler = (*Cell)(nil)
