package presence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// WSConnection adapts a gorilla/websocket connection to the Connection
// interface a Cell pushes events through.
type WSConnection struct {
	id   uuid.UUID
	conn *websocket.Conn
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{id: uuid.New(), conn: conn}
}

func (c *WSConnection) GetID() uuid.UUID { return c.id }

func (c *WSConnection) Send(ev event.Eventer, timeout time.Duration) error {
	payload, err := json.Marshal(struct {
		ID         string `json:"id"`
		Kind       string `json:"kind"`
		CapsuleID  string `json:"capsule_id"`
		OccurredAt string `json:"occurred_at"`
	}{
		ID:         ev.GetID(),
		Kind:       ev.GetRoutingKey(),
		CapsuleID:  ev.GetCapsuleID().String(),
		OccurredAt: ev.GetOccurredAt().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

var _ Connection = (*WSConnection)(nil)
