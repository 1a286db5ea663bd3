package notifier

import (
	"context"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// Pusher is the subset of the presence Hub the composite notifier needs;
// declared here to avoid this package importing the adapter layer directly.
type Pusher interface {
	Push(userID uuid.UUID, ev event.Eventer) bool
}

// Composite fans an event out to the durable queued transport (survives a
// receiver being offline) and the realtime websocket push (instant delivery
// when the receiver happens to be connected). Either leg's failure is
// independent of the other's.
type Composite struct {
	queued Notifier
	push   Pusher
}

func NewComposite(queued Notifier, push Pusher) *Composite {
	return &Composite{queued: queued, push: push}
}

func (c *Composite) Notify(ctx context.Context, evt event.Eventer) error {
	c.push.Push(evt.GetReceiverID(), evt)
	return c.queued.Notify(ctx, evt)
}

var _ Notifier = (*Composite)(nil)
