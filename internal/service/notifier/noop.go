package notifier

import (
	"context"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// Noop discards every event. Used in tests and in deployments that run
// without a broker.
type Noop struct{}

func (Noop) Notify(context.Context, event.Eventer) error { return nil }

var _ Notifier = Noop{}
