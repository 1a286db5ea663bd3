// Package notifier defines the best-effort notification boundary invoked by
// the UnlockService on SEALED→UNFOLDING and UNFOLDING→READY. A delivery
// failure here never fails the sweep; it is logged and is not counted in the
// sweep's Stats.
package notifier

import (
	"context"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// Notifier delivers a best-effort signal for a capsule lifecycle event. An
// implementation MUST NOT block the sweep for longer than its own internal
// timeout, and MUST NOT return an error that should abort the sweep: the
// UnlockService treats every Notify call as fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, evt event.Eventer) error
}
