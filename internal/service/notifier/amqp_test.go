package notifier

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/event"
)

type failingPublisher struct {
	calls atomic.Int32
}

func (p *failingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.calls.Add(1)
	return errors.New("broker unreachable")
}

func (p *failingPublisher) Close() error { return nil }

func TestAMQPNotifier_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	pub := &failingPublisher{}
	n := NewAMQPNotifier(pub, "capsule.events", zap.NewNop())

	evt := event.NewTransitionEvent(capsule.Capsule{}, capsule.StateReady, time.Now())

	for i := 0; i < 5; i++ {
		err := n.Notify(context.Background(), evt)
		require.Error(t, err)
	}
	require.EqualValues(t, 5, pub.calls.Load())

	// The 5th failure tripped the breaker open, so the 6th call fails fast
	// without reaching the publisher again.
	err := n.Notify(context.Background(), evt)
	require.Error(t, err)
	require.EqualValues(t, 5, pub.calls.Load(), "breaker should short-circuit instead of calling the publisher")
}
