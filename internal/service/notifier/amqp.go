package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	amqp "github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/internal/domain/event"
)

// AMQPNotifier publishes transition events to a topic exchange through
// watermill, the same publish path the teacher wires for its delivery
// events, with a circuit breaker around the publish call so a broker outage
// degrades to fast failures instead of stalling the sweep.
type AMQPNotifier struct {
	publisher message.Publisher
	exchange  string
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

func NewAMQPNotifier(publisher message.Publisher, exchange string, logger *zap.Logger) *AMQPNotifier {
	settings := gobreaker.Settings{
		Name:    "amqp_notifier",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &AMQPNotifier{
		publisher: publisher,
		exchange:  exchange,
		breaker:   gobreaker.NewCircuitBreaker(settings),
		logger:    logger,
	}
}

func (n *AMQPNotifier) Notify(ctx context.Context, evt event.Eventer) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("notifier: marshal event: %w", err)
	}

	msg := message.NewMessage(evt.GetID(), payload)
	msg.Metadata.Set("routing_key", evt.GetRoutingKey())
	msg.SetContext(ctx)

	_, err = n.breaker.Execute(func() (any, error) {
		return nil, n.publisher.Publish(n.exchange, msg)
	})
	if err != nil {
		n.logger.Warn("NOTIFIER_PUBLISH_FAILED",
			zap.String("capsule_id", evt.GetCapsuleID().String()),
			zap.String("routing_key", evt.GetRoutingKey()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

var _ Notifier = (*AMQPNotifier)(nil)

// NewAMQPPublisher builds the watermill publisher bound to a durable topic
// exchange, mirroring the teacher's PublisherProvider.Build shape without
// its proprietary factory indirection.
func NewAMQPPublisher(amqpURI string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	cfg := amqp.NewDurablePubSubConfig(amqpURI, nil)
	return amqp.NewPublisher(cfg, logger)
}
