package nats

import (
	"context"
	"fmt"

	"srh-intent/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber follows the event stream, e.g. to watch a run from another
// terminal.
type Subscriber struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger Logger
}

func NewSubscriber(url string, logger Logger) (*Subscriber, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js, logger: logger}, nil
}

// Subscribe delivers events matching eventType ("*" for all) until ctx is
// done. With a durable name the position survives restarts; without one only
// new events are delivered.
func (s *Subscriber) Subscribe(ctx context.Context, eventType, durableName string, handler EventHandler) error {
	cfg := jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: Subject(eventType),
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	if durableName == "" {
		cfg.DeliverPolicy = jetstream.DeliverNewPolicy
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, cfg)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decodeMsg(msg.Subject(), msg.Headers(), msg.Data())
		if err != nil {
			s.logger.Warn("NATS", "Dropping malformed event", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			msg.Term()
			return
		}

		if err := handler(ctx, event); err != nil {
			s.logger.Warn("NATS", "Handler failed", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			msg.Nak()
			return
		}
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	defer cc.Stop()

	s.logger.Info("NATS", "Subscribed", map[string]interface{}{
		"subject": cfg.FilterSubject,
		"durable": durableName,
	})

	select {
	case <-ctx.Done():
		return nil
	case <-cc.Closed():
		return fmt.Errorf("consumer closed")
	}
}

func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
