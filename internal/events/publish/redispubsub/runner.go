package redispubsub

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"kitahub/internal/events"
	"kitahub/internal/events/subscribe"
)

// topicPattern matches every integration event topic. The transport does not
// filter by event type; subscribers guard membership themselves.
const topicPattern = "integration:*"

// Runner consumes the integration topic pattern and feeds decoded events to
// the dispatcher. Run blocks until the context is cancelled.
type Runner struct {
	client     *redis.Client
	dispatcher *subscribe.Dispatcher
	logger     *slog.Logger
}

func NewRunner(client *redis.Client, dispatcher *subscribe.Dispatcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{client: client, dispatcher: dispatcher, logger: logger}
}

func (r *Runner) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, topicPattern)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			event, err := events.UnmarshalIntegration([]byte(msg.Payload))
			if err != nil {
				r.logger.Error("dropping undecodable integration event",
					"channel", msg.Channel,
					"error", err,
				)
				continue
			}
			// Redis Pub/Sub is fire-and-forget; a subscriber error cannot
			// be nacked, only surfaced.
			if err := r.dispatcher.Dispatch(ctx, event); err != nil {
				r.logger.Error("integration event dispatch failed",
					"channel", msg.Channel,
					"error", err,
				)
			}
		}
	}
}
