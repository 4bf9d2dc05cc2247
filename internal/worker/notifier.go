package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/apexshine/detailbooking/internal/email"
	"github.com/apexshine/detailbooking/internal/kafka"
	"github.com/apexshine/detailbooking/internal/metrics"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Notifier turns booking events from the notifications topic into customer
// emails. Delivery is best effort: a message that keeps failing is logged
// and dropped rather than blocking the consumer group.
type Notifier struct {
	sender      email.Sender
	logger      zerolog.Logger
	policy      RetryPolicy
	sendTimeout time.Duration
}

func NewNotifier(sender email.Sender, logger zerolog.Logger, policy RetryPolicy, sendTimeout time.Duration) *Notifier {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Notifier{sender: sender, logger: logger, policy: policy, sendTimeout: sendTimeout}
}

// Handle is the kafka consumer callback. It always returns nil for
// per-message failures so one undeliverable email cannot stall the topic.
func (n *Notifier) Handle(ctx context.Context, msg kafkaGo.Message) error {
	var event kafka.BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.logger.Error().Err(err).Msg("dropping undecodable notification event")
		return nil
	}

	if err := n.send(ctx, event); err != nil {
		metrics.IncNotificationFailure()
		n.logger.Error().Err(err).
			Str("booking_id", event.BookingID).
			Str("type", event.Type).
			Msg("giving up on notification email")
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, event kafka.BookingEvent) error {
	attempts := n.policy.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
		lastErr = n.sender.Send(sendCtx, event)
		cancel()
		if lastErr == nil {
			return nil
		}

		n.logger.Warn().Err(lastErr).
			Str("booking_id", event.BookingID).
			Int("attempt", attempt).
			Msg("notification email failed")

		if attempt < attempts {
			select {
			case <-time.After(n.policy.NextDelay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
