package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher enqueues appointment-created events to the Redis stream.
type Publisher struct {
	redis  *redis.Client
	logger *slog.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		redis:  client,
		logger: logger.With("component", "booking.publisher"),
	}
}

// Publish adds an appointment-created event to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, event AppointmentCreatedEvent) (string, error) {
	if err := ValidateEvent(event); err != nil {
		return "", err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true, // ~MAXLEN for performance
		ID:     "*",  // Auto-generate ID
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	p.logger.Debug("appointment event published",
		"appointment_id", event.AppointmentID,
		"stream_id", result,
	)

	return result, nil
}

// PublishCreated publishes the event for a freshly created appointment.
func (p *Publisher) PublishCreated(ctx context.Context, appointmentID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	return p.Publish(ctx, AppointmentCreatedEvent{
		AppointmentID: appointmentID,
		CreatedAt:     time.Now().UnixMilli(),
	})
}
