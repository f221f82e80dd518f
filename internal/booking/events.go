// Package booking carries appointment-created events from the booking flow
// to the notification workflow over a Redis stream.
package booking

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// StreamKey is the Redis stream for appointment-created events.
	StreamKey = "stream:appointment_created"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:appointment_created:dlq"

	// ConsumerGroup is the Redis consumer group name.
	ConsumerGroup = "booking_notifier"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 10000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 500 * time.Millisecond
)

// AppointmentCreatedEvent is the wire format for one created appointment.
// An appointment triggers the notification workflow exactly once, at
// creation.
type AppointmentCreatedEvent struct {
	AppointmentID string `json:"appointment_id"`
	CreatedAt     int64  `json:"created_at"` // Unix milliseconds
}

// ValidateEvent rejects events the worker cannot act on.
func ValidateEvent(e AppointmentCreatedEvent) error {
	if e.AppointmentID == "" {
		return errors.New("appointment_id is required")
	}
	return nil
}

// NewConsumerID creates a stable-ish consumer ID for Redis consumer groups.
func NewConsumerID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d-%d", host, os.Getpid(), time.Now().UnixNano())
}
