package mailer

import (
	"context"
	"errors"
	"fmt"
)

// Recipient identifies one side of an email message.
type Recipient struct {
	Name  string
	Email string
}

// Message is a provider-agnostic transactional email.
type Message struct {
	From    Recipient
	To      Recipient
	Subject string
	HTML    string
}

// Provider submits a message to a transactional-email API and returns the
// provider-assigned message ID.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) (string, error)
}

// SendReceipt describes a successful dispatch.
type SendReceipt struct {
	MessageID string
	Provider  string
	// Attempts is 1 for a first-try success, 2 when the fallback
	// template was needed.
	Attempts int
}

// ErrProviderFailure wraps a rejected or failed provider call.
var ErrProviderFailure = errors.New("email provider failure")

// StatusError carries the HTTP status and response body of a rejected send.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrProviderFailure
}
