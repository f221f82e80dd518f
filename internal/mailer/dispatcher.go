package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medyatra/credsvc/internal/metrics"
	"github.com/medyatra/credsvc/internal/model"
)

// Config carries the fixed sender identity and portal link embedded in
// outgoing email.
type Config struct {
	SenderName  string
	SenderEmail string
	LoginURL    string
}

// Dispatcher composes templated email and delivers it through the two
// independently configured providers: one for credential email, one for
// booking confirmations.
type Dispatcher struct {
	credentials   Provider
	booking       Provider
	cfg           Config
	credPolicy    RetryPolicy
	bookingPolicy RetryPolicy
	logger        *slog.Logger
	metrics       metrics.Recorder
}

// NewDispatcher creates a Dispatcher. Both providers are injected so tests
// can substitute doubles.
func NewDispatcher(credentials, booking Provider, cfg Config, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		credentials:   credentials,
		booking:       booking,
		cfg:           cfg,
		credPolicy:    CredentialRetryPolicy(),
		bookingPolicy: BookingRetryPolicy(),
		logger:        logger.With("component", "mailer.dispatcher"),
		metrics:       recorder,
	}
}

// SetCredentialRetryPolicy overrides the default credential retry policy.
func (d *Dispatcher) SetCredentialRetryPolicy(policy RetryPolicy) {
	if policy.MaxAttempts() > 0 {
		d.credPolicy = policy
	}
}

// SetBookingRetryPolicy overrides the default booking retry policy.
func (d *Dispatcher) SetBookingRetryPolicy(policy RetryPolicy) {
	if policy.MaxAttempts() > 0 {
		d.bookingPolicy = policy
	}
}

func (d *Dispatcher) sender() Recipient {
	return Recipient{Name: d.cfg.SenderName, Email: d.cfg.SenderEmail}
}

// SendCredentials delivers a credential email to the user. On a primary
// failure it makes exactly one more attempt with the fallback template on
// the same provider; if every attempt fails the last error is returned.
func (d *Dispatcher) SendCredentials(ctx context.Context, p model.CredentialPayload) (SendReceipt, error) {
	var lastErr error

	for i, kind := range d.credPolicy.Templates {
		if i > 0 {
			d.metrics.IncEmailFallback()
			if d.credPolicy.Delay > 0 {
				select {
				case <-ctx.Done():
					return SendReceipt{}, ctx.Err()
				case <-time.After(d.credPolicy.Delay):
				}
			}
		}

		var html string
		switch kind {
		case TemplateFallback:
			html = CredentialsFallbackHTML(p, d.cfg.LoginURL)
		default:
			html = CredentialsHTML(p, d.cfg.LoginURL)
		}

		msg := Message{
			From:    d.sender(),
			To:      Recipient{Name: p.FirstName + " " + p.LastName, Email: p.Email},
			Subject: CredentialsSubject,
			HTML:    html,
		}

		receipt, err := d.send(ctx, d.credentials, msg)
		if err == nil {
			receipt.Attempts = i + 1
			return receipt, nil
		}

		lastErr = err
		d.logger.Error("credential email attempt failed",
			"user_id", p.ID,
			"template", kind.String(),
			"attempt", i+1,
			"error", err,
		)
	}

	return SendReceipt{}, fmt.Errorf("credential email exhausted %d attempts: %w", d.credPolicy.MaxAttempts(), lastErr)
}

// SendBookingConfirmation delivers an appointment confirmation through the
// booking provider. The default policy makes a single attempt; on failure
// the caller records it on the appointment record.
func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, in BookingInput) (SendReceipt, error) {
	msg := Message{
		From:    d.sender(),
		To:      Recipient{Name: in.FullName, Email: in.Email},
		Subject: BookingSubject,
		HTML:    BookingConfirmationHTML(in, d.cfg.LoginURL),
	}

	var lastErr error
	for i := range d.bookingPolicy.Templates {
		if i > 0 {
			if d.bookingPolicy.Delay > 0 {
				select {
				case <-ctx.Done():
					return SendReceipt{}, ctx.Err()
				case <-time.After(d.bookingPolicy.Delay):
				}
			}
		}

		receipt, err := d.send(ctx, d.booking, msg)
		if err == nil {
			receipt.Attempts = i + 1
			return receipt, nil
		}

		lastErr = err
		d.logger.Error("booking confirmation attempt failed",
			"email", in.Email,
			"attempt", i+1,
			"error", err,
		)
	}

	return SendReceipt{}, lastErr
}

// SendTest delivers a configuration test email via the credential provider.
func (d *Dispatcher) SendTest(ctx context.Context, email, firstName, lastName string) (SendReceipt, error) {
	msg := Message{
		From:    d.sender(),
		To:      Recipient{Name: firstName + " " + lastName, Email: email},
		Subject: TestSubject,
		HTML:    TestHTML(firstName, lastName),
	}

	receipt, err := d.send(ctx, d.credentials, msg)
	if err != nil {
		return SendReceipt{}, err
	}
	receipt.Attempts = 1
	return receipt, nil
}

// send performs one provider call with metrics around it.
func (d *Dispatcher) send(ctx context.Context, provider Provider, msg Message) (SendReceipt, error) {
	start := time.Now()
	messageID, err := provider.Send(ctx, msg)
	duration := time.Since(start)

	d.metrics.ObserveEmailSendDuration(provider.Name(), duration)

	if err != nil {
		d.metrics.IncEmailSend(provider.Name(), "failed")
		return SendReceipt{}, err
	}

	d.metrics.IncEmailSend(provider.Name(), "success")
	d.logger.Info("email sent",
		"provider", provider.Name(),
		"subject", msg.Subject,
		"message_id", messageID,
		"duration_ms", duration.Milliseconds(),
	)

	return SendReceipt{MessageID: messageID, Provider: provider.Name()}, nil
}
