package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/medyatra/credsvc/internal/mailer"
	"github.com/medyatra/credsvc/internal/metrics"
	"github.com/medyatra/credsvc/internal/model"
	"github.com/medyatra/credsvc/internal/repository"
)

// ErrMissingEmail indicates no usable recipient address exists after all
// fallbacks. The notification for that appointment is terminal.
var ErrMissingEmail = errors.New("no usable email address for appointment")

// AppointmentStore is the slice of the repository the notification workflow
// needs.
type AppointmentStore interface {
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	MarkAppointmentEmailSent(ctx context.Context, id string, sentAt time.Time, responseID string) error
	MarkAppointmentEmailFailed(ctx context.Context, id string, details model.EmailErrorDetails) error
}

// UserResolver looks up the user referenced by an appointment.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// BookingMailer delivers booking confirmations.
type BookingMailer interface {
	SendBookingConfirmation(ctx context.Context, in mailer.BookingInput) (mailer.SendReceipt, error)
}

// placeholderPassword is the literal used by deployments that opt in to
// emailing a credential block for patients without a real account.
const placeholderPassword = "temp123"

// NotificationService sends the confirmation email for a newly created
// appointment and writes the delivery status back onto the record.
type NotificationService struct {
	appointments AppointmentStore
	users        UserResolver
	dispatcher   BookingMailer
	logger       *slog.Logger
	metrics      metrics.Recorder

	// includePlaceholder restores the legacy behavior of emailing a
	// placeholder password when the patient has no real credentials.
	// Off by default; the credential block is omitted instead.
	includePlaceholder bool

	now func() time.Time
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(
	appointments AppointmentStore,
	users UserResolver,
	dispatcher BookingMailer,
	includePlaceholder bool,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *NotificationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NotificationService{
		appointments:       appointments,
		users:              users,
		dispatcher:         dispatcher,
		logger:             logger.With("component", "service.notification"),
		metrics:            recorder,
		includePlaceholder: includePlaceholder,
		now:                time.Now,
	}
}

// NotifyAppointmentCreated runs the full notification workflow for one
// appointment. Failures are recorded on the appointment record; the
// returned error exists for logging at the trigger boundary and never
// causes a retry - a failed send is terminal.
func (s *NotificationService) NotifyAppointmentCreated(ctx context.Context, appointmentID string) error {
	appt, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		s.metrics.IncBookingNotification("failed")
		return err
	}

	in := s.resolveRecipient(ctx, appt)

	if in.Email == "" {
		s.metrics.IncBookingNotification("missing_email")
		s.recordFailure(ctx, appt.ID, model.EmailErrorDetails{
			Name:      "MissingEmail",
			Message:   ErrMissingEmail.Error(),
			Timestamp: s.now(),
		})
		return ErrMissingEmail
	}

	receipt, err := s.dispatcher.SendBookingConfirmation(ctx, in)
	if err != nil {
		s.metrics.IncBookingNotification("failed")
		details := model.EmailErrorDetails{
			Name:      "ProviderError",
			Message:   err.Error(),
			Timestamp: s.now(),
		}
		var statusErr *mailer.StatusError
		if errors.As(err, &statusErr) {
			details.Code = statusErr.Provider
		}
		s.recordFailure(ctx, appt.ID, details)
		return err
	}

	if err := s.appointments.MarkAppointmentEmailSent(ctx, appt.ID, s.now(), receipt.MessageID); err != nil {
		// The email went out; a failed status write is logged only.
		s.logger.Error("failed to record email sent status",
			"appointment_id", appt.ID,
			"error", err,
		)
	}

	s.metrics.IncBookingNotification("sent")
	s.logger.Info("booking confirmation sent",
		"appointment_id", appt.ID,
		"message_id", receipt.MessageID,
	)

	return nil
}

// resolveRecipient builds the email input from the appointment's user, or
// falls back to the appointment-embedded patient fields when the user
// cannot be resolved.
func (s *NotificationService) resolveRecipient(ctx context.Context, appt *model.Appointment) mailer.BookingInput {
	in := mailer.BookingInput{
		ClinicName:      appt.ClinicName,
		Location:        appt.Location,
		TreatmentType:   appt.TreatmentType,
		AppointmentDate: appt.AppointmentDate,
		AppointmentTime: appt.AppointmentTime,
	}

	if appt.UserID != "" {
		user, err := s.users.GetUserByID(ctx, appt.UserID)
		if err == nil {
			in.FullName = user.FullName()
			in.Email = user.Email
			in.Username = user.ID
			if user.HasCredentials() {
				in.Password = *user.Password
				in.IncludeCredentials = in.Username != "" && in.Password != ""
			}
			return in
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			// Lookup failure falls back to the embedded patient fields.
			s.logger.Warn("user lookup failed, using appointment fields",
				"appointment_id", appt.ID,
				"user_id", appt.UserID,
				"error", err,
			)
		}
	}

	in.FullName = appt.PatientName
	in.Email = appt.PatientEmail
	in.Username = appt.PatientEmail
	if s.includePlaceholder && in.Email != "" {
		in.Password = placeholderPassword
		in.IncludeCredentials = true
	}

	return in
}

// recordFailure writes the failed status onto the appointment record.
// Best-effort: a failed write is logged and swallowed.
func (s *NotificationService) recordFailure(ctx context.Context, appointmentID string, details model.EmailErrorDetails) {
	if err := s.appointments.MarkAppointmentEmailFailed(ctx, appointmentID, details); err != nil {
		s.logger.Error("failed to record email failure status",
			"appointment_id", appointmentID,
			"error", err,
		)
	}
}
