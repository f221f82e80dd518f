package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/medyatra/credsvc/internal/mailer"
	"github.com/medyatra/credsvc/internal/model"
	"github.com/medyatra/credsvc/internal/repository"
)

// fakeAppointmentStore is an in-memory AppointmentStore.
type fakeAppointmentStore struct {
	appointments map[string]*model.Appointment
	markSentErr  error
	markFailErr  error
}

func newFakeAppointmentStore(appts ...*model.Appointment) *fakeAppointmentStore {
	s := &fakeAppointmentStore{appointments: make(map[string]*model.Appointment)}
	for _, a := range appts {
		s.appointments[a.ID] = a
	}
	return s
}

func (s *fakeAppointmentStore) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return nil, repository.ErrAppointmentNotFound
	}
	copy := *a
	return &copy, nil
}

func (s *fakeAppointmentStore) MarkAppointmentEmailSent(ctx context.Context, id string, sentAt time.Time, responseID string) error {
	if s.markSentErr != nil {
		return s.markSentErr
	}
	a := s.appointments[id]
	sent := true
	a.EmailSent = &sent
	a.EmailSentAt = &sentAt
	a.EmailResponseID = responseID
	return nil
}

func (s *fakeAppointmentStore) MarkAppointmentEmailFailed(ctx context.Context, id string, details model.EmailErrorDetails) error {
	if s.markFailErr != nil {
		return s.markFailErr
	}
	a := s.appointments[id]
	sent := false
	a.EmailSent = &sent
	a.EmailError = details.Message
	d := details
	a.EmailErrorDetails = &d
	return nil
}

// fakeBookingMailer records confirmation sends.
type fakeBookingMailer struct {
	inputs    []mailer.BookingInput
	err       error
	messageID string
}

func (m *fakeBookingMailer) SendBookingConfirmation(ctx context.Context, in mailer.BookingInput) (mailer.SendReceipt, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return mailer.SendReceipt{}, m.err
	}
	return mailer.SendReceipt{MessageID: m.messageID, Provider: "fake", Attempts: 1}, nil
}

func testAppointment(id string) *model.Appointment {
	return &model.Appointment{
		ID:              id,
		UserID:          "u1",
		PatientName:     "Asha Rao",
		PatientEmail:    "asha@example.com",
		ClinicName:      "Apollo Dental",
		Location:        "Chennai",
		TreatmentType:   "dental implant",
		AppointmentDate: "2026-09-15",
		AppointmentTime: "10:30",
		CreatedAt:       time.Now(),
	}
}

func newTestNotification(appts *fakeAppointmentStore, users *fakeUserStore, mail *fakeBookingMailer, includePlaceholder bool) *NotificationService {
	return NewNotificationService(appts, users, mail, includePlaceholder, slog.Default(), nil)
}

func TestNotify_UserResolved(t *testing.T) {
	t.Parallel()

	pw := "RealPass1!"
	user := &model.User{ID: "u1", FirstName: "Asha", LastName: "Rao", Email: "user@example.com", Password: &pw}
	appts := newFakeAppointmentStore(testAppointment("a1"))
	mail := &fakeBookingMailer{messageID: "re_1"}
	svc := newTestNotification(appts, newFakeUserStore(user), mail, false)

	if err := svc.NotifyAppointmentCreated(context.Background(), "a1"); err != nil {
		t.Fatalf("NotifyAppointmentCreated failed: %v", err)
	}

	if len(mail.inputs) != 1 {
		t.Fatalf("dispatcher called %d times, want 1", len(mail.inputs))
	}
	in := mail.inputs[0]
	// User record wins over appointment-embedded fields.
	if in.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", in.Email)
	}
	if in.FullName != "Asha Rao" {
		t.Errorf("FullName = %q", in.FullName)
	}
	if !in.IncludeCredentials || in.Username != "u1" || in.Password != pw {
		t.Errorf("credentials not resolved: %+v", in)
	}

	a := appts.appointments["a1"]
	if a.NotificationStatus() != model.NotificationStatusSent {
		t.Errorf("status = %q, want sent", a.NotificationStatus())
	}
	if a.EmailResponseID != "re_1" {
		t.Errorf("EmailResponseID = %q, want re_1", a.EmailResponseID)
	}
	if a.EmailSentAt == nil || a.EmailSentAt.IsZero() {
		t.Error("EmailSentAt should be populated")
	}
}

func TestNotify_UserWithoutPassword_NoCredentialBlock(t *testing.T) {
	t.Parallel()

	user := &model.User{ID: "u1", FirstName: "Asha", Email: "user@example.com"}
	appts := newFakeAppointmentStore(testAppointment("a1"))
	mail := &fakeBookingMailer{messageID: "re_1"}
	svc := newTestNotification(appts, newFakeUserStore(user), mail, false)

	if err := svc.NotifyAppointmentCreated(context.Background(), "a1"); err != nil {
		t.Fatalf("NotifyAppointmentCreated failed: %v", err)
	}

	if mail.inputs[0].IncludeCredentials {
		t.Error("credentials require both a username and a password")
	}
}

func TestNotify_FallbackToPatientEmail(t *testing.T) {
	t.Parallel()

	// UserID does not resolve; patient fields carry the notification.
	appts := newFakeAppointmentStore(testAppointment("a1"))
	mail := &fakeBookingMailer{messageID: "re_2"}
	svc := newTestNotification(appts, newFakeUserStore(), mail, false)

	if err := svc.NotifyAppointmentCreated(context.Background(), "a1"); err != nil {
		t.Fatalf("NotifyAppointmentCreated failed: %v", err)
	}

	in := mail.inputs[0]
	if in.Email != "asha@example.com" {
		t.Errorf("Email = %q, want patient email", in.Email)
	}
	if in.Username != "asha@example.com" {
		t.Errorf("Username = %q, want patient email", in.Username)
	}
	// Placeholder credentials are off by default.
	if in.IncludeCredentials || in.Password != "" {
		t.Errorf("placeholder credentials should be omitted: %+v", in)
	}

	if appts.appointments["a1"].NotificationStatus() != model.NotificationStatusSent {
		t.Error("status should be sent after fallback delivery")
	}
}

func TestNotify_FallbackWithPlaceholderEnabled(t *testing.T) {
	t.Parallel()

	appts := newFakeAppointmentStore(testAppointment("a1"))
	mail := &fakeBookingMailer{messageID: "re_3"}
	svc := newTestNotification(appts, newFakeUserStore(), mail, true)

	if err := svc.NotifyAppointmentCreated(context.Background(), "a1"); err != nil {
		t.Fatalf("NotifyAppointmentCreated failed: %v", err)
	}

	in := mail.inputs[0]
	if !in.IncludeCredentials || in.Password != placeholderPassword {
		t.Errorf("expected placeholder credential block: %+v", in)
	}
}

func TestNotify_MissingEmail(t *testing.T) {
	t.Parallel()

	appt := testAppointment("a1")
	appt.UserID = "nope"
	appt.PatientEmail = ""
	appts := newFakeAppointmentStore(appt)
	mail := &fakeBookingMailer{}
	svc := newTestNotification(appts, newFakeUserStore(), mail, false)

	err := svc.NotifyAppointmentCreated(context.Background(), "a1")
	if !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("expected ErrMissingEmail, got: %v", err)
	}

	// The dispatcher is never called without a recipient.
	if len(mail.inputs) != 0 {
		t.Errorf("dispatcher called %d times, want 0", len(mail.inputs))
	}

	a := appts.appointments["a1"]
	if a.NotificationStatus() != model.NotificationStatusFailed {
		t.Errorf("status = %q, want failed", a.NotificationStatus())
	}
	if a.EmailErrorDetails == nil || a.EmailErrorDetails.Name != "MissingEmail" {
		t.Errorf("unexpected error details: %+v", a.EmailErrorDetails)
	}
}

func TestNotify_ProviderFailureRecorded(t *testing.T) {
	t.Parallel()

	appts := newFakeAppointmentStore(testAppointment("a1"))
	sendErr := errors.New("resend rejected the message")
	mail := &fakeBookingMailer{err: sendErr}
	svc := newTestNotification(appts, newFakeUserStore(), mail, false)

	err := svc.NotifyAppointmentCreated(context.Background(), "a1")
	if err == nil {
		t.Fatal("expected error from failed send")
	}

	a := appts.appointments["a1"]
	if a.NotificationStatus() != model.NotificationStatusFailed {
		t.Errorf("status = %q, want failed", a.NotificationStatus())
	}
	if a.EmailError != sendErr.Error() {
		t.Errorf("EmailError = %q, want %q", a.EmailError, sendErr.Error())
	}
	if a.EmailErrorDetails == nil || a.EmailErrorDetails.Name != "ProviderError" {
		t.Errorf("unexpected error details: %+v", a.EmailErrorDetails)
	}
	if a.EmailErrorDetails.Timestamp.IsZero() {
		t.Error("error details should carry a timestamp")
	}
}

func TestNotify_StatusWriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	appts := newFakeAppointmentStore(testAppointment("a1"))
	appts.markSentErr = errors.New("db down")
	mail := &fakeBookingMailer{messageID: "re_4"}
	svc := newTestNotification(appts, newFakeUserStore(), mail, false)

	// The send succeeded; a failed status write must not surface.
	if err := svc.NotifyAppointmentCreated(context.Background(), "a1"); err != nil {
		t.Fatalf("status write failure should be swallowed, got: %v", err)
	}
}

func TestNotify_FailureStatusWriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	appts := newFakeAppointmentStore(testAppointment("a1"))
	appts.markFailErr = errors.New("db down")
	sendErr := errors.New("provider down")
	mail := &fakeBookingMailer{err: sendErr}
	svc := newTestNotification(appts, newFakeUserStore(), mail, false)

	// The send error is still reported; the failed best-effort write is not.
	err := svc.NotifyAppointmentCreated(context.Background(), "a1")
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected send error, got: %v", err)
	}
}
