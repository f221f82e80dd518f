package model

import "time"

// Notification status values for an appointment's confirmation email.
// An appointment starts with EmailSent unset and moves to exactly one of
// sent or failed; a failed send is terminal unless re-triggered manually.
const (
	NotificationStatusUnset  = "unset"
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// Appointment represents a booking created by the external booking flow.
// UserID may reference a user that does not exist; PatientName and
// PatientEmail are the fallback identity fields for that case.
type Appointment struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	PatientName     string `json:"patient_name"`
	PatientEmail    string `json:"patient_email"`
	ClinicName      string `json:"clinic_name"`
	Location        string `json:"location"`
	TreatmentType   string `json:"treatment_type"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`

	// Notification status, written by the booking notification workflow.
	EmailSent         *bool              `json:"email_sent,omitempty"`
	EmailSentAt       *time.Time         `json:"email_sent_at,omitempty"`
	EmailResponseID   string             `json:"email_response_id,omitempty"`
	EmailError        string             `json:"email_error,omitempty"`
	EmailErrorDetails *EmailErrorDetails `json:"email_error_details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NotificationStatus derives the status from the persisted fields.
func (a *Appointment) NotificationStatus() string {
	switch {
	case a.EmailSent == nil:
		return NotificationStatusUnset
	case *a.EmailSent:
		return NotificationStatusSent
	default:
		return NotificationStatusFailed
	}
}

// EmailErrorDetails captures a failed send for the appointment record.
// Stored as JSONB alongside the human-readable EmailError message.
type EmailErrorDetails struct {
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
