package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medyatra/credsvc/internal/model"
)

// Common errors for appointment repository operations.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// CreateAppointment inserts a new appointment record.
// Notification status fields start unset; only the booking notification
// workflow writes them afterward.
func (r *Repository) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, user_id, patient_name, patient_email,
			clinic_name, location, treatment_type,
			appointment_date, appointment_time, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.PatientName,
		a.PatientEmail,
		a.ClinicName,
		a.Location,
		a.TreatmentType,
		a.AppointmentDate,
		a.AppointmentTime,
		a.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// GetAppointment retrieves an appointment by its ID.
func (r *Repository) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	query := `
		SELECT id, user_id, patient_name, patient_email,
		       clinic_name, location, treatment_type,
		       appointment_date, appointment_time,
		       email_sent, email_sent_at, email_response_id,
		       email_error, email_error_details, created_at
		FROM appointments
		WHERE id = $1
	`

	var a model.Appointment
	var responseID, emailErr *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.PatientName,
		&a.PatientEmail,
		&a.ClinicName,
		&a.Location,
		&a.TreatmentType,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.EmailSent,
		&a.EmailSentAt,
		&responseID,
		&emailErr,
		&a.EmailErrorDetails,
		&a.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if responseID != nil {
		a.EmailResponseID = *responseID
	}
	if emailErr != nil {
		a.EmailError = *emailErr
	}

	return &a, nil
}

// MarkAppointmentEmailSent records a successful confirmation send.
func (r *Repository) MarkAppointmentEmailSent(ctx context.Context, id string, sentAt time.Time, responseID string) error {
	query := `
		UPDATE appointments
		SET email_sent = TRUE,
		    email_sent_at = $2,
		    email_response_id = $3,
		    email_error = NULL,
		    email_error_details = NULL
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, sentAt, responseID)
	if err != nil {
		return fmt.Errorf("failed to mark appointment email sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// MarkAppointmentEmailFailed records a failed confirmation send.
// Callers treat this write as best-effort.
func (r *Repository) MarkAppointmentEmailFailed(ctx context.Context, id string, details model.EmailErrorDetails) error {
	query := `
		UPDATE appointments
		SET email_sent = FALSE,
		    email_error = $2,
		    email_error_details = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, details.Message, details)
	if err != nil {
		return fmt.Errorf("failed to mark appointment email failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}
