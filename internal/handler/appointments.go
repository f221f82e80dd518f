package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/medyatra/credsvc/internal/model"
	"github.com/medyatra/credsvc/internal/repository"
	"github.com/medyatra/credsvc/internal/service"
)

// AppointmentStore is the slice of the repository the handlers need.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
}

// EventPublisher publishes the appointment-created event.
type EventPublisher interface {
	PublishCreated(ctx context.Context, appointmentID string) (string, error)
}

// Renotifier re-runs the booking notification workflow for one appointment.
type Renotifier interface {
	NotifyAppointmentCreated(ctx context.Context, appointmentID string) error
}

// AppointmentHandler serves the appointment endpoints.
type AppointmentHandler struct {
	store     AppointmentStore
	publisher EventPublisher
	notifier  Renotifier
	logger    *slog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(store AppointmentStore, publisher EventPublisher, notifier Renotifier, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger.With("component", "handler.appointments"),
	}
}

type createAppointmentRequest struct {
	UserID          string `json:"userId"`
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	ClinicName      string `json:"clinicName"`
	Location        string `json:"location"`
	TreatmentType   string `json:"treatmentType"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
}

type createAppointmentResponse struct {
	Success     bool               `json:"success"`
	Appointment *model.Appointment `json:"appointment"`
}

// Create persists a new appointment and publishes the created event, which
// triggers the booking confirmation exactly once.
//
// POST /api/v1/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.UserID == "" && req.PatientEmail == "" {
		writeError(w, http.StatusBadRequest, "userId or patientEmail is required")
		return
	}

	appt := &model.Appointment{
		ID:              ulid.Make().String(),
		UserID:          req.UserID,
		PatientName:     req.PatientName,
		PatientEmail:    req.PatientEmail,
		ClinicName:      req.ClinicName,
		Location:        req.Location,
		TreatmentType:   req.TreatmentType,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.store.CreateAppointment(r.Context(), appt); err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Publish failure is logged, not surfaced; the booking itself succeeded
	// and the re-notify endpoint can recover the notification.
	if _, err := h.publisher.PublishCreated(r.Context(), appt.ID); err != nil {
		h.logger.Error("failed to publish appointment event",
			"appointment_id", appt.ID,
			"error", err,
		)
	}

	writeJSON(w, http.StatusCreated, createAppointmentResponse{
		Success:     true,
		Appointment: appt,
	})
}

type appointmentResponse struct {
	Success            bool               `json:"success"`
	Appointment        *model.Appointment `json:"appointment"`
	NotificationStatus string             `json:"notificationStatus"`
}

// Get returns one appointment with its derived notification status.
//
// GET /api/v1/appointments/{appointmentID}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	appt, err := h.store.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("failed to load appointment", "appointment_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, appointmentResponse{
		Success:            true,
		Appointment:        appt,
		NotificationStatus: appt.NotificationStatus(),
	})
}

type renotifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Renotify re-runs the notification workflow for one appointment. Admin
// only; failures are written to the record like the triggered path.
//
// POST /api/v1/appointments/{appointmentID}/notify
func (h *AppointmentHandler) Renotify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	err := h.notifier.NotifyAppointmentCreated(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, renotifyResponse{
			Success: true,
			Message: "Booking confirmation sent",
		})
	case errors.Is(err, repository.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, service.ErrMissingEmail):
		writeJSON(w, http.StatusOK, errorResponse{
			Success: false,
			Error:   "no usable email address for this appointment",
		})
	default:
		// Provider failures are recorded on the record; report them as a
		// business outcome, not a server error.
		writeJSON(w, http.StatusOK, errorResponse{
			Success: false,
			Error:   err.Error(),
		})
	}
}
