package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/medyatra/credsvc/internal/mailer"
)

// TestMailer sends a test email through the configured providers.
type TestMailer interface {
	SendTest(ctx context.Context, email, firstName, lastName string) (mailer.SendReceipt, error)
}

// TestEmailHandler serves the test email endpoint.
type TestEmailHandler struct {
	mailer TestMailer
	logger *slog.Logger
}

// NewTestEmailHandler creates a new TestEmailHandler.
func NewTestEmailHandler(m TestMailer, logger *slog.Logger) *TestEmailHandler {
	return &TestEmailHandler{
		mailer: m,
		logger: logger.With("component", "handler.testemail"),
	}
}

type testEmailRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type testEmailData struct {
	MessageID string `json:"messageId"`
	Provider  string `json:"provider"`
}

type testEmailResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    testEmailData `json:"data"`
}

// SendTestEmail sends a test email to verify provider configuration.
// Only email is required; firstName and lastName are optional and the
// template greets "there" when both are absent.
//
// POST /api/v1/test-email
func (h *TestEmailHandler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	receipt, err := h.mailer.SendTest(r.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		h.logger.Error("test email failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, testEmailResponse{
		Success: true,
		Message: "Test email sent successfully",
		Data: testEmailData{
			MessageID: receipt.MessageID,
			Provider:  receipt.Provider,
		},
	})
}
