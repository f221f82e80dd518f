package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medyatra/credsvc/internal/service"
)

// CredentialIssuer is the slice of the issuance service the handlers need.
type CredentialIssuer interface {
	IssueForUser(ctx context.Context, userID string) (service.IssueResult, error)
	IssueForAllUsers(ctx context.Context) (service.BatchSummary, error)
}

// CredentialHandler serves the credential issuance endpoints.
type CredentialHandler struct {
	issuer CredentialIssuer
	logger *slog.Logger
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(issuer CredentialIssuer, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{
		issuer: issuer,
		logger: logger.With("component", "handler.credentials"),
	}
}

// IssueForUser issues credentials for one user on demand.
// Business-rule outcomes (already issued, user missing, email failed) come
// back as 200 with a structured result; only unexpected failures are 500.
//
// POST /api/v1/credentials/{userID}
func (h *CredentialHandler) IssueForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userID is required")
		return
	}

	result, err := h.issuer.IssueForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("issuance failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// batchResponse is the response for a full batch run.
type batchResponse struct {
	Success    bool                  `json:"success"`
	Processed  int                   `json:"processed"`
	Successful int                   `json:"successful"`
	EmailsSent int                   `json:"emailsSent"`
	Results    []service.IssueResult `json:"results"`
}

// RunBatch issues credentials for every user without them.
//
// POST /api/v1/credentials/run
func (h *CredentialHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	summary, err := h.issuer.IssueForAllUsers(r.Context())
	if err != nil {
		h.logger.Error("batch run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Success:    true,
		Processed:  summary.Processed,
		Successful: summary.Successful,
		EmailsSent: summary.EmailsSent,
		Results:    summary.Results,
	})
}
