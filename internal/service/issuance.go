// Package service provides business logic for credential issuance and
// booking notification.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/medyatra/credsvc/internal/mailer"
	"github.com/medyatra/credsvc/internal/metrics"
	"github.com/medyatra/credsvc/internal/model"
	"github.com/medyatra/credsvc/internal/password"
	"github.com/medyatra/credsvc/internal/repository"
)

// Result messages returned to callers. Business-rule outcomes are structured
// results, not errors.
const (
	MsgIssued            = "Credentials generated and sent successfully"
	MsgIssuedEmailFailed = "Credentials generated but email delivery failed"
	MsgAlreadyIssued     = "already has credentials"
	MsgIssuanceInFlight  = "issuance already in progress"
	MsgUserNotFound      = "user not found"
)

// UserStore is the slice of the repository the issuance workflow needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsersWithoutPassword(ctx context.Context) ([]*model.User, error)
	SetPasswordIfUnset(ctx context.Context, id, password string, now time.Time) (bool, error)
}

// CredentialMailer delivers credential email.
type CredentialMailer interface {
	SendCredentials(ctx context.Context, p model.CredentialPayload) (mailer.SendReceipt, error)
}

// IssuanceLocker serializes issuance per user across concurrent entry points.
type IssuanceLocker interface {
	AcquireIssuanceLock(ctx context.Context, userID string) (bool, error)
	ReleaseIssuanceLock(ctx context.Context, userID string) error
}

// IssueResult is the structured outcome of one user's issuance.
type IssueResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	EmailSent bool   `json:"emailSent"`
	Error     string `json:"error,omitempty"`
}

// BatchSummary aggregates a full batch run.
type BatchSummary struct {
	Processed  int           `json:"processed"`
	Successful int           `json:"successful"`
	EmailsSent int           `json:"emailsSent"`
	Results    []IssueResult `json:"results"`
}

// IssuanceService orchestrates check, generate, persist, notify.
type IssuanceService struct {
	users          UserStore
	dispatcher     CredentialMailer
	locker         IssuanceLocker
	logger         *slog.Logger
	metrics        metrics.Recorder
	passwordLength int
	concurrency    int
	now            func() time.Time
}

// NewIssuanceService creates an IssuanceService. locker may be nil, in which
// case per-user locking is skipped (single-instance deployments and tests).
func NewIssuanceService(
	users UserStore,
	dispatcher CredentialMailer,
	locker IssuanceLocker,
	passwordLength int,
	concurrency int,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *IssuanceService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if passwordLength < password.MinLength {
		passwordLength = password.DefaultLength
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &IssuanceService{
		users:          users,
		dispatcher:     dispatcher,
		locker:         locker,
		logger:         logger.With("component", "service.issuance"),
		metrics:        recorder,
		passwordLength: passwordLength,
		concurrency:    concurrency,
		now:            time.Now,
	}
}

// IssueForUser issues credentials for a single user. Business-rule outcomes
// (user already has credentials, issuance in flight, user missing) come back
// as structured results; the error return is non-nil only for unexpected
// failures the transport layer should surface as a server error.
func (s *IssuanceService) IssueForUser(ctx context.Context, userID string) (IssueResult, error) {
	if s.locker != nil {
		acquired, err := s.locker.AcquireIssuanceLock(ctx, userID)
		if err != nil {
			// A lock-store outage should not block issuance; the
			// conditional write below still prevents double issuance.
			s.logger.Warn("issuance lock unavailable", "user_id", userID, "error", err)
		} else if !acquired {
			s.metrics.IncIssuance("already_issued")
			return IssueResult{Success: false, Message: MsgIssuanceInFlight, UserID: userID}, nil
		} else {
			defer func() {
				if err := s.locker.ReleaseIssuanceLock(context.WithoutCancel(ctx), userID); err != nil {
					s.logger.Warn("failed to release issuance lock", "user_id", userID, "error", err)
				}
			}()
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncIssuance("failed")
			return IssueResult{Success: false, Message: MsgUserNotFound, UserID: userID}, nil
		}
		s.metrics.IncIssuance("failed")
		return IssueResult{}, err
	}

	if user.HasCredentials() {
		s.metrics.IncIssuance("already_issued")
		return IssueResult{Success: false, Message: MsgAlreadyIssued, UserID: userID}, nil
	}

	generated, err := password.Generate(s.passwordLength)
	if err != nil {
		s.metrics.IncIssuance("failed")
		return IssueResult{}, err
	}

	set, err := s.users.SetPasswordIfUnset(ctx, userID, generated, s.now())
	if err != nil {
		s.metrics.IncIssuance("failed")
		return IssueResult{}, err
	}
	if !set {
		// A concurrent invocation won the conditional write.
		s.metrics.IncIssuance("already_issued")
		return IssueResult{Success: false, Message: MsgAlreadyIssued, UserID: userID}, nil
	}

	s.logger.Info("credentials issued", "user_id", userID)
	s.metrics.IncIssuance("issued")

	// The password is persisted; an email failure from here on is recorded
	// in the result, never propagated.
	payload := model.UserCredentialPayload(user, generated)
	if _, err := s.dispatcher.SendCredentials(ctx, payload); err != nil {
		s.logger.Error("credential email failed", "user_id", userID, "error", err)
		return IssueResult{
			Success: true,
			Message: MsgIssuedEmailFailed,
			UserID:  userID,
			Error:   err.Error(),
		}, nil
	}

	return IssueResult{
		Success:   true,
		Message:   MsgIssued,
		UserID:    userID,
		EmailSent: true,
	}, nil
}

// IssueForAllUsers processes every user without credentials. Users are
// handled concurrently up to the configured limit; one user's failure never
// aborts the others.
func (s *IssuanceService) IssueForAllUsers(ctx context.Context) (BatchSummary, error) {
	start := s.now()

	users, err := s.users.ListUsersWithoutPassword(ctx)
	if err != nil {
		return BatchSummary{}, err
	}

	s.metrics.ObserveBatchSize(len(users))

	results := make([]IssueResult, len(users))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, user := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.IssueForUser(ctx, userID)
			if err != nil {
				result = IssueResult{
					Success: false,
					Message: "issuance failed",
					UserID:  userID,
					Error:   err.Error(),
				}
			}
			results[i] = result
		}(i, user.ID)
	}
	wg.Wait()

	summary := BatchSummary{Processed: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		}
		if r.EmailSent {
			summary.EmailsSent++
		}
	}

	s.metrics.ObserveBatchDuration(time.Since(start))
	s.logger.Info("batch issuance complete",
		"processed", summary.Processed,
		"successful", summary.Successful,
		"emails_sent", summary.EmailsSent,
	)

	return summary, nil
}
