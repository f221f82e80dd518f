package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medyatra/credsvc/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured == "" {
		t.Error("request ID should be generated when header is absent")
	}
	if rec.Header().Get(RequestIDHeader) != captured {
		t.Error("request ID should be echoed in response header")
	}
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "incoming-id-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "incoming-id-42" {
		t.Errorf("request ID = %q, want incoming-id-42", captured)
	}
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body should use the error envelope, got: %s", rec.Body.String())
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	t.Parallel()

	handler := Logger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAdminAuth(t *testing.T) {
	t.Parallel()

	generated, err := auth.GenerateAdminKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		keyHash    string
		authHeader string
		apiKey     string
		wantStatus int
	}{
		{
			name:       "bearer token accepted",
			keyHash:    generated.Hash,
			authHeader: "Bearer " + generated.Plaintext,
			wantStatus: http.StatusOK,
		},
		{
			name:       "x-api-key accepted",
			keyHash:    generated.Hash,
			apiKey:     generated.Plaintext,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key rejected",
			keyHash:    generated.Hash,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key rejected",
			keyHash:    generated.Hash,
			authHeader: "Bearer mk_admin_00000000000000000000000000000000",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unconfigured hash disables endpoint",
			keyHash:    "",
			authHeader: "Bearer " + generated.Plaintext,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := AdminAuth(AdminAuthConfig{
				Logger:  discardLogger(),
				KeyHash: tt.keyHash,
			})(next)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/credentials/run", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
