package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testMessage() Message {
	return Message{
		From:    Recipient{Name: "MedYatra Team", Email: "support@medyatra.space"},
		To:      Recipient{Name: "Asha Rao", Email: "asha@example.com"},
		Subject: "Subject",
		HTML:    "<p>hi</p>",
	}
}

func TestBrevoProvider_Send(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody brevoRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(brevoResponse{MessageID: "<202608@smtp-relay>"})
	}))
	defer srv.Close()

	p := NewBrevoProvider("test-key", srv.URL, srv.Client())

	id, err := p.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if id != "<202608@smtp-relay>" {
		t.Errorf("message ID = %q", id)
	}
	if gotAuth != "test-key" {
		t.Errorf("api-key header = %q", gotAuth)
	}
	if len(gotBody.To) != 1 || gotBody.To[0].Email != "asha@example.com" {
		t.Errorf("unexpected recipients: %+v", gotBody.To)
	}
	if gotBody.Sender.Email != "support@medyatra.space" {
		t.Errorf("unexpected sender: %+v", gotBody.Sender)
	}
}

func TestBrevoProvider_SendRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Key not found"}`))
	}))
	defer srv.Close()

	p := NewBrevoProvider("bad-key", srv.URL, srv.Client())

	_, err := p.Send(context.Background(), testMessage())
	if err == nil {
		t.Fatal("expected error for rejected send")
	}
	if !errors.Is(err, ErrProviderFailure) {
		t.Errorf("error should wrap ErrProviderFailure, got: %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got: %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", statusErr.StatusCode)
	}
}

func TestResendProvider_Send(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody resendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(resendResponse{ID: "re_123"})
	}))
	defer srv.Close()

	p := NewResendProvider("re-key", srv.URL, srv.Client())

	id, err := p.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if id != "re_123" {
		t.Errorf("message ID = %q", id)
	}
	if gotAuth != "Bearer re-key" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotBody.From != "MedYatra Team <support@medyatra.space>" {
		t.Errorf("From = %q", gotBody.From)
	}
	if len(gotBody.To) != 1 || gotBody.To[0] != "asha@example.com" {
		t.Errorf("To = %v", gotBody.To)
	}
}

func TestResendProvider_SendRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid to"}`))
	}))
	defer srv.Close()

	p := NewResendProvider("re-key", srv.URL, srv.Client())

	_, err := p.Send(context.Background(), testMessage())
	if !errors.Is(err, ErrProviderFailure) {
		t.Errorf("error should wrap ErrProviderFailure, got: %v", err)
	}
}
