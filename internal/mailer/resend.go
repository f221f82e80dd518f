package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ResendProvider sends email through the Resend API.
// It is configured independently of the credential-email provider.
type ResendProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewResendProvider creates a Resend provider with an injected HTTP client.
// Pass nil to use the default tuned client.
func NewResendProvider(apiKey, apiURL string, client *http.Client) *ResendProvider {
	if client == nil {
		client = NewHTTPClient()
	}
	return &ResendProvider{
		apiKey: apiKey,
		apiURL: apiURL,
		client: client,
	}
}

// Name identifies the provider in logs and metrics.
func (p *ResendProvider) Name() string {
	return "resend"
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send submits the message and returns Resend's message ID.
func (p *ResendProvider) Send(ctx context.Context, msg Message) (string, error) {
	from := msg.From.Email
	if msg.From.Name != "" {
		from = fmt.Sprintf("%s <%s>", msg.From.Name, msg.From.Email)
	}

	payload, err := json.Marshal(resendRequest{
		From:    from,
		To:      []string{msg.To.Email},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("marshal resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send resend request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{
			Provider:   p.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var parsed resendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil
	}

	return parsed.ID, nil
}
