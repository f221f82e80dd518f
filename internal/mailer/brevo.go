package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// BrevoProvider sends email through the Brevo transactional API.
type BrevoProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewBrevoProvider creates a Brevo provider with an injected HTTP client.
// Pass nil to use the default tuned client.
func NewBrevoProvider(apiKey, apiURL string, client *http.Client) *BrevoProvider {
	if client == nil {
		client = NewHTTPClient()
	}
	return &BrevoProvider{
		apiKey: apiKey,
		apiURL: apiURL,
		client: client,
	}
}

// Name identifies the provider in logs and metrics.
func (p *BrevoProvider) Name() string {
	return "brevo"
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
}

// Send submits the message and returns Brevo's message ID.
func (p *BrevoProvider) Send(ctx context.Context, msg Message) (string, error) {
	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoContact{Name: msg.From.Name, Email: msg.From.Email},
		To:          []brevoContact{{Name: msg.To.Name, Email: msg.To.Email}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("marshal brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create brevo request: %w", err)
	}
	req.Header.Set("api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send brevo request: %w", err)
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

	var parsed brevoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Accepted but with an unexpected body; the send still happened.
		return "", nil
	}

	return parsed.MessageID, nil
}
