package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultResendBaseURL = "https://api.resend.com"

// resendPayload is the request body for the Resend send-email endpoint.
type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// resendError is the error body Resend returns for failed sends.
type resendError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// ResendDispatcher sends email through the Resend HTTP API.
type ResendDispatcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewResendDispatcher creates a dispatcher for the Resend API. The underlying
// HTTP client pools connections and bounds each send with a timeout.
func NewResendDispatcher(apiKey string) *ResendDispatcher {
	return &ResendDispatcher{
		apiKey:  apiKey,
		baseURL: defaultResendBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send posts the message to the Resend API. Non-2xx responses surface the
// provider's message as a ProviderError.
func (d *ResendDispatcher) Send(ctx context.Context, msg *Message) error {
	payload := resendPayload{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		slog.Error("email send failed", "to", msg.To, "duration", time.Since(start), "error", err)
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Info("email sent", "to", msg.To, "subject", msg.Subject, "duration", time.Since(start))
		return nil
	}

	// Bounded read; error bodies are small
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4*1024))

	var apiErr resendError
	if readErr == nil && json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
		slog.Error("email provider rejected send",
			"to", msg.To,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return &ProviderError{Message: apiErr.Message}
	}

	slog.Error("email provider rejected send", "to", msg.To, "status", resp.StatusCode)
	return &ProviderError{Message: fmt.Sprintf("email provider returned status %d", resp.StatusCode)}
}

var _ Dispatcher = (*ResendDispatcher)(nil)
