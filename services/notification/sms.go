package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lexcitas/config"
)

// HTTPSMSSender posts messages to the practice's SMS gateway.
type HTTPSMSSender struct {
	gatewayURL string
	apiKey     string
	sender     string
	client     *http.Client
}

// NewHTTPSMSSender builds the sender from AppConfig.
func NewHTTPSMSSender() *HTTPSMSSender {
	cfg := config.AppConfig
	return &HTTPSMSSender{
		gatewayURL: cfg.SMSGatewayURL,
		apiKey:     cfg.SMSAPIKey,
		sender:     cfg.SMSSender,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type smsPayload struct {
	To     string `json:"to"`
	From   string `json:"from"`
	Text   string `json:"text"`
	APIKey string `json:"apiKey"`
}

// Send delivers one text message.
func (s *HTTPSMSSender) Send(ctx context.Context, phone, body string) error {
	if s.gatewayURL == "" {
		return fmt.Errorf("sms gateway not configured")
	}
	if phone == "" {
		return fmt.Errorf("no phone number to send to")
	}

	payload, err := json.Marshal(smsPayload{
		To:     phone,
		From:   s.sender,
		Text:   body,
		APIKey: s.apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}
