package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"voice-webhooks/internal/config"
	"voice-webhooks/internal/message"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GatewaySender posts to a REST SMS gateway keyed by an API key, using the
// Textbelt wire format:
//
//	request:  {"phone": "...", "message": "...", "key": "..."}
//	response: {"success": true, "textId": "..."} or {"success": false, "error": "..."}
type GatewaySender struct {
	url    string
	apiKey string
	client HTTPDoer
}

func NewGatewaySender(cfg config.GatewayConfig, client HTTPDoer) *GatewaySender {
	if client == nil {
		client = http.DefaultClient
	}
	return &GatewaySender{url: cfg.URL, apiKey: cfg.APIKey, client: client}
}

func (s *GatewaySender) Name() string { return config.SMSProviderGateway }

type gatewayRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

type gatewayResponse struct {
	Success bool   `json:"success"`
	TextID  string `json:"textId"`
	Error   string `json:"error"`
}

func (s *GatewaySender) SendSMS(ctx context.Context, msg message.OutboundMessage) (string, error) {
	if s.url == "" || s.apiKey == "" {
		return "", fmt.Errorf("sms gateway: %w", ErrNotConfigured)
	}

	body, err := json.Marshal(gatewayRequest{Phone: msg.To, Message: msg.Body, Key: s.apiKey})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("sms gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("sms gateway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sms gateway: status %d", resp.StatusCode)
	}

	var out gatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("sms gateway: decode response: %w", err)
	}
	if !out.Success {
		if out.Error == "" {
			return "", errors.New("sms gateway: send rejected")
		}
		return "", fmt.Errorf("sms gateway: %s", out.Error)
	}
	return out.TextID, nil
}
