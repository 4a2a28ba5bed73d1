package notify

import (
	"context"
	"fmt"

	"voice-webhooks/internal/config"
	"voice-webhooks/internal/message"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// twilioMessages is the slice of the Twilio REST client we use.
type twilioMessages interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	from string
	api  twilioMessages
}

// NewTwilioSender builds the sender. With missing credentials the sender still
// constructs; every send then fails with ErrNotConfigured.
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	s := &TwilioSender{from: cfg.FromNumber}
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		s.api = client.Api
	}
	return s
}

func (s *TwilioSender) Name() string { return config.SMSProviderTwilio }

func (s *TwilioSender) SendSMS(ctx context.Context, msg message.OutboundMessage) (string, error) {
	if s.api == nil || s.from == "" {
		return "", fmt.Errorf("twilio: %w", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: create message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
