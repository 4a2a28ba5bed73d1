package notify

import (
	"context"
	"fmt"

	"voice-webhooks/internal/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// NewSMSSender builds the configured SMS provider.
func NewSMSSender(ctx context.Context, cfg config.Config) (SMSSender, error) {
	switch cfg.SMS.Provider {
	case config.SMSProviderTwilio:
		return NewTwilioSender(cfg.Twilio), nil
	case config.SMSProviderGateway:
		return NewGatewaySender(cfg.Gateway, nil), nil
	case config.SMSProviderSNS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return NewSNSSender(sns.NewFromConfig(awsCfg)), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.SMS.Provider)
	}
}

// NewEmailSender builds the configured email transport. It returns nil when
// email notification is disabled.
func NewEmailSender(ctx context.Context, cfg config.Config) (EmailSender, error) {
	switch cfg.Email.Provider {
	case config.EmailProviderSMTP:
		return NewSMTPSender(cfg.SMTP, cfg.Email), nil
	case config.EmailProviderSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return NewSESSender(ses.NewFromConfig(awsCfg), cfg.Email), nil
	case config.EmailProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}
