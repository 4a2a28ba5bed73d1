package notify

import (
	"context"
	"fmt"

	"voice-webhooks/internal/config"
	"voice-webhooks/internal/message"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES client we use.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender delivers email through AWS SES.
type SESSender struct {
	client SESService
	from   string
	to     []string
}

func NewSESSender(client SESService, email config.EmailConfig) *SESSender {
	return &SESSender{client: client, from: email.From, to: email.To}
}

func (s *SESSender) Name() string { return config.EmailProviderSES }

func (s *SESSender) SendEmail(ctx context.Context, e message.Email) error {
	e = withDefaults(e, s.from, s.to)
	if s.client == nil || e.From == "" || len(e.To) == 0 {
		return fmt.Errorf("ses: %w", ErrNotConfigured)
	}

	content := &sestypes.Content{Data: aws.String(e.Body), Charset: aws.String("UTF-8")}
	body := &sestypes.Body{Text: content}
	if e.ContentType == message.ContentTypeHTML {
		body = &sestypes.Body{Html: content}
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: e.To},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(e.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
		Source: aws.String(e.From),
	})
	if err != nil {
		return fmt.Errorf("ses: send email: %w", err)
	}
	return nil
}
