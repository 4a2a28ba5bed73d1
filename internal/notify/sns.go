package notify

import (
	"context"
	"fmt"

	"voice-webhooks/internal/config"
	"voice-webhooks/internal/message"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSService is the slice of the SNS client we use.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes SMS directly to a phone number through AWS SNS.
type SNSSender struct {
	client SNSService
}

func NewSNSSender(client SNSService) *SNSSender {
	return &SNSSender{client: client}
}

func (s *SNSSender) Name() string { return config.SMSProviderSNS }

func (s *SNSSender) SendSMS(ctx context.Context, msg message.OutboundMessage) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("sns: %w", ErrNotConfigured)
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(msg.To),
		Message:     aws.String(msg.Body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns: publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
