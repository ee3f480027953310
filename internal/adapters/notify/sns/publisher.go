package sns

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/bnema/payment-holds/internal/logging"
	"github.com/bnema/payment-holds/internal/ports"
)

type API interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type Publisher struct {
	api      API
	topicARN string
}

var _ ports.Publisher = (*Publisher)(nil)

func NewPublisher(api API, topicARN string) (*Publisher, error) {
	if topicARN == "" {
		return nil, errors.New("sns topic arn is required")
	}
	return &Publisher{api: api, topicARN: topicARN}, nil
}

func NewFromConfig(cfg aws.Config, topicARN string) (*Publisher, error) {
	return NewPublisher(awssns.NewFromConfig(cfg), topicARN)
}

func (p *Publisher) Publish(ctx context.Context, notification ports.Notification) error {
	out, err := p.api.Publish(ctx, &awssns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(notification.Subject),
		Message:  aws.String(notification.Message),
	})
	if err != nil {
		return fmt.Errorf("sns publish to %s: %w", p.topicARN, err)
	}

	logging.FromContext(ctx).Debug().
		Str("topic_arn", p.topicARN).
		Str("message_id", aws.ToString(out.MessageId)).
		Msg("notification published")
	return nil
}
