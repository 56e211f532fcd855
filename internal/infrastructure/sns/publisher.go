package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// publishAPI is the subset of the SNS client used here.
type publishAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher fans account events out to a single SNS topic. The event subject travels
// as the "subject" message attribute so subscribers can filter on it.
type Publisher struct {
	client   publishAPI
	topicARN string
}

func NewPublisher(awsCfg aws.Config, topicARN string) *Publisher {
	return &Publisher{client: sns.NewFromConfig(awsCfg), topicARN: topicARN}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"subject": {DataType: aws.String("String"), StringValue: aws.String(subject)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() error { return nil }
