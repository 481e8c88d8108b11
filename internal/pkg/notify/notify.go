package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sirupsen/logrus"
)

// SNS subjects are capped at 100 characters.
const maxSubjectLength = 100

var ErrNoTopic = errors.New("no SNS topic ARN configured")

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Publisher struct {
	Log      *logrus.Entry
	SNS      SNSAPI
	TopicARN string
}

func (p *Publisher) Publish(ctx context.Context, subject, message string) error {
	if p.TopicARN == "" {
		return ErrNoTopic
	}

	subject = truncate(subject, maxSubjectLength)

	input := &sns.PublishInput{
		Message:  aws.String(message),
		TopicArn: aws.String(p.TopicARN),
	}

	if subject != "" {
		input.Subject = aws.String(subject)
	}

	out, err := p.SNS.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("error publishing to AWS SNS topic %s: %w", p.TopicARN, err)
	}

	if p.Log != nil {
		p.Log.WithFields(logrus.Fields{
			"topic_arn":  p.TopicARN,
			"message_id": aws.ToString(out.MessageId),
		}).Info("published digest")
	}

	return nil
}

// truncate keeps at most limit bytes of s without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}

	return s[:cut]
}
