package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
)

// SubmissionSubject is the subject line of every new-submission alert.
const SubmissionSubject = "New Contact Form Submission"

// Notifier delivers an alert for a stored submission.
type Notifier interface {
	NotifySubmission(ctx context.Context, sub *model.Submission) (string, error)
}

// SNSAPI is the subset of the SNS client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes to one SNS topic.
type SNSNotifier struct {
	client   SNSAPI
	topicARN string
}

func NewSNSNotifier(client SNSAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func NewSNSClient(cfg aws.Config) *sns.Client {
	return sns.NewFromConfig(cfg)
}

// Publish sends message under subject and returns the SNS message id.
func (n *SNSNotifier) Publish(ctx context.Context, subject, message string) (string, error) {
	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", fmt.Errorf("sns publish %s: %w", n.topicARN, err)
	}
	return aws.ToString(out.MessageId), nil
}

// NotifySubmission publishes the subscriber view of sub as indented JSON.
func (n *SNSNotifier) NotifySubmission(ctx context.Context, sub *model.Submission) (string, error) {
	body, err := json.MarshalIndent(sub.Notification(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode notification: %w", err)
	}
	return n.Publish(ctx, SubmissionSubject, string(body))
}
