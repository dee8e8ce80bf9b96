package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNotifySubmission(t *testing.T) {
	fake := &fakeSNS{}
	n := NewSNSNotifier(fake, "arn:aws:sns:us-east-1:123456789012:contact")
	sub := model.NewSubmission("id-1", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		model.ContactForm{FName: "Jo", LName: "Doe", Email: "jo@example.com", Message: "secret"},
		model.DefaultSource, "1.2.3.4", "ua")

	id, err := n.NotifySubmission(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	require.NotNil(t, fake.in)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:contact", aws.ToString(fake.in.TopicArn))
	assert.Equal(t, SubmissionSubject, aws.ToString(fake.in.Subject))

	msg := aws.ToString(fake.in.Message)
	assert.JSONEq(t, `{"id":"id-1","createdAt":"2025-01-02T03:04:05.000000+00:00","email":"jo@example.com","fname":"Jo","lname":"Doe"}`, msg)
	assert.Contains(t, msg, "\n  \"id\": \"id-1\"")
	// Only the summary goes out, never the message text or client details.
	assert.NotContains(t, msg, "secret")
	assert.NotContains(t, msg, "1.2.3.4")
}

func TestPublish_Error(t *testing.T) {
	fake := &fakeSNS{err: errors.New("AuthorizationError")}
	n := NewSNSNotifier(fake, "arn")

	_, err := n.Publish(context.Background(), "s", "m")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AuthorizationError")
}
