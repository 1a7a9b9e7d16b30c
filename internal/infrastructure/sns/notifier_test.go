package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/email-access-policy/internal/config"
	"github.com/email-access-policy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	if out, _ := args.Get(0).(*sns.PublishOutput); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func testAppeal() domain.Appeal {
	return domain.Appeal{
		AppealID:    "APP_01J0000000000000000000000",
		Email:       "user@tempmail.com",
		Reason:      "registration blocked",
		Status:      domain.AppealStatusPending,
		SubmittedAt: time.Date(2025, 4, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestAppealFiled_PublishesJSON(t *testing.T) {
	pub := &mockPublisher{}
	var captured *sns.PublishInput
	pub.On("Publish", mock.Anything, mock.AnythingOfType("*sns.PublishInput")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{MessageId: aws.String("m1")}, nil)

	n := newNotifier(pub, "arn:aws:sns:us-east-1:000000000000:appeals")
	require.NoError(t, n.AppealFiled(context.Background(), testAppeal()))

	require.NotNil(t, captured)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:appeals", aws.ToString(captured.TopicArn))
	var msg appealMessage
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.Message)), &msg))
	assert.Equal(t, "appeal.filed", msg.Event)
	assert.Equal(t, "APP_01J0000000000000000000000", msg.AppealID)
	assert.Equal(t, "2025-04-14T10:00:00Z", msg.SubmittedAt)
	pub.AssertExpectations(t)
}

func TestAppealFiled_PublishError(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := newNotifier(pub, "arn").AppealFiled(context.Background(), testAppeal())
	assert.ErrorContains(t, err, "throttled")
}

func TestNewNotifier_RequiresTopic(t *testing.T) {
	_, err := NewNotifier(&config.Config{AWSRegion: "us-east-1"})
	assert.ErrorContains(t, err, "SNS_APPEALS_TOPIC_ARN")
}
