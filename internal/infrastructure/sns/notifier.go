package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/email-access-policy/internal/config"
	"github.com/email-access-policy/internal/domain"
)

// AppealNotifier tells reviewers that an appeal is waiting.
type AppealNotifier interface {
	AppealFiled(ctx context.Context, a domain.Appeal) error
}

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type notifier struct {
	client   publisher
	topicARN string
}

// appealMessage is the JSON body published for each filed appeal.
type appealMessage struct {
	Event       string `json:"event"`
	AppealID    string `json:"appeal_id"`
	Email       string `json:"email"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

// NewNotifier builds an SNS-backed notifier. It fails when no topic is
// configured so callers can fall back to running without notifications.
func NewNotifier(cfg *config.Config) (AppealNotifier, error) {
	if cfg.SNSAppealsTopicARN == "" {
		return nil, errors.New("SNS_APPEALS_TOPIC_ARN not set")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return newNotifier(sns.NewFromConfig(awsCfg, clientOpts...), cfg.SNSAppealsTopicARN), nil
}

func newNotifier(client publisher, topicARN string) *notifier {
	return &notifier{client: client, topicARN: topicARN}
}

func (n *notifier) AppealFiled(ctx context.Context, a domain.Appeal) error {
	body, err := json.Marshal(appealMessage{
		Event:       "appeal.filed",
		AppealID:    a.AppealID,
		Email:       a.Email,
		Reason:      a.Reason,
		Status:      a.Status,
		SubmittedAt: a.SubmittedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal appeal message: %w", err)
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("Appeal " + a.AppealID + " pending review"),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("publish appeal %s: %w", a.AppealID, err)
	}
	return nil
}
