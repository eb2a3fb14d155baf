package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
)

// maxSubjectLen is the SNS limit on the Subject attribute.
const maxSubjectLen = 100

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// TopicMailer hands rendered emails to an SNS topic; a subscriber owns delivery.
type TopicMailer struct {
	client   publisher
	topicARN string
}

// envelope is the JSON document published to the topic.
type envelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

func NewTopicMailer(ctx context.Context, cfg *config.Config) (*TopicMailer, error) {
	if cfg.MailTopicARN == "" {
		return nil, errors.New("MAIL_TOPIC_ARN is required for the sns mail transport")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SNSRegion))
	if err != nil {
		return nil, err
	}
	var opts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &TopicMailer{client: sns.NewFromConfig(awsCfg, opts...), topicARN: cfg.MailTopicARN}, nil
}

func (m *TopicMailer) SendEmail(ctx context.Context, msg domain.EmailMessage) error {
	body, err := json.Marshal(envelope{To: msg.To, Subject: msg.Subject, HTML: msg.HTML, Text: msg.Text})
	if err != nil {
		return fmt.Errorf("marshal email envelope: %w", err)
	}
	subject := msg.Subject
	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}
	_, err = m.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(m.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
	})
	return err
}
