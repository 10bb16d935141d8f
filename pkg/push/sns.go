package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/khabarwire/khabar/pkg/domain"
)

// snsClient is the subset of SNS client used by the sender
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes notifications to an AWS SNS topic, subscribers do the actual delivery
type SNS struct {
	topicARN string
	client   snsClient
}

// SNSParams defines SNS sender settings. Empty keys use the default AWS credentials chain.
type SNSParams struct {
	TopicARN        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewSNS makes SNS sender
func NewSNS(ctx context.Context, params SNSParams) (*SNS, error) {
	if params.TopicARN == "" {
		return nil, errors.New("sns topic arn is not set")
	}

	opts := []func(*awscfg.LoadOptions) error{}
	if params.Region != "" {
		opts = append(opts, awscfg.WithRegion(params.Region))
	}
	if params.AccessKeyID != "" {
		creds := credentials.NewStaticCredentialsProvider(params.AccessKeyID, params.SecretAccessKey, "")
		opts = append(opts, awscfg.WithCredentialsProvider(creds))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SNS{topicARN: params.TopicARN, client: sns.NewFromConfig(awsCfg)}, nil
}

// Send publishes notification as JSON message
func (s *SNS) Send(ctx context.Context, n domain.Notification) (string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal notification: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"kind": {
				DataType:    aws.String("String"),
				StringValue: aws.String("breaking_news"),
			},
		},
	}

	resp, err := s.client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("publish to sns: %w", err)
	}
	return aws.ToString(resp.MessageId), nil
}
