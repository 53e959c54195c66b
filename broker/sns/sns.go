// Package sns implements a publish only mqbackup.Broker on AWS SNS topics, used to
// replay records into topics fanning out to their subscribers.
package sns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/internal/awsattr"
	"github.com/x4b1/mqbackup/internal/awsconfig"
)

//go:generate go tool moq -pkg sns_test -stub -out mock_test.go . Client

const (
	fifoSuffix     = ".fifo"
	defaultGroupID = "mqbackup"

	// GroupIDKey is the property holding the message group of FIFO topics.
	GroupIDKey = "sqs.message_group_id"
)

var _ mqbackup.Broker = (*Broker)(nil)

// Client defines the AWS SNS methods used by the Broker. This is used for testing purposes.
type Client interface {
	CreateTopic(context.Context, *sns.CreateTopicInput, ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	ListTopics(context.Context, *sns.ListTopicsInput, ...func(*sns.Options)) (*sns.ListTopicsOutput, error)
	Publish(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Open returns a Broker using the AWS configuration loaded from the environment and
// the given overrides.
func Open(ctx context.Context, params awsconfig.Params) (*Broker, error) {
	cfg, err := awsconfig.Load(ctx, params)
	if err != nil {
		return nil, err
	}

	return New(sns.NewFromConfig(cfg)), nil
}

// New returns a Broker using the given SNS client. Queue names are topic names.
func New(cli Client) *Broker {
	return &Broker{
		cli:    cli,
		topics: make(map[string]string),
	}
}

// Broker publishes records to SNS topics. Topics cannot be drained.
type Broker struct {
	cli Client

	mu     sync.Mutex
	topics map[string]string
}

// Ping checks the credentials and the endpoint.
func (b *Broker) Ping(ctx context.Context) error {
	_, err := b.cli.ListTopics(ctx, &sns.ListTopicsInput{})

	return err
}

// Declare implements mqbackup.Broker creating the topic, creation is idempotent.
func (b *Broker) Declare(ctx context.Context, name string, opts mqbackup.QueueOptions) error {
	if !opts.Durable || opts.AutoDelete {
		return fmt.Errorf("%s: sns topics are durable and not auto delete: %w", name, mqbackup.ErrQueueMismatch)
	}

	_, err := b.topicARN(ctx, name)

	return err
}

// Fetch is not supported, topics do not retain messages.
func (b *Broker) Fetch(context.Context, string) (*mqbackup.Delivery, error) {
	return nil, fmt.Errorf("sns fetch: %w", errors.ErrUnsupported)
}

// Ack is not supported, topics do not retain messages.
func (b *Broker) Ack(context.Context, *mqbackup.Delivery) error {
	return fmt.Errorf("sns ack: %w", errors.ErrUnsupported)
}

// Publish implements mqbackup.Broker.
func (b *Broker) Publish(ctx context.Context, name string, body []byte, props mqbackup.Properties) error {
	arn, err := b.topicARN(ctx, name)
	if err != nil {
		return err
	}

	props = props.Clone()
	group, _ := props.String(GroupIDKey)
	delete(props, GroupIDKey)

	text, enc := awsattr.EncodeBody(body)
	if enc != "" {
		props[awsattr.BodyEncodingKey] = enc
	}

	values, err := awsattr.Encode(props)
	if err != nil {
		return err
	}
	attrs := make(map[string]types.MessageAttributeValue, len(values))
	for k, v := range values {
		attr := types.MessageAttributeValue{DataType: aws.String(v.DataType)}
		if v.BinaryValue != nil {
			attr.BinaryValue = v.BinaryValue
		} else {
			attr.StringValue = aws.String(v.StringValue)
		}
		attrs[k] = attr
	}

	in := sns.PublishInput{
		TopicArn:          aws.String(arn),
		Message:           aws.String(text),
		MessageAttributes: attrs,
	}
	if strings.HasSuffix(name, fifoSuffix) {
		if group == "" {
			group = defaultGroupID
		}
		in.MessageGroupId = aws.String(group)
		in.MessageDeduplicationId = aws.String(uuid.NewString())
	}

	if _, err := b.cli.Publish(ctx, &in); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}

	return nil
}

// Close implements mqbackup.Broker.
func (b *Broker) Close() error {
	return nil
}

func (b *Broker) topicARN(ctx context.Context, name string) (string, error) {
	b.mu.Lock()
	arn, ok := b.topics[name]
	b.mu.Unlock()
	if ok {
		return arn, nil
	}

	in := sns.CreateTopicInput{Name: aws.String(name)}
	if strings.HasSuffix(name, fifoSuffix) {
		in.Attributes = map[string]string{"FifoTopic": "true"}
	}

	out, err := b.cli.CreateTopic(ctx, &in)
	if err != nil {
		return "", fmt.Errorf("creating topic %s: %w", name, err)
	}
	arn = aws.ToString(out.TopicArn)

	b.mu.Lock()
	b.topics[name] = arn
	b.mu.Unlock()

	return arn, nil
}
