// Package sqs implements mqbackup.Broker on top of AWS SQS queues.
package sqs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/internal/awsattr"
	"github.com/x4b1/mqbackup/internal/awsconfig"
)

//go:generate go tool moq -pkg sqs_test -stub -out mock_test.go . Client

const (
	defaultMaxWaitSeconds  = 2
	defaultReceiveMessages = 10

	fifoSuffix     = ".fifo"
	defaultGroupID = "mqbackup"

	// BodyEncodingKey is the attribute marking bodies that are not valid SQS text.
	BodyEncodingKey = awsattr.BodyEncodingKey
	// GroupIDKey is the property holding the message group of FIFO queues.
	GroupIDKey = "sqs.message_group_id"
)

var _ mqbackup.Broker = (*Broker)(nil)

// Client defines the AWS SQS methods used by the Broker. This is used for testing purposes.
type Client interface {
	CreateQueue(context.Context, *sqs.CreateQueueInput, ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
	GetQueueUrl(context.Context, *sqs.GetQueueUrlInput, ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ListQueues(context.Context, *sqs.ListQueuesInput, ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error)
	ReceiveMessage(context.Context, *sqs.ReceiveMessageInput, ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(context.Context, *sqs.DeleteMessageInput, ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Open returns a Broker using the AWS configuration loaded from the environment and
// the given overrides.
func Open(ctx context.Context, params awsconfig.Params, opts ...Option) (*Broker, error) {
	cfg, err := awsconfig.Load(ctx, params)
	if err != nil {
		return nil, err
	}

	return New(sqs.NewFromConfig(cfg), opts...), nil
}

// New returns a Broker using the given SQS client.
func New(cli Client, opts ...Option) *Broker {
	b := Broker{
		cli:            cli,
		queues:         make(map[string]*queue),
		maxWaitSeconds: defaultMaxWaitSeconds,
		maxMessages:    defaultReceiveMessages,
		defaultGroupID: defaultGroupID,
	}
	for _, opt := range opts {
		opt.applyBroker(&b)
	}

	return &b
}

// Broker drains and publishes SQS queues. Fetched messages stay invisible for the queue
// visibility timeout, if they are not deleted in time SQS delivers them again.
type Broker struct {
	cli Client

	maxWaitSeconds    int
	maxMessages       int
	visibilityTimeout int
	defaultGroupID    string

	mu     sync.Mutex
	queues map[string]*queue
}

type queue struct {
	url     string
	pending []types.Message
}

type handle struct {
	url     string
	receipt string
}

// Ping checks the credentials and the endpoint.
func (b *Broker) Ping(ctx context.Context) error {
	_, err := b.cli.ListQueues(ctx, &sqs.ListQueuesInput{MaxResults: aws.Int32(1)})

	return err
}

// Declare implements mqbackup.Broker. SQS queues are always durable and never deleted
// automatically, other options return mqbackup.ErrQueueMismatch.
func (b *Broker) Declare(ctx context.Context, name string, opts mqbackup.QueueOptions) error {
	if !opts.Durable || opts.AutoDelete {
		return fmt.Errorf("%s: sqs queues are durable and not auto delete: %w", name, mqbackup.ErrQueueMismatch)
	}

	url, err := b.queueURL(ctx, name)
	if err == nil {
		b.setURL(name, url)
		return nil
	}
	if !errors.Is(err, mqbackup.ErrQueueNotFound) {
		return err
	}

	in := sqs.CreateQueueInput{QueueName: aws.String(name)}
	if isFifo(name) {
		in.Attributes = map[string]string{
			string(types.QueueAttributeNameFifoQueue): "true",
		}
	}

	out, err := b.cli.CreateQueue(ctx, &in)
	if err != nil {
		return fmt.Errorf("creating queue %s: %w", name, err)
	}
	b.setURL(name, aws.ToString(out.QueueUrl))

	return nil
}

// Fetch implements mqbackup.Broker. Messages are received in batches, an empty receive
// means the queue is drained.
func (b *Broker) Fetch(ctx context.Context, name string) (*mqbackup.Delivery, error) {
	q, err := b.queue(ctx, name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	empty := len(q.pending) == 0
	b.mu.Unlock()

	if empty {
		in := sqs.ReceiveMessageInput{
			QueueUrl:                    aws.String(q.url),
			MaxNumberOfMessages:         int32(b.maxMessages),
			WaitTimeSeconds:             int32(b.maxWaitSeconds),
			MessageAttributeNames:       []string{"All"},
			MessageSystemAttributeNames: []types.MessageSystemAttributeName{types.MessageSystemAttributeNameMessageGroupId},
		}
		if b.visibilityTimeout > 0 {
			in.VisibilityTimeout = int32(b.visibilityTimeout)
		}

		out, err := b.cli.ReceiveMessage(ctx, &in)
		if err != nil {
			return nil, fmt.Errorf("receiving messages from %s: %w", name, err)
		}
		if out == nil || len(out.Messages) == 0 {
			return nil, mqbackup.ErrQueueEmpty
		}

		b.mu.Lock()
		q.pending = append(q.pending, out.Messages...)
		b.mu.Unlock()
	}

	b.mu.Lock()
	msg := q.pending[0]
	q.pending = q.pending[1:]
	b.mu.Unlock()

	return b.delivery(name, q.url, msg)
}

func (b *Broker) delivery(name, url string, msg types.Message) (*mqbackup.Delivery, error) {
	id := aws.ToString(msg.MessageId)

	attrs := make(map[string]awsattr.Value, len(msg.MessageAttributes))
	for k, v := range msg.MessageAttributes {
		attrs[k] = awsattr.Value{
			DataType:    aws.ToString(v.DataType),
			StringValue: aws.ToString(v.StringValue),
			BinaryValue: v.BinaryValue,
		}
	}

	props, err := awsattr.Decode(attrs)
	if err != nil {
		return nil, &mqbackup.DecodeError{Queue: name, ID: id, Err: err}
	}
	if group, ok := msg.Attributes[string(types.MessageSystemAttributeNameMessageGroupId)]; ok {
		props[GroupIDKey] = group
	}

	enc, _ := props.String(BodyEncodingKey)
	delete(props, BodyEncodingKey)

	body, err := awsattr.DecodeBody(aws.ToString(msg.Body), enc)
	if err != nil {
		return nil, &mqbackup.DecodeError{Queue: name, ID: id, Err: err}
	}

	return &mqbackup.Delivery{
		Queue:      name,
		ID:         id,
		Body:       body,
		Properties: props,
		Handle:     handle{url: url, receipt: aws.ToString(msg.ReceiptHandle)},
	}, nil
}

// Ack implements mqbackup.Broker deleting the message from the queue.
func (b *Broker) Ack(ctx context.Context, d *mqbackup.Delivery) error {
	h, ok := d.Handle.(handle)
	if !ok {
		return fmt.Errorf("unexpected delivery handle %T", d.Handle)
	}

	if _, err := b.cli.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(h.url),
		ReceiptHandle: aws.String(h.receipt),
	}); err != nil {
		return fmt.Errorf("deleting message %s: %w", d.ID, err)
	}

	return nil
}

// Publish implements mqbackup.Broker. Bodies that are not valid SQS text are sent base64
// encoded and decoded back when drained.
func (b *Broker) Publish(ctx context.Context, name string, body []byte, props mqbackup.Properties) error {
	q, err := b.queue(ctx, name)
	if err != nil {
		return err
	}

	props = props.Clone()
	group, _ := props.String(GroupIDKey)
	delete(props, GroupIDKey)

	text, enc := awsattr.EncodeBody(body)
	if enc != "" {
		props[BodyEncodingKey] = enc
	}

	attrs, err := encodeAttributes(props)
	if err != nil {
		return err
	}

	in := sqs.SendMessageInput{
		QueueUrl:          aws.String(q.url),
		MessageBody:       aws.String(text),
		MessageAttributes: attrs,
	}
	if isFifo(name) {
		if group == "" {
			group = b.defaultGroupID
		}
		in.MessageGroupId = aws.String(group)
		// replayed messages are new messages, they must never be deduplicated.
		in.MessageDeduplicationId = aws.String(uuid.NewString())
	}

	if _, err := b.cli.SendMessage(ctx, &in); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}

	return nil
}

// Close implements mqbackup.Broker.
func (b *Broker) Close() error {
	return nil
}

func (b *Broker) queue(ctx context.Context, name string) (*queue, error) {
	b.mu.Lock()
	q, ok := b.queues[name]
	b.mu.Unlock()
	if ok {
		return q, nil
	}

	url, err := b.queueURL(ctx, name)
	if err != nil {
		return nil, err
	}

	return b.setURL(name, url), nil
}

func (b *Broker) setURL(name, url string) *queue {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		q = &queue{url: url}
		b.queues[name] = q
	}

	return q
}

func (b *Broker) queueURL(ctx context.Context, name string) (string, error) {
	out, err := b.cli.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		var notFound *types.QueueDoesNotExist
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%s: %w", name, mqbackup.ErrQueueNotFound)
		}

		return "", fmt.Errorf("getting queue url for %s: %w", name, err)
	}

	return aws.ToString(out.QueueUrl), nil
}

func isFifo(name string) bool {
	return strings.HasSuffix(name, fifoSuffix)
}

func encodeAttributes(props mqbackup.Properties) (map[string]types.MessageAttributeValue, error) {
	values, err := awsattr.Encode(props)
	if err != nil {
		return nil, err
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

	return attrs, nil
}
