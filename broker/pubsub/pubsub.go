// Package pubsub implements mqbackup.Broker on Google Cloud Pub/Sub topics. It is a
// replay target only, messages cannot be drained from a topic.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/internal/textprops"
)

// OrderingKeyProperty is the property used as message ordering key, it is not sent as attribute.
const OrderingKeyProperty = "pubsub.ordering_key"

var _ mqbackup.Broker = (*Broker)(nil)

// Option is a function to set options to Broker.
type Option func(*Broker)

// WithDefaultOrderingKey setups the ordering key of the messages without OrderingKeyProperty.
func WithDefaultOrderingKey(key string) Option {
	return func(b *Broker) {
		b.defaultOrdKey = key
	}
}

// Open returns a Broker for the given project.
func Open(ctx context.Context, project string, clientOpts []option.ClientOption, opts ...Option) (*Broker, error) {
	client, err := pubsub.NewClient(ctx, project, clientOpts...)
	if err != nil {
		return nil, err
	}

	return New(client, opts...), nil
}

// New returns a Broker using the given client.
func New(client *pubsub.Client, opts ...Option) *Broker {
	b := Broker{
		client:     client,
		publishers: make(map[string]*pubsub.Publisher),
	}
	for _, opt := range opts {
		opt(&b)
	}

	return &b
}

// Broker publishes to pubsub topics.
type Broker struct {
	client *pubsub.Client
	// default ordering key in case not provided in message properties
	defaultOrdKey string

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// Ping checks the project topics can be listed.
func (b *Broker) Ping(ctx context.Context) error {
	it := b.client.TopicAdminClient.ListTopics(ctx, &pubsubpb.ListTopicsRequest{
		Project:  "projects/" + b.client.Project(),
		PageSize: 1,
	})
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}

	return nil
}

// Declare implements mqbackup.Broker getting or creating the topic. Topics are always
// durable, auto delete topics return mqbackup.ErrQueueMismatch.
func (b *Broker) Declare(ctx context.Context, queue string, opts mqbackup.QueueOptions) error {
	if !opts.Durable || opts.AutoDelete {
		return fmt.Errorf("%s: pubsub topics are durable and not auto delete: %w", queue, mqbackup.ErrQueueMismatch)
	}

	name := b.topicName(queue)
	_, err := b.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: name})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return b.mapError(queue, err)
	}

	if _, err := b.client.TopicAdminClient.CreateTopic(ctx, &pubsubpb.Topic{Name: name}); err != nil &&
		status.Code(err) != codes.AlreadyExists {
		return b.mapError(queue, err)
	}

	return nil
}

// Fetch is not supported, pubsub topics are replay targets only.
func (b *Broker) Fetch(context.Context, string) (*mqbackup.Delivery, error) {
	return nil, fmt.Errorf("pubsub fetch: %w", errors.ErrUnsupported)
}

// Ack is not supported, pubsub topics are replay targets only.
func (b *Broker) Ack(context.Context, *mqbackup.Delivery) error {
	return fmt.Errorf("pubsub ack: %w", errors.ErrUnsupported)
}

// Publish implements mqbackup.Broker publishing and waiting for the server confirmation.
func (b *Broker) Publish(ctx context.Context, queue string, body []byte, props mqbackup.Properties) error {
	attrs := props.Clone()
	ordKey, ok := attrs.String(OrderingKeyProperty)
	if !ok {
		ordKey = b.defaultOrdKey
	}
	delete(attrs, OrderingKeyProperty)

	md, err := textprops.EncodeMap(attrs)
	if err != nil {
		return err
	}

	p := b.publisher(queue)
	if _, err := p.Publish(ctx, &pubsub.Message{
		Attributes:  md,
		Data:        body,
		OrderingKey: ordKey,
	}).Get(ctx); err != nil {
		if ordKey != "" {
			// a failed ordering key is paused until resumed.
			p.ResumePublish(ordKey)
		}
		return b.mapError(queue, err)
	}

	return nil
}

// Queues implements mqbackup.QueueLister.
func (b *Broker) Queues(ctx context.Context) ([]string, error) {
	prefix := b.topicName("")
	it := b.client.TopicAdminClient.ListTopics(ctx, &pubsubpb.ListTopicsRequest{
		Project: "projects/" + b.client.Project(),
	})

	var names []string
	for {
		t, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(t.GetName(), prefix))
	}
	slices.Sort(names)

	return names, nil
}

// Close implements mqbackup.Broker flushing the publishers and closing the client.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for queue, p := range b.publishers {
		p.Stop()
		delete(b.publishers, queue)
	}

	return b.client.Close()
}

func (b *Broker) publisher(queue string) *pubsub.Publisher {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.publishers[queue]
	if !ok {
		p = b.client.Publisher(b.topicName(queue))
		p.EnableMessageOrdering = true
		b.publishers[queue] = p
	}

	return p
}

func (b *Broker) topicName(queue string) string {
	return fmt.Sprintf("projects/%s/topics/%s", b.client.Project(), queue)
}

func (b *Broker) mapError(queue string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", queue, mqbackup.ErrQueueNotFound)
	case codes.InvalidArgument:
		return fmt.Errorf("%s: %w: %w", queue, mqbackup.ErrInvalidQueueName, err)
	default:
		return err
	}
}
