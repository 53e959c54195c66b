// Package kafka implements mqbackup.Broker on Kafka topics with franz-go. A queue is a
// topic, drained through a consumer group that commits each record once acknowledged.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
)

const (
	// DefaultGroup is the consumer group used to drain topics.
	DefaultGroup = "mqbackup"

	defaultPollTimeout = 10 * time.Second
	// one partition keeps the replay order of the topic.
	defaultPartitions = 1
)

var _ mqbackup.Broker = (*Broker)(nil)

// Config defines the kafka connection.
type Config struct {
	Brokers []string
	// Group is the consumer group committing drained records.
	Group string
	// PollTimeout is how long a poll waits for records before the topic is considered drained.
	PollTimeout time.Duration
	// Partitions of the topics created on declare.
	Partitions int32
	// Opts are extra client options, applied to every client.
	Opts []kgo.Opt
}

// Open returns a Broker connected to the seed brokers.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Broker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("missing kafka seed brokers")
	}
	if cfg.Group == "" {
		cfg.Group = DefaultGroup
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.Partitions <= 0 {
		cfg.Partitions = defaultPartitions
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append([]kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}, cfg.Opts...)

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("kafka client initialized", zap.Strings("brokers", cfg.Brokers), zap.String("group", cfg.Group))

	return &Broker{
		cfg:       cfg,
		client:    client,
		logger:    logger,
		consumers: make(map[string]*consumer),
	}, nil
}

// Broker drains and publishes Kafka topics.
type Broker struct {
	cfg    Config
	client *kgo.Client
	logger *zap.Logger

	mu        sync.Mutex
	consumers map[string]*consumer
}

type consumer struct {
	client  *kgo.Client
	pending []*kgo.Record
}

// Declare implements mqbackup.Broker creating the topic. Topics are always durable,
// auto delete topics return mqbackup.ErrQueueMismatch.
func (b *Broker) Declare(ctx context.Context, name string, opts mqbackup.QueueOptions) error {
	if !opts.Durable || opts.AutoDelete {
		return fmt.Errorf("%s: kafka topics are durable and not auto delete: %w", name, mqbackup.ErrQueueMismatch)
	}

	req := kmsg.NewPtrCreateTopicsRequest()
	topic := kmsg.NewCreateTopicsRequestTopic()
	topic.Topic = name
	topic.NumPartitions = b.cfg.Partitions
	topic.ReplicationFactor = -1
	req.Topics = append(req.Topics, topic)

	resp, err := req.RequestWith(ctx, b.client)
	if err != nil {
		return fmt.Errorf("creating topic %s: %w", name, err)
	}
	for _, t := range resp.Topics {
		if err := kerr.ErrorForCode(t.ErrorCode); err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("creating topic %s: %w", name, err)
		}
	}

	return nil
}

// Fetch implements mqbackup.Broker. A poll returning no records within the poll timeout
// means the topic is drained.
func (b *Broker) Fetch(ctx context.Context, name string) (*mqbackup.Delivery, error) {
	c, err := b.consumer(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(c.pending) == 0 {
		pctx, cancel := context.WithTimeout(ctx, b.cfg.PollTimeout)
		fetches := c.client.PollFetches(pctx)
		cancel()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if fetches.IsClientClosed() {
			return nil, mqbackup.ErrClosed
		}
		for _, fe := range fetches.Errors() {
			if errors.Is(fe.Err, context.DeadlineExceeded) || errors.Is(fe.Err, context.Canceled) {
				continue
			}
			return nil, fmt.Errorf("polling %s partition %d: %w", fe.Topic, fe.Partition, fe.Err)
		}

		c.pending = fetches.Records()
		if len(c.pending) == 0 {
			return nil, mqbackup.ErrQueueEmpty
		}
	}

	rec := c.pending[0]
	c.pending = c.pending[1:]

	props, err := PropertiesFromRecord(rec)
	if err != nil {
		return nil, &mqbackup.DecodeError{Queue: name, ID: recordID(rec), Err: err}
	}

	body := rec.Value
	if body == nil {
		body = []byte{}
	}

	return &mqbackup.Delivery{
		Queue:      name,
		ID:         recordID(rec),
		Body:       body,
		Properties: props,
		Handle:     rec,
	}, nil
}

// Ack implements mqbackup.Broker committing the record offset.
func (b *Broker) Ack(ctx context.Context, d *mqbackup.Delivery) error {
	rec, ok := d.Handle.(*kgo.Record)
	if !ok {
		return fmt.Errorf("unexpected delivery handle %T", d.Handle)
	}

	c, err := b.consumer(ctx, d.Queue)
	if err != nil {
		return err
	}

	if err := c.client.CommitRecords(ctx, rec); err != nil {
		return fmt.Errorf("committing record %s: %w", d.ID, err)
	}

	return nil
}

// Publish implements mqbackup.Broker producing the record synchronously.
func (b *Broker) Publish(ctx context.Context, name string, body []byte, props mqbackup.Properties) error {
	rec, err := NewRecord(name, body, props)
	if err != nil {
		return err
	}

	if err := b.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		if errors.Is(err, kerr.UnknownTopicOrPartition) {
			return fmt.Errorf("%s: %w", name, mqbackup.ErrQueueNotFound)
		}
		return fmt.Errorf("producing message: %w", err)
	}

	return nil
}

// Queues implements mqbackup.QueueLister, internal topics are skipped.
func (b *Broker) Queues(ctx context.Context) ([]string, error) {
	resp, err := kmsg.NewPtrMetadataRequest().RequestWith(ctx, b.client)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	names := make([]string, 0, len(resp.Topics))
	for _, t := range resp.Topics {
		if t.Topic == nil || t.IsInternal || strings.HasPrefix(*t.Topic, "__") {
			continue
		}
		names = append(names, *t.Topic)
	}
	slices.Sort(names)

	return names, nil
}

// Close implements mqbackup.Broker closing every client.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, c := range b.consumers {
		c.client.Close()
		delete(b.consumers, name)
	}
	b.client.Close()

	return nil
}

func (b *Broker) consumer(ctx context.Context, name string) (*consumer, error) {
	b.mu.Lock()
	c, ok := b.consumers[name]
	b.mu.Unlock()
	if ok {
		return c, nil
	}

	if err := b.topicExists(ctx, name); err != nil {
		return nil, err
	}

	opts := append([]kgo.Opt{
		kgo.SeedBrokers(b.cfg.Brokers...),
		kgo.ConsumerGroup(b.cfg.Group),
		kgo.ConsumeTopics(name),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	}, b.cfg.Opts...)

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating kafka consumer for %s: %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.consumers[name]; ok {
		client.Close()
		return c, nil
	}
	c = &consumer{client: client}
	b.consumers[name] = c

	b.logger.Info("consumer initialized", zap.String("topic", name), zap.String("group", b.cfg.Group))

	return c, nil
}

func (b *Broker) topicExists(ctx context.Context, name string) error {
	req := kmsg.NewPtrMetadataRequest()
	topic := kmsg.NewMetadataRequestTopic()
	topic.Topic = kmsg.StringPtr(name)
	req.Topics = append(req.Topics, topic)
	req.AllowAutoTopicCreation = false

	resp, err := req.RequestWith(ctx, b.client)
	if err != nil {
		return fmt.Errorf("getting topic %s metadata: %w", name, err)
	}
	for _, t := range resp.Topics {
		err := kerr.ErrorForCode(t.ErrorCode)
		if errors.Is(err, kerr.UnknownTopicOrPartition) {
			return fmt.Errorf("%s: %w", name, mqbackup.ErrQueueNotFound)
		}
		if err != nil {
			return fmt.Errorf("getting topic %s metadata: %w", name, err)
		}
	}

	return nil
}

func recordID(rec *kgo.Record) string {
	return fmt.Sprintf("%s/%d/%d", rec.Topic, rec.Partition, rec.Offset)
}
