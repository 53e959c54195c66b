// Package memory provides an in process broker. Messages live only as long as the broker.
package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/x4b1/mqbackup"
)

var _ mqbackup.Broker = (*Broker)(nil)

// ErrMalformed is the decode error reported for messages stored with PutMalformed.
var ErrMalformed = errors.New("malformed message")

// Message is a message stored in a queue.
type Message struct {
	ID         string
	Body       []byte
	Properties mqbackup.Properties

	malformed bool
}

type queue struct {
	opts     mqbackup.QueueOptions
	msgs     []*Message
	inflight map[string]*Message
}

// New returns an empty broker.
func New() *Broker {
	return &Broker{queues: make(map[string]*queue)}
}

// Broker is an in memory implementation of mqbackup.Broker.
// Fetched messages are kept in flight until acknowledged or requeued.
type Broker struct {
	mu     sync.Mutex
	queues map[string]*queue
	seq    int
	closed bool

	// PublishHook is called before storing a published message, if it returns an error
	// the message is not stored.
	PublishHook func(queue string, body []byte) error
	// AckHook is called before acknowledging a message, if it returns an error
	// the message stays in flight.
	AckHook func(queue string, id string) error
}

// Declare implements mqbackup.Broker.
func (b *Broker) Declare(_ context.Context, name string, opts mqbackup.QueueOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return mqbackup.ErrClosed
	}

	q, ok := b.queues[name]
	if !ok {
		b.queues[name] = newQueue(opts)
		return nil
	}
	if q.opts != opts {
		return fmt.Errorf("%s: %w", name, mqbackup.ErrQueueMismatch)
	}

	return nil
}

// Fetch implements mqbackup.Broker.
func (b *Broker) Fetch(ctx context.Context, name string) (*mqbackup.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, mqbackup.ErrClosed
	}

	q, ok := b.queues[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, mqbackup.ErrQueueNotFound)
	}
	if len(q.msgs) == 0 {
		return nil, mqbackup.ErrQueueEmpty
	}

	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	q.inflight[msg.ID] = msg

	if msg.malformed {
		return nil, &mqbackup.DecodeError{Queue: name, ID: msg.ID, Err: ErrMalformed}
	}

	return &mqbackup.Delivery{
		Queue:      name,
		ID:         msg.ID,
		Body:       bytes.Clone(msg.Body),
		Properties: msg.Properties.Clone(),
		Handle:     msg.ID,
	}, nil
}

// Ack implements mqbackup.Broker.
func (b *Broker) Ack(_ context.Context, d *mqbackup.Delivery) error {
	id, ok := d.Handle.(string)
	if !ok {
		return fmt.Errorf("unexpected delivery handle %T", d.Handle)
	}

	if b.AckHook != nil {
		if err := b.AckHook(d.Queue, id); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[d.Queue]
	if !ok {
		return fmt.Errorf("%s: %w", d.Queue, mqbackup.ErrQueueNotFound)
	}
	if _, ok := q.inflight[id]; !ok {
		return fmt.Errorf("message %s is not in flight", id)
	}
	delete(q.inflight, id)

	return nil
}

// Publish implements mqbackup.Broker.
func (b *Broker) Publish(_ context.Context, name string, body []byte, props mqbackup.Properties) error {
	if b.PublishHook != nil {
		if err := b.PublishHook(name, body); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return mqbackup.ErrClosed
	}

	q, ok := b.queues[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, mqbackup.ErrQueueNotFound)
	}
	q.msgs = append(q.msgs, b.newMessage(body, props))

	return nil
}

// Close implements mqbackup.Broker.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	return nil
}

// Queues implements mqbackup.QueueLister.
func (b *Broker) Queues(context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := slices.Collect(maps.Keys(b.queues))
	slices.Sort(names)

	return names, nil
}

// Put stores a message, creating the queue with default options if needed.
func (b *Broker) Put(name string, body []byte, props mqbackup.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue(name).msgs = append(b.queue(name).msgs, b.newMessage(body, props))
}

// PutMalformed stores a message that fails to decode when fetched.
func (b *Broker) PutMalformed(name string, body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg := b.newMessage(body, nil)
	msg.malformed = true
	b.queue(name).msgs = append(b.queue(name).msgs, msg)
}

// Messages returns a copy of the messages ready in the queue.
func (b *Broker) Messages(name string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		return nil
	}

	out := make([]Message, len(q.msgs))
	for i, m := range q.msgs {
		out[i] = *m
	}

	return out
}

// Bodies returns the bodies of the messages ready in the queue.
func (b *Broker) Bodies(name string) [][]byte {
	msgs := b.Messages(name)
	out := make([][]byte, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}

	return out
}

// InFlight returns how many messages of the queue are fetched and not acknowledged.
func (b *Broker) InFlight(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		return 0
	}

	return len(q.inflight)
}

// Options returns the options the queue was declared with.
func (b *Broker) Options(name string) (mqbackup.QueueOptions, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		return mqbackup.QueueOptions{}, false
	}

	return q.opts, true
}

// Requeue moves the in flight messages back to the head of their queues, as a broker
// does when a consumer disconnects without acknowledging.
func (b *Broker) Requeue() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, q := range b.queues {
		pending := make([]*Message, 0, len(q.inflight))
		for _, m := range q.inflight {
			pending = append(pending, m)
		}
		slices.SortFunc(pending, func(a, b *Message) int {
			ai, _ := strconv.Atoi(a.ID)
			bi, _ := strconv.Atoi(b.ID)
			return ai - bi
		})
		q.msgs = append(pending, q.msgs...)
		clear(q.inflight)
	}
}

// queue must be called with the lock held.
func (b *Broker) queue(name string) *queue {
	q, ok := b.queues[name]
	if !ok {
		q = newQueue(mqbackup.DefaultQueueOptions())
		b.queues[name] = q
	}

	return q
}

// newMessage must be called with the lock held.
func (b *Broker) newMessage(body []byte, props mqbackup.Properties) *Message {
	b.seq++

	return &Message{
		ID:         strconv.Itoa(b.seq),
		Body:       bytes.Clone(body),
		Properties: props.Clone(),
	}
}

func newQueue(opts mqbackup.QueueOptions) *queue {
	return &queue{
		opts:     opts,
		inflight: make(map[string]*Message),
	}
}
