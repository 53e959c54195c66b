package mqbackup

import (
	"context"
)

//go:generate go tool moq -stub -pkg mqbackup_test -out mock_test.go . Broker RecordWriter RecordReader ErrorHandler

// QueueOptions are the flags a queue is declared with.
type QueueOptions struct {
	// Durable queues survive a broker restart.
	Durable bool `yaml:"durable"`
	// AutoDelete queues are removed once the last consumer goes away.
	AutoDelete bool `yaml:"auto_delete"`
}

// DefaultQueueOptions is the policy used to create queues not declared by the operator.
func DefaultQueueOptions() QueueOptions {
	return QueueOptions{Durable: true}
}

// Broker is the client capability the drain and replay processes need from a message broker.
type Broker interface {
	// Declare ensures the queue exists with the given options, creating it if needed.
	// Returns ErrQueueMismatch if it exists with different options.
	Declare(ctx context.Context, queue string, opts QueueOptions) error
	// Fetch returns the next available message of the queue without removing it
	// until acknowledged. Returns ErrQueueEmpty when there are no more messages.
	Fetch(ctx context.Context, queue string) (*Delivery, error)
	// Ack removes the fetched message from the broker.
	Ack(ctx context.Context, d *Delivery) error
	// Publish sends a message to the queue.
	Publish(ctx context.Context, queue string, body []byte, props Properties) error
	// Close releases the broker connection.
	Close() error
}

// QueueLister is implemented by brokers able to list their queues.
type QueueLister interface {
	Queues(ctx context.Context) ([]string, error)
}

// ErrorHandler receives the errors that do not stop the process.
type ErrorHandler interface {
	Error(ctx context.Context, err error)
}

// Delivery is a message fetched from a broker pending to be acknowledged.
type Delivery struct {
	// Queue where the message was fetched from.
	Queue string
	// ID is the broker message identifier, if any.
	ID string
	// Body is the message payload.
	Body []byte
	// Properties contains the message metadata.
	Properties Properties
	// Handle is the broker reference used to acknowledge the message.
	Handle any
}

// Record returns the record to be persisted for the delivery.
func (d *Delivery) Record() Record {
	props := d.Properties
	if props == nil {
		props = Properties{}
	}

	return Record{
		Queue:      d.Queue,
		Body:       d.Body,
		Properties: props,
	}
}
