package sqs

// Option defines the optional parameters for Broker.
type Option interface {
	applyBroker(*Broker)
}

// WithMaxWaitSeconds sets the long polling wait of each receive. A receive returning no
// messages after the wait means the queue is drained.
func WithMaxWaitSeconds(waitSec int) MaxWaitSecondsOption {
	return MaxWaitSecondsOption(waitSec)
}

// MaxWaitSecondsOption is an option type for setting the receive wait time.
type MaxWaitSecondsOption int

func (m MaxWaitSecondsOption) applyBroker(b *Broker) {
	b.maxWaitSeconds = int(m)
}

// WithMaxMessages sets the number of messages received at once, from 1 to 10.
func WithMaxMessages(msgs int) MaxMessagesOption {
	return MaxMessagesOption(msgs)
}

// MaxMessagesOption is an option type for setting the number of messages to receive.
type MaxMessagesOption int

func (m MaxMessagesOption) applyBroker(b *Broker) {
	if m > 0 && m <= defaultReceiveMessages {
		b.maxMessages = int(m)
	}
}

// WithVisibilityTimeout overrides the queue visibility timeout of received messages, in seconds.
func WithVisibilityTimeout(sec int) VisibilityTimeoutOption {
	return VisibilityTimeoutOption(sec)
}

// VisibilityTimeoutOption is an option type for setting the visibility timeout.
type VisibilityTimeoutOption int

func (v VisibilityTimeoutOption) applyBroker(b *Broker) {
	b.visibilityTimeout = int(v)
}

// WithDefaultGroupID sets the message group used when publishing to FIFO queues records
// without a group.
func WithDefaultGroupID(id string) DefaultGroupIDOption {
	return DefaultGroupIDOption(id)
}

// DefaultGroupIDOption is an option type for setting the default FIFO message group.
type DefaultGroupIDOption string

func (d DefaultGroupIDOption) applyBroker(b *Broker) {
	b.defaultGroupID = string(d)
}
