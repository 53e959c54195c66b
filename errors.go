package mqbackup

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Broker errors.
var (
	// ErrQueueEmpty is returned by Broker.Fetch when the queue has no more messages available.
	ErrQueueEmpty = errors.New("queue is empty")
	// ErrQueueNotFound is returned when the queue does not exist in the broker.
	ErrQueueNotFound = errors.New("queue not found")
	// ErrQueueMismatch is returned by Broker.Declare when the queue exists with different options,
	// or the broker cannot honor the requested options.
	ErrQueueMismatch = errors.New("queue declared with different options")
	// ErrInvalidQueueName is returned when a queue name does not follow naming rules.
	ErrInvalidQueueName = errors.New("invalid queue name")
	// ErrClosed is returned when using a closed broker or record file.
	ErrClosed = errors.New("closed")
)

// ConnectionError happens when the broker is unreachable or rejects the credentials.
// It is fatal for the whole run.
type ConnectionError struct {
	Driver string
	Addr   string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to %s broker %s: %s", e.Driver, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// LogFields returns the structured fields describing the error.
func (e *ConnectionError) LogFields() []zap.Field {
	return []zap.Field{zap.String("driver", e.Driver), zap.String("addr", e.Addr)}
}

// DecodeError happens when a single message or record cannot be read. The message or
// record is skipped and counted, the run continues.
type DecodeError struct {
	Queue string
	// Line is the record file line number, zero when decoding broker messages.
	Line int
	// ID is the broker message identifier when known.
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("decoding record at line %d: %s", e.Line, e.Err)
	case e.ID != "":
		return fmt.Sprintf("decoding message %s from %s: %s", e.ID, e.Queue, e.Err)
	default:
		return fmt.Sprintf("decoding message from %s: %s", e.Queue, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LogFields returns the structured fields describing the error.
func (e *DecodeError) LogFields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if e.Queue != "" {
		fields = append(fields, zap.String("queue", e.Queue))
	}
	if e.Line > 0 {
		fields = append(fields, zap.Int("line", e.Line))
	}
	if e.ID != "" {
		fields = append(fields, zap.String("message_id", e.ID))
	}

	return fields
}

// PublishError happens when a record could not be published after all retries.
type PublishError struct {
	Queue    string
	Attempts int
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing to %s after %d attempts: %s", e.Queue, e.Attempts, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// LogFields returns the structured fields describing the error.
func (e *PublishError) LogFields() []zap.Field {
	return []zap.Field{zap.String("queue", e.Queue), zap.Int("attempts", e.Attempts)}
}

// AckError happens when a record was written but the source broker did not accept the
// acknowledgement. The message stays in the source and may be drained again.
type AckError struct {
	Queue string
	Err   error
}

func (e *AckError) Error() string {
	return fmt.Sprintf("acknowledging message from %s: %s", e.Queue, e.Err)
}

func (e *AckError) Unwrap() error { return e.Err }

// LogFields returns the structured fields describing the error.
func (e *AckError) LogFields() []zap.Field {
	return []zap.Field{zap.String("queue", e.Queue)}
}

// ConfigurationError happens when the run setup is invalid, like a queue declared with
// conflicting options. It is raised before any message is processed.
type ConfigurationError struct {
	Queue string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Queue == "" {
		return fmt.Sprintf("configuration: %s", e.Err)
	}

	return fmt.Sprintf("configuration of queue %s: %s", e.Queue, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// LogFields returns the structured fields describing the error.
func (e *ConfigurationError) LogFields() []zap.Field {
	return []zap.Field{zap.String("queue", e.Queue)}
}

// IsFatal returns true if the error must stop the whole run.
func IsFatal(err error) bool {
	var (
		connErr  *ConnectionError
		confErr  *ConfigurationError
		fatalErr *fatalError
	)

	return errors.As(err, &connErr) || errors.As(err, &confErr) || errors.As(err, &fatalErr)
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}
