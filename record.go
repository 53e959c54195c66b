package mqbackup

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxQueueNameLength is the longest queue name accepted, in bytes.
const MaxQueueNameLength = 255

// A Record is one drained message as persisted in the record file. Records are never
// mutated once written, the position in the file defines the replay order of its queue.
type Record struct {
	// Queue where the message was drained from.
	Queue string `json:"queue"`
	// Body is the message payload, kept byte by byte.
	Body []byte `json:"body"`
	// Properties contains the message metadata.
	Properties Properties `json:"properties,omitempty"`
}

// Validate checks the record can be replayed.
func (r Record) Validate() error {
	return ValidateQueueName(r.Queue)
}

// ValidateQueueName checks the name is not empty, valid UTF-8, without control characters,
// and not longer than MaxQueueNameLength.
func ValidateQueueName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidQueueName)
	case len(name) > MaxQueueNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidQueueName, MaxQueueNameLength)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: not valid utf-8", ErrInvalidQueueName)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", ErrInvalidQueueName, name)
		}
	}

	return nil
}
