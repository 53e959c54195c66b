// Package codec encodes records as JSON lines. Each line is either a record or a header
// describing the drain run that wrote the following records.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/x4b1/mqbackup"
)

// Version is the current record file format version.
const Version = 1

// Errors returned decoding lines.
var (
	ErrEmptyLine          = errors.New("empty line")
	ErrMissingQueue       = errors.New("missing queue")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// Header describes the drain run that wrote the records following it.
type Header struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source,omitempty"`
	Queues    []string  `json:"queues,omitempty"`
}

// NewHeader returns a header of the current version.
func NewHeader(runID, source string, queues []string) Header {
	return Header{
		Version:   Version,
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Queues:    queues,
	}
}

// Entry is a decoded line, either a header or a record.
type Entry struct {
	Header *Header
	Record mqbackup.Record
}

// IsHeader returns true when the entry is a header line.
func (e Entry) IsHeader() bool {
	return e.Header != nil
}

type line struct {
	Header     *Header             `json:"header,omitempty"`
	Queue      string              `json:"queue,omitempty"`
	Body       []byte              `json:"body,omitempty"`
	Properties mqbackup.Properties `json:"properties,omitempty"`
}

// Encode returns the record as a single JSON line ending with a new line.
func Encode(r mqbackup.Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	return marshalLine(line{
		Queue:      r.Queue,
		Body:       r.Body,
		Properties: r.Properties,
	})
}

// EncodeHeader returns the header as a single JSON line ending with a new line.
func EncodeHeader(h Header) ([]byte, error) {
	return marshalLine(line{Header: &h})
}

func marshalLine(l line) ([]byte, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding line: %w", err)
	}

	return append(b, '\n'), nil
}

// Decode parses a single line, with or without the trailing new line.
func Decode(b []byte) (Entry, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Entry{}, ErrEmptyLine
	}

	var l line
	if err := json.Unmarshal(b, &l); err != nil {
		return Entry{}, err
	}

	if l.Header != nil {
		if l.Header.Version < 1 || l.Header.Version > Version {
			return Entry{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, l.Header.Version)
		}

		return Entry{Header: l.Header}, nil
	}

	if l.Queue == "" {
		return Entry{}, ErrMissingQueue
	}

	r := mqbackup.Record{
		Queue:      l.Queue,
		Body:       l.Body,
		Properties: l.Properties,
	}
	if r.Body == nil {
		r.Body = []byte{}
	}
	if r.Properties == nil {
		r.Properties = mqbackup.Properties{}
	}
	if err := r.Validate(); err != nil {
		return Entry{Record: r}, err
	}

	return Entry{Record: r}, nil
}
