// Package inspect summarises record files without connecting to any broker.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/codec"
)

// Reader is the record file reader inspected.
type Reader interface {
	mqbackup.RecordReader
	// Line returns the line number of the last record returned.
	Line() int
	// Headers returns the headers read so far.
	Headers() []codec.Header
}

// QueueSummary holds the totals of a queue.
type QueueSummary struct {
	Queue        string
	Records      int
	Bytes        int64
	PropertyKeys []string
}

// Malformed is a line that could not be decoded.
type Malformed struct {
	Line int
	Err  string
}

// Entry is a record with its line number.
type Entry struct {
	mqbackup.Record
	Line int
}

// Summary is the content of a record file.
type Summary struct {
	Location  string
	Headers   []codec.Header
	Queues    []QueueSummary
	Records   int
	Bytes     int64
	Malformed []Malformed
	// Dump holds the records when requested.
	Dump []Entry
}

// Option defines the optional parameters for Inspector.
type Option func(*Inspector)

// WithRecords dumps up to limit records in the summary, zero means all of them.
func WithRecords(limit int) Option {
	return func(i *Inspector) {
		i.records = true
		i.limit = limit
	}
}

// NewInspector returns an Inspector.
func NewInspector(opts ...Option) *Inspector {
	var i Inspector
	for _, opt := range opts {
		opt(&i)
	}

	return &i
}

// Inspector reads record files and renders their summary.
type Inspector struct {
	records bool
	limit   int
}

// Inspect reads every record of the reader. Malformed lines are collected in the summary,
// any other read error is returned.
func (i *Inspector) Inspect(location string, r Reader) (*Summary, error) {
	s := Summary{Location: location}
	queues := make(map[string]*QueueSummary)
	keys := make(map[string]map[string]struct{})

	for {
		rec, err := r.Next()
		var decodeErr *mqbackup.DecodeError
		switch {
		case errors.Is(err, io.EOF):
			s.Headers = r.Headers()
			for _, name := range slices.Sorted(maps.Keys(queues)) {
				q := queues[name]
				q.PropertyKeys = slices.Sorted(maps.Keys(keys[name]))
				s.Queues = append(s.Queues, *q)
			}
			return &s, nil
		case errors.As(err, &decodeErr):
			s.Malformed = append(s.Malformed, Malformed{Line: decodeErr.Line, Err: decodeErr.Err.Error()})
			continue
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", location, err)
		}

		q, ok := queues[rec.Queue]
		if !ok {
			q = &QueueSummary{Queue: rec.Queue}
			queues[rec.Queue] = q
			keys[rec.Queue] = make(map[string]struct{})
		}
		q.Records++
		q.Bytes += int64(len(rec.Body))
		for k := range rec.Properties {
			keys[rec.Queue][k] = struct{}{}
		}

		s.Records++
		s.Bytes += int64(len(rec.Body))

		if i.records && (i.limit <= 0 || len(s.Dump) < i.limit) {
			s.Dump = append(s.Dump, Entry{Record: rec, Line: r.Line()})
		}
	}
}

// Render writes the summary as text.
func (i *Inspector) Render(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := summaryTemplate.Execute(tw, s); err != nil {
		return err
	}
	if _, err := io.WriteString(tw, "\n"); err != nil {
		return err
	}

	return tw.Flush()
}
