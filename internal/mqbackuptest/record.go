// Package mqbackuptest provides builders and fakes shared by the tests.
package mqbackuptest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker/memory"
)

var errAckRejected = errors.New("ack rejected")

const (
	RecordQueue   = "orders"
	RecordPropKey = "key"
	RecordPropVal = "value"
)

// NewRecordBuilder returns a builder of an orders record with a single string property.
func NewRecordBuilder() RecordBuilder {
	return RecordBuilder{
		rec: mqbackup.Record{
			Queue:      RecordQueue,
			Body:       []byte(`{"id":1}`),
			Properties: mqbackup.Properties{RecordPropKey: RecordPropVal},
		},
	}
}

// RecordBuilder builds test records.
type RecordBuilder struct {
	rec mqbackup.Record
}

// WithQueue sets the record queue.
func (rb RecordBuilder) WithQueue(q string) RecordBuilder {
	rb.rec.Queue = q
	return rb
}

// WithBody sets the record body.
func (rb RecordBuilder) WithBody(b string) RecordBuilder {
	rb.rec.Body = []byte(b)
	return rb
}

// WithProperty adds a property, the value must be supported.
func (rb RecordBuilder) WithProperty(k string, v any) RecordBuilder {
	props := rb.rec.Properties.Clone()
	if err := props.Set(k, v); err != nil {
		panic(err)
	}
	rb.rec.Properties = props
	return rb
}

// Build returns the record.
func (rb RecordBuilder) Build() mqbackup.Record {
	rb.rec.Properties = rb.rec.Properties.Clone()
	return rb.rec
}

// Writer is a mqbackup.RecordWriter keeping the records in memory.
type Writer struct {
	mu   sync.Mutex
	recs []mqbackup.Record
}

// Append implements mqbackup.RecordWriter.
func (w *Writer) Append(_ context.Context, r mqbackup.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.recs = append(w.recs, r)
	return nil
}

// Records returns the appended records.
func (w *Writer) Records() []mqbackup.Record {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]mqbackup.Record(nil), w.recs...)
}

// DrainReport drains from a memory broker:
//   - orders: two messages of 8 bytes.
//   - payments: one message of 4 bytes and one malformed.
//   - refunds: broken acknowledgements, its single message fails.
//   - missing: does not exist, the queue is aborted.
func DrainReport(t *testing.T) *mqbackup.Report {
	t.Helper()

	b := memory.New()
	b.Put("orders", []byte(`{"id":1}`), nil)
	b.Put("orders", []byte(`{"id":2}`), nil)
	b.Put("payments", []byte("paid"), nil)
	b.PutMalformed("payments", []byte("???"))
	b.Put("refunds", []byte("r"), nil)
	b.AckHook = func(queue, _ string) error {
		if queue == "refunds" {
			return errAckRejected
		}
		return nil
	}

	d := mqbackup.NewDrainer(b, &Writer{}, mqbackup.WithErrorHandler(NopErrorHandler{}))
	rep, err := d.Drain(context.Background(), []string{"orders", "payments", "refunds", "missing"})
	require.NoError(t, err)

	return rep
}

// NopErrorHandler discards the errors.
type NopErrorHandler struct{}

// Error implements mqbackup.ErrorHandler.
func (NopErrorHandler) Error(context.Context, error) {}
