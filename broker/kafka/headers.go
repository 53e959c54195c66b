package kafka

import (
	"time"
	"unicode/utf8"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/internal/textprops"
)

// Record properties filled from the kafka record itself.
const (
	KeyProperty       = "kafka.key"
	TimestampProperty = "kafka.timestamp"
	PartitionProperty = "kafka.partition"
	OffsetProperty    = "kafka.offset"
)

// KindsHeader holds the kinds of the non string headers.
const KindsHeader = textprops.KindsKey

// NewRecord returns the kafka record publishing body and props to the topic.
// Properties become headers, except the key and timestamp ones that are set on the record.
func NewRecord(topic string, body []byte, props mqbackup.Properties) (*kgo.Record, error) {
	rec := &kgo.Record{Topic: topic, Value: body}

	headers := props.Clone()
	switch key := headers.Get(KeyProperty).(type) {
	case string:
		rec.Key = []byte(key)
	case []byte:
		rec.Key = key
	}
	if ts, ok := headers.Get(TimestampProperty).(time.Time); ok {
		rec.Timestamp = ts
	}
	// the target assigns partition and offset.
	for _, k := range []string{KeyProperty, TimestampProperty, PartitionProperty, OffsetProperty} {
		delete(headers, k)
	}

	entries, err := textprops.Encode(headers)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: e.Key, Value: []byte(e.Value)})
	}

	return rec, nil
}

// PropertiesFromRecord returns the properties of a consumed record. Headers published
// by NewRecord get back their kinds, other headers are strings or bytes when they are
// not valid UTF-8. A repeated header keeps its last value.
func PropertiesFromRecord(rec *kgo.Record) (mqbackup.Properties, error) {
	entries := make([]textprops.Entry, 0, len(rec.Headers))
	for _, h := range rec.Headers {
		entries = append(entries, textprops.Entry{Key: h.Key, Value: string(h.Value)})
	}

	props, err := textprops.Decode(entries)
	if err != nil {
		return nil, err
	}

	if rec.Key != nil {
		if utf8.Valid(rec.Key) {
			props[KeyProperty] = string(rec.Key)
		} else {
			props[KeyProperty] = rec.Key
		}
	}
	if !rec.Timestamp.IsZero() {
		props[TimestampProperty] = rec.Timestamp.UTC()
	}
	props[PartitionProperty] = int64(rec.Partition)
	props[OffsetProperty] = rec.Offset

	return props, nil
}
