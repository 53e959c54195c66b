// Package textprops converts properties to and from brokers whose headers only carry text.
// The kinds of the non string values travel in an extra json encoded entry.
package textprops

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/x4b1/mqbackup"
)

// KindsKey is the entry holding the kinds of the non string values.
const KindsKey = "mqbackup.kinds"

// Entry is a single text header.
type Entry struct {
	Key   string
	Value string
}

// Encode returns the properties as text entries sorted by key, plus the kinds entry when needed.
func Encode(props mqbackup.Properties) ([]Entry, error) {
	entries := make([]Entry, 0, len(props)+1)
	kinds := make(map[string]string)

	for _, k := range slices.Sorted(maps.Keys(props)) {
		v := props[k]
		kind := props.Kind(k)
		if kind == "" {
			return nil, fmt.Errorf("property %q: %w: %T", k, mqbackup.ErrUnsupportedProperty, v)
		}
		if kind != mqbackup.KindString {
			kinds[k] = kind
		}
		entries = append(entries, Entry{Key: k, Value: mqbackup.FormatValue(v)})
	}

	if len(kinds) > 0 {
		b, err := json.Marshal(kinds)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: KindsKey, Value: string(b)})
	}

	return entries, nil
}

// EncodeMap is Encode returning a map.
func EncodeMap(props mqbackup.Properties) (map[string]string, error) {
	entries, err := Encode(props)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}

	return out, nil
}

// Decode is the inverse of Encode. Entries without kind are strings, or bytes when they
// are not valid UTF-8. A repeated key keeps its last value.
func Decode(entries []Entry) (mqbackup.Properties, error) {
	kinds := make(map[string]string)
	for _, e := range entries {
		if e.Key == KindsKey {
			if err := json.Unmarshal([]byte(e.Value), &kinds); err != nil {
				return nil, fmt.Errorf("entry %s: %w", KindsKey, err)
			}
		}
	}

	props := make(mqbackup.Properties, len(entries))
	for _, e := range entries {
		if e.Key == KindsKey {
			continue
		}

		kind, ok := kinds[e.Key]
		if !ok {
			if utf8.ValidString(e.Value) {
				props[e.Key] = e.Value
			} else {
				props[e.Key] = []byte(e.Value)
			}
			continue
		}

		v, err := mqbackup.ParseValue(kind, e.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", e.Key, err)
		}
		if err := props.Set(e.Key, v); err != nil {
			return nil, err
		}
	}

	return props, nil
}

// DecodeMap is Decode from a map.
func DecodeMap(m map[string]string) (mqbackup.Properties, error) {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Key: k, Value: v})
	}

	return Decode(entries)
}
