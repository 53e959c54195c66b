package mqbackup

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// ErrUnsupportedProperty is returned when a property value is not a supported scalar.
var ErrUnsupportedProperty = errors.New("unsupported property value")

// Property kinds as written in the record file.
const (
	KindString = "string"
	KindBool   = "bool"
	KindInt    = "int"
	KindFloat  = "float"
	KindTime   = "time"
	KindBytes  = "bytes"
	KindNull   = "null"
)

// Properties defines the message metadata (headers, attributes, timestamps...) carried
// along the body. Values are scalars: string, bool, int64, float64, time.Time, []byte or nil.
type Properties map[string]any

// Get returns the property value for the given key, nil if not found.
func (p Properties) Get(key string) any {
	if v, ok := p[key]; ok {
		return v
	}

	return nil
}

// String returns the property value as string when it is one.
func (p Properties) String(key string) (string, bool) {
	s, ok := p[key].(string)

	return s, ok
}

// Set normalizes the value and sets it for the given key.
func (p Properties) Set(key string, value any) error {
	v, err := NormalizeValue(value)
	if err != nil {
		return fmt.Errorf("property %q: %w", key, err)
	}
	p[key] = v

	return nil
}

// Clone returns a copy of the properties.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}

	return maps.Clone(p)
}

// Normalize returns a copy with every value converted to its canonical type. It fails
// on the first value the record file cannot hold.
func (p Properties) Normalize() (Properties, error) {
	out := make(Properties, len(p))
	for k, v := range p {
		if err := out.Set(k, v); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Kind returns the record file kind of the given key value.
func (p Properties) Kind(key string) string {
	k, err := kindOf(p[key])
	if err != nil {
		return ""
	}

	return k
}

// NormalizeValue converts the supported Go scalar types to the canonical property types.
func NormalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int64, float64, []byte:
		return v, nil
	case time.Time:
		return v.UTC(), nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float32:
		return float64(v), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedProperty, value)
}

// FormatValue renders the value as a string, used by brokers whose headers only carry text.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case []byte:
		return string(v)
	}

	return fmt.Sprint(value)
}

// ParseValue is the inverse of FormatValue for the given kind.
func ParseValue(kind, s string) (any, error) {
	switch kind {
	case KindString:
		return s, nil
	case KindBool:
		return strconv.ParseBool(s)
	case KindInt:
		return strconv.ParseInt(s, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(s, 64)
	case KindTime:
		return time.Parse(time.RFC3339Nano, s)
	case KindBytes:
		return []byte(s), nil
	case KindNull:
		return nil, nil
	}

	return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedProperty, kind)
}

func kindOf(value any) (string, error) {
	v, err := NormalizeValue(value)
	if err != nil {
		return "", err
	}
	switch v.(type) {
	case nil:
		return KindNull, nil
	case string:
		return KindString, nil
	case bool:
		return KindBool, nil
	case int64:
		return KindInt, nil
	case float64:
		return KindFloat, nil
	case time.Time:
		return KindTime, nil
	default:
		return KindBytes, nil
	}
}

type typedValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler. Every value is tagged with its kind so it can
// be decoded back to the same Go type.
func (p Properties) MarshalJSON() ([]byte, error) {
	out := make(map[string]typedValue, len(p))
	for k, v := range p {
		tv, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		out[k] = tv
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Properties) UnmarshalJSON(b []byte) error {
	var in map[string]typedValue
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	props := make(Properties, len(in))
	for k, tv := range in {
		v, err := decodeValue(tv)
		if err != nil {
			return fmt.Errorf("property %q: %w", k, err)
		}
		props[k] = v
	}
	*p = props

	return nil
}

func encodeValue(value any) (typedValue, error) {
	kind, err := kindOf(value)
	if err != nil {
		return typedValue{}, err
	}
	value, _ = NormalizeValue(value)

	var raw []byte
	switch kind {
	case KindNull:
		return typedValue{Type: KindNull}, nil
	case KindFloat, KindTime:
		// floats travel as text to keep NaN and infinities.
		raw, err = json.Marshal(FormatValue(value))
	default:
		raw, err = json.Marshal(value)
	}
	if err != nil {
		return typedValue{}, err
	}

	return typedValue{Type: kind, Value: raw}, nil
}

func decodeValue(tv typedValue) (any, error) {
	switch tv.Type {
	case KindNull:
		return nil, nil
	case KindString:
		var s string
		err := json.Unmarshal(tv.Value, &s)
		return s, err
	case KindBool:
		var b bool
		err := json.Unmarshal(tv.Value, &b)
		return b, err
	case KindInt:
		var i int64
		err := json.Unmarshal(tv.Value, &i)
		return i, err
	case KindBytes:
		var b []byte
		err := json.Unmarshal(tv.Value, &b)
		return b, err
	case KindFloat, KindTime:
		var s string
		if err := json.Unmarshal(tv.Value, &s); err != nil {
			return nil, err
		}
		return ParseValue(tv.Type, s)
	}

	return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedProperty, tv.Type)
}

// Value implements sql.Valuer. Transforms Properties into json.
func (p Properties) Value() (driver.Value, error) {
	return p.MarshalJSON()
}

// Scan implements the sql.Scanner interface. This method
// simply decodes a JSON-encoded value into the properties.
func (p *Properties) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	}

	return fmt.Errorf("scanning properties: unknown type %T", value)
}
