// Package awsattr converts properties and bodies to the message attributes and text
// bodies accepted by SQS and SNS.
package awsattr

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/x4b1/mqbackup"
)

// BodyEncodingKey is the attribute marking bodies that are not valid SQS or SNS text.
const BodyEncodingKey = "mqbackup.body_encoding"

// Attribute data types. Custom types are appended after a dot and carry the property
// kind, so values are decoded back to the same Go type.
const (
	DataTypeString = "String"
	DataTypeNumber = "Number"
	DataTypeBinary = "Binary"
)

const (
	encodingBase64 = "base64"
	encodingEmpty  = "empty"

	kindEmpty = "empty"
	// placeholder for empty values, aws rejects them.
	placeholder = "-"
)

// ErrUnknownEncoding is returned decoding a body with an unknown encoding attribute.
var ErrUnknownEncoding = errors.New("unknown body encoding")

// Value is a message attribute, independent of the aws service types.
type Value struct {
	DataType    string
	StringValue string
	BinaryValue []byte
}

// Encode converts the properties to attributes.
func Encode(props mqbackup.Properties) (map[string]Value, error) {
	attrs := make(map[string]Value, len(props))
	for k, v := range props {
		v, err := mqbackup.NormalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}

		var attr Value
		switch val := v.(type) {
		case string:
			attr = Value{DataType: DataTypeString, StringValue: val}
			if val == "" {
				attr = Value{DataType: DataTypeString + "." + kindEmpty, StringValue: placeholder}
			}
		case int64:
			attr = Value{DataType: DataTypeNumber + "." + mqbackup.KindInt, StringValue: mqbackup.FormatValue(val)}
		case []byte:
			attr = Value{DataType: DataTypeBinary, BinaryValue: val}
			if len(val) == 0 {
				attr = Value{DataType: DataTypeString + "." + mqbackup.KindBytes, StringValue: placeholder}
			}
		case nil:
			attr = Value{DataType: DataTypeString + "." + mqbackup.KindNull, StringValue: placeholder}
		default:
			attr = Value{DataType: DataTypeString + "." + props.Kind(k), StringValue: mqbackup.FormatValue(val)}
		}
		attrs[k] = attr
	}

	return attrs, nil
}

// Decode converts attributes back to properties.
func Decode(attrs map[string]Value) (mqbackup.Properties, error) {
	props := make(mqbackup.Properties, len(attrs))
	for k, attr := range attrs {
		v, err := decodeValue(attr)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		props[k] = v
	}

	return props, nil
}

func decodeValue(attr Value) (any, error) {
	base, custom, _ := strings.Cut(attr.DataType, ".")

	switch {
	case base == DataTypeBinary:
		if attr.BinaryValue == nil {
			return []byte{}, nil
		}
		return attr.BinaryValue, nil
	case custom == kindEmpty:
		return "", nil
	case custom == mqbackup.KindNull:
		return nil, nil
	case custom == mqbackup.KindBytes && attr.StringValue == placeholder:
		return []byte{}, nil
	case custom != "":
		v, err := mqbackup.ParseValue(custom, attr.StringValue)
		if err != nil {
			// custom types set by other producers keep their text.
			return attr.StringValue, nil //nolint:nilerr // unknown custom types are plain text
		}
		return v, nil
	case base == DataTypeNumber:
		if i, err := strconv.ParseInt(attr.StringValue, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(attr.StringValue, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", attr.StringValue, err)
		}
		return f, nil
	case base == DataTypeString:
		return attr.StringValue, nil
	}

	return nil, fmt.Errorf("%w: data type %q", mqbackup.ErrUnsupportedProperty, attr.DataType)
}

// EncodeBody returns the text sent as message body. When the body is not valid text the
// returned encoding must be sent as the BodyEncodingKey attribute.
func EncodeBody(body []byte) (text, encoding string) {
	switch {
	case len(body) == 0:
		return placeholder, encodingEmpty
	case !IsValidText(body):
		return base64.StdEncoding.EncodeToString(body), encodingBase64
	}

	return string(body), ""
}

// DecodeBody is the inverse of EncodeBody.
func DecodeBody(text, encoding string) ([]byte, error) {
	switch encoding {
	case "":
		return []byte(text), nil
	case encodingEmpty:
		return []byte{}, nil
	case encodingBase64:
		return base64.StdEncoding.DecodeString(text)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
}

// IsValidText reports whether aws accepts the body as is: #x9 | #xA | #xD | #x20 to #xD7FF |
// #xE000 to #xFFFD | #x10000 to #x10FFFF.
func IsValidText(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}

	return true
}
