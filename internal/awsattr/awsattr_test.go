package awsattr_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/internal/awsattr"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	props := mqbackup.Properties{
		"string":      "text",
		"empty":       "",
		"bool":        true,
		"int":         int64(math.MinInt64),
		"float":       2.5,
		"time":        time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC),
		"bytes":       []byte{0x00, 0xff},
		"empty_bytes": []byte{},
		"null":        nil,
	}

	attrs, err := awsattr.Encode(props)
	require.NoError(t, err)
	for k, attr := range attrs {
		require.True(t, attr.StringValue != "" || len(attr.BinaryValue) > 0, "attribute %s is empty", k)
	}
	require.Equal(t, "Number.int", attrs["int"].DataType)
	require.Equal(t, "String.time", attrs["time"].DataType)
	require.Equal(t, "Binary", attrs["bytes"].DataType)

	got, err := awsattr.Decode(attrs)
	require.NoError(t, err)
	require.Equal(t, props, got)
}

func TestDecodeForeignAttributes(t *testing.T) {
	t.Parallel()

	got, err := awsattr.Decode(map[string]awsattr.Value{
		"number":  {DataType: "Number", StringValue: "12"},
		"decimal": {DataType: "Number", StringValue: "1.5"},
		"custom":  {DataType: "String.uuid", StringValue: "abc"},
	})
	require.NoError(t, err)
	require.Equal(t, mqbackup.Properties{"number": int64(12), "decimal": 1.5, "custom": "abc"}, got)

	_, err = awsattr.Decode(map[string]awsattr.Value{"bad": {DataType: "Number", StringValue: "x"}})
	require.Error(t, err)

	_, err = awsattr.Decode(map[string]awsattr.Value{"bad": {DataType: "Map"}})
	require.ErrorIs(t, err, mqbackup.ErrUnsupportedProperty)
}

func TestBody(t *testing.T) {
	t.Parallel()

	for name, body := range map[string][]byte{
		"text":         []byte(`{"id":1}`),
		"empty":        {},
		"invalid utf8": {0xc3, 0x28},
		"control":      {0x00, 0x01},
		"unicode":      []byte("ñandú"),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			text, enc := awsattr.EncodeBody(body)
			require.NotEmpty(t, text)
			require.True(t, awsattr.IsValidText([]byte(text)))

			got, err := awsattr.DecodeBody(text, enc)
			require.NoError(t, err)
			require.Equal(t, body, got)
		})
	}

	_, err := awsattr.DecodeBody("x", "rot13")
	require.ErrorIs(t, err, awsattr.ErrUnknownEncoding)
}
