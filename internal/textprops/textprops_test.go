package textprops_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/internal/textprops"
)

func TestEncodeDecode(t *testing.T) {
	props := mqbackup.Properties{
		"s":   "text",
		"i":   int64(-4),
		"f":   1.25,
		"b":   false,
		"t":   time.Date(2023, 1, 2, 3, 4, 5, 6, time.UTC),
		"raw": []byte{0xff},
		"nil": nil,
	}

	entries, err := textprops.Encode(props)
	require.NoError(t, err)
	require.Len(t, entries, len(props)+1)
	require.Equal(t, "b", entries[0].Key)
	require.Equal(t, textprops.KindsKey, entries[len(entries)-1].Key)

	got, err := textprops.Decode(entries)
	require.NoError(t, err)
	require.Equal(t, props, got)

	m, err := textprops.EncodeMap(props)
	require.NoError(t, err)
	got, err = textprops.DecodeMap(m)
	require.NoError(t, err)
	require.Equal(t, props, got)
}

func TestEncodeOnlyStrings(t *testing.T) {
	m, err := textprops.EncodeMap(mqbackup.Properties{"a": "1"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1"}, m)
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := textprops.Encode(mqbackup.Properties{"a": []string{"x"}})
	require.ErrorIs(t, err, mqbackup.ErrUnsupportedProperty)
}

func TestDecodeErrors(t *testing.T) {
	for name, entries := range map[string][]textprops.Entry{
		"kinds not json": {{Key: textprops.KindsKey, Value: "["}},
		"wrong value":    {{Key: "n", Value: "x"}, {Key: textprops.KindsKey, Value: `{"n":"int"}`}},
		"unknown kind":   {{Key: "n", Value: "x"}, {Key: textprops.KindsKey, Value: `{"n":"money"}`}},
		"invalid bool":   {{Key: "n", Value: "maybe"}, {Key: textprops.KindsKey, Value: `{"n":"bool"}`}},
		"invalid time":   {{Key: "n", Value: "yesterday"}, {Key: textprops.KindsKey, Value: `{"n":"time"}`}},
		"invalid float":  {{Key: "n", Value: "1,5"}, {Key: textprops.KindsKey, Value: `{"n":"float"}`}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := textprops.Decode(entries)
			require.Error(t, err)
		})
	}
}
