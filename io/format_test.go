package io

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOf(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		path   string
		format Format
		ok     bool
	}){
		{"prog.json", FORMAT_JSON, true},
		{"dir/prog.yaml", FORMAT_YAML, true},
		{"prog.YML", FORMAT_YAML, true},
		{"dump.cbor", FORMAT_CBOR, true},
		{"prog.bin", FORMAT_JSON, false},
		{"prog", FORMAT_JSON, false},
	}

	for _, entry := range table {
		format, err := FormatOf(entry.path)
		if entry.ok {
			assert.NoError(err, entry.path)
			assert.Equal(entry.format, format, entry.path)
		} else {
			assert.Equal(ErrFormatUnknown(entry.path), err, entry.path)
		}
	}

	assert.Equal("json", FORMAT_JSON.String())
	assert.Equal("yaml", FORMAT_YAML.String())
	assert.Equal("cbor", FORMAT_CBOR.String())
	assert.Equal("unknown", Format(7).String())
}

func TestEncodeDecode(t *testing.T) {
	assert := assert.New(t)

	type entry struct {
		Name  string `json:"name" yaml:"name" cbor:"name"`
		Value int    `json:"value" yaml:"value" cbor:"value"`
	}

	in := []entry{{"one", 1}, {"minus", -2}}

	for _, format := range []Format{FORMAT_JSON, FORMAT_YAML, FORMAT_CBOR} {
		buf := &bytes.Buffer{}
		assert.NoError(Encode(buf, format, in), format.String())

		var out []entry
		assert.NoError(Decode(buf, format, &out), format.String())
		assert.Equal(in, out, format.String())
	}

	buf := &bytes.Buffer{}
	assert.NoError(Encode(buf, FORMAT_YAML, in))
	assert.Equal("- name: one\n  value: 1\n- name: minus\n  value: -2\n", buf.String())

	assert.Equal(ErrFormatUnknown("unknown"), Encode(buf, Format(9), in))
	assert.Equal(ErrFormatUnknown("unknown"), Decode(buf, Format(9), &in))
}

func TestDecodeAny(t *testing.T) {
	assert := assert.New(t)

	var value any
	assert.NoError(Decode(strings.NewReader(`{"a": 12, "b": [true, "x"]}`), FORMAT_JSON, &value))
	assert.Equal(map[string]any{
		"a": json.Number("12"),
		"b": []any{true, "x"},
	}, value)

	value = nil
	assert.NoError(Decode(strings.NewReader("a: 12\nb: [true, x]\n"), FORMAT_YAML, &value))
	assert.Equal(map[string]any{
		"a": 12,
		"b": []any{true, "x"},
	}, value)

	buf := &bytes.Buffer{}
	assert.NoError(Encode(buf, FORMAT_CBOR, map[string]any{"a": 12}))
	value = nil
	assert.NoError(Decode(buf, FORMAT_CBOR, &value))
	assert.Equal(map[string]any{"a": uint64(12)}, value)
}

func TestDecodeEmpty(t *testing.T) {
	assert := assert.New(t)

	var value any
	for _, format := range []Format{FORMAT_JSON, FORMAT_CBOR} {
		err := Decode(strings.NewReader(""), format, &value)
		assert.ErrorIs(err, ErrEmpty, format.String())
	}
}
