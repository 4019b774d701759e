// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for descriptions and memory dumps.
type Format int

const (
	FORMAT_JSON = Format(0) // json
	FORMAT_YAML = Format(1) // yaml
	FORMAT_CBOR = Format(2) // cbor
)

var formatExt = map[string]Format{
	".json": FORMAT_JSON,
	".yaml": FORMAT_YAML,
	".yml":  FORMAT_YAML,
	".cbor": FORMAT_CBOR,
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error

	cborEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(f("io: cbor encoder: %v", err))
	}

	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(f("io: cbor decoder: %v", err))
	}
}

func (format Format) String() string {
	switch format {
	case FORMAT_JSON:
		return "json"
	case FORMAT_YAML:
		return "yaml"
	case FORMAT_CBOR:
		return "cbor"
	}
	return "unknown"
}

// FormatOf returns the format implied by a file name extension.
func FormatOf(path string) (format Format, err error) {
	format, ok := formatExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		err = ErrFormatUnknown(path)
	}

	return
}

// Encode writes a value in the given format.
func Encode(w io.Writer, format Format, value any) (err error) {
	switch format {
	case FORMAT_JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(value)
	case FORMAT_YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(value)
		if err == nil {
			err = enc.Close()
		}
	case FORMAT_CBOR:
		err = cborEncMode.NewEncoder(w).Encode(value)
	default:
		err = ErrFormatUnknown(format.String())
	}

	return
}

// Decode reads a value in the given format.
// Decoding into an *any yields map[string]any, []any, string, bool and
// numbers; JSON numbers are left as json.Number.
func Decode(r io.Reader, format Format, value any) (err error) {
	switch format {
	case FORMAT_JSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(value)
	case FORMAT_YAML:
		err = yaml.NewDecoder(r).Decode(value)
	case FORMAT_CBOR:
		err = cborDecMode.NewDecoder(r).Decode(value)
	default:
		err = ErrFormatUnknown(format.String())
	}

	if err == io.EOF {
		err = ErrEmpty
	}

	return
}
