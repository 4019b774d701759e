package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrEmpty      = errors.New(f("empty input"))
	ErrImageSize  = errors.New(f("image size is not a multiple of 3"))
	ErrDumpRange  = errors.New(f("dump range invalid"))
	ErrDumpLarge  = errors.New(f("dump range larger than 10000 addresses"))
	ErrAddressKey = errors.New(f("address key invalid"))
)

type ErrFormatUnknown string

func (err ErrFormatUnknown) Error() string {
	return f("'%v' is not a known format (json, yaml, cbor)", string(err))
}

// ErrFile locates an error in a named file.
type ErrFile struct {
	Path string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
