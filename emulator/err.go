package emulator

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrWatchdog = errors.New(f("instruction limit exceeded"))
	ErrAddress  = errors.New(f("address out of range"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc  int
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%04x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrFault is a non-fatal memory fault: the instruction at Pc addressed a cell
// outside of memory.
type ErrFault struct {
	Pc      int
	Op      string
	Address int64
}

func (err *ErrFault) Error() string {
	return f("pc 0x%04x %v address %v out of range", err.Pc, err.Op, err.Address)
}

func (err *ErrFault) Unwrap() error {
	return ErrAddress
}
