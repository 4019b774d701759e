// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Program description errors
	ErrSchemaProgram  = errors.New(f("'program' list missing"))
	ErrSchemaRequired = errors.New(f("required field missing"))
	ErrSchemaUnknown  = errors.New(f("unknown field"))
	ErrSchemaType     = errors.New(f("wrong field type"))

	// Assembler errors
	ErrUnknownMnemonic = errors.New(f("unknown mnemonic"))
	ErrOperandRange    = errors.New(f("operand out of range"))
	ErrEquateSyntax    = errors.New(f("equate syntax"))
)

// ErrSchema reports the first violation of the program description schema.
type ErrSchema struct {
	Index int    // 1-based index of the instruction, 0 for the description itself.
	Field string // Offending field.
	Err   error
}

func (err *ErrSchema) Error() string {
	if err.Index == 0 {
		return f("'%v' %v", err.Field, err.Err)
	}
	return f("instruction %d '%v' %v", err.Index, err.Field, err.Err)
}

func (err *ErrSchema) Unwrap() error {
	return err.Err
}

// ErrSyntax locates a translation error in the program description.
type ErrSyntax struct {
	LineNo   int
	Mnemonic string
	Err      error
}

func (err *ErrSyntax) Error() string {
	return f("instruction %d '%v' %v", err.LineNo, err.Mnemonic, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRange is a soft validation finding: the operand exceeds the documented
// range for its operation.
type ErrRange struct {
	LineNo  int
	Op      CodeOp
	Operand int
}

func (err *ErrRange) Error() string {
	return f("instruction %d %v operand %v outside 0..%v", err.LineNo, err.Op.String(), err.Operand, err.Op.OperandLimit())
}

func (err *ErrRange) Is(target error) bool {
	return target == ErrOperandRange
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOpcode is an operation code outside the opcode table.
type ErrOpcode CodeOp

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", CodeOp(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
