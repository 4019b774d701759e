// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// CodeOp is the 4-bit operation code (the A field) of an instruction.
type CodeOp int

const (
	OP_LOAD_MEM   = CodeOp(0)  // LOAD_MEM
	OP_SQRT       = CodeOp(2)  // SQRT
	OP_LOAD_CONST = CodeOp(10) // LOAD_CONST
	OP_STORE_MEM  = CodeOp(14) // STORE_MEM
)

const (
	CODE_SIZE = 3 // Bytes per binary instruction.

	OPERAND_BITS = 12                      // Operand bits representable in a Code.
	OPERAND_MASK = (1 << OPERAND_BITS) - 1 // Mask of the encodable operand.
)

// opMap maps the mnemonics to their operation codes.
var opMap = map[string]CodeOp{
	"LOAD_CONST": OP_LOAD_CONST,
	"LOAD_MEM":   OP_LOAD_MEM,
	"STORE_MEM":  OP_STORE_MEM,
	"SQRT":       OP_SQRT,
}

// opOrder is the table in opcode order.
var opOrder = []CodeOp{OP_LOAD_MEM, OP_SQRT, OP_LOAD_CONST, OP_STORE_MEM}

// LookupMnemonic returns the operation code of a mnemonic.
// Mnemonics are case insensitive.
func LookupMnemonic(mnemonic string) (op CodeOp, ok bool) {
	op, ok = opMap[strings.ToUpper(strings.TrimSpace(mnemonic))]
	return
}

// Mnemonics iterates over the opcode table in opcode order.
func Mnemonics() iter.Seq2[string, CodeOp] {
	return func(yield func(mnemonic string, op CodeOp) bool) {
		for _, op := range opOrder {
			if !yield(op.String(), op) {
				return
			}
		}
	}
}

// Valid returns true if the operation code is in the opcode table.
func (op CodeOp) Valid() bool {
	switch op {
	case OP_LOAD_CONST, OP_LOAD_MEM, OP_STORE_MEM, OP_SQRT:
		return true
	}
	return false
}

// OperandLimit returns the largest operand the assembler accepts without a
// warning. Only the low 12 bits are encoded, whatever the limit.
func (op CodeOp) OperandLimit() int {
	switch op {
	case OP_LOAD_CONST, OP_LOAD_MEM:
		return 8191
	case OP_STORE_MEM, OP_SQRT:
		return 4095
	}
	return 0
}

func (op CodeOp) String() string {
	switch op {
	case OP_LOAD_CONST:
		return "LOAD_CONST"
	case OP_LOAD_MEM:
		return "LOAD_MEM"
	case OP_STORE_MEM:
		return "STORE_MEM"
	case OP_SQRT:
		return "SQRT"
	}
	return fmt.Sprintf("OP_%d", int(op))
}

// Code is a single binary instruction.
//
//	byte 0: AAAA BBBB  opcode, operand bits 11..8
//	byte 1: BBBB BBBB  operand bits 7..0
//	byte 2: 0000 0000  reserved
type Code [CODE_SIZE]byte

// MakeCode packs an operation and operand into a Code.
// Operand bits above bit 11 are discarded.
func MakeCode(op CodeOp, operand int) Code {
	return Code{
		(byte(op&0xf) << 4) | byte((operand>>8)&0xf),
		byte(operand & 0xff),
		0,
	}
}

// DecodeAt returns the Code at offset in an image.
// ok is false at the end of the program, when fewer than CODE_SIZE bytes remain.
func DecodeAt(image []byte, offset int) (code Code, ok bool) {
	if offset < 0 || offset+CODE_SIZE > len(image) {
		return
	}

	copy(code[:], image[offset:offset+CODE_SIZE])
	ok = true

	return
}

// Op returns the operation code of the instruction.
func (code Code) Op() CodeOp {
	return CodeOp(code[0] >> 4)
}

// Operand returns the 12-bit operand of the instruction.
func (code Code) Operand() int {
	return (int(code[0]&0xf) << 8) | int(code[1])
}

// Decode returns the operation code and operand of the instruction.
func (code Code) Decode() (op CodeOp, operand int) {
	return code.Op(), code.Operand()
}

// Hex returns the bytes of the instruction as a hex list.
func (code Code) Hex() string {
	return fmt.Sprintf("0x%02X, 0x%02X, 0x%02X", code[0], code[1], code[2])
}

// String returns the disassembly of the instruction.
func (code Code) String() string {
	op, operand := code.Decode()
	return fmt.Sprintf("%v %v", op.String(), operand)
}
