// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Command is the intermediate form of one instruction.
type Command struct {
	LineNo  int    // 1-based index in the program description.
	Op      CodeOp // A field.
	Operand int    // B field, before truncation.
	Comment string
}

// Code encodes the command.
func (cmd Command) Code() Code {
	return MakeCode(cmd.Op, cmd.Operand)
}

func (cmd Command) String() string {
	return fmt.Sprintf("A=%d, B=%d  # %v", int(cmd.Op), cmd.Operand, cmd.Comment)
}

// Program is an ordered list of intermediate commands.
type Program struct {
	Commands []Command
}

// Debug returns the command that produced the instruction at a program
// counter, or nil.
func (prog *Program) Debug(pc int) *Command {
	if pc < 0 || pc%CODE_SIZE != 0 {
		return nil
	}

	index := pc / CODE_SIZE
	if index >= len(prog.Commands) {
		return nil
	}

	return &prog.Commands[index]
}

// Binary returns the program image.
func (prog *Program) Binary() (image []byte) {
	image = make([]byte, 0, len(prog.Commands)*CODE_SIZE)
	for _, code := range prog.Codes() {
		image = append(image, code[:]...)
	}

	return
}

// Codes iterates over the encoded instructions, keyed by program counter.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for n, cmd := range prog.Commands {
			if !yield(n*CODE_SIZE, cmd.Code()) {
				return
			}
		}
	}
}

// Listing returns the intermediate listing of the program.
// If hex is set, the encoded bytes of each command are included.
func (prog *Program) Listing(hex bool) string {
	var sb strings.Builder

	rule := strings.Repeat("-", 40)

	sb.WriteString(f("Intermediate representation:") + "\n")
	sb.WriteString(rule + "\n")
	for n, cmd := range prog.Commands {
		sb.WriteString(cmd.String())
		if hex {
			code := cmd.Code()
			sb.WriteString(fmt.Sprintf("\n    %04x: %v", n*CODE_SIZE, code.Hex()))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(rule + "\n")
	sb.WriteString(f("Total commands: %d", len(prog.Commands)) + "\n")

	return sb.String()
}

// Disassemble returns a listing of a program image.
func Disassemble(image []byte) string {
	var sb strings.Builder

	pc := 0
	for code, ok := DecodeAt(image, pc); ok; code, ok = DecodeAt(image, pc) {
		sb.WriteString(fmt.Sprintf("%04x: %v  ; %v\n", pc, code.Hex(), code.String()))
		pc += CODE_SIZE
	}

	if pc < len(image) {
		sb.WriteString(fmt.Sprintf("%04x: % X  ; %v\n", pc, image[pc:], f("truncated")))
	}

	return sb.String()
}
