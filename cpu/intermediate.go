// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"io"

	uio "github.com/ezrec/uvm/io"
)

// intermediateEntry is the file form of a Command.
type intermediateEntry struct {
	A       int    `json:"A" yaml:"A" cbor:"A"`
	B       int    `json:"B" yaml:"B" cbor:"B"`
	Comment string `json:"comment" yaml:"comment" cbor:"comment"`
}

// MarshalIntermediate writes the intermediate commands of the program.
func (prog *Program) MarshalIntermediate(file io.Writer, format uio.Format) (err error) {
	entries := make([]intermediateEntry, 0, len(prog.Commands))
	for _, cmd := range prog.Commands {
		entries = append(entries, intermediateEntry{
			A:       int(cmd.Op),
			B:       cmd.Operand,
			Comment: cmd.Comment,
		})
	}

	return uio.Encode(file, format, entries)
}

// UnmarshalIntermediate reads intermediate commands, replacing those of the
// program. Operation codes must be in the opcode table.
func (prog *Program) UnmarshalIntermediate(file io.Reader, format uio.Format) (err error) {
	var entries []intermediateEntry
	err = uio.Decode(file, format, &entries)
	if err != nil {
		return
	}

	commands := make([]Command, 0, len(entries))
	for n, entry := range entries {
		op := CodeOp(entry.A)
		if !op.Valid() {
			err = &ErrSyntax{LineNo: n + 1, Mnemonic: op.String(), Err: ErrOpcode(op)}
			return
		}
		commands = append(commands, Command{
			LineNo:  n + 1,
			Op:      op,
			Operand: entry.B,
			Comment: entry.Comment,
		})
	}

	prog.Commands = commands

	return
}
