// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	uio "github.com/ezrec/uvm/io"
)

// Predefined system equates
var sysEquate = map[string]string{
	"CODE_SIZE":    fmt.Sprintf("%d", CODE_SIZE),
	"OPERAND_MASK": fmt.Sprintf("%#x", OPERAND_MASK),
}

// Assembler translates program descriptions into programs.
type Assembler struct {
	Verbose  bool    // If set, verbosely logs the assembler actions.
	Strict   bool    // If set, operand range warnings are fatal.
	Warnings []error // Soft validation findings of the last translation.

	predefine map[string]string // Predefines
	Equate    map[string]int    // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseExpression(word)
		return
	}

	value = int(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "operand"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.Equate {
		pred[key] = starlark.MakeInt(value)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 != int64(int32(st_int64)) {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var parenRe = regexp.MustCompile(`^\$\((.*)\)$`)

// evalOperand resolves an operand to its integer value.
func (asm *Assembler) evalOperand(operand Operand) (value int, err error) {
	if len(operand.Expr) == 0 {
		value = operand.Value
		return
	}

	expr := operand.Expr
	if m := parenRe.FindStringSubmatch(expr); m != nil {
		expr = m[1]
	}

	value, ok := asm.Equate[expr]
	if ok {
		return
	}

	value, err = asm.valueOf(expr)
	if err == nil {
		return
	}

	return asm.parenEval(expr)
}

// resetEquates installs the system equates, the predefines and the equates of
// a description. Description equates may refer to each other.
func (asm *Assembler) resetEquates(equates map[string]Operand) (err error) {
	asm.Equate = make(map[string]int, len(sysEquate)+len(asm.predefine)+len(equates))

	for _, table := range []map[string]string{sysEquate, asm.predefine} {
		for key, str := range table {
			var value int
			value, err = asm.valueOf(str)
			if err != nil {
				// Non-integer predefines are not equates.
				if asm.Verbose {
					log.Printf("warning: predefine %v: %v", key, err)
				}
				err = nil
				continue
			}
			asm.Equate[key] = value
		}
	}

	pending := slices.Sorted(maps.Keys(equates))
	for len(pending) != 0 {
		var unresolved []string
		var lastErr error
		for _, name := range pending {
			value, err := asm.evalOperand(equates[name])
			if err != nil {
				unresolved = append(unresolved, name)
				lastErr = err
				continue
			}
			asm.Equate[name] = value
		}
		if len(unresolved) == len(pending) {
			err = &ErrSchema{Field: "equates." + unresolved[0], Err: lastErr}
			return
		}
		pending = unresolved
	}

	return
}

// Parse reads a program description and translates it into a Program.
func (asm *Assembler) Parse(input io.Reader, format uio.Format) (prog *Program, err error) {
	desc, err := ParseDescription(input, format)
	if err != nil {
		return
	}

	return asm.Translate(desc)
}

// Translate validates the instructions of a description and builds the
// intermediate commands. No Program is returned on error.
func (asm *Assembler) Translate(desc *Description) (prog *Program, err error) {
	asm.Warnings = nil

	err = asm.resetEquates(desc.Equates)
	if err != nil {
		return
	}

	commands := make([]Command, 0, len(desc.Program))

	for n, instr := range desc.Program {
		lineno := n + 1

		var cmd Command
		cmd, err = asm.translate(lineno, instr)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Mnemonic: instr.Mnemonic, Err: err}
			return
		}

		if asm.Verbose {
			log.Printf("%v: %v %v => %v", lineno, instr.Mnemonic, instr.Operand.String(), cmd.String())
		}

		commands = append(commands, cmd)
	}

	prog = &Program{
		Commands: commands,
	}

	return
}

// translate builds a single command.
func (asm *Assembler) translate(lineno int, instr Instruction) (cmd Command, err error) {
	op, ok := LookupMnemonic(instr.Mnemonic)
	if !ok {
		err = ErrUnknownMnemonic
		return
	}

	operand, err := asm.evalOperand(instr.Operand)
	if err != nil {
		return
	}

	if operand < 0 || operand > op.OperandLimit() {
		warning := &ErrRange{LineNo: lineno, Op: op, Operand: operand}
		if asm.Strict {
			err = warning
			return
		}
		log.Printf("warning: %v", warning)
		asm.Warnings = append(asm.Warnings, warning)
	}

	comment := instr.Comment
	if len(comment) == 0 {
		comment = f("command %d", lineno)
	}

	cmd = Command{
		LineNo:  lineno,
		Op:      op,
		Operand: operand,
		Comment: comment,
	}

	return
}
