// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"encoding/json"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	uio "github.com/ezrec/uvm/io"
)

// Operand is an instruction operand: an integer, or an expression evaluated
// at translation time.
type Operand struct {
	Value int
	Expr  string
}

func (op Operand) String() string {
	if len(op.Expr) != 0 {
		return "$(" + op.Expr + ")"
	}
	return strconv.Itoa(op.Value)
}

// Instruction is the source form of an instruction.
type Instruction struct {
	Mnemonic string
	Operand  Operand
	Comment  string
}

// Description is a program description.
type Description struct {
	Version     string
	Description string
	Equates     map[string]Operand
	Program     []Instruction
}

var (
	descriptionFields = []string{"version", "description", "equates", "program"}
	instructionFields = []string{"opcode", "operand", "comment"}
)

// ParseDescription reads a program description, validating it against the
// description schema. The first violation is returned as an *ErrSchema.
func ParseDescription(input io.Reader, format uio.Format) (desc *Description, err error) {
	var doc any
	err = uio.Decode(input, format, &doc)
	if err != nil {
		return
	}

	top, ok := doc.(map[string]any)
	if !ok {
		err = &ErrSchema{Field: "program", Err: ErrSchemaProgram}
		return
	}

	err = knownFields(0, top, descriptionFields)
	if err != nil {
		return
	}

	desc = &Description{}
	defer func() {
		if err != nil {
			desc = nil
		}
	}()

	desc.Version, err = optionalString(0, top, "version")
	if err != nil {
		return
	}
	desc.Description, err = optionalString(0, top, "description")
	if err != nil {
		return
	}

	if equ, ok := top["equates"]; ok && equ != nil {
		table, ok := equ.(map[string]any)
		if !ok {
			err = &ErrSchema{Field: "equates", Err: ErrSchemaType}
			return
		}
		desc.Equates = make(map[string]Operand, len(table))
		for name, value := range table {
			var operand Operand
			operand, ok = asOperand(value)
			if !ok || len(name) == 0 {
				err = &ErrSchema{Field: "equates." + name, Err: ErrEquateSyntax}
				return
			}
			desc.Equates[name] = operand
		}
	}

	list, ok := top["program"]
	if !ok {
		err = &ErrSchema{Field: "program", Err: ErrSchemaProgram}
		return
	}
	entries, ok := list.([]any)
	if !ok {
		err = &ErrSchema{Field: "program", Err: ErrSchemaType}
		return
	}

	for n, entry := range entries {
		index := n + 1
		fields, ok := entry.(map[string]any)
		if !ok {
			err = &ErrSchema{Index: index, Field: "opcode", Err: ErrSchemaType}
			return
		}

		err = knownFields(index, fields, instructionFields)
		if err != nil {
			return
		}

		var instr Instruction

		mnemonic, ok := fields["opcode"]
		if !ok {
			err = &ErrSchema{Index: index, Field: "opcode", Err: ErrSchemaRequired}
			return
		}
		instr.Mnemonic, ok = mnemonic.(string)
		if !ok {
			err = &ErrSchema{Index: index, Field: "opcode", Err: ErrSchemaType}
			return
		}

		value, ok := fields["operand"]
		if !ok {
			err = &ErrSchema{Index: index, Field: "operand", Err: ErrSchemaRequired}
			return
		}
		instr.Operand, ok = asOperand(value)
		if !ok {
			err = &ErrSchema{Index: index, Field: "operand", Err: ErrSchemaType}
			return
		}

		instr.Comment, err = optionalString(index, fields, "comment")
		if err != nil {
			return
		}

		desc.Program = append(desc.Program, instr)
	}

	return
}

// knownFields rejects any field not in the list.
func knownFields(index int, fields map[string]any, known []string) (err error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !slices.Contains(known, key) {
			err = &ErrSchema{Index: index, Field: key, Err: ErrSchemaUnknown}
			return
		}
	}

	return
}

func optionalString(index int, fields map[string]any, key string) (str string, err error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return
	}

	str, ok = value.(string)
	if !ok {
		err = &ErrSchema{Index: index, Field: key, Err: ErrSchemaType}
	}

	return
}

// asOperand converts a decoded value into an Operand.
func asOperand(value any) (operand Operand, ok bool) {
	ok = true

	switch v := value.(type) {
	case string:
		operand.Expr = strings.TrimSpace(v)
		ok = len(operand.Expr) != 0
	case json.Number:
		i64, err := v.Int64()
		if err != nil {
			ok = false
			break
		}
		operand.Value, ok = asInt(i64)
	case int:
		operand.Value, ok = asInt(int64(v))
	case int64:
		operand.Value, ok = asInt(v)
	case uint64:
		ok = v <= math.MaxInt32
		operand.Value = int(v)
	case float64:
		ok = v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32
		operand.Value = int(v)
	default:
		ok = false
	}

	return
}

func asInt(v int64) (int, bool) {
	return int(v), v >= math.MinInt32 && v <= math.MaxInt32
}
