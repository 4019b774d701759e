package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	uio "github.com/ezrec/uvm/io"
)

func testProgram() *Program {
	return &Program{
		Commands: []Command{
			{LineNo: 1, Op: OP_LOAD_CONST, Operand: 500, Comment: "address"},
			{LineNo: 2, Op: OP_SQRT, Operand: 500, Comment: "in place"},
			{LineNo: 3, Op: OP_STORE_MEM, Operand: 167, Comment: "store"},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	cmd := prog.Debug(0)
	assert.NotNil(cmd)
	assert.Equal(1, cmd.LineNo)

	cmd = prog.Debug(3)
	assert.NotNil(cmd)
	assert.Equal(2, cmd.LineNo)

	cmd = prog.Debug(6)
	assert.NotNil(cmd)
	assert.Equal(3, cmd.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	assert.Nil(prog.Debug(9))
	assert.Nil(prog.Debug(1))
	assert.Nil(prog.Debug(-3))
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	var pcs []int
	var codes []Code
	for pc, code := range prog.Codes() {
		pcs = append(pcs, pc)
		codes = append(codes, code)
		if pc == 3 {
			break
		}
	}

	assert.Equal([]int{0, 3}, pcs)
	assert.Equal([]Code{{0xa1, 0xf4, 0x00}, {0x21, 0xf4, 0x00}}, codes)

	image := prog.Binary()
	assert.Equal(len(prog.Commands)*CODE_SIZE, len(image))
	for pc, code := range prog.Codes() {
		decoded, ok := DecodeAt(image, pc)
		assert.True(ok)
		assert.Equal(code, decoded)
	}
}

func TestProgram_Listing(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	listing := prog.Listing(false)
	assert.Contains(listing, "A=10, B=500  # address\n")
	assert.Contains(listing, "A=2, B=500  # in place\n")
	assert.Contains(listing, "A=14, B=167  # store\n")
	assert.Contains(listing, "Total commands: 3")
	assert.NotContains(listing, "0xA1")

	listing = prog.Listing(true)
	assert.Contains(listing, "    0000: 0xA1, 0xF4, 0x00\n")
	assert.Contains(listing, "    0003: 0x21, 0xF4, 0x00\n")
	assert.Contains(listing, "    0006: 0xE0, 0xA7, 0x00\n")
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	image := append(testProgram().Binary(), 0xa0)

	lines := strings.Split(strings.TrimSpace(Disassemble(image)), "\n")
	assert.Equal(4, len(lines))
	assert.Equal("0000: 0xA1, 0xF4, 0x00  ; LOAD_CONST 500", lines[0])
	assert.Equal("0003: 0x21, 0xF4, 0x00  ; SQRT 500", lines[1])
	assert.Equal("0006: 0xE0, 0xA7, 0x00  ; STORE_MEM 167", lines[2])
	assert.Equal("0009: A0  ; truncated", lines[3])

	assert.Equal("", Disassemble(nil))
}

func TestProgram_Intermediate(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	for _, format := range []uio.Format{uio.FORMAT_JSON, uio.FORMAT_YAML, uio.FORMAT_CBOR} {
		buf := &bytes.Buffer{}
		err := prog.MarshalIntermediate(buf, format)
		assert.NoError(err, format.String())

		if format == uio.FORMAT_JSON {
			assert.Contains(buf.String(), `"A": 10`)
			assert.Contains(buf.String(), `"B": 500`)
			assert.Contains(buf.String(), `"comment": "address"`)
		}

		loaded := &Program{}
		err = loaded.UnmarshalIntermediate(buf, format)
		assert.NoError(err, format.String())
		assert.Equal(prog.Commands, loaded.Commands, format.String())
	}
}

func TestProgram_IntermediateInvalid(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	err := prog.UnmarshalIntermediate(strings.NewReader(`[{"A": 10, "B": 1}, {"A": 7, "B": 1}]`), uio.FORMAT_JSON)
	assert.ErrorIs(err, ErrOpcode(7))

	var syntax *ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(2, syntax.LineNo)

	// Unchanged on error.
	assert.Equal(testProgram().Commands, prog.Commands)
}
