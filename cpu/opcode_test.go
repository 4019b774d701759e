package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mnemonic string
		op       CodeOp
		limit    int
	}){
		{"LOAD_CONST", OP_LOAD_CONST, 8191},
		{"LOAD_MEM", OP_LOAD_MEM, 8191},
		{"STORE_MEM", OP_STORE_MEM, 4095},
		{"SQRT", OP_SQRT, 4095},
	}

	for _, entry := range table {
		op, ok := LookupMnemonic(entry.mnemonic)
		assert.True(ok, entry.mnemonic)
		assert.Equal(entry.op, op, entry.mnemonic)
		assert.Equal(entry.mnemonic, op.String())
		assert.True(op.Valid(), entry.mnemonic)
		assert.Equal(entry.limit, op.OperandLimit(), entry.mnemonic)
	}

	assert.Equal(10, int(OP_LOAD_CONST))
	assert.Equal(0, int(OP_LOAD_MEM))
	assert.Equal(14, int(OP_STORE_MEM))
	assert.Equal(2, int(OP_SQRT))

	op, ok := LookupMnemonic("load_const")
	assert.True(ok)
	assert.Equal(OP_LOAD_CONST, op)

	_, ok = LookupMnemonic("UNKNOWN")
	assert.False(ok)
	_, ok = LookupMnemonic("")
	assert.False(ok)

	for code := range 16 {
		op := CodeOp(code)
		switch op {
		case OP_LOAD_CONST, OP_LOAD_MEM, OP_STORE_MEM, OP_SQRT:
			assert.True(op.Valid())
		default:
			assert.False(op.Valid())
			assert.Equal(0, op.OperandLimit())
		}
	}
	assert.Equal("OP_7", CodeOp(7).String())
}

func TestMnemonics(t *testing.T) {
	assert := assert.New(t)

	var names []string
	var ops []CodeOp
	for name, op := range Mnemonics() {
		names = append(names, name)
		ops = append(ops, op)
	}

	assert.Equal([]string{"LOAD_MEM", "SQRT", "LOAD_CONST", "STORE_MEM"}, names)
	assert.Equal([]CodeOp{OP_LOAD_MEM, OP_SQRT, OP_LOAD_CONST, OP_STORE_MEM}, ops)
}

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op      CodeOp
		operand int
		code    Code
	}){
		{OP_LOAD_CONST, 520, Code{0xa2, 0x08, 0x00}},
		{OP_LOAD_MEM, 133, Code{0x00, 0x85, 0x00}},
		{OP_STORE_MEM, 167, Code{0xe0, 0xa7, 0x00}},
		{OP_SQRT, 954, Code{0x23, 0xba, 0x00}},
		{OP_LOAD_CONST, 0, Code{0xa0, 0x00, 0x00}},
		{OP_LOAD_CONST, 4095, Code{0xaf, 0xff, 0x00}},
		// Only 12 operand bits are encoded.
		{OP_LOAD_CONST, 4096, Code{0xa0, 0x00, 0x00}},
		{OP_LOAD_CONST, 8191, Code{0xaf, 0xff, 0x00}},
		{OP_LOAD_MEM, -1, Code{0x0f, 0xff, 0x00}},
	}

	for _, entry := range table {
		code := MakeCode(entry.op, entry.operand)
		assert.Equal(entry.code, code, "%v %v", entry.op, entry.operand)
		assert.Equal(entry.op, code.Op())
		assert.Equal(entry.operand&OPERAND_MASK, code.Operand())
	}
}

func TestCodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []CodeOp{OP_LOAD_CONST, OP_LOAD_MEM, OP_STORE_MEM, OP_SQRT} {
		for operand := 0; operand <= OPERAND_MASK; operand++ {
			dop, doperand := MakeCode(op, operand).Decode()
			if dop != op || doperand != operand {
				assert.Fail("round trip", "%v %v => %v %v", op, operand, dop, doperand)
				return
			}
		}
	}
}

func FuzzCode(f *testing.F) {
	f.Add(uint8(10), 500)
	f.Add(uint8(2), 4095)
	f.Add(uint8(14), 8191)
	f.Add(uint8(0), -7)

	f.Fuzz(func(t *testing.T, a uint8, operand int) {
		assert := assert.New(t)

		op := CodeOp(a & 0xf)
		code := MakeCode(op, operand)

		assert.Equal(byte(0), code[2])
		dop, doperand := code.Decode()
		assert.Equal(op, dop)
		assert.Equal(operand&OPERAND_MASK, doperand)

		image := append([]byte{0xff}, code[:]...)
		decoded, ok := DecodeAt(image, 1)
		assert.True(ok)
		assert.Equal(code, decoded)
	})
}

func TestDecodeAt(t *testing.T) {
	assert := assert.New(t)

	image := []byte{0xa1, 0xf4, 0x00, 0x21, 0xf4, 0x00, 0xe0}

	code, ok := DecodeAt(image, 0)
	assert.True(ok)
	assert.Equal(OP_LOAD_CONST, code.Op())
	assert.Equal(500, code.Operand())

	code, ok = DecodeAt(image, 3)
	assert.True(ok)
	assert.Equal(OP_SQRT, code.Op())
	assert.Equal(500, code.Operand())

	// Trailing partial instruction is the end of the program.
	_, ok = DecodeAt(image, 6)
	assert.False(ok)
	_, ok = DecodeAt(image, 9)
	assert.False(ok)
	_, ok = DecodeAt(image, -3)
	assert.False(ok)
	_, ok = DecodeAt(nil, 0)
	assert.False(ok)
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	code := MakeCode(OP_LOAD_CONST, 500)
	assert.Equal("LOAD_CONST 500", code.String())
	assert.Equal("0xA1, 0xF4, 0x00", code.Hex())

	code = Code{0x50, 0x01, 0x00}
	assert.Equal("OP_5 1", code.String())
}
