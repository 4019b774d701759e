// Package cpu implements the instruction set and assembler of the UVM
// teaching machine.
//
// The instruction set has four operations working on a flat memory and a
// single accumulator: LOAD_CONST, LOAD_MEM, STORE_MEM and SQRT. Each
// instruction packs into three bytes; a program image is the plain
// concatenation of its instructions.
//
// The assembler reads a program description (JSON, YAML or CBOR), validates
// the mnemonics and operands, and builds the intermediate command list that
// encodes to the program image. Operands may be compile-time expressions over
// the description's equates.
package cpu
