// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
	uio "github.com/ezrec/uvm/io"
)

const (
	MEMORY_SIZE = 65536   // Default number of memory cells.
	STEP_LIMIT  = 1000000 // Default limit of executed instructions.

	TEST_PATTERN_BASE = 100 // First cell written by TestPattern.
)

var _emulator_defines = map[string]string{
	"INSTRUCTION_SIZE": fmt.Sprintf("%v", cpu.CODE_SIZE),
}

// HaltReason is the reason execution stopped.
type HaltReason int

const (
	HALT_NONE     = HaltReason(0) // running
	HALT_END      = HaltReason(1) // end of program
	HALT_CORRUPT  = HaltReason(2) // invalid opcode
	HALT_WATCHDOG = HaltReason(3) // instruction limit
)

func (hr HaltReason) String() string {
	switch hr {
	case HALT_NONE:
		return "running"
	case HALT_END:
		return "end of program"
	case HALT_CORRUPT:
		return "invalid opcode"
	case HALT_WATCHDOG:
		return "instruction limit"
	}
	return fmt.Sprintf("HaltReason(%d)", int(hr))
}

// Stats are the execution counters of a run.
type Stats struct {
	Executed       int // Instructions executed.
	MemoryAccesses int // Memory cells read or written.
	SqrtOperations int // SQRT results stored.
}

// Emulator state. Memory, accumulator and program counter of one machine.
type Emulator struct {
	Verbose bool         // If set, traces every instruction.
	Program *cpu.Program // Optional listing of the loaded image, for traces.

	Memory []int64 // Data memory.
	Acc    int64   // Accumulator.
	Pc     int     // Byte offset of the next instruction in Image.
	Image  []byte  // Loaded program image.

	StepLimit int // Maximum instructions executed by a run.

	Stats
	Halt   HaltReason // Why execution stopped, HALT_NONE while running.
	Faults []error    // Non-fatal memory faults of the run.
}

// NewEmulator creates a new emulator with a memory of capacity cells.
// A capacity of 0 selects MEMORY_SIZE.
func NewEmulator(capacity int) (emu *Emulator) {
	if capacity <= 0 {
		capacity = MEMORY_SIZE
	}

	emu = &Emulator{
		Memory:    make([]int64, capacity),
		StepLimit: STEP_LIMIT,
	}

	return
}

// Defines returns an iterator over the machine constants, suitable as
// assembler predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		maps.All(map[string]string{
			"MEMORY_SIZE": fmt.Sprintf("%v", len(emu.Memory)),
			"STEP_LIMIT":  fmt.Sprintf("%v", emu.StepLimit),
		}),
	)
}

// Reset clears memory, the registers and the run state.
// The loaded image is kept.
func (emu *Emulator) Reset() {
	clear(emu.Memory)
	emu.Acc = 0
	emu.rewind()
}

// rewind restarts execution at the first instruction.
func (emu *Emulator) rewind() {
	emu.Pc = 0
	emu.Stats = Stats{}
	emu.Halt = HALT_NONE
	emu.Faults = nil
}

// Load replaces the program image and rewinds execution. Memory and the
// accumulator are kept, so initialization data may be applied before or after.
// A truncated image is reported with io.ErrImageSize, and is still loaded.
func (emu *Emulator) Load(image []byte) (err error) {
	emu.Image = append([]byte(nil), image...)
	emu.rewind()

	if len(image)%cpu.CODE_SIZE != 0 {
		err = uio.ErrImageSize
		log.Printf("warning: %v (%v bytes)", err, len(image))
	}

	if emu.Verbose {
		log.Printf("emu: loaded %v bytes (%v instructions)", len(image), len(image)/cpu.CODE_SIZE)
	}

	return
}

// valid returns true if addr is a memory address.
func (emu *Emulator) valid(addr int64) bool {
	return addr >= 0 && addr < int64(len(emu.Memory))
}

// Peek reads a memory cell.
func (emu *Emulator) Peek(addr int) (value int64, err error) {
	if !emu.valid(int64(addr)) {
		err = ErrAddress
		return
	}

	value = emu.Memory[addr]

	return
}

// Poke writes a memory cell.
func (emu *Emulator) Poke(addr int, value int64) (err error) {
	if !emu.valid(int64(addr)) {
		err = ErrAddress
		return
	}

	emu.Memory[addr] = value

	return
}

// Init applies memory initialization data. Cells outside of memory are
// skipped and reported.
func (emu *Emulator) Init(cells map[int]int64) (err error) {
	for addr, value := range internal.IterSorted(cells) {
		perr := emu.Poke(addr, value)
		if perr != nil {
			log.Printf("warning: init mem[%v]: %v", addr, perr)
			if err == nil {
				err = perr
			}
			continue
		}
		if emu.Verbose {
			log.Printf("emu: mem[%v] = %v", addr, value)
		}
	}

	return
}

// TestPattern fills ten cells from TEST_PATTERN_BASE with ten times their
// address.
func (emu *Emulator) TestPattern() {
	for addr := TEST_PATTERN_BASE; addr < TEST_PATTERN_BASE+10; addr++ {
		if emu.valid(int64(addr)) {
			emu.Memory[addr] = int64(addr * 10)
		}
	}
}

// fault records a non-fatal memory fault.
func (emu *Emulator) fault(op cpu.CodeOp, addr int64) {
	err := &ErrFault{Pc: emu.Pc, Op: op.String(), Address: addr}
	log.Printf("warning: %v", err)
	emu.Faults = append(emu.Faults, err)
}

// Tick fetches, decodes and executes a single instruction.
// done is set once the machine halts; err is set when it halts on an invalid
// opcode or on the instruction limit.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Halt != HALT_NONE {
		done = true
		return
	}

	code, ok := cpu.DecodeAt(emu.Image, emu.Pc)
	if !ok {
		emu.Halt = HALT_END
		done = true
		return
	}

	if emu.Executed >= emu.StepLimit {
		emu.Halt = HALT_WATCHDOG
		err = &ErrRuntime{Pc: emu.Pc, Err: ErrWatchdog}
		log.Printf("emu: %v", err)
		done = true
		return
	}

	op, operand := code.Decode()

	switch op {
	case cpu.OP_LOAD_CONST:
		emu.Acc = int64(operand)
	case cpu.OP_LOAD_MEM:
		addr := emu.Acc + int64(operand)
		if emu.valid(addr) {
			emu.Acc = emu.Memory[addr]
			emu.MemoryAccesses++
		} else {
			emu.fault(op, addr)
			emu.Acc = 0
		}
	case cpu.OP_STORE_MEM:
		addr := int64(operand)
		if emu.valid(addr) {
			emu.Memory[addr] = emu.Acc
			emu.MemoryAccesses++
		} else {
			emu.fault(op, addr)
		}
	case cpu.OP_SQRT:
		src, dst := emu.Acc, int64(operand)
		switch {
		case !emu.valid(src):
			emu.fault(op, src)
		case !emu.valid(dst):
			emu.fault(op, dst)
		default:
			emu.Memory[dst] = Isqrt(emu.Memory[src])
			emu.MemoryAccesses += 2
			emu.SqrtOperations++
		}
	default:
		emu.Halt = HALT_CORRUPT
		err = &ErrRuntime{Pc: emu.Pc, Err: cpu.ErrOpcode(op)}
		log.Printf("emu: %v", err)
		done = true
		return
	}

	if emu.Verbose {
		emu.trace(code)
	}

	emu.Executed++
	emu.Pc += cpu.CODE_SIZE

	return
}

// trace logs an executed instruction.
func (emu *Emulator) trace(code cpu.Code) {
	comment := ""
	if emu.Program != nil {
		if cmd := emu.Program.Debug(emu.Pc); cmd != nil {
			comment = "  # " + cmd.Comment
		}
	}
	log.Printf("pc=0x%04x %-16v acc=%v%v", emu.Pc, code.String(), emu.Acc, comment)
}

// Run executes until the machine halts.
func (emu *Emulator) Run() (reason HaltReason, err error) {
	if emu.Verbose {
		log.Printf("emu: run")
	}

	for done := false; !done; {
		done, err = emu.Tick()
	}

	reason = emu.Halt

	if emu.Verbose {
		log.Printf("emu: halt: %v, %v instructions, %v memory accesses",
			reason, emu.Executed, emu.MemoryAccesses)
	}

	return
}

// Snapshot returns the nonzero cells of [start, end), clamped to memory.
// The result is a copy, never nil.
func (emu *Emulator) Snapshot(start, end int) (dump uio.Dump) {
	start = max(start, 0)
	end = min(end, len(emu.Memory))

	cells := map[int]int64{}
	for addr := start; addr < end; addr++ {
		if value := emu.Memory[addr]; value != 0 {
			cells[addr] = value
		}
	}

	return uio.MakeDump(cells)
}

// String returns the register state of the machine.
func (emu *Emulator) String() (text string) {
	text += fmt.Sprintf("% 5s: 0x%04x\n", "pc", emu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "acc", emu.Acc)
	text += fmt.Sprintf("% 5s: %v\n", "halt", emu.Halt)
	return
}
