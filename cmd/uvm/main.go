// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/ezrec/uvm/config"
	"github.com/ezrec/uvm/emulator"
	uio "github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

func main() {
	var verbose bool
	var test bool
	var memory string
	var size int
	var limit int
	var confdir string

	flag.BoolVar(&verbose, "v", false, "Trace every instruction")
	flag.BoolVar(&test, "test", false, "Fill cells 100..109 with a test pattern")
	flag.StringVar(&memory, "m", "", "Memory initialization file (.json, .yaml, .cbor)")
	flag.IntVar(&size, "n", 0, "Memory size in cells (default from "+config.FILE_NAME+")")
	flag.IntVar(&limit, "l", 0, "Instruction limit (default from "+config.FILE_NAME+")")
	flag.StringVar(&confdir, "C", ".", "Directory to search for "+config.FILE_NAME)

	flag.Parse()

	conf, err := config.FindAndLoad(confdir)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if conf == nil {
		conf = config.Default()
	}
	err = translate.SetLanguage(conf.Run.Language)
	if err != nil {
		log.Printf("%v: language: %v", os.Args[0], err)
	}

	start, end := conf.Run.DumpStart, conf.Run.DumpEnd
	switch flag.NArg() {
	case 2:
	case 4:
		start, err = strconv.Atoi(flag.Arg(2))
		if err != nil {
			log.Fatalf("%v: start: %v", os.Args[0], err)
		}
		end, err = strconv.Atoi(flag.Arg(3))
		if err != nil {
			log.Fatalf("%v: end: %v", os.Args[0], err)
		}
	default:
		log.Fatalf("usage: %v [flags] image.bin dump.{json,yaml,cbor} [start end]", os.Args[0])
	}

	err = uio.CheckRange(start, end)
	if errors.Is(err, uio.ErrDumpRange) {
		log.Fatalf("%v: %v [%d, %d)", os.Args[0], err, start, end)
	}
	if err != nil {
		log.Printf("warning: %v", err)
	}

	if size == 0 {
		size = conf.Machine.MemorySize
	}
	if limit == 0 {
		limit = conf.Machine.StepLimit
	}

	emu := emulator.NewEmulator(size)
	emu.StepLimit = limit
	emu.Verbose = verbose || conf.Run.Verbose

	if test {
		emu.TestPattern()
		log.Print(f("test pattern written to cells %d..%d", emulator.TEST_PATTERN_BASE, emulator.TEST_PATTERN_BASE+9))
	}

	if len(memory) != 0 {
		dir, name := uio.Split(memory)
		dump, err := uio.LoadDump(dir, name)
		if err != nil {
			log.Fatalf("%v", err)
		}
		cells, err := dump.Addresses()
		if err != nil {
			log.Fatalf("%v: %v", memory, err)
		}
		err = emu.Init(cells)
		if err != nil {
			log.Printf("warning: %v: %v", memory, err)
		}
	}

	dir, name := uio.Split(flag.Arg(0))
	image, err := uio.LoadImage(dir, name)
	if err != nil && !errors.Is(err, uio.ErrImageSize) {
		log.Fatalf("%v", err)
	}
	log.Print(f("loaded program: %d bytes (%d instructions)", len(image.Data), image.Instructions()))

	// Size warnings are logged by Load.
	_ = emu.Load(image.Data)

	reason, runErr := emu.Run()
	log.Print(f("halt: %v; %d instructions, %d memory accesses, %d sqrt operations",
		reason, emu.Executed, emu.MemoryAccesses, emu.SqrtOperations))

	dump := emu.Snapshot(start, end)
	output := flag.Arg(1)
	odir, oname := uio.Split(output)
	err = uio.SaveDump(odir, oname, dump)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(dump) == 0 {
		log.Print(f("dump is empty (all cells are zero)"))
	} else {
		log.Print(f("dump saved to %v: %d nonzero cells", output, len(dump)))
	}

	if runErr != nil {
		log.Fatalf("%v", runErr)
	}
}
