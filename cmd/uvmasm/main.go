// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/uvm/config"
	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	uio "github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/translate"
)

// defines collects -D NAME=VALUE flags.
type defines map[string]string

func (d defines) String() string {
	var list []string
	for key, value := range d {
		list = append(list, key+"="+value)
	}
	return strings.Join(list, ",")
}

func (d defines) Set(arg string) error {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || len(key) == 0 {
		return cpu.ErrEquateSyntax
	}
	_, err := strconv.ParseInt(value, 0, 32)
	if err != nil {
		return fmt.Errorf("%w: %v", cpu.ErrEquateSyntax, err)
	}
	d[key] = value
	return nil
}

// saveIntermediate writes the intermediate commands of a program, in the
// format of the file name's extension.
func saveIntermediate(filesys uio.CreateFS, name string, prog *cpu.Program) (err error) {
	defer func() {
		if err != nil {
			err = &uio.ErrFile{Path: name, Err: err}
		}
	}()

	format, err := uio.FormatOf(name)
	if err != nil {
		return
	}

	ouf, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = prog.MarshalIntermediate(ouf, format)
	cerr := ouf.Close()
	if err == nil {
		err = cerr
	}

	return
}

func main() {
	var test bool
	var hex bool
	var intermediate string
	var strict bool
	var verbose bool
	var confdir string
	predefs := defines{}

	flag.BoolVar(&test, "t", false, "Print the intermediate listing")
	flag.BoolVar(&hex, "x", false, "Include encoded bytes in the listing")
	flag.StringVar(&intermediate, "i", "", "Intermediate file to write (.json, .yaml, .cbor)")
	flag.BoolVar(&strict, "strict", false, "Operand range warnings are errors")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&confdir, "C", ".", "Directory to search for "+config.FILE_NAME)
	flag.Var(predefs, "D", "Predefine an equate NAME=VALUE")

	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		log.Fatalf("usage: %v [flags] program.{json,yaml,cbor} [image.bin]", os.Args[0])
	}

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

	input := flag.Arg(0)
	format, err := uio.FormatOf(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	asm := &cpu.Assembler{
		Verbose: verbose || conf.Run.Verbose,
		Strict:  strict || conf.Assembler.Strict,
	}

	// Machine constants are visible to operand expressions.
	emu := emulator.NewEmulator(conf.Machine.MemorySize)
	emu.StepLimit = conf.Machine.StepLimit
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	for key, value := range conf.Assembler.Equates {
		asm.Predefine(key, fmt.Sprintf("%d", value))
	}
	for key, value := range predefs {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(inf, format)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	if test || hex {
		fmt.Print(prog.Listing(hex))
	}

	if len(intermediate) != 0 {
		dir, name := uio.Split(intermediate)
		err = saveIntermediate(dir, name, prog)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Print(translate.From("intermediate representation saved to %v", intermediate))
	}

	if flag.NArg() == 2 {
		output := flag.Arg(1)
		dir, name := uio.Split(output)
		image := &uio.Image{Data: prog.Binary()}
		err = uio.SaveImage(dir, name, image)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Print(translate.From("%v: %d bytes, %d instructions", output, len(image.Data), image.Instructions()))
	}
}
