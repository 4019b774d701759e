// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"
)

// Dump maps decimal addresses to memory cell values. It is both the memory
// initialization data and the memory snapshot format.
type Dump map[string]int64

// MakeDump builds a Dump from numeric addresses.
func MakeDump(cells map[int]int64) (dump Dump) {
	dump = make(Dump, len(cells))
	for addr, value := range cells {
		dump[strconv.Itoa(addr)] = value
	}

	return
}

// Addresses returns the dump keyed by numeric address.
func (dump Dump) Addresses() (cells map[int]int64, err error) {
	cells = make(map[int]int64, len(dump))
	for key, value := range dump {
		var addr int
		addr, err = strconv.Atoi(key)
		if err != nil {
			err = fmt.Errorf("%w: '%v'", ErrAddressKey, key)
			cells = nil
			return
		}
		cells[addr] = value
	}

	return
}

// Marshal writes the dump. An empty dump is written as an empty mapping.
func (dump Dump) Marshal(file io.Writer, format Format) (err error) {
	if dump == nil {
		dump = Dump{}
	}

	return Encode(file, format, map[string]int64(dump))
}

// Unmarshal reads a dump, replacing its content.
func (dump *Dump) Unmarshal(file io.Reader, format Format) (err error) {
	cells := map[string]int64{}
	err = Decode(file, format, &cells)
	if err != nil {
		return
	}

	*dump = Dump(cells)

	return
}

// LoadDump reads a dump file, in the format of its extension.
func LoadDump(filesys fs.FS, name string) (dump Dump, err error) {
	defer func() {
		if err != nil {
			err = &ErrFile{Path: name, Err: err}
		}
	}()

	format, err := FormatOf(name)
	if err != nil {
		return
	}

	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	err = dump.Unmarshal(inf, format)
	if err != nil {
		dump = nil
	}

	return
}

// SaveDump writes a dump file, in the format of its extension.
func SaveDump(filesys CreateFS, name string, dump Dump) (err error) {
	defer func() {
		if err != nil {
			err = &ErrFile{Path: name, Err: err}
		}
	}()

	format, err := FormatOf(name)
	if err != nil {
		return
	}

	ouf, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = dump.Marshal(ouf, format)
	cerr := ouf.Close()
	if err == nil {
		err = cerr
	}

	return
}

// CheckRange validates a dump address range. ErrDumpRange is fatal; ErrDumpLarge
// is only a warning.
func CheckRange(start, end int) (err error) {
	switch {
	case start >= end:
		err = ErrDumpRange
	case end-start > 10000:
		err = ErrDumpLarge
	}

	return
}
