// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"io"
	"io/fs"
)

// INSTRUCTION_SIZE is the size in bytes of one binary instruction.
const INSTRUCTION_SIZE = 3

// Image is a program image: raw 3-byte instructions, no header.
type Image struct {
	Data []byte
}

// Unmarshal loads image data from a reader, replacing any existing data.
// A length that is not a multiple of INSTRUCTION_SIZE is reported with
// ErrImageSize, but the data is still loaded.
func (image *Image) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	image.Data = data

	if len(data)%INSTRUCTION_SIZE != 0 {
		err = ErrImageSize
	}

	return
}

// Marshal writes the image data to a writer.
func (image *Image) Marshal(file io.Writer) (err error) {
	_, err = file.Write(image.Data)

	return
}

// Instructions returns the number of complete instructions in the image.
func (image *Image) Instructions() int {
	return len(image.Data) / INSTRUCTION_SIZE
}

// LoadImage reads a program image from a file system.
// A missing or unreadable file is returned as an *ErrFile; ErrImageSize is
// returned alongside a loaded image.
func LoadImage(filesys fs.FS, name string) (image *Image, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		err = &ErrFile{Path: name, Err: err}
		return
	}
	defer inf.Close()

	image = &Image{}
	err = image.Unmarshal(inf)
	if err != nil && err != ErrImageSize {
		image = nil
		err = &ErrFile{Path: name, Err: err}
	}

	return
}

// SaveImage writes a program image to a file system.
func SaveImage(filesys CreateFS, name string, image *Image) (err error) {
	ouf, err := filesys.Create(name)
	if err != nil {
		err = &ErrFile{Path: name, Err: err}
		return
	}

	err = image.Marshal(ouf)
	cerr := ouf.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		err = &ErrFile{Path: name, Err: err}
	}

	return
}
