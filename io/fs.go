package io

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files and directories.
// It extends basic file system operations with write capabilities for the
// image, intermediate and dump outputs.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

// Open implements fs.FS, so a DirFS can be read back.
func (dir DirFS) Open(name string) (fs.File, error) {
	return os.DirFS(string(dir)).Open(name)
}

// Sub returns the DirFS of an existing subdirectory.
func (dir DirFS) Sub(name string) (sub CreateFS, err error) {
	path := filepath.Join(string(dir), filepath.FromSlash(name))
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = &fs.PathError{Op: "sub", Path: path, Err: fs.ErrInvalid}
		return
	}

	sub = DirFS(path)

	return
}

// Create creates or truncates a file.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
}

// Mkdir creates a directory.
func (dir DirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.Mkdir(filepath.Join(string(dir), filepath.FromSlash(name)), filemode)
}

// Split returns the CreateFS of a host path's directory, and the file name
// within it.
func Split(path string) (dir DirFS, name string) {
	return DirFS(filepath.Dir(path)), filepath.Base(path)
}
