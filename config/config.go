// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config handles uvm.toml run configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FILE_NAME is the name of the configuration file.
const FILE_NAME = "uvm.toml"

// Config represents a uvm.toml configuration.
type Config struct {
	Machine   Machine   `toml:"machine"`
	Assembler Assembler `toml:"assembler"`
	Run       Run       `toml:"run"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Machine configures the interpreter.
type Machine struct {
	MemorySize int `toml:"memory_size"`
	StepLimit  int `toml:"step_limit"`
}

// Assembler configures the translation of program descriptions.
type Assembler struct {
	Strict  bool           `toml:"strict"`
	Equates map[string]int `toml:"equates"`
}

// Run configures the command line tools.
type Run struct {
	Verbose   bool   `toml:"verbose"`
	Language  string `toml:"language"`
	DumpStart int    `toml:"dump_start"`
	DumpEnd   int    `toml:"dump_end"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Machine: Machine{
			MemorySize: 65536,
			StepLimit:  1000000,
		},
		Run: Run{
			DumpStart: 0,
			DumpEnd:   1000,
		},
	}
}

// Parse decodes a configuration over the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, err
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("unknown key %v", undecoded[0].String())
	}

	if c.Machine.MemorySize <= 0 {
		return nil, fmt.Errorf("machine.memory_size must be positive, got %d", c.Machine.MemorySize)
	}
	if c.Machine.StepLimit <= 0 {
		return nil, fmt.Errorf("machine.step_limit must be positive, got %d", c.Machine.StepLimit)
	}

	return c, nil
}

// Load parses the uvm.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FILE_NAME)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path = path

	return c, nil
}

// FindAndLoad walks up from startDir to find a uvm.toml file, then loads
// and returns it. Returns nil if no configuration is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		_, err := os.Stat(filepath.Join(dir, FILE_NAME))
		if err == nil {
			return Load(dir)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
