package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// Erased is the value of a never written EEPROM cell.
	Erased = 0xFF
	// EEPROMSize matches the 512 byte part the image was laid out for.
	EEPROMSize = 512
)

// EEPROM is byte addressable persistent storage.
type EEPROM interface {
	io.ReaderAt
	io.WriterAt
}

// Memory is an EEPROM held in RAM. The zero value is not usable, use
// NewMemory.
type Memory struct {
	cells []byte
}

func NewMemory(size int) *Memory {
	m := &Memory{cells: make([]byte, size)}
	for i := range m.cells {
		m.cells[i] = Erased
	}
	return m
}

// Bytes returns a copy of the raw cells.
func (m *Memory) Bytes() []byte {
	return append([]byte(nil), m.cells...)
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.cells)) {
		return 0, io.EOF
	}
	n := copy(p, m.cells[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.cells)) {
		return 0, fmt.Errorf("eeprom write %d bytes at %d: out of range", len(p), off)
	}
	return copy(m.cells[off:], p), nil
}

// File is an EEPROM image kept in a regular file. A missing file reads as
// erased cells.
type File struct {
	Path string
	Size int
}

func NewFile(path string) *File {
	return &File{Path: path, Size: EEPROMSize}
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	fd, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		for i := range p {
			p[i] = Erased
		}
		return len(p), nil
	}
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	n, err := fd.ReadAt(p, off)
	if err == io.EOF {
		for i := n; i < len(p); i++ {
			p[i] = Erased
		}
		return len(p), nil
	}
	return n, err
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(f.Size) {
		return 0, fmt.Errorf("eeprom write %d bytes at %d: out of range", len(p), off)
	}
	if err := f.create(); err != nil {
		return 0, err
	}

	fd, err := os.OpenFile(f.Path, os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	n, err := fd.WriteAt(p, off)
	if err != nil {
		return n, err
	}
	return n, fd.Sync()
}

// create lays down an erased image if the file does not exist yet.
func (f *File) create() error {
	_, err := os.Stat(f.Path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	os.MkdirAll(filepath.Dir(f.Path), 0755)
	blank := make([]byte, f.Size)
	for i := range blank {
		blank[i] = Erased
	}
	return os.WriteFile(f.Path, blank, 0644)
}
