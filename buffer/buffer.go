// alignio: a tool and library for reading and writing multiple sequence alignments.
// Copyright (c) 2021 the alignio authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License along with this program. If not, see
// <https://github.com/alignio/alignio/blob/master/LICENSE.txt>.

// Package buffer implements the byte source that alignment parsers
// read from: a line-oriented view of a file, stream, or in-memory
// slice with the ability to pin a read position, look ahead, and
// rewind. Regular files are memory mapped; standard input, readers,
// and gzip-compressed input are fully materialized, since an
// alignment record has to be materialized before it can be returned
// anyway.
package buffer

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// A Buffer is a seekable, line-oriented byte source.
type Buffer struct {
	name    string
	data    []byte
	pos     int
	pins    int
	file    *os.File
	mmapped bool
}

// An Anchor pins a read position in a Buffer. Until it is released,
// the Buffer can be rewound to the pinned position. Release is
// idempotent, so an Anchor can be released in a defer statement and
// the happy path can still release it early.
type Anchor struct {
	b        *Buffer
	off      int64
	released bool
}

// Rewind restores the Buffer to the position that was pinned.
func (a *Anchor) Rewind() {
	a.b.pos = int(a.off)
}

// Release drops the pin without moving the read position.
func (a *Anchor) Release() {
	if !a.released {
		a.released = true
		a.b.pins--
	}
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func inflate(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	inflated, err := ioutil.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return inflated, nil
}

// resolve finds name either directly or in one of the directories
// listed, colon separated, in the environment variable env.
func resolve(name, env string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	} else if env == "" || filepath.IsAbs(name) {
		return "", err
	}
	for _, dir := range filepath.SplitList(os.Getenv(env)) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("file %s not found, also not in any directory of $%s", name, env)
}

// Open opens a named byte source. The name "-" reads standard input.
// Gzip-compressed input is decompressed transparently, whether or not
// the name carries a .gz suffix. If env is nonempty and the name does
// not resolve directly, it names an environment variable holding a
// colon-separated directory search path to try.
func Open(name, env string) (*Buffer, error) {
	if name == "-" {
		data, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		if isGzip(data) {
			if data, err = inflate(data, "standard input"); err != nil {
				return nil, err
			}
		}
		return &Buffer{name: "", data: data}, nil
	}
	path, err := resolve(name, env)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &Buffer{name: name, data: nil, file: file}, nil
	}
	mem, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_FILE|unix.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if isGzip(mem) || strings.HasSuffix(name, ".gz") {
		data, err := inflate(mem, name)
		_ = unix.Munmap(mem)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		return &Buffer{name: name, data: data}, nil
	}
	return &Buffer{name: name, data: mem, file: file, mmapped: true}, nil
}

// NewBytes makes a Buffer reading from an in-memory slice. The name
// may be empty; it is only used in messages and for filename-based
// format guessing.
func NewBytes(data []byte, name string) *Buffer {
	return &Buffer{name: name, data: data}
}

// NewReader makes a Buffer by reading r to its end. Gzip-compressed
// content is decompressed transparently.
func NewReader(r io.Reader, name string) (*Buffer, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if isGzip(data) {
		if data, err = inflate(data, name); err != nil {
			return nil, err
		}
	}
	return &Buffer{name: name, data: data}, nil
}

// Name returns the name the Buffer was opened with, or "" for
// anonymous sources.
func (b *Buffer) Name() string {
	return b.name
}

// Line returns the next line, without its terminator, and advances
// past it. At end of input it returns io.EOF. The returned slice
// aliases the Buffer's contents and must not be modified.
func (b *Buffer) Line() ([]byte, error) {
	if b.pos >= len(b.data) {
		return nil, io.EOF
	}
	var line []byte
	if i := bytes.IndexByte(b.data[b.pos:], '\n'); i < 0 {
		line = b.data[b.pos:]
		b.pos = len(b.data)
	} else {
		line = b.data[b.pos : b.pos+i]
		b.pos += i + 1
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, nil
}

// Offset returns the current read position.
func (b *Buffer) Offset() int64 {
	return int64(b.pos)
}

// SetOffset moves the read position to a previously observed offset.
func (b *Buffer) SetOffset(off int64) error {
	if off < 0 || off > int64(len(b.data)) {
		return fmt.Errorf("offset %d out of range for %s", off, b.name)
	}
	b.pos = int(off)
	return nil
}

// Pin pins the current read position and returns the Anchor that can
// rewind to it.
func (b *Buffer) Pin() *Anchor {
	b.pins++
	return &Anchor{b: b, off: int64(b.pos)}
}

// Close releases the underlying file or mapping.
func (b *Buffer) Close() error {
	var err error
	if b.mmapped {
		err = unix.Munmap(b.data)
		b.mmapped = false
	}
	b.data = nil
	if b.file != nil {
		if cerr := b.file.Close(); err == nil {
			err = cerr
		}
		b.file = nil
	}
	return err
}
