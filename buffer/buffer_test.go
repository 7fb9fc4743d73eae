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

package buffer

import (
	"bytes"
	"compress/gzip"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestLines(t *testing.T) {
	b := NewBytes([]byte("one\r\ntwo\nthree"), "")
	for _, want := range []string{"one", "two", "three"} {
		line, err := b.Line()
		if err != nil || string(line) != want {
			t.Error("Line " + want + " failed")
		}
	}
	if _, err := b.Line(); err != io.EOF {
		t.Error("Line EOF failed")
	}
}

func TestPinRewind(t *testing.T) {
	b := NewBytes([]byte("one\ntwo\nthree\n"), "")
	if line, _ := b.Line(); string(line) != "one" {
		t.Error("PinRewind first line failed")
	}
	a := b.Pin()
	b.Line()
	b.Line()
	a.Rewind()
	a.Release()
	a.Release() // Release is idempotent
	if line, _ := b.Line(); string(line) != "two" {
		t.Error("PinRewind rewind failed")
	}
}

func TestOpenFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "buffer-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	name := filepath.Join(dir, "test.txt")
	if err := ioutil.WriteFile(name, []byte("hello\nworld\n"), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(name, "")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != name {
		t.Error("Open name failed")
	}
	if line, _ := b.Line(); string(line) != "hello" {
		t.Error("Open mmap read failed")
	}
	if err := b.Close(); err != nil {
		t.Error("Open close failed")
	}

	// search path via environment variable
	os.Setenv("BUFFER_TEST_PATH", "/nonexistent:"+dir)
	defer os.Unsetenv("BUFFER_TEST_PATH")
	b2, err := Open("test.txt", "BUFFER_TEST_PATH")
	if err != nil {
		t.Fatal(err)
	}
	if line, _ := b2.Line(); string(line) != "hello" {
		t.Error("Open search path failed")
	}
	b2.Close()

	if _, err := Open("nonesuch.txt", "BUFFER_TEST_PATH"); err == nil {
		t.Error("Open missing file check failed")
	}
}

func TestGzip(t *testing.T) {
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	gz.Write([]byte("hello\nworld\n"))
	gz.Close()

	b, err := NewReader(bytes.NewReader(compressed.Bytes()), "test.txt.gz")
	if err != nil {
		t.Fatal(err)
	}
	if line, _ := b.Line(); string(line) != "hello" {
		t.Error("Gzip reader inflate failed")
	}
	b.Close()

	dir, err := ioutil.TempDir("", "buffer-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	name := filepath.Join(dir, "test.txt.gz")
	if err := ioutil.WriteFile(name, compressed.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	b2, err := Open(name, "")
	if err != nil {
		t.Fatal(err)
	}
	if line, _ := b2.Line(); string(line) != "hello" {
		t.Error("Gzip file inflate failed")
	}
	if line, _ := b2.Line(); string(line) != "world" {
		t.Error("Gzip file second line failed")
	}
	b2.Close()
}
