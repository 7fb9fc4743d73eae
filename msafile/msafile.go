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

// Package msafile reads and writes multiple sequence alignment files
// in Stockholm/Pfam, SELEX, A2M, aligned FASTA, Clustal, PHYLIP, and
// PSI-BLAST formats, with automatic detection of both the file format
// and the biological alphabet.
package msafile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/alignio/alignio/alphabet"
	"github.com/alignio/alignio/buffer"
	"github.com/alignio/alignio/msa"
)

// Options configure how an alignment file is opened.
type Options struct {
	// Alphabet, when non-nil, reads sequences digitally over this
	// alphabet.
	Alphabet *alphabet.Alphabet

	// DetectAlphabet, when set and Alphabet is nil, samples residue
	// composition to pick an alphabet and then reads digitally.
	// When neither is set, sequences are read as text.
	DetectAlphabet bool

	// Env optionally names an environment variable holding a
	// colon-separated directory search path for locating the input.
	Env string
}

// A File is an open alignment input handle. It is not safe for
// concurrent use.
type File struct {
	bf      *buffer.Buffer
	format  Format
	abc     *alphabet.Alphabet
	inmap   [128]byte
	lineNum int64
	line    []byte
}

// Open opens a named alignment file. The name "-" reads standard
// input, and gzip-compressed input is decompressed transparently. If
// format is Unknown the format is guessed; see Options for alphabet
// handling.
func Open(name string, format Format, opts Options) (*File, error) {
	bf, err := buffer.Open(name, opts.Env)
	if err != nil {
		return nil, err
	}
	f, err := newFile(bf, format, opts)
	if err != nil {
		_ = bf.Close()
		return nil, err
	}
	return f, nil
}

// OpenBytes opens an in-memory alignment. The name may be empty; it
// participates in suffix-based format guessing and error messages.
func OpenBytes(data []byte, name string, format Format, opts Options) (*File, error) {
	return newFile(buffer.NewBytes(data, name), format, opts)
}

// OpenReader opens an alignment read from r.
func OpenReader(r io.Reader, name string, format Format, opts Options) (*File, error) {
	bf, err := buffer.NewReader(r, name)
	if err != nil {
		return nil, err
	}
	f, err := newFile(bf, format, opts)
	if err != nil {
		_ = bf.Close()
		return nil, err
	}
	return f, nil
}

func newFile(bf *buffer.Buffer, format Format, opts Options) (*File, error) {
	f := &File{bf: bf, format: format}
	if f.format == Unknown {
		guess, err := f.guessFormat()
		if err != nil {
			return nil, err
		}
		f.format = guess
	}
	switch {
	case opts.Alphabet != nil:
		f.abc = opts.Alphabet
	case opts.DetectAlphabet:
		t, err := f.guessAlphabet()
		if err != nil {
			return nil, err
		}
		f.abc = alphabet.New(t)
	}
	f.setInmap()
	return f, nil
}

// Format returns the format the file is being read as.
func (f *File) Format() Format {
	return f.format
}

// Alphabet returns the alphabet sequences are digitized over, or nil
// when reading text.
func (f *File) Alphabet() *alphabet.Alphabet {
	return f.abc
}

// Read returns the next alignment record. It returns io.EOF when the
// input is exhausted, and a *ParseError when the input is structurally
// invalid.
func (f *File) Read() (*msa.MSA, error) {
	switch f.format {
	case Stockholm, Pfam:
		return f.readStockholm()
	case A2M:
		return f.readA2M()
	case SELEX:
		return f.readSELEX()
	case AFA:
		return f.readAFA()
	case Clustal, ClustalLike:
		return f.readClustal()
	case PhylipInterleaved, PhylipSequential:
		return f.readPhylip()
	case PSIBlast:
		return f.readPSIBlast()
	default:
		return nil, fmt.Errorf("can't read alignments in %v format", f.format)
	}
}

// Close releases the underlying byte source.
func (f *File) Close() error {
	return f.bf.Close()
}

// Write serializes an alignment to w in the given format.
func Write(w io.Writer, m *msa.MSA, format Format) error {
	out := bufio.NewWriter(w)
	var err error
	switch format {
	case Stockholm:
		err = writeStockholm(out, m, 200)
	case Pfam:
		err = writeStockholm(out, m, -1)
	case A2M:
		err = writeA2M(out, m)
	case SELEX:
		err = writeSELEX(out, m)
	case AFA:
		err = writeAFA(out, m)
	case Clustal, ClustalLike:
		err = writeClustal(out, m, format)
	case PhylipInterleaved, PhylipSequential:
		err = writePhylip(out, m, format)
	case PSIBlast:
		err = writePSIBlast(out, m)
	default:
		err = fmt.Errorf("can't write alignments in %v format", format)
	}
	if err != nil {
		return err
	}
	return out.Flush()
}

// nextLine advances to the next input line.
func (f *File) nextLine() ([]byte, error) {
	line, err := f.bf.Line()
	if err != nil {
		return nil, err
	}
	f.lineNum++
	f.line = line
	return line, nil
}

// A pin marks the current read position so that lookahead can be
// rolled back. Parsers and detectors release their pins on all paths,
// rewinding first when the lookahead must stay unconsumed.
type pin struct {
	f       *File
	anchor  *buffer.Anchor
	lineNum int64
}

func (f *File) pin() *pin {
	return &pin{f: f, anchor: f.bf.Pin(), lineNum: f.lineNum}
}

func (p *pin) rewind() {
	p.anchor.Rewind()
	p.f.lineNum = p.lineNum
}

func (p *pin) release() {
	p.anchor.Release()
}

// setInmap builds the byte-to-code table for the current format and
// alphabet mode.
func (f *File) setInmap() {
	if f.abc != nil {
		f.inmap = f.abc.Inmap
	} else {
		for i := range f.inmap {
			f.inmap[i] = alphabet.Illegal
		}
		for c := '!'; c <= '~'; c++ {
			f.inmap[c] = byte(c)
		}
	}
	switch f.format {
	case A2M:
		f.setInmapA2M()
	case SELEX:
		f.setInmapSELEX()
	case AFA:
		f.setInmapAFA()
	case Clustal, ClustalLike:
		f.setInmapClustal()
	case PhylipInterleaved, PhylipSequential:
		f.setInmapPhylip()
	case PSIBlast:
		f.setInmapPSIBlast()
	}
}

// appendSeq maps the bytes of one data line through the input map and
// appends the result to dst. It reports the offending byte when the
// line contains a character the format does not allow.
func (f *File) appendSeq(dst, text []byte) ([]byte, byte, bool) {
	for _, c := range text {
		code := alphabet.Illegal
		if c < 128 {
			code = f.inmap[c]
		}
		switch code {
		case alphabet.Ignored:
		case alphabet.Illegal:
			return dst, c, false
		default:
			dst = append(dst, code)
		}
	}
	return dst, 0, true
}

// gapByte returns the byte a parser appends for a gap it introduces
// itself: the format's text glyph in text mode, the alphabet's gap
// code in digital mode.
func (f *File) gapByte(textGap byte) byte {
	if f.abc != nil {
		return f.abc.Gap()
	}
	return textGap
}
