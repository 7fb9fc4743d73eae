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

package msafile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alignio/alignio/alphabet"
	"github.com/alignio/alignio/msa"
)

// PHYLIP files start with a "<nseq> <alen>" header line. The name
// field of a data line is exactly phylipNameWidth characters, blank
// padded, and may itself contain spaces; sequence data follows from
// the next column. In the interleaved layout all sequences take turns
// block by block and only the first block carries names; in the
// sequential layout each sequence runs to completion, its name on its
// first line only. Data lines may interleave position numbers and
// spacing into the sequence, so digits and whitespace are ignored.
const phylipNameWidth = 10

func (f *File) setInmapPhylip() {
	if f.abc == nil {
		for i := range f.inmap {
			f.inmap[i] = alphabet.Illegal
		}
		for c := 'A'; c <= 'Z'; c++ {
			f.inmap[c] = byte(c)
			f.inmap[c+'a'-'A'] = byte(c + 'a' - 'A')
		}
		for _, c := range []byte{'-', '.', '_', '~', '*'} {
			f.inmap[c] = c
		}
		f.inmap['?'] = '~'
	} else {
		f.inmap['?'] = f.abc.Missing()
	}
	f.inmap[' '] = alphabet.Ignored
	f.inmap['\t'] = alphabet.Ignored
	for c := '0'; c <= '9'; c++ {
		f.inmap[c] = alphabet.Ignored
	}
}

func (f *File) nextPhylipLine() ([]byte, error) {
	for {
		line, err := f.nextLine()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(line)) > 0 {
			return line, nil
		}
	}
}

// phylipName splits a data line into its blank padded name field and
// the sequence data that follows it.
func (f *File) phylipName(m *msa.MSA, line []byte) ([]byte, error) {
	if len(line) < phylipNameWidth {
		return nil, f.parseError("PHYLIP sequence line is too short for the name field")
	}
	name := strings.TrimSpace(string(line[:phylipNameWidth]))
	if name == "" {
		return nil, f.parseError("missing sequence name")
	}
	m.AddSequence(name)
	return line[phylipNameWidth:], nil
}

func (f *File) appendPhylip(m *msa.MSA, idx int, data []byte) (int, error) {
	before := len(m.Seqs[idx])
	seq, bad, ok := f.appendSeq(m.Seqs[idx], data)
	if !ok {
		return 0, f.parseError("invalid character %q in sequence %s", bad, m.Names[idx])
	}
	m.Seqs[idx] = seq
	return len(seq) - before, nil
}

func (f *File) readPhylipInterleaved(m *msa.MSA, nseq, alen int) (*msa.MSA, error) {
	for block := 0; len(m.Seqs) == 0 || len(m.Seqs[0]) < alen; block++ {
		blockAdd := -1
		for i := 0; i < nseq; i++ {
			line, err := f.nextPhylipLine()
			if err != nil {
				return nil, f.parseError("unexpected end of file in PHYLIP alignment")
			}
			data := line
			if block == 0 {
				if data, err = f.phylipName(m, line); err != nil {
					return nil, err
				}
			}
			add, err := f.appendPhylip(m, i, data)
			if err != nil {
				return nil, err
			}
			switch {
			case blockAdd == -1:
				blockAdd = add
			case add != blockAdd:
				return nil, f.parseError("unexpected number of residues on line")
			}
		}
		if blockAdd == 0 {
			return nil, f.parseError("no residues found in alignment block")
		}
	}
	return m, nil
}

func (f *File) readPhylipSequential(m *msa.MSA, nseq, alen int) (*msa.MSA, error) {
	for i := 0; i < nseq; i++ {
		line, err := f.nextPhylipLine()
		if err != nil {
			return nil, f.parseError("unexpected end of file in PHYLIP alignment")
		}
		data, err := f.phylipName(m, line)
		if err != nil {
			return nil, err
		}
		if _, err = f.appendPhylip(m, i, data); err != nil {
			return nil, err
		}
		for len(m.Seqs[i]) < alen {
			if line, err = f.nextPhylipLine(); err != nil {
				return nil, f.parseError("unexpected end of file in PHYLIP alignment")
			}
			if _, err = f.appendPhylip(m, i, line); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// readPhylip parses a PHYLIP file in either layout. The record ends at
// end of input, so a PHYLIP file holds exactly one record.
func (f *File) readPhylip() (*msa.MSA, error) {
	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	var nseq, alen int
	for {
		line, err := f.nextLine()
		if err != nil {
			return nil, io.EOF
		}
		t := bytes.TrimSpace(line)
		if len(t) == 0 {
			continue
		}
		var ok bool
		if nseq, alen, ok = parsePhylipHeader(t); !ok {
			return nil, f.parseError("missing PHYLIP header line with sequence and column counts")
		}
		break
	}
	var err error
	if f.format == PhylipSequential {
		m, err = f.readPhylipSequential(m, nseq, alen)
	} else {
		m, err = f.readPhylipInterleaved(m, nseq, alen)
	}
	if err != nil {
		return nil, err
	}
	if m.Nseq() != nseq {
		return nil, f.parseError("expected %d sequences, found %d", nseq, m.Nseq())
	}
	for i := range m.Seqs {
		if len(m.Seqs[i]) != alen {
			return nil, f.parseError("sequence %s has %d columns, expected %d",
				m.Names[i], len(m.Seqs[i]), alen)
		}
	}
	m.Alen = alen
	return m, nil
}

// phylipWriteName emits the blank padded name field, truncating names
// that overflow it.
func phylipWriteName(w *bufio.Writer, name string) {
	if len(name) > phylipNameWidth {
		name = name[:phylipNameWidth]
	}
	fmt.Fprintf(w, "%-*s", phylipNameWidth, name)
}

// writePhylip serializes one record in PHYLIP format, in blocks of 60
// residues. Missing data is written as '?'.
func writePhylip(w *bufio.Writer, m *msa.MSA, format Format) error {
	const cpl = 60
	fmt.Fprintf(w, "%d %d\n", m.Nseq(), m.Alen)
	chunk := func(i, pos int) []byte {
		end := pos + cpl
		if end > m.Alen {
			end = m.Alen
		}
		text := seqText(m, m.Seqs[i][pos:end])
		out := make([]byte, len(text))
		for j, c := range text {
			if c == '~' {
				c = '?'
			}
			out[j] = c
		}
		return out
	}
	if format == PhylipSequential {
		for i, name := range m.Names {
			for pos := 0; pos < m.Alen; pos += cpl {
				if pos == 0 {
					phylipWriteName(w, name)
				} else {
					fmt.Fprintf(w, "%-*s", phylipNameWidth, "")
				}
				w.Write(chunk(i, pos))
				w.WriteByte('\n')
			}
		}
		return nil
	}
	for pos := 0; pos < m.Alen; pos += cpl {
		if pos > 0 {
			fmt.Fprintln(w)
		}
		for i, name := range m.Names {
			if pos == 0 {
				phylipWriteName(w, name)
			} else {
				fmt.Fprintf(w, "%-*s", phylipNameWidth, "")
			}
			w.Write(chunk(i, pos))
			w.WriteByte('\n')
		}
	}
	return nil
}
