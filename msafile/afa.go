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
	"io"

	"github.com/alignio/alignio/alphabet"
	"github.com/alignio/alignio/msa"
)

func (f *File) setInmapAFA() {
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
	}
	f.inmap[' '] = alphabet.Ignored
	f.inmap['\t'] = alphabet.Ignored
}

// readAFA parses an aligned FASTA file. The whole file is one record;
// the first sequence fixes the alignment length.
func (f *File) readAFA() (*msa.MSA, error) {
	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	idx := -1
	finish := func() error {
		if idx <= 0 {
			return nil
		}
		if len(m.Seqs[idx]) != len(m.Seqs[0]) {
			return f.parseError("sequence %s has %d columns, expected %d",
				m.Names[idx], len(m.Seqs[idx]), len(m.Seqs[0]))
		}
		return nil
	}
	for {
		line, err := f.nextLine()
		if err != nil {
			break
		}
		t := bytes.TrimSpace(line)
		if len(t) == 0 {
			continue
		}
		if t[0] == '>' {
			if err := finish(); err != nil {
				return nil, err
			}
			name, desc := parseFastaHeader(t)
			if name == "" {
				return nil, f.parseError("no name found for FASTA record")
			}
			idx = m.AddSequence(name)
			if desc != "" {
				m.SetDescriptionAt(idx, desc)
			}
			continue
		}
		if idx < 0 {
			return nil, f.parseError("expected FASTA record to start with >")
		}
		seq, bad, ok := f.appendSeq(m.Seqs[idx], t)
		if !ok {
			return nil, f.parseError("invalid character %q in sequence %s", bad, m.Names[idx])
		}
		m.Seqs[idx] = seq
	}
	if idx < 0 {
		return nil, io.EOF
	}
	if err := finish(); err != nil {
		return nil, err
	}
	m.Alen = len(m.Seqs[0])
	return m, nil
}

// writeAFA serializes one record in aligned FASTA format, 60 residues
// per line.
func writeAFA(w *bufio.Writer, m *msa.MSA) error {
	const cpl = 60
	for i := range m.Names {
		writeFastaHeader(w, m, i)
		text := seqText(m, m.Seqs[i])
		for pos := 0; pos < len(text); pos += cpl {
			end := pos + cpl
			if end > len(text) {
				end = len(text)
			}
			w.Write(text[pos:end])
			w.WriteByte('\n')
		}
		if len(text) == 0 {
			w.WriteByte('\n')
		}
	}
	return nil
}
