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

	"github.com/alignio/alignio/alphabet"
	"github.com/alignio/alignio/msa"
)

// PSI-BLAST format is the simplest of the interleaved block formats:
// every data line is "name  alignedtext", blocks are separated by
// blank lines, there is no annotation of any kind, and '-' is the only
// gap character. Uppercase residues sit in consensus columns and
// lowercase residues in insert columns, but the case carries no
// information the parser needs to keep.

func (f *File) setInmapPSIBlast() {
	if f.abc == nil {
		for i := range f.inmap {
			f.inmap[i] = alphabet.Illegal
		}
		for c := 'A'; c <= 'Z'; c++ {
			f.inmap[c] = byte(c)
			f.inmap[c+'a'-'A'] = byte(c + 'a' - 'A')
		}
		f.inmap['-'] = '-'
	} else {
		f.inmap['.'] = alphabet.Illegal
		f.inmap['_'] = alphabet.Illegal
		f.inmap['~'] = alphabet.Illegal
		f.inmap['*'] = alphabet.Illegal
	}
}

// readPSIBlast parses a PSI-BLAST file. The record has no terminator;
// it ends at end of input, so a PSI-BLAST file holds exactly one
// record.
func (f *File) readPSIBlast() (*msa.MSA, error) {
	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	var sc lineScanner
	nblocks := 0
	alen := 0
	idx := 0
	blockAdd := -1
	endBlock := func() error {
		if idx == 0 {
			return nil
		}
		if idx != m.Nseq() {
			return f.parseError("block doesn't contain same # of seqs as earlier blocks")
		}
		alen += blockAdd
		nblocks++
		idx = 0
		blockAdd = -1
		return nil
	}
	for {
		line, err := f.nextLine()
		if err != nil {
			break
		}
		t := bytes.TrimSpace(line)
		if len(t) == 0 {
			if err := endBlock(); err != nil {
				return nil, err
			}
			continue
		}
		sc.reset(t)
		name, _ := sc.field()
		seq, okSeq := sc.field()
		if _, extra := sc.field(); !okSeq || extra {
			return nil, f.parseError("expected two fields (name, alignment) on line")
		}
		if nblocks == 0 {
			if _, dup := m.SeqIndex(string(name)); dup {
				return nil, f.parseError("sequence %s appears twice in one block", string(name))
			}
			m.AddSequence(string(name))
		} else {
			if idx >= m.Nseq() {
				return nil, f.parseError("too many lines in block, expected %d", m.Nseq())
			}
			if string(name) != m.Names[idx] {
				return nil, f.parseError("expected sequence %s on this line, but saw %s",
					m.Names[idx], string(name))
			}
		}
		before := len(m.Seqs[idx])
		s, bad, ok := f.appendSeq(m.Seqs[idx], seq)
		if !ok {
			return nil, f.parseError("invalid character %q in sequence %s", bad, m.Names[idx])
		}
		m.Seqs[idx] = s
		add := len(s) - before
		switch {
		case blockAdd == -1:
			blockAdd = add
		case add != blockAdd:
			return nil, f.parseError("unexpected number of residues on line")
		}
		idx++
	}
	if err := endBlock(); err != nil {
		return nil, err
	}
	if nblocks == 0 {
		return nil, io.EOF
	}
	m.Alen = alen
	return m, nil
}

// writePSIBlast serializes one record in PSI-BLAST format, in blocks
// of 60 residues: uppercase in consensus columns, lowercase in insert
// columns, and '-' for every gap or missing position.
func writePSIBlast(w *bufio.Writer, m *msa.MSA) error {
	const cpl = 60
	margin := 0
	for _, name := range m.Names {
		if len(name) > margin {
			margin = len(name)
		}
	}
	cons := consensusColumns(m)
	for pos := 0; pos < m.Alen; pos += cpl {
		end := pos + cpl
		if end > m.Alen {
			end = m.Alen
		}
		for i, name := range m.Names {
			text := seqText(m, m.Seqs[i][pos:end])
			buf := make([]byte, len(text))
			for j, c := range text {
				isResidue := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
				switch {
				case !isResidue:
					buf[j] = '-'
				case cons[pos+j]:
					buf[j] = toUpper(c)
				default:
					buf[j] = toLower(c)
				}
			}
			fmt.Fprintf(w, "%-*s  %s\n", margin, name, buf)
		}
		if end < m.Alen {
			w.WriteByte('\n')
		}
	}
	return nil
}
