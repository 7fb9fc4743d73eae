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

	"github.com/bits-and-blooms/bitset"

	"github.com/alignio/alignio/alphabet"
	"github.com/alignio/alignio/msa"
)

// A2M stores an alignment dotless: uppercase letters and '-' are
// consensus columns, lowercase letters are insertions relative to the
// consensus, and insert columns other sequences don't fill are simply
// absent. A sequence's aligned length is therefore unknown until
// every record has been read. The parser streams each sequence's raw
// residues with a consensus flag per residue (pass 1), accumulating
// for every consensus position the longest insertion run any sequence
// puts in front of it, then pads all sequences out to the common
// column count (pass 2).

func (f *File) setInmapA2M() {
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
		f.inmap['_'] = alphabet.Illegal
		f.inmap['*'] = alphabet.Illegal
		f.inmap['~'] = alphabet.Illegal
	}
	// '.', whitespace, and the 'O' free-insertion marker contribute
	// nothing to a sequence
	f.inmap[' '] = alphabet.Ignored
	f.inmap['\t'] = alphabet.Ignored
	f.inmap['.'] = alphabet.Ignored
	f.inmap['O'] = alphabet.Ignored
	f.inmap['o'] = alphabet.Ignored
}

type a2mParseData struct {
	flags    []*bitset.BitSet // per sequence: raw residue j is a consensus position
	nins     []int            // max insertion run before consensus column c, 0..ncons
	ncons    int              // consensus column count, -1 until the first sequence fixes it
	thisNins []int
	curIns   int
	idx      int
}

func (pd *a2mParseData) startSeq(idx int) {
	pd.idx = idx
	pd.flags = append(pd.flags, bitset.New(64))
	pd.thisNins = pd.thisNins[:0]
	pd.curIns = 0
}

func (pd *a2mParseData) finishSeq(f *File) error {
	pd.thisNins = append(pd.thisNins, pd.curIns)
	thisNcons := len(pd.thisNins) - 1
	if pd.ncons == -1 {
		pd.ncons = thisNcons
		pd.nins = make([]int, thisNcons+1)
	} else if thisNcons != pd.ncons {
		return f.parseError("unexpected number of consensus residues, didn't match previous sequence(s)")
	}
	for c, n := range pd.thisNins {
		if n > pd.nins[c] {
			pd.nins[c] = n
		}
	}
	return nil
}

func (pd *a2mParseData) addLine(f *File, m *msa.MSA, line []byte) error {
	raw := m.Seqs[pd.idx]
	flags := pd.flags[pd.idx]
	for _, c := range line {
		code := alphabet.Illegal
		if c < 128 {
			code = f.inmap[c]
		}
		switch code {
		case alphabet.Ignored:
			continue
		case alphabet.Illegal:
			return f.parseError("invalid character %q in sequence %s", c, m.Names[pd.idx])
		}
		if (c >= 'A' && c <= 'Z') || c == '-' {
			pd.thisNins = append(pd.thisNins, pd.curIns)
			pd.curIns = 0
			flags.Set(uint(len(raw)))
		} else {
			pd.curIns++
		}
		raw = append(raw, code)
	}
	m.Seqs[pd.idx] = raw
	return nil
}

// pad rebuilds every sequence's aligned form and synthesizes the
// reference track marking consensus vs. insert columns.
func (pd *a2mParseData) pad(f *File, m *msa.MSA) {
	alen := pd.ncons
	for _, n := range pd.nins {
		alen += n
	}
	insGap := f.gapByte('.')
	for i := range m.Seqs {
		raw := m.Seqs[i]
		flags := pd.flags[i]
		aligned := make([]byte, 0, alen)
		var insBuf []byte
		cpos := 0
		for j, c := range raw {
			if flags.Test(uint(j)) {
				aligned = append(aligned, insBuf...)
				for k := len(insBuf); k < pd.nins[cpos]; k++ {
					aligned = append(aligned, insGap)
				}
				insBuf = insBuf[:0]
				aligned = append(aligned, c)
				cpos++
			} else {
				insBuf = append(insBuf, c)
			}
		}
		aligned = append(aligned, insBuf...)
		for k := len(insBuf); k < pd.nins[pd.ncons]; k++ {
			aligned = append(aligned, insGap)
		}
		m.Seqs[i] = aligned
	}
	rf := make([]byte, 0, alen)
	for c := 0; c <= pd.ncons; c++ {
		for k := 0; k < pd.nins[c]; k++ {
			rf = append(rf, '.')
		}
		if c < pd.ncons {
			rf = append(rf, 'x')
		}
	}
	m.RF = rf
	m.Alen = alen
}

// readA2M parses an A2M file. The whole file is one record.
func (f *File) readA2M() (*msa.MSA, error) {
	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	pd := &a2mParseData{ncons: -1}
	started := false
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
			if started {
				if err := pd.finishSeq(f); err != nil {
					return nil, err
				}
			}
			name, desc := parseFastaHeader(t)
			if name == "" {
				return nil, f.parseError("no name found for A2M record")
			}
			idx := m.AddSequence(name)
			if desc != "" {
				m.SetDescriptionAt(idx, desc)
			}
			pd.startSeq(idx)
			started = true
			continue
		}
		if !started {
			return nil, f.parseError("expected A2M record to start with >")
		}
		if err := pd.addLine(f, m, t); err != nil {
			return nil, err
		}
	}
	if !started {
		return nil, io.EOF
	}
	if err := pd.finishSeq(f); err != nil {
		return nil, err
	}
	pd.pad(f, m)
	return m, nil
}

func parseFastaHeader(t []byte) (name, desc string) {
	var sc lineScanner
	sc.reset(bytes.TrimSpace(t[1:]))
	n, ok := sc.field()
	if !ok {
		return "", ""
	}
	return string(n), string(sc.rest())
}

func isGapChar(c byte) bool {
	return c == '-' || c == '.' || c == '_' || c == '~'
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// consensusColumns derives the consensus column mask a dotless writer
// needs: from the reference track when the alignment has one, else by
// treating the first sequence's residues as the consensus.
func consensusColumns(m *msa.MSA) []bool {
	cons := make([]bool, m.Alen)
	if m.RF != nil {
		for j, c := range m.RF {
			cons[j] = (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		}
	} else if m.Nseq() > 0 {
		text := seqText(m, m.Seqs[0])
		for j, c := range text {
			cons[j] = !isGapChar(c)
		}
	}
	return cons
}

func writeFastaHeader(w *bufio.Writer, m *msa.MSA, i int) {
	if i < len(m.Descriptions) && m.Descriptions[i] != "" {
		fmt.Fprintf(w, ">%s %s\n", m.Names[i], m.Descriptions[i])
	} else {
		fmt.Fprintf(w, ">%s\n", m.Names[i])
	}
}

// writeA2M serializes one record dotless: uppercase in consensus
// columns, '-' for consensus gaps, lowercase in insert columns,
// insert gaps omitted. 'O' residues are written as 'X'.
func writeA2M(w *bufio.Writer, m *msa.MSA) error {
	const cpl = 60
	cons := consensusColumns(m)
	for i := range m.Names {
		writeFastaHeader(w, m, i)
		text := seqText(m, m.Seqs[i])
		n := 0
		for col, c := range text {
			if cons[col] {
				if isGapChar(c) {
					c = '-'
				} else {
					c = toUpper(c)
					if c == 'O' {
						c = 'X'
					}
				}
			} else {
				if isGapChar(c) {
					continue
				}
				c = toLower(c)
				if c == 'o' {
					c = 'x'
				}
			}
			w.WriteByte(c)
			n++
			if n%cpl == 0 {
				w.WriteByte('\n')
			}
		}
		if n == 0 || n%cpl != 0 {
			w.WriteByte('\n')
		}
	}
	return nil
}
