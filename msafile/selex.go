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

	"github.com/alignio/alignio/msa"
)

// SELEX is the one format that allows a literal space as a gap, and
// its input lines may be visually ragged: a line's data can start and
// end at any column. The parser therefore reasons about the set of
// lines in one block together. Each line's first and last data
// columns are recorded; the block's width is the span from the
// leftmost to the rightmost data column over all its lines, and each
// line is gap-filled on both sides to that span.

func (f *File) setInmapSELEX() {
	if f.abc != nil {
		f.inmap[' '] = f.abc.Gap()
	} else {
		// spaces never survive into the parsed alignment
		f.inmap[' '] = '.'
	}
}

type selexLine struct {
	kind    byte   // 'S' sequence, 'R' #=RF, 'C' #=CS, 'T' #=SS, 'A' #=SA
	name    string // sequence name, for 'S' lines
	raw     []byte
	lpos    int // column of the first data character
	rpos    int // column of the last data character
	lineNum int64
}

func (f *File) classifySELEXLine(raw []byte) (selexLine, error) {
	var sc lineScanner
	sc.reset(raw)
	tok, _, _ := sc.fieldAt()
	ln := selexLine{raw: raw, lineNum: f.lineNum}
	switch string(tok) {
	case "#=RF":
		ln.kind = 'R'
	case "#=CS":
		ln.kind = 'C'
	case "#=SS":
		ln.kind = 'T'
	case "#=SA":
		ln.kind = 'A'
	default:
		if bytes.HasPrefix(tok, []byte("#=")) {
			return ln, f.parseError("unknown annotation %s in SELEX file", string(tok))
		}
		ln.kind = 'S'
		ln.name = string(tok)
	}
	lpos := sc.index
	for lpos < len(raw) && isSpace(raw[lpos]) {
		lpos++
	}
	rpos := len(raw) - 1
	for rpos >= lpos && isSpace(raw[rpos]) {
		rpos--
	}
	if rpos < lpos {
		return ln, f.parseError("no alignment data found on line")
	}
	ln.lpos, ln.rpos = lpos, rpos
	return ln, nil
}

// readSELEXBlock collects the lines of one block: data lines up to
// the next blank line or end of input, skipping comments, which are
// '#' lines that are not '#=' markers.
func (f *File) readSELEXBlock() ([]selexLine, error) {
	var lines []selexLine
	for {
		raw, err := f.nextLine()
		if err != nil {
			if len(lines) == 0 {
				return nil, io.EOF
			}
			return lines, nil
		}
		t := bytes.TrimSpace(raw)
		if len(t) == 0 {
			if len(lines) == 0 {
				continue
			}
			return lines, nil
		}
		if t[0] == '#' && !bytes.HasPrefix(t, []byte("#=")) {
			continue
		}
		ln, err := f.classifySELEXLine(raw)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
}

// firstSELEXBlock fixes line order, identity, and row assignment for
// the whole record, and returns each line's sequence row (-1 for the
// per-column annotation lines).
func (f *File) firstSELEXBlock(m *msa.MSA, block []selexLine) ([]int, error) {
	rows := make([]int, len(block))
	lastSeqRow := -1
	seenRF, seenCS := false, false
	ssDone, saDone := true, true
	for i, ln := range block {
		switch ln.kind {
		case 'R':
			if seenRF {
				return nil, f.parseErrorAt(ln.lineNum, "too many #=RF lines for block")
			}
			seenRF = true
			rows[i] = -1
		case 'C':
			if seenCS {
				return nil, f.parseErrorAt(ln.lineNum, "too many #=CS lines for block")
			}
			seenCS = true
			rows[i] = -1
		case 'T':
			if lastSeqRow < 0 || ssDone {
				return nil, f.parseErrorAt(ln.lineNum, "#=SS line must follow a sequence line")
			}
			ssDone = true
			rows[i] = lastSeqRow
		case 'A':
			if lastSeqRow < 0 || saDone {
				return nil, f.parseErrorAt(ln.lineNum, "#=SA line must follow a sequence line")
			}
			saDone = true
			rows[i] = lastSeqRow
		default:
			if _, dup := m.SeqIndex(ln.name); dup {
				return nil, f.parseErrorAt(ln.lineNum, "sequence %s appears twice in one block", ln.name)
			}
			lastSeqRow = m.AddSequence(ln.name)
			rows[i] = lastSeqRow
			ssDone, saDone = false, false
		}
	}
	return rows, nil
}

// checkSELEXBlock validates a later block against the first block's
// template.
func (f *File) checkSELEXBlock(template, block []selexLine) error {
	for i, ln := range block {
		if i >= len(template) {
			return f.parseErrorAt(ln.lineNum, "too many lines in block, expected %d", len(template))
		}
		want := template[i]
		if ln.kind != want.kind || (ln.kind == 'S' && ln.name != want.name) {
			if ln.kind == 'S' {
				return f.parseErrorAt(ln.lineNum, "sequence line isn't in expected order in block")
			}
			return f.parseErrorAt(ln.lineNum, "annotation line isn't in expected order in block")
		}
	}
	if len(block) != len(template) {
		return f.parseError("expected %d lines in block, found %d", len(template), len(block))
	}
	return nil
}

// appendSELEXBlock reconstructs the rectangular columns one block
// contributes and appends them to the alignment.
func (f *File) appendSELEXBlock(m *msa.MSA, block []selexLine, rows []int) (int, error) {
	leftmost, rightmost := block[0].lpos, block[0].rpos
	for _, ln := range block[1:] {
		if ln.lpos < leftmost {
			leftmost = ln.lpos
		}
		if ln.rpos > rightmost {
			rightmost = ln.rpos
		}
	}
	width := rightmost - leftmost + 1
	for i, ln := range block {
		data := ln.raw[ln.lpos : ln.rpos+1]
		leftPad := ln.lpos - leftmost
		rightPad := rightmost - ln.rpos
		if ln.kind == 'S' {
			gap := f.gapByte('.')
			seg := make([]byte, 0, width)
			for j := 0; j < leftPad; j++ {
				seg = append(seg, gap)
			}
			seg, bad, ok := f.appendSeq(seg, data)
			if !ok {
				return 0, f.parseErrorAt(ln.lineNum, "illegal residue %q in sequence line", bad)
			}
			for j := 0; j < rightPad; j++ {
				seg = append(seg, gap)
			}
			m.Seqs[rows[i]] = append(m.Seqs[rows[i]], seg...)
			continue
		}
		seg := make([]byte, 0, width)
		for j := 0; j < leftPad; j++ {
			seg = append(seg, '.')
		}
		for _, c := range data {
			if isSpace(c) {
				c = '.'
			}
			seg = append(seg, c)
		}
		for j := 0; j < rightPad; j++ {
			seg = append(seg, '.')
		}
		switch ln.kind {
		case 'R':
			m.RF = append(m.RF, seg...)
		case 'C':
			m.SSCons = append(m.SSCons, seg...)
		case 'T':
			m.AppendSS(rows[i], seg)
		case 'A':
			m.AppendSA(rows[i], seg)
		}
	}
	return width, nil
}

// readSELEX parses a SELEX file. The record has no terminator; it
// ends at end of input, so a SELEX file holds exactly one record.
func (f *File) readSELEX() (*msa.MSA, error) {
	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	var template []selexLine
	var rows []int
	alen := 0
	for {
		block, err := f.readSELEXBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if template == nil {
			if rows, err = f.firstSELEXBlock(m, block); err != nil {
				return nil, err
			}
			template = block
		} else if err = f.checkSELEXBlock(template, block); err != nil {
			return nil, err
		}
		width, err := f.appendSELEXBlock(m, block, rows)
		if err != nil {
			return nil, err
		}
		alen += width
	}
	if template == nil {
		return nil, io.EOF
	}
	m.Alen = alen
	return m, nil
}

// writeSELEX serializes one record in SELEX format.
func writeSELEX(w *bufio.Writer, m *msa.MSA) error {
	const cpl = 60
	margin := len("#=RF")
	for _, name := range m.Names {
		if len(name) > margin {
			margin = len(name)
		}
	}
	for pos := 0; pos < m.Alen; pos += cpl {
		end := pos + cpl
		if end > m.Alen {
			end = m.Alen
		}
		if pos > 0 {
			fmt.Fprintln(w)
		}
		if m.RF != nil {
			fmt.Fprintf(w, "%-*s %s\n", margin, "#=RF", m.RF[pos:end])
		}
		if m.SSCons != nil {
			fmt.Fprintf(w, "%-*s %s\n", margin, "#=CS", m.SSCons[pos:end])
		}
		for i, name := range m.Names {
			fmt.Fprintf(w, "%-*s %s\n", margin, name, seqText(m, m.Seqs[i][pos:end]))
			if i < len(m.SS) && m.SS[i] != nil {
				fmt.Fprintf(w, "%-*s %s\n", margin, "#=SS", m.SS[i][pos:end])
			}
			if i < len(m.SA) && m.SA[i] != nil {
				fmt.Fprintf(w, "%-*s %s\n", margin, "#=SA", m.SA[i][pos:end])
			}
		}
	}
	return nil
}
