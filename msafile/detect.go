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
	"bytes"
	"strconv"
)

// guessFormat determines the file format from the filename suffix,
// the first non-blank line, and, for the ambiguous cases, deeper
// structural probes. It never moves the observable read position.
//
// When the suffix and the first line disagree, the suffix wins unless
// the first line is format defining on its own: a Stockholm header or
// a banner containing "multiple sequence alignment" identifies the
// format no matter what the file is called. A bare CLUSTAL prefix or
// a leading '>' only decides when the suffix is absent or names the
// same family; within the '>' and PHYLIP families, content probes
// refine the variant.
func (f *File) guessFormat() (Format, error) {
	sufGuess := FormatFromSuffix(f.bf.Name())
	p := f.pin()
	defer func() {
		p.rewind()
		p.release()
	}()

	var line []byte
	for {
		l, err := f.nextLine()
		if err != nil {
			if sufGuess != Unknown {
				return sufGuess, nil
			}
			return Unknown, ErrNoFormat
		}
		if t := bytes.TrimSpace(l); len(t) > 0 {
			line = t
			break
		}
	}

	switch {
	case bytes.HasPrefix(line, []byte("# STOCKHOLM")):
		if sufGuess == Pfam {
			return Pfam, nil
		}
		return Stockholm, nil
	case bytes.Contains(line, []byte("multiple sequence alignment")):
		if bytes.HasPrefix(line, []byte("CLUSTAL")) {
			return Clustal, nil
		}
		return ClustalLike, nil
	case line[0] == '>':
		switch sufGuess {
		case A2M:
			return A2M, nil
		case AFA, Unknown:
			format, err := f.probeA2MvsAFA()
			if format != Unknown {
				return format, nil
			}
			if sufGuess == AFA {
				return AFA, nil
			}
			return Unknown, err
		default:
			return sufGuess, nil
		}
	case bytes.HasPrefix(line, []byte("CLUSTAL")):
		if sufGuess == Unknown || sufGuess == Clustal {
			return Clustal, nil
		}
		return sufGuess, nil
	}
	if nseq, alen, ok := parsePhylipHeader(line); ok {
		switch sufGuess {
		case Unknown, PhylipInterleaved, PhylipSequential:
			if format := f.probePhylip(nseq, alen); format != Unknown {
				return format, nil
			}
		}
	}
	if sufGuess != Unknown {
		return sufGuess, nil
	}
	if f.probeSELEX(line) {
		return SELEX, nil
	}
	return Unknown, ErrNoFormat
}

// probeA2MvsAFA distinguishes the two '>'-record formats by sampling
// up to 100 records. Aligned FASTA keeps the total character count
// constant across records; A2M keeps the consensus-column count
// (uppercase or '-') constant while totals may vary. The first
// record's header line has already been consumed.
func (f *File) probeA2MvsAFA() (Format, error) {
	var lengths, ncons []int
	curLen, curCons := 0, 0
	for len(lengths) < 100 {
		line, err := f.nextLine()
		if err != nil {
			lengths = append(lengths, curLen)
			ncons = append(ncons, curCons)
			break
		}
		t := bytes.TrimSpace(line)
		if len(t) == 0 {
			continue
		}
		if t[0] == '>' {
			lengths = append(lengths, curLen)
			ncons = append(ncons, curCons)
			curLen, curCons = 0, 0
			continue
		}
		for _, c := range t {
			if isSpace(c) {
				continue
			}
			curLen++
			if (c >= 'A' && c <= 'Z') || c == '-' {
				curCons++
			}
		}
	}
	sameLen, sameCons := true, true
	for _, n := range lengths {
		if n != lengths[0] {
			sameLen = false
		}
	}
	for _, n := range ncons {
		if n != ncons[0] {
			sameCons = false
		}
	}
	switch {
	case sameLen:
		return AFA, nil
	case sameCons:
		return A2M, nil
	default:
		return Unknown, ErrNoFormat
	}
}

// parsePhylipHeader recognizes a candidate "<nseq> <alen>" line.
func parsePhylipHeader(line []byte) (nseq, alen int, ok bool) {
	var sc lineScanner
	sc.reset(line)
	f1, ok1 := sc.field()
	f2, ok2 := sc.field()
	if _, extra := sc.field(); !ok1 || !ok2 || extra {
		return 0, 0, false
	}
	nseq, err1 := strconv.Atoi(string(f1))
	alen, err2 := strconv.Atoi(string(f2))
	if err1 != nil || err2 != nil || nseq <= 0 || alen <= 0 {
		return 0, 0, false
	}
	return nseq, alen, true
}

// phylipResidues counts the characters of a PHYLIP data line that
// contribute residues or gaps: everything except whitespace and the
// digits of optional position numbering.
func phylipResidues(text []byte) int {
	n := 0
	for _, c := range text {
		if isSpace(c) || (c >= '0' && c <= '9') {
			continue
		}
		n++
	}
	return n
}

// probePhylip decides between interleaved and sequential PHYLIP by
// checking which structure accounts for every data line: interleaved
// expects repeating groups of nseq lines contributing equal residue
// counts, sequential expects nseq runs that each accumulate exactly
// alen residues. The 10-character name field is strict; lines too
// short for it reject the format.
func (f *File) probePhylip(nseq, alen int) Format {
	var lines [][]byte
	for {
		line, err := f.nextLine()
		if err != nil {
			break
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	if phylipInterleavedFits(lines, nseq, alen) {
		return PhylipInterleaved
	}
	if phylipSequentialFits(lines, nseq, alen) {
		return PhylipSequential
	}
	return Unknown
}

func phylipInterleavedFits(lines [][]byte, nseq, alen int) bool {
	counts := make([]int, nseq)
	li := 0
	for block := 0; counts[0] < alen; block++ {
		if li+nseq > len(lines) {
			return false
		}
		blockAdd := -1
		for i := 0; i < nseq; i++ {
			line := lines[li]
			li++
			data := line
			if block == 0 {
				if len(line) < phylipNameWidth {
					return false
				}
				data = line[phylipNameWidth:]
			}
			add := phylipResidues(data)
			if blockAdd == -1 {
				blockAdd = add
			} else if add != blockAdd {
				return false
			}
			counts[i] += add
		}
		if blockAdd == 0 {
			return false
		}
	}
	for _, c := range counts {
		if c != alen {
			return false
		}
	}
	return li == len(lines)
}

func phylipSequentialFits(lines [][]byte, nseq, alen int) bool {
	li := 0
	for i := 0; i < nseq; i++ {
		if li >= len(lines) {
			return false
		}
		line := lines[li]
		li++
		if len(line) < phylipNameWidth {
			return false
		}
		count := phylipResidues(line[phylipNameWidth:])
		for count < alen {
			if li >= len(lines) {
				return false
			}
			count += phylipResidues(lines[li])
			li++
		}
		if count != alen {
			return false
		}
	}
	return li == len(lines)
}

// probeSELEX recognizes the SELEX block structure over at most three
// blocks: every data line has exactly two fields, the second field's
// width is constant within a block, every block has the same line
// count, and the name opening each block repeats identically.
func (f *File) probeSELEX(first []byte) bool {
	type blockInfo struct {
		n         int
		firstName string
	}
	var blocks []blockInfo
	var cur *blockInfo
	width := -1
	var sc lineScanner

	flush := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
			width = -1
		}
	}
	process := func(line []byte) bool {
		t := bytes.TrimSpace(line)
		if len(t) == 0 {
			flush()
			return true
		}
		if t[0] == '#' && !bytes.HasPrefix(t, []byte("#=")) {
			return true
		}
		sc.reset(t)
		name, _ := sc.field()
		seq, okSeq := sc.field()
		if _, extra := sc.field(); !okSeq || extra {
			return false
		}
		if cur == nil {
			cur = &blockInfo{firstName: string(name)}
			width = len(seq)
		} else if len(seq) != width {
			return false
		}
		cur.n++
		return true
	}

	if !process(first) {
		return false
	}
	for len(blocks) < 3 {
		line, err := f.nextLine()
		if err != nil {
			break
		}
		if !process(line) {
			return false
		}
	}
	flush()
	if len(blocks) == 0 || blocks[0].n == 0 {
		return false
	}
	for _, b := range blocks {
		if b.n != blocks[0].n || b.firstName != blocks[0].firstName {
			return false
		}
	}
	return true
}
