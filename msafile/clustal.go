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
	"github.com/alignio/alignio/utils"
)

// Clustal files hold one alignment in interleaved blocks. Every data
// line is "name  alignedtext", the aligned text of all lines in a
// block occupies the same column range, and a block ends with a
// consensus line built from the characters " .:*" only. The Clustal
// format proper requires a banner starting with "CLUSTAL"; the
// Clustal-like variant accepts any banner that contains "multiple
// sequence alignment", which is how tools such as MUSCLE and PROBCONS
// label their output.

func (f *File) setInmapClustal() {
	// the default input map is fine; spaces interior to a data line
	// are not allowed
}

func isConsensusLine(t []byte) bool {
	for _, c := range t {
		switch c {
		case ' ', '\t', '.', ':', '*':
		default:
			return false
		}
	}
	return true
}

func (f *File) readClustalBanner() error {
	for {
		line, err := f.nextLine()
		if err != nil {
			return io.EOF
		}
		t := bytes.TrimSpace(line)
		if len(t) == 0 {
			continue
		}
		var sc lineScanner
		sc.reset(t)
		tok, _ := sc.field()
		if f.format == Clustal && !bytes.HasPrefix(tok, []byte("CLUSTAL")) {
			return f.parseError("missing CLUSTAL header")
		}
		if !bytes.Contains(sc.rest(), []byte("multiple sequence alignment")) {
			return f.parseError("missing CLUSTAL header")
		}
		return nil
	}
}

// readClustal parses a Clustal or Clustal-like file. The whole file is
// one record.
func (f *File) readClustal() (*msa.MSA, error) {
	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	if err := f.readClustalBanner(); err != nil {
		return nil, err
	}

	var line []byte
	var err error
	for {
		if line, err = f.nextLine(); err != nil {
			return nil, f.parseError("no alignment data following header")
		}
		if len(bytes.TrimSpace(line)) > 0 {
			break
		}
	}

	nblocks := 0
	alen := 0
	for {
		// line is the first line of a block
		idx := 0
		blockStart, blockLen := 0, 0
		for {
			nameStart := 0
			for nameStart < len(line) && isSpace(line[nameStart]) {
				nameStart++
			}
			nameEnd := nameStart
			for nameEnd < len(line) && !isSpace(line[nameEnd]) {
				nameEnd++
			}
			seqStart := nameEnd
			for seqStart < len(line) && isSpace(line[seqStart]) {
				seqStart++
			}
			if seqStart >= len(line) {
				return nil, f.parseError("invalid alignment line")
			}
			seqEnd := len(line)
			for isSpace(line[seqEnd-1]) {
				seqEnd--
			}
			if idx == 0 {
				blockStart = seqStart
				blockLen = seqEnd - seqStart
			} else {
				if seqStart != blockStart {
					return nil, f.parseError("sequence start is misaligned")
				}
				if seqEnd-seqStart != blockLen {
					return nil, f.parseError("sequence end is misaligned")
				}
			}

			name := string(line[nameStart:nameEnd])
			if nblocks == 0 {
				m.AddSequence(name)
			} else {
				if idx >= m.Nseq() || name != m.Names[idx] {
					return nil, f.parseError("expected sequence %s on this line, but saw %s",
						m.Names[idx], name)
				}
			}

			before := len(m.Seqs[idx])
			seq, bad, ok := f.appendSeq(m.Seqs[idx], line[seqStart:seqEnd])
			if !ok {
				return nil, f.parseError("invalid character %q in sequence %s", bad, name)
			}
			if len(seq)-before != blockLen {
				return nil, f.parseError("unexpected number of seq characters")
			}
			m.Seqs[idx] = seq
			idx++

			if line, err = f.nextLine(); err != nil {
				return nil, f.parseError("alignment block did not end with consensus line")
			}
			if isConsensusLine(line) {
				break
			}
		}
		if idx != m.Nseq() {
			return nil, f.parseError("block doesn't contain same # of seqs as earlier blocks")
		}
		alen += blockLen
		nblocks++

		// skip blank lines to the start of the next block
		for {
			if line, err = f.nextLine(); err != nil {
				if err == io.EOF {
					m.Alen = alen
					return m, nil
				}
				return nil, err
			}
			if len(bytes.TrimSpace(line)) > 0 {
				break
			}
		}
	}
}

// clustalConsensus builds the simplified consensus line the writer
// emits: '*' for completely conserved residue columns, ' ' elsewhere.
func clustalConsensus(m *msa.MSA) []byte {
	cons := make([]byte, m.Alen)
	for apos := range cons {
		cons[apos] = ' '
		if m.Nseq() == 0 {
			continue
		}
		if m.Alphabet != nil {
			x := m.Seqs[0][apos]
			if int(x) >= m.Alphabet.K {
				continue
			}
			same := true
			for i := 1; i < m.Nseq(); i++ {
				if m.Seqs[i][apos] != x {
					same = false
					break
				}
			}
			if same {
				cons[apos] = '*'
			}
		} else {
			x := toUpper(m.Seqs[0][apos])
			if x < 'A' || x > 'Z' {
				continue
			}
			same := true
			for i := 1; i < m.Nseq(); i++ {
				if toUpper(m.Seqs[i][apos]) != x {
					same = false
					break
				}
			}
			if same {
				cons[apos] = '*'
			}
		}
	}
	return cons
}

// writeClustal serializes one record in Clustal format, in blocks of
// 60 aligned residues.
func writeClustal(w *bufio.Writer, m *msa.MSA, format Format) error {
	const cpl = 60
	if format == Clustal {
		fmt.Fprintf(w, "CLUSTAL 2.1 multiple sequence alignment\n")
	} else {
		fmt.Fprintf(w, "%s (%s) multiple sequence alignment\n",
			utils.ProgramName, utils.ProgramVersion)
	}
	margin := 0
	for _, name := range m.Names {
		if len(name) > margin {
			margin = len(name)
		}
	}
	cons := clustalConsensus(m)
	for pos := 0; pos < m.Alen; pos += cpl {
		end := pos + cpl
		if end > m.Alen {
			end = m.Alen
		}
		fmt.Fprintln(w)
		for i, name := range m.Names {
			fmt.Fprintf(w, "%-*s %s\n", margin, name, seqText(m, m.Seqs[i][pos:end]))
		}
		fmt.Fprintf(w, "%-*s %s\n", margin, "", cons[pos:end])
	}
	return nil
}
