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
	"strconv"
	"strings"

	"github.com/alignio/alignio/msa"
)

// A stockholmBlockLine is one position of the block line-type
// template. The first alignment block establishes which line role
// occupies each position; every later block must reproduce the same
// roles, in the same order, for the same names and tags.
type stockholmBlockLine struct {
	kind byte // 'S' sequence, 'R' #=GR, 'C' #=GC
	idx  int  // sequence row for 'S'/'R', -1 for 'C'
	tag  string
}

func (bl stockholmBlockLine) describe(m *msa.MSA) string {
	switch bl.kind {
	case 'S':
		return "sequence " + m.Names[bl.idx]
	case 'R':
		return fmt.Sprintf("#=GR %s %s", m.Names[bl.idx], bl.tag)
	default:
		return "#=GC " + bl.tag
	}
}

type stockholmParseData struct {
	template  []stockholmBlockLine
	bi        int // position within the current block
	nblocks   int
	alen      int // columns accumulated by completed blocks
	blockAlen int // width of the current block, -1 until established
	inBlock   bool
	blockSeen map[int]bool
}

func (pd *stockholmParseData) checkTemplate(f *File, m *msa.MSA, got stockholmBlockLine) error {
	pd.inBlock = true
	if pd.nblocks == 0 {
		pd.template = append(pd.template, got)
		pd.bi++
		return nil
	}
	if pd.bi >= len(pd.template) {
		return f.parseError("alignment block has more lines than the first block")
	}
	if want := pd.template[pd.bi]; want != got {
		return f.parseError("unexpected line in alignment block: expected %s, got %s",
			want.describe(m), got.describe(m))
	}
	pd.bi++
	return nil
}

func (pd *stockholmParseData) checkWidth(f *File, n int) error {
	if pd.blockAlen == -1 {
		pd.blockAlen = n
		return nil
	}
	if n != pd.blockAlen {
		return f.parseError("line has %d alignment columns, expected %d", n, pd.blockAlen)
	}
	return nil
}

func (pd *stockholmParseData) endBlock(f *File) error {
	if !pd.inBlock {
		return nil
	}
	if pd.nblocks > 0 && pd.bi != len(pd.template) {
		return f.parseError("alignment block has %d lines, the first block had %d", pd.bi, len(pd.template))
	}
	pd.alen += pd.blockAlen
	pd.blockAlen = -1
	pd.bi = 0
	pd.inBlock = false
	pd.blockSeen = nil
	pd.nblocks++
	return nil
}

// seqIdx resolves a name to a row, creating the row when the name is
// new and creation is still allowed: sequences may be declared by
// #=GS lines or first-block data lines in any order, but a name that
// first appears in a later block is an error.
func (pd *stockholmParseData) seqIdx(f *File, m *msa.MSA, name string, where string) (int, error) {
	if idx, ok := m.SeqIndex(name); ok {
		return idx, nil
	}
	if pd.nblocks > 0 {
		return 0, f.parseError("%s for unknown sequence %s", where, name)
	}
	return m.AddSequence(name), nil
}

// readStockholm parses one record in Stockholm format (or Pfam, its
// single-block restriction, which reads identically).
func (f *File) readStockholm() (*msa.MSA, error) {
	// The "# STOCKHOLM 1.x" header is mandatory before any data.
	var header []byte
	for {
		line, err := f.nextLine()
		if err != nil {
			return nil, err
		}
		if t := bytes.TrimSpace(line); len(t) > 0 {
			header = t
			break
		}
	}
	if !bytes.HasPrefix(header, []byte("# STOCKHOLM 1.")) {
		return nil, f.parseError("missing Stockholm header")
	}

	var m *msa.MSA
	if f.abc != nil {
		m = msa.NewDigital(f.abc)
	} else {
		m = msa.New()
	}
	pd := &stockholmParseData{blockAlen: -1}

	for {
		line, err := f.nextLine()
		if err != nil {
			return nil, f.parseError("missing // terminator after alignment")
		}
		t := bytes.TrimSpace(line)
		switch {
		case len(t) == 0:
			if err := pd.endBlock(f); err != nil {
				return nil, err
			}
		case bytes.HasPrefix(t, []byte("//")):
			if err := pd.endBlock(f); err != nil {
				return nil, err
			}
			if pd.nblocks == 0 {
				return nil, f.parseError("no alignment data followed Stockholm header")
			}
			for i := range m.Seqs {
				if len(m.Seqs[i]) != pd.alen {
					return nil, f.parseError("sequence %s has %d columns, alignment has %d",
						m.Names[i], len(m.Seqs[i]), pd.alen)
				}
			}
			m.Alen = pd.alen
			return m, nil
		case bytes.HasPrefix(t, []byte("#=GF")):
			if err := pd.parseGF(f, m, t); err != nil {
				return nil, err
			}
		case bytes.HasPrefix(t, []byte("#=GS")):
			if err := pd.parseGS(f, m, t); err != nil {
				return nil, err
			}
		case bytes.HasPrefix(t, []byte("#=GC")):
			if err := pd.parseGC(f, m, t); err != nil {
				return nil, err
			}
		case bytes.HasPrefix(t, []byte("#=GR")):
			if err := pd.parseGR(f, m, t); err != nil {
				return nil, err
			}
		case bytes.HasPrefix(t, []byte("#=")):
			return nil, f.parseError("unknown annotation line %s", string(bytes.SplitN(t, []byte(" "), 2)[0]))
		case t[0] == '#':
			m.Comments = append(m.Comments, string(bytes.TrimSpace(t[1:])))
		default:
			if err := pd.parseSeq(f, m, t); err != nil {
				return nil, err
			}
		}
	}
}

func (pd *stockholmParseData) parseSeq(f *File, m *msa.MSA, line []byte) error {
	var sc lineScanner
	sc.reset(line)
	name, _ := sc.field()
	text, ok := sc.field()
	if !ok {
		return f.parseError("sequence line for %s has no aligned text", string(name))
	}
	if _, extra := sc.field(); extra {
		return f.parseError("too many fields on sequence line for %s", string(name))
	}
	idx, err := pd.seqIdx(f, m, string(name), "sequence line")
	if err != nil {
		return err
	}
	if pd.blockSeen == nil {
		pd.blockSeen = make(map[int]bool)
	}
	if pd.blockSeen[idx] {
		return f.parseError("sequence %s appears twice in one alignment block", string(name))
	}
	pd.blockSeen[idx] = true
	if err := pd.checkTemplate(f, m, stockholmBlockLine{'S', idx, ""}); err != nil {
		return err
	}
	before := len(m.Seqs[idx])
	seq, bad, okSeq := f.appendSeq(m.Seqs[idx], text)
	if !okSeq {
		return f.parseError("invalid character %q in sequence %s", bad, string(name))
	}
	m.Seqs[idx] = seq
	return pd.checkWidth(f, len(seq)-before)
}

func parseCutoff(f *File, tag string, value string, cutoff *[2]float64, has *[2]bool) error {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 2 {
		return f.parseError("expected one or two thresholds on #=GF %s line", tag)
	}
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimRight(field, ";"), 64)
		if err != nil {
			return f.parseError("invalid %s threshold %s on #=GF line", tag, field)
		}
		cutoff[i] = v
		has[i] = true
	}
	return nil
}

func (pd *stockholmParseData) parseGF(f *File, m *msa.MSA, line []byte) error {
	var sc lineScanner
	sc.reset(line)
	sc.field() // #=GF
	tag, ok := sc.field()
	if !ok {
		return f.parseError("#=GF line is missing a tag")
	}
	value := string(sc.rest())
	switch string(tag) {
	case "ID":
		m.Name = value
	case "AC":
		m.Accession = value
	case "DE":
		m.Desc = value
	case "AU":
		m.Authors = append(m.Authors, value)
	case "GA":
		return parseCutoff(f, "GA", value, &m.CutoffGA, &m.HasGA)
	case "NC":
		return parseCutoff(f, "NC", value, &m.CutoffNC, &m.HasNC)
	case "TC":
		return parseCutoff(f, "TC", value, &m.CutoffTC, &m.HasTC)
	default:
		m.AddGF(string(tag), value)
	}
	return nil
}

func (pd *stockholmParseData) parseGS(f *File, m *msa.MSA, line []byte) error {
	var sc lineScanner
	sc.reset(line)
	sc.field() // #=GS
	name, okName := sc.field()
	tag, okTag := sc.field()
	if !okName || !okTag {
		return f.parseError("#=GS line is missing a sequence name or tag")
	}
	value := string(sc.rest())
	idx, err := pd.seqIdx(f, m, string(name), "#=GS line")
	if err != nil {
		return err
	}
	switch string(tag) {
	case "WT":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return f.parseError("invalid weight %s on #=GS WT line for %s", value, string(name))
		}
		m.SetWeightAt(idx, w)
	case "AC":
		m.SetAccessionAt(idx, value)
	case "DE":
		m.SetDescriptionAt(idx, value)
	default:
		m.AddGS(string(tag), idx, value)
	}
	return nil
}

func (pd *stockholmParseData) parseGC(f *File, m *msa.MSA, line []byte) error {
	var sc lineScanner
	sc.reset(line)
	sc.field() // #=GC
	tag, okTag := sc.field()
	text, okText := sc.field()
	if !okTag || !okText {
		return f.parseError("#=GC line is missing a tag or annotation text")
	}
	if _, extra := sc.field(); extra {
		return f.parseError("too many fields on #=GC %s line", string(tag))
	}
	if err := pd.checkTemplate(f, m, stockholmBlockLine{'C', -1, string(tag)}); err != nil {
		return err
	}
	if err := pd.checkWidth(f, len(text)); err != nil {
		return err
	}
	switch string(tag) {
	case "SS_cons":
		m.SSCons = append(m.SSCons, text...)
	case "SA_cons":
		m.SACons = append(m.SACons, text...)
	case "PP_cons":
		m.PPCons = append(m.PPCons, text...)
	case "RF":
		m.RF = append(m.RF, text...)
	default:
		m.AppendGC(string(tag), text)
	}
	return nil
}

func (pd *stockholmParseData) parseGR(f *File, m *msa.MSA, line []byte) error {
	var sc lineScanner
	sc.reset(line)
	sc.field() // #=GR
	name, okName := sc.field()
	tag, okTag := sc.field()
	text, okText := sc.field()
	if !okName || !okTag || !okText {
		return f.parseError("#=GR line is missing a sequence name, tag, or annotation text")
	}
	if _, extra := sc.field(); extra {
		return f.parseError("too many fields on #=GR %s %s line", string(name), string(tag))
	}
	idx, err := pd.seqIdx(f, m, string(name), "#=GR line")
	if err != nil {
		return err
	}
	if err := pd.checkTemplate(f, m, stockholmBlockLine{'R', idx, string(tag)}); err != nil {
		return err
	}
	if err := pd.checkWidth(f, len(text)); err != nil {
		return err
	}
	switch string(tag) {
	case "SS":
		m.AppendSS(idx, text)
	case "SA":
		m.AppendSA(idx, text)
	case "PP":
		m.AppendPP(idx, text)
	default:
		m.AppendGR(string(tag), idx, text)
	}
	return nil
}

func seqText(m *msa.MSA, seq []byte) []byte {
	if m.Alphabet == nil {
		return seq
	}
	return m.Alphabet.Textize(seq)
}

// writeStockholm serializes one record in Stockholm format, wrapping
// alignment blocks at cpl columns. A negative cpl writes everything
// in a single block, which is the Pfam restriction.
func writeStockholm(w *bufio.Writer, m *msa.MSA, cpl int) error {
	if cpl < 0 {
		cpl = m.Alen
		if cpl == 0 {
			cpl = 1
		}
	}
	fmt.Fprintf(w, "# STOCKHOLM 1.0\n")
	for _, comment := range m.Comments {
		fmt.Fprintf(w, "# %s\n", comment)
	}
	if m.Name != "" {
		fmt.Fprintf(w, "#=GF ID %s\n", m.Name)
	}
	if m.Accession != "" {
		fmt.Fprintf(w, "#=GF AC %s\n", m.Accession)
	}
	if m.Desc != "" {
		fmt.Fprintf(w, "#=GF DE %s\n", m.Desc)
	}
	for _, au := range m.Authors {
		fmt.Fprintf(w, "#=GF AU %s\n", au)
	}
	writeCutoff(w, "GA", m.CutoffGA, m.HasGA)
	writeCutoff(w, "NC", m.CutoffNC, m.HasNC)
	writeCutoff(w, "TC", m.CutoffTC, m.HasTC)
	for _, entry := range m.GF {
		for _, value := range entry.Value.([]string) {
			fmt.Fprintf(w, "#=GF %s %s\n", *entry.Key, value)
		}
	}

	margin := stockholmMargin(m)
	for i, name := range m.Names {
		if m.HasWeights && i < len(m.Weights) {
			fmt.Fprintf(w, "#=GS %-*s WT %g\n", margin, name, m.Weights[i])
		}
		if i < len(m.Accessions) && m.Accessions[i] != "" {
			fmt.Fprintf(w, "#=GS %-*s AC %s\n", margin, name, m.Accessions[i])
		}
		if i < len(m.Descriptions) && m.Descriptions[i] != "" {
			fmt.Fprintf(w, "#=GS %-*s DE %s\n", margin, name, m.Descriptions[i])
		}
		for _, entry := range m.GS {
			values := entry.Value.([]string)
			if i < len(values) && values[i] != "" {
				fmt.Fprintf(w, "#=GS %-*s %s %s\n", margin, name, *entry.Key, values[i])
			}
		}
	}

	for pos := 0; pos < m.Alen || pos == 0; pos += cpl {
		end := pos + cpl
		if end > m.Alen {
			end = m.Alen
		}
		fmt.Fprintln(w)
		for i, name := range m.Names {
			fmt.Fprintf(w, "%-*s %s\n", margin, name, seqText(m, m.Seqs[i][pos:end]))
			writeGRSlice(w, m, margin, i, "SS", m.SS, pos, end)
			writeGRSlice(w, m, margin, i, "SA", m.SA, pos, end)
			writeGRSlice(w, m, margin, i, "PP", m.PP, pos, end)
			for _, entry := range m.GR {
				writeGRSlice(w, m, margin, i, *entry.Key, entry.Value.([][]byte), pos, end)
			}
		}
		writeGCSlice(w, margin, "SS_cons", m.SSCons, pos, end)
		writeGCSlice(w, margin, "SA_cons", m.SACons, pos, end)
		writeGCSlice(w, margin, "PP_cons", m.PPCons, pos, end)
		writeGCSlice(w, margin, "RF", m.RF, pos, end)
		for _, entry := range m.GC {
			writeGCSlice(w, margin, *entry.Key, entry.Value.([]byte), pos, end)
		}
		if m.Alen == 0 {
			break
		}
	}
	fmt.Fprintf(w, "//\n")
	return nil
}

func writeCutoff(w *bufio.Writer, tag string, cutoff [2]float64, has [2]bool) {
	switch {
	case has[0] && has[1]:
		fmt.Fprintf(w, "#=GF %s %.2f %.2f\n", tag, cutoff[0], cutoff[1])
	case has[0]:
		fmt.Fprintf(w, "#=GF %s %.2f\n", tag, cutoff[0])
	}
}

func writeGRSlice(w *bufio.Writer, m *msa.MSA, margin, i int, tag string, tracks [][]byte, pos, end int) {
	if i >= len(tracks) || tracks[i] == nil {
		return
	}
	label := fmt.Sprintf("#=GR %s %s", m.Names[i], tag)
	fmt.Fprintf(w, "%-*s %s\n", margin, label, tracks[i][pos:end])
}

func writeGCSlice(w *bufio.Writer, margin int, tag string, track []byte, pos, end int) {
	if track == nil {
		return
	}
	fmt.Fprintf(w, "%-*s %s\n", margin, "#=GC "+tag, track[pos:end])
}

// stockholmMargin picks the left margin width that keeps sequence and
// annotation text vertically aligned: the longest of the names and
// the #=GR/#=GC labels.
func stockholmMargin(m *msa.MSA) int {
	margin := 0
	grow := func(n int) {
		if n > margin {
			margin = n
		}
	}
	for i, name := range m.Names {
		grow(len(name))
		if (i < len(m.SS) && m.SS[i] != nil) || (i < len(m.SA) && m.SA[i] != nil) ||
			(i < len(m.PP) && m.PP[i] != nil) {
			grow(len("#=GR ") + len(name) + len(" SS"))
		}
		for _, entry := range m.GR {
			tracks := entry.Value.([][]byte)
			if i < len(tracks) && tracks[i] != nil {
				grow(len("#=GR ") + len(name) + 1 + len(*entry.Key))
			}
		}
	}
	if m.SSCons != nil || m.SACons != nil || m.PPCons != nil {
		grow(len("#=GC SS_cons"))
	}
	if m.RF != nil {
		grow(len("#=GC RF"))
	}
	for _, entry := range m.GC {
		grow(len("#=GC ") + len(*entry.Key))
	}
	return margin
}
