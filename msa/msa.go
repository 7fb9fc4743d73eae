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

// Package msa implements the normalized in-memory representation of a
// multiple sequence alignment that all file format parsers populate
// and all writers consume.
package msa

import (
	"fmt"

	"github.com/alignio/alignio/alphabet"
	"github.com/alignio/alignio/utils"
)

// An MSA is one multiple sequence alignment record: a set of named
// rows sharing a common column count, plus optional per-file,
// per-sequence, per-column, and per-residue annotation.
//
// Rows are stored in Seqs, parallel to Names. In text mode
// (Alphabet == nil) a row holds the aligned characters verbatim; in
// digital mode it holds alphabet codes. The parsers guarantee that a
// returned record is rectangular: every row and every annotation
// track has exactly Alen columns.
type MSA struct {
	// File-level annotation.
	Name      string
	Accession string
	Desc      string
	Authors   []string

	// Pfam/Rfam curation score cutoffs, two values each.
	CutoffGA, CutoffNC, CutoffTC [2]float64
	HasGA, HasNC, HasTC          [2]bool

	// Rows, parallel to Names. Accessions, Descriptions and Weights
	// stay nil until a record annotates a sequence.
	Names        []string
	Seqs         [][]byte
	Accessions   []string
	Descriptions []string
	Weights      []float64
	HasWeights   bool

	// Per-column annotation tracks, each Alen long when non-nil.
	RF     []byte // reference columns
	SSCons []byte // consensus secondary structure
	SACons []byte // consensus surface accessibility
	PPCons []byte // consensus posterior probability

	// Per-residue annotation, parallel to Seqs when non-nil.
	SS [][]byte
	SA [][]byte
	PP [][]byte

	// Unparsed annotation, in input order.
	GF utils.SmallMap // tag -> []string, one value per occurrence
	GS utils.SmallMap // tag -> []string, one value per sequence
	GC utils.SmallMap // tag -> []byte column track
	GR utils.SmallMap // tag -> [][]byte, one track per sequence

	Comments []string

	Alphabet *alphabet.Alphabet // nil in text mode
	Alen     int

	index   map[string]int
	lastIdx int
}

// New creates an empty text-mode alignment.
func New() *MSA {
	return &MSA{index: make(map[string]int), lastIdx: -1}
}

// NewDigital creates an empty alignment whose rows hold codes of the
// given alphabet.
func NewDigital(abc *alphabet.Alphabet) *MSA {
	m := New()
	m.Alphabet = abc
	return m
}

// Nseq returns the number of rows.
func (m *MSA) Nseq() int {
	return len(m.Names)
}

// SeqIndex returns the row index for a sequence name. Repeated
// lookups of the same name, the common case when per-residue
// annotation lines follow their sequence line, hit a cheap
// last-result check before the map.
func (m *MSA) SeqIndex(name string) (int, bool) {
	if m.lastIdx >= 0 && m.Names[m.lastIdx] == name {
		return m.lastIdx, true
	}
	idx, ok := m.index[name]
	if ok {
		m.lastIdx = idx
	}
	return idx, ok
}

// AddSequence appends a new row with the given name and returns its
// index. The first row with a given name claims it in the lookup
// index; whether duplicates are an error is decided per file format.
func (m *MSA) AddSequence(name string) int {
	idx := len(m.Names)
	m.Names = append(m.Names, name)
	m.Seqs = append(m.Seqs, nil)
	if _, taken := m.index[name]; !taken {
		m.index[name] = idx
	}
	m.lastIdx = idx
	return idx
}

func growStrings(s *[]string, n int) {
	for len(*s) < n {
		*s = append(*s, "")
	}
}

func growBytes(s *[][]byte, n int) {
	for len(*s) < n {
		*s = append(*s, nil)
	}
}

// SetAccessionAt records a per-sequence accession.
func (m *MSA) SetAccessionAt(i int, acc string) {
	growStrings(&m.Accessions, m.Nseq())
	m.Accessions[i] = acc
}

// SetDescriptionAt records a per-sequence description.
func (m *MSA) SetDescriptionAt(i int, desc string) {
	growStrings(&m.Descriptions, m.Nseq())
	m.Descriptions[i] = desc
}

// SetWeightAt records a per-sequence weight.
func (m *MSA) SetWeightAt(i int, w float64) {
	for len(m.Weights) < m.Nseq() {
		m.Weights = append(m.Weights, 1.0)
	}
	m.Weights[i] = w
	m.HasWeights = true
}

// AppendSS appends per-residue secondary structure for row i.
func (m *MSA) AppendSS(i int, text []byte) {
	growBytes(&m.SS, m.Nseq())
	m.SS[i] = append(m.SS[i], text...)
}

// AppendSA appends per-residue surface accessibility for row i.
func (m *MSA) AppendSA(i int, text []byte) {
	growBytes(&m.SA, m.Nseq())
	m.SA[i] = append(m.SA[i], text...)
}

// AppendPP appends per-residue posterior probability for row i.
func (m *MSA) AppendPP(i int, text []byte) {
	growBytes(&m.PP, m.Nseq())
	m.PP[i] = append(m.PP[i], text...)
}

// AddGF records one occurrence of an unparsed file-level tag.
func (m *MSA) AddGF(tag, value string) {
	key := utils.Intern(tag)
	if v, ok := m.GF.Get(key); ok {
		m.GF.Set(key, append(v.([]string), value))
	} else {
		m.GF.Set(key, []string{value})
	}
}

// AddGS records an unparsed per-sequence tag value for row i.
// Repeated occurrences for the same row accumulate, space separated.
func (m *MSA) AddGS(tag string, i int, value string) {
	key := utils.Intern(tag)
	var values []string
	if v, ok := m.GS.Get(key); ok {
		values = v.([]string)
	}
	growStrings(&values, m.Nseq())
	if values[i] == "" {
		values[i] = value
	} else {
		values[i] += " " + value
	}
	m.GS.Set(key, values)
}

// AppendGC appends to an unparsed per-column annotation track.
func (m *MSA) AppendGC(tag string, text []byte) {
	key := utils.Intern(tag)
	var track []byte
	if v, ok := m.GC.Get(key); ok {
		track = v.([]byte)
	}
	m.GC.Set(key, append(track, text...))
}

// AppendGR appends to an unparsed per-residue annotation track for
// row i.
func (m *MSA) AppendGR(tag string, i int, text []byte) {
	key := utils.Intern(tag)
	var tracks [][]byte
	if v, ok := m.GR.Get(key); ok {
		tracks = v.([][]byte)
	}
	growBytes(&tracks, m.Nseq())
	tracks[i] = append(tracks[i], text...)
	m.GR.Set(key, tracks)
}

// GRTrack returns the unparsed per-residue track for a tag and row,
// or nil.
func (m *MSA) GRTrack(tag string, i int) []byte {
	if v, ok := m.GR.Get(utils.Intern(tag)); ok {
		tracks := v.([][]byte)
		if i < len(tracks) {
			return tracks[i]
		}
	}
	return nil
}

func checkTrack(what string, track []byte, alen int) error {
	if track != nil && len(track) != alen {
		return fmt.Errorf("%s annotation has %d columns, alignment has %d", what, len(track), alen)
	}
	return nil
}

// Validate checks the rectangularity invariant: every row and every
// annotation track has exactly Alen columns.
func (m *MSA) Validate() error {
	for i, seq := range m.Seqs {
		if len(seq) != m.Alen {
			return fmt.Errorf("sequence %s has %d columns, alignment has %d", m.Names[i], len(seq), m.Alen)
		}
	}
	if err := checkTrack("RF", m.RF, m.Alen); err != nil {
		return err
	}
	if err := checkTrack("SS_cons", m.SSCons, m.Alen); err != nil {
		return err
	}
	if err := checkTrack("SA_cons", m.SACons, m.Alen); err != nil {
		return err
	}
	if err := checkTrack("PP_cons", m.PPCons, m.Alen); err != nil {
		return err
	}
	for _, perSeq := range [][][]byte{m.SS, m.SA, m.PP} {
		for i, track := range perSeq {
			if err := checkTrack(m.Names[i], track, m.Alen); err != nil {
				return err
			}
		}
	}
	for _, entry := range m.GC {
		if err := checkTrack("#=GC "+*entry.Key, entry.Value.([]byte), m.Alen); err != nil {
			return err
		}
	}
	for _, entry := range m.GR {
		for i, track := range entry.Value.([][]byte) {
			if track == nil {
				continue
			}
			if err := checkTrack(fmt.Sprintf("#=GR %s %s", m.Names[i], *entry.Key), track, m.Alen); err != nil {
				return err
			}
		}
	}
	return nil
}

// GuessAlphabet classifies the residue composition of the alignment
// as DNA, RNA or protein.
func (m *MSA) GuessAlphabet() (alphabet.Type, bool) {
	var ct [26]int64
	if m.Alphabet != nil {
		for _, seq := range m.Seqs {
			for _, code := range seq {
				if !m.Alphabet.IsResidue(code) {
					continue
				}
				c := m.Alphabet.Sym[code]
				if c >= 'A' && c <= 'Z' {
					ct[c-'A']++
				}
			}
		}
	} else {
		for _, seq := range m.Seqs {
			for _, c := range seq {
				switch {
				case c >= 'A' && c <= 'Z':
					ct[c-'A']++
				case c >= 'a' && c <= 'z':
					ct[c-'a']++
				}
			}
		}
	}
	return alphabet.Guess(&ct)
}

// Digitize converts a text-mode alignment to digital mode in place.
// Annotation tracks stay textual.
func (m *MSA) Digitize(abc *alphabet.Alphabet) error {
	if m.Alphabet != nil {
		return fmt.Errorf("alignment %s is already digital", m.Name)
	}
	for i, seq := range m.Seqs {
		dsq, err := abc.Digitize(seq)
		if err != nil {
			return fmt.Errorf("sequence %s: %v", m.Names[i], err)
		}
		m.Seqs[i] = dsq
	}
	m.Alphabet = abc
	return nil
}

// Textize converts a digital alignment back to text mode in place.
func (m *MSA) Textize() {
	if m.Alphabet == nil {
		return
	}
	for i, seq := range m.Seqs {
		m.Seqs[i] = m.Alphabet.Textize(seq)
	}
	m.Alphabet = nil
}
