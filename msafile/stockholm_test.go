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
	"io"
	"testing"
)

// A 4-sequence, 30-column protein alignment used as the shared test
// fixture across the format tests.
const (
	testSeq1 = "MQIFVKTLTGKTITLEVEPS-DTIENVKAK"
	testSeq2 = "MQIFVKTLTGKTITLEVESS-DTIDNVKSK"
	testSeq3 = "MQIFVKTLTG-TITLEVEPSDTIENVKAKI"
	testSeq4 = "MQIFVKTLTGKTITLEVEPSDTIENVKAK-"
)

const stockholmFixture = `# STOCKHOLM 1.0
#=GF ID test
#=GF AC PF00000.1
#=GF GA 25.00 25.00
#=GF CC an unparsed comment tag
#=GS seq1 DE the first ubiquitin sequence
#=GS seq1 WT 0.5

seq1         MQIFVKTLTGKTITLEVEPS
#=GR seq1 PP 899999999999999999999 is wrong
seq2         MQIFVKTLTGKTITLEVESS
seq3         MQIFVKTLTG-TITLEVEPS
seq4         MQIFVKTLTGKTITLEVEPS
#=GC RF      xxxxxxxxxxxxxxxxxxxx

seq1         -DTIENVKAK
#=GR seq1 PP 9999999999
seq2         -DTIDNVKSK
seq3         DTIENVKAKI
seq4         DTIENVKAK-
#=GC RF      xxxxxxxxxx
//
`

const stockholmValidFixture = `# STOCKHOLM 1.0
# ubiquitin seed
#=GF ID test
#=GF AC PF00000.1
#=GF GA 25.00 25.00
#=GF CC an unparsed comment tag
#=GS seq1 DE the first ubiquitin sequence
#=GS seq1 WT 0.5
#=GS seq1 DR PDB; 1UBQ;

seq1         MQIFVKTLTGKTITLEVEPS
#=GR seq1 PP 89999999999999999999
seq2         MQIFVKTLTGKTITLEVESS
seq3         MQIFVKTLTG-TITLEVEPS
seq4         MQIFVKTLTGKTITLEVEPS
#=GC RF      xxxxxxxxxxxxxxxxxxxx

seq1         -DTIENVKAK
#=GR seq1 PP 9999999999
seq2         -DTIDNVKSK
seq3         DTIENVKAKI
seq4         DTIENVKAK-
#=GC RF      xxxxxxxxxx
//
`

func TestReadStockholm(t *testing.T) {
	f, err := OpenBytes([]byte(stockholmValidFixture), "test.sto", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != Stockholm {
		t.Error("Stockholm format detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("Stockholm dimensions failed")
	}
	if m.Name != "test" || m.Accession != "PF00000.1" {
		t.Error("Stockholm #=GF parsing failed")
	}
	if !m.HasGA[0] || !m.HasGA[1] || m.CutoffGA[0] != 25 || m.CutoffGA[1] != 25 {
		t.Error("Stockholm #=GF GA parsing failed")
	}
	if string(m.Seqs[0]) != testSeq1 || string(m.Seqs[2]) != testSeq3 {
		t.Error("Stockholm sequence assembly failed")
	}
	if m.Descriptions[0] != "the first ubiquitin sequence" {
		t.Error("Stockholm #=GS DE parsing failed")
	}
	if !m.HasWeights || m.Weights[0] != 0.5 {
		t.Error("Stockholm #=GS WT parsing failed")
	}
	if len(m.GS) != 1 || *m.GS[0].Key != "DR" || m.GS[0].Value.([]string)[0] != "PDB; 1UBQ;" {
		t.Error("Stockholm #=GS DR parsing failed")
	}
	if len(m.Comments) != 1 || m.Comments[0] != "ubiquitin seed" {
		t.Error("Stockholm comment retention failed")
	}
	if len(m.RF) != 30 {
		t.Error("Stockholm #=GC RF assembly failed")
	}
	if len(m.PP) != 4 || len(m.PP[0]) != 30 {
		t.Error("Stockholm #=GR PP assembly failed")
	}
	if err := m.Validate(); err != nil {
		t.Error("Stockholm Validate failed")
	}
	if _, err := f.Read(); err != io.EOF {
		t.Error("Stockholm EOF failed")
	}
}

func TestReadStockholmErrors(t *testing.T) {
	// a #=GR line with trailing junk
	f, err := OpenBytes([]byte(stockholmFixture), "test.sto", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	_, err = f.Read()
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatal("Stockholm error type failed")
	}
	if perr.Line != 10 || perr.File != "test.sto" {
		t.Error("Stockholm error locality failed")
	}

	// a later block that swaps two sequence lines
	swapped := bytes.Replace([]byte(stockholmValidFixture),
		[]byte("seq2         -DTIDNVKSK\nseq3         DTIENVKAKI"),
		[]byte("seq3         DTIENVKAKI\nseq2         -DTIDNVKSK"), 1)
	f2, err := OpenBytes(swapped, "", Stockholm, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if _, err := f2.Read(); err == nil {
		t.Error("Stockholm block order check failed")
	}

	// a missing // terminator
	unterminated := bytes.Replace([]byte(stockholmValidFixture), []byte("//\n"), nil, 1)
	f3, err := OpenBytes(unterminated, "", Stockholm, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f3.Close()
	if _, err := f3.Read(); err == nil {
		t.Error("Stockholm terminator check failed")
	}
}

func TestStockholmRoundTrip(t *testing.T) {
	f, err := OpenBytes([]byte(stockholmValidFixture), "", Stockholm, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Write(&out, m, Stockholm); err != nil {
		t.Fatal(err)
	}
	f2, err := OpenBytes(out.Bytes(), "", Stockholm, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	m2, err := f2.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(m2) {
		t.Error("Stockholm round trip failed")
	}
}

func TestPfamWrite(t *testing.T) {
	f, err := OpenBytes([]byte(stockholmValidFixture), "", Stockholm, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Write(&out, m, Pfam); err != nil {
		t.Fatal(err)
	}
	if bytes.Count(out.Bytes(), []byte("\nseq1 ")) != 1 {
		t.Error("Pfam single block failed")
	}
	f2, err := OpenBytes(out.Bytes(), "", Pfam, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	m2, err := f2.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(m2) {
		t.Error("Pfam round trip failed")
	}
}

func TestReadStockholmMultipleRecords(t *testing.T) {
	two := stockholmValidFixture + "\n" + stockholmValidFixture
	f, err := OpenBytes([]byte(two), "", Stockholm, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m1, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	m2, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !m1.Equal(m2) {
		t.Error("Stockholm multiple records failed")
	}
	if _, err := f.Read(); err != io.EOF {
		t.Error("Stockholm multiple records EOF failed")
	}
}
