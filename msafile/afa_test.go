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
	"testing"

	"github.com/alignio/alignio/alphabet"
)

const afaFixture = `>seq1 the first sequence
MQIFVKTLTGKTITLEVEPS
-DTIENVKAK
>seq2
MQIFVKTLTGKTITLEVESS
-DTIDNVKSK
>seq3
MQIFVKTLTG-TITLEVEPS
DTIENVKAKI
>seq4
MQIFVKTLTGKTITLEVEPS
DTIENVKAK-
`

func TestReadAFA(t *testing.T) {
	f, err := OpenBytes([]byte(afaFixture), "test.afa", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != AFA {
		t.Error("AFA format detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("AFA dimensions failed")
	}
	if string(m.Seqs[0]) != testSeq1 || string(m.Seqs[2]) != testSeq3 {
		t.Error("AFA sequence assembly failed")
	}
	if m.Descriptions[0] != "the first sequence" {
		t.Error("AFA description parsing failed")
	}
	if err := m.Validate(); err != nil {
		t.Error("AFA Validate failed")
	}
}

func TestReadAFADigital(t *testing.T) {
	f, err := OpenBytes([]byte(afaFixture), "test.afa", Unknown, Options{DetectAlphabet: true})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Alphabet() == nil || f.Alphabet().Type != alphabet.Amino {
		t.Fatal("AFA alphabet detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Alphabet == nil {
		t.Fatal("AFA digital mode failed")
	}
	if string(m.Alphabet.Textize(m.Seqs[0])) != testSeq1 {
		t.Error("AFA digital sequence failed")
	}
	m.Textize()
	if string(m.Seqs[3]) != testSeq4 {
		t.Error("AFA Textize failed")
	}
}

func TestReadAFAErrors(t *testing.T) {
	// seq2 is shorter than seq1
	const ragged = ">seq1\nMQIFVKTLTG\n>seq2\nMQIFVKTLT\n"
	f, err := OpenBytes([]byte(ragged), "", AFA, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Read(); err == nil {
		t.Error("AFA length check failed")
	}

	// an illegal character in a sequence line
	const bad = ">seq1\nMQIFV{KTLTG\n"
	f2, err := OpenBytes([]byte(bad), "", AFA, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if _, err := f2.Read(); err == nil {
		t.Error("AFA character check failed")
	}
}

func TestAFARoundTrip(t *testing.T) {
	f, err := OpenBytes([]byte(afaFixture), "", AFA, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Write(&out, m, AFA); err != nil {
		t.Fatal(err)
	}
	f2, err := OpenBytes(out.Bytes(), "", AFA, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	m2, err := f2.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(m2) {
		t.Error("AFA round trip failed")
	}
}
