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
	"strings"
	"testing"
)

const phylipInterleavedFixture = `4 30
seq1      MQIFVKTLTGKTITLEVEPS
seq2      MQIFVKTLTGKTITLEVESS
seq3      MQIFVKTLTG-TITLEVEPS
seq4      MQIFVKTLTGKTITLEVEPS

-DTIENVKAK
-DTIDNVKSK
DTIENVKAKI
DTIENVKAK-
`

const phylipSequentialFixture = `4 30
seq1      MQIFVKTLTGKTITLEVEPS
-DTIENVKAK
seq2      MQIFVKTLTGKTITLEVESS
-DTIDNVKSK
seq3      MQIFVKTLTG-TITLEVEPS
DTIENVKAKI
seq4      MQIFVKTLTGKTITLEVEPS
DTIENVKAK-
`

func TestReadPhylipInterleaved(t *testing.T) {
	f, err := OpenBytes([]byte(phylipInterleavedFixture), "", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != PhylipInterleaved {
		t.Error("PHYLIP interleaved detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("PHYLIP interleaved dimensions failed")
	}
	if string(m.Seqs[0]) != testSeq1 || string(m.Seqs[2]) != testSeq3 {
		t.Error("PHYLIP interleaved sequence assembly failed")
	}
	if err := m.Validate(); err != nil {
		t.Error("PHYLIP interleaved Validate failed")
	}
}

func TestReadPhylipSequential(t *testing.T) {
	f, err := OpenBytes([]byte(phylipSequentialFixture), "", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != PhylipSequential {
		t.Error("PHYLIP sequential detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("PHYLIP sequential dimensions failed")
	}
	if string(m.Seqs[1]) != testSeq2 || string(m.Seqs[3]) != testSeq4 {
		t.Error("PHYLIP sequential sequence assembly failed")
	}
}

// PHYLIP data lines may interleave position numbers and spacing into
// the sequence, and '?' marks missing data.
func TestReadPhylipDecorations(t *testing.T) {
	const decorated = `2 20
seq1      MQIFVKTLTG 10 KTITLEVEPS
seq2      MQIFVKTLTG 10 KTITLEVE??
`
	f, err := OpenBytes([]byte(decorated), "", PhylipInterleaved, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if string(m.Seqs[0]) != "MQIFVKTLTGKTITLEVEPS" {
		t.Error("PHYLIP numbering failed")
	}
	if string(m.Seqs[1]) != "MQIFVKTLTGKTITLEVE~~" {
		t.Error("PHYLIP missing data failed")
	}
}

func TestReadPhylipErrors(t *testing.T) {
	// header claims more columns than the data provides
	truncated := strings.Replace(phylipInterleavedFixture, "4 30", "4 40", 1)
	f, err := OpenBytes([]byte(truncated), "", PhylipInterleaved, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Read(); err == nil {
		t.Error("PHYLIP column count check failed")
	}

	// a name field that is too short
	const short = "1 5\nab\n"
	f2, err := OpenBytes([]byte(short), "", PhylipInterleaved, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if _, err := f2.Read(); err == nil {
		t.Error("PHYLIP name width check failed")
	}
}

func TestPhylipRoundTrip(t *testing.T) {
	f, err := OpenBytes([]byte(phylipInterleavedFixture), "", PhylipInterleaved, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	for _, format := range []Format{PhylipInterleaved, PhylipSequential} {
		var out bytes.Buffer
		if err := Write(&out, m, format); err != nil {
			t.Fatal(err)
		}
		f2, err := OpenBytes(out.Bytes(), "", format, Options{})
		if err != nil {
			t.Fatal(err)
		}
		m2, err := f2.Read()
		if err != nil {
			t.Fatal(err)
		}
		if !m.Equal(m2) {
			t.Error("PHYLIP round trip failed")
		}
		f2.Close()
	}
}
