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

const clustalFixture = `CLUSTAL 2.1 multiple sequence alignment

seq1   MQIFVKTLTGKTITLEVEPS
seq2   MQIFVKTLTGKTITLEVESS
seq3   MQIFVKTLTG-TITLEVEPS
seq4   MQIFVKTLTGKTITLEVEPS
       **********  ******

seq1   -DTIENVKAK
seq2   -DTIDNVKSK
seq3   DTIENVKAKI
seq4   DTIENVKAK-
        ***:**
`

func TestReadClustal(t *testing.T) {
	f, err := OpenBytes([]byte(clustalFixture), "test.aln", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != Clustal {
		t.Error("Clustal format detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("Clustal dimensions failed")
	}
	if string(m.Seqs[0]) != testSeq1 || string(m.Seqs[3]) != testSeq4 {
		t.Error("Clustal sequence assembly failed")
	}
	if err := m.Validate(); err != nil {
		t.Error("Clustal Validate failed")
	}
}

func TestReadClustalLike(t *testing.T) {
	like := strings.Replace(clustalFixture,
		"CLUSTAL 2.1 multiple sequence alignment",
		"MUSCLE (3.8) multiple sequence alignment", 1)
	f, err := OpenBytes([]byte(like), "", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != ClustalLike {
		t.Error("Clustal-like format detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("Clustal-like dimensions failed")
	}
}

func TestReadClustalErrors(t *testing.T) {
	// no banner
	const noBanner = "seq1   MQIFVKTLTG\n"
	f, err := OpenBytes([]byte(noBanner), "", Clustal, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Read(); err == nil {
		t.Error("Clustal banner check failed")
	}

	// a misaligned sequence start
	misaligned := strings.Replace(clustalFixture,
		"seq2   MQIFVKTLTGKTITLEVESS",
		"seq2    MQIFVKTLTGKTITLEVESS", 1)
	f2, err := OpenBytes([]byte(misaligned), "", Clustal, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if _, err := f2.Read(); err == nil {
		t.Error("Clustal misalignment check failed")
	}

	// a wrong sequence name in a later block
	renamed := strings.Replace(clustalFixture,
		"seq2   -DTIDNVKSK",
		"seqX   -DTIDNVKSK", 1)
	f3, err := OpenBytes([]byte(renamed), "", Clustal, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f3.Close()
	if _, err := f3.Read(); err == nil {
		t.Error("Clustal name check failed")
	}
}

func TestClustalRoundTrip(t *testing.T) {
	f, err := OpenBytes([]byte(clustalFixture), "", Clustal, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	for _, format := range []Format{Clustal, ClustalLike} {
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
			t.Error("Clustal round trip failed")
		}
		f2.Close()
	}
}
