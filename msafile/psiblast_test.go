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

	"github.com/alignio/alignio/alphabet"
)

const psiblastFixture = `seq1  MQIFVKTLTGKTITLEVEPS
seq2  MQIFVKTLTGKTITLEVESS
seq3  MQIFVKTLTG-TITLEVEPS
seq4  MQIFVKTLTGKTITLEVEPS

seq1  -DTIENVKAK
seq2  -DTIDNVKSK
seq3  DTIENVKAKI
seq4  DTIENVKAK-
`

func TestReadPSIBlast(t *testing.T) {
	f, err := OpenBytes([]byte(psiblastFixture), "test.psi", Unknown, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Format() != PSIBlast {
		t.Error("PSI-BLAST format detection failed")
	}
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if m.Nseq() != 4 || m.Alen != 30 {
		t.Error("PSI-BLAST dimensions failed")
	}
	if string(m.Seqs[0]) != testSeq1 || string(m.Seqs[2]) != testSeq3 {
		t.Error("PSI-BLAST sequence assembly failed")
	}
	if err := m.Validate(); err != nil {
		t.Error("PSI-BLAST Validate failed")
	}
}

func TestReadPSIBlastErrors(t *testing.T) {
	// a wrong sequence name in a later block
	renamed := strings.Replace(psiblastFixture,
		"seq2  -DTIDNVKSK",
		"seqX  -DTIDNVKSK", 1)
	f, err := OpenBytes([]byte(renamed), "", PSIBlast, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Read(); err == nil {
		t.Error("PSI-BLAST name check failed")
	}

	// a line with a different residue count than the rest of the block
	ragged := strings.Replace(psiblastFixture,
		"seq3  MQIFVKTLTG-TITLEVEPS",
		"seq3  MQIFVKTLTG-TITLEVEP", 1)
	f2, err := OpenBytes([]byte(ragged), "", PSIBlast, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if _, err := f2.Read(); err == nil {
		t.Error("PSI-BLAST width check failed")
	}

	// '.' is not a legal gap character in PSI-BLAST
	dotted := strings.Replace(psiblastFixture,
		"seq3  MQIFVKTLTG-TITLEVEPS",
		"seq3  MQIFVKTLTG.TITLEVEPS", 1)
	f3, err := OpenBytes([]byte(dotted), "", PSIBlast, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer f3.Close()
	if _, err := f3.Read(); err == nil {
		t.Error("PSI-BLAST gap character check failed")
	}
}

// The writer cases residues by consensus column, so the round trip is
// checked in digital mode, where case carries no information.
func TestPSIBlastRoundTrip(t *testing.T) {
	abc := alphabet.New(alphabet.Amino)
	f, err := OpenBytes([]byte(psiblastFixture), "", PSIBlast, Options{Alphabet: abc})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Write(&out, m, PSIBlast); err != nil {
		t.Fatal(err)
	}
	f2, err := OpenBytes(out.Bytes(), "", PSIBlast, Options{Alphabet: abc})
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	m2, err := f2.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(m2) {
		t.Error("PSI-BLAST round trip failed")
	}
}
