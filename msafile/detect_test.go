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
	"testing"
)

func TestGuessFormat(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		content  string
		format   Format
	}{
		{"stockholm header", "anything.txt", stockholmValidFixture, Stockholm},
		{"pfam suffix", "test.pfam", stockholmValidFixture, Pfam},
		{"afa probe", "", afaFixture, AFA},
		{"a2m probe", "", a2mFixture, A2M},
		{"a2m suffix wins", "test.a2m", afaFixture, A2M},
		{"clustal banner", "", clustalFixture, Clustal},
		{"phylip interleaved probe", "", phylipInterleavedFixture, PhylipInterleaved},
		{"phylip sequential probe", "", phylipSequentialFixture, PhylipSequential},
		{"selex probe", "", selexFixture, SELEX},
		{"psiblast suffix", "test.psi", psiblastFixture, PSIBlast},
	}
	for _, c := range cases {
		f, err := OpenBytes([]byte(c.content), c.filename, Unknown, Options{})
		if err != nil {
			t.Errorf("GuessFormat %s failed: %v", c.name, err)
			continue
		}
		if f.Format() != c.format {
			t.Errorf("GuessFormat %s failed: got %v, want %v", c.name, f.Format(), c.format)
		}
		// detection must not move the read position
		if _, err := f.Read(); err != nil {
			t.Errorf("GuessFormat %s position neutrality failed: %v", c.name, err)
		}
		f.Close()
	}

	if _, err := OpenBytes([]byte("neither fish nor fowl,\nnor good red herring\n"), "", Unknown, Options{}); err != ErrNoFormat {
		t.Error("GuessFormat garbage check failed")
	}
}

// When the filename suffix and the first line disagree, the suffix
// wins unless the first line is format defining on its own: a
// Stockholm header or a "multiple sequence alignment" banner.
func TestGuessFormatSuffixConflicts(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		content  string
		format   Format
	}{
		{"selex suffix beats bare CLUSTAL line", "test.slx", "CLUSTAL W (1.83) something\n" + selexFixture, SELEX},
		{"stockholm suffix beats '>' line", "test.sto", afaFixture, Stockholm},
		{"phylip suffix beats '>' line", "test.phy", afaFixture, PhylipInterleaved},
		{"clustal banner beats selex suffix", "test.slx", clustalFixture, Clustal},
		{"stockholm header beats selex suffix", "test.slx", stockholmValidFixture, Stockholm},
	}
	for _, c := range cases {
		f, err := OpenBytes([]byte(c.content), c.filename, Unknown, Options{})
		if err != nil {
			t.Errorf("GuessFormat %s failed: %v", c.name, err)
			continue
		}
		if f.Format() != c.format {
			t.Errorf("GuessFormat %s failed: got %v, want %v", c.name, f.Format(), c.format)
		}
		f.Close()
	}
}

func TestFormatFromSuffix(t *testing.T) {
	if FormatFromSuffix("aln/PF00001.sto.gz") != Stockholm {
		t.Error("FormatFromSuffix gz failed")
	}
	if FormatFromSuffix("test.phy") != PhylipInterleaved {
		t.Error("FormatFromSuffix phylip failed")
	}
	if FormatFromSuffix("README") != Unknown {
		t.Error("FormatFromSuffix unknown failed")
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("Stockholm") != Stockholm || ParseFormat("psi-blast") != PSIBlast {
		t.Error("ParseFormat failed")
	}
	if ParseFormat("nonesuch") != Unknown {
		t.Error("ParseFormat unknown failed")
	}
}
