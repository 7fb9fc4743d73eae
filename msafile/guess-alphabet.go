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

	"github.com/alignio/alignio/alphabet"
)

// guessAlphabet samples residue composition from the first record,
// skipping each format's annotation and name fields, and classifies
// it as DNA, RNA or protein. Classification is attempted after
// roughly 500, 5000, and 50000 residues so that a confident early
// call avoids scanning a large record; the final attempt uses
// whatever the record contained. The read position is restored on
// all paths.
func (f *File) guessAlphabet() (alphabet.Type, error) {
	p := f.pin()
	defer func() {
		p.rewind()
		p.release()
	}()

	var ct [26]int64
	var n int64
	threshold := int64(500)
	count := func(text []byte) {
		for _, c := range text {
			switch {
			case c >= 'A' && c <= 'Z':
				ct[c-'A']++
				n++
			case c >= 'a' && c <= 'z':
				ct[c-'a']++
				n++
			}
		}
	}

	var sc lineScanner
	sawFirst := false
	done := false
	for !done {
		line, err := f.nextLine()
		if err != nil {
			break
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		switch f.format {
		case Stockholm, Pfam:
			if bytes.HasPrefix(trimmed, []byte("//")) {
				done = true
				continue
			}
			if trimmed[0] == '#' {
				continue
			}
			sc.reset(trimmed)
			sc.field()
			count(sc.rest())
		case SELEX, PSIBlast:
			if trimmed[0] == '#' {
				continue
			}
			sc.reset(trimmed)
			sc.field()
			count(sc.rest())
		case A2M, AFA:
			if trimmed[0] == '>' {
				continue
			}
			count(trimmed)
		case Clustal, ClustalLike:
			// the first non-blank line is the banner
			if !sawFirst {
				sawFirst = true
				continue
			}
			sc.reset(trimmed)
			sc.field()
			count(sc.rest())
		case PhylipInterleaved, PhylipSequential:
			// the first non-blank line is the <nseq> <alen> header;
			// skipping a name-field width of every data line loses a
			// little signal on nameless continuation lines, which is
			// harmless for composition sampling
			if !sawFirst {
				sawFirst = true
				continue
			}
			if len(line) > phylipNameWidth {
				count(line[phylipNameWidth:])
			}
		}
		if n >= threshold {
			if t, ok := alphabet.Guess(&ct); ok {
				return t, nil
			}
			switch threshold {
			case 500:
				threshold = 5000
			case 5000:
				threshold = 50000
			default:
				done = true
			}
		}
	}
	if t, ok := alphabet.Guess(&ct); ok {
		return t, nil
	}
	return alphabet.Unknown, ErrNoAlphabet
}
