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

// Package alphabet implements biological symbol alphabets (DNA, RNA,
// protein) and the digital coding of sequences over them.
package alphabet

import (
	"fmt"
	"log"
	"strings"
)

// Type identifies a biological alphabet.
type Type int

// The supported alphabet types.
const (
	Unknown Type = iota
	RNA
	DNA
	Amino
)

// String returns a human-readable name for an alphabet type.
func (t Type) String() string {
	switch t {
	case RNA:
		return "RNA"
	case DNA:
		return "DNA"
	case Amino:
		return "amino"
	default:
		return "unknown"
	}
}

// ParseType converts a case-insensitive alphabet name to a Type.
func ParseType(s string) Type {
	switch strings.ToLower(s) {
	case "rna":
		return RNA
	case "dna":
		return DNA
	case "amino", "protein":
		return Amino
	default:
		return Unknown
	}
}

// Pseudo-codes used in input maps. They are never valid digital
// residue codes: an alphabet has fewer than 128 real codes.
const (
	// Ignored marks an input byte that contributes nothing to a
	// sequence, such as whitespace inside a data line.
	Ignored byte = 0xfe

	// Illegal marks an input byte that may not occur in a data line.
	Illegal byte = 0xff
)

// An Alphabet defines a digital coding for biological sequences: each
// symbol maps to a small integer code. Codes 0..K-1 are the canonical
// residues, code K is the gap, codes K+1..Kp-3 are degenerate
// residues with Kp-3 the fully ambiguous one (N or X), code Kp-2 is
// the nonresidue '*', and code Kp-1 is the missing data symbol '~'.
type Alphabet struct {
	Type Type
	Sym  string // symbol for each code, in code order
	K    int    // number of canonical residues
	Kp   int    // total number of codes
	// Inmap maps an input byte to its code, or to Illegal.
	Inmap [128]byte
}

// New creates an alphabet of the given type. The type must be RNA,
// DNA or Amino.
func New(t Type) *Alphabet {
	a := &Alphabet{Type: t}
	switch t {
	case RNA:
		a.Sym = "ACGU-RYMKSWHBVDN*~"
		a.K = 4
	case DNA:
		a.Sym = "ACGT-RYMKSWHBVDN*~"
		a.K = 4
	case Amino:
		a.Sym = "ACDEFGHIKLMNPQRSTVWY-BJZOUX*~"
		a.K = 20
	default:
		log.Panicf("invalid alphabet type %d", t)
	}
	a.Kp = len(a.Sym)
	for i := range a.Inmap {
		a.Inmap[i] = Illegal
	}
	for code := 0; code < a.Kp; code++ {
		c := a.Sym[code]
		a.Inmap[c] = byte(code)
		if c >= 'A' && c <= 'Z' {
			a.Inmap[c+'a'-'A'] = byte(code)
		}
	}
	// common gap synonyms
	a.Inmap['_'] = byte(a.K)
	a.Inmap['.'] = byte(a.K)
	switch t {
	case RNA:
		a.Inmap['T'] = a.Inmap['U']
		a.Inmap['t'] = a.Inmap['U']
		a.Inmap['X'] = a.Inmap['N']
		a.Inmap['x'] = a.Inmap['N']
	case DNA:
		a.Inmap['U'] = a.Inmap['T']
		a.Inmap['u'] = a.Inmap['T']
		a.Inmap['X'] = a.Inmap['N']
		a.Inmap['x'] = a.Inmap['N']
	}
	return a
}

// Gap returns the digital code of the gap symbol.
func (a *Alphabet) Gap() byte { return byte(a.K) }

// Any returns the digital code of the fully ambiguous residue (N for
// nucleic alphabets, X for amino).
func (a *Alphabet) Any() byte { return byte(a.Kp - 3) }

// Nonresidue returns the digital code of the '*' symbol.
func (a *Alphabet) Nonresidue() byte { return byte(a.Kp - 2) }

// Missing returns the digital code of the missing data symbol '~'.
func (a *Alphabet) Missing() byte { return byte(a.Kp - 1) }

// IsCanonical tells whether code is one of the canonical residues.
func (a *Alphabet) IsCanonical(code byte) bool { return int(code) < a.K }

// IsResidue tells whether code is a residue, canonical or degenerate.
func (a *Alphabet) IsResidue(code byte) bool {
	return int(code) < a.K || (int(code) > a.K && int(code) < a.Kp-2)
}

// IsGap tells whether code is the gap code.
func (a *Alphabet) IsGap(code byte) bool { return int(code) == a.K }

// Encode maps one input byte to its digital code. It returns Illegal
// for bytes outside the alphabet.
func (a *Alphabet) Encode(c byte) byte {
	if c >= 128 {
		return Illegal
	}
	return a.Inmap[c]
}

// Digitize converts a text sequence to digital codes.
func (a *Alphabet) Digitize(text []byte) ([]byte, error) {
	dsq := make([]byte, len(text))
	for i, c := range text {
		code := a.Encode(c)
		if code == Illegal {
			return nil, fmt.Errorf("invalid character %q for %v alphabet", c, a.Type)
		}
		dsq[i] = code
	}
	return dsq, nil
}

// Textize converts a digital sequence back to text symbols.
func (a *Alphabet) Textize(dsq []byte) []byte {
	text := make([]byte, len(dsq))
	for i, code := range dsq {
		text[i] = a.Sym[code]
	}
	return text
}

// Guess classifies residue composition as DNA, RNA or protein. The
// argument counts occurrences of the letters A..Z, case folded,
// across sampled sequence data. The rules are deliberately
// conservative; when unsure, Guess reports Unknown and false rather
// than risk a wrong call:
//
// A sample of 10 residues or fewer is never classified. A sample of
// more than 2000 residues that is all N is called DNA (genome
// assemblies lead with swaths of N). Any amino-only letter makes it
// protein. At least 98% ACGT plus N, with all four of ACGT present,
// makes it DNA; likewise with U instead of T for RNA. At least 98%
// canonical amino acids or X, with 15 or more distinct letters and
// more of DHKMRSVWY than of ACG, makes it protein.
func Guess(ct *[26]int64) (Type, bool) {
	const (
		aaOnly   = "EFIJLOPQZ"
		allCanon = "ACG"
		aaCanon  = "DHKMRSVWY"
	)
	var n, n1, n2, n3 int64
	var x1, x2, x3 int
	for _, x := range ct {
		n += x
	}
	for _, c := range aaOnly {
		if x := ct[c-'A']; x > 0 {
			n1 += x
			x1++
		}
	}
	for _, c := range allCanon {
		if x := ct[c-'A']; x > 0 {
			n2 += x
			x2++
		}
	}
	for _, c := range aaCanon {
		if x := ct[c-'A']; x > 0 {
			n3 += x
			x3++
		}
	}
	nt, nu, nx, nn := ct['T'-'A'], ct['U'-'A'], ct['X'-'A'], ct['N'-'A']
	xt, xu, xn := 0, 0, 0
	if nt > 0 {
		xt = 1
	}
	if nu > 0 {
		xu = 1
	}
	if nn > 0 {
		xn = 1
	}

	switch {
	case n <= 10:
		return Unknown, false
	case n > 2000 && nn == n:
		return DNA, true
	case n1 > 0:
		return Amino, true
	case float64(n-(n2+nt+nn)) <= 0.02*float64(n) && x2+xt == 4:
		return DNA, true
	case float64(n-(n2+nu+nn)) <= 0.02*float64(n) && x2+xu == 4:
		return RNA, true
	case float64(n-(n1+n2+n3+nn+nt+nx)) <= 0.02*float64(n) && n3 > n2 && x1+x2+x3+xn+xt >= 15:
		return Amino, true
	default:
		return Unknown, false
	}
}
