package msa

import "bytes"

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func tracksEqual(a, b [][]byte) bool {
	// nil and all-nil are the same absent track
	an, bn := 0, 0
	for _, t := range a {
		an += len(t)
	}
	for _, t := range b {
		bn += len(t)
	}
	if an == 0 && bn == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// weightsEqual compares per-sequence weights, treating absent
// trailing entries as the default weight 1.0.
func weightsEqual(a, b []float64) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 1.0, 1.0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return false
		}
	}
	return true
}

// valuesEqual compares per-sequence tag values, treating absent
// trailing entries as unset.
func valuesEqual(a, b []string) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := "", ""
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return false
		}
	}
	return true
}

func (m *MSA) grTracks(tag string) ([][]byte, bool) {
	for _, entry := range m.GR {
		if *entry.Key == tag {
			return entry.Value.([][]byte), true
		}
	}
	return nil, false
}

// Equal compares two alignments for content equality: rows, names,
// and annotation, ignoring formatting differences. Both alignments
// must be in the same mode (text or digital over the same alphabet)
// to compare equal.
func (m *MSA) Equal(other *MSA) bool {
	if m.Nseq() != other.Nseq() || m.Alen != other.Alen {
		return false
	}
	if (m.Alphabet == nil) != (other.Alphabet == nil) {
		return false
	}
	if m.Alphabet != nil && m.Alphabet.Type != other.Alphabet.Type {
		return false
	}
	if m.Name != other.Name || m.Accession != other.Accession || m.Desc != other.Desc {
		return false
	}
	if !stringsEqual(m.Authors, other.Authors) || !stringsEqual(m.Comments, other.Comments) {
		return false
	}
	if m.HasGA != other.HasGA || m.CutoffGA != other.CutoffGA ||
		m.HasNC != other.HasNC || m.CutoffNC != other.CutoffNC ||
		m.HasTC != other.HasTC || m.CutoffTC != other.CutoffTC {
		return false
	}
	if m.HasWeights != other.HasWeights {
		return false
	}
	if m.HasWeights && !weightsEqual(m.Weights, other.Weights) {
		return false
	}
	if !stringsEqual(m.Names, other.Names) {
		return false
	}
	for i := range m.Seqs {
		if !bytes.Equal(m.Seqs[i], other.Seqs[i]) {
			return false
		}
	}
	if !bytes.Equal(m.RF, other.RF) ||
		!bytes.Equal(m.SSCons, other.SSCons) ||
		!bytes.Equal(m.SACons, other.SACons) ||
		!bytes.Equal(m.PPCons, other.PPCons) {
		return false
	}
	if !tracksEqual(m.SS, other.SS) || !tracksEqual(m.SA, other.SA) || !tracksEqual(m.PP, other.PP) {
		return false
	}
	if len(m.GF) != len(other.GF) || len(m.GS) != len(other.GS) {
		return false
	}
	for _, entry := range m.GF {
		var found []string
		for _, oentry := range other.GF {
			if *oentry.Key == *entry.Key {
				found = oentry.Value.([]string)
				break
			}
		}
		if !stringsEqual(entry.Value.([]string), found) {
			return false
		}
	}
	for _, entry := range m.GS {
		var found []string
		for _, oentry := range other.GS {
			if *oentry.Key == *entry.Key {
				found = oentry.Value.([]string)
				break
			}
		}
		if !valuesEqual(entry.Value.([]string), found) {
			return false
		}
	}
	if len(m.GC) != len(other.GC) || len(m.GR) != len(other.GR) {
		return false
	}
	for _, entry := range m.GC {
		var found []byte
		for _, oentry := range other.GC {
			if *oentry.Key == *entry.Key {
				found = oentry.Value.([]byte)
				break
			}
		}
		if !bytes.Equal(entry.Value.([]byte), found) {
			return false
		}
	}
	for _, entry := range m.GR {
		otracks, ok := other.grTracks(*entry.Key)
		if !ok || !tracksEqual(entry.Value.([][]byte), otracks) {
			return false
		}
	}
	return true
}
