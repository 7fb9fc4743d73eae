package msafile

import "bytes"

// A lineScanner splits one input line into whitespace-delimited
// fields, keeping track of column positions for the formats whose
// semantics depend on them.
//
// The zero lineScanner is valid and empty.
type lineScanner struct {
	data  []byte
	index int
}

func (sc *lineScanner) reset(line []byte) {
	sc.data = line
	sc.index = 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func (sc *lineScanner) skipSpace() {
	for sc.index < len(sc.data) && isSpace(sc.data[sc.index]) {
		sc.index++
	}
}

// fieldAt returns the next field along with the column at which it
// starts.
func (sc *lineScanner) fieldAt() (tok []byte, start int, ok bool) {
	sc.skipSpace()
	if sc.index >= len(sc.data) {
		return nil, sc.index, false
	}
	start = sc.index
	for sc.index < len(sc.data) && !isSpace(sc.data[sc.index]) {
		sc.index++
	}
	return sc.data[start:sc.index], start, true
}

func (sc *lineScanner) field() ([]byte, bool) {
	tok, _, ok := sc.fieldAt()
	return tok, ok
}

// rest returns everything that has not been scanned yet, with leading
// and trailing whitespace trimmed.
func (sc *lineScanner) rest() []byte {
	sc.skipSpace()
	r := sc.data[sc.index:]
	sc.index = len(sc.data)
	return bytes.TrimRight(r, " \t")
}
