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
	"errors"
	"fmt"
)

// Open-time errors.
var (
	// ErrNoFormat reports that the file format could not be determined.
	ErrNoFormat = errors.New("couldn't determine alignment file format")

	// ErrNoAlphabet reports that the biological alphabet could not be
	// determined.
	ErrNoAlphabet = errors.New("couldn't determine alphabet (DNA, RNA, or protein)")
)

// A ParseError reports a structural violation in an alignment file:
// what went wrong, on which 1-based input line, and in which file.
// After a ParseError the file is positioned at the start of the line
// following the offender.
type ParseError struct {
	File    string
	Line    int64
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (f *File) parseError(format string, args ...interface{}) error {
	return f.parseErrorAt(f.lineNum, format, args...)
}

// parseErrorAt reports a violation on an earlier line. The parsers
// that reason about a whole block of lines at once use it to point at
// the offending line rather than the end of the block.
func (f *File) parseErrorAt(line int64, format string, args ...interface{}) error {
	return &ParseError{File: f.bf.Name(), Line: line, Message: fmt.Sprintf(format, args...)}
}
