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

package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/alignio/alignio/msafile"
)

// StatsHelp is the help string for this command.
const StatsHelp = "stats parameters:\n" +
	"alignio stats alignment-file\n" +
	"[--from format]\n" +
	"[--env var]\n" +
	"[--log-path path]\n"

// Stats implements the alignio stats command. It prints the detected
// format and alphabet of the input, and per record the name, number of
// sequences, number of columns, and residue counts.
func Stats() error {
	var from, env, logPath string

	var flags flag.FlagSet
	flags.StringVar(&from, "from", "", "input format (guessed when omitted)")
	flags.StringVar(&env, "env", "", "environment variable with a search path for the input file")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	parseFlags(flags, 3, StatsHelp)

	input := getFilename(os.Args[2], StatsHelp)

	setLogOutput(logPath)

	inFormat, err := parseFormatFlag("--from", from)
	if err != nil {
		return err
	}
	f, err := msafile.Open(input, inFormat, msafile.Options{DetectAlphabet: true, Env: env})
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("file:     %v\n", input)
	fmt.Printf("format:   %v\n", f.Format())
	fmt.Printf("alphabet: %v\n", f.Alphabet().Type)

	for nrecords := 1; ; nrecords++ {
		m, err := f.Read()
		if err == io.EOF {
			if nrecords == 1 {
				return fmt.Errorf("no alignment records found in %v", input)
			}
			return nil
		}
		if err != nil {
			return err
		}
		name := "-"
		if m.Name != "" {
			name = m.Name
		}
		var nres int64
		for _, seq := range m.Seqs {
			for _, c := range seq {
				if m.Alphabet.IsResidue(c) {
					nres++
				}
			}
		}
		fmt.Printf("record %d: name %v, %d sequences, %d columns, %d residues\n",
			nrecords, name, m.Nseq(), m.Alen, nres)
	}
}
