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
	"path/filepath"

	"github.com/google/uuid"

	"github.com/alignio/alignio/internal"
	"github.com/alignio/alignio/msafile"
)

// ConvertHelp is the help string for this command.
const ConvertHelp = "convert parameters:\n" +
	"alignio convert alignment-file output-file\n" +
	"[--from format]\n" +
	"[--to format]\n" +
	"[--alphabet dna | rna | amino]\n" +
	"[--detect-alphabet]\n" +
	"[--env var]\n" +
	"[--log-path path]\n"

// Convert implements the alignio convert command. It reads every
// alignment record from the input and writes them to the output in the
// requested format. Input and output may name the same file; the
// output is then staged in a temporary file and renamed over the input
// when the conversion has fully succeeded.
func Convert() error {
	var (
		from, to, alphabetName string
		detectAlphabet         bool
		env, logPath           string
	)

	var flags flag.FlagSet
	flags.StringVar(&from, "from", "", "input format (guessed when omitted)")
	flags.StringVar(&to, "to", "", "output format (guessed from the output filename when omitted)")
	flags.StringVar(&alphabetName, "alphabet", "", "read sequences digitally over this alphabet")
	flags.BoolVar(&detectAlphabet, "detect-alphabet", false, "detect the alphabet and read sequences digitally")
	flags.StringVar(&env, "env", "", "environment variable with a search path for the input file")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	parseFlags(flags, 4, ConvertHelp)

	input := getFilename(os.Args[2], ConvertHelp)
	output := getFilename(os.Args[3], ConvertHelp)

	setLogOutput(logPath)

	inFormat, err := parseFormatFlag("--from", from)
	if err != nil {
		return err
	}
	outFormat, err := parseFormatFlag("--to", to)
	if err != nil {
		return err
	}
	if outFormat == msafile.Unknown {
		if output == "-" {
			return fmt.Errorf("can't determine output format for standard output; use the --to option")
		}
		if outFormat = msafile.FormatFromSuffix(output); outFormat == msafile.Unknown {
			return fmt.Errorf("can't determine output format; use the --to option or a recognized filename suffix")
		}
	}
	abc, err := parseAlphabetFlag(alphabetName)
	if err != nil {
		return err
	}

	f, err := msafile.Open(input, inFormat, msafile.Options{
		Alphabet:       abc,
		DetectAlphabet: detectAlphabet,
		Env:            env,
	})
	if err != nil {
		return err
	}
	defer f.Close()

	target := output
	inPlace := false
	var out *os.File
	if output == "-" {
		out = os.Stdout
	} else {
		if absIn, err1 := internal.FullPathname(input); err1 == nil && input != "-" {
			if absOut, err2 := internal.FullPathname(output); err2 == nil && absIn == absOut {
				inPlace = true
				target = filepath.Join(filepath.Dir(absOut), uuid.New().String()+filepath.Base(absOut))
			}
		}
		out = internal.FileCreate(target)
	}
	abort := func() {
		if out != os.Stdout {
			_ = out.Close()
			if inPlace {
				_ = os.Remove(target)
			}
		}
	}
	nrecords := 0
	for {
		m, err := f.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			abort()
			return err
		}
		if err := msafile.Write(out, m, outFormat); err != nil {
			abort()
			return err
		}
		nrecords++
	}
	if out != os.Stdout {
		internal.Close(out)
	}
	if nrecords == 0 {
		if inPlace {
			_ = os.Remove(target)
		}
		return fmt.Errorf("no alignment records found in %v", input)
	}
	if nrecords > 1 && outFormat != msafile.Stockholm {
		fmt.Fprintf(os.Stderr, "warning: %d records written in %v format; only Stockholm separates records unambiguously\n", nrecords, outFormat)
	}
	if inPlace {
		return os.Rename(target, output)
	}
	return nil
}
