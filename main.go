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

// alignio is a tool and library for reading and writing multiple
// sequence alignment files in Stockholm/Pfam, SELEX, A2M, aligned
// FASTA, Clustal, PHYLIP, and PSI-BLAST formats.
//
// Please see https://github.com/alignio/alignio for a documentation of
// the tool, and https://godoc.org/github.com/alignio/alignio for the
// API documentation.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alignio/alignio/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: convert, stats")
	fmt.Fprint(os.Stderr, "\n", cmd.ConvertHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.StatsHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = cmd.Convert()
	case "stats":
		err = cmd.Stats()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		log.Printf("Unknown command %v.\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
