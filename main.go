// elAlign: a front end for aligning and sorting sequencing reads.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elalign/blob/master/LICENSE.txt>.

// elAlign aligns paired-end sequencing reads against a reference and
// sorts the result, by driving bwa, bwa-postalt.js, and samtools.
//
// Please see https://github.com/exascience/elalign for a documentation
// of the tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/exascience/elalign/cmd"
	"github.com/exascience/elalign/pipeline"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: align, stream, validate-metadata, check-tools")
	fmt.Fprint(os.Stderr, "\n", cmd.AlignHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.StreamHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.ValidateMetadataHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.CheckToolsHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.DeprecatedAlignHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprintln(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	switch os.Args[1] {
	case "align":
		err = cmd.Align(ctx)
	case "stream":
		err = cmd.Stream(ctx)
	case "validate-metadata":
		err = cmd.ValidateMetadata(ctx)
	case "check-tools":
		err = cmd.CheckTools(ctx)
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		err = cmd.DeprecatedAlign(ctx)
	}
	stop()
	if err != nil {
		log.Println(err)
		os.Exit(pipeline.ExitCode(err))
	}
}
