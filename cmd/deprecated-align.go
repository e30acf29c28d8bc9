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

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/exascience/elalign/pipeline"
)

// DeprecatedAlignHelp is the help string for the positional form.
const DeprecatedAlignHelp = "Positional parameters: (deprecated, please use the align or stream command instead)\n" +
	"elalign fastq1 fastq2 reference output sample library cell lane flowcell centre threads [tmp-dir]\n" +
	"With tmp-dir, runs the align command; without, runs the stream command.\n"

// parsePositional maps the positional arguments onto align options. A
// trailing temporary directory selects the PostAlt variant.
func parsePositional(args []string) (options alignOptions, v pipeline.Variant, err error) {
	switch len(args) {
	case 11:
		v = pipeline.Stream
	case 12:
		v = pipeline.PostAlt
		options.desc.TempDir = args[11]
	default:
		return options, v, fmt.Errorf("incorrect number of parameters: expected 11 or 12, got %v", len(args))
	}
	threads, err := strconv.Atoi(args[10])
	if err != nil {
		return options, v, fmt.Errorf("invalid threads %q: %w", args[10], err)
	}
	options.desc.Fastq1 = args[0]
	options.desc.Fastq2 = args[1]
	options.desc.Reference = args[2]
	options.desc.Output = args[3]
	options.desc.Sample = args[4]
	options.desc.Library = args[5]
	options.desc.Cell = args[6]
	options.desc.Lane = args[7]
	options.desc.Flowcell = args[8]
	options.desc.Centre = args[9]
	options.desc.Threads = threads
	options.tools = pipeline.DefaultTools()
	return options, v, nil
}

/*
DeprecatedAlign parses the command line in the positional style of the
shell scripts elalign replaces, for backwards compatibility. This
command is deprecated and will be removed at a later stage.
*/
func DeprecatedAlign(ctx context.Context) error {
	options, v, err := parsePositional(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, DeprecatedAlignHelp)
		os.Exit(1)
	}
	if err := setLogOutput(""); err != nil {
		return err
	}
	log.Println("Warning: Calling elalign without a command is deprecated. Please use the align or stream command instead.")

	if options.sanityChecks(v) {
		fmt.Fprint(os.Stderr, DeprecatedAlignHelp)
		os.Exit(1)
	}

	command := "stream"
	if v == pipeline.PostAlt {
		command = "align"
	}
	log.Println("Executing command:\n", options.commandLine(os.Args[0], command, v))

	return options.execute(ctx, v)
}
