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
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/exascience/elalign/pipeline"
)

// AlignHelp is the help string for this command.
const AlignHelp = "\nalign parameters:\n" +
	"elalign align fastq1 fastq2 reference output\n" +
	"--sample id\n" +
	"--library id\n" +
	"--lane id\n" +
	"--tmp-dir path\n" +
	"[--cell id]\n" +
	"[--flowcell id]\n" +
	"[--centre name]\n" +
	"[--threads nr]\n" +
	"[--alt-file file]\n" +
	"[--metadata-yaml file]\n" +
	"[--bwa path]\n" +
	"[--postalt path]\n" +
	"[--samtools path]\n" +
	"[--dry-run]\n" +
	"[--verify]\n" +
	"[--publish]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

// Align implements the elalign align command: align, patch ALT-contig
// hits, then sort, with intermediate files in the temporary directory.
func Align(ctx context.Context) error {
	return alignCommand(ctx, "align", AlignHelp, pipeline.PostAlt)
}

func alignCommand(ctx context.Context, command, help string, v pipeline.Variant) error {
	var (
		options alignOptions
		flags   flag.FlagSet
	)
	options.defineFlags(&flags, v)

	parseFlags(&flags, 6, help)

	options.desc.Fastq1 = getFilename(os.Args[2], help)
	options.desc.Fastq2 = getFilename(os.Args[3], help)
	options.desc.Reference = getFilename(os.Args[4], help)
	options.desc.Output = getFilename(os.Args[5], help)

	if err := setLogOutput(options.logPath); err != nil {
		return err
	}

	// sanity checks

	if options.sanityChecks(v) {
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}

	log.Println("Executing command:\n", options.commandLine(os.Args[0], command, v))

	return options.execute(ctx, v)
}
