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

	"github.com/exascience/elalign/pipeline"
)

// StreamHelp is the help string for this command.
const StreamHelp = "\nstream parameters:\n" +
	"elalign stream fastq1 fastq2 reference output\n" +
	"--sample id\n" +
	"--library id\n" +
	"--lane id\n" +
	"[--cell id] (run sheet lookup only)\n" +
	"[--flowcell id] (run sheet lookup only)\n" +
	"[--centre name]\n" +
	"[--threads nr]\n" +
	"[--tmp-dir path]\n" +
	"[--metadata-yaml file]\n" +
	"[--bwa path]\n" +
	"[--samtools path]\n" +
	"[--dry-run]\n" +
	"[--verify]\n" +
	"[--publish]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

// Stream implements the elalign stream command: the aligner output is
// piped into the sorter without intermediate files.
func Stream(ctx context.Context) error {
	return alignCommand(ctx, "stream", StreamHelp, pipeline.Stream)
}
