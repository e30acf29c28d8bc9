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

package pipeline

import "strconv"

// AlignerArgs returns the aligner command line. Its standard output is
// the alignment stream.
func AlignerArgs(tools Tools, d *Descriptor, v Variant) []string {
	return []string{
		tools.Aligner, "mem",
		"-t", strconv.Itoa(d.Threads),
		"-R", d.ReadGroupTag(v),
		d.Reference, d.Fastq1, d.Fastq2,
	}
}

// PostAltArgs returns the patcher command line for the materialized
// aligner output. Its standard output is the patched alignment stream.
func PostAltArgs(tools Tools, d *Descriptor) []string {
	return []string{tools.PostAlt, d.AltFile, d.AlignedPath()}
}

// SorterArgs returns the sorter command line reading input ("-" for
// standard input) and writing output.
func SorterArgs(tools Tools, d *Descriptor, input, output string) []string {
	args := []string{tools.Sorter, "sort", "-@", strconv.Itoa(d.Threads)}
	if prefix := d.SortPrefix(); prefix != "" {
		args = append(args, "-T", prefix)
	}
	return append(args, "-o", output, input)
}

// A StageCommand is a stage together with its command line.
type StageCommand struct {
	Stage Stage
	Args  []string
}

// Plan returns the command lines of all stages of a run, in order.
func Plan(tools Tools, d *Descriptor, v Variant) []StageCommand {
	if v == PostAlt {
		return []StageCommand{
			{StageAlign, AlignerArgs(tools, d, v)},
			{StagePostAlt, PostAltArgs(tools, d)},
			{StageSort, SorterArgs(tools, d, d.PatchedPath(), d.Output)},
		}
	}
	return []StageCommand{
		{StageAlign, AlignerArgs(tools, d, v)},
		{StageSort, SorterArgs(tools, d, "-", d.Output)},
	}
}
