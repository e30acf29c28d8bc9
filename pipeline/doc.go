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

// Package pipeline runs the external tools that turn a pair of FASTQ
// files into a sorted alignment file.
//
// A run is described by a Descriptor and executed in one of two
// variants. The PostAlt variant materializes the aligner output in a
// temporary directory, passes it through the post-alt patcher, and
// sorts the patched file. The Stream variant pipes the aligner output
// directly into the sorter without writing intermediate files.
//
// The tools are never resolved implicitly beyond exec.LookPath on the
// configured names: see Tools.
package pipeline
