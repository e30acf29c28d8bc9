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

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"

	"github.com/exascience/elalign/utils"
)

// ErrReadGroupMissing is returned by VerifyOutput when the output
// header does not declare the expected read group.
var ErrReadGroupMissing = errors.New("read group missing from output header")

// ErrTruncatedOutput is returned by VerifyOutput when the output is not
// a complete BGZF file.
var ErrTruncatedOutput = errors.New("output is not a complete BAM file")

// VerifyOutput opens the BAM file at path, checks that it is complete,
// and that its header declares a read group with the given ID.
func VerifyOutput(path, id string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if ok, err := utils.IsGzip(bufio.NewReader(f)); err != nil && err != io.EOF {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %v is not compressed", ErrTruncatedOutput, path)
	}
	if ok, err := utils.HasBGZFEOF(f); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %v has no end-of-file marker", ErrTruncatedOutput, path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	br, err := bam.NewReader(f, 1)
	if err != nil {
		return fmt.Errorf("reading header of %v: %w", path, err)
	}
	defer br.Close()
	for _, rg := range br.Header().RGs() {
		if rg.Name() == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %v has no read group %q", ErrReadGroupMissing, path, id)
}
