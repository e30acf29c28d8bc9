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
	"errors"
	"fmt"
	"os/exec"

	"github.com/exascience/elalign/internal"
)

// ErrToolNotFound is returned by Tools.Check when a configured tool
// cannot be resolved.
var ErrToolNotFound = errors.New("tool not found")

// Tools holds the paths of the external programs. A bare name is
// resolved with exec.LookPath when the stage runs.
type Tools struct {
	Aligner string
	PostAlt string
	Sorter  string
}

// DefaultTools returns bwa, bwa-postalt.js, and samtools, overridden by
// ELALIGN_BWA, ELALIGN_POSTALT, and ELALIGN_SAMTOOLS respectively.
func DefaultTools() Tools {
	return Tools{
		Aligner: internal.EnvString("ELALIGN_BWA", "bwa"),
		PostAlt: internal.EnvString("ELALIGN_POSTALT", "bwa-postalt.js"),
		Sorter:  internal.EnvString("ELALIGN_SAMTOOLS", "samtools"),
	}
}

// A Tool names a stage and the program that implements it.
type Tool struct {
	Stage Stage
	Path  string
}

// Required returns the tools the variant invokes, in invocation order.
func (t Tools) Required(v Variant) []Tool {
	if v == PostAlt {
		return []Tool{{StageAlign, t.Aligner}, {StagePostAlt, t.PostAlt}, {StageSort, t.Sorter}}
	}
	return []Tool{{StageAlign, t.Aligner}, {StageSort, t.Sorter}}
}

// Check resolves all tools the variant needs and reports the first one
// that cannot be found.
func (t Tools) Check(v Variant) error {
	for _, tool := range t.Required(v) {
		if err := tool.Check(); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the path exec.LookPath finds for the tool.
func (tool Tool) Resolve() (string, error) {
	if tool.Path == "" {
		return "", fmt.Errorf("%w: no program configured for the %v stage", ErrToolNotFound, tool.Stage)
	}
	path, err := exec.LookPath(tool.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v for the %v stage: %v", ErrToolNotFound, tool.Path, tool.Stage, err)
	}
	return path, nil
}

// Check resolves the tool and only reports the error.
func (tool Tool) Check() error {
	_, err := tool.Resolve()
	return err
}
