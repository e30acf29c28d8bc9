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

// Stage identifies a step of the pipeline.
type Stage string

const (
	StageAlign   Stage = "align"
	StagePostAlt Stage = "postalt"
	StageSort    Stage = "sort"
)

// ErrNoAlignerOutput is returned by the Stream variant when the aligner
// exits successfully without writing anything.
var ErrNoAlignerOutput = errors.New("aligner produced no output")

// A StageError reports a failed stage. ExitCode is the exit status of
// the tool, or -1 if it did not start or was killed by a signal.
type StageError struct {
	Stage    Stage
	Args     []string
	ExitCode int
	Err      error
}

func newStageError(stage Stage, args []string, err error) *StageError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &StageError{Stage: stage, Args: args, ExitCode: code, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v stage failed (%v): %v", e.Stage, internal.QuoteArgs(e.Args), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
