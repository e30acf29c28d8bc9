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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/exascience/pargo/parallel"
	"github.com/google/uuid"

	"github.com/exascience/elalign/internal"
)

// A Runner executes descriptors with a fixed set of tools.
type Runner struct {
	Tools Tools

	// Stderr receives the standard error of all tools. Defaults to
	// os.Stderr.
	Stderr io.Writer

	// DryRun only logs the command lines.
	DryRun bool

	// Timed logs the elapsed time of each stage.
	Timed bool
}

// NewRunner returns a runner for the given tools.
func NewRunner(tools Tools) *Runner {
	return &Runner{Tools: tools, Stderr: os.Stderr}
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// Run executes the pipeline for d in the given variant. On success the
// sorted alignments are in d.Output. On failure the returned error
// identifies the failing stage, and is a *StageError if a tool
// returned a non-zero exit status.
func (r *Runner) Run(ctx context.Context, d *Descriptor, v Variant) error {
	if r.DryRun {
		for _, cmd := range Plan(r.Tools, d, v) {
			log.Printf("%v: %v\n", cmd.Stage, internal.QuoteArgs(cmd.Args))
		}
		return nil
	}
	if err := r.Tools.Check(v); err != nil {
		return err
	}
	switch v {
	case PostAlt:
		return r.runPostAlt(ctx, d)
	case Stream:
		return r.runStream(ctx, d)
	default:
		return fmt.Errorf("unknown pipeline variant %v", v)
	}
}

// waitDelay bounds how long Wait keeps copying a tool's output after the
// tool exits. Children of a wrapper script may hold the pipes open.
const waitDelay = time.Second

func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = r.stderr()
	cmd.WaitDelay = waitDelay
	return cmd
}

// exitErr drops exec.ErrWaitDelay, which Wait only reports for tools
// that exited successfully.
func exitErr(err error) error {
	if errors.Is(err, exec.ErrWaitDelay) {
		return nil
	}
	return err
}

func (r *Runner) timed(stage Stage, f func() error) error {
	if !r.Timed {
		return f()
	}
	log.Println("Starting", stage, "stage.")
	start := time.Now()
	err := f()
	log.Println("Elapsed time for", stage, "stage:", time.Since(start))
	return err
}

// runToFile runs a single stage with its standard output redirected to
// the named file.
func (r *Runner) runToFile(ctx context.Context, stage Stage, args []string, output string) error {
	return r.timed(stage, func() (err error) {
		log.Printf("Running %v stage: %v\n", stage, internal.QuoteArgs(args))
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			if nerr := f.Close(); err == nil && nerr != nil {
				err = nerr
			}
		}()
		cmd := r.command(ctx, args)
		cmd.Stdout = f
		if err = exitErr(cmd.Run()); err != nil {
			return newStageError(stage, args, err)
		}
		return nil
	})
}

func (r *Runner) runPostAlt(ctx context.Context, d *Descriptor) error {
	if err := os.MkdirAll(d.TempDir, 0700); err != nil {
		return err
	}
	if err := r.runToFile(ctx, StageAlign, AlignerArgs(r.Tools, d, PostAlt), d.AlignedPath()); err != nil {
		return err
	}
	if err := r.runToFile(ctx, StagePostAlt, PostAltArgs(r.Tools, d), d.PatchedPath()); err != nil {
		return err
	}
	args := SorterArgs(r.Tools, d, d.PatchedPath(), d.Output)
	return r.timed(StageSort, func() error {
		log.Printf("Running %v stage: %v\n", StageSort, internal.QuoteArgs(args))
		cmd := r.command(ctx, args)
		cmd.Stdout = r.stderr()
		if err := exitErr(cmd.Run()); err != nil {
			_ = os.Remove(d.Output)
			return newStageError(StageSort, args, err)
		}
		return nil
	})
}

// scratchPath returns a unique name next to output that keeps its
// extension, so the sorter still infers the output format from it.
func scratchPath(output string) string {
	dir, base := filepath.Split(output)
	return filepath.Join(dir, "."+uuid.NewString()+"-"+base)
}

func (r *Runner) runStream(ctx context.Context, d *Descriptor) error {
	return r.timed("align+sort", func() error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		alignArgs := AlignerArgs(r.Tools, d, Stream)
		log.Printf("Running %v stage: %v\n", StageAlign, internal.QuoteArgs(alignArgs))
		pr, pw, err := os.Pipe()
		if err != nil {
			return err
		}
		defer pr.Close()
		aligner := r.command(ctx, alignArgs)
		aligner.Stdout = pw
		if err := aligner.Start(); err != nil {
			_ = pw.Close()
			return newStageError(StageAlign, alignArgs, err)
		}
		_ = pw.Close()

		// The sorter only starts once the aligner has produced output.
		input := bufio.NewReader(pr)
		if _, perr := input.Peek(1); perr != nil {
			if err := exitErr(aligner.Wait()); err != nil {
				return newStageError(StageAlign, alignArgs, err)
			}
			if perr == io.EOF {
				return ErrNoAlignerOutput
			}
			return perr
		}

		scratch := scratchPath(d.Output)
		sortArgs := SorterArgs(r.Tools, d, "-", scratch)
		log.Printf("Running %v stage: %v\n", StageSort, internal.QuoteArgs(SorterArgs(r.Tools, d, "-", d.Output)))
		sorter := r.command(ctx, sortArgs)
		sorter.Stdin = input
		sorter.Stdout = r.stderr()
		if err := sorter.Start(); err != nil {
			cancel()
			_ = aligner.Wait()
			return newStageError(StageSort, sortArgs, err)
		}

		var (
			once  sync.Once
			first error
		)
		fail := func(err error) {
			once.Do(func() {
				first = err
				cancel()
			})
		}
		parallel.Do(
			func() {
				if err := exitErr(aligner.Wait()); err != nil {
					fail(newStageError(StageAlign, alignArgs, err))
				}
			},
			func() {
				if err := exitErr(sorter.Wait()); err != nil {
					fail(newStageError(StageSort, sortArgs, err))
				}
			},
		)
		if first != nil {
			_ = os.Remove(scratch)
			return first
		}
		if err := os.Rename(scratch, d.Output); err != nil {
			_ = os.Remove(scratch)
			return err
		}
		return nil
	})
}

// ExitCode returns the process exit code that corresponds to err: 0
// for nil, the tool's exit status for a *StageError that has one, and
// 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) && stageErr.ExitCode > 0 {
		return stageErr.ExitCode
	}
	return 1
}
