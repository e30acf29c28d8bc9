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
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/exascience/elalign/metadata"
	"github.com/exascience/elalign/pipeline"
	"github.com/exascience/elalign/publish"
	"github.com/exascience/elalign/readgroup"
)

// alignOptions holds the settings shared by the align, stream, and
// positional commands.
type alignOptions struct {
	desc         pipeline.Descriptor
	metadataYaml string
	tools        pipeline.Tools
	dryRun       bool
	verify       bool
	publish      bool
	timed        bool
	profile      string
	logPath      string
}

func (o *alignOptions) defineFlags(flags *flag.FlagSet, v pipeline.Variant) {
	o.tools = pipeline.DefaultTools()
	flags.StringVar(&o.desc.Sample, "sample", "", "sample identifier")
	flags.StringVar(&o.desc.Library, "library", "", "library identifier")
	flags.StringVar(&o.desc.Cell, "cell", "", "cell identifier")
	flags.StringVar(&o.desc.Lane, "lane", "", "lane identifier")
	flags.StringVar(&o.desc.Flowcell, "flowcell", "", "flowcell identifier")
	flags.StringVar(&o.desc.Centre, "centre", "", "sequencing centre")
	flags.IntVar(&o.desc.Threads, "threads", 1, "number of threads for the aligner and the sorter")
	if v == pipeline.PostAlt {
		flags.StringVar(&o.desc.TempDir, "tmp-dir", "", "directory for intermediate files")
		flags.StringVar(&o.desc.AltFile, "alt-file", "", "ALT-contig index for the post-alt patcher (default reference.alt)")
		flags.StringVar(&o.tools.PostAlt, "postalt", o.tools.PostAlt, "post-alt patcher executable")
	} else {
		flags.StringVar(&o.desc.TempDir, "tmp-dir", "", "directory for the sorter's temporary files")
	}
	flags.StringVar(&o.metadataYaml, "metadata-yaml", "", "run sheet to complete sample, library, and centre from")
	flags.StringVar(&o.tools.Aligner, "bwa", o.tools.Aligner, "aligner executable")
	flags.StringVar(&o.tools.Sorter, "samtools", o.tools.Sorter, "sorter executable")
	flags.BoolVar(&o.dryRun, "dry-run", false, "only print the commands that would be executed")
	flags.BoolVar(&o.verify, "verify", false, "check the read group in the output header")
	flags.BoolVar(&o.publish, "publish", false, "upload the output to the configured object store")
	flags.BoolVar(&o.timed, "timed", false, "measure the runtime")
	flags.StringVar(&o.profile, "profile", "", "write a runtime profile to the specified file")
	flags.StringVar(&o.logPath, "log-path", "", "write log files to the specified directory")
}

func (o *alignOptions) sanityChecks(v pipeline.Variant) (sanityChecksFailed bool) {
	if !checkExist("", o.desc.Fastq1) {
		sanityChecksFailed = true
	}
	if !checkExist("", o.desc.Fastq2) {
		sanityChecksFailed = true
	}
	if !checkExist("", o.desc.Reference) {
		sanityChecksFailed = true
	}
	if !checkCreate("", o.desc.Output) {
		sanityChecksFailed = true
	}
	if v == pipeline.PostAlt {
		if o.desc.TempDir == "" {
			sanityChecksFailed = true
			log.Println("Error: Missing --tmp-dir, required for intermediate files.")
		} else if !o.dryRun && !checkDir("--tmp-dir", o.desc.TempDir) {
			sanityChecksFailed = true
		}
		if o.desc.AltFile != "" && !checkExist("--alt-file", o.desc.AltFile) {
			sanityChecksFailed = true
		}
	} else if o.desc.TempDir != "" && !o.dryRun && !checkDir("--tmp-dir", o.desc.TempDir) {
		sanityChecksFailed = true
	}
	if o.metadataYaml != "" && !checkExist("--metadata-yaml", o.metadataYaml) {
		sanityChecksFailed = true
	}
	if o.profile != "" && !checkCreate("--profile", o.profile) {
		sanityChecksFailed = true
	}
	if o.desc.Threads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid threads: ", o.desc.Threads)
	}
	if o.verify && o.dryRun {
		log.Println("Warning: --verify is ignored with --dry-run.")
	}
	return sanityChecksFailed
}

// commandLine echoes the effective command, in the style it was called.
func (o *alignOptions) commandLine(program, command string, v pipeline.Variant) string {
	postAlt := ""
	if v == pipeline.PostAlt {
		postAlt = o.tools.PostAlt
	}
	var buf bytes.Buffer
	fmt.Fprint(&buf, program, " ", command, " ", o.desc.Fastq1, " ", o.desc.Fastq2, " ", o.desc.Reference, " ", o.desc.Output)
	for _, f := range []struct{ name, value string }{
		{"sample", o.desc.Sample},
		{"library", o.desc.Library},
		{"cell", o.desc.Cell},
		{"lane", o.desc.Lane},
		{"flowcell", o.desc.Flowcell},
		{"centre", o.desc.Centre},
		{"tmp-dir", o.desc.TempDir},
		{"alt-file", o.desc.AltFile},
		{"metadata-yaml", o.metadataYaml},
		{"bwa", o.tools.Aligner},
		{"postalt", postAlt},
		{"samtools", o.tools.Sorter},
		{"profile", o.profile},
		{"log-path", o.logPath},
	} {
		if f.value != "" {
			fmt.Fprint(&buf, " --", f.name, " ", f.value)
		}
	}
	fmt.Fprint(&buf, " --threads ", o.desc.Threads)
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"dry-run", o.dryRun},
		{"verify", o.verify},
		{"publish", o.publish},
		{"timed", o.timed},
	} {
		if f.set {
			fmt.Fprint(&buf, " --", f.name)
		}
	}
	return buf.String()
}

// descriptor completes the settings from the run sheet, if any, and
// validates them for the variant.
func (o *alignOptions) descriptor(v pipeline.Variant) (*pipeline.Descriptor, error) {
	if o.metadataYaml != "" {
		sheet, err := metadata.Load(o.metadataYaml)
		if err != nil {
			return nil, err
		}
		if err := sheet.Complete(&o.desc); err != nil {
			return nil, err
		}
	}
	return pipeline.NewDescriptor(o.desc, v)
}

// execute runs the pipeline and the optional verification and upload.
func (o *alignOptions) execute(ctx context.Context, v pipeline.Variant) error {
	desc, err := o.descriptor(v)
	if err != nil {
		return err
	}

	var publishConfig publish.Config
	if o.publish && !o.dryRun {
		if publishConfig, err = publish.ConfigFromEnv(); err != nil {
			return err
		}
	}

	log.Println("Read group:", readgroup.HeaderLine(desc.ReadGroup(v)))

	runner := pipeline.NewRunner(o.tools)
	runner.Stderr = log.Writer()
	runner.DryRun = o.dryRun
	runner.Timed = o.timed

	return timedRun(o.timed, o.profile, fmt.Sprint("Running ", v, " pipeline."), func() error {
		if err := runner.Run(ctx, desc, v); err != nil {
			return err
		}
		if o.dryRun {
			return nil
		}
		if o.verify {
			if err := pipeline.VerifyOutput(desc.Output, desc.ReadGroupID(v)); err != nil {
				return err
			}
			log.Println("Verified read group", desc.ReadGroupID(v), "in", desc.Output)
		}
		if o.publish {
			client, err := publish.NewClient(publishConfig)
			if err != nil {
				return err
			}
			if _, err := publish.Upload(ctx, client, publishConfig, desc.Output); err != nil {
				return err
			}
		}
		return nil
	})
}
