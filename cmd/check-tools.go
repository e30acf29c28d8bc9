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

// CheckToolsHelp is the help string for this command.
const CheckToolsHelp = "\ncheck-tools parameters:\n" +
	"elalign check-tools\n" +
	"[--bwa path]\n" +
	"[--postalt path]\n" +
	"[--samtools path]\n"

// checkTools resolves every tool and returns the number of tools that
// could not be found.
func checkTools(tools pipeline.Tools) (missing int) {
	for _, tool := range tools.Required(pipeline.PostAlt) {
		path, err := tool.Resolve()
		if err != nil {
			log.Println("Error:", err)
			missing++
			continue
		}
		log.Printf("%v stage: %v\n", tool.Stage, path)
	}
	return missing
}

// CheckTools implements the elalign check-tools command.
func CheckTools(context.Context) error {
	var flags flag.FlagSet
	tools := pipeline.DefaultTools()
	flags.StringVar(&tools.Aligner, "bwa", tools.Aligner, "aligner executable")
	flags.StringVar(&tools.PostAlt, "postalt", tools.PostAlt, "post-alt patcher executable")
	flags.StringVar(&tools.Sorter, "samtools", tools.Sorter, "sorter executable")

	parseFlags(&flags, 2, CheckToolsHelp)

	fmt.Fprintln(os.Stderr, "Executing command:\n", os.Args[0], "check-tools --bwa", tools.Aligner, "--postalt", tools.PostAlt, "--samtools", tools.Sorter)

	if missing := checkTools(tools); missing > 0 {
		return fmt.Errorf("%w: %v of the configured tools", pipeline.ErrToolNotFound, missing)
	}
	log.Println("All tools found.")
	return nil
}
