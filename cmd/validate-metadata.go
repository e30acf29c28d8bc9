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

	"github.com/exascience/elalign/metadata"
)

// ValidateMetadataHelp is the help string for this command.
const ValidateMetadataHelp = "\nvalidate-metadata parameters:\n" +
	"elalign validate-metadata\n" +
	"--meta-yaml file\n" +
	"--input-data-json file\n"

// ValidateMetadata implements the elalign validate-metadata command.
func ValidateMetadata(context.Context) error {
	var (
		metaYaml, inputDataJSON string
		flags                   flag.FlagSet
	)
	flags.StringVar(&metaYaml, "meta-yaml", "", "run sheet of the sequencing run")
	flags.StringVar(&inputDataJSON, "input-data-json", "", "cells and lanes of the input data")

	parseFlags(&flags, 2, ValidateMetadataHelp)

	var sanityChecksFailed bool

	if !checkExist("--meta-yaml", metaYaml) {
		sanityChecksFailed = true
	}
	if !checkExist("--input-data-json", inputDataJSON) {
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, ValidateMetadataHelp)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Executing command:\n", os.Args[0], "validate-metadata --meta-yaml", metaYaml, "--input-data-json", inputDataJSON)

	sheet, err := metadata.Load(metaYaml)
	if err != nil {
		return err
	}
	inputs, err := metadata.LoadInputs(inputDataJSON)
	if err != nil {
		return err
	}
	if err := metadata.ValidateInputs(sheet, inputs); err != nil {
		return err
	}
	log.Println("Run sheet", metaYaml, "is consistent with", inputDataJSON)
	return nil
}
