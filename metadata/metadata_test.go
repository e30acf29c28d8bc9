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

package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/exascience/elalign/pipeline"
)

const testSheet = `meta:
  cells:
    SA1090-A96213A-R20-C28:
      sample_id: SA1090
      library_id: A96213A
      is_control: false
      pick_met: C1
      condition: A
    SA1090-A96213A-R20-C29:
      sample_id: SA1090
      library_id: A96213A
      is_control: false
      pick_met: C1
      condition: A
    SA1090-A96213A-R21-C01:
      sample_id: CONTROL
      library_id: A96213A
      is_control: true
      pick_met: gDNA
      condition: B
  lanes:
    HHCJ7CCXY:
      5:
        sequencing_centre: BCCAGSC
      6:
        sequencing_centre: BCCAGSC
`

const testInputs = `[
  {"cell_id": "SA1090-A96213A-R20-C28", "lanes": [{"flowcell_id": "HHCJ7CCXY", "lane_id": 5}]},
  {"cell_id": "SA1090-A96213A-R20-C29", "lanes": [{"flowcell_id": "HHCJ7CCXY", "lane_id": "6"}]}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadTestSheet(t *testing.T, content string) *Sheet {
	t.Helper()
	sheet, err := Load(writeFile(t, "meta.yaml", content))
	if err != nil {
		t.Fatal(err)
	}
	return sheet
}

func TestLoad(t *testing.T) {
	sheet := loadTestSheet(t, testSheet)
	if len(sheet.Cells) != 3 {
		t.Error("Load cells failed:", len(sheet.Cells))
	}
	if sample, ok := sheet.CellField("SA1090-A96213A-R20-C28", "sample_id"); !ok || sample != "SA1090" {
		t.Error("Load sample_id failed:", sample)
	}
	if !sheet.IsControl("SA1090-A96213A-R21-C01") || sheet.IsControl("SA1090-A96213A-R20-C28") {
		t.Error("Load is_control failed")
	}
	if centre, ok := sheet.SequencingCentre("HHCJ7CCXY", "5"); !ok || centre != "BCCAGSC" {
		t.Error("Load sequencing_centre failed:", centre)
	}
	if _, err := Load(writeFile(t, "meta.yaml", "cells: {}\n")); !errors.Is(err, ErrMissingField) {
		t.Error("Load without meta section failed:", err)
	}
}

func TestLoadInputs(t *testing.T) {
	inputs, err := LoadInputs(writeFile(t, "inputs.json", testInputs))
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 || inputs[0].Lanes[0].LaneID != "5" || inputs[1].Lanes[0].LaneID != "6" {
		t.Error("LoadInputs failed:", inputs)
	}
	if _, err := LoadInputs(writeFile(t, "inputs.json", `[{"cell_id": true}]`)); err == nil {
		t.Error("LoadInputs invalid identifier failed")
	}
}

func TestValidateInputs(t *testing.T) {
	sheet := loadTestSheet(t, testSheet)
	inputs, err := LoadInputs(writeFile(t, "inputs.json", testInputs))
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateInputs(sheet, inputs); err != nil {
		t.Error("ValidateInputs failed:", err)
	}

	unknownLane := []Input{{CellID: "c", Lanes: []Lane{{FlowcellID: "HHCJ7CCXY", LaneID: "7"}}}}
	if err := ValidateInputs(sheet, unknownLane); !errors.Is(err, ErrMissingField) {
		t.Error("ValidateInputs unknown lane failed:", err)
	}
	unknownFlowcell := []Input{{CellID: "c", Lanes: []Lane{{FlowcellID: "XXXX", LaneID: "5"}}}}
	if err := ValidateInputs(sheet, unknownFlowcell); !errors.Is(err, ErrMissingField) {
		t.Error("ValidateInputs unknown flowcell failed:", err)
	}

	delete(sheet.Cells["SA1090-A96213A-R20-C29"], "pick_met")
	if err := ValidateInputs(sheet, inputs); !errors.Is(err, ErrMissingField) {
		t.Error("ValidateInputs missing cell field failed:", err)
	}
}

func TestValidateInputsMultipleSamples(t *testing.T) {
	sheet := loadTestSheet(t, testSheet)
	sheet.Cells["SA1090-A96213A-R20-C29"]["sample_id"] = "SA1091"
	if err := ValidateInputs(sheet, nil); !errors.Is(err, ErrMultipleSamples) {
		t.Error("ValidateInputs multiple samples failed:", err)
	}
	sheet.Cells["SA1090-A96213A-R20-C29"]["is_control"] = true
	if err := ValidateInputs(sheet, nil); err != nil {
		t.Error("ValidateInputs control sample failed:", err)
	}
}

func TestValidateInputsMissingCentre(t *testing.T) {
	sheet := loadTestSheet(t, testSheet)
	delete(sheet.Lanes["HHCJ7CCXY"]["6"], "sequencing_centre")
	if err := ValidateInputs(sheet, nil); !errors.Is(err, ErrMissingField) {
		t.Error("ValidateInputs missing sequencing centre failed:", err)
	}
}

func TestComplete(t *testing.T) {
	sheet := loadTestSheet(t, testSheet)
	d := pipeline.Descriptor{Cell: "SA1090-A96213A-R20-C28", Flowcell: "HHCJ7CCXY", Lane: "5"}
	if err := sheet.Complete(&d); err != nil {
		t.Fatal(err)
	}
	if d.Sample != "SA1090" || d.Library != "A96213A" || d.Centre != "BCCAGSC" {
		t.Error("Complete failed:", d)
	}

	d = pipeline.Descriptor{Cell: "SA1090-A96213A-R20-C28", Sample: "S1", Flowcell: "HHCJ7CCXY", Lane: "5", Centre: "OTHER"}
	if err := sheet.Complete(&d); err != nil {
		t.Fatal(err)
	}
	if d.Sample != "S1" || d.Library != "A96213A" || d.Centre != "OTHER" {
		t.Error("Complete overwrite failed:", d)
	}

	d = pipeline.Descriptor{Cell: "unknown"}
	if err := sheet.Complete(&d); !errors.Is(err, ErrMissingField) {
		t.Error("Complete unknown cell failed:", err)
	}
	d = pipeline.Descriptor{Flowcell: "HHCJ7CCXY", Lane: "9"}
	if err := sheet.Complete(&d); !errors.Is(err, ErrMissingField) {
		t.Error("Complete unknown lane failed:", err)
	}
}
