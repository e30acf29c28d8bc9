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

// Package metadata loads the run sheet of a sequencing run and checks
// it against the input data of an alignment.
//
// A run sheet is a YAML document with a top-level meta section:
//
//	meta:
//	  cells:
//	    SA1090-A96213A-R20-C28:
//	      sample_id: SA1090
//	      library_id: A96213A
//	      is_control: false
//	      pick_met: C1
//	      condition: A
//	  lanes:
//	    HHCJ7CCXY:
//	      5:
//	        sequencing_centre: BCCAGSC
package metadata

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/exascience/elalign/pipeline"
)

var (
	// ErrMissingField is wrapped by errors that report a field or entry
	// missing from the run sheet.
	ErrMissingField = errors.New("missing field in run sheet")

	// ErrMultipleSamples is returned when the non-control cells of a run
	// sheet name more than one sample.
	ErrMultipleSamples = errors.New("only one sample id expected in non-control cells")
)

// RequiredCellFields are the fields every cell must declare.
var RequiredCellFields = []string{"is_control", "library_id", "sample_id", "pick_met", "condition"}

// A Sheet is the meta section of a run sheet. Values are kept as
// decoded so that presence can be checked independently of type.
type Sheet struct {
	Cells map[string]map[string]interface{}            `yaml:"cells"`
	Lanes map[string]map[string]map[string]interface{} `yaml:"lanes"`
}

type document struct {
	Meta *Sheet `yaml:"meta"`
}

// Load decodes the run sheet at path.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc document
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding run sheet %v: %w", path, err)
	}
	if doc.Meta == nil {
		return nil, fmt.Errorf("%w: no meta section in %v", ErrMissingField, path)
	}
	return doc.Meta, nil
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// CellField returns a field of a cell as a string.
func (s *Sheet) CellField(cell, field string) (string, bool) {
	entry, ok := s.Cells[cell]
	if !ok {
		return "", false
	}
	value, ok := entry[field]
	return toString(value), ok
}

// IsControl reports whether the cell is a control cell. Strings such
// as "True" count as well.
func (s *Sheet) IsControl(cell string) bool {
	switch v := s.Cells[cell]["is_control"].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "True" || v == "TRUE"
	default:
		return false
	}
}

// SequencingCentre returns the sequencing centre of a lane.
func (s *Sheet) SequencingCentre(flowcell, lane string) (string, bool) {
	entry, ok := s.Lanes[flowcell][lane]
	if !ok {
		return "", false
	}
	value, ok := entry["sequencing_centre"]
	return toString(value), ok
}

// Complete fills in the sample, library, and centre of d from the run
// sheet. Values already set in d are never overwritten. The sample and
// library require d.Cell, the centre requires d.Flowcell and d.Lane.
func (s *Sheet) Complete(d *pipeline.Descriptor) error {
	if d.Cell != "" {
		if _, ok := s.Cells[d.Cell]; !ok {
			return fmt.Errorf("%w: cell %v", ErrMissingField, d.Cell)
		}
		for _, field := range []struct {
			name   string
			target *string
		}{
			{"sample_id", &d.Sample},
			{"library_id", &d.Library},
		} {
			if *field.target != "" {
				continue
			}
			if value, ok := s.CellField(d.Cell, field.name); ok {
				*field.target = value
			}
		}
	}
	if d.Centre == "" && d.Flowcell != "" && d.Lane != "" {
		if _, ok := s.Lanes[d.Flowcell][d.Lane]; !ok {
			return fmt.Errorf("%w: lane %v for flowcell %v", ErrMissingField, d.Lane, d.Flowcell)
		}
		if centre, ok := s.SequencingCentre(d.Flowcell, d.Lane); ok {
			d.Centre = centre
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateInputs checks the run sheet against the input data: every
// cell declares the required fields, the non-control cells name at
// most one sample, every flowcell and lane the inputs reference is in
// the sheet, and every lane of the sheet has a sequencing centre.
func ValidateInputs(s *Sheet, inputs []Input) error {
	cells := sortedKeys(s.Cells)
	for _, field := range RequiredCellFields {
		for _, cell := range cells {
			if _, ok := s.Cells[cell][field]; !ok {
				return fmt.Errorf("%w: %v is required for each cell, missing for %v", ErrMissingField, field, cell)
			}
		}
	}

	samples := make(map[string]bool)
	for _, cell := range cells {
		if !s.IsControl(cell) {
			sample, _ := s.CellField(cell, "sample_id")
			samples[sample] = true
		}
	}
	if len(samples) > 1 {
		return fmt.Errorf("%w, found %v", ErrMultipleSamples, sortedKeys(samples))
	}

	for _, input := range inputs {
		for _, lane := range input.Lanes {
			flowcell, ok := s.Lanes[string(lane.FlowcellID)]
			if !ok {
				return fmt.Errorf("%w: flowcell %v", ErrMissingField, lane.FlowcellID)
			}
			if _, ok := flowcell[string(lane.LaneID)]; !ok {
				return fmt.Errorf("%w: lane %v for flowcell %v", ErrMissingField, lane.LaneID, lane.FlowcellID)
			}
		}
	}

	for _, flowcell := range sortedKeys(s.Lanes) {
		for _, lane := range sortedKeys(s.Lanes[flowcell]) {
			if _, ok := s.SequencingCentre(flowcell, lane); !ok {
				return fmt.Errorf("%w: sequencing centre for flowcell %v lane %v", ErrMissingField, flowcell, lane)
			}
		}
	}
	return nil
}
