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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// An ID is a cell, flowcell, or lane identifier. In input data it may
// be written as a JSON string or number.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid identifier %s", data)
	}
	*id = ID(n.String())
	return nil
}

// A Lane references one lane of a flowcell.
type Lane struct {
	FlowcellID ID `json:"flowcell_id"`
	LaneID     ID `json:"lane_id"`
}

// An Input describes the FASTQ data of one cell.
type Input struct {
	CellID ID     `json:"cell_id"`
	Lanes  []Lane `json:"lanes"`
}

// LoadInputs decodes the input-data JSON at path.
func LoadInputs(path string) ([]Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs []Input
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("decoding input data %v: %w", path, err)
	}
	return inputs, nil
}
