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
	"path/filepath"
	"strings"

	"github.com/exascience/elalign/readgroup"
)

// Variant selects the shape of the pipeline.
type Variant int

const (
	// PostAlt materializes the aligner output and patches it before sorting.
	PostAlt Variant = iota
	// Stream pipes the aligner output directly into the sorter.
	Stream
)

func (v Variant) String() string {
	switch v {
	case PostAlt:
		return "postalt"
	case Stream:
		return "stream"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ErrMissingField is wrapped by the errors Validate returns for
// missing required descriptor fields.
var ErrMissingField = errors.New("missing required field")

// A Descriptor describes a single run. It is validated once and only
// read afterwards.
type Descriptor struct {
	Fastq1, Fastq2 string
	Reference      string
	Output         string

	Sample   string
	Library  string
	Cell     string // optional
	Lane     string
	Flowcell string // optional
	Centre   string // optional

	Threads int

	// TempDir holds the intermediate files of the PostAlt variant.
	TempDir string
	// AltFile is the ALT-contig index passed to the patcher. Defaults to
	// Reference + ".alt".
	AltFile string
}

// NewDescriptor trims the fields of d, fills in defaults, and
// validates the result for the given variant.
func NewDescriptor(d Descriptor, v Variant) (*Descriptor, error) {
	for _, field := range []*string{
		&d.Fastq1, &d.Fastq2, &d.Reference, &d.Output,
		&d.Sample, &d.Library, &d.Cell, &d.Lane, &d.Flowcell, &d.Centre,
		&d.TempDir, &d.AltFile,
	} {
		*field = strings.TrimSpace(*field)
	}
	if d.Threads == 0 {
		d.Threads = 1
	}
	if v == PostAlt && d.AltFile == "" && d.Reference != "" {
		d.AltFile = d.Reference + ".alt"
	}
	if err := d.Validate(v); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that all fields required by the variant are set and
// that the read-group values can be embedded in a tag.
func (d *Descriptor) Validate(v Variant) error {
	required := []struct{ name, value string }{
		{"fastq1", d.Fastq1},
		{"fastq2", d.Fastq2},
		{"reference", d.Reference},
		{"output", d.Output},
		{"sample", d.Sample},
		{"library", d.Library},
		{"lane", d.Lane},
	}
	if v == PostAlt {
		required = append(required, struct{ name, value string }{"tempdir", d.TempDir})
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w %q", ErrMissingField, field.name)
		}
	}
	if d.Threads < 1 {
		return fmt.Errorf("invalid number of threads %v (must be at least 1)", d.Threads)
	}
	for _, field := range []struct{ name, value string }{
		{"sample", d.Sample},
		{"library", d.Library},
		{"cell", d.Cell},
		{"lane", d.Lane},
		{"flowcell", d.Flowcell},
		{"centre", d.Centre},
	} {
		if err := readgroup.CheckValue(field.name, field.value); err != nil {
			return err
		}
	}
	if _, err := readgroup.Parse(d.ReadGroupTag(v)); err != nil {
		return err
	}
	return nil
}

func (d *Descriptor) fields() readgroup.Fields {
	return readgroup.Fields{
		Sample:   d.Sample,
		Library:  d.Library,
		Cell:     d.Cell,
		Lane:     d.Lane,
		Flowcell: d.Flowcell,
		Centre:   d.Centre,
	}
}

// ReadGroup returns the read-group record for the variant. The PostAlt
// variant records the flowcell and cell, the Stream variant does not.
func (d *Descriptor) ReadGroup(v Variant) []readgroup.Field {
	if v == PostAlt {
		return readgroup.FullRecord(d.fields())
	}
	return readgroup.ShortRecord(d.fields())
}

// ReadGroupTag returns the -R argument for the aligner.
func (d *Descriptor) ReadGroupTag(v Variant) string {
	return readgroup.Tag(d.ReadGroup(v))
}

// ReadGroupID returns the ID field of the read group.
func (d *Descriptor) ReadGroupID(v Variant) string {
	return d.ReadGroup(v)[0].Value
}

func (d *Descriptor) prefix() string {
	base := filepath.Base(d.Output)
	return base[:len(base)-len(filepath.Ext(base))]
}

// AlignedPath is the intermediate file holding the raw aligner output
// in the PostAlt variant.
func (d *Descriptor) AlignedPath() string {
	return filepath.Join(d.TempDir, d.prefix()+".aligned.sam")
}

// PatchedPath is the intermediate file holding the patched alignments
// in the PostAlt variant.
func (d *Descriptor) PatchedPath() string {
	return filepath.Join(d.TempDir, d.prefix()+".postalt.sam")
}

// SortPrefix is the prefix for the sorter's temporary files, or the
// empty string if no temporary directory is set.
func (d *Descriptor) SortPrefix() string {
	if d.TempDir == "" {
		return ""
	}
	return filepath.Join(d.TempDir, d.prefix()+".sort")
}
