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

// Package readgroup builds and parses the read-group tag that the
// aligner embeds in the header of its alignment output.
package readgroup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/exascience/elalign/utils"
)

// Platform is the sequencing platform recorded in every read group.
const Platform = "ILLUMINA"

// Delimiter separates the fields of a tag as passed to the aligner's
// -R option. The aligner expands it into a real tab.
const Delimiter = `\t`

// Read-group field tags.
const (
	ID = "ID"
	SM = "SM"
	LB = "LB"
	PL = "PL"
	PU = "PU"
	CN = "CN"
)

// ErrMalformed is returned by Parse for tags that are not read-group
// header records.
var ErrMalformed = errors.New("malformed read-group tag")

// Fields holds the values a tag is built from.
type Fields struct {
	Sample   string
	Library  string
	Cell     string
	Lane     string
	Flowcell string
	Centre   string
}

// A Field is one TAG:VALUE pair of a read-group record.
type Field struct {
	Tag, Value string
}

// ShortRecord returns the fields of a read group without platform unit:
// ID, SM, LB, PL, CN, in that order.
func ShortRecord(f Fields) []Field {
	return []Field{
		{ID, joinID(f.Sample, f.Library, "", f.Lane)},
		{SM, f.Sample},
		{LB, f.Library},
		{PL, Platform},
		{CN, f.Centre},
	}
}

// FullRecord returns the fields of a read group that also records the
// flowcell and the optional cell: ID, SM, LB, PL, PU, CN, in that order.
func FullRecord(f Fields) []Field {
	return []Field{
		{ID, joinID(f.Sample, f.Library, f.Cell, f.Lane)},
		{SM, f.Sample},
		{LB, f.Library},
		{PL, Platform},
		{PU, f.Flowcell + "_" + f.Lane},
		{CN, f.Centre},
	}
}

func joinID(sample, library, cell, lane string) string {
	parts := []string{sample, library}
	if cell != "" {
		parts = append(parts, cell)
	}
	return strings.Join(append(parts, lane), "_")
}

func format(record []Field, delimiter string) string {
	var tag strings.Builder
	tag.WriteString("@RG")
	for _, field := range record {
		tag.WriteString(delimiter)
		tag.WriteString(field.Tag)
		tag.WriteByte(':')
		tag.WriteString(field.Value)
	}
	return tag.String()
}

// Tag renders record in the form expected by the aligner's -R option,
// with escaped tab delimiters.
func Tag(record []Field) string {
	return format(record, Delimiter)
}

// HeaderLine renders record as a SAM header line with real tabs.
func HeaderLine(record []Field) string {
	return format(record, "\t")
}

// CheckValue reports an error if value cannot be embedded in a tag.
// The aligner unescapes backslash sequences in the tag, so values may
// not contain backslashes at all.
func CheckValue(name, value string) error {
	if strings.ContainsAny(value, "\t\n\r") {
		return fmt.Errorf("%v %q contains a tab or newline", name, value)
	}
	if strings.ContainsRune(value, '\\') {
		return fmt.Errorf("%v %q contains a backslash", name, value)
	}
	return nil
}

// Parse parses a read-group tag in either escaped or header-line form
// and returns its fields. Duplicate field tags are rejected.
func Parse(tag string) (utils.StringMap, error) {
	line := strings.ReplaceAll(tag, Delimiter, "\t")
	fields := strings.Split(line, "\t")
	if fields[0] != "@RG" {
		return nil, fmt.Errorf("%w: %q does not start with @RG", ErrMalformed, tag)
	}
	record := make(utils.StringMap)
	for _, field := range fields[1:] {
		if len(field) < 3 || field[2] != ':' {
			return record, fmt.Errorf("%w: incorrectly formatted field %q", ErrMalformed, field)
		}
		if !record.SetUniqueEntry(field[:2], field[3:]) {
			return record, fmt.Errorf("%w: duplicate field tag %v", ErrMalformed, field[:2])
		}
	}
	if _, ok := record[ID]; !ok {
		return record, fmt.Errorf("%w: missing ID field", ErrMalformed)
	}
	return record, nil
}
