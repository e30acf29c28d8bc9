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
	"reflect"
	"testing"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Fastq1:    "in/S1_R1.fq.gz",
		Fastq2:    "in/S1_R2.fq.gz",
		Reference: "ref/hg38.fa",
		Output:    "out/S1.bam",
		Sample:    "S1",
		Library:   "LIB7",
		Cell:      "C3",
		Lane:      "2",
		Flowcell:  "HXYZ",
		Centre:    "BGI",
		Threads:   8,
		TempDir:   "tmp",
	}
}

var testTools = Tools{Aligner: "bwa", PostAlt: "bwa-postalt.js", Sorter: "samtools"}

func TestNewDescriptorDefaults(t *testing.T) {
	d := testDescriptor()
	d.Threads = 0
	d.Sample = "  S1 "
	desc, err := NewDescriptor(d, PostAlt)
	if err != nil {
		t.Fatal(err)
	}
	if desc.Threads != 1 {
		t.Error("NewDescriptor default threads failed")
	}
	if desc.Sample != "S1" {
		t.Error("NewDescriptor trimming failed")
	}
	if desc.AltFile != "ref/hg38.fa.alt" {
		t.Error("NewDescriptor default alt file failed")
	}
	desc, err = NewDescriptor(d, Stream)
	if err != nil {
		t.Fatal(err)
	}
	if desc.AltFile != "" {
		t.Error("NewDescriptor alt file for stream variant failed")
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name    string
		variant Variant
		modify  func(*Descriptor)
		missing bool
	}{
		{"sample", Stream, func(d *Descriptor) { d.Sample = "" }, true},
		{"library", Stream, func(d *Descriptor) { d.Library = " " }, true},
		{"lane", PostAlt, func(d *Descriptor) { d.Lane = "" }, true},
		{"fastq2", Stream, func(d *Descriptor) { d.Fastq2 = "" }, true},
		{"output", PostAlt, func(d *Descriptor) { d.Output = "" }, true},
		{"tempdir", PostAlt, func(d *Descriptor) { d.TempDir = "" }, true},
		{"threads", Stream, func(d *Descriptor) { d.Threads = -2 }, false},
		{"tab", Stream, func(d *Descriptor) { d.Library = "L\t1" }, false},
		{"escaped tab", PostAlt, func(d *Descriptor) { d.Centre = `A\tB` }, false},
		{"newline", PostAlt, func(d *Descriptor) { d.Cell = "C\n" }, false},
		{"trailing backslash", Stream, func(d *Descriptor) { d.Library = `L\` }, false},
		{"escaped newline", PostAlt, func(d *Descriptor) { d.Library = `L\n2` }, false},
	} {
		d := testDescriptor()
		test.modify(&d)
		err := d.Validate(test.variant)
		if err == nil {
			t.Errorf("Validate %v failed: no error", test.name)
			continue
		}
		if errors.Is(err, ErrMissingField) != test.missing {
			t.Errorf("Validate %v failed: unexpected error %v", test.name, err)
		}
	}
	d := testDescriptor()
	d.TempDir = ""
	if err := d.Validate(Stream); err != nil {
		t.Error("Validate without tempdir for stream variant failed:", err)
	}
	d.Cell, d.Flowcell, d.Centre = "", "", ""
	if err := d.Validate(PostAlt); err != nil {
		t.Error("Validate optional fields failed:", err)
	}
}

func TestPlanPostAlt(t *testing.T) {
	d := testDescriptor()
	desc, err := NewDescriptor(d, PostAlt)
	if err != nil {
		t.Fatal(err)
	}
	expected := []StageCommand{
		{StageAlign, []string{"bwa", "mem", "-t", "8", "-R",
			`@RG\tID:S1_LIB7_C3_2\tSM:S1\tLB:LIB7\tPL:ILLUMINA\tPU:HXYZ_2\tCN:BGI`,
			"ref/hg38.fa", "in/S1_R1.fq.gz", "in/S1_R2.fq.gz"}},
		{StagePostAlt, []string{"bwa-postalt.js", "ref/hg38.fa.alt", "tmp/S1.aligned.sam"}},
		{StageSort, []string{"samtools", "sort", "-@", "8", "-T", "tmp/S1.sort", "-o", "out/S1.bam", "tmp/S1.postalt.sam"}},
	}
	if plan := Plan(testTools, desc, PostAlt); !reflect.DeepEqual(plan, expected) {
		t.Error("Plan postalt failed:", plan)
	}
}

func TestPlanStream(t *testing.T) {
	d := testDescriptor()
	d.TempDir = ""
	desc, err := NewDescriptor(d, Stream)
	if err != nil {
		t.Fatal(err)
	}
	expected := []StageCommand{
		{StageAlign, []string{"bwa", "mem", "-t", "8", "-R",
			`@RG\tID:S1_LIB7_2\tSM:S1\tLB:LIB7\tPL:ILLUMINA\tCN:BGI`,
			"ref/hg38.fa", "in/S1_R1.fq.gz", "in/S1_R2.fq.gz"}},
		{StageSort, []string{"samtools", "sort", "-@", "8", "-o", "out/S1.bam", "-"}},
	}
	if plan := Plan(testTools, desc, Stream); !reflect.DeepEqual(plan, expected) {
		t.Error("Plan stream failed:", plan)
	}
}

func TestPlanDeterministic(t *testing.T) {
	d := testDescriptor()
	for _, v := range []Variant{PostAlt, Stream} {
		desc, err := NewDescriptor(d, v)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(Plan(testTools, desc, v), Plan(testTools, desc, v)) {
			t.Error("Plan determinism failed for", v)
		}
	}
}

func TestReadGroupID(t *testing.T) {
	d := testDescriptor()
	if id := d.ReadGroupID(Stream); id != "S1_LIB7_2" {
		t.Error("ReadGroupID stream failed:", id)
	}
	if id := d.ReadGroupID(PostAlt); id != "S1_LIB7_C3_2" {
		t.Error("ReadGroupID postalt failed:", id)
	}
}

func TestToolsCheck(t *testing.T) {
	tools := Tools{Aligner: "/nonexistent/bwa", PostAlt: "/bin/sh", Sorter: "/bin/sh"}
	if err := tools.Check(Stream); !errors.Is(err, ErrToolNotFound) {
		t.Error("Tools.Check missing aligner failed:", err)
	}
	tools = Tools{Aligner: "/bin/sh", PostAlt: "", Sorter: "/bin/sh"}
	if err := tools.Check(Stream); err != nil {
		t.Error("Tools.Check stream failed:", err)
	}
	if err := tools.Check(PostAlt); !errors.Is(err, ErrToolNotFound) {
		t.Error("Tools.Check missing patcher failed:", err)
	}
}

func TestDefaultTools(t *testing.T) {
	t.Setenv("ELALIGN_BWA", "/opt/bwa/bin/bwa")
	t.Setenv("ELALIGN_SAMTOOLS", "")
	tools := DefaultTools()
	if tools.Aligner != "/opt/bwa/bin/bwa" || tools.PostAlt != "bwa-postalt.js" || tools.Sorter != "samtools" {
		t.Error("DefaultTools failed:", tools)
	}
}
