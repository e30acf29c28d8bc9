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

package utils

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestIsGzip(t *testing.T) {
	buf := bufio.NewReader(bytes.NewReader(bgzfEOF))
	if ok, err := IsGzip(buf); err != nil || !ok {
		t.Error("IsGzip failed")
	}
	if b, _ := buf.ReadByte(); b != 0x1f {
		t.Error("IsGzip unread failed")
	}
	if ok, err := IsGzip(bufio.NewReader(bytes.NewReader([]byte("@HD\tVN:1.6\n")))); err != nil || ok {
		t.Error("IsGzip plain text failed")
	}
}

func TestHasBGZFEOF(t *testing.T) {
	dir := t.TempDir()
	complete := filepath.Join(dir, "complete.bam")
	if err := os.WriteFile(complete, append([]byte("block"), bgzfEOF...), 0644); err != nil {
		t.Fatal(err)
	}
	truncated := filepath.Join(dir, "truncated.bam")
	if err := os.WriteFile(truncated, bgzfEOF[:10], 0644); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name     string
		expected bool
	}{{complete, true}, {truncated, false}} {
		f, err := os.Open(test.name)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := HasBGZFEOF(f)
		_ = f.Close()
		if err != nil || ok != test.expected {
			t.Error("HasBGZFEOF failed for", test.name, err)
		}
	}
}
