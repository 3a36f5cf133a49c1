// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return p
}

func TestGetLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    []Option
		want    []string
		wantErr bool
	}{
		{
			name:    "newline delimited with blanks and comments",
			content: "# header\nfirst\n\n  second  \n#tail\n",
			want:    []string{"first", "second"},
		},
		{
			name:    "comments kept when disabled",
			content: "#a\nb\n",
			opts:    []Option{WithSkipComments(false)},
			want:    []string{"#a", "b"},
		},
		{
			name:    "space delimited cmdline",
			content: "BOOT_IMAGE=/vmlinuz ro quiet iommu=pt\n",
			opts:    []Option{WithDelimiter(" ")},
			want:    []string{"BOOT_IMAGE=/vmlinuz", "ro", "quiet", "iommu=pt"},
		},
		{
			name:    "too large",
			content: strings.Repeat("x", 64),
			opts:    []Option{WithMaxSize(10)},
			wantErr: true,
		},
		{
			name:    "invalid utf8",
			content: string([]byte{0xff, 0xfe, 0xfd}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.opts...)
			got, err := p.GetLines(write(t, tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetLines() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("GetLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetLines_Errors(t *testing.T) {
	p := NewParser()
	if _, err := p.GetLines(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := p.GetLines(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetMap(t *testing.T) {
	release := write(t, `NAME="Ubuntu"
ID=ubuntu
VERSION_ID="22.04"
PRETTY_NAME='Ubuntu 22.04.4 LTS'
MALFORMED
`)

	p := NewParser(WithVTrimChars(`"'`))
	m, err := p.GetMap(release)
	if err != nil {
		t.Fatalf("GetMap() error = %v", err)
	}

	want := map[string]string{
		"NAME":        "Ubuntu",
		"ID":          "ubuntu",
		"VERSION_ID":  "22.04",
		"PRETTY_NAME": "Ubuntu 22.04.4 LTS",
		"MALFORMED":   "",
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("GetMap()[%s] = %q, want %q", k, m[k], v)
		}
	}
}

func TestGetMap_ColonDelimiter(t *testing.T) {
	meminfo := write(t, "MemTotal:       65843148 kB\nMemFree:         1234 kB\n")

	m, err := NewParser(WithKVDelimiter(":")).GetMap(meminfo)
	if err != nil {
		t.Fatalf("GetMap() error = %v", err)
	}
	if m["MemTotal"] != "65843148 kB" {
		t.Errorf("MemTotal = %q", m["MemTotal"])
	}
}
