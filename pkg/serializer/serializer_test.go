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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value int    `json:"value" yaml:"value" toml:"value"`
}

type wrapped struct{ v int }

func (w wrapped) Any() any { return w.v }

func TestWriter_Serialize(t *testing.T) {
	data := testConfig{Name: "test", Value: 123}

	tests := []struct {
		format Format
		decode func([]byte, any) error
	}{
		{FormatJSON, json.Unmarshal},
		{FormatYAML, yaml.Unmarshal},
		{FormatTOML, toml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(tt.format, &buf).Serialize(context.Background(), data); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}

			var got testConfig
			if err := tt.decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode failed: %v\n%s", err, buf.String())
			}
			if got != data {
				t.Errorf("got %+v, want %+v", got, data)
			}
		})
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	data := []any{
		testConfig{Name: "test1", Value: 123},
		map[string]any{"reading": wrapped{v: 7}},
	}

	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FIELD", "VALUE", "[0].Name", "[0].Value", "[1].reading"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[1].reading.v") {
		t.Error("wrapped scalar should be rendered as a leaf")
	}
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "<empty>" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter("invalid", &buf).Serialize(context.Background(), testConfig{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := NewWriter(FormatJSON, &buf).Serialize(ctx, testConfig{}); err == nil {
		t.Error("expected error for cancelled context")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written")
	}
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	w, err := NewFileWriter(FormatJSON, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Serialize(context.Background(), testConfig{Name: "file"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}

	got, err := FromFile[testConfig](path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "file" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestNewFileWriter_BadPath(t *testing.T) {
	if _, err := NewFileWriter(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json")); err == nil {
		t.Error("expected error for missing parent directory")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":    FormatJSON,
		"a.YAML":    FormatYAML,
		"a.yml":     FormatYAML,
		"a.toml":    FormatTOML,
		"a.txt":     FormatTable,
		"a.bin":     FormatJSON,
		"noextfile": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestReader(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.json": `{"name":"j","value":1}`,
		"c.yaml": "name: y\nvalue: 2\n",
		"c.toml": "name = \"t\"\nvalue = 3\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(dir, name)
			if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}
			got, err := FromFile[testConfig](p)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name == "" || got.Value == 0 {
				t.Errorf("unexpected result %+v", got)
			}
		})
	}
}

func TestReader_Errors(t *testing.T) {
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("expected error for table format")
	}
	if _, err := NewReader("bogus", strings.NewReader("")); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := FromFile[testConfig](filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	r, err := NewReader(FormatJSON, strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	var v testConfig
	if err := r.Deserialize(&v); err == nil {
		t.Error("expected decode error")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, "System Intelligence", []HTMLSection{
		{Title: "host runtime", Rows: []HTMLRow{{Key: "hostname", Value: "<node-1>"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "<h2>Host Runtime</h2>") {
		t.Errorf("section title not title-cased:\n%s", out)
	}
	if !strings.Contains(out, "&lt;node-1&gt;") {
		t.Error("values must be escaped")
	}
	if !strings.Contains(out, "<title>System Intelligence</title>") {
		t.Error("missing page title")
	}
}
