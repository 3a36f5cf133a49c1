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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultValueKey = "value"

// valuer is implemented by wrapped scalars such as measurement readings.
type valuer interface {
	Any() any
}

// Writer serializes values to an io.Writer.
// Close must be called when the Writer was created from a file path.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a Writer for the given format. A nil output writes to
// stdout and an unknown format falls back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: normalize(format),
		output: output,
	}
}

// NewFileWriter creates the file at path and returns a Writer for it.
func NewFileWriter(format Format, path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return &Writer{
		format: normalize(format),
		output: f,
		closer: f,
	}, nil
}

// NewFileWriterOrStdout writes to path, or to stdout when path is empty or
// cannot be created.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewWriter(format, os.Stdout)
	}

	w, err := NewFileWriter(format, trimmed)
	if err != nil {
		slog.Error("failed to create output file, using stdout", "error", err, "path", trimmed)
		return NewWriter(format, os.Stdout)
	}
	return w
}

func normalize(format Format) Format {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		return FormatJSON
	}
	return format
}

// Close releases the underlying file, if any. It is safe to call repeatedly.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

// Serialize writes v in the configured format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w.output).Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to TOML: %w", err)
		}
		return nil
	case FormatTable:
		return w.serializeTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeTable(v any) error {
	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(v), "")
	if len(flat) == 0 {
		_, err := fmt.Fprintln(w.output, "<empty>")
		return err
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", key, flat[key])
	}
	return tw.Flush()
}

func flattenValue(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	if val.CanInterface() {
		if s, ok := val.Interface().(valuer); ok && !isNilPointer(val) {
			out[keyOrDefault(prefix)] = s.Any()
			return
		}
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	//nolint:exhaustive // remaining kinds are leaves
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			flattenValue(out, val.Field(i), joinKey(prefix, field.Name))
		}
	case reflect.Map:
		for _, mk := range val.MapKeys() {
			flattenValue(out, val.MapIndex(mk), joinKey(prefix, fmt.Sprintf("%v", mk.Interface())))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			flattenValue(out, val.Index(i), joinKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		out[keyOrDefault(prefix)] = val.Interface()
	}
}

func isNilPointer(val reflect.Value) bool {
	switch val.Kind() { //nolint:exhaustive // only nillable kinds matter
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return val.IsNil()
	default:
		return false
	}
}

func keyOrDefault(prefix string) string {
	if prefix == "" {
		return defaultValueKey
	}
	return prefix
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}
