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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Reader deserializes JSON, YAML or TOML from an io.Reader.
// Table output cannot be read back.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a Reader for the given format. If input implements
// io.Closer it is closed by Reader.Close.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, errors.New("table format does not support deserialization")
	}

	r := &Reader{format: format, input: input}
	if c, ok := input.(io.Closer); ok {
		r.closer = c
	}
	return r, nil
}

// NewFileReader opens path and returns a Reader for it.
func NewFileReader(format Format, path string) (*Reader, error) {
	if format.IsUnknown() || format == FormatTable {
		return nil, fmt.Errorf("format %q does not support deserialization", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Reader{format: format, input: f, closer: f}, nil
}

// NewFileReaderAuto is NewFileReader with the format detected from the extension.
func NewFileReaderAuto(path string) (*Reader, error) {
	return NewFileReader(FormatFromPath(path), path)
}

// Deserialize decodes the input into v, which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil || r.input == nil {
		return errors.New("reader has no input")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode TOML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
	return nil
}

// Close releases the input if it is closeable. Safe to call repeatedly.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// FromFile reads path, detecting the format from its extension, into a new T.
func FromFile[T any](path string) (*T, error) {
	r, err := NewFileReaderAuto(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var v T
	if err := r.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &v, nil
}
