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
	"log/slog"
	"path/filepath"
	"strings"
)

// Format represents the serialization format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns all supported output formats.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTOML),
		string(FormatTable),
	}
}

// FormatFromPath determines the format from the file extension,
// case-insensitively. Unknown extensions default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".table", ".txt":
		return FormatTable
	default:
		slog.Debug("unknown file extension, defaulting to JSON", "path", path)
		return FormatJSON
	}
}

// Serializer writes a value to a destination.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that hold resources.
type Closer interface {
	Close() error
}
