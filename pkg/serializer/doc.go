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

// Package serializer reads and writes structured data in the formats the
// reports and configuration files use.
//
// Supported formats:
//   - JSON: indented, machine readable
//   - YAML: human readable configuration
//   - TOML: configuration only
//   - Table: flattened FIELD/VALUE listing, write only
//
// Writing:
//
//	w, err := serializer.NewFileWriter(serializer.FormatJSON, "report.json")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// Reading, with the format detected from the extension:
//
//	cfg, err := serializer.FromFile[Config]("mlfcore.toml")
//
// WriteHTML renders titled key/value sections as a standalone HTML page.
package serializer
