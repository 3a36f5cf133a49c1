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

// Package logging provides structured logging utilities for mlfcore.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults:
// JSON records on stderr, LOG_LEVEL based level selection, module and version
// attributes on every record, and source location for debug logs.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("mlfcore", version)
//	    slog.Info("hashing input data", "path", path)
//	}
//
// Explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("mlfcore", version, "debug")
//
// # Log Levels
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
//
// # Output Format
//
//	{
//	    "time": "2026-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "uploading system intelligence report",
//	    "module": "mlfcore",
//	    "version": "v0.3.0",
//	    "dir": "/tmp/mlfcore-reports-1234"
//	}
package logging
