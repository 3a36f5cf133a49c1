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

// Package file reads small line-oriented system files such as /etc/os-release,
// /proc/meminfo and /proc/cmdline.
//
//	p := file.NewParser(file.WithKVDelimiter(":"))
//	mem, err := p.GetMap("/proc/meminfo")
//
// Files larger than the configured maximum (1MB by default) or containing
// invalid UTF-8 are rejected. Blank lines and, by default, lines starting with
// '#' are skipped.
package file
