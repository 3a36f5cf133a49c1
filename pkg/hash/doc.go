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

// Package hash computes the content digests recorded as training data
// provenance.
//
// # File Digest
//
// File streams a file through MD5 in ChunkSize reads and returns the lowercase
// hex digest. MD5 is used for content identity only, never for access control,
// and keeps digests comparable with values logged by earlier tooling.
//
// # Directory Digest
//
// Dir walks a tree top-down with names sorted at every level, hashes up to
// maxFiles regular files per directory level (maxFiles <= 0 disables the cap),
// sorts the collected file digests, writes them back to back into a temporary
// file and returns the digest of that file. Digests are fixed width, so the
// undelimited concatenation is unambiguous:
//
//	digest(dir) = md5(sort(md5(f1), md5(f2), ...) joined with "")
//
// The temporary file is removed on every return path.
//
// Symbolic links to directories are not followed. Files that are neither
// regular nor symlinks to regular files (sockets, FIFOs, devices) are skipped.
//
// # Go Module Hash
//
// DirH1 returns the "h1:" hash used by the Go checksum database. It names
// files as well as contents and is offered for cross-checking only.
package hash
