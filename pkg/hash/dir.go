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

package hash

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/sumdb/dirhash"
)

// Dir returns the aggregate digest of the directory tree rooted at dir,
// hashing at most maxFiles files per directory level when maxFiles > 0.
func Dir(ctx context.Context, dir string, maxFiles int) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}

	sum, err := DirFS(ctx, os.DirFS(dir), ".", maxFiles)
	if err != nil {
		return "", fmt.Errorf("failed to hash directory %s: %w", dir, err)
	}
	return sum, nil
}

// DirFS is Dir over an fs.FS, starting at root.
func DirFS(ctx context.Context, fsys fs.FS, root string, maxFiles int) (string, error) {
	start := time.Now()
	defer func() {
		hashDuration.WithLabelValues("dir").Observe(time.Since(start).Seconds())
	}()

	sums := make([]string, 0)
	if err := collect(ctx, fsys, root, maxFiles, &sums); err != nil {
		return "", err
	}
	sort.Strings(sums)

	slog.Debug("collected file digests", "root", root, "count", len(sums), "max_files", maxFiles)

	return aggregate(sums)
}

// collect appends the digests of the selected files under dir, visiting
// files before subdirectories and both in lexical order.
func collect(ctx context.Context, fsys fs.FS, dir string, maxFiles int, sums *[]string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	dirs, files := split(fsys, dir, entries)
	sort.Strings(dirs)
	sort.Strings(files)

	if maxFiles > 0 && len(files) > maxFiles {
		slog.Debug("capping files in directory", "dir", dir, "files", len(files), "max_files", maxFiles)
		files = files[:maxFiles]
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		sum, err := FileFS(fsys, path.Join(dir, name))
		if err != nil {
			return err
		}
		*sums = append(*sums, sum)
	}

	for _, name := range dirs {
		if err := collect(ctx, fsys, path.Join(dir, name), maxFiles, sums); err != nil {
			return err
		}
	}

	return nil
}

// split sorts entries into directories to descend into and files to hash.
// Symlinked directories are neither; unresolvable symlinks are kept as files
// so the failure surfaces when they are opened.
func split(fsys fs.FS, dir string, entries []fs.DirEntry) (dirs, files []string) {
	for _, e := range entries {
		switch {
		case e.IsDir():
			dirs = append(dirs, e.Name())
		case e.Type().IsRegular():
			files = append(files, e.Name())
		case e.Type()&fs.ModeSymlink != 0:
			info, err := fs.Stat(fsys, path.Join(dir, e.Name()))
			if err != nil || info.Mode().IsRegular() {
				files = append(files, e.Name())
			}
		default:
			slog.Debug("skipping irregular file", "dir", dir, "name", e.Name(), "mode", e.Type().String())
		}
	}
	return dirs, files
}

// aggregate writes sums into a temporary file and digests it.
func aggregate(sums []string) (string, error) {
	tmp, err := os.CreateTemp("", "mlfcore-dirhash-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.WriteString(strings.Join(sums, "")); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write digests: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return File(name)
}

// DirH1 returns the Go checksum database "h1:" hash of dir.
func DirH1(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}

	h, err := dirhash.HashDir(dir, "", dirhash.Hash1)
	if err != nil {
		return "", fmt.Errorf("failed to calculate h1 hash for %s: %w", dir, err)
	}
	return h, nil
}
