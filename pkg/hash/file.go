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
	"crypto/md5" //nolint:gosec // content identity, not security
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// ChunkSize is the read size used when streaming file content into the digest.
const ChunkSize = 4096

// File returns the hex MD5 digest of the file at path.
func File(path string) (string, error) {
	start := time.Now()
	defer func() {
		hashDuration.WithLabelValues("file").Observe(time.Since(start).Seconds())
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sum, err := digest(f)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return sum, nil
}

// FileFS returns the hex MD5 digest of the named file in fsys.
func FileFS(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	sum, err := digest(f)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", name, err)
	}
	return sum, nil
}

func digest(r io.Reader) (string, error) {
	h := md5.New() //nolint:gosec
	buf := make([]byte, ChunkSize)

	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	hashFilesTotal.Inc()
	hashBytesTotal.Add(float64(total))

	return hex.EncodeToString(h.Sum(nil)), nil
}
