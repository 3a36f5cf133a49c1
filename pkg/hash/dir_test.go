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
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

// shuffledFS returns directory entries in a different order on every call.
type shuffledFS struct {
	fstest.MapFS
	rng *rand.Rand
}

func (s shuffledFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := s.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	s.rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
	return entries, nil
}

func treeFS() fstest.MapFS {
	return fstest.MapFS{
		"z.txt":            {Data: []byte("zulu")},
		"a.txt":            {Data: []byte("alpha")},
		"m.txt":            {Data: []byte("mike")},
		"sub/b.txt":        {Data: []byte("bravo")},
		"sub/c.txt":        {Data: []byte("charlie")},
		"sub/deep/d.txt":   {Data: []byte("delta")},
		"other/e.txt":      {Data: []byte("echo")},
		"other/f.txt":      {Data: []byte("foxtrot")},
		"other/g/h/i.json": {Data: []byte(`{"india":true}`)},
	}
}

func TestDir_KnownDigest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("1"))
	writeFile(t, filepath.Join(dir, "b.txt"), []byte("2"))

	// md5("c4ca4238a0b923820dcc509a6f75849b" + "c81e728d9d4c2f636f067f89cc14862c")
	const want = "302cbafc0dfbc97f30d576a6f394dad3"

	first, err := Dir(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if first != want {
		t.Errorf("Dir() = %s, want %s", first, want)
	}

	second, err := Dir(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Dir() second call error = %v", err)
	}
	if second != first {
		t.Errorf("Dir() not deterministic: %s != %s", second, first)
	}

	writeFile(t, filepath.Join(dir, "a.txt"), []byte("3"))
	changed, err := Dir(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Dir() after change error = %v", err)
	}
	if changed == first {
		t.Error("expected digest to change after a.txt changed")
	}
}

func TestDir_EmptyDirectory(t *testing.T) {
	t.Parallel()

	got, err := Dir(context.Background(), t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Dir() of empty dir = %s, want digest of empty input", got)
	}
}

func TestDirFS_ListingOrderInvariant(t *testing.T) {
	t.Parallel()

	base, err := DirFS(context.Background(), treeFS(), ".", 0)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}

	for seed := uint64(1); seed <= 10; seed++ {
		fsys := shuffledFS{MapFS: treeFS(), rng: rand.New(rand.NewPCG(seed, seed*31))}
		got, err := DirFS(context.Background(), fsys, ".", 0)
		if err != nil {
			t.Fatalf("DirFS() seed %d error = %v", seed, err)
		}
		if got != base {
			t.Errorf("seed %d: digest %s differs from %s", seed, got, base)
		}
	}
}

func TestDirFS_ListingOrderInvariantWithCap(t *testing.T) {
	t.Parallel()

	base, err := DirFS(context.Background(), treeFS(), ".", 1)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}

	for seed := uint64(1); seed <= 10; seed++ {
		fsys := shuffledFS{MapFS: treeFS(), rng: rand.New(rand.NewPCG(seed, 7))}
		got, err := DirFS(context.Background(), fsys, ".", 1)
		if err != nil {
			t.Fatalf("DirFS() seed %d error = %v", seed, err)
		}
		if got != base {
			t.Errorf("seed %d: capped digest %s differs from %s", seed, got, base)
		}
	}
}

func TestDirFS_MatchesOSDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, f := range treeFS() {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), f.Data)
	}

	fromFS, err := DirFS(context.Background(), treeFS(), ".", 0)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}
	fromDisk, err := Dir(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if fromFS != fromDisk {
		t.Errorf("DirFS() = %s, Dir() = %s", fromFS, fromDisk)
	}
}

func TestDirFS_CapPerLevel(t *testing.T) {
	t.Parallel()

	// Four files at the root, cap of 2: only a.txt and b.txt are hashed.
	build := func(c, d string) fstest.MapFS {
		return fstest.MapFS{
			"a.txt":     {Data: []byte("a")},
			"b.txt":     {Data: []byte("b")},
			"c.txt":     {Data: []byte(c)},
			"d.txt":     {Data: []byte(d)},
			"sub/x.txt": {Data: []byte("x")},
			"sub/y.txt": {Data: []byte("y")},
			"sub/z.txt": {Data: []byte("z")},
		}
	}

	base, err := DirFS(context.Background(), build("c", "d"), ".", 2)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}

	excluded, err := DirFS(context.Background(), build("changed", "also changed"), ".", 2)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}
	if excluded != base {
		t.Errorf("changing files beyond the cap changed the digest: %s != %s", excluded, base)
	}

	uncapped, err := DirFS(context.Background(), build("c", "d"), ".", 0)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}
	if uncapped == base {
		t.Error("expected uncapped digest to differ from capped digest")
	}

	// The cap applies per level, so sub/x.txt and sub/y.txt are included.
	fsys := build("c", "d")
	fsys["sub/x.txt"] = &fstest.MapFile{Data: []byte("x changed")}
	included, err := DirFS(context.Background(), fsys, ".", 2)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}
	if included == base {
		t.Error("changing an included file in a subdirectory should change the digest")
	}

	fsys = build("c", "d")
	fsys["sub/z.txt"] = &fstest.MapFile{Data: []byte("z changed")}
	skipped, err := DirFS(context.Background(), fsys, ".", 2)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}
	if skipped != base {
		t.Error("changing the third file of a capped subdirectory should not change the digest")
	}
}

func TestDirFS_CapSelectsExactlyN(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"f1": {Data: []byte("1")},
		"f2": {Data: []byte("2")},
		"f3": {Data: []byte("3")},
	}

	got, err := DirFS(context.Background(), fsys, ".", 2)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}

	// Same as a tree containing only f1 and f2.
	want, err := DirFS(context.Background(), fstest.MapFS{
		"f1": {Data: []byte("1")},
		"f2": {Data: []byte("2")},
	}, ".", 0)
	if err != nil {
		t.Fatalf("DirFS() error = %v", err)
	}
	if got != want {
		t.Errorf("cap of 2 digest = %s, want %s", got, want)
	}
}

func TestDir_RemovesTempFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	data := t.TempDir()
	writeFile(t, filepath.Join(data, "a.txt"), []byte("1"))

	if _, err := Dir(context.Background(), data, 0); err != nil {
		t.Fatalf("Dir() error = %v", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "mlfcore-dirhash-") {
			t.Errorf("temp file %s was not removed", e.Name())
		}
	}
}

func TestDir_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		if _, err := Dir(context.Background(), filepath.Join(t.TempDir(), "nope"), 0); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, p, []byte("x"))
		if _, err := Dir(context.Background(), p, 0); err == nil {
			t.Error("expected error for non-directory path")
		}
	})

	t.Run("broken symlink aborts", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), []byte("1"))
		if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "b.txt")); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
		if _, err := Dir(context.Background(), dir, 0); err == nil {
			t.Error("expected error for unreadable file")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := DirFS(ctx, treeFS(), ".", 0); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestDir_SymlinkedDirectoryNotFollowed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("1"))

	before, err := Dir(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}

	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "b.txt"), []byte("2"))
	if err := os.Symlink(outside, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	after, err := Dir(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if after != before {
		t.Errorf("symlinked directory was followed: %s != %s", after, before)
	}
}

func TestDirH1(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("1"))

	h, err := DirH1(dir)
	if err != nil {
		t.Fatalf("DirH1() error = %v", err)
	}
	if !strings.HasPrefix(h, "h1:") {
		t.Errorf("DirH1() = %s, want h1: prefix", h)
	}

	if _, err := DirH1(filepath.Join(dir, "a.txt")); err == nil {
		t.Error("expected error for non-directory path")
	}
}
