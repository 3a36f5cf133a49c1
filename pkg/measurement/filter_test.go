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

package measurement

import "testing"

func TestFilter(t *testing.T) {
	readings := map[string]Reading{
		"Id":                     Str("containerd.service"),
		"LoadCredential":         Str("secret"),
		"SetCredentialEncrypted": Str("secret"),
		"ActiveState":            Str("active"),
		"MemoryLimit":            Uint64(1024),
	}

	out := FilterOut(readings, []string{"Id", "*Credential*"})
	if len(out) != 2 {
		t.Fatalf("FilterOut() kept %d readings, want 2: %v", len(out), out)
	}
	if _, ok := out["ActiveState"]; !ok {
		t.Error("FilterOut() dropped ActiveState")
	}

	in := FilterIn(readings, []string{"*State", "Memory*"})
	if len(in) != 2 {
		t.Fatalf("FilterIn() kept %d readings, want 2: %v", len(in), in)
	}
	if _, ok := in["MemoryLimit"]; !ok {
		t.Error("FilterIn() dropped MemoryLimit")
	}

	if got := FilterOut(readings, nil); len(got) != len(readings) {
		t.Errorf("FilterOut(nil) = %d readings, want %d", len(got), len(readings))
	}
}
