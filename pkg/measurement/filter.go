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

import "path"

// FilterOut returns the readings whose keys match none of the glob patterns.
func FilterOut(readings map[string]Reading, patterns []string) map[string]Reading {
	result := make(map[string]Reading, len(readings))
	for key, value := range readings {
		if !matchesAny(key, patterns) {
			result[key] = value
		}
	}
	return result
}

// FilterIn returns the readings whose keys match at least one glob pattern.
func FilterIn(readings map[string]Reading, patterns []string) map[string]Reading {
	result := make(map[string]Reading)
	for key, value := range readings {
		if matchesAny(key, patterns) {
			result[key] = value
		}
	}
	return result
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, key); err == nil && ok {
			return true
		}
	}
	return false
}
