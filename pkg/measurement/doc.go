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

// Package measurement defines the data model of system intelligence reports.
//
// A Measurement groups the readings of one collector (host, cpu, memory, os,
// gpu, systemd) into named Subtypes. Each Subtype maps keys to Readings,
// which are typed scalars that serialize as their bare value:
//
//	m := &measurement.Measurement{
//	    Type: measurement.TypeHost,
//	    Subtypes: []measurement.Subtype{{
//	        Name: "runtime",
//	        Data: map[string]measurement.Reading{
//	            "hostname": measurement.Str("trainer-01"),
//	            "cpus":     measurement.Int(32),
//	        },
//	    }},
//	}
package measurement
