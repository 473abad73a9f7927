// Copyright 2025 go-highway Authors
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

package hwy

// ProcessWithTail walks [0, size) in groups of lanes elements and handles
// the remainder separately.
//
// It calls:
//   - fullFn(offset) for each full group (offset is the starting index)
//   - tailFn(offset, count) once for the tail if size is not a multiple of lanes
//
// Example:
//
//	hwy.ProcessWithTail(len(data), 8,
//	    func(offset int) {
//	        process(data[offset : offset+8])
//	    },
//	    func(offset, count int) {
//	        process(data[offset : offset+count])
//	    },
//	)
func ProcessWithTail(size, lanes int, fullFn func(offset int), tailFn func(offset, count int)) {
	if lanes <= 0 {
		lanes = 1
	}

	// Process full groups
	fullGroups := size / lanes
	for i := range fullGroups {
		fullFn(i * lanes)
	}

	// Process tail if any
	remaining := size % lanes
	if remaining > 0 {
		tailFn(fullGroups*lanes, remaining)
	}
}
