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

//go:build arm64

package hwy

import (
	"os"

	"golang.org/x/sys/cpu"
)

// hasSVE records whether ARM SVE is available. Portable kernels only use
// 128-bit NEON lanes, so SVE is reported but never selected.
var hasSVE = cpu.ARM64.HasSVE

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	// ASIMD is part of the ARMv8-A base architecture; the check keeps
	// detection honest on emulators that strip it.
	if cpu.ARM64.HasASIMD {
		currentLevel = DispatchNEON
		currentWidth = 16 // NEON is 128-bit (16 bytes)
	} else {
		setScalarMode()
	}
}

// HasSVE returns true if the CPU supports ARM SVE instructions and
// SVE has not been disabled via environment variables.
// Returns false when HWY_NO_SIMD or HWY_NO_SVE is set.
func HasSVE() bool {
	if NoSimdEnv() || os.Getenv("HWY_NO_SVE") != "" {
		return false
	}
	return hasSVE
}
