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

// Package hwy reports the SIMD capabilities of the running CPU and exposes
// them as lane widths that portable kernels can be specialized for, along
// with the portable Vec and Mask operations those kernels are written in.
//
// Detection runs once at init. The HWY_NO_SIMD environment variable forces
// the scalar level regardless of what the CPU supports, which is useful for
// testing fallback paths.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-winograd/hwy"
//
//	lanes := hwy.MaxLanes[float32]() // 4 on NEON/SSE2, 8 on AVX2, 16 on AVX-512
//	if hwy.CurrentLevel() == hwy.DispatchScalar {
//	    lanes = 1
//	}
//
//	scale := hwy.Set(float32(2), lanes)
//	hwy.ProcessWithTail(len(data), lanes,
//	    func(offset int) {
//	        v := hwy.Load(data[offset:], lanes)
//	        hwy.Store(hwy.Mul(v, scale), data[offset:])
//	    },
//	    func(offset, count int) {
//	        mask := hwy.FirstN[float32](lanes, count)
//	        v := hwy.MaskLoad(mask, data[offset:])
//	        hwy.MaskStore(mask, hwy.Mul(v, scale), data[offset:])
//	    },
//	)
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats
}

// Vec is a vector of lanes of type T. The portable form holds the lanes in
// a slice; the lane count is fixed when the vector is created.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Data returns the underlying slice representation of the vector.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	return v.data
}

// Mask selects lanes of a Vec with the same lane count.
type Mask[T Lanes] struct {
	// bits[i] is set if lane i is active.
	bits []bool
}

// NumLanes returns the number of lanes in this mask.
func (m Mask[T]) NumLanes() int {
	return len(m.bits)
}
