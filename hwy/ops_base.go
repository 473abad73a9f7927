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

// This file provides the pure Go implementations of the vector operations.
// Unlike a hardware register, a portable vector takes its lane count from
// the caller, so a kernel can run 4, 8 or 16 lanes on any CPU and a lane
// width chosen by policy never depends on what was detected at init.
// Accelerated kernels (archsimd) must match these results bit for bit.

// Load creates a vector of lanes elements from the front of src.
func Load[T Lanes](src []T, lanes int) Vec[T] {
	data := make([]T, lanes)
	copy(data, src[:lanes])
	return Vec[T]{data: data}
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(dst), len(v.data))
	copy(dst[:n], v.data[:n])
}

// Set creates a vector of lanes elements all equal to value.
func Set[T Lanes](value T, lanes int) Vec[T] {
	data := make([]T, lanes)
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	n := min(len(b.data), len(a.data))
	result := make([]T, n)
	for i := range n {
		result[i] = T(a.data[i] + b.data[i])
	}
	return Vec[T]{data: result}
}

// Mul performs element-wise multiplication. Each product is rounded to T,
// so a Mul followed by an Add never contracts into a fused multiply-add.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	n := min(len(b.data), len(a.data))
	result := make([]T, n)
	for i := range n {
		result[i] = T(a.data[i] * b.data[i])
	}
	return Vec[T]{data: result}
}

// FirstN creates a mask of lanes lanes with the first n set.
func FirstN[T Lanes](lanes, n int) Mask[T] {
	n = max(0, min(n, lanes))
	bits := make([]bool, lanes)
	for i := range n {
		bits[i] = true
	}
	return Mask[T]{bits: bits}
}

// MaskLoad loads data from a slice only for lanes where the mask is true.
// Inactive lanes are zero and their source elements are never read, so src
// may end right after the last active lane.
func MaskLoad[T Lanes](mask Mask[T], src []T) Vec[T] {
	n := min(len(src), len(mask.bits))
	result := make([]T, len(mask.bits))
	for i := range n {
		if mask.bits[i] {
			result[i] = src[i]
		}
	}
	return Vec[T]{data: result}
}

// MaskStore stores vector data to a slice only for lanes where the mask is true.
func MaskStore[T Lanes](mask Mask[T], v Vec[T], dst []T) {
	n := min(len(dst), min(len(v.data), len(mask.bits)))
	for i := range n {
		if mask.bits[i] {
			dst[i] = v.data[i]
		}
	}
}
