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

//go:build amd64 && goexperiment.simd

package winograd

import (
	"simd/archsimd"

	"github.com/ajroetker/go-winograd/hwy"
)

var (
	lanes8Enabled  bool
	lanes16Enabled bool
)

func init() {
	lanes8Enabled = hwy.CurrentLevel() >= hwy.DispatchAVX2
	lanes16Enabled = hwy.CurrentLevel() >= hwy.DispatchAVX512
}

// applyLanesSIMD runs full 8 and 16 lane groups with AVX2 and AVX-512.
// Products and sums are separate instructions in table order, matching
// BaseApplyLanes exactly.
func applyLanesSIMD(m *Matrix, src []float32, srcStep int, dst []float32, dstStep, lanes int) bool {
	switch {
	case lanes == 16 && lanes16Enabled:
		applyLanes16(m, src, srcStep, dst, dstStep)
	case lanes == 8 && lanes8Enabled:
		applyLanes8(m, src, srcStep, dst, dstStep)
	default:
		return false
	}
	return true
}

func applyLanes8(m *Matrix, src []float32, srcStep int, dst []float32, dstStep int) {
	for r, row := range m.rows {
		first := row[0]
		acc := archsimd.BroadcastFloat32x8(first.coef).Mul(archsimd.LoadFloat32x8Slice(src[first.idx*srcStep:]))
		for _, tm := range row[1:] {
			p := archsimd.BroadcastFloat32x8(tm.coef).Mul(archsimd.LoadFloat32x8Slice(src[tm.idx*srcStep:]))
			acc = acc.Add(p)
		}
		acc.StoreSlice(dst[r*dstStep:])
	}
}

func applyLanes16(m *Matrix, src []float32, srcStep int, dst []float32, dstStep int) {
	for r, row := range m.rows {
		first := row[0]
		acc := archsimd.BroadcastFloat32x16(first.coef).Mul(archsimd.LoadFloat32x16Slice(src[first.idx*srcStep:]))
		for _, tm := range row[1:] {
			p := archsimd.BroadcastFloat32x16(tm.coef).Mul(archsimd.LoadFloat32x16Slice(src[tm.idx*srcStep:]))
			acc = acc.Add(p)
		}
		acc.StoreSlice(dst[r*dstStep:])
	}
}
