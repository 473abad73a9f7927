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

package winograd

import "github.com/ajroetker/go-winograd/hwy"

const (
	// maxLanes is the widest channel group any strategy uses.
	maxLanes = 16

	// maxPoints is the largest tile, 6×6 for Kernel3x3Block4x4.
	maxPoints = 36
)

// scratch holds the stack buffers of one transform call: the gathered tile,
// the row-pass intermediate and the transformed result, each as
// [point][lane].
type scratch struct {
	in, tmp, out [maxPoints * maxLanes]float32
}

// applyLanes computes, for every row r of m and lane l < active,
//
//	dst[r*dstStep+l] = Σ coef · src[idx*srcStep+l]
//
// over the row's terms in table order, on vectors of lanes lanes. Lanes at
// or past active are neither read nor written.
func applyLanes(m *Matrix, src []float32, srcStep int, dst []float32, dstStep, lanes, active int) {
	if active == lanes && applyLanesSIMD(m, src, srcStep, dst, dstStep, lanes) {
		return
	}
	BaseApplyLanes(m, src, srcStep, dst, dstStep, lanes, active)
}

// BaseApplyLanes is the portable form of the lane kernel and the reference
// every accelerated variant must match bit for bit. Products and sums are
// separate hwy.Mul and hwy.Add steps, so every lane width rounds the same
// way. A group with fewer than lanes active channels runs under a
// hwy.FirstN mask.
func BaseApplyLanes(m *Matrix, src []float32, srcStep int, dst []float32, dstStep, lanes, active int) {
	if active < lanes {
		mask := hwy.FirstN[float32](lanes, active)
		for r, row := range m.rows {
			var acc hwy.Vec[float32]
			for i, tm := range row {
				p := hwy.Mul(hwy.Set(tm.coef, lanes), hwy.MaskLoad(mask, src[tm.idx*srcStep:]))
				if i == 0 {
					acc = p
				} else {
					acc = hwy.Add(acc, p)
				}
			}
			hwy.MaskStore(mask, acc, dst[r*dstStep:])
		}
		return
	}
	for r, row := range m.rows {
		var acc hwy.Vec[float32]
		for i, tm := range row {
			p := hwy.Mul(hwy.Set(tm.coef, lanes), hwy.Load(src[tm.idx*srcStep:], lanes))
			if i == 0 {
				acc = p
			} else {
				acc = hwy.Add(acc, p)
			}
		}
		hwy.Store(acc, dst[r*dstStep:])
	}
}

// apply2D computes my · X · mxᵀ for a tile X of my.Cols() × mx.Cols()
// points, each point a group of lanes floats of which the first active are
// live. The row pass runs first into tmp, then the column pass into dst,
// which ends up my.Rows() × mx.Rows().
func apply2D(my, mx *Matrix, src, tmp, dst []float32, lanes, active int) {
	n := lanes
	ci, co := mx.cols, len(mx.rows)
	if my.identity {
		for i := range len(my.rows) {
			applyLanes(mx, src[i*ci*n:], n, dst[i*co*n:], n, n, active)
		}
		return
	}
	for j := range ci {
		applyLanes(my, src[j*n:], ci*n, tmp[j*n:], ci*n, n, active)
	}
	for i := range len(my.rows) {
		applyLanes(mx, tmp[i*ci*n:], n, dst[i*co*n:], n, n, active)
	}
}
