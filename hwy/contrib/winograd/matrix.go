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

import "fmt"

// term is one nonzero coefficient num/den applied to input index idx.
type term struct {
	idx      int
	num, den int32
	coef     float32
}

// ti builds a term with an integer coefficient.
func ti(idx int, num int32) term {
	return term{idx: idx, num: num, den: 1, coef: float32(num)}
}

// tq builds a term with a rational coefficient num/den.
func tq(idx int, num, den int32) term {
	return term{idx: idx, num: num, den: den, coef: float32(num) / float32(den)}
}

// Matrix is a fixed linear map from Cols inputs to Rows outputs, stored as
// sparse rows. Row r produces Σ coef·in[idx] over its terms, summed in
// order.
type Matrix struct {
	rows     [][]term
	cols     int
	identity bool
}

func newMatrix(cols int, rows ...[]term) *Matrix {
	for r, row := range rows {
		if len(row) == 0 {
			panic(fmt.Sprintf("winograd: matrix row %d is empty", r))
		}
		for _, tm := range row {
			if tm.idx < 0 || tm.idx >= cols || tm.den == 0 {
				panic(fmt.Sprintf("winograd: bad term %+v in row %d", tm, r))
			}
		}
	}
	return &Matrix{rows: rows, cols: cols}
}

// unit is the 1×1 identity used for the untiled axis of 1-D kernels.
var unit = &Matrix{rows: [][]term{{ti(0, 1)}}, cols: 1, identity: true}

// Rows returns the number of outputs.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of inputs.
func (m *Matrix) Cols() int { return m.cols }

// Rat returns entry (r, c) as a fraction; 0/1 when the entry is zero.
func (m *Matrix) Rat(r, c int) (num, den int64) {
	for _, tm := range m.rows[r] {
		if tm.idx == c {
			return int64(tm.num), int64(tm.den)
		}
	}
	return 0, 1
}

// At returns entry (r, c) as the float32 multiplier used by the kernels.
func (m *Matrix) At(r, c int) float32 {
	for _, tm := range m.rows[r] {
		if tm.idx == c {
			return tm.coef
		}
	}
	return 0
}

// axisMaps holds the 1-D matrices of one transform axis.
type axisMaps struct {
	kernel, block int
	g             *Matrix // tile × kernel
	bt            *Matrix // tile × tile
	at            *Matrix // block × tile
}

func (a axisMaps) tile() int { return a.kernel + a.block - 1 }

// untiled is the axis of a 1-D kernel that is walked one row at a time.
var untiled = axisMaps{kernel: 1, block: 1, g: unit, bt: unit, at: unit}

// F(4,3): six points 0, ±1, ±2, ∞.
var k3b4 = axisMaps{
	kernel: 3, block: 4,
	g: newMatrix(3,
		[]term{tq(0, 1, 4)},
		[]term{tq(0, -1, 6), tq(1, -1, 6), tq(2, -1, 6)},
		[]term{tq(0, -1, 6), tq(1, 1, 6), tq(2, -1, 6)},
		[]term{tq(0, 1, 24), tq(1, 1, 12), tq(2, 1, 6)},
		[]term{tq(0, 1, 24), tq(1, -1, 12), tq(2, 1, 6)},
		[]term{ti(2, 1)},
	),
	bt: newMatrix(6,
		[]term{ti(0, 4), ti(2, -5), ti(4, 1)},
		[]term{ti(1, -4), ti(2, -4), ti(3, 1), ti(4, 1)},
		[]term{ti(1, 4), ti(2, -4), ti(3, -1), ti(4, 1)},
		[]term{ti(1, -2), ti(2, -1), ti(3, 2), ti(4, 1)},
		[]term{ti(1, 2), ti(2, -1), ti(3, -2), ti(4, 1)},
		[]term{ti(1, 4), ti(3, -5), ti(5, 1)},
	),
	at: newMatrix(6,
		[]term{ti(0, 1), ti(1, 1), ti(2, 1), ti(3, 1), ti(4, 1)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 2), ti(4, -2)},
		[]term{ti(1, 1), ti(2, 1), ti(3, 4), ti(4, 4)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 8), ti(4, -8), ti(5, 1)},
	),
}

// F(4,5): eight points 0, ±1, ±2, ±3, ∞.
var k5b4 = axisMaps{
	kernel: 5, block: 4,
	g: newMatrix(5,
		[]term{tq(0, 1, 36)},
		[]term{tq(0, 1, 48), tq(1, 1, 48), tq(2, 1, 48), tq(3, 1, 48), tq(4, 1, 48)},
		[]term{tq(0, 1, 48), tq(1, -1, 48), tq(2, 1, 48), tq(3, -1, 48), tq(4, 1, 48)},
		[]term{tq(0, -1, 120), tq(1, -2, 120), tq(2, -4, 120), tq(3, -8, 120), tq(4, -16, 120)},
		[]term{tq(0, -1, 120), tq(1, 2, 120), tq(2, -4, 120), tq(3, 8, 120), tq(4, -16, 120)},
		[]term{tq(0, 1, 720), tq(1, 3, 720), tq(2, 9, 720), tq(3, 27, 720), tq(4, 81, 720)},
		[]term{tq(0, 1, 720), tq(1, -3, 720), tq(2, 9, 720), tq(3, -27, 720), tq(4, 81, 720)},
		[]term{ti(4, 1)},
	),
	bt: newMatrix(8,
		[]term{ti(0, 36), ti(2, -49), ti(4, 14), ti(6, -1)},
		[]term{ti(1, 36), ti(2, 36), ti(3, -13), ti(4, -13), ti(5, 1), ti(6, 1)},
		[]term{ti(1, -36), ti(2, 36), ti(3, 13), ti(4, -13), ti(5, -1), ti(6, 1)},
		[]term{ti(1, 18), ti(2, 9), ti(3, -20), ti(4, -10), ti(5, 2), ti(6, 1)},
		[]term{ti(1, -18), ti(2, 9), ti(3, 20), ti(4, -10), ti(5, -2), ti(6, 1)},
		[]term{ti(1, 12), ti(2, 4), ti(3, -15), ti(4, -5), ti(5, 3), ti(6, 1)},
		[]term{ti(1, -12), ti(2, 4), ti(3, 15), ti(4, -5), ti(5, -3), ti(6, 1)},
		[]term{ti(1, -36), ti(3, 49), ti(5, -14), ti(7, 1)},
	),
	at: newMatrix(8,
		[]term{ti(0, 1), ti(1, 1), ti(2, 1), ti(3, 1), ti(4, 1), ti(5, 1), ti(6, 1)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 2), ti(4, -2), ti(5, 3), ti(6, -3)},
		[]term{ti(1, 1), ti(2, 1), ti(3, 4), ti(4, 4), ti(5, 9), ti(6, 9)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 8), ti(4, -8), ti(5, 27), ti(6, -27), ti(7, 1)},
	),
}

// F(2,2): three points 0, -1, ∞.
var k2b2 = axisMaps{
	kernel: 2, block: 2,
	g: newMatrix(2,
		[]term{ti(0, 1)},
		[]term{ti(0, 1), ti(1, 1)},
		[]term{ti(1, 1)},
	),
	bt: newMatrix(3,
		[]term{ti(0, 1), ti(1, -1)},
		[]term{ti(1, 1)},
		[]term{ti(1, -1), ti(2, 1)},
	),
	at: newMatrix(3,
		[]term{ti(0, 1), ti(1, 1)},
		[]term{ti(1, 1), ti(2, 1)},
	),
}

// bt5 is the five-point input basis shared by F(4,2) and F(3,3).
var bt5 = newMatrix(5,
	[]term{ti(0, 2), ti(1, -1), ti(2, -2), ti(3, 1)},
	[]term{ti(1, -2), ti(2, -1), ti(3, 1)},
	[]term{ti(1, 2), ti(2, -3), ti(3, 1)},
	[]term{ti(1, -1), ti(3, 1)},
	[]term{ti(1, 2), ti(2, -1), ti(3, -2), ti(4, 1)},
)

// F(4,2): five points 0, ±1, 2, ∞.
var k2b4 = axisMaps{
	kernel: 2, block: 4,
	g: newMatrix(2,
		[]term{tq(0, 1, 2)},
		[]term{tq(0, -1, 2), tq(1, -1, 2)},
		[]term{tq(0, -1, 6), tq(1, 1, 6)},
		[]term{tq(0, 1, 6), tq(1, 1, 3)},
		[]term{ti(1, 1)},
	),
	bt: bt5,
	at: newMatrix(5,
		[]term{ti(0, 1), ti(1, 1), ti(2, 1), ti(3, 1)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 2)},
		[]term{ti(1, 1), ti(2, 1), ti(3, 4)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 8), ti(4, 1)},
	),
}

// F(2,3): four points 0, ±1, ∞.
var k3b2 = axisMaps{
	kernel: 3, block: 2,
	g: newMatrix(3,
		[]term{ti(0, 1)},
		[]term{tq(0, 1, 2), tq(1, 1, 2), tq(2, 1, 2)},
		[]term{tq(0, 1, 2), tq(1, -1, 2), tq(2, 1, 2)},
		[]term{ti(2, 1)},
	),
	bt: newMatrix(4,
		[]term{ti(0, 1), ti(2, -1)},
		[]term{ti(1, 1), ti(2, 1)},
		[]term{ti(1, -1), ti(2, 1)},
		[]term{ti(1, 1), ti(3, -1)},
	),
	at: newMatrix(4,
		[]term{ti(0, 1), ti(1, 1), ti(2, 1)},
		[]term{ti(1, 1), ti(2, -1), ti(3, -1)},
	),
}

// F(3,3): five points 0, ±1, 2, ∞.
var k3b3 = axisMaps{
	kernel: 3, block: 3,
	g: newMatrix(3,
		[]term{tq(0, 1, 2)},
		[]term{tq(0, -1, 2), tq(1, -1, 2), tq(2, -1, 2)},
		[]term{tq(0, -1, 6), tq(1, 1, 6), tq(2, -1, 6)},
		[]term{tq(0, 1, 6), tq(1, 1, 3), tq(2, 2, 3)},
		[]term{ti(2, 1)},
	),
	bt: bt5,
	at: newMatrix(5,
		[]term{ti(0, 1), ti(1, 1), ti(2, 1), ti(3, 1)},
		[]term{ti(1, 1), ti(2, -1), ti(3, 2)},
		[]term{ti(1, 1), ti(2, 1), ti(3, 4), ti(4, 1)},
	),
}
