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

import (
	"fmt"
	"math"
	"testing"

	"github.com/ajroetker/go-winograd/internal/reference"
)

var layouts = []Layout{Planar, Interleaved}

// lanePolicies covers every width and both tail modes.
var lanePolicies = []Policy{
	{Width: 1},
	{Width: 4, Tail: TailMasked},
	{Width: 4, Tail: TailScalar},
	{Width: 8, Tail: TailMasked},
	{Width: 8, Tail: TailScalar},
	{Width: 16, Tail: TailMasked},
	{Width: 16, Tail: TailScalar},
}

// tolerance is the relative error allowed against direct correlation.
// F(4,5) interpolates at ±3 and loses about one more digit.
func tolerance(t *Transform) float64 {
	if t == Kernel1x5Block1x4 {
		return 5e-4
	}
	return 1e-4
}

func newConv(t *Transform, srcC, srcH, srcW, dstC int, pad Padding, layout Layout) reference.Conv {
	ky, kx := t.Kernel()
	return reference.Conv{
		SrcC: srcC, SrcH: srcH, SrcW: srcW, DstC: dstC,
		KernelY: ky, KernelX: kx,
		PadTop: pad.Top, PadLeft: pad.Left, PadBottom: pad.Bottom, PadRight: pad.Right,
		Interleaved: layout == Interleaved,
	}
}

func convLayout(c reference.Conv) Layout {
	if c.Interleaved {
		return Interleaved
	}
	return Planar
}

func convPad(c reference.Conv) Padding {
	return Padding{Top: c.PadTop, Left: c.PadLeft, Bottom: c.PadBottom, Right: c.PadRight}
}

// convolve runs filter transform, input transform, the transformed-domain
// GEMM and the output transform for c.
func convolve(tb testing.TB, t *Transform, p Policy, c reference.Conv, src, weight []float32) []float32 {
	tb.Helper()
	layout, pad := convLayout(c), convPad(c)
	plan, err := NewPlan(t, Geometry{Batch: 1, SrcC: c.SrcC, SrcH: c.SrcH, SrcW: c.SrcW, DstC: c.DstC, Pad: pad, Layout: layout})
	if err != nil {
		tb.Fatalf("NewPlan: %v", err)
	}

	filter := make([]float32, plan.FilterSize())
	t.SetFilterWith(p, weight, c.SrcC*c.DstC, filter, layout)

	input := make([]float32, plan.InputSize())
	t.SetInputWith(p, src, c.SrcC, c.SrcH, c.SrcW, pad, input, plan.InputStride(), layout)

	product := make([]float32, plan.OutputSize())
	if layout == Interleaved {
		reference.MultiplyAccumulate(plan.Count, plan.M, plan.N, plan.K,
			input, plan.InputStride(), filter, plan.StrideW, product, plan.OutputStride())
	} else {
		reference.MultiplyAccumulate(plan.Count, plan.M, plan.N, plan.K,
			filter, plan.StrideW, input, plan.InputStride(), product, plan.OutputStride())
	}

	dst := make([]float32, c.DstC*plan.DstH*plan.DstW)
	t.SetOutputWith(p, product, plan.OutputStride(), dst, c.DstC, plan.DstH, plan.DstW, layout)
	return dst
}

// sameBits reports the first index where a and b differ bitwise.
func sameBits(a, b []float32) (int, bool) {
	if len(a) != len(b) {
		return -1, false
	}
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return i, false
		}
	}
	return 0, true
}

func requireSameBits(tb testing.TB, what string, got, want []float32) {
	tb.Helper()
	if i, ok := sameBits(got, want); !ok {
		if i < 0 {
			tb.Fatalf("%s: length %d, want %d", what, len(got), len(want))
		}
		tb.Fatalf("%s: at %d got %v (%#x), want %v (%#x)", what, i,
			got[i], math.Float32bits(got[i]), want[i], math.Float32bits(want[i]))
	}
}

func random(n int, seed uint64) []float32 {
	v := make([]float32, n)
	reference.Fill(v, seed)
	return v
}

// inputSizes returns spatial sizes for t that exercise nose, interior and
// short tail tiles.
func inputSizes(t *Transform) [][2]int {
	if ky, _ := t.Kernel(); ky == 1 {
		return [][2]int{{1, 5}, {2, 9}, {3, 12}, {1, 14}}
	}
	return [][2]int{{3, 3}, {4, 5}, {7, 9}, {10, 6}}
}

func caseName(t *Transform, layout Layout, pad Padding, h, w, c int) string {
	return fmt.Sprintf("%s/%s/pad=%s/%dx%dx%d", t, layout, pad, h, w, c)
}
