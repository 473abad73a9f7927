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

// Package reference holds slow, obviously correct implementations used to
// check the Winograd transforms: direct correlation, the element-wise
// transformed-domain GEMM, and deterministic test data.
package reference

import "math/rand/v2"

// Conv is a stride-1 correlation of a SrcC × SrcH × SrcW map with DstC
// filters of KernelY × KernelX taps under zero padding.
//
// With Interleaved set, maps are H×W×C and weights are
// [KernelY][KernelX][SrcC][DstC]. Otherwise maps are C×H×W and weights are
// [DstC][SrcC][KernelY][KernelX].
type Conv struct {
	SrcC, SrcH, SrcW int
	DstC             int
	KernelY, KernelX int

	PadTop, PadLeft, PadBottom, PadRight int

	Interleaved bool
}

// DstH is the output height.
func (c Conv) DstH() int {
	return c.SrcH + c.PadTop + c.PadBottom - c.KernelY + 1
}

// DstW is the output width.
func (c Conv) DstW() int {
	return c.SrcW + c.PadLeft + c.PadRight - c.KernelX + 1
}

// SrcIndex returns the offset of (channel, y, x) in the source map.
func (c Conv) SrcIndex(ch, y, x int) int {
	if c.Interleaved {
		return (y*c.SrcW+x)*c.SrcC + ch
	}
	return (ch*c.SrcH+y)*c.SrcW + x
}

// DstIndex returns the offset of (channel, y, x) in the output map.
func (c Conv) DstIndex(ch, y, x int) int {
	if c.Interleaved {
		return (y*c.DstW()+x)*c.DstC + ch
	}
	return (ch*c.DstH()+y)*c.DstW() + x
}

// WeightIndex returns the offset of tap (ky, kx) from input channel in to
// output channel out.
func (c Conv) WeightIndex(out, in, ky, kx int) int {
	if c.Interleaved {
		return ((ky*c.KernelX+kx)*c.SrcC+in)*c.DstC + out
	}
	return ((out*c.SrcC+in)*c.KernelY+ky)*c.KernelX + kx
}

// Correlate computes the output directly, accumulating in float64.
func (c Conv) Correlate(src, weight []float32) []float32 {
	dstH, dstW := c.DstH(), c.DstW()
	dst := make([]float32, c.DstC*dstH*dstW)
	for out := range c.DstC {
		for oy := range dstH {
			for ox := range dstW {
				var sum float64
				for in := range c.SrcC {
					for ky := range c.KernelY {
						y := oy + ky - c.PadTop
						if y < 0 || y >= c.SrcH {
							continue
						}
						for kx := range c.KernelX {
							x := ox + kx - c.PadLeft
							if x < 0 || x >= c.SrcW {
								continue
							}
							sum += float64(src[c.SrcIndex(in, y, x)]) * float64(weight[c.WeightIndex(out, in, ky, kx)])
						}
					}
				}
				dst[c.DstIndex(out, oy, ox)] = float32(sum)
			}
		}
	}
	return dst
}

// MultiplyAccumulate runs count independent row-major products
// C_k[M×N] = A_k[M×K] · B_k[K×N], where operand k starts at k times its
// stride. This is the step a convolution layer places between the input and
// output transforms.
func MultiplyAccumulate(count, m, n, k int, a []float32, aStride int, b []float32, bStride int, c []float32, cStride int) {
	for p := range count {
		ap, bp, cp := a[p*aStride:], b[p*bStride:], c[p*cStride:]
		for i := range m {
			row := cp[i*n : i*n+n]
			clear(row)
			for j := range k {
				av := ap[i*k+j]
				br := bp[j*n : j*n+n]
				for x := range row {
					row[x] += av * br[x]
				}
			}
		}
	}
}

// Fill fills dst with uniform values in [-1, 1) from a fixed seed.
func Fill(dst []float32, seed uint64) {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range dst {
		dst[i] = 2*r.Float32() - 1
	}
}

// MaxRelError returns max |got-want| / max(1, |want|) over the slices.
func MaxRelError(got, want []float32) float64 {
	var worst float64
	for i := range want {
		d := float64(got[i]) - float64(want[i])
		if d < 0 {
			d = -d
		}
		w := float64(want[i])
		if w < 0 {
			w = -w
		}
		worst = max(worst, d/max(1, w))
	}
	return worst
}
