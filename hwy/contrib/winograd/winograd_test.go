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
	"testing"

	"github.com/ajroetker/go-winograd/internal/reference"
)

func TestConvolutionEquivalence(t *testing.T) {
	for _, tr := range Transforms() {
		for _, layout := range layouts {
			for _, pad := range tr.LegalPaddings() {
				for _, hw := range inputSizes(tr) {
					for _, ch := range []int{1, 5} {
						h, w := hw[0], hw[1]
						t.Run(caseName(tr, layout, pad, h, w, ch), func(t *testing.T) {
							c := newConv(tr, ch, h, w, 3, pad, layout)
							src := random(c.SrcC*c.SrcH*c.SrcW, 1)
							weight := random(c.SrcC*c.DstC*c.KernelY*c.KernelX, 2)

							got := convolve(t, tr, DefaultPolicy(), c, src, weight)
							want := c.Correlate(src, weight)
							if len(got) != len(want) {
								t.Fatalf("output length %d, want %d", len(got), len(want))
							}
							if e := reference.MaxRelError(got, want); e > tolerance(tr) {
								t.Errorf("max relative error %g exceeds %g", e, tolerance(tr))
							}
						})
					}
				}
			}
		}
	}
}

func TestLayoutEquivalence(t *testing.T) {
	const channels, dstC = 6, 4
	for _, tr := range Transforms() {
		pads := tr.LegalPaddings()
		pad := pads[len(pads)-1]
		for _, hw := range inputSizes(tr) {
			h, w := hw[0], hw[1]
			t.Run(caseName(tr, Planar, pad, h, w, channels), func(t *testing.T) {
				pc := newConv(tr, channels, h, w, dstC, pad, Planar)
				ic := newConv(tr, channels, h, w, dstC, pad, Interleaved)

				src := random(channels*h*w, 3)
				weight := random(channels*dstC*pc.KernelY*pc.KernelX, 4)
				srcT := make([]float32, len(src))
				for c := range channels {
					for y := range h {
						for x := range w {
							srcT[ic.SrcIndex(c, y, x)] = src[pc.SrcIndex(c, y, x)]
						}
					}
				}
				weightT := make([]float32, len(weight))
				for o := range dstC {
					for i := range channels {
						for ky := range pc.KernelY {
							for kx := range pc.KernelX {
								weightT[ic.WeightIndex(o, i, ky, kx)] = weight[pc.WeightIndex(o, i, ky, kx)]
							}
						}
					}
				}

				// Transformed inputs hold the same values in permuted columns.
				outH, outW := tr.OutputSize(h, w, pad)
				tilesY, tilesX := tr.Tiles(outH, outW)
				tiles := tilesY * tilesX
				stride := channels * tiles
				pIn := make([]float32, tr.Count()*stride)
				iIn := make([]float32, tr.Count()*stride)
				tr.SetInput(src, channels, h, w, pad, pIn, stride, Planar)
				tr.SetInput(srcT, channels, h, w, pad, iIn, stride, Interleaved)
				for k := range tr.Count() {
					for tile := range tiles {
						for c := range channels {
							a, b := pIn[k*stride+c*tiles+tile], iIn[k*stride+tile*channels+c]
							if a != b {
								t.Fatalf("coef %d tile %d channel %d: planar %v, interleaved %v", k, tile, c, a, b)
							}
						}
					}
				}

				pOut := convolve(t, tr, DefaultPolicy(), pc, src, weight)
				iOut := convolve(t, tr, DefaultPolicy(), ic, srcT, weightT)
				for c := range dstC {
					for y := range outH {
						for x := range outW {
							a, b := pOut[pc.DstIndex(c, y, x)], iOut[ic.DstIndex(c, y, x)]
							if a != b {
								t.Fatalf("output (%d,%d,%d): planar %v, interleaved %v", c, y, x, a, b)
							}
						}
					}
				}
			})
		}
	}
}

func TestLaneWidthEquivalence(t *testing.T) {
	// 19 channels leave a tail for every width.
	const channels = 19
	for _, tr := range Transforms() {
		for _, layout := range layouts {
			pads := tr.LegalPaddings()
			pad := pads[len(pads)-1]
			hw := inputSizes(tr)[2]
			h, w := hw[0], hw[1]
			t.Run(caseName(tr, layout, pad, h, w, channels), func(t *testing.T) {
				src := random(channels*h*w, 5)
				weights := random(channels*tr.KernelArea(), 6)
				outH, outW := tr.OutputSize(h, w, pad)
				stride := tr.InputStride(channels, h, w, pad)
				product := random(tr.Count()*stride, 7)

				run := func(p Policy) (filter, input, output []float32) {
					filter = make([]float32, tr.Count()*channels)
					tr.SetFilterWith(p, weights, channels, filter, layout)
					input = make([]float32, tr.Count()*stride)
					tr.SetInputWith(p, src, channels, h, w, pad, input, stride, layout)
					output = make([]float32, channels*outH*outW)
					tr.SetOutputWith(p, product, stride, output, channels, outH, outW, layout)
					return filter, input, output
				}

				wantF, wantI, wantO := run(Policy{Width: 1})
				for _, p := range lanePolicies[1:] {
					gotF, gotI, gotO := run(p)
					requireSameBits(t, p.String()+" filter", gotF, wantF)
					requireSameBits(t, p.String()+" input", gotI, wantI)
					requireSameBits(t, p.String()+" output", gotO, wantO)
				}
			})
		}
	}
}

func TestBoundaryIdempotence(t *testing.T) {
	const channels = 3
	for _, tr := range Transforms() {
		by, bx := tr.Block()
		ny, nx := tr.Tile()
		ky, kx := tr.Kernel()
		// Two tiles per axis with no padding: every tile is interior.
		h, w := 2*by+ky-1, 2*bx+kx-1
		for _, layout := range layouts {
			t.Run(caseName(tr, layout, Padding{}, h, w, channels), func(t *testing.T) {
				ay, ax := tr.inputAxes(h, w, Padding{})
				for s := range ay.All() {
					for r := range ax.All() {
						if s.Kind != TileInterior || r.Kind != TileInterior {
							t.Fatalf("tile (%d,%d) is %v/%v, want interior", s.Index, r.Index, s.Kind, r.Kind)
						}
					}
				}

				src := random(channels*h*w, 8)
				v := newView(layout, channels, h, w)
				tilesY, tilesX := ay.Tiles(), ax.Tiles()
				stride := channels * tilesY * tilesX
				full := make([]float32, tr.Count()*stride)
				tr.SetInput(src, channels, h, w, Padding{}, full, stride, layout)
				cols := newColumns(layout, channels, tilesY*tilesX)

				for ty := range tilesY {
					for tx := range tilesX {
						// Cut the tile window out as its own map.
						wv := newView(layout, channels, ny, nx)
						window := make([]float32, wv.size())
						for c := range channels {
							for y := range ny {
								for x := range nx {
									window[wv.at(c, y, x)] = src[v.at(c, ty*by+y, tx*bx+x)]
								}
							}
						}
						single := make([]float32, tr.Count()*channels)
						tr.SetInput(window, channels, ny, nx, Padding{}, single, channels, layout)

						tile := ty*tilesX + tx
						for k := range tr.Count() {
							for c := range channels {
								got := full[k*stride+cols.at(c, tile)]
								want := single[k*channels+c]
								if got != want {
									t.Fatalf("tile (%d,%d) coef %d channel %d: %v, want %v", ty, tx, k, c, got, want)
								}
							}
						}
					}
				}
			})
		}
	}
}

func TestZeroInput(t *testing.T) {
	const channels = 7
	for _, tr := range Transforms() {
		for _, layout := range layouts {
			pads := tr.LegalPaddings()
			pad := pads[len(pads)-1]
			hw := inputSizes(tr)[1]
			h, w := hw[0], hw[1]
			t.Run(caseName(tr, layout, pad, h, w, channels), func(t *testing.T) {
				outH, outW := tr.OutputSize(h, w, pad)
				stride := tr.InputStride(channels, h, w, pad)

				filter := random(tr.Count()*channels, 9)
				tr.SetFilter(make([]float32, channels*tr.KernelArea()), channels, filter, layout)
				input := random(tr.Count()*stride, 10)
				tr.SetInput(make([]float32, channels*h*w), channels, h, w, pad, input, stride, layout)
				output := random(channels*outH*outW, 11)
				tr.SetOutput(make([]float32, tr.Count()*stride), stride, output, channels, outH, outW, layout)

				for name, buf := range map[string][]float32{"filter": filter, "input": input, "output": output} {
					for i, v := range buf {
						if v != 0 {
							t.Fatalf("%s[%d] = %v, want 0", name, i, v)
						}
					}
				}
			})
		}
	}
}

func TestKernel1x3Block1x4ConstantRow(t *testing.T) {
	const (
		channels = 8
		width    = 12
	)
	tr := Kernel1x3Block1x4
	src := make([]float32, channels*width)
	for i := range src {
		src[i] = 1
	}

	stride := tr.InputStride(channels, 1, width, Padding{})
	if stride != 3*channels {
		t.Fatalf("InputStride = %d, want %d", stride, 3*channels)
	}
	input := make([]float32, tr.Count()*stride)
	tr.SetInput(src, channels, 1, width, Padding{}, input, stride, Interleaved)

	// Closed form of Bᵀd for each tile window; the last window holds only
	// four samples and is zero filled.
	closed := func(s [6]float32) [6]float32 {
		return [6]float32{
			4*s[0] - 5*s[2] + s[4],
			-4*s[1] - 4*s[2] + s[3] + s[4],
			4*s[1] - 4*s[2] - s[3] + s[4],
			-2*s[1] - s[2] + 2*s[3] + s[4],
			2*s[1] - s[2] - 2*s[3] + s[4],
			4*s[1] - 5*s[3] + s[5],
		}
	}
	windows := [3][6]float32{
		{1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 0, 0},
	}
	for tile, win := range windows {
		want := closed(win)
		for k := range 6 {
			for c := range channels {
				if got := input[k*stride+tile*channels+c]; got != want[k] {
					t.Errorf("tile %d row %d channel %d = %v, want %v", tile, k, c, got, want[k])
				}
			}
		}
	}

	// Depthwise [1, 0, -1] filters as a diagonal bank.
	c := newConv(tr, channels, 1, width, channels, Padding{}, Interleaved)
	weight := make([]float32, channels*channels*3)
	for ch := range channels {
		weight[c.WeightIndex(ch, ch, 0, 0)] = 1
		weight[c.WeightIndex(ch, ch, 0, 2)] = -1
	}
	out := convolve(t, tr, DefaultPolicy(), c, src, weight)
	if len(out) != channels*(width-2) {
		t.Fatalf("output length %d, want %d", len(out), channels*(width-2))
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestPreconditionPanics(t *testing.T) {
	tr := Kernel3x3Block2x2
	buf := make([]float32, 1<<12)
	tests := []struct {
		name string
		fn   func()
	}{
		{"uneven padding", func() {
			tr.SetInput(buf, 1, 4, 4, Padding{Top: 1}, buf, 64, Interleaved)
		}},
		{"large padding", func() {
			Kernel1x5Block1x4.SetInput(buf, 1, 1, 8, Padding{Left: 1, Right: 1}, buf, 64, Interleaved)
		}},
		{"short input stride", func() {
			tr.SetInput(buf, 2, 4, 4, Padding{}, buf, 1, Interleaved)
		}},
		{"short source", func() {
			tr.SetInput(buf[:10], 1, 4, 4, Padding{}, buf, 64, Planar)
		}},
		{"input smaller than kernel", func() {
			tr.SetInput(buf, 1, 2, 2, Padding{}, buf, 64, Planar)
		}},
		{"short filter destination", func() {
			tr.SetFilter(buf, 4, buf[:10], Planar)
		}},
		{"short output destination", func() {
			tr.SetOutput(buf, 64, buf[:3], 1, 2, 2, Interleaved)
		}},
		{"bad output shape", func() {
			tr.SetOutput(buf, 64, buf, 0, 2, 2, Interleaved)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", tt.name)
				}
			}()
			tt.fn()
		})
	}
}

func TestMergedBatchEquivalence(t *testing.T) {
	const batch, channels, dstC, h, w = 4, 3, 5, 9, 9
	for _, tr := range Transforms() {
		pads := tr.LegalPaddings()
		pad := pads[len(pads)-1]
		t.Run(caseName(tr, Interleaved, pad, h, w, channels), func(t *testing.T) {
			c := newConv(tr, channels, h, w, dstC, pad, Interleaved)
			plan, err := NewPlan(tr, Geometry{Batch: batch, SrcC: channels, SrcH: h, SrcW: w, DstC: dstC, Pad: pad, Layout: Interleaved})
			if err != nil {
				t.Fatalf("NewPlan: %v", err)
			}
			if plan.Merge < 2 {
				t.Fatalf("Merge = %d for %d tiles, want at least 2", plan.Merge, plan.M)
			}

			weight := random(c.SrcC*c.DstC*c.KernelY*c.KernelX, 21)
			filter := make([]float32, plan.FilterSize())
			tr.SetFilter(weight, c.SrcC*c.DstC, filter, Interleaved)

			item := c.SrcC * c.SrcH * c.SrcW
			src := random(batch*item, 22)
			input := make([]float32, plan.InputSize())
			product := make([]float32, plan.OutputSize())
			got := make([]float32, batch*c.DstC*plan.DstH*plan.DstW)
			out := c.DstC * plan.DstH * plan.DstW

			for b0 := 0; b0 < batch; b0 += plan.Merge {
				for m := range plan.Merge {
					b := b0 + m
					tr.SetInput(src[b*item:(b+1)*item], c.SrcC, c.SrcH, c.SrcW, pad, input[m*plan.StrideS:], plan.InputStride(), Interleaved)
				}
				reference.MultiplyAccumulate(plan.Count, plan.M*plan.Merge, plan.N, plan.K,
					input, plan.InputStride(), filter, plan.StrideW, product, plan.OutputStride())
				for m := range plan.Merge {
					b := b0 + m
					tr.SetOutput(product[m*plan.StrideD:], plan.OutputStride(), got[b*out:(b+1)*out], c.DstC, plan.DstH, plan.DstW, Interleaved)
				}
			}

			for b := range batch {
				want := c.Correlate(src[b*item:(b+1)*item], weight)
				if e := reference.MaxRelError(got[b*out:(b+1)*out], want); e > tolerance(tr) {
					t.Errorf("item %d: max relative error %g exceeds %g", b, e, tolerance(tr))
				}
			}
		})
	}
}
