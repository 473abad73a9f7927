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

// Package winograd implements the Winograd minimal-filtering transforms
// for small-kernel float32 convolution.
//
// A convolution with an r-tap kernel producing m outputs per tile is
// rewritten as Y = Aᵀ[(G g) ⊙ (Bᵀ d)] (and Aᵀ[(G g Gᵀ) ⊙ (Bᵀ d B)]A in 2-D).
// This package provides the three fixed transforms around the element-wise
// product; the product itself (a batched GEMM over input channels) belongs
// to the caller.
//
// # Supported Pairs
//
//	Kernel1x3Block1x4   6 coefficients per tile
//	Kernel1x5Block1x4   8
//	Kernel2x2Block2x2   9
//	Kernel2x2Block4x4   25
//	Kernel3x3Block2x2   16
//	Kernel3x3Block3x3   25
//	Kernel3x3Block4x4   36
//
// # Layouts
//
// Feature maps are either [Planar] (C×H×W) or [Interleaved] (H×W×C).
// Transformed tensors are coefficient-major: coefficient k of every tile and
// channel lives in row k, rows are dstStride apart, and within a row the
// columns are tile*C+c (interleaved) or c*T+tile (planar).
//
// # Usage Example
//
//	t := winograd.Kernel3x3Block4x4
//	pad := winograd.Padding{Top: 1, Left: 1, Bottom: 1, Right: 1}
//	plan, _ := winograd.NewPlan(t, winograd.Geometry{
//	    Batch: 1, SrcC: 64, SrcH: 56, SrcW: 56, DstC: 64,
//	    Pad: pad, Layout: winograd.Interleaved,
//	})
//
//	filter := make([]float32, plan.FilterSize())
//	t.SetFilter(weights, 64*64, filter, winograd.Interleaved)
//
//	input := make([]float32, plan.InputSize())
//	t.SetInput(src, 64, 56, 56, pad, input, plan.InputStride(), winograd.Interleaved)
//	// ... for each k < plan.Count: GEMM(M, N, K) on row k of input and filter
//	t.SetOutput(product, plan.OutputStride(), dst, 64, plan.DstH, plan.DstW, winograd.Interleaved)
//
// # Lane Widths
//
// Every transform runs one generic kernel over groups of 1, 4, 8 or 16
// channels. The group width is chosen once per call by a [Policy], from the
// detected [hwy.CurrentLevel] and a threshold table. All widths and both tail
// modes produce bit-identical output.
//
// Contract violations (illegal padding, short buffers) panic.
package winograd
