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
	"errors"
	"fmt"
)

// ErrGeometry reports a convolution shape that cannot be planned.
var ErrGeometry = errors.New("winograd: bad geometry")

// maxMergedRows bounds M*Merge for batched interleaved plans.
const maxMergedRows = 128

// Geometry describes a stride-1, dilation-1, ungrouped convolution layer.
type Geometry struct {
	Batch            int
	SrcC, SrcH, SrcW int
	DstC             int
	Pad              Padding
	Layout           Layout
}

func (g Geometry) validate() error {
	if g.Batch <= 0 || g.SrcC <= 0 || g.SrcH <= 0 || g.SrcW <= 0 || g.DstC <= 0 {
		return fmt.Errorf("%w: batch %d, src %dx%dx%d, dst channels %d", ErrGeometry, g.Batch, g.SrcC, g.SrcH, g.SrcW, g.DstC)
	}
	return nil
}

// Plan fixes the buffer shapes shared between the transforms and the
// caller's element-wise GEMM. For each coefficient k < Count the caller
// multiplies row k of the transformed input by row k of the transformed
// filter:
//
//	Interleaved: out[M=tiles][N=DstC] = in[M][K=SrcC] × filter[K][N]
//	Planar:      out[M=DstC][N=tiles] = filter[M][K=SrcC] × in[K][N]
//
// where input row k starts at k*InputStride(), filter row k at k*StrideW and
// output row k at k*OutputStride().
type Plan struct {
	Transform *Transform
	Geometry

	DstH, DstW     int
	TilesY, TilesX int

	// Count is the number of transformed coefficients, Transform.Count().
	Count int

	// StrideW, StrideS and StrideD are the row lengths of one batch item's
	// transformed filter, input and output.
	StrideW, StrideS, StrideD int

	M, N, K int

	// Merge is how many batch items share one transformed buffer. Items
	// m < Merge live at offset m*StrideS (input) and m*StrideD (output).
	Merge int
}

// NewPlan checks g against t and derives the transformed buffer layout.
func NewPlan(t *Transform, g Geometry) (Plan, error) {
	if err := g.validate(); err != nil {
		return Plan{}, err
	}
	if err := t.CheckPadding(g.Pad); err != nil {
		return Plan{}, err
	}
	dstH, dstW := t.OutputSize(g.SrcH, g.SrcW, g.Pad)
	if dstH == 0 || dstW == 0 {
		return Plan{}, fmt.Errorf("%w: %dx%d input is smaller than the %s kernel", ErrGeometry, g.SrcH, g.SrcW, t)
	}
	tilesY, tilesX := t.Tiles(dstH, dstW)
	tiles := tilesY * tilesX

	p := Plan{
		Transform: t,
		Geometry:  g,
		DstH:      dstH,
		DstW:      dstW,
		TilesY:    tilesY,
		TilesX:    tilesX,
		Count:     t.Count(),
		StrideW:   g.SrcC * g.DstC,
		StrideS:   g.SrcC * tiles,
		StrideD:   g.DstC * tiles,
		K:         g.SrcC,
		Merge:     1,
	}
	if g.Layout == Interleaved {
		p.M, p.N = tiles, g.DstC
		if g.Batch > 1 {
			for m := 1; m <= g.Batch; m++ {
				if g.Batch%m == 0 && p.M*m <= maxMergedRows {
					p.Merge = m
				}
			}
		}
	} else {
		p.M, p.N = g.DstC, tiles
	}
	return p, nil
}

// FilterSize is the length of the transformed filter buffer.
func (p Plan) FilterSize() int { return p.StrideW * p.Count }

// InputStride is the dstStride for SetInput into a merged buffer.
func (p Plan) InputStride() int { return p.StrideS * p.Merge }

// OutputStride is the srcStride for SetOutput from a merged buffer.
func (p Plan) OutputStride() int { return p.StrideD * p.Merge }

// InputSize is the length of the transformed input buffer.
func (p Plan) InputSize() int { return p.InputStride() * p.Count }

// OutputSize is the length of the transformed output buffer.
func (p Plan) OutputSize() int { return p.OutputStride() * p.Count }

// Choose picks the block size for a kernel the way a convolution layer
// would: larger blocks only for interleaved maps big enough to fill them.
func Choose(kernelY, kernelX int, g Geometry) (*Transform, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	trans := g.Layout == Interleaved
	area := g.SrcH * g.SrcW * g.Batch
	switch {
	case kernelY == 1 && (kernelX == 3 || kernelX == 5):
		return Lookup(1, kernelX, 1, 4)
	case kernelY == 2 && kernelX == 2:
		if trans && g.SrcH >= 8 && g.SrcW >= 8 && area >= 256 {
			return Kernel2x2Block4x4, nil
		}
		return Kernel2x2Block2x2, nil
	case kernelY == 3 && kernelX == 3:
		if trans && g.SrcH >= 8 && g.SrcW >= 8 && area >= 256 {
			return Kernel3x3Block4x4, nil
		}
		dstH, dstW := Kernel3x3Block2x2.OutputSize(g.SrcH, g.SrcW, g.Pad)
		if trans && g.SrcH >= 6 && g.SrcW >= 6 && area >= 144 && dstH%3 == 0 && dstW%3 == 0 {
			return Kernel3x3Block3x3, nil
		}
		return Kernel3x3Block2x2, nil
	}
	return nil, fmt.Errorf("%w: kernel %dx%d", ErrUnsupported, kernelY, kernelX)
}

// Preferable reports whether a layer is worth running through the Winograd
// transforms at all: enough input channels to amortize the transforms,
// legal padding, and a map large enough to tile.
func Preferable(kernelY, kernelX int, g Geometry) bool {
	t, err := Choose(kernelY, kernelX, g)
	if err != nil || t.CheckPadding(g.Pad) != nil || g.SrcC <= 16 {
		return false
	}
	minSide, minArea := 6, 0
	if g.Layout == Interleaved {
		minSide, minArea = 4, 36
	}
	if g.SrcW < minSide {
		return false
	}
	if kernelY == 1 {
		return g.SrcH*g.SrcW*g.Batch >= minArea
	}
	return g.SrcH >= minSide && g.SrcH*g.SrcW*g.Batch >= minArea
}
