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

var (
	// ErrUnsupported reports a kernel or block size with no transform.
	ErrUnsupported = errors.New("winograd: unsupported transform")

	// ErrPadding reports padding a transform cannot absorb.
	ErrPadding = errors.New("winograd: illegal padding")
)

// Padding is the implicit zero padding around a feature map.
type Padding struct {
	Top, Left, Bottom, Right int
}

// String returns the padding as top,left,bottom,right.
func (p Padding) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", p.Top, p.Left, p.Bottom, p.Right)
}

// Transform is one (kernel, block) Winograd pair. The predefined values are
// the only instances; they are immutable and safe for concurrent use.
type Transform struct {
	name    string
	y, x    axisMaps
	padOK   func(Padding) bool
	padRule string
}

var (
	// Kernel1x3Block1x4 is F(1×4, 1×3).
	Kernel1x3Block1x4 = &Transform{
		name: "kernel1x3block1x4", y: untiled, x: k3b4,
		padOK: func(p Padding) bool {
			return p.Top == 0 && p.Bottom == 0 && p.Left == p.Right && (p.Left == 0 || p.Left == 1)
		},
		padRule: "top=bottom=0, left=right in {0,1}",
	}

	// Kernel1x5Block1x4 is F(1×4, 1×5).
	Kernel1x5Block1x4 = &Transform{
		name: "kernel1x5block1x4", y: untiled, x: k5b4,
		padOK: func(p Padding) bool {
			return p.Top == 0 && p.Bottom == 0 && p.Left == p.Right && (p.Left == 0 || p.Left == 2)
		},
		padRule: "top=bottom=0, left=right in {0,2}",
	}

	// Kernel2x2Block2x2 is F(2×2, 2×2).
	Kernel2x2Block2x2 = &Transform{
		name: "kernel2x2block2x2", y: k2b2, x: k2b2,
		padOK: padOneSided, padRule: padOneSidedRule,
	}

	// Kernel2x2Block4x4 is F(4×4, 2×2).
	Kernel2x2Block4x4 = &Transform{
		name: "kernel2x2block4x4", y: k2b4, x: k2b4,
		padOK: padOneSided, padRule: padOneSidedRule,
	}

	// Kernel3x3Block2x2 is F(2×2, 3×3).
	Kernel3x3Block2x2 = &Transform{
		name: "kernel3x3block2x2", y: k3b2, x: k3b2,
		padOK: padUniform, padRule: padUniformRule,
	}

	// Kernel3x3Block3x3 is F(3×3, 3×3).
	Kernel3x3Block3x3 = &Transform{
		name: "kernel3x3block3x3", y: k3b3, x: k3b3,
		padOK: padUniform, padRule: padUniformRule,
	}

	// Kernel3x3Block4x4 is F(4×4, 3×3). It accepts uneven padding.
	Kernel3x3Block4x4 = &Transform{
		name: "kernel3x3block4x4", y: k3b4, x: k3b4,
		padOK: func(p Padding) bool {
			return nonNegative(p) && p.Top+p.Bottom <= 2 && p.Left+p.Right <= 2
		},
		padRule: "top+bottom <= 2, left+right <= 2",
	}
)

var transforms = []*Transform{
	Kernel1x3Block1x4,
	Kernel1x5Block1x4,
	Kernel2x2Block2x2,
	Kernel2x2Block4x4,
	Kernel3x3Block2x2,
	Kernel3x3Block3x3,
	Kernel3x3Block4x4,
}

// 2×2 kernels pad either the top-left or the bottom-right corner by one.
const padOneSidedRule = "top=left, bottom=right, top+bottom in {0,1}"

func padOneSided(p Padding) bool {
	return nonNegative(p) && p.Top == p.Left && p.Bottom == p.Right && p.Top+p.Bottom <= 1
}

const padUniformRule = "all sides equal, in {0,1}"

func padUniform(p Padding) bool {
	return p.Top == p.Left && p.Top == p.Bottom && p.Top == p.Right && (p.Top == 0 || p.Top == 1)
}

func nonNegative(p Padding) bool {
	return p.Top >= 0 && p.Left >= 0 && p.Bottom >= 0 && p.Right >= 0
}

// Transforms returns every supported pair, 1-D kernels first.
func Transforms() []*Transform {
	return append([]*Transform(nil), transforms...)
}

// Lookup returns the transform for a kernel and block size.
func Lookup(kernelY, kernelX, blockY, blockX int) (*Transform, error) {
	for _, t := range transforms {
		if t.y.kernel == kernelY && t.x.kernel == kernelX && t.y.block == blockY && t.x.block == blockX {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: kernel %dx%d block %dx%d", ErrUnsupported, kernelY, kernelX, blockY, blockX)
}

// String returns the pair name, for example "kernel3x3block4x4".
func (t *Transform) String() string {
	return t.name
}

// Kernel returns the filter size.
func (t *Transform) Kernel() (y, x int) {
	return t.y.kernel, t.x.kernel
}

// Block returns the output tile size.
func (t *Transform) Block() (y, x int) {
	return t.y.block, t.x.block
}

// Tile returns the input tile size, Kernel+Block-1 per axis.
func (t *Transform) Tile() (y, x int) {
	return t.y.tile(), t.x.tile()
}

// KernelArea is the number of taps per filter.
func (t *Transform) KernelArea() int {
	return t.y.kernel * t.x.kernel
}

// Count is the number of transformed coefficients per tile, and the number
// of element-wise products the caller runs.
func (t *Transform) Count() int {
	return t.y.tile() * t.x.tile()
}

// Reduction is the ratio of direct multiplies to transformed-domain
// multiplies per output tile.
func (t *Transform) Reduction() float64 {
	direct := t.KernelArea() * t.y.block * t.x.block
	return float64(direct) / float64(t.Count())
}

// G returns the per-axis filter transform matrices.
func (t *Transform) G() (y, x *Matrix) { return t.y.g, t.x.g }

// BT returns the per-axis input transform matrices.
func (t *Transform) BT() (y, x *Matrix) { return t.y.bt, t.x.bt }

// AT returns the per-axis output transform matrices.
func (t *Transform) AT() (y, x *Matrix) { return t.y.at, t.x.at }

// PaddingRule describes the legal paddings in words.
func (t *Transform) PaddingRule() string {
	return t.padRule
}

// CheckPadding returns an error wrapping ErrPadding when p is not legal for t.
func (t *Transform) CheckPadding(p Padding) error {
	if !t.padOK(p) {
		return fmt.Errorf("%w: %s for %s needs %s", ErrPadding, p, t.name, t.padRule)
	}
	return nil
}

// LegalPaddings lists every padding the transform accepts.
func (t *Transform) LegalPaddings() []Padding {
	var out []Padding
	for top := range 3 {
		for left := range 3 {
			for bottom := range 3 {
				for right := range 3 {
					p := Padding{Top: top, Left: left, Bottom: bottom, Right: right}
					if t.padOK(p) {
						out = append(out, p)
					}
				}
			}
		}
	}
	return out
}

// inputAxes returns the tiling of a height × width input under pad.
func (t *Transform) inputAxes(height, width int, pad Padding) (ay, ax Axis) {
	ay = Axis{Length: height, Kernel: t.y.kernel, Block: t.y.block, PadBegin: pad.Top, PadEnd: pad.Bottom}
	ax = Axis{Length: width, Kernel: t.x.kernel, Block: t.x.block, PadBegin: pad.Left, PadEnd: pad.Right}
	return ay, ax
}

// outputAxes returns the tiling of a height × width output.
func (t *Transform) outputAxes(height, width int) (ay, ax Axis) {
	ay = Axis{Length: height + t.y.kernel - 1, Kernel: t.y.kernel, Block: t.y.block}
	ax = Axis{Length: width + t.x.kernel - 1, Kernel: t.x.kernel, Block: t.x.block}
	return ay, ax
}

// OutputSize returns the output dimensions of a height × width input.
func (t *Transform) OutputSize(height, width int, pad Padding) (outH, outW int) {
	ay, ax := t.inputAxes(height, width, pad)
	return ay.Out(), ax.Out()
}

// Tiles returns the tile grid of an outH × outW output.
func (t *Transform) Tiles(outH, outW int) (tilesY, tilesX int) {
	ay, ax := t.outputAxes(outH, outW)
	return ay.Tiles(), ax.Tiles()
}

// InputStride is the smallest dstStride SetInput accepts for the given
// input: one column per channel per tile.
func (t *Transform) InputStride(channels, height, width int, pad Padding) int {
	ty, tx := t.Tiles(t.OutputSize(height, width, pad))
	return channels * ty * tx
}
