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

// outputJob is a validated SetOutput call, split by tile rows.
type outputJob struct {
	src    []float32
	stride int
	cols   columns
	v      view
	ay, ax Axis
	dst    []float32
	strat  Strategy
}

// SetOutput applies the inverse transform to the element-wise products and
// writes a channels × height × width output. src uses the SetInput column
// scheme with srcStride between coefficient rows. Edge tiles write only the
// part of their block that falls inside the output.
func (t *Transform) SetOutput(src []float32, srcStride int, dst []float32, channels, height, width int, layout Layout) {
	t.SetOutputWith(defaultPolicy, src, srcStride, dst, channels, height, width, layout)
}

// SetOutputWith is SetOutput with an explicit lane policy.
func (t *Transform) SetOutputWith(p Policy, src []float32, srcStride int, dst []float32, channels, height, width int, layout Layout) {
	j := t.newOutputJob(p, src, srcStride, dst, channels, height, width, layout)
	t.outputRows(&j, 0, j.ay.Tiles())
}

func (t *Transform) newOutputJob(p Policy, src []float32, srcStride int, dst []float32, channels, height, width int, layout Layout) outputJob {
	if channels <= 0 || height <= 0 || width <= 0 {
		panic(fmt.Sprintf("winograd: bad output shape %dx%dx%d", channels, height, width))
	}
	ay, ax := t.outputAxes(height, width)
	tiles := ay.Tiles() * ax.Tiles()
	cols := channels * tiles
	if srcStride < cols {
		panic(fmt.Sprintf("winograd: output stride %d below %d", srcStride, cols))
	}
	if len(src) < (t.Count()-1)*srcStride+cols {
		panic("winograd: output source too short")
	}
	v := newView(layout, channels, height, width)
	if len(dst) < v.size() {
		panic("winograd: output destination too short")
	}
	return outputJob{
		src:    src,
		stride: srcStride,
		cols:   newColumns(layout, channels, tiles),
		v:      v,
		ay:     ay,
		ax:     ax,
		dst:    dst,
		strat:  p.Resolve(channels),
	}
}

// outputRows inverts tile rows [ty0, ty1).
func (t *Transform) outputRows(j *outputJob, ty0, ty1 int) {
	my, mx := t.AT()
	by, bx := t.Block()
	count := t.Count()
	tilesX := j.ax.Tiles()
	channels := j.v.channels

	var s scratch
	for ty := ty0; ty < ty1; ty++ {
		sy := j.ay.Tile(ty)
		for sx := range j.ax.All() {
			tile := ty*tilesX + sx.Index
			oy, ox := ty*by, sx.Index*bx
			for c := 0; c < channels; {
				w, n := j.strat.group(channels - c)
				for k := range count {
					gather(s.in[k*w:], j.src, k*j.stride+j.cols.at(c, tile), j.cols.cs, n)
				}
				apply2D(my, mx, s.in[:], s.tmp[:], s.out[:], w, n)
				for i := range sy.Valid {
					for jx := range sx.Valid {
						scatter(j.dst, j.v.at(c, oy+i, ox+jx), j.v.cs, s.out[(i*bx+jx)*w:], n)
					}
				}
				c += n
			}
		}
	}
}
