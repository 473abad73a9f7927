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

// inputJob is a validated SetInput call, split by tile rows.
type inputJob struct {
	src    []float32
	v      view
	ay, ax Axis
	dst    []float32
	stride int
	cols   columns
	strat  Strategy
}

// SetInput transforms every input tile of a channels × height × width
// feature map. Coefficient k of channel c in tile i goes to
// dst[k*dstStride+col], where col is i*channels+c for Interleaved and
// c*tiles+i for Planar. Tiles are numbered row-major over the output grid.
//
// Samples outside the map read as zero according to pad, which must be
// legal for t (see CheckPadding).
func (t *Transform) SetInput(src []float32, channels, height, width int, pad Padding, dst []float32, dstStride int, layout Layout) {
	t.SetInputWith(defaultPolicy, src, channels, height, width, pad, dst, dstStride, layout)
}

// SetInputWith is SetInput with an explicit lane policy.
func (t *Transform) SetInputWith(p Policy, src []float32, channels, height, width int, pad Padding, dst []float32, dstStride int, layout Layout) {
	j := t.newInputJob(p, src, channels, height, width, pad, dst, dstStride, layout)
	t.inputRows(&j, 0, j.ay.Tiles())
}

func (t *Transform) newInputJob(p Policy, src []float32, channels, height, width int, pad Padding, dst []float32, dstStride int, layout Layout) inputJob {
	if err := t.CheckPadding(pad); err != nil {
		panic(err)
	}
	if channels <= 0 || height <= 0 || width <= 0 {
		panic(fmt.Sprintf("winograd: bad input shape %dx%dx%d", channels, height, width))
	}
	ay, ax := t.inputAxes(height, width, pad)
	if ay.Out() == 0 || ax.Out() == 0 {
		panic(fmt.Sprintf("winograd: %dx%d input is smaller than the %s kernel", height, width, t.name))
	}
	cols := channels * ay.Tiles() * ax.Tiles()
	if dstStride < cols {
		panic(fmt.Sprintf("winograd: input stride %d below %d", dstStride, cols))
	}
	v := newView(layout, channels, height, width)
	if len(src) < v.size() {
		panic("winograd: input source too short")
	}
	if len(dst) < (t.Count()-1)*dstStride+cols {
		panic("winograd: input destination too short")
	}
	return inputJob{
		src:    src,
		v:      v,
		ay:     ay,
		ax:     ax,
		dst:    dst,
		stride: dstStride,
		cols:   newColumns(layout, channels, ay.Tiles()*ax.Tiles()),
		strat:  p.Resolve(channels),
	}
}

// inputRows transforms tile rows [ty0, ty1).
func (t *Transform) inputRows(j *inputJob, ty0, ty1 int) {
	my, mx := t.BT()
	ny, nx := t.Tile()
	count := t.Count()
	tilesX := j.ax.Tiles()
	channels := j.v.channels

	var s scratch
	for ty := ty0; ty < ty1; ty++ {
		sy := j.ay.Tile(ty)
		for sx := range j.ax.All() {
			tile := ty*tilesX + sx.Index
			edge := sy.Kind|sx.Kind != TileInterior
			for c := 0; c < channels; {
				w, n := j.strat.group(channels - c)
				if edge {
					clear(s.in[:ny*nx*w])
				}
				for wy := sy.Begin; wy < sy.End; wy++ {
					for wx := sx.Begin; wx < sx.End; wx++ {
						gather(s.in[(wy*nx+wx)*w:], j.src, j.v.at(c, sy.Start+wy, sx.Start+wx), j.v.cs, n)
					}
				}
				apply2D(my, mx, s.in[:], s.tmp[:], s.out[:], w, n)
				for k := range count {
					scatter(j.dst, k*j.stride+j.cols.at(c, tile), j.cols.cs, s.out[k*w:], n)
				}
				c += n
			}
		}
	}
}
