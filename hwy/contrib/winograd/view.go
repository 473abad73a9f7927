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

// Layout selects how channels are arranged in a feature map or filter.
type Layout int

const (
	// Planar stores each channel as a contiguous H×W plane (C×H×W).
	Planar Layout = iota

	// Interleaved stores the channels of each pixel contiguously (H×W×C).
	Interleaved
)

// String returns "planar" or "interleaved".
func (l Layout) String() string {
	switch l {
	case Planar:
		return "planar"
	case Interleaved:
		return "interleaved"
	default:
		return "unknown"
	}
}

// view addresses a channels × height × width tensor through strides, so the
// transform code never branches on layout.
type view struct {
	channels, height, width int
	cs, ys, xs              int
}

func newView(layout Layout, channels, height, width int) view {
	v := view{channels: channels, height: height, width: width}
	if layout == Interleaved {
		v.cs, v.ys, v.xs = 1, width*channels, channels
	} else {
		v.cs, v.ys, v.xs = height*width, width, 1
	}
	return v
}

func (v view) at(c, y, x int) int {
	return c*v.cs + y*v.ys + x*v.xs
}

func (v view) size() int {
	return v.channels * v.height * v.width
}

// columns addresses the entries of one transformed-domain row: channel c of
// tile i sits at i*ts + c*cs.
type columns struct {
	cs, ts int
}

func newColumns(layout Layout, channels, tiles int) columns {
	if layout == Interleaved {
		return columns{cs: 1, ts: channels}
	}
	return columns{cs: tiles, ts: 1}
}

func (c columns) at(channel, tile int) int {
	return channel*c.cs + tile*c.ts
}

// filterView addresses tap k of filter i in a filter bank of size filters.
type filterView struct {
	is, ks int
}

func newFilterView(layout Layout, size, taps int) filterView {
	if layout == Interleaved {
		return filterView{is: 1, ks: size}
	}
	return filterView{is: taps, ks: 1}
}

func (f filterView) at(i, k int) int {
	return i*f.is + k*f.ks
}

// gather copies n lanes spaced by stride starting at src[base] into dst.
func gather(dst, src []float32, base, stride, n int) {
	if stride == 1 {
		copy(dst[:n], src[base:base+n])
		return
	}
	for l := range n {
		dst[l] = src[base+l*stride]
	}
}

// scatter is the inverse of gather.
func scatter(dst []float32, base, stride int, src []float32, n int) {
	if stride == 1 {
		copy(dst[base:base+n], src[:n])
		return
	}
	for l := range n {
		dst[base+l*stride] = src[l]
	}
}
