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

// defaultPolicy backs the methods that take no Policy. It is never mutated.
var defaultPolicy = DefaultPolicy()

// SetFilter transforms size filters of KernelArea taps each into Count
// coefficients, writing coefficient k of filter i to dst[k*size+i].
//
// With Interleaved layout tap k of filter i is src[k*size+i]; with Planar it
// is src[i*KernelArea+k]. Taps run row-major over the kernel.
func (t *Transform) SetFilter(src []float32, size int, dst []float32, layout Layout) {
	t.SetFilterWith(defaultPolicy, src, size, dst, layout)
}

// SetFilterWith is SetFilter with an explicit lane policy.
func (t *Transform) SetFilterWith(p Policy, src []float32, size int, dst []float32, layout Layout) {
	area, count := t.KernelArea(), t.Count()
	if size < 0 {
		panic(fmt.Sprintf("winograd: negative filter count %d", size))
	}
	if len(src) < area*size {
		panic("winograd: filter source too short")
	}
	if len(dst) < count*size {
		panic("winograd: filter destination too short")
	}

	fv := newFilterView(layout, size, area)
	strat := p.Resolve(size)
	gy, gx := t.G()

	var s scratch
	for i := 0; i < size; {
		w, n := strat.group(size - i)
		for k := range area {
			gather(s.in[k*w:], src, fv.at(i, k), fv.is, n)
		}
		apply2D(gy, gx, s.in[:], s.tmp[:], s.out[:], w, n)
		for k := range count {
			scatter(dst, k*size+i, 1, s.out[k*w:], n)
		}
		i += n
	}
}
