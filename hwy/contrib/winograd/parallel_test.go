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

	"github.com/ajroetker/go-winograd/hwy/contrib/workerpool"
)

func TestParallelMatchesSerial(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	const channels = 11
	for _, tr := range Transforms() {
		for _, layout := range layouts {
			pads := tr.LegalPaddings()
			pad := pads[len(pads)-1]
			h, w := 13, 14
			t.Run(caseName(tr, layout, pad, h, w, channels), func(t *testing.T) {
				src := random(channels*h*w, 12)
				outH, outW := tr.OutputSize(h, w, pad)
				stride := tr.InputStride(channels, h, w, pad)
				product := random(tr.Count()*stride, 13)

				wantIn := make([]float32, tr.Count()*stride)
				tr.SetInput(src, channels, h, w, pad, wantIn, stride, layout)
				wantOut := make([]float32, channels*outH*outW)
				tr.SetOutput(product, stride, wantOut, channels, outH, outW, layout)

				for _, rows := range []int{0, 1, 2, 5} {
					for name, p := range map[string]*Parallel{
						"pool":   NewParallel(pool, DefaultPolicy()),
						"serial": NewParallel(nil, DefaultPolicy()),
					} {
						p.RowsPerTask = rows
						gotIn := make([]float32, len(wantIn))
						p.SetInput(tr, src, channels, h, w, pad, gotIn, stride, layout)
						requireSameBits(t, name+" input", gotIn, wantIn)

						gotOut := make([]float32, len(wantOut))
						p.SetOutput(tr, product, stride, gotOut, channels, outH, outW, layout)
						requireSameBits(t, name+" output", gotOut, wantOut)
					}
				}
			})
		}
	}
}

func TestParallelPanicsOnBadInput(t *testing.T) {
	p := NewParallel(nil, DefaultPolicy())
	defer func() {
		if recover() == nil {
			t.Error("SetInput with uneven padding did not panic")
		}
	}()
	buf := make([]float32, 256)
	p.SetInput(Kernel3x3Block2x2, buf, 1, 4, 4, Padding{Left: 1}, buf, 16, Planar)
}
