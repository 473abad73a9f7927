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

import "github.com/ajroetker/go-winograd/hwy/contrib/workerpool"

// Parallel runs SetInput and SetOutput with tile rows spread over a worker
// pool. Each tile row writes its own transformed columns and output pixels,
// so the result is bit-identical to the serial call.
type Parallel struct {
	pool   *workerpool.Pool
	policy Policy

	// RowsPerTask is the number of tile rows a worker takes at a time. Zero
	// or less splits the rows into one contiguous range per worker instead.
	RowsPerTask int
}

// NewParallel returns a driver over pool. A nil pool runs serially.
func NewParallel(pool *workerpool.Pool, policy Policy) *Parallel {
	return &Parallel{pool: pool, policy: policy, RowsPerTask: 1}
}

// SetInput is Transform.SetInput split across the pool.
func (p *Parallel) SetInput(t *Transform, src []float32, channels, height, width int, pad Padding, dst []float32, dstStride int, layout Layout) {
	j := t.newInputJob(p.policy, src, channels, height, width, pad, dst, dstStride, layout)
	p.rows(j.ay.Tiles(), func(start, end int) {
		t.inputRows(&j, start, end)
	})
}

// SetOutput is Transform.SetOutput split across the pool.
func (p *Parallel) SetOutput(t *Transform, src []float32, srcStride int, dst []float32, channels, height, width int, layout Layout) {
	j := t.newOutputJob(p.policy, src, srcStride, dst, channels, height, width, layout)
	p.rows(j.ay.Tiles(), func(start, end int) {
		t.outputRows(&j, start, end)
	})
}

func (p *Parallel) rows(n int, fn func(start, end int)) {
	if p.RowsPerTask <= 0 {
		p.pool.ParallelFor(n, fn)
		return
	}
	p.pool.ParallelForBatched(n, p.RowsPerTask, fn)
}
