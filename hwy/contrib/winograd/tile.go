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
	"iter"
	"strings"
)

// TileKind classifies a tile by which edges of the domain it touches.
type TileKind uint8

const (
	// TileNose marks a tile whose input window starts before the domain,
	// inside the leading padding.
	TileNose TileKind = 1 << iota

	// TileTail marks a tile whose input window runs past the domain end,
	// or that produces fewer than Block outputs.
	TileTail
)

// TileInterior is a tile that needs no zero fill.
const TileInterior TileKind = 0

// String returns "interior", "nose", "tail" or "nose|tail".
func (k TileKind) String() string {
	if k == TileInterior {
		return "interior"
	}
	var parts []string
	if k&TileNose != 0 {
		parts = append(parts, "nose")
	}
	if k&TileTail != 0 {
		parts = append(parts, "tail")
	}
	return strings.Join(parts, "|")
}

// Axis describes one spatial axis of a transform: an input of Length
// samples, a Kernel-tap filter producing Block outputs per tile, and the
// implicit zero padding on each side.
type Axis struct {
	Length   int
	Kernel   int
	Block    int
	PadBegin int
	PadEnd   int
}

// Window is the input samples one tile reads, Kernel+Block-1.
func (a Axis) Window() int {
	return a.Kernel + a.Block - 1
}

// Out is the number of outputs along the axis.
func (a Axis) Out() int {
	return max(0, a.Length-a.Kernel+1+a.PadBegin+a.PadEnd)
}

// Tiles is the number of tiles needed to cover Out.
func (a Axis) Tiles() int {
	return (a.Out() + a.Block - 1) / a.Block
}

// Span is one tile along an axis.
type Span struct {
	// Index is the tile number.
	Index int

	// Start is the domain coordinate of window sample 0. It is negative
	// for a nose tile under leading padding.
	Start int

	// Begin and End bound the window samples inside the domain.
	Begin, End int

	// Valid is the number of outputs the tile produces, at most Block.
	Valid int

	Kind TileKind
}

// Tile returns tile i. Tiles outside [0, Tiles()) yield an empty span.
func (a Axis) Tile(i int) Span {
	w := a.Window()
	start := i*a.Block - a.PadBegin
	s := Span{
		Index: i,
		Start: start,
		Begin: min(w, max(0, -start)),
		End:   max(0, min(w, a.Length-start)),
		Valid: max(0, min(a.Block, a.Out()-i*a.Block)),
	}
	s.End = max(s.End, s.Begin)
	if s.Begin > 0 {
		s.Kind |= TileNose
	}
	if s.End < w || s.Valid < a.Block {
		s.Kind |= TileTail
	}
	return s
}

// All yields every tile in order: an optional nose, the interior tiles,
// and an optional tail.
func (a Axis) All() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for i := range a.Tiles() {
			if !yield(a.Tile(i)) {
				return
			}
		}
	}
}
