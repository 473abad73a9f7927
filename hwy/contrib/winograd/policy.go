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
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ajroetker/go-winograd/hwy"
)

// PolicyEnv names the environment variable read by PolicyFromEnv.
const PolicyEnv = "WINOGRAD_POLICY"

// TailMode selects how a channel count that is not a multiple of the lane
// width is finished.
type TailMode int

const (
	// TailMasked runs the remainder as one partial-width group.
	TailMasked TailMode = iota

	// TailScalar runs the remainder one channel at a time.
	TailScalar
)

// String returns "masked" or "scalar".
func (m TailMode) String() string {
	switch m {
	case TailMasked:
		return "masked"
	case TailScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// laneWidths are the group widths the CPU supports, widest first, ending
// in 1.
var laneWidths = hwy.LaneWidths[float32]()

// validWidth reports whether w is a width the kernels support.
func validWidth(w int) bool {
	return w == 1 || w == 4 || w == 8 || w == 16
}

// Policy decides which lane width a call uses. The choice only affects
// speed: every width produces the same bits.
type Policy struct {
	// MinChannels maps a lane width to the smallest channel (or filter)
	// count that uses it. Widths missing from the map use the width itself.
	MinChannels map[int]int

	// Tail finishes counts that are not a multiple of the chosen width.
	Tail TailMode

	// MaxWidth caps the width; 0 means no cap.
	MaxWidth int

	// Width, when nonzero, forces a width (1, 4, 8 or 16) even if the CPU
	// reports a narrower one. Used for testing and benchmarking.
	Width int
}

// DefaultPolicy uses the widest supported width whose lanes can all be
// filled, with masked tails.
func DefaultPolicy() Policy {
	return Policy{MinChannels: map[int]int{4: 4, 8: 8, 16: 16}}
}

// PolicyFromEnv parses WINOGRAD_POLICY, or returns DefaultPolicy when it
// is unset.
func PolicyFromEnv() (Policy, error) {
	s := os.Getenv(PolicyEnv)
	if s == "" {
		return DefaultPolicy(), nil
	}
	p, err := ParsePolicy(s)
	if err != nil {
		return Policy{}, fmt.Errorf("%s: %w", PolicyEnv, err)
	}
	return p, nil
}

// ParsePolicy reads a comma-separated policy such as
//
//	16:32,8:16,4:4,tail=scalar,max=8
//
// where W:N sets MinChannels[W] = N, and tail, max and width set the other
// fields. Thresholds not named keep their DefaultPolicy value.
func ParsePolicy(s string) (Policy, error) {
	p := DefaultPolicy()
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if key, val, ok := strings.Cut(field, "="); ok {
			switch key {
			case "tail":
				switch val {
				case "masked":
					p.Tail = TailMasked
				case "scalar":
					p.Tail = TailScalar
				default:
					return Policy{}, fmt.Errorf("unknown tail mode %q", val)
				}
			case "max", "width":
				w, err := strconv.Atoi(val)
				if err != nil || !validWidth(w) {
					return Policy{}, fmt.Errorf("bad %s %q: want 1, 4, 8 or 16", key, val)
				}
				if key == "max" {
					p.MaxWidth = w
				} else {
					p.Width = w
				}
			default:
				return Policy{}, fmt.Errorf("unknown policy key %q", key)
			}
			continue
		}
		ws, ns, ok := strings.Cut(field, ":")
		if !ok {
			return Policy{}, fmt.Errorf("bad policy field %q", field)
		}
		w, err := strconv.Atoi(ws)
		if err != nil || w == 1 || !validWidth(w) {
			return Policy{}, fmt.Errorf("bad lane width %q: want 4, 8 or 16", ws)
		}
		n, err := strconv.Atoi(ns)
		if err != nil || n < 0 {
			return Policy{}, fmt.Errorf("bad threshold %q for width %d", ns, w)
		}
		p.MinChannels[w] = n
	}
	return p, nil
}

// String formats p so that ParsePolicy(p.String()) is equivalent to p.
func (p Policy) String() string {
	var b strings.Builder
	widths := slices.Sorted(maps.Keys(p.MinChannels))
	slices.Reverse(widths)
	for _, w := range widths {
		fmt.Fprintf(&b, "%d:%d,", w, p.MinChannels[w])
	}
	b.WriteString("tail=" + p.Tail.String())
	if p.MaxWidth > 0 {
		fmt.Fprintf(&b, ",max=%d", p.MaxWidth)
	}
	if p.Width > 0 {
		fmt.Fprintf(&b, ",width=%d", p.Width)
	}
	return b.String()
}

func (p Policy) threshold(w int) int {
	if n, ok := p.MinChannels[w]; ok {
		return n
	}
	return w
}

// Resolve picks the strategy for a call over count channels.
func (p Policy) Resolve(count int) Strategy {
	if p.Width > 0 {
		if !validWidth(p.Width) {
			panic(fmt.Sprintf("winograd: unsupported lane width %d", p.Width))
		}
		return Strategy{Width: p.Width, Tail: p.Tail}
	}
	for _, w := range laneWidths {
		if w == 1 {
			break
		}
		if p.MaxWidth > 0 && w > p.MaxWidth {
			continue
		}
		if count >= p.threshold(w) {
			return Strategy{Width: w, Tail: p.Tail}
		}
	}
	return Strategy{Width: 1, Tail: p.Tail}
}

// Strategy is a resolved lane width and tail mode.
type Strategy struct {
	Width int
	Tail  TailMode
}

// group returns the vector width of the next channel group when remaining
// channels are left, and how many of its lanes are live. A masked tail keeps
// the full width with fewer live lanes; a scalar tail drops to width one.
func (s Strategy) group(remaining int) (width, active int) {
	switch {
	case remaining >= s.Width:
		return s.Width, s.Width
	case s.Tail == TailScalar:
		return 1, 1
	default:
		return s.Width, remaining
	}
}

// Groups returns how many channel groups a call over count channels runs.
func (s Strategy) Groups(count int) int {
	groups := 0
	hwy.ProcessWithTail(count, s.Width,
		func(int) { groups++ },
		func(_, n int) {
			if s.Tail == TailScalar {
				groups += n
			} else {
				groups++
			}
		},
	)
	return groups
}
