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

package main

import (
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-winograd/hwy"
)

// sampleChannels are the counts info resolves the policy for.
var sampleChannels = []int{1, 3, 4, 7, 8, 16, 19, 64, 256}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the dispatch level and the lane width chosen per channel count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := opts.lanePolicy()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printer.Fprintf(w, "level:       %s\n", hwy.CurrentName())
			printer.Fprintf(w, "vector:      %d bytes\n", hwy.CurrentWidth())
			printer.Fprintf(w, "lane widths: %v\n", hwy.LaneWidths[float32]())
			printer.Fprintf(w, "no simd:     %v\n", hwy.NoSimdEnv())
			printer.Fprintf(w, "sve:         %v\n", hwy.HasSVE())
			printer.Fprintf(w, "policy:      %s\n\n", policy)

			printer.Fprintf(w, "%10s %6s %6s %7s\n", "channels", "width", "tail", "groups")
			for _, c := range sampleChannels {
				s := policy.Resolve(c)
				printer.Fprintf(w, "%10d %6d %6s %7d\n", c, s.Width, s.Tail, s.Groups(c))
			}
			return nil
		},
	}
}
