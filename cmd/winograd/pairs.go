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
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-winograd/hwy/contrib/winograd"
)

// selectPairs returns the transforms for kernel ("RxC"), or all of them
// when kernel is empty.
func selectPairs(kernel string) ([]*winograd.Transform, error) {
	all := winograd.Transforms()
	if kernel == "" {
		return all, nil
	}
	ky, kx, err := parseDims(kernel)
	if err != nil {
		return nil, fmt.Errorf("--kernel: %w", err)
	}
	pairs := lo.Filter(all, func(t *winograd.Transform, _ int) bool {
		y, x := t.Kernel()
		return y == ky && x == kx
	})
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pair for a %dx%d kernel", winograd.ErrUnsupported, ky, kx)
	}
	return pairs, nil
}

func newPairsCmd() *cobra.Command {
	var kernel string
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List the supported kernel/block pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pairs, err := selectPairs(kernel)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printer.Fprintf(w, "%-18s %6s %6s %6s %6s %9s  %s\n", "pair", "kernel", "block", "tile", "coefs", "reduction", "padding")
			rows := lo.Map(pairs, func(t *winograd.Transform, _ int) string {
				ky, kx := t.Kernel()
				by, bx := t.Block()
				ty, tx := t.Tile()
				return printer.Sprintf("%-18s %6s %6s %6s %6d %8.2fx  %s",
					t, dims(ky, kx), dims(by, bx), dims(ty, tx), t.Count(), t.Reduction(), t.PaddingRule())
			})
			for _, r := range rows {
				fmt.Fprintln(w, r)
			}
			return nil
		},
	}
	addKernelFlag(cmd.Flags(), &kernel)
	return cmd
}

func dims(y, x int) string {
	return fmt.Sprintf("%dx%d", y, x)
}
