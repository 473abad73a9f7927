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
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-winograd/hwy"
	"github.com/ajroetker/go-winograd/hwy/contrib/winograd"
	"github.com/ajroetker/go-winograd/hwy/contrib/workerpool"
	"github.com/ajroetker/go-winograd/internal/reference"
)

// errTolerance reports a check case whose error exceeds its tolerance.
var errTolerance = errors.New("transform error exceeds tolerance")

type checkFlags struct {
	kernel   string
	channels int
	size     string
	layout   string
	jobs     int
	threads  int
	seed     uint64
}

// checkCase is one pair, layout and padding run end to end.
type checkCase struct {
	t      *winograd.Transform
	layout winograd.Layout
	pad    winograd.Padding
}

func (c checkCase) String() string {
	return fmt.Sprintf("%s/%s/pad=%s", c.t, c.layout, c.pad)
}

// tolerance bounds the relative error against direct correlation. F(4,5)
// interpolates at ±3 and loses about one more digit.
func tolerance(t *winograd.Transform) float64 {
	if t == winograd.Kernel1x5Block1x4 {
		return 5e-4
	}
	return 1e-4
}

func parseLayouts(s string) ([]winograd.Layout, error) {
	switch s {
	case "both", "":
		return []winograd.Layout{winograd.Planar, winograd.Interleaved}, nil
	case "planar":
		return []winograd.Layout{winograd.Planar}, nil
	case "interleaved":
		return []winograd.Layout{winograd.Interleaved}, nil
	}
	return nil, fmt.Errorf("--layout: unknown layout %q: want planar, interleaved or both", s)
}

func newCheckCmd(opts *options) *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every pair through the full pipeline and compare with direct correlation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts, f)
		},
	}
	fl := cmd.Flags()
	addKernelFlag(fl, &f.kernel)
	fl.IntVarP(&f.channels, "channels", "c", 19, "input and output channels")
	fl.StringVarP(&f.size, "size", "s", "13x14", "input size HxW")
	fl.StringVar(&f.layout, "layout", "both", "planar, interleaved or both")
	fl.IntVarP(&f.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "cases checked concurrently")
	fl.IntVar(&f.threads, "threads", 1, "workers per case for the input and output transforms")
	fl.Uint64Var(&f.seed, "seed", 1, "random data seed")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *options, f *checkFlags) error {
	log := opts.logger(cmd.ErrOrStderr())

	policy, err := opts.lanePolicy()
	if err != nil {
		return err
	}
	pairs, err := selectPairs(f.kernel)
	if err != nil {
		return err
	}
	layouts, err := parseLayouts(f.layout)
	if err != nil {
		return err
	}
	h, w, err := parseDims(f.size)
	if err != nil {
		return fmt.Errorf("--size: %w", err)
	}
	if f.channels <= 0 {
		return fmt.Errorf("--channels must be positive, got %d", f.channels)
	}
	if f.jobs <= 0 {
		f.jobs = 1
	}

	cases := lo.FlatMap(pairs, func(t *winograd.Transform, _ int) []checkCase {
		return lo.FlatMap(layouts, func(l winograd.Layout, _ int) []checkCase {
			return lo.Map(t.LegalPaddings(), func(p winograd.Padding, _ int) checkCase {
				return checkCase{t: t, layout: l, pad: p}
			})
		})
	})

	var pool *workerpool.Pool
	if f.threads > 1 {
		pool = workerpool.New(f.threads)
		defer pool.Close()
	}
	run := &caseRunner{par: winograd.NewParallel(pool, policy), policy: policy}

	log.Info("checking", "cases", len(cases), "size", f.size, "channels", f.channels,
		"level", hwy.CurrentName(), "policy", policy.String())

	errs := make([]float64, len(cases))
	var skipped atomic.Int32
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(f.jobs)
	for i, c := range cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := run.run(c, f.channels, h, w, f.seed+uint64(i))
			if errors.Is(err, winograd.ErrGeometry) {
				skipped.Add(1)
				log.Debug("skip", "case", c, "err", err)
				errs[i] = -1
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
			errs[i] = e
			log.Debug("case", "case", c, "error", e, "tolerance", tolerance(c.t))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed []string
	worst := 0.0
	for i, c := range cases {
		if errs[i] < 0 {
			continue
		}
		worst = max(worst, errs[i])
		if errs[i] > tolerance(c.t) {
			failed = append(failed, c.String())
			log.Error("tolerance exceeded", "case", c, "error", errs[i], "tolerance", tolerance(c.t))
		}
	}
	printer.Fprintf(cmd.OutOrStdout(), "checked %d cases, %d skipped, %d failed, worst relative error %.3g\n",
		len(cases), skipped.Load(), len(failed), worst)
	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d cases", errTolerance, len(failed), len(cases))
	}
	return nil
}

// caseRunner runs check cases under one lane policy.
type caseRunner struct {
	par    *winograd.Parallel
	policy winograd.Policy
}

// run transforms filters and input, multiplies in the transformed domain,
// inverts and returns the relative error against reference.Conv.Correlate.
func (r *caseRunner) run(c checkCase, channels, h, w int, seed uint64) (float64, error) {
	t, layout, pad := c.t, c.layout, c.pad
	plan, err := winograd.NewPlan(t, winograd.Geometry{
		Batch: 1, SrcC: channels, SrcH: h, SrcW: w, DstC: channels, Pad: pad, Layout: layout,
	})
	if err != nil {
		return 0, err
	}
	ky, kx := t.Kernel()
	conv := reference.Conv{
		SrcC: channels, SrcH: h, SrcW: w, DstC: channels,
		KernelY: ky, KernelX: kx,
		PadTop: pad.Top, PadLeft: pad.Left, PadBottom: pad.Bottom, PadRight: pad.Right,
		Interleaved: layout == winograd.Interleaved,
	}

	src := make([]float32, channels*h*w)
	reference.Fill(src, seed)
	weight := make([]float32, channels*channels*t.KernelArea())
	reference.Fill(weight, seed^0xff)

	filter := make([]float32, plan.FilterSize())
	t.SetFilterWith(r.policy, weight, channels*channels, filter, layout)
	input := make([]float32, plan.InputSize())
	r.par.SetInput(t, src, channels, h, w, pad, input, plan.InputStride(), layout)

	product := make([]float32, plan.OutputSize())
	if layout == winograd.Interleaved {
		reference.MultiplyAccumulate(plan.Count, plan.M, plan.N, plan.K,
			input, plan.InputStride(), filter, plan.StrideW, product, plan.OutputStride())
	} else {
		reference.MultiplyAccumulate(plan.Count, plan.M, plan.N, plan.K,
			filter, plan.StrideW, input, plan.InputStride(), product, plan.OutputStride())
	}

	dst := make([]float32, channels*plan.DstH*plan.DstW)
	r.par.SetOutput(t, product, plan.OutputStride(), dst, channels, plan.DstH, plan.DstW, layout)
	return reference.MaxRelError(dst, conv.Correlate(src, weight)), nil
}
