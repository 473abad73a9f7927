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
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-winograd/hwy/contrib/winograd"
)

// options holds the flags shared by every subcommand.
type options struct {
	verbose bool
	policy  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "winograd",
		Short:        "Inspect and check Winograd convolution transforms",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every case at debug level")
	root.PersistentFlags().StringVar(&opts.policy, "policy", "", "lane policy, overrides "+winograd.PolicyEnv)

	root.AddCommand(
		newInfoCmd(opts),
		newPairsCmd(),
		newCheckCmd(opts),
	)
	return root
}

// logger writes text records to w.
func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// lanePolicy returns the --policy value, or the environment policy when the
// flag is empty.
func (o *options) lanePolicy() (winograd.Policy, error) {
	if o.policy == "" {
		return winograd.PolicyFromEnv()
	}
	p, err := winograd.ParsePolicy(o.policy)
	if err != nil {
		return winograd.Policy{}, fmt.Errorf("--policy: %w", err)
	}
	return p, nil
}

// printer formats counts with digit grouping.
var printer = message.NewPrinter(language.English)

// parseDims reads "HxW".
func parseDims(s string) (h, w int, err error) {
	hs, ws, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("bad size %q: want HxW", s)
	}
	h, errH := strconv.Atoi(hs)
	w, errW := strconv.Atoi(ws)
	if errH != nil || errW != nil || h <= 0 || w <= 0 {
		return 0, 0, fmt.Errorf("bad size %q: want positive HxW", s)
	}
	return h, w, nil
}

// addKernelFlag registers the --kernel filter shared by pairs and check.
func addKernelFlag(fl *pflag.FlagSet, kernel *string) {
	fl.StringVarP(kernel, "kernel", "k", "", "only pairs for this kernel, e.g. 3x3")
}
