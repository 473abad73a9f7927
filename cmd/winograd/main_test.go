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
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-winograd/hwy"
	"github.com/ajroetker/go-winograd/hwy/contrib/winograd"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestInfo(t *testing.T) {
	t.Setenv(winograd.PolicyEnv, "")
	out, _, err := execute(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, hwy.CurrentName())
	assert.Contains(t, out, winograd.DefaultPolicy().String())
	assert.Contains(t, out, "channels")
	assert.Contains(t, out, fmt.Sprintf("sve:         %v\n", hwy.HasSVE()))

	t.Setenv("HWY_NO_SVE", "1")
	out, _, err = execute(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "sve:         false\n")

	out, _, err = execute(t, "info", "--policy", "width=4,tail=scalar")
	require.NoError(t, err)
	assert.Contains(t, out, "tail=scalar,width=4")
}

func TestInfoBadPolicy(t *testing.T) {
	_, _, err := execute(t, "info", "--policy", "width=3")
	assert.ErrorContains(t, err, "--policy")

	t.Setenv(winograd.PolicyEnv, "bogus")
	_, _, err = execute(t, "info")
	assert.ErrorContains(t, err, winograd.PolicyEnv)
}

func TestPairs(t *testing.T) {
	out, _, err := execute(t, "pairs")
	require.NoError(t, err)
	for _, tr := range winograd.Transforms() {
		assert.Contains(t, out, tr.String())
	}

	out, _, err = execute(t, "pairs", "--kernel", "3x3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4, "header and three pairs")
	assert.Contains(t, out, "kernel3x3block4x4")
	assert.NotContains(t, out, "kernel2x2")

	_, _, err = execute(t, "pairs", "-k", "7x7")
	assert.True(t, errors.Is(err, winograd.ErrUnsupported), "got %v", err)

	_, _, err = execute(t, "pairs", "-k", "three")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	t.Setenv(winograd.PolicyEnv, "")
	out, stderr, err := execute(t, "check", "--channels", "5", "--size", "7x9", "--jobs", "3", "--threads", "2")
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "0 skipped, 0 failed")
	assert.Contains(t, stderr, "checking")
}

func TestCheckKernelAndLayout(t *testing.T) {
	out, stderr, err := execute(t, "check", "-k", "1x5", "--layout", "planar", "-c", "3", "-s", "2x11", "-v")
	require.NoError(t, err, stderr)
	// Two legal paddings for 1x5, one layout.
	assert.Contains(t, out, "checked 2 cases")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestCheckSkipsSmallInputs(t *testing.T) {
	// 2x2 input is too small for unpadded 3x3 kernels.
	out, stderr, err := execute(t, "check", "-k", "3x3", "-c", "2", "-s", "2x2", "--layout", "interleaved")
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "checked 40 cases, 13 skipped")
}

func TestCheckFlagErrors(t *testing.T) {
	for _, args := range [][]string{
		{"check", "--layout", "nchw"},
		{"check", "--size", "7"},
		{"check", "--size", "0x4"},
		{"check", "--channels", "0"},
		{"check", "--policy", "tail=no"},
		{"check", "extra"},
	} {
		_, _, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestParseDims(t *testing.T) {
	h, w, err := parseDims("12X5")
	require.NoError(t, err)
	assert.Equal(t, [2]int{12, 5}, [2]int{h, w})
}
