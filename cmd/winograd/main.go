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

// Command winograd inspects and checks the Winograd transforms.
//
// Usage:
//
//	winograd info                      # dispatch level and lane policy
//	winograd pairs --kernel 3x3        # supported pairs for a kernel
//	winograd check --channels 19 -j 4  # run every pair against direct correlation
//
// The lane policy comes from --policy or the WINOGRAD_POLICY environment
// variable, for example "16:32,8:16,tail=scalar".
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
