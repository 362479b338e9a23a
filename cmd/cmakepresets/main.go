// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cmakepresets "github.com/cmakepresets/cmakepresets/cmd/cmakepresets/cmd"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
)

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelFn()

	in := inspector.Inspector{
		Stderr: os.Stderr,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		OsArgs: os.Args,
	}
	cmd, err := cmakepresets.RootCmd(ctx, &in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
