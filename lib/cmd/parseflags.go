// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags parses args with f, printing usage and error messages on
// stderr.
//
// positional describes the accepted positional arguments for the
// usage message ("Usage: {prog} [options] {positional}"). If it is
// empty, positional arguments are rejected.
//
// If ok is false, the caller should exit with exitCode: 0 after
// -help, 2 after a usage error.
func ParseFlags(f FlagSet, prog string, args []string, positional string, stderr io.Writer) (ok bool, exitCode int) {
	f.Init(prog, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	err := f.Parse(args)
	if err == flag.ErrHelp {
		printUsage(f, prog, positional, stderr)
		return false, 0
	} else if err != nil {
		fmt.Fprintf(stderr, "error parsing command line arguments: %s (try -help)\n", err)
		return false, 2
	} else if f.NArg() > 0 && positional == "" {
		fmt.Fprintf(stderr, "unrecognized command line arguments: %v (try -help)\n", f.Args())
		return false, 2
	}
	return true, 0
}

func printUsage(f FlagSet, prog, positional string, stderr io.Writer) {
	if f, ok := f.(*flag.FlagSet); ok && f.Usage != nil {
		f.SetOutput(stderr)
		f.Usage()
		return
	}
	if positional == "" {
		fmt.Fprintf(stderr, "Usage: %s [options]\n", prog)
	} else {
		fmt.Fprintf(stderr, "Usage: %s [options] %s\n", prog, positional)
	}
	fmt.Fprintf(stderr, "\nOptions:\n")
	f.SetOutput(stderr)
	f.PrintDefaults()
}
