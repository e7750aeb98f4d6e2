// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cli

import (
	"flag"
	"fmt"
	"io"

	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/lib/config"
	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"rsc.io/getopt"
)

// Output formats accepted by -format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// commonFlags are accepted by every subcommand that talks to a
// control plane.
type commonFlags struct {
	loader  *config.Loader
	Profile string
	Format  string
	Verbose bool
}

func newFlagSet(stdin io.Reader, stderr io.Writer) (*getopt.FlagSet, *commonFlags) {
	values := &commonFlags{
		loader: config.NewLoader(stdin, ctxlog.New(stderr, "text", "info")),
		Format: FormatText,
	}
	flags := getopt.NewFlagSet("", flag.ContinueOnError)
	values.loader.SetupFlags(flags.FlagSet)
	flags.StringVar(&values.Profile, "profile", "", "Use the named configuration `profile` instead of the default")
	flags.Alias("p", "profile")
	flags.StringVar(&values.Format, "format", values.Format, "Output `format`: text, json, or yaml")
	flags.Alias("f", "format")
	flags.BoolVar(&values.Verbose, "verbose", false, "Log debug messages on stderr")
	flags.Alias("v", "verbose")
	return flags, values
}

func (cf *commonFlags) checkFormat() error {
	switch cf.Format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (must be text, json, or yaml)", cf.Format)
	}
}

// GlobalFlagSet returns a flagset accepting the options common to all
// subcommands, so cmd.SubcommandToFront can find the subcommand in
// "mlplane-client -p prod list training-job".
func GlobalFlagSet() cmd.FlagSet {
	flags, _ := newFlagSet(nil, io.Discard)
	return flags
}
