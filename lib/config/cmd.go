// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"flag"
	"fmt"
	"io"

	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
)

// DumpCommand prints the effective configuration (after defaults and
// environment overrides) as YAML.
var DumpCommand dumpCommand

type dumpCommand struct{}

func (dumpCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()

	flags := flag.NewFlagSet("", flag.ContinueOnError)
	loader := NewLoader(stdin, ctxlog.New(stderr, "text", "info"))
	loader.SetupFlags(flags)
	showSecrets := flags.Bool("show-secrets", false, "Include AuthToken values in the output")
	listEnv := flags.Bool("env", false, "List the environment variables that override profile settings, instead of printing the config")
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	if *listEnv {
		fmt.Fprintf(stdout, "%s_CONFIG\n%s_PROFILE\n", EnvPrefix, EnvPrefix)
		for _, name := range EnvVars() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}
	cfg, err := loader.Load()
	if err != nil {
		return 1
	}
	err = Export(stdout, cfg, *showSecrets)
	if err != nil {
		return 1
	}
	return 0
}

// DumpDefaultsCommand prints the default profile settings.
var DumpDefaultsCommand defaultsCommand

type defaultsCommand struct{}

func (defaultsCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	_, err := stdout.Write(DefaultYAML)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}
