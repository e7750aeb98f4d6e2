// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"os"

	"git.arvados.org/mlplane.git/lib/cli"
	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/lib/config"
)

var (
	handler = cmd.Multi{
		"version":   cmd.Version,
		"-version":  cmd.Version,
		"--version": cmd.Version,

		"list":     cli.ListCommand,
		"describe": cli.DescribeCommand,
		"wait":     cli.WaitCommand,
		"stop":     cli.StopCommand,
		"delete":   cli.DeleteCommand,

		"stub-server": cli.StubServerCommand,

		"config-dump":     config.DumpCommand,
		"config-defaults": config.DumpDefaultsCommand,
	}
)

// fixArgs moves the subcommand in front of any common options, so
// "mlplane-client -p prod list endpoint" works like
// "mlplane-client list -p prod endpoint".
func fixArgs(args []string) []string {
	return cmd.SubcommandToFront(args, cli.GlobalFlagSet())
}

func main() {
	os.Exit(handler.RunCommand(os.Args[0], fixArgs(os.Args[1:]), os.Stdin, os.Stdout, os.Stderr))
}
