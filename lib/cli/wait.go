// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cli

import (
	"context"
	"fmt"
	"io"

	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/lib/poller"
	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
)

// WaitCommand polls a resource until its status is settled, then
// prints it. The exit code is 1 if the resource ended up Failed.
var WaitCommand cmd.Handler = waitCommand{}

type waitCommand struct{}

func (waitCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()

	flags, common := newFlagSet(stdin, stderr)
	timeout := flags.Duration("timeout", 0, "Give up after `duration` (default is to wait indefinitely)")
	flags.Alias("t", "timeout")
	interval := flags.Duration("interval", 0, "Poll every `duration` (default is the profile's PollInterval)")
	if ok, code := cmd.ParseFlags(flags, prog, args, "kind name", stderr); !ok {
		return code
	} else if flags.NArg() != 2 {
		err = fmt.Errorf("usage: %s [options] kind name", prog)
		return 2
	}
	kind, err := parseKind(flags.Arg(0))
	if err != nil {
		return 2
	}
	name := flags.Arg(1)

	sess, err := common.setup(stderr)
	if err != nil {
		return 1
	}
	defer sess.close()
	if *interval == 0 {
		*interval = sess.profile.PollInterval.Duration()
	}
	ctx := ctxlog.Context(context.Background(), sess.logger)
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	r, err := poller.New(sess.api, *interval, nil).Wait(ctx, kind, name)
	if err != nil {
		return 1
	}
	if common.Format == FormatText {
		fmt.Fprintf(stdout, "%s %s\n", r.ResourceName(), statusOf(r))
	} else if err = writeStructured(stdout, common.Format, r); err != nil {
		return 1
	}
	if statusOf(r) == "Failed" {
		return 1
	}
	return 0
}

