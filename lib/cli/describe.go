// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cli

import (
	"context"
	"fmt"
	"io"

	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
)

var (
	// DescribeCommand prints the current state of one or more
	// resources of the same kind.
	DescribeCommand cmd.Handler = resourceCommand{
		usage: "kind name [name...]",
		multi: true,
		run: func(ctx context.Context, sess *session, format string, stdout io.Writer, kind mlplane.ResourceKind, name string) error {
			r, err := mlplane.Describe(ctx, sess.api, kind, name)
			if err != nil {
				return err
			}
			if format == FormatText {
				writeSummary(stdout, r)
				return nil
			}
			return writeStructured(stdout, format, r)
		},
	}

	// StopCommand asks the control plane to stop a job or notebook
	// instance. It does not wait for the resource to stop.
	StopCommand cmd.Handler = resourceCommand{
		usage: "kind name",
		run: func(ctx context.Context, sess *session, format string, stdout io.Writer, kind mlplane.ResourceKind, name string) error {
			err := mlplane.Stop(ctx, sess.api, kind, name)
			if err != nil {
				return err
			}
			sess.logger.Infof("requested stop of %s %q", kind, name)
			return nil
		},
	}

	// DeleteCommand deletes an endpoint, notebook instance, or
	// model.
	DeleteCommand cmd.Handler = resourceCommand{
		usage: "kind name",
		run: func(ctx context.Context, sess *session, format string, stdout io.Writer, kind mlplane.ResourceKind, name string) error {
			err := deleteResource(ctx, sess.api, kind, name)
			if err != nil {
				return err
			}
			sess.logger.Infof("deleted %s %q", kind, name)
			return nil
		},
	}
)

func deleteResource(ctx context.Context, api mlplane.API, kind mlplane.ResourceKind, name string) error {
	opts := mlplane.DeleteOptions{Name: name}
	switch kind {
	case mlplane.KindEndpoint:
		return api.EndpointDelete(ctx, opts)
	case mlplane.KindNotebookInstance:
		return api.NotebookInstanceDelete(ctx, opts)
	case mlplane.KindModel:
		return api.ModelDelete(ctx, opts)
	default:
		return fmt.Errorf("%s resources cannot be deleted", kind)
	}
}

// resourceCommand is a subcommand that takes a kind and one (or, if
// multi is true, several) resource names, and calls run for each
// name.
type resourceCommand struct {
	usage string
	multi bool
	run   func(ctx context.Context, sess *session, format string, stdout io.Writer, kind mlplane.ResourceKind, name string) error
}

func (rc resourceCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()

	flags, common := newFlagSet(stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, rc.usage, stderr); !ok {
		return code
	} else if flags.NArg() < 2 || (flags.NArg() > 2 && !rc.multi) {
		err = fmt.Errorf("usage: %s [options] %s", prog, rc.usage)
		return 2
	}
	kind, err := parseKind(flags.Arg(0))
	if err != nil {
		return 2
	}
	names := flags.Args()[1:]
	for _, name := range names {
		if err = mlplane.ValidateName(kind, name); err != nil {
			return 2
		}
	}

	sess, err := common.setup(stderr)
	if err != nil {
		return 1
	}
	defer sess.close()
	ctx, cancel := sess.context()
	defer cancel()
	for _, name := range names {
		err = rc.run(ctx, sess, common.Format, stdout, kind, name)
		if err != nil {
			return 1
		}
	}
	return 0
}
