// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.arvados.org/mlplane.git/lib/cmd"
	"git.arvados.org/mlplane.git/lib/router"
	"git.arvados.org/mlplane.git/sdk/go/auth"
	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/httpserver"
	"git.arvados.org/mlplane.git/sdk/go/mlplanetest"
	"github.com/prometheus/client_golang/prometheus"
)

// StubServerCommand serves the REST API from an in-memory control
// plane, for trying out clients and for integration tests.
var StubServerCommand cmd.Handler = stubServerCommand{}

type stubServerCommand struct {
	// If not nil, the server also stops when ctx is done.
	ctx context.Context
	// If not nil, called with the listening address once the
	// server is accepting connections.
	ready func(addr string)
}

func (ssc stubServerCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	logger := ctxlog.New(stderr, "json", "info")
	defer func() {
		if err != nil {
			logger.WithError(err).Error("exiting")
		}
	}()

	flags := flag.NewFlagSet(prog, flag.ContinueOnError)
	listen := flags.String("listen", "localhost:9000", "Listen on `host:port` (use port 0 to pick an available port)")
	token := flags.String("token", "", "Require clients to present `token` (default is to accept all requests)")
	mgmtToken := flags.String("management-token", "", "Require `token` for /metrics (default is to accept all requests)")
	scenario := flags.String("scenario", "", "Preload resources: \"training-jobs\" or \"\" for none")
	logFormat := flags.String("log-format", "json", "Log `format`: text or json")
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	} else if *logFormat != "text" && *logFormat != "json" {
		err = fmt.Errorf("unknown log format %q", *logFormat)
		return 2
	}
	logger = ctxlog.New(stderr, *logFormat, "info")

	fake := &mlplanetest.Fake{}
	switch *scenario {
	case "":
	case "training-jobs":
		mlplanetest.LoadTrainingJobScenario(fake)
	default:
		err = fmt.Errorf("unknown scenario %q", *scenario)
		return 2
	}

	parent := ssc.ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	instrumented := httpserver.Instrument(reg, logger,
		httpserver.AddRequestIDs(
			httpserver.LogRequests(logger,
				auth.RequireLiteralToken(*token, router.New(fake)))))
	srv := &httpserver.Server{
		Server: http.Server{
			Handler: instrumented.ServeAPI(*mgmtToken, instrumented),
			BaseContext: func(net.Listener) context.Context {
				return ctxlog.Context(ctx, logger)
			},
		},
		Addr: *listen,
	}
	err = srv.Start()
	if err != nil {
		return 1
	}
	logger.WithField("Listen", srv.Addr).Info("stub server listening")
	fmt.Fprintf(stdout, "http://%s/\n", srv.Addr)
	if ssc.ready != nil {
		ssc.ready(srv.Addr)
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Close(shutdownCtx)
	}()
	err = srv.Wait()
	if err != nil {
		return 1
	}
	return 0
}
