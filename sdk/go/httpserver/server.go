// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server is an http.Server that can be started on port 0 and shut
// down without stopping the process.
type Server struct {
	http.Server

	// Before Start: the host:port to listen on. After Start: the
	// address actually being listened on.
	Addr string

	mtx  sync.Mutex
	done chan struct{}
	err  error
}

// Start starts listening and serving in a background goroutine. When
// Start returns, Addr is the listening address.
func (srv *Server) Start() error {
	lc := net.ListenConfig{KeepAlive: 3 * time.Minute}
	ln, err := lc.Listen(context.Background(), "tcp", srv.Addr)
	if err != nil {
		return err
	}
	srv.Addr = ln.Addr().String()
	done := make(chan struct{})
	srv.mtx.Lock()
	srv.done = done
	srv.mtx.Unlock()
	go func() {
		defer close(done)
		err := srv.Serve(ln)
		if err == http.ErrServerClosed {
			return
		}
		srv.mtx.Lock()
		srv.err = err
		srv.mtx.Unlock()
	}()
	return nil
}

// Close stops accepting connections, waits until ctx is done for
// requests in progress to finish, and returns when the server has
// stopped.
func (srv *Server) Close(ctx context.Context) error {
	if err := srv.Shutdown(ctx); err != nil {
		srv.Server.Close()
	}
	return srv.Wait()
}

// Wait returns when the server has stopped. It returns immediately
// if the server was never started.
func (srv *Server) Wait() error {
	srv.mtx.Lock()
	done := srv.done
	srv.mtx.Unlock()
	if done == nil {
		return nil
	}
	<-done
	srv.mtx.Lock()
	defer srv.mtx.Unlock()
	return srv.err
}
