// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// HeaderRequestID carries a request ID from client to server, and
// back in the response.
const HeaderRequestID = "X-Request-Id"

// IDGenerator returns request IDs. Each ID is Prefix followed by a
// fixed-width base-36 timestamp, so IDs from one generator are unique
// and sort in the order they were issued.
type IDGenerator struct {
	Prefix string

	mtx  sync.Mutex
	last int64
}

// Next returns a new ID. It is safe to call from multiple goroutines.
func (g *IDGenerator) Next() string {
	now := time.Now().UnixNano()
	g.mtx.Lock()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	g.mtx.Unlock()
	id := strconv.FormatInt(now, 36)
	if len(id) < 13 {
		id = strings.Repeat("0", 13-len(id)) + id
	}
	return g.Prefix + id
}

// AddRequestIDs assigns an ID to each request that does not already
// carry one, and echoes the request's ID in the response header.
func AddRequestIDs(h http.Handler) http.Handler {
	gen := &IDGenerator{Prefix: "req-"}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(HeaderRequestID)
		if id == "" {
			id = gen.Next()
			req.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)
		h.ServeHTTP(w, req)
	})
}
