// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"github.com/sirupsen/logrus"
)

// Bytes of an error response body to include in the response log
// entry.
const sniffBytes = 1024

type contextKeyRequestState struct{}

type requestState struct {
	mtx       sync.Mutex
	operation string
}

// LogRequests logs a "request" entry when each request arrives and a
// "response" entry when the handler returns. The request-scoped
// logger is attached to the request context, so entries logged by
// handlers via ctxlog.FromContext carry the same RequestID.
func LogRequests(logger logrus.FieldLogger, h http.Handler) http.Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lgr := logger.WithFields(logrus.Fields{
			"RequestID":    req.Header.Get(HeaderRequestID),
			"RemoteAddr":   req.RemoteAddr,
			"ForwardedFor": req.Header.Get("X-Forwarded-For"),
			"Method":       req.Method,
			"Path":         strings.TrimPrefix(req.URL.Path, "/"),
			"Query":        req.URL.RawQuery,
			"RequestBytes": req.ContentLength,
		})
		st := &requestState{}
		ctx := context.WithValue(req.Context(), contextKeyRequestState{}, st)
		req = req.WithContext(ctxlog.Context(ctx, lgr))
		rec := &recorder{ResponseWriter: w}

		lgr.Info("request")
		defer logResponse(lgr, rec, st, start)
		h.ServeHTTP(rec, req)
	})
}

// SetOperation records the API operation req was routed to. It is
// added to the response log entry and counted in the per-operation
// request metrics.
func SetOperation(req *http.Request, op string) {
	st, ok := req.Context().Value(contextKeyRequestState{}).(*requestState)
	if !ok {
		return
	}
	st.mtx.Lock()
	st.operation = op
	st.mtx.Unlock()
}

// Logger returns the request-scoped logger attached by LogRequests.
func Logger(req *http.Request) logrus.FieldLogger {
	return ctxlog.FromContext(req.Context())
}

func logResponse(lgr *logrus.Entry, rec *recorder, st *requestState, start time.Time) {
	done := time.Now()
	firstWrite := rec.firstWrite
	if firstWrite.IsZero() {
		// No body, header was sent when the handler returned.
		firstWrite = done
	}
	code := rec.status
	if code == 0 {
		code = http.StatusOK
	}
	fields := logrus.Fields{
		"StatusCode":    code,
		"Status":        http.StatusText(code),
		"ResponseBytes": rec.bytes,
		"TimeToStatus":  firstWrite.Sub(start).Seconds(),
		"TimeWriteBody": done.Sub(firstWrite).Seconds(),
		"TimeTotal":     done.Sub(start).Seconds(),
	}
	st.mtx.Lock()
	if st.operation != "" {
		fields["Operation"] = st.operation
	}
	st.mtx.Unlock()
	if code >= 400 {
		fields["ResponseBody"] = string(rec.sniffed)
	}
	lgr.WithFields(fields).Info("response")
}

// recorder passes writes through to the client, noting the status,
// the body size, when the first byte went out, and the start of any
// error body.
type recorder struct {
	http.ResponseWriter
	status     int
	bytes      int
	firstWrite time.Time
	sniffed    []byte
}

func (rec *recorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
		rec.firstWrite = time.Now()
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(p []byte) (int, error) {
	if rec.status == 0 {
		rec.WriteHeader(http.StatusOK)
	}
	if rec.status >= 400 && len(rec.sniffed) < sniffBytes {
		keep := p
		if room := sniffBytes - len(rec.sniffed); len(keep) > room {
			keep = keep[:room]
		}
		rec.sniffed = append(rec.sniffed, keep...)
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}

func (rec *recorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}
