// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"git.arvados.org/mlplane.git/sdk/go/auth"
	"github.com/gogo/protobuf/jsonpb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handler is an http.Handler whose request metrics can be served by
// ServeAPI.
type Handler interface {
	http.Handler

	// ServeAPI returns a handler that serves metrics at
	// /metrics (text) and /metrics.json, requiring token if it
	// is not empty, and passes everything else to next.
	ServeAPI(token string, next http.Handler) http.Handler
}

type metrics struct {
	next         http.Handler
	registry     *prometheus.Registry
	timeToStatus *prometheus.SummaryVec
	operations   *prometheus.CounterVec
	exportProm   http.Handler
}

// Instrument returns a Handler that passes requests to next and
// records their durations in registry (a new registry if nil).
//
// Time to status and per-operation counts are taken from the
// "response" entries written by LogRequests, so every request must
// pass through both, with the same logger (logrus.StandardLogger()
// if nil).
func Instrument(registry *prometheus.Registry, logger *logrus.Logger, next http.Handler) Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	reqDuration := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "mlplane",
		Subsystem: "server",
		Name:      "request_duration_seconds",
		Help:      "Summary of request duration.",
	}, []string{"code", "method"})
	m := &metrics{
		next:     promhttp.InstrumentHandlerDuration(reqDuration, next),
		registry: registry,
		timeToStatus: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: "mlplane",
			Subsystem: "server",
			Name:      "time_to_status_seconds",
			Help:      "Summary of time from receiving a request to sending the response status.",
		}, []string{"code", "method"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlplane",
			Subsystem: "server",
			Name:      "operations_total",
			Help:      "Number of API requests, by operation and response status.",
		}, []string{"operation", "code"}),
		exportProm: promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			ErrorLog: logger,
		}),
	}
	registry.MustRegister(reqDuration, m.timeToStatus, m.operations)
	logger.AddHook(m)
	return m
}

func (m *metrics) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.next.ServeHTTP(w, req)
}

func (m *metrics) ServeAPI(token string, next http.Handler) http.Handler {
	exportJSON := auth.RequireLiteralToken(token, http.HandlerFunc(m.exportJSON))
	exportProm := auth.RequireLiteralToken(token, m.exportProm)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			next.ServeHTTP(w, req)
			return
		}
		switch req.URL.Path {
		case "/metrics":
			exportProm.ServeHTTP(w, req)
		case "/metrics.json":
			exportJSON.ServeHTTP(w, req)
		default:
			next.ServeHTTP(w, req)
		}
	})
}

func (m *metrics) exportJSON(w http.ResponseWriter, req *http.Request) {
	mfs, err := m.registry.Gather()
	if err != nil {
		Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	jm := jsonpb.Marshaler{Indent: "  "}
	w.Write([]byte{'['})
	for i, mf := range mfs {
		if i > 0 {
			w.Write([]byte{','})
		}
		jm.Marshal(w, mf)
	}
	w.Write([]byte{']'})
}

// Levels implements logrus.Hook.
func (*metrics) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel}
}

// Fire implements logrus.Hook. It observes the "response" entries
// logged by LogRequests and ignores everything else.
func (m *metrics) Fire(ent *logrus.Entry) error {
	if ent.Message != "response" {
		return nil
	}
	code, ok := ent.Data["StatusCode"].(int)
	if !ok {
		return nil
	}
	codeLabel := strconv.Itoa(code)
	if tts, ok := ent.Data["TimeToStatus"].(float64); ok {
		if method, ok := ent.Data["Method"].(string); ok {
			m.timeToStatus.WithLabelValues(codeLabel, strings.ToLower(method)).Observe(tts)
		}
	}
	if op, ok := ent.Data["Operation"].(string); ok {
		m.operations.WithLabelValues(op, codeLabel).Inc()
	}
	return nil
}
