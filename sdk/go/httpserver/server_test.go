// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&ServerSuite{})

type ServerSuite struct{}

func (s *ServerSuite) TestStartClose(c *check.C) {
	srv := &Server{Addr: "127.0.0.1:0"}
	srv.Handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "ok")
	})
	c.Assert(srv.Start(), check.IsNil)
	c.Check(strings.HasSuffix(srv.Addr, ":0"), check.Equals, false)

	resp, err := http.Get("http://" + srv.Addr + "/")
	c.Assert(err, check.IsNil)
	buf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	c.Check(string(buf), check.Equals, "ok")

	c.Check(srv.Close(context.Background()), check.IsNil)
	_, err = http.Get("http://" + srv.Addr + "/")
	c.Check(err, check.NotNil)
}

func (s *ServerSuite) TestWaitNotStarted(c *check.C) {
	srv := &Server{}
	c.Check(srv.Wait(), check.IsNil)
}

func (s *ServerSuite) TestMetrics(c *check.C) {
	logger := logrus.New()
	logger.Out = io.Discard
	reg := prometheus.NewRegistry()
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		SetOperation(req, "ListModels")
		io.WriteString(w, `{"Items":[]}`)
	})
	m := Instrument(reg, logger, AddRequestIDs(LogRequests(logger, h)))
	srv := &Server{Addr: "127.0.0.1:0"}
	srv.Handler = m.ServeAPI("metricstoken", m)
	c.Assert(srv.Start(), check.IsNil)
	defer srv.Close(context.Background())

	resp, err := http.Get("http://" + srv.Addr + "/v1/models")
	c.Assert(err, check.IsNil)
	resp.Body.Close()
	c.Check(resp.StatusCode, check.Equals, http.StatusOK)

	resp, err = http.Get("http://" + srv.Addr + "/metrics")
	c.Assert(err, check.IsNil)
	resp.Body.Close()
	c.Check(resp.StatusCode, check.Equals, http.StatusUnauthorized)

	for _, path := range []string{"/metrics", "/metrics.json"} {
		req, _ := http.NewRequest("GET", "http://"+srv.Addr+path, nil)
		req.Header.Set("Authorization", "Bearer metricstoken")
		resp, err = http.DefaultClient.Do(req)
		c.Assert(err, check.IsNil)
		buf, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.Check(resp.StatusCode, check.Equals, http.StatusOK)
		if path == "/metrics" {
			c.Check(string(buf), check.Matches, `(?ms).*mlplane_server_request_duration_seconds_count{code="200",method="get"} 1\n.*`)
			c.Check(string(buf), check.Matches, `(?ms).*mlplane_server_time_to_status_seconds_count{code="200",method="get"} 1\n.*`)
			var parser expfmt.TextParser
			mfs, err := parser.TextToMetricFamilies(bytes.NewReader(buf))
			c.Assert(err, check.IsNil)
			ops := mfs["mlplane_server_operations_total"]
			c.Assert(ops, check.NotNil)
			c.Assert(ops.GetMetric(), check.HasLen, 1)
			labels := map[string]string{}
			for _, lp := range ops.GetMetric()[0].GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			c.Check(labels, check.DeepEquals, map[string]string{"code": "200", "operation": "ListModels"})
			c.Check(ops.GetMetric()[0].GetCounter().GetValue(), check.Equals, float64(1))
		} else {
			c.Check(string(buf), check.Matches, `(?ms)\[.*"name": "mlplane_server_operations_total".*\]`)
		}
	}
}
