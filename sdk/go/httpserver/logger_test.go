// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"github.com/sirupsen/logrus"
	check "gopkg.in/check.v1"
)

func Test(t *testing.T) {
	check.TestingT(t)
}

var _ = check.Suite(&LoggerSuite{})

type LoggerSuite struct {
	captured *bytes.Buffer
	logger   *logrus.Logger
}

func (s *LoggerSuite) SetUpTest(c *check.C) {
	s.captured = &bytes.Buffer{}
	s.logger = logrus.New()
	s.logger.Out = s.captured
	s.logger.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func (s *LoggerSuite) entries(c *check.C) []map[string]interface{} {
	var ents []map[string]interface{}
	dec := json.NewDecoder(s.captured)
	for dec.More() {
		ent := map[string]interface{}{}
		c.Assert(dec.Decode(&ent), check.IsNil)
		ents = append(ents, ent)
	}
	return ents
}

func (s *LoggerSuite) TestLogRequests(c *check.C) {
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		SetOperation(req, "ListTrainingJobs")
		ctxlog.FromContext(req.Context()).WithField("Kind", "training-job").Info("in handler")
		w.Write([]byte(`{"Items":[]}`))
	})
	req := httptest.NewRequest("GET", "https://mlplane.example/v1/training_jobs?SortOrder=Ascending", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4:12345")
	resp := httptest.NewRecorder()
	AddRequestIDs(LogRequests(s.logger, h)).ServeHTTP(resp, req)

	ents := s.entries(c)
	c.Assert(ents, check.HasLen, 3)
	gotReq, gotHandler, gotResp := ents[0], ents[1], ents[2]

	c.Check(gotReq["msg"], check.Equals, "request")
	c.Check(gotReq["RequestID"], check.Matches, `req-[0-9a-z]{13}`)
	c.Check(gotReq["ForwardedFor"], check.Equals, "1.2.3.4:12345")
	c.Check(gotReq["Method"], check.Equals, "GET")
	c.Check(gotReq["Path"], check.Equals, "v1/training_jobs")
	c.Check(gotReq["Query"], check.Equals, "SortOrder=Ascending")
	c.Check(resp.Header().Get(HeaderRequestID), check.Equals, gotReq["RequestID"])

	c.Check(gotHandler["RequestID"], check.Equals, gotReq["RequestID"])
	c.Check(gotHandler["Kind"], check.Equals, "training-job")

	c.Check(gotResp["msg"], check.Equals, "response")
	c.Check(gotResp["RequestID"], check.Equals, gotReq["RequestID"])
	c.Check(gotResp["Operation"], check.Equals, "ListTrainingJobs")
	c.Check(gotResp["StatusCode"], check.Equals, float64(200))
	c.Check(gotResp["ResponseBytes"], check.Equals, float64(len(`{"Items":[]}`)))
	c.Check(gotResp["ResponseBody"], check.IsNil)
	_, err := time.Parse(time.RFC3339Nano, gotResp["time"].(string))
	c.Check(err, check.IsNil)
	for _, key := range []string{"TimeToStatus", "TimeWriteBody", "TimeTotal"} {
		c.Assert(gotResp[key], check.FitsTypeOf, float64(0))
		c.Check(gotResp[key].(float64) >= 0, check.Equals, true)
	}
}

func (s *LoggerSuite) TestEmptyResponse(c *check.C) {
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})
	LogRequests(s.logger, h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("DELETE", "/v1/models/m", nil))
	ents := s.entries(c)
	c.Assert(ents, check.HasLen, 2)
	c.Check(ents[1]["StatusCode"], check.Equals, float64(200))
	c.Check(ents[1]["ResponseBytes"], check.Equals, float64(0))
	c.Check(ents[1]["Operation"], check.IsNil)
}

func (s *LoggerSuite) TestLogErrorBody(c *check.C) {
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		Error(w, `model "m" not found`, http.StatusNotFound)
	})
	resp := httptest.NewRecorder()
	LogRequests(s.logger, h).ServeHTTP(resp, httptest.NewRequest("GET", "/v1/models/m", nil))
	c.Check(resp.Code, check.Equals, http.StatusNotFound)

	ents := s.entries(c)
	c.Assert(ents, check.HasLen, 2)
	c.Check(ents[1]["StatusCode"], check.Equals, float64(404))
	c.Check(ents[1]["Status"], check.Equals, "Not Found")
	c.Check(ents[1]["ResponseBody"], check.Equals, `{"errors":["model \"m\" not found"]}`+"\n")
}

func (s *LoggerSuite) TestSniffLimit(c *check.C) {
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(bytes.Repeat([]byte("x"), sniffBytes-10))
		w.Write(bytes.Repeat([]byte("y"), 100))
	})
	LogRequests(s.logger, h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	ents := s.entries(c)
	c.Assert(ents, check.HasLen, 2)
	c.Check(ents[1]["ResponseBytes"], check.Equals, float64(sniffBytes+90))
	c.Check(ents[1]["ResponseBody"], check.HasLen, sniffBytes)
}

func (s *LoggerSuite) TestSetOperationOutsideLogRequests(c *check.C) {
	// No-op, must not panic.
	SetOperation(httptest.NewRequest("GET", "/", nil), "DescribeModel")
}

func (s *LoggerSuite) TestStatusOf(c *check.C) {
	c.Check(StatusOf(Errorf(http.StatusConflict, "busy")), check.Equals, http.StatusConflict)
	c.Check(StatusOf(ErrorWithStatus(errTest, http.StatusTeapot)), check.Equals, http.StatusTeapot)
	c.Check(StatusOf(errTest), check.Equals, http.StatusInternalServerError)
}

func (s *LoggerSuite) TestIDGeneratorOrder(c *check.C) {
	gen := IDGenerator{Prefix: "req-"}
	var ids []string
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := gen.Next()
		c.Check(seen[id], check.Equals, false)
		seen[id] = true
		ids = append(ids, id)
	}
	c.Check(sort.StringsAreSorted(ids), check.Equals, true)
}

func (s *LoggerSuite) TestKeepRequestID(c *check.C) {
	var got string
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Get(HeaderRequestID)
	})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "req-fromclient")
	resp := httptest.NewRecorder()
	AddRequestIDs(h).ServeHTTP(resp, req)
	c.Check(got, check.Equals, "req-fromclient")
	c.Check(resp.Header().Get(HeaderRequestID), check.Equals, "req-fromclient")
}

type testError struct{}

func (testError) Error() string { return "test error" }

var errTest = testError{}
