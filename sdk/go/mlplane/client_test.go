// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&ClientSuite{})

type ClientSuite struct {
	srv  *httptest.Server
	reqs []*http.Request
	body []string
	// response to send
	status int
	reply  string
	hang   bool
}

func (s *ClientSuite) SetUpTest(c *check.C) {
	s.reqs, s.body = nil, nil
	s.status, s.reply, s.hang = http.StatusOK, `{}`, false
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		s.reqs = append(s.reqs, r)
		s.body = append(s.body, string(buf))
		if s.hang {
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		io.WriteString(w, s.reply)
	}))
}

func (s *ClientSuite) TearDownTest(c *check.C) {
	s.srv.Close()
}

func (s *ClientSuite) client() *Client {
	return &Client{
		Scheme:    "http",
		APIHost:   strings.TrimPrefix(s.srv.URL, "http://"),
		AuthToken: "xyzzy",
	}
}

func (s *ClientSuite) TestGetQuery(c *check.C) {
	s.reply = `{"TrainingJobSummaries":[{"TrainingJobName":"prod-1","TrainingJobStatus":"Completed"}],"NextToken":"abc"}`
	fifty := 50
	t0 := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var list TrainingJobList
	err := s.client().Call(context.Background(), &list, RouteTrainingJobList, ListOptions{
		NameContains:      "prod",
		StatusEquals:      "Completed",
		CreationTimeAfter: &t0,
		SortOrder:         SortOrderAscending,
		MaxResults:        &fifty,
	})
	c.Assert(err, check.IsNil)
	c.Check(list.Items, check.HasLen, 1)
	c.Check(list.Items[0].Status, check.Equals, TrainingJobStatusCompleted)
	c.Check(list.PageToken(), check.Equals, "abc")

	c.Assert(s.reqs, check.HasLen, 1)
	req := s.reqs[0]
	c.Check(req.Method, check.Equals, "GET")
	c.Check(req.URL.Path, check.Equals, "/v1/training_jobs")
	c.Check(req.Header.Get("Authorization"), check.Equals, "Bearer xyzzy")
	c.Check(req.Header.Get("X-Request-Id"), check.Matches, `req-[0-9a-z]+`)
	c.Check(req.URL.Query(), check.DeepEquals, url.Values{
		"NameContains":      {"prod"},
		"StatusEquals":      {"Completed"},
		"CreationTimeAfter": {"2024-01-02T03:04:05Z"},
		"SortOrder":         {"Ascending"},
		"MaxResults":        {"50"},
	})
	c.Check(s.body[0], check.Equals, "")
}

func (s *ClientSuite) TestNameInPath(c *check.C) {
	err := s.client().Call(context.Background(), &Endpoint{}, RouteEndpointDescribe, GetOptions{Name: "my-endpoint"})
	c.Check(err, check.IsNil)
	err = s.client().Call(context.Background(), nil, RouteNotebookInstanceStop, GetOptions{Name: "nb-1"})
	c.Check(err, check.IsNil)
	c.Assert(s.reqs, check.HasLen, 2)
	c.Check(s.reqs[0].URL.Path, check.Equals, "/v1/endpoints/my-endpoint")
	c.Check(s.reqs[0].URL.RawQuery, check.Equals, "")
	c.Check(s.reqs[1].Method, check.Equals, "POST")
	c.Check(s.reqs[1].URL.Path, check.Equals, "/v1/notebook_instances/nb-1/stop")
	c.Check(s.body[1], check.Equals, `{"Name":"nb-1"}`)
}

func (s *ClientSuite) TestPostBody(c *check.C) {
	s.reply = `{"Name":"ep","Arn":"arn:aws:sagemaker:us-east-1:123456789012:endpoint/ep"}`
	var ref ResourceRef
	err := s.client().Call(context.Background(), &ref, RouteEndpointCreate, CreateEndpointRequest{
		EndpointName:       "ep",
		EndpointConfigName: "ep-config",
	})
	c.Assert(err, check.IsNil)
	c.Check(ref.ARN, check.Equals, "arn:aws:sagemaker:us-east-1:123456789012:endpoint/ep")
	c.Check(s.reqs[0].Header.Get("Content-Type"), check.Equals, "application/json")
	var sent map[string]interface{}
	c.Assert(json.Unmarshal([]byte(s.body[0]), &sent), check.IsNil)
	c.Check(sent, check.DeepEquals, map[string]interface{}{"EndpointName": "ep", "EndpointConfigName": "ep-config"})
}

func (s *ClientSuite) TestRequestID(c *check.C) {
	ctx := ContextWithRequestID(context.Background(), "req-fromcontext")
	err := s.client().Call(ctx, nil, RouteModelList, ListOptions{})
	c.Check(err, check.IsNil)
	err = s.client().WithRequestID("req-default").Call(context.Background(), nil, RouteModelList, ListOptions{})
	c.Check(err, check.IsNil)
	c.Assert(s.reqs, check.HasLen, 2)
	c.Check(s.reqs[0].Header.Get("X-Request-Id"), check.Equals, "req-fromcontext")
	c.Check(s.reqs[1].Header.Get("X-Request-Id"), check.Equals, "req-default")
}

func (s *ClientSuite) TestTransactionError(c *check.C) {
	for _, trial := range []struct {
		status   int
		sentinel error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, nil},
	} {
		s.status = trial.status
		s.reply = `{"errors":["training-job \"x\" not found"]}`
		err := s.client().Call(context.Background(), &TrainingJob{}, RouteTrainingJobDescribe, GetOptions{Name: "x"})
		c.Assert(err, check.NotNil)
		var terr *TransactionError
		c.Assert(errors.As(err, &terr), check.Equals, true)
		c.Check(terr.HTTPStatus(), check.Equals, trial.status)
		c.Check(terr.Errors, check.DeepEquals, []string{`training-job "x" not found`})
		c.Check(err, check.ErrorMatches, `request failed: http://.*/v1/training_jobs/x: .*: training-job "x" not found`)
		for _, sentinel := range []error{ErrValidation, ErrNotFound, ErrConflict} {
			c.Check(errors.Is(err, sentinel), check.Equals, sentinel == trial.sentinel, check.Commentf("status %d, %v", trial.status, sentinel))
		}
	}
}

func (s *ClientSuite) TestNonJSONError(c *check.C) {
	s.status = http.StatusBadGateway
	s.reply = `<html>bad gateway</html>`
	err := s.client().Call(context.Background(), nil, RouteModelList, nil)
	var terr *TransactionError
	c.Assert(errors.As(err, &terr), check.Equals, true)
	c.Check(terr.Errors, check.HasLen, 0)
	c.Check(terr.StatusCode, check.Equals, http.StatusBadGateway)
}

func (s *ClientSuite) TestNoHost(c *check.C) {
	err := (&Client{}).Call(context.Background(), nil, RouteModelList, nil)
	c.Check(err, check.ErrorMatches, `.*APIHost is not set`)
}

func (s *ClientSuite) TestContextDeadline(c *check.C) {
	s.hang = true
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.client().Call(ctx, nil, RouteModelList, nil)
	c.Check(err, check.ErrorMatches, `.*context deadline exceeded.*`)
}

func (s *ClientSuite) TestRoutePath(c *check.C) {
	c.Check(RoutePath(RouteEndpointDescribe, "my-endpoint"), check.Equals, "v1/endpoints/my-endpoint")
	c.Check(RoutePath(RouteNotebookInstanceStart, "a/b"), check.Equals, "v1/notebook_instances/a%2Fb/start")
	c.Check(RoutePath(RouteModelList, "ignored"), check.Equals, "v1/models")
}

func (s *ClientSuite) TestEscapedName(c *check.C) {
	err := s.client().Call(context.Background(), nil, RouteNotebookInstanceStart, GetOptions{Name: "a/b"})
	c.Check(err, check.IsNil)
	c.Assert(s.reqs, check.HasLen, 1)
	c.Check(s.reqs[0].URL.EscapedPath(), check.Equals, "/v1/notebook_instances/a%2Fb/start")
}

func (s *ClientSuite) TestToValues(c *check.C) {
	m, err := toMap(struct {
		S string
		N int
		T bool
		F bool
		P *int
		L []string
	}{S: "x", N: 3, T: true, L: []string{"a"}})
	c.Assert(err, check.IsNil)
	c.Check(toValues(m), check.DeepEquals, url.Values{
		"S": {"x"},
		"N": {"3"},
		"T": {"true"},
		"L": {`["a"]`},
	})
}
