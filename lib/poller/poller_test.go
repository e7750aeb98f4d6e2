// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package poller

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"git.arvados.org/mlplane.git/sdk/go/mlplanetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	check "gopkg.in/check.v1"
)

// Gocheck boilerplate
func Test(t *testing.T) {
	check.TestingT(t)
}

var _ = check.Suite(&PollerSuite{})

type PollerSuite struct {
	ctx    context.Context
	logbuf *bytes.Buffer
	fake   *mlplanetest.Fake
	poller *Poller
}

func (s *PollerSuite) SetUpTest(c *check.C) {
	s.logbuf = &bytes.Buffer{}
	s.ctx = ctxlog.Context(context.Background(), ctxlog.New(s.logbuf, "text", "info"))
	s.fake = &mlplanetest.Fake{}
	s.poller = New(s.fake, time.Millisecond, prometheus.NewRegistry())
}

func (s *PollerSuite) TestJobTerminal(c *check.C) {
	_, err := s.fake.TrainingJobCreate(s.ctx, mlplanetest.TrainingJobRequest("xgb-1"))
	c.Assert(err, check.IsNil)
	s.fake.Queue(mlplane.KindTrainingJob, "xgb-1", "InProgress", "Stopping", "Stopped")

	r, err := s.poller.Wait(s.ctx, mlplane.KindTrainingJob, "xgb-1")
	c.Assert(err, check.IsNil)
	job := r.(mlplane.TrainingJob)
	c.Check(job.Status, check.Equals, mlplane.TrainingJobStatusStopped)
	c.Check(job.TrainingEndTime, check.NotNil)

	c.Check(testutil.ToFloat64(s.poller.mPolls.WithLabelValues("training-job")), check.Equals, 3.0)
	for _, st := range []string{"InProgress", "Stopping", "Stopped"} {
		c.Check(testutil.ToFloat64(s.poller.mWaiting.WithLabelValues("training-job", st)), check.Equals, 0.0)
	}
	c.Check(s.logbuf.String(), check.Matches, `(?ms).*msg="status changed" Kind=training-job Name=xgb-1 Status=InProgress\n.*`)
	c.Check(s.logbuf.String(), check.Matches, `(?ms).*Name=xgb-1 PreviousStatus=Stopping Status=Stopped\n.*`)
}

func (s *PollerSuite) TestEndpointSettled(c *check.C) {
	_, err := s.fake.EndpointCreate(s.ctx, mlplanetest.EndpointRequest("ep-1"))
	c.Assert(err, check.IsNil)
	s.fake.Queue(mlplane.KindEndpoint, "ep-1", "Creating", "Creating", "InService")

	r, err := s.poller.Wait(s.ctx, mlplane.KindEndpoint, "ep-1")
	c.Assert(err, check.IsNil)
	c.Check(r.ResourceStatus(), check.Equals, mlplane.EndpointStatusInService)
	c.Check(r.ResourceStatus().Terminal(), check.Equals, false)
	c.Check(testutil.ToFloat64(s.poller.mPolls.WithLabelValues("endpoint")), check.Equals, 3.0)
}

func (s *PollerSuite) TestUnknownStatus(c *check.C) {
	_, err := s.fake.TrainingJobCreate(s.ctx, mlplanetest.TrainingJobRequest("xgb-1"))
	c.Assert(err, check.IsNil)
	s.fake.Queue(mlplane.KindTrainingJob, "xgb-1", "Paused", "Completed")

	r, err := s.poller.Wait(s.ctx, mlplane.KindTrainingJob, "xgb-1")
	c.Assert(err, check.IsNil)
	c.Check(r.ResourceStatus(), check.Equals, mlplane.TrainingJobStatusCompleted)
	c.Check(s.logbuf.String(), check.Matches, `(?ms).*level=warning msg="status changed to unrecognized value".*Status=Paused\n.*`)
}

func (s *PollerSuite) TestModelExists(c *check.C) {
	_, err := s.fake.ModelCreate(s.ctx, mlplanetest.ModelRequest("xgb-model"))
	c.Assert(err, check.IsNil)
	r, err := s.poller.Wait(s.ctx, mlplane.KindModel, "xgb-model")
	c.Assert(err, check.IsNil)
	c.Check(r.ResourceName(), check.Equals, "xgb-model")
	c.Check(r.ResourceStatus(), check.IsNil)
}

func (s *PollerSuite) TestNotFound(c *check.C) {
	_, err := s.poller.Wait(s.ctx, mlplane.KindTransformJob, "missing")
	c.Check(errors.Is(err, mlplane.ErrNotFound), check.Equals, true)
}

func (s *PollerSuite) TestContextDeadline(c *check.C) {
	_, err := s.fake.TrainingJobCreate(s.ctx, mlplanetest.TrainingJobRequest("xgb-1"))
	c.Assert(err, check.IsNil)
	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	_, err = s.poller.Wait(ctx, mlplane.KindTrainingJob, "xgb-1")
	c.Check(errors.Is(err, context.DeadlineExceeded), check.Equals, true)
	c.Check(err, check.ErrorMatches, `waiting for training-job "xgb-1" \(last status InProgress\): .*`)
	c.Check(testutil.ToFloat64(s.poller.mWaiting.WithLabelValues("training-job", "InProgress")), check.Equals, 0.0)
}
