// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package termcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"git.arvados.org/mlplane.git/sdk/go/mlplanetest"
	check "gopkg.in/check.v1"
)

// Gocheck boilerplate
func Test(t *testing.T) {
	check.TestingT(t)
}

var _ = check.Suite(&CacheSuite{})

type CacheSuite struct {
	ctx   context.Context
	fake  *mlplanetest.Fake
	cache *Cache
}

func (s *CacheSuite) SetUpTest(c *check.C) {
	s.ctx = context.Background()
	s.fake = &mlplanetest.Fake{Now: func() time.Time { return mlplanetest.Epoch }}
	s.cache = &Cache{API: s.fake, MaxEntries: 10}
}

func (s *CacheSuite) TestTerminalOnly(c *check.C) {
	_, err := s.cache.TrainingJobCreate(s.ctx, mlplanetest.TrainingJobRequest("xgb-1"))
	c.Assert(err, check.IsNil)

	job, err := s.cache.TrainingJobDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-1"})
	c.Assert(err, check.IsNil)
	c.Check(job.Status, check.Equals, mlplane.TrainingJobStatusInProgress)
	c.Check(s.cache.Stats().Entries, check.Equals, 0)

	c.Assert(s.fake.SetStatus(mlplane.KindTrainingJob, "xgb-1", "Completed"), check.IsNil)
	for i := 0; i < 3; i++ {
		job, err = s.cache.TrainingJobDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-1"})
		c.Assert(err, check.IsNil)
		c.Check(job.Status, check.Equals, mlplane.TrainingJobStatusCompleted)
	}
	st := s.cache.Stats()
	c.Check(st.Requests, check.Equals, uint64(4))
	c.Check(st.Hits, check.Equals, uint64(2))
	c.Check(st.Entries, check.Equals, 1)
}

func (s *CacheSuite) TestHitAvoidsBackend(c *check.C) {
	stub := &mlplanetest.APIStub{}
	cache := &Cache{API: stub}
	// A zero-valued model has no status, so it is cached.
	for i := 0; i < 3; i++ {
		_, err := cache.ModelDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-model"})
		c.Check(err, check.IsNil)
	}
	c.Check(stub.Calls(stub.ModelDescribe), check.HasLen, 1)

	// Errors are not cached.
	stub.Error = errors.New("oops")
	for i := 0; i < 2; i++ {
		_, err := cache.EndpointDescribe(s.ctx, mlplane.GetOptions{Name: "ep-1"})
		c.Check(err, check.ErrorMatches, "oops")
	}
	c.Check(stub.Calls(stub.EndpointDescribe), check.HasLen, 2)
}

func (s *CacheSuite) TestDeleteForgets(c *check.C) {
	_, err := s.cache.ModelCreate(s.ctx, mlplanetest.ModelRequest("xgb-model"))
	c.Assert(err, check.IsNil)
	_, err = s.cache.ModelDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-model"})
	c.Assert(err, check.IsNil)
	c.Check(s.cache.Stats().Entries, check.Equals, 1)

	c.Assert(s.cache.ModelDelete(s.ctx, mlplane.DeleteOptions{Name: "xgb-model"}), check.IsNil)
	c.Check(s.cache.Stats().Entries, check.Equals, 0)
	_, err = s.cache.ModelDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-model"})
	c.Check(errors.Is(err, mlplane.ErrNotFound), check.Equals, true)
}

func (s *CacheSuite) TestSettledEndpointNotCached(c *check.C) {
	_, err := s.cache.EndpointCreate(s.ctx, mlplanetest.EndpointRequest("ep-1"))
	c.Assert(err, check.IsNil)
	c.Assert(s.fake.SetStatus(mlplane.KindEndpoint, "ep-1", "InService"), check.IsNil)
	ep, err := s.cache.EndpointDescribe(s.ctx, mlplane.GetOptions{Name: "ep-1"})
	c.Assert(err, check.IsNil)
	c.Check(ep.Status.Settled(), check.Equals, true)
	c.Check(s.cache.Stats().Entries, check.Equals, 0)
}

func (s *CacheSuite) TestTTL(c *check.C) {
	stub := &mlplanetest.APIStub{}
	cache := &Cache{API: stub, TTL: mlplane.Duration(time.Nanosecond)}
	_, err := cache.ModelDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-model"})
	c.Assert(err, check.IsNil)
	time.Sleep(time.Millisecond)
	_, err = cache.ModelDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-model"})
	c.Assert(err, check.IsNil)
	c.Check(stub.Calls(stub.ModelDescribe), check.HasLen, 2)
}

func (s *CacheSuite) TestEviction(c *check.C) {
	stub := &mlplanetest.APIStub{}
	cache := &Cache{API: stub, MaxEntries: 2}
	for _, name := range []string{"m1", "m2", "m3", "m1"} {
		_, err := cache.ModelDescribe(s.ctx, mlplane.GetOptions{Name: name})
		c.Assert(err, check.IsNil)
	}
	c.Check(cache.Stats().Entries, check.Equals, 2)
	c.Check(stub.Calls(stub.ModelDescribe), check.HasLen, 4)
}

func (s *CacheSuite) TestTagChangesForget(c *check.C) {
	ref, err := s.cache.LabelingJobCreate(s.ctx, mlplanetest.LabelingJobRequest("label-1"))
	c.Assert(err, check.IsNil)
	c.Assert(s.fake.SetStatus(mlplane.KindLabelingJob, "label-1", "Completed"), check.IsNil)
	job, err := s.cache.LabelingJobDescribe(s.ctx, mlplane.GetOptions{Name: "label-1"})
	c.Assert(err, check.IsNil)
	c.Check(job.Tags, check.HasLen, 0)
	c.Check(s.cache.Stats().Entries, check.Equals, 1)

	err = s.cache.TagsAdd(s.ctx, mlplane.AddTagsOptions{ResourceARN: ref.ARN, Tags: []mlplane.Tag{{Key: "team", Value: "ml"}}})
	c.Assert(err, check.IsNil)
	c.Check(s.cache.Stats().Entries, check.Equals, 0)
	job, err = s.cache.LabelingJobDescribe(s.ctx, mlplane.GetOptions{Name: "label-1"})
	c.Assert(err, check.IsNil)
	c.Check(job.Tags, check.DeepEquals, []mlplane.Tag{{Key: "team", Value: "ml"}})

	err = s.cache.TagsDelete(s.ctx, mlplane.DeleteTagsOptions{ResourceARN: ref.ARN, TagKeys: []string{"team"}})
	c.Assert(err, check.IsNil)
	job, err = s.cache.LabelingJobDescribe(s.ctx, mlplane.GetOptions{Name: "label-1"})
	c.Assert(err, check.IsNil)
	c.Check(job.Tags, check.HasLen, 0)

	// A malformed ARN is passed through, and leaves other entries
	// alone.
	err = s.cache.TagsDelete(s.ctx, mlplane.DeleteTagsOptions{ResourceARN: "bogus", TagKeys: []string{"team"}})
	c.Check(errors.Is(err, mlplane.ErrValidation), check.Equals, true)
	c.Check(s.cache.Stats().Entries, check.Equals, 1)
}
