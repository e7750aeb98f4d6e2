// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&ListSuite{})

type ListSuite struct{}

func (s *ListSuite) TestMaxResults(c *check.C) {
	for n, ok := range map[int]bool{-1: false, 0: false, 1: true, 50: true, 100: true, 101: false} {
		_, err := NewListOptions(KindTrainingJob).WithMaxResults(n).Build()
		c.Check(err == nil, check.Equals, ok, check.Commentf("MaxResults %d: %v", n, err))
	}
	opts, err := NewListOptions(KindTrainingJob).Build()
	c.Check(err, check.IsNil)
	c.Check(opts.MaxResults, check.IsNil)
}

func (s *ListSuite) TestValidateFor(c *check.C) {
	for _, trial := range []struct {
		kind ResourceKind
		opts ListOptions
		err  string
	}{
		{KindTrainingJob, ListOptions{NameContains: "prod"}, ""},
		{KindTrainingJob, ListOptions{NameContains: "prod_1"}, `NameContains: must match .*`},
		{KindTuningJob, ListOptions{NameContains: "abcdefghijklmnopqrstuvwxyz0123456"}, `NameContains: length must be between 0 and 32.*`},
		{KindTrainingJob, ListOptions{StatusEquals: "Completed"}, ""},
		{KindTrainingJob, ListOptions{StatusEquals: "InService"}, `StatusEquals: unknown TrainingJobStatus value "InService".*`},
		{KindEndpoint, ListOptions{StatusEquals: "InService"}, ""},
		{KindModel, ListOptions{StatusEquals: "InService"}, `StatusEquals: not supported for model.*`},
		{KindModel, ListOptions{SortBy: SortByStatus}, `SortBy: not supported for model.*`},
		{KindModel, ListOptions{LastModifiedTimeAfter: timePtr(time.Now())}, `LastModifiedTimeAfter: not supported for model`},
		{KindTrainingJob, ListOptions{SortOrder: "Sideways"}, `SortOrder: must be one of Ascending, Descending.*`},
		{ResourceKind("pipeline"), ListOptions{}, `kind: unknown resource kind.*`},
	} {
		err := trial.opts.ValidateFor(trial.kind)
		if trial.err == "" {
			c.Check(err, check.IsNil, check.Commentf("%s %+v", trial.kind, trial.opts))
		} else {
			c.Check(err, check.ErrorMatches, trial.err, check.Commentf("%s %+v", trial.kind, trial.opts))
			c.Check(errors.Is(err, ErrValidation), check.Equals, true)
		}
	}
}

func (s *ListSuite) TestBuilderStatusEquals(c *check.C) {
	opts, err := NewListOptions(KindNotebookInstance).
		WithStatusEquals(NotebookInstanceStatusStopped).
		WithSort(SortByCreationTime, SortOrderAscending).
		Build()
	c.Assert(err, check.IsNil)
	c.Check(opts.StatusEquals, check.Equals, "Stopped")
	c.Check(opts.SortBy, check.Equals, SortByCreationTime)
	c.Check(opts.SortOrder, check.Equals, SortOrderAscending)
}

func (s *ListSuite) TestMatches(c *check.C) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	job := TrainingJobSummary{Name: "prod-xgb", CreationTime: t0, LastModifiedTime: &t1, Status: TrainingJobStatusCompleted}
	model := ModelSummary{Name: "prod-model", CreationTime: t0}

	for _, trial := range []struct {
		opts  ListOptions
		r     Resource
		match bool
	}{
		{ListOptions{}, job, true},
		{ListOptions{NameContains: "xgb"}, job, true},
		{ListOptions{NameContains: "XGB"}, job, false},
		{ListOptions{CreationTimeAfter: &t0}, job, false},
		{ListOptions{CreationTimeBefore: &t0}, job, false},
		{ListOptions{CreationTimeAfter: timePtr(t0.Add(-time.Second)), CreationTimeBefore: &t1}, job, true},
		{ListOptions{CreationTimeAfter: &t1, CreationTimeBefore: &t0}, job, false},
		{ListOptions{LastModifiedTimeAfter: &t0}, job, true},
		{ListOptions{LastModifiedTimeBefore: &t1}, job, false},
		{ListOptions{StatusEquals: "Completed"}, job, true},
		{ListOptions{StatusEquals: "Failed"}, job, false},
		{ListOptions{NameContains: "prod", StatusEquals: "Completed"}, job, true},
		{ListOptions{StatusEquals: "Completed"}, model, false},
		{ListOptions{LastModifiedTimeBefore: &t1}, model, true},
		{ListOptions{LastModifiedTimeAfter: &t0}, model, false},
	} {
		c.Check(trial.opts.Matches(trial.r), check.Equals, trial.match, check.Commentf("%+v %s", trial.opts, trial.r.ResourceName()))
	}
}

func (s *ListSuite) TestPageState(c *check.C) {
	c.Check(PageStateOf(""), check.Equals, Exhausted)
	c.Check(PageStateOf("abc"), check.Equals, HasMore)
	c.Check(HasMore.String(), check.Equals, "HasMore")
	c.Check(Exhausted.String(), check.Equals, "Exhausted")
	c.Check(PageStateOf(TrainingJobList{NextToken: "t"}.PageToken()), check.Equals, HasMore)
}

// pagedInts returns a fetch func that serves 0..total-1 in pages of
// size, using the offset as the continuation token.
func pagedInts(total, size int, calls *int) func(context.Context, ListOptions) ([]int, string, error) {
	return func(ctx context.Context, opts ListOptions) ([]int, string, error) {
		*calls++
		offset := 0
		if opts.NextToken != "" {
			var err error
			offset, err = strconv.Atoi(opts.NextToken)
			if err != nil {
				return nil, "", err
			}
		}
		var items []int
		for i := offset; i < total && i < offset+size; i++ {
			items = append(items, i)
		}
		if offset+size >= total {
			return items, "", nil
		}
		return items, strconv.Itoa(offset + size), nil
	}
}

func (s *ListSuite) TestPaginatorPageCount(c *check.C) {
	for _, trial := range []struct {
		total, size, pages int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{60, 50, 2},
		{250, 100, 3},
	} {
		calls := 0
		p := NewPaginator(ListOptions{}, pagedInts(trial.total, trial.size, &calls))
		all, err := p.All(context.Background())
		c.Check(err, check.IsNil)
		c.Check(all, check.HasLen, trial.total)
		c.Check(p.Pages(), check.Equals, trial.pages, check.Commentf("%+v", trial))
		c.Check(calls, check.Equals, trial.pages)
		c.Check(p.HasMore(), check.Equals, false)
		items, err := p.Next(context.Background())
		c.Check(items, check.IsNil)
		c.Check(err, check.IsNil)
		c.Check(calls, check.Equals, trial.pages)
	}
}

func (s *ListSuite) TestPaginatorNext(c *check.C) {
	calls := 0
	p := NewPaginator(ListOptions{}, pagedInts(25, 10, &calls))
	var sizes []int
	for p.HasMore() {
		items, err := p.Next(context.Background())
		c.Assert(err, check.IsNil)
		sizes = append(sizes, len(items))
	}
	c.Check(sizes, check.DeepEquals, []int{10, 10, 5})
}

func (s *ListSuite) TestPaginatorStartToken(c *check.C) {
	calls := 0
	p := NewPaginator(ListOptions{NextToken: "20"}, pagedInts(25, 10, &calls))
	all, err := p.All(context.Background())
	c.Check(err, check.IsNil)
	c.Check(all, check.DeepEquals, []int{20, 21, 22, 23, 24})
}

func (s *ListSuite) TestPaginatorRepeatedToken(c *check.C) {
	calls := 0
	p := NewPaginator(ListOptions{}, func(context.Context, ListOptions) ([]int, string, error) {
		calls++
		return []int{calls}, "same", nil
	})
	all, err := p.All(context.Background())
	c.Check(err, check.Equals, ErrRepeatedToken)
	c.Check(all, check.DeepEquals, []int{1})
	c.Check(calls, check.Equals, 2)
	c.Check(p.HasMore(), check.Equals, false)
}

func (s *ListSuite) TestPaginatorError(c *check.C) {
	fail := errors.New("boom")
	p := NewPaginator(ListOptions{}, func(context.Context, ListOptions) ([]string, string, error) {
		return nil, "", fail
	})
	_, err := p.Next(context.Background())
	c.Check(err, check.Equals, fail)
	c.Check(p.HasMore(), check.Equals, true)
	c.Check(p.Pages(), check.Equals, 0)
}

func (s *ListSuite) TestEachStops(c *check.C) {
	calls := 0
	p := NewPaginator(ListOptions{}, pagedInts(30, 10, &calls))
	stop := fmt.Errorf("stop")
	seen := 0
	err := p.Each(context.Background(), func(i int) error {
		seen++
		if i == 12 {
			return stop
		}
		return nil
	})
	c.Check(err, check.Equals, stop)
	c.Check(seen, check.Equals, 13)
	c.Check(calls, check.Equals, 2)
}
