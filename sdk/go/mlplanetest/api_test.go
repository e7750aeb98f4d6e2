// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplanetest

import (
	"context"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&APIStubSuite{})

type APIStubSuite struct{}

func (s *APIStubSuite) TestCalls(c *check.C) {
	stub := &APIStub{Error: ErrStubUnimplemented}
	ctx := context.Background()
	_, err := stub.TrainingJobList(ctx, mlplane.ListOptions{NameContains: "prod"})
	c.Check(err, check.Equals, ErrStubUnimplemented)
	_, err = stub.TrainingJobDescribe(ctx, mlplane.GetOptions{Name: "a"})
	c.Check(err, check.Equals, ErrStubUnimplemented)
	_, err = stub.TrainingJobDescribe(ctx, mlplane.GetOptions{Name: "b"})
	c.Check(err, check.Equals, ErrStubUnimplemented)

	c.Check(stub.Calls(nil), check.HasLen, 3)
	c.Check(stub.Calls(stub.TrainingJobList), check.HasLen, 1)
	calls := stub.Calls(stub.TrainingJobDescribe)
	c.Assert(calls, check.HasLen, 2)
	c.Check(calls[1].Options, check.DeepEquals, mlplane.GetOptions{Name: "b"})
	c.Check(stub.Calls(stub.TuningJobDescribe), check.HasLen, 0)
}
