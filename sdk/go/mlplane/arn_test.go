// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"errors"
	"strings"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&ARNSuite{})

type ARNSuite struct{}

func (s *ARNSuite) TestParse(c *check.C) {
	arn, err := ParseARN("arn:aws:sagemaker:us-east-1:123456789012:training-job/prod-xgb-1")
	c.Assert(err, check.IsNil)
	c.Check(arn, check.DeepEquals, ARN{
		Partition: "aws",
		Region:    "us-east-1",
		AccountID: "123456789012",
		Kind:      KindTrainingJob,
		Name:      "prod-xgb-1",
	})
	c.Check(arn.String(), check.Equals, "arn:aws:sagemaker:us-east-1:123456789012:training-job/prod-xgb-1")

	arn, err = ParseARN("arn:aws-cn:sagemaker:cn-north-1:123456789012:hyper-parameter-tuning-job/tune")
	c.Check(err, check.IsNil)
	c.Check(arn.Kind, check.Equals, KindTuningJob)
	c.Check(arn.Partition, check.Equals, "aws-cn")
}

func (s *ARNSuite) TestParseInvalid(c *check.C) {
	for _, trial := range []struct {
		arn string
		err string
	}{
		{"", `Arn: must match .*`},
		{"arn:aws:s3:::bucket/key", `Arn: must match .*`},
		{"arn:aws:sagemaker:us-east-1:1234:model/m", `Arn: must match .*`},
		{"arn:aws:sagemaker:us-east-1:123456789012:pipeline/p", `Arn: unknown resource type pipeline.*`},
		{"arn:aws:sagemaker:us-east-1:123456789012:training-job/" + strings.Repeat("a", 256), `Arn: length must be at most 256.*`},
	} {
		_, err := ParseARN(trial.arn)
		c.Check(err, check.ErrorMatches, trial.err, check.Commentf("%q", trial.arn))
		c.Check(errors.Is(err, ErrValidation), check.Equals, true)
	}
	// Labeling job ARNs may be longer.
	_, err := ParseARN("arn:aws:sagemaker:us-east-1:123456789012:labeling-job/" + strings.Repeat("a", 256))
	c.Check(err, check.IsNil)
}

func (s *ARNSuite) TestNewARN(c *check.C) {
	for _, kind := range Kinds() {
		arn := NewARN(kind, "eu-west-1", "123456789012", "x")
		parsed, err := ParseARN(arn.String())
		c.Check(err, check.IsNil)
		c.Check(parsed, check.Equals, arn)
	}
}

func (s *ARNSuite) TestKinds(c *check.C) {
	c.Check(Kinds(), check.HasLen, 7)
	for _, kind := range Kinds() {
		c.Check(kind.Known(), check.Equals, true)
		c.Check(kind.MaxNameLength() > 0, check.Equals, true)
		c.Check(kind.HasStatus(), check.Equals, kind != KindModel)
	}
	c.Check(KindTuningJob.MaxNameLength(), check.Equals, 32)
	c.Check(KindTrainingJob.MaxNameLength(), check.Equals, 63)
	c.Check(KindModel.SortKeys(), check.DeepEquals, []SortBy{SortByName, SortByCreationTime})
	c.Check(ResourceKind("pipeline").Known(), check.Equals, false)

	st, err := KindEndpoint.ParseStatus("InService")
	c.Check(err, check.IsNil)
	c.Check(st, check.Equals, EndpointStatusInService)
	_, err = KindModel.ParseStatus("InService")
	c.Check(err, check.ErrorMatches, `model resources have no status`)
}
