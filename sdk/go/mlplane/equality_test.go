// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"math"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&EqualitySuite{})

type EqualitySuite struct{}

func sampleTrainingJob() TrainingJob {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ended := created.Add(time.Hour)
	return TrainingJob{
		Name:            "prod-xgb-1",
		ARN:             NewARN(KindTrainingJob, "us-east-1", "123456789012", "prod-xgb-1").String(),
		Status:          TrainingJobStatusCompleted,
		SecondaryStatus: SecondaryStatusCompleted,
		HyperParameters: map[string]string{"eta": "0.2", "max_depth": "5"},
		AlgorithmSpecification: AlgorithmSpecification{
			TrainingImage:     "example/xgboost:1",
			TrainingInputMode: TrainingInputModeFile,
		},
		InputDataConfig: []Channel{{
			ChannelName: "train",
			DataSource:  DataSource{S3DataSource: &S3DataSource{S3DataType: S3DataTypeS3Prefix, S3URI: "s3://bucket/train/"}},
		}},
		ResourceConfig:  ResourceConfig{InstanceType: "ml.m5.xlarge", InstanceCount: 2, VolumeSizeInGB: 10},
		CreationTime:    created,
		TrainingEndTime: &ended,
		FinalMetricDataList: []MetricData{
			{MetricName: "validation:rmse", Value: 0.25, Timestamp: ended},
		},
	}
}

func (s *EqualitySuite) TestReflexiveAndSymmetric(c *check.C) {
	a, b := sampleTrainingJob(), sampleTrainingJob()
	c.Check(Equal(a, a), check.Equals, true)
	c.Check(Equal(a, b), check.Equals, true)
	c.Check(Equal(b, a), check.Equals, true)
	c.Check(Hash(a), check.Equals, Hash(b))

	b.HyperParameters["eta"] = "0.3"
	c.Check(Equal(a, b), check.Equals, false)
	c.Check(Equal(b, a), check.Equals, false)
}

func (s *EqualitySuite) TestFieldChanges(c *check.C) {
	for _, mutate := range []func(*TrainingJob){
		func(j *TrainingJob) { j.Name = "other" },
		func(j *TrainingJob) { j.Status = TrainingJobStatusFailed },
		func(j *TrainingJob) { j.ResourceConfig.InstanceCount = 3 },
		func(j *TrainingJob) { j.InputDataConfig[0].DataSource.S3DataSource.S3URI = "s3://bucket/other/" },
		func(j *TrainingJob) { j.TrainingEndTime = nil },
		func(j *TrainingJob) { j.FinalMetricDataList[0].Value = 0.5 },
		func(j *TrainingJob) { j.EnableManagedSpotTraining = true },
		func(j *TrainingJob) { delete(j.HyperParameters, "eta") },
	} {
		a, b := sampleTrainingJob(), sampleTrainingJob()
		mutate(&b)
		c.Check(Equal(a, b), check.Equals, false, check.Commentf("%+v", b))
		c.Check(Hash(a) == Hash(b), check.Equals, false, check.Commentf("%+v", b))
	}
}

func (s *EqualitySuite) TestNilVersusEmpty(c *check.C) {
	a := CreateTransformJobRequest{TransformJobName: "t"}
	b := a
	b.Environment = map[string]string{}
	c.Check(Equal(a, b), check.Equals, false)

	a.Tags, b.Environment = []Tag{}, nil
	c.Check(Equal(a, b), check.Equals, false)
	b.Tags = []Tag{}
	c.Check(Equal(a, b), check.Equals, true)
	c.Check(Hash(a), check.Equals, Hash(b))
}

func (s *EqualitySuite) TestTimeZones(c *check.C) {
	a := sampleTrainingJob()
	b := sampleTrainingJob()
	b.CreationTime = b.CreationTime.In(time.FixedZone("EST", -5*3600))
	c.Check(Equal(a, b), check.Equals, true)
	c.Check(Hash(a), check.Equals, Hash(b))
}

func (s *EqualitySuite) TestMapOrder(c *check.C) {
	keys := []string{"a", "b", "c", "d", "e"}
	a := map[string]string{}
	b := map[string]string{}
	for i := range keys {
		a[keys[i]] = "v" + keys[i]
		b[keys[len(keys)-1-i]] = "v" + keys[len(keys)-1-i]
	}
	c.Check(Equal(a, b), check.Equals, true)
	c.Check(Hash(a), check.Equals, Hash(b))
}

func (s *EqualitySuite) TestSliceOrder(c *check.C) {
	a := []Tag{{Key: "a"}, {Key: "b"}}
	b := []Tag{{Key: "b"}, {Key: "a"}}
	c.Check(Equal(a, b), check.Equals, false)
	c.Check(Hash(a) == Hash(b), check.Equals, false)
}

func (s *EqualitySuite) TestTypesDiffer(c *check.C) {
	c.Check(Equal(GetOptions{Name: "x"}, DeleteOptions{Name: "x"}), check.Equals, false)
	c.Check(Equal(nil, nil), check.Equals, true)
	c.Check(Equal(nil, GetOptions{}), check.Equals, false)
	var st1, st2 Status = EndpointStatusFailed, TrainingJobStatusFailed
	c.Check(Equal(st1, st2), check.Equals, false)
}

func (s *EqualitySuite) TestFloatZero(c *check.C) {
	a := MetricData{MetricName: "loss", Value: 0}
	b := MetricData{MetricName: "loss", Value: math.Copysign(0, -1)}
	c.Check(Equal(a, b), check.Equals, true)
	c.Check(Hash(a), check.Equals, Hash(b))
}

func (s *EqualitySuite) TestFloatNaN(c *check.C) {
	a := MetricData{MetricName: "loss", Value: math.NaN()}
	c.Check(Equal(a, a), check.Equals, true)
	b := MetricData{MetricName: "loss", Value: math.Float64frombits(math.Float64bits(math.NaN()) | 1)}
	c.Assert(math.IsNaN(b.Value), check.Equals, true)
	c.Check(Equal(a, b), check.Equals, true)
	c.Check(Equal(b, a), check.Equals, true)
	c.Check(Hash(a), check.Equals, Hash(b))
	c.Check(Equal(a, MetricData{MetricName: "loss", Value: 1}), check.Equals, false)

	job := TrainingJob{Name: "xgb", FinalMetricDataList: []MetricData{a}}
	c.Check(Equal(job, job), check.Equals, true)
	c.Check(Hash(job), check.Equals, Hash(job))
}

func (s *EqualitySuite) TestHashBool(c *check.C) {
	c.Check(Hash(true), check.Equals, uint64(1231))
	c.Check(Hash(false), check.Equals, uint64(1237))
	c.Check(Hash((*TrainingJob)(nil)), check.Equals, uint64(0))
	c.Check(Hash(Tag{}), check.Equals, Hash(Tag{}))
}

func (s *EqualitySuite) TestCloneIndependence(c *check.C) {
	a := sampleTrainingJob()
	b := Clone(a)
	c.Check(Equal(a, b), check.Equals, true)
	b.HyperParameters["eta"] = "1"
	b.InputDataConfig[0].DataSource.S3DataSource.S3URI = "s3://elsewhere/"
	*b.TrainingEndTime = b.TrainingEndTime.Add(time.Minute)
	c.Check(a.HyperParameters["eta"], check.Equals, "0.2")
	c.Check(a.InputDataConfig[0].DataSource.S3DataSource.S3URI, check.Equals, "s3://bucket/train/")
	c.Check(a.TrainingEndTime.Equal(a.CreationTime.Add(time.Hour)), check.Equals, true)
}
