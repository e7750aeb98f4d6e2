// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package sagemaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"git.arvados.org/mlplane.git/sdk/go/mlplanetest"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sagemaker/sagemakeriface"
	check "gopkg.in/check.v1"
)

// Gocheck boilerplate
func Test(t *testing.T) {
	check.TestingT(t)
}

var _ = check.Suite(&BackendSuite{})

// sageMakerStub implements the few SageMaker calls exercised here.
// Any other call panics on the nil embedded interface.
type sageMakerStub struct {
	sagemakeriface.SageMakerAPI
	created   *sagemaker.CreateTrainingJobInput
	listed    *sagemaker.ListTrainingJobsInput
	tagsAdded *sagemaker.AddTagsInput
	jobs      map[string]*sagemaker.DescribeTrainingJobOutput
}

func (sm *sageMakerStub) CreateTrainingJobWithContext(ctx aws.Context, in *sagemaker.CreateTrainingJobInput, opts ...request.Option) (*sagemaker.CreateTrainingJobOutput, error) {
	sm.created = in
	if _, ok := sm.jobs[*in.TrainingJobName]; ok {
		return nil, awserr.New("ResourceInUse", "Training job names must be unique within an AWS account and region", nil)
	}
	return &sagemaker.CreateTrainingJobOutput{
		TrainingJobArn: aws.String("arn:aws:sagemaker:us-east-1:123456789012:training-job/" + *in.TrainingJobName),
	}, nil
}

func (sm *sageMakerStub) DescribeTrainingJobWithContext(ctx aws.Context, in *sagemaker.DescribeTrainingJobInput, opts ...request.Option) (*sagemaker.DescribeTrainingJobOutput, error) {
	job, ok := sm.jobs[*in.TrainingJobName]
	if !ok {
		return nil, awserr.New("ValidationException", "Requested resource not found.", nil)
	}
	return job, nil
}

func (sm *sageMakerStub) ListTrainingJobsWithContext(ctx aws.Context, in *sagemaker.ListTrainingJobsInput, opts ...request.Option) (*sagemaker.ListTrainingJobsOutput, error) {
	sm.listed = in
	return &sagemaker.ListTrainingJobsOutput{
		TrainingJobSummaries: []*sagemaker.TrainingJobSummary{{
			TrainingJobName:   aws.String("prod-xgb-1"),
			TrainingJobArn:    aws.String("arn:aws:sagemaker:us-east-1:123456789012:training-job/prod-xgb-1"),
			TrainingJobStatus: aws.String("Completed"),
			CreationTime:      aws.Time(mlplanetest.Epoch),
		}},
		NextToken: aws.String("page2"),
	}, nil
}

func (sm *sageMakerStub) StopTrainingJobWithContext(ctx aws.Context, in *sagemaker.StopTrainingJobInput, opts ...request.Option) (*sagemaker.StopTrainingJobOutput, error) {
	return nil, awserr.New("ResourceNotFound", "Could not find job to update", nil)
}

func (sm *sageMakerStub) DescribeEndpointWithContext(ctx aws.Context, in *sagemaker.DescribeEndpointInput, opts ...request.Option) (*sagemaker.DescribeEndpointOutput, error) {
	return nil, awserr.New("ValidationException", "Could not find endpoint \""+*in.EndpointName+"\".", nil)
}

func (sm *sageMakerStub) AddTagsWithContext(ctx aws.Context, in *sagemaker.AddTagsInput, opts ...request.Option) (*sagemaker.AddTagsOutput, error) {
	sm.tagsAdded = in
	return &sagemaker.AddTagsOutput{Tags: in.Tags}, nil
}

type BackendSuite struct {
	ctx     context.Context
	stub    *sageMakerStub
	backend *Backend
}

func (s *BackendSuite) SetUpTest(c *check.C) {
	s.ctx = context.Background()
	s.stub = &sageMakerStub{jobs: map[string]*sagemaker.DescribeTrainingJobOutput{
		"xgb-1": {
			TrainingJobName:   aws.String("xgb-1"),
			TrainingJobArn:    aws.String("arn:aws:sagemaker:us-east-1:123456789012:training-job/xgb-1"),
			TrainingJobStatus: aws.String("InProgress"),
			SecondaryStatus:   aws.String("Downloading"),
			HyperParameters:   map[string]*string{"eta": aws.String("0.2")},
			CreationTime:      aws.Time(mlplanetest.Epoch),
			AlgorithmSpecification: &sagemaker.AlgorithmSpecification{
				TrainingImage:     aws.String(mlplanetest.TrainingImage),
				TrainingInputMode: aws.String("File"),
			},
			ResourceConfig: &sagemaker.ResourceConfig{
				InstanceType:   aws.String("ml.m5.xlarge"),
				InstanceCount:  aws.Int64(2),
				VolumeSizeInGB: aws.Int64(10),
			},
		},
	}}
	s.backend = NewWithClient(s.stub, ctxlog.TestLogger(c))
}

func (s *BackendSuite) TestCreate(c *check.C) {
	ref, err := s.backend.TrainingJobCreate(s.ctx, mlplanetest.TrainingJobRequest("xgb-2"))
	c.Assert(err, check.IsNil)
	c.Check(ref, check.Equals, mlplane.ResourceRef{
		Name: "xgb-2",
		ARN:  "arn:aws:sagemaker:us-east-1:123456789012:training-job/xgb-2",
	})
	in := s.stub.created
	c.Assert(in, check.NotNil)
	c.Check(aws.StringValue(in.TrainingJobName), check.Equals, "xgb-2")
	c.Check(aws.StringValue(in.RoleArn), check.Equals, mlplanetest.RoleARN)
	c.Check(aws.StringValue(in.HyperParameters["eta"]), check.Equals, "0.2")
	c.Check(aws.StringValue(in.AlgorithmSpecification.TrainingImage), check.Equals, mlplanetest.TrainingImage)
	c.Check(aws.StringValue(in.AlgorithmSpecification.TrainingInputMode), check.Equals, "File")
	c.Assert(in.InputDataConfig, check.HasLen, 1)
	c.Check(aws.StringValue(in.InputDataConfig[0].DataSource.S3DataSource.S3Uri), check.Equals, "s3://mlplane-test/train/")
	c.Check(aws.Int64Value(in.ResourceConfig.InstanceCount), check.Equals, int64(1))
	c.Check(aws.Int64Value(in.StoppingCondition.MaxRuntimeInSeconds), check.Equals, int64(3600))
	c.Assert(in.Tags, check.HasLen, 1)
	c.Check(aws.StringValue(in.Tags[0].Key), check.Equals, "team")

	_, err = s.backend.TrainingJobCreate(s.ctx, mlplanetest.TrainingJobRequest("xgb-1"))
	c.Check(errors.Is(err, mlplane.ErrConflict), check.Equals, true)
	c.Check(err, check.ErrorMatches, `training-job "xgb-1": Training job names must be unique.*`)
}

func (s *BackendSuite) TestCreateInvalid(c *check.C) {
	req := mlplanetest.TrainingJobRequest("xgb-2")
	req.AlgorithmSpecification.AlgorithmName = "xgboost"
	_, err := s.backend.TrainingJobCreate(s.ctx, req)
	c.Check(errors.Is(err, mlplane.ErrValidation), check.Equals, true)
	c.Check(s.stub.created, check.IsNil)
}

func (s *BackendSuite) TestDescribe(c *check.C) {
	job, err := s.backend.TrainingJobDescribe(s.ctx, mlplane.GetOptions{Name: "xgb-1"})
	c.Assert(err, check.IsNil)
	c.Check(job.Name, check.Equals, "xgb-1")
	c.Check(job.Status, check.Equals, mlplane.TrainingJobStatusInProgress)
	c.Check(job.SecondaryStatus, check.Equals, mlplane.SecondaryStatusDownloading)
	c.Check(job.HyperParameters, check.DeepEquals, map[string]string{"eta": "0.2"})
	c.Check(job.CreationTime.Equal(mlplanetest.Epoch), check.Equals, true)
	c.Check(job.ResourceConfig.InstanceCount, check.Equals, 2)
	src, image := job.AlgorithmSpecification.Source()
	c.Check(src, check.Equals, mlplane.AlgorithmSourceImage)
	c.Check(image, check.Equals, mlplanetest.TrainingImage)

	_, err = s.backend.TrainingJobDescribe(s.ctx, mlplane.GetOptions{Name: "nonexistent"})
	c.Check(errors.Is(err, mlplane.ErrValidation), check.Equals, true)

	_, err = s.backend.EndpointDescribe(s.ctx, mlplane.GetOptions{Name: "ep-1"})
	c.Check(errors.Is(err, mlplane.ErrNotFound), check.Equals, true)
	c.Check(err, check.ErrorMatches, `endpoint "ep-1" not found`)
}

func (s *BackendSuite) TestList(c *check.C) {
	opts, err := mlplane.NewListOptions(mlplane.KindTrainingJob).
		WithNameContains("prod").
		WithCreationTimeWindow(mlplanetest.Epoch.Add(-time.Hour), time.Time{}).
		WithStatusEquals(mlplane.TrainingJobStatusCompleted).
		WithSort(mlplane.SortByName, mlplane.SortOrderAscending).
		WithMaxResults(10).
		Build()
	c.Assert(err, check.IsNil)
	list, err := s.backend.TrainingJobList(s.ctx, opts)
	c.Assert(err, check.IsNil)
	c.Assert(list.Items, check.HasLen, 1)
	c.Check(list.Items[0].Name, check.Equals, "prod-xgb-1")
	c.Check(list.Items[0].Status, check.Equals, mlplane.TrainingJobStatusCompleted)
	c.Check(list.NextToken, check.Equals, "page2")

	in := s.stub.listed
	c.Assert(in, check.NotNil)
	c.Check(aws.StringValue(in.NameContains), check.Equals, "prod")
	c.Check(aws.StringValue(in.StatusEquals), check.Equals, "Completed")
	c.Check(aws.StringValue(in.SortBy), check.Equals, "Name")
	c.Check(aws.StringValue(in.SortOrder), check.Equals, "Ascending")
	c.Check(aws.Int64Value(in.MaxResults), check.Equals, int64(10))
	c.Check(aws.TimeValue(in.CreationTimeAfter).Equal(mlplanetest.Epoch.Add(-time.Hour)), check.Equals, true)
	c.Check(in.CreationTimeBefore, check.IsNil)
}

func (s *BackendSuite) TestStopNotFound(c *check.C) {
	err := s.backend.TrainingJobStop(s.ctx, mlplane.GetOptions{Name: "xgb-9"})
	var nf *mlplane.ResourceNotFoundError
	c.Assert(errors.As(err, &nf), check.Equals, true)
	c.Check(nf.Kind, check.Equals, mlplane.KindTrainingJob)
	c.Check(nf.Name, check.Equals, "xgb-9")
}

func (s *BackendSuite) TestTags(c *check.C) {
	arn := "arn:aws:sagemaker:us-east-1:123456789012:endpoint/ep-1"
	err := s.backend.TagsAdd(s.ctx, mlplane.AddTagsOptions{ResourceARN: arn, Tags: []mlplane.Tag{{Key: "stage", Value: "prod"}}})
	c.Assert(err, check.IsNil)
	c.Assert(s.stub.tagsAdded, check.NotNil)
	c.Check(aws.StringValue(s.stub.tagsAdded.ResourceArn), check.Equals, arn)
	c.Check(aws.StringValue(s.stub.tagsAdded.Tags[0].Value), check.Equals, "prod")

	kind, name := tagTarget(arn)
	c.Check(kind, check.Equals, mlplane.KindEndpoint)
	c.Check(name, check.Equals, "ep-1")
	kind, name = tagTarget("bogus")
	c.Check(kind, check.Equals, mlplane.ResourceKind(""))
	c.Check(name, check.Equals, "bogus")
}
