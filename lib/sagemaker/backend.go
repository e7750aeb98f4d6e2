// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package sagemaker implements mlplane.API on the AWS SageMaker
// control plane.
package sagemaker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sagemaker/sagemakeriface"
	"github.com/sirupsen/logrus"
)

// Backend sends API calls to SageMaker. Requests and responses are
// converted between model and SDK types by way of JSON, which works
// because the model's JSON member names are SageMaker's.
type Backend struct {
	svc    sagemakeriface.SageMakerAPI
	logger logrus.FieldLogger
}

var _ mlplane.API = (*Backend)(nil)

// New returns a Backend for the given region, using the default AWS
// credential chain.
func New(region string, logger logrus.FieldLogger) (*Backend, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:                        aws.String(region),
		CredentialsChainVerboseErrors: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating AWS session: %w", err)
	}
	return NewWithClient(sagemaker.New(sess), logger), nil
}

// NewWithClient returns a Backend that uses svc.
func NewWithClient(svc sagemakeriface.SageMakerAPI, logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = ctxlog.FromContext(context.Background())
	}
	return &Backend{svc: svc, logger: logger}
}

// Copy src to dst, using json as an intermediate format in order to
// invoke src's json-marshaling and dst's json-unmarshaling behaviors.
func transcode(src, dst interface{}) error {
	j, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(j, dst)
}

// convertError turns SageMaker's error codes into model errors.
func convertError(kind mlplane.ResourceKind, name string, err error) error {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return err
	}
	switch aerr.Code() {
	case "ResourceNotFound":
		return &mlplane.ResourceNotFoundError{Kind: kind, Name: name}
	case "ResourceInUse", "ConflictException":
		return &mlplane.ResourceInUseError{Kind: kind, Name: name, Reason: aerr.Message()}
	case "ValidationException":
		// Describe calls report missing resources this way.
		if strings.HasPrefix(aerr.Message(), "Could not find") {
			return &mlplane.ResourceNotFoundError{Kind: kind, Name: name}
		}
		return mlplane.ValidationErrors{&mlplane.ValidationError{Field: string(kind), Constraint: aerr.Message()}}
	}
	return err
}

// call transcodes req (if not nil) into op's input type, calls op,
// and transcodes its output into dst (if not nil).
func call[In any, Out any](ctx context.Context, b *Backend, kind mlplane.ResourceKind, name string, op func(context.Context, *In, ...request.Option) (Out, error), req, dst interface{}) error {
	in := new(In)
	if req != nil {
		if err := transcode(req, in); err != nil {
			return fmt.Errorf("error converting %T to %T: %w", req, in, err)
		}
	}
	out, err := op(ctx, in)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"kind": kind,
			"name": name,
		}).WithError(err).Debugf("%T failed", in)
		return convertError(kind, name, err)
	}
	if dst == nil {
		return nil
	}
	if err := transcode(out, dst); err != nil {
		return fmt.Errorf("error converting %T to %T: %w", out, dst, err)
	}
	return nil
}

// create calls a Create (or Update) operation, whose output holds
// nothing but the resource ARN.
func create[In any, Out any](ctx context.Context, b *Backend, kind mlplane.ResourceKind, name string, op func(context.Context, *In, ...request.Option) (Out, error), req interface{}) (mlplane.ResourceRef, error) {
	var out map[string]string
	err := call(ctx, b, kind, name, op, req, &out)
	if err != nil {
		return mlplane.ResourceRef{}, err
	}
	ref := mlplane.ResourceRef{Name: name}
	for _, arn := range out {
		ref.ARN = arn
	}
	return ref, nil
}

func (b *Backend) TrainingJobCreate(ctx context.Context, req mlplane.CreateTrainingJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindTrainingJob, req.TrainingJobName, b.svc.CreateTrainingJobWithContext, req)
}

func (b *Backend) TrainingJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TrainingJob, error) {
	var resp mlplane.TrainingJob
	if err := mlplane.ValidateName(mlplane.KindTrainingJob, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeTrainingJobInput{TrainingJobName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindTrainingJob, opts.Name, b.svc.DescribeTrainingJobWithContext, in, &resp)
	return resp, err
}

func (b *Backend) TrainingJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.TrainingJobList, error) {
	var resp mlplane.TrainingJobList
	if err := opts.ValidateFor(mlplane.KindTrainingJob); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindTrainingJob, "", b.svc.ListTrainingJobsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) TrainingJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	if err := mlplane.ValidateName(mlplane.KindTrainingJob, opts.Name); err != nil {
		return err
	}
	in := sagemaker.StopTrainingJobInput{TrainingJobName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindTrainingJob, opts.Name, b.svc.StopTrainingJobWithContext, in, nil)
}

func (b *Backend) TuningJobCreate(ctx context.Context, req mlplane.CreateTuningJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindTuningJob, req.TuningJobName, b.svc.CreateHyperParameterTuningJobWithContext, req)
}

func (b *Backend) TuningJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TuningJob, error) {
	var resp mlplane.TuningJob
	if err := mlplane.ValidateName(mlplane.KindTuningJob, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeHyperParameterTuningJobInput{HyperParameterTuningJobName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindTuningJob, opts.Name, b.svc.DescribeHyperParameterTuningJobWithContext, in, &resp)
	return resp, err
}

func (b *Backend) TuningJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.TuningJobList, error) {
	var resp mlplane.TuningJobList
	if err := opts.ValidateFor(mlplane.KindTuningJob); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindTuningJob, "", b.svc.ListHyperParameterTuningJobsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) TuningJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	if err := mlplane.ValidateName(mlplane.KindTuningJob, opts.Name); err != nil {
		return err
	}
	in := sagemaker.StopHyperParameterTuningJobInput{HyperParameterTuningJobName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindTuningJob, opts.Name, b.svc.StopHyperParameterTuningJobWithContext, in, nil)
}

func (b *Backend) LabelingJobCreate(ctx context.Context, req mlplane.CreateLabelingJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindLabelingJob, req.LabelingJobName, b.svc.CreateLabelingJobWithContext, req)
}

func (b *Backend) LabelingJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.LabelingJob, error) {
	var resp mlplane.LabelingJob
	if err := mlplane.ValidateName(mlplane.KindLabelingJob, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeLabelingJobInput{LabelingJobName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindLabelingJob, opts.Name, b.svc.DescribeLabelingJobWithContext, in, &resp)
	return resp, err
}

func (b *Backend) LabelingJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.LabelingJobList, error) {
	var resp mlplane.LabelingJobList
	if err := opts.ValidateFor(mlplane.KindLabelingJob); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindLabelingJob, "", b.svc.ListLabelingJobsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) LabelingJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	if err := mlplane.ValidateName(mlplane.KindLabelingJob, opts.Name); err != nil {
		return err
	}
	in := sagemaker.StopLabelingJobInput{LabelingJobName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindLabelingJob, opts.Name, b.svc.StopLabelingJobWithContext, in, nil)
}

func (b *Backend) TransformJobCreate(ctx context.Context, req mlplane.CreateTransformJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindTransformJob, req.TransformJobName, b.svc.CreateTransformJobWithContext, req)
}

func (b *Backend) TransformJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TransformJob, error) {
	var resp mlplane.TransformJob
	if err := mlplane.ValidateName(mlplane.KindTransformJob, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeTransformJobInput{TransformJobName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindTransformJob, opts.Name, b.svc.DescribeTransformJobWithContext, in, &resp)
	return resp, err
}

func (b *Backend) TransformJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.TransformJobList, error) {
	var resp mlplane.TransformJobList
	if err := opts.ValidateFor(mlplane.KindTransformJob); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindTransformJob, "", b.svc.ListTransformJobsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) TransformJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	if err := mlplane.ValidateName(mlplane.KindTransformJob, opts.Name); err != nil {
		return err
	}
	in := sagemaker.StopTransformJobInput{TransformJobName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindTransformJob, opts.Name, b.svc.StopTransformJobWithContext, in, nil)
}

func (b *Backend) EndpointCreate(ctx context.Context, req mlplane.CreateEndpointRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindEndpoint, req.EndpointName, b.svc.CreateEndpointWithContext, req)
}

func (b *Backend) EndpointDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.Endpoint, error) {
	var resp mlplane.Endpoint
	if err := mlplane.ValidateName(mlplane.KindEndpoint, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeEndpointInput{EndpointName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindEndpoint, opts.Name, b.svc.DescribeEndpointWithContext, in, &resp)
	return resp, err
}

func (b *Backend) EndpointList(ctx context.Context, opts mlplane.ListOptions) (mlplane.EndpointList, error) {
	var resp mlplane.EndpointList
	if err := opts.ValidateFor(mlplane.KindEndpoint); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindEndpoint, "", b.svc.ListEndpointsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) EndpointUpdate(ctx context.Context, req mlplane.UpdateEndpointRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindEndpoint, req.EndpointName, b.svc.UpdateEndpointWithContext, req)
}

func (b *Backend) EndpointDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	if err := mlplane.ValidateName(mlplane.KindEndpoint, opts.Name); err != nil {
		return err
	}
	in := sagemaker.DeleteEndpointInput{EndpointName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindEndpoint, opts.Name, b.svc.DeleteEndpointWithContext, in, nil)
}

func (b *Backend) NotebookInstanceCreate(ctx context.Context, req mlplane.CreateNotebookInstanceRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindNotebookInstance, req.NotebookInstanceName, b.svc.CreateNotebookInstanceWithContext, req)
}

func (b *Backend) NotebookInstanceDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.NotebookInstance, error) {
	var resp mlplane.NotebookInstance
	if err := mlplane.ValidateName(mlplane.KindNotebookInstance, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeNotebookInstanceInput{NotebookInstanceName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindNotebookInstance, opts.Name, b.svc.DescribeNotebookInstanceWithContext, in, &resp)
	return resp, err
}

func (b *Backend) NotebookInstanceList(ctx context.Context, opts mlplane.ListOptions) (mlplane.NotebookInstanceList, error) {
	var resp mlplane.NotebookInstanceList
	if err := opts.ValidateFor(mlplane.KindNotebookInstance); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindNotebookInstance, "", b.svc.ListNotebookInstancesWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) NotebookInstanceUpdate(ctx context.Context, req mlplane.UpdateNotebookInstanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return call(ctx, b, mlplane.KindNotebookInstance, req.NotebookInstanceName, b.svc.UpdateNotebookInstanceWithContext, req, nil)
}

func (b *Backend) NotebookInstanceStart(ctx context.Context, opts mlplane.GetOptions) error {
	if err := mlplane.ValidateName(mlplane.KindNotebookInstance, opts.Name); err != nil {
		return err
	}
	in := sagemaker.StartNotebookInstanceInput{NotebookInstanceName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindNotebookInstance, opts.Name, b.svc.StartNotebookInstanceWithContext, in, nil)
}

func (b *Backend) NotebookInstanceStop(ctx context.Context, opts mlplane.GetOptions) error {
	if err := mlplane.ValidateName(mlplane.KindNotebookInstance, opts.Name); err != nil {
		return err
	}
	in := sagemaker.StopNotebookInstanceInput{NotebookInstanceName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindNotebookInstance, opts.Name, b.svc.StopNotebookInstanceWithContext, in, nil)
}

func (b *Backend) NotebookInstanceDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	if err := mlplane.ValidateName(mlplane.KindNotebookInstance, opts.Name); err != nil {
		return err
	}
	in := sagemaker.DeleteNotebookInstanceInput{NotebookInstanceName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindNotebookInstance, opts.Name, b.svc.DeleteNotebookInstanceWithContext, in, nil)
}

func (b *Backend) ModelCreate(ctx context.Context, req mlplane.CreateModelRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return create(ctx, b, mlplane.KindModel, req.ModelName, b.svc.CreateModelWithContext, req)
}

func (b *Backend) ModelDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.Model, error) {
	var resp mlplane.Model
	if err := mlplane.ValidateName(mlplane.KindModel, opts.Name); err != nil {
		return resp, err
	}
	in := sagemaker.DescribeModelInput{ModelName: aws.String(opts.Name)}
	err := call(ctx, b, mlplane.KindModel, opts.Name, b.svc.DescribeModelWithContext, in, &resp)
	return resp, err
}

func (b *Backend) ModelList(ctx context.Context, opts mlplane.ListOptions) (mlplane.ModelList, error) {
	var resp mlplane.ModelList
	if err := opts.ValidateFor(mlplane.KindModel); err != nil {
		return resp, err
	}
	err := call(ctx, b, mlplane.KindModel, "", b.svc.ListModelsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) ModelDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	if err := mlplane.ValidateName(mlplane.KindModel, opts.Name); err != nil {
		return err
	}
	in := sagemaker.DeleteModelInput{ModelName: aws.String(opts.Name)}
	return call(ctx, b, mlplane.KindModel, opts.Name, b.svc.DeleteModelWithContext, in, nil)
}

// tagTarget returns the kind and name of the resource an ARN refers
// to, for error reporting.
func tagTarget(arn string) (mlplane.ResourceKind, string) {
	parsed, err := mlplane.ParseARN(arn)
	if err != nil {
		return "", arn
	}
	return parsed.Kind, parsed.Name
}

func (b *Backend) TagsAdd(ctx context.Context, opts mlplane.AddTagsOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	kind, name := tagTarget(opts.ResourceARN)
	return call(ctx, b, kind, name, b.svc.AddTagsWithContext, opts, nil)
}

func (b *Backend) TagsList(ctx context.Context, opts mlplane.ListTagsOptions) (mlplane.TagList, error) {
	var resp mlplane.TagList
	if err := opts.Validate(); err != nil {
		return resp, err
	}
	kind, name := tagTarget(opts.ResourceARN)
	err := call(ctx, b, kind, name, b.svc.ListTagsWithContext, opts, &resp)
	return resp, err
}

func (b *Backend) TagsDelete(ctx context.Context, opts mlplane.DeleteTagsOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	kind, name := tagTarget(opts.ResourceARN)
	return call(ctx, b, kind, name, b.svc.DeleteTagsWithContext, opts, nil)
}
