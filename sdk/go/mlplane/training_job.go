// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// CreateTrainingJobRequest starts a training job.
type CreateTrainingJobRequest struct {
	TrainingJobName                       string                 `json:"TrainingJobName"`
	HyperParameters                       map[string]string      `json:"HyperParameters,omitempty"`
	AlgorithmSpecification                AlgorithmSpecification `json:"AlgorithmSpecification"`
	RoleARN                               string                 `json:"RoleArn"`
	InputDataConfig                       []Channel              `json:"InputDataConfig,omitempty"`
	OutputDataConfig                      OutputDataConfig       `json:"OutputDataConfig"`
	ResourceConfig                        ResourceConfig         `json:"ResourceConfig"`
	VpcConfig                             *VpcConfig             `json:"VpcConfig,omitempty"`
	StoppingCondition                     StoppingCondition      `json:"StoppingCondition"`
	Tags                                  []Tag                  `json:"Tags,omitempty"`
	EnableNetworkIsolation                bool                   `json:"EnableNetworkIsolation,omitempty"`
	EnableInterContainerTrafficEncryption bool                   `json:"EnableInterContainerTrafficEncryption,omitempty"`
	EnableManagedSpotTraining             bool                   `json:"EnableManagedSpotTraining,omitempty"`
	CheckpointConfig                      *CheckpointConfig      `json:"CheckpointConfig,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateTrainingJobRequest) Validate() error { return validate(r) }

func (r CreateTrainingJobRequest) check(v *validator, path string) {
	v.name(join(path, "TrainingJobName"), r.TrainingJobName, KindTrainingJob.MaxNameLength())
	checkHyperParameters(v, join(path, "HyperParameters"), r.HyperParameters)
	r.AlgorithmSpecification.check(v, join(path, "AlgorithmSpecification"))
	v.roleARN(join(path, "RoleArn"), r.RoleARN)
	v.listLen(join(path, "InputDataConfig"), len(r.InputDataConfig), 0, 20)
	checkEach(v, join(path, "InputDataConfig"), r.InputDataConfig)
	r.OutputDataConfig.check(v, join(path, "OutputDataConfig"))
	r.ResourceConfig.check(v, join(path, "ResourceConfig"))
	if r.VpcConfig != nil {
		r.VpcConfig.check(v, join(path, "VpcConfig"))
	}
	r.StoppingCondition.check(v, join(path, "StoppingCondition"))
	if r.StoppingCondition.MaxWaitTimeInSeconds != 0 && !r.EnableManagedSpotTraining {
		v.fail(join(path, "StoppingCondition.MaxWaitTimeInSeconds"), "requires EnableManagedSpotTraining", r.StoppingCondition.MaxWaitTimeInSeconds)
	}
	checkTags(v, join(path, "Tags"), r.Tags)
	if r.CheckpointConfig != nil {
		r.CheckpointConfig.check(v, join(path, "CheckpointConfig"))
	}
}

func checkHyperParameters(v *validator, field string, hp map[string]string) {
	if len(hp) > 100 {
		v.fail(field, "must have at most 100 entries", len(hp))
	}
	v.checkMap(field, hp, 256, 2500, nil)
}

// CreateTrainingJobBuilder builds a CreateTrainingJobRequest.
type CreateTrainingJobBuilder struct {
	req  CreateTrainingJobRequest
	errs entryErrors
}

func NewCreateTrainingJobBuilder(name string) *CreateTrainingJobBuilder {
	return &CreateTrainingJobBuilder{req: CreateTrainingJobRequest{TrainingJobName: name}}
}

// WithHyperParameters replaces all hyperparameters.
func (b *CreateTrainingJobBuilder) WithHyperParameters(hp map[string]string) *CreateTrainingJobBuilder {
	b.req.HyperParameters = hp
	b.errs.forget("HyperParameters")
	return b
}

// AddHyperParametersEntry adds one hyperparameter. If key is already
// set, the existing value is kept and Build will return a
// DuplicateKeyError.
func (b *CreateTrainingJobBuilder) AddHyperParametersEntry(key, value string) *CreateTrainingJobBuilder {
	b.errs.record("HyperParameters", addEntry("HyperParameters", &b.req.HyperParameters, key, value))
	return b
}

// ClearHyperParametersEntries unsets the hyperparameters.
func (b *CreateTrainingJobBuilder) ClearHyperParametersEntries() *CreateTrainingJobBuilder {
	b.req.HyperParameters = nil
	b.errs.forget("HyperParameters")
	return b
}

func (b *CreateTrainingJobBuilder) WithAlgorithmSpecification(as AlgorithmSpecification) *CreateTrainingJobBuilder {
	b.req.AlgorithmSpecification = as
	return b
}

func (b *CreateTrainingJobBuilder) WithRoleARN(arn string) *CreateTrainingJobBuilder {
	b.req.RoleARN = arn
	return b
}

// WithInputDataConfig replaces the input channels.
func (b *CreateTrainingJobBuilder) WithInputDataConfig(channels ...Channel) *CreateTrainingJobBuilder {
	b.req.InputDataConfig = channels
	return b
}

// AddChannel appends one input channel.
func (b *CreateTrainingJobBuilder) AddChannel(c Channel) *CreateTrainingJobBuilder {
	b.req.InputDataConfig = append(b.req.InputDataConfig, c)
	return b
}

func (b *CreateTrainingJobBuilder) WithOutputDataConfig(oc OutputDataConfig) *CreateTrainingJobBuilder {
	b.req.OutputDataConfig = oc
	return b
}

func (b *CreateTrainingJobBuilder) WithResourceConfig(rc ResourceConfig) *CreateTrainingJobBuilder {
	b.req.ResourceConfig = rc
	return b
}

func (b *CreateTrainingJobBuilder) WithVpcConfig(vc VpcConfig) *CreateTrainingJobBuilder {
	b.req.VpcConfig = &vc
	return b
}

func (b *CreateTrainingJobBuilder) WithStoppingCondition(sc StoppingCondition) *CreateTrainingJobBuilder {
	b.req.StoppingCondition = sc
	return b
}

func (b *CreateTrainingJobBuilder) WithTags(tags ...Tag) *CreateTrainingJobBuilder {
	b.req.Tags = tags
	return b
}

func (b *CreateTrainingJobBuilder) WithNetworkIsolation(enable bool) *CreateTrainingJobBuilder {
	b.req.EnableNetworkIsolation = enable
	return b
}

func (b *CreateTrainingJobBuilder) WithInterContainerTrafficEncryption(enable bool) *CreateTrainingJobBuilder {
	b.req.EnableInterContainerTrafficEncryption = enable
	return b
}

func (b *CreateTrainingJobBuilder) WithManagedSpotTraining(enable bool) *CreateTrainingJobBuilder {
	b.req.EnableManagedSpotTraining = enable
	return b
}

func (b *CreateTrainingJobBuilder) WithCheckpointConfig(cc CheckpointConfig) *CreateTrainingJobBuilder {
	b.req.CheckpointConfig = &cc
	return b
}

// Build returns a copy of the request, or a ValidationErrors listing
// every violation and duplicate key.
func (b *CreateTrainingJobBuilder) Build() (CreateTrainingJobRequest, error) {
	return build(b.req, b.errs.flatten())
}

// SecondaryStatusTransition is one entry in a training job's history
// of secondary statuses.
type SecondaryStatusTransition struct {
	Status        SecondaryStatus `json:"Status"`
	StartTime     time.Time       `json:"StartTime"`
	EndTime       *time.Time      `json:"EndTime,omitempty"`
	StatusMessage string          `json:"StatusMessage,omitempty"`
}

// MetricData is the final value of a metric emitted by a training job.
type MetricData struct {
	MetricName string    `json:"MetricName"`
	Value      float64   `json:"Value"`
	Timestamp  time.Time `json:"Timestamp"`
}

// TrainingJob is the result of describing a training job.
type TrainingJob struct {
	Name                       string                      `json:"TrainingJobName"`
	ARN                        string                      `json:"TrainingJobArn"`
	TuningJobARN               string                      `json:"TuningJobArn,omitempty"`
	LabelingJobARN             string                      `json:"LabelingJobArn,omitempty"`
	ModelArtifacts             ModelArtifacts              `json:"ModelArtifacts"`
	Status                     TrainingJobStatus           `json:"TrainingJobStatus"`
	SecondaryStatus            SecondaryStatus             `json:"SecondaryStatus"`
	FailureReason              string                      `json:"FailureReason,omitempty"`
	HyperParameters            map[string]string           `json:"HyperParameters,omitempty"`
	AlgorithmSpecification     AlgorithmSpecification      `json:"AlgorithmSpecification"`
	RoleARN                    string                      `json:"RoleArn,omitempty"`
	InputDataConfig            []Channel                   `json:"InputDataConfig,omitempty"`
	OutputDataConfig           *OutputDataConfig           `json:"OutputDataConfig,omitempty"`
	ResourceConfig             ResourceConfig              `json:"ResourceConfig"`
	VpcConfig                  *VpcConfig                  `json:"VpcConfig,omitempty"`
	StoppingCondition          StoppingCondition           `json:"StoppingCondition"`
	CreationTime               time.Time                   `json:"CreationTime"`
	TrainingStartTime          *time.Time                  `json:"TrainingStartTime,omitempty"`
	TrainingEndTime            *time.Time                  `json:"TrainingEndTime,omitempty"`
	LastModifiedTime           *time.Time                  `json:"LastModifiedTime,omitempty"`
	SecondaryStatusTransitions []SecondaryStatusTransition `json:"SecondaryStatusTransitions,omitempty"`
	FinalMetricDataList        []MetricData                `json:"FinalMetricDataList,omitempty"`
	EnableNetworkIsolation     bool                        `json:"EnableNetworkIsolation,omitempty"`
	EnableManagedSpotTraining  bool                        `json:"EnableManagedSpotTraining,omitempty"`
	CheckpointConfig           *CheckpointConfig           `json:"CheckpointConfig,omitempty"`
	TrainingTimeInSeconds      int                         `json:"TrainingTimeInSeconds,omitempty"`
	BillableTimeInSeconds      int                         `json:"BillableTimeInSeconds,omitempty"`
}

func (j TrainingJob) ResourceKind() ResourceKind { return KindTrainingJob }
func (j TrainingJob) ResourceName() string       { return j.Name }
func (j TrainingJob) ResourceARN() string        { return j.ARN }
func (j TrainingJob) CreatedAt() time.Time       { return j.CreationTime }
func (j TrainingJob) ModifiedAt() time.Time      { return timeOrZero(j.LastModifiedTime) }
func (j TrainingJob) ResourceStatus() Status     { return j.Status }

// Summary returns the list projection of j.
func (j TrainingJob) Summary() TrainingJobSummary {
	return TrainingJobSummary{
		Name:             j.Name,
		ARN:              j.ARN,
		CreationTime:     j.CreationTime,
		TrainingEndTime:  j.TrainingEndTime,
		LastModifiedTime: j.LastModifiedTime,
		Status:           j.Status,
	}
}

// TrainingJobSummary is a training job as returned by List.
type TrainingJobSummary struct {
	Name             string            `json:"TrainingJobName"`
	ARN              string            `json:"TrainingJobArn"`
	CreationTime     time.Time         `json:"CreationTime"`
	TrainingEndTime  *time.Time        `json:"TrainingEndTime,omitempty"`
	LastModifiedTime *time.Time        `json:"LastModifiedTime,omitempty"`
	Status           TrainingJobStatus `json:"TrainingJobStatus"`
}

func (s TrainingJobSummary) ResourceKind() ResourceKind { return KindTrainingJob }
func (s TrainingJobSummary) ResourceName() string       { return s.Name }
func (s TrainingJobSummary) ResourceARN() string        { return s.ARN }
func (s TrainingJobSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s TrainingJobSummary) ModifiedAt() time.Time      { return timeOrZero(s.LastModifiedTime) }
func (s TrainingJobSummary) ResourceStatus() Status     { return s.Status }

// TrainingJobList is a page of training job summaries.
type TrainingJobList struct {
	Items     []TrainingJobSummary `json:"TrainingJobSummaries"`
	NextToken string               `json:"NextToken,omitempty"`
}

func (l TrainingJobList) PageItems() []TrainingJobSummary { return l.Items }
func (l TrainingJobList) PageToken() string               { return l.NextToken }
