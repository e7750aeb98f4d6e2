// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// TransformDataSource locates the input of a transform job.
type TransformDataSource struct {
	S3DataSource S3DataSource `json:"S3DataSource"`
}

// TransformInput is the input of a transform job.
type TransformInput struct {
	DataSource      TransformDataSource `json:"DataSource"`
	ContentType     string              `json:"ContentType,omitempty"`
	CompressionType CompressionType     `json:"CompressionType,omitempty"`
	SplitType       string              `json:"SplitType,omitempty"`
}

func (in TransformInput) check(v *validator, path string) {
	in.DataSource.S3DataSource.check(v, join(path, "DataSource.S3DataSource"))
	v.length(join(path, "ContentType"), in.ContentType, 0, 256)
	checkEnum(v, join(path, "CompressionType"), compressionTypes, in.CompressionType)
}

// TransformOutput says where a transform job writes its results.
type TransformOutput struct {
	S3OutputPath string `json:"S3OutputPath"`
	Accept       string `json:"Accept,omitempty"`
	AssembleWith string `json:"AssembleWith,omitempty"`
	KmsKeyID     string `json:"KmsKeyId,omitempty"`
}

func (out TransformOutput) check(v *validator, path string) {
	if v.required(join(path, "S3OutputPath"), out.S3OutputPath) {
		v.s3URI(join(path, "S3OutputPath"), out.S3OutputPath)
	}
	v.length(join(path, "Accept"), out.Accept, 0, 256)
	v.kmsKeyID(join(path, "KmsKeyId"), out.KmsKeyID)
}

// TransformResources describes the compute resources of a transform
// job.
type TransformResources struct {
	InstanceType   string `json:"InstanceType"`
	InstanceCount  int    `json:"InstanceCount"`
	VolumeKmsKeyID string `json:"VolumeKmsKeyId,omitempty"`
}

func (tr TransformResources) check(v *validator, path string) {
	if v.required(join(path, "InstanceType"), tr.InstanceType) {
		v.pattern(join(path, "InstanceType"), tr.InstanceType, instanceTypeRegexp)
	}
	v.intMin(join(path, "InstanceCount"), int64(tr.InstanceCount), 1)
	v.kmsKeyID(join(path, "VolumeKmsKeyId"), tr.VolumeKmsKeyID)
}

// CreateTransformJobRequest starts a batch transform job.
type CreateTransformJobRequest struct {
	TransformJobName        string             `json:"TransformJobName"`
	ModelName               string             `json:"ModelName"`
	MaxConcurrentTransforms int                `json:"MaxConcurrentTransforms,omitempty"`
	MaxPayloadInMB          int                `json:"MaxPayloadInMB,omitempty"`
	BatchStrategy           BatchStrategy      `json:"BatchStrategy,omitempty"`
	Environment             map[string]string  `json:"Environment,omitempty"`
	TransformInput          TransformInput     `json:"TransformInput"`
	TransformOutput         TransformOutput    `json:"TransformOutput"`
	TransformResources      TransformResources `json:"TransformResources"`
	Tags                    []Tag              `json:"Tags,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateTransformJobRequest) Validate() error { return validate(r) }

func (r CreateTransformJobRequest) check(v *validator, path string) {
	v.name(join(path, "TransformJobName"), r.TransformJobName, KindTransformJob.MaxNameLength())
	v.name(join(path, "ModelName"), r.ModelName, KindModel.MaxNameLength())
	v.intMin(join(path, "MaxConcurrentTransforms"), int64(r.MaxConcurrentTransforms), 0)
	v.intRange(join(path, "MaxPayloadInMB"), int64(r.MaxPayloadInMB), 0, 100)
	checkEnum(v, join(path, "BatchStrategy"), batchStrategies, r.BatchStrategy)
	if len(r.Environment) > 16 {
		v.fail(join(path, "Environment"), "must have at most 16 entries", len(r.Environment))
	}
	v.checkMap(join(path, "Environment"), r.Environment, 1024, 10240, envKeyRegexp)
	r.TransformInput.check(v, join(path, "TransformInput"))
	r.TransformOutput.check(v, join(path, "TransformOutput"))
	r.TransformResources.check(v, join(path, "TransformResources"))
	checkTags(v, join(path, "Tags"), r.Tags)
}

// CreateTransformJobBuilder builds a CreateTransformJobRequest.
type CreateTransformJobBuilder struct {
	req  CreateTransformJobRequest
	errs entryErrors
}

func NewCreateTransformJobBuilder(name string) *CreateTransformJobBuilder {
	return &CreateTransformJobBuilder{req: CreateTransformJobRequest{TransformJobName: name}}
}

func (b *CreateTransformJobBuilder) WithModelName(name string) *CreateTransformJobBuilder {
	b.req.ModelName = name
	return b
}

func (b *CreateTransformJobBuilder) WithMaxConcurrentTransforms(n int) *CreateTransformJobBuilder {
	b.req.MaxConcurrentTransforms = n
	return b
}

func (b *CreateTransformJobBuilder) WithMaxPayloadInMB(n int) *CreateTransformJobBuilder {
	b.req.MaxPayloadInMB = n
	return b
}

func (b *CreateTransformJobBuilder) WithBatchStrategy(s BatchStrategy) *CreateTransformJobBuilder {
	b.req.BatchStrategy = s
	return b
}

// WithEnvironment replaces the environment variables.
func (b *CreateTransformJobBuilder) WithEnvironment(env map[string]string) *CreateTransformJobBuilder {
	b.req.Environment = env
	b.errs.forget("Environment")
	return b
}

// AddEnvironmentEntry adds one environment variable, recording a
// DuplicateKeyError if it is already set.
func (b *CreateTransformJobBuilder) AddEnvironmentEntry(key, value string) *CreateTransformJobBuilder {
	b.errs.record("Environment", addEntry("Environment", &b.req.Environment, key, value))
	return b
}

// ClearEnvironmentEntries unsets the environment variables.
func (b *CreateTransformJobBuilder) ClearEnvironmentEntries() *CreateTransformJobBuilder {
	b.req.Environment = nil
	b.errs.forget("Environment")
	return b
}

func (b *CreateTransformJobBuilder) WithInput(in TransformInput) *CreateTransformJobBuilder {
	b.req.TransformInput = in
	return b
}

func (b *CreateTransformJobBuilder) WithOutput(out TransformOutput) *CreateTransformJobBuilder {
	b.req.TransformOutput = out
	return b
}

func (b *CreateTransformJobBuilder) WithResources(tr TransformResources) *CreateTransformJobBuilder {
	b.req.TransformResources = tr
	return b
}

func (b *CreateTransformJobBuilder) WithTags(tags ...Tag) *CreateTransformJobBuilder {
	b.req.Tags = tags
	return b
}

// Build returns a copy of the request, or a ValidationErrors.
func (b *CreateTransformJobBuilder) Build() (CreateTransformJobRequest, error) {
	return build(b.req, b.errs.flatten())
}

// TransformJob is the result of describing a transform job.
type TransformJob struct {
	Name                    string             `json:"TransformJobName"`
	ARN                     string             `json:"TransformJobArn"`
	Status                  TransformJobStatus `json:"TransformJobStatus"`
	FailureReason           string             `json:"FailureReason,omitempty"`
	ModelName               string             `json:"ModelName"`
	MaxConcurrentTransforms int                `json:"MaxConcurrentTransforms,omitempty"`
	MaxPayloadInMB          int                `json:"MaxPayloadInMB,omitempty"`
	BatchStrategy           BatchStrategy      `json:"BatchStrategy,omitempty"`
	Environment             map[string]string  `json:"Environment,omitempty"`
	TransformInput          TransformInput     `json:"TransformInput"`
	TransformOutput         *TransformOutput   `json:"TransformOutput,omitempty"`
	TransformResources      TransformResources `json:"TransformResources"`
	CreationTime            time.Time          `json:"CreationTime"`
	TransformStartTime      *time.Time         `json:"TransformStartTime,omitempty"`
	TransformEndTime        *time.Time         `json:"TransformEndTime,omitempty"`
	LabelingJobARN          string             `json:"LabelingJobArn,omitempty"`
}

func (j TransformJob) ResourceKind() ResourceKind { return KindTransformJob }
func (j TransformJob) ResourceName() string       { return j.Name }
func (j TransformJob) ResourceARN() string        { return j.ARN }
func (j TransformJob) CreatedAt() time.Time       { return j.CreationTime }
func (j TransformJob) ResourceStatus() Status     { return j.Status }

// ModifiedAt returns the end time, or the start time if the job has
// not ended: transform jobs report no modification time.
func (j TransformJob) ModifiedAt() time.Time {
	if j.TransformEndTime != nil {
		return *j.TransformEndTime
	}
	return timeOrZero(j.TransformStartTime)
}

// Summary returns the list projection of j.
func (j TransformJob) Summary() TransformJobSummary {
	var lastModified *time.Time
	if t := j.ModifiedAt(); !t.IsZero() {
		lastModified = &t
	}
	return TransformJobSummary{
		Name:             j.Name,
		ARN:              j.ARN,
		CreationTime:     j.CreationTime,
		TransformEndTime: j.TransformEndTime,
		LastModifiedTime: lastModified,
		Status:           j.Status,
		FailureReason:    j.FailureReason,
	}
}

// TransformJobSummary is a transform job as returned by List.
type TransformJobSummary struct {
	Name             string             `json:"TransformJobName"`
	ARN              string             `json:"TransformJobArn"`
	CreationTime     time.Time          `json:"CreationTime"`
	TransformEndTime *time.Time         `json:"TransformEndTime,omitempty"`
	LastModifiedTime *time.Time         `json:"LastModifiedTime,omitempty"`
	Status           TransformJobStatus `json:"TransformJobStatus"`
	FailureReason    string             `json:"FailureReason,omitempty"`
}

func (s TransformJobSummary) ResourceKind() ResourceKind { return KindTransformJob }
func (s TransformJobSummary) ResourceName() string       { return s.Name }
func (s TransformJobSummary) ResourceARN() string        { return s.ARN }
func (s TransformJobSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s TransformJobSummary) ModifiedAt() time.Time      { return timeOrZero(s.LastModifiedTime) }
func (s TransformJobSummary) ResourceStatus() Status     { return s.Status }

// TransformJobList is a page of transform job summaries.
type TransformJobList struct {
	Items     []TransformJobSummary `json:"TransformJobSummaries"`
	NextToken string                `json:"NextToken,omitempty"`
}

func (l TransformJobList) PageItems() []TransformJobSummary { return l.Items }
func (l TransformJobList) PageToken() string                { return l.NextToken }
