// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// LabelingJobS3DataSource is the manifest listing the objects to
// label.
type LabelingJobS3DataSource struct {
	ManifestS3URI string `json:"ManifestS3Uri"`
}

// LabelingJobDataSource locates the input of a labeling job.
type LabelingJobDataSource struct {
	S3DataSource LabelingJobS3DataSource `json:"S3DataSource"`
}

// LabelingJobInputConfig is the input of a labeling job.
type LabelingJobInputConfig struct {
	DataSource LabelingJobDataSource `json:"DataSource"`
}

func (c LabelingJobInputConfig) check(v *validator, path string) {
	field := join(path, "DataSource.S3DataSource.ManifestS3Uri")
	if v.required(field, c.DataSource.S3DataSource.ManifestS3URI) {
		v.s3URI(field, c.DataSource.S3DataSource.ManifestS3URI)
	}
}

// LabelingJobOutputConfig says where a labeling job writes its output.
type LabelingJobOutputConfig struct {
	S3OutputPath string `json:"S3OutputPath"`
	KmsKeyID     string `json:"KmsKeyId,omitempty"`
}

func (c LabelingJobOutputConfig) check(v *validator, path string) {
	if v.required(join(path, "S3OutputPath"), c.S3OutputPath) {
		v.s3URI(join(path, "S3OutputPath"), c.S3OutputPath)
	}
	v.kmsKeyID(join(path, "KmsKeyId"), c.KmsKeyID)
}

// LabelingJobStoppingConditions stop a labeling job once enough
// objects are labeled.
type LabelingJobStoppingConditions struct {
	MaxHumanLabeledObjectCount        int `json:"MaxHumanLabeledObjectCount,omitempty"`
	MaxPercentageOfInputDatasetLabeled int `json:"MaxPercentageOfInputDatasetLabeled,omitempty"`
}

func (c LabelingJobStoppingConditions) check(v *validator, path string) {
	if c.MaxHumanLabeledObjectCount != 0 {
		v.intMin(join(path, "MaxHumanLabeledObjectCount"), int64(c.MaxHumanLabeledObjectCount), 1)
	}
	if c.MaxPercentageOfInputDatasetLabeled != 0 {
		v.intRange(join(path, "MaxPercentageOfInputDatasetLabeled"), int64(c.MaxPercentageOfInputDatasetLabeled), 1, 100)
	}
}

// UiConfig locates the worker task template.
type UiConfig struct {
	UiTemplateS3URI string `json:"UiTemplateS3Uri"`
}

// AnnotationConsolidationConfig names the function that combines the
// annotations of several workers.
type AnnotationConsolidationConfig struct {
	AnnotationConsolidationLambdaARN string `json:"AnnotationConsolidationLambdaArn"`
}

// HumanTaskConfig describes the work given to human labelers.
type HumanTaskConfig struct {
	WorkteamARN                       string                        `json:"WorkteamArn"`
	UiConfig                          UiConfig                      `json:"UiConfig"`
	PreHumanTaskLambdaARN             string                        `json:"PreHumanTaskLambdaArn"`
	TaskKeywords                      []string                      `json:"TaskKeywords,omitempty"`
	TaskTitle                         string                        `json:"TaskTitle"`
	TaskDescription                   string                        `json:"TaskDescription"`
	NumberOfHumanWorkersPerDataObject int                           `json:"NumberOfHumanWorkersPerDataObject"`
	TaskTimeLimitInSeconds            int                           `json:"TaskTimeLimitInSeconds"`
	TaskAvailabilityLifetimeInSeconds int                           `json:"TaskAvailabilityLifetimeInSeconds,omitempty"`
	MaxConcurrentTaskCount            int                           `json:"MaxConcurrentTaskCount,omitempty"`
	AnnotationConsolidationConfig     AnnotationConsolidationConfig `json:"AnnotationConsolidationConfig"`
}

func (c HumanTaskConfig) check(v *validator, path string) {
	if v.required(join(path, "WorkteamArn"), c.WorkteamARN) {
		v.length(join(path, "WorkteamArn"), c.WorkteamARN, 0, 256)
		v.pattern(join(path, "WorkteamArn"), c.WorkteamARN, workteamARNRegexp)
	}
	if v.required(join(path, "UiConfig.UiTemplateS3Uri"), c.UiConfig.UiTemplateS3URI) {
		v.s3URI(join(path, "UiConfig.UiTemplateS3Uri"), c.UiConfig.UiTemplateS3URI)
	}
	if v.required(join(path, "PreHumanTaskLambdaArn"), c.PreHumanTaskLambdaARN) {
		v.length(join(path, "PreHumanTaskLambdaArn"), c.PreHumanTaskLambdaARN, 0, 2048)
		v.pattern(join(path, "PreHumanTaskLambdaArn"), c.PreHumanTaskLambdaARN, lambdaARNRegexp)
	}
	v.listLen(join(path, "TaskKeywords"), len(c.TaskKeywords), 0, 5)
	for _, kw := range c.TaskKeywords {
		v.length(join(path, "TaskKeywords"), kw, 1, 30)
	}
	if v.required(join(path, "TaskTitle"), c.TaskTitle) {
		v.length(join(path, "TaskTitle"), c.TaskTitle, 1, 128)
	}
	if v.required(join(path, "TaskDescription"), c.TaskDescription) {
		v.length(join(path, "TaskDescription"), c.TaskDescription, 1, 255)
	}
	v.intRange(join(path, "NumberOfHumanWorkersPerDataObject"), int64(c.NumberOfHumanWorkersPerDataObject), 1, 9)
	v.intRange(join(path, "TaskTimeLimitInSeconds"), int64(c.TaskTimeLimitInSeconds), 30, 28800)
	if c.TaskAvailabilityLifetimeInSeconds != 0 {
		v.intRange(join(path, "TaskAvailabilityLifetimeInSeconds"), int64(c.TaskAvailabilityLifetimeInSeconds), 60, 864000)
	}
	if c.MaxConcurrentTaskCount != 0 {
		v.intRange(join(path, "MaxConcurrentTaskCount"), int64(c.MaxConcurrentTaskCount), 1, 1000)
	}
	field := join(path, "AnnotationConsolidationConfig.AnnotationConsolidationLambdaArn")
	if v.required(field, c.AnnotationConsolidationConfig.AnnotationConsolidationLambdaARN) {
		v.length(field, c.AnnotationConsolidationConfig.AnnotationConsolidationLambdaARN, 0, 2048)
		v.pattern(field, c.AnnotationConsolidationConfig.AnnotationConsolidationLambdaARN, lambdaARNRegexp)
	}
}

// CreateLabelingJobRequest starts a labeling job.
type CreateLabelingJobRequest struct {
	LabelingJobName          string                         `json:"LabelingJobName"`
	LabelAttributeName       string                         `json:"LabelAttributeName"`
	InputConfig              LabelingJobInputConfig         `json:"InputConfig"`
	OutputConfig             LabelingJobOutputConfig        `json:"OutputConfig"`
	RoleARN                  string                         `json:"RoleArn"`
	LabelCategoryConfigS3URI string                         `json:"LabelCategoryConfigS3Uri,omitempty"`
	StoppingConditions       *LabelingJobStoppingConditions `json:"StoppingConditions,omitempty"`
	HumanTaskConfig          HumanTaskConfig                `json:"HumanTaskConfig"`
	Tags                     []Tag                          `json:"Tags,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateLabelingJobRequest) Validate() error { return validate(r) }

func (r CreateLabelingJobRequest) check(v *validator, path string) {
	v.name(join(path, "LabelingJobName"), r.LabelingJobName, KindLabelingJob.MaxNameLength())
	if v.required(join(path, "LabelAttributeName"), r.LabelAttributeName) {
		v.length(join(path, "LabelAttributeName"), r.LabelAttributeName, 1, 127)
		v.pattern(join(path, "LabelAttributeName"), r.LabelAttributeName, nameRegexp)
	}
	r.InputConfig.check(v, join(path, "InputConfig"))
	r.OutputConfig.check(v, join(path, "OutputConfig"))
	v.roleARN(join(path, "RoleArn"), r.RoleARN)
	if r.LabelCategoryConfigS3URI != "" {
		v.s3URI(join(path, "LabelCategoryConfigS3Uri"), r.LabelCategoryConfigS3URI)
	}
	if r.StoppingConditions != nil {
		r.StoppingConditions.check(v, join(path, "StoppingConditions"))
	}
	r.HumanTaskConfig.check(v, join(path, "HumanTaskConfig"))
	checkTags(v, join(path, "Tags"), r.Tags)
}

// CreateLabelingJobBuilder builds a CreateLabelingJobRequest.
type CreateLabelingJobBuilder struct {
	req CreateLabelingJobRequest
}

func NewCreateLabelingJobBuilder(name string) *CreateLabelingJobBuilder {
	return &CreateLabelingJobBuilder{req: CreateLabelingJobRequest{LabelingJobName: name}}
}

func (b *CreateLabelingJobBuilder) WithLabelAttributeName(name string) *CreateLabelingJobBuilder {
	b.req.LabelAttributeName = name
	return b
}

// WithManifest sets the S3 URI of the input manifest.
func (b *CreateLabelingJobBuilder) WithManifest(s3uri string) *CreateLabelingJobBuilder {
	b.req.InputConfig.DataSource.S3DataSource.ManifestS3URI = s3uri
	return b
}

func (b *CreateLabelingJobBuilder) WithOutputConfig(oc LabelingJobOutputConfig) *CreateLabelingJobBuilder {
	b.req.OutputConfig = oc
	return b
}

func (b *CreateLabelingJobBuilder) WithRoleARN(arn string) *CreateLabelingJobBuilder {
	b.req.RoleARN = arn
	return b
}

func (b *CreateLabelingJobBuilder) WithLabelCategoryConfig(s3uri string) *CreateLabelingJobBuilder {
	b.req.LabelCategoryConfigS3URI = s3uri
	return b
}

func (b *CreateLabelingJobBuilder) WithStoppingConditions(sc LabelingJobStoppingConditions) *CreateLabelingJobBuilder {
	b.req.StoppingConditions = &sc
	return b
}

func (b *CreateLabelingJobBuilder) WithHumanTaskConfig(htc HumanTaskConfig) *CreateLabelingJobBuilder {
	b.req.HumanTaskConfig = htc
	return b
}

func (b *CreateLabelingJobBuilder) WithTags(tags ...Tag) *CreateLabelingJobBuilder {
	b.req.Tags = tags
	return b
}

// Build returns a copy of the request, or a ValidationErrors.
func (b *CreateLabelingJobBuilder) Build() (CreateLabelingJobRequest, error) {
	return build(b.req, nil)
}

// LabelCounters counts the objects of a labeling job by outcome.
type LabelCounters struct {
	TotalLabeled            int `json:"TotalLabeled"`
	HumanLabeled            int `json:"HumanLabeled"`
	MachineLabeled          int `json:"MachineLabeled"`
	FailedNonRetryableError int `json:"FailedNonRetryableError"`
	Unlabeled               int `json:"Unlabeled"`
}

// LabelingJobOutput locates the result of a labeling job.
type LabelingJobOutput struct {
	OutputDatasetS3URI          string `json:"OutputDatasetS3Uri"`
	FinalActiveLearningModelARN string `json:"FinalActiveLearningModelArn,omitempty"`
}

// LabelingJob is the result of describing a labeling job.
type LabelingJob struct {
	Name                     string                         `json:"LabelingJobName"`
	ARN                      string                         `json:"LabelingJobArn"`
	Status                   LabelingJobStatus              `json:"LabelingJobStatus"`
	LabelCounters            LabelCounters                  `json:"LabelCounters"`
	FailureReason            string                         `json:"FailureReason,omitempty"`
	CreationTime             time.Time                      `json:"CreationTime"`
	LastModifiedTime         *time.Time                     `json:"LastModifiedTime,omitempty"`
	JobReferenceCode         string                         `json:"JobReferenceCode"`
	LabelAttributeName       string                         `json:"LabelAttributeName,omitempty"`
	InputConfig              LabelingJobInputConfig         `json:"InputConfig"`
	OutputConfig             LabelingJobOutputConfig        `json:"OutputConfig"`
	RoleARN                  string                         `json:"RoleArn"`
	LabelCategoryConfigS3URI string                         `json:"LabelCategoryConfigS3Uri,omitempty"`
	StoppingConditions       *LabelingJobStoppingConditions `json:"StoppingConditions,omitempty"`
	HumanTaskConfig          HumanTaskConfig                `json:"HumanTaskConfig"`
	Tags                     []Tag                          `json:"Tags,omitempty"`
	LabelingJobOutput        *LabelingJobOutput             `json:"LabelingJobOutput,omitempty"`
}

func (j LabelingJob) ResourceKind() ResourceKind { return KindLabelingJob }
func (j LabelingJob) ResourceName() string       { return j.Name }
func (j LabelingJob) ResourceARN() string        { return j.ARN }
func (j LabelingJob) CreatedAt() time.Time       { return j.CreationTime }
func (j LabelingJob) ModifiedAt() time.Time      { return timeOrZero(j.LastModifiedTime) }
func (j LabelingJob) ResourceStatus() Status     { return j.Status }

// Summary returns the list projection of j.
func (j LabelingJob) Summary() LabelingJobSummary {
	lastModified := j.CreationTime
	if j.LastModifiedTime != nil {
		lastModified = *j.LastModifiedTime
	}
	return LabelingJobSummary{
		Name:                             j.Name,
		ARN:                              j.ARN,
		CreationTime:                     j.CreationTime,
		LastModifiedTime:                 lastModified,
		Status:                           j.Status,
		LabelCounters:                    j.LabelCounters,
		WorkteamARN:                      j.HumanTaskConfig.WorkteamARN,
		PreHumanTaskLambdaARN:            j.HumanTaskConfig.PreHumanTaskLambdaARN,
		AnnotationConsolidationLambdaARN: j.HumanTaskConfig.AnnotationConsolidationConfig.AnnotationConsolidationLambdaARN,
		FailureReason:                    j.FailureReason,
		LabelingJobOutput:                j.LabelingJobOutput,
		InputConfig:                      &j.InputConfig,
	}
}

// LabelingJobSummary is a labeling job as returned by List. Unlike
// other summaries, it always carries LastModifiedTime.
type LabelingJobSummary struct {
	Name                             string                  `json:"LabelingJobName"`
	ARN                              string                  `json:"LabelingJobArn"`
	CreationTime                     time.Time               `json:"CreationTime"`
	LastModifiedTime                 time.Time               `json:"LastModifiedTime"`
	Status                           LabelingJobStatus       `json:"LabelingJobStatus"`
	LabelCounters                    LabelCounters           `json:"LabelCounters"`
	WorkteamARN                      string                  `json:"WorkteamArn"`
	PreHumanTaskLambdaARN            string                  `json:"PreHumanTaskLambdaArn"`
	AnnotationConsolidationLambdaARN string                  `json:"AnnotationConsolidationLambdaArn,omitempty"`
	FailureReason                    string                  `json:"FailureReason,omitempty"`
	LabelingJobOutput                *LabelingJobOutput      `json:"LabelingJobOutput,omitempty"`
	InputConfig                      *LabelingJobInputConfig `json:"InputConfig,omitempty"`
}

func (s LabelingJobSummary) ResourceKind() ResourceKind { return KindLabelingJob }
func (s LabelingJobSummary) ResourceName() string       { return s.Name }
func (s LabelingJobSummary) ResourceARN() string        { return s.ARN }
func (s LabelingJobSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s LabelingJobSummary) ModifiedAt() time.Time      { return s.LastModifiedTime }
func (s LabelingJobSummary) ResourceStatus() Status     { return s.Status }

// LabelingJobList is a page of labeling job summaries.
type LabelingJobList struct {
	Items     []LabelingJobSummary `json:"LabelingJobSummaryList"`
	NextToken string               `json:"NextToken,omitempty"`
}

func (l LabelingJobList) PageItems() []LabelingJobSummary { return l.Items }
func (l LabelingJobList) PageToken() string               { return l.NextToken }
