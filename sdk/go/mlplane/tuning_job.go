// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"strconv"
	"time"
)

// TuningObjective is the metric a tuning job optimizes.
type TuningObjective struct {
	Type       ObjectiveType `json:"Type"`
	MetricName string        `json:"MetricName"`
}

func (o TuningObjective) check(v *validator, path string) {
	if v.required(join(path, "Type"), string(o.Type)) {
		checkEnum(v, join(path, "Type"), objectiveTypes, o.Type)
	}
	if v.required(join(path, "MetricName"), o.MetricName) {
		v.length(join(path, "MetricName"), o.MetricName, 1, 255)
	}
}

// ResourceLimits bounds the number of training jobs a tuning job
// launches.
type ResourceLimits struct {
	MaxNumberOfTrainingJobs int `json:"MaxNumberOfTrainingJobs"`
	MaxParallelTrainingJobs int `json:"MaxParallelTrainingJobs"`
}

func (rl ResourceLimits) check(v *validator, path string) {
	v.intMin(join(path, "MaxNumberOfTrainingJobs"), int64(rl.MaxNumberOfTrainingJobs), 1)
	v.intMin(join(path, "MaxParallelTrainingJobs"), int64(rl.MaxParallelTrainingJobs), 1)
}

// IntegerParameterRange is a hyperparameter searched over integers.
// Bounds are strings on the wire.
type IntegerParameterRange struct {
	Name     string `json:"Name"`
	MinValue string `json:"MinValue"`
	MaxValue string `json:"MaxValue"`
}

func (r IntegerParameterRange) check(v *validator, path string) {
	v.required(join(path, "Name"), r.Name)
	v.length(join(path, "Name"), r.Name, 1, 256)
	min, err1 := strconv.ParseInt(r.MinValue, 10, 64)
	if err1 != nil {
		v.fail(join(path, "MinValue"), "must be an integer", r.MinValue)
	}
	max, err2 := strconv.ParseInt(r.MaxValue, 10, 64)
	if err2 != nil {
		v.fail(join(path, "MaxValue"), "must be an integer", r.MaxValue)
	}
	if err1 == nil && err2 == nil && min > max {
		v.fail(join(path, "MaxValue"), "must not be less than MinValue", r.MaxValue)
	}
}

// ContinuousParameterRange is a hyperparameter searched over reals.
type ContinuousParameterRange struct {
	Name     string `json:"Name"`
	MinValue string `json:"MinValue"`
	MaxValue string `json:"MaxValue"`
}

func (r ContinuousParameterRange) check(v *validator, path string) {
	v.required(join(path, "Name"), r.Name)
	v.length(join(path, "Name"), r.Name, 1, 256)
	min, err1 := strconv.ParseFloat(r.MinValue, 64)
	if err1 != nil {
		v.fail(join(path, "MinValue"), "must be a number", r.MinValue)
	}
	max, err2 := strconv.ParseFloat(r.MaxValue, 64)
	if err2 != nil {
		v.fail(join(path, "MaxValue"), "must be a number", r.MaxValue)
	}
	if err1 == nil && err2 == nil && min > max {
		v.fail(join(path, "MaxValue"), "must not be less than MinValue", r.MaxValue)
	}
}

// CategoricalParameterRange is a hyperparameter chosen from a list.
type CategoricalParameterRange struct {
	Name   string   `json:"Name"`
	Values []string `json:"Values"`
}

func (r CategoricalParameterRange) check(v *validator, path string) {
	v.required(join(path, "Name"), r.Name)
	v.length(join(path, "Name"), r.Name, 1, 256)
	v.listLen(join(path, "Values"), len(r.Values), 1, 20)
}

// ParameterRanges lists the hyperparameters a tuning job searches.
type ParameterRanges struct {
	IntegerParameterRanges     []IntegerParameterRange     `json:"IntegerParameterRanges,omitempty"`
	ContinuousParameterRanges  []ContinuousParameterRange  `json:"ContinuousParameterRanges,omitempty"`
	CategoricalParameterRanges []CategoricalParameterRange `json:"CategoricalParameterRanges,omitempty"`
}

func (pr ParameterRanges) check(v *validator, path string) {
	v.listLen(join(path, "IntegerParameterRanges"), len(pr.IntegerParameterRanges), 0, 20)
	checkEach(v, join(path, "IntegerParameterRanges"), pr.IntegerParameterRanges)
	v.listLen(join(path, "ContinuousParameterRanges"), len(pr.ContinuousParameterRanges), 0, 20)
	checkEach(v, join(path, "ContinuousParameterRanges"), pr.ContinuousParameterRanges)
	v.listLen(join(path, "CategoricalParameterRanges"), len(pr.CategoricalParameterRanges), 0, 20)
	checkEach(v, join(path, "CategoricalParameterRanges"), pr.CategoricalParameterRanges)
}

// TuningJobConfig configures the search of a tuning job.
type TuningJobConfig struct {
	Strategy                     TuningStrategy    `json:"Strategy"`
	Objective                    *TuningObjective  `json:"HyperParameterTuningJobObjective,omitempty"`
	ResourceLimits               ResourceLimits    `json:"ResourceLimits"`
	ParameterRanges              *ParameterRanges  `json:"ParameterRanges,omitempty"`
	TrainingJobEarlyStoppingType EarlyStoppingType `json:"TrainingJobEarlyStoppingType,omitempty"`
}

func (c TuningJobConfig) check(v *validator, path string) {
	if v.required(join(path, "Strategy"), string(c.Strategy)) {
		checkEnum(v, join(path, "Strategy"), tuningStrategies, c.Strategy)
	}
	if c.Objective != nil {
		c.Objective.check(v, join(path, "HyperParameterTuningJobObjective"))
	}
	c.ResourceLimits.check(v, join(path, "ResourceLimits"))
	if c.ParameterRanges != nil {
		c.ParameterRanges.check(v, join(path, "ParameterRanges"))
	}
	checkEnum(v, join(path, "TrainingJobEarlyStoppingType"), earlyStoppingTypes, c.TrainingJobEarlyStoppingType)
}

// TuningTrainingJobDefinition is the template of the training jobs a
// tuning job launches.
type TuningTrainingJobDefinition struct {
	StaticHyperParameters  map[string]string      `json:"StaticHyperParameters,omitempty"`
	AlgorithmSpecification AlgorithmSpecification `json:"AlgorithmSpecification"`
	RoleARN                string                 `json:"RoleArn"`
	InputDataConfig        []Channel              `json:"InputDataConfig,omitempty"`
	VpcConfig              *VpcConfig             `json:"VpcConfig,omitempty"`
	OutputDataConfig       OutputDataConfig       `json:"OutputDataConfig"`
	ResourceConfig         ResourceConfig         `json:"ResourceConfig"`
	StoppingCondition      StoppingCondition      `json:"StoppingCondition"`
	EnableNetworkIsolation bool                   `json:"EnableNetworkIsolation,omitempty"`
}

func (d TuningTrainingJobDefinition) check(v *validator, path string) {
	checkHyperParameters(v, join(path, "StaticHyperParameters"), d.StaticHyperParameters)
	d.AlgorithmSpecification.check(v, join(path, "AlgorithmSpecification"))
	v.roleARN(join(path, "RoleArn"), d.RoleARN)
	v.listLen(join(path, "InputDataConfig"), len(d.InputDataConfig), 0, 20)
	checkEach(v, join(path, "InputDataConfig"), d.InputDataConfig)
	if d.VpcConfig != nil {
		d.VpcConfig.check(v, join(path, "VpcConfig"))
	}
	d.OutputDataConfig.check(v, join(path, "OutputDataConfig"))
	d.ResourceConfig.check(v, join(path, "ResourceConfig"))
	d.StoppingCondition.check(v, join(path, "StoppingCondition"))
}

// CreateTuningJobRequest starts a hyperparameter tuning job.
type CreateTuningJobRequest struct {
	TuningJobName         string                       `json:"HyperParameterTuningJobName"`
	TuningJobConfig       TuningJobConfig              `json:"HyperParameterTuningJobConfig"`
	TrainingJobDefinition *TuningTrainingJobDefinition `json:"TrainingJobDefinition,omitempty"`
	Tags                  []Tag                        `json:"Tags,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateTuningJobRequest) Validate() error { return validate(r) }

func (r CreateTuningJobRequest) check(v *validator, path string) {
	v.name(join(path, "HyperParameterTuningJobName"), r.TuningJobName, KindTuningJob.MaxNameLength())
	r.TuningJobConfig.check(v, join(path, "HyperParameterTuningJobConfig"))
	if r.TrainingJobDefinition != nil {
		r.TrainingJobDefinition.check(v, join(path, "TrainingJobDefinition"))
	}
	checkTags(v, join(path, "Tags"), r.Tags)
}

// CreateTuningJobBuilder builds a CreateTuningJobRequest.
type CreateTuningJobBuilder struct {
	req  CreateTuningJobRequest
	errs entryErrors
}

const staticHyperParametersField = "TrainingJobDefinition.StaticHyperParameters"

func NewCreateTuningJobBuilder(name string) *CreateTuningJobBuilder {
	return &CreateTuningJobBuilder{req: CreateTuningJobRequest{TuningJobName: name}}
}

func (b *CreateTuningJobBuilder) WithConfig(c TuningJobConfig) *CreateTuningJobBuilder {
	b.req.TuningJobConfig = c
	return b
}

// WithTrainingJobDefinition sets the training job template. A
// previously added static hyperparameter is kept unless def has its
// own.
func (b *CreateTuningJobBuilder) WithTrainingJobDefinition(def TuningTrainingJobDefinition) *CreateTuningJobBuilder {
	if def.StaticHyperParameters == nil && b.req.TrainingJobDefinition != nil {
		def.StaticHyperParameters = b.req.TrainingJobDefinition.StaticHyperParameters
	} else if def.StaticHyperParameters != nil {
		b.errs.forget(staticHyperParametersField)
	}
	b.req.TrainingJobDefinition = &def
	return b
}

func (b *CreateTuningJobBuilder) definition() *TuningTrainingJobDefinition {
	if b.req.TrainingJobDefinition == nil {
		b.req.TrainingJobDefinition = &TuningTrainingJobDefinition{}
	}
	return b.req.TrainingJobDefinition
}

// WithStaticHyperParameters replaces the static hyperparameters of
// the training job template.
func (b *CreateTuningJobBuilder) WithStaticHyperParameters(hp map[string]string) *CreateTuningJobBuilder {
	b.definition().StaticHyperParameters = hp
	b.errs.forget(staticHyperParametersField)
	return b
}

// AddStaticHyperParametersEntry adds one static hyperparameter,
// recording a DuplicateKeyError if key is already set.
func (b *CreateTuningJobBuilder) AddStaticHyperParametersEntry(key, value string) *CreateTuningJobBuilder {
	b.errs.record(staticHyperParametersField, addEntry(staticHyperParametersField, &b.definition().StaticHyperParameters, key, value))
	return b
}

// ClearStaticHyperParametersEntries unsets the static hyperparameters.
func (b *CreateTuningJobBuilder) ClearStaticHyperParametersEntries() *CreateTuningJobBuilder {
	if b.req.TrainingJobDefinition != nil {
		b.req.TrainingJobDefinition.StaticHyperParameters = nil
	}
	b.errs.forget(staticHyperParametersField)
	return b
}

func (b *CreateTuningJobBuilder) WithTags(tags ...Tag) *CreateTuningJobBuilder {
	b.req.Tags = tags
	return b
}

// Build returns a copy of the request, or a ValidationErrors.
func (b *CreateTuningJobBuilder) Build() (CreateTuningJobRequest, error) {
	return build(b.req, b.errs.flatten())
}

// TrainingJobStatusCounters counts a tuning job's training jobs by
// status.
type TrainingJobStatusCounters struct {
	Completed         int `json:"Completed"`
	InProgress        int `json:"InProgress"`
	RetryableError    int `json:"RetryableError"`
	NonRetryableError int `json:"NonRetryableError"`
	Stopped           int `json:"Stopped"`
}

// ObjectiveStatusCounters counts a tuning job's training jobs by the
// status of their objective metric.
type ObjectiveStatusCounters struct {
	Succeeded int `json:"Succeeded"`
	Pending   int `json:"Pending"`
	Failed    int `json:"Failed"`
}

// FinalObjectiveMetric is the objective value reached by a training
// job.
type FinalObjectiveMetric struct {
	Type       ObjectiveType `json:"Type,omitempty"`
	MetricName string        `json:"MetricName"`
	Value      float64       `json:"Value"`
}

// TunedTrainingJob summarizes a training job launched by a tuning job.
type TunedTrainingJob struct {
	TrainingJobName      string                `json:"TrainingJobName"`
	TrainingJobARN       string                `json:"TrainingJobArn"`
	CreationTime         time.Time             `json:"CreationTime"`
	TrainingJobStatus    TrainingJobStatus     `json:"TrainingJobStatus"`
	TunedHyperParameters map[string]string     `json:"TunedHyperParameters"`
	FinalObjectiveMetric *FinalObjectiveMetric `json:"FinalHyperParameterTuningJobObjectiveMetric,omitempty"`
}

// TuningJob is the result of describing a hyperparameter tuning job.
type TuningJob struct {
	Name                      string                       `json:"HyperParameterTuningJobName"`
	ARN                       string                       `json:"HyperParameterTuningJobArn"`
	Config                    TuningJobConfig              `json:"HyperParameterTuningJobConfig"`
	TrainingJobDefinition     *TuningTrainingJobDefinition `json:"TrainingJobDefinition,omitempty"`
	Status                    TuningJobStatus              `json:"HyperParameterTuningJobStatus"`
	CreationTime              time.Time                    `json:"CreationTime"`
	TuningEndTime             *time.Time                   `json:"HyperParameterTuningEndTime,omitempty"`
	LastModifiedTime          *time.Time                   `json:"LastModifiedTime,omitempty"`
	TrainingJobStatusCounters TrainingJobStatusCounters    `json:"TrainingJobStatusCounters"`
	ObjectiveStatusCounters   ObjectiveStatusCounters      `json:"ObjectiveStatusCounters"`
	BestTrainingJob           *TunedTrainingJob            `json:"BestTrainingJob,omitempty"`
	FailureReason             string                       `json:"FailureReason,omitempty"`
}

func (j TuningJob) ResourceKind() ResourceKind { return KindTuningJob }
func (j TuningJob) ResourceName() string       { return j.Name }
func (j TuningJob) ResourceARN() string        { return j.ARN }
func (j TuningJob) CreatedAt() time.Time       { return j.CreationTime }
func (j TuningJob) ModifiedAt() time.Time      { return timeOrZero(j.LastModifiedTime) }
func (j TuningJob) ResourceStatus() Status     { return j.Status }

// Summary returns the list projection of j.
func (j TuningJob) Summary() TuningJobSummary {
	return TuningJobSummary{
		Name:                      j.Name,
		ARN:                       j.ARN,
		Status:                    j.Status,
		Strategy:                  j.Config.Strategy,
		CreationTime:              j.CreationTime,
		TuningEndTime:             j.TuningEndTime,
		LastModifiedTime:          j.LastModifiedTime,
		TrainingJobStatusCounters: j.TrainingJobStatusCounters,
		ObjectiveStatusCounters:   j.ObjectiveStatusCounters,
		ResourceLimits:            &j.Config.ResourceLimits,
	}
}

// TuningJobSummary is a tuning job as returned by List.
type TuningJobSummary struct {
	Name                      string                    `json:"HyperParameterTuningJobName"`
	ARN                       string                    `json:"HyperParameterTuningJobArn"`
	Status                    TuningJobStatus           `json:"HyperParameterTuningJobStatus"`
	Strategy                  TuningStrategy            `json:"Strategy"`
	CreationTime              time.Time                 `json:"CreationTime"`
	TuningEndTime             *time.Time                `json:"HyperParameterTuningEndTime,omitempty"`
	LastModifiedTime          *time.Time                `json:"LastModifiedTime,omitempty"`
	TrainingJobStatusCounters TrainingJobStatusCounters `json:"TrainingJobStatusCounters"`
	ObjectiveStatusCounters   ObjectiveStatusCounters   `json:"ObjectiveStatusCounters"`
	ResourceLimits            *ResourceLimits           `json:"ResourceLimits,omitempty"`
}

func (s TuningJobSummary) ResourceKind() ResourceKind { return KindTuningJob }
func (s TuningJobSummary) ResourceName() string       { return s.Name }
func (s TuningJobSummary) ResourceARN() string        { return s.ARN }
func (s TuningJobSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s TuningJobSummary) ModifiedAt() time.Time      { return timeOrZero(s.LastModifiedTime) }
func (s TuningJobSummary) ResourceStatus() Status     { return s.Status }

// TuningJobList is a page of tuning job summaries.
type TuningJobList struct {
	Items     []TuningJobSummary `json:"HyperParameterTuningJobSummaries"`
	NextToken string             `json:"NextToken,omitempty"`
}

func (l TuningJobList) PageItems() []TuningJobSummary { return l.Items }
func (l TuningJobList) PageToken() string             { return l.NextToken }
