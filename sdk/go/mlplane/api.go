// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"context"
	"fmt"
)

// APIRoute is the REST form of an API operation.
type APIRoute struct {
	Operation string
	Method    string
	Path      string
	// Options field that fills the ":name" path segment
	NameKey string
}

var (
	RouteTrainingJobCreate        = APIRoute{"TrainingJobCreate", "POST", "v1/training_jobs", ""}
	RouteTrainingJobDescribe      = APIRoute{"TrainingJobDescribe", "GET", "v1/training_jobs/:name", "Name"}
	RouteTrainingJobList          = APIRoute{"TrainingJobList", "GET", "v1/training_jobs", ""}
	RouteTrainingJobStop          = APIRoute{"TrainingJobStop", "POST", "v1/training_jobs/:name/stop", "Name"}
	RouteTuningJobCreate          = APIRoute{"TuningJobCreate", "POST", "v1/tuning_jobs", ""}
	RouteTuningJobDescribe        = APIRoute{"TuningJobDescribe", "GET", "v1/tuning_jobs/:name", "Name"}
	RouteTuningJobList            = APIRoute{"TuningJobList", "GET", "v1/tuning_jobs", ""}
	RouteTuningJobStop            = APIRoute{"TuningJobStop", "POST", "v1/tuning_jobs/:name/stop", "Name"}
	RouteLabelingJobCreate        = APIRoute{"LabelingJobCreate", "POST", "v1/labeling_jobs", ""}
	RouteLabelingJobDescribe      = APIRoute{"LabelingJobDescribe", "GET", "v1/labeling_jobs/:name", "Name"}
	RouteLabelingJobList          = APIRoute{"LabelingJobList", "GET", "v1/labeling_jobs", ""}
	RouteLabelingJobStop          = APIRoute{"LabelingJobStop", "POST", "v1/labeling_jobs/:name/stop", "Name"}
	RouteTransformJobCreate       = APIRoute{"TransformJobCreate", "POST", "v1/transform_jobs", ""}
	RouteTransformJobDescribe     = APIRoute{"TransformJobDescribe", "GET", "v1/transform_jobs/:name", "Name"}
	RouteTransformJobList         = APIRoute{"TransformJobList", "GET", "v1/transform_jobs", ""}
	RouteTransformJobStop         = APIRoute{"TransformJobStop", "POST", "v1/transform_jobs/:name/stop", "Name"}
	RouteEndpointCreate           = APIRoute{"EndpointCreate", "POST", "v1/endpoints", ""}
	RouteEndpointDescribe         = APIRoute{"EndpointDescribe", "GET", "v1/endpoints/:name", "Name"}
	RouteEndpointList             = APIRoute{"EndpointList", "GET", "v1/endpoints", ""}
	RouteEndpointUpdate           = APIRoute{"EndpointUpdate", "PATCH", "v1/endpoints/:name", "EndpointName"}
	RouteEndpointDelete           = APIRoute{"EndpointDelete", "DELETE", "v1/endpoints/:name", "Name"}
	RouteNotebookInstanceCreate   = APIRoute{"NotebookInstanceCreate", "POST", "v1/notebook_instances", ""}
	RouteNotebookInstanceDescribe = APIRoute{"NotebookInstanceDescribe", "GET", "v1/notebook_instances/:name", "Name"}
	RouteNotebookInstanceList     = APIRoute{"NotebookInstanceList", "GET", "v1/notebook_instances", ""}
	RouteNotebookInstanceUpdate   = APIRoute{"NotebookInstanceUpdate", "PATCH", "v1/notebook_instances/:name", "NotebookInstanceName"}
	RouteNotebookInstanceStart    = APIRoute{"NotebookInstanceStart", "POST", "v1/notebook_instances/:name/start", "Name"}
	RouteNotebookInstanceStop     = APIRoute{"NotebookInstanceStop", "POST", "v1/notebook_instances/:name/stop", "Name"}
	RouteNotebookInstanceDelete   = APIRoute{"NotebookInstanceDelete", "DELETE", "v1/notebook_instances/:name", "Name"}
	RouteModelCreate              = APIRoute{"ModelCreate", "POST", "v1/models", ""}
	RouteModelDescribe            = APIRoute{"ModelDescribe", "GET", "v1/models/:name", "Name"}
	RouteModelList                = APIRoute{"ModelList", "GET", "v1/models", ""}
	RouteModelDelete              = APIRoute{"ModelDelete", "DELETE", "v1/models/:name", "Name"}
	RouteTagsAdd                  = APIRoute{"TagsAdd", "POST", "v1/tags", ""}
	RouteTagsList                 = APIRoute{"TagsList", "GET", "v1/tags", ""}
	RouteTagsDelete               = APIRoute{"TagsDelete", "POST", "v1/tags/delete", ""}
)

// GetOptions name the resource to describe, start or stop.
type GetOptions struct {
	Name string `json:"Name"`
}

// DeleteOptions name the resource to delete.
type DeleteOptions struct {
	Name string `json:"Name"`
}

// AddTagsOptions attach tags to a resource. Existing tags with the
// same keys are overwritten.
type AddTagsOptions struct {
	ResourceARN string `json:"ResourceArn"`
	Tags        []Tag  `json:"Tags"`
}

func (o AddTagsOptions) check(v *validator, path string) {
	if v.required(join(path, "ResourceArn"), o.ResourceARN) {
		v.length(join(path, "ResourceArn"), o.ResourceARN, 0, 256)
	}
	v.listLen(join(path, "Tags"), len(o.Tags), 1, MaxTags)
	checkTags(v, join(path, "Tags"), o.Tags)
}

// Validate returns nil or a ValidationErrors.
func (o AddTagsOptions) Validate() error { return validate(o) }

// ListTagsOptions select a page of a resource's tags.
type ListTagsOptions struct {
	ResourceARN string `json:"ResourceArn"`
	NextToken   string `json:"NextToken,omitempty"`
	MaxResults  *int   `json:"MaxResults,omitempty"`
}

func (o ListTagsOptions) check(v *validator, path string) {
	if v.required(join(path, "ResourceArn"), o.ResourceARN) {
		v.length(join(path, "ResourceArn"), o.ResourceARN, 0, 256)
	}
	v.length(join(path, "NextToken"), o.NextToken, 0, MaxNextTokenLen)
	if o.MaxResults != nil {
		// ListTags accepts larger pages than the resource lists.
		v.intMin(join(path, "MaxResults"), int64(*o.MaxResults), 50)
	}
}

// Validate returns nil or a ValidationErrors.
func (o ListTagsOptions) Validate() error { return validate(o) }

// DeleteTagsOptions remove tags from a resource by key.
type DeleteTagsOptions struct {
	ResourceARN string   `json:"ResourceArn"`
	TagKeys     []string `json:"TagKeys"`
}

func (o DeleteTagsOptions) check(v *validator, path string) {
	if v.required(join(path, "ResourceArn"), o.ResourceARN) {
		v.length(join(path, "ResourceArn"), o.ResourceARN, 0, 256)
	}
	v.listLen(join(path, "TagKeys"), len(o.TagKeys), 1, MaxTags)
	for _, k := range o.TagKeys {
		v.length(join(path, "TagKeys"), k, 1, 128)
		v.pattern(join(path, "TagKeys"), k, tagRegexp)
	}
}

// Validate returns nil or a ValidationErrors.
func (o DeleteTagsOptions) Validate() error { return validate(o) }

// API is the control plane. Implementations (a REST connection, a
// SageMaker backend, caches and fakes) must validate requests before
// sending them.
type API interface {
	TrainingJobCreate(ctx context.Context, req CreateTrainingJobRequest) (ResourceRef, error)
	TrainingJobDescribe(ctx context.Context, opts GetOptions) (TrainingJob, error)
	TrainingJobList(ctx context.Context, opts ListOptions) (TrainingJobList, error)
	TrainingJobStop(ctx context.Context, opts GetOptions) error

	TuningJobCreate(ctx context.Context, req CreateTuningJobRequest) (ResourceRef, error)
	TuningJobDescribe(ctx context.Context, opts GetOptions) (TuningJob, error)
	TuningJobList(ctx context.Context, opts ListOptions) (TuningJobList, error)
	TuningJobStop(ctx context.Context, opts GetOptions) error

	LabelingJobCreate(ctx context.Context, req CreateLabelingJobRequest) (ResourceRef, error)
	LabelingJobDescribe(ctx context.Context, opts GetOptions) (LabelingJob, error)
	LabelingJobList(ctx context.Context, opts ListOptions) (LabelingJobList, error)
	LabelingJobStop(ctx context.Context, opts GetOptions) error

	TransformJobCreate(ctx context.Context, req CreateTransformJobRequest) (ResourceRef, error)
	TransformJobDescribe(ctx context.Context, opts GetOptions) (TransformJob, error)
	TransformJobList(ctx context.Context, opts ListOptions) (TransformJobList, error)
	TransformJobStop(ctx context.Context, opts GetOptions) error

	EndpointCreate(ctx context.Context, req CreateEndpointRequest) (ResourceRef, error)
	EndpointDescribe(ctx context.Context, opts GetOptions) (Endpoint, error)
	EndpointList(ctx context.Context, opts ListOptions) (EndpointList, error)
	EndpointUpdate(ctx context.Context, req UpdateEndpointRequest) (ResourceRef, error)
	EndpointDelete(ctx context.Context, opts DeleteOptions) error

	NotebookInstanceCreate(ctx context.Context, req CreateNotebookInstanceRequest) (ResourceRef, error)
	NotebookInstanceDescribe(ctx context.Context, opts GetOptions) (NotebookInstance, error)
	NotebookInstanceList(ctx context.Context, opts ListOptions) (NotebookInstanceList, error)
	NotebookInstanceUpdate(ctx context.Context, req UpdateNotebookInstanceRequest) error
	NotebookInstanceStart(ctx context.Context, opts GetOptions) error
	NotebookInstanceStop(ctx context.Context, opts GetOptions) error
	NotebookInstanceDelete(ctx context.Context, opts DeleteOptions) error

	ModelCreate(ctx context.Context, req CreateModelRequest) (ResourceRef, error)
	ModelDescribe(ctx context.Context, opts GetOptions) (Model, error)
	ModelList(ctx context.Context, opts ListOptions) (ModelList, error)
	ModelDelete(ctx context.Context, opts DeleteOptions) error

	TagsAdd(ctx context.Context, opts AddTagsOptions) error
	TagsList(ctx context.Context, opts ListTagsOptions) (TagList, error)
	TagsDelete(ctx context.Context, opts DeleteTagsOptions) error
}

// Describe returns the current state of the named resource of any
// kind.
func Describe(ctx context.Context, api API, kind ResourceKind, name string) (Resource, error) {
	opts := GetOptions{Name: name}
	switch kind {
	case KindTrainingJob:
		return api.TrainingJobDescribe(ctx, opts)
	case KindTuningJob:
		return api.TuningJobDescribe(ctx, opts)
	case KindLabelingJob:
		return api.LabelingJobDescribe(ctx, opts)
	case KindTransformJob:
		return api.TransformJobDescribe(ctx, opts)
	case KindEndpoint:
		return api.EndpointDescribe(ctx, opts)
	case KindNotebookInstance:
		return api.NotebookInstanceDescribe(ctx, opts)
	case KindModel:
		return api.ModelDescribe(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
}

// DescribeStatus returns the current status of the named resource.
func DescribeStatus(ctx context.Context, api API, kind ResourceKind, name string) (Status, error) {
	if !kind.HasStatus() {
		return nil, fmt.Errorf("%s resources have no status", kind)
	}
	r, err := Describe(ctx, api, kind, name)
	if err != nil {
		return nil, err
	}
	return r.ResourceStatus(), nil
}

// Stop asks the control plane to stop the named resource. Stopping is
// asynchronous: the resource reports Stopping, then a settled status.
// Endpoints and models cannot be stopped.
func Stop(ctx context.Context, api API, kind ResourceKind, name string) error {
	opts := GetOptions{Name: name}
	switch kind {
	case KindTrainingJob:
		return api.TrainingJobStop(ctx, opts)
	case KindTuningJob:
		return api.TuningJobStop(ctx, opts)
	case KindLabelingJob:
		return api.LabelingJobStop(ctx, opts)
	case KindTransformJob:
		return api.TransformJobStop(ctx, opts)
	case KindNotebookInstance:
		return api.NotebookInstanceStop(ctx, opts)
	default:
		return fmt.Errorf("%s resources cannot be stopped", kind)
	}
}

// ValidateName checks that name is acceptable for a resource of the
// given kind.
func ValidateName(kind ResourceKind, name string) error {
	var v validator
	v.name("Name", name, kind.MaxNameLength())
	return v.err()
}
