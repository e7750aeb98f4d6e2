// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplanetest

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"sync"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
)

var ErrStubUnimplemented = errors.New("stub unimplemented")

var _ mlplane.API = (*APIStub)(nil)

// APIStub implements mlplane.API by recording each call and returning
// a zero value with the configured Error.
type APIStub struct {
	// The error to return from every stubbed API method.
	Error error
	calls []APIStubCall
	mtx   sync.Mutex
}

func (as *APIStub) TrainingJobCreate(ctx context.Context, req mlplane.CreateTrainingJobRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.TrainingJobCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) TrainingJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.TrainingJob, error) {
	as.appendCall(as.TrainingJobDescribe, ctx, options)
	return mlplane.TrainingJob{}, as.Error
}
func (as *APIStub) TrainingJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.TrainingJobList, error) {
	as.appendCall(as.TrainingJobList, ctx, options)
	return mlplane.TrainingJobList{}, as.Error
}
func (as *APIStub) TrainingJobStop(ctx context.Context, options mlplane.GetOptions) error {
	as.appendCall(as.TrainingJobStop, ctx, options)
	return as.Error
}
func (as *APIStub) TuningJobCreate(ctx context.Context, req mlplane.CreateTuningJobRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.TuningJobCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) TuningJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.TuningJob, error) {
	as.appendCall(as.TuningJobDescribe, ctx, options)
	return mlplane.TuningJob{}, as.Error
}
func (as *APIStub) TuningJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.TuningJobList, error) {
	as.appendCall(as.TuningJobList, ctx, options)
	return mlplane.TuningJobList{}, as.Error
}
func (as *APIStub) TuningJobStop(ctx context.Context, options mlplane.GetOptions) error {
	as.appendCall(as.TuningJobStop, ctx, options)
	return as.Error
}
func (as *APIStub) LabelingJobCreate(ctx context.Context, req mlplane.CreateLabelingJobRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.LabelingJobCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) LabelingJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.LabelingJob, error) {
	as.appendCall(as.LabelingJobDescribe, ctx, options)
	return mlplane.LabelingJob{}, as.Error
}
func (as *APIStub) LabelingJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.LabelingJobList, error) {
	as.appendCall(as.LabelingJobList, ctx, options)
	return mlplane.LabelingJobList{}, as.Error
}
func (as *APIStub) LabelingJobStop(ctx context.Context, options mlplane.GetOptions) error {
	as.appendCall(as.LabelingJobStop, ctx, options)
	return as.Error
}
func (as *APIStub) TransformJobCreate(ctx context.Context, req mlplane.CreateTransformJobRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.TransformJobCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) TransformJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.TransformJob, error) {
	as.appendCall(as.TransformJobDescribe, ctx, options)
	return mlplane.TransformJob{}, as.Error
}
func (as *APIStub) TransformJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.TransformJobList, error) {
	as.appendCall(as.TransformJobList, ctx, options)
	return mlplane.TransformJobList{}, as.Error
}
func (as *APIStub) TransformJobStop(ctx context.Context, options mlplane.GetOptions) error {
	as.appendCall(as.TransformJobStop, ctx, options)
	return as.Error
}
func (as *APIStub) EndpointCreate(ctx context.Context, req mlplane.CreateEndpointRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.EndpointCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) EndpointDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.Endpoint, error) {
	as.appendCall(as.EndpointDescribe, ctx, options)
	return mlplane.Endpoint{}, as.Error
}
func (as *APIStub) EndpointList(ctx context.Context, options mlplane.ListOptions) (mlplane.EndpointList, error) {
	as.appendCall(as.EndpointList, ctx, options)
	return mlplane.EndpointList{}, as.Error
}
func (as *APIStub) EndpointUpdate(ctx context.Context, req mlplane.UpdateEndpointRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.EndpointUpdate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) EndpointDelete(ctx context.Context, options mlplane.DeleteOptions) error {
	as.appendCall(as.EndpointDelete, ctx, options)
	return as.Error
}
func (as *APIStub) NotebookInstanceCreate(ctx context.Context, req mlplane.CreateNotebookInstanceRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.NotebookInstanceCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) NotebookInstanceDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.NotebookInstance, error) {
	as.appendCall(as.NotebookInstanceDescribe, ctx, options)
	return mlplane.NotebookInstance{}, as.Error
}
func (as *APIStub) NotebookInstanceList(ctx context.Context, options mlplane.ListOptions) (mlplane.NotebookInstanceList, error) {
	as.appendCall(as.NotebookInstanceList, ctx, options)
	return mlplane.NotebookInstanceList{}, as.Error
}
func (as *APIStub) NotebookInstanceUpdate(ctx context.Context, req mlplane.UpdateNotebookInstanceRequest) error {
	as.appendCall(as.NotebookInstanceUpdate, ctx, req)
	return as.Error
}
func (as *APIStub) NotebookInstanceStart(ctx context.Context, options mlplane.GetOptions) error {
	as.appendCall(as.NotebookInstanceStart, ctx, options)
	return as.Error
}
func (as *APIStub) NotebookInstanceStop(ctx context.Context, options mlplane.GetOptions) error {
	as.appendCall(as.NotebookInstanceStop, ctx, options)
	return as.Error
}
func (as *APIStub) NotebookInstanceDelete(ctx context.Context, options mlplane.DeleteOptions) error {
	as.appendCall(as.NotebookInstanceDelete, ctx, options)
	return as.Error
}
func (as *APIStub) ModelCreate(ctx context.Context, req mlplane.CreateModelRequest) (mlplane.ResourceRef, error) {
	as.appendCall(as.ModelCreate, ctx, req)
	return mlplane.ResourceRef{}, as.Error
}
func (as *APIStub) ModelDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.Model, error) {
	as.appendCall(as.ModelDescribe, ctx, options)
	return mlplane.Model{}, as.Error
}
func (as *APIStub) ModelList(ctx context.Context, options mlplane.ListOptions) (mlplane.ModelList, error) {
	as.appendCall(as.ModelList, ctx, options)
	return mlplane.ModelList{}, as.Error
}
func (as *APIStub) ModelDelete(ctx context.Context, options mlplane.DeleteOptions) error {
	as.appendCall(as.ModelDelete, ctx, options)
	return as.Error
}
func (as *APIStub) TagsAdd(ctx context.Context, options mlplane.AddTagsOptions) error {
	as.appendCall(as.TagsAdd, ctx, options)
	return as.Error
}
func (as *APIStub) TagsList(ctx context.Context, options mlplane.ListTagsOptions) (mlplane.TagList, error) {
	as.appendCall(as.TagsList, ctx, options)
	return mlplane.TagList{}, as.Error
}
func (as *APIStub) TagsDelete(ctx context.Context, options mlplane.DeleteTagsOptions) error {
	as.appendCall(as.TagsDelete, ctx, options)
	return as.Error
}

func (as *APIStub) appendCall(method interface{}, ctx context.Context, options interface{}) {
	as.mtx.Lock()
	defer as.mtx.Unlock()
	as.calls = append(as.calls, APIStubCall{method, ctx, options})
}

// Calls returns the calls made to the given method, e.g.,
// stub.Calls(stub.TrainingJobList). A nil method returns all calls.
func (as *APIStub) Calls(method interface{}) []APIStubCall {
	as.mtx.Lock()
	defer as.mtx.Unlock()
	var calls []APIStubCall
	for _, call := range as.calls {
		if method == nil || funcName(call.Method) == funcName(method) {
			calls = append(calls, call)
		}
	}
	return calls
}

// Method values can't be compared with ==, so compare the names of
// the functions they wrap.
func funcName(method interface{}) string {
	return runtime.FuncForPC(reflect.ValueOf(method).Pointer()).Name()
}

type APIStubCall struct {
	Method  interface{}
	Context context.Context
	Options interface{}
}
