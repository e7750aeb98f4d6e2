// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package router serves an mlplane.API backend over the REST routes
// listed in the mlplane package.
package router

import (
	"context"
	"fmt"
	"net/http"

	"git.arvados.org/mlplane.git/sdk/go/auth"
	"git.arvados.org/mlplane.git/sdk/go/httpserver"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

type router struct {
	mux     *httprouter.Router
	backend mlplane.API
}

// New returns a handler that decodes each request into the options
// type of its route, calls backend, and encodes the result as JSON.
func New(backend mlplane.API) http.Handler {
	rtr := &router{
		mux:     httprouter.New(),
		backend: backend,
	}
	rtr.addRoutes()
	return rtr
}

type routeSpec struct {
	route       mlplane.APIRoute
	defaultOpts func() interface{}
	exec        func(ctx context.Context, opts interface{}) (interface{}, error)
}

// noContent wraps operations that have no response body.
type noContent struct{}

func (rtr *router) routes() []routeSpec {
	return []routeSpec{
		{
			mlplane.RouteTrainingJobCreate,
			func() interface{} { return &mlplane.CreateTrainingJobRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TrainingJobCreate(ctx, *opts.(*mlplane.CreateTrainingJobRequest))
			},
		},
		{
			mlplane.RouteTrainingJobDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TrainingJobDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteTrainingJobList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TrainingJobList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteTrainingJobStop,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.TrainingJobStop(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteTuningJobCreate,
			func() interface{} { return &mlplane.CreateTuningJobRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TuningJobCreate(ctx, *opts.(*mlplane.CreateTuningJobRequest))
			},
		},
		{
			mlplane.RouteTuningJobDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TuningJobDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteTuningJobList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TuningJobList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteTuningJobStop,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.TuningJobStop(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteLabelingJobCreate,
			func() interface{} { return &mlplane.CreateLabelingJobRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.LabelingJobCreate(ctx, *opts.(*mlplane.CreateLabelingJobRequest))
			},
		},
		{
			mlplane.RouteLabelingJobDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.LabelingJobDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteLabelingJobList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.LabelingJobList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteLabelingJobStop,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.LabelingJobStop(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteTransformJobCreate,
			func() interface{} { return &mlplane.CreateTransformJobRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TransformJobCreate(ctx, *opts.(*mlplane.CreateTransformJobRequest))
			},
		},
		{
			mlplane.RouteTransformJobDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TransformJobDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteTransformJobList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TransformJobList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteTransformJobStop,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.TransformJobStop(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteEndpointCreate,
			func() interface{} { return &mlplane.CreateEndpointRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.EndpointCreate(ctx, *opts.(*mlplane.CreateEndpointRequest))
			},
		},
		{
			mlplane.RouteEndpointDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.EndpointDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteEndpointList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.EndpointList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteEndpointUpdate,
			func() interface{} { return &mlplane.UpdateEndpointRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.EndpointUpdate(ctx, *opts.(*mlplane.UpdateEndpointRequest))
			},
		},
		{
			mlplane.RouteEndpointDelete,
			func() interface{} { return &mlplane.DeleteOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.EndpointDelete(ctx, *opts.(*mlplane.DeleteOptions))
			},
		},
		{
			mlplane.RouteNotebookInstanceCreate,
			func() interface{} { return &mlplane.CreateNotebookInstanceRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.NotebookInstanceCreate(ctx, *opts.(*mlplane.CreateNotebookInstanceRequest))
			},
		},
		{
			mlplane.RouteNotebookInstanceDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.NotebookInstanceDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteNotebookInstanceList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.NotebookInstanceList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteNotebookInstanceUpdate,
			func() interface{} { return &mlplane.UpdateNotebookInstanceRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.NotebookInstanceUpdate(ctx, *opts.(*mlplane.UpdateNotebookInstanceRequest))
			},
		},
		{
			mlplane.RouteNotebookInstanceStart,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.NotebookInstanceStart(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteNotebookInstanceStop,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.NotebookInstanceStop(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteNotebookInstanceDelete,
			func() interface{} { return &mlplane.DeleteOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.NotebookInstanceDelete(ctx, *opts.(*mlplane.DeleteOptions))
			},
		},
		{
			mlplane.RouteModelCreate,
			func() interface{} { return &mlplane.CreateModelRequest{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.ModelCreate(ctx, *opts.(*mlplane.CreateModelRequest))
			},
		},
		{
			mlplane.RouteModelDescribe,
			func() interface{} { return &mlplane.GetOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.ModelDescribe(ctx, *opts.(*mlplane.GetOptions))
			},
		},
		{
			mlplane.RouteModelList,
			func() interface{} { return &mlplane.ListOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.ModelList(ctx, *opts.(*mlplane.ListOptions))
			},
		},
		{
			mlplane.RouteModelDelete,
			func() interface{} { return &mlplane.DeleteOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.ModelDelete(ctx, *opts.(*mlplane.DeleteOptions))
			},
		},
		{
			mlplane.RouteTagsAdd,
			func() interface{} { return &mlplane.AddTagsOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.TagsAdd(ctx, *opts.(*mlplane.AddTagsOptions))
			},
		},
		{
			mlplane.RouteTagsList,
			func() interface{} { return &mlplane.ListTagsOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return rtr.backend.TagsList(ctx, *opts.(*mlplane.ListTagsOptions))
			},
		},
		{
			mlplane.RouteTagsDelete,
			func() interface{} { return &mlplane.DeleteTagsOptions{} },
			func(ctx context.Context, opts interface{}) (interface{}, error) {
				return noContent{}, rtr.backend.TagsDelete(ctx, *opts.(*mlplane.DeleteTagsOptions))
			},
		},
	}
}

func (rtr *router) addRoutes() {
	for _, spec := range rtr.routes() {
		spec := spec
		methods := []string{spec.route.Method}
		if spec.route.Method == "PATCH" {
			methods = append(methods, "PUT")
		}
		for _, method := range methods {
			rtr.mux.Handle(method, "/"+spec.route.Path, func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
				httpserver.SetOperation(req, spec.route.Operation)
				logger := httpserver.Logger(req)
				params, err := rtr.loadRequestParams(req)
				if err != nil {
					logger.WithField("route", spec.route.Operation).WithError(err).Debug("error loading request params")
					rtr.sendError(w, err)
					return
				}
				if spec.route.NameKey != "" {
					params[spec.route.NameKey] = ps.ByName("name")
				}
				opts := spec.defaultOpts()
				err = rtr.transcode(params, opts)
				if err != nil {
					logger.WithField("params", params).WithError(err).Debugf("error transcoding params to %T", opts)
					rtr.sendError(w, httpserver.ErrorWithStatus(err, http.StatusBadRequest))
					return
				}

				ctx := req.Context()
				ctx = auth.NewContext(ctx, auth.CredentialsFromRequest(req))
				ctx = mlplane.ContextWithRequestID(ctx, req.Header.Get("X-Request-Id"))
				logger.WithFields(logrus.Fields{
					"apiOperation": spec.route.Operation,
					"apiOptsType":  fmt.Sprintf("%T", opts),
				}).Debug("exec")
				resp, err := spec.exec(ctx, opts)
				if err != nil {
					logger.WithError(err).Debugf("returning error type %T", err)
					rtr.sendError(w, err)
					return
				}
				rtr.sendResponse(w, resp)
			})
		}
	}
	rtr.mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpserver.Errors(w, []string{"API endpoint not found"}, http.StatusNotFound)
	})
	rtr.mux.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpserver.Errors(w, []string{"method not allowed"}, http.StatusMethodNotAllowed)
	})
}

func (rtr *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, PUT, PATCH, POST, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.Header().Set("Access-Control-Max-Age", "86486400")
	if r.Method == "OPTIONS" {
		return
	}
	rtr.mux.ServeHTTP(w, r)
}
