// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package rpc implements mlplane.API by calling a remote control
// plane server over its REST routes.
package rpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/auth"
	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// TokenProvider returns the tokens to send with a request. Only the
// first one is used.
type TokenProvider func(context.Context) ([]string, error)

// StaticToken returns a TokenProvider that always provides token.
func StaticToken(token string) TokenProvider {
	return func(context.Context) ([]string, error) {
		return []string{token}, nil
	}
}

// PassthroughTokenProvider provides the tokens of the incoming
// request that ctx belongs to.
func PassthroughTokenProvider(ctx context.Context) ([]string, error) {
	creds, ok := auth.FromContext(ctx)
	if !ok {
		return nil, errors.New("no credentials in context")
	}
	return creds.Tokens, nil
}

// Conn is a connection to a remote control plane server.
type Conn struct {
	httpClient    *http.Client
	baseURL       url.URL
	tokenProvider TokenProvider

	mRequests *prometheus.CounterVec
	mDuration *prometheus.SummaryVec
}

var _ mlplane.API = (*Conn)(nil)

// Options control retries and instrumentation of a Conn. The zero
// value is usable.
type Options struct {
	Insecure bool
	// Retries after a connection error, 429 or 5xx response.
	// Zero means the retryablehttp default. Negative means no
	// retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Logs retries. If nil, ctxlog.FromContext(context.Background())
	// is used.
	Logger logrus.FieldLogger
	// If non-nil, request counters and timings are registered
	// here.
	Registry *prometheus.Registry
}

func NewConn(baseURL *url.URL, tp TokenProvider, opts Options) *Conn {
	transport := http.DefaultTransport
	if opts.Insecure {
		// It's not safe to copy *http.DefaultTransport
		// because it has a mutex (which might be locked)
		// protecting a private map (which might not be nil).
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: true},
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = ctxlog.FromContext(context.Background())
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: transport}
	rc.Logger = leveledLogger{logger}
	if opts.RetryMax < 0 {
		rc.RetryMax = 0
	} else if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	// Return the last response when retries run out, so the
	// caller gets a TransactionError with the server's message.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	conn := &Conn{
		httpClient:    rc.StandardClient(),
		baseURL:       *baseURL,
		tokenProvider: tp,
		mRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlplane",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Number of control plane API calls, by operation and outcome.",
		}, []string{"operation", "code"}),
		mDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:  "mlplane",
			Subsystem:  "client",
			Name:       "request_duration_seconds",
			Help:       "Time taken by control plane API calls, including retries.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"operation"}),
	}
	if opts.Registry != nil {
		opts.Registry.MustRegister(conn.mRequests, conn.mDuration)
	}
	return conn
}

// leveledLogger sends retryablehttp's logs to logrus. Retry chatter
// goes to debug level.
type leveledLogger struct {
	logrus.FieldLogger
}

func (l leveledLogger) entry(keysAndValues []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.FieldLogger.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Error(msg)
}
func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Warn(msg)
}
func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Debug(msg)
}
func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Debug(msg)
}

// outcome returns the "code" label value for a call's result.
func outcome(err error) string {
	var te *mlplane.TransactionError
	switch {
	case err == nil:
		return "200"
	case errors.As(err, &te):
		return strconv.Itoa(te.StatusCode)
	case errors.Is(err, mlplane.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// requestAndDecode sends the request unless invalid is non-nil, and
// records the outcome either way.
func (conn *Conn) requestAndDecode(ctx context.Context, dst interface{}, route mlplane.APIRoute, opts interface{}, invalid error) error {
	t0 := time.Now()
	err := invalid
	if err == nil {
		err = conn.doRequest(ctx, dst, route, opts)
	}
	conn.mDuration.WithLabelValues(route.Operation).Observe(time.Since(t0).Seconds())
	conn.mRequests.WithLabelValues(route.Operation, outcome(err)).Inc()
	return err
}

func (conn *Conn) doRequest(ctx context.Context, dst interface{}, route mlplane.APIRoute, opts interface{}) error {
	aClient := mlplane.Client{
		Client:  conn.httpClient,
		Scheme:  conn.baseURL.Scheme,
		APIHost: conn.baseURL.Host,
	}
	tokens, err := conn.tokenProvider(ctx)
	if err != nil {
		return err
	} else if len(tokens) > 0 && tokens[0] != "" {
		aClient.AuthToken = tokens[0]
	} else {
		// Use a non-empty token so the server responds 403
		// rather than prompting for credentials.
		aClient.AuthToken = "-"
	}
	return aClient.Call(ctx, dst, route, opts)
}

func (conn *Conn) TrainingJobCreate(ctx context.Context, req mlplane.CreateTrainingJobRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTrainingJobCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) TrainingJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.TrainingJob, error) {
	var resp mlplane.TrainingJob
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTrainingJobDescribe, options, mlplane.ValidateName(mlplane.KindTrainingJob, options.Name))
	return resp, err
}

func (conn *Conn) TrainingJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.TrainingJobList, error) {
	var resp mlplane.TrainingJobList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTrainingJobList, options, options.ValidateFor(mlplane.KindTrainingJob))
	return resp, err
}

func (conn *Conn) TrainingJobStop(ctx context.Context, options mlplane.GetOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteTrainingJobStop, options, mlplane.ValidateName(mlplane.KindTrainingJob, options.Name))
}

func (conn *Conn) TuningJobCreate(ctx context.Context, req mlplane.CreateTuningJobRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTuningJobCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) TuningJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.TuningJob, error) {
	var resp mlplane.TuningJob
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTuningJobDescribe, options, mlplane.ValidateName(mlplane.KindTuningJob, options.Name))
	return resp, err
}

func (conn *Conn) TuningJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.TuningJobList, error) {
	var resp mlplane.TuningJobList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTuningJobList, options, options.ValidateFor(mlplane.KindTuningJob))
	return resp, err
}

func (conn *Conn) TuningJobStop(ctx context.Context, options mlplane.GetOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteTuningJobStop, options, mlplane.ValidateName(mlplane.KindTuningJob, options.Name))
}

func (conn *Conn) LabelingJobCreate(ctx context.Context, req mlplane.CreateLabelingJobRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteLabelingJobCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) LabelingJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.LabelingJob, error) {
	var resp mlplane.LabelingJob
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteLabelingJobDescribe, options, mlplane.ValidateName(mlplane.KindLabelingJob, options.Name))
	return resp, err
}

func (conn *Conn) LabelingJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.LabelingJobList, error) {
	var resp mlplane.LabelingJobList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteLabelingJobList, options, options.ValidateFor(mlplane.KindLabelingJob))
	return resp, err
}

func (conn *Conn) LabelingJobStop(ctx context.Context, options mlplane.GetOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteLabelingJobStop, options, mlplane.ValidateName(mlplane.KindLabelingJob, options.Name))
}

func (conn *Conn) TransformJobCreate(ctx context.Context, req mlplane.CreateTransformJobRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTransformJobCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) TransformJobDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.TransformJob, error) {
	var resp mlplane.TransformJob
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTransformJobDescribe, options, mlplane.ValidateName(mlplane.KindTransformJob, options.Name))
	return resp, err
}

func (conn *Conn) TransformJobList(ctx context.Context, options mlplane.ListOptions) (mlplane.TransformJobList, error) {
	var resp mlplane.TransformJobList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTransformJobList, options, options.ValidateFor(mlplane.KindTransformJob))
	return resp, err
}

func (conn *Conn) TransformJobStop(ctx context.Context, options mlplane.GetOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteTransformJobStop, options, mlplane.ValidateName(mlplane.KindTransformJob, options.Name))
}

func (conn *Conn) EndpointCreate(ctx context.Context, req mlplane.CreateEndpointRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteEndpointCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) EndpointDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.Endpoint, error) {
	var resp mlplane.Endpoint
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteEndpointDescribe, options, mlplane.ValidateName(mlplane.KindEndpoint, options.Name))
	return resp, err
}

func (conn *Conn) EndpointList(ctx context.Context, options mlplane.ListOptions) (mlplane.EndpointList, error) {
	var resp mlplane.EndpointList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteEndpointList, options, options.ValidateFor(mlplane.KindEndpoint))
	return resp, err
}

func (conn *Conn) EndpointUpdate(ctx context.Context, req mlplane.UpdateEndpointRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteEndpointUpdate, req, req.Validate())
	return resp, err
}

func (conn *Conn) EndpointDelete(ctx context.Context, options mlplane.DeleteOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteEndpointDelete, options, mlplane.ValidateName(mlplane.KindEndpoint, options.Name))
}

func (conn *Conn) NotebookInstanceCreate(ctx context.Context, req mlplane.CreateNotebookInstanceRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteNotebookInstanceCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) NotebookInstanceDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.NotebookInstance, error) {
	var resp mlplane.NotebookInstance
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteNotebookInstanceDescribe, options, mlplane.ValidateName(mlplane.KindNotebookInstance, options.Name))
	return resp, err
}

func (conn *Conn) NotebookInstanceList(ctx context.Context, options mlplane.ListOptions) (mlplane.NotebookInstanceList, error) {
	var resp mlplane.NotebookInstanceList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteNotebookInstanceList, options, options.ValidateFor(mlplane.KindNotebookInstance))
	return resp, err
}

func (conn *Conn) NotebookInstanceUpdate(ctx context.Context, req mlplane.UpdateNotebookInstanceRequest) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteNotebookInstanceUpdate, req, req.Validate())
}

func (conn *Conn) NotebookInstanceStart(ctx context.Context, options mlplane.GetOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteNotebookInstanceStart, options, mlplane.ValidateName(mlplane.KindNotebookInstance, options.Name))
}

func (conn *Conn) NotebookInstanceStop(ctx context.Context, options mlplane.GetOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteNotebookInstanceStop, options, mlplane.ValidateName(mlplane.KindNotebookInstance, options.Name))
}

func (conn *Conn) NotebookInstanceDelete(ctx context.Context, options mlplane.DeleteOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteNotebookInstanceDelete, options, mlplane.ValidateName(mlplane.KindNotebookInstance, options.Name))
}

func (conn *Conn) ModelCreate(ctx context.Context, req mlplane.CreateModelRequest) (mlplane.ResourceRef, error) {
	var resp mlplane.ResourceRef
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteModelCreate, req, req.Validate())
	return resp, err
}

func (conn *Conn) ModelDescribe(ctx context.Context, options mlplane.GetOptions) (mlplane.Model, error) {
	var resp mlplane.Model
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteModelDescribe, options, mlplane.ValidateName(mlplane.KindModel, options.Name))
	return resp, err
}

func (conn *Conn) ModelList(ctx context.Context, options mlplane.ListOptions) (mlplane.ModelList, error) {
	var resp mlplane.ModelList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteModelList, options, options.ValidateFor(mlplane.KindModel))
	return resp, err
}

func (conn *Conn) ModelDelete(ctx context.Context, options mlplane.DeleteOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteModelDelete, options, mlplane.ValidateName(mlplane.KindModel, options.Name))
}

func (conn *Conn) TagsAdd(ctx context.Context, options mlplane.AddTagsOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteTagsAdd, options, options.Validate())
}

func (conn *Conn) TagsList(ctx context.Context, options mlplane.ListTagsOptions) (mlplane.TagList, error) {
	var resp mlplane.TagList
	err := conn.requestAndDecode(ctx, &resp, mlplane.RouteTagsList, options, options.Validate())
	return resp, err
}

func (conn *Conn) TagsDelete(ctx context.Context, options mlplane.DeleteTagsOptions) error {
	return conn.requestAndDecode(ctx, nil, mlplane.RouteTagsDelete, options, options.Validate())
}
