// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplanetest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
)

const (
	// DefaultMaxResults is the page size of a List call that does
	// not specify MaxResults.
	DefaultMaxResults = 10
	// DefaultMaxTagResults is the page size of a TagsList call that
	// does not specify MaxResults.
	DefaultMaxTagResults = 50

	DefaultRegion    = "us-east-1"
	DefaultAccountID = "123456789012"
)

// Fake is an in-memory mlplane.API. It validates requests the way
// the service does, keeps resources in memory, and filters, sorts
// and paginates List results.
//
// Resources do not progress by themselves. Tests move them along
// with SetStatus, or with Queue to have successive Describe calls
// observe a sequence of statuses.
//
// The zero value is ready to use.
type Fake struct {
	Region    string
	AccountID string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mtx    sync.Mutex
	rows   map[mlplane.ResourceKind]map[string]mlplane.Resource
	tags   map[string][]mlplane.Tag
	queued map[string][]string
}

var _ mlplane.API = (*Fake)(nil)

func (f *Fake) setup() {
	if f.rows != nil {
		return
	}
	f.rows = map[mlplane.ResourceKind]map[string]mlplane.Resource{}
	for _, kind := range mlplane.Kinds() {
		f.rows[kind] = map[string]mlplane.Resource{}
	}
	f.tags = map[string][]mlplane.Tag{}
	f.queued = map[string][]string{}
	if f.Region == "" {
		f.Region = DefaultRegion
	}
	if f.AccountID == "" {
		f.AccountID = DefaultAccountID
	}
}

func (f *Fake) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// ARN returns the ARN the fake assigns to the named resource.
func (f *Fake) ARN(kind mlplane.ResourceKind, name string) string {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	return f.arn(kind, name)
}

func (f *Fake) arn(kind mlplane.ResourceKind, name string) string {
	return mlplane.NewARN(kind, f.Region, f.AccountID, name).String()
}

// Put stores a describe result (e.g., an mlplane.TrainingJob) as-is,
// replacing any resource of the same kind and name. An empty ARN is
// filled in.
func (f *Fake) Put(r mlplane.Resource) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r = mlplane.Clone(r)
	arn := r.ResourceARN()
	if arn == "" {
		arn = f.arn(r.ResourceKind(), r.ResourceName())
	}
	var row mlplane.Resource
	switch r := r.(type) {
	case mlplane.TrainingJob:
		r.ARN = arn
		row = &r
	case mlplane.TuningJob:
		r.ARN = arn
		row = &r
	case mlplane.LabelingJob:
		r.ARN = arn
		row = &r
	case mlplane.TransformJob:
		r.ARN = arn
		row = &r
	case mlplane.Endpoint:
		r.ARN = arn
		row = &r
	case mlplane.NotebookInstance:
		r.ARN = arn
		row = &r
	case mlplane.Model:
		r.ARN = arn
		row = &r
	default:
		panic(fmt.Sprintf("cannot store %T", r))
	}
	f.rows[r.ResourceKind()][r.ResourceName()] = row
	if lj, ok := row.(*mlplane.LabelingJob); ok {
		f.setTags(lj, lj.Tags)
	}
}

// Count returns the number of stored resources of the given kind.
func (f *Fake) Count(kind mlplane.ResourceKind) int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	return len(f.rows[kind])
}

// SetStatus moves the named resource to the given status. Unknown
// status tokens are accepted. A resource in a terminal status cannot
// move.
func (f *Fake) SetStatus(kind mlplane.ResourceKind, name, status string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookup(kind, name)
	if err != nil {
		return err
	}
	return f.setStatus(r, status)
}

// Queue arranges for each of the next len(statuses) Describe calls
// on the named resource to first move it to the next status in
// statuses.
func (f *Fake) Queue(kind mlplane.ResourceKind, name string, statuses ...string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	key := string(kind) + "/" + name
	f.queued[key] = append(f.queued[key], statuses...)
}

func (f *Fake) lookup(kind mlplane.ResourceKind, name string) (mlplane.Resource, error) {
	r, ok := f.rows[kind][name]
	if !ok {
		return nil, &mlplane.ResourceNotFoundError{Kind: kind, Name: name}
	}
	return r, nil
}

func (f *Fake) lookupARN(arn string) (mlplane.Resource, error) {
	parsed, err := mlplane.ParseARN(arn)
	if err != nil {
		return nil, err
	}
	r, ok := f.rows[parsed.Kind][parsed.Name]
	if !ok || r.ResourceARN() != arn {
		return nil, &mlplane.ResourceNotFoundError{Kind: parsed.Kind, Name: parsed.Name}
	}
	return r, nil
}

// describe returns the named resource after applying the next queued
// status, if any.
func (f *Fake) describe(kind mlplane.ResourceKind, name string) (mlplane.Resource, error) {
	if err := mlplane.ValidateName(kind, name); err != nil {
		return nil, err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookup(kind, name)
	if err != nil {
		return nil, err
	}
	key := string(kind) + "/" + name
	if q := f.queued[key]; len(q) > 0 {
		f.queued[key] = q[1:]
		if err := f.setStatus(r, q[0]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (f *Fake) create(kind mlplane.ResourceKind, name string, tags []mlplane.Tag, row mlplane.Resource) (mlplane.ResourceRef, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	if _, exists := f.rows[kind][name]; exists {
		return mlplane.ResourceRef{}, &mlplane.ResourceInUseError{Kind: kind, Name: name, Reason: "a resource with this name already exists"}
	}
	f.rows[kind][name] = row
	f.setTags(row, tags)
	return mlplane.ResourceRef{Name: name, ARN: row.ResourceARN()}, nil
}

// setTags replaces r's tags. Labeling jobs also report their tags
// in Describe results. The caller must hold f.mtx.
func (f *Fake) setTags(r mlplane.Resource, tags []mlplane.Tag) {
	tags = append([]mlplane.Tag(nil), tags...)
	f.tags[r.ResourceARN()] = tags
	if lj, ok := r.(*mlplane.LabelingJob); ok {
		lj.Tags = tags
	}
}

func (f *Fake) remove(kind mlplane.ResourceKind, name string, allowed func(mlplane.Status) bool) error {
	if err := mlplane.ValidateName(kind, name); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookup(kind, name)
	if err != nil {
		return err
	}
	if allowed != nil && !allowed(r.ResourceStatus()) {
		return &mlplane.ResourceInUseError{Kind: kind, Name: name, Reason: "cannot delete in status " + r.ResourceStatus().String()}
	}
	delete(f.rows[kind], name)
	delete(f.tags, r.ResourceARN())
	delete(f.queued, string(kind)+"/"+name)
	return nil
}

// stopJob moves a running job to Stopping.
func (f *Fake) stopJob(kind mlplane.ResourceKind, name string, stopping string) error {
	if err := mlplane.ValidateName(kind, name); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookup(kind, name)
	if err != nil {
		return err
	}
	st := r.ResourceStatus()
	switch {
	case st.Terminal():
		return &mlplane.ResourceInUseError{Kind: kind, Name: name, Reason: "job already " + st.String()}
	case st.String() == stopping:
		return nil
	}
	return f.setStatus(r, stopping)
}

// setStatus updates r in place. The caller must hold f.mtx.
func (f *Fake) setStatus(r mlplane.Resource, status string) error {
	kind := r.ResourceKind()
	cur := r.ResourceStatus()
	if cur == nil {
		return fmt.Errorf("%s resources have no status", kind)
	}
	if cur.Terminal() && cur.String() != status {
		return &mlplane.ResourceInUseError{Kind: kind, Name: r.ResourceName(), Reason: "cannot leave terminal status " + cur.String()}
	}
	st, err := kind.ParseStatus(status)
	if err != nil && !errors.Is(err, mlplane.ErrUnknownEnumValue) {
		return err
	}
	now := f.now()
	var end *time.Time
	if st.Terminal() {
		end = &now
	}
	switch r := r.(type) {
	case *mlplane.TrainingJob:
		r.Status = mlplane.TrainingJobStatus(status)
		r.LastModifiedTime = &now
		r.TrainingEndTime = end
		if sec, ok := secondaryStatus[r.Status]; ok && sec != r.SecondaryStatus {
			// Copy, so results returned by earlier Describe calls
			// don't change.
			history := append([]mlplane.SecondaryStatusTransition(nil), r.SecondaryStatusTransitions...)
			if n := len(history); n > 0 {
				history[n-1].EndTime = &now
			}
			r.SecondaryStatus = sec
			r.SecondaryStatusTransitions = append(history, mlplane.SecondaryStatusTransition{Status: sec, StartTime: now})
		}
	case *mlplane.TuningJob:
		r.Status = mlplane.TuningJobStatus(status)
		r.LastModifiedTime = &now
		r.TuningEndTime = end
	case *mlplane.LabelingJob:
		r.Status = mlplane.LabelingJobStatus(status)
		r.LastModifiedTime = &now
	case *mlplane.TransformJob:
		r.Status = mlplane.TransformJobStatus(status)
		r.TransformEndTime = end
	case *mlplane.Endpoint:
		r.Status = mlplane.EndpointStatus(status)
		r.LastModifiedTime = now
	case *mlplane.NotebookInstance:
		r.Status = mlplane.NotebookInstanceStatus(status)
		r.LastModifiedTime = &now
	}
	return nil
}

var secondaryStatus = map[mlplane.TrainingJobStatus]mlplane.SecondaryStatus{
	mlplane.TrainingJobStatusInProgress: mlplane.SecondaryStatusTraining,
	mlplane.TrainingJobStatusCompleted:  mlplane.SecondaryStatusCompleted,
	mlplane.TrainingJobStatusFailed:     mlplane.SecondaryStatusFailed,
	mlplane.TrainingJobStatusStopping:   mlplane.SecondaryStatusStopping,
	mlplane.TrainingJobStatusStopped:    mlplane.SecondaryStatusStopped,
}

// listPage returns the page of resources of the given kind selected
// by opts.
func listPage[S any](f *Fake, kind mlplane.ResourceKind, opts mlplane.ListOptions, summary func(mlplane.Resource) S) ([]S, string, error) {
	if err := opts.ValidateFor(kind); err != nil {
		return nil, "", err
	}
	offset, err := decodeToken(opts.NextToken)
	if err != nil {
		return nil, "", err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	var matched []mlplane.Resource
	for _, r := range f.rows[kind] {
		if opts.Matches(r) {
			matched = append(matched, r)
		}
	}
	sortResources(matched, opts.SortBy, opts.SortOrder)
	limit := DefaultMaxResults
	if opts.MaxResults != nil {
		limit = *opts.MaxResults
	}
	window, next := paginate(len(matched), offset, limit)
	items := make([]S, 0, window.end-window.start)
	for _, r := range matched[window.start:window.end] {
		items = append(items, summary(r))
	}
	return items, next, nil
}

// sortResources orders rs by the given key, newest first unless
// order is Ascending. Ties are broken by name.
func sortResources(rs []mlplane.Resource, by mlplane.SortBy, order mlplane.SortOrder) {
	if by == "" {
		by = mlplane.SortByCreationTime
	}
	less := func(a, b mlplane.Resource) bool {
		switch by {
		case mlplane.SortByName:
			return a.ResourceName() < b.ResourceName()
		case mlplane.SortByStatus:
			if sa, sb := statusString(a), statusString(b); sa != sb {
				return sa < sb
			}
		default:
			if ca, cb := a.CreatedAt(), b.CreatedAt(); !ca.Equal(cb) {
				return ca.Before(cb)
			}
		}
		return a.ResourceName() < b.ResourceName()
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if order == mlplane.SortOrderAscending {
			return less(rs[i], rs[j])
		}
		return less(rs[j], rs[i])
	})
}

func statusString(r mlplane.Resource) string {
	if st := r.ResourceStatus(); st != nil {
		return st.String()
	}
	return ""
}

type span struct{ start, end int }

// paginate returns the slice bounds of the page of a list of n items
// starting at offset, and the token of the following page.
func paginate(n, offset, limit int) (span, string) {
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end >= n {
		return span{offset, n}, ""
	}
	return span{offset, end}, encodeToken(end)
}

const tokenPrefix = "mlplanetest:"

func encodeToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + strconv.Itoa(offset)))
}

func decodeToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err == nil && strings.HasPrefix(string(buf), tokenPrefix) {
		offset, err := strconv.Atoi(strings.TrimPrefix(string(buf), tokenPrefix))
		if err == nil && offset >= 0 {
			return offset, nil
		}
	}
	return 0, mlplane.ValidationErrors{&mlplane.ValidationError{Field: "NextToken", Constraint: "invalid continuation token", Value: token}}
}

func (f *Fake) TrainingJobCreate(ctx context.Context, req mlplane.CreateTrainingJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	now := f.now()
	return f.create(mlplane.KindTrainingJob, req.TrainingJobName, req.Tags, &mlplane.TrainingJob{
		Name:                      req.TrainingJobName,
		ARN:                       f.ARN(mlplane.KindTrainingJob, req.TrainingJobName),
		Status:                    mlplane.TrainingJobStatusInProgress,
		SecondaryStatus:           mlplane.SecondaryStatusStarting,
		HyperParameters:           req.HyperParameters,
		AlgorithmSpecification:    req.AlgorithmSpecification,
		RoleARN:                   req.RoleARN,
		InputDataConfig:           req.InputDataConfig,
		OutputDataConfig:          &req.OutputDataConfig,
		ResourceConfig:            req.ResourceConfig,
		VpcConfig:                 req.VpcConfig,
		StoppingCondition:         req.StoppingCondition,
		CreationTime:              now,
		LastModifiedTime:          &now,
		EnableNetworkIsolation:    req.EnableNetworkIsolation,
		EnableManagedSpotTraining: req.EnableManagedSpotTraining,
		CheckpointConfig:          req.CheckpointConfig,
		SecondaryStatusTransitions: []mlplane.SecondaryStatusTransition{
			{Status: mlplane.SecondaryStatusStarting, StartTime: now, StatusMessage: "Launching requested ML instances"},
		},
	})
}

func (f *Fake) TrainingJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TrainingJob, error) {
	r, err := f.describe(mlplane.KindTrainingJob, opts.Name)
	if err != nil {
		return mlplane.TrainingJob{}, err
	}
	return mlplane.Clone(*r.(*mlplane.TrainingJob)), nil
}

func (f *Fake) TrainingJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.TrainingJobList, error) {
	items, next, err := listPage(f, mlplane.KindTrainingJob, opts, func(r mlplane.Resource) mlplane.TrainingJobSummary {
		return r.(*mlplane.TrainingJob).Summary()
	})
	return mlplane.TrainingJobList{Items: items, NextToken: next}, err
}

func (f *Fake) TrainingJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	return f.stopJob(mlplane.KindTrainingJob, opts.Name, mlplane.TrainingJobStatusStopping.String())
}

func (f *Fake) TuningJobCreate(ctx context.Context, req mlplane.CreateTuningJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	now := f.now()
	return f.create(mlplane.KindTuningJob, req.TuningJobName, req.Tags, &mlplane.TuningJob{
		Name:                  req.TuningJobName,
		ARN:                   f.ARN(mlplane.KindTuningJob, req.TuningJobName),
		Config:                req.TuningJobConfig,
		TrainingJobDefinition: req.TrainingJobDefinition,
		Status:                mlplane.TuningJobStatusInProgress,
		CreationTime:          now,
		LastModifiedTime:      &now,
	})
}

func (f *Fake) TuningJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TuningJob, error) {
	r, err := f.describe(mlplane.KindTuningJob, opts.Name)
	if err != nil {
		return mlplane.TuningJob{}, err
	}
	return mlplane.Clone(*r.(*mlplane.TuningJob)), nil
}

func (f *Fake) TuningJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.TuningJobList, error) {
	items, next, err := listPage(f, mlplane.KindTuningJob, opts, func(r mlplane.Resource) mlplane.TuningJobSummary {
		return r.(*mlplane.TuningJob).Summary()
	})
	return mlplane.TuningJobList{Items: items, NextToken: next}, err
}

func (f *Fake) TuningJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	return f.stopJob(mlplane.KindTuningJob, opts.Name, mlplane.TuningJobStatusStopping.String())
}

func (f *Fake) LabelingJobCreate(ctx context.Context, req mlplane.CreateLabelingJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	now := f.now()
	return f.create(mlplane.KindLabelingJob, req.LabelingJobName, req.Tags, &mlplane.LabelingJob{
		Name:                     req.LabelingJobName,
		ARN:                      f.ARN(mlplane.KindLabelingJob, req.LabelingJobName),
		Status:                   mlplane.LabelingJobStatusInitializing,
		CreationTime:             now,
		LastModifiedTime:         &now,
		JobReferenceCode:         strconv.FormatInt(now.UnixNano(), 36),
		LabelAttributeName:       req.LabelAttributeName,
		InputConfig:              req.InputConfig,
		OutputConfig:             req.OutputConfig,
		RoleARN:                  req.RoleARN,
		LabelCategoryConfigS3URI: req.LabelCategoryConfigS3URI,
		StoppingConditions:       req.StoppingConditions,
		HumanTaskConfig:          req.HumanTaskConfig,
	})
}

func (f *Fake) LabelingJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.LabelingJob, error) {
	r, err := f.describe(mlplane.KindLabelingJob, opts.Name)
	if err != nil {
		return mlplane.LabelingJob{}, err
	}
	return mlplane.Clone(*r.(*mlplane.LabelingJob)), nil
}

func (f *Fake) LabelingJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.LabelingJobList, error) {
	items, next, err := listPage(f, mlplane.KindLabelingJob, opts, func(r mlplane.Resource) mlplane.LabelingJobSummary {
		return r.(*mlplane.LabelingJob).Summary()
	})
	return mlplane.LabelingJobList{Items: items, NextToken: next}, err
}

func (f *Fake) LabelingJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	return f.stopJob(mlplane.KindLabelingJob, opts.Name, mlplane.LabelingJobStatusStopping.String())
}

func (f *Fake) TransformJobCreate(ctx context.Context, req mlplane.CreateTransformJobRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	now := f.now()
	return f.create(mlplane.KindTransformJob, req.TransformJobName, req.Tags, &mlplane.TransformJob{
		Name:                    req.TransformJobName,
		ARN:                     f.ARN(mlplane.KindTransformJob, req.TransformJobName),
		Status:                  mlplane.TransformJobStatusInProgress,
		ModelName:               req.ModelName,
		MaxConcurrentTransforms: req.MaxConcurrentTransforms,
		MaxPayloadInMB:          req.MaxPayloadInMB,
		BatchStrategy:           req.BatchStrategy,
		Environment:             req.Environment,
		TransformInput:          req.TransformInput,
		TransformOutput:         &req.TransformOutput,
		TransformResources:      req.TransformResources,
		CreationTime:            now,
		TransformStartTime:      &now,
	})
}

func (f *Fake) TransformJobDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.TransformJob, error) {
	r, err := f.describe(mlplane.KindTransformJob, opts.Name)
	if err != nil {
		return mlplane.TransformJob{}, err
	}
	return mlplane.Clone(*r.(*mlplane.TransformJob)), nil
}

func (f *Fake) TransformJobList(ctx context.Context, opts mlplane.ListOptions) (mlplane.TransformJobList, error) {
	items, next, err := listPage(f, mlplane.KindTransformJob, opts, func(r mlplane.Resource) mlplane.TransformJobSummary {
		return r.(*mlplane.TransformJob).Summary()
	})
	return mlplane.TransformJobList{Items: items, NextToken: next}, err
}

func (f *Fake) TransformJobStop(ctx context.Context, opts mlplane.GetOptions) error {
	return f.stopJob(mlplane.KindTransformJob, opts.Name, mlplane.TransformJobStatusStopping.String())
}

func (f *Fake) EndpointCreate(ctx context.Context, req mlplane.CreateEndpointRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	now := f.now()
	return f.create(mlplane.KindEndpoint, req.EndpointName, req.Tags, &mlplane.Endpoint{
		Name:               req.EndpointName,
		ARN:                f.ARN(mlplane.KindEndpoint, req.EndpointName),
		EndpointConfigName: req.EndpointConfigName,
		Status:             mlplane.EndpointStatusCreating,
		CreationTime:       now,
		LastModifiedTime:   now,
	})
}

func (f *Fake) EndpointDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.Endpoint, error) {
	r, err := f.describe(mlplane.KindEndpoint, opts.Name)
	if err != nil {
		return mlplane.Endpoint{}, err
	}
	return mlplane.Clone(*r.(*mlplane.Endpoint)), nil
}

func (f *Fake) EndpointList(ctx context.Context, opts mlplane.ListOptions) (mlplane.EndpointList, error) {
	items, next, err := listPage(f, mlplane.KindEndpoint, opts, func(r mlplane.Resource) mlplane.EndpointSummary {
		return r.(*mlplane.Endpoint).Summary()
	})
	return mlplane.EndpointList{Items: items, NextToken: next}, err
}

// EndpointUpdate switches an InService endpoint to a new config,
// leaving it Updating.
func (f *Fake) EndpointUpdate(ctx context.Context, req mlplane.UpdateEndpointRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookup(mlplane.KindEndpoint, req.EndpointName)
	if err != nil {
		return mlplane.ResourceRef{}, err
	}
	ep := r.(*mlplane.Endpoint)
	if ep.Status != mlplane.EndpointStatusInService {
		return mlplane.ResourceRef{}, &mlplane.ResourceInUseError{Kind: mlplane.KindEndpoint, Name: ep.Name, Reason: "cannot update in status " + ep.Status.String()}
	}
	ep.EndpointConfigName = req.EndpointConfigName
	if err := f.setStatus(ep, mlplane.EndpointStatusUpdating.String()); err != nil {
		return mlplane.ResourceRef{}, err
	}
	return mlplane.ResourceRef{Name: ep.Name, ARN: ep.ARN}, nil
}

func (f *Fake) EndpointDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	return f.remove(mlplane.KindEndpoint, opts.Name, nil)
}

func (f *Fake) NotebookInstanceCreate(ctx context.Context, req mlplane.CreateNotebookInstanceRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	now := f.now()
	f.mtx.Lock()
	f.setup()
	url := req.NotebookInstanceName + ".notebook." + f.Region + ".sagemaker.aws"
	f.mtx.Unlock()
	directInternetAccess := req.DirectInternetAccess
	if directInternetAccess == "" {
		directInternetAccess = mlplane.Enabled
	}
	rootAccess := req.RootAccess
	if rootAccess == "" {
		rootAccess = mlplane.Enabled
	}
	volumeSize := req.VolumeSizeInGB
	if volumeSize == 0 {
		volumeSize = 5
	}
	return f.create(mlplane.KindNotebookInstance, req.NotebookInstanceName, req.Tags, &mlplane.NotebookInstance{
		Name:                  req.NotebookInstanceName,
		ARN:                   f.ARN(mlplane.KindNotebookInstance, req.NotebookInstanceName),
		Status:                mlplane.NotebookInstanceStatusPending,
		URL:                   url,
		InstanceType:          req.InstanceType,
		SubnetID:              req.SubnetID,
		SecurityGroups:        req.SecurityGroupIDs,
		RoleARN:               req.RoleARN,
		KmsKeyID:              req.KmsKeyID,
		LifecycleConfigName:   req.LifecycleConfigName,
		DirectInternetAccess:  directInternetAccess,
		VolumeSizeInGB:        volumeSize,
		DefaultCodeRepository: req.DefaultCodeRepository,
		RootAccess:            rootAccess,
		CreationTime:          now,
		LastModifiedTime:      &now,
	})
}

func (f *Fake) NotebookInstanceDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.NotebookInstance, error) {
	r, err := f.describe(mlplane.KindNotebookInstance, opts.Name)
	if err != nil {
		return mlplane.NotebookInstance{}, err
	}
	return mlplane.Clone(*r.(*mlplane.NotebookInstance)), nil
}

func (f *Fake) NotebookInstanceList(ctx context.Context, opts mlplane.ListOptions) (mlplane.NotebookInstanceList, error) {
	items, next, err := listPage(f, mlplane.KindNotebookInstance, opts, func(r mlplane.Resource) mlplane.NotebookInstanceSummary {
		return r.(*mlplane.NotebookInstance).Summary()
	})
	return mlplane.NotebookInstanceList{Items: items, NextToken: next}, err
}

// notebookTransition applies fn to the named notebook instance if it
// is in one of the from statuses, then moves it to status to.
func (f *Fake) notebookTransition(name, verb string, to mlplane.NotebookInstanceStatus, fn func(*mlplane.NotebookInstance), from ...mlplane.NotebookInstanceStatus) error {
	if err := mlplane.ValidateName(mlplane.KindNotebookInstance, name); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookup(mlplane.KindNotebookInstance, name)
	if err != nil {
		return err
	}
	nb := r.(*mlplane.NotebookInstance)
	ok := false
	for _, st := range from {
		ok = ok || nb.Status == st
	}
	if !ok {
		return &mlplane.ResourceInUseError{Kind: mlplane.KindNotebookInstance, Name: name, Reason: "cannot " + verb + " in status " + nb.Status.String()}
	}
	if fn != nil {
		fn(nb)
	}
	return f.setStatus(nb, to.String())
}

// NotebookInstanceUpdate changes the settings of a Stopped notebook
// instance, leaving it Updating.
func (f *Fake) NotebookInstanceUpdate(ctx context.Context, req mlplane.UpdateNotebookInstanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return f.notebookTransition(req.NotebookInstanceName, "update", mlplane.NotebookInstanceStatusUpdating, func(nb *mlplane.NotebookInstance) {
		if req.InstanceType != "" {
			nb.InstanceType = req.InstanceType
		}
		if req.RoleARN != "" {
			nb.RoleARN = req.RoleARN
		}
		if req.LifecycleConfigName != "" {
			nb.LifecycleConfigName = req.LifecycleConfigName
		}
		if req.DisassociateLifecycleConfig {
			nb.LifecycleConfigName = ""
		}
		if req.VolumeSizeInGB != 0 {
			nb.VolumeSizeInGB = req.VolumeSizeInGB
		}
		if req.DefaultCodeRepository != "" {
			nb.DefaultCodeRepository = req.DefaultCodeRepository
		}
		if req.RootAccess != "" {
			nb.RootAccess = req.RootAccess
		}
	}, mlplane.NotebookInstanceStatusStopped)
}

func (f *Fake) NotebookInstanceStart(ctx context.Context, opts mlplane.GetOptions) error {
	return f.notebookTransition(opts.Name, "start", mlplane.NotebookInstanceStatusPending, nil,
		mlplane.NotebookInstanceStatusStopped, mlplane.NotebookInstanceStatusFailed)
}

func (f *Fake) NotebookInstanceStop(ctx context.Context, opts mlplane.GetOptions) error {
	return f.notebookTransition(opts.Name, "stop", mlplane.NotebookInstanceStatusStopping, nil,
		mlplane.NotebookInstanceStatusInService)
}

// NotebookInstanceDelete removes a Stopped or Failed notebook
// instance.
func (f *Fake) NotebookInstanceDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	return f.remove(mlplane.KindNotebookInstance, opts.Name, func(st mlplane.Status) bool {
		return st == mlplane.NotebookInstanceStatusStopped || st == mlplane.NotebookInstanceStatusFailed
	})
}

func (f *Fake) ModelCreate(ctx context.Context, req mlplane.CreateModelRequest) (mlplane.ResourceRef, error) {
	if err := req.Validate(); err != nil {
		return mlplane.ResourceRef{}, err
	}
	req = mlplane.Clone(req)
	return f.create(mlplane.KindModel, req.ModelName, req.Tags, &mlplane.Model{
		Name:                   req.ModelName,
		ARN:                    f.ARN(mlplane.KindModel, req.ModelName),
		PrimaryContainer:       req.PrimaryContainer,
		Containers:             req.Containers,
		ExecutionRoleARN:       req.ExecutionRoleARN,
		VpcConfig:              req.VpcConfig,
		CreationTime:           f.now(),
		EnableNetworkIsolation: req.EnableNetworkIsolation,
	})
}

func (f *Fake) ModelDescribe(ctx context.Context, opts mlplane.GetOptions) (mlplane.Model, error) {
	r, err := f.describe(mlplane.KindModel, opts.Name)
	if err != nil {
		return mlplane.Model{}, err
	}
	return mlplane.Clone(*r.(*mlplane.Model)), nil
}

func (f *Fake) ModelList(ctx context.Context, opts mlplane.ListOptions) (mlplane.ModelList, error) {
	items, next, err := listPage(f, mlplane.KindModel, opts, func(r mlplane.Resource) mlplane.ModelSummary {
		return r.(*mlplane.Model).Summary()
	})
	return mlplane.ModelList{Items: items, NextToken: next}, err
}

func (f *Fake) ModelDelete(ctx context.Context, opts mlplane.DeleteOptions) error {
	return f.remove(mlplane.KindModel, opts.Name, nil)
}

// TagsAdd attaches tags to a resource, replacing the values of
// existing keys.
func (f *Fake) TagsAdd(ctx context.Context, opts mlplane.AddTagsOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookupARN(opts.ResourceARN)
	if err != nil {
		return err
	}
	tags := append([]mlplane.Tag(nil), f.tags[opts.ResourceARN]...)
	for _, add := range opts.Tags {
		replaced := false
		for i := range tags {
			if tags[i].Key == add.Key {
				tags[i].Value = add.Value
				replaced = true
			}
		}
		if !replaced {
			tags = append(tags, add)
		}
	}
	if len(tags) > mlplane.MaxTags {
		return mlplane.ValidationErrors{&mlplane.ValidationError{Field: "Tags", Constraint: fmt.Sprintf("resource must have at most %d tags", mlplane.MaxTags), Value: len(tags)}}
	}
	f.setTags(r, tags)
	return nil
}

// TagsList returns a page of a resource's tags, in the order they
// were added.
func (f *Fake) TagsList(ctx context.Context, opts mlplane.ListTagsOptions) (mlplane.TagList, error) {
	if err := opts.Validate(); err != nil {
		return mlplane.TagList{}, err
	}
	offset, err := decodeToken(opts.NextToken)
	if err != nil {
		return mlplane.TagList{}, err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	if _, err := f.lookupARN(opts.ResourceARN); err != nil {
		return mlplane.TagList{}, err
	}
	limit := DefaultMaxTagResults
	if opts.MaxResults != nil {
		limit = *opts.MaxResults
	}
	tags := f.tags[opts.ResourceARN]
	window, next := paginate(len(tags), offset, limit)
	return mlplane.TagList{
		Tags:      append([]mlplane.Tag{}, tags[window.start:window.end]...),
		NextToken: next,
	}, nil
}

// TagsDelete removes tags by key. Keys that are not set are ignored.
func (f *Fake) TagsDelete(ctx context.Context, opts mlplane.DeleteTagsOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.setup()
	r, err := f.lookupARN(opts.ResourceARN)
	if err != nil {
		return err
	}
	drop := map[string]bool{}
	for _, k := range opts.TagKeys {
		drop[k] = true
	}
	var keep []mlplane.Tag
	for _, t := range f.tags[opts.ResourceARN] {
		if !drop[t.Key] {
			keep = append(keep, t)
		}
	}
	f.setTags(r, keep)
	return nil
}
