// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "fmt"

// Status is implemented by the status enumeration of every resource
// kind that has one.
//
// Terminal reports a state the service never moves a resource out of
// (a finished job). Settled reports a state a poller can stop waiting
// at: for jobs it is the same as Terminal, for endpoints and notebook
// instances it is a stable state that a later request may still
// change (InService, Stopped, ...). A status that is not Known is
// neither.
type Status interface {
	fmt.Stringer
	Known() bool
	Terminal() bool
	Settled() bool
}

// TrainingJobStatus is the primary status of a training job.
type TrainingJobStatus string

const (
	TrainingJobStatusInProgress = TrainingJobStatus("InProgress")
	TrainingJobStatusCompleted  = TrainingJobStatus("Completed")
	TrainingJobStatusFailed     = TrainingJobStatus("Failed")
	TrainingJobStatusStopping   = TrainingJobStatus("Stopping")
	TrainingJobStatusStopped    = TrainingJobStatus("Stopped")
)

var trainingJobStatuses = enumType[TrainingJobStatus]{"TrainingJobStatus", []TrainingJobStatus{
	TrainingJobStatusInProgress,
	TrainingJobStatusCompleted,
	TrainingJobStatusFailed,
	TrainingJobStatusStopping,
	TrainingJobStatusStopped,
}}

func ParseTrainingJobStatus(s string) (TrainingJobStatus, error) { return trainingJobStatuses.parse(s) }
func (s TrainingJobStatus) Values() []TrainingJobStatus          { return trainingJobStatuses.values() }
func (s TrainingJobStatus) Known() bool                          { return trainingJobStatuses.known(s) }
func (s TrainingJobStatus) String() string                       { return string(s) }
func (s TrainingJobStatus) Settled() bool                        { return s.Terminal() }

func (s TrainingJobStatus) Terminal() bool {
	switch s {
	case TrainingJobStatusCompleted, TrainingJobStatusFailed, TrainingJobStatusStopped:
		return true
	}
	return false
}

// SecondaryStatus is the detailed progress of a training job. It
// refines TrainingJobStatus and is informational only.
type SecondaryStatus string

const (
	SecondaryStatusStarting                 = SecondaryStatus("Starting")
	SecondaryStatusLaunchingMLInstances     = SecondaryStatus("LaunchingMLInstances")
	SecondaryStatusPreparingTrainingStack   = SecondaryStatus("PreparingTrainingStack")
	SecondaryStatusDownloading              = SecondaryStatus("Downloading")
	SecondaryStatusDownloadingTrainingImage = SecondaryStatus("DownloadingTrainingImage")
	SecondaryStatusTraining                 = SecondaryStatus("Training")
	SecondaryStatusUploading                = SecondaryStatus("Uploading")
	SecondaryStatusStopping                 = SecondaryStatus("Stopping")
	SecondaryStatusStopped                  = SecondaryStatus("Stopped")
	SecondaryStatusMaxRuntimeExceeded       = SecondaryStatus("MaxRuntimeExceeded")
	SecondaryStatusCompleted                = SecondaryStatus("Completed")
	SecondaryStatusFailed                   = SecondaryStatus("Failed")
	SecondaryStatusInterrupted              = SecondaryStatus("Interrupted")
	SecondaryStatusMaxWaitTimeExceeded      = SecondaryStatus("MaxWaitTimeExceeded")
)

var secondaryStatuses = enumType[SecondaryStatus]{"SecondaryStatus", []SecondaryStatus{
	SecondaryStatusStarting,
	SecondaryStatusLaunchingMLInstances,
	SecondaryStatusPreparingTrainingStack,
	SecondaryStatusDownloading,
	SecondaryStatusDownloadingTrainingImage,
	SecondaryStatusTraining,
	SecondaryStatusUploading,
	SecondaryStatusStopping,
	SecondaryStatusStopped,
	SecondaryStatusMaxRuntimeExceeded,
	SecondaryStatusCompleted,
	SecondaryStatusFailed,
	SecondaryStatusInterrupted,
	SecondaryStatusMaxWaitTimeExceeded,
}}

func ParseSecondaryStatus(s string) (SecondaryStatus, error) { return secondaryStatuses.parse(s) }
func (s SecondaryStatus) Values() []SecondaryStatus          { return secondaryStatuses.values() }
func (s SecondaryStatus) Known() bool                        { return secondaryStatuses.known(s) }
func (s SecondaryStatus) String() string                     { return string(s) }

// TuningJobStatus is the status of a hyperparameter tuning job.
type TuningJobStatus string

const (
	TuningJobStatusCompleted  = TuningJobStatus("Completed")
	TuningJobStatusInProgress = TuningJobStatus("InProgress")
	TuningJobStatusFailed     = TuningJobStatus("Failed")
	TuningJobStatusStopped    = TuningJobStatus("Stopped")
	TuningJobStatusStopping   = TuningJobStatus("Stopping")
)

var tuningJobStatuses = enumType[TuningJobStatus]{"HyperParameterTuningJobStatus", []TuningJobStatus{
	TuningJobStatusCompleted,
	TuningJobStatusInProgress,
	TuningJobStatusFailed,
	TuningJobStatusStopped,
	TuningJobStatusStopping,
}}

func ParseTuningJobStatus(s string) (TuningJobStatus, error) { return tuningJobStatuses.parse(s) }
func (s TuningJobStatus) Values() []TuningJobStatus          { return tuningJobStatuses.values() }
func (s TuningJobStatus) Known() bool                        { return tuningJobStatuses.known(s) }
func (s TuningJobStatus) String() string                     { return string(s) }
func (s TuningJobStatus) Settled() bool                      { return s.Terminal() }

func (s TuningJobStatus) Terminal() bool {
	switch s {
	case TuningJobStatusCompleted, TuningJobStatusFailed, TuningJobStatusStopped:
		return true
	}
	return false
}

// LabelingJobStatus is the status of a labeling job.
type LabelingJobStatus string

const (
	LabelingJobStatusInitializing = LabelingJobStatus("Initializing")
	LabelingJobStatusInProgress   = LabelingJobStatus("InProgress")
	LabelingJobStatusCompleted    = LabelingJobStatus("Completed")
	LabelingJobStatusFailed       = LabelingJobStatus("Failed")
	LabelingJobStatusStopping     = LabelingJobStatus("Stopping")
	LabelingJobStatusStopped      = LabelingJobStatus("Stopped")
)

var labelingJobStatuses = enumType[LabelingJobStatus]{"LabelingJobStatus", []LabelingJobStatus{
	LabelingJobStatusInitializing,
	LabelingJobStatusInProgress,
	LabelingJobStatusCompleted,
	LabelingJobStatusFailed,
	LabelingJobStatusStopping,
	LabelingJobStatusStopped,
}}

func ParseLabelingJobStatus(s string) (LabelingJobStatus, error) { return labelingJobStatuses.parse(s) }
func (s LabelingJobStatus) Values() []LabelingJobStatus          { return labelingJobStatuses.values() }
func (s LabelingJobStatus) Known() bool                          { return labelingJobStatuses.known(s) }
func (s LabelingJobStatus) String() string                       { return string(s) }
func (s LabelingJobStatus) Settled() bool                        { return s.Terminal() }

func (s LabelingJobStatus) Terminal() bool {
	switch s {
	case LabelingJobStatusCompleted, LabelingJobStatusFailed, LabelingJobStatusStopped:
		return true
	}
	return false
}

// TransformJobStatus is the status of a batch transform job.
type TransformJobStatus string

const (
	TransformJobStatusInProgress = TransformJobStatus("InProgress")
	TransformJobStatusCompleted  = TransformJobStatus("Completed")
	TransformJobStatusFailed     = TransformJobStatus("Failed")
	TransformJobStatusStopping   = TransformJobStatus("Stopping")
	TransformJobStatusStopped    = TransformJobStatus("Stopped")
)

var transformJobStatuses = enumType[TransformJobStatus]{"TransformJobStatus", []TransformJobStatus{
	TransformJobStatusInProgress,
	TransformJobStatusCompleted,
	TransformJobStatusFailed,
	TransformJobStatusStopping,
	TransformJobStatusStopped,
}}

func ParseTransformJobStatus(s string) (TransformJobStatus, error) { return transformJobStatuses.parse(s) }
func (s TransformJobStatus) Values() []TransformJobStatus          { return transformJobStatuses.values() }
func (s TransformJobStatus) Known() bool                           { return transformJobStatuses.known(s) }
func (s TransformJobStatus) String() string                        { return string(s) }
func (s TransformJobStatus) Settled() bool                         { return s.Terminal() }

func (s TransformJobStatus) Terminal() bool {
	switch s {
	case TransformJobStatusCompleted, TransformJobStatusFailed, TransformJobStatusStopped:
		return true
	}
	return false
}

// EndpointStatus is the status of a hosted endpoint. An endpoint has
// no terminal status: even a failed endpoint moves to Deleting when
// it is deleted.
type EndpointStatus string

const (
	EndpointStatusOutOfService   = EndpointStatus("OutOfService")
	EndpointStatusCreating       = EndpointStatus("Creating")
	EndpointStatusUpdating       = EndpointStatus("Updating")
	EndpointStatusSystemUpdating = EndpointStatus("SystemUpdating")
	EndpointStatusRollingBack    = EndpointStatus("RollingBack")
	EndpointStatusInService      = EndpointStatus("InService")
	EndpointStatusDeleting       = EndpointStatus("Deleting")
	EndpointStatusFailed         = EndpointStatus("Failed")
)

var endpointStatuses = enumType[EndpointStatus]{"EndpointStatus", []EndpointStatus{
	EndpointStatusOutOfService,
	EndpointStatusCreating,
	EndpointStatusUpdating,
	EndpointStatusSystemUpdating,
	EndpointStatusRollingBack,
	EndpointStatusInService,
	EndpointStatusDeleting,
	EndpointStatusFailed,
}}

func ParseEndpointStatus(s string) (EndpointStatus, error) { return endpointStatuses.parse(s) }
func (s EndpointStatus) Values() []EndpointStatus          { return endpointStatuses.values() }
func (s EndpointStatus) Known() bool                       { return endpointStatuses.known(s) }
func (s EndpointStatus) String() string                    { return string(s) }
func (s EndpointStatus) Terminal() bool                    { return false }

func (s EndpointStatus) Settled() bool {
	switch s {
	case EndpointStatusInService, EndpointStatusOutOfService, EndpointStatusFailed:
		return true
	}
	return false
}

// NotebookInstanceStatus is the status of a notebook instance. Like
// endpoints, notebook instances have no terminal status: a stopped
// instance can be started again.
type NotebookInstanceStatus string

const (
	NotebookInstanceStatusPending   = NotebookInstanceStatus("Pending")
	NotebookInstanceStatusInService = NotebookInstanceStatus("InService")
	NotebookInstanceStatusStopping  = NotebookInstanceStatus("Stopping")
	NotebookInstanceStatusStopped   = NotebookInstanceStatus("Stopped")
	NotebookInstanceStatusFailed    = NotebookInstanceStatus("Failed")
	NotebookInstanceStatusDeleting  = NotebookInstanceStatus("Deleting")
	NotebookInstanceStatusUpdating  = NotebookInstanceStatus("Updating")
)

var notebookInstanceStatuses = enumType[NotebookInstanceStatus]{"NotebookInstanceStatus", []NotebookInstanceStatus{
	NotebookInstanceStatusPending,
	NotebookInstanceStatusInService,
	NotebookInstanceStatusStopping,
	NotebookInstanceStatusStopped,
	NotebookInstanceStatusFailed,
	NotebookInstanceStatusDeleting,
	NotebookInstanceStatusUpdating,
}}

func ParseNotebookInstanceStatus(s string) (NotebookInstanceStatus, error) {
	return notebookInstanceStatuses.parse(s)
}
func (s NotebookInstanceStatus) Values() []NotebookInstanceStatus { return notebookInstanceStatuses.values() }
func (s NotebookInstanceStatus) Known() bool                      { return notebookInstanceStatuses.known(s) }
func (s NotebookInstanceStatus) String() string                   { return string(s) }
func (s NotebookInstanceStatus) Terminal() bool                   { return false }

func (s NotebookInstanceStatus) Settled() bool {
	switch s {
	case NotebookInstanceStatusInService, NotebookInstanceStatusStopped, NotebookInstanceStatusFailed:
		return true
	}
	return false
}
