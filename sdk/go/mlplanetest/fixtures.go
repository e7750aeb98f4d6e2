// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplanetest

import (
	"fmt"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
)

// IDs of fixtures
const (
	RoleARN        = "arn:aws:iam::123456789012:role/service-role/MLPlaneRole"
	TrainingImage  = "123456789012.dkr.ecr.us-east-1.amazonaws.com/xgboost:1"
	WorkteamARN    = "arn:aws:sagemaker:us-east-1:123456789012:workteam/private-crowd/labelers"
	PreLambdaARN   = "arn:aws:lambda:us-east-1:432418664414:function:PRE-BoundingBox"
	ACSLambdaARN   = "arn:aws:lambda:us-east-1:432418664414:function:ACS-BoundingBox"
	EndpointConfig = "xgb-endpoint-config"

	// Number of training jobs stored by LoadTrainingJobScenario,
	// and how many of them are named "prod-..." and Completed.
	ScenarioTrainingJobs      = 120
	ScenarioProdCompletedJobs = 60
)

// Epoch is the creation time of the first scenario resource.
var Epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func trainingChannel() mlplane.Channel {
	return mlplane.Channel{
		ChannelName: "train",
		DataSource: mlplane.DataSource{S3DataSource: &mlplane.S3DataSource{
			S3DataType: mlplane.S3DataTypeS3Prefix,
			S3URI:      "s3://mlplane-test/train/",
		}},
	}
}

// TrainingJobRequest returns a valid request to create the named
// training job.
func TrainingJobRequest(name string) mlplane.CreateTrainingJobRequest {
	return mlplane.CreateTrainingJobRequest{
		TrainingJobName:        name,
		HyperParameters:        map[string]string{"eta": "0.2", "max_depth": "5"},
		AlgorithmSpecification: mlplane.TrainingImageAlgorithm(TrainingImage, mlplane.TrainingInputModeFile),
		RoleARN:                RoleARN,
		InputDataConfig:        []mlplane.Channel{trainingChannel()},
		OutputDataConfig:       mlplane.OutputDataConfig{S3OutputPath: "s3://mlplane-test/output/"},
		ResourceConfig:         mlplane.ResourceConfig{InstanceType: "ml.m5.xlarge", InstanceCount: 1, VolumeSizeInGB: 10},
		StoppingCondition:      mlplane.StoppingCondition{MaxRuntimeInSeconds: 3600},
		Tags:                   []mlplane.Tag{{Key: "team", Value: "ml"}},
	}
}

// TuningJobRequest returns a valid request to create the named tuning
// job.
func TuningJobRequest(name string) mlplane.CreateTuningJobRequest {
	return mlplane.CreateTuningJobRequest{
		TuningJobName: name,
		TuningJobConfig: mlplane.TuningJobConfig{
			Strategy:       mlplane.TuningStrategyBayesian,
			Objective:      &mlplane.TuningObjective{Type: mlplane.ObjectiveMinimize, MetricName: "validation:rmse"},
			ResourceLimits: mlplane.ResourceLimits{MaxNumberOfTrainingJobs: 20, MaxParallelTrainingJobs: 2},
		},
		TrainingJobDefinition: &mlplane.TuningTrainingJobDefinition{
			StaticHyperParameters:  map[string]string{"objective": "reg:linear"},
			AlgorithmSpecification: mlplane.TrainingImageAlgorithm(TrainingImage, mlplane.TrainingInputModeFile),
			RoleARN:                RoleARN,
			InputDataConfig:        []mlplane.Channel{trainingChannel()},
			OutputDataConfig:       mlplane.OutputDataConfig{S3OutputPath: "s3://mlplane-test/tuning/"},
			ResourceConfig:         mlplane.ResourceConfig{InstanceType: "ml.m5.xlarge", InstanceCount: 1, VolumeSizeInGB: 10},
			StoppingCondition:      mlplane.StoppingCondition{MaxRuntimeInSeconds: 3600},
		},
	}
}

// LabelingJobRequest returns a valid request to create the named
// labeling job.
func LabelingJobRequest(name string) mlplane.CreateLabelingJobRequest {
	return mlplane.CreateLabelingJobRequest{
		LabelingJobName:    name,
		LabelAttributeName: "bounding-box",
		InputConfig: mlplane.LabelingJobInputConfig{DataSource: mlplane.LabelingJobDataSource{
			S3DataSource: mlplane.LabelingJobS3DataSource{ManifestS3URI: "s3://mlplane-test/labeling/input.manifest"},
		}},
		OutputConfig: mlplane.LabelingJobOutputConfig{S3OutputPath: "s3://mlplane-test/labeling/output/"},
		RoleARN:      RoleARN,
		HumanTaskConfig: mlplane.HumanTaskConfig{
			WorkteamARN:                       WorkteamARN,
			UiConfig:                          mlplane.UiConfig{UiTemplateS3URI: "s3://mlplane-test/labeling/template.liquid"},
			PreHumanTaskLambdaARN:             PreLambdaARN,
			TaskTitle:                         "Draw boxes",
			TaskDescription:                   "Draw a box around each car",
			NumberOfHumanWorkersPerDataObject: 3,
			TaskTimeLimitInSeconds:            300,
			AnnotationConsolidationConfig:     mlplane.AnnotationConsolidationConfig{AnnotationConsolidationLambdaARN: ACSLambdaARN},
		},
	}
}

// TransformJobRequest returns a valid request to create the named
// transform job.
func TransformJobRequest(name string) mlplane.CreateTransformJobRequest {
	return mlplane.CreateTransformJobRequest{
		TransformJobName: name,
		ModelName:        "xgb-model",
		BatchStrategy:    mlplane.BatchStrategyMultiRecord,
		TransformInput: mlplane.TransformInput{
			DataSource: mlplane.TransformDataSource{S3DataSource: mlplane.S3DataSource{
				S3DataType: mlplane.S3DataTypeS3Prefix,
				S3URI:      "s3://mlplane-test/batch/input/",
			}},
			ContentType: "text/csv",
		},
		TransformOutput:    mlplane.TransformOutput{S3OutputPath: "s3://mlplane-test/batch/output/"},
		TransformResources: mlplane.TransformResources{InstanceType: "ml.m5.large", InstanceCount: 1},
	}
}

// EndpointRequest returns a valid request to create the named
// endpoint.
func EndpointRequest(name string) mlplane.CreateEndpointRequest {
	return mlplane.CreateEndpointRequest{EndpointName: name, EndpointConfigName: EndpointConfig}
}

// NotebookInstanceRequest returns a valid request to create the named
// notebook instance.
func NotebookInstanceRequest(name string) mlplane.CreateNotebookInstanceRequest {
	return mlplane.CreateNotebookInstanceRequest{
		NotebookInstanceName: name,
		InstanceType:         "ml.t3.medium",
		RoleARN:              RoleARN,
	}
}

// ModelRequest returns a valid request to create the named model.
func ModelRequest(name string) mlplane.CreateModelRequest {
	return mlplane.CreateModelRequest{
		ModelName: name,
		PrimaryContainer: &mlplane.ContainerDefinition{
			Image:        TrainingImage,
			ModelDataURL: "s3://mlplane-test/output/model.tar.gz",
		},
		ExecutionRoleARN: RoleARN,
	}
}

// LoadTrainingJobScenario stores ScenarioTrainingJobs training jobs
// created one minute apart starting at Epoch. Even-numbered jobs are
// named "prod-xgb-NNN" and Completed. Odd-numbered jobs are named
// "dev-xgb-NNN" and alternate between InProgress and Failed.
func LoadTrainingJobScenario(f *Fake) {
	for i := 0; i < ScenarioTrainingJobs; i++ {
		created := Epoch.Add(time.Duration(i) * time.Minute)
		modified := created.Add(30 * time.Second)
		job := mlplane.TrainingJob{
			CreationTime:     created,
			LastModifiedTime: &modified,
			ResourceConfig:   mlplane.ResourceConfig{InstanceType: "ml.m5.xlarge", InstanceCount: 1, VolumeSizeInGB: 10},
		}
		switch {
		case i%2 == 0:
			job.Name = fmt.Sprintf("prod-xgb-%03d", i)
			job.Status = mlplane.TrainingJobStatusCompleted
			job.SecondaryStatus = mlplane.SecondaryStatusCompleted
			job.TrainingEndTime = &modified
		case i%4 == 1:
			job.Name = fmt.Sprintf("dev-xgb-%03d", i)
			job.Status = mlplane.TrainingJobStatusInProgress
			job.SecondaryStatus = mlplane.SecondaryStatusTraining
		default:
			job.Name = fmt.Sprintf("dev-xgb-%03d", i)
			job.Status = mlplane.TrainingJobStatusFailed
			job.SecondaryStatus = mlplane.SecondaryStatusFailed
			job.FailureReason = "AlgorithmError: out of memory"
			job.TrainingEndTime = &modified
		}
		f.Put(job)
	}
}
