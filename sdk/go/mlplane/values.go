// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

// ResourceConfig describes the compute resources of a training job.
type ResourceConfig struct {
	InstanceType   string `json:"InstanceType"`
	InstanceCount  int    `json:"InstanceCount"`
	VolumeSizeInGB int    `json:"VolumeSizeInGB"`
	VolumeKmsKeyID string `json:"VolumeKmsKeyId,omitempty"`
}

func (rc ResourceConfig) check(v *validator, path string) {
	if v.required(join(path, "InstanceType"), rc.InstanceType) {
		v.pattern(join(path, "InstanceType"), rc.InstanceType, instanceTypeRegexp)
	}
	v.intMin(join(path, "InstanceCount"), int64(rc.InstanceCount), 1)
	v.intMin(join(path, "VolumeSizeInGB"), int64(rc.VolumeSizeInGB), 1)
	v.kmsKeyID(join(path, "VolumeKmsKeyId"), rc.VolumeKmsKeyID)
}

// StoppingCondition limits how long a job may run. MaxWaitTimeInSeconds
// applies only to managed spot training, and must not be less than
// MaxRuntimeInSeconds.
type StoppingCondition struct {
	MaxRuntimeInSeconds  int `json:"MaxRuntimeInSeconds,omitempty"`
	MaxWaitTimeInSeconds int `json:"MaxWaitTimeInSeconds,omitempty"`
}

func (sc StoppingCondition) check(v *validator, path string) {
	v.intMin(join(path, "MaxRuntimeInSeconds"), int64(sc.MaxRuntimeInSeconds), 1)
	if sc.MaxWaitTimeInSeconds != 0 {
		v.intMin(join(path, "MaxWaitTimeInSeconds"), int64(sc.MaxWaitTimeInSeconds), int64(sc.MaxRuntimeInSeconds))
	}
}

// VpcConfig attaches a resource to subnets and security groups of the
// caller's VPC.
type VpcConfig struct {
	SecurityGroupIDs []string `json:"SecurityGroupIds"`
	Subnets          []string `json:"Subnets"`
}

func (vc VpcConfig) check(v *validator, path string) {
	v.listLen(join(path, "SecurityGroupIds"), len(vc.SecurityGroupIDs), 1, 5)
	for _, id := range vc.SecurityGroupIDs {
		v.length(join(path, "SecurityGroupIds"), id, 1, 32)
		v.pattern(join(path, "SecurityGroupIds"), id, vpcIDRegexp)
	}
	v.listLen(join(path, "Subnets"), len(vc.Subnets), 1, 16)
	for _, id := range vc.Subnets {
		v.length(join(path, "Subnets"), id, 1, 32)
		v.pattern(join(path, "Subnets"), id, vpcIDRegexp)
	}
}

// S3DataSource locates input data in S3.
type S3DataSource struct {
	S3DataType     S3DataType `json:"S3DataType"`
	S3URI          string     `json:"S3Uri"`
	AttributeNames []string   `json:"AttributeNames,omitempty"`
}

func (ds S3DataSource) check(v *validator, path string) {
	if v.required(join(path, "S3DataType"), string(ds.S3DataType)) {
		checkEnum(v, join(path, "S3DataType"), s3DataTypes, ds.S3DataType)
	}
	if v.required(join(path, "S3Uri"), ds.S3URI) {
		v.s3URI(join(path, "S3Uri"), ds.S3URI)
	}
	v.listLen(join(path, "AttributeNames"), len(ds.AttributeNames), 0, 16)
}

// DataSource is the location of a channel's data.
type DataSource struct {
	S3DataSource *S3DataSource `json:"S3DataSource,omitempty"`
}

func (ds DataSource) check(v *validator, path string) {
	if ds.S3DataSource == nil {
		v.fail(join(path, "S3DataSource"), "is required", nil)
		return
	}
	ds.S3DataSource.check(v, join(path, "S3DataSource"))
}

// Channel is a named input of a training job.
type Channel struct {
	ChannelName     string            `json:"ChannelName"`
	DataSource      DataSource        `json:"DataSource"`
	ContentType     string            `json:"ContentType,omitempty"`
	CompressionType CompressionType   `json:"CompressionType,omitempty"`
	InputMode       TrainingInputMode `json:"InputMode,omitempty"`
}

func (c Channel) check(v *validator, path string) {
	if v.required(join(path, "ChannelName"), c.ChannelName) {
		v.length(join(path, "ChannelName"), c.ChannelName, 1, 64)
		v.pattern(join(path, "ChannelName"), c.ChannelName, channelNameRegexp)
	}
	c.DataSource.check(v, join(path, "DataSource"))
	v.length(join(path, "ContentType"), c.ContentType, 0, 256)
	checkEnum(v, join(path, "CompressionType"), compressionTypes, c.CompressionType)
	checkEnum(v, join(path, "InputMode"), trainingInputModes, c.InputMode)
}

// OutputDataConfig says where a job writes its artifacts.
type OutputDataConfig struct {
	KmsKeyID     string `json:"KmsKeyId,omitempty"`
	S3OutputPath string `json:"S3OutputPath"`
}

func (oc OutputDataConfig) check(v *validator, path string) {
	v.kmsKeyID(join(path, "KmsKeyId"), oc.KmsKeyID)
	if v.required(join(path, "S3OutputPath"), oc.S3OutputPath) {
		v.s3URI(join(path, "S3OutputPath"), oc.S3OutputPath)
	}
}

// MetricDefinition tells the service how to extract a metric from a
// training container's log output.
type MetricDefinition struct {
	Name  string `json:"Name"`
	Regex string `json:"Regex"`
}

func (md MetricDefinition) check(v *validator, path string) {
	if v.required(join(path, "Name"), md.Name) {
		v.length(join(path, "Name"), md.Name, 1, 255)
	}
	if v.required(join(path, "Regex"), md.Regex) {
		v.length(join(path, "Regex"), md.Regex, 1, 500)
	}
}

// CheckpointConfig says where a training job saves checkpoints.
type CheckpointConfig struct {
	S3URI     string `json:"S3Uri"`
	LocalPath string `json:"LocalPath,omitempty"`
}

func (cc CheckpointConfig) check(v *validator, path string) {
	if v.required(join(path, "S3Uri"), cc.S3URI) {
		v.s3URI(join(path, "S3Uri"), cc.S3URI)
	}
	v.length(join(path, "LocalPath"), cc.LocalPath, 0, 4096)
}

// ModelArtifacts locates the output of a finished training job.
type ModelArtifacts struct {
	S3ModelArtifacts string `json:"S3ModelArtifacts"`
}
