// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// ContainerDefinition is a container that serves a model.
type ContainerDefinition struct {
	ContainerHostname string            `json:"ContainerHostname,omitempty"`
	Image             string            `json:"Image,omitempty"`
	ModelDataURL      string            `json:"ModelDataUrl,omitempty"`
	Environment       map[string]string `json:"Environment,omitempty"`
	ModelPackageName  string            `json:"ModelPackageName,omitempty"`
}

func (cd ContainerDefinition) check(v *validator, path string) {
	v.length(join(path, "ContainerHostname"), cd.ContainerHostname, 0, 63)
	v.pattern(join(path, "ContainerHostname"), cd.ContainerHostname, nameRegexp)
	v.length(join(path, "Image"), cd.Image, 0, 255)
	v.pattern(join(path, "Image"), cd.Image, imageRegexp)
	if cd.Image == "" && cd.ModelPackageName == "" {
		v.fail(join(path, "Image"), "either Image or ModelPackageName is required", nil)
	}
	if cd.ModelDataURL != "" {
		v.s3URI(join(path, "ModelDataUrl"), cd.ModelDataURL)
	}
	if len(cd.Environment) > 16 {
		v.fail(join(path, "Environment"), "must have at most 16 entries", len(cd.Environment))
	}
	v.checkMap(join(path, "Environment"), cd.Environment, 1024, 1024, envKeyRegexp)
	v.length(join(path, "ModelPackageName"), cd.ModelPackageName, 0, 170)
}

// CreateModelRequest registers a model. Exactly one of
// PrimaryContainer and Containers must be set.
type CreateModelRequest struct {
	ModelName              string                `json:"ModelName"`
	PrimaryContainer       *ContainerDefinition  `json:"PrimaryContainer,omitempty"`
	Containers             []ContainerDefinition `json:"Containers,omitempty"`
	ExecutionRoleARN       string                `json:"ExecutionRoleArn"`
	Tags                   []Tag                 `json:"Tags,omitempty"`
	VpcConfig              *VpcConfig            `json:"VpcConfig,omitempty"`
	EnableNetworkIsolation bool                  `json:"EnableNetworkIsolation,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateModelRequest) Validate() error { return validate(r) }

func (r CreateModelRequest) check(v *validator, path string) {
	v.name(join(path, "ModelName"), r.ModelName, KindModel.MaxNameLength())
	switch {
	case r.PrimaryContainer != nil && r.Containers != nil:
		v.fail(join(path, "PrimaryContainer"), "must not be set together with Containers", nil)
	case r.PrimaryContainer == nil && r.Containers == nil:
		v.fail(join(path, "PrimaryContainer"), "either PrimaryContainer or Containers is required", nil)
	}
	if r.PrimaryContainer != nil {
		r.PrimaryContainer.check(v, join(path, "PrimaryContainer"))
	}
	if r.Containers != nil {
		v.listLen(join(path, "Containers"), len(r.Containers), 1, 5)
		checkEach(v, join(path, "Containers"), r.Containers)
	}
	v.roleARN(join(path, "ExecutionRoleArn"), r.ExecutionRoleARN)
	checkTags(v, join(path, "Tags"), r.Tags)
	if r.VpcConfig != nil {
		r.VpcConfig.check(v, join(path, "VpcConfig"))
	}
}

// CreateModelBuilder builds a CreateModelRequest.
type CreateModelBuilder struct {
	req  CreateModelRequest
	errs entryErrors
}

func NewCreateModelBuilder(name string) *CreateModelBuilder {
	return &CreateModelBuilder{req: CreateModelRequest{ModelName: name}}
}

func (b *CreateModelBuilder) WithPrimaryContainer(cd ContainerDefinition) *CreateModelBuilder {
	b.req.PrimaryContainer = &cd
	b.errs.forget("PrimaryContainer.Environment")
	return b
}

func (b *CreateModelBuilder) primary() *ContainerDefinition {
	if b.req.PrimaryContainer == nil {
		b.req.PrimaryContainer = &ContainerDefinition{}
	}
	return b.req.PrimaryContainer
}

// AddEnvironmentEntry adds an environment variable to the primary
// container, recording a DuplicateKeyError if it is already set.
func (b *CreateModelBuilder) AddEnvironmentEntry(key, value string) *CreateModelBuilder {
	b.errs.record("PrimaryContainer.Environment", addEntry("PrimaryContainer.Environment", &b.primary().Environment, key, value))
	return b
}

// ClearEnvironmentEntries unsets the primary container's environment.
func (b *CreateModelBuilder) ClearEnvironmentEntries() *CreateModelBuilder {
	if b.req.PrimaryContainer != nil {
		b.req.PrimaryContainer.Environment = nil
	}
	b.errs.forget("PrimaryContainer.Environment")
	return b
}

// AddContainer appends a container to an inference pipeline.
func (b *CreateModelBuilder) AddContainer(cd ContainerDefinition) *CreateModelBuilder {
	b.req.Containers = append(b.req.Containers, cd)
	return b
}

func (b *CreateModelBuilder) WithExecutionRoleARN(arn string) *CreateModelBuilder {
	b.req.ExecutionRoleARN = arn
	return b
}

func (b *CreateModelBuilder) WithVpcConfig(vc VpcConfig) *CreateModelBuilder {
	b.req.VpcConfig = &vc
	return b
}

func (b *CreateModelBuilder) WithNetworkIsolation(enable bool) *CreateModelBuilder {
	b.req.EnableNetworkIsolation = enable
	return b
}

func (b *CreateModelBuilder) WithTags(tags ...Tag) *CreateModelBuilder {
	b.req.Tags = tags
	return b
}

// Build returns a copy of the request, or a ValidationErrors.
func (b *CreateModelBuilder) Build() (CreateModelRequest, error) {
	return build(b.req, b.errs.flatten())
}

// Model is the result of describing a model. Models have no status.
type Model struct {
	Name                   string                `json:"ModelName"`
	ARN                    string                `json:"ModelArn"`
	PrimaryContainer       *ContainerDefinition  `json:"PrimaryContainer,omitempty"`
	Containers             []ContainerDefinition `json:"Containers,omitempty"`
	ExecutionRoleARN       string                `json:"ExecutionRoleArn"`
	VpcConfig              *VpcConfig            `json:"VpcConfig,omitempty"`
	CreationTime           time.Time             `json:"CreationTime"`
	EnableNetworkIsolation bool                  `json:"EnableNetworkIsolation,omitempty"`
}

func (m Model) ResourceKind() ResourceKind { return KindModel }
func (m Model) ResourceName() string       { return m.Name }
func (m Model) ResourceARN() string        { return m.ARN }
func (m Model) CreatedAt() time.Time       { return m.CreationTime }
func (m Model) ModifiedAt() time.Time      { return time.Time{} }
func (m Model) ResourceStatus() Status     { return nil }

// Summary returns the list projection of m.
func (m Model) Summary() ModelSummary {
	return ModelSummary{Name: m.Name, ARN: m.ARN, CreationTime: m.CreationTime}
}

// ModelSummary is a model as returned by List.
type ModelSummary struct {
	Name         string    `json:"ModelName"`
	ARN          string    `json:"ModelArn"`
	CreationTime time.Time `json:"CreationTime"`
}

func (s ModelSummary) ResourceKind() ResourceKind { return KindModel }
func (s ModelSummary) ResourceName() string       { return s.Name }
func (s ModelSummary) ResourceARN() string        { return s.ARN }
func (s ModelSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s ModelSummary) ModifiedAt() time.Time      { return time.Time{} }
func (s ModelSummary) ResourceStatus() Status     { return nil }

// ModelList is a page of model summaries.
type ModelList struct {
	Items     []ModelSummary `json:"Models"`
	NextToken string         `json:"NextToken,omitempty"`
}

func (l ModelList) PageItems() []ModelSummary { return l.Items }
func (l ModelList) PageToken() string         { return l.NextToken }
