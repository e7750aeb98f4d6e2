// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// CreateNotebookInstanceRequest launches a notebook instance.
type CreateNotebookInstanceRequest struct {
	NotebookInstanceName  string          `json:"NotebookInstanceName"`
	InstanceType          string          `json:"InstanceType"`
	SubnetID              string          `json:"SubnetId,omitempty"`
	SecurityGroupIDs      []string        `json:"SecurityGroupIds,omitempty"`
	RoleARN               string          `json:"RoleArn"`
	KmsKeyID              string          `json:"KmsKeyId,omitempty"`
	Tags                  []Tag           `json:"Tags,omitempty"`
	LifecycleConfigName   string          `json:"LifecycleConfigName,omitempty"`
	DirectInternetAccess  EnabledDisabled `json:"DirectInternetAccess,omitempty"`
	VolumeSizeInGB        int             `json:"VolumeSizeInGB,omitempty"`
	DefaultCodeRepository string          `json:"DefaultCodeRepository,omitempty"`
	RootAccess            EnabledDisabled `json:"RootAccess,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateNotebookInstanceRequest) Validate() error { return validate(r) }

func (r CreateNotebookInstanceRequest) check(v *validator, path string) {
	v.name(join(path, "NotebookInstanceName"), r.NotebookInstanceName, KindNotebookInstance.MaxNameLength())
	if v.required(join(path, "InstanceType"), r.InstanceType) {
		v.pattern(join(path, "InstanceType"), r.InstanceType, instanceTypeRegexp)
	}
	v.length(join(path, "SubnetId"), r.SubnetID, 0, 32)
	v.pattern(join(path, "SubnetId"), r.SubnetID, vpcIDRegexp)
	v.listLen(join(path, "SecurityGroupIds"), len(r.SecurityGroupIDs), 0, 5)
	for _, id := range r.SecurityGroupIDs {
		v.length(join(path, "SecurityGroupIds"), id, 1, 32)
		v.pattern(join(path, "SecurityGroupIds"), id, vpcIDRegexp)
	}
	if len(r.SecurityGroupIDs) > 0 && r.SubnetID == "" {
		v.fail(join(path, "SubnetId"), "is required when SecurityGroupIds is set", nil)
	}
	v.roleARN(join(path, "RoleArn"), r.RoleARN)
	v.kmsKeyID(join(path, "KmsKeyId"), r.KmsKeyID)
	checkTags(v, join(path, "Tags"), r.Tags)
	v.length(join(path, "LifecycleConfigName"), r.LifecycleConfigName, 0, 63)
	v.pattern(join(path, "LifecycleConfigName"), r.LifecycleConfigName, nameRegexp)
	checkEnum(v, join(path, "DirectInternetAccess"), enabledDisabled, r.DirectInternetAccess)
	if r.DirectInternetAccess == Disabled && r.SubnetID == "" {
		v.fail(join(path, "DirectInternetAccess"), "Disabled requires SubnetId", string(r.DirectInternetAccess))
	}
	if r.VolumeSizeInGB != 0 {
		v.intRange(join(path, "VolumeSizeInGB"), int64(r.VolumeSizeInGB), 5, 16384)
	}
	v.length(join(path, "DefaultCodeRepository"), r.DefaultCodeRepository, 0, 1024)
	checkEnum(v, join(path, "RootAccess"), enabledDisabled, r.RootAccess)
}

// CreateNotebookInstanceBuilder builds a CreateNotebookInstanceRequest.
type CreateNotebookInstanceBuilder struct {
	req CreateNotebookInstanceRequest
}

func NewCreateNotebookInstanceBuilder(name string) *CreateNotebookInstanceBuilder {
	return &CreateNotebookInstanceBuilder{req: CreateNotebookInstanceRequest{NotebookInstanceName: name}}
}

func (b *CreateNotebookInstanceBuilder) WithInstanceType(t string) *CreateNotebookInstanceBuilder {
	b.req.InstanceType = t
	return b
}

// WithNetwork attaches the instance to a subnet and security groups.
func (b *CreateNotebookInstanceBuilder) WithNetwork(subnetID string, securityGroupIDs ...string) *CreateNotebookInstanceBuilder {
	b.req.SubnetID = subnetID
	b.req.SecurityGroupIDs = securityGroupIDs
	return b
}

func (b *CreateNotebookInstanceBuilder) WithRoleARN(arn string) *CreateNotebookInstanceBuilder {
	b.req.RoleARN = arn
	return b
}

func (b *CreateNotebookInstanceBuilder) WithKmsKeyID(id string) *CreateNotebookInstanceBuilder {
	b.req.KmsKeyID = id
	return b
}

func (b *CreateNotebookInstanceBuilder) WithTags(tags ...Tag) *CreateNotebookInstanceBuilder {
	b.req.Tags = tags
	return b
}

func (b *CreateNotebookInstanceBuilder) WithLifecycleConfigName(name string) *CreateNotebookInstanceBuilder {
	b.req.LifecycleConfigName = name
	return b
}

func (b *CreateNotebookInstanceBuilder) WithDirectInternetAccess(v EnabledDisabled) *CreateNotebookInstanceBuilder {
	b.req.DirectInternetAccess = v
	return b
}

func (b *CreateNotebookInstanceBuilder) WithVolumeSizeInGB(n int) *CreateNotebookInstanceBuilder {
	b.req.VolumeSizeInGB = n
	return b
}

func (b *CreateNotebookInstanceBuilder) WithDefaultCodeRepository(repo string) *CreateNotebookInstanceBuilder {
	b.req.DefaultCodeRepository = repo
	return b
}

func (b *CreateNotebookInstanceBuilder) WithRootAccess(v EnabledDisabled) *CreateNotebookInstanceBuilder {
	b.req.RootAccess = v
	return b
}

// Build returns a copy of the request, or a ValidationErrors.
func (b *CreateNotebookInstanceBuilder) Build() (CreateNotebookInstanceRequest, error) {
	return build(b.req, nil)
}

// UpdateNotebookInstanceRequest changes the settings of a stopped
// notebook instance. Zero-valued fields are left unchanged.
type UpdateNotebookInstanceRequest struct {
	NotebookInstanceName        string          `json:"NotebookInstanceName"`
	InstanceType                string          `json:"InstanceType,omitempty"`
	RoleARN                     string          `json:"RoleArn,omitempty"`
	LifecycleConfigName         string          `json:"LifecycleConfigName,omitempty"`
	DisassociateLifecycleConfig bool            `json:"DisassociateLifecycleConfig,omitempty"`
	VolumeSizeInGB              int             `json:"VolumeSizeInGB,omitempty"`
	DefaultCodeRepository       string          `json:"DefaultCodeRepository,omitempty"`
	RootAccess                  EnabledDisabled `json:"RootAccess,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r UpdateNotebookInstanceRequest) Validate() error { return validate(r) }

func (r UpdateNotebookInstanceRequest) check(v *validator, path string) {
	v.name(join(path, "NotebookInstanceName"), r.NotebookInstanceName, KindNotebookInstance.MaxNameLength())
	v.pattern(join(path, "InstanceType"), r.InstanceType, instanceTypeRegexp)
	if r.RoleARN != "" {
		v.roleARN(join(path, "RoleArn"), r.RoleARN)
	}
	v.length(join(path, "LifecycleConfigName"), r.LifecycleConfigName, 0, 63)
	v.pattern(join(path, "LifecycleConfigName"), r.LifecycleConfigName, nameRegexp)
	if r.LifecycleConfigName != "" && r.DisassociateLifecycleConfig {
		v.fail(join(path, "DisassociateLifecycleConfig"), "must not be set together with LifecycleConfigName", r.DisassociateLifecycleConfig)
	}
	if r.VolumeSizeInGB != 0 {
		v.intRange(join(path, "VolumeSizeInGB"), int64(r.VolumeSizeInGB), 5, 16384)
	}
	v.length(join(path, "DefaultCodeRepository"), r.DefaultCodeRepository, 0, 1024)
	checkEnum(v, join(path, "RootAccess"), enabledDisabled, r.RootAccess)
}

// NotebookInstance is the result of describing a notebook instance.
type NotebookInstance struct {
	Name                  string                 `json:"NotebookInstanceName"`
	ARN                   string                 `json:"NotebookInstanceArn"`
	Status                NotebookInstanceStatus `json:"NotebookInstanceStatus"`
	FailureReason         string                 `json:"FailureReason,omitempty"`
	URL                   string                 `json:"Url,omitempty"`
	InstanceType          string                 `json:"InstanceType,omitempty"`
	SubnetID              string                 `json:"SubnetId,omitempty"`
	SecurityGroups        []string               `json:"SecurityGroups,omitempty"`
	RoleARN               string                 `json:"RoleArn,omitempty"`
	KmsKeyID              string                 `json:"KmsKeyId,omitempty"`
	NetworkInterfaceID    string                 `json:"NetworkInterfaceId,omitempty"`
	LifecycleConfigName   string                 `json:"NotebookInstanceLifecycleConfigName,omitempty"`
	DirectInternetAccess  EnabledDisabled        `json:"DirectInternetAccess,omitempty"`
	VolumeSizeInGB        int                    `json:"VolumeSizeInGB,omitempty"`
	DefaultCodeRepository string                 `json:"DefaultCodeRepository,omitempty"`
	RootAccess            EnabledDisabled        `json:"RootAccess,omitempty"`
	CreationTime          time.Time              `json:"CreationTime"`
	LastModifiedTime      *time.Time             `json:"LastModifiedTime,omitempty"`
}

func (n NotebookInstance) ResourceKind() ResourceKind { return KindNotebookInstance }
func (n NotebookInstance) ResourceName() string       { return n.Name }
func (n NotebookInstance) ResourceARN() string        { return n.ARN }
func (n NotebookInstance) CreatedAt() time.Time       { return n.CreationTime }
func (n NotebookInstance) ModifiedAt() time.Time      { return timeOrZero(n.LastModifiedTime) }
func (n NotebookInstance) ResourceStatus() Status     { return n.Status }

// Summary returns the list projection of n.
func (n NotebookInstance) Summary() NotebookInstanceSummary {
	return NotebookInstanceSummary{
		Name:                  n.Name,
		ARN:                   n.ARN,
		Status:                n.Status,
		URL:                   n.URL,
		InstanceType:          n.InstanceType,
		CreationTime:          n.CreationTime,
		LastModifiedTime:      n.LastModifiedTime,
		LifecycleConfigName:   n.LifecycleConfigName,
		DefaultCodeRepository: n.DefaultCodeRepository,
	}
}

// NotebookInstanceSummary is a notebook instance as returned by List.
type NotebookInstanceSummary struct {
	Name                  string                 `json:"NotebookInstanceName"`
	ARN                   string                 `json:"NotebookInstanceArn"`
	Status                NotebookInstanceStatus `json:"NotebookInstanceStatus"`
	URL                   string                 `json:"Url,omitempty"`
	InstanceType          string                 `json:"InstanceType,omitempty"`
	CreationTime          time.Time              `json:"CreationTime"`
	LastModifiedTime      *time.Time             `json:"LastModifiedTime,omitempty"`
	LifecycleConfigName   string                 `json:"NotebookInstanceLifecycleConfigName,omitempty"`
	DefaultCodeRepository string                 `json:"DefaultCodeRepository,omitempty"`
}

func (s NotebookInstanceSummary) ResourceKind() ResourceKind { return KindNotebookInstance }
func (s NotebookInstanceSummary) ResourceName() string       { return s.Name }
func (s NotebookInstanceSummary) ResourceARN() string        { return s.ARN }
func (s NotebookInstanceSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s NotebookInstanceSummary) ModifiedAt() time.Time      { return timeOrZero(s.LastModifiedTime) }
func (s NotebookInstanceSummary) ResourceStatus() Status     { return s.Status }

// NotebookInstanceList is a page of notebook instance summaries.
type NotebookInstanceList struct {
	Items     []NotebookInstanceSummary `json:"NotebookInstances"`
	NextToken string                    `json:"NextToken,omitempty"`
}

func (l NotebookInstanceList) PageItems() []NotebookInstanceSummary { return l.Items }
func (l NotebookInstanceList) PageToken() string                    { return l.NextToken }
