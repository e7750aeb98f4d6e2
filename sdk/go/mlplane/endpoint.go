// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// CreateEndpointRequest deploys an endpoint config as a hosted
// endpoint.
type CreateEndpointRequest struct {
	EndpointName       string `json:"EndpointName"`
	EndpointConfigName string `json:"EndpointConfigName"`
	Tags               []Tag  `json:"Tags,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r CreateEndpointRequest) Validate() error { return validate(r) }

func (r CreateEndpointRequest) check(v *validator, path string) {
	v.name(join(path, "EndpointName"), r.EndpointName, KindEndpoint.MaxNameLength())
	v.name(join(path, "EndpointConfigName"), r.EndpointConfigName, 63)
	checkTags(v, join(path, "Tags"), r.Tags)
}

// CreateEndpointBuilder builds a CreateEndpointRequest.
type CreateEndpointBuilder struct {
	req CreateEndpointRequest
}

func NewCreateEndpointBuilder(name string) *CreateEndpointBuilder {
	return &CreateEndpointBuilder{req: CreateEndpointRequest{EndpointName: name}}
}

func (b *CreateEndpointBuilder) WithEndpointConfigName(name string) *CreateEndpointBuilder {
	b.req.EndpointConfigName = name
	return b
}

func (b *CreateEndpointBuilder) WithTags(tags ...Tag) *CreateEndpointBuilder {
	b.req.Tags = tags
	return b
}

// Build returns a copy of the request, or a ValidationErrors.
func (b *CreateEndpointBuilder) Build() (CreateEndpointRequest, error) {
	return build(b.req, nil)
}

// UpdateEndpointRequest switches an endpoint to a different endpoint
// config. The endpoint moves to Updating and back to InService.
type UpdateEndpointRequest struct {
	EndpointName               string `json:"EndpointName"`
	EndpointConfigName         string `json:"EndpointConfigName"`
	RetainAllVariantProperties bool   `json:"RetainAllVariantProperties,omitempty"`
}

// Validate returns nil or a ValidationErrors.
func (r UpdateEndpointRequest) Validate() error { return validate(r) }

func (r UpdateEndpointRequest) check(v *validator, path string) {
	v.name(join(path, "EndpointName"), r.EndpointName, KindEndpoint.MaxNameLength())
	v.name(join(path, "EndpointConfigName"), r.EndpointConfigName, 63)
}

// ProductionVariantSummary describes one model variant served by an
// endpoint.
type ProductionVariantSummary struct {
	VariantName          string  `json:"VariantName"`
	CurrentWeight        float64 `json:"CurrentWeight,omitempty"`
	DesiredWeight        float64 `json:"DesiredWeight,omitempty"`
	CurrentInstanceCount int     `json:"CurrentInstanceCount,omitempty"`
	DesiredInstanceCount int     `json:"DesiredInstanceCount,omitempty"`
}

// Endpoint is the result of describing an endpoint.
type Endpoint struct {
	Name               string                     `json:"EndpointName"`
	ARN                string                     `json:"EndpointArn"`
	EndpointConfigName string                     `json:"EndpointConfigName"`
	ProductionVariants []ProductionVariantSummary `json:"ProductionVariants,omitempty"`
	Status             EndpointStatus             `json:"EndpointStatus"`
	FailureReason      string                     `json:"FailureReason,omitempty"`
	CreationTime       time.Time                  `json:"CreationTime"`
	LastModifiedTime   time.Time                  `json:"LastModifiedTime"`
}

func (e Endpoint) ResourceKind() ResourceKind { return KindEndpoint }
func (e Endpoint) ResourceName() string       { return e.Name }
func (e Endpoint) ResourceARN() string        { return e.ARN }
func (e Endpoint) CreatedAt() time.Time       { return e.CreationTime }
func (e Endpoint) ModifiedAt() time.Time      { return e.LastModifiedTime }
func (e Endpoint) ResourceStatus() Status     { return e.Status }

// Summary returns the list projection of e.
func (e Endpoint) Summary() EndpointSummary {
	return EndpointSummary{
		Name:             e.Name,
		ARN:              e.ARN,
		CreationTime:     e.CreationTime,
		LastModifiedTime: e.LastModifiedTime,
		Status:           e.Status,
	}
}

// EndpointSummary is an endpoint as returned by List.
type EndpointSummary struct {
	Name             string         `json:"EndpointName"`
	ARN              string         `json:"EndpointArn"`
	CreationTime     time.Time      `json:"CreationTime"`
	LastModifiedTime time.Time      `json:"LastModifiedTime"`
	Status           EndpointStatus `json:"EndpointStatus"`
}

func (s EndpointSummary) ResourceKind() ResourceKind { return KindEndpoint }
func (s EndpointSummary) ResourceName() string       { return s.Name }
func (s EndpointSummary) ResourceARN() string        { return s.ARN }
func (s EndpointSummary) CreatedAt() time.Time       { return s.CreationTime }
func (s EndpointSummary) ModifiedAt() time.Time      { return s.LastModifiedTime }
func (s EndpointSummary) ResourceStatus() Status     { return s.Status }

// EndpointList is a page of endpoint summaries.
type EndpointList struct {
	Items     []EndpointSummary `json:"Endpoints"`
	NextToken string            `json:"NextToken,omitempty"`
}

func (l EndpointList) PageItems() []EndpointSummary { return l.Items }
func (l EndpointList) PageToken() string            { return l.NextToken }
