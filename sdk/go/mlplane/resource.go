// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "time"

// Resource is implemented by the describe results and list summaries
// of every resource kind, so filtering, sorting and polling code can
// treat them alike.
type Resource interface {
	ResourceKind() ResourceKind
	ResourceName() string
	ResourceARN() string
	CreatedAt() time.Time
	// ModifiedAt returns the last modification time, or the zero
	// time if the service did not report one.
	ModifiedAt() time.Time
	// ResourceStatus returns nil for kinds without a status.
	ResourceStatus() Status
}

// ResourceRef identifies a resource returned by a Create or Update
// call.
type ResourceRef struct {
	Name string `json:"Name"`
	ARN  string `json:"Arn"`
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
