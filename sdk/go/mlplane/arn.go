// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"fmt"
	"regexp"
	"strings"
)

// ResourceKind identifies a type of long-running resource. Its value
// is the resource-type segment used in the resource's ARN.
type ResourceKind string

const (
	KindTrainingJob      = ResourceKind("training-job")
	KindTuningJob        = ResourceKind("hyper-parameter-tuning-job")
	KindLabelingJob      = ResourceKind("labeling-job")
	KindTransformJob     = ResourceKind("transform-job")
	KindEndpoint         = ResourceKind("endpoint")
	KindNotebookInstance = ResourceKind("notebook-instance")
	KindModel            = ResourceKind("model")
)

type kindInfo struct {
	maxNameLen  int
	maxARNLen   int
	sortKeys    []SortBy
	parseStatus func(string) (Status, error)
	// list filters on LastModifiedTime are accepted
	modifiedFilters bool
}

var kinds = map[ResourceKind]kindInfo{
	KindTrainingJob: {
		maxNameLen:      63,
		maxARNLen:       256,
		sortKeys:        []SortBy{SortByName, SortByCreationTime, SortByStatus},
		parseStatus:     func(s string) (Status, error) { return ParseTrainingJobStatus(s) },
		modifiedFilters: true,
	},
	KindTuningJob: {
		maxNameLen:      32,
		maxARNLen:       256,
		sortKeys:        []SortBy{SortByName, SortByStatus, SortByCreationTime},
		parseStatus:     func(s string) (Status, error) { return ParseTuningJobStatus(s) },
		modifiedFilters: true,
	},
	KindLabelingJob: {
		maxNameLen:      63,
		maxARNLen:       2048,
		sortKeys:        []SortBy{SortByName, SortByCreationTime, SortByStatus},
		parseStatus:     func(s string) (Status, error) { return ParseLabelingJobStatus(s) },
		modifiedFilters: true,
	},
	KindTransformJob: {
		maxNameLen:      63,
		maxARNLen:       256,
		sortKeys:        []SortBy{SortByName, SortByCreationTime, SortByStatus},
		parseStatus:     func(s string) (Status, error) { return ParseTransformJobStatus(s) },
		modifiedFilters: true,
	},
	KindEndpoint: {
		maxNameLen:      63,
		maxARNLen:       2048,
		sortKeys:        []SortBy{SortByName, SortByCreationTime, SortByStatus},
		parseStatus:     func(s string) (Status, error) { return ParseEndpointStatus(s) },
		modifiedFilters: true,
	},
	KindNotebookInstance: {
		maxNameLen:      63,
		maxARNLen:       256,
		sortKeys:        []SortBy{SortByName, SortByCreationTime, SortByStatus},
		parseStatus:     func(s string) (Status, error) { return ParseNotebookInstanceStatus(s) },
		modifiedFilters: true,
	},
	KindModel: {
		maxNameLen: 63,
		maxARNLen:  2048,
		sortKeys:   []SortBy{SortByName, SortByCreationTime},
	},
}

// Kinds returns every known resource kind.
func Kinds() []ResourceKind {
	return []ResourceKind{
		KindTrainingJob,
		KindTuningJob,
		KindLabelingJob,
		KindTransformJob,
		KindEndpoint,
		KindNotebookInstance,
		KindModel,
	}
}

func (k ResourceKind) String() string { return string(k) }

// Known reports whether k is one of the kinds returned by Kinds.
func (k ResourceKind) Known() bool {
	_, ok := kinds[k]
	return ok
}

// MaxNameLength is the longest name a resource of this kind may have.
func (k ResourceKind) MaxNameLength() int { return kinds[k].maxNameLen }

// MaxARNLength is the longest ARN a resource of this kind may have.
func (k ResourceKind) MaxARNLength() int { return kinds[k].maxARNLen }

// SortKeys returns the SortBy values accepted by this kind's List API.
func (k ResourceKind) SortKeys() []SortBy {
	return append([]SortBy(nil), kinds[k].sortKeys...)
}

// HasStatus reports whether resources of this kind have a status.
// Models do not.
func (k ResourceKind) HasStatus() bool { return kinds[k].parseStatus != nil }

// ParseStatus parses s as a status of this kind. Like the
// kind-specific Parse functions, it returns the raw token along with
// an *UnknownEnumValueError if s is not a known status.
func (k ResourceKind) ParseStatus(s string) (Status, error) {
	parse := kinds[k].parseStatus
	if parse == nil {
		return nil, fmt.Errorf("%s resources have no status", k)
	}
	return parse(s)
}

// ARN is a parsed Amazon Resource Name for a control plane resource,
// e.g., "arn:aws:sagemaker:us-east-1:123456789012:training-job/foo".
type ARN struct {
	Partition string
	Region    string
	AccountID string
	Kind      ResourceKind
	Name      string
}

var arnRegexp = regexp.MustCompile(`^arn:(aws[a-z\-]*):sagemaker:([a-z0-9\-]*):([0-9]{12}):([a-z\-]+)/(.*)$`)

// ParseARN parses s, which must name a resource of a known kind.
func ParseARN(s string) (ARN, error) {
	m := arnRegexp.FindStringSubmatch(s)
	if m == nil {
		return ARN{}, &ValidationError{Field: "Arn", Constraint: "must match arn:aws:sagemaker:<region>:<account>:<kind>/<name>", Value: s}
	}
	arn := ARN{
		Partition: m[1],
		Region:    m[2],
		AccountID: m[3],
		Kind:      ResourceKind(m[4]),
		Name:      m[5],
	}
	if !arn.Kind.Known() {
		return arn, &ValidationError{Field: "Arn", Constraint: "unknown resource type " + m[4], Value: s}
	}
	if len(s) > arn.Kind.MaxARNLength() {
		return arn, &ValidationError{Field: "Arn", Constraint: fmt.Sprintf("length must be at most %d", arn.Kind.MaxARNLength()), Value: s}
	}
	return arn, nil
}

// String returns the ARN in its canonical form.
func (arn ARN) String() string {
	partition := arn.Partition
	if partition == "" {
		partition = "aws"
	}
	return strings.Join([]string{"arn", partition, "sagemaker", arn.Region, arn.AccountID, string(arn.Kind) + "/" + arn.Name}, ":")
}

// NewARN returns the ARN of the named resource in the given region
// and account, in the "aws" partition.
func NewARN(kind ResourceKind, region, accountID, name string) ARN {
	return ARN{Partition: "aws", Region: region, AccountID: accountID, Kind: kind, Name: name}
}
