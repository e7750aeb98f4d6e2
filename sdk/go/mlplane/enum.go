// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import "strings"

// enumType is the closed set of tokens accepted by a string-valued
// enumeration.
//
// Values of an enumeration are plain strings, so a token the client
// does not recognize (e.g., a state added to the service after this
// client was built) decodes without error and is reported by
// Known() == false. Only the Parse functions reject such tokens.
type enumType[T ~string] struct {
	name    string
	members []T
}

func (et enumType[T]) known(v T) bool {
	for _, m := range et.members {
		if m == v {
			return true
		}
	}
	return false
}

// parse returns the enum value for s. If s is not a member, the
// returned value still carries s, along with an
// *UnknownEnumValueError.
func (et enumType[T]) parse(s string) (T, error) {
	v := T(s)
	if !et.known(v) {
		return v, &UnknownEnumValueError{Type: et.name, Value: s}
	}
	return v, nil
}

func (et enumType[T]) values() []T {
	return append([]T(nil), et.members...)
}

func (et enumType[T]) allowed() string {
	tokens := make([]string, len(et.members))
	for i, m := range et.members {
		tokens[i] = string(m)
	}
	return "must be one of " + strings.Join(tokens, ", ")
}

// SortOrder is the direction of a sorted list result.
type SortOrder string

const (
	SortOrderAscending  = SortOrder("Ascending")
	SortOrderDescending = SortOrder("Descending")
)

var sortOrders = enumType[SortOrder]{"SortOrder", []SortOrder{SortOrderAscending, SortOrderDescending}}

func ParseSortOrder(s string) (SortOrder, error) { return sortOrders.parse(s) }
func (v SortOrder) Values() []SortOrder          { return sortOrders.values() }
func (v SortOrder) Known() bool                  { return sortOrders.known(v) }
func (v SortOrder) String() string               { return string(v) }

// SortBy is the attribute a list result is sorted on. Not every kind
// supports every key; see ResourceKind.SortKeys.
type SortBy string

const (
	SortByName         = SortBy("Name")
	SortByCreationTime = SortBy("CreationTime")
	SortByStatus       = SortBy("Status")
)

var sortKeys = enumType[SortBy]{"SortBy", []SortBy{SortByName, SortByCreationTime, SortByStatus}}

func ParseSortBy(s string) (SortBy, error) { return sortKeys.parse(s) }
func (v SortBy) Values() []SortBy          { return sortKeys.values() }
func (v SortBy) Known() bool               { return sortKeys.known(v) }
func (v SortBy) String() string            { return string(v) }

// TrainingInputMode is how a training container reads its input.
type TrainingInputMode string

const (
	TrainingInputModePipe = TrainingInputMode("Pipe")
	TrainingInputModeFile = TrainingInputMode("File")
)

var trainingInputModes = enumType[TrainingInputMode]{"TrainingInputMode", []TrainingInputMode{TrainingInputModePipe, TrainingInputModeFile}}

func ParseTrainingInputMode(s string) (TrainingInputMode, error) { return trainingInputModes.parse(s) }
func (v TrainingInputMode) Values() []TrainingInputMode          { return trainingInputModes.values() }
func (v TrainingInputMode) Known() bool                          { return trainingInputModes.known(v) }
func (v TrainingInputMode) String() string                       { return string(v) }

// BatchStrategy is how a transform job groups records into requests.
type BatchStrategy string

const (
	BatchStrategyMultiRecord  = BatchStrategy("MultiRecord")
	BatchStrategySingleRecord = BatchStrategy("SingleRecord")
)

var batchStrategies = enumType[BatchStrategy]{"BatchStrategy", []BatchStrategy{BatchStrategyMultiRecord, BatchStrategySingleRecord}}

func ParseBatchStrategy(s string) (BatchStrategy, error) { return batchStrategies.parse(s) }
func (v BatchStrategy) Values() []BatchStrategy          { return batchStrategies.values() }
func (v BatchStrategy) Known() bool                      { return batchStrategies.known(v) }
func (v BatchStrategy) String() string                   { return string(v) }

// EnabledDisabled is a two-valued switch used by notebook instance
// settings such as DirectInternetAccess and RootAccess.
type EnabledDisabled string

const (
	Enabled  = EnabledDisabled("Enabled")
	Disabled = EnabledDisabled("Disabled")
)

var enabledDisabled = enumType[EnabledDisabled]{"EnabledDisabled", []EnabledDisabled{Enabled, Disabled}}

func ParseEnabledDisabled(s string) (EnabledDisabled, error) { return enabledDisabled.parse(s) }
func (v EnabledDisabled) Values() []EnabledDisabled          { return enabledDisabled.values() }
func (v EnabledDisabled) Known() bool                        { return enabledDisabled.known(v) }
func (v EnabledDisabled) String() string                     { return string(v) }

// S3DataType selects whether an S3 URI names a prefix or a manifest.
type S3DataType string

const (
	S3DataTypeManifestFile          = S3DataType("ManifestFile")
	S3DataTypeS3Prefix              = S3DataType("S3Prefix")
	S3DataTypeAugmentedManifestFile = S3DataType("AugmentedManifestFile")
)

var s3DataTypes = enumType[S3DataType]{"S3DataType", []S3DataType{S3DataTypeManifestFile, S3DataTypeS3Prefix, S3DataTypeAugmentedManifestFile}}

func ParseS3DataType(s string) (S3DataType, error) { return s3DataTypes.parse(s) }
func (v S3DataType) Values() []S3DataType          { return s3DataTypes.values() }
func (v S3DataType) Known() bool                   { return s3DataTypes.known(v) }
func (v S3DataType) String() string                { return string(v) }

// CompressionType of input data.
type CompressionType string

const (
	CompressionTypeNone = CompressionType("None")
	CompressionTypeGzip = CompressionType("Gzip")
)

var compressionTypes = enumType[CompressionType]{"CompressionType", []CompressionType{CompressionTypeNone, CompressionTypeGzip}}

func ParseCompressionType(s string) (CompressionType, error) { return compressionTypes.parse(s) }
func (v CompressionType) Values() []CompressionType          { return compressionTypes.values() }
func (v CompressionType) Known() bool                        { return compressionTypes.known(v) }
func (v CompressionType) String() string                     { return string(v) }

// TuningStrategy is the search strategy of a tuning job.
type TuningStrategy string

const (
	TuningStrategyBayesian = TuningStrategy("Bayesian")
	TuningStrategyRandom   = TuningStrategy("Random")
)

var tuningStrategies = enumType[TuningStrategy]{"HyperParameterTuningJobStrategyType", []TuningStrategy{TuningStrategyBayesian, TuningStrategyRandom}}

func ParseTuningStrategy(s string) (TuningStrategy, error) { return tuningStrategies.parse(s) }
func (v TuningStrategy) Values() []TuningStrategy          { return tuningStrategies.values() }
func (v TuningStrategy) Known() bool                       { return tuningStrategies.known(v) }
func (v TuningStrategy) String() string                    { return string(v) }

// ObjectiveType says whether a tuning objective metric is maximized
// or minimized.
type ObjectiveType string

const (
	ObjectiveMaximize = ObjectiveType("Maximize")
	ObjectiveMinimize = ObjectiveType("Minimize")
)

var objectiveTypes = enumType[ObjectiveType]{"HyperParameterTuningJobObjectiveType", []ObjectiveType{ObjectiveMaximize, ObjectiveMinimize}}

func ParseObjectiveType(s string) (ObjectiveType, error) { return objectiveTypes.parse(s) }
func (v ObjectiveType) Values() []ObjectiveType          { return objectiveTypes.values() }
func (v ObjectiveType) Known() bool                      { return objectiveTypes.known(v) }
func (v ObjectiveType) String() string                   { return string(v) }

// EarlyStoppingType controls early stopping of a tuning job's
// training jobs.
type EarlyStoppingType string

const (
	EarlyStoppingOff  = EarlyStoppingType("Off")
	EarlyStoppingAuto = EarlyStoppingType("Auto")
)

var earlyStoppingTypes = enumType[EarlyStoppingType]{"TrainingJobEarlyStoppingType", []EarlyStoppingType{EarlyStoppingOff, EarlyStoppingAuto}}

func ParseEarlyStoppingType(s string) (EarlyStoppingType, error) { return earlyStoppingTypes.parse(s) }
func (v EarlyStoppingType) Values() []EarlyStoppingType          { return earlyStoppingTypes.values() }
func (v EarlyStoppingType) Known() bool                          { return earlyStoppingTypes.known(v) }
func (v EarlyStoppingType) String() string                       { return string(v) }
