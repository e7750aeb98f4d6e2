// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

// AlgorithmSpecification names the training code and how it reads its
// input. Exactly one of TrainingImage and AlgorithmName must be set:
// use TrainingImageAlgorithm or RegisteredAlgorithm to get a value
// that satisfies this, or check a literal with Validate.
type AlgorithmSpecification struct {
	TrainingImage     string             `json:"TrainingImage,omitempty"`
	AlgorithmName     string             `json:"AlgorithmName,omitempty"`
	TrainingInputMode TrainingInputMode  `json:"TrainingInputMode"`
	MetricDefinitions []MetricDefinition `json:"MetricDefinitions,omitempty"`
}

// AlgorithmSource says which of the mutually exclusive algorithm
// fields an AlgorithmSpecification uses.
type AlgorithmSource int

const (
	AlgorithmSourceNone AlgorithmSource = iota
	AlgorithmSourceImage
	AlgorithmSourceRegistered
	// Both fields are set. Such a value fails validation, but a
	// result decoded from the wire is reported as-is.
	AlgorithmSourceAmbiguous
)

// TrainingImageAlgorithm returns a specification that runs the given
// container image.
func TrainingImageAlgorithm(image string, mode TrainingInputMode) AlgorithmSpecification {
	return AlgorithmSpecification{TrainingImage: image, TrainingInputMode: mode}
}

// RegisteredAlgorithm returns a specification that runs an algorithm
// resource, given by name or ARN.
func RegisteredAlgorithm(name string, mode TrainingInputMode) AlgorithmSpecification {
	return AlgorithmSpecification{AlgorithmName: name, TrainingInputMode: mode}
}

// Source returns which of TrainingImage and AlgorithmName is set,
// along with its value.
func (as AlgorithmSpecification) Source() (AlgorithmSource, string) {
	switch {
	case as.TrainingImage != "" && as.AlgorithmName != "":
		return AlgorithmSourceAmbiguous, ""
	case as.TrainingImage != "":
		return AlgorithmSourceImage, as.TrainingImage
	case as.AlgorithmName != "":
		return AlgorithmSourceRegistered, as.AlgorithmName
	default:
		return AlgorithmSourceNone, ""
	}
}

// Validate returns nil or a ValidationErrors.
func (as AlgorithmSpecification) Validate() error { return validate(as) }

func (as AlgorithmSpecification) check(v *validator, path string) {
	switch src, _ := as.Source(); src {
	case AlgorithmSourceNone:
		v.fail(join(path, "TrainingImage"), "either TrainingImage or AlgorithmName is required", nil)
	case AlgorithmSourceAmbiguous:
		v.fail(join(path, "TrainingImage"), "must not be set together with AlgorithmName", as.TrainingImage)
	}
	v.length(join(path, "TrainingImage"), as.TrainingImage, 1, 255)
	v.pattern(join(path, "TrainingImage"), as.TrainingImage, imageRegexp)
	v.length(join(path, "AlgorithmName"), as.AlgorithmName, 1, 170)
	v.pattern(join(path, "AlgorithmName"), as.AlgorithmName, algorithmNameRegexp)
	if v.required(join(path, "TrainingInputMode"), string(as.TrainingInputMode)) {
		checkEnum(v, join(path, "TrainingInputMode"), trainingInputModes, as.TrainingInputMode)
	}
	v.listLen(join(path, "MetricDefinitions"), len(as.MetricDefinitions), 0, 40)
	checkEach(v, join(path, "MetricDefinitions"), as.MetricDefinitions)
}

// AlgorithmSpecificationBuilder builds an AlgorithmSpecification.
type AlgorithmSpecificationBuilder struct {
	spec AlgorithmSpecification
}

func NewAlgorithmSpecificationBuilder() *AlgorithmSpecificationBuilder {
	return &AlgorithmSpecificationBuilder{}
}

func (b *AlgorithmSpecificationBuilder) WithTrainingImage(image string) *AlgorithmSpecificationBuilder {
	b.spec.TrainingImage = image
	return b
}

func (b *AlgorithmSpecificationBuilder) WithAlgorithmName(name string) *AlgorithmSpecificationBuilder {
	b.spec.AlgorithmName = name
	return b
}

func (b *AlgorithmSpecificationBuilder) WithTrainingInputMode(mode TrainingInputMode) *AlgorithmSpecificationBuilder {
	b.spec.TrainingInputMode = mode
	return b
}

// WithMetricDefinitions replaces the metric definitions.
func (b *AlgorithmSpecificationBuilder) WithMetricDefinitions(mds ...MetricDefinition) *AlgorithmSpecificationBuilder {
	b.spec.MetricDefinitions = mds
	return b
}

// AddMetricDefinition appends one metric definition.
func (b *AlgorithmSpecificationBuilder) AddMetricDefinition(name, regex string) *AlgorithmSpecificationBuilder {
	b.spec.MetricDefinitions = append(b.spec.MetricDefinitions, MetricDefinition{Name: name, Regex: regex})
	return b
}

// Build returns a copy of the specification, or a ValidationErrors
// listing every violation, including setting both TrainingImage and
// AlgorithmName.
func (b *AlgorithmSpecificationBuilder) Build() (AlgorithmSpecification, error) {
	return build(b.spec, nil)
}

// build validates a copy of v, reporting errs (e.g., duplicate keys
// recorded by a builder) along with any constraint violations.
func build[T checker](v T, errs ValidationErrors) (T, error) {
	vv := validator{errs: append(ValidationErrors(nil), errs...)}
	v.check(&vv, "")
	if err := vv.err(); err != nil {
		var zero T
		return zero, err
	}
	return clone(v), nil
}
