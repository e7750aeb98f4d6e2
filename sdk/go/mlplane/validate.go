// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var (
	nameRegexp          = regexp.MustCompile(`^[a-zA-Z0-9](-*[a-zA-Z0-9])*$`)
	nameContainsRegexp  = regexp.MustCompile(`^[a-zA-Z0-9\-]+$`)
	roleARNRegexp       = regexp.MustCompile(`^arn:aws[a-z\-]*:iam::\d{12}:role/?[a-zA-Z_0-9+=,.@\-_/]+$`)
	s3URIRegexp         = regexp.MustCompile(`^(https|s3)://([^/]+)/?(.*)$`)
	vpcIDRegexp         = regexp.MustCompile(`^[-0-9a-zA-Z]+$`)
	imageRegexp         = regexp.MustCompile(`^[\S]+$`)
	algorithmNameRegexp = regexp.MustCompile(`^(arn:aws[a-z\-]*:sagemaker:[a-z0-9\-]*:[0-9]{12}:[a-z\-]*/)?[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
	instanceTypeRegexp  = regexp.MustCompile(`^ml\.[a-z0-9]+\.[a-z0-9]+$`)
	channelNameRegexp   = regexp.MustCompile(`^[A-Za-z0-9\.\-_]+$`)
	envKeyRegexp        = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	tagRegexp           = regexp.MustCompile(`^([\p{L}\p{Z}\p{N}_.:/=+\-@]*)$`)
	lambdaARNRegexp     = regexp.MustCompile(`^arn:aws[a-z\-]*:lambda:[a-z0-9\-]*:[0-9]{12}:function:[a-zA-Z0-9\-_\.]+(:(\$LATEST|[a-zA-Z0-9\-_]+))?$`)
	workteamARNRegexp   = regexp.MustCompile(`^arn:aws[a-z\-]*:sagemaker:[a-z0-9\-]*:[0-9]{12}:workteam/.*$`)
)

// A validator accumulates constraint violations. Field names are
// joined into dotted paths ("ResourceConfig.InstanceCount") so a
// violation in a nested value names the field that holds it.
type validator struct {
	errs ValidationErrors
}

// checker is implemented by every value type that has constraints.
type checker interface {
	check(v *validator, path string)
}

// validate runs c's checks and returns nil or a ValidationErrors.
func validate(c checker) error {
	var v validator
	c.check(&v, "")
	return v.err()
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (v *validator) fail(field, constraint string, value interface{}) {
	v.errs = append(v.errs, &ValidationError{Field: field, Constraint: constraint, Value: value})
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// required reports a violation if s is empty, and returns true if it
// is not.
func (v *validator) required(field, s string) bool {
	if s == "" {
		v.fail(field, "is required", nil)
		return false
	}
	return true
}

// length checks min <= len(s) <= max, counting characters rather
// than bytes. It does not report an empty optional value: callers
// use required for that.
func (v *validator) length(field, s string, min, max int) {
	if s == "" && min > 0 {
		return
	}
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		v.fail(field, fmt.Sprintf("length must be between %d and %d", min, max), s)
	}
}

func (v *validator) pattern(field, s string, re *regexp.Regexp) {
	if s != "" && !re.MatchString(s) {
		v.fail(field, "must match "+re.String(), s)
	}
}

// name checks a required resource name.
func (v *validator) name(field, s string, max int) {
	if v.required(field, s) {
		v.length(field, s, 1, max)
		v.pattern(field, s, nameRegexp)
	}
}

func (v *validator) roleARN(field, s string) {
	if v.required(field, s) {
		v.length(field, s, 20, 2048)
		v.pattern(field, s, roleARNRegexp)
	}
}

func (v *validator) s3URI(field, s string) {
	v.length(field, s, 1, 1024)
	v.pattern(field, s, s3URIRegexp)
}

func (v *validator) kmsKeyID(field, s string) {
	v.length(field, s, 0, 2048)
}

func (v *validator) intRange(field string, n, min, max int64) {
	if n < min || n > max {
		v.fail(field, fmt.Sprintf("must be between %d and %d", min, max), n)
	}
}

func (v *validator) intMin(field string, n, min int64) {
	if n < min {
		v.fail(field, fmt.Sprintf("must be at least %d", min), n)
	}
}

// listLen checks the number of elements in a list-valued field.
func (v *validator) listLen(field string, n, min, max int) {
	if n < min || n > max {
		v.fail(field, fmt.Sprintf("must have between %d and %d elements", min, max), n)
	}
}

// checkEnum reports a violation if val is set and is not a member of
// et. Empty values are left for required checks.
func checkEnum[T ~string](v *validator, field string, et enumType[T], val T) {
	if val != "" && !et.known(val) {
		v.fail(field, et.allowed(), string(val))
	}
}

// checkEach runs the checks of each element, naming it by index.
func checkEach[T checker](v *validator, path string, items []T) {
	for i, item := range items {
		item.check(v, fmt.Sprintf("%s[%d]", path, i))
	}
}

// checkMap checks the lengths and patterns of a string map's keys
// and values.
func (v *validator) checkMap(field string, m map[string]string, maxKey, maxValue int, keyPattern *regexp.Regexp) {
	for k, val := range m {
		kf := fmt.Sprintf("%s[%q]", field, k)
		v.length(kf, k, 1, maxKey)
		if k == "" {
			v.fail(kf, "key must not be empty", nil)
		}
		if keyPattern != nil {
			v.pattern(kf, k, keyPattern)
		}
		v.length(kf, val, 0, maxValue)
	}
}
