// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrUnknownEnumValue = errors.New("unknown enum value")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource in use")
)

// A ValidationError reports a field that violates its length,
// pattern, range, or presence constraint.
type ValidationError struct {
	Field      string
	Constraint string
	Value      interface{}
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Constraint, fmt.Sprint(e.Value))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors collects every violation found while building or
// validating a value, so a caller sees all of them at once.
type ValidationErrors []error

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap makes errors.Is and errors.As look at each collected error.
func (errs ValidationErrors) Unwrap() []error {
	return errs
}

// UnknownEnumValueError is returned by the Parse functions when a
// token is not a member of the enumeration. Decoding from the wire
// never returns it: unknown tokens are kept as-is.
type UnknownEnumValueError struct {
	Type  string
	Value string
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Type, e.Value)
}

func (e *UnknownEnumValueError) Is(target error) bool {
	return target == ErrUnknownEnumValue
}

// DuplicateKeyError is returned when an Add...Entry call would
// overwrite an existing map entry.
type DuplicateKeyError struct {
	Field string
	Key   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: duplicated key %q provided", e.Field, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ResourceNotFoundError is the control plane's answer to a request
// naming a resource that does not exist.
type ResourceNotFoundError struct {
	Kind ResourceKind
	Name string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResourceInUseError is the control plane's answer to a request that
// conflicts with the current state of a resource, e.g., creating a
// name that is taken or stopping a job that already finished.
type ResourceInUseError struct {
	Kind   ResourceKind
	Name   string
	Reason string
}

func (e *ResourceInUseError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Name, e.Reason)
}

func (e *ResourceInUseError) Is(target error) bool {
	return target == ErrConflict
}

// TransactionError is returned by Client when the server responds
// with an HTTP error status.
type TransactionError struct {
	Method     string
	URL        url.URL
	StatusCode int
	Status     string
	Errors     []string `json:"errors"`
}

func (e *TransactionError) Error() (s string) {
	s = fmt.Sprintf("request failed: %s", e.URL.String())
	if e.Status != "" {
		s = s + ": " + e.Status
	}
	if len(e.Errors) > 0 {
		s = s + ": " + strings.Join(e.Errors, "; ")
	}
	return
}

// HTTPStatus returns the response status code.
func (e *TransactionError) HTTPStatus() int {
	return e.StatusCode
}

// Is maps well-known response codes onto the model's sentinel
// errors, so callers can use errors.Is regardless of transport.
func (e *TransactionError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return target == ErrValidation
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusConflict:
		return target == ErrConflict
	}
	return false
}

func newTransactionError(req *http.Request, resp *http.Response, buf []byte) *TransactionError {
	var e TransactionError
	if json.Unmarshal(buf, &e) != nil {
		// No JSON-formatted error response
		e.Errors = nil
	}
	e.Method = req.Method
	e.URL = *req.URL
	if resp != nil {
		e.Status = resp.Status
		e.StatusCode = resp.StatusCode
	}
	return &e
}
