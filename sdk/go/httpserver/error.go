// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPStatusError is implemented by errors that should be reported
// to API clients with a particular response status.
type HTTPStatusError interface {
	error
	HTTPStatus() int
}

// Errorf returns an error that is reported with the given status.
func Errorf(status int, tmpl string, args ...interface{}) error {
	return statusError{fmt.Errorf(tmpl, args...), status}
}

// ErrorWithStatus returns err, to be reported with the given status.
func ErrorWithStatus(err error, status int) error {
	return statusError{err, status}
}

type statusError struct {
	error
	status int
}

func (se statusError) HTTPStatus() int { return se.status }
func (se statusError) Unwrap() error   { return se.error }

// StatusOf returns the status of the first HTTPStatusError in err's
// chain, or 500 if there is none.
func StatusOf(err error) int {
	var hse HTTPStatusError
	if errors.As(err, &hse) {
		return hse.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the body of an error response.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// Error sends a single-message error response.
func Error(w http.ResponseWriter, msg string, code int) {
	Errors(w, []string{msg}, code)
}

// Errors sends an ErrorResponse with the given status.
func Errors(w http.ResponseWriter, msgs []string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Errors: msgs})
}
