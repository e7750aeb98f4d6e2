// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"git.arvados.org/mlplane.git/sdk/go/httpserver"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
)

func (rtr *router) sendResponse(w http.ResponseWriter, resp interface{}) {
	if _, ok := resp.(noContent); ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// errorStatus returns the response status for err: the status it
// carries itself, if any, otherwise the status that corresponds to
// its model error class.
func errorStatus(err error) int {
	var hse httpserver.HTTPStatusError
	switch {
	case errors.As(err, &hse):
		return hse.HTTPStatus()
	case errors.Is(err, mlplane.ErrValidation),
		errors.Is(err, mlplane.ErrUnknownEnumValue),
		errors.Is(err, mlplane.ErrDuplicateKey):
		return http.StatusBadRequest
	case errors.Is(err, mlplane.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mlplane.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (rtr *router) sendError(w http.ResponseWriter, err error) {
	var msgs []string
	var verrs mlplane.ValidationErrors
	var terr *mlplane.TransactionError
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			msgs = append(msgs, e.Error())
		}
	} else if errors.As(err, &terr) && len(terr.Errors) > 0 {
		msgs = terr.Errors
	} else {
		msgs = []string{err.Error()}
	}
	httpserver.Errors(w, msgs, errorStatus(err))
}
