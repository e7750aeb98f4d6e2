// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package router

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"git.arvados.org/mlplane.git/sdk/go/httpserver"
)

// Query parameters that are decoded as numbers, booleans, or JSON
// instead of strings. Every other value, including opaque NextToken
// values, is passed through as a string.
var (
	intParams = map[string]bool{
		"MaxResults":     true,
		"VolumeSizeInGB": true,
	}
	boolParams = map[string]bool{
		"RetainAllVariantProperties":  true,
		"DisassociateLifecycleConfig": true,
	}
	jsonParams = map[string]bool{
		"Tags":    true,
		"TagKeys": true,
	}
)

// loadRequestParams returns the request's parameters keyed by member
// name: the query string, overlaid with the members of the JSON body
// (if any).
func (rtr *router) loadRequestParams(req *http.Request) (map[string]interface{}, error) {
	params, err := queryParams(req)
	if err != nil {
		return nil, err
	}
	body, err := bodyParams(req)
	if err != nil {
		return nil, err
	}
	for k, v := range body {
		params[k] = v
	}
	return params, nil
}

// queryParams decodes query values the way mlplane.Client encodes
// them: booleans are present only when true, structured members are
// sent as JSON text, everything else as plain text. The last value
// wins if a key is repeated.
func queryParams(req *http.Request) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	for k, values := range req.URL.Query() {
		v := values[len(values)-1]
		switch {
		case intParams[k]:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, httpserver.Errorf(http.StatusBadRequest, "%s: invalid integer %q", k, v)
			}
			params[k] = n
		case boolParams[k]:
			params[k] = v != "" && v != "false" && v != "0"
		case v == "":
		case jsonParams[k]:
			var j interface{}
			if err := json.Unmarshal([]byte(v), &j); err != nil {
				return nil, httpserver.Errorf(http.StatusBadRequest, "%s: %s", k, err)
			}
			params[k] = j
		default:
			params[k] = v
		}
	}
	return params, nil
}

// bodyParams decodes a JSON object request body. A request with no
// body, or no Content-Type and an empty body, has no body params.
func bodyParams(req *http.Request) (map[string]interface{}, error) {
	if req.Body == nil || req.ContentLength == 0 {
		return nil, nil
	}
	if mt := req.Header.Get("Content-Type"); mt != "" {
		ct, _, err := mime.ParseMediaType(mt)
		if err != nil {
			return nil, httpserver.Errorf(http.StatusUnsupportedMediaType, "error parsing media type %q: %s", mt, err)
		}
		if ct != "application/json" {
			return nil, httpserver.Errorf(http.StatusUnsupportedMediaType, "unsupported content type %q", mt)
		}
	}
	params := map[string]interface{}{}
	err := json.NewDecoder(req.Body).Decode(&params)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, httpserver.ErrorWithStatus(fmt.Errorf("error decoding request body: %w", err), http.StatusBadRequest)
	}
	return params, nil
}

// transcode copies src into dst by way of JSON, so dst's own
// unmarshalers (enums, timestamps, durations) apply.
func (rtr *router) transcode(src, dst interface{}) error {
	buf, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
