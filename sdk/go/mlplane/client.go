// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"git.arvados.org/mlplane.git/sdk/go/httpserver"
)

// A Client sends requests for the REST routes in this package (see
// APIRoute) to a control plane server, and decodes the responses.
// lib/rpc builds on it to implement API.
type Client struct {
	// If nil, http.DefaultClient (or, if Insecure is true, a
	// client that skips certificate verification) is used.
	Client *http.Client `json:"-"`

	// "http" or "https". Empty means https.
	Scheme string

	// host:port of the API server.
	APIHost string

	// Sent as "Authorization: Bearer {AuthToken}" unless empty.
	AuthToken string

	Insecure bool

	requestID string
}

var insecureHTTPClient = &http.Client{
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	},
}

var reqIDGen = httpserver.IDGenerator{Prefix: "req-"}

type contextKeyRequestID struct{}

// ContextWithRequestID returns a context that makes Client send id as
// the X-Request-Id header of requests made with it. The router uses
// this to pass an incoming request ID through to its backend.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, id)
}

// WithRequestID returns a copy of c that sends reqid as the
// X-Request-Id of requests whose context does not carry one.
func (c *Client) WithRequestID(reqid string) *Client {
	cc := *c
	cc.requestID = reqid
	return &cc
}

// Call sends params to route and decodes the JSON response into dst
// (which may be nil if no response body is expected).
//
// params is encoded as JSON. If route has a NameKey, that key is
// taken out of params and substituted into the path. The remaining
// keys go in the query string for GET and DELETE, otherwise in the
// request body.
func (c *Client) Call(ctx context.Context, dst interface{}, route APIRoute, params interface{}) error {
	m, err := toMap(params)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", route.Operation, err)
	}
	path := route.Path
	if route.NameKey != "" {
		name, _ := m[route.NameKey].(string)
		path = RoutePath(route, name)
		if route.Method == http.MethodGet || route.Method == http.MethodDelete {
			delete(m, route.NameKey)
		}
	}
	req, err := c.newRequest(ctx, route.Method, path, m)
	if err != nil {
		return err
	}
	return c.do(dst, req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, params map[string]interface{}) (*http.Request, error) {
	if c.APIHost == "" {
		return nil, errors.New("mlplane.Client cannot perform request: APIHost is not set")
	}
	scheme := c.Scheme
	if scheme == "" {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: c.APIHost, Path: "/" + path}
	if strings.Contains(path, "%") {
		u.RawPath = "/" + path
		u.Path, _ = url.PathUnescape(u.RawPath)
	}
	var body io.Reader
	if method == http.MethodGet || method == http.MethodDelete {
		u.RawQuery = toValues(params).Encode()
	} else if len(params) > 0 {
		j, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(j)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}
	reqid, _ := ctx.Value(contextKeyRequestID{}).(string)
	if reqid == "" {
		reqid = c.requestID
	}
	if reqid == "" {
		reqid = reqIDGen.Next()
	}
	req.Header.Set("X-Request-Id", reqid)
	return req, nil
}

// do sends req. A non-2xx response is returned as a
// *TransactionError.
func (c *Client) do(dst interface{}, req *http.Request) error {
	hc := c.Client
	if hc == nil && c.Insecure {
		hc = insecureHTTPClient
	} else if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newTransactionError(req, resp, buf)
	}
	if dst == nil || len(buf) == 0 {
		return nil
	}
	return json.Unmarshal(buf, dst)
}

// toMap encodes params as JSON and decodes the result into a map,
// keeping numbers in their original form.
func toMap(params interface{}) (map[string]interface{}, error) {
	m := map[string]interface{}{}
	if params == nil {
		return m, nil
	}
	j, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

// toValues flattens a JSON-decoded map into query parameters. Strings
// and numbers are sent as-is, false and null are left out, and
// anything else is sent as JSON.
func toValues(m map[string]interface{}) url.Values {
	vals := url.Values{}
	for k, v := range m {
		switch v := v.(type) {
		case nil:
		case string:
			vals.Set(k, v)
		case json.Number:
			vals.Set(k, v.String())
		case bool:
			if v {
				vals.Set(k, "true")
			}
		default:
			j, _ := json.Marshal(v)
			vals.Set(k, string(j))
		}
	}
	return vals
}

// RoutePath returns route.Path with its ":name" segment replaced by
// name (path-escaped).
func RoutePath(route APIRoute, name string) string {
	if route.NameKey == "" {
		return route.Path
	}
	return strings.Replace(route.Path, ":name", url.PathEscape(name), 1)
}
