// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package auth carries API tokens from incoming requests to the
// handlers and clients that need them.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Credentials are the tokens presented with a request.
type Credentials struct {
	Tokens []string
}

func NewCredentials(tokens ...string) *Credentials {
	return &Credentials{Tokens: tokens}
}

type contextKeyCredentials struct{}

// NewContext returns a context carrying c.
func NewContext(ctx context.Context, c *Credentials) context.Context {
	return context.WithValue(ctx, contextKeyCredentials{}, c)
}

// FromContext returns the credentials attached by NewContext.
func FromContext(ctx context.Context) (*Credentials, bool) {
	c, ok := ctx.Value(contextKeyCredentials{}).(*Credentials)
	return c, ok
}

// CredentialsFromRequest returns the credentials already attached to
// r's context by LoadToken, or else the ones in its headers.
func CredentialsFromRequest(r *http.Request) *Credentials {
	if c, ok := FromContext(r.Context()); ok {
		return c
	}
	c := NewCredentials()
	c.loadFromHeaders(r.Header)
	return c
}

// loadFromHeaders adds the token from an "Authorization: Bearer"
// header, and the password from an "Authorization: Basic" header.
// Surrounding whitespace, often pasted along with a token, is
// ignored.
func (c *Credentials) loadFromHeaders(h http.Header) {
	authz := h.Get("Authorization")
	scheme, value, _ := strings.Cut(authz, " ")
	switch {
	case scheme == "Bearer":
		if tok := strings.TrimSpace(value); tok != "" {
			c.Tokens = append(c.Tokens, tok)
		}
	case scheme == "Basic":
		req := http.Request{Header: http.Header{"Authorization": {authz}}}
		if _, password, ok := req.BasicAuth(); ok {
			c.Tokens = append(c.Tokens, strings.TrimSpace(password))
		}
	}
}
