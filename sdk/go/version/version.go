// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package version reports the mlplane release a binary was built
// from.
package version

import "runtime/debug"

// Version is set at build time with
// -ldflags "-X git.arvados.org/mlplane.git/sdk/go/version.Version=1.2.3".
var Version string

// GetVersion returns Version if it was set at build time. Otherwise
// it returns the main module version recorded by "go install", or
// "dev" for a development build.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}
