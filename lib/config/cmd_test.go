// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"bytes"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&CommandSuite{})

type CommandSuite struct{}

func (s *CommandSuite) SetUpTest(c *check.C) {
	unsetEnv()
}

func (s *CommandSuite) TestBadArg(c *check.C) {
	var stderr bytes.Buffer
	code := DumpCommand.RunCommand("mlplane-client config-dump", []string{"-badarg"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil), &stderr)
	c.Check(code, check.Equals, 2)
	c.Check(stderr.String(), check.Matches, `(?ms)error parsing command line arguments: .*badarg.*`)
}

func (s *CommandSuite) TestEmptyInput(c *check.C) {
	var stdout, stderr bytes.Buffer
	code := DumpCommand.RunCommand("mlplane-client config-dump", []string{"-config=-"}, &bytes.Buffer{}, &stdout, &stderr)
	c.Check(code, check.Equals, 1)
	c.Check(stderr.String(), check.Matches, `(?ms).*config does not define any profiles\n`)
}

func (s *CommandSuite) TestDump(c *check.C) {
	var stdout, stderr bytes.Buffer
	in := `
Profiles:
 stub:
  APIHost: localhost:9000
  AuthToken: secret
  UnknownKey: foobar
`
	code := DumpCommand.RunCommand("mlplane-client config-dump", []string{"-config=-"}, bytes.NewBufferString(in), &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms)DefaultProfile: ""\nProfiles:\n  stub:\n.*`)
	c.Check(stdout.String(), check.Matches, `(?ms).*\n    PageSize: 50\n.*`)
	c.Check(stdout.String(), check.Not(check.Matches), `(?ms).*(UnknownKey|secret).*`)
	c.Check(stderr.String(), check.Matches, `(?ms).*unknown config entry: Profiles\.stub\.UnknownKey.*`)

	stdout.Reset()
	code = DumpCommand.RunCommand("mlplane-client config-dump", []string{"-config=-", "-show-secrets"}, bytes.NewBufferString(in), &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms).*\n    AuthToken: secret\n.*`)
}

func (s *CommandSuite) TestListEnv(c *check.C) {
	var stdout, stderr bytes.Buffer
	code := DumpCommand.RunCommand("mlplane-client config-dump", []string{"-env"}, nil, &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms)MLPLANE_CONFIG\nMLPLANE_PROFILE\nMLPLANE_BACKEND\n.*\nMLPLANE_API_TOKEN\n.*`)
}

func (s *CommandSuite) TestDumpDefaults(c *check.C) {
	var stdout, stderr bytes.Buffer
	code := DumpDefaultsCommand.RunCommand("mlplane-client config-defaults", nil, nil, &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.Bytes(), check.DeepEquals, DefaultYAML)
}
