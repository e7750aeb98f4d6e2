// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"bytes"
	"regexp"
	"strings"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&ExportSuite{})

type ExportSuite struct{}

func (s *ExportSuite) SetUpTest(c *check.C) {
	unsetEnv()
}

func (s *ExportSuite) TestExport(c *check.C) {
	cfg, err := testLoader(c, `Profiles: {stub: {APIHost: "localhost:9000", AuthToken: abcdefg}}`, nil).Load()
	c.Assert(err, check.IsNil)

	var exported bytes.Buffer
	err = Export(&exported, cfg, false)
	c.Check(err, check.IsNil)
	if err != nil {
		c.Logf("If all the new keys are safe, add these to whitelist in export.go:")
		for _, k := range regexp.MustCompile(`"[^"]*"`).FindAllString(err.Error(), -1) {
			c.Logf("\t%q: true,", strings.Replace(k, `"`, "", -1))
		}
	}
	c.Check(exported.String(), check.Not(check.Matches), `(?ms).*abcdefg.*`)
	c.Check(exported.String(), check.Not(check.Matches), `(?ms).*AuthToken.*`)
	c.Check(exported.String(), check.Matches, `(?ms).*\n    APIHost: localhost:9000\n.*`)
	c.Check(exported.String(), check.Matches, `(?ms).*\n    PollInterval: 10s\n.*`)

	exported.Reset()
	err = Export(&exported, cfg, true)
	c.Check(err, check.IsNil)
	c.Check(exported.String(), check.Matches, `(?ms).*\n    AuthToken: abcdefg\n.*`)
}

func (s *ExportSuite) TestWhitelistComplete(c *check.C) {
	m := map[string]interface{}{"Profiles": map[string]interface{}{"p": map[string]interface{}{"NewSetting": 1}}}
	err := redactUnsafe(m, "", "")
	c.Check(err, check.ErrorMatches, `config bug: key "Profiles\.\*\.NewSetting" not in whitelist map`)
}
