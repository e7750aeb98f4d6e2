// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
)

// Export writes cfg to w as YAML. Secret settings (see whitelist) are
// left out unless showSecrets is true.
func Export(w io.Writer, cfg *Config, showSecrets bool) error {
	buf, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	err = json.Unmarshal(buf, &m)
	if err != nil {
		return err
	}
	if !showSecrets {
		err = redactUnsafe(m, "", "")
		if err != nil {
			return err
		}
	}
	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// whitelist classifies configs as safe/unsafe to print.
//
// Every config entry must either be listed explicitly here along with
// all of its parent keys (e.g., "Profiles" + "Profiles.*" +
// "Profiles.*.APIHost"), or have an ancestor listed as false.
// Otherwise, it is a bug which should be caught by tests.
var whitelist = map[string]bool{
	// | sort -t'"' -k2,2
	"DefaultProfile":               true,
	"Profiles":                     true,
	"Profiles.*":                   true,
	"Profiles.*.APIHost":           true,
	"Profiles.*.AuthToken":         false,
	"Profiles.*.Backend":           true,
	"Profiles.*.DescribeCacheSize": true,
	"Profiles.*.DescribeCacheTTL":  true,
	"Profiles.*.Insecure":          true,
	"Profiles.*.LogFormat":         true,
	"Profiles.*.LogLevel":          true,
	"Profiles.*.PageSize":          true,
	"Profiles.*.PollInterval":      true,
	"Profiles.*.Region":            true,
	"Profiles.*.Retries":           true,
	"Profiles.*.Scheme":            true,
	"Profiles.*.Timeout":           true,
}

func redactUnsafe(m map[string]interface{}, mPrefix, lookupPrefix string) error {
	var errs []string
	for k, v := range m {
		lookupKey := k
		safe, ok := whitelist[lookupPrefix+k]
		if !ok {
			lookupKey = "*"
			safe, ok = whitelist[lookupPrefix+"*"]
		}
		if !ok {
			errs = append(errs, fmt.Sprintf("config bug: key %q not in whitelist map", lookupPrefix+k))
			continue
		}
		if !safe {
			delete(m, k)
			continue
		}
		if v, ok := v.(map[string]interface{}); ok {
			err := redactUnsafe(v, mPrefix+k+".", lookupPrefix+lookupKey+".")
			if err != nil {
				errs = append(errs, err.Error())
			}
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "\n"))
	}
	return nil
}
