// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/ghodss/yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

//go:embed config.default.yml
var DefaultYAML []byte

// EnvPrefix is the prefix of environment variables that override
// profile settings, e.g., MLPLANE_API_TOKEN.
const EnvPrefix = "MLPLANE"

var ErrNoProfiles = errors.New("config does not define any profiles")

type Loader struct {
	Stdin  io.Reader
	Logger logrus.FieldLogger

	// Config file to read. "-" means Stdin. Empty means
	// $MLPLANE_CONFIG, or DefaultConfigFile.
	Path string
	// Ignore MLPLANE_* environment variables.
	SkipEnv bool
}

// NewLoader returns a new Loader with Stdin and Logger set to the
// given values, and all config paths set to their default values.
func NewLoader(stdin io.Reader, logger logrus.FieldLogger) *Loader {
	ldr := &Loader{Stdin: stdin, Logger: logger}
	ldr.SetupFlags(flag.NewFlagSet("", flag.ContinueOnError))
	return ldr
}

// SetupFlags configures a flagset so arguments like -config X can be
// used to change the loader's Path field.
//
//	ldr := NewLoader(os.Stdin, logger)
//	flagset := flag.NewFlagSet("", flag.ContinueOnError)
//	ldr.SetupFlags(flagset)
//	// ldr.Path == "/etc/mlplane/config.yml"
//	flagset.Parse([]string{"-config", "/tmp/c.yml"})
//	// ldr.Path == "/tmp/c.yml"
func (ldr *Loader) SetupFlags(flagset *flag.FlagSet) {
	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = DefaultConfigFile
	}
	flagset.StringVar(&ldr.Path, "config", path, "Client configuration `file`")
}

func (ldr *Loader) loadBytes() ([]byte, error) {
	path := ldr.Path
	if path == "" {
		path = DefaultConfigFile
	}
	if path == "-" {
		return io.ReadAll(ldr.Stdin)
	}
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) && path == DefaultConfigFile {
		// Without a config file, a single profile can still
		// be configured entirely through the environment.
		ldr.Logger.Debugf("%s does not exist, using a single default profile", path)
		return []byte(`Profiles: {default: {}}`), nil
	}
	return buf, err
}

// Load reads the config file, fills in defaults, applies environment
// overrides to every profile, and checks the result.
func (ldr *Loader) Load() (*Config, error) {
	buf, err := ldr.loadBytes()
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	var defaults Profile
	err = yaml.Unmarshal(DefaultYAML, &defaults)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	for id, p := range cfg.Profiles {
		err = mergo.Merge(&p, defaults)
		if err != nil {
			return nil, fmt.Errorf("profile %q: applying defaults: %w", id, err)
		}
		if !ldr.SkipEnv {
			err = envconfig.Process(EnvPrefix, &p)
			if err != nil {
				return nil, fmt.Errorf("profile %q: %w", id, err)
			}
		}
		cfg.Profiles[id] = p
	}
	if !ldr.SkipEnv {
		var sel struct {
			Profile string
		}
		err = envconfig.Process(EnvPrefix, &sel)
		if err != nil {
			return nil, err
		}
		if sel.Profile != "" {
			cfg.DefaultProfile = sel.Profile
		}
	}

	err = ldr.logExtraKeys(buf, &cfg)
	if err != nil {
		return nil, err
	}
	for _, id := range cfg.profileNames() {
		p := cfg.Profiles[id]
		if err := p.Check(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", id, err)
		}
	}
	if cfg.DefaultProfile != "" {
		if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
			return nil, fmt.Errorf("DefaultProfile %q is not configured", cfg.DefaultProfile)
		}
	}
	return &cfg, nil
}

// logExtraKeys warns about keys in the supplied config that do not
// correspond to any config setting.
func (ldr *Loader) logExtraKeys(buf []byte, cfg *Config) error {
	var supplied map[string]interface{}
	err := yaml.Unmarshal(buf, &supplied)
	if err != nil {
		return err
	}
	var expected map[string]interface{}
	j, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	err = json.Unmarshal(j, &expected)
	if err != nil {
		return err
	}
	var extra []string
	findExtraKeys(expected, supplied, "", &extra)
	sort.Strings(extra)
	for _, k := range extra {
		ldr.Logger.Warnf("unknown config entry: %s", k)
	}
	return nil
}

func findExtraKeys(expected, supplied map[string]interface{}, prefix string, extra *[]string) {
	for k, vsupp := range supplied {
		vexp, ok := expected[k]
		if !ok {
			*extra = append(*extra, prefix+k)
			continue
		}
		msupp, ok := vsupp.(map[string]interface{})
		if !ok {
			continue
		}
		mexp, ok := vexp.(map[string]interface{})
		if !ok {
			// Not a map in the config struct, so any
			// error will already have been reported by
			// Unmarshal.
			continue
		}
		findExtraKeys(mexp, msupp, prefix+k+".", extra)
	}
}

// EnvVars returns the names of the environment variables that
// override profile settings.
func EnvVars() []string {
	var names []string
	var buf strings.Builder
	envconfig.Usagef(EnvPrefix, &Profile{}, &buf, "{{range .}}{{usage_key .}}\n{{end}}")
	for _, line := range strings.Split(buf.String(), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
