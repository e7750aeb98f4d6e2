// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"fmt"
	"sort"
	"strings"

	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/sirupsen/logrus"
)

const (
	BackendREST      = "rest"
	BackendSageMaker = "sagemaker"
)

// DefaultConfigFile is used when neither -config nor MLPLANE_CONFIG
// is given.
const DefaultConfigFile = "/etc/mlplane/config.yml"

type Config struct {
	// Profile used when none is named. May be empty if there is
	// exactly one profile.
	DefaultProfile string
	Profiles       map[string]Profile
}

// A Profile describes how to reach one control plane.
type Profile struct {
	// "rest" (an mlplane REST endpoint, e.g., a stub server) or
	// "sagemaker" (the AWS API).
	Backend string `envconfig:"BACKEND"`

	// REST backend
	APIHost   string `envconfig:"API_HOST"`
	Scheme    string `envconfig:"API_SCHEME"`
	Insecure  bool   `envconfig:"API_HOST_INSECURE"`
	AuthToken string `envconfig:"API_TOKEN"`

	// SageMaker backend
	Region string `envconfig:"REGION"`

	Timeout mlplane.Duration `envconfig:"TIMEOUT"`

	// Number of times to retry a failed REST call. Negative means
	// no retries.
	Retries int `envconfig:"RETRIES"`

	PageSize     int              `envconfig:"PAGE_SIZE"`
	PollInterval mlplane.Duration `envconfig:"POLL_INTERVAL"`

	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`

	// Describe results for resources in a terminal status are
	// cached in memory. A negative DescribeCacheSize disables the
	// cache.
	DescribeCacheSize int              `envconfig:"DESCRIBE_CACHE_SIZE"`
	DescribeCacheTTL  mlplane.Duration `envconfig:"DESCRIBE_CACHE_TTL"`
}

// GetProfile returns the named profile, or the default profile if
// name is empty.
func (cfg *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name == "" {
		if len(cfg.Profiles) != 1 {
			return nil, fmt.Errorf("no profile specified and no DefaultProfile configured (available: %s)", strings.Join(cfg.profileNames(), ", "))
		}
		for id := range cfg.Profiles {
			name = id
		}
	}
	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q is not configured", name)
	}
	return &p, nil
}

func (cfg *Config) profileNames() []string {
	var names []string
	for id := range cfg.Profiles {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// Check returns an error if the profile cannot be used.
func (p *Profile) Check() error {
	switch p.Backend {
	case BackendREST:
		if p.APIHost == "" {
			return fmt.Errorf("Backend %q requires APIHost", p.Backend)
		}
		if p.Scheme != "http" && p.Scheme != "https" {
			return fmt.Errorf("invalid Scheme %q (must be http or https)", p.Scheme)
		}
	case BackendSageMaker:
		if p.Region == "" {
			return fmt.Errorf("Backend %q requires Region", p.Backend)
		}
	default:
		return fmt.Errorf("unknown Backend %q (must be %q or %q)", p.Backend, BackendREST, BackendSageMaker)
	}
	if p.PageSize < 1 || p.PageSize > mlplane.MaxMaxResults {
		return fmt.Errorf("PageSize %d out of range [1, %d]", p.PageSize, mlplane.MaxMaxResults)
	}
	switch p.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LogFormat %q (must be text or json)", p.LogFormat)
	}
	if _, err := logrus.ParseLevel(p.LogLevel); err != nil {
		return fmt.Errorf("LogLevel: %w", err)
	}
	return nil
}
