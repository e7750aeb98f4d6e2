// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"git.arvados.org/mlplane.git/lib/config"
	"git.arvados.org/mlplane.git/lib/rpc"
	"git.arvados.org/mlplane.git/lib/sagemaker"
	"git.arvados.org/mlplane.git/lib/termcache"
	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/dustin/go-humanize"
	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"
)

// kindAliases are accepted in place of the full kind names.
var kindAliases = map[string]mlplane.ResourceKind{
	"tuning-job": mlplane.KindTuningJob,
	"notebook":   mlplane.KindNotebookInstance,
}

func parseKind(s string) (mlplane.ResourceKind, error) {
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	k := mlplane.ResourceKind(s)
	if !k.Known() {
		var names []string
		for _, k := range mlplane.Kinds() {
			names = append(names, string(k))
		}
		return "", fmt.Errorf("unknown resource kind %q (must be one of: %s)", s, strings.Join(names, ", "))
	}
	return k, nil
}

// session is what a subcommand needs after flags are parsed: the
// selected profile, a logger, and an API backed by the profile's
// control plane.
type session struct {
	profile *config.Profile
	logger  *logrus.Logger
	api     mlplane.API
	cache   *termcache.Cache
}

func (cf *commonFlags) setup(stderr io.Writer) (*session, error) {
	if err := cf.checkFormat(); err != nil {
		return nil, err
	}
	cfg, err := cf.loader.Load()
	if err != nil {
		return nil, err
	}
	p, err := cfg.GetProfile(cf.Profile)
	if err != nil {
		return nil, err
	}
	level := p.LogLevel
	if cf.Verbose {
		level = "debug"
	}
	logger := ctxlog.New(stderr, p.LogFormat, level)

	var api mlplane.API
	switch p.Backend {
	case config.BackendREST:
		api = rpc.NewConn(&url.URL{Scheme: p.Scheme, Host: p.APIHost}, rpc.StaticToken(p.AuthToken), rpc.Options{
			Insecure: p.Insecure,
			RetryMax: p.Retries,
			Logger:   logger,
		})
	case config.BackendSageMaker:
		api, err = sagemaker.New(p.Region, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown Backend %q", p.Backend)
	}
	sess := &session{profile: p, logger: logger, api: api}
	if p.DescribeCacheSize > 0 {
		sess.cache = &termcache.Cache{API: api, MaxEntries: p.DescribeCacheSize, TTL: p.DescribeCacheTTL}
		sess.api = sess.cache
	}
	logger.WithFields(logrus.Fields{
		"Backend": p.Backend,
		"APIHost": p.APIHost,
		"Region":  p.Region,
	}).Debug("using control plane")
	return sess, nil
}

// context returns a context carrying the session logger, and
// cancelled after the profile's Timeout (if any).
func (sess *session) context() (context.Context, context.CancelFunc) {
	ctx := ctxlog.Context(context.Background(), sess.logger)
	if d := sess.profile.Timeout.Duration(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func (sess *session) close() {
	if sess.cache == nil {
		return
	}
	stats := sess.cache.Stats()
	sess.logger.WithFields(logrus.Fields{
		"Requests": stats.Requests,
		"Hits":     stats.Hits,
		"Entries":  stats.Entries,
	}).Debug("describe cache stats")
}

// writeStructured writes v to w as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatYAML:
		buf, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(buf)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func statusOf(r mlplane.Resource) string {
	if st := r.ResourceStatus(); st != nil {
		return st.String()
	}
	return "-"
}

// timestamp formats t as RFC3339 followed by its age, e.g.,
// "2024-03-01T12:00:00Z (3 hours ago)".
func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.UTC().Format(time.RFC3339), humanize.Time(t))
}

// writeTable writes one line per resource, with fixed-width name and
// status columns.
func writeTable(w io.Writer, rs []mlplane.Resource) {
	namew, statusw := len("NAME"), len("STATUS")
	for _, r := range rs {
		if n := len(r.ResourceName()); n > namew {
			namew = n
		}
		if n := len(statusOf(r)); n > statusw {
			statusw = n
		}
	}
	fmt.Fprintf(w, "%-*s  %-*s  %s\n", namew, "NAME", statusw, "STATUS", "CREATED")
	for _, r := range rs {
		fmt.Fprintf(w, "%-*s  %-*s  %s\n", namew, r.ResourceName(), statusw, statusOf(r), timestamp(r.CreatedAt()))
	}
}

// writeSummary writes the common fields of r, one per line.
func writeSummary(w io.Writer, r mlplane.Resource) {
	fields := [][2]string{
		{"Kind", string(r.ResourceKind())},
		{"Name", r.ResourceName()},
		{"ARN", r.ResourceARN()},
		{"Status", statusOf(r)},
		{"Created", timestamp(r.CreatedAt())},
		{"Modified", timestamp(r.ModifiedAt())},
	}
	if fr := failureReason(r); fr != "" {
		fields = append(fields, [2]string{"FailureReason", fr})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-14s %s\n", f[0]+":", f[1])
	}
}

func failureReason(r mlplane.Resource) string {
	switch r := r.(type) {
	case mlplane.TrainingJob:
		return r.FailureReason
	case mlplane.TuningJob:
		return r.FailureReason
	case mlplane.LabelingJob:
		return r.FailureReason
	case mlplane.TransformJob:
		return r.FailureReason
	case mlplane.Endpoint:
		return r.FailureReason
	case mlplane.NotebookInstance:
		return r.FailureReason
	}
	return ""
}
