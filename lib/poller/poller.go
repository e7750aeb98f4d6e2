// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package poller waits for control plane resources to settle.
package poller

import (
	"context"
	"fmt"
	"time"

	"git.arvados.org/mlplane.git/sdk/go/ctxlog"
	"git.arvados.org/mlplane.git/sdk/go/mlplane"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const DefaultInterval = 10 * time.Second

// A Poller repeatedly describes a resource until its status is
// settled: terminal for jobs, InService/OutOfService/Failed for
// endpoints, InService/Stopped/Failed for notebook instances.
type Poller struct {
	api      mlplane.API
	interval time.Duration

	mWaiting *prometheus.GaugeVec
	mPolls   *prometheus.CounterVec
}

// New returns a Poller that describes resources through api every
// interval (DefaultInterval if zero). Metrics are registered with
// reg if it is not nil.
func New(api mlplane.API, interval time.Duration, reg *prometheus.Registry) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		api:      api,
		interval: interval,
		mWaiting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mlplane",
			Subsystem: "poller",
			Name:      "waiting",
			Help:      "Number of resources being waited on, by kind and last observed status.",
		}, []string{"kind", "status"}),
		mPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlplane",
			Subsystem: "poller",
			Name:      "describe_calls_total",
			Help:      "Number of describe calls made while waiting, by kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(p.mWaiting, p.mPolls)
	}
	return p
}

// Wait returns the named resource once its status is settled, or an
// error if a describe call fails or ctx ends first.
//
// Kinds without a status (models) are settled as soon as they exist.
func (p *Poller) Wait(ctx context.Context, kind mlplane.ResourceKind, name string) (mlplane.Resource, error) {
	logger := ctxlog.FromContext(ctx).WithFields(logrus.Fields{
		"Kind": kind,
		"Name": name,
	})
	var last mlplane.Status
	defer func() {
		if last != nil {
			p.mWaiting.WithLabelValues(string(kind), last.String()).Dec()
		}
	}()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		p.mPolls.WithLabelValues(string(kind)).Inc()
		r, err := mlplane.Describe(ctx, p.api, kind, name)
		if err != nil {
			return nil, err
		}
		st := r.ResourceStatus()
		if st == nil {
			return r, nil
		}
		if last == nil || st.String() != last.String() {
			if last != nil {
				p.mWaiting.WithLabelValues(string(kind), last.String()).Dec()
			}
			p.mWaiting.WithLabelValues(string(kind), st.String()).Inc()
			lgr := logger.WithField("Status", st.String())
			if last != nil {
				lgr = lgr.WithField("PreviousStatus", last.String())
			}
			if st.Known() {
				lgr.Info("status changed")
			} else {
				lgr.Warn("status changed to unrecognized value")
			}
			last = st
		}
		if st.Settled() {
			return r, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s %q (last status %s): %w", kind, name, last, ctx.Err())
		case <-ticker.C:
		}
	}
}
