// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package mlplane is a typed client model for a managed
// machine-learning control plane.
//
// It offers request and result types for the long-running resources
// the control plane manages (training, tuning, labeling and transform
// jobs, endpoints, notebook instances, models), the status
// enumerations those resources move through, builders that validate
// requests before they are sent, and the list/pagination contract
// shared by every List API.
//
// The model never owns authoritative state. Status values are only
// observed: the remote service advances them, and callers poll
// Describe or List to see the change. A Stop request is an ordinary
// request, not a cancellation of anything in flight.
//
// Transports implementing API live elsewhere (see lib/rpc and
// lib/sagemaker); this package only defines the shapes exchanged
// across that boundary.
package mlplane
