// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client wires the request core to a concrete configuration: the
// network rack's transport, the cache rack's backend, and the app/sync
// identifiers attached to every outbound Request. Client implements
// internal/request.Client.
package client
