// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package rack provides the two pluggable execution backends the request
// core dispatches against: a CacheRack for the local offline store and a
// NetworkRack for the remote backend. Both share one contract so the core
// never needs to know which one it is talking to.
package rack

import (
	"context"

	"github.com/MKhiriev/go-data-bridge/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/rack_mock.go -package=mock

// CacheRack executes a request descriptor against the local offline store.
type CacheRack interface {
	Execute(ctx context.Context, d models.RequestDescriptor) (models.Response, error)
}

// NetworkRack executes a request descriptor against the remote backend.
type NetworkRack interface {
	Execute(ctx context.Context, d models.RequestDescriptor) (models.Response, error)
}
