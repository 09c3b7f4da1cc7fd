// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

// Client is the shared, borrowed configuration every Request references
// (spec.md §3 "the client reference is borrowed"). internal/client.Client
// implements it; tests may supply a lighter stand-in.
type Client interface {
	Protocol() string
	Host() string
	APIVersion() int
	DeviceInformation() string
	MaxCustomPropsBytes() int
	DebugHashKey() string
	DefaultTimeoutMS() int
	DefaultPolicy() models.DataPolicy
	SyncCollectionName() string
	MaxIDsPerRequest() int
	CacheRack() rack.CacheRack
	NetworkRack() rack.NetworkRack
}
