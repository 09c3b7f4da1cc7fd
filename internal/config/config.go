// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Defaults mirror the external-interfaces contract of the request core:
// SyncCollectionName, MaxCustomPropsBytes, DefaultTimeoutMS, MaxIDsPerRequest
// and APIVersion all have fixed fallbacks so a Client can be constructed with
// a zero-value [StructuredConfig].
const (
	DefaultSyncCollectionName  = "sync"
	DefaultMaxCustomPropsBytes = 2000
	DefaultTimeoutMS           = 10000
	DefaultMaxIDsPerRequest    = 200
	DefaultAPIVersion          = 3
	DefaultDeviceInformation   = "go-data-bridge/1.0 (linux)"
)

// StructuredConfig is the top-level configuration container for the
// go-data-bridge SDK. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds device/version identifiers attached to every outbound
	// request.
	App App `envPrefix:"APP_"`

	// Request holds the request-core size limits and timeouts.
	Request Request `envPrefix:"REQUEST_"`

	// Sync holds sync-queue naming.
	Sync Sync `envPrefix:"SYNC_"`

	// Adapter holds the network rack's transport settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the cache rack's backend settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level identifiers embedded into every request by
// [request.New].
type App struct {
	// APIVersion is sent as X-Kinvey-Api-Version on every request.
	// Env: APP_API_VERSION
	APIVersion int `env:"API_VERSION"`

	// DeviceInformation is sent as X-Kinvey-Device-Information on every
	// request.
	// Env: APP_DEVICE_INFORMATION
	DeviceInformation string `env:"DEVICE_INFORMATION"`

	// DebugHashKey keys the debug content-fingerprint logged alongside
	// custom request properties. Never used for a security boundary.
	// Env: APP_DEBUG_HASH_KEY
	DebugHashKey string `env:"DEBUG_HASH_KEY"`
}

// Request holds the size/time limits enforced by the request core.
type Request struct {
	// MaxCustomPropsBytes caps the serialized size of RequestProperties.
	// Env: REQUEST_MAX_CUSTOM_PROPS_BYTES
	MaxCustomPropsBytes int `env:"MAX_CUSTOM_PROPS_BYTES"`

	// DefaultTimeoutMS is the default request timeout in milliseconds.
	// Env: REQUEST_DEFAULT_TIMEOUT_MS
	DefaultTimeoutMS int `env:"DEFAULT_TIMEOUT_MS"`

	// MaxIDsPerRequest caps how many entity ids a single batched
	// sub-request (delta-set fetch) may carry.
	// Env: REQUEST_MAX_IDS_PER_REQUEST
	MaxIDsPerRequest int `env:"MAX_IDS_PER_REQUEST"`
}

// Sync holds sync-queue naming used by the SyncNotifier.
type Sync struct {
	// CollectionName is the local-store collection holding pending-sync
	// documents, one per data collection.
	// Env: SYNC_COLLECTION_NAME
	CollectionName string `env:"COLLECTION_NAME"`
}

// Adapter holds the network rack's transport settings.
type Adapter struct {
	// HTTPAddress is the base URL of the remote network backend.
	// Env: ADAPTER_HTTP_ADDRESS
	HTTPAddress string `env:"HTTP_ADDRESS"`

	// RequestTimeout bounds every outbound network-rack call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the cache rack's backend settings.
type Storage struct {
	// Backend selects the cache rack implementation: "sqlite" (default)
	// or "postgres".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DB holds the connection settings for whichever Backend is selected.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the cache rack's backing store.
type DB struct {
	// DSN is the SQLite file path or Postgres connection string.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// GetStructuredConfig loads, merges, and validates the SDK configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
