// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRequestConfig indicates a non-positive size/time limit in
	// the Request section.
	ErrInvalidRequestConfig = errors.New("invalid request configuration")
	// ErrInvalidSyncConfig indicates an empty sync collection name.
	ErrInvalidSyncConfig = errors.New("invalid sync configuration")
	// ErrInvalidStorageConfig indicates an unknown cache rack backend.
	ErrInvalidStorageConfig = errors.New("invalid storage configuration")
)
