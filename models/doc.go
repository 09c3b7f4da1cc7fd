// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models holds the plain data types shared between the request
// core (internal/request), the pluggable execution backends (internal/rack),
// and the client wiring (internal/client): HTTP method/policy/response-type
// enums, the auth descriptor sum type, KMD metadata, the rack-facing request
// descriptor and response shapes, and the sync-queue document shapes.
package models
