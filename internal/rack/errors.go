// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import "errors"

var (
	// ErrNotFound is returned by a CacheRack when the requested entity or
	// collection does not exist locally. NetworkRack implementations never
	// return it; a 404 from the network is folded into a non-2xx Response
	// instead, per the rack contract in spec.md §6.
	ErrNotFound = errors.New("rack: entity not found")

	// ErrUnavailable indicates the rack's backing storage or transport could
	// not be reached at all (as opposed to responding with a non-2xx status).
	ErrUnavailable = errors.New("rack: backend unavailable")
)
