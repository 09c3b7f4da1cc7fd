// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-data-bridge/models"
)

// Sentinel errors matching the contract names in spec.md §7. They are
// contracts, not a type hierarchy: callers use errors.Is against these
// values rather than type-switching.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyExecuting = errors.New("request already executing")
	ErrNotFound         = errors.New("not found")
	ErrBlobNotFound     = errors.New("blob not found")
	ErrNoResponse       = errors.New("no response")
)

// KinveyError is the catch-all for a non-2xx response whose error envelope
// did not map to one of the specialized sentinels above. It carries the
// original envelope so callers can still inspect Name/Debug if needed.
type KinveyError struct {
	Envelope models.ErrorEnvelope
}

func (e *KinveyError) Error() string {
	if e.Envelope.Name != "" {
		return fmt.Sprintf("kinvey error %s: %s", e.Envelope.Name, e.Envelope.Detail())
	}
	return fmt.Sprintf("kinvey error: %s", e.Envelope.Detail())
}
