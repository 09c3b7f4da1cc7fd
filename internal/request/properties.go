// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"encoding/json"
	"fmt"
)

// RequestProperties is custom per-request metadata. AppVersion is lifted out
// into its own header (spec.md §4.1); Custom is serialized as-is into the
// X-Kinvey-Custom-Request-Properties header.
type RequestProperties struct {
	AppVersion string
	Custom     map[string]any
}

// serialize renders Custom (never AppVersion) as JSON for the size-capped
// custom-properties header, per spec.md §6.
func (p RequestProperties) serialize() ([]byte, error) {
	payload := p.Custom
	if payload == nil {
		payload = map[string]any{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: serialize request properties: %v", ErrInvalidInput, err)
	}
	return b, nil
}
