// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ResponseType is the semantic shape a caller expects the response body to
// take. TransportHint maps it onto the string the rack uses to decode the
// wire payload.
type ResponseType string

const (
	ResponseTypeBlob     ResponseType = "Blob"
	ResponseTypeDocument ResponseType = "Document"
	ResponseTypeJSON     ResponseType = "JSON"
	ResponseTypeText     ResponseType = "Text"
)

// TransportHint returns the rack-facing decode hint for rt. Go has no
// blob/arraybuffer runtime distinction, so Blob always maps to "blob" (the
// source's arraybuffer fallback path does not apply here).
func (rt ResponseType) TransportHint() string {
	switch rt {
	case ResponseTypeBlob:
		return "blob"
	case ResponseTypeDocument:
		return "document"
	case ResponseTypeJSON:
		return "json"
	default:
		return ""
	}
}
