// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// KMD is the server-assigned metadata block attached to entities under the
// "_kmd" key. Lmt ("last modified time") is treated as an opaque,
// lexicographically-ordered RFC3339 timestamp string — it is compared with
// plain string ordering, never parsed as a time.Time.
type KMD struct {
	Ect *string `json:"ect,omitempty"`
	Lmt *string `json:"lmt,omitempty"`
}
