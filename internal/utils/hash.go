// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// FingerprintRequestProperties computes a short, stable hex digest of the
// serialized custom-request-properties JSON for structured log correlation.
//
// This is a debug aid only: it never gates access control and is not a
// substitute for the Basic-auth credential framing the request core uses
// for Authorization headers.
func FingerprintRequestProperties(serializedJSON []byte, key string) string {
	var keyBytes []byte
	if key != "" {
		keyBytes = []byte(key)
	}

	h, err := blake2b.New256(keyBytes)
	if err != nil {
		// blake2b.New256 only errors when the key exceeds blake2b.Size;
		// fall back to the unkeyed hash rather than propagate a logging
		// failure into the request path.
		h, _ = blake2b.New256(nil)
	}

	h.Write(serializedJSON)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
