// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import "strings"

type headerEntry struct {
	key   string
	value string
}

// HeaderMap is a case-insensitive header store. Lookup and removal both
// normalize on the lower-cased key; Set preserves the caller's original
// casing for the stored key so ToMap() reproduces it on the wire.
type HeaderMap struct {
	entries map[string]headerEntry
}

// NewHeaderMap returns an empty, ready-to-use HeaderMap.
func NewHeaderMap() *HeaderMap {
	return &HeaderMap{entries: make(map[string]headerEntry)}
}

// Set stores value under key, preserving key's case. A later Set with a
// differently-cased but equal key overwrites the previous entry, including
// its stored casing.
func (h *HeaderMap) Set(key, value string) {
	if h.entries == nil {
		h.entries = make(map[string]headerEntry)
	}
	h.entries[strings.ToLower(key)] = headerEntry{key: key, value: value}
}

// Get performs a case-insensitive lookup.
func (h *HeaderMap) Get(key string) (string, bool) {
	e, ok := h.entries[strings.ToLower(key)]
	return e.value, ok
}

// Remove deletes key case-insensitively. Normalizing on the lower-cased key
// for both Set and Remove is a deliberate departure from the source, which
// only lowercases on removeHeader — see DESIGN.md for the resolved open
// question.
func (h *HeaderMap) Remove(key string) {
	delete(h.entries, strings.ToLower(key))
}

// Clear empties the map.
func (h *HeaderMap) Clear() {
	h.entries = make(map[string]headerEntry)
}

// Clone returns an independent copy; Request owns its headers by value, so
// every sub-request built by the policy dispatcher clones rather than shares.
func (h *HeaderMap) Clone() *HeaderMap {
	clone := NewHeaderMap()
	for k, v := range h.entries {
		clone.entries[k] = v
	}
	return clone
}

// ToMap renders the header set as a plain map with the caller's original
// casing, the shape a RequestDescriptor carries to a rack.
func (h *HeaderMap) ToMap() map[string]string {
	out := make(map[string]string, len(h.entries))
	for _, e := range h.entries {
		out[e.key] = e.value
	}
	return out
}
