// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderMap_CaseInsensitiveGetSet(t *testing.T) {
	h := NewHeaderMap()
	h.Set("Content-Type", "application/json")

	v, ok := h.Get("content-type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)
}

func TestHeaderMap_SetOverwritesPreservingLatestCasing(t *testing.T) {
	h := NewHeaderMap()
	h.Set("X-Foo", "1")
	h.Set("x-foo", "2")

	out := h.ToMap()
	assert.Len(t, out, 1)
	assert.Equal(t, "2", out["x-foo"])
}

func TestHeaderMap_RemoveIsCaseInsensitive(t *testing.T) {
	h := NewHeaderMap()
	h.Set("Authorization", "Basic abc")
	h.Remove("authorization")

	_, ok := h.Get("Authorization")
	assert.False(t, ok)
}

func TestHeaderMap_CloneIsIndependent(t *testing.T) {
	h := NewHeaderMap()
	h.Set("A", "1")

	clone := h.Clone()
	clone.Set("A", "2")
	clone.Set("B", "3")

	v, _ := h.Get("A")
	assert.Equal(t, "1", v)
	_, ok := h.Get("B")
	assert.False(t, ok)
}

func TestHeaderMap_ClearEmptiesMap(t *testing.T) {
	h := NewHeaderMap()
	h.Set("A", "1")
	h.Clear()

	assert.Empty(t, h.ToMap())
}
