// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-bridge/models"
)

func TestNotifySync_SizeOnlyIncrementsForNewIDs(t *testing.T) {
	cache := newFakeRack()
	client := newFakeClient(cache, newFakeRack())

	seed := models.SyncCollection{
		ID: "books",
		Documents: map[string]models.SyncEntry{
			"b1": {Request: models.RequestDescriptor{Method: "POST"}},
		},
		Size: 1,
	}
	cache.store["/appdata/kid_1/_QueueStore/books"] = seed

	r, err := New(client, Options{
		Method:     "PATCH",
		Pathname:   "/appdata/kid_1/books/b1",
		DataPolicy: models.PolicyForceLocal,
		Data:       map[string]any{"_id": "b1", "title": "Dune: updated"},
	})
	require.NoError(t, err)

	_, err = r.Execute(context.Background())
	require.NoError(t, err)

	raw := cache.store["/appdata/kid_1/_QueueStore/books"]
	doc, ok := raw.(models.SyncCollection)
	require.True(t, ok)
	assert.Equal(t, 1, doc.Size, "b1 already existed, size must not double-count")
	assert.Len(t, doc.Documents, 1)
}

func TestNotifySync_NewIDIncrementsSize(t *testing.T) {
	cache := newFakeRack()
	client := newFakeClient(cache, newFakeRack())

	r, err := New(client, Options{
		Method:     "POST",
		Pathname:   "/appdata/kid_1/books",
		DataPolicy: models.PolicyForceLocal,
		Data:       map[string]any{"_id": "b2", "title": "Dune Messiah"},
	})
	require.NoError(t, err)

	_, err = r.Execute(context.Background())
	require.NoError(t, err)

	raw := cache.store["/appdata/kid_1/_QueueStore/books"]
	doc, ok := raw.(models.SyncCollection)
	require.True(t, ok)
	assert.Equal(t, 1, doc.Size)
	_, ok = doc.Documents["b2"]
	assert.True(t, ok)
}

func TestNormalizeToItems(t *testing.T) {
	assert.Nil(t, normalizeToItems(nil))
	assert.Equal(t, []any{"x"}, normalizeToItems([]any{"x"}))
	assert.Equal(t, []any{map[string]any{"a": 1}}, normalizeToItems(map[string]any{"a": 1}))
}
