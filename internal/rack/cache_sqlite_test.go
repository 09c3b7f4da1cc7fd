// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/models"
)

func newTestSQLiteRack(t *testing.T) *SQLiteCacheRack {
	t.Helper()
	r, err := NewSQLiteCacheRack(context.Background(), ":memory:", logger.Nop())
	require.NoError(t, err)
	return r
}

func TestSQLiteCacheRack_UpsertThenGetByID(t *testing.T) {
	r := newTestSQLiteRack(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, models.RequestDescriptor{
		Method:   "POST",
		Pathname: "/appdata/kid_1/books",
		Data:     map[string]any{"_id": "b1", "title": "Dune"},
	})
	require.NoError(t, err)

	resp, err := r.Execute(ctx, models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/appdata/kid_1/books/b1",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	m, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Dune", m["title"])
}

func TestSQLiteCacheRack_GetMissingIDReturnsErrNotFound(t *testing.T) {
	r := newTestSQLiteRack(t)
	_, err := r.Execute(context.Background(), models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/appdata/kid_1/books/missing",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCacheRack_PatchMergesFields(t *testing.T) {
	r := newTestSQLiteRack(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, models.RequestDescriptor{
		Method:   "POST",
		Pathname: "/appdata/kid_1/books",
		Data:     map[string]any{"_id": "b1", "title": "Dune", "read": false},
	})
	require.NoError(t, err)

	resp, err := r.Execute(ctx, models.RequestDescriptor{
		Method:   "PATCH",
		Pathname: "/appdata/kid_1/books/b1",
		Data:     map[string]any{"read": true},
	})
	require.NoError(t, err)

	m, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["read"])
	assert.Equal(t, "Dune", m["title"])
}

func TestSQLiteCacheRack_DeleteMissingReturnsErrNotFound(t *testing.T) {
	r := newTestSQLiteRack(t)
	_, err := r.Execute(context.Background(), models.RequestDescriptor{
		Method:   "DELETE",
		Pathname: "/appdata/kid_1/books/missing",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCacheRack_ListAppliesIDsFilterAndFieldProjection(t *testing.T) {
	r := newTestSQLiteRack(t)
	ctx := context.Background()

	for _, id := range []string{"b1", "b2", "b3"} {
		_, err := r.Execute(ctx, models.RequestDescriptor{
			Method:   "POST",
			Pathname: "/appdata/kid_1/books",
			Data:     map[string]any{"_id": id, "title": "book " + id},
		})
		require.NoError(t, err)
	}

	resp, err := r.Execute(ctx, models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/appdata/kid_1/books",
		Query: &models.Query{
			Filter: map[string]any{"_id": map[string]any{"$in": []string{"b1", "b3"}}},
			Fields: []string{"_id"},
		},
	})
	require.NoError(t, err)

	items, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	for _, item := range items {
		m := item.(map[string]any)
		assert.NotContains(t, m, "title")
		assert.Contains(t, m, "_id")
	}
}

func TestParsePath_RejectsMalformedPathname(t *testing.T) {
	_, err := parsePath("/only/two")
	assert.Error(t, err)
}
