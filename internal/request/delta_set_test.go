// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

func idsFilter(q *models.Query) ([]string, bool) {
	if q == nil || q.Filter == nil {
		return nil, false
	}
	inClause, ok := q.Filter["_id"].(map[string]any)
	if !ok {
		return nil, false
	}
	ids, ok := inClause["$in"].([]string)
	return ids, ok
}

func itemsSubset(dataset map[string]map[string]any, ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if item, ok := dataset[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

func itemsAll(dataset map[string]map[string]any) []any {
	out := make([]any, 0, len(dataset))
	for _, item := range dataset {
		out = append(out, item)
	}
	return out
}

// TestDeltaSetGET_ComputesCorrectDelta pins spec.md §8 scenario 4, the
// 3-entry worked example: b1's network lmt is newer, b2 ties, b3 exists only
// on the network. The combined result must contain exactly {b1, b2, b3},
// each exactly once: b1 and b3 fetched fresh from the network, b2 served
// from the unchanged local set.
func TestDeltaSetGET_ComputesCorrectDelta(t *testing.T) {
	localDataset := map[string]map[string]any{
		"b1": {"_id": "b1", "_kmd": map[string]any{"lmt": "2020-01-01T00:00:00.000Z"}},
		"b2": {"_id": "b2", "_kmd": map[string]any{"lmt": "2020-01-01T00:00:00.000Z"}},
	}
	networkDataset := map[string]map[string]any{
		"b1": {"_id": "b1", "_kmd": map[string]any{"lmt": "2020-01-02T00:00:00.000Z"}},
		"b2": {"_id": "b2", "_kmd": map[string]any{"lmt": "2020-01-01T00:00:00.000Z"}},
		"b3": {"_id": "b3", "_kmd": map[string]any{"lmt": "2020-01-01T00:00:00.000Z"}},
	}

	cache := newFakeRack()
	cache.execFn = func(ctx context.Context, d models.RequestDescriptor) (models.Response, error) {
		if d.Method != "GET" {
			return models.Response{StatusCode: 200, Data: d.Data}, nil
		}
		if d.Pathname != "/appdata/kid_1/books" {
			// The sync document read by the PreferNetwork mirror's notifier
			// does not exist yet.
			return models.Response{}, rack.ErrNotFound
		}
		if ids, ok := idsFilter(d.Query); ok {
			return models.Response{StatusCode: 200, Data: itemsSubset(localDataset, ids)}, nil
		}
		return models.Response{StatusCode: 200, Data: itemsAll(localDataset)}, nil
	}

	network := newFakeRack()
	network.execFn = func(ctx context.Context, d models.RequestDescriptor) (models.Response, error) {
		if ids, ok := idsFilter(d.Query); ok {
			return models.Response{StatusCode: 200, Data: itemsSubset(networkDataset, ids)}, nil
		}
		return models.Response{StatusCode: 200, Data: itemsAll(networkDataset)}, nil
	}

	client := newFakeClient(cache, network)
	d, err := NewDeltaSetRequest(client, Options{
		Method:     "GET",
		Pathname:   "/appdata/kid_1/books",
		DataPolicy: models.PolicyPreferNetwork,
	})
	require.NoError(t, err)

	resp, err := d.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	items := toItemSlice(resp.Data)
	require.Len(t, items, 3)

	seen := map[string]bool{}
	for _, item := range items {
		id, _ := itemID(item)
		seen[id] = true
	}
	assert.Equal(t, map[string]bool{"b1": true, "b2": true, "b3": true}, seen)
}

func TestComputeDeltaIDs_TieIsNotChanged(t *testing.T) {
	localIndex := map[string]*string{"b2": strPtr("2020-01-01")}
	network := []map[string]any{
		{"_id": "b2", "_kmd": map[string]any{"lmt": "2020-01-01"}},
	}
	delta := computeDeltaIDs(localIndex, network)
	assert.Empty(t, delta)
}

func TestComputeDeltaIDs_MissingLocallyIsChanged(t *testing.T) {
	localIndex := map[string]*string{}
	network := []map[string]any{
		{"_id": "b3", "_kmd": map[string]any{"lmt": "2020-01-01"}},
	}
	delta := computeDeltaIDs(localIndex, network)
	assert.Equal(t, []string{"b3"}, delta)
}

func TestUnchangedLocalIDs_ExcludesDelta(t *testing.T) {
	localIndex := map[string]*string{"b1": strPtr("x"), "b2": strPtr("y")}
	unchanged := unchangedLocalIDs(localIndex, []string{"b1"})
	assert.Equal(t, []string{"b2"}, unchanged)
}

func TestBatchIDs_ChunksToMaxSize(t *testing.T) {
	ids := make([]string, 450)
	for i := range ids {
		ids[i] = "id"
	}
	batches := batchIDs(ids, 200)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 200)
	assert.Len(t, batches[1], 200)
	assert.Len(t, batches[2], 50)
}

func strPtr(s string) *string { return &s }
