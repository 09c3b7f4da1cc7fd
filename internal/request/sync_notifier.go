// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

// notifySync implements spec.md §4.3: after a successful local mutation, it
// reads (or synthesizes) the per-collection sync document, records one
// pending-operation entry per mutated id, and persists the document back via
// a LocalOnly PUT with skipSync=true to prevent infinite recursion.
func notifySync(ctx context.Context, r *Request, data any) error {
	path, err := ParsePath(r.pathname)
	if err != nil {
		return err
	}

	syncPathname := fmt.Sprintf("/%s/%s/%s/%s", path.Namespace, path.AppID, r.client.SyncCollectionName(), path.Collection)
	r.logger.Debug().Str("syncPathname", syncPathname).Msg("notifySync: recording pending operation")

	doc, err := readSyncCollection(ctx, r, syncPathname, path.Collection)
	if err != nil {
		return err
	}

	for _, item := range normalizeToItems(data) {
		id, ok := itemID(item)
		if !ok || id == "" {
			continue
		}
		if _, exists := doc.Documents[id]; !exists {
			doc.Size++
		}
		doc.Documents[id] = models.SyncEntry{
			Request: r.ToJSON(),
			Lmt:     itemLmt(item),
		}
	}

	r.logger.Debug().Int("size", doc.Size).Msg("notifySync: writing sync document")
	return writeSyncCollection(ctx, r, syncPathname, doc)
}

func readSyncCollection(ctx context.Context, r *Request, syncPathname, collection string) (models.SyncCollection, error) {
	localOnly := models.PolicyLocalOnly
	get := models.MethodGet
	skipSync := true

	readReq := r.clone(cloneOverrides{
		policy:   &localOnly,
		method:   &get,
		pathname: &syncPathname,
		skipSync: &skipSync,
		setData:  true,
		data:     nil,
	})

	resp, err := readReq.Execute(ctx)
	if err != nil {
		if errors.Is(err, rack.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return models.SyncCollection{ID: collection, Documents: map[string]models.SyncEntry{}}, nil
		}
		return models.SyncCollection{}, err
	}

	var doc models.SyncCollection
	if decodeErr := decodeInto(resp.Data, &doc); decodeErr != nil {
		return models.SyncCollection{}, fmt.Errorf("decode sync document: %w", decodeErr)
	}
	if doc.Documents == nil {
		doc.Documents = map[string]models.SyncEntry{}
	}
	if doc.ID == "" {
		doc.ID = collection
	}
	return doc, nil
}

func writeSyncCollection(ctx context.Context, r *Request, syncPathname string, doc models.SyncCollection) error {
	localOnly := models.PolicyLocalOnly
	put := models.MethodPut
	skipSync := true

	writeReq := r.clone(cloneOverrides{
		policy:   &localOnly,
		method:   &put,
		pathname: &syncPathname,
		skipSync: &skipSync,
		setData:  true,
		data:     doc,
	})

	_, err := writeReq.Execute(ctx)
	return err
}

// normalizeToItems coerces a response body into a slice of generic items,
// per spec.md §4.3 "normalizes data to an array".
func normalizeToItems(data any) []any {
	switch v := data.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

func itemID(item any) (string, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m["_id"].(string)
	return id, ok
}

func itemLmt(item any) *string {
	m, ok := item.(map[string]any)
	if !ok {
		return nil
	}
	kmd, ok := m["_kmd"].(map[string]any)
	if !ok {
		return nil
	}
	lmt, ok := kmd["lmt"].(string)
	if !ok {
		return nil
	}
	return &lmt
}

func decodeInto(data any, out *models.SyncCollection) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
