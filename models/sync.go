// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncEntry is one pending operation recorded against an entity id in a
// SyncCollection document: the serialized mutating Request and the entity's
// last known server lmt (nil if the entity has never been synced).
type SyncEntry struct {
	Request RequestDescriptor `json:"request"`
	Lmt     *string           `json:"lmt"`
}

// SyncCollection is the per-collection pending-operations document persisted
// in the local store by the sync-queue notifier. ID is the collection name;
// Size must always equal len(Documents).
type SyncCollection struct {
	ID        string               `json:"_id"`
	Documents map[string]SyncEntry `json:"documents"`
	Size      int                  `json:"size"`
}
