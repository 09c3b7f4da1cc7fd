// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/models"
)

// SQLiteCacheRack is the default local offline cache. It stores every
// document — collection entities and the sync-queue document alike — in one
// generic table keyed by (namespace, app_id, collection, entity_id), so the
// same rack implementation transparently backs LocalOnly/ForceLocal/
// PreferLocal reads and writes and the SyncCollection document itself.
type SQLiteCacheRack struct {
	db     *sql.DB
	logger *logger.Logger
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	namespace  TEXT NOT NULL,
	app_id     TEXT NOT NULL,
	collection TEXT NOT NULL,
	entity_id  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	lmt        TEXT,
	PRIMARY KEY (namespace, app_id, collection, entity_id)
);`

// NewSQLiteCacheRack opens (creating if necessary) the sqlite file at dsn and
// ensures the generic documents table exists.
func NewSQLiteCacheRack(ctx context.Context, dsn string, log *logger.Logger) (*SQLiteCacheRack, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	if dsn != ":memory:" {
		if _, err := os.Stat(dsn); os.IsNotExist(err) {
			f, createErr := os.Create(dsn)
			if createErr != nil {
				return nil, fmt.Errorf("create sqlite cache file: %w", createErr)
			}
			f.Close()
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite cache: %w", err)
	}
	if _, err = db.ExecContext(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	log.Debug().Str("func", "NewSQLiteCacheRack").Str("dsn", dsn).Msg("sqlite cache rack ready")
	return &SQLiteCacheRack{db: db, logger: log}, nil
}

func (c *SQLiteCacheRack) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(c.db)
}

// Execute implements CacheRack.
func (c *SQLiteCacheRack) Execute(ctx context.Context, d models.RequestDescriptor) (models.Response, error) {
	path, err := parsePath(d.Pathname)
	if err != nil {
		return models.Response{}, err
	}

	switch d.Method {
	case string(models.MethodGet):
		return c.get(ctx, path, d.Query)
	case string(models.MethodPost):
		return c.upsert(ctx, path, d.Data, false)
	case string(models.MethodPut):
		return c.upsert(ctx, path, d.Data, true)
	case string(models.MethodPatch):
		return c.patch(ctx, path, d.Data)
	case string(models.MethodDelete):
		return c.delete(ctx, path)
	default:
		return models.Response{}, fmt.Errorf("sqlite cache rack: unsupported method %q", d.Method)
	}
}

func (c *SQLiteCacheRack) get(ctx context.Context, path resourcePath, query *models.Query) (models.Response, error) {
	if path.EntityID != "" {
		row := c.builder().Select("payload").From("documents").
			Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection, "entity_id": path.EntityID}).
			QueryRowContext(ctx)

		var payload string
		if err := row.Scan(&payload); err != nil {
			if err == sql.ErrNoRows {
				return models.Response{}, ErrNotFound
			}
			return models.Response{}, fmt.Errorf("sqlite cache get: %w", err)
		}
		return models.Response{StatusCode: 200, Data: projectPayload(payload, query)}, nil
	}

	sel := c.builder().Select("payload").From("documents").
		Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection})

	if ids := extractIDsFilter(query); len(ids) > 0 {
		sel = sel.Where(sq.Eq{"entity_id": ids})
	}

	rows, err := sel.QueryContext(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache list: %w", err)
	}
	defer rows.Close()

	items := make([]any, 0)
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return models.Response{}, fmt.Errorf("sqlite cache scan: %w", err)
		}
		items = append(items, projectPayload(payload, query))
	}
	if err = rows.Err(); err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache rows: %w", err)
	}

	return models.Response{StatusCode: 200, Data: items}, nil
}

func (c *SQLiteCacheRack) upsert(ctx context.Context, path resourcePath, data any, isUpsert bool) (models.Response, error) {
	if items, ok := data.([]any); ok && path.EntityID == "" {
		for _, item := range items {
			if _, err := c.upsert(ctx, path, item, isUpsert); err != nil {
				return models.Response{}, err
			}
		}
		status := 201
		if isUpsert {
			status = 200
		}
		return models.Response{StatusCode: status, Data: data}, nil
	}

	entityID := path.EntityID
	if entityID == "" {
		entityID = extractStringID(data)
	}
	if entityID == "" {
		return models.Response{}, fmt.Errorf("sqlite cache write: missing entity id")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache encode: %w", err)
	}
	lmt := extractLmtString(data)

	_, err = c.builder().
		Insert("documents").
		Columns("namespace", "app_id", "collection", "entity_id", "payload", "lmt").
		Values(path.Namespace, path.AppID, path.Collection, entityID, string(payload), lmt).
		Suffix("ON CONFLICT(namespace, app_id, collection, entity_id) DO UPDATE SET payload=excluded.payload, lmt=excluded.lmt").
		ExecContext(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache upsert: %w", err)
	}

	status := 201
	if isUpsert {
		status = 200
	}
	return models.Response{StatusCode: status, Data: data}, nil
}

func (c *SQLiteCacheRack) patch(ctx context.Context, path resourcePath, data any) (models.Response, error) {
	if path.EntityID == "" {
		return models.Response{}, fmt.Errorf("sqlite cache patch: missing entity id in path")
	}

	row := c.builder().Select("payload").From("documents").
		Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection, "entity_id": path.EntityID}).
		QueryRowContext(ctx)

	var existingPayload string
	if err := row.Scan(&existingPayload); err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, ErrNotFound
		}
		return models.Response{}, fmt.Errorf("sqlite cache patch read: %w", err)
	}

	var existing map[string]any
	if err := json.Unmarshal([]byte(existingPayload), &existing); err != nil {
		existing = map[string]any{}
	}
	if patch, ok := data.(map[string]any); ok {
		for k, v := range patch {
			existing[k] = v
		}
	}

	merged, err := json.Marshal(existing)
	if err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache patch encode: %w", err)
	}

	_, err = c.builder().Update("documents").
		Set("payload", string(merged)).
		Set("lmt", extractLmtString(existing)).
		Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection, "entity_id": path.EntityID}).
		ExecContext(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache patch write: %w", err)
	}

	return models.Response{StatusCode: 200, Data: existing}, nil
}

func (c *SQLiteCacheRack) delete(ctx context.Context, path resourcePath) (models.Response, error) {
	where := sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection}
	if path.EntityID != "" {
		where["entity_id"] = path.EntityID
	}

	res, err := c.builder().Delete("documents").Where(where).ExecContext(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("sqlite cache delete: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 && path.EntityID != "" {
		return models.Response{}, ErrNotFound
	}

	return models.Response{StatusCode: 204}, nil
}

func projectPayload(payload string, query *models.Query) any {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return json.RawMessage(payload)
	}
	if query == nil || len(query.Fields) == 0 {
		return decoded
	}

	projected := make(map[string]any, len(query.Fields))
	for _, f := range query.Fields {
		if v, ok := decoded[f]; ok {
			projected[f] = v
		}
	}
	return projected
}

func extractStringID(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := m["_id"].(string)
	return id
}

func extractLmtString(data any) any {
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	kmd, ok := m["_kmd"].(map[string]any)
	if !ok {
		return nil
	}
	lmt, _ := kmd["lmt"].(string)
	if lmt == "" {
		return nil
	}
	return lmt
}

// resourcePath is the decomposed form of a RequestDescriptor.Pathname per
// the /:namespace/:appId/:collection(/:id)?/? grammar.
type resourcePath struct {
	Namespace  string
	AppID      string
	Collection string
	EntityID   string
}

func parsePath(pathname string) (resourcePath, error) {
	trimmed := strings.Trim(pathname, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return resourcePath{}, fmt.Errorf("malformed resource path %q", pathname)
	}

	p := resourcePath{Namespace: parts[0], AppID: parts[1], Collection: parts[2]}
	if len(parts) >= 4 && parts[3] != "" {
		p.EntityID = parts[3]
	}
	return p, nil
}
