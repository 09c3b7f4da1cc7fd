// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/migrations"
	"github.com/MKhiriev/go-data-bridge/models"
)

// PostgresCacheRack is the alternate local-cache backend selected when
// config Storage.Backend == "postgres". It exercises the same CacheRack
// contract as SQLiteCacheRack against a shared "documents" table, and
// recognizes unique_violation races on the sync document's read-modify-write
// (spec.md §5 "Concurrency of sync updates") via pgerrcode so callers can
// retry instead of treating it as a hard failure.
type PostgresCacheRack struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewPostgresCacheRack connects to dsn, runs embedded migrations, and
// returns a ready PostgresCacheRack.
func NewPostgresCacheRack(ctx context.Context, dsn string, log *logger.Logger) (*PostgresCacheRack, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres cache: %w", err)
	}
	db.SetMaxOpenConns(10)

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres cache: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate postgres cache: %w", err)
	}

	log.Info().Str("func", "NewPostgresCacheRack").Msg("postgres cache rack ready")
	return &PostgresCacheRack{db: db, logger: log}, nil
}

func (c *PostgresCacheRack) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(c.db)
}

// Execute implements CacheRack.
func (c *PostgresCacheRack) Execute(ctx context.Context, d models.RequestDescriptor) (models.Response, error) {
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
		return models.Response{}, fmt.Errorf("postgres cache rack: unsupported method %q", d.Method)
	}
}

func (c *PostgresCacheRack) get(ctx context.Context, path resourcePath, query *models.Query) (models.Response, error) {
	if path.EntityID != "" {
		row := c.builder().Select("payload").From("documents").
			Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection, "entity_id": path.EntityID}).
			QueryRowContext(ctx)

		var payload string
		if err := row.Scan(&payload); err != nil {
			if err == sql.ErrNoRows {
				return models.Response{}, ErrNotFound
			}
			return models.Response{}, fmt.Errorf("postgres cache get: %w", err)
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
		return models.Response{}, fmt.Errorf("postgres cache list: %w", err)
	}
	defer rows.Close()

	items := make([]any, 0)
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return models.Response{}, fmt.Errorf("postgres cache scan: %w", err)
		}
		items = append(items, projectPayload(payload, query))
	}
	if err = rows.Err(); err != nil {
		return models.Response{}, fmt.Errorf("postgres cache rows: %w", err)
	}

	return models.Response{StatusCode: 200, Data: items}, nil
}

func (c *PostgresCacheRack) upsert(ctx context.Context, path resourcePath, data any, isUpsert bool) (models.Response, error) {
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
		return models.Response{}, fmt.Errorf("postgres cache write: missing entity id")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return models.Response{}, fmt.Errorf("postgres cache encode: %w", err)
	}
	lmt := extractLmtString(data)

	_, err = c.builder().
		Insert("documents").
		Columns("namespace", "app_id", "collection", "entity_id", "payload", "lmt").
		Values(path.Namespace, path.AppID, path.Collection, entityID, string(payload), lmt).
		Suffix("ON CONFLICT (namespace, app_id, collection, entity_id) DO UPDATE SET payload = excluded.payload, lmt = excluded.lmt").
		ExecContext(ctx)
	if err != nil {
		if isRetryableConflict(err) {
			return models.Response{}, fmt.Errorf("%w: %s", rackErrConflictRetryable, err)
		}
		return models.Response{}, fmt.Errorf("postgres cache upsert: %w", err)
	}

	status := 201
	if isUpsert {
		status = 200
	}
	return models.Response{StatusCode: status, Data: data}, nil
}

func (c *PostgresCacheRack) patch(ctx context.Context, path resourcePath, data any) (models.Response, error) {
	if path.EntityID == "" {
		return models.Response{}, fmt.Errorf("postgres cache patch: missing entity id in path")
	}

	row := c.builder().Select("payload").From("documents").
		Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection, "entity_id": path.EntityID}).
		QueryRowContext(ctx)

	var existingPayload string
	if err := row.Scan(&existingPayload); err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, ErrNotFound
		}
		return models.Response{}, fmt.Errorf("postgres cache patch read: %w", err)
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
		return models.Response{}, fmt.Errorf("postgres cache patch encode: %w", err)
	}

	_, err = c.builder().Update("documents").
		Set("payload", string(merged)).
		Set("lmt", extractLmtString(existing)).
		Where(sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection, "entity_id": path.EntityID}).
		ExecContext(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("postgres cache patch write: %w", err)
	}

	return models.Response{StatusCode: 200, Data: existing}, nil
}

func (c *PostgresCacheRack) delete(ctx context.Context, path resourcePath) (models.Response, error) {
	where := sq.Eq{"namespace": path.Namespace, "app_id": path.AppID, "collection": path.Collection}
	if path.EntityID != "" {
		where["entity_id"] = path.EntityID
	}

	res, err := c.builder().Delete("documents").Where(where).ExecContext(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("postgres cache delete: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 && path.EntityID != "" {
		return models.Response{}, ErrNotFound
	}

	return models.Response{StatusCode: 204}, nil
}

var rackErrConflictRetryable = errors.New("rack: retryable conflict")

// isRetryableConflict reports whether err wraps a PostgreSQL unique_violation,
// which can legitimately occur when two notifySync read-modify-write cycles
// race on the same sync document (spec.md §5 accepts the drift; this lets a
// caller choose to retry instead).
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
