// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/models"
)

// newTestPostgresRack wires a PostgresCacheRack directly against a sqlmock
// connection, bypassing NewPostgresCacheRack (which dials a real pgx
// connection and runs migrations) since both are package-internal fields.
func newTestPostgresRack(t *testing.T) (*PostgresCacheRack, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresCacheRack{db: db, logger: logger.Nop()}, mock
}

func TestPostgresCacheRack_GetByID(t *testing.T) {
	r, mock := newTestPostgresRack(t)

	rows := sqlmock.NewRows([]string{"payload"}).AddRow(`{"_id":"b1","title":"Dune"}`)
	mock.ExpectQuery(`SELECT payload FROM documents WHERE`).
		WithArgs("kid_1", "books", "b1", "appdata").
		WillReturnRows(rows)

	resp, err := r.Execute(context.Background(), models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/appdata/kid_1/books/b1",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCacheRack_GetMissingReturnsErrNotFound(t *testing.T) {
	r, mock := newTestPostgresRack(t)

	mock.ExpectQuery(`SELECT payload FROM documents WHERE`).
		WithArgs("kid_1", "books", "missing", "appdata").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := r.Execute(context.Background(), models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/appdata/kid_1/books/missing",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCacheRack_UpsertUniqueViolationIsRetryable(t *testing.T) {
	r, mock := newTestPostgresRack(t)

	mock.ExpectExec(`INSERT INTO documents`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key value violates unique constraint"})

	_, err := r.Execute(context.Background(), models.RequestDescriptor{
		Method:   "POST",
		Pathname: "/appdata/kid_1/books",
		Data:     map[string]any{"_id": "b1", "title": "Dune"},
	})
	assert.ErrorIs(t, err, rackErrConflictRetryable)
}
