// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/models"
)

func TestNetworkRackHTTP_Execute_SuccessRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appdata/kid_1/books/b1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("X-Kinvey-Request-Id", "abc123")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "b1", "title": "Dune"})
	}))
	defer srv.Close()

	n, err := NewNetworkRackHTTP(srv.URL, 5*time.Second, logger.Nop())
	require.NoError(t, err)

	resp, err := n.Execute(context.Background(), models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/appdata/kid_1/books/b1",
		Headers:  map[string]string{"Accept": "application/json"},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	v, ok := resp.GetHeader("x-kinvey-request-id")
	assert.True(t, ok)
	assert.Equal(t, "abc123", v)

	body, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "b1", body["_id"])
}

func TestNetworkRackHTTP_Execute_NonSuccessNeverErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "EntityNotFound", "message": "no such entity"})
	}))
	defer srv.Close()

	n, err := NewNetworkRackHTTP(srv.URL, 5*time.Second, logger.Nop())
	require.NoError(t, err)

	resp, err := n.Execute(context.Background(), models.RequestDescriptor{Method: "GET", Pathname: "/x/y/z/b1"})
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, 404, resp.StatusCode)
}

func TestNetworkRackHTTP_Execute_IDsFilterBecomesQueryParam(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("_id")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode([]any{})
	}))
	defer srv.Close()

	n, err := NewNetworkRackHTTP(srv.URL, 5*time.Second, logger.Nop())
	require.NoError(t, err)

	_, err = n.Execute(context.Background(), models.RequestDescriptor{
		Method:   "GET",
		Pathname: "/x/y/z",
		Query:    &models.Query{Filter: map[string]any{"_id": map[string]any{"$in": []string{"b1", "b2"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "b1,b2", gotQuery)
}

func TestNormalizeBaseURL_AddsSchemeAndTrimsSlash(t *testing.T) {
	u, err := normalizeBaseURL("example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", u)
}

func TestNormalizeBaseURL_RejectsEmpty(t *testing.T) {
	_, err := normalizeBaseURL("  ")
	assert.Error(t, err)
}
