// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-bridge/internal/config"
	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/internal/rack"
)

// New constructs a Client from cfg: it opens the configured cache rack
// backend (sqlite or postgres) and the HTTP network rack, running any
// pending migrations for the postgres backend along the way.
func New(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}

	cacheRack, err := newCacheRack(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create cache rack: %w", err)
	}

	networkRack, err := rack.NewNetworkRackHTTP(cfg.Adapter.HTTPAddress, cfg.Adapter.RequestTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("create network rack: %w", err)
	}

	return &Client{
		cfg:         cfg,
		logger:      log,
		cacheRack:   cacheRack,
		networkRack: networkRack,
	}, nil
}

func newCacheRack(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (rack.CacheRack, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return rack.NewPostgresCacheRack(ctx, cfg.Storage.DB.DSN, log)
	case "sqlite", "":
		return rack.NewSQLiteCacheRack(ctx, cfg.Storage.DB.DSN, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
