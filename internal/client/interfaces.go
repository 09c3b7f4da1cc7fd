// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"github.com/MKhiriev/go-data-bridge/internal/config"
	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

// Client is the shared, borrowed configuration every request.Request built
// against it references. It implements internal/request.Client.
type Client struct {
	cfg    *config.StructuredConfig
	logger *logger.Logger

	cacheRack   rack.CacheRack
	networkRack rack.NetworkRack

	tokens tokenStore
}

// Protocol is fixed: the request core builds URLs as {protocol}://{host}.
func (c *Client) Protocol() string { return "https" }

// Host returns the network backend's address, without scheme, as the
// Request's default host.
func (c *Client) Host() string { return c.cfg.Adapter.HTTPAddress }

func (c *Client) APIVersion() int           { return c.cfg.App.APIVersion }
func (c *Client) DeviceInformation() string { return c.cfg.App.DeviceInformation }
func (c *Client) MaxCustomPropsBytes() int  { return c.cfg.Request.MaxCustomPropsBytes }
func (c *Client) DebugHashKey() string      { return c.cfg.App.DebugHashKey }
func (c *Client) DefaultTimeoutMS() int     { return c.cfg.Request.DefaultTimeoutMS }
func (c *Client) DefaultPolicy() models.DataPolicy {
	return models.PolicyPreferLocal
}
func (c *Client) SyncCollectionName() string { return c.cfg.Sync.CollectionName }
func (c *Client) MaxIDsPerRequest() int       { return c.cfg.Request.MaxIDsPerRequest }

func (c *Client) CacheRack() rack.CacheRack     { return c.cacheRack }
func (c *Client) NetworkRack() rack.NetworkRack { return c.networkRack }

// Logger returns the client's structured logger, for callers that build
// requests with WithLogger.
func (c *Client) Logger() *logger.Logger { return c.logger }
