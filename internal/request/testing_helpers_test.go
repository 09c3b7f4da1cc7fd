// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

// fakeRack is a minimal, in-memory rack.CacheRack / rack.NetworkRack stand-in
// for exercising the policy dispatcher and sync notifier without real I/O.
type fakeRack struct {
	mu sync.Mutex

	// execFn, when set, takes full control of Execute for this call.
	execFn func(ctx context.Context, d models.RequestDescriptor) (models.Response, error)

	// store is keyed by pathname, holding whatever was last written.
	store map[string]any

	calls []models.RequestDescriptor
}

func newFakeRack() *fakeRack {
	return &fakeRack{store: map[string]any{}}
}

func (f *fakeRack) Execute(ctx context.Context, d models.RequestDescriptor) (models.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	f.mu.Unlock()

	if f.execFn != nil {
		return f.execFn(ctx, d)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch d.Method {
	case "GET":
		v, ok := f.store[d.Pathname]
		if !ok {
			return models.Response{}, rack.ErrNotFound
		}
		return models.Response{StatusCode: 200, Data: v}, nil
	case "DELETE":
		if _, ok := f.store[d.Pathname]; !ok {
			return models.Response{}, rack.ErrNotFound
		}
		delete(f.store, d.Pathname)
		return models.Response{StatusCode: 200, Data: map[string]any{}}, nil
	default: // POST, PUT, PATCH
		f.store[d.Pathname] = d.Data
		return models.Response{StatusCode: 200, Data: d.Data}, nil
	}
}

func (f *fakeRack) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeClient is a lightweight Client stand-in for tests.
type fakeClient struct {
	cache   rack.CacheRack
	network rack.NetworkRack

	protocol          string
	host              string
	apiVersion        int
	deviceInfo        string
	maxCustomProps    int
	debugHashKey      string
	defaultTimeoutMS  int
	defaultPolicy     models.DataPolicy
	syncCollection    string
	maxIDsPerRequest  int
}

func newFakeClient(cache *fakeRack, network *fakeRack) *fakeClient {
	return &fakeClient{
		cache:            cache,
		network:          network,
		protocol:         "https",
		host:             "baas.kinvey.com",
		apiVersion:       5,
		deviceInfo:       "go-data-bridge/test",
		maxCustomProps:   2000,
		defaultTimeoutMS: 10000,
		defaultPolicy:    models.PolicyPreferLocal,
		syncCollection:   "_QueueStore",
		maxIDsPerRequest: 200,
	}
}

func (c *fakeClient) Protocol() string                    { return c.protocol }
func (c *fakeClient) Host() string                        { return c.host }
func (c *fakeClient) APIVersion() int                     { return c.apiVersion }
func (c *fakeClient) DeviceInformation() string           { return c.deviceInfo }
func (c *fakeClient) MaxCustomPropsBytes() int            { return c.maxCustomProps }
func (c *fakeClient) DebugHashKey() string                { return c.debugHashKey }
func (c *fakeClient) DefaultTimeoutMS() int                { return c.defaultTimeoutMS }
func (c *fakeClient) DefaultPolicy() models.DataPolicy    { return c.defaultPolicy }
func (c *fakeClient) SyncCollectionName() string          { return c.syncCollection }
func (c *fakeClient) MaxIDsPerRequest() int                { return c.maxIDsPerRequest }
func (c *fakeClient) CacheRack() rack.CacheRack           { return c.cache }
func (c *fakeClient) NetworkRack() rack.NetworkRack       { return c.network }
