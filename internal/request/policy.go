// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

// dispatch implements Step B of spec.md §4.2: the branch table across the
// five data policies. A nil, nil return means the dispatcher completed
// without producing a response — Execute turns that into ErrNoResponse.
func dispatch(ctx context.Context, r *Request) (*models.Response, error) {
	switch r.dataPolicy {
	case models.PolicyLocalOnly:
		r.logger.Debug().Msg("dispatch: branch=LocalOnly")
		return dispatchLocalOnly(ctx, r)
	case models.PolicyForceLocal:
		r.logger.Debug().Msg("dispatch: branch=ForceLocal")
		return dispatchForceLocal(ctx, r)
	case models.PolicyPreferLocal:
		if r.method == models.MethodGet {
			r.logger.Debug().Msg("dispatch: branch=PreferLocal/GET")
			return dispatchPreferLocalGet(ctx, r)
		}
		r.logger.Debug().Msg("dispatch: branch=PreferLocal/write")
		return dispatchPreferLocalWrite(ctx, r)
	case models.PolicyForceNetwork:
		r.logger.Debug().Msg("dispatch: branch=ForceNetwork")
		return dispatchForceNetwork(ctx, r)
	case models.PolicyPreferNetwork:
		r.logger.Debug().Msg("dispatch: branch=PreferNetwork")
		return dispatchPreferNetwork(ctx, r)
	default:
		return nil, fmt.Errorf("%w: unknown data policy %q", ErrInvalidInput, r.dataPolicy)
	}
}

// dispatchLocalOnly runs the local rack and returns its result unchanged.
// It never triggers SyncNotifier, even on a successful non-GET mutation —
// it is the policy the sync notifier itself uses to read/write its own
// document, and a notifying LocalOnly would recurse into itself.
func dispatchLocalOnly(ctx context.Context, r *Request) (*models.Response, error) {
	resp, err := executeLocal(ctx, r)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// dispatchForceLocal runs the local rack; a successful non-GET mutation
// (unless skipSync) is recorded by the sync notifier before the response is
// returned.
func dispatchForceLocal(ctx context.Context, r *Request) (*models.Response, error) {
	resp, err := executeLocal(ctx, r)
	if err != nil {
		return nil, err
	}

	if resp.IsSuccess() && r.method != models.MethodGet && !r.skipSync {
		if err = notifySync(ctx, r, resp.Data); err != nil {
			return nil, err
		}
	}

	return &resp, nil
}

// dispatchPreferLocalGet runs the local rack first. A cache-miss
// (rack.ErrNotFound) is synthesized into an empty 404 rather than
// propagated. If the (possibly synthesized) response is not successful, the
// read escalates to the network via a PreferNetwork sub-request.
func dispatchPreferLocalGet(ctx context.Context, r *Request) (*models.Response, error) {
	resp, err := executeLocal(ctx, r)
	if err != nil {
		if errors.Is(err, rack.ErrNotFound) || errors.Is(err, ErrNotFound) {
			resp = models.Response{StatusCode: 404, Data: []any{}}
		} else {
			return nil, err
		}
	}

	if resp.IsSuccess() {
		return &resp, nil
	}

	r.logger.Debug().Str("pathname", r.pathname).Msg("PreferLocal/GET: cache miss, escalating to network")
	networkPolicy := models.PolicyPreferNetwork
	method := models.MethodGet
	sub := r.clone(cloneOverrides{
		policy:  &networkPolicy,
		method:  &method,
		setData: true,
		data:    resp.Data,
	})

	subResp, err := sub.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return &subResp, nil
}

// dispatchPreferLocalWrite tries the network first; on success the server is
// authoritative and no local mirror is written by this branch. On network
// failure, a ForceLocal sub-request persists the mutation offline, and the
// original network error is re-thrown regardless of whether the local
// fallback itself succeeds (spec.md §4.2, Open Question about mirroring the
// success body is resolved in DESIGN.md — this branch never mirrors on
// success).
func dispatchPreferLocalWrite(ctx context.Context, r *Request) (*models.Response, error) {
	networkPolicy := models.PolicyPreferNetwork
	sub := r.clone(cloneOverrides{policy: &networkPolicy})

	subResp, err := sub.Execute(ctx)
	if err == nil {
		return &subResp, nil
	}

	r.logger.Debug().Err(err).Msg("PreferLocal/write: network failed, falling back to local")
	forceLocalPolicy := models.PolicyForceLocal
	fallback := r.clone(cloneOverrides{policy: &forceLocalPolicy})
	// The local write's own error is deliberately discarded: the contract is
	// to re-throw the original network error regardless of fallback outcome.
	_, _ = fallback.Execute(ctx)

	return nil, err
}

// dispatchForceNetwork returns the network response unchanged.
func dispatchForceNetwork(ctx context.Context, r *Request) (*models.Response, error) {
	resp, err := executeNetwork(ctx, r)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// dispatchPreferNetwork runs the network first. On success, the result is
// mirrored into the cache via a ForceLocal sub-request (GET is turned into
// PUT so the local store upserts) before the network response is returned —
// the mirror's completion is awaited first so a subsequent read observes it.
// On network failure for a GET, the cache is used as a fallback.
func dispatchPreferNetwork(ctx context.Context, r *Request) (*models.Response, error) {
	resp, err := executeNetwork(ctx, r)
	if err != nil {
		return nil, err
	}

	if resp.IsSuccess() {
		mirrorMethod := r.method
		if mirrorMethod == models.MethodGet {
			mirrorMethod = models.MethodPut
		}
		forceLocalPolicy := models.PolicyForceLocal
		mirror := r.clone(cloneOverrides{
			policy:  &forceLocalPolicy,
			method:  &mirrorMethod,
			setData: true,
			data:    resp.Data,
		})
		if _, mErr := mirror.Execute(ctx); mErr != nil {
			return nil, mErr
		}
		return &resp, nil
	}

	if r.method == models.MethodGet {
		r.logger.Debug().Int("status", resp.StatusCode).Msg("PreferNetwork/GET: non-success, falling back to cache")
		forceLocalPolicy := models.PolicyForceLocal
		fallback := r.clone(cloneOverrides{
			policy:  &forceLocalPolicy,
			setData: true,
			data:    resp.Data,
		})
		fallbackResp, fErr := fallback.Execute(ctx)
		if fErr != nil {
			return nil, fErr
		}
		return &fallbackResp, nil
	}

	return &resp, nil
}
