// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-bridge/models"
)

// Execute runs the state machine described in spec.md §4.2: guarded
// re-entry, credential resolution (Step A), policy dispatch (Step B), and
// error-envelope interpretation (Step C). executing is always cleared,
// including on error, before Execute returns.
func (r *Request) Execute(ctx context.Context) (models.Response, error) {
	if err := r.beginExecute(); err != nil {
		r.logger.Debug().Str("pathname", r.pathname).Msg("execute rejected: already executing")
		return models.Response{}, err
	}
	defer r.endExecute()

	r.logger.Debug().
		Str("method", string(r.method)).
		Str("pathname", r.pathname).
		Str("policy", string(r.dataPolicy)).
		Msg("execute: begin")

	if err := r.resolveCredentials(ctx); err != nil {
		r.logger.Debug().Err(err).Msg("execute: resolve credentials failed")
		return models.Response{}, err
	}

	resp, err := dispatch(ctx, r)
	if err != nil {
		r.logger.Debug().Err(err).Str("policy", string(r.dataPolicy)).Msg("execute: dispatch failed")
		return models.Response{}, err
	}
	if resp == nil {
		r.logger.Debug().Str("policy", string(r.dataPolicy)).Msg("execute: dispatch returned no response")
		return models.Response{}, ErrNoResponse
	}

	final, err := finalizeResponse(*resp)
	r.logger.Debug().
		Int("status", resp.StatusCode).
		Bool("success", err == nil).
		Msg("execute: end")
	return final, err
}

// beginExecute atomically checks and sets the executing flag before any
// suspension point, per spec.md §5.
func (r *Request) beginExecute() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.executing {
		return ErrAlreadyExecuting
	}
	r.executing = true
	return nil
}

func (r *Request) endExecute() {
	r.mu.Lock()
	r.executing = false
	r.mu.Unlock()
}

// IsExecuting reports the current value of the executing flag.
func (r *Request) IsExecuting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executing
}

// resolveCredentials implements Step A: evaluate auth exactly once, and if a
// descriptor results, install the Authorization header.
func (r *Request) resolveCredentials(ctx context.Context) error {
	if r.auth.IsZero() {
		return nil
	}

	descriptor, err := r.auth.Resolve(r.client)
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}
	if descriptor == nil {
		return nil
	}

	scheme, credentials := descriptor.ResolveCredentials()
	r.headers.Set("Authorization", fmt.Sprintf("%s %s", scheme, credentials))
	return nil
}

func executeLocal(ctx context.Context, r *Request) (models.Response, error) {
	return r.client.CacheRack().Execute(ctx, r.ToJSON())
}

func executeNetwork(ctx context.Context, r *Request) (models.Response, error) {
	return r.client.NetworkRack().Execute(ctx, r.ToJSON())
}

// finalizeResponse implements Step C: non-2xx responses are interpreted
// against the error-envelope shape and lifted into typed errors.
func finalizeResponse(resp models.Response) (models.Response, error) {
	if resp.IsSuccess() {
		return resp, nil
	}

	envelope := decodeErrorEnvelope(resp.Data)
	switch envelope.Name {
	case "BlobNotFound":
		return models.Response{}, fmt.Errorf("%w: %s", ErrBlobNotFound, envelope.Detail())
	case "EntityNotFound":
		return models.Response{}, fmt.Errorf("%w: %s", ErrNotFound, envelope.Detail())
	default:
		return models.Response{}, &KinveyError{Envelope: envelope}
	}
}
