// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-data-bridge/internal/rack"
	"github.com/MKhiriev/go-data-bridge/models"
)

// DeltaSetRequest specializes Execute() for the GET + PreferNetwork case
// with delta-set semantics (spec.md §4.4). Every other policy/method
// combination delegates to the embedded Request's base Execute().
type DeltaSetRequest struct {
	*Request
}

// NewDeltaSetRequest builds a Request the same way New does and wraps it.
func NewDeltaSetRequest(client Client, opts Options) (*DeltaSetRequest, error) {
	base, err := New(client, opts)
	if err != nil {
		return nil, err
	}
	return &DeltaSetRequest{Request: base}, nil
}

// Execute implements the delta-set algorithm of spec.md §4.4.
func (d *DeltaSetRequest) Execute(ctx context.Context) (models.Response, error) {
	if d.dataPolicy != models.PolicyPreferNetwork || d.method != models.MethodGet {
		return d.Request.Execute(ctx)
	}

	if err := d.beginExecute(); err != nil {
		return models.Response{}, err
	}
	defer d.endExecute()

	if err := d.resolveCredentials(ctx); err != nil {
		return models.Response{}, err
	}

	origQuery := d.query
	d.query = origQuery.WithFields("_id", "_kmd")
	defer func() { d.query = origQuery }()

	localItems, localErr := executeLocal(ctx, d.Request)
	var localSet []map[string]any
	if localErr != nil {
		if !errors.Is(localErr, rack.ErrNotFound) && !errors.Is(localErr, ErrNotFound) {
			return models.Response{}, localErr
		}
		// treated as empty-set success
	} else if localItems.IsSuccess() {
		localSet = toItemSlice(localItems.Data)
	}

	netResp, err := executeNetwork(ctx, d.Request)
	if err != nil {
		return models.Response{}, err
	}
	if !netResp.IsSuccess() {
		d.logger.Debug().Int("status", netResp.StatusCode).Msg("delta-set: network non-success, falling back to base execute")
		// fall through to base execute() per spec.md §4.4 point 9.
		d.query = origQuery
		d.endExecute()
		return d.Request.Execute(ctx)
	}

	networkSet := toItemSlice(netResp.Data)
	localIndex := indexByID(localSet)
	deltaIDs := computeDeltaIDs(localIndex, networkSet)
	unchangedIDs := unchangedLocalIDs(localIndex, deltaIDs)
	d.logger.Debug().
		Int("changed", len(deltaIDs)).
		Int("unchanged", len(unchangedIDs)).
		Msg("delta-set: computed delta")

	maxBatch := d.client.MaxIDsPerRequest()
	combined, fetchErr := fetchBatches(ctx, d.Request, origQuery, deltaIDs, unchangedIDs, maxBatch)
	if fetchErr != nil {
		return models.Response{}, fetchErr
	}

	return models.Response{StatusCode: 200, Data: combined}, nil
}

func toItemSlice(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{v}
	default:
		return nil
	}
}

func indexByID(items []map[string]any) map[string]*string {
	idx := make(map[string]*string, len(items))
	for _, item := range items {
		id, ok := itemID(item)
		if !ok {
			continue
		}
		idx[id] = itemLmt(item)
	}
	return idx
}

// computeDeltaIDs keeps a network id iff it is absent locally, or its lmt is
// newer than the local lmt. Equal lmt values are up to date. Missing _kmd on
// only one side counts as changed (spec.md §4.4 tie-break rule).
func computeDeltaIDs(localIndex map[string]*string, networkItems []map[string]any) []string {
	var delta []string
	for _, item := range networkItems {
		id, ok := itemID(item)
		if !ok {
			continue
		}
		netLmt := itemLmt(item)
		localLmt, existsLocally := localIndex[id]

		changed := false
		switch {
		case !existsLocally:
			changed = true
		case netLmt == nil && localLmt == nil:
			changed = false
		case (netLmt == nil) != (localLmt == nil):
			changed = true
		case *netLmt > *localLmt:
			changed = true
		}

		if changed {
			delta = append(delta, id)
		}
	}
	return delta
}

// unchangedLocalIDs is every local id not in the delta set — it may be a
// network id whose lmt tied, or a purely local id absent from the network
// response (e.g. deleted server-side but not yet reconciled).
func unchangedLocalIDs(localIndex map[string]*string, deltaIDs []string) []string {
	deltaSet := make(map[string]bool, len(deltaIDs))
	for _, id := range deltaIDs {
		deltaSet[id] = true
	}

	var out []string
	for id := range localIndex {
		if !deltaSet[id] {
			out = append(out, id)
		}
	}
	return out
}

func batchIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = len(ids)
	}
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

type batchOutcome struct {
	data []map[string]any
	err  error
}

// fetchBatches issues the delta-set ids and the unchanged ids concurrently:
// delta batches go to the network via PreferNetwork sub-requests, unchanged
// batches go to the local store via ForceLocal sub-requests, all batched at
// maxBatch ids per sub-request. All batches are awaited before returning; if
// any batch fails, the whole delta-set execution fails (the other batches'
// results are discarded), per spec.md §5.
func fetchBatches(ctx context.Context, base *Request, origQuery *models.Query, deltaIDs, unchangedIDs []string, maxBatch int) ([]map[string]any, error) {
	deltaBatches := batchIDs(deltaIDs, maxBatch)
	unchangedBatches := batchIDs(unchangedIDs, maxBatch)

	total := len(deltaBatches) + len(unchangedBatches)
	if total == 0 {
		return []map[string]any{}, nil
	}

	results := make(chan batchOutcome, total)
	var wg sync.WaitGroup

	networkPolicy := models.PolicyPreferNetwork
	for _, batch := range deltaBatches {
		wg.Add(1)
		go func(ids []string) {
			defer wg.Done()
			sub := base.clone(cloneOverrides{
				policy:   &networkPolicy,
				setQuery: true,
				query:    origQuery.WithIDsFilter(ids),
			})
			resp, err := sub.Execute(ctx)
			if err != nil {
				results <- batchOutcome{err: err}
				return
			}
			results <- batchOutcome{data: toItemSlice(resp.Data)}
		}(batch)
	}

	forceLocalPolicy := models.PolicyForceLocal
	for _, batch := range unchangedBatches {
		wg.Add(1)
		go func(ids []string) {
			defer wg.Done()
			sub := base.clone(cloneOverrides{
				policy:   &forceLocalPolicy,
				setQuery: true,
				query:    origQuery.WithIDsFilter(ids),
			})
			resp, err := sub.Execute(ctx)
			if err != nil {
				results <- batchOutcome{err: err}
				return
			}
			results <- batchOutcome{data: toItemSlice(resp.Data)}
		}(batch)
	}

	wg.Wait()
	close(results)

	var combined []map[string]any
	var firstErr error
	for outcome := range results {
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = outcome.err
			}
			continue
		}
		combined = append(combined, outcome.data...)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if combined == nil {
		combined = []map[string]any{}
	}
	return combined, nil
}
