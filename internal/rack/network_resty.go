// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/internal/utils"
	"github.com/MKhiriev/go-data-bridge/models"
)

// NetworkRackHTTP is the HTTP/REST implementation of NetworkRack. It never
// returns an error for a non-2xx response; the status is folded into the
// returned Response so the dispatcher's policy branches can inspect it.
type NetworkRackHTTP struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewNetworkRackHTTP constructs a NetworkRackHTTP against baseAddress,
// configuring the underlying client's base URL and request timeout.
// Returns an error if baseAddress is empty or cannot be parsed as a URL.
func NewNetworkRackHTTP(baseAddress string, timeout time.Duration, log *logger.Logger) (*NetworkRackHTTP, error) {
	baseURL, err := normalizeBaseURL(baseAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid network rack address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.SetBaseURL(baseURL).SetTimeout(timeout)

	return &NetworkRackHTTP{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Execute implements NetworkRack. It issues one resty request carrying the
// descriptor's method, headers, query/search, and body, and folds the
// backend's status code and body into a Response without interpreting it —
// error-envelope interpretation is the core's job (spec.md §4.2 Step C).
func (n *NetworkRackHTTP) Execute(ctx context.Context, d models.RequestDescriptor) (models.Response, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(d.Timeout)*time.Millisecond)
		defer cancel()
	}
	req := n.client.R().SetContext(ctx)

	for k, v := range d.Headers {
		req.SetHeader(k, v)
	}
	for k, v := range d.Search {
		req.SetQueryParam(k, v)
	}
	if ids := extractIDsFilter(d.Query); len(ids) > 0 {
		req.SetQueryParam("_id", strings.Join(ids, ","))
	}
	if d.Data != nil {
		req.SetBody(d.Data)
	}

	var resp *resty.Response
	var err error
	switch d.Method {
	case string(models.MethodGet):
		resp, err = req.Get(d.Pathname)
	case string(models.MethodPost):
		resp, err = req.Post(d.Pathname)
	case string(models.MethodPatch):
		resp, err = req.Patch(d.Pathname)
	case string(models.MethodPut):
		resp, err = req.Put(d.Pathname)
	case string(models.MethodDelete):
		resp, err = req.Delete(d.Pathname)
	default:
		return models.Response{}, fmt.Errorf("network rack: unsupported method %q", d.Method)
	}
	if err != nil {
		n.logger.Err(err).Str("func", "NetworkRackHTTP.Execute").Str("pathname", d.Pathname).Msg("transport error")
		return models.Response{}, fmt.Errorf("network rack transport: %w", err)
	}

	headers := make(map[string]string, len(resp.Header()))
	for k := range resp.Header() {
		headers[k] = resp.Header().Get(k)
	}

	return models.Response{
		StatusCode: resp.StatusCode(),
		Headers:    headers,
		Data:       decodeBody(resp.Body()),
	}, nil
}

func extractIDsFilter(q *models.Query) []string {
	if q == nil || q.Filter == nil {
		return nil
	}
	idClause, ok := q.Filter["_id"].(map[string]any)
	if !ok {
		return nil
	}
	in, ok := idClause["$in"].([]string)
	if !ok {
		return nil
	}
	return in
}
