// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-data-bridge/internal/utils"
	"github.com/MKhiriev/go-data-bridge/models"
)

// tokenStore holds the bearer token issued by a prior login/register call.
// Requests read it lazily through an AuthFunc closure rather than a static
// descriptor, so a token refreshed mid-session is picked up by the next
// Request without rebuilding it.
type tokenStore struct {
	mu    sync.RWMutex
	token string
}

// SetAuthToken installs the bearer token subsequent requests authenticate
// with. Pass an empty string to clear it.
func (c *Client) SetAuthToken(token string) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()
	c.tokens.token = strings.TrimSpace(token)
}

func (c *Client) authToken() string {
	c.tokens.mu.RLock()
	defer c.tokens.mu.RUnlock()
	return c.tokens.token
}

// AuthFromToken returns a models.AuthFunc closure suitable for
// request.Options.Auth.Closure: it reads whatever token is currently
// installed via SetAuthToken and frames it as Kinvey-scheme credentials.
// The subject claim is parsed off the token purely to fail fast on a
// malformed token before the request ever reaches the network rack; the
// token's authenticity was already established when it was issued.
func (c *Client) AuthFromToken() models.AuthFunc {
	return func(any) (models.AuthDescriptor, error) {
		token := c.authToken()
		if token == "" {
			return models.AuthDescriptor{}, fmt.Errorf("client: no auth token installed")
		}
		if _, err := utils.ParseSubjectFromJWT(token); err != nil {
			return models.AuthDescriptor{}, fmt.Errorf("client: parse auth token: %w", err)
		}
		return models.AuthDescriptor{Scheme: "Kinvey", Credentials: token}, nil
	}
}
