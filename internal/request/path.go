// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"fmt"
	"strings"
)

// Path is the decomposed form of a pathname per the
// /:namespace/:appId/:collection(/:id)?/? grammar (spec.md §3).
type Path struct {
	Namespace  string
	AppID      string
	Collection string
	ID         string
}

// ParsePath validates pathname against the grammar and recovers its parts.
// The id segment is optional; everything else is required.
func ParsePath(pathname string) (Path, error) {
	trimmed := strings.Trim(pathname, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Path{}, fmt.Errorf("%w: malformed path %q", ErrInvalidInput, pathname)
	}

	p := Path{Namespace: parts[0], AppID: parts[1], Collection: parts[2]}
	if len(parts) >= 4 && parts[3] != "" {
		p.ID = parts[3]
	}
	return p, nil
}
