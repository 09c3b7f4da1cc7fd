// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// DataPolicy selects which store serves a Request and how the other store is
// kept consistent. LocalFirst is an alias for PreferLocal and NetworkOnly is
// an alias for ForceNetwork, matching the two names the source ecosystem uses
// interchangeably.
type DataPolicy string

const (
	PolicyLocalOnly     DataPolicy = "LocalOnly"
	PolicyPreferLocal   DataPolicy = "PreferLocal"
	PolicyForceNetwork  DataPolicy = "ForceNetwork"
	PolicyPreferNetwork DataPolicy = "PreferNetwork"
	PolicyForceLocal    DataPolicy = "ForceLocal"
)

// ParseDataPolicy normalizes the two alias spellings (LocalFirst,
// NetworkOnly) onto their canonical value and validates the result.
func ParseDataPolicy(s string) (DataPolicy, error) {
	switch strings.TrimSpace(s) {
	case "LocalOnly":
		return PolicyLocalOnly, nil
	case "PreferLocal", "LocalFirst":
		return PolicyPreferLocal, nil
	case "ForceNetwork", "NetworkOnly":
		return PolicyForceNetwork, nil
	case "PreferNetwork":
		return PolicyPreferNetwork, nil
	case "ForceLocal":
		return PolicyForceLocal, nil
	default:
		return "", fmt.Errorf("unknown data policy %q", s)
	}
}
