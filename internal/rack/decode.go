// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rack

import "encoding/json"

// decodeBody best-effort decodes a JSON response body into a generic
// any (map, slice, or scalar). An empty body decodes to nil and a body that
// is not valid JSON is returned as a string, never as an error — Step C of
// the dispatcher only inspects the body
// when the status is non-2xx, and malformed error bodies are reported as a
// generic KinveyError rather than a decode failure.
func decodeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}
