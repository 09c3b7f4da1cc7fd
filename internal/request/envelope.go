// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import "github.com/MKhiriev/go-data-bridge/models"

// decodeErrorEnvelope coerces a non-2xx response body (already decoded into
// a generic any by the rack) into models.ErrorEnvelope. A body that is not
// shaped like an envelope decodes to a zero ErrorEnvelope, which
// finalizeResponse still reports as a generic KinveyError.
func decodeErrorEnvelope(data any) models.ErrorEnvelope {
	m, ok := data.(map[string]any)
	if !ok {
		return models.ErrorEnvelope{}
	}

	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}

	return models.ErrorEnvelope{
		Name:        str("name"),
		Message:     str("message"),
		Description: str("description"),
		Error:       str("error"),
		Debug:       str("debug"),
	}
}
