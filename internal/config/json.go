// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [StructuredConfig] with JSON tags and a string-or-number
// Duration so config files can write "15s" instead of a raw nanosecond count.
type jsonConfig struct {
	App struct {
		APIVersion        int    `json:"api_version"`
		DeviceInformation string `json:"device_information"`
		DebugHashKey      string `json:"debug_hash_key"`
	} `json:"app,omitempty"`

	Request struct {
		MaxCustomPropsBytes int `json:"max_custom_props_bytes"`
		DefaultTimeoutMS    int `json:"default_timeout_ms"`
		MaxIDsPerRequest    int `json:"max_ids_per_request"`
	} `json:"request,omitempty"`

	Sync struct {
		CollectionName string `json:"collection_name"`
	} `json:"sync,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		Backend string `json:"backend"`
		DB      struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	f, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer f.Close()

	var jc jsonConfig
	if err := json.NewDecoder(f).Decode(&jc); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			APIVersion:        jc.App.APIVersion,
			DeviceInformation: jc.App.DeviceInformation,
			DebugHashKey:      jc.App.DebugHashKey,
		},
		Request: Request{
			MaxCustomPropsBytes: jc.Request.MaxCustomPropsBytes,
			DefaultTimeoutMS:    jc.Request.DefaultTimeoutMS,
			MaxIDsPerRequest:    jc.Request.MaxIDsPerRequest,
		},
		Sync: Sync{CollectionName: jc.Sync.CollectionName},
		Adapter: Adapter{
			HTTPAddress:    jc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jc.Adapter.RequestTimeout),
		},
		Storage: Storage{
			Backend: jc.Storage.Backend,
			DB:      DB{DSN: jc.Storage.DB.DSN},
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
