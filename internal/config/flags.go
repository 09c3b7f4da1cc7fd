// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-adapter-http-address base URL of the remote network backend
//	-request-timeout      network rack request timeout (e.g. "15s")
//	-storage-backend      cache rack backend ("sqlite" or "postgres")
//	-storage-dsn          cache rack DSN (sqlite file path or postgres URI)
//	-c/-config            JSON config file path
func ParseFlags() *StructuredConfig {
	var (
		httpAddress    string
		requestTimeout time.Duration
		backend        string
		dsn            string
		jsonConfigPath string
	)

	flag.StringVar(&httpAddress, "adapter-http-address", "", "Base URL of the remote network backend")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Network rack request timeout (e.g. 15s)")
	flag.StringVar(&backend, "storage-backend", "", "Cache rack backend (sqlite or postgres)")
	flag.StringVar(&dsn, "storage-dsn", "", "Cache rack DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    httpAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			Backend: backend,
			DB:      DB{DSN: dsn},
		},
		JSONFilePath: jsonConfigPath,
	}
}
