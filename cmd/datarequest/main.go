// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-bridge/internal/client"
	"github.com/MKhiriev/go-data-bridge/internal/config"
	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/internal/request"
	"github.com/MKhiriev/go-data-bridge/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-data-bridge")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	c, err := client.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client")
	}

	req, err := request.New(c, request.Options{
		Method:     "GET",
		Pathname:   "/appdata/demo-app/books",
		DataPolicy: models.PolicyPreferNetwork,
		RequestProperties: &request.RequestProperties{
			AppVersion: buildVersion,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build request")
	}

	resp, err := req.Execute(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("execute request")
	}

	fmt.Printf("status=%d data=%v\n", resp.StatusCode, resp.Data)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
