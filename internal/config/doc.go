// Package config provides configuration loading, merging, and validation
// facilities for the go-data-bridge SDK.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields, defaults lowest):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Package defaults
//
// The entry point is [GetStructuredConfig].
package config
