// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package request implements the request-execution core of the go-data-bridge
// SDK: the Request object, its header/credential assembly, the data-policy
// dispatcher, the sync-queue notifier, and the delta-set synchronization
// algorithm.
//
// A Request is constructed once via New, mutated only through its own
// setters, and executed exactly once via Execute — a second concurrent call
// fails fast with ErrAlreadyExecuting rather than queuing.
package request
