// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package testinfra starts real backing services for integration tests
// with testcontainers-go. Everything here sits behind the integration
// build tag:
//
//	go test -tags integration ./...
//
// # Redis
//
//	func TestClaims(t *testing.T) {
//	    rc := testinfra.StartRedis(t)
//	    rdb, err := claimstore.Connect(ctx, rc.URL)
//	    ...
//	}
//
// Tests skip when Docker is unavailable. The first run pulls the image.
package testinfra
