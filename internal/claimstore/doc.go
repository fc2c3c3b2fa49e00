// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package claimstore implements refresh.ClaimStore on Redis, BadgerDB and
// process memory.
//
// Redis is the production backend: a claim is SET NX EX and a trace event
// is XADD. Badger keeps the same semantics on a single node without Redis,
// and Memory backs tests and dry runs.
package claimstore
