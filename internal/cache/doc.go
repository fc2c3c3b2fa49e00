// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

// Package cache provides a size-bounded LRU cache with per-entry expiry.
//
// Get refreshes recency; an expired entry counts as a miss and is dropped
// on access. When the cache is full the least recently used entry is
// evicted. Keys are strings; Key derives a stable one from arbitrary parts.
package cache
